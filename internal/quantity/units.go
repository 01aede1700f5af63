package quantity

import (
	"math"
	"sort"
	"strings"
)

// Kind is a physical quantity kind with a table of unit factors relative to
// its base unit.
//
// Design decision: Kinds are package-level values built once from literal
// tables and never mutated, so they are safe to share across goroutines.
type Kind struct {
	name    string
	base    string
	factors map[string]float64
	lower   map[string]float64
	units   []string
}

func newKind(name, base string, factors map[string]float64) *Kind {
	k := &Kind{
		name:    name,
		base:    base,
		factors: factors,
		lower:   make(map[string]float64),
	}
	// Case-insensitive lookup only for spellings that stay unambiguous.
	seen := make(map[string]int)
	for u := range factors {
		seen[strings.ToLower(u)]++
	}
	for u, f := range factors {
		if l := strings.ToLower(u); seen[l] == 1 {
			k.lower[l] = f
		}
	}
	for u := range factors {
		k.units = append(k.units, u)
	}
	sort.Slice(k.units, func(i, j int) bool {
		if len(k.units[i]) != len(k.units[j]) {
			return len(k.units[i]) > len(k.units[j])
		}
		return k.units[i] < k.units[j]
	})
	return k
}

// Name returns the kind name.
func (k *Kind) Name() string { return k.name }

// Base returns the base unit token.
func (k *Kind) Base() string { return k.base }

// Units returns the known unit tokens, longest first, for use as hints.
func (k *Kind) Units() []string {
	out := make([]string, len(k.units))
	copy(out, k.units)
	return out
}

// ToBase converts value from unit to the base unit. An empty unit means
// the value is already in the base unit.
func (k *Kind) ToBase(value float64, unit string) (float64, bool) {
	u := CanonicalUnit(unit)
	if u == "" {
		return value, true
	}
	if f, ok := k.factors[u]; ok {
		return value * f, true
	}
	if f, ok := k.lower[strings.ToLower(u)]; ok {
		return value * f, true
	}
	return 0, false
}

// FromBase converts a base-unit value to unit.
func (k *Kind) FromBase(value float64, unit string) (float64, bool) {
	f, ok := k.ToBase(1, unit)
	if !ok || f == 0 {
		return 0, false
	}
	return value / f, true
}

// CanonicalUnit rewrites raw unit spellings ("kΩ", "m²", "Pa·s") into the
// ASCII tokens used by the unit tables.
func CanonicalUnit(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	r := strings.NewReplacer(
		"\u2126", "ohm", "\u03a9", "ohm", "\u00b5", "u", "\u03bc", "u",
		"²", "^2", "³", "^3", "⁴", "^4", "·", "*", "⋅", "*", " ", "",
	)
	return r.Replace(u)
}

// Kinds used by the domain plugins. Base units are SI.
var (
	Length = newKind("length", "m", map[string]float64{
		"m": 1, "km": 1e3, "cm": 1e-2, "mm": 1e-3, "um": 1e-6, "nm": 1e-9,
		"in": 0.0254, "inch": 0.0254, "inches": 0.0254, "ft": 0.3048, "feet": 0.3048, "foot": 0.3048,
		"yd": 0.9144, "mi": 1609.344, "mile": 1609.344, "miles": 1609.344,
		"meter": 1, "meters": 1, "metre": 1, "metres": 1,
	})

	Area = newKind("area", "m^2", map[string]float64{
		"m^2": 1, "m2": 1, "cm^2": 1e-4, "cm2": 1e-4, "mm^2": 1e-6, "mm2": 1e-6, "km^2": 1e6,
		"ft^2": 0.09290304, "in^2": 6.4516e-4, "ha": 1e4, "acre": 4046.8564224, "acres": 4046.8564224,
	})

	Volume = newKind("volume", "m^3", map[string]float64{
		"m^3": 1, "m3": 1, "L": 1e-3, "l": 1e-3, "liter": 1e-3, "liters": 1e-3, "litre": 1e-3, "litres": 1e-3,
		"mL": 1e-6, "ml": 1e-6, "cm^3": 1e-6, "cm3": 1e-6, "cc": 1e-6, "mm^3": 1e-9, "dm^3": 1e-3,
		"ft^3": 0.028316846592, "in^3": 1.6387064e-5, "gal": 3.785411784e-3, "gallon": 3.785411784e-3, "gallons": 3.785411784e-3,
	})

	Flow = newKind("flow", "m^3/s", map[string]float64{
		"m^3/s": 1, "m3/s": 1, "L/s": 1e-3, "l/s": 1e-3, "L/min": 1e-3 / 60, "mL/s": 1e-6,
		"m^3/h": 1.0 / 3600, "m^3/min": 1.0 / 60, "gpm": 3.785411784e-3 / 60, "cfs": 0.028316846592, "ft^3/s": 0.028316846592,
	})

	Density = newKind("density", "kg/m^3", map[string]float64{
		"kg/m^3": 1, "kg/m3": 1, "g/cm^3": 1000, "g/cm3": 1000, "g/mL": 1000, "g/ml": 1000, "g/cc": 1000,
		"kg/L": 1000, "g/L": 1, "lb/ft^3": 16.018463373960138,
	})

	Viscosity = newKind("viscosity", "Pa*s", map[string]float64{
		"Pa*s": 1, "Pa.s": 1, "Pas": 1, "N*s/m^2": 1, "cP": 1e-3, "cp": 1e-3, "P": 0.1, "mPa*s": 1e-3, "mPa.s": 1e-3,
	})

	Pressure = newKind("pressure", "Pa", map[string]float64{
		"Pa": 1, "hPa": 100, "kPa": 1e3, "MPa": 1e6, "GPa": 1e9, "N/m^2": 1, "N/mm^2": 1e6,
		"bar": 1e5, "mbar": 100, "atm": 101325, "psi": 6894.757293168361, "ksi": 6894757.293168361,
		"mmHg": 133.322387415, "torr": 133.32236842105263, "Torr": 133.32236842105263,
	})

	Energy = newKind("energy", "J", map[string]float64{
		"J": 1, "kJ": 1e3, "MJ": 1e6, "mJ": 1e-3, "cal": 4.184, "kcal": 4184, "Cal": 4184,
		"Wh": 3600, "kWh": 3.6e6, "eV": 1.602176634e-19, "BTU": 1055.05585262, "Btu": 1055.05585262,
		"N*m": 1, "joule": 1, "joules": 1,
	})

	Power = newKind("power", "W", map[string]float64{
		"W": 1, "kW": 1e3, "MW": 1e6, "mW": 1e-3, "GW": 1e9, "hp": 745.6998715822702,
		"BTU/h": 0.29307107017222, "J/s": 1, "watt": 1, "watts": 1,
	})

	Resistance = newKind("resistance", "ohm", map[string]float64{
		"ohm": 1, "ohms": 1, "kohm": 1e3, "kohms": 1e3, "Mohm": 1e6, "Mohms": 1e6, "mohm": 1e-3,
		"k": 1e3, "M": 1e6,
	})

	Angle = newKind("angle", "rad", map[string]float64{
		"rad": 1, "radian": 1, "radians": 1, "mrad": 1e-3,
		"°": math.Pi / 180, "deg": math.Pi / 180, "degree": math.Pi / 180, "degrees": math.Pi / 180,
	})

	Mass = newKind("mass", "kg", map[string]float64{
		"kg": 1, "g": 1e-3, "mg": 1e-6, "ug": 1e-9, "t": 1e3, "tonne": 1e3, "tonnes": 1e3,
		"lb": 0.45359237, "lbs": 0.45359237, "oz": 0.028349523125, "grams": 1e-3, "gram": 1e-3,
	})

	Time = newKind("time", "s", map[string]float64{
		"s": 1, "sec": 1, "secs": 1, "second": 1, "seconds": 1, "ms": 1e-3, "us": 1e-6, "ns": 1e-9,
		"min": 60, "mins": 60, "minute": 60, "minutes": 60, "h": 3600, "hr": 3600, "hrs": 3600, "hour": 3600, "hours": 3600,
		"day": 86400, "days": 86400,
	})

	Force = newKind("force", "N", map[string]float64{
		"N": 1, "kN": 1e3, "MN": 1e6, "mN": 1e-3, "lbf": 4.4482216152605, "dyn": 1e-5, "kgf": 9.80665,
		"newton": 1, "newtons": 1,
	})

	Velocity = newKind("velocity", "m/s", map[string]float64{
		"m/s": 1, "km/h": 1 / 3.6, "kph": 1 / 3.6, "kmh": 1 / 3.6, "mph": 0.44704, "ft/s": 0.3048,
		"cm/s": 1e-2, "knot": 0.5144444444444445, "knots": 0.5144444444444445,
	})

	Acceleration = newKind("acceleration", "m/s^2", map[string]float64{
		"m/s^2": 1, "m/s2": 1, "ft/s^2": 0.3048, "cm/s^2": 1e-2,
	})

	Current = newKind("current", "A", map[string]float64{
		"A": 1, "mA": 1e-3, "uA": 1e-6, "kA": 1e3, "amp": 1, "amps": 1,
	})

	Voltage = newKind("voltage", "V", map[string]float64{
		"V": 1, "mV": 1e-3, "uV": 1e-6, "kV": 1e3, "volt": 1, "volts": 1,
	})

	Capacitance = newKind("capacitance", "F", map[string]float64{
		"F": 1, "mF": 1e-3, "uF": 1e-6, "nF": 1e-9, "pF": 1e-12,
	})

	Inductance = newKind("inductance", "H", map[string]float64{
		"H": 1, "mH": 1e-3, "uH": 1e-6, "nH": 1e-9,
	})

	Frequency = newKind("frequency", "Hz", map[string]float64{
		"Hz": 1, "kHz": 1e3, "MHz": 1e6, "GHz": 1e9,
	})

	Moment = newKind("moment", "N*m", map[string]float64{
		"N*m": 1, "Nm": 1, "N-m": 1, "kN*m": 1e3, "kNm": 1e3, "kN-m": 1e3, "N*mm": 1e-3, "Nmm": 1e-3,
		"lbf*ft": 1.3558179483314004, "ft*lb": 1.3558179483314004,
	})

	SpecificHeat = newKind("specific heat", "J/(kg*K)", map[string]float64{
		"J/(kg*K)": 1, "J/kg*K": 1, "J/kgK": 1, "J/(kg*°C)": 1, "J/kg*°C": 1, "J/kg°C": 1,
		"kJ/(kg*K)": 1e3, "kJ/kg*K": 1e3, "kJ/kgK": 1e3, "kJ/(kg*°C)": 1e3, "kJ/kg°C": 1e3,
		"J/(g*°C)": 1e3, "J/g*°C": 1e3, "J/g°C": 1e3, "J/(g*K)": 1e3, "J/gK": 1e3,
		"cal/(g*°C)": 4184, "cal/g°C": 4184,
	})

	LatentHeat = newKind("latent heat", "J/kg", map[string]float64{
		"J/kg": 1, "kJ/kg": 1e3, "MJ/kg": 1e6, "J/g": 1e3, "cal/g": 4184,
	})

	Conductivity = newKind("thermal conductivity", "W/(m*K)", map[string]float64{
		"W/(m*K)": 1, "W/m*K": 1, "W/mK": 1, "W/(m*°C)": 1, "W/m°C": 1, "W/m*°C": 1,
	})

	FilmCoefficient = newKind("heat transfer coefficient", "W/(m^2*K)", map[string]float64{
		"W/(m^2*K)": 1, "W/m^2*K": 1, "W/m^2K": 1, "W/(m^2*°C)": 1, "W/m^2°C": 1, "W/m^2*°C": 1,
	})

	AreaMoment = newKind("second moment of area", "m^4", map[string]float64{
		"m^4": 1, "cm^4": 1e-8, "mm^4": 1e-12, "in^4": 4.162314256e-7,
	})

	Concentration = newKind("concentration", "mol/L", map[string]float64{
		"M": 1, "mol/L": 1, "mol/l": 1, "mM": 1e-3, "mmol/L": 1e-3, "mol/m^3": 1e-3,
	})

	Amount = newKind("amount", "mol", map[string]float64{
		"mol": 1, "moles": 1, "mole": 1, "mmol": 1e-3, "kmol": 1e3,
	})

	Stiffness = newKind("spring constant", "N/m", map[string]float64{
		"N/m": 1, "kN/m": 1e3, "N/cm": 100, "N/mm": 1e3,
	})

	Distributed = newKind("distributed load", "N/m", map[string]float64{
		"N/m": 1, "kN/m": 1e3, "N/mm": 1e3, "lb/ft": 14.593902937206364,
	})
)

// Named converters for the most common kinds.

// ToMeters converts a length to meters.
func ToMeters(v float64, unit string) (float64, bool) { return Length.ToBase(v, unit) }

// ToPa converts a pressure to pascals.
func ToPa(v float64, unit string) (float64, bool) { return Pressure.ToBase(v, unit) }

// ToOhms converts a resistance or impedance to ohms.
func ToOhms(v float64, unit string) (float64, bool) { return Resistance.ToBase(v, unit) }

// ToJoules converts an energy to joules.
func ToJoules(v float64, unit string) (float64, bool) { return Energy.ToBase(v, unit) }

// ToWatts converts a power to watts.
func ToWatts(v float64, unit string) (float64, bool) { return Power.ToBase(v, unit) }

// ToRadians converts an angle to radians.
func ToRadians(v float64, unit string) (float64, bool) { return Angle.ToBase(v, unit) }

// ToKilograms converts a mass to kilograms.
func ToKilograms(v float64, unit string) (float64, bool) { return Mass.ToBase(v, unit) }

// ToSeconds converts a time to seconds.
func ToSeconds(v float64, unit string) (float64, bool) { return Time.ToBase(v, unit) }

// TemperatureUnits are the recognized temperature tokens, longest first.
var TemperatureUnits = []string{"fahrenheit", "celsius", "kelvin", "degF", "degC", "°F", "°C", "°R", "K", "C", "F"}

// ToKelvin converts a temperature to kelvin. When delta is true the value is
// a temperature difference: a difference in °C equals the same difference in
// K, and a difference in °F is scaled by 5/9 with no offset.
func ToKelvin(v float64, unit string, delta bool) (float64, bool) {
	switch strings.TrimSpace(unit) {
	case "", "K", "kelvin":
		return v, true
	case "°C", "C", "degC", "celsius", "Celsius":
		if delta {
			return v, true
		}
		return v + 273.15, true
	case "°F", "F", "degF", "fahrenheit", "Fahrenheit":
		if delta {
			return v * 5 / 9, true
		}
		return (v-32)*5/9 + 273.15, true
	case "°R", "R":
		return v * 5 / 9, true
	}
	return 0, false
}
