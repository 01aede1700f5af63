package quantity

import (
	"math"
	"testing"
)

func TestUnitConversions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		convert  func(float64, string) (float64, bool)
		value    float64
		unit     string
		expected float64
	}{
		{"kilo-ohm glyph", ToOhms, 1, "kΩ", 1000},
		{"kilo-ohm ascii", ToOhms, 1, "kohm", 1000},
		{"mega-ohm", ToOhms, 2, "MΩ", 2e6},
		{"centimeters", ToMeters, 250, "cm", 2.5},
		{"feet", ToMeters, 1, "ft", 0.3048},
		{"atmospheres", ToPa, 1, "atm", 101325},
		{"kilopascal", ToPa, 3, "kPa", 3000},
		{"kilojoule", ToJoules, 2, "kJ", 2000},
		{"calorie", ToJoules, 1, "cal", 4.184},
		{"kilowatt", ToWatts, 1.5, "kW", 1500},
		{"degrees", ToRadians, 180, "°", math.Pi},
		{"grams", ToKilograms, 500, "g", 0.5},
		{"minutes", ToSeconds, 2, "min", 120},
		{"no unit means base", ToMeters, 7, "", 7},
		{"case-insensitive fallback", ToPa, 2, "KPA", 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := tt.convert(tt.value, tt.unit)
			if !ok {
				t.Fatalf("expected conversion of %q to succeed", tt.unit)
			}
			if math.Abs(got-tt.expected) > 1e-9*math.Max(1, math.Abs(tt.expected)) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestUnknownUnitIsNotConverted(t *testing.T) {
	t.Parallel()

	if _, ok := ToMeters(1, "parsec-ish"); ok {
		t.Error("expected unknown unit to fail")
	}
}

func TestToKelvin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    float64
		unit     string
		delta    bool
		expected float64
	}{
		{"celsius absolute", 0, "°C", false, 273.15},
		{"celsius delta", 0, "°C", true, 0},
		{"celsius delta equals kelvin delta", 15, "°C", true, 15},
		{"fahrenheit absolute", 212, "°F", false, 373.15},
		{"fahrenheit delta", 9, "°F", true, 5},
		{"kelvin", 300, "K", false, 300},
		{"no unit", 300, "", false, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ToKelvin(tt.value, tt.unit, tt.delta)
			if !ok || math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %v, got %v (ok=%v)", tt.expected, got, ok)
			}
		})
	}
}

func TestFromBase(t *testing.T) {
	t.Parallel()

	got, ok := Length.FromBase(1, "cm")
	if !ok || math.Abs(got-100) > 1e-9 {
		t.Errorf("expected 100, got %v", got)
	}
}

func TestUnitsLongestFirst(t *testing.T) {
	t.Parallel()

	units := Pressure.Units()
	for i := 1; i < len(units); i++ {
		if len(units[i]) > len(units[i-1]) {
			t.Fatalf("units not sorted longest first: %q before %q", units[i-1], units[i])
		}
	}
}
