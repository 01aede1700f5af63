// Package quantity extracts labeled numbers and units from normalized
// problem text and converts them to canonical SI base units.
//
// All functions expect text that has already been through textnorm.Normalize.
//
// Extraction:
//   - ParseNumber and ParsePercentOrNumber read the first number in a string
//   - FindValue reads the first number after a label, plus a unit token from
//     a short trailing window
//   - FindIndexed reads indexed symbols such as R1, R2, R3 keyed by subscript
//   - ExtractNumberList and ExtractMatrix read list and matrix literals
//
// Conversion:
//
// Each physical quantity kind (Length, Pressure, Resistance, ...) is a table
// of unit factors relative to one base unit. Kind.ToBase converts a value.
// When no unit was found the base unit is assumed; an unknown non-empty unit
// is reported as not converted. Temperature is handled separately by
// ToKelvin because an absolute temperature and a temperature difference
// convert differently.
package quantity
