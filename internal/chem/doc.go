// Package chem parses molecular formulas and balances chemical equations.
//
// ParseFormula reads formulas with nested groups and hydrates
// ("Ca(OH)2", "K4[Fe(CN)6]", "CuSO4*5H2O") into element counts, and
// MolarMass sums them against the standard atomic weight table.
//
// Balance finds the smallest positive integer coefficients for an equation
// such as "H2 + O2 -> H2O" as the integer null space of the element-count
// matrix. The elimination runs over math/big.Rat so that no rounding can
// turn a solvable system into an unsolvable one.
package chem
