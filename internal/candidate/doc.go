// Package candidate turns a free-text final answer into structured values.
//
// A reported final answer can take many shapes:
//
//	4
//	x = 4
//	x = 2 or x = -3
//	x = 3 ± 0.5
//	(3, 4)
//	x = 1, y = 2
//	[1, 2, 3]
//	[[1, 0], [0, 1]]
//	I = 5 A
//
// Parse splits the answer into labeled clauses, each holding one or more
// alternative values, a vector or a matrix. FromFinal binds the clauses to
// an ordered variable list and enumerates every assignment as a Candidate,
// taking the Cartesian product when several variables each carry several
// values and dropping duplicates.
//
// Values may be small constant expressions ("3/4", "sqrt(2)", "2pi"); a
// trailing unit token is ignored.
package candidate
