// Package verify checks a reported final answer against an independent
// recomputation.
//
// # Purpose
//
// A solved problem arrives as free text: a question, OCR-like raw text,
// worked steps and a final answer. This package decides which academic
// subject the problem belongs to, extracts the given quantities from the
// problem statement, recomputes what the answer should be from first
// principles and reports every comparison it made.
//
// # Design Philosophy
//
// Each subject is a separate Verifier plugin. A plugin decides on its own
// whether it applies, reads its own inputs and emits one Check per
// comparison. This keeps each subject's formulas and vocabulary in one
// file and lets plugins be tested in isolation, which matters because the
// router's ranking is a heuristic:
//  1. Every plugin may be tested without the router
//  2. The router only orders plugins, it never decides correctness
//  3. New subjects are added by appending to the declaration list
//
// # Inapplicable Versus Wrong
//
// A plugin that cannot find enough labeled inputs returns no verification
// (nil). It never guesses, and it never returns a Verification with zero
// checks. Callers map nil to "unverified", which is distinct from a
// verification whose checks failed ("mismatch").
//
// # Routing
//
// The Engine scores every plugin by keyword density over the folded problem
// text, tries the matching plugins in descending score order and returns the
// first verification produced. If none produces one, every matching plugin is
// retried in declaration order. Errors and panics inside a plugin are
// converted to "no result for this plugin" and logged at debug level.
//
// # Usage
//
//	engine := verify.NewEngine(verify.WithLogger(logger))
//	v := engine.Verify(&model.Problem{
//		Question: "Solve 2x + 3 = 11",
//		Final:    "x = 4",
//	})
//	status := verify.Status(v) // model.StatusMatches
//
// # Tolerances
//
// Comparisons use numeric.Tolerance classes: Tight for algebraic identities,
// Reported for closed-form recomputation against rounded answers, Loose for
// iterative methods and money, and Sampled for sampled calculus checks. A
// reported value written with decimals additionally gets half a unit of its
// last written place as absolute slack.
package verify
