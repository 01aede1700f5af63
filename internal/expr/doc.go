// Package expr is a small, safe arithmetic expression evaluator.
//
// It parses the expressions students write in worked solutions ("2x+3",
// "sqrt(x-1)", "3(x+1)^2", "ln(2)/0.05") into a tree and evaluates the tree
// over a variable assignment. It is not a computer algebra system: it never
// rearranges or simplifies, it only computes.
//
// Grammar (lowest to highest precedence):
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary | unary }   // juxtaposition multiplies
//	unary   = ("-" | "+") unary | power
//	power   = postfix [ ("^" | "**") unary ]      // right associative
//	postfix = primary [ "%" ]
//	primary = number | identifier | call | "(" expr ")" | "|" expr "|"
//
// Identifiers: the functions sqrt, cbrt, abs, exp, ln, log (base 10),
// log(x, b), log2, log10, sin, cos, tan, asin, acos, atan, sinh, cosh, tanh
// and the constants pi and e are built in. A multi-letter identifier made
// only of letters that is not a built-in name is read as a product of
// single-letter variables ("xy" is x*y, "2pir" is 2*pi*r). Identifiers
// containing digits or underscores ("x1", "v_0") are single variables.
//
// Domain checks happen before the unsafe operation: a denominator within
// 1e-12 of zero, a negative square root and a non-positive logarithm are
// reported as a *DomainError with a distinct Kind, never as NaN or Inf.
//
// Nothing in this package panics on malformed input.
package expr
