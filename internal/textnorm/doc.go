// Package textnorm canonicalizes free problem text before any parsing.
//
// Problem text arrives from OCR and from a language model, so the same
// expression can be written many ways: "2×3", "2·3" and "2*3"; "x²" and
// "x^2"; "√2" and "sqrt(2)"; "−5" with a Unicode minus; "$1,200.00";
// "<sup>2</sup>" left over from an HTML rendering. Normalize maps all of
// these onto one ASCII-like form so that the quantity parsers, the
// candidate extractor and the expression evaluator only ever see one
// spelling.
//
// Normalization steps, in order:
//   - Strip simple HTML markup (golang.org/x/net/html), keeping superscript
//     and subscript content as "^n" and "_n"
//   - Map superscripts, the radical sign and Greek letters to ASCII names
//   - Apply Unicode NFKC compatibility folding (golang.org/x/text/unicode/norm)
//   - Map operators, dashes and comparison glyphs to ASCII
//   - Strip currency symbols and thousands separators outside brackets
//   - Collapse whitespace
//
// Normalize is pure and idempotent: Normalize(Normalize(s)) == Normalize(s).
//
// Fold lower-cases text for keyword matching with full Unicode case folding
// (golang.org/x/text/cases), which the subject router uses for scoring.
package textnorm
