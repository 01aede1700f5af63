// Package numeric holds the numerical methods shared by the domain verifiers.
//
//   - Tolerance: combined relative and absolute comparison, in four classes
//   - Simpson quadrature, central differences and limit estimation
//   - Newton's method with a bisection fallback on a sign-changing bracket
//   - Special functions: log-gamma based combinatorics, normal and Student-t
//     distributions, the regularized incomplete beta function
//   - Dense linear algebra by Gaussian and Gauss-Jordan elimination
//
// Every loop in this package has a fixed iteration bound, so every call
// terminates in time that depends on input size, never on input values.
package numeric
