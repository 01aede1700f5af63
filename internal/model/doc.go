// Package model defines the core data structures shared by solvecheck.
//
// This package contains the following main types:
//   - Problem: The structured problem record produced by the upstream classifier
//   - Check: One atomic numeric comparison
//   - Verification: The verdict of one domain plugin for one problem
//   - Result: One verified problem inside a batch run
//   - Report: The outcome of a whole batch run with its Summary
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The verification engine, the pipeline, the report writers and
// the result database all need these types, so centralizing them prevents
// import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage. Verification values are built only through
// NewVerification so that the AllVerified invariant always holds.
package model
