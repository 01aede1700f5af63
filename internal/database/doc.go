// Package database provides SQLite-based storage for verification results.
//
// ResultDB stores:
//   - runs: one row per `solvecheck verify --save` invocation, with its
//     summary counts
//   - results: one row per verified problem in a run, with the full result
//     serialized as JSON
//
// Design decision: We use SQLite (via modernc.org/sqlite) because the store
// is a single local file, the driver is CGO-free for easy cross-compilation,
// and WAL mode lets `history` read while a run is writing.
package database
