// Package main provides the entry point for the solvecheck CLI.
//
// solvecheck verifies the final answers of solved problems by recomputing
// them from first principles. Problem records are read from JSON, JSON Lines
// or YAML files and verified concurrently.
//
// Usage:
//
//	solvecheck verify problems.jsonl
//	solvecheck verify --markdown -o report.md set1.json set2.yaml
//	solvecheck compare --run <run-a> --with <run-b>
//
// See --help for all available options.
package main

func main() {
	Execute()
}
