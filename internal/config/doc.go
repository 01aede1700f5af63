// Package config provides the configuration of the solvecheck CLI: the
// options of a verification run, their defaults and validation, the
// optional .solvecheck YAML file, and the XDG directories used for the
// result database.
package config
