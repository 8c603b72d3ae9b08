// Package config contains configuration loading and compile-time
// defaults for synthgen. Edit these values and recompile to tune
// behavior.
package config

// Data generation defaults
const (
	// DefaultNumUsers is the number of user profiles per run
	DefaultNumUsers = 100

	// DefaultHistoryMonths is the transaction window length
	DefaultHistoryMonths = 14

	// DefaultSeed keeps runs reproducible out of the box
	DefaultSeed = 42

	// DefaultOutputDir is where datasets are staged and promoted
	DefaultOutputDir = "./output"
)
