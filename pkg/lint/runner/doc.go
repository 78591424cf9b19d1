// Package runner applies configured rules to SQL files.
//
// A run has two phases. Setup loads rules into a lint.Registry and resolves
// the base config.Configuration; any error there is fatal. Execution then
// lints each file independently, in parallel. Per-file failures never abort
// the run: a file that cannot be read, parsed or configured yields one
// parse-error issue, and a rule that cannot be built or fails yields one
// execution-error issue.
package runner
