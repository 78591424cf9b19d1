// Package core defines the vocabulary shared by the squall packages.
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// Every other package may depend on core, never the reverse.
package core
