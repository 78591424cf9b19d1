// Package config resolves the effective rule configuration for a lint run.
//
// A Configuration is built by folding layers over the built-in defaults, in
// a fixed order:
//
//  1. defaults (no rules enabled)
//  2. the named preset
//  3. the explicit or discovered configuration file
//  4. per file: the sidecar file <path>.squall.yaml, then inline
//     squall-enable / squall-disable directives
//
// A later layer's option keys override an earlier layer's keys for the same
// rule; keys it does not name fall through. Merging never mutates its inputs.
package config
