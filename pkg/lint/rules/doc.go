// Package rules provides the lint rules shipped with squall.
//
// Rules are organized by group:
//   - query: query hygiene (no-select-star, disallow-not-in)
//   - migration: lock-safety of schema changes (require-concurrent-index,
//     disallow-change-column-type, add-column-disallow-constraints,
//     disallow-rename-enum-value)
//   - types: column types to avoid (disallow-float-types,
//     disallow-padded-char-type, disallow-timetz-type)
//   - schema: table shape policies (require-primary-key, disallow-foreign-key,
//     require-columns)
//
// Rules are not registered implicitly. Load them into a registry once:
//
//	reg := lint.NewRegistry()
//	if err := rules.LoadBuiltins(reg); err != nil {
//		return err
//	}
package rules
