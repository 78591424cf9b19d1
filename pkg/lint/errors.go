package lint

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the Registry.
var (
	ErrRegistryFrozen    = errors.New("rule registry is frozen")
	ErrBuiltinsLoaded    = errors.New("builtin rules already loaded")
	ErrInvalidDescriptor = errors.New("invalid rule descriptor")
)

// DuplicateRuleError is returned when a rule name is registered twice.
type DuplicateRuleError struct {
	Name string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("rule %q is already registered", e.Name)
}

// UnknownRuleError is returned when a rule name is not in the registry.
type UnknownRuleError struct {
	Name string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("unknown rule %q", e.Name)
}

// InvalidOptionsError is returned when a rule factory rejects its options.
type InvalidOptionsError struct {
	Rule string
	Err  error
}

func (e *InvalidOptionsError) Error() string {
	return fmt.Sprintf("invalid options for rule %q: %v", e.Rule, e.Err)
}

func (e *InvalidOptionsError) Unwrap() error {
	return e.Err
}

// RuleExecutionError is returned when a rule fails or panics while checking
// a file.
type RuleExecutionError struct {
	Rule string
	File string
	Err  error
}

func (e *RuleExecutionError) Error() string {
	return fmt.Sprintf("rule %q failed on %s: %v", e.Rule, e.File, e.Err)
}

func (e *RuleExecutionError) Unwrap() error {
	return e.Err
}
