package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/squall/pkg/token"
)

// ConfigNotFoundError is returned when an explicitly named configuration
// file does not exist.
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

// UnknownPresetError is returned for a preset name that is not defined.
type UnknownPresetError struct {
	Name      string
	Available []string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown preset %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// DirectiveError is returned for a malformed inline directive.
type DirectiveError struct {
	Pos    token.Position
	Text   string
	Reason string
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("invalid directive at %s %q: %s", e.Pos, e.Text, e.Reason)
}

// SidecarError is returned when a sidecar file sets keys that only apply
// to a whole run.
type SidecarError struct {
	Path string
	Keys []string
}

func (e *SidecarError) Error() string {
	return fmt.Sprintf("%s: %s cannot be set per file", e.Path, strings.Join(e.Keys, ", "))
}
