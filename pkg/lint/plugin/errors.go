package plugin

import (
	"errors"
	"fmt"
)

// ErrAlreadyLoaded is wrapped by a PluginLoadError when a source is loaded
// twice by the same Loader.
var ErrAlreadyLoaded = errors.New("plugin source already loaded")

// PluginLoadError is returned when a plugin source cannot be loaded.
type PluginLoadError struct {
	Source string
	Err    error
}

func (e *PluginLoadError) Error() string {
	return fmt.Sprintf("loading plugin %s: %v", e.Source, e.Err)
}

func (e *PluginLoadError) Unwrap() error {
	return e.Err
}
