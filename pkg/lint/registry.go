package lint

import (
	"errors"
	"iter"
	"slices"
	"sync"
)

// Registry stores rule descriptors keyed by name.
//
// A registry is populated during a single load phase (builtins, then
// plugins) and frozen before linting starts. Reads are safe from any
// goroutine.
type Registry struct {
	mu             sync.RWMutex
	rules          map[string]RuleDescriptor
	builtinsLoaded bool
	frozen         bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]RuleDescriptor)}
}

// Register adds a single descriptor.
func (r *Registry) Register(desc RuleDescriptor) error {
	return r.RegisterAll(desc)
}

// RegisterAll adds descriptors atomically: if any of them is invalid or
// collides with a registered name (or with another in the batch), nothing
// is added.
func (r *Registry) RegisterAll(descs ...RuleDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(descs)
}

func (r *Registry) registerLocked(descs []RuleDescriptor) error {
	if r.frozen {
		return ErrRegistryFrozen
	}

	seen := make(map[string]bool, len(descs))
	var errs []error
	for _, d := range descs {
		if err := d.validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, ok := r.rules[d.Name]; ok || seen[d.Name] {
			errs = append(errs, &DuplicateRuleError{Name: d.Name})
			continue
		}
		seen[d.Name] = true
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, d := range descs {
		r.rules[d.Name] = d
	}
	return nil
}

// LoadBuiltins registers the built-in rule set. It must be called exactly
// once, before any other rule is registered.
func (r *Registry) LoadBuiltins(descs ...RuleDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.builtinsLoaded {
		return ErrBuiltinsLoaded
	}
	if r.frozen {
		return ErrRegistryFrozen
	}
	if len(r.rules) > 0 {
		return errors.New("builtin rules must be loaded before any other rule")
	}
	if err := r.registerLocked(descs); err != nil {
		return err
	}
	r.builtinsLoaded = true
	return nil
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (RuleDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.rules[name]
	if !ok {
		return RuleDescriptor{}, &UnknownRuleError{Name: name}
	}
	return d, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// All yields every registered descriptor in name order.
func (r *Registry) All() iter.Seq[RuleDescriptor] {
	return func(yield func(RuleDescriptor) bool) {
		for _, name := range r.Names() {
			d, err := r.Get(name)
			if err != nil {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// Names returns the registered rule names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// Instantiate builds the rule registered under name with opts.
func (r *Registry) Instantiate(name string, opts Options) (Rule, error) {
	d, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	rule, err := d.Factory(opts.Clone())
	if err != nil {
		return nil, &InvalidOptionsError{Rule: name, Err: err}
	}
	if rule == nil {
		return nil, &InvalidOptionsError{Rule: name, Err: errors.New("factory returned no rule")}
	}
	return rule, nil
}

// Freeze ends the load phase. Register calls fail afterwards.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}
