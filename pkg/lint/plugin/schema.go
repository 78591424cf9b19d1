package plugin

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// optionsSchema validates a rule's options against a JSON schema.
// Uses [github.com/santhosh-tekuri/jsonschema/v6].
type optionsSchema struct {
	schema *jsonschema.Schema
}

// newOptionsSchema compiles the schema document doc, given as decoded
// Starlark data.
func newOptionsSchema(url string, doc any) (*optionsSchema, error) {
	normalized, err := jsonRoundTrip(doc)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, normalized); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	jss, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &optionsSchema{schema: jss}, nil
}

// Validate checks opts. A nil bundle validates as an empty object.
func (s *optionsSchema) Validate(opts map[string]any) error {
	if opts == nil {
		opts = map[string]any{}
	}
	data, err := jsonRoundTrip(opts)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	if err := s.schema.Validate(data); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}

// jsonRoundTrip normalizes Go data to the shapes produced by encoding/json,
// which is what the validator expects.
func jsonRoundTrip(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
