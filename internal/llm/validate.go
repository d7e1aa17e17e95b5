package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
)

var compiled sync.Map // schema name -> *jsonschema.Schema

// Validate checks raw against schema. A nil schema accepts anything. On
// failure it returns a KindInvalid *Error whose Field names the first
// offending property.
func Validate(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return invalid(raw, "", fmt.Errorf("decode JSON: %w", err))
	}

	sch, err := compile(schema)
	if err != nil {
		return invalid(raw, "", err)
	}
	if err := sch.Validate(doc); err != nil {
		return invalid(raw, failingField(err), err)
	}
	return nil
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	if s, ok := compiled.Load(schema.Name); ok {
		return s.(*jsonschema.Schema), nil
	}

	// AddResource wants decoded JSON, so round-trip the Go literal map.
	b, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", schema.Name, err)
	}
	def, err := jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", schema.Name, err)
	}

	url := "mem://" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("schema %q: %w", schema.Name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", schema.Name, err)
	}
	compiled.Store(schema.Name, s)
	return s, nil
}

// failingField walks to the first leaf validation error and names the
// property it is about.
func failingField(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return ""
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	if len(ve.InstanceLocation) > 0 {
		return strings.Join(ve.InstanceLocation, ".")
	}
	switch k := ve.ErrorKind.(type) {
	case *kind.Required:
		if len(k.Missing) > 0 {
			return k.Missing[0]
		}
	case *kind.AdditionalProperties:
		if len(k.Properties) > 0 {
			return k.Properties[0]
		}
	}
	return ""
}
