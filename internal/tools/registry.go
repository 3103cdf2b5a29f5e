package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/durableai/durable-agent/internal/trajectory"
)

// CatalogEntry is the reasoner-facing view of one registered tool. It is
// serialized into activity inputs, so it carries json tags.
type CatalogEntry struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Args        []ArgField `json:"args,omitempty"`
}

// Registry is the immutable set of tools a conversation may call. It is
// built once per workflow run from the configured tool set; registration
// order is preserved so catalogs render identically on replay.
type Registry struct {
	order   []string
	byName  map[string]Descriptor
	schemas map[string]*jsonschema.Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Descriptor),
		schemas: make(map[string]*jsonschema.Schema),
	}
}

// Register adds a tool. The finish sentinel is rejected, as are duplicate
// names. The tool's argument schema is compiled here so malformed
// descriptors fail at startup rather than mid-turn.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == trajectory.FinishToolName {
		return ErrReservedName
	}
	if d.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if _, exists := r.byName[d.Name]; exists {
		return &DuplicateToolError{Name: d.Name}
	}
	schema, err := compileArgSchema(d)
	if err != nil {
		return fmt.Errorf("tool %s: %w", d.Name, err)
	}
	r.order = append(r.order, d.Name)
	r.byName[d.Name] = d
	r.schemas[d.Name] = schema
	return nil
}

// MustRegister is Register for static tool sets; it panics on error.
func (r *Registry) MustRegister(d Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Get returns the descriptor for name.
func (r *Registry) Get(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Catalog returns the reasoner-facing entries in registration order.
func (r *Registry) Catalog() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(r.order))
	for _, name := range r.order {
		d := r.byName[name]
		out = append(out, CatalogEntry{
			Name:        d.Name,
			Description: d.Description,
			Args:        d.Args,
		})
	}
	return out
}

// ValidateAndShape normalizes reasoner-proposed arguments for a tool call:
// unknown keys are dropped (returned for logging), primitives are coerced to
// the declared type, defaults are filled, and the result is checked against
// the tool's compiled schema. A shaping failure returns a *ValidationError
// naming every bad field; the shaped map is usable only when err is nil.
func (r *Registry) ValidateAndShape(name string, raw map[string]any) (map[string]any, []string, error) {
	d, ok := r.byName[name]
	if !ok {
		return nil, nil, &NotFoundError{Name: name}
	}

	fields := make(map[string]ArgField, len(d.Args))
	for _, f := range d.Args {
		fields[f.Name] = f
	}

	shaped := make(map[string]any, len(d.Args))
	var dropped []string
	var fieldErrs []FieldError

	for k, v := range raw {
		f, known := fields[k]
		if !known {
			dropped = append(dropped, k)
			continue
		}
		coerced, err := coerceValue(v, f.Type)
		if err != nil {
			fieldErrs = append(fieldErrs, FieldError{Field: k, Message: err.Error()})
			continue
		}
		shaped[k] = coerced
	}
	sort.Strings(dropped)

	for _, f := range d.Args {
		if _, present := shaped[f.Name]; present {
			continue
		}
		if f.Default != nil {
			shaped[f.Name] = normalizeDefault(f.Default)
			continue
		}
		if f.Required {
			fieldErrs = append(fieldErrs, FieldError{Field: f.Name, Message: "required argument missing"})
		}
	}

	if len(fieldErrs) > 0 {
		sortFieldErrors(fieldErrs)
		return nil, dropped, &ValidationError{Tool: name, Fields: fieldErrs}
	}

	if err := r.schemas[name].Validate(shaped); err != nil {
		return nil, dropped, schemaErrorToValidationError(name, err)
	}
	return shaped, dropped, nil
}

// coerceValue converts v to the declared JSON Schema primitive. Numeric
// strings become numbers, integral floats satisfy "integer", and boolean
// strings become booleans. All numbers normalize to float64 so shaped maps
// validate and serialize uniformly.
func coerceValue(v any, typ string) (any, error) {
	switch typ {
	case "string":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("must be a string, got %T", v)
		}
		return s, nil

	case "number":
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return nil, fmt.Errorf("must be a number, got %q", n)
			}
			return f, nil
		}
		return nil, fmt.Errorf("must be a number, got %T", v)

	case "integer":
		switch n := v.(type) {
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("must be an integer, got %v", n)
			}
			return n, nil
		case int:
			return float64(n), nil
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err != nil || f != math.Trunc(f) {
				return nil, fmt.Errorf("must be an integer, got %q", n)
			}
			return f, nil
		}
		return nil, fmt.Errorf("must be an integer, got %T", v)

	case "boolean":
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, fmt.Errorf("must be a boolean, got %q", b)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("must be a boolean, got %T", v)
	}
	return v, nil
}

func normalizeDefault(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	}
	return v
}

func sortFieldErrors(errs []FieldError) {
	sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
}

// compileArgSchema builds and compiles the JSON Schema for a descriptor's
// arguments. Unknown keys are dropped before validation, so the schema can
// forbid additional properties outright.
func compileArgSchema(d Descriptor) (*jsonschema.Schema, error) {
	properties := make(map[string]any, len(d.Args))
	required := make([]string, 0, len(d.Args))
	for _, f := range d.Args {
		prop := map[string]any{"type": f.Type}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		properties[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}
	doc := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal argument schema: %w", err)
	}
	schema, err := jsonschema.CompileString(d.Name+".schema.json", string(raw))
	if err != nil {
		return nil, fmt.Errorf("compile argument schema: %w", err)
	}
	return schema, nil
}

// schemaErrorToValidationError flattens a jsonschema validation error into
// per-field detail.
func schemaErrorToValidationError(tool string, err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &ValidationError{Tool: tool, Fields: []FieldError{{Field: "", Message: err.Error()}}}
	}
	var fields []FieldError
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			fields = append(fields, FieldError{
				Field:   e.InstanceLocation,
				Message: e.Message,
			})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	sortFieldErrors(fields)
	return &ValidationError{Tool: tool, Fields: fields}
}
