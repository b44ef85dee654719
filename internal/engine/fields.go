package engine

import (
	"sort"
	"strings"

	"github.com/halcyon-bi/dbspec/internal/enginerr"
)

// FieldType is the JSON-schema type of a connection parameter.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldInteger FieldType = "integer"
)

// ParameterField describes one connection parameter. A single field table per
// adapter drives both required-parameter validation and the rendered form
// schema, so the two cannot drift apart.
type ParameterField struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
	Sensitive   bool
}

// Schema is a JSON-Schema object describing an adapter's connection
// parameters, consumed by the host to render the connection-setup form.
type Schema struct {
	Type       string                 `json:"type"`
	Properties map[string]*SchemaProp `json:"properties"`
	Required   []string               `json:"required,omitempty"`
}

// SchemaProp describes a single parameter in the schema.
type SchemaProp struct {
	Type        FieldType `json:"type"`
	Description string    `json:"description,omitempty"`
	WriteOnly   bool      `json:"writeOnly,omitempty"`
}

// BuildSchema derives the parameters schema from a field table. Required
// names are emitted in declaration order; sensitive fields are flagged
// writeOnly so forms treat them as secrets.
func BuildSchema(fields []ParameterField) *Schema {
	schema := &Schema{
		Type:       "object",
		Properties: make(map[string]*SchemaProp, len(fields)),
	}
	for _, f := range fields {
		schema.Properties[f.Name] = &SchemaProp{
			Type:        f.Type,
			Description: f.Description,
			WriteOnly:   f.Sensitive,
		}
		if f.Required {
			schema.Required = append(schema.Required, f.Name)
		}
	}
	return schema
}

// MissingParameters returns a missing-parameters engine error when any
// required field has no value yet, or nil once all are present. The missing
// names are sorted so the result is deterministic regardless of map order,
// and supplying more fields can only shrink the list.
func MissingParameters(params Parameters, fields []ParameterField) *enginerr.EngineError {
	var missing []string
	for _, f := range fields {
		if f.Required && !params.Present(f.Name) {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)

	return enginerr.New(
		enginerr.TypeMissingParameters,
		"One or more parameters are missing: "+strings.Join(missing, ", "),
		map[string]any{"missing": missing},
	)
}
