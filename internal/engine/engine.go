// Package engine defines the generic contract every database product adapter
// implements: classification of raw driver error text, progressive validation
// of connection parameters, deterministic URI construction, and a schema
// description of the accepted parameters. The host owns a Registry of
// adapters and looks them up by product name.
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/halcyon-bi/dbspec/internal/enginerr"
)

// Parameters is the partial set of connection parameters as submitted from a
// connection-setup form. Values arrive untyped; an absent key and an empty
// string both mean "not provided yet".
type Parameters map[string]string

// Present reports whether the named parameter has a non-empty value.
func (p Parameters) Present(name string) bool {
	return p[name] != ""
}

// Spec is the contract a database product adapter satisfies. Implementations
// are stateless and safe for concurrent use; all per-call state lives in the
// arguments.
type Spec interface {
	// Name returns the product identifier used for registry lookup.
	Name() string

	// Classify translates raw driver error text into a structured engine
	// error. A nil result means no pattern matched; the host falls back to a
	// generic representation.
	Classify(raw string) *enginerr.EngineError

	// Validate checks the parameters supplied so far. Anticipated problems
	// (missing fields, rejected credentials) are returned as EngineErrors;
	// anything unanticipated flows out the error return for the host to
	// handle.
	Validate(ctx context.Context, params Parameters) ([]enginerr.EngineError, error)

	// BuildURI constructs the connection URI from the non-empty parameters.
	// It never fails; absent fields simply leave their URI component out.
	BuildURI(params Parameters) string

	// ParseURI recovers the parameters a URI encodes. Together with BuildURI
	// it must round-trip every field the URI format can represent.
	ParseURI(uri string) (Parameters, error)

	// Fields returns the parameter definitions the adapter accepts. The same
	// table drives Validate and ParametersSchema.
	Fields() []ParameterField

	// ParametersSchema describes the accepted parameters for form rendering.
	ParametersSchema() *Schema
}

// Registry maps product names to adapters. The host registers every adapter
// at startup and performs lookup by name; there is no runtime discovery.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

// Register adds an adapter. Registering two adapters under one name is a
// wiring mistake and fails.
func (r *Registry) Register(s Spec) error {
	if s == nil {
		return fmt.Errorf("spec cannot be nil")
	}
	name := s.Name()
	if name == "" {
		return fmt.Errorf("spec name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.specs[name]; exists {
		return fmt.Errorf("spec %q already registered", name)
	}
	r.specs[name] = s
	return nil
}

// Lookup returns the adapter registered under name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specs[name]
	return s, ok
}

// Names returns the registered product names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
