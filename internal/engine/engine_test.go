package engine

import (
	"context"
	"testing"

	"github.com/halcyon-bi/dbspec/internal/enginerr"
)

// fakeSpec is a minimal Spec for registry tests.
type fakeSpec struct {
	name string
}

func (f *fakeSpec) Name() string                          { return f.name }
func (f *fakeSpec) Classify(string) *enginerr.EngineError { return nil }
func (f *fakeSpec) BuildURI(Parameters) string            { return "" }
func (f *fakeSpec) ParseURI(string) (Parameters, error)   { return Parameters{}, nil }
func (f *fakeSpec) Fields() []ParameterField              { return nil }
func (f *fakeSpec) ParametersSchema() *Schema             { return BuildSchema(nil) }

func (f *fakeSpec) Validate(context.Context, Parameters) ([]enginerr.EngineError, error) {
	return nil, nil
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()

	spec := &fakeSpec{name: "apex"}
	if err := reg.Register(spec); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, ok := reg.Lookup("apex")
	if !ok {
		t.Fatal("Lookup did not find registered spec")
	}
	if got != Spec(spec) {
		t.Error("Lookup returned a different spec")
	}

	if _, ok := reg.Lookup("nonexistent"); ok {
		t.Error("Lookup found an unregistered spec")
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(&fakeSpec{name: "cmic"}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := reg.Register(&fakeSpec{name: "cmic"}); err == nil {
		t.Error("expected error registering duplicate name")
	}
}

func TestRegistry_RejectsInvalid(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(nil); err == nil {
		t.Error("expected error registering nil spec")
	}
	if err := reg.Register(&fakeSpec{name: ""}); err == nil {
		t.Error("expected error registering empty name")
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	reg := NewRegistry()

	for _, name := range []string{"zeta", "apex", "cmic"} {
		if err := reg.Register(&fakeSpec{name: name}); err != nil {
			t.Fatalf("Register(%s) failed: %v", name, err)
		}
	}

	names := reg.Names()
	want := []string{"apex", "cmic", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d]: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestParameters_Present(t *testing.T) {
	params := Parameters{"username": "alice", "password": ""}

	if !params.Present("username") {
		t.Error("expected username to be present")
	}
	if params.Present("password") {
		t.Error("expected empty password to be absent")
	}
	if params.Present("host") {
		t.Error("expected missing key to be absent")
	}
}
