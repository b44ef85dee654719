package engine

import (
	"regexp"
	"testing"

	"github.com/halcyon-bi/dbspec/internal/enginerr"
)

func TestClassify_FirstMatchWins(t *testing.T) {
	// Both patterns match the input; the first declared wins.
	table := []ErrorPattern{
		{
			Regex:   regexp.MustCompile(`connection refused`),
			Message: "first",
			Type:    enginerr.TypeHostDown,
		},
		{
			Regex:   regexp.MustCompile(`refused`),
			Message: "second",
			Type:    enginerr.TypeAccessDenied,
		},
	}

	result := Classify("dial tcp: connection refused", table)
	if result == nil {
		t.Fatal("expected a classification")
	}
	if result.Type != enginerr.TypeHostDown {
		t.Errorf("expected first pattern's type %s, got %s", enginerr.TypeHostDown, result.Type)
	}
	if result.Message != "first" {
		t.Errorf("expected message 'first', got %q", result.Message)
	}
}

func TestClassify_NoMatchReturnsNil(t *testing.T) {
	table := []ErrorPattern{
		{
			Regex:   regexp.MustCompile(`connection refused`),
			Message: "down",
			Type:    enginerr.TypeHostDown,
		},
	}

	if result := Classify("totally unrelated text", table); result != nil {
		t.Errorf("expected nil for unmatched input, got %+v", result)
	}
}

func TestClassify_EmptyTable(t *testing.T) {
	if result := Classify("anything", nil); result != nil {
		t.Errorf("expected nil with empty table, got %+v", result)
	}
}

func TestClassify_NamedCaptureSubstitution(t *testing.T) {
	table := []ErrorPattern{
		{
			Regex:   regexp.MustCompile(`Unknown Apex server host '(?P<hostname>.*?)'`),
			Message: `Unknown Apex server host "$hostname".`,
			Type:    enginerr.TypeInvalidHostname,
			Extra:   map[string]any{"invalid": []string{"host"}},
		},
	}

	result := Classify("Unknown Apex server host 'db.example.com'", table)
	if result == nil {
		t.Fatal("expected a classification")
	}
	if result.Type != enginerr.TypeInvalidHostname {
		t.Errorf("expected type %s, got %s", enginerr.TypeInvalidHostname, result.Type)
	}
	want := `Unknown Apex server host "db.example.com".`
	if result.Message != want {
		t.Errorf("expected message %q, got %q", want, result.Message)
	}
	if result.Level != enginerr.SeverityError {
		t.Errorf("expected severity error, got %s", result.Level)
	}
}

func TestClassify_MissingGroupSubstitutesEmpty(t *testing.T) {
	// The optional group never participates in the match; its reference
	// expands to an empty string rather than failing.
	table := []ErrorPattern{
		{
			Regex:   regexp.MustCompile(`timeout(?: on '(?P<hostname>.*?)')?`),
			Message: `Timed out reaching "$hostname".`,
			Type:    enginerr.TypeHostDown,
		},
	}

	result := Classify("timeout", table)
	if result == nil {
		t.Fatal("expected a classification")
	}
	if result.Message != `Timed out reaching "".` {
		t.Errorf("expected empty substitution, got %q", result.Message)
	}
}

func TestClassify_ExtraTemplateExpansion(t *testing.T) {
	table := []ErrorPattern{
		{
			Regex:   regexp.MustCompile(`bad host '(?P<hostname>.*?)'`),
			Message: "bad host",
			Type:    enginerr.TypeInvalidHostname,
			Extra: map[string]any{
				"hostname": "$hostname",
				"invalid":  []string{"host"},
				"engine":   42,
			},
		},
	}

	result := Classify("bad host 'db1'", table)
	if result == nil {
		t.Fatal("expected a classification")
	}
	if got := result.Extra["hostname"]; got != "db1" {
		t.Errorf("expected expanded hostname 'db1', got %v", got)
	}
	invalid, ok := result.Extra["invalid"].([]string)
	if !ok || len(invalid) != 1 || invalid[0] != "host" {
		t.Errorf("expected invalid [host], got %v", result.Extra["invalid"])
	}
	if got := result.Extra["engine"]; got != 42 {
		t.Errorf("expected non-string extras to pass through, got %v", got)
	}
}

func TestClassify_MultilineInput(t *testing.T) {
	table := []ErrorPattern{
		{
			Regex:   regexp.MustCompile(`Can't connect to Apex server on '(?P<hostname>.*?)'`),
			Message: `The host "$hostname" might be down.`,
			Type:    enginerr.TypeHostDown,
		},
	}

	raw := "ERROR 2003 (HY000):\nCan't connect to Apex server on 'db2.internal' (111)\n"
	result := Classify(raw, table)
	if result == nil {
		t.Fatal("expected a classification for multi-line input")
	}
	if result.Message != `The host "db2.internal" might be down.` {
		t.Errorf("unexpected message: %q", result.Message)
	}
}
