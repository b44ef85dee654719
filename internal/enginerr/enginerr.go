// Package enginerr defines the error taxonomy shared by all database engine
// adapters. Adapters never invent categories; they select from the closed set
// below and attach structured extra data so the host can highlight the
// offending connection-form fields.
package enginerr

// ErrorType is a stable identifier for a category of engine error.
type ErrorType string

const (
	// Connection errors surfaced while reaching or authenticating to a database
	TypeInvalidHostname   ErrorType = "CONNECTION_INVALID_HOSTNAME_ERROR"
	TypeHostDown          ErrorType = "CONNECTION_HOST_DOWN_ERROR"
	TypeInvalidPort       ErrorType = "CONNECTION_INVALID_PORT_ERROR"
	TypeMissingParameters ErrorType = "CONNECTION_MISSING_PARAMETERS_ERROR"
	TypeAccessDenied      ErrorType = "CONNECTION_ACCESS_DENIED_ERROR"

	// Query errors surfaced by the server after a connection is established
	TypeSyntaxError ErrorType = "SYNTAX_ERROR"

	// Fallback when no adapter pattern matched
	TypeGeneric ErrorType = "GENERIC_DB_ENGINE_ERROR"
)

// Severity is the user-facing severity tier of an engine error.
type Severity string

const (
	// SeverityWarning marks recoverable, user-fixable input problems.
	SeverityWarning Severity = "warning"
	// SeverityError marks authentication and connectivity failures.
	SeverityError Severity = "error"
)

// severities fixes one severity per error type. Missing and malformed input
// is correctable in the form; everything else requires user action against
// the database itself.
var severities = map[ErrorType]Severity{
	TypeInvalidHostname:   SeverityError,
	TypeHostDown:          SeverityError,
	TypeInvalidPort:       SeverityWarning,
	TypeMissingParameters: SeverityWarning,
	TypeAccessDenied:      SeverityError,
	TypeSyntaxError:       SeverityError,
	TypeGeneric:           SeverityError,
}

// Level returns the fixed severity for the error type. Unknown types map to
// SeverityError.
func (t ErrorType) Level() Severity {
	if lvl, ok := severities[t]; ok {
		return lvl
	}
	return SeverityError
}

// EngineError is a structured, user-facing translation of a raw driver error
// or a connection-parameter problem.
type EngineError struct {
	Message string         `json:"message"`
	Type    ErrorType      `json:"error_type"`
	Level   Severity       `json:"level"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return e.Message
}

// New builds an EngineError with the severity fixed by the taxonomy.
func New(t ErrorType, message string, extra map[string]any) *EngineError {
	return &EngineError{
		Message: message,
		Type:    t,
		Level:   t.Level(),
		Extra:   extra,
	}
}
