// Package cmic adapts the Cmic cloud database service to the generic engine
// contract. Cmic speaks the mysql wire protocol through the mysqldb driver,
// but connections carry only credentials; the service resolves the actual
// host. Credential validation happens against a remote identity API.
package cmic

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/halcyon-bi/dbspec/internal/engine"
	"github.com/halcyon-bi/dbspec/internal/enginerr"
	"github.com/halcyon-bi/dbspec/internal/identity"
)

const (
	engineName    = "cmic"
	driverEngine  = "mysql"
	defaultDriver = "mysqldb"
)

var syntaxErrorRegex = regexp.MustCompile(`SQLError: near "(?P<server_error>.*?)": syntax error`)

var customErrors = []engine.ErrorPattern{
	{
		Regex: syntaxErrorRegex,
		Message: `Please check your query for syntax errors near "$server_error". ` +
			`Then, try running your query again.`,
		Type: enginerr.TypeSyntaxError,
	},
}

var fields = []engine.ParameterField{
	{Name: "username", Type: engine.FieldString, Description: "Username", Required: true},
	{Name: "password", Type: engine.FieldString, Description: "Password", Required: true, Sensitive: true},
}

// Verifier checks credentials against the remote identity API. Satisfied by
// *identity.Client; tests substitute their own.
type Verifier interface {
	Verify(ctx context.Context, username, password string) (map[string]any, error)
}

// Spec implements the engine contract for Cmic.
type Spec struct {
	verifier Verifier
}

// New creates the Cmic adapter with the given credential verifier.
func New(verifier Verifier) *Spec {
	return &Spec{verifier: verifier}
}

// Name returns the product identifier.
func (s *Spec) Name() string { return engineName }

// Classify translates raw Cmic driver error text.
func (s *Spec) Classify(raw string) *enginerr.EngineError {
	return engine.Classify(raw, customErrors)
}

// Validate checks any number of parameters, for progressive validation: as
// more parameters are present, more validation is done. Once both identity
// fields are supplied, one blocking verification call is made; an explicit
// rejection and a connection-level failure map to the same access-denied
// error so network diagnostics never leak to the form. Anything else from
// the call propagates to the host.
func (s *Spec) Validate(ctx context.Context, params engine.Parameters) ([]enginerr.EngineError, error) {
	var errs []enginerr.EngineError

	if missing := engine.MissingParameters(params, fields); missing != nil {
		errs = append(errs, *missing)
	}

	if !params.Present("username") || !params.Present("password") {
		return errs, nil
	}

	// The success payload is intentionally unused; the verification contract
	// only defines the failure shape so far.
	_, err := s.verifier.Verify(ctx, params["username"], params["password"])
	switch {
	case err == nil:
	case errors.Is(err, identity.ErrAuthFailed):
		errs = append(errs, *enginerr.New(
			enginerr.TypeAccessDenied,
			"Unable to authenticate to the Cmic API.",
			map[string]any{"invalid": []string{"username", "password"}},
		))
	case identity.IsConnectionError(err):
		errs = append(errs, *enginerr.New(
			enginerr.TypeAccessDenied,
			"Unable to connect to the Cmic API.",
			map[string]any{"invalid": []string{"username", "password"}},
		))
	default:
		return errs, err
	}

	return errs, nil
}

// BuildURI constructs the engine+driver connection URI from the credentials.
// Cmic URIs carry no host component; the service routes by account.
func (s *Spec) BuildURI(params engine.Parameters) string {
	u := url.URL{Scheme: driverEngine + "+" + defaultDriver}

	switch {
	case params.Present("username") && params.Present("password"):
		u.User = url.UserPassword(params["username"], params["password"])
	case params.Present("username"):
		u.User = url.User(params["username"])
	}

	return u.String()
}

// ParseURI recovers the credentials a Cmic URI encodes.
func (s *Spec) ParseURI(uri string) (engine.Parameters, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("cmic: parse uri: %w", err)
	}

	params := engine.Parameters{}
	if u.User != nil {
		params["username"] = u.User.Username()
		if password, ok := u.User.Password(); ok {
			params["password"] = password
		}
	}
	return params, nil
}

// Fields returns the parameter definitions.
func (s *Spec) Fields() []engine.ParameterField { return fields }

// ParametersSchema describes the accepted parameters for form rendering.
func (s *Spec) ParametersSchema() *engine.Schema {
	return engine.BuildSchema(fields)
}
