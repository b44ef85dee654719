// Package apex adapts the Apex server, a MySQL-compatible database product,
// to the generic engine contract. Apex reports errors in its own phrasing, so
// it carries its own classification table; connection parameters follow the
// usual host/port/username/database shape and validation is purely local.
package apex

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/halcyon-bi/dbspec/internal/engine"
	"github.com/halcyon-bi/dbspec/internal/enginerr"
)

const engineName = "apex"

// Regular expressions to catch Apex-specific errors
var (
	invalidHostnameRegex = regexp.MustCompile(`Unknown Apex server host '(?P<hostname>.*?)'`)
	hostDownRegex        = regexp.MustCompile(`Can't connect to Apex server on '(?P<hostname>.*?)'`)
	syntaxErrorRegex     = regexp.MustCompile(`check the manual that corresponds to your Apex server ` +
		`version for the right syntax to use near '(?P<server_error>.*)`)
)

var customErrors = []engine.ErrorPattern{
	{
		Regex:   invalidHostnameRegex,
		Message: `Unknown Apex server host "$hostname".`,
		Type:    enginerr.TypeInvalidHostname,
		Extra:   map[string]any{"invalid": []string{"host"}},
	},
	{
		Regex:   hostDownRegex,
		Message: `The host "$hostname" might be down and can't be reached.`,
		Type:    enginerr.TypeHostDown,
		Extra:   map[string]any{"invalid": []string{"host", "port"}},
	},
	{
		Regex: syntaxErrorRegex,
		Message: `Please check your query for syntax errors near "$server_error". ` +
			`Then, try running your query again.`,
		Type: enginerr.TypeSyntaxError,
	},
}

var fields = []engine.ParameterField{
	{Name: "host", Type: engine.FieldString, Description: "Hostname or IP address", Required: true},
	{Name: "port", Type: engine.FieldInteger, Description: "Database port", Required: true},
	{Name: "username", Type: engine.FieldString, Description: "Username", Required: true},
	{Name: "password", Type: engine.FieldString, Description: "Password", Sensitive: true},
	{Name: "database", Type: engine.FieldString, Description: "Database name", Required: true},
}

// Spec implements the engine contract for Apex.
type Spec struct{}

// New creates the Apex adapter.
func New() *Spec {
	return &Spec{}
}

// Name returns the product identifier.
func (s *Spec) Name() string { return engineName }

// Classify translates raw Apex driver error text.
func (s *Spec) Classify(raw string) *enginerr.EngineError {
	return engine.Classify(raw, customErrors)
}

// Validate checks the parameters supplied so far. Apex has no remote
// verification; everything is checked locally.
func (s *Spec) Validate(ctx context.Context, params engine.Parameters) ([]enginerr.EngineError, error) {
	var errs []enginerr.EngineError

	if missing := engine.MissingParameters(params, fields); missing != nil {
		errs = append(errs, *missing)
	}

	if params.Present("port") {
		if port, err := strconv.Atoi(params["port"]); err != nil || port < 1 || port > 65535 {
			errs = append(errs, *enginerr.New(
				enginerr.TypeInvalidPort,
				"Port must be a valid integer between 1 and 65535.",
				map[string]any{"invalid": []string{"port"}},
			))
		}
	}

	return errs, nil
}

// BuildURI constructs a mysql:// connection URI from the non-empty
// parameters. Absent fields leave their component out.
func (s *Spec) BuildURI(params engine.Parameters) string {
	u := url.URL{Scheme: "mysql"}

	switch {
	case params.Present("username") && params.Present("password"):
		u.User = url.UserPassword(params["username"], params["password"])
	case params.Present("username"):
		u.User = url.User(params["username"])
	}

	host := params["host"]
	if params.Present("port") {
		host = fmt.Sprintf("%s:%s", host, params["port"])
	}
	u.Host = host

	if params.Present("database") {
		u.Path = "/" + params["database"]
	}

	return u.String()
}

// ParseURI recovers connection parameters from a mysql:// URI.
func (s *Spec) ParseURI(uri string) (engine.Parameters, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("apex: parse uri: %w", err)
	}

	params := engine.Parameters{}
	if u.User != nil {
		params["username"] = u.User.Username()
		if password, ok := u.User.Password(); ok {
			params["password"] = password
		}
	}
	if hostname := u.Hostname(); hostname != "" {
		params["host"] = hostname
	}
	if port := u.Port(); port != "" {
		params["port"] = port
	}
	if db := strings.TrimPrefix(u.Path, "/"); db != "" {
		params["database"] = db
	}
	return params, nil
}

// Fields returns the parameter definitions.
func (s *Spec) Fields() []engine.ParameterField { return fields }

// ParametersSchema describes the accepted parameters for form rendering.
func (s *Spec) ParametersSchema() *engine.Schema {
	return engine.BuildSchema(fields)
}
