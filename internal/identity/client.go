// Package identity talks to the remote credential-verification API used by
// cloud database products. One Verify call maps to one blocking HTTP POST;
// there is no retry and no caching, which keeps interactive form validation
// predictable (the user just resubmits).
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/halcyon-bi/dbspec/internal/logging"
)

// ErrAuthFailed signals that the API explicitly rejected the credentials.
var ErrAuthFailed = errors.New("identity: authentication failed")

// Client verifies credentials against the identity API.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *logging.Logger
}

// Config holds client construction options.
type Config struct {
	// URL is the verification endpoint.
	URL string

	// Timeout bounds each verification call. Zero means no client-side
	// timeout beyond what the transport imposes.
	Timeout time.Duration
}

// NewClient creates an identity client. The logger is required; pass
// logging.Nop() in tests.
func NewClient(cfg Config, logger *logging.Logger) *Client {
	return &Client{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// credentialsBody is the request payload the API expects.
type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// errorPayload matches the "error" key of a rejection response.
type errorPayload struct {
	Message string `json:"message"`
}

// Verify posts the credentials and decodes the response. An explicit "error"
// key in the response returns ErrAuthFailed (wrapped with the remote
// message). Transport-level failures return the underlying error; callers
// distinguish them with IsConnectionError. The success payload is returned
// as-is for downstream use and is not interpreted here.
func (c *Client) Verify(ctx context.Context, username, password string) (map[string]any, error) {
	body, err := json.Marshal(credentialsBody{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("identity: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Correlation id for tracing one verification attempt end to end.
	correlationID := ulid.Make().String()
	req.Header.Set("X-Correlation-ID", correlationID)

	// Target only at info; the body holds the password and stays at debug.
	c.logger.WithFields(map[string]any{
		"url":            c.url,
		"correlation_id": correlationID,
	}).Info("POST identity verification")
	if c.logger.DebugEnabled() {
		c.logger.WithField("username", username).Debug("verification request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: post %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("identity: decode response: %w", err)
	}

	if c.logger.DebugEnabled() {
		c.logger.WithField("payload", payload).Debug("verification response")
	}

	if raw, ok := payload["error"]; ok {
		var ep errorPayload
		if encoded, err := json.Marshal(raw); err == nil {
			_ = json.Unmarshal(encoded, &ep)
		}
		if ep.Message == "" {
			ep.Message = "credentials rejected"
		}
		return nil, fmt.Errorf("%w: %s", ErrAuthFailed, ep.Message)
	}

	return payload, nil
}

// IsConnectionError reports whether err is a network-level failure reaching
// the API, as opposed to an explicit rejection or an unanticipated fault.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
