/*
Package piston implements the execution dispatcher over the Piston code
execution API.

The dispatcher issues a single bounded outbound call per request and settles
with a result either way: transport failures, non-success statuses, and
malformed bodies all normalize to an error envelope carried through the same
channel as a success. Callers never see a raised error.
*/
package piston

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"codesync/internal/app/collab"
	"codesync/internal/pkg/errs"
	"codesync/internal/pkg/logx"
)

const defaultTimeout = 30 * time.Second

// executeRequest is the Piston execute API request body.
type executeRequest struct {
	Language string        `json:"language"`
	Version  string        `json:"version"`
	Files    []executeFile `json:"files"`
	Stdin    string        `json:"stdin"`
}

type executeFile struct {
	Content string `json:"content"`
}

// executeResponse captures the fields of a Piston response the dispatcher
// needs. Pointers distinguish an absent field from an empty one so a
// malformed body is detected rather than read as empty output.
type executeResponse struct {
	Run *struct {
		Output *string `json:"output"`
	} `json:"run"`
}

// errorEnvelope mirrors the success shape so clients render failures in the
// result pane like any other output.
type errorEnvelope struct {
	Run struct {
		Output string `json:"output"`
	} `json:"run"`
}

// Client calls the Piston execute endpoint. It implements collab.Executor.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each execution call. The provider enforces its own run
// limits; this only caps how long the dispatcher waits.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates an execution dispatcher targeting the given execute
// endpoint URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logx.Logger().With().Str("component", "piston").Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Execute runs the document snapshot against the provider. One attempt, no
// retry; the caller can re-issue manually. Every failure mode settles as the
// normalized error result.
func (c *Client) Execute(ctx context.Context, code, language, version, stdin string) collab.ExecutionResult {
	reqBody, err := json.Marshal(executeRequest{
		Language: language,
		Version:  version,
		Files:    []executeFile{{Content: code}},
		Stdin:    stdin,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to marshal execute request.")
		return c.failureResult()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(reqBody))
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build execute request.")
		return c.failureResult()
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("language", language).Msg("Execution provider unreachable.")
		return c.failureResult()
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.logger.Warn().
			Int("status", res.StatusCode).
			Str("language", language).
			Msg("Execution provider returned non-success status.")
		return c.failureResult()
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to read execution provider response.")
		return c.failureResult()
	}

	var parsed executeResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Run == nil || parsed.Run.Output == nil {
		c.logger.Warn().Err(err).Msg("Execution provider returned malformed response.")
		return c.failureResult()
	}

	// The provider body is broadcast un-mutated; only run.output is
	// extracted for room state.
	return collab.ExecutionResult{
		Raw:    body,
		Output: *parsed.Run.Output,
	}
}

// failureResult builds the provider-agnostic error envelope delivered in
// place of a provider response.
func (c *Client) failureResult() collab.ExecutionResult {
	message := errs.NewError(errs.ErrExecutionFailed).Message

	var envelope errorEnvelope
	envelope.Run.Output = message

	raw, err := json.Marshal(envelope)
	if err != nil {
		// Marshaling a flat struct of strings cannot fail at runtime.
		logx.Fatal(err, "Failed to marshal execution error envelope")
	}

	return collab.ExecutionResult{
		Raw:    raw,
		Output: message,
	}
}
