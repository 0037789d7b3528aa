// Package gemini provides the HTTP client for the generative-language API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// FallbackReply is shown when a generation response carries no readable text.
const FallbackReply = "I apologize, but I couldn't generate a response."

// ClientError wraps a failed API call with what was being attempted.
type ClientError struct {
	Op    string
	Cause error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Op + ": " + e.Cause.Error()
	}
	return e.Op
}

func (e *ClientError) Unwrap() error { return e.Cause }

// ClientConfig holds configuration options for the API client.
type ClientConfig struct {
	// BaseURL of the API (default: https://generativelanguage.googleapis.com).
	BaseURL string

	// APIKey authenticates every request.
	APIKey string

	// Timeout for a single request (default: 60s).
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "https://generativelanguage.googleapis.com",
		Timeout: 60 * time.Second,
	}
}

// Client talks to the generative-language REST API.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client, filling in defaults for zero config values.
func NewClient(config *ClientConfig, log zerolog.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        log,
	}
}

// ListModels fetches the available models from the capability endpoint.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	endpoint := c.config.BaseURL + "/v1beta/models?key=" + url.QueryEscape(c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ClientError{Op: "list models", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ClientError{Op: "list models", Cause: err}
	}
	defer resp.Body.Close()

	var listing listModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, &ClientError{Op: "decode model listing", Cause: err}
	}

	c.log.Debug().Int("models", len(listing.Models)).Msg("model listing fetched")
	return listing.Models, nil
}

// GenerateContent sends a single-turn prompt to the given model and returns
// the reply text. The prompt is the sole content of the request: no
// conversation history travels with it, so every turn is stateless from the
// model's point of view.
//
// A response that decodes but carries no candidates (quota errors included,
// since the status code is not inspected) yields FallbackReply rather than an
// error; only transport and decode failures are errors.
func (c *Client) GenerateContent(ctx context.Context, model, prompt string) (string, error) {
	endpoint := c.config.BaseURL + "/v1beta/models/" + model + ":generateContent"

	body, err := json.Marshal(generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", &ClientError{Op: "encode generation request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Op: "generate content", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ClientError{Op: "generate content", Cause: err}
	}
	defer resp.Body.Close()

	var generation generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&generation); err != nil {
		return "", &ClientError{Op: "decode generation response", Cause: err}
	}

	text, ok := generation.reply()
	if !ok {
		c.log.Warn().Str("model", model).Int("status", resp.StatusCode).
			Msg("generation response carried no text, using fallback")
		return FallbackReply, nil
	}
	return text, nil
}
