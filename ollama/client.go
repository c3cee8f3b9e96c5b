// Package ollama provides a translator backed by a local Ollama server.
// It talks to Ollama's HTTP API directly rather than shelling out to the
// ollama binary, so streaming and cancellation work through the standard
// request context.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/ayoubaydy/tajreba"
)

// DefaultBaseURL is the default Ollama endpoint.
const DefaultBaseURL = "http://localhost:11434"

// DefaultTimeout bounds a single generation request. Large chunks on slow
// hardware can take minutes; this mirrors the 5 minute ceiling the CLI uses.
const DefaultTimeout = 5 * time.Minute

// Ensure Client implements the domain interfaces at compile time.
var (
	_ tajreba.Translator          = (*Client)(nil)
	_ tajreba.StreamingTranslator = (*Client)(nil)
	_ tajreba.ModelLister         = (*Client)(nil)
)

// Client calls the Ollama HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	keepAlive  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithKeepAlive sets how long the model stays loaded after a request
// (Ollama keep_alive duration string, e.g. "10m").
func WithKeepAlive(d string) Option {
	return func(cl *Client) { cl.keepAlive = d }
}

// NewClient creates a Client for the given base URL. An empty baseURL uses
// the OLLAMA_HOST environment variable, then DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("OLLAMA_HOST")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return c
}

// Host returns the host portion of the client's base URL, used as the rate
// limiter key.
func (c *Client) Host() string {
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Host == "" {
		return c.baseURL
	}
	return u.Host
}

// generateRequest is the body for POST /api/generate.
type generateRequest struct {
	Model     string          `json:"model"`
	Prompt    string          `json:"prompt"`
	Stream    bool            `json:"stream"`
	KeepAlive string          `json:"keep_alive,omitempty"`
	Options   generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float32 `json:"temperature"`
}

// generateResponse is one line of the /api/generate response stream. With
// stream:false it is the entire body.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Translate submits the prompt and returns the complete model output.
func (c *Client) Translate(ctx context.Context, req tajreba.TranslateRequest) (string, error) {
	body, err := c.generate(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var resp generateResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return "", tajreba.Errorf(tajreba.EINTERNAL, "decoding ollama response: %s", err)
	}
	if resp.Error != "" {
		return "", tajreba.Errorf(tajreba.EINTERNAL, "ollama: %s", resp.Error)
	}

	return resp.Response, nil
}

// TranslateStream submits the prompt with streaming enabled and invokes fn
// for each generated token. The accumulated output is returned once the
// stream completes.
func (c *Client) TranslateStream(ctx context.Context, req tajreba.TranslateRequest, fn tajreba.TokenFunc) (string, error) {
	body, err := c.generate(ctx, req, true)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var sb strings.Builder
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var resp generateResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			return "", tajreba.Errorf(tajreba.EINTERNAL, "decoding ollama stream: %s", err)
		}
		if resp.Error != "" {
			return "", tajreba.Errorf(tajreba.EINTERNAL, "ollama: %s", resp.Error)
		}

		if resp.Response != "" {
			sb.WriteString(resp.Response)
			if fn != nil {
				if err := fn(resp.Response); err != nil {
					return "", err
				}
			}
		}
		if resp.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading ollama stream: %w", err)
	}

	return sb.String(), nil
}

// generate issues the /api/generate request and returns the response body.
// The caller must close it.
func (c *Client) generate(ctx context.Context, req tajreba.TranslateRequest, stream bool) (io.ReadCloser, error) {
	if req.Model == "" {
		return nil, tajreba.Errorf(tajreba.EINVALID, "model required")
	}
	if req.Prompt == "" {
		return nil, tajreba.Errorf(tajreba.EINVALID, "prompt required")
	}

	payload, err := json.Marshal(generateRequest{
		Model:     req.Model,
		Prompt:    req.Prompt,
		Stream:    stream,
		KeepAlive: c.keepAlive,
		Options:   generateOptions{Temperature: req.Temperature},
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, tajreba.Errorf(tajreba.EUNAVAILABLE, "cannot reach ollama at %s (is it running?)", c.baseURL)
		}
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusNotFound {
			return nil, tajreba.Errorf(tajreba.ENOTFOUND, "model %q not found: %s", req.Model, strings.TrimSpace(string(msg)))
		}
		return nil, tajreba.Errorf(tajreba.EINTERNAL, "ollama HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return resp.Body, nil
}

// tagsResponse is the body of GET /api/tags.
type tagsResponse struct {
	Models []struct {
		Name       string    `json:"name"`
		Size       int64     `json:"size"`
		ModifiedAt time.Time `json:"modified_at"`
	} `json:"models"`
}

// Models lists models installed on the Ollama server.
func (c *Client) Models(ctx context.Context) ([]tajreba.Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, tajreba.Errorf(tajreba.EUNAVAILABLE, "cannot reach ollama at %s (is it running?)", c.baseURL)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, tajreba.Errorf(tajreba.EINTERNAL, "ollama HTTP %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, tajreba.Errorf(tajreba.EINTERNAL, "decoding ollama tags: %s", err)
	}

	models := make([]tajreba.Model, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, tajreba.Model{
			Name:       m.Name,
			Size:       m.Size,
			ModifiedAt: m.ModifiedAt,
		})
	}
	return models, nil
}

// isConnectionRefused matches the specific refusal of a closed port, not
// timeouts or resets, so other network failures surface as themselves.
func isConnectionRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(err.Error(), "connection refused")
}
