// HTTP request executor with rate-limit aware retries
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genrex/internal/shared"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Response represents a raw API response with status and body.
//
// When the body is valid JSON, IsJSON is set and JSON holds the parsed document; otherwise the body is kept as text.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	IsJSON     bool
	JSON       gjson.Result
}

// Get looks up a gjson path in the JSON body. Non-JSON bodies yield an empty result.
func (r *Response) Get(path string) gjson.Result {
	if r == nil || !r.IsJSON {
		return gjson.Result{}
	}
	return r.JSON.Get(path)
}

// Text returns the body as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// ExecutorOpts configures an [Executor].
type ExecutorOpts struct {
	BaseURL     string
	HTTPClient  *http.Client
	Sleeper     Sleeper
	Limiter     *rate.Limiter // optional client-side pacing, applied before every attempt
	Logger      *log.Logger
	MaxAttempts int
}

// Executor performs API requests sequentially and retries on 429 and 5xx responses.
type Executor struct {
	baseURL     string
	httpClient  *http.Client
	sleeper     Sleeper
	limiter     *rate.Limiter
	logger      *log.Logger
	maxAttempts int
}

// NewExecutor creates an Executor, filling in defaults for unset options.
func NewExecutor(opts ExecutorOpts) *Executor {
	if opts.BaseURL == "" {
		opts.BaseURL = shared.DefaultSpotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Sleeper == nil {
		opts.Sleeper = RealSleeper
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}

	return &Executor{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  opts.HTTPClient,
		sleeper:     opts.Sleeper,
		limiter:     opts.Limiter,
		logger:      opts.Logger,
		maxAttempts: opts.MaxAttempts,
	}
}

// Get performs a GET request to path.
func (e *Executor) Get(ctx context.Context, path string) (*Response, error) {
	return e.Do(ctx, http.MethodGet, path, nil, nil)
}

// Post performs a POST request to path with body encoded as JSON.
func (e *Executor) Post(ctx context.Context, path string, body any) (*Response, error) {
	return e.Do(ctx, http.MethodPost, path, body, nil)
}

// Do sends the request, retrying per [decide], and returns the first non-retryable response.
//
// Statuses other than 429 and 5xx are returned without inspection; callers read the payload.
// Transport failures are not retried.
func (e *Executor) Do(ctx context.Context, method, path string, body any, headers map[string]string) (*Response, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: %s %s: %w", shared.ErrAPIRequest, method, path, err)
			}
		}

		resp, err := e.send(ctx, method, path, payload, headers)
		if err != nil {
			return nil, err
		}

		decision := decide(attempt, e.maxAttempts, resp.StatusCode, resp.Header.Get("Retry-After"))
		switch decision.Outcome {
		case ReturnResult:
			return resp, nil
		case FailTerminal:
			e.logger.Warn("rate limited, giving up", "path", path, "wait", decision.Wait, "attempt", attempt+1)
			if err := e.sleeper.Sleep(ctx, decision.Wait); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s", shared.ErrRetriesExhausted, path)
		case RetryRateLimited:
			e.logger.Warn("rate limited", "path", path, "wait", decision.Wait, "attempt", attempt+1)
		case RetryServerError:
			e.logger.Warn("server error, retrying", "path", path, "status", resp.StatusCode, "wait", decision.Wait, "attempt", attempt+1)
		}

		if err := e.sleeper.Sleep(ctx, decision.Wait); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %s", shared.ErrRetriesExhausted, path)
}

func (e *Executor) send(ctx context.Context, method, path string, payload []byte, headers map[string]string) (*Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", shared.ErrAPIRequest, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	apiResp := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}

	if gjson.ValidBytes(data) {
		apiResp.IsJSON = true
		apiResp.JSON = gjson.ParseBytes(data)
	}

	return apiResp, nil
}
