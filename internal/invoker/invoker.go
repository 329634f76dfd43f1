package invoker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/bgricker/apismoke/internal/logging"
	"github.com/bgricker/apismoke/internal/registry"
)

// DefaultTimeout bounds every call when Options.Timeout is not set.
const DefaultTimeout = 10 * time.Second

// Options configure how endpoints are called.
type Options struct {
	BaseURL         string
	Token           string
	Timeout         time.Duration
	Client          *http.Client
	Now             func() time.Time
	Logger          logging.Logger
	UserAgent       string
	FailOnHTTPError bool
}

// Invoker performs single HTTP calls against endpoint descriptors.
type Invoker struct {
	opts Options
}

// New creates an invoker with the supplied options.
func New(opts Options) *Invoker {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.NullLogger()
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Invoker{opts: opts}
}

// URL returns the absolute URL called for ep.
func (i *Invoker) URL(ep registry.Endpoint) string {
	return i.opts.BaseURL + ep.Path
}

// Invoke calls ep exactly once within Options.Timeout, including reading the body.
// Errors are never returned; they become a Failure.
func (i *Invoker) Invoke(ctx context.Context, ep registry.Endpoint) Result {
	ctx, cancel := context.WithTimeout(ctx, i.opts.Timeout)
	defer cancel()

	fullURL := i.URL(ep)

	req, err := i.newRequest(ctx, ep, fullURL)
	if err != nil {
		i.opts.Logger.Printf("build request failed endpoint=%q error=%v", ep.Name, err)
		return Failure{Err: fmt.Sprintf("build request: %v", err)}
	}

	start := i.opts.Now()
	i.opts.Logger.Printf("sending method=%s url=%s", ep.Method, fullURL)
	resp, err := i.opts.Client.Do(req)
	if err != nil {
		elapsed := i.opts.Now().Sub(start)
		i.opts.Logger.Printf("transport error method=%s url=%s error=%v", ep.Method, fullURL, err)
		return Failure{Err: err.Error(), Duration: elapsed}
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(resp.Body)
	elapsed := i.opts.Now().Sub(start)
	if readErr != nil {
		i.opts.Logger.Printf("read body failed method=%s url=%s status=%d error=%v", ep.Method, fullURL, resp.StatusCode, readErr)
		return Failure{
			StatusCode: resp.StatusCode,
			Err:        fmt.Sprintf("read response body: %v", readErr),
			ErrorBody:  parseBody(raw),
			Duration:   elapsed,
		}
	}

	i.opts.Logger.Printf("received method=%s url=%s status=%d latency_ms=%d bytes=%d", ep.Method, fullURL, resp.StatusCode, elapsed.Milliseconds(), len(raw))

	if i.opts.FailOnHTTPError && resp.StatusCode >= 400 {
		return Failure{
			StatusCode: resp.StatusCode,
			Err:        fmt.Sprintf("request failed with status code %d", resp.StatusCode),
			ErrorBody:  parseBody(raw),
			Duration:   elapsed,
		}
	}

	return Success{
		StatusCode: resp.StatusCode,
		Duration:   elapsed,
		Body:       parseBody(raw),
		Headers:    flattenHeaders(resp.Header),
	}
}

func (i *Invoker) newRequest(ctx context.Context, ep registry.Endpoint, fullURL string) (*http.Request, error) {
	var body io.Reader
	if sendsBody(ep.Method) {
		payload := []byte("{}")
		if !ep.Body.IsNull() {
			payload = []byte(ep.Body.JSONString())
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, fullURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+i.opts.Token)
	if i.opts.UserAgent != "" {
		req.Header.Set("User-Agent", i.opts.UserAgent)
	}
	return req, nil
}

func sendsBody(method string) bool {
	return method != http.MethodGet && method != http.MethodHead
}

// parseBody decodes JSON when possible and falls back to the raw text.
func parseBody(raw []byte) ldvalue.Value {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ldvalue.Null()
	}
	if json.Valid(trimmed) {
		return ldvalue.Parse(trimmed)
	}
	return ldvalue.String(string(raw))
}

func flattenHeaders(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}
