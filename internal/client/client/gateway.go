package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/fitclub/internal/client/models"
	"github.com/dmitrijs2005/fitclub/internal/common"
	"github.com/dmitrijs2005/fitclub/internal/logging"
)

const (
	userAgent       = "fitclub-cli/1.0"
	maxResponseSize = 4 << 20
)

// SessionState is what the gateway needs from the session store.
type SessionState interface {
	Current() models.AuthState
	ClearIfCredential(ctx context.Context, credential string) (bool, error)
}

// Request is one API call. Path is relative to the gateway's base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// Credential, when set, is sent instead of the session's credential.
	Credential string
}

// Gateway is the single chokepoint for outbound API calls.
type Gateway struct {
	baseURL *url.URL
	http    *http.Client
	session SessionState
	log     logging.Logger
	metrics *Metrics
}

type Option func(*Gateway)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.http = c }
}

func WithMetrics(m *Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// NewGateway builds a gateway for baseURL. timeout bounds every call.
func NewGateway(baseURL string, session SessionState, log logging.Logger, timeout time.Duration, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""

	g := &Gateway{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		session: session,
		log:     log.With("component", "gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Request sends method+path with an optional JSON body and decodes a 2xx
// body into out when out is non-nil.
func (g *Gateway) Request(ctx context.Context, method, path string, body, out any) error {
	return g.Send(ctx, &Request{Method: method, Path: path, Body: body}, out)
}

// Send performs r. See the package documentation for the error contract.
func (g *Gateway) Send(ctx context.Context, r *Request, out any) error {
	credential := r.Credential
	if credential == "" {
		if st := g.session.Current(); st.IsAuthenticated() {
			credential = st.Credential
		}
	}

	req, err := g.newHTTPRequest(ctx, r, credential)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := g.http.Do(req)
	if err != nil {
		g.metrics.observe(r.Method, r.Path, outcomeOf(0), time.Since(start))
		g.log.Debug(ctx, "api call failed", "method", r.Method, "path", r.Path, "error", err)
		return &APIError{Kind: ErrNetwork, Method: r.Method, Path: r.Path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	g.metrics.observe(r.Method, r.Path, outcomeOf(resp.StatusCode), time.Since(start))
	g.log.Debug(ctx, "api call", "method", r.Method, "path", r.Path, "status", resp.StatusCode,
		"elapsed", time.Since(start))
	if err != nil {
		return &APIError{Kind: ErrNetwork, Method: r.Method, Path: r.Path, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return &APIError{Kind: ErrServer, Method: r.Method, Path: r.Path, Status: resp.StatusCode,
				Message: "malformed response body", Err: err}
		}
		return nil
	}

	apiErr := &APIError{
		Method:  r.Method,
		Path:    r.Path,
		Status:  resp.StatusCode,
		Message: serverMessage(body),
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		apiErr.Kind = ErrUnauthorized
		if credential != "" {
			g.rejectCredential(ctx, r, credential)
		}
	case resp.StatusCode == http.StatusForbidden:
		apiErr.Kind = ErrForbidden
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		apiErr.Kind = ErrRejected
	default:
		apiErr.Kind = ErrServer
	}
	return apiErr
}

func (g *Gateway) rejectCredential(ctx context.Context, r *Request, credential string) {
	// Clearing must finish even if the caller's context is already done.
	cleared, err := g.session.ClearIfCredential(context.WithoutCancel(ctx), credential)
	if err != nil {
		g.log.Error(ctx, "clear rejected session", "error", err)
	}
	if cleared {
		g.metrics.forcedLogout()
		g.log.Warn(ctx, "credential rejected, session cleared", "method", r.Method, "path", r.Path)
	}
}

func (g *Gateway) newHTTPRequest(ctx context.Context, r *Request, credential string) (*http.Request, error) {
	if r.Path == "" || !strings.HasPrefix(r.Path, "/") || strings.Contains(r.Path, "://") {
		return nil, fmt.Errorf("path %q must be relative to the base url and start with /", r.Path)
	}

	u := *g.baseURL
	u.Path = g.baseURL.Path + r.Path
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+credential)
	}
	return req, nil
}

func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

// IsUnauthorized reports whether err is (or wraps) ErrUnauthorized.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
