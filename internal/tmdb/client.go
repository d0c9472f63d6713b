package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/validation"
)

const (
	searchMoviePath = "/search/movie"
	maxErrorBody    = 4096
)

// Searcher is the part of the client the rest of reel depends on.
type Searcher interface {
	SearchMovies(ctx context.Context, query string, page int) (*SearchPage, error)
}

var _ Searcher = (*Client)(nil)

// Client talks to the TMDB v3 REST API with a static bearer token.
type Client struct {
	baseURL      *url.URL
	token        string
	userAgent    string
	language     string
	includeAdult bool
	http         *http.Client
	validator    *validation.EndpointValidator
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLocalEndpoints allows http and loopback base URLs.
func WithLocalEndpoints() Option {
	return func(c *Client) { c.validator = validation.NewPermissiveEndpointValidator() }
}

// NewClient builds a Client from the tmdb config section.
func NewClient(cfg config.TMDBConfig, opts ...Option) (*Client, error) {
	c := &Client{
		token:        strings.TrimSpace(cfg.Token),
		userAgent:    cfg.UserAgent,
		language:     strings.TrimSpace(cfg.Language),
		includeAdult: cfg.IncludeAdult,
		validator:    validation.NewEndpointValidator(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidConfig)
	}

	normalized, err := c.validator.ValidateAndNormalize(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base_url: %v", ErrInvalidConfig, err)
	}
	base, err := url.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: base_url: %v", ErrInvalidConfig, err)
	}
	c.baseURL = base

	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.RequestTimeout()}
	}

	return c, nil
}

// SearchMovies issues one GET {base}/search/movie?query=q&page=p. Every call
// is a network round trip; callers own caching.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*SearchPage, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if page < 1 {
		page = 1
	}

	values := url.Values{}
	values.Set("query", query)
	values.Set("page", strconv.Itoa(page))
	if c.includeAdult {
		values.Set("include_adult", "true")
	}
	if c.language != "" {
		values.Set("language", c.language)
	}

	var payload SearchPage
	if err := c.get(ctx, searchMoviePath, values, &payload); err != nil {
		return nil, err
	}
	if payload.Page == 0 && payload.Results == nil {
		return nil, fmt.Errorf("%w: missing page envelope", ErrMalformedResponse)
	}
	if payload.Results == nil {
		payload.Results = []Movie{}
	}

	debuglog.WithFields(map[string]interface{}{
		"query":   query,
		"page":    payload.Page,
		"results": len(payload.Results),
		"total":   payload.TotalResults,
	}).Debugf("tmdb search ok")

	return &payload, nil
}

func (c *Client) endpoint(path string, values url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + path
	u.RawQuery = values.Encode()
	return u.String()
}

func (c *Client) get(ctx context.Context, path string, values url.Values, dest any) error {
	reqURL := c.endpoint(path, values)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func newAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}

	var env errorEnvelope
	if len(body) > 0 && json.Unmarshal(body, &env) == nil && env.StatusMessage != "" {
		apiErr.Code = env.StatusCode
		apiErr.Message = env.StatusMessage
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	debuglog.Warnf("tmdb request failed: %v", apiErr)
	return apiErr
}
