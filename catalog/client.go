package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

const maxResponseSize = 8 << 20

// Logger is an interface for optional logging in Client.
type Logger interface {
	Printf(format string, args ...any)
}

// Client reads the storefront catalog over the API's headless endpoints.
// The HTTP client is expected to authenticate requests, typically through
// httpclient.OAuth2Transport.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  Logger
}

// Option is a functional option for configuring Client.
type Option func(*Client)

// WithLogger sets a logger that receives every failed call before it is returned.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a catalog client for the API rooted at baseURL
// (e.g., "https://api.example.com/api").
func NewClient(baseURL string, httpClient *http.Client, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("catalog: invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("catalog: base URL must be absolute: %q", baseURL)
	}
	if httpClient == nil {
		return nil, errors.New("catalog: http client is nil")
	}

	c := &Client{baseURL: u, http: httpClient}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListProductsByType returns the products of the given type (e.g., TypeRetail) in API order.
// A response without data yields an empty list.
func (c *Client) ListProductsByType(ctx context.Context, productType string) ([]Product, error) {
	endpoint := "v1/headless/products?productType=" + url.QueryEscape(productType)

	data, err := c.getData(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	products := []Product{}
	if !present(data) {
		return products, nil
	}
	if !data.IsArray() {
		return nil, c.fail(fmt.Errorf("%w: products data is %s", ErrMalformedResponse, data.Type))
	}
	if err := json.Unmarshal([]byte(data.Raw), &products); err != nil {
		return nil, c.fail(fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	return products, nil
}

// ProductDetails returns a single retail product.
func (c *Client) ProductDetails(ctx context.Context, id ID) (*Product, error) {
	endpoint, err := recordEndpoint("v1/headless/products/retail/", id)
	if err != nil {
		return nil, c.fail(err)
	}
	var p Product
	if err := c.getRecord(ctx, endpoint, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// EventDetails returns the detail record of an event.
func (c *Client) EventDetails(ctx context.Context, id ID) (*Event, error) {
	endpoint, err := recordEndpoint("v1/headless/products/event/", id)
	if err != nil {
		return nil, c.fail(err)
	}
	var e Event
	if err := c.getRecord(ctx, endpoint, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// recordEndpoint appends id to prefix as one escaped path segment.
func recordEndpoint(prefix string, id ID) (string, error) {
	switch s := id.String(); s {
	case "", ".", "..":
		return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
	default:
		return prefix + url.PathEscape(s), nil
	}
}

// Get performs an authenticated GET against an arbitrary endpoint and returns the
// raw data value. Relative endpoints resolve against the base URL; absolute URLs
// are used as given. A response without data yields an empty JSON array.
func (c *Client) Get(ctx context.Context, endpoint string) (json.RawMessage, error) {
	data, err := c.getData(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if !present(data) {
		return json.RawMessage("[]"), nil
	}
	return json.RawMessage(data.Raw), nil
}

func (c *Client) getRecord(ctx context.Context, endpoint string, v any) error {
	data, err := c.getData(ctx, endpoint)
	if err != nil {
		return err
	}
	if !present(data) {
		return c.fail(fmt.Errorf("%w: %s", ErrNotFound, endpoint))
	}
	if !data.IsObject() {
		return c.fail(fmt.Errorf("%w: record data is %s", ErrMalformedResponse, data.Type))
	}
	if err := json.Unmarshal([]byte(data.Raw), v); err != nil {
		return c.fail(fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	return nil
}

// getData fetches endpoint and returns the "data" member of the response envelope.
func (c *Client) getData(ctx context.Context, endpoint string) (gjson.Result, error) {
	target, err := c.resolve(endpoint)
	if err != nil {
		return gjson.Result{}, c.fail(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return gjson.Result{}, c.fail(fmt.Errorf("catalog: build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, c.fail(fmt.Errorf("catalog: GET %s: %w", target, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return gjson.Result{}, c.fail(fmt.Errorf("catalog: read %s: %w", target, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: http.MethodGet, URL: target, StatusCode: resp.StatusCode}
		if gjson.ValidBytes(body) {
			apiErr.Message = gjson.GetBytes(body, "message").String()
		}
		return gjson.Result{}, c.fail(apiErr)
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, c.fail(fmt.Errorf("%w: GET %s", ErrMalformedResponse, target))
	}

	return gjson.GetBytes(body, "data"), nil
}

// resolve turns endpoint into an absolute URL under the base URL.
func (c *Client) resolve(endpoint string) (string, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("catalog: invalid endpoint %q: %w", endpoint, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}

	// Join the escaped form so that %2F and %25 in an id stay inside their segment.
	u := c.baseURL.JoinPath(ref.EscapedPath())
	u.RawQuery = ref.RawQuery
	return u.String(), nil
}

func (c *Client) fail(err error) error {
	if c.logger != nil {
		c.logger.Printf("%v", err)
	}
	return err
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}
