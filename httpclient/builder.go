package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/AmmannChristian/go-storefront/oauth2client"
)

const (
	defaultTimeout = 30 * time.Second
	maxRedirects   = 10
)

// Builder assembles the storefront's HTTP client: an optional bearer token
// source layered over a transport with the configured TLS settings.
type Builder struct {
	tokenSource TokenSource

	caFile     string
	certFile   string
	keyFile    string
	skipVerify bool
	tlsSet     bool

	timeout   time.Duration
	base      http.RoundTripper
	redirects bool
}

// NewBuilder returns a builder with a 30 second timeout that follows redirects.
func NewBuilder() *Builder {
	return &Builder{
		timeout:   defaultTimeout,
		redirects: true,
	}
}

// WithTokenSource authenticates every request with tokens from ts.
// An *oauth2client.TokenManager is the usual choice.
func (b *Builder) WithTokenSource(ts TokenSource) *Builder {
	b.tokenSource = ts
	return b
}

// WithOAuth2 is WithTokenSource with a new oauth2client.TokenManager.
// Token requests made from RoundTrip use the request's context, so callers that
// need a custom HTTP client for the token endpoint should place it in that
// context under oauth2.HTTPClient.
func (b *Builder) WithOAuth2(ctx context.Context, tokenURL, clientID, clientSecret, scopes string, opts ...oauth2client.Option) *Builder {
	b.tokenSource = oauth2client.NewTokenManager(ctx, tokenURL, clientID, clientSecret, scopes, opts...)
	return b
}

// WithTLS sets the CA bundle used to verify the API and, for mutual TLS, the
// client certificate and key. Empty values are skipped; certFile and keyFile
// must be given together.
func (b *Builder) WithTLS(caFile, certFile, keyFile string) *Builder {
	b.tlsSet = true
	b.caFile = caFile
	b.certFile = certFile
	b.keyFile = keyFile
	return b
}

// WithInsecureSkipVerify disables server certificate verification.
// Use it only against development servers.
func (b *Builder) WithInsecureSkipVerify() *Builder {
	b.skipVerify = true
	return b
}

// WithTimeout sets the overall request timeout.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.timeout = timeout
	return b
}

// WithBaseTransport sends requests through transport instead of a clone of
// http.DefaultTransport. TLS settings on the builder do not apply to it.
func (b *Builder) WithBaseTransport(transport http.RoundTripper) *Builder {
	b.base = transport
	return b
}

// WithoutRedirects returns redirect responses to the caller instead of following them.
func (b *Builder) WithoutRedirects() *Builder {
	b.redirects = false
	return b
}

// Build returns the configured client.
func (b *Builder) Build() (*http.Client, error) {
	transport, err := b.roundTripper()
	if err != nil {
		return nil, err
	}
	if b.tokenSource != nil {
		transport = NewOAuth2Transport(b.tokenSource, transport)
	}

	return &http.Client{
		Transport:     transport,
		Timeout:       b.timeout,
		CheckRedirect: b.redirectPolicy(),
	}, nil
}

func (b *Builder) roundTripper() (http.RoundTripper, error) {
	if b.base != nil {
		return b.base, nil
	}

	def, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		// A replaced DefaultTransport (a test stub, for one) is used as is,
		// which is only possible when there are no TLS settings to apply.
		if b.tlsSet || b.skipVerify {
			return nil, fmt.Errorf("httpclient: cannot apply TLS settings to %T", http.DefaultTransport)
		}
		return http.DefaultTransport, nil
	}

	tlsConfig, err := b.tlsConfig()
	if err != nil {
		return nil, fmt.Errorf("httpclient: TLS config failed: %w", err)
	}
	t := def.Clone()
	t.TLSClientConfig = tlsConfig
	return t, nil
}

// redirectPolicy stops at maxRedirects and, when requests carry a bearer
// token, refuses to follow a redirect to another host.
func (b *Builder) redirectPolicy() func(*http.Request, []*http.Request) error {
	if !b.redirects {
		return func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	}

	authenticated := b.tokenSource != nil
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("httpclient: stopped after %d redirects", maxRedirects)
		}
		if authenticated && req.URL.Host != via[0].URL.Host {
			return fmt.Errorf("httpclient: refusing to send bearer token on redirect from %s to %s",
				via[0].URL.Host, req.URL.Host)
		}
		return nil
	}
}

func (b *Builder) tlsConfig() (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: b.skipVerify, // #nosec G402
	}

	if b.caFile != "" {
		pem, err := os.ReadFile(b.caFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.New("failed to parse CA certificate")
		}
		cfg.RootCAs = pool
	}

	switch {
	case b.certFile != "" && b.keyFile != "":
		cert, err := tls.LoadX509KeyPair(b.certFile, b.keyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	case b.certFile != "" || b.keyFile != "":
		return nil, errors.New("both TLS cert and key files must be provided for mTLS")
	}

	return cfg, nil
}

// NewHTTPClient returns a client that authenticates with ts over
// http.DefaultTransport. Use Builder for TLS or timeout settings.
//
// Example:
//
//	tm := oauth2client.NewTokenManager(ctx, tokenURL, clientID, clientSecret, "read_products")
//	client := httpclient.NewHTTPClient(tm)
//	resp, err := client.Get("https://api.example.com/api/v1/headless/products?productType=retail")
func NewHTTPClient(ts TokenSource) *http.Client {
	return &http.Client{
		Transport: NewOAuth2Transport(ts, nil),
		Timeout:   defaultTimeout,
	}
}
