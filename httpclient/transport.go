package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// TokenSource supplies bearer tokens for outgoing requests.
// *oauth2client.TokenManager satisfies it.
type TokenSource interface {
	GetTokenWithContext(ctx context.Context) (string, error)
}

// invalidator is implemented by token sources that can drop a rejected token.
type invalidator interface {
	Invalidate()
}

// OAuth2Transport is an http.RoundTripper that automatically adds Bearer
// tokens to outgoing HTTP requests.
//
// It wraps an existing transport (typically http.DefaultTransport) and
// injects the Authorization header before each request. When the server
// answers 401 and the token source supports Invalidate, the cached token is
// dropped and the request is replayed once with a fresh token.
type OAuth2Transport struct {
	// Base is the underlying HTTP transport. If nil, http.DefaultTransport is used.
	Base http.RoundTripper

	// Tokens provides access tokens.
	Tokens TokenSource
}

// RoundTrip implements http.RoundTripper interface.
// A token acquisition failure aborts the request before anything is sent.
func (t *OAuth2Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Tokens == nil {
		return nil, fmt.Errorf("httpclient: TokenSource is nil")
	}

	resp, err := t.send(req, nil)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	inv, ok := t.Tokens.(invalidator)
	if !ok || !replayable(req) {
		return resp, nil
	}

	var body io.ReadCloser
	if req.GetBody != nil {
		body, err = req.GetBody()
		if err != nil {
			// Hand back the original 401 rather than a rewind error.
			return resp, nil
		}
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()

	inv.Invalidate()

	return t.send(req, body)
}

// send clones req, attaches a token and forwards it to the base transport.
func (t *OAuth2Transport) send(req *http.Request, body io.ReadCloser) (*http.Response, error) {
	token, err := t.Tokens.GetTokenWithContext(req.Context())
	if err != nil {
		if body != nil {
			_ = body.Close()
		}
		return nil, fmt.Errorf("httpclient: failed to get token: %w", err)
	}

	// Clone the request to avoid modifying the original
	reqClone := req.Clone(req.Context())
	if body != nil {
		reqClone.Body = body
	}
	reqClone.Header.Set("Authorization", "Bearer "+token)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(reqClone)
}

// replayable reports whether req can be sent a second time.
func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

// NewOAuth2Transport creates a new OAuth2Transport with the given token source.
// The base transport defaults to http.DefaultTransport if not specified.
func NewOAuth2Transport(ts TokenSource, base http.RoundTripper) *OAuth2Transport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &OAuth2Transport{
		Base:   base,
		Tokens: ts,
	}
}
