package oauth2client

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Logger is an interface for optional logging in TokenManager.
// Implementations can log token acquisition events if desired.
type Logger interface {
	Printf(format string, args ...any)
}

// Style selects how the client credentials are presented to the token endpoint.
type Style string

const (
	// StyleJSON posts the credentials as a JSON document. This is what the
	// storefront API expects and is the default.
	StyleJSON Style = "json"

	// StyleForm posts an RFC 6749 form body via golang.org/x/oauth2/clientcredentials.
	StyleForm Style = "form"
)

// tokenSource fetches a fresh token for the given context.
type tokenSource interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// TokenManager caches an OAuth2 access token obtained with the client credentials flow.
// It is safe for concurrent access: concurrent first callers share a single fetch.
type TokenManager struct {
	tokenURL     string
	clientID     string
	clientSecret string
	scopes       []string
	style        Style

	source       tokenSource
	token        *oauth2.Token
	mu           sync.RWMutex
	ctx          context.Context // fallback context for GetToken
	expiryLeeway time.Duration
	leeway       time.Duration // effective leeway for the cached token
	logger       Logger // optional logger
	now          func() time.Time
}

// Option is a functional option for configuring TokenManager.
type Option func(*TokenManager)

// WithLogger sets a custom logger for token acquisition events.
// If not set, no logging will occur.
func WithLogger(logger Logger) Option {
	return func(tm *TokenManager) {
		tm.logger = logger
	}
}

// WithLoggingEnabled enables logging using the default Go log package.
func WithLoggingEnabled() Option {
	return func(tm *TokenManager) {
		tm.logger = log.Default()
	}
}

// WithStyle selects the request style used against the token endpoint.
// Unknown styles fall back to StyleJSON.
func WithStyle(style Style) Option {
	return func(tm *TokenManager) {
		tm.style = style
	}
}

// WithExpiryLeeway sets how long before expiry a cached token is considered stale.
// The default is one minute. For short-lived tokens the leeway shrinks to half
// of the token's lifetime.
func WithExpiryLeeway(leeway time.Duration) Option {
	return func(tm *TokenManager) {
		if leeway >= 0 {
			tm.expiryLeeway = leeway
		}
	}
}

// NewTokenManager creates a new token manager using the client credentials flow.
//
// Parameters:
//   - ctx: Context used only by GetToken; its values (such as oauth2.HTTPClient)
//     are kept, its cancellation is not. GetTokenWithContext, and therefore
//     httpclient.OAuth2Transport, uses the caller's context instead, so an
//     oauth2.HTTPClient meant for every fetch must be in that context too
//   - tokenURL: token endpoint (e.g., "https://api.example.com/api/v1/oauth2/token")
//   - clientID: client identifier
//   - clientSecret: client secret
//   - scopes: Space-separated list of scopes (e.g., "read_products")
//   - opts: Optional configuration options
func NewTokenManager(ctx context.Context, tokenURL, clientID, clientSecret, scopes string, opts ...Option) *TokenManager {
	if ctx == nil {
		ctx = context.Background()
	} else {
		ctx = context.WithoutCancel(ctx)
	}

	tm := &TokenManager{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		scopes:       strings.Fields(scopes),
		style:        StyleJSON,
		ctx:          ctx,
		expiryLeeway: time.Minute,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(tm)
	}

	switch tm.style {
	case StyleForm:
		tm.source = &formSource{config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       tm.scopes,
		}}
	default:
		tm.style = StyleJSON
		tm.source = &jsonSource{
			tokenURL:     tokenURL,
			clientID:     clientID,
			clientSecret: clientSecret,
			scope:        strings.Join(tm.scopes, " "),
			now:          func() time.Time { return tm.now() },
		}
	}

	return tm
}

// GetTokenWithContext returns a valid access token, fetching a new one if none is
// cached or the cached one is about to expire. The fetch honors ctx.
func (tm *TokenManager) GetTokenWithContext(ctx context.Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	tm.mu.RLock()
	if tm.tokenValid() {
		token := tm.token.AccessToken
		tm.mu.RUnlock()
		return token, nil
	}
	tm.mu.RUnlock()

	tm.mu.Lock()
	defer tm.mu.Unlock()

	// Another goroutine may have fetched while we waited for the write lock.
	if tm.tokenValid() {
		return tm.token.AccessToken, nil
	}

	token, err := tm.source.Token(ctx)
	if err != nil {
		if tm.logger != nil {
			tm.logger.Printf("oauth2: token request to %s failed: %v", tm.tokenURL, err)
		}
		return "", fmt.Errorf("oauth2: failed to fetch token: %w", err)
	}
	if token == nil || token.AccessToken == "" {
		return "", fmt.Errorf("oauth2: failed to fetch token: %w", ErrNoAccessToken)
	}

	if token.Expiry.IsZero() {
		token.Expiry = jwtExpiry(token.AccessToken)
	}

	tm.store(token)

	if tm.logger != nil {
		expires := "unknown"
		if !token.Expiry.IsZero() {
			expires = token.Expiry.Format(time.RFC3339)
		}
		tm.logger.Printf("oauth2: obtained new access token (expires: %s)", expires)
	}

	return token.AccessToken, nil
}

// store caches token. The refresh leeway is capped at half of the token's
// remaining lifetime, so a token issued for less than twice the configured
// leeway is still reused until its midpoint.
func (tm *TokenManager) store(token *oauth2.Token) {
	tm.token = token
	tm.leeway = tm.expiryLeeway
	if token.Expiry.IsZero() {
		return
	}
	if half := token.Expiry.Sub(tm.now()) / 2; half < tm.leeway {
		tm.leeway = max(half, 0)
	}
}

// GetToken returns a valid access token using the context given to NewTokenManager.
func (tm *TokenManager) GetToken() (string, error) {
	return tm.GetTokenWithContext(tm.ctx)
}

// Invalidate drops the cached token so the next call fetches a fresh one.
// The HTTP transport calls it when the API rejects a token.
func (tm *TokenManager) Invalidate() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.token != nil && tm.logger != nil {
		tm.logger.Printf("oauth2: cached access token invalidated")
	}
	tm.token = nil
}

// Style reports the request style in use.
func (tm *TokenManager) Style() Style {
	return tm.style
}

// tokenValid reports whether the cached token is still usable with a small safety window.
// Callers must hold tm.mu.
func (tm *TokenManager) tokenValid() bool {
	if tm.token == nil || tm.token.AccessToken == "" {
		return false
	}
	// A token without a known expiry stays valid until invalidated.
	if tm.token.Expiry.IsZero() {
		return true
	}
	return tm.token.Expiry.Sub(tm.now()) > tm.leeway
}
