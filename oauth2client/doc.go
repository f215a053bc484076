// Package oauth2client provides a client-credentials token manager for the storefront API.
//
// The TokenManager obtains a bearer token on first use, caches it in memory, and hands the
// cached value to every later caller without another network round trip. Concurrent first
// callers wait for the same fetch. Tokens are re-acquired shortly before a known expiry, and
// Invalidate lets the HTTP transport discard a token the API has rejected.
//
// # Features
//
//   - JSON credential body (the storefront API's format) or RFC 6749 form body
//   - access_token read from the top level or from the API's "data" envelope
//   - Expiry from expires_in, or from the JWT exp claim when the token is a JWT
//   - Context-aware fetching; oauth2.HTTPClient in the context selects the HTTP client
//   - Optional logging (WithLogger, WithLoggingEnabled)
//
// # Quick Start
//
//	tm := oauth2client.NewTokenManager(
//	    ctx,
//	    "https://api.example.com/api/v1/oauth2/token",
//	    os.Getenv("STOREFRONT_CLIENT_ID"),
//	    os.Getenv("STOREFRONT_CLIENT_SECRET"),
//	    "read_products",
//	    oauth2client.WithLoggingEnabled(),
//	)
//
//	client := &http.Client{Transport: httpclient.NewOAuth2Transport(tm, nil)}
//
// # Notes
//
//   - A token without any known expiry lives until Invalidate is called.
//   - TokenManager is safe for concurrent use and uses double-checked locking.
package oauth2client
