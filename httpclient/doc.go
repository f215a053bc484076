// Package httpclient builds the storefront's shared HTTP client and its bearer-token transport.
//
// OAuth2Transport asks a TokenSource for the current token before every request and sets
// "Authorization: Bearer <token>" on a clone of the request. If no token can be obtained the
// request is aborted and the error is returned to the caller. A 401 answer makes the transport
// invalidate the cached token and replay the request once, when the body can be rewound.
//
// # Features
//
//   - Fluent builder for http.Client with optional bearer token injection
//   - TLS 1.2+ by default, with custom CA/mTLS and optional InsecureSkipVerify
//   - Custom timeouts, base transport override, and redirect disabling
//   - Reusable OAuth2Transport for manual composition
//
// # Quick Start
//
//	client, err := httpclient.NewBuilder().
//	    WithOAuth2(ctx,
//	        "https://api.example.com/api/v1/oauth2/token",
//	        clientID,
//	        clientSecret,
//	        "read_products",
//	    ).
//	    WithTimeout(60 * time.Second).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// All components are safe for concurrent use if the provided TokenSource is.
package httpclient
