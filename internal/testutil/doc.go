// Package testutil provides test helpers for go-storefront packages.
//
// It includes utilities to spin up IPv4-only local HTTP servers (avoiding IPv6 in sandboxes),
// mock token endpoints without real sockets, a fake storefront API, JWT access tokens with a
// chosen expiry, and self-signed certificates for TLS/mTLS tests.
//
// # Utilities
//
//   - NewLocalHTTPServer: start httptest server bound to 127.0.0.1
//   - MockOAuth2Server, StaticJSONResponse, JSONResponse: stub token endpoints and capture requests
//   - FakeStorefrontAPI: token endpoint plus catalog endpoints with request counters
//   - RoundTripFunc: inline http.RoundTripper implementations
//   - AccessTokenJWT: mint a JWT access token with a given exp claim
//   - WriteTestCACert / WriteTestCertAndKey: generate temporary CA and leaf certificates for tests
//
// These helpers are designed for tests and may mutate http.DefaultClient/Transport; they restore previous values via tb.Cleanup.
package testutil
