package httpclient

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AmmannChristian/go-storefront/internal/testutil"
	"github.com/AmmannChristian/go-storefront/oauth2client"
)

func newMockTokenEndpoint(tb testing.TB) *testutil.MockOAuth2Server {
	tb.Helper()

	return testutil.NewMockOAuth2Server(tb, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/token" {
			tb.Fatalf("unexpected token path: %s", req.URL.Path)
		}
		return testutil.StaticJSONResponse(`{"data": {"access_token": "mock-token", "expires_in": 3600}}`)(req)
	})
}

func TestNewBuilder(t *testing.T) {
	builder := NewBuilder()

	if builder.timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", builder.timeout)
	}

	if !builder.redirects {
		t.Error("redirects should be enabled by default")
	}

	if builder.tokenSource != nil {
		t.Error("no token source should be set by default")
	}
}

func TestBuilder_Setters(t *testing.T) {
	tm := oauth2client.NewTokenManager(context.Background(), "https://api.example.com/token", "client", "secret", "read_products")
	custom := &http.Transport{}

	builder := NewBuilder().
		WithTokenSource(tm).
		WithTLS("/path/to/ca.crt", "/path/to/cert.crt", "/path/to/key.pem").
		WithInsecureSkipVerify().
		WithTimeout(45 * time.Second).
		WithBaseTransport(custom).
		WithoutRedirects()

	if builder.tokenSource != tm {
		t.Error("token source not set correctly")
	}
	if !builder.tlsSet || builder.caFile != "/path/to/ca.crt" ||
		builder.certFile != "/path/to/cert.crt" || builder.keyFile != "/path/to/key.pem" {
		t.Errorf("unexpected TLS settings: %+v", builder)
	}
	if !builder.skipVerify {
		t.Error("InsecureSkipVerify should be enabled")
	}
	if builder.timeout != 45*time.Second {
		t.Errorf("expected timeout 45s, got %v", builder.timeout)
	}
	if builder.base != custom {
		t.Error("base transport not set correctly")
	}
	if builder.redirects {
		t.Error("redirects should be disabled")
	}
}

func TestBuilder_WithOAuth2_PassesOptions(t *testing.T) {
	builder := NewBuilder().WithOAuth2(context.Background(), "https://api.example.com/token", "client-id", "secret",
		"read_products", oauth2client.WithStyle(oauth2client.StyleForm))

	tm, ok := builder.tokenSource.(*oauth2client.TokenManager)
	if !ok {
		t.Fatalf("expected *oauth2client.TokenManager, got %T", builder.tokenSource)
	}
	if tm.Style() != oauth2client.StyleForm {
		t.Errorf("expected form style, got %s", tm.Style())
	}
}

func TestBuilder_Build_Simple(t *testing.T) {
	client, err := NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if client.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", client.Timeout)
	}

	if _, ok := client.Transport.(*OAuth2Transport); ok {
		t.Error("transport should not authenticate without a token source")
	}
}

func TestBuilder_Build_WithoutRedirects(t *testing.T) {
	client, err := NewBuilder().WithoutRedirects().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if client.CheckRedirect == nil {
		t.Fatal("CheckRedirect should be set")
	}

	if err := client.CheckRedirect(nil, nil); err != http.ErrUseLastResponse {
		t.Errorf("expected ErrUseLastResponse, got %v", err)
	}
}

func TestBuilder_Build_WithBaseTransport_AndOAuth2(t *testing.T) {
	authServer := newMockTokenEndpoint(t)
	defer authServer.Close()

	customTransport := &http.Transport{}

	client, err := NewBuilder().
		WithBaseTransport(customTransport).
		WithOAuth2(authServer.Ctx, authServer.URL+"/token", "client", "secret", "read_products").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	oauth2Transport, ok := client.Transport.(*OAuth2Transport)
	if !ok {
		t.Fatal("transport should be OAuth2Transport")
	}

	if oauth2Transport.Base != customTransport {
		t.Error("OAuth2Transport should wrap custom transport")
	}
}

func TestBuilder_BuildTLSConfig(t *testing.T) {
	tmpDir := t.TempDir()
	caFile := filepath.Join(tmpDir, "ca.crt")
	testutil.WriteTestCACert(t, caFile)

	badCA := filepath.Join(tmpDir, "bad.crt")
	if err := os.WriteFile(badCA, []byte("invalid cert content"), 0o600); err != nil {
		t.Fatalf("failed to write CA file: %v", err)
	}

	tests := []struct {
		name       string
		configure  func(*Builder)
		wantErr    bool
		wantRoots  bool
		wantInsecu bool
	}{
		{name: "defaults", configure: func(b *Builder) {}},
		{name: "skip verify", configure: func(b *Builder) { b.skipVerify = true }, wantInsecu: true},
		{name: "ca file", configure: func(b *Builder) { b.caFile = caFile }, wantRoots: true},
		{name: "missing ca file", configure: func(b *Builder) { b.caFile = "/nonexistent/ca.crt" }, wantErr: true},
		{name: "invalid ca content", configure: func(b *Builder) { b.caFile = badCA }, wantErr: true},
		{name: "cert without key", configure: func(b *Builder) { b.certFile = "/path/to/cert.crt" }, wantErr: true},
		{name: "key without cert", configure: func(b *Builder) { b.keyFile = "/path/to/key.pem" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewBuilder()
			builder.tlsSet = true
			tt.configure(builder)

			tlsConfig, err := builder.tlsConfig()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("tlsConfig failed: %v", err)
			}
			if tlsConfig.MinVersion != tls.VersionTLS12 {
				t.Errorf("expected TLS 1.2, got %d", tlsConfig.MinVersion)
			}
			if (tlsConfig.RootCAs != nil) != tt.wantRoots {
				t.Errorf("RootCAs set = %v, want %v", tlsConfig.RootCAs != nil, tt.wantRoots)
			}
			if tlsConfig.InsecureSkipVerify != tt.wantInsecu {
				t.Errorf("InsecureSkipVerify = %v, want %v", tlsConfig.InsecureSkipVerify, tt.wantInsecu)
			}
		})
	}
}

func TestBuilder_Build_WithMutualTLS_LoadsCertificates(t *testing.T) {
	tmpDir := t.TempDir()
	caFile := filepath.Join(tmpDir, "ca.crt")
	certFile := filepath.Join(tmpDir, "client.crt")
	keyFile := filepath.Join(tmpDir, "client.key")

	testutil.WriteTestCACert(t, caFile)
	testutil.WriteTestCertAndKey(t, certFile, keyFile)

	client, err := NewBuilder().WithTLS(caFile, certFile, keyFile).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", client.Transport)
	}

	if transport.TLSClientConfig.RootCAs == nil {
		t.Error("RootCAs should be configured from CA file")
	}
	if len(transport.TLSClientConfig.Certificates) == 0 {
		t.Fatal("expected client certificates to be loaded")
	}
}

func TestBuilder_Build_WithMutualTLS_InvalidCert(t *testing.T) {
	tmpDir := t.TempDir()
	certFile := filepath.Join(tmpDir, "client.crt")
	keyFile := filepath.Join(tmpDir, "client.key")

	if err := os.WriteFile(certFile, []byte("bad cert"), 0o600); err != nil {
		t.Fatalf("failed to write cert file: %v", err)
	}
	if err := os.WriteFile(keyFile, []byte("bad key"), 0o600); err != nil {
		t.Fatalf("failed to write key file: %v", err)
	}

	_, err := NewBuilder().WithTLS("", certFile, keyFile).Build()
	if err == nil {
		t.Fatal("expected error for invalid cert/key")
	}

	if !strings.Contains(err.Error(), "load client certificate") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuilder_Build_ReplacedDefaultTransport(t *testing.T) {
	tmpDir := t.TempDir()
	caFile := filepath.Join(tmpDir, "ca.crt")
	testutil.WriteTestCACert(t, caFile)

	origDefault := http.DefaultTransport
	http.DefaultTransport = testutil.StaticJSONResponse(`{"data": []}`)
	t.Cleanup(func() { http.DefaultTransport = origDefault })

	client, err := NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	resp, err := client.Get("https://api.example.com/api/v1/headless/products")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if _, err := NewBuilder().WithTLS(caFile, "", "").Build(); err == nil {
		t.Fatal("expected an error when TLS settings cannot be applied")
	}
}

func TestBuilder_Build_RedirectPolicy(t *testing.T) {
	other := testutil.NewLocalHTTPServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Authorization-Seen", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))

	mux := http.NewServeMux()
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/here", http.StatusFound)
	})
	mux.HandleFunc("/here", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/elsewhere", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, other.URL+"/steal", http.StatusFound)
	})
	api := testutil.NewLocalHTTPServer(t, mux)

	client, err := NewBuilder().WithTokenSource(staticTokens("secret-token")).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	resp, err := client.Get(api.URL + "/moved")
	if err != nil {
		t.Fatalf("same-host redirect should be followed: %v", err)
	}
	resp.Body.Close()
	if resp.Request.URL.Path != "/here" {
		t.Errorf("expected to end at /here, got %s", resp.Request.URL.Path)
	}

	resp, err = client.Get(api.URL + "/elsewhere")
	if err == nil {
		seen := resp.Header.Get("X-Authorization-Seen")
		resp.Body.Close()
		t.Fatalf("cross-host redirect was followed (Authorization seen: %q)", seen)
	}
	if !strings.Contains(err.Error(), "refusing to send bearer token") {
		t.Errorf("unexpected error: %v", err)
	}

	plain, err := NewBuilder().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	resp, err = plain.Get(api.URL + "/elsewhere")
	if err != nil {
		t.Fatalf("unauthenticated client should follow cross-host redirects: %v", err)
	}
	resp.Body.Close()
}

func TestBuilder_Build_WithoutRedirects_ReturnsRedirect(t *testing.T) {
	api := testutil.NewLocalHTTPServer(t, http.RedirectHandler("/next", http.StatusFound))

	client, err := NewBuilder().WithoutRedirects().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	resp, err := client.Get(api.URL + "/start")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Errorf("expected 302, got %d", resp.StatusCode)
	}
}

func TestBuilder_Build_Integration(t *testing.T) {
	authServer := newMockTokenEndpoint(t)
	defer authServer.Close()

	baseTransport := testutil.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("Authorization") != "Bearer mock-token" {
			return testutil.JSONResponse(http.StatusUnauthorized, `{"message": "missing auth"}`)(req)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader("success")),
			Request:    req,
		}, nil
	})

	client, err := NewBuilder().
		WithOAuth2(authServer.Ctx, authServer.URL+"/token", "client", "secret", "read_products").
		WithBaseTransport(baseTransport).
		WithTimeout(10 * time.Second).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	resp, err := client.Get("https://api.example.com/api/v1/headless/products?productType=retail")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func BenchmarkBuilder_Build_WithOAuth2(b *testing.B) {
	authServer := newMockTokenEndpoint(b)
	defer authServer.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		client, err := NewBuilder().
			WithOAuth2(authServer.Ctx, authServer.URL+"/token", "client", "secret", "read_products").
			Build()
		if err != nil {
			b.Fatalf("Build failed: %v", err)
		}
		_ = client
	}
}
