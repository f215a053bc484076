package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// FakeStorefrontAPI is an in-process stand-in for the storefront REST API.
// It issues tokens on the JSON client-credentials endpoint and serves catalog
// records wrapped in the API's {"data": ...} envelope.
type FakeStorefrontAPI struct {
	Server *httptest.Server

	// BaseURL is the API root, e.g. http://127.0.0.1:1234/api.
	BaseURL string
	// TokenURL is the token endpoint under BaseURL.
	TokenURL string

	ClientID     string
	ClientSecret string

	tokenCalls   atomic.Int64
	catalogCalls atomic.Int64
	reject       atomic.Int64

	mu          sync.Mutex
	tokens      []string
	tokenStatus int
	lastAuth    string
	products    []map[string]any
	events      map[string]map[string]any
}

// NewFakeStorefrontAPI starts the fake API with a small retail and event catalog.
func NewFakeStorefrontAPI(tb testing.TB) *FakeStorefrontAPI {
	tb.Helper()

	api := &FakeStorefrontAPI{
		ClientID:     "storefront",
		ClientSecret: "storefront-secret",
		tokenStatus:  http.StatusOK,
		products: []map[string]any{
			{"id": 1, "name": "Rocket Mug", "category": "Kitchen", "productType": "retail", "price": 12.5},
			{"id": 2, "name": "astronaut plush", "category": "Toys", "productType": "retail"},
			{"id": 3, "name": "Launch Poster", "category": "Decor", "productType": "retail", "price": 20},
			{"id": 4, "name": "Comet Cup", "category": "Kitchen", "productType": "retail", "price": 9.99},
			{"id": 11, "name": "Rocket Launch Experience", "category": "Shows", "productType": "event"},
		},
		events: map[string]map[string]any{
			"11": {
				"id":              11,
				"name":            "Rocket Launch Experience",
				"description":     "Experience the thrill of a rocket launch.",
				"type":            "event",
				"maxOccupancy":    120,
				"averageDuration": 90,
				"location":        "Pad 39",
				"startDate":       "2025-01-01",
				"endDate":         "2025-12-31",
				"images":          []map[string]any{{"url": "/images/launch.webp", "altText": "Launch"}},
				"rates": []map[string]any{{
					"name": "General",
					"rateTypes": []map[string]any{
						{"type": "Adult", "price": 40},
						{"type": "Child", "price": 0},
					},
				}},
			},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/oauth2/token", api.handleToken)
	mux.HandleFunc("GET /api/v1/headless/products", api.authorized(api.handleProducts))
	mux.HandleFunc("GET /api/v1/headless/products/retail/{id}", api.authorized(api.handleProduct))
	mux.HandleFunc("GET /api/v1/headless/products/event/{id}", api.authorized(api.handleEvent))
	mux.HandleFunc("GET /api/v1/headless/categories", api.authorized(api.handleCategories))
	mux.HandleFunc("GET /api/v1/headless/broken", api.authorized(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [`))
	}))

	api.Server = NewLocalHTTPServer(tb, mux)
	api.BaseURL = api.Server.URL + "/api"
	api.TokenURL = api.BaseURL + "/v1/oauth2/token"

	return api
}

// TokenRequests returns how many times the token endpoint was called.
func (a *FakeStorefrontAPI) TokenRequests() int {
	return int(a.tokenCalls.Load())
}

// CatalogRequests returns how many catalog requests reached the API, authorized or not.
func (a *FakeStorefrontAPI) CatalogRequests() int {
	return int(a.catalogCalls.Load())
}

// LastAuthorization returns the Authorization header of the most recent catalog request.
func (a *FakeStorefrontAPI) LastAuthorization() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastAuth
}

// IssuedTokens returns every token the fake has handed out.
func (a *FakeStorefrontAPI) IssuedTokens() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.tokens))
	copy(out, a.tokens)
	return out
}

// SetTokenStatus makes the token endpoint answer with status instead of issuing a token.
func (a *FakeStorefrontAPI) SetTokenStatus(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokenStatus = status
}

// RejectNext makes the next n catalog requests fail with 401 regardless of the token.
func (a *FakeStorefrontAPI) RejectNext(n int) {
	a.reject.Store(int64(n))
}

func (a *FakeStorefrontAPI) handleToken(w http.ResponseWriter, r *http.Request) {
	n := a.tokenCalls.Add(1)

	a.mu.Lock()
	status := a.tokenStatus
	a.mu.Unlock()

	if status != http.StatusOK {
		writeJSON(w, status, map[string]any{"error": "invalid_client", "error_description": "rejected by fake"})
		return
	}

	var body struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
		Scope        string `json:"scope"`
		GrantType    string `json:"grant_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_request"})
		return
	}
	if body.ClientID != a.ClientID || body.ClientSecret != a.ClientSecret || body.GrantType != "client_credentials" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid_client"})
		return
	}

	token := fmt.Sprintf("fake-token-%d", n)
	a.mu.Lock()
	a.tokens = append(a.tokens, token)
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   3600,
		},
	})
}

func (a *FakeStorefrontAPI) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.catalogCalls.Add(1)
		auth := r.Header.Get("Authorization")

		a.mu.Lock()
		a.lastAuth = auth
		known := false
		for _, t := range a.tokens {
			if auth == "Bearer "+t {
				known = true
				break
			}
		}
		a.mu.Unlock()

		if a.reject.Load() > 0 {
			a.reject.Add(-1)
			known = false
		}
		if !known {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "unauthorized"})
			return
		}
		next(w, r)
	}
}

func (a *FakeStorefrontAPI) handleProducts(w http.ResponseWriter, r *http.Request) {
	productType := r.URL.Query().Get("productType")

	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]map[string]any, 0, len(a.products))
	for _, p := range a.products {
		if productType == "" || strings.EqualFold(fmt.Sprint(p["productType"]), productType) {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (a *FakeStorefrontAPI) handleProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, p := range a.products {
		if fmt.Sprint(p["id"]) == id && p["productType"] == "retail" {
			writeJSON(w, http.StatusOK, map[string]any{"data": p})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"message": "product not found"})
}

func (a *FakeStorefrontAPI) handleEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	a.mu.Lock()
	defer a.mu.Unlock()

	event, ok := a.events[id]
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"data": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": event})
}

func (a *FakeStorefrontAPI) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": []string{"Kitchen", "Toys", "Decor"}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
