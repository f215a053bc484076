package oauth2client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	// ErrNoAccessToken is returned when the token endpoint answers without an access token.
	ErrNoAccessToken = errors.New("response contains no access token")

	// ErrMalformedResponse is returned when the token endpoint answers with invalid JSON.
	ErrMalformedResponse = errors.New("malformed token response")
)

const maxTokenResponseSize = 1 << 20

// Token fields may sit at the top level or inside the API's data envelope.
var (
	accessTokenPaths = []string{"access_token", "data.access_token"}
	tokenTypePaths   = []string{"token_type", "data.token_type"}
	expiresInPaths   = []string{"expires_in", "data.expires_in"}
)

// tokenRequest is the JSON body sent by jsonSource.
type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Scope        string `json:"scope,omitempty"`
	GrantType    string `json:"grant_type"`
}

// jsonSource posts the client credentials as JSON.
type jsonSource struct {
	tokenURL     string
	clientID     string
	clientSecret string
	scope        string
	now          func() time.Time
}

func (s *jsonSource) Token(ctx context.Context) (*oauth2.Token, error) {
	body, err := json.Marshal(tokenRequest{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Scope:        s.scope,
		GrantType:    "client_credentials",
	})
	if err != nil {
		return nil, fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := contextClient(ctx).Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retrieveErr := &oauth2.RetrieveError{Response: resp, Body: raw}
		if code := gjson.GetBytes(raw, "error"); code.Type == gjson.String {
			retrieveErr.ErrorCode = code.String()
			retrieveErr.ErrorDescription = gjson.GetBytes(raw, "error_description").String()
		}
		return nil, retrieveErr
	}

	now := time.Now()
	if s.now != nil {
		now = s.now()
	}
	return parseTokenResponse(raw, now)
}

// parseTokenResponse extracts the token fields from a successful response body.
func parseTokenResponse(raw []byte, now time.Time) (*oauth2.Token, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrMalformedResponse
	}

	access := firstString(raw, accessTokenPaths)
	if access == "" {
		return nil, ErrNoAccessToken
	}

	token := &oauth2.Token{
		AccessToken: access,
		TokenType:   firstString(raw, tokenTypePaths),
	}
	if token.TokenType == "" {
		token.TokenType = "Bearer"
	}

	for _, path := range expiresInPaths {
		if v := gjson.GetBytes(raw, path); v.Exists() && v.Int() > 0 {
			token.Expiry = now.Add(time.Duration(v.Int()) * time.Second)
			break
		}
	}

	return token, nil
}

func firstString(raw []byte, paths []string) string {
	for _, path := range paths {
		if v := gjson.GetBytes(raw, path); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// formSource delegates to the standard client credentials implementation.
type formSource struct {
	config *clientcredentials.Config
}

func (s *formSource) Token(ctx context.Context) (*oauth2.Token, error) {
	return s.config.Token(ctx)
}

// contextClient returns the HTTP client stored under oauth2.HTTPClient, or http.DefaultClient.
func contextClient(ctx context.Context) *http.Client {
	if client, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok && client != nil {
		return client
	}
	return http.DefaultClient
}

// jwtExpiry returns the exp claim of a JWT access token without verifying it.
// Opaque tokens yield the zero time.
func jwtExpiry(accessToken string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
