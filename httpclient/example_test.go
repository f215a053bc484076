package httpclient_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/AmmannChristian/go-storefront/httpclient"
	"github.com/AmmannChristian/go-storefront/oauth2client"
)

// ExampleNewHTTPClient creates the shared client with default settings.
func ExampleNewHTTPClient() {
	tm := oauth2client.NewTokenManager(
		context.Background(),
		"https://api.example.com/api/v1/oauth2/token",
		"client-id",
		"client-secret",
		"read_products",
	)

	client := httpclient.NewHTTPClient(tm)

	fmt.Printf("Client timeout: %v\n", client.Timeout)
	// Output: Client timeout: 30s
}

// ExampleNewBuilder configures timeouts and TLS alongside authentication.
func ExampleNewBuilder() {
	client, err := httpclient.NewBuilder().
		WithOAuth2(context.Background(), "https://api.example.com/api/v1/oauth2/token", "client-id", "secret", "read_products").
		WithTimeout(60 * time.Second).
		WithoutRedirects().
		Build()
	if err != nil {
		log.Fatal(err)
	}

	_, authenticated := client.Transport.(*httpclient.OAuth2Transport)
	fmt.Printf("timeout=%v authenticated=%v\n", client.Timeout, authenticated)
	// Output: timeout=1m0s authenticated=true
}
