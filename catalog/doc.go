// Package catalog reads products and events from the storefront's headless REST API.
//
// Every payload arrives in a {"data": ...} envelope. Client unwraps it, decodes products and
// events, and classifies failures as transport errors, *APIError for non-success statuses, or
// ErrMalformedResponse for bodies that are not valid JSON. Failures are logged through the
// optional Logger and returned; nothing is retried.
//
//	httpClient, _ := httpclient.NewBuilder().WithTokenSource(tm).Build()
//	c, err := catalog.NewClient("https://api.example.com/api", httpClient)
//	products, err := c.ListProductsByType(ctx, catalog.TypeRetail)
package catalog
