// Command storefront is a command line client for the theme park storefront API.
//
// Settings come from STOREFRONT_* environment variables or a .env file:
//
//	STOREFRONT_API_BASE_URL=https://park.example.com/api
//	STOREFRONT_CLIENT_ID=storefront
//	STOREFRONT_CLIENT_SECRET=...
//
// Examples:
//
//	storefront products --category Kitchen --sort name_desc
//	storefront event 11
//	storefront book --event 1 --ticket 2 --date 2025-01-11 --hours morning --adult 2 --child 1
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/AmmannChristian/go-storefront/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.New(os.Stdout, os.Stderr).Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
