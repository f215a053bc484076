// Package cli implements the storefront command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/AmmannChristian/go-storefront/catalog"
	"github.com/AmmannChristian/go-storefront/config"
	"github.com/AmmannChristian/go-storefront/httpclient"
	"github.com/AmmannChristian/go-storefront/oauth2client"
)

// App runs one storefront command.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	Log    *logrus.Logger

	now  func() time.Time
	opts globalOptions
}

type globalOptions struct {
	EnvFiles []string `long:"env-file" value-name:"PATH" description:"Load STOREFRONT_* variables from this file (repeatable)"`
	Verbose  bool     `short:"v" long:"verbose" description:"Log token and request activity"`
}

// contextCommand is implemented by every command so Run can pass its context down.
type contextCommand interface {
	run(ctx context.Context, args []string) error
}

// New returns an App writing results to stdout and diagnostics to stderr.
func New(stdout, stderr io.Writer) *App {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetLevel(logrus.WarnLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	return &App{
		Stdout: stdout,
		Stderr: stderr,
		Log:    log,
		now:    time.Now,
	}
}

// Run parses args, executes the selected command and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	parser := flags.NewParser(&a.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "storefront"
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if c, ok := cmd.(contextCommand); ok {
			return c.run(ctx, args)
		}
		return cmd.Execute(args)
	}
	if err := a.register(parser); err != nil {
		a.fail(err)
		return 1
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(a.Stdout, ferr.Message)
			return 0
		}
		a.fail(err)
		return 1
	}
	return 0
}

func (a *App) register(p *flags.Parser) error {
	commands := []struct {
		name, short string
		data        any
	}{
		{"token", "Fetch an access token from the identity endpoint", &tokenCommand{app: a}},
		{"products", "List gift shop products", &productsCommand{app: a}},
		{"product", "Show a retail product and related products", &productCommand{app: a}},
		{"event", "Show an event record from the catalog", &eventCommand{app: a}},
		{"get", "GET an API endpoint and print its data", &getCommand{app: a}},
		{"week", "Show the bookable dates of a week", &weekCommand{app: a}},
		{"events", "List the event lineup and ticket types", &eventsCommand{app: a}},
		{"book", "Price a ticket selection and add it to a cart", &bookCommand{app: a}},
	}
	for _, c := range commands {
		if _, err := p.AddCommand(c.name, c.short, "", c.data); err != nil {
			return fmt.Errorf("register %s command: %w", c.name, err)
		}
	}
	return nil
}

// session is the authenticated API access shared by the catalog commands.
type session struct {
	cfg     *config.Config
	tokens  *oauth2client.TokenManager
	catalog *catalog.Client
}

// connect loads configuration and builds the token manager and catalog client.
// The returned context carries the unauthenticated HTTP client used for token requests.
func (a *App) connect(ctx context.Context) (context.Context, *session, error) {
	cfg, err := config.Load(a.opts.EnvFiles...)
	if err != nil {
		return ctx, nil, err
	}

	a.Log.SetLevel(cfg.Level())
	if a.opts.Verbose {
		a.Log.SetLevel(logrus.DebugLevel)
	}

	builder := httpclient.NewBuilder().WithTimeout(cfg.HTTPTimeout)
	if cfg.TLSConfigured() {
		builder = builder.WithTLS(cfg.TLSCAFile, cfg.TLSCertFile, cfg.TLSKeyFile)
	}
	if cfg.TLSInsecureSkipVerify {
		a.Log.Warn("TLS certificate verification is disabled")
		builder = builder.WithInsecureSkipVerify()
	}

	// Token requests go out unauthenticated on the same transport the API uses.
	plain, err := builder.Build()
	if err != nil {
		return ctx, nil, err
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, plain)

	tokens := oauth2client.NewTokenManager(ctx, cfg.TokenURL, cfg.ClientID, cfg.ClientSecret, cfg.Scope,
		oauth2client.WithStyle(cfg.TokenStyle),
		oauth2client.WithLogger(debugLogger{a.Log.WithField("component", "oauth2")}),
	)

	api := httpclient.NewBuilder().
		WithTimeout(cfg.HTTPTimeout).
		WithBaseTransport(plain.Transport).
		WithTokenSource(tokens)
	if !cfg.HTTPFollowRedirects {
		api = api.WithoutRedirects()
	}
	authed, err := api.Build()
	if err != nil {
		return ctx, nil, err
	}

	client, err := catalog.NewClient(cfg.APIBaseURL, authed,
		catalog.WithLogger(debugLogger{a.Log.WithField("component", "catalog")}))
	if err != nil {
		return ctx, nil, err
	}

	a.Log.WithFields(logrus.Fields{
		"api":         cfg.APIBaseURL,
		"token_url":   cfg.TokenURL,
		"token_style": cfg.TokenStyle,
		"mtls":        cfg.TLSCertFile != "",
	}).Debug("storefront client configured")

	return ctx, &session{cfg: cfg, tokens: tokens, catalog: client}, nil
}

// fail prints err as a single line.
func (a *App) fail(err error) {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	fmt.Fprintf(a.Stderr, "Error: %s\n", msg)
}

// loading prints the pending-fetch line.
func (a *App) loading(what string) {
	fmt.Fprintf(a.Stderr, "Loading %s...\n", what)
}

// debugLogger routes library Printf logging to logrus at debug level.
type debugLogger struct {
	entry *logrus.Entry
}

func (l debugLogger) Printf(format string, args ...any) {
	l.entry.Debugf(format, args...)
}
