package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/tidwall/pretty"

	"github.com/AmmannChristian/go-storefront/catalog"
	"github.com/AmmannChristian/go-storefront/shop"
)

type tokenCommand struct {
	app *App
}

func (c *tokenCommand) Execute(args []string) error { return c.run(context.Background(), args) }

func (c *tokenCommand) run(ctx context.Context, _ []string) error {
	ctx, s, err := c.app.connect(ctx)
	if err != nil {
		return err
	}

	c.app.loading("token")
	token, err := s.tokens.GetTokenWithContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch token: %w", err)
	}
	fmt.Fprintln(c.app.Stdout, token)
	return nil
}

type productsCommand struct {
	app *App

	Type     string `long:"type" default:"retail" choice:"retail" choice:"event" description:"Product type to list"`
	Category string `long:"category" default:"all" description:"Only show this category"`
	Search   string `long:"search" description:"Only show names containing this text"`
	Sort     string `long:"sort" default:"name_asc" choice:"name_asc" choice:"name_desc" description:"Name ordering"`
}

func (c *productsCommand) Execute(args []string) error { return c.run(context.Background(), args) }

func (c *productsCommand) run(ctx context.Context, _ []string) error {
	sort, err := shop.ParseSortOption(c.Sort)
	if err != nil {
		return err
	}

	ctx, s, err := c.app.connect(ctx)
	if err != nil {
		return err
	}

	c.app.loading("products")
	products, err := s.catalog.ListProductsByType(ctx, c.Type)
	if err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}

	out := c.app.Stdout
	if categories := shop.Categories(products); len(categories) > 0 {
		fmt.Fprintf(out, "Categories: %s\n", strings.Join(categories, ", "))
	}

	products = shop.Query{Category: c.Category, Search: c.Search, Sort: sort}.Apply(products)
	if len(products) == 0 {
		fmt.Fprintln(out, "No products found.")
		return nil
	}
	return writeProducts(c.app, products)
}

type productCommand struct {
	app *App

	Args struct {
		ID string `positional-arg-name:"id" description:"Product id"`
	} `positional-args:"yes" required:"yes"`
}

func (c *productCommand) Execute(args []string) error { return c.run(context.Background(), args) }

func (c *productCommand) run(ctx context.Context, _ []string) error {
	ctx, s, err := c.app.connect(ctx)
	if err != nil {
		return err
	}

	c.app.loading("product details")
	p, err := s.catalog.ProductDetails(ctx, catalog.ID(c.Args.ID))
	if err != nil {
		return fmt.Errorf("failed to fetch product details: %w", err)
	}

	out := c.app.Stdout
	fmt.Fprintf(out, "%s\n", p.Name)
	fmt.Fprintf(out, "Category: %s\n", valueOr(p.Category, "-"))
	fmt.Fprintf(out, "Price:    %s\n", shop.PriceLabel(*p))
	if p.Description != "" {
		fmt.Fprintf(out, "\n%s\n", p.Description)
	}
	for _, img := range p.Images {
		fmt.Fprintf(out, "Image:    %s\n", img.URL)
	}

	if p.Category == "" {
		return nil
	}
	retail, err := s.catalog.ListProductsByType(ctx, catalog.TypeRetail)
	if err != nil {
		return fmt.Errorf("failed to fetch related products: %w", err)
	}
	related := shop.Related(retail, *p)
	if len(related) == 0 {
		return nil
	}
	fmt.Fprintln(out, "\nRelated products:")
	return writeProducts(c.app, related)
}

type eventCommand struct {
	app *App

	Args struct {
		ID string `positional-arg-name:"id" description:"Event id"`
	} `positional-args:"yes" required:"yes"`
}

func (c *eventCommand) Execute(args []string) error { return c.run(context.Background(), args) }

func (c *eventCommand) run(ctx context.Context, _ []string) error {
	ctx, s, err := c.app.connect(ctx)
	if err != nil {
		return err
	}

	c.app.loading("event details")
	e, err := s.catalog.EventDetails(ctx, catalog.ID(c.Args.ID))
	if err != nil {
		return fmt.Errorf("failed to fetch event details: %w", err)
	}

	out := c.app.Stdout
	fmt.Fprintf(out, "%s\n", e.Name)
	if e.Description != "" {
		fmt.Fprintf(out, "%s\n", e.Description)
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Location:\t%s\n", valueOr(e.Location, "-"))
	fmt.Fprintf(tw, "Dates:\t%s to %s\n", valueOr(e.StartDate, "?"), valueOr(e.EndDate, "?"))
	if e.AverageDuration > 0 {
		fmt.Fprintf(tw, "Duration:\t%d min\n", e.AverageDuration)
	}
	if e.MaxOccupancy > 0 {
		fmt.Fprintf(tw, "Capacity:\t%d\n", e.MaxOccupancy)
	}
	if e.ThirdPartyEmail != "" {
		fmt.Fprintf(tw, "Contact:\t%s\n", e.ThirdPartyEmail)
	}
	for _, img := range e.Images {
		fmt.Fprintf(tw, "Image:\t%s\n", img.URL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, rate := range e.Rates {
		fmt.Fprintf(out, "\nRates: %s\n", rate.Name)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, rt := range rate.RateTypes {
			price := "n/a"
			if rt.Price != nil {
				price = fmt.Sprintf("$%.2f", *rt.Price)
			}
			fmt.Fprintf(tw, "  %s\t%s\n", rt.Type, price)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

type getCommand struct {
	app *App

	Args struct {
		Endpoint string `positional-arg-name:"endpoint" description:"Path under the API base URL, or an absolute URL"`
	} `positional-args:"yes" required:"yes"`
}

func (c *getCommand) Execute(args []string) error { return c.run(context.Background(), args) }

func (c *getCommand) run(ctx context.Context, _ []string) error {
	ctx, s, err := c.app.connect(ctx)
	if err != nil {
		return err
	}

	c.app.loading(c.Args.Endpoint)
	data, err := s.catalog.Get(ctx, c.Args.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", c.Args.Endpoint, err)
	}
	_, err = c.app.Stdout.Write(pretty.Pretty(data))
	return err
}

func writeProducts(a *App, products []catalog.Product) error {
	tw := tabwriter.NewWriter(a.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, valueOr(p.Category, "-"), shop.PriceLabel(p))
	}
	return tw.Flush()
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
