package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/AmmannChristian/go-storefront/booking"
	"github.com/AmmannChristian/go-storefront/cart"
	"github.com/AmmannChristian/go-storefront/catalog"
)

type weekCommand struct {
	app *App

	Offset int `long:"offset" default:"0" description:"Weeks from the current one, may be negative"`
}

func (c *weekCommand) Execute(args []string) error { return c.run(context.Background(), args) }

func (c *weekCommand) run(_ context.Context, _ []string) error {
	dates := booking.WeekDates(c.app.now(), c.Offset)

	tw := tabwriter.NewWriter(c.app.Stdout, 0, 4, 2, ' ', 0)
	for _, d := range dates {
		kind := "off-peak"
		if booking.IsPeak(d) {
			kind = "peak"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Format("Mon"), d.Format(booking.DateLayout), kind)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	slots := make([]string, 0, 2)
	for _, h := range booking.ParkHourSlots() {
		slots = append(slots, string(h))
	}
	fmt.Fprintf(c.app.Stdout, "Park hours: %s\n", strings.Join(slots, ", "))
	return nil
}

type eventsCommand struct {
	app *App
}

func (c *eventsCommand) Execute(args []string) error { return c.run(context.Background(), args) }

func (c *eventsCommand) run(_ context.Context, _ []string) error {
	out := c.app.Stdout
	for i, e := range booking.DefaultEvents() {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "[%s] %s - %s\n", e.ID, e.Name, e.PriceLabel)
		fmt.Fprintf(out, "%s\n", e.Description)

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, tt := range e.TicketTypes {
			fmt.Fprintf(tw, "  %d\t%s\t$%.2f\t%s\n", tt.ID, tt.Name, tt.Price, tt.Description)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

type bookCommand struct {
	app *App

	Event  string `long:"event" required:"yes" description:"Event id from the events command"`
	Ticket int    `long:"ticket" default:"1" description:"Ticket type id"`
	Date   string `long:"date" required:"yes" value-name:"YYYY-MM-DD" description:"Visit date"`
	Hours  string `long:"hours" required:"yes" choice:"morning" choice:"evening" description:"Park hours slot"`
	Adult  int    `long:"adult" description:"Adult tickets"`
	Child  int    `long:"child" description:"Child tickets"`
	Youth  int    `long:"youth" description:"Youth tickets"`
	Senior int    `long:"senior" description:"Senior tickets"`
}

func (c *bookCommand) Execute(args []string) error { return c.run(context.Background(), args) }

func (c *bookCommand) run(_ context.Context, _ []string) error {
	event, ok := booking.FindEvent(booking.DefaultEvents(), catalog.ID(c.Event))
	if !ok {
		return fmt.Errorf("unknown event %q", c.Event)
	}
	tt, ok := event.TicketType(c.Ticket)
	if !ok {
		return fmt.Errorf("event %s has no ticket type %d", event.ID, c.Ticket)
	}
	date, err := time.ParseInLocation(booking.DateLayout, c.Date, c.app.now().Location())
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", c.Date, err)
	}

	sel := booking.Selection{
		Event:      event,
		TicketType: &tt,
		Date:       date,
		Hours:      booking.Morning,
	}
	if c.Hours == "evening" {
		sel.Hours = booking.Evening
	}
	counts := map[booking.GuestCategory]int{
		booking.Adult:  c.Adult,
		booking.Child:  c.Child,
		booking.Youth:  c.Youth,
		booking.Senior: c.Senior,
	}
	for _, cat := range booking.GuestCategories() {
		if _, err := sel.Quantities.Adjust(cat, counts[cat]); err != nil {
			return err
		}
	}

	item, err := sel.CartItem()
	if err != nil {
		return err
	}
	basket := cart.New()
	id, err := basket.Add(item)
	if err != nil {
		return err
	}
	c.app.Log.WithField("line", id).Debug("added selection to cart")

	out := c.app.Stdout
	fmt.Fprintf(out, "Added to cart: %s, %s\n", item.Name, item.TicketType)
	kind := "off-peak"
	if booking.IsPeak(date) {
		kind = "peak"
	}
	fmt.Fprintf(out, "Date:    %s (%s), %s\n", item.Date, kind, item.Hours)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, cat := range booking.GuestCategories() {
		if n := item.Guests[string(cat)]; n > 0 {
			fmt.Fprintf(tw, "  %s\tx%d\n", cat, n)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Tickets: %d\n", basket.Tickets())
	fmt.Fprintf(out, "Total:   $%.2f\n", basket.Total())
	return nil
}
