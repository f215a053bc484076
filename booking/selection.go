package booking

import (
	"errors"
	"time"

	"github.com/AmmannChristian/go-storefront/cart"
)

var (
	ErrNoTicketType = errors.New("booking: no ticket type selected")
	ErrNoDate       = errors.New("booking: no date selected")
	ErrNoHours      = errors.New("booking: no park hours selected")
	ErrNoGuests     = errors.New("booking: at least one ticket is required")
)

// DateLayout is the date format stored on cart lines.
const DateLayout = "2006-01-02"

// Selection is the state of the booking form for one event.
type Selection struct {
	Event      Event
	TicketType *TicketType
	Date       time.Time
	Hours      ParkHours
	Quantities Quantities
}

// Validate reports every missing field of the selection.
func (s *Selection) Validate() error {
	var errs []error
	if s.TicketType == nil {
		errs = append(errs, ErrNoTicketType)
	}
	if s.Date.IsZero() {
		errs = append(errs, ErrNoDate)
	}
	if !s.Hours.Valid() {
		errs = append(errs, ErrNoHours)
	}
	if s.Quantities.Total() == 0 {
		errs = append(errs, ErrNoGuests)
	}
	return errors.Join(errs...)
}

// Total prices the selection. Adults pay the ticket type's price, youth and
// seniors pay their category price and children are free.
func (s *Selection) Total() float64 {
	var sum float64
	for c, n := range s.Quantities {
		if n <= 0 {
			continue
		}
		price := c.UnitPrice()
		if c == Adult && s.TicketType != nil {
			price = s.TicketType.Price
		}
		sum += float64(n) * price
	}
	return sum
}

// CartItem converts a valid selection into a cart line.
func (s *Selection) CartItem() (cart.Item, error) {
	if err := s.Validate(); err != nil {
		return cart.Item{}, err
	}

	guests := make(map[string]int, len(s.Quantities))
	for c, n := range s.Quantities {
		if n > 0 {
			guests[string(c)] = n
		}
	}

	return cart.Item{
		Name:       s.Event.Name,
		Date:       s.Date.Format(DateLayout),
		Hours:      string(s.Hours),
		TicketType: s.TicketType.Name,
		Guests:     guests,
		Quantity:   s.Quantities.Total(),
		Total:      s.Total(),
	}, nil
}
