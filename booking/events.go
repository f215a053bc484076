package booking

import "github.com/AmmannChristian/go-storefront/catalog"

// TicketType is a pass offered for an event.
type TicketType struct {
	ID          int
	Name        string
	Price       float64
	Description string
}

// Event is a bookable experience together with its ticket types.
type Event struct {
	ID          catalog.ID
	Name        string
	Description string
	Image       string
	PriceLabel  string
	TicketTypes []TicketType
}

// TicketType looks up a ticket type by id.
func (e Event) TicketType(id int) (TicketType, bool) {
	for _, tt := range e.TicketTypes {
		if tt.ID == id {
			return tt, true
		}
	}
	return TicketType{}, false
}

// DefaultEvents returns the event lineup shown on the events page.
func DefaultEvents() []Event {
	return []Event{
		{
			ID:          "1",
			Name:        "Mission to Mars",
			Description: "Join us for an intergalactic tour to the Red Planet and beyond!",
			Image:       "/images/mars.webp",
			PriceLabel:  "General Admission - $50.00",
			TicketTypes: []TicketType{
				{ID: 1, Name: "Standard Pass", Price: 50, Description: "Basic access for the day."},
				{ID: 2, Name: "All Day Pass", Price: 75, Description: "Unlimited access for the entire day."},
				{ID: 3, Name: "Annual Pass", Price: 200, Description: "Enjoy access all year round."},
			},
		},
		{
			ID:          "11",
			Name:        "Rocket Launch Experience",
			Description: "Experience the thrill of a rocket launch and soar through space!",
			Image:       "/images/launch.webp",
			PriceLabel:  "Starting at $40.00",
			TicketTypes: []TicketType{
				{ID: 1, Name: "Standard Pass", Price: 40, Description: "Basic access for the day."},
				{ID: 2, Name: "All Day Pass", Price: 70, Description: "Unlimited access for the entire day."},
			},
		},
		{
			ID:          "13",
			Name:        "Astronaut Training",
			Description: "Train like an astronaut and prepare for your future space missions!",
			Image:       "/images/training.webp",
			PriceLabel:  "Standard Pass - $60.00",
			TicketTypes: []TicketType{
				{ID: 1, Name: "Standard Pass", Price: 60, Description: "Enjoy full astronaut training for one day."},
				{ID: 2, Name: "All Day Pass", Price: 100, Description: "Unlimited astronaut training access for the day."},
				{ID: 3, Name: "Annual Pass", Price: 300, Description: "Train like an astronaut all year round."},
			},
		},
	}
}

// FindEvent returns the event with the given id from events.
func FindEvent(events []Event, id catalog.ID) (Event, bool) {
	for _, e := range events {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}
