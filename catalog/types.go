package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Product types accepted by ListProductsByType.
const (
	TypeRetail = "retail"
	TypeEvent  = "event"
)

// ID identifies a catalog record. The API sends numeric ids; strings are accepted too.
type ID string

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("catalog: invalid id %s", data)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as sent to the API in paths.
func (id ID) String() string {
	return string(id)
}

// Image is a picture attached to a product or event.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

// Product is a catalog record as returned by the products endpoints.
// Price is nil when the API does not provide one.
type Product struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	ProductType string   `json:"productType,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Images      []Image  `json:"images,omitempty"`
}

// RateType is a priced admission type within a Rate, e.g. "Adult".
type RateType struct {
	Type  string   `json:"type"`
	Price *float64 `json:"price,omitempty"`
}

// Rate groups rate types under a name.
type Rate struct {
	Name      string     `json:"name"`
	RateTypes []RateType `json:"rateTypes"`
}

// Event is the detail record of a bookable event.
type Event struct {
	ID              ID      `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Type            string  `json:"type,omitempty"`
	MaxOccupancy    int     `json:"maxOccupancy,omitempty"`
	AverageDuration int     `json:"averageDuration,omitempty"` // minutes
	ThirdPartyEmail string  `json:"thirdPartyEmail,omitempty"`
	Location        string  `json:"location,omitempty"`
	StartDate       string  `json:"startDate,omitempty"`
	EndDate         string  `json:"endDate,omitempty"`
	Images          []Image `json:"images,omitempty"`
	Rates           []Rate  `json:"rates,omitempty"`
}
