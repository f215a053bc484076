// Package booking models the event ticket flow: the default event lineup, the
// bookable week, park-hour slots, guest categories and the selection that is
// priced and turned into a cart line.
package booking
