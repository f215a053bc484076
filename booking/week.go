package booking

import "time"

// DaysPerWeek is the number of dates offered per page of the date picker.
const DaysPerWeek = 7

// WeekDates returns seven consecutive dates starting at local midnight of now,
// shifted by offset weeks. Negative offsets move into the past.
func WeekDates(now time.Time, offset int) []time.Time {
	y, m, d := now.Date()
	start := time.Date(y, m, d+offset*DaysPerWeek, 0, 0, 0, 0, now.Location())

	dates := make([]time.Time, DaysPerWeek)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// IsPeak reports whether date falls on a weekend.
func IsPeak(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}

// ParkHours is a bookable visiting window.
type ParkHours string

const (
	Morning ParkHours = "Morning: 8AM-12PM"
	Evening ParkHours = "Evening: 4PM-8PM"
)

// ParkHourSlots returns the slots in display order.
func ParkHourSlots() []ParkHours {
	return []ParkHours{Morning, Evening}
}

// Valid reports whether h is one of the offered slots.
func (h ParkHours) Valid() bool {
	return h == Morning || h == Evening
}
