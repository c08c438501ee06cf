package model

import (
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
)

// Slot is one bookable 30-minute unit owned by an opening.
type Slot struct {
	ID            int64     `json:"id"`
	OpeningID     int64     `json:"opening_id"`
	BeginsAtDate  time.Time `json:"begins_at_date"`
	BeginsAtTime  int       `json:"begins_at_time"` // секунды от полуночи
	DayOfWeek     *int      `json:"day_of_week"`    // только для weekly слотов
	IsWeekly      bool      `json:"is_weekly"`
	IsFullyBooked bool      `json:"is_fully_booked"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsRegular checks if slot is bound to a single calendar date
func (s *Slot) IsRegular() bool {
	return !s.IsWeekly
}

// EndsAtTime is the end of the slot window in seconds since midnight.
func (s *Slot) EndsAtTime() int {
	return s.BeginsAtTime + timeutil.SlotSeconds
}

// BeginsAtHours formats the slot start as HH:MM.
func (s *Slot) BeginsAtHours() string {
	return timeutil.FormatSeconds(s.BeginsAtTime)
}

// Weekday returns the weekday a slot recurs on. Regular slots have no stored
// weekday, their date decides.
func (s *Slot) Weekday() int {
	if s.DayOfWeek != nil {
		return *s.DayOfWeek
	}
	return timeutil.Weekday(s.BeginsAtDate)
}

// AppointmentSlot links an appointment to a slot it booked.
type AppointmentSlot struct {
	AppointmentID int64 `json:"appointment_id"`
	SlotID        int64 `json:"slot_id"`
}

// WeeklyBooking is a weekly slot together with the start of the appointment that took it.
type WeeklyBooking struct {
	SlotID              int64
	AppointmentStartsAt time.Time
}
