package domain

import (
	"fmt"
	"time"
)

// Slot is one daily-recurring notification point derived from a user's
// settings. Hour/Minute are the user's civil time and label the trigger;
// UTCHour/UTCMinute are the converted dispatch time.
type Slot struct {
	TelegramID int64
	Hour       int
	Minute     int
	UTCHour    int
	UTCMinute  int
}

// Civil returns the slot's local time as HH:MM.
func (s Slot) Civil() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// DeriveSlots enumerates civil hours StartHour, StartHour+Frequency, ...
// up to and including EndHour, anchors each hour:minute to anchor's
// calendar date in loc and converts it to UTC. Only the time-of-day
// component of the conversion is kept, so the anchor date itself does not
// affect the result (outside of DST transitions on that date).
//
// Settings must already pass ValidateSchedule; DeriveSlots does not
// re-validate. Every slot recurs on all seven weekdays, even when the
// conversion crosses a UTC day boundary.
func DeriveSlots(u User, loc *time.Location, anchor time.Time) []Slot {
	var slots []Slot
	for hour := u.StartHour; hour <= u.EndHour; hour += u.Frequency {
		local := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), hour, u.Minute, 0, 0, loc)
		utc := local.UTC()
		slots = append(slots, Slot{
			TelegramID: u.TelegramID,
			Hour:       hour,
			Minute:     u.Minute,
			UTCHour:    utc.Hour(),
			UTCMinute:  utc.Minute(),
		})
	}
	return slots
}
