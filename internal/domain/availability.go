package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/vaidhya-health/appointment-service/pkg/types"
)

// Weekday day-of-week name as stored in a provider's schedule
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays all valid day names in schedule order
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf derives the schedule day name from an absolute instant
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// IsValid reports whether the day name is one of Monday..Sunday
func (d Weekday) IsValid() bool {
	for _, w := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// Slot a declared bookable interval on a weekday.
// The interval is half-open: [StartTime, EndTime).
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	IsBooked  bool
}

// Contains reports whether the time of day falls inside the slot interval.
// Comparison is done in minutes since midnight, never on the raw strings.
func (s *Slot) Contains(t types.TimeString) bool {
	at, err := t.Minutes()
	if err != nil {
		return false
	}
	start, err := s.StartTime.Minutes()
	if err != nil {
		return false
	}
	end, err := s.EndTime.Minutes()
	if err != nil {
		return false
	}
	return at >= start && at < end
}

// WorkingDay a weekday entry in the provider's recurring schedule
type WorkingDay struct {
	Day         Weekday
	IsAvailable bool
	Slots       []Slot
}

// LeavePeriod an absolute date range during which the provider is away.
// Both boundaries are inclusive.
type LeavePeriod struct {
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// Contains reports whether the instant falls inside the leave period
func (p *LeavePeriod) Contains(at time.Time) bool {
	return !at.Before(p.StartDate) && !at.After(p.EndDate)
}

// WeeklyAvailability a provider's recurring schedule plus leave calendar
type WeeklyAvailability struct {
	WorkingDays        []WorkingDay
	UnavailablePeriods []LeavePeriod
}

// WorkingDayFor returns the schedule entry for the weekday, if declared
func (a *WeeklyAvailability) WorkingDayFor(day Weekday) (*WorkingDay, bool) {
	for i := range a.WorkingDays {
		if a.WorkingDays[i].Day == day {
			return &a.WorkingDays[i], true
		}
	}
	return nil, false
}

// SlotAt finds the declared slot whose interval contains the time of day,
// on a day that is marked available. Booked slots are still returned;
// callers that need a free slot must check IsBooked themselves.
func (a *WeeklyAvailability) SlotAt(day Weekday, t types.TimeString) (*Slot, bool) {
	wd, ok := a.WorkingDayFor(day)
	if !ok || !wd.IsAvailable {
		return nil, false
	}
	for i := range wd.Slots {
		if wd.Slots[i].Contains(t) {
			return &wd.Slots[i], true
		}
	}
	return nil, false
}

// FreeSlotsOn returns the unbooked slots declared for the weekday
func (a *WeeklyAvailability) FreeSlotsOn(day Weekday) []Slot {
	free := make([]Slot, 0)
	wd, ok := a.WorkingDayFor(day)
	if !ok || !wd.IsAvailable {
		return free
	}
	for _, s := range wd.Slots {
		if !s.IsBooked {
			free = append(free, s)
		}
	}
	return free
}

// IsOnLeave reports whether any unavailable period contains the instant
func (a *WeeklyAvailability) IsOnLeave(at time.Time) bool {
	for i := range a.UnavailablePeriods {
		if a.UnavailablePeriods[i].Contains(at) {
			return true
		}
	}
	return false
}

// MarkSlotBooked flips the booked flag of the slot containing the time of
// day. Idempotent; a missing slot is a no-op, not an error - the provider
// may have reshaped the schedule after the appointment was booked.
// Returns true when a slot was found.
func (a *WeeklyAvailability) MarkSlotBooked(day Weekday, t types.TimeString, booked bool) bool {
	wd, ok := a.WorkingDayFor(day)
	if !ok {
		return false
	}
	for i := range wd.Slots {
		if wd.Slots[i].Contains(t) {
			wd.Slots[i].IsBooked = booked
			return true
		}
	}
	return false
}

// Availability validation errors
var (
	ErrInvalidWeekday      = errors.New("domain: invalid weekday name")
	ErrInvalidSlotInterval = errors.New("domain: slot start must be before end")
	ErrOverlappingSlots    = errors.New("domain: slots within a day must not overlap")
	ErrTooManySlots        = errors.New("domain: too many slots declared for a day")
	ErrInvalidLeavePeriod  = errors.New("domain: leave period start must not be after end")
)

// Validate checks the schedule on write: valid day names, well-formed
// HH:MM boundaries, start < end, no overlapping slots within a day and
// at most MaxSlotsPerDay slots per day.
func (a *WeeklyAvailability) Validate() error {
	for i := range a.WorkingDays {
		wd := &a.WorkingDays[i]
		if !wd.Day.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidWeekday, wd.Day)
		}
		if len(wd.Slots) > MaxSlotsPerDay {
			return fmt.Errorf("%w: %s declares %d slots", ErrTooManySlots, wd.Day, len(wd.Slots))
		}
		for j := range wd.Slots {
			s := &wd.Slots[j]
			if err := s.StartTime.Validate(); err != nil {
				return err
			}
			if err := s.EndTime.Validate(); err != nil {
				return err
			}
			start, _ := s.StartTime.Minutes()
			end, _ := s.EndTime.Minutes()
			if start >= end {
				return fmt.Errorf("%w: %s [%s, %s)", ErrInvalidSlotInterval, wd.Day, s.StartTime, s.EndTime)
			}
			for k := 0; k < j; k++ {
				prev := &wd.Slots[k]
				prevStart, _ := prev.StartTime.Minutes()
				prevEnd, _ := prev.EndTime.Minutes()
				if start < prevEnd && prevStart < end {
					return fmt.Errorf("%w: %s [%s, %s) and [%s, %s)",
						ErrOverlappingSlots, wd.Day, prev.StartTime, prev.EndTime, s.StartTime, s.EndTime)
				}
			}
		}
	}
	for i := range a.UnavailablePeriods {
		p := &a.UnavailablePeriods[i]
		if p.StartDate.After(p.EndDate) {
			return fmt.Errorf("%w: %s after %s",
				ErrInvalidLeavePeriod, p.StartDate.Format(DateFormat), p.EndDate.Format(DateFormat))
		}
	}
	return nil
}
