package models

import (
	"fmt"
	"strconv"
	"strings"
)

// DayOfWeek is an uppercase weekday name matching the persisted representation.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

// DayType qualifies an interval by calendar rotation instead of a weekday.
type DayType string

const (
	DayTypeDaily DayType = "DAILY"
	DayTypeOdd   DayType = "ODD"
	DayTypeEven  DayType = "EVEN"
)

// TimeInterval is a normalized day/time value. Wall-clock times are stored
// as minutes since midnight. Either DayOfWeek or DayType qualifies the day;
// when both are set the weekday wins. Immutable once constructed.
type TimeInterval struct {
	DayOfWeek    DayOfWeek `json:"day_of_week,omitempty"`
	DayType      DayType   `json:"day_type,omitempty"`
	PeriodNumber int       `json:"period_number,omitempty"`
	StartMinute  int       `json:"start_minute"`
	EndMinute    int       `json:"end_minute"`
}

// NewTimeInterval validates the start-before-end invariant.
func NewTimeInterval(day DayOfWeek, dayType DayType, period, start, end int) (TimeInterval, error) {
	if start >= end {
		return TimeInterval{}, fmt.Errorf("interval start %d must precede end %d", start, end)
	}
	return TimeInterval{DayOfWeek: day, DayType: dayType, PeriodNumber: period, StartMinute: start, EndMinute: end}, nil
}

// Overlaps reports whether two intervals collide. Day qualifiers must match
// (DAILY overlaps both ODD and EVEN rotations) and the half-open time ranges
// must intersect; touching endpoints do not conflict.
func (i TimeInterval) Overlaps(o TimeInterval) bool {
	if !sameDayQualifier(i, o) {
		return false
	}
	return i.StartMinute < o.EndMinute && o.StartMinute < i.EndMinute
}

// DurationMinutes returns the interval length.
func (i TimeInterval) DurationMinutes() int {
	return i.EndMinute - i.StartMinute
}

func (i TimeInterval) String() string {
	day := string(i.DayOfWeek)
	if day == "" {
		day = string(i.DayType)
	}
	s := fmt.Sprintf("%s %s-%s", day, FormatClock(i.StartMinute), FormatClock(i.EndMinute))
	if i.PeriodNumber > 0 {
		s += fmt.Sprintf(" (period %d)", i.PeriodNumber)
	}
	return s
}

func sameDayQualifier(a, b TimeInterval) bool {
	switch {
	case a.DayOfWeek != "" && b.DayOfWeek != "":
		return a.DayOfWeek == b.DayOfWeek
	case a.DayOfWeek == "" && b.DayOfWeek == "":
		if a.DayType == "" || b.DayType == "" {
			return false
		}
		return a.DayType == b.DayType || a.DayType == DayTypeDaily || b.DayType == DayTypeDaily
	default:
		// One side is weekday-qualified, the other rotation-qualified.
		// DAILY covers every weekday; ODD/EVEN cannot be resolved
		// without a calendar date.
		rotation := a.DayType
		if b.DayOfWeek == "" {
			rotation = b.DayType
		}
		return rotation == DayTypeDaily
	}
}

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(raw string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
