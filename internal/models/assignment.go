package models

import (
	"strings"
	"time"
)

// UsagePattern is the calendar rule deciding which days a room assignment is
// active. Stored strings are parsed into this closed set; anything else maps
// to UsagePatternUnrecognized instead of silently behaving as always-active.
type UsagePattern string

const (
	UsagePatternAlways          UsagePattern = "ALWAYS"
	UsagePatternOddDays         UsagePattern = "ODD_DAYS"
	UsagePatternEvenDays        UsagePattern = "EVEN_DAYS"
	UsagePatternAlternatingDays UsagePattern = "ALTERNATING_DAYS"
	UsagePatternSpecificDays    UsagePattern = "SPECIFIC_DAYS"
	UsagePatternWeeklyRotation  UsagePattern = "WEEKLY_ROTATION"
	UsagePatternFirstHalf       UsagePattern = "FIRST_HALF"
	UsagePatternSecondHalf      UsagePattern = "SECOND_HALF"
	UsagePatternUnrecognized    UsagePattern = "UNRECOGNIZED"
)

// ParseUsagePattern maps a stored string to the closed pattern set. The
// empty string means ALWAYS; unknown values are flagged, not defaulted.
func ParseUsagePattern(raw string) UsagePattern {
	switch UsagePattern(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", UsagePatternAlways:
		return UsagePatternAlways
	case UsagePatternOddDays:
		return UsagePatternOddDays
	case UsagePatternEvenDays:
		return UsagePatternEvenDays
	case UsagePatternAlternatingDays:
		return UsagePatternAlternatingDays
	case UsagePatternSpecificDays:
		return UsagePatternSpecificDays
	case UsagePatternWeeklyRotation:
		return UsagePatternWeeklyRotation
	case UsagePatternFirstHalf:
		return UsagePatternFirstHalf
	case UsagePatternSecondHalf:
		return UsagePatternSecondHalf
	default:
		return UsagePatternUnrecognized
	}
}

// CourseRoomAssignment links a course to one of its rooms. Priority 1 marks
// the primary room; exactly one primary per course is an invariant the
// validator checks rather than enforces.
type CourseRoomAssignment struct {
	ID           string `db:"id" json:"id"`
	CourseID     string `db:"course_id" json:"course_id"`
	RoomID       string `db:"room_id" json:"room_id"`
	Priority     int    `db:"priority" json:"priority"`
	UsagePattern string `db:"usage_pattern" json:"usage_pattern"`
	// SpecificDays holds comma-separated weekday names for SPECIFIC_DAYS.
	SpecificDays *string   `db:"specific_days" json:"specific_days,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Pattern parses the stored usage pattern.
func (a *CourseRoomAssignment) Pattern() UsagePattern {
	if a == nil {
		return UsagePatternUnrecognized
	}
	return ParseUsagePattern(a.UsagePattern)
}

// IsPrimary reports whether this is the priority-1 assignment.
func (a *CourseRoomAssignment) IsPrimary() bool {
	return a != nil && a.Priority == 1
}

// SpecificDaySet splits SpecificDays into normalized weekday names.
func (a *CourseRoomAssignment) SpecificDaySet() map[DayOfWeek]struct{} {
	set := make(map[DayOfWeek]struct{})
	if a == nil || a.SpecificDays == nil {
		return set
	}
	for _, part := range strings.Split(*a.SpecificDays, ",") {
		day := strings.ToUpper(strings.TrimSpace(part))
		if day != "" {
			set[DayOfWeek(day)] = struct{}{}
		}
	}
	return set
}
