package models

import "time"

// ScheduleSlot is one scheduled placement of a course at a time/room/teacher
// within a schedule. Teacher, room and interval are all optional; a slot with
// a missing field simply cannot conflict on that axis.
type ScheduleSlot struct {
	ID           string  `db:"id" json:"id"`
	ScheduleID   string  `db:"schedule_id" json:"schedule_id"`
	CourseID     *string `db:"course_id" json:"course_id,omitempty"`
	TeacherID    *string `db:"teacher_id" json:"teacher_id,omitempty"`
	RoomID       *string `db:"room_id" json:"room_id,omitempty"`
	DayOfWeek    *string `db:"day_of_week" json:"day_of_week,omitempty"`
	DayType      *string `db:"day_type" json:"day_type,omitempty"`
	PeriodNumber *int    `db:"period_number" json:"period_number,omitempty"`
	StartMinute  *int    `db:"start_minute" json:"start_minute,omitempty"`
	EndMinute    *int    `db:"end_minute" json:"end_minute,omitempty"`
	Enrollment   int     `db:"enrollment" json:"enrollment"`
	// HasConflict is a derived cache recomputed by the detector after each
	// pass; it is never authoritative.
	HasConflict bool      `db:"has_conflict" json:"has_conflict"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Interval assembles the slot's time fields into a value interval, or nil
// when the slot carries no usable time information.
func (s *ScheduleSlot) Interval() *TimeInterval {
	if s == nil || s.StartMinute == nil || s.EndMinute == nil {
		return nil
	}
	if *s.StartMinute >= *s.EndMinute {
		return nil
	}
	iv := TimeInterval{StartMinute: *s.StartMinute, EndMinute: *s.EndMinute}
	if s.DayOfWeek != nil {
		iv.DayOfWeek = DayOfWeek(*s.DayOfWeek)
	}
	if s.DayType != nil {
		iv.DayType = DayType(*s.DayType)
	}
	if s.PeriodNumber != nil {
		iv.PeriodNumber = *s.PeriodNumber
	}
	if iv.DayOfWeek == "" && iv.DayType == "" {
		return nil
	}
	return &iv
}

// SetInterval overwrites the slot's time fields from a value interval.
func (s *ScheduleSlot) SetInterval(iv TimeInterval) {
	day := string(iv.DayOfWeek)
	dayType := string(iv.DayType)
	start, end, period := iv.StartMinute, iv.EndMinute, iv.PeriodNumber
	if day != "" {
		s.DayOfWeek = &day
	} else {
		s.DayOfWeek = nil
	}
	if dayType != "" {
		s.DayType = &dayType
	} else {
		s.DayType = nil
	}
	s.StartMinute = &start
	s.EndMinute = &end
	if period > 0 {
		s.PeriodNumber = &period
	}
}
