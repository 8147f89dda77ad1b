package dto

import (
	"fmt"
	"time"

	"github.com/campusgrid/scheduler-api/internal/models"
)

// IntervalPayload carries a time window over the wire. Clock fields use
// "HH:MM"; exactly one of dayOfWeek or dayType should qualify the day.
type IntervalPayload struct {
	DayOfWeek    string `json:"dayOfWeek" validate:"required_without=DayType,omitempty,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	DayType      string `json:"dayType" validate:"required_without=DayOfWeek,omitempty,oneof=DAILY ODD EVEN"`
	PeriodNumber int    `json:"periodNumber" validate:"omitempty,min=0"`
	StartTime    string `json:"startTime" validate:"required"`
	EndTime      string `json:"endTime" validate:"required"`
}

// ToModel parses and validates the payload into a TimeInterval.
func (p IntervalPayload) ToModel() (models.TimeInterval, error) {
	if p.DayOfWeek == "" && p.DayType == "" {
		return models.TimeInterval{}, fmt.Errorf("interval requires a dayOfWeek or dayType")
	}
	start, err := models.ParseClock(p.StartTime)
	if err != nil {
		return models.TimeInterval{}, err
	}
	end, err := models.ParseClock(p.EndTime)
	if err != nil {
		return models.TimeInterval{}, err
	}
	return models.NewTimeInterval(models.DayOfWeek(p.DayOfWeek), models.DayType(p.DayType), p.PeriodNumber, start, end)
}

// CheckMoveRequest asks whether a slot can move to a new window.
type CheckMoveRequest struct {
	Interval IntervalPayload `json:"interval" validate:"required"`
}

// CheckMoveResponse reports the conflicts a hypothetical move would cause.
type CheckMoveResponse struct {
	SlotID    string            `json:"slotId"`
	Feasible  bool              `json:"feasible"`
	Conflicts []models.Conflict `json:"conflicts"`
}

// ConflictPayload identifies a previously detected conflict so follow-up
// operations can act on it without re-detection.
type ConflictPayload struct {
	Kind       string     `json:"kind" validate:"required,oneof=TEACHER_DOUBLE_BOOK ROOM_DOUBLE_BOOK CAPACITY_EXCEEDED EQUIPMENT_MISMATCH PROXIMITY_VIOLATION"`
	Severity   string     `json:"severity" validate:"omitempty,oneof=CRITICAL HIGH MEDIUM LOW"`
	SlotIDs    []string   `json:"slotIds" validate:"required,min=1"`
	TeacherID  *string    `json:"teacherId,omitempty"`
	RoomID     *string    `json:"roomId,omitempty"`
	Enrollment int        `json:"enrollment" validate:"omitempty,min=0"`
	DetectedAt *time.Time `json:"detectedAt,omitempty"`
}

// ToModel converts the payload into a Conflict, defaulting the severity by
// kind and the detection time to now.
func (p ConflictPayload) ToModel() models.Conflict {
	kind := models.ConflictKind(p.Kind)
	severity := models.ConflictSeverity(p.Severity)
	if severity == "" {
		if kind.IsHard() {
			severity = models.SeverityCritical
		} else {
			severity = models.SeverityMedium
		}
	}
	detectedAt := time.Now().UTC()
	if p.DetectedAt != nil {
		detectedAt = *p.DetectedAt
	}
	return models.Conflict{
		Kind:       kind,
		Severity:   severity,
		SlotIDs:    p.SlotIDs,
		TeacherID:  p.TeacherID,
		RoomID:     p.RoomID,
		Enrollment: p.Enrollment,
		DetectedAt: detectedAt,
	}
}

// SuggestionsRequest asks for ranked remediation candidates.
type SuggestionsRequest struct {
	Conflict ConflictPayload `json:"conflict" validate:"required"`
}

// ApplySuggestionRequest applies one previously generated suggestion.
type ApplySuggestionRequest struct {
	Conflict   ConflictPayload   `json:"conflict" validate:"required"`
	Suggestion models.Suggestion `json:"suggestion" validate:"required"`
}

// ApplySuggestionResponse reports whether the applied fix cleared the conflict.
type ApplySuggestionResponse struct {
	Applied bool   `json:"applied"`
	Message string `json:"message,omitempty"`
}

// PrioritizedConflict pairs a conflict with its urgency score.
type PrioritizedConflict struct {
	Conflict models.Conflict      `json:"conflict"`
	Score    models.PriorityScore `json:"score"`
}

// ValidateRoomsRequest validates a course's multi-room assignment for a
// calendar date and time window.
type ValidateRoomsRequest struct {
	Date     string          `json:"date" validate:"required,datetime=2006-01-02"`
	Interval IntervalPayload `json:"interval" validate:"required"`
}

// MatrixRebuildResponse summarizes a conflict matrix rebuild.
type MatrixRebuildResponse struct {
	Year    int       `json:"year"`
	Pairs   int       `json:"pairs"`
	BuiltAt time.Time `json:"builtAt"`
}

// PairStatsResponse reports co-request stats for one course pair.
type PairStatsResponse struct {
	CourseA    string  `json:"courseA"`
	CourseB    string  `json:"courseB"`
	Year       int     `json:"year"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}
