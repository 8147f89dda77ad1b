package models

import "time"

// ResolutionType enumerates remediation strategies.
type ResolutionType string

const (
	ResolutionChangeTeacher  ResolutionType = "CHANGE_TEACHER"
	ResolutionChangeRoom     ResolutionType = "CHANGE_ROOM"
	ResolutionChangeTimeSlot ResolutionType = "CHANGE_TIME_SLOT"
	ResolutionSplitSection   ResolutionType = "SPLIT_SECTION"
	ResolutionManualReview   ResolutionType = "MANUAL_REVIEW"
)

// Suggestion is one ranked remediation candidate for a conflict. Ephemeral:
// generated on demand, persisted only as an outcome record once applied.
type Suggestion struct {
	ID          string         `json:"id"`
	Type        ResolutionType `json:"type"`
	Description string         `json:"description"`
	Explanation string         `json:"explanation"`
	// ImpactScore estimates disturbance, 0-100, lower is better.
	ImpactScore int `json:"impact_score"`
	// SuccessProbability estimates the chance the fix resolves the
	// conflict, 0-100, blended with the historical rate for the type.
	SuccessProbability  int      `json:"success_probability"`
	AffectedEntityCount int      `json:"affected_entity_count"`
	AffectedEntities    []string `json:"affected_entities,omitempty"`
	Warnings            []string `json:"warnings,omitempty"`
	EstimatedSeconds    int      `json:"estimated_seconds"`

	// Concrete mutation target; empty for manual review.
	TargetSlotID      string        `json:"target_slot_id,omitempty"`
	ProposedTeacherID *string       `json:"proposed_teacher_id,omitempty"`
	ProposedRoomID    *string       `json:"proposed_room_id,omitempty"`
	ProposedInterval  *TimeInterval `json:"proposed_interval,omitempty"`
}

// Ranking combines impact (ascending) and success probability (descending)
// into a single best-first ordering key; lower is better.
func (s Suggestion) Ranking() int {
	return int(float64(s.ImpactScore)*0.6 + float64(100-s.SuccessProbability)*0.4)
}

// PriorityLevel bands a priority score total.
type PriorityLevel string

const (
	PriorityCritical PriorityLevel = "CRITICAL"
	PriorityHigh     PriorityLevel = "HIGH"
	PriorityMedium   PriorityLevel = "MEDIUM"
	PriorityLow      PriorityLevel = "LOW"
	PriorityMinimal  PriorityLevel = "MINIMAL"
)

// PriorityLevelFromScore maps a capped total to its band.
func PriorityLevelFromScore(total int) PriorityLevel {
	switch {
	case total >= 90:
		return PriorityCritical
	case total >= 70:
		return PriorityHigh
	case total >= 40:
		return PriorityMedium
	case total >= 20:
		return PriorityLow
	default:
		return PriorityMinimal
	}
}

// PriorityScore is the composite urgency score for one conflict. Higher
// total means more urgent; ties break on the hard-constraint component.
type PriorityScore struct {
	ConflictKey string `json:"conflict_key"`
	Total       int    `json:"total"`

	HardConstraintScore       int `json:"hard_constraint_score"`
	AffectedEntitiesScore     int `json:"affected_entities_score"`
	CascadeImpactScore        int `json:"cascade_impact_score"`
	HistoricalDifficultyScore int `json:"historical_difficulty_score"`
	TimeSensitivityScore      int `json:"time_sensitivity_score"`

	Level       PriorityLevel `json:"level"`
	Explanation string        `json:"explanation"`
}

// AutoResolveReport summarizes one automatic resolution pass over a
// schedule. Each conflict gets at most one attempt per pass.
type AutoResolveReport struct {
	ScheduleID    string `json:"schedule_id"`
	Detected      int    `json:"detected"`
	Attempted     int    `json:"attempted"`
	Resolved      int    `json:"resolved"`
	Remaining     int    `json:"remaining"`
	FullyResolved bool   `json:"fully_resolved"`
}

// ResolutionOutcome records whether an applied suggestion cleared its
// conflict, feeding the empirical success rates.
type ResolutionOutcome struct {
	ID             string         `db:"id" json:"id"`
	ResolutionType ResolutionType `db:"resolution_type" json:"resolution_type"`
	ConflictKind   ConflictKind   `db:"conflict_kind" json:"conflict_kind"`
	Success        bool           `db:"success" json:"success"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}
