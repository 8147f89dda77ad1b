package models

import (
	"sort"
	"strings"
	"time"
)

// ConflictKind enumerates detectable inconsistency types.
type ConflictKind string

const (
	ConflictTeacherDoubleBook  ConflictKind = "TEACHER_DOUBLE_BOOK"
	ConflictRoomDoubleBook     ConflictKind = "ROOM_DOUBLE_BOOK"
	ConflictCapacityExceeded   ConflictKind = "CAPACITY_EXCEEDED"
	ConflictEquipmentMismatch  ConflictKind = "EQUIPMENT_MISMATCH"
	ConflictProximityViolation ConflictKind = "PROXIMITY_VIOLATION"
)

// IsHard reports whether the kind is a hard physical-realizability violation.
func (k ConflictKind) IsHard() bool {
	return k == ConflictTeacherDoubleBook || k == ConflictRoomDoubleBook
}

// ConflictSeverity ranks how urgent a conflict is.
type ConflictSeverity string

const (
	SeverityCritical ConflictSeverity = "CRITICAL"
	SeverityHigh     ConflictSeverity = "HIGH"
	SeverityMedium   ConflictSeverity = "MEDIUM"
	SeverityLow      ConflictSeverity = "LOW"
)

// Conflict is a derived report of one inconsistency. It is a snapshot, never
// persisted as ground truth.
type Conflict struct {
	Kind        ConflictKind     `json:"kind"`
	Severity    ConflictSeverity `json:"severity"`
	SlotIDs     []string         `json:"slot_ids"`
	TeacherID   *string          `json:"teacher_id,omitempty"`
	RoomID      *string          `json:"room_id,omitempty"`
	Description string           `json:"description"`
	// Enrollment touched by the involved slots, used for cascade estimates.
	Enrollment int       `json:"enrollment"`
	DetectedAt time.Time `json:"detected_at"`
}

// Key returns an order-insensitive identity for set comparisons: kind plus
// the sorted involved slot IDs.
func (c Conflict) Key() string {
	ids := append([]string(nil), c.SlotIDs...)
	sort.Strings(ids)
	return string(c.Kind) + "|" + strings.Join(ids, ",")
}
