package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/campusgrid/scheduler-api/internal/models"
	appErrors "github.com/campusgrid/scheduler-api/pkg/errors"
)

// detectorSlotRepository abstracts slot persistence for conflict detection.
type detectorSlotRepository interface {
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.ScheduleSlot, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ScheduleSlot, error)
	ListByRoom(ctx context.Context, roomID string) ([]models.ScheduleSlot, error)
	UpdateConflictFlags(ctx context.Context, scheduleID string, conflictedIDs []string) error
}

// detectorRoomRepository abstracts room lookups for capacity checks.
type detectorRoomRepository interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.Room, error)
}

// ConflictDetectorService finds teacher, room, and capacity conflicts within a schedule.
type ConflictDetectorService struct {
	slots   detectorSlotRepository
	rooms   detectorRoomRepository
	metrics *MetricsService
	logger  *zap.Logger
}

// NewConflictDetectorService constructs a conflict detector service.
func NewConflictDetectorService(slots detectorSlotRepository, rooms detectorRoomRepository, metrics *MetricsService, logger *zap.Logger) *ConflictDetectorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictDetectorService{slots: slots, rooms: rooms, metrics: metrics, logger: logger}
}

// DetectAll scans the whole schedule, persists the per-slot conflict flags, and
// returns every conflict found. Running it twice against unchanged data yields
// the same set.
func (s *ConflictDetectorService) DetectAll(ctx context.Context, scheduleID string) ([]models.Conflict, error) {
	start := time.Now()

	slots, err := s.slots.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule slots")
	}

	capacities, err := s.roomCapacities(ctx, slots)
	if err != nil {
		return nil, err
	}

	conflicts := DetectSlotConflicts(slots, capacities)

	conflicted := make(map[string]struct{})
	for _, c := range conflicts {
		for _, id := range c.SlotIDs {
			conflicted[id] = struct{}{}
		}
		if s.metrics != nil {
			s.metrics.RecordConflictDetected(c.Kind)
		}
	}
	ids := make([]string, 0, len(conflicted))
	for id := range conflicted {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if err := s.slots.UpdateConflictFlags(ctx, scheduleID, ids); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist conflict flags")
	}

	if s.metrics != nil {
		s.metrics.ObserveDetection(time.Since(start))
	}
	s.logger.Info("conflict detection completed",
		zap.String("scheduleId", scheduleID),
		zap.Int("slots", len(slots)),
		zap.Int("conflicts", len(conflicts)),
		zap.Duration("elapsed", time.Since(start)))

	return conflicts, nil
}

// CheckMove evaluates whether moving a slot to the proposed interval would
// introduce conflicts, without persisting anything.
func (s *ConflictDetectorService) CheckMove(ctx context.Context, slotID string, proposed models.TimeInterval) ([]models.Conflict, error) {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}
	if slot == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
	}
	if proposed.StartMinute >= proposed.EndMinute {
		return nil, appErrors.ErrInvalidInterval
	}

	others, err := s.slots.ListBySchedule(ctx, slot.ScheduleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule slots")
	}

	candidate := *slot
	candidate.SetInterval(proposed)

	scenario := make([]models.ScheduleSlot, 0, len(others))
	scenario = append(scenario, candidate)
	for _, other := range others {
		if other.ID == slot.ID {
			continue
		}
		scenario = append(scenario, other)
	}

	capacities, err := s.roomCapacities(ctx, scenario)
	if err != nil {
		return nil, err
	}

	all := DetectSlotConflicts(scenario, capacities)
	relevant := make([]models.Conflict, 0, len(all))
	for _, c := range all {
		for _, id := range c.SlotIDs {
			if id == slot.ID {
				relevant = append(relevant, c)
				break
			}
		}
	}
	return relevant, nil
}

// HasTeacherConflict reports whether the teacher already has an overlapping
// slot, ignoring the slot identified by excludeSlotID.
func (s *ConflictDetectorService) HasTeacherConflict(ctx context.Context, teacherID string, interval models.TimeInterval, excludeSlotID string) (bool, error) {
	if teacherID == "" {
		return false, nil
	}
	slots, err := s.slots.ListByTeacher(ctx, teacherID)
	if err != nil {
		return false, fmt.Errorf("list slots for teacher %s: %w", teacherID, err)
	}
	return anySlotOverlaps(slots, interval, excludeSlotID), nil
}

// HasRoomConflict reports whether the room already has an overlapping slot,
// ignoring the slot identified by excludeSlotID.
func (s *ConflictDetectorService) HasRoomConflict(ctx context.Context, roomID string, interval models.TimeInterval, excludeSlotID string) (bool, error) {
	if roomID == "" {
		return false, nil
	}
	slots, err := s.slots.ListByRoom(ctx, roomID)
	if err != nil {
		return false, fmt.Errorf("list slots for room %s: %w", roomID, err)
	}
	return anySlotOverlaps(slots, interval, excludeSlotID), nil
}

// HasCapacityConflict reports whether the enrollment exceeds the room capacity.
func (s *ConflictDetectorService) HasCapacityConflict(room *models.Room, enrollment int) bool {
	if room == nil {
		return false
	}
	return enrollment > room.Capacity
}

func (s *ConflictDetectorService) roomCapacities(ctx context.Context, slots []models.ScheduleSlot) (map[string]int, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, slot := range slots {
		if slot.RoomID == nil {
			continue
		}
		if _, ok := seen[*slot.RoomID]; ok {
			continue
		}
		seen[*slot.RoomID] = struct{}{}
		ids = append(ids, *slot.RoomID)
	}
	if len(ids) == 0 {
		return map[string]int{}, nil
	}

	rooms, err := s.rooms.ListByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	capacities := make(map[string]int, len(rooms))
	for _, room := range rooms {
		capacities[room.ID] = room.Capacity
	}
	return capacities, nil
}

func anySlotOverlaps(slots []models.ScheduleSlot, interval models.TimeInterval, excludeSlotID string) bool {
	for _, slot := range slots {
		if slot.ID == excludeSlotID {
			continue
		}
		iv := slot.Interval()
		if iv == nil {
			continue
		}
		if iv.Overlaps(interval) {
			return true
		}
	}
	return false
}

// DetectSlotConflicts performs the pairwise scan over the given slots. Room
// capacities are keyed by room ID; slots whose room is absent from the map are
// skipped for the capacity check. A slot missing its teacher, room, or time
// information simply does not participate in the corresponding check.
func DetectSlotConflicts(slots []models.ScheduleSlot, roomCapacity map[string]int) []models.Conflict {
	conflicts := make([]models.Conflict, 0)
	now := time.Now().UTC()

	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			a, b := slots[i], slots[j]
			ivA, ivB := a.Interval(), b.Interval()
			if ivA == nil || ivB == nil || !ivA.Overlaps(*ivB) {
				continue
			}

			// The same pair can produce both a teacher and a room conflict.
			if a.TeacherID != nil && b.TeacherID != nil && *a.TeacherID == *b.TeacherID {
				conflicts = append(conflicts, models.Conflict{
					Kind:        models.ConflictTeacherDoubleBook,
					Severity:    models.SeverityCritical,
					SlotIDs:     sortedPair(a.ID, b.ID),
					TeacherID:   a.TeacherID,
					Description: fmt.Sprintf("teacher %s is booked for overlapping slots %s and %s", *a.TeacherID, a.ID, b.ID),
					Enrollment:  a.Enrollment + b.Enrollment,
					DetectedAt:  now,
				})
			}
			if a.RoomID != nil && b.RoomID != nil && *a.RoomID == *b.RoomID {
				conflicts = append(conflicts, models.Conflict{
					Kind:        models.ConflictRoomDoubleBook,
					Severity:    models.SeverityCritical,
					SlotIDs:     sortedPair(a.ID, b.ID),
					RoomID:      a.RoomID,
					Description: fmt.Sprintf("room %s is booked for overlapping slots %s and %s", *a.RoomID, a.ID, b.ID),
					Enrollment:  a.Enrollment + b.Enrollment,
					DetectedAt:  now,
				})
			}
		}
	}

	for _, slot := range slots {
		if slot.RoomID == nil {
			continue
		}
		capacity, ok := roomCapacity[*slot.RoomID]
		if !ok {
			continue
		}
		if slot.Enrollment > capacity {
			conflicts = append(conflicts, models.Conflict{
				Kind:        models.ConflictCapacityExceeded,
				Severity:    models.SeverityHigh,
				SlotIDs:     []string{slot.ID},
				RoomID:      slot.RoomID,
				Description: fmt.Sprintf("slot %s enrolls %d students but room %s seats %d", slot.ID, slot.Enrollment, *slot.RoomID, capacity),
				Enrollment:  slot.Enrollment,
				DetectedAt:  now,
			})
		}
	}

	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Key() < conflicts[j].Key() })
	return conflicts
}

func sortedPair(a, b string) []string {
	if a <= b {
		return []string{a, b}
	}
	return []string{b, a}
}
