package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campusgrid/scheduler-api/internal/models"
	"github.com/campusgrid/scheduler-api/pkg/config"
	appErrors "github.com/campusgrid/scheduler-api/pkg/errors"
)

// ProximityUnknown is the sentinel distance for pairs involving a missing or
// unknown room. It compares greater than any real limit.
const ProximityUnknown = math.MaxInt32

// feasibilityCourseRepository abstracts course reads for validation.
type feasibilityCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// feasibilityRoomRepository abstracts room reads for validation.
type feasibilityRoomRepository interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Room, error)
}

// feasibilityAssignmentRepository abstracts course-room assignment reads.
type feasibilityAssignmentRepository interface {
	ListActiveByCourse(ctx context.Context, courseID string) ([]models.CourseRoomAssignment, error)
}

// feasibilitySlotRepository abstracts slot reads for availability checks.
type feasibilitySlotRepository interface {
	ListByRooms(ctx context.Context, roomIDs []string) ([]models.ScheduleSlot, error)
}

// FeasibilityService validates multi-room course assignments: which rooms are
// effective on a date, whether they are free, close enough together, big
// enough, and properly equipped.
type FeasibilityService struct {
	courses     feasibilityCourseRepository
	rooms       feasibilityRoomRepository
	assignments feasibilityAssignmentRepository
	slots       feasibilitySlotRepository
	cfg         config.EngineConfig
	logger      *zap.Logger
}

// NewFeasibilityService constructs a feasibility service.
func NewFeasibilityService(courses feasibilityCourseRepository, rooms feasibilityRoomRepository, assignments feasibilityAssignmentRepository, slots feasibilitySlotRepository, cfg config.EngineConfig, logger *zap.Logger) *FeasibilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeasibilityService{courses: courses, rooms: rooms, assignments: assignments, slots: slots, cfg: cfg, logger: logger}
}

// EffectiveRooms resolves which of the course's assigned rooms are active on
// the given calendar date, ordered by assignment priority. Assignments with
// an unrecognized usage pattern are excluded and logged rather than treated
// as always active.
func (s *FeasibilityService) EffectiveRooms(ctx context.Context, courseID string, date time.Time) ([]models.Room, error) {
	assignments, err := s.assignments.ListActiveByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room assignments")
	}

	ids := make([]string, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		if a.Pattern() == models.UsagePatternUnrecognized {
			s.logger.Warn("room assignment excluded: unrecognized usage pattern",
				zap.String("assignmentId", a.ID),
				zap.String("courseId", courseID),
				zap.String("pattern", a.UsagePattern))
			continue
		}
		if !s.AssignmentActiveOn(a, date) {
			continue
		}
		ids = append(ids, a.RoomID)
	}
	if len(ids) == 0 {
		return []models.Room{}, nil
	}

	rooms, err := s.rooms.ListByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}

	// Preserve the assignment priority ordering.
	byID := make(map[string]models.Room, len(rooms))
	for _, room := range rooms {
		byID[room.ID] = room
	}
	ordered := make([]models.Room, 0, len(ids))
	for _, id := range ids {
		if room, ok := byID[id]; ok {
			ordered = append(ordered, room)
		}
	}
	return ordered, nil
}

// AssignmentActiveOn evaluates the assignment's usage pattern against a
// calendar date. Unrecognized patterns are never active.
func (s *FeasibilityService) AssignmentActiveOn(a *models.CourseRoomAssignment, date time.Time) bool {
	if a == nil {
		return false
	}
	switch a.Pattern() {
	case models.UsagePatternAlways, models.UsagePatternFirstHalf, models.UsagePatternSecondHalf:
		// Half-term patterns are resolved against term boundaries by the
		// caller; within a term window they behave as always active.
		return true
	case models.UsagePatternOddDays:
		return date.Day()%2 == 1
	case models.UsagePatternEvenDays:
		return date.Day()%2 == 0
	case models.UsagePatternAlternatingDays:
		return date.YearDay()%2 == 0
	case models.UsagePatternWeeklyRotation:
		return (date.YearDay()/7)%2 == 0
	case models.UsagePatternSpecificDays:
		day := models.DayOfWeek(strings.ToUpper(date.Weekday().String()))
		_, ok := a.SpecificDaySet()[day]
		return ok
	default:
		return false
	}
}

// EffectiveCapacity sums the capacity of the rooms effective on a date.
func (s *FeasibilityService) EffectiveCapacity(ctx context.Context, courseID string, date time.Time) (int, error) {
	rooms, err := s.EffectiveRooms(ctx, courseID, date)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, room := range rooms {
		total += room.Capacity
	}
	return total, nil
}

// RoomsAvailable reports whether every given room is free for the interval.
// It stops at the first occupied room.
func (s *FeasibilityService) RoomsAvailable(ctx context.Context, rooms []models.Room, interval models.TimeInterval) (bool, error) {
	occupied, err := s.OccupiedRooms(ctx, rooms, interval)
	if err != nil {
		return false, err
	}
	return len(occupied) == 0, nil
}

// OccupiedRooms returns the IDs of rooms with a slot overlapping the interval.
func (s *FeasibilityService) OccupiedRooms(ctx context.Context, rooms []models.Room, interval models.TimeInterval) ([]string, error) {
	if len(rooms) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(rooms))
	for _, room := range rooms {
		ids = append(ids, room.ID)
	}

	slots, err := s.slots.ListByRooms(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room bookings")
	}

	occupied := make([]string, 0)
	seen := make(map[string]struct{})
	for _, slot := range slots {
		if slot.RoomID == nil {
			continue
		}
		if _, ok := seen[*slot.RoomID]; ok {
			continue
		}
		iv := slot.Interval()
		if iv == nil || !iv.Overlaps(interval) {
			continue
		}
		seen[*slot.RoomID] = struct{}{}
		occupied = append(occupied, *slot.RoomID)
	}
	return occupied, nil
}

// RoomProximity estimates the walking distance in minutes between two rooms.
// Identical rooms are 0; a missing room is ProximityUnknown. The distance is
// additive over building, floor, and zone differences, with a floor of 1 for
// distinct rooms that share all three.
func RoomProximity(a, b *models.Room) int {
	if a == nil || b == nil {
		return ProximityUnknown
	}
	if a.ID == b.ID {
		return 0
	}

	distance := 0
	if !optionalStringEqual(a.Building, b.Building) {
		distance += 5
	}
	if !optionalIntEqual(a.Floor, b.Floor) {
		distance += 2
	}
	if !optionalStringEqual(a.Zone, b.Zone) {
		distance += 3
	}
	if distance == 0 {
		return 1
	}
	return distance
}

// RoomsNearby reports whether every pair of rooms is within maxDistance
// minutes. Zero or one room is trivially nearby.
func RoomsNearby(rooms []models.Room, maxDistance int) bool {
	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms); j++ {
			if RoomProximity(&rooms[i], &rooms[j]) > maxDistance {
				return false
			}
		}
	}
	return true
}

// MaxRoomDistance returns the course's proximity limit, falling back to the
// engine default.
func (s *FeasibilityService) MaxRoomDistance(course *models.Course) int {
	if course != nil && course.MaxRoomDistanceMinutes != nil {
		return *course.MaxRoomDistanceMinutes
	}
	return s.cfg.DefaultMaxRoomDistanceMinutes
}

// ValidateMultiRoomAssignment checks a course's effective rooms for a date
// and interval. Occupied rooms and a missing primary assignment are hard
// errors; capacity shortfalls, proximity breaches, and equipment gaps are
// warnings.
func (s *FeasibilityService) ValidateMultiRoomAssignment(ctx context.Context, courseID string, date time.Time, interval models.TimeInterval) (*models.ValidationResult, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	assignments, err := s.assignments.ListActiveByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room assignments")
	}

	result := &models.ValidationResult{}

	hasPrimary := false
	for i := range assignments {
		if assignments[i].IsPrimary() {
			hasPrimary = true
			break
		}
	}
	if !hasPrimary {
		result.AddError(fmt.Sprintf("course %s has no primary room assignment", course.Code))
	}

	rooms, err := s.EffectiveRooms(ctx, courseID, date)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		result.AddError(fmt.Sprintf("course %s has no effective room on %s", course.Code, date.Format("2006-01-02")))
		return result, nil
	}

	occupied, err := s.OccupiedRooms(ctx, rooms, interval)
	if err != nil {
		return nil, err
	}
	for _, roomID := range occupied {
		result.AddError(fmt.Sprintf("room %s is occupied during %s", roomID, interval.String()))
	}

	totalCapacity := 0
	for _, room := range rooms {
		totalCapacity += room.Capacity
	}
	if totalCapacity < course.CurrentEnrollment {
		result.AddWarning(fmt.Sprintf("combined capacity %d is below enrollment %d", totalCapacity, course.CurrentEnrollment))
	}

	maxDistance := s.MaxRoomDistance(course)
	if !RoomsNearby(rooms, maxDistance) {
		result.AddWarning(fmt.Sprintf("rooms exceed the %d minute proximity limit", maxDistance))
	}

	for i := range rooms {
		room := &rooms[i]
		if score := EquipmentScore(course, room); score < 70 {
			missing := strings.Join(MissingEquipment(course, room), ", ")
			result.AddWarning(fmt.Sprintf("room %s scores %d for equipment (missing: %s)", room.Number, score, missing))
		}
	}

	s.logger.Debug("multi-room validation completed",
		zap.String("courseId", courseID),
		zap.Int("rooms", len(rooms)),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)))

	return result, nil
}

// CompatibilityReport scores one room against one course for the API surface.
func (s *FeasibilityService) CompatibilityReport(ctx context.Context, courseID, roomID string) (*models.CompatibilityReport, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	if room == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
	}

	score := EquipmentScore(course, room)
	return &models.CompatibilityReport{
		CourseID:          course.ID,
		CourseCode:        course.Code,
		RoomID:            room.ID,
		RoomNumber:        room.Number,
		Score:             score,
		MeetsRequirements: MeetsEquipmentRequirements(course, room),
		MissingEquipment:  MissingEquipment(course, room),
		PenaltyBucket:     EquipmentPenaltyBucket(score),
	}, nil
}

func optionalStringEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(*a), strings.TrimSpace(*b))
}

func optionalIntEqual(a, b *int) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
