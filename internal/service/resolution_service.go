package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusgrid/scheduler-api/internal/models"
	"github.com/campusgrid/scheduler-api/pkg/config"
	appErrors "github.com/campusgrid/scheduler-api/pkg/errors"
)

// resolutionSlotRepository abstracts slot persistence for applying fixes.
type resolutionSlotRepository interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
	Update(ctx context.Context, slot *models.ScheduleSlot) error
}

// resolutionRoomRepository abstracts room reads for alternative search.
type resolutionRoomRepository interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
	ListActive(ctx context.Context) ([]models.Room, error)
}

// resolutionTeacherRepository abstracts teacher reads for substitute search.
type resolutionTeacherRepository interface {
	ListActive(ctx context.Context) ([]models.Teacher, error)
}

// resolutionOutcomeRepository persists applied-suggestion outcomes.
type resolutionOutcomeRepository interface {
	Record(ctx context.Context, outcome *models.ResolutionOutcome) error
	ListRecentByType(ctx context.Context, resolutionType models.ResolutionType, limit int) ([]models.ResolutionOutcome, error)
}

// conflictDetector is the detection surface the resolver depends on.
type conflictDetector interface {
	DetectAll(ctx context.Context, scheduleID string) ([]models.Conflict, error)
	HasTeacherConflict(ctx context.Context, teacherID string, interval models.TimeInterval, excludeSlotID string) (bool, error)
	HasRoomConflict(ctx context.Context, roomID string, interval models.TimeInterval, excludeSlotID string) (bool, error)
}

const maxAlternatives = 3

// Per-type baseline success probabilities, blended with the empirical rate
// once outcomes accumulate.
var baseSuccessRates = map[models.ResolutionType]int{
	models.ResolutionChangeTeacher:  85,
	models.ResolutionChangeRoom:     85,
	models.ResolutionChangeTimeSlot: 75,
	models.ResolutionSplitSection:   60,
	models.ResolutionManualReview:   50,
}

var estimatedSecondsByType = map[models.ResolutionType]int{
	models.ResolutionChangeTeacher:  300,
	models.ResolutionChangeRoom:     120,
	models.ResolutionChangeTimeSlot: 600,
	models.ResolutionSplitSection:   3600,
	models.ResolutionManualReview:   1800,
}

// ResolutionService scores conflict urgency, generates ranked remediation
// suggestions, and applies them, keeping a bounded per-type outcome window
// as the empirical success signal.
type ResolutionService struct {
	slots    resolutionSlotRepository
	rooms    resolutionRoomRepository
	teachers resolutionTeacherRepository
	outcomes resolutionOutcomeRepository
	detector conflictDetector
	metrics  *MetricsService
	cfg      config.EngineConfig
	logger   *zap.Logger

	historyMu sync.Mutex
	history   map[models.ResolutionType][]bool

	// One mutex per schedule so auto-resolve passes never interleave.
	scheduleLocks sync.Map
}

// NewResolutionService constructs a resolution service.
func NewResolutionService(slots resolutionSlotRepository, rooms resolutionRoomRepository, teachers resolutionTeacherRepository, outcomes resolutionOutcomeRepository, detector conflictDetector, metrics *MetricsService, cfg config.EngineConfig, logger *zap.Logger) *ResolutionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolutionService{
		slots:    slots,
		rooms:    rooms,
		teachers: teachers,
		outcomes: outcomes,
		detector: detector,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
		history:  make(map[models.ResolutionType][]bool),
	}
}

// WarmHistory seeds the in-memory outcome windows from persisted outcomes.
func (s *ResolutionService) WarmHistory(ctx context.Context) error {
	if s.outcomes == nil {
		return nil
	}
	types := []models.ResolutionType{
		models.ResolutionChangeTeacher,
		models.ResolutionChangeRoom,
		models.ResolutionChangeTimeSlot,
		models.ResolutionSplitSection,
		models.ResolutionManualReview,
	}
	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	for _, t := range types {
		recent, err := s.outcomes.ListRecentByType(ctx, t, s.cfg.HistoryWindow)
		if err != nil {
			return fmt.Errorf("warm outcome history for %s: %w", t, err)
		}
		window := make([]bool, 0, len(recent))
		// ListRecentByType is newest-first; store oldest-first so appends
		// keep chronological order.
		for i := len(recent) - 1; i >= 0; i-- {
			window = append(window, recent[i].Success)
		}
		s.history[t] = window
	}
	return nil
}

// HistoricalSuccessRate returns the percentage of recent applications of the
// type that cleared their conflict, or the baseline when no history exists.
func (s *ResolutionService) HistoricalSuccessRate(resolutionType models.ResolutionType) int {
	s.historyMu.Lock()
	window := s.history[resolutionType]
	s.historyMu.Unlock()

	if len(window) == 0 {
		return baseSuccessRates[resolutionType]
	}
	successes := 0
	for _, ok := range window {
		if ok {
			successes++
		}
	}
	return successes * 100 / len(window)
}

func (s *ResolutionService) recordHistory(resolutionType models.ResolutionType, success bool) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	window := append(s.history[resolutionType], success)
	if limit := s.cfg.HistoryWindow; limit > 0 && len(window) > limit {
		window = window[len(window)-limit:]
	}
	s.history[resolutionType] = window
}

// ScorePriority computes the composite urgency score for a conflict.
func (s *ResolutionService) ScorePriority(conflict models.Conflict) models.PriorityScore {
	hard := s.hardConstraintScore(conflict.Severity)
	affected := s.affectedEntitiesScore(conflict)
	cascade := s.cascadeImpactScore(conflict)
	difficulty := historicalDifficultyScore(conflict.Kind)
	freshness := s.timeSensitivityScore(conflict.DetectedAt)

	total := hard + affected + cascade + difficulty + freshness
	if total > 100 {
		total = 100
	}

	return models.PriorityScore{
		ConflictKey:               conflict.Key(),
		Total:                     total,
		HardConstraintScore:       hard,
		AffectedEntitiesScore:     affected,
		CascadeImpactScore:        cascade,
		HistoricalDifficultyScore: difficulty,
		TimeSensitivityScore:      freshness,
		Level:                     models.PriorityLevelFromScore(total),
		Explanation: fmt.Sprintf("%s severity %d + entities %d + cascade %d + difficulty %d + freshness %d",
			conflict.Kind, hard, affected, cascade, difficulty, freshness),
	}
}

// PrioritizeConflicts scores and orders conflicts most-urgent first. Ties
// break on the hard-constraint component, then on the conflict key.
func (s *ResolutionService) PrioritizeConflicts(conflicts []models.Conflict) []models.PriorityScore {
	scores := make([]models.PriorityScore, 0, len(conflicts))
	for _, c := range conflicts {
		scores = append(scores, s.ScorePriority(c))
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Total != scores[j].Total {
			return scores[i].Total > scores[j].Total
		}
		if scores[i].HardConstraintScore != scores[j].HardConstraintScore {
			return scores[i].HardConstraintScore > scores[j].HardConstraintScore
		}
		return scores[i].ConflictKey < scores[j].ConflictKey
	})
	return scores
}

func (s *ResolutionService) hardConstraintScore(severity models.ConflictSeverity) int {
	switch severity {
	case models.SeverityCritical:
		return s.cfg.HardViolationWeight
	case models.SeverityHigh:
		return s.cfg.HardViolationWeight - 10
	case models.SeverityMedium:
		return s.cfg.SoftViolationWeight
	default:
		return 10
	}
}

func (s *ResolutionService) affectedEntitiesScore(conflict models.Conflict) int {
	count := affectedEntityCount(conflict)
	w := s.cfg.AffectedEntityWeight
	switch {
	case count >= 10:
		return w
	case count >= 5:
		return w * 4 / 5
	case count >= 3:
		return w * 3 / 5
	case count >= 1:
		return w * 2 / 5
	default:
		return 0
	}
}

func (s *ResolutionService) cascadeImpactScore(conflict models.Conflict) int {
	estimate := CascadeEstimate(conflict)
	score := estimate * s.cfg.CascadeUnitScore
	if score > s.cfg.CascadeWeight {
		return s.cfg.CascadeWeight
	}
	return score
}

func (s *ResolutionService) timeSensitivityScore(detectedAt time.Time) int {
	w := s.cfg.TimeSensitivityWeight
	days := int(time.Since(detectedAt).Hours() / 24)
	switch {
	case days <= 0:
		return w
	case days <= 1:
		return w * 4 / 5
	case days <= 3:
		return w * 3 / 5
	case days <= 7:
		return w * 2 / 5
	case days <= 14:
		return w / 5
	default:
		return 0
	}
}

// CascadeEstimate predicts how many follow-on moves fixing the conflict is
// likely to force, capped at 5.
func CascadeEstimate(conflict models.Conflict) int {
	estimate := len(conflict.SlotIDs)*2 + conflict.Enrollment/10
	if estimate > 5 {
		return 5
	}
	return estimate
}

func historicalDifficultyScore(kind models.ConflictKind) int {
	switch kind {
	case models.ConflictTeacherDoubleBook, models.ConflictRoomDoubleBook:
		// Double bookings almost always have a direct swap available.
		return 5
	case models.ConflictCapacityExceeded:
		return 15
	case models.ConflictEquipmentMismatch, models.ConflictProximityViolation:
		return 10
	default:
		return 8
	}
}

func affectedEntityCount(conflict models.Conflict) int {
	count := len(conflict.SlotIDs)
	if conflict.TeacherID != nil {
		count++
	}
	if conflict.RoomID != nil {
		count++
	}
	return count + conflict.Enrollment/10
}

// GenerateSuggestions produces ranked remediation candidates for a conflict.
// Candidates below the confidence floor are dropped; when nothing concrete
// survives, a manual-review fallback is returned so the list is never empty.
func (s *ResolutionService) GenerateSuggestions(ctx context.Context, conflict models.Conflict) ([]models.Suggestion, error) {
	var (
		suggestions []models.Suggestion
		err         error
	)
	switch conflict.Kind {
	case models.ConflictTeacherDoubleBook:
		suggestions, err = s.suggestForTeacherConflict(ctx, conflict)
	case models.ConflictRoomDoubleBook:
		suggestions, err = s.suggestForRoomConflict(ctx, conflict)
	case models.ConflictCapacityExceeded:
		suggestions, err = s.suggestForCapacityConflict(ctx, conflict)
	default:
		suggestions = nil
	}
	if err != nil {
		return nil, err
	}

	kept := make([]models.Suggestion, 0, len(suggestions))
	for _, sg := range suggestions {
		sg.SuccessProbability = s.blendSuccess(sg.Type, sg.SuccessProbability)
		if sg.SuccessProbability < s.cfg.SuggestionConfidenceFloor {
			continue
		}
		kept = append(kept, sg)
	}

	if len(kept) == 0 {
		kept = append(kept, s.manualReviewFallback(conflict))
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Ranking() < kept[j].Ranking() })

	if s.metrics != nil {
		for _, sg := range kept {
			s.metrics.RecordSuggestionOffered(sg.Type)
		}
	}
	return kept, nil
}

func (s *ResolutionService) blendSuccess(resolutionType models.ResolutionType, base int) int {
	return (base + s.HistoricalSuccessRate(resolutionType)) / 2
}

func (s *ResolutionService) manualReviewFallback(conflict models.Conflict) models.Suggestion {
	return models.Suggestion{
		ID:                  uuid.NewString(),
		Type:                models.ResolutionManualReview,
		Description:         fmt.Sprintf("manually review %s conflict", conflict.Kind),
		Explanation:         "no automatic remediation met the confidence floor",
		ImpactScore:         50,
		SuccessProbability:  s.blendSuccess(models.ResolutionManualReview, baseSuccessRates[models.ResolutionManualReview]),
		AffectedEntityCount: affectedEntityCount(conflict),
		AffectedEntities:    conflict.SlotIDs,
		EstimatedSeconds:    estimatedSecondsByType[models.ResolutionManualReview],
	}
}

// suggestForTeacherConflict proposes substitute teachers for the later slot,
// plus a time shift when the adjacent window is free.
func (s *ResolutionService) suggestForTeacherConflict(ctx context.Context, conflict models.Conflict) ([]models.Suggestion, error) {
	slot, interval, err := s.mutableSlot(ctx, conflict)
	if err != nil || slot == nil {
		return nil, err
	}

	teachers, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}

	suggestions := make([]models.Suggestion, 0, maxAlternatives+1)
	for i := range teachers {
		if len(suggestions) == maxAlternatives {
			break
		}
		candidate := teachers[i]
		if conflict.TeacherID != nil && candidate.ID == *conflict.TeacherID {
			continue
		}
		busy, err := s.detector.HasTeacherConflict(ctx, candidate.ID, *interval, slot.ID)
		if err != nil {
			return nil, err
		}
		if busy {
			continue
		}
		teacherID := candidate.ID
		suggestions = append(suggestions, models.Suggestion{
			ID:                  uuid.NewString(),
			Type:                models.ResolutionChangeTeacher,
			Description:         fmt.Sprintf("reassign slot %s to %s", slot.ID, candidate.FullName),
			Explanation:         fmt.Sprintf("%s is free during %s", candidate.FullName, interval.String()),
			ImpactScore:         15,
			SuccessProbability:  baseSuccessRates[models.ResolutionChangeTeacher],
			AffectedEntityCount: affectedEntityCount(conflict),
			AffectedEntities:    conflict.SlotIDs,
			EstimatedSeconds:    estimatedSecondsByType[models.ResolutionChangeTeacher],
			TargetSlotID:        slot.ID,
			ProposedTeacherID:   &teacherID,
		})
	}

	if shift := s.timeShiftSuggestion(ctx, conflict, slot, interval); shift != nil {
		suggestions = append(suggestions, *shift)
	}
	return suggestions, nil
}

// suggestForRoomConflict proposes free rooms with enough seats for the later
// slot, plus a time shift when the adjacent window is free.
func (s *ResolutionService) suggestForRoomConflict(ctx context.Context, conflict models.Conflict) ([]models.Suggestion, error) {
	slot, interval, err := s.mutableSlot(ctx, conflict)
	if err != nil || slot == nil {
		return nil, err
	}

	suggestions, err := s.changeRoomSuggestions(ctx, conflict, slot, interval, slot.Enrollment)
	if err != nil {
		return nil, err
	}
	if shift := s.timeShiftSuggestion(ctx, conflict, slot, interval); shift != nil {
		suggestions = append(suggestions, *shift)
	}
	return suggestions, nil
}

// suggestForCapacityConflict proposes larger rooms, with a section split as
// the heavyweight fallback.
func (s *ResolutionService) suggestForCapacityConflict(ctx context.Context, conflict models.Conflict) ([]models.Suggestion, error) {
	slot, interval, err := s.mutableSlot(ctx, conflict)
	if err != nil || slot == nil {
		return nil, err
	}

	suggestions, err := s.changeRoomSuggestions(ctx, conflict, slot, interval, slot.Enrollment)
	if err != nil {
		return nil, err
	}

	suggestions = append(suggestions, models.Suggestion{
		ID:                  uuid.NewString(),
		Type:                models.ResolutionSplitSection,
		Description:         fmt.Sprintf("split slot %s into two sections", slot.ID),
		Explanation:         fmt.Sprintf("%d students exceed every candidate room", slot.Enrollment),
		ImpactScore:         70,
		SuccessProbability:  baseSuccessRates[models.ResolutionSplitSection],
		AffectedEntityCount: affectedEntityCount(conflict),
		AffectedEntities:    conflict.SlotIDs,
		Warnings:            []string{"creates a new section requiring a teacher and a room"},
		EstimatedSeconds:    estimatedSecondsByType[models.ResolutionSplitSection],
		TargetSlotID:        slot.ID,
	})
	return suggestions, nil
}

func (s *ResolutionService) changeRoomSuggestions(ctx context.Context, conflict models.Conflict, slot *models.ScheduleSlot, interval *models.TimeInterval, minCapacity int) ([]models.Suggestion, error) {
	rooms, err := s.rooms.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}

	var current *models.Room
	if slot.RoomID != nil {
		current, err = s.rooms.FindByID(ctx, *slot.RoomID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load current room")
		}
	}

	suggestions := make([]models.Suggestion, 0, maxAlternatives)
	for i := range rooms {
		if len(suggestions) == maxAlternatives {
			break
		}
		candidate := rooms[i]
		if slot.RoomID != nil && candidate.ID == *slot.RoomID {
			continue
		}
		if candidate.Capacity < minCapacity {
			continue
		}
		occupied, err := s.detector.HasRoomConflict(ctx, candidate.ID, *interval, slot.ID)
		if err != nil {
			return nil, err
		}
		if occupied {
			continue
		}

		distance := RoomProximity(current, &candidate)
		impact := 10
		var warnings []string
		if distance != ProximityUnknown && distance > 0 {
			impact += distance
		}
		if candidate.Capacity == minCapacity {
			warnings = append(warnings, fmt.Sprintf("room %s has no spare seats", candidate.Number))
		}

		roomID := candidate.ID
		suggestions = append(suggestions, models.Suggestion{
			ID:                  uuid.NewString(),
			Type:                models.ResolutionChangeRoom,
			Description:         fmt.Sprintf("move slot %s to room %s", slot.ID, candidate.Number),
			Explanation:         fmt.Sprintf("room %s seats %d and is free during %s", candidate.Number, candidate.Capacity, interval.String()),
			ImpactScore:         impact,
			SuccessProbability:  baseSuccessRates[models.ResolutionChangeRoom],
			AffectedEntityCount: affectedEntityCount(conflict),
			AffectedEntities:    conflict.SlotIDs,
			Warnings:            warnings,
			EstimatedSeconds:    estimatedSecondsByType[models.ResolutionChangeRoom],
			TargetSlotID:        slot.ID,
			ProposedRoomID:      &roomID,
		})
	}
	return suggestions, nil
}

// timeShiftSuggestion proposes moving the slot immediately after its current
// window when both the teacher and the room are free there.
func (s *ResolutionService) timeShiftSuggestion(ctx context.Context, conflict models.Conflict, slot *models.ScheduleSlot, interval *models.TimeInterval) *models.Suggestion {
	duration := interval.DurationMinutes()
	shifted := *interval
	shifted.StartMinute += duration
	shifted.EndMinute += duration
	if shifted.EndMinute > 24*60 {
		return nil
	}

	if slot.TeacherID != nil {
		busy, err := s.detector.HasTeacherConflict(ctx, *slot.TeacherID, shifted, slot.ID)
		if err != nil || busy {
			return nil
		}
	}
	if slot.RoomID != nil {
		occupied, err := s.detector.HasRoomConflict(ctx, *slot.RoomID, shifted, slot.ID)
		if err != nil || occupied {
			return nil
		}
	}

	return &models.Suggestion{
		ID:                  uuid.NewString(),
		Type:                models.ResolutionChangeTimeSlot,
		Description:         fmt.Sprintf("shift slot %s to %s", slot.ID, shifted.String()),
		Explanation:         "the adjacent window is free for both teacher and room",
		ImpactScore:         40,
		SuccessProbability:  baseSuccessRates[models.ResolutionChangeTimeSlot],
		AffectedEntityCount: affectedEntityCount(conflict),
		AffectedEntities:    conflict.SlotIDs,
		Warnings:            []string{"students must be notified of the new time"},
		EstimatedSeconds:    estimatedSecondsByType[models.ResolutionChangeTimeSlot],
		TargetSlotID:        slot.ID,
		ProposedInterval:    &shifted,
	}
}

// mutableSlot picks which slot a fix should move: the later-starting one of
// the pair (ID as tie-break), so earlier placements stay put. Returns nil
// when no slot in the conflict survives with time information.
func (s *ResolutionService) mutableSlot(ctx context.Context, conflict models.Conflict) (*models.ScheduleSlot, *models.TimeInterval, error) {
	var (
		target         *models.ScheduleSlot
		targetInterval *models.TimeInterval
	)
	for _, id := range conflict.SlotIDs {
		slot, err := s.slots.FindByID(ctx, id)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
		}
		if slot == nil {
			continue
		}
		interval := slot.Interval()
		if interval == nil {
			continue
		}
		later := target == nil ||
			interval.StartMinute > targetInterval.StartMinute ||
			(interval.StartMinute == targetInterval.StartMinute && slot.ID > target.ID)
		if later {
			target = slot
			targetInterval = interval
		}
	}
	return target, targetInterval, nil
}

// CanAutoApply reports whether a suggestion is safe to apply without review.
func (s *ResolutionService) CanAutoApply(conflict models.Conflict, suggestion models.Suggestion) bool {
	switch suggestion.Type {
	case models.ResolutionChangeTeacher:
		if suggestion.ProposedTeacherID == nil {
			return false
		}
	case models.ResolutionChangeRoom:
		if suggestion.ProposedRoomID == nil {
			return false
		}
	case models.ResolutionChangeTimeSlot:
		if suggestion.ProposedInterval == nil {
			return false
		}
	default:
		return false
	}
	if suggestion.TargetSlotID == "" || len(suggestion.Warnings) > 0 {
		return false
	}
	return suggestion.ImpactScore <= s.cfg.AutoApplyMaxImpact &&
		suggestion.SuccessProbability >= s.cfg.AutoApplyMinSuccess &&
		conflict.Enrollment <= s.cfg.AutoApplyEnrollmentCap
}

// ApplySuggestion mutates the target slot and re-runs detection to confirm
// the conflict cleared. It returns false without error when the suggestion
// is stale: the slot vanished or no longer matches the conflict.
func (s *ResolutionService) ApplySuggestion(ctx context.Context, conflict models.Conflict, suggestion models.Suggestion) (bool, error) {
	if suggestion.TargetSlotID == "" {
		return false, nil
	}

	slot, err := s.slots.FindByID(ctx, suggestion.TargetSlotID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slot")
	}
	if slot == nil || s.isStale(conflict, slot) {
		s.logger.Info("skipping stale suggestion",
			zap.String("suggestionId", suggestion.ID),
			zap.String("conflictKey", conflict.Key()))
		return false, nil
	}

	switch suggestion.Type {
	case models.ResolutionChangeTeacher:
		if suggestion.ProposedTeacherID == nil {
			return false, appErrors.ErrValidation
		}
		slot.TeacherID = suggestion.ProposedTeacherID
	case models.ResolutionChangeRoom:
		if suggestion.ProposedRoomID == nil {
			return false, appErrors.ErrValidation
		}
		slot.RoomID = suggestion.ProposedRoomID
	case models.ResolutionChangeTimeSlot:
		if suggestion.ProposedInterval == nil {
			return false, appErrors.ErrValidation
		}
		slot.SetInterval(*suggestion.ProposedInterval)
	default:
		return false, nil
	}

	if err := s.slots.Update(ctx, slot); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update slot")
	}

	remaining, err := s.detector.DetectAll(ctx, slot.ScheduleID)
	if err != nil {
		return false, err
	}
	cleared := true
	for _, c := range remaining {
		if c.Key() == conflict.Key() {
			cleared = false
			break
		}
	}

	s.recordOutcome(ctx, conflict, suggestion, cleared)
	s.logger.Info("suggestion applied",
		zap.String("suggestionId", suggestion.ID),
		zap.String("type", string(suggestion.Type)),
		zap.String("conflictKey", conflict.Key()),
		zap.Bool("cleared", cleared))
	return cleared, nil
}

// isStale checks that the slot still participates in the conflict the
// suggestion was generated for.
func (s *ResolutionService) isStale(conflict models.Conflict, slot *models.ScheduleSlot) bool {
	switch conflict.Kind {
	case models.ConflictTeacherDoubleBook:
		return conflict.TeacherID == nil || slot.TeacherID == nil || *slot.TeacherID != *conflict.TeacherID
	case models.ConflictRoomDoubleBook, models.ConflictCapacityExceeded:
		return conflict.RoomID == nil || slot.RoomID == nil || *slot.RoomID != *conflict.RoomID
	default:
		return false
	}
}

func (s *ResolutionService) recordOutcome(ctx context.Context, conflict models.Conflict, suggestion models.Suggestion, success bool) {
	s.recordHistory(suggestion.Type, success)
	if s.metrics != nil {
		s.metrics.RecordSuggestionApplied(suggestion.Type, success)
	}
	if s.outcomes == nil {
		return
	}
	outcome := &models.ResolutionOutcome{
		ID:             uuid.NewString(),
		ResolutionType: suggestion.Type,
		ConflictKind:   conflict.Kind,
		Success:        success,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.outcomes.Record(ctx, outcome); err != nil {
		s.logger.Warn("failed to persist resolution outcome", zap.Error(err))
	}
}

// AutoResolve runs one serialized pass over a schedule: detect, prioritize,
// and for each conflict attempt at most one auto-applicable suggestion.
func (s *ResolutionService) AutoResolve(ctx context.Context, scheduleID string) (*models.AutoResolveReport, error) {
	lock, _ := s.scheduleLocks.LoadOrStore(scheduleID, &sync.Mutex{})
	mu := lock.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	conflicts, err := s.detector.DetectAll(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]models.Conflict, len(conflicts))
	for _, c := range conflicts {
		byKey[c.Key()] = c
	}
	scores := s.PrioritizeConflicts(conflicts)

	report := &models.AutoResolveReport{ScheduleID: scheduleID, Detected: len(conflicts)}
	for _, score := range scores {
		conflict, ok := byKey[score.ConflictKey]
		if !ok {
			continue
		}
		suggestions, err := s.GenerateSuggestions(ctx, conflict)
		if err != nil {
			return nil, err
		}
		for _, suggestion := range suggestions {
			if !s.CanAutoApply(conflict, suggestion) {
				continue
			}
			report.Attempted++
			cleared, err := s.ApplySuggestion(ctx, conflict, suggestion)
			if err != nil {
				return nil, err
			}
			if cleared {
				report.Resolved++
			}
			break
		}
	}

	remaining, err := s.detector.DetectAll(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	report.Remaining = len(remaining)
	report.FullyResolved = len(remaining) == 0

	if s.metrics != nil {
		s.metrics.RecordAutoResolvePass()
	}
	s.logger.Info("auto-resolve pass completed",
		zap.String("scheduleId", scheduleID),
		zap.Int("detected", report.Detected),
		zap.Int("attempted", report.Attempted),
		zap.Int("resolved", report.Resolved),
		zap.Int("remaining", report.Remaining))
	return report, nil
}
