package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campusgrid/scheduler-api/internal/models"
)

const slotColumns = `id, schedule_id, course_id, teacher_id, room_id, day_of_week, day_type, period_number, start_minute, end_minute, enrollment, has_conflict, created_at, updated_at`

// SlotRepository provides persistence for schedule slots.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository creates a new slot repository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// ListBySchedule returns the fully resolved slot set of one schedule.
func (r *SlotRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_slots WHERE schedule_id = $1 ORDER BY day_of_week ASC, start_minute ASC`, slotColumns)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list slots by schedule: %w", err)
	}
	return slots, nil
}

// FindByID loads a slot by id.
func (r *SlotRepository) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_slots WHERE id = $1`, slotColumns)
	var slot models.ScheduleSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find slot %s: %w", id, err)
	}
	return &slot, nil
}

// ListByTeacher returns all slots assigned to a teacher across schedules.
func (r *SlotRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_slots WHERE teacher_id = $1`, slotColumns)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, teacherID); err != nil {
		return nil, fmt.Errorf("list slots by teacher: %w", err)
	}
	return slots, nil
}

// ListByRoom returns all slots placed in a room.
func (r *SlotRepository) ListByRoom(ctx context.Context, roomID string) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_slots WHERE room_id = $1`, slotColumns)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, roomID); err != nil {
		return nil, fmt.Errorf("list slots by room: %w", err)
	}
	return slots, nil
}

// ListByRooms returns all slots placed in any of the given rooms.
func (r *SlotRepository) ListByRooms(ctx context.Context, roomIDs []string) ([]models.ScheduleSlot, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM schedule_slots WHERE room_id = ANY($1)`, slotColumns)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, pq.Array(roomIDs)); err != nil {
		return nil, fmt.Errorf("list slots by rooms: %w", err)
	}
	return slots, nil
}

// Create stores a new slot record.
func (r *SlotRepository) Create(ctx context.Context, slot *models.ScheduleSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now

	const query = `INSERT INTO schedule_slots (id, schedule_id, course_id, teacher_id, room_id, day_of_week, day_type, period_number, start_minute, end_minute, enrollment, has_conflict, created_at, updated_at)
VALUES (:id, :schedule_id, :course_id, :teacher_id, :room_id, :day_of_week, :day_type, :period_number, :start_minute, :end_minute, :enrollment, :has_conflict, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	return nil
}

// Update persists slot mutations (reassigned teacher/room/time).
func (r *SlotRepository) Update(ctx context.Context, slot *models.ScheduleSlot) error {
	slot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_slots SET course_id = :course_id, teacher_id = :teacher_id, room_id = :room_id, day_of_week = :day_of_week, day_type = :day_type, period_number = :period_number, start_minute = :start_minute, end_minute = :end_minute, enrollment = :enrollment, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("update slot: %w", err)
	}
	return nil
}

// Delete removes a slot when a course is unplaced.
func (r *SlotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

// UpdateConflictFlags recomputes the derived has_conflict cache for a
// schedule in one pass: flagged slots get true, the rest false.
func (r *SlotRepository) UpdateConflictFlags(ctx context.Context, scheduleID string, conflictedIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin conflict flag update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE schedule_slots SET has_conflict = FALSE WHERE schedule_id = $1`, scheduleID); err != nil {
		return fmt.Errorf("clear conflict flags: %w", err)
	}
	if len(conflictedIDs) > 0 {
		if _, err = tx.ExecContext(ctx, `UPDATE schedule_slots SET has_conflict = TRUE WHERE id = ANY($1)`, pq.Array(conflictedIDs)); err != nil {
			return fmt.Errorf("set conflict flags: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit conflict flag update: %w", err)
	}
	return nil
}
