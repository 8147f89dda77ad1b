package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/scheduler-api/internal/models"
)

const assignmentColumns = `id, course_id, room_id, priority, usage_pattern, specific_days, active, created_at, updated_at`

// AssignmentRepository manages course-room assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListActiveByCourse returns a course's active room assignments ordered by
// priority (primary first).
func (r *AssignmentRepository) ListActiveByCourse(ctx context.Context, courseID string) ([]models.CourseRoomAssignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM course_room_assignments WHERE course_id = $1 AND active = TRUE ORDER BY priority ASC`, assignmentColumns)
	var assignments []models.CourseRoomAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, courseID); err != nil {
		return nil, fmt.Errorf("list assignments by course: %w", err)
	}
	return assignments, nil
}

// CountActiveByCourse returns the number of active assignments for a course.
func (r *AssignmentRepository) CountActiveByCourse(ctx context.Context, courseID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM course_room_assignments WHERE course_id = $1 AND active = TRUE`, courseID); err != nil {
		return 0, fmt.Errorf("count assignments by course: %w", err)
	}
	return count, nil
}

// Create stores a new course-room assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.CourseRoomAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now

	const query = `INSERT INTO course_room_assignments (id, course_id, room_id, priority, usage_pattern, specific_days, active, created_at, updated_at)
VALUES (:id, :course_id, :room_id, :priority, :usage_pattern, :specific_days, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Deactivate marks an assignment inactive without deleting history.
func (r *AssignmentRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE course_room_assignments SET active = FALSE, updated_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deactivate assignment: %w", err)
	}
	return nil
}
