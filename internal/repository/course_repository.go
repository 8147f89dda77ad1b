package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/scheduler-api/internal/models"
)

const courseColumns = `id, code, name, year, section_count, current_enrollment, max_students, required_room_type, requires_projector, requires_smartboard, requires_computers, additional_equipment, max_room_distance_minutes, uses_multiple_rooms, created_at, updated_at`

// CourseRepository provides read access to courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID loads a course by id.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1`, courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find course %s: %w", id, err)
	}
	return &course, nil
}

// FindByCode loads a course by code within a planning year.
func (r *CourseRepository) FindByCode(ctx context.Context, code string, year int) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE code = $1 AND year = $2`, courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, code, year); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find course %s/%d: %w", code, year, err)
	}
	return &course, nil
}

// ListByYear returns all courses offered in a planning year.
func (r *CourseRepository) ListByYear(ctx context.Context, year int) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE year = $1 ORDER BY code ASC`, courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, year); err != nil {
		return nil, fmt.Errorf("list courses by year: %w", err)
	}
	return courses, nil
}
