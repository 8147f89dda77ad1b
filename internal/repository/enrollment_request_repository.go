package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/scheduler-api/internal/models"
)

// EnrollmentRequestRepository reads the enrollment requests that feed the
// conflict matrix.
type EnrollmentRequestRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRequestRepository creates a new enrollment request repository.
func NewEnrollmentRequestRepository(db *sqlx.DB) *EnrollmentRequestRepository {
	return &EnrollmentRequestRepository{db: db}
}

// ListByYear returns all requests for a planning year.
func (r *EnrollmentRequestRepository) ListByYear(ctx context.Context, year int) ([]models.EnrollmentRequest, error) {
	const query = `SELECT id, student_id, course_code, year, created_at FROM enrollment_requests WHERE year = $1 ORDER BY student_id ASC, course_code ASC`
	var requests []models.EnrollmentRequest
	if err := r.db.SelectContext(ctx, &requests, query, year); err != nil {
		return nil, fmt.Errorf("list enrollment requests by year: %w", err)
	}
	return requests, nil
}

// CountByCourses returns per-course enrollment counts for slots, keyed by
// course code.
func (r *EnrollmentRequestRepository) CountByCourses(ctx context.Context, year int) (map[string]int, error) {
	const query = `SELECT course_code, COUNT(*) AS cnt FROM enrollment_requests WHERE year = $1 GROUP BY course_code`
	rows, err := r.db.QueryxContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("count enrollment requests: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var code string
		var cnt int
		if err := rows.Scan(&code, &cnt); err != nil {
			return nil, fmt.Errorf("scan enrollment count: %w", err)
		}
		counts[code] = cnt
	}
	return counts, rows.Err()
}
