package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/scheduler-api/internal/models"
)

// OutcomeRepository persists resolution outcomes so empirical success rates
// survive restarts. Records are append-only.
type OutcomeRepository struct {
	db *sqlx.DB
}

// NewOutcomeRepository creates a new outcome repository.
func NewOutcomeRepository(db *sqlx.DB) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

// Record appends one outcome.
func (r *OutcomeRepository) Record(ctx context.Context, outcome *models.ResolutionOutcome) error {
	if outcome.ID == "" {
		outcome.ID = uuid.NewString()
	}
	if outcome.CreatedAt.IsZero() {
		outcome.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO resolution_outcomes (id, resolution_type, conflict_kind, success, created_at)
VALUES (:id, :resolution_type, :conflict_kind, :success, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, outcome); err != nil {
		return fmt.Errorf("record resolution outcome: %w", err)
	}
	return nil
}

// ListRecentByType returns the newest outcomes of one resolution type,
// bounded by limit, used to warm the in-memory history window.
func (r *OutcomeRepository) ListRecentByType(ctx context.Context, resolutionType models.ResolutionType, limit int) ([]models.ResolutionOutcome, error) {
	const query = `SELECT id, resolution_type, conflict_kind, success, created_at FROM resolution_outcomes WHERE resolution_type = $1 ORDER BY created_at DESC LIMIT $2`
	var outcomes []models.ResolutionOutcome
	if err := r.db.SelectContext(ctx, &outcomes, query, resolutionType, limit); err != nil {
		return nil, fmt.Errorf("list resolution outcomes: %w", err)
	}
	return outcomes, nil
}
