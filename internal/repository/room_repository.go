package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campusgrid/scheduler-api/internal/models"
)

const roomColumns = `id, number, building, floor, zone, capacity, type, has_projector, has_smartboard, has_computers, equipment, active, created_at, updated_at`

// RoomRepository provides read access to rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// FindByID loads a room by id.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM rooms WHERE id = $1`, roomColumns)
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find room %s: %w", id, err)
	}
	return &room, nil
}

// ListByIDs loads a set of rooms preserving no particular order.
func (r *RoomRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Room, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM rooms WHERE id = ANY($1)`, roomColumns)
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list rooms by ids: %w", err)
	}
	return rooms, nil
}

// ListActive returns active rooms ordered by capacity, used when searching
// alternative rooms for a conflicted slot.
func (r *RoomRepository) ListActive(ctx context.Context) ([]models.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM rooms WHERE active = TRUE ORDER BY capacity ASC`, roomColumns)
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list active rooms: %w", err)
	}
	return rooms, nil
}
