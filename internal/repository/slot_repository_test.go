package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/scheduler-api/internal/models"
)

func newSlotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func slotRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "schedule_id", "course_id", "teacher_id", "room_id",
		"day_of_week", "day_type", "period_number", "start_minute", "end_minute",
		"enrollment", "has_conflict", "created_at", "updated_at",
	})
}

func TestSlotRepositoryListBySchedule(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	rows := slotRows().
		AddRow("slot-1", "sched-1", "course-1", "teacher-1", "room-1",
			"MONDAY", "DAILY", 1, 540, 600, 28, false, time.Now(), time.Now()).
		AddRow("slot-2", "sched-1", "course-2", nil, nil,
			"MONDAY", "DAILY", 2, 600, 660, 30, false, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, schedule_id, course_id, teacher_id, room_id, day_of_week, day_type, period_number, start_minute, end_minute, enrollment, has_conflict, created_at, updated_at FROM schedule_slots WHERE schedule_id = $1 ORDER BY day_of_week ASC, start_minute ASC")).
		WithArgs("sched-1").
		WillReturnRows(rows)

	slots, err := repo.ListBySchedule(context.Background(), "sched-1")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "slot-1", slots[0].ID)
	assert.Nil(t, slots[1].TeacherID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectQuery("SELECT .+ FROM schedule_slots WHERE id").
		WithArgs("missing").
		WillReturnRows(slotRows())

	slot, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, slot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryListByRooms(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	rows := slotRows().
		AddRow("slot-1", "sched-1", "course-1", "teacher-1", "room-1",
			"TUESDAY", "DAILY", 3, 660, 720, 25, false, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, schedule_id, course_id, teacher_id, room_id, day_of_week, day_type, period_number, start_minute, end_minute, enrollment, has_conflict, created_at, updated_at FROM schedule_slots WHERE room_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	slots, err := repo.ListByRooms(context.Background(), []string{"room-1", "room-2"})
	require.NoError(t, err)
	assert.Len(t, slots, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryListByRoomsEmptyInput(t *testing.T) {
	db, _, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	slots, err := repo.ListByRooms(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, slots)
}

func TestSlotRepositoryCreateGeneratesID(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectExec("INSERT INTO schedule_slots").
		WillReturnResult(sqlmock.NewResult(1, 1))

	teacherID := "teacher-1"
	slot := &models.ScheduleSlot{ScheduleID: "sched-1", TeacherID: &teacherID, Enrollment: 20}
	require.NoError(t, repo.Create(context.Background(), slot))
	assert.NotEmpty(t, slot.ID)
	assert.False(t, slot.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectExec("UPDATE schedule_slots SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	roomID := "room-2"
	slot := &models.ScheduleSlot{ID: "slot-1", ScheduleID: "sched-1", RoomID: &roomID}
	require.NoError(t, repo.Update(context.Background(), slot))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryUpdateConflictFlags(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_slots SET has_conflict = FALSE WHERE schedule_id = $1")).
		WithArgs("sched-1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_slots SET has_conflict = TRUE WHERE id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateConflictFlags(context.Background(), "sched-1", []string{"slot-1", "slot-2"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepositoryUpdateConflictFlagsNoConflicts(t *testing.T) {
	db, mock, cleanup := newSlotRepoMock(t)
	defer cleanup()
	repo := NewSlotRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_slots SET has_conflict = FALSE WHERE schedule_id = $1")).
		WithArgs("sched-1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateConflictFlags(context.Background(), "sched-1", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
