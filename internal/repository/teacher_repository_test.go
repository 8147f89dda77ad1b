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
)

func newTeacherRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTeacherRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "full_name", "expertise", "active", "created_at", "updated_at"}).
		AddRow("t1", "a@example.com", "Teacher A", nil, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, full_name, expertise, active, created_at, updated_at FROM teachers WHERE id = $1")).
		WithArgs("t1").
		WillReturnRows(rows)

	teacher, err := repo.FindByID(context.Background(), "t1")
	require.NoError(t, err)
	require.NotNil(t, teacher)
	assert.Equal(t, "Teacher A", teacher.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery("SELECT .+ FROM teachers WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name", "expertise", "active", "created_at", "updated_at"}))

	teacher, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, teacher)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "full_name", "expertise", "active", "created_at", "updated_at"}).
		AddRow("t1", "a@example.com", "Teacher A", nil, true, time.Now(), time.Now()).
		AddRow("t2", "b@example.com", "Teacher B", "science", true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, full_name, expertise, active, created_at, updated_at FROM teachers WHERE active = TRUE ORDER BY full_name ASC")).
		WillReturnRows(rows)

	teachers, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 2)
	assert.Equal(t, "t2", teachers[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
