package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
)

func TestEnrollmentCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM classes WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO enrollments (student_id, class_id) SELECT $1, $2 WHERE (SELECT COUNT(*) FROM enrollments WHERE class_id = $2) < $3")).
		WithArgs("s1", int64(3), 50).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectCommit()

	enrollment := &models.Enrollment{StudentID: "s1", ClassID: 3}
	id, err := repo.Create(context.Background(), enrollment, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(10), id)
	assert.Equal(t, int64(10), enrollment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentCreateNoSeatLeft(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM classes WHERE id = $1 FOR UPDATE")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO enrollments (student_id, class_id)")).
		WithArgs("s1", int64(3), 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	enrollment := &models.Enrollment{StudentID: "s1", ClassID: 3}
	_, err := repo.Create(context.Background(), enrollment, 2)
	assert.ErrorIs(t, err, models.ErrClassFull)
	assert.Zero(t, enrollment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentCountAndExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM enrollments WHERE class_id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(49))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND class_id = $2)")).
		WithArgs("s1", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	count, err := repo.CountByClass(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 49, count)

	exists, err := repo.Exists(context.Background(), "s1", 3)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
