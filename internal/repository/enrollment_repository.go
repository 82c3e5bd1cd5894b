package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

// EnrollmentRepository persists class memberships.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs a repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts an enrollment while the class holds fewer than capacity
// students. The class row is locked for the duration so concurrent inserts
// cannot overshoot. models.ErrClassFull is returned when no seat is left.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment, capacity int) (id int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin enrollment transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const lockQuery = `SELECT id FROM classes WHERE id = $1 FOR UPDATE`
	var classID int64
	if err = tx.GetContext(ctx, &classID, lockQuery, enrollment.ClassID); err != nil {
		return 0, fmt.Errorf("lock class: %w", err)
	}

	const insertQuery = `INSERT INTO enrollments (student_id, class_id)
SELECT $1, $2 WHERE (SELECT COUNT(*) FROM enrollments WHERE class_id = $2) < $3
RETURNING id`
	if err = tx.QueryRowxContext(ctx, insertQuery, enrollment.StudentID, enrollment.ClassID, capacity).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrClassFull
		}
		return 0, fmt.Errorf("create enrollment: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit enrollment: %w", err)
	}
	enrollment.ID = id
	return id, nil
}

// CountByClass returns how many students hold a seat in the class.
func (r *EnrollmentRepository) CountByClass(ctx context.Context, classID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE class_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, classID); err != nil {
		return 0, fmt.Errorf("count class enrollments: %w", err)
	}
	return count, nil
}

// Exists reports whether the student is already enrolled in the class.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID string, classID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND class_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, classID); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}
