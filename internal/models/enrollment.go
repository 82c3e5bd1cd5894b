package models

import (
	"errors"
	"time"
)

// ErrClassFull reports that a class has no free seat left.
var ErrClassFull = errors.New("class is full")

// Enrollment records a student's membership in a class.
type Enrollment struct {
	ID        int64     `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"studentId"`
	ClassID   int64     `db:"class_id" json:"classId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
