package models

import (
	"time"

	"github.com/noah-isme/classroom-api/pkg/pagination"
)

// Subject represents a course offered by a department.
type Subject struct {
	ID           int64     `db:"id" json:"id"`
	DepartmentID int64     `db:"department_id" json:"departmentId"`
	Code         string    `db:"code" json:"code"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// SubjectWithDepartment extends Subject with its owning department.
type SubjectWithDepartment struct {
	Subject
	Department *DepartmentSummary `json:"department"`
}

// SubjectSummary is the compact subject projection embedded in classes.
type SubjectSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Search     string
	Department string
	Window     pagination.Window
}
