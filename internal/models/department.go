package models

import (
	"time"

	"github.com/noah-isme/classroom-api/pkg/pagination"
)

// Department groups subjects under an academic unit.
type Department struct {
	ID          int64     `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// DepartmentListItem is a department row with its subject count.
type DepartmentListItem struct {
	Department
	TotalSubjects int `db:"total_subjects" json:"totalSubjects"`
}

// DepartmentSummary is the compact department projection embedded in other resources.
type DepartmentSummary struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// DepartmentTotals aggregates activity scoped to one department.
type DepartmentTotals struct {
	Subjects         int `json:"subjects"`
	Classes          int `json:"classes"`
	EnrolledStudents int `json:"enrolledStudents"`
	Teachers         int `json:"teachers"`
}

// DepartmentDetail is the department detail payload.
type DepartmentDetail struct {
	Department Department       `json:"departmentDetails"`
	Totals     DepartmentTotals `json:"totals"`
}

// DepartmentFilter captures supported filters for listing departments.
type DepartmentFilter struct {
	Search string
	Window pagination.Window
}
