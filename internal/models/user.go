package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/classroom-api/pkg/pagination"
)

// UserRole is the role assigned by the auth service.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
	RoleGuest   UserRole = "guest"
)

// ParseUserRole validates raw against the known roles.
func ParseUserRole(raw string) (UserRole, error) {
	switch role := UserRole(strings.ToLower(strings.TrimSpace(raw))); role {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleGuest:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Relation selects how a user is connected to classes.
type Relation int

const (
	// RelationNone users neither teach nor attend classes.
	RelationNone Relation = iota
	// RelationTeacher users own classes through classes.teacher_id.
	RelationTeacher
	// RelationStudent users attend classes through enrollments.student_id.
	RelationStudent
)

// String implements fmt.Stringer.
func (r Relation) String() string {
	switch r {
	case RelationTeacher:
		return "teacher"
	case RelationStudent:
		return "student"
	default:
		return "none"
	}
}

// Relation maps a role onto its class relation.
func (r UserRole) Relation() Relation {
	switch r {
	case RoleTeacher:
		return RelationTeacher
	case RoleStudent:
		return RelationStudent
	default:
		return RelationNone
	}
}

// User is an account managed by the auth service.
type User struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	Role          UserRole  `db:"role" json:"role"`
	Image         *string   `db:"image" json:"image"`
	ImageCldPubID *string   `db:"image_cld_pub_id" json:"imageCldPubId"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// UserSummary is the compact user projection embedded in classes.
type UserSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email,omitempty"`
	Image *string `json:"image,omitempty"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role   UserRole
	Search string
	Window pagination.Window
}

// RosterFilter captures filtering criteria for listing a class roster.
type RosterFilter struct {
	Search string
	Window pagination.Window
}
