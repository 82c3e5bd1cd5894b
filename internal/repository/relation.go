package repository

import (
	"fmt"

	"github.com/noah-isme/classroom-api/internal/models"
)

// membershipJoin returns the extra join needed after classes (alias c) to
// reach the users of the given relation, and the column holding their id.
func membershipJoin(rel models.Relation) (join string, userColumn string, err error) {
	switch rel {
	case models.RelationTeacher:
		return "", "c.teacher_id", nil
	case models.RelationStudent:
		return " JOIN enrollments e ON e.class_id = c.id", "e.student_id", nil
	case models.RelationNone:
		return "", "", fmt.Errorf("relation %s has no class membership", rel)
	default:
		return "", "", fmt.Errorf("unknown relation %d", int(rel))
	}
}

// roleForRelation is the role a user must hold to be counted in rel.
func roleForRelation(rel models.Relation) models.UserRole {
	if rel == models.RelationTeacher {
		return models.RoleTeacher
	}
	return models.RoleStudent
}
