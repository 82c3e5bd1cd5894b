package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole(" Teacher ")
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, role)

	_, err = ParseUserRole("principal")
	assert.Error(t, err)
	_, err = ParseUserRole("")
	assert.Error(t, err)
}

func TestRoleRelation(t *testing.T) {
	assert.Equal(t, RelationTeacher, RoleTeacher.Relation())
	assert.Equal(t, RelationStudent, RoleStudent.Relation())
	assert.Equal(t, RelationNone, RoleAdmin.Relation())
	assert.Equal(t, RelationNone, RoleGuest.Relation())
	assert.Equal(t, RelationNone, UserRole("").Relation())
	assert.Equal(t, "student", RelationStudent.String())
}

func TestParseClassStatus(t *testing.T) {
	status, err := ParseClassStatus("ARCHIVED")
	require.NoError(t, err)
	assert.Equal(t, ClassStatusArchived, status)

	_, err = ParseClassStatus("deleted")
	assert.Error(t, err)
}

func TestSchedulesValueNilIsEmptyArray(t *testing.T) {
	var s Schedules
	v, err := s.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestSchedulesScan(t *testing.T) {
	var s Schedules
	require.NoError(t, s.Scan([]byte(`[{"day":"mon","startTime":"08:00","endTime":"09:00"}]`)))
	require.Len(t, s, 1)
	assert.Equal(t, "mon", s[0].Day)

	require.NoError(t, s.Scan(nil))
	assert.NotNil(t, s)
	assert.Len(t, s, 0)

	assert.Error(t, s.Scan(42))
}
