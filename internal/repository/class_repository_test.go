package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/pkg/pagination"
)

var classRowColumns = []string{"id", "subject_id", "teacher_id", "invite_code", "name", "banner_cld_pub_id", "banner_url", "capacity", "description", "status", "schedules", "created_at", "updated_at"}

var classListRowColumns = append(append([]string{}, classRowColumns...),
	"subject_ref_id", "subject_name", "subject_code", "teacher_ref_id", "teacher_name", "teacher_email", "teacher_image")

func TestClassListSearchMatchesNameOrInviteCode(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM classes c LEFT JOIN subjects s ON s.id = c.subject_id LEFT JOIN users u ON u.id = c.teacher_id WHERE (c.name ILIKE $1 OR c.invite_code ILIKE $1)")).
		WithArgs("%INV01%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE (c.name ILIKE $1 OR c.invite_code ILIKE $1) ORDER BY c.created_at DESC LIMIT 10 OFFSET 0")).
		WithArgs("%INV01%").
		WillReturnRows(sqlmock.NewRows(classListRowColumns).
			AddRow(1, nil, nil, "INV01XYZ", "Orphan", nil, nil, 50, nil, "active", []byte(`[]`), now, now,
				nil, nil, nil, nil, nil, nil, nil))

	items, total, err := repo.List(context.Background(), models.ClassFilter{
		Search: "INV01",
		Window: pagination.Window{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "INV01XYZ", items[0].InviteCode)
	assert.Nil(t, items[0].Subject)
	assert.Nil(t, items[0].Teacher)
	assert.Equal(t, models.ClassStatusActive, items[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassListFiltersSubjectAndTeacherNames(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (s.name ILIKE $1) AND (u.name ILIKE $2)")).
		WithArgs("%math%", "%tia%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE (s.name ILIKE $1) AND (u.name ILIKE $2) ORDER BY")).
		WithArgs("%math%", "%tia%").
		WillReturnRows(sqlmock.NewRows(classListRowColumns))

	_, total, err := repo.List(context.Background(), models.ClassFilter{
		Subject: "math",
		Teacher: "tia",
		Window:  pagination.Window{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassFindDetailByIDJoinsDepartment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now()
	columns := append(append([]string{}, classListRowColumns...), "department_ref_id", "department_code", "department_name")
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN departments d ON d.id = s.department_id WHERE c.id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, 3, "t1", "ABCD2345", "Algebra", nil, nil, 30, nil, "archived",
				[]byte(`[{"day":"mon","startTime":"08:00","endTime":"09:00"}]`), now, now,
				3, "Math", "MATH101", "t1", "Tia", "tia@example.com", "https://img", 2, "MATH", "DEPT-MATH"))

	detail, err := repo.FindDetailByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, detail.Department)
	assert.Equal(t, "DEPT-MATH", detail.Department.Name)
	require.NotNil(t, detail.Teacher.Image)
	assert.Len(t, detail.Schedules, 1)
	assert.Equal(t, models.ClassStatusArchived, detail.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassCreateStoresEmptySchedules(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	subjectID := int64(3)
	teacherID := "t1"
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO classes")).
		WithArgs(&subjectID, &teacherID, "ABCD2345", "Algebra", nil, nil, 50, nil, models.ClassStatusActive, "[]").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	id, err := repo.Create(context.Background(), &models.Class{
		SubjectID:  &subjectID,
		TeacherID:  &teacherID,
		InviteCode: "ABCD2345",
		Name:       "Algebra",
		Capacity:   50,
		Status:     models.ClassStatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
