package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/pagination"
)

type fakeDepartmentRepo struct {
	mu          sync.Mutex
	departments map[int64]models.Department
	created     []models.Department
	createErr   error
	countErr    error
	countCalls  int32
	lastRel     models.Relation
	listTotal   int
}

func (f *fakeDepartmentRepo) List(ctx context.Context, filter models.DepartmentFilter) ([]models.DepartmentListItem, int, error) {
	items := []models.DepartmentListItem{}
	for _, d := range f.departments {
		items = append(items, models.DepartmentListItem{Department: d})
	}
	return items, f.listTotal, nil
}

func (f *fakeDepartmentRepo) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	d, ok := f.departments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &d, nil
}

func (f *fakeDepartmentRepo) Create(ctx context.Context, department *models.Department) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	department.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *department)
	return department.ID, nil
}

func (f *fakeDepartmentRepo) CountSubjects(ctx context.Context, id int64) (int, error) {
	atomic.AddInt32(&f.countCalls, 1)
	return 2, nil
}

func (f *fakeDepartmentRepo) CountClasses(ctx context.Context, id int64) (int, error) {
	atomic.AddInt32(&f.countCalls, 1)
	return 5, nil
}

func (f *fakeDepartmentRepo) CountUsers(ctx context.Context, id int64, rel models.Relation) (int, error) {
	atomic.AddInt32(&f.countCalls, 1)
	if f.countErr != nil {
		return 0, f.countErr
	}
	if rel == models.RelationStudent {
		return 40, nil
	}
	return 3, nil
}

func (f *fakeDepartmentRepo) ListSubjects(ctx context.Context, id int64, window pagination.Window) ([]models.Subject, int, error) {
	return []models.Subject{{ID: 1, DepartmentID: id}}, 1, nil
}

func (f *fakeDepartmentRepo) ListClasses(ctx context.Context, id int64, window pagination.Window) ([]models.ClassListItem, int, error) {
	return []models.ClassListItem{}, 0, nil
}

func (f *fakeDepartmentRepo) ListUsers(ctx context.Context, id int64, rel models.Relation, window pagination.Window) ([]models.User, int, error) {
	f.mu.Lock()
	f.lastRel = rel
	f.mu.Unlock()
	return []models.User{{ID: "u1"}}, 21, nil
}

func newDepartmentRepoWith(ids ...int64) *fakeDepartmentRepo {
	repo := &fakeDepartmentRepo{departments: map[int64]models.Department{}}
	for _, id := range ids {
		repo.departments[id] = models.Department{ID: id, Code: "MATH", Name: "DEPT-MATH"}
	}
	return repo
}

func TestDepartmentCreateUppercasesName(t *testing.T) {
	repo := newDepartmentRepoWith()
	svc := NewDepartmentService(repo, nil, nil, NewValidator(), zap.NewNop())

	id, err := svc.Create(context.Background(), CreateDepartmentRequest{Code: "MATH", Name: "dept-math", Description: "Mathematics"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "DEPT-MATH", repo.created[0].Name)
}

func TestDepartmentCreateValidation(t *testing.T) {
	repo := newDepartmentRepoWith()
	svc := NewDepartmentService(repo, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateDepartmentRequest{Code: "M", Name: "Mathematics", Description: "abc"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "code")
	assert.Contains(t, appErr.Fields["name"], "must contain DEPT-")
	assert.Contains(t, appErr.Fields, "description")
	assert.Empty(t, repo.created)
}

func TestDepartmentCreateDuplicateCodeConflicts(t *testing.T) {
	repo := newDepartmentRepoWith()
	repo.createErr = &pq.Error{Code: "23505", Constraint: "departments_code_key"}
	svc := NewDepartmentService(repo, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateDepartmentRequest{Code: "MATH", Name: "DEPT-MATH", Description: "Mathematics"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
}

func TestDepartmentGetMergesTotals(t *testing.T) {
	repo := newDepartmentRepoWith(7)
	svc := NewDepartmentService(repo, nil, nil, nil, nil)

	detail, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "DEPT-MATH", detail.Department.Name)
	assert.Equal(t, models.DepartmentTotals{Subjects: 2, Classes: 5, EnrolledStudents: 40, Teachers: 3}, detail.Totals)
}

func TestDepartmentGetNotFound(t *testing.T) {
	svc := NewDepartmentService(newDepartmentRepoWith(), nil, nil, nil, nil)

	_, err := svc.Get(context.Background(), 99)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestDepartmentGetTotalsFailure(t *testing.T) {
	repo := newDepartmentRepoWith(7)
	repo.countErr = errors.New("boom")
	svc := NewDepartmentService(repo, nil, nil, nil, nil)

	_, err := svc.Get(context.Background(), 7)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.Status)
}

func TestDepartmentGetUsesCachedTotals(t *testing.T) {
	repo := newDepartmentRepoWith(7)
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	svc := NewDepartmentService(repo, cache, nil, nil, nil)

	_, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&repo.countCalls))

	detail, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int32(4), atomic.LoadInt32(&repo.countCalls))
	assert.Equal(t, 40, detail.Totals.EnrolledStudents)
}

func TestDepartmentListUsersRole(t *testing.T) {
	repo := newDepartmentRepoWith(7)
	svc := NewDepartmentService(repo, nil, nil, nil, nil)
	window := pagination.Window{Page: 2, Limit: 10}

	users, meta, err := svc.ListUsers(context.Background(), 7, "student", window)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, models.RelationStudent, repo.lastRel)
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 10, Total: 21, TotalPages: 3}, meta)

	for _, role := range []string{"admin", "guest", "", "janitor"} {
		_, _, err := svc.ListUsers(context.Background(), 7, role, window)
		var appErr *appErrors.Error
		require.ErrorAs(t, err, &appErr, role)
		assert.Equal(t, appErrors.ErrInvalidInput.Code, appErr.Code)
	}
}
