package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

type fakeEnrollmentRepo struct {
	count   int
	exists  bool
	// seated counts rows the insert sees, which may differ from count
	// when another request commits in between.
	seated  *int
	created []models.Enrollment
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment, capacity int) (int64, error) {
	if f.seated != nil && *f.seated >= capacity {
		return 0, models.ErrClassFull
	}
	f.created = append(f.created, *enrollment)
	return int64(len(f.created)), nil
}

func (f *fakeEnrollmentRepo) CountByClass(ctx context.Context, classID int64) (int, error) {
	return f.count, nil
}

func (f *fakeEnrollmentRepo) Exists(ctx context.Context, studentID string, classID int64) (bool, error) {
	return f.exists, nil
}

func newEnrollmentFixture(class models.Class) (*EnrollmentService, *fakeEnrollmentRepo, *memoryCacheRepo) {
	classes := &fakeClassRepo{classes: map[int64]models.Class{class.ID: class}}
	users := &fakeUserRepo{users: map[string]models.User{
		"s1": {ID: "s1", Role: models.RoleStudent},
		"t1": {ID: "t1", Role: models.RoleTeacher},
	}}
	repo := &fakeEnrollmentRepo{}
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, true)
	return NewEnrollmentService(repo, classes, users, cache, nil, nil), repo, cacheRepo
}

func activeClass() models.Class {
	return models.Class{ID: 3, InviteCode: "ABCD2345", Capacity: 2, Status: models.ClassStatusActive}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	return appErr.Status
}

func TestEnrollmentCreateInvalidatesTotals(t *testing.T) {
	svc, repo, cacheRepo := newEnrollmentFixture(activeClass())
	cacheRepo.entries["departments:1:totals"] = []byte(`{}`)

	id, err := svc.Create(context.Background(), CreateEnrollmentRequest{StudentID: "s1", ClassID: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, models.Enrollment{StudentID: "s1", ClassID: 3}, repo.created[0])
	assert.Empty(t, cacheRepo.entries)
}

func TestEnrollmentJoinByInviteCode(t *testing.T) {
	svc, repo, _ := newEnrollmentFixture(activeClass())

	_, err := svc.Join(context.Background(), "s1", JoinClassRequest{InviteCode: " abcd2345 "})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, int64(3), repo.created[0].ClassID)

	_, err = svc.Join(context.Background(), "s1", JoinClassRequest{InviteCode: "ZZZZZZZZ"})
	assert.Equal(t, 404, statusOf(t, err))

	_, err = svc.Join(context.Background(), "s1", JoinClassRequest{InviteCode: "short"})
	assert.Equal(t, 400, statusOf(t, err))
}

func TestEnrollmentCreateFullAtInsert(t *testing.T) {
	svc, repo, _ := newEnrollmentFixture(activeClass())
	seated := 2
	repo.seated = &seated

	_, err := svc.Create(context.Background(), CreateEnrollmentRequest{StudentID: "s1", ClassID: 3})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "class is full", appErr.Message)
	assert.Empty(t, repo.created)
}

func TestEnrollmentRejections(t *testing.T) {
	ctx := context.Background()

	archived := activeClass()
	archived.Status = models.ClassStatusArchived
	svc, _, _ := newEnrollmentFixture(archived)
	_, err := svc.Create(ctx, CreateEnrollmentRequest{StudentID: "s1", ClassID: 3})
	assert.Equal(t, 409, statusOf(t, err))

	svc, _, _ = newEnrollmentFixture(activeClass())
	_, err = svc.Create(ctx, CreateEnrollmentRequest{StudentID: "t1", ClassID: 3})
	assert.Equal(t, 400, statusOf(t, err))

	_, err = svc.Create(ctx, CreateEnrollmentRequest{StudentID: "ghost", ClassID: 3})
	assert.Equal(t, 400, statusOf(t, err))

	_, err = svc.Create(ctx, CreateEnrollmentRequest{StudentID: "s1", ClassID: 9})
	assert.Equal(t, 404, statusOf(t, err))

	svc, repo, _ := newEnrollmentFixture(activeClass())
	repo.count = 2
	_, err = svc.Create(ctx, CreateEnrollmentRequest{StudentID: "s1", ClassID: 3})
	assert.Equal(t, 409, statusOf(t, err))

	svc, repo, _ = newEnrollmentFixture(activeClass())
	repo.exists = true
	_, err = svc.Create(ctx, CreateEnrollmentRequest{StudentID: "s1", ClassID: 3})
	assert.Equal(t, 409, statusOf(t, err))
	assert.Empty(t, repo.created)
}
