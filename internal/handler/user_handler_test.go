package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/pagination"
)

type userServiceStub struct {
	role   string
	search string
	id     string
}

func (s *userServiceStub) List(ctx context.Context, role, search string, window pagination.Window) ([]models.User, pagination.Meta, error) {
	s.role, s.search = role, search
	if role == "" {
		return nil, pagination.Meta{}, appErrors.Clone(appErrors.ErrInvalidInput, "role is required")
	}
	return []models.User{{ID: "u-1", Name: "Ann", Role: models.RoleTeacher}}, window.Meta(1), nil
}

func (s *userServiceStub) Get(ctx context.Context, id string) (*models.User, error) {
	s.id = id
	return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
}

func (s *userServiceStub) ListDepartments(ctx context.Context, id string, window pagination.Window) ([]models.Department, pagination.Meta, error) {
	s.id = id
	return []models.Department{}, window.Meta(0), nil
}

func (s *userServiceStub) ListSubjects(ctx context.Context, id string, window pagination.Window) ([]models.SubjectWithDepartment, pagination.Meta, error) {
	s.id = id
	return []models.SubjectWithDepartment{}, window.Meta(0), nil
}

func TestUserHandlerListRequiresRole(t *testing.T) {
	h := NewUserHandler(&userServiceStub{}, pagination.Options{})

	w, env := serve(t, http.MethodGet, "/users", "/users", nil, h.List)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "role is required", env.Message)
}

func TestUserHandlerList(t *testing.T) {
	stub := &userServiceStub{}
	h := NewUserHandler(stub, pagination.Options{})

	w, env := serve(t, http.MethodGet, "/users", "/users?role=teacher&search=an", nil, h.List)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "teacher", stub.role)
	assert.Equal(t, "an", stub.search)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.TotalPages)
}

func TestUserHandlerGetNotFound(t *testing.T) {
	stub := &userServiceStub{}
	h := NewUserHandler(stub, pagination.Options{})

	w, _ := serve(t, http.MethodGet, "/users/:id", "/users/u-404", nil, h.Get)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "u-404", stub.id)
}

func TestUserHandlerRelations(t *testing.T) {
	stub := &userServiceStub{}
	h := NewUserHandler(stub, pagination.Options{})

	w, _ := serve(t, http.MethodGet, "/users/:id/departments", "/users/u-2/departments", nil, h.Departments)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-2", stub.id)

	w, _ = serve(t, http.MethodGet, "/users/:id/subjects", "/users/u-3/subjects", nil, h.Subjects)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-3", stub.id)
}
