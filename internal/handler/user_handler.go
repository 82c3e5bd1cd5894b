package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/pkg/pagination"
	"github.com/noah-isme/classroom-api/pkg/response"
)

type userService interface {
	List(ctx context.Context, role, search string, window pagination.Window) ([]models.User, pagination.Meta, error)
	Get(ctx context.Context, id string) (*models.User, error)
	ListDepartments(ctx context.Context, id string, window pagination.Window) ([]models.Department, pagination.Meta, error)
	ListSubjects(ctx context.Context, id string, window pagination.Window) ([]models.SubjectWithDepartment, pagination.Meta, error)
}

// UserHandler exposes user endpoints.
type UserHandler struct {
	service userService
	pages   pagination.Options
}

// NewUserHandler constructs a user handler.
func NewUserHandler(svc userService, pages pagination.Options) *UserHandler {
	return &UserHandler{service: svc, pages: pages}
}

// List godoc
// @Summary List users by role
// @Tags Users
// @Produce json
// @Param role query string true "admin, teacher, student or guest"
// @Param search query string false "Match on name or email"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) error {
	users, meta, err := h.service.List(c.Request.Context(), query(c, "role"), query(c, "search"), window(c, h.pages))
	if err != nil {
		return err
	}
	response.Page(c, users, meta)
	return nil
}

// Get godoc
// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) error {
	user, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	response.OK(c, user)
	return nil
}

// Departments godoc
// @Summary List departments a user teaches or studies in
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /users/{id}/departments [get]
func (h *UserHandler) Departments(c *gin.Context) error {
	departments, meta, err := h.service.ListDepartments(c.Request.Context(), c.Param("id"), window(c, h.pages))
	if err != nil {
		return err
	}
	response.Page(c, departments, meta)
	return nil
}

// Subjects godoc
// @Summary List subjects a user teaches or studies
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /users/{id}/subjects [get]
func (h *UserHandler) Subjects(c *gin.Context) error {
	subjects, meta, err := h.service.ListSubjects(c.Request.Context(), c.Param("id"), window(c, h.pages))
	if err != nil {
		return err
	}
	response.Page(c, subjects, meta)
	return nil
}
