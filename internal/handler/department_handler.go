package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/pkg/pagination"
	"github.com/noah-isme/classroom-api/pkg/response"
)

type departmentService interface {
	List(ctx context.Context, filter models.DepartmentFilter) ([]models.DepartmentListItem, pagination.Meta, error)
	Get(ctx context.Context, id int64) (*models.DepartmentDetail, error)
	Create(ctx context.Context, req service.CreateDepartmentRequest) (int64, error)
	ListSubjects(ctx context.Context, id int64, window pagination.Window) ([]models.Subject, pagination.Meta, error)
	ListClasses(ctx context.Context, id int64, window pagination.Window) ([]models.ClassListItem, pagination.Meta, error)
	ListUsers(ctx context.Context, id int64, role string, window pagination.Window) ([]models.User, pagination.Meta, error)
}

// DepartmentHandler exposes department endpoints.
type DepartmentHandler struct {
	service departmentService
	pages   pagination.Options
}

// NewDepartmentHandler constructs a department handler.
func NewDepartmentHandler(svc departmentService, pages pagination.Options) *DepartmentHandler {
	return &DepartmentHandler{service: svc, pages: pages}
}

// List godoc
// @Summary List departments
// @Tags Departments
// @Produce json
// @Param search query string false "Match on name or code"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *DepartmentHandler) List(c *gin.Context) error {
	filter := models.DepartmentFilter{Search: query(c, "search"), Window: window(c, h.pages)}
	items, meta, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		return err
	}
	response.Page(c, items, meta)
	return nil
}

// Get godoc
// @Summary Get department with totals
// @Tags Departments
// @Produce json
// @Param id path int true "Department ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /departments/{id} [get]
func (h *DepartmentHandler) Get(c *gin.Context) error {
	id, err := pathID(c, "id", "department")
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.OK(c, detail)
	return nil
}

// Create godoc
// @Summary Create department
// @Tags Departments
// @Accept json
// @Produce json
// @Param payload body service.CreateDepartmentRequest true "Department payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Failure 409 {object} response.ErrorEnvelope
// @Router /departments [post]
func (h *DepartmentHandler) Create(c *gin.Context) error {
	var req service.CreateDepartmentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	id, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		return err
	}
	response.CreatedID(c, id)
	return nil
}

// Subjects godoc
// @Summary List subjects of a department
// @Tags Departments
// @Produce json
// @Param id path int true "Department ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /departments/{id}/subjects [get]
func (h *DepartmentHandler) Subjects(c *gin.Context) error {
	id, err := pathID(c, "id", "department")
	if err != nil {
		return err
	}
	subjects, meta, err := h.service.ListSubjects(c.Request.Context(), id, window(c, h.pages))
	if err != nil {
		return err
	}
	response.Page(c, subjects, meta)
	return nil
}

// Classes godoc
// @Summary List classes of a department
// @Tags Departments
// @Produce json
// @Param id path int true "Department ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /departments/{id}/classes [get]
func (h *DepartmentHandler) Classes(c *gin.Context) error {
	id, err := pathID(c, "id", "department")
	if err != nil {
		return err
	}
	classes, meta, err := h.service.ListClasses(c.Request.Context(), id, window(c, h.pages))
	if err != nil {
		return err
	}
	response.Page(c, classes, meta)
	return nil
}

// Users godoc
// @Summary List teachers or students of a department
// @Tags Departments
// @Produce json
// @Param id path int true "Department ID"
// @Param role query string true "teacher or student"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Router /departments/{id}/users [get]
func (h *DepartmentHandler) Users(c *gin.Context) error {
	id, err := pathID(c, "id", "department")
	if err != nil {
		return err
	}
	users, meta, err := h.service.ListUsers(c.Request.Context(), id, query(c, "role"), window(c, h.pages))
	if err != nil {
		return err
	}
	response.Page(c, users, meta)
	return nil
}
