package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/export"
	"github.com/noah-isme/classroom-api/pkg/pagination"
	"github.com/noah-isme/classroom-api/pkg/response"
)

type classService interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.ClassListItem, pagination.Meta, error)
	Get(ctx context.Context, id int64) (*models.ClassDetail, error)
	Create(ctx context.Context, req service.CreateClassRequest) (int64, error)
	ListUsers(ctx context.Context, classID int64, role string, filter models.RosterFilter) ([]models.User, pagination.Meta, error)
	ExportUsers(ctx context.Context, classID int64, format export.Format) (*export.File, error)
}

// ClassHandler exposes class endpoints.
type ClassHandler struct {
	service classService
	pages   pagination.Options
}

// NewClassHandler constructs a class handler.
func NewClassHandler(svc classService, pages pagination.Options) *ClassHandler {
	return &ClassHandler{service: svc, pages: pages}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Param search query string false "Match on class name or invite code"
// @Param subject query string false "Match on subject name"
// @Param teacher query string false "Match on teacher name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) error {
	filter := models.ClassFilter{
		Search:  query(c, "search"),
		Subject: query(c, "subject"),
		Teacher: query(c, "teacher"),
		Window:  window(c, h.pages),
	}
	classes, meta, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		return err
	}
	response.Page(c, classes, meta)
	return nil
}

// Get godoc
// @Summary Get class detail
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) error {
	id, err := pathID(c, "id", "class")
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
// @Summary Create class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body service.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Failure 409 {object} response.ErrorEnvelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) error {
	var req service.CreateClassRequest
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

// Users godoc
// @Summary List students enrolled in a class
// @Tags Classes
// @Produce json
// @Param id path int true "Class ID"
// @Param role query string true "Must be student"
// @Param search query string false "Match on name or email"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Router /classes/{id}/users [get]
func (h *ClassHandler) Users(c *gin.Context) error {
	id, err := pathID(c, "id", "class")
	if err != nil {
		return err
	}
	filter := models.RosterFilter{Search: query(c, "search"), Window: window(c, h.pages)}
	users, meta, err := h.service.ListUsers(c.Request.Context(), id, query(c, "role"), filter)
	if err != nil {
		return err
	}
	response.Page(c, users, meta)
	return nil
}

// ExportUsers godoc
// @Summary Download the class roster
// @Tags Classes
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Class ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 404 {object} response.ErrorEnvelope
// @Router /classes/{id}/users/export [get]
func (h *ClassHandler) ExportUsers(c *gin.Context) error {
	id, err := pathID(c, "id", "class")
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(query(c, "format"))
	if err != nil {
		return appErrors.Clone(appErrors.ErrInvalidInput, "format must be csv or pdf")
	}
	file, err := h.service.ExportUsers(c.Request.Context(), id, format)
	if err != nil {
		return err
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
	return nil
}
