package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
	"github.com/noah-isme/classroom-api/pkg/pagination"
	"github.com/noah-isme/classroom-api/pkg/response"
)

type subjectService interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectWithDepartment, pagination.Meta, error)
	Get(ctx context.Context, id int64) (*models.SubjectWithDepartment, error)
	Create(ctx context.Context, req service.CreateSubjectRequest) (int64, error)
}

// SubjectHandler exposes subject endpoints.
type SubjectHandler struct {
	service subjectService
	pages   pagination.Options
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(svc subjectService, pages pagination.Options) *SubjectHandler {
	return &SubjectHandler{service: svc, pages: pages}
}

// List godoc
// @Summary List subjects
// @Tags Subjects
// @Produce json
// @Param search query string false "Match on name or code"
// @Param department query string false "Match on department name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) error {
	filter := models.SubjectFilter{
		Search:     query(c, "search"),
		Department: query(c, "department"),
		Window:     window(c, h.pages),
	}
	subjects, meta, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		return err
	}
	response.Page(c, subjects, meta)
	return nil
}

// Get godoc
// @Summary Get subject
// @Tags Subjects
// @Produce json
// @Param id path int true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) error {
	id, err := pathID(c, "id", "subject")
	if err != nil {
		return err
	}
	subject, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.OK(c, subject)
	return nil
}

// Create godoc
// @Summary Create subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body service.CreateSubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Failure 409 {object} response.ErrorEnvelope
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) error {
	var req service.CreateSubjectRequest
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
