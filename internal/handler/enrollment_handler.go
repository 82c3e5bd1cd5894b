package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/service"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/response"
)

type enrollmentService interface {
	Create(ctx context.Context, req service.CreateEnrollmentRequest) (int64, error)
	Join(ctx context.Context, studentID string, req service.JoinClassRequest) (int64, error)
}

// EnrollmentHandler exposes enrollment endpoints.
type EnrollmentHandler struct {
	service enrollmentService
}

// NewEnrollmentHandler constructs an enrollment handler.
func NewEnrollmentHandler(svc enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// Create godoc
// @Summary Enroll a student into a class
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateEnrollmentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Failure 409 {object} response.ErrorEnvelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) error {
	var req service.CreateEnrollmentRequest
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

// Join godoc
// @Summary Join a class with its invite code
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.JoinClassRequest true "Invite code"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Failure 409 {object} response.ErrorEnvelope
// @Router /enrollments/join [post]
func (h *EnrollmentHandler) Join(c *gin.Context) error {
	session, ok := middleware.Session(c)
	if !ok {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	var req service.JoinClassRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	id, err := h.service.Join(c.Request.Context(), session.UserID, req)
	if err != nil {
		return err
	}
	response.CreatedID(c, id)
	return nil
}
