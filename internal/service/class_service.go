package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/pkg/database"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/export"
	"github.com/noah-isme/classroom-api/pkg/pagination"
)

const (
	inviteCodeConstraint = "classes_invite_code_key"
	defaultClassCapacity = 50
)

type classRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.ClassListItem, int, error)
	FindDetailByID(ctx context.Context, id int64) (*models.ClassDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) (int64, error)
}

type rosterRepository interface {
	ListClassStudents(ctx context.Context, classID int64, filter models.RosterFilter) ([]models.User, int, error)
	ExportClassStudents(ctx context.Context, classID int64) ([]models.User, error)
}

// CreateClassRequest is the class creation payload.
type CreateClassRequest struct {
	Name           string `json:"name" validate:"required,min=3,max=255"`
	TeacherID      string `json:"teacherId" validate:"required"`
	SubjectID      int64  `json:"subjectId" validate:"required,gte=1"`
	Capacity       *int   `json:"capacity" validate:"required,gte=1"`
	Description    string `json:"description"`
	Status         string `json:"status" validate:"omitempty,oneof=active archived"`
	BannerURL      string `json:"bannerUrl" validate:"omitempty,url"`
	BannerCldPubID string `json:"bannerCldPubId"`
}

// ClassService coordinates class operations.
type ClassService struct {
	repo       classRepository
	roster     rosterRepository
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	retries    int
	inviteCode func() (string, error)
}

// NewClassService constructs ClassService. retries bounds how many times an
// insert is repeated with a fresh invite code after a collision.
func NewClassService(repo classRepository, roster rosterRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, retries int) *ClassService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if retries < 0 {
		retries = 0
	}
	return &ClassService{
		repo:       repo,
		roster:     roster,
		cache:      cache,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		retries:    retries,
		inviteCode: generateInviteCode,
	}
}

// List returns classes with subject and teacher.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassListItem, pagination.Meta, error) {
	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, filter.Window.Meta(total), nil
}

// Get returns detailed class information.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.ClassDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return detail, nil
}

// Create validates and inserts a class with a server generated invite code.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (int64, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.TeacherID = strings.TrimSpace(req.TeacherID)
	req.BannerURL = strings.TrimSpace(req.BannerURL)
	if req.Capacity == nil {
		capacity := defaultClassCapacity
		req.Capacity = &capacity
	}
	// unknown values are left as sent for the oneof rule to report
	status := models.ClassStatusActive
	if parsed, err := models.ParseClassStatus(req.Status); err == nil {
		status = parsed
		req.Status = string(parsed)
	}
	if err := s.validator.Struct(req); err != nil {
		return 0, validationError(err, "invalid class payload")
	}

	subjectID := req.SubjectID
	teacherID := req.TeacherID
	class := &models.Class{
		SubjectID:      &subjectID,
		TeacherID:      &teacherID,
		Name:           req.Name,
		BannerURL:      optionalString(req.BannerURL),
		BannerCldPubID: optionalString(req.BannerCldPubID),
		Capacity:       *req.Capacity,
		Description:    optionalString(req.Description),
		Status:         status,
		Schedules:      models.Schedules{},
	}

	for attempt := 0; ; attempt++ {
		code, err := s.inviteCode()
		if err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate invite code")
		}
		class.InviteCode = code

		id, err := s.repo.Create(ctx, class)
		if err == nil {
			s.cache.Invalidate(ctx, departmentTotalsPattern)
			s.logger.Info("class created", zap.Int64("class_id", id), zap.String("invite_code", code))
			return id, nil
		}

		switch {
		case database.IsUniqueViolation(err, inviteCodeConstraint):
			if attempt < s.retries {
				s.metrics.RecordInviteCodeCollision()
				s.logger.Warn("invite code collision, retrying", zap.Int("attempt", attempt+1))
				continue
			}
			return 0, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "could not allocate a unique invite code")
		case database.IsUniqueViolation(err, ""):
			return 0, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "class already exists")
		case database.IsForeignKeyViolation(err):
			return 0, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "subject or teacher does not exist")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
}

// ListUsers returns the class roster. Only the student role has a roster.
func (s *ClassService) ListUsers(ctx context.Context, classID int64, rawRole string, filter models.RosterFilter) ([]models.User, pagination.Meta, error) {
	role, err := models.ParseUserRole(rawRole)
	if err != nil || role != models.RoleStudent {
		return nil, pagination.Meta{}, appErrors.Clone(appErrors.ErrInvalidInput, "role must be student")
	}

	users, total, err := s.roster.ListClassStudents(ctx, classID, filter)
	if err != nil {
		return nil, pagination.Meta{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class users")
	}
	return users, filter.Window.Meta(total), nil
}

// ExportUsers renders the full class roster in format.
func (s *ClassService) ExportUsers(ctx context.Context, classID int64, format export.Format) (*export.File, error) {
	class, err := s.repo.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	users, err := s.roster.ExportClassStudents(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class roster")
	}

	table := export.Table{
		Title:   fmt.Sprintf("%s (%s)", class.Name, class.InviteCode),
		Headers: []string{"No", "Name", "Email", "Registered"},
		Rows:    make([][]string, 0, len(users)),
	}
	for i, user := range users {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("%d", i+1),
			user.Name,
			user.Email,
			user.CreatedAt.Format("2006-01-02"),
		})
	}

	file, err := export.Render(format, fmt.Sprintf("class-%d-students", classID), table)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}
	return file, nil
}
