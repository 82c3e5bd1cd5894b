package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/pkg/database"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/pagination"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectWithDepartment, int, error)
	FindDetailByID(ctx context.Context, id int64) (*models.SubjectWithDepartment, error)
	Create(ctx context.Context, subject *models.Subject) (int64, error)
}

// CreateSubjectRequest is the subject creation payload.
type CreateSubjectRequest struct {
	DepartmentID NumericID `json:"departmentId" validate:"required,gte=1"`
	Name         string    `json:"name" validate:"required,min=3,max=255"`
	Code         string    `json:"code" validate:"required,min=3,max=50"`
	Description  string    `json:"description" validate:"omitempty,min=5,max=255"`
}

// SubjectService coordinates subject operations.
type SubjectService struct {
	repo      subjectRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs SubjectService.
func NewSubjectService(repo subjectRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns subjects with their department.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectWithDepartment, pagination.Meta, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, filter.Window.Meta(total), nil
}

// Get returns a subject with its department.
func (s *SubjectService) Get(ctx context.Context, id int64) (*models.SubjectWithDepartment, error) {
	subject, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return subject, nil
}

// Create validates and inserts a subject. The code is stored uppercased.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (int64, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Description = strings.TrimSpace(req.Description)
	if err := s.validator.Struct(req); err != nil {
		return 0, validationError(err, "invalid subject payload")
	}

	subject := &models.Subject{
		DepartmentID: int64(req.DepartmentID),
		Code:         req.Code,
		Name:         req.Name,
		Description:  optionalString(req.Description),
	}
	id, err := s.repo.Create(ctx, subject)
	if err != nil {
		switch {
		case database.IsForeignKeyViolation(err):
			return 0, appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "department does not exist")
		case database.IsUniqueViolation(err, ""):
			return 0, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "subject code already exists")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	s.cache.Invalidate(ctx, departmentTotalsPattern)
	s.logger.Info("subject created", zap.Int64("subject_id", id), zap.Int64("department_id", int64(req.DepartmentID)))
	return id, nil
}
