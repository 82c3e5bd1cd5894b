package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/pkg/database"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/pagination"
)

// departmentTotalsPattern matches every cached department totals entry.
const departmentTotalsPattern = "departments:*:totals"

func departmentTotalsKey(id int64) string {
	return fmt.Sprintf("departments:%d:totals", id)
}

type departmentRepository interface {
	List(ctx context.Context, filter models.DepartmentFilter) ([]models.DepartmentListItem, int, error)
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	Create(ctx context.Context, department *models.Department) (int64, error)
	CountSubjects(ctx context.Context, id int64) (int, error)
	CountClasses(ctx context.Context, id int64) (int, error)
	CountUsers(ctx context.Context, id int64, rel models.Relation) (int, error)
	ListSubjects(ctx context.Context, id int64, window pagination.Window) ([]models.Subject, int, error)
	ListClasses(ctx context.Context, id int64, window pagination.Window) ([]models.ClassListItem, int, error)
	ListUsers(ctx context.Context, id int64, rel models.Relation, window pagination.Window) ([]models.User, int, error)
}

// CreateDepartmentRequest is the department creation payload.
type CreateDepartmentRequest struct {
	Code        string `json:"code" validate:"required,min=2,max=50"`
	Name        string `json:"name" validate:"required,min=2,max=255,deptname"`
	Description string `json:"description" validate:"required,min=5,max=255"`
}

// DepartmentService coordinates department reads and writes.
type DepartmentService struct {
	repo      departmentRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDepartmentService constructs DepartmentService. cache and metrics may be nil.
func NewDepartmentService(repo departmentRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DepartmentService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns departments with their subject counts.
func (s *DepartmentService) List(ctx context.Context, filter models.DepartmentFilter) ([]models.DepartmentListItem, pagination.Meta, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return items, filter.Window.Meta(total), nil
}

// Get returns a department with aggregate totals.
func (s *DepartmentService) Get(ctx context.Context, id int64) (*models.DepartmentDetail, error) {
	department, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}

	totals, err := s.totals(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department totals")
	}
	return &models.DepartmentDetail{Department: *department, Totals: totals}, nil
}

// totals runs the four aggregates concurrently; the first failure cancels the rest.
func (s *DepartmentService) totals(ctx context.Context, id int64) (models.DepartmentTotals, error) {
	var totals models.DepartmentTotals
	key := departmentTotalsKey(id)
	if s.cache.Get(ctx, key, &totals) {
		return totals, nil
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals.Subjects, err = s.repo.CountSubjects(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		totals.Classes, err = s.repo.CountClasses(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		totals.EnrolledStudents, err = s.repo.CountUsers(gctx, id, models.RelationStudent)
		return err
	})
	g.Go(func() (err error) {
		totals.Teachers, err = s.repo.CountUsers(gctx, id, models.RelationTeacher)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.DepartmentTotals{}, err
	}
	s.metrics.ObserveDBQuery("department_totals", time.Since(start))

	s.cache.Set(ctx, key, totals, 0)
	return totals, nil
}

// Create validates and inserts a department. The name is stored uppercased.
func (s *DepartmentService) Create(ctx context.Context, req CreateDepartmentRequest) (int64, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := s.validator.Struct(req); err != nil {
		return 0, validationError(err, "invalid department payload")
	}

	department := &models.Department{
		Code:        req.Code,
		Name:        strings.ToUpper(req.Name),
		Description: optionalString(req.Description),
	}
	id, err := s.repo.Create(ctx, department)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return 0, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "department code already exists")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create department")
	}
	s.logger.Info("department created", zap.Int64("department_id", id), zap.String("code", department.Code))
	return id, nil
}

// ListSubjects returns the subjects owned by the department.
func (s *DepartmentService) ListSubjects(ctx context.Context, id int64, window pagination.Window) ([]models.Subject, pagination.Meta, error) {
	subjects, total, err := s.repo.ListSubjects(ctx, id, window)
	if err != nil {
		return nil, pagination.Meta{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department subjects")
	}
	return subjects, window.Meta(total), nil
}

// ListClasses returns the classes taught under the department.
func (s *DepartmentService) ListClasses(ctx context.Context, id int64, window pagination.Window) ([]models.ClassListItem, pagination.Meta, error) {
	classes, total, err := s.repo.ListClasses(ctx, id, window)
	if err != nil {
		return nil, pagination.Meta{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department classes")
	}
	return classes, window.Meta(total), nil
}

// ListUsers returns the teachers or students of the department. Any other
// role is rejected before querying.
func (s *DepartmentService) ListUsers(ctx context.Context, id int64, rawRole string, window pagination.Window) ([]models.User, pagination.Meta, error) {
	role, err := models.ParseUserRole(rawRole)
	if err != nil || role.Relation() == models.RelationNone {
		return nil, pagination.Meta{}, appErrors.Clone(appErrors.ErrInvalidInput, "role must be teacher or student")
	}

	users, total, err := s.repo.ListUsers(ctx, id, role.Relation(), window)
	if err != nil {
		return nil, pagination.Meta{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department users")
	}
	return users, window.Meta(total), nil
}
