package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/pagination"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type userDepartmentRepository interface {
	ListByUser(ctx context.Context, userID string, rel models.Relation, window pagination.Window) ([]models.Department, int, error)
}

type userSubjectRepository interface {
	ListByUser(ctx context.Context, userID string, rel models.Relation, window pagination.Window) ([]models.SubjectWithDepartment, int, error)
}

// UserService exposes read access to users and their class relations.
type UserService struct {
	repo        userRepository
	departments userDepartmentRepository
	subjects    userSubjectRepository
	logger      *zap.Logger
}

// NewUserService constructs UserService.
func NewUserService(repo userRepository, departments userDepartmentRepository, subjects userSubjectRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, departments: departments, subjects: subjects, logger: logger}
}

// List returns users of one role. The role is mandatory.
func (s *UserService) List(ctx context.Context, rawRole, search string, window pagination.Window) ([]models.User, pagination.Meta, error) {
	if strings.TrimSpace(rawRole) == "" {
		return nil, pagination.Meta{}, appErrors.Clone(appErrors.ErrInvalidInput, "role is required")
	}
	role, err := models.ParseUserRole(rawRole)
	if err != nil {
		return nil, pagination.Meta{}, appErrors.Clone(appErrors.ErrInvalidInput, "role must be one of admin, teacher, student, guest")
	}

	users, total, err := s.repo.List(ctx, models.UserFilter{Role: role, Search: search, Window: window})
	if err != nil {
		return nil, pagination.Meta{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, window.Meta(total), nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// ListDepartments returns the departments the user teaches or studies in.
func (s *UserService) ListDepartments(ctx context.Context, id string, window pagination.Window) ([]models.Department, pagination.Meta, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	switch rel := user.Role.Relation(); rel {
	case models.RelationNone:
		return []models.Department{}, window.Meta(0), nil
	case models.RelationTeacher, models.RelationStudent:
		departments, total, err := s.departments.ListByUser(ctx, user.ID, rel, window)
		if err != nil {
			return nil, pagination.Meta{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list user departments")
		}
		return departments, window.Meta(total), nil
	default:
		return nil, pagination.Meta{}, appErrors.Clone(appErrors.ErrInternal, "unhandled user relation")
	}
}

// ListSubjects returns the subjects the user teaches or studies.
func (s *UserService) ListSubjects(ctx context.Context, id string, window pagination.Window) ([]models.SubjectWithDepartment, pagination.Meta, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	switch rel := user.Role.Relation(); rel {
	case models.RelationNone:
		return []models.SubjectWithDepartment{}, window.Meta(0), nil
	case models.RelationTeacher, models.RelationStudent:
		subjects, total, err := s.subjects.ListByUser(ctx, user.ID, rel, window)
		if err != nil {
			return nil, pagination.Meta{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list user subjects")
		}
		return subjects, window.Meta(total), nil
	default:
		return nil, pagination.Meta{}, appErrors.Clone(appErrors.ErrInternal, "unhandled user relation")
	}
}
