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
)

type enrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment, capacity int) (int64, error)
	CountByClass(ctx context.Context, classID int64) (int, error)
	Exists(ctx context.Context, studentID string, classID int64) (bool, error)
}

type enrollmentClassLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	FindByInviteCode(ctx context.Context, code string) (*models.Class, error)
}

type enrollmentUserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CreateEnrollmentRequest enrolls a named student into a class.
type CreateEnrollmentRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	ClassID   int64  `json:"classId" validate:"required,gte=1"`
}

// JoinClassRequest enrolls the caller through an invite code.
type JoinClassRequest struct {
	InviteCode string `json:"inviteCode" validate:"required,len=8"`
}

// EnrollmentService places students into classes.
type EnrollmentService struct {
	repo      enrollmentRepository
	classes   enrollmentClassLookup
	users     enrollmentUserLookup
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, classes enrollmentClassLookup, users enrollmentUserLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, classes: classes, users: users, cache: cache, validator: validate, logger: logger}
}

// Create enrolls req.StudentID into req.ClassID.
func (s *EnrollmentService) Create(ctx context.Context, req CreateEnrollmentRequest) (int64, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	if err := s.validator.Struct(req); err != nil {
		return 0, validationError(err, "invalid enrollment payload")
	}

	class, err := s.classes.FindByID(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return s.enroll(ctx, req.StudentID, class)
}

// Join enrolls studentID into the class that owns the invite code.
func (s *EnrollmentService) Join(ctx context.Context, studentID string, req JoinClassRequest) (int64, error) {
	req.InviteCode = strings.ToUpper(strings.TrimSpace(req.InviteCode))
	if err := s.validator.Struct(req); err != nil {
		return 0, validationError(err, "invalid join payload")
	}

	class, err := s.classes.FindByInviteCode(ctx, req.InviteCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return s.enroll(ctx, studentID, class)
}

func (s *EnrollmentService) enroll(ctx context.Context, studentID string, class *models.Class) (int64, error) {
	if class.Status != models.ClassStatusActive {
		return 0, appErrors.Clone(appErrors.ErrConflict, "class is not accepting enrollments")
	}

	student, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrInvalidInput, "student does not exist")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.Role != models.RoleStudent {
		return 0, appErrors.Clone(appErrors.ErrInvalidInput, "only students can be enrolled")
	}

	exists, err := s.repo.Exists(ctx, student.ID, class.ID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if exists {
		return 0, appErrors.Clone(appErrors.ErrConflict, "student is already enrolled")
	}

	count, err := s.repo.CountByClass(ctx, class.ID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}
	if count >= class.Capacity {
		return 0, appErrors.Clone(appErrors.ErrConflict, "class is full")
	}

	id, err := s.repo.Create(ctx, &models.Enrollment{StudentID: student.ID, ClassID: class.ID}, class.Capacity)
	if err != nil {
		if errors.Is(err, models.ErrClassFull) {
			return 0, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "class is full")
		}
		if database.IsUniqueViolation(err, "") {
			return 0, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "student is already enrolled")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	s.cache.Invalidate(ctx, departmentTotalsPattern)
	s.logger.Info("student enrolled", zap.Int64("class_id", class.ID), zap.String("student_id", student.ID))
	return id, nil
}
