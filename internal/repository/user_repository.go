package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

const userColumns = "u.id, u.name, u.email, u.role, u.image, u.image_cld_pub_id, u.created_at, u.updated_at"

// UserRepository reads users owned by the auth service.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// List returns users with the given role matching the search on name or email.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	where := newFilter().
		Equals("u.role", string(filter.Role)).
		Contains(filter.Search, "u.name", "u.email")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users u"+where.Where(), where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM users u%s ORDER BY u.created_at DESC LIMIT %d OFFSET %d",
		userColumns, where.Where(), filter.Window.Limit, filter.Window.Offset())
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query, where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// FindByID fetches a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users u WHERE u.id = $1"
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListClassStudents returns a page of students enrolled in the class.
func (r *UserRepository) ListClassStudents(ctx context.Context, classID int64, filter models.RosterFilter) ([]models.User, int, error) {
	from, where := classStudentsFrom(classID, filter.Search)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+from+where.Where(), where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count class students: %w", err)
	}

	query := fmt.Sprintf("SELECT %s%s%s ORDER BY u.created_at DESC LIMIT %d OFFSET %d",
		userColumns, from, where.Where(), filter.Window.Limit, filter.Window.Offset())
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query, where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list class students: %w", err)
	}
	return users, total, nil
}

// ExportClassStudents returns the complete roster ordered by name.
func (r *UserRepository) ExportClassStudents(ctx context.Context, classID int64) ([]models.User, error) {
	from, where := classStudentsFrom(classID, "")
	query := "SELECT " + userColumns + from + where.Where() + " ORDER BY u.name ASC"
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query, where.Args()...); err != nil {
		return nil, fmt.Errorf("export class students: %w", err)
	}
	return users, nil
}

func classStudentsFrom(classID int64, search string) (string, *filter) {
	from := " FROM users u JOIN enrollments e ON e.student_id = u.id"
	where := newFilter().
		Equals("e.class_id", classID).
		Equals("u.role", string(models.RoleStudent)).
		Contains(search, "u.name", "u.email")
	return from, where
}
