package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/pkg/pagination"
)

const departmentColumns = "d.id, d.code, d.name, d.description, d.created_at, d.updated_at"

// DepartmentRepository manages persistence for departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs a new department repository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// List returns departments matching the search with their subject counts.
func (r *DepartmentRepository) List(ctx context.Context, filter models.DepartmentFilter) ([]models.DepartmentListItem, int, error) {
	where := newFilter().Contains(filter.Search, "d.name", "d.code")

	var total int
	countQuery := "SELECT COUNT(*) FROM departments d" + where.Where()
	if err := r.db.GetContext(ctx, &total, countQuery, where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count departments: %w", err)
	}

	query := fmt.Sprintf("SELECT %s, COUNT(s.id) AS total_subjects FROM departments d LEFT JOIN subjects s ON s.department_id = d.id%s GROUP BY d.id ORDER BY d.created_at DESC LIMIT %d OFFSET %d",
		departmentColumns, where.Where(), filter.Window.Limit, filter.Window.Offset())
	items := []models.DepartmentListItem{}
	if err := r.db.SelectContext(ctx, &items, query, where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list departments: %w", err)
	}
	return items, total, nil
}

// FindByID returns a department by id.
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	query := "SELECT " + departmentColumns + " FROM departments d WHERE d.id = $1"
	var department models.Department
	if err := r.db.GetContext(ctx, &department, query, id); err != nil {
		return nil, err
	}
	return &department, nil
}

// Create inserts a department and returns its generated id.
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) (int64, error) {
	const query = `INSERT INTO departments (code, name, description) VALUES ($1, $2, $3) RETURNING id`
	var id int64
	if err := r.db.QueryRowxContext(ctx, query, department.Code, department.Name, department.Description).Scan(&id); err != nil {
		return 0, fmt.Errorf("create department: %w", err)
	}
	department.ID = id
	return id, nil
}

// CountSubjects returns the number of subjects owned by the department.
func (r *DepartmentRepository) CountSubjects(ctx context.Context, id int64) (int, error) {
	const query = `SELECT COUNT(*) FROM subjects WHERE department_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count department subjects: %w", err)
	}
	return count, nil
}

// CountClasses returns the number of classes under the department's subjects.
func (r *DepartmentRepository) CountClasses(ctx context.Context, id int64) (int, error) {
	const query = `SELECT COUNT(c.id) FROM classes c JOIN subjects s ON s.id = c.subject_id WHERE s.department_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count department classes: %w", err)
	}
	return count, nil
}

// CountUsers returns the distinct users related to the department through rel.
func (r *DepartmentRepository) CountUsers(ctx context.Context, id int64, rel models.Relation) (int, error) {
	from, where, err := departmentUsersFrom(id, rel)
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(DISTINCT u.id)"+from+where.Where(), where.Args()...); err != nil {
		return 0, fmt.Errorf("count department %ss: %w", rel, err)
	}
	return count, nil
}

// ListSubjects returns a page of subjects owned by the department.
func (r *DepartmentRepository) ListSubjects(ctx context.Context, id int64, window pagination.Window) ([]models.Subject, int, error) {
	total, err := r.CountSubjects(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM subjects s WHERE s.department_id = $1 ORDER BY s.created_at DESC LIMIT %d OFFSET %d",
		subjectColumns, window.Limit, window.Offset())
	subjects := []models.Subject{}
	if err := r.db.SelectContext(ctx, &subjects, query, id); err != nil {
		return nil, 0, fmt.Errorf("list department subjects: %w", err)
	}
	return subjects, total, nil
}

// ListClasses returns a page of classes under the department with subject and teacher.
func (r *DepartmentRepository) ListClasses(ctx context.Context, id int64, window pagination.Window) ([]models.ClassListItem, int, error) {
	total, err := r.CountClasses(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM classes c JOIN subjects s ON s.id = c.subject_id LEFT JOIN users u ON u.id = c.teacher_id WHERE s.department_id = $1 ORDER BY c.created_at DESC LIMIT %d OFFSET %d",
		classListColumns, window.Limit, window.Offset())
	var rows []classRow
	if err := r.db.SelectContext(ctx, &rows, query, id); err != nil {
		return nil, 0, fmt.Errorf("list department classes: %w", err)
	}
	return toClassListItems(rows), total, nil
}

// ListUsers returns a page of distinct users related to the department through rel.
func (r *DepartmentRepository) ListUsers(ctx context.Context, id int64, rel models.Relation, window pagination.Window) ([]models.User, int, error) {
	total, err := r.CountUsers(ctx, id, rel)
	if err != nil {
		return nil, 0, err
	}

	from, where, err := departmentUsersFrom(id, rel)
	if err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf("SELECT %s%s%s GROUP BY u.id ORDER BY u.created_at DESC LIMIT %d OFFSET %d",
		userColumns, from, where.Where(), window.Limit, window.Offset())
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, query, where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list department %ss: %w", rel, err)
	}
	return users, total, nil
}

// ListByUser returns a page of distinct departments the user teaches or studies in.
func (r *DepartmentRepository) ListByUser(ctx context.Context, userID string, rel models.Relation, window pagination.Window) ([]models.Department, int, error) {
	join, userColumn, err := membershipJoin(rel)
	if err != nil {
		return nil, 0, err
	}
	from := " FROM departments d JOIN subjects s ON s.department_id = d.id JOIN classes c ON c.subject_id = s.id" + join
	where := newFilter().Equals(userColumn, userID)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(DISTINCT d.id)"+from+where.Where(), where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count user departments: %w", err)
	}

	query := fmt.Sprintf("SELECT %s%s%s GROUP BY d.id ORDER BY d.created_at DESC LIMIT %d OFFSET %d",
		departmentColumns, from, where.Where(), window.Limit, window.Offset())
	departments := []models.Department{}
	if err := r.db.SelectContext(ctx, &departments, query, where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list user departments: %w", err)
	}
	return departments, total, nil
}

func departmentUsersFrom(id int64, rel models.Relation) (string, *filter, error) {
	join, userColumn, err := membershipJoin(rel)
	if err != nil {
		return "", nil, err
	}
	from := " FROM subjects s JOIN classes c ON c.subject_id = s.id" + join + " JOIN users u ON u.id = " + userColumn
	where := newFilter().Equals("s.department_id", id).Equals("u.role", string(roleForRelation(rel)))
	return from, where, nil
}
