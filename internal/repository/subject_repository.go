package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/pkg/pagination"
)

const (
	subjectColumns     = "s.id, s.department_id, s.code, s.name, s.description, s.created_at, s.updated_at"
	subjectWithDeptCol = subjectColumns + ", d.id AS department_ref_id, d.code AS department_code, d.name AS department_name"
)

type subjectRow struct {
	models.Subject
	DepartmentRefID sql.NullInt64  `db:"department_ref_id"`
	DepartmentCode  sql.NullString `db:"department_code"`
	DepartmentName  sql.NullString `db:"department_name"`
}

func (r subjectRow) toModel() models.SubjectWithDepartment {
	out := models.SubjectWithDepartment{Subject: r.Subject}
	if r.DepartmentRefID.Valid {
		out.Department = &models.DepartmentSummary{
			ID:   r.DepartmentRefID.Int64,
			Code: r.DepartmentCode.String,
			Name: r.DepartmentName.String,
		}
	}
	return out
}

func toSubjectsWithDepartment(rows []subjectRow) []models.SubjectWithDepartment {
	out := make([]models.SubjectWithDepartment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out
}

// SubjectRepository manages persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a new subject repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects with their department filtered by search and department name.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectWithDepartment, int, error) {
	from := " FROM subjects s JOIN departments d ON d.id = s.department_id"
	where := newFilter().
		Contains(filter.Search, "s.name", "s.code").
		Contains(filter.Department, "d.name")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+from+where.Where(), where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}

	query := fmt.Sprintf("SELECT %s%s%s ORDER BY s.created_at DESC LIMIT %d OFFSET %d",
		subjectWithDeptCol, from, where.Where(), filter.Window.Limit, filter.Window.Offset())
	var rows []subjectRow
	if err := r.db.SelectContext(ctx, &rows, query, where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}
	return toSubjectsWithDepartment(rows), total, nil
}

// FindDetailByID returns a subject with its department.
func (r *SubjectRepository) FindDetailByID(ctx context.Context, id int64) (*models.SubjectWithDepartment, error) {
	query := "SELECT " + subjectWithDeptCol + " FROM subjects s LEFT JOIN departments d ON d.id = s.department_id WHERE s.id = $1"
	var row subjectRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	subject := row.toModel()
	return &subject, nil
}

// Create inserts a subject and returns its generated id.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) (int64, error) {
	const query = `INSERT INTO subjects (department_id, code, name, description) VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	if err := r.db.QueryRowxContext(ctx, query, subject.DepartmentID, subject.Code, subject.Name, subject.Description).Scan(&id); err != nil {
		return 0, fmt.Errorf("create subject: %w", err)
	}
	subject.ID = id
	return id, nil
}

// ListByUser returns a page of distinct subjects the user teaches or studies.
func (r *SubjectRepository) ListByUser(ctx context.Context, userID string, rel models.Relation, window pagination.Window) ([]models.SubjectWithDepartment, int, error) {
	join, userColumn, err := membershipJoin(rel)
	if err != nil {
		return nil, 0, err
	}
	from := " FROM subjects s JOIN departments d ON d.id = s.department_id JOIN classes c ON c.subject_id = s.id" + join
	where := newFilter().Equals(userColumn, userID)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(DISTINCT s.id)"+from+where.Where(), where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count user subjects: %w", err)
	}

	query := fmt.Sprintf("SELECT %s%s%s GROUP BY s.id, d.id ORDER BY s.created_at DESC LIMIT %d OFFSET %d",
		subjectWithDeptCol, from, where.Where(), window.Limit, window.Offset())
	var rows []subjectRow
	if err := r.db.SelectContext(ctx, &rows, query, where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list user subjects: %w", err)
	}
	return toSubjectsWithDepartment(rows), total, nil
}
