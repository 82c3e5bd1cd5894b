package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

const (
	classColumns     = "c.id, c.subject_id, c.teacher_id, c.invite_code, c.name, c.banner_cld_pub_id, c.banner_url, c.capacity, c.description, c.status, c.schedules, c.created_at, c.updated_at"
	classListColumns = classColumns + ", s.id AS subject_ref_id, s.name AS subject_name, s.code AS subject_code, u.id AS teacher_ref_id, u.name AS teacher_name, u.email AS teacher_email, u.image AS teacher_image"
	classDetailCols  = classListColumns + ", d.id AS department_ref_id, d.code AS department_code, d.name AS department_name"
	classListFrom    = " FROM classes c LEFT JOIN subjects s ON s.id = c.subject_id LEFT JOIN users u ON u.id = c.teacher_id"
)

// classRow flattens the optional subject, teacher and department joins.
type classRow struct {
	models.Class
	SubjectRefID    sql.NullInt64  `db:"subject_ref_id"`
	SubjectName     sql.NullString `db:"subject_name"`
	SubjectCode     sql.NullString `db:"subject_code"`
	TeacherRefID    sql.NullString `db:"teacher_ref_id"`
	TeacherName     sql.NullString `db:"teacher_name"`
	TeacherEmail    sql.NullString `db:"teacher_email"`
	TeacherImage    sql.NullString `db:"teacher_image"`
	DepartmentRefID sql.NullInt64  `db:"department_ref_id"`
	DepartmentCode  sql.NullString `db:"department_code"`
	DepartmentName  sql.NullString `db:"department_name"`
}

func (r classRow) subject() *models.SubjectSummary {
	if !r.SubjectRefID.Valid {
		return nil
	}
	return &models.SubjectSummary{ID: r.SubjectRefID.Int64, Name: r.SubjectName.String, Code: r.SubjectCode.String}
}

func (r classRow) teacher() *models.UserSummary {
	if !r.TeacherRefID.Valid {
		return nil
	}
	teacher := &models.UserSummary{ID: r.TeacherRefID.String, Name: r.TeacherName.String, Email: r.TeacherEmail.String}
	if r.TeacherImage.Valid {
		image := r.TeacherImage.String
		teacher.Image = &image
	}
	return teacher
}

func (r classRow) department() *models.DepartmentSummary {
	if !r.DepartmentRefID.Valid {
		return nil
	}
	return &models.DepartmentSummary{ID: r.DepartmentRefID.Int64, Code: r.DepartmentCode.String, Name: r.DepartmentName.String}
}

func toClassListItems(rows []classRow) []models.ClassListItem {
	items := make([]models.ClassListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.ClassListItem{Class: row.Class, Subject: row.subject(), Teacher: row.teacher()})
	}
	return items
}

// ClassRepository manages persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes with subject and teacher. Search matches the class
// name or invite code; subject and teacher match on their names.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassListItem, int, error) {
	where := newFilter().
		Contains(filter.Search, "c.name", "c.invite_code").
		Contains(filter.Subject, "s.name").
		Contains(filter.Teacher, "u.name")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+classListFrom+where.Where(), where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}

	query := fmt.Sprintf("SELECT %s%s%s ORDER BY c.created_at DESC LIMIT %d OFFSET %d",
		classListColumns, classListFrom, where.Where(), filter.Window.Limit, filter.Window.Offset())
	var rows []classRow
	if err := r.db.SelectContext(ctx, &rows, query, where.Args()...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}
	return toClassListItems(rows), total, nil
}

// FindDetailByID returns a class with subject, department and teacher.
func (r *ClassRepository) FindDetailByID(ctx context.Context, id int64) (*models.ClassDetail, error) {
	query := "SELECT " + classDetailCols + classListFrom + " LEFT JOIN departments d ON d.id = s.department_id WHERE c.id = $1"
	var row classRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return &models.ClassDetail{
		Class:      row.Class,
		Subject:    row.subject(),
		Department: row.department(),
		Teacher:    row.teacher(),
	}, nil
}

// FindByID returns the bare class row.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	query := "SELECT " + classColumns + " FROM classes c WHERE c.id = $1"
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindByInviteCode returns the class carrying the invite code.
func (r *ClassRepository) FindByInviteCode(ctx context.Context, code string) (*models.Class, error) {
	query := "SELECT " + classColumns + " FROM classes c WHERE c.invite_code = $1"
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, code); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a class and returns its generated id.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) (int64, error) {
	const query = `INSERT INTO classes (subject_id, teacher_id, invite_code, name, banner_cld_pub_id, banner_url, capacity, description, status, schedules)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		class.SubjectID, class.TeacherID, class.InviteCode, class.Name, class.BannerCldPubID,
		class.BannerURL, class.Capacity, class.Description, class.Status, class.Schedules,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create class: %w", err)
	}
	class.ID = id
	return id, nil
}
