package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campuskit/timetable-api/internal/dto"
	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns teachers joined with their department names.
func (r *TeacherRepository) List(ctx context.Context) ([]dto.TeacherDetail, error) {
	const query = `SELECT t.teacher_id, t.department_id, d.name AS department_name, t.name
		FROM teachers t
		JOIN departments d ON d.department_id = t.department_id
		ORDER BY t.name ASC`
	var teachers []dto.TeacherDetail
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// Exists checks whether a teacher id resolves.
func (r *TeacherRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM teachers WHERE teacher_id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teacher: %w", err)
	}
	return true, nil
}

// ExistsByName checks for a prior teacher with the same name in the
// department.
func (r *TeacherRepository) ExistsByName(ctx context.Context, departmentID int64, name string) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one,
		`SELECT 1 FROM teachers WHERE department_id = $1 AND LOWER(name) = LOWER($2) LIMIT 1`,
		departmentID, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teacher name: %w", err)
	}
	return true, nil
}

// Create inserts a new teacher record.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	teacher.UpdatedAt = now

	const query = `INSERT INTO teachers (department_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4) RETURNING teacher_id`
	err := r.db.QueryRowxContext(ctx, query, teacher.DepartmentID, teacher.Name, teacher.CreatedAt, teacher.UpdatedAt).Scan(&teacher.ID)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return appErrors.Clone(appErrors.ErrConflict, "teacher already exists in this department")
		}
		if foreignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}
