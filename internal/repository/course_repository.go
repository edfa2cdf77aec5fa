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

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses joined with their department names.
func (r *CourseRepository) List(ctx context.Context) ([]dto.CourseDetail, error) {
	const query = `SELECT c.course_id, c.department_id, d.name AS department_name, c.name, c.code, c.duration_years
		FROM courses c
		JOIN departments d ON d.department_id = c.department_id
		ORDER BY c.code ASC`
	var courses []dto.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// Exists checks whether a course id resolves.
func (r *CourseRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM courses WHERE course_id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course: %w", err)
	}
	return true, nil
}

// ExistsByCode checks for a prior course with the same code anywhere.
// Course codes are globally unique across departments.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM courses WHERE LOWER(code) = LOWER($1) LIMIT 1`, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course code: %w", err)
	}
	return true, nil
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO courses (department_id, name, code, duration_years, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING course_id`
	err := r.db.QueryRowxContext(ctx, query,
		course.DepartmentID, course.Name, course.Code, course.DurationYears, course.CreatedAt, course.UpdatedAt,
	).Scan(&course.ID)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return appErrors.Clone(appErrors.ErrConflict, "course code already exists")
		}
		if foreignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// DeleteCascade removes a course and its sections, subjects and dependent
// rows within one transaction.
func (r *CourseRepository) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete course: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Timetable rows must go first, both by section and by pairing: a section
	// of another course may be scheduled against a pairing owned by this one,
	// and that row would block the subject_teachers delete.
	statements := []string{
		`DELETE FROM timetable WHERE section_id IN (
			SELECT section_id FROM sections WHERE course_id = $1)`,
		`DELETE FROM timetable WHERE subject_teacher_id IN (
			SELECT subject_teacher_id FROM subject_teachers WHERE subject_id IN (
				SELECT subject_id FROM subjects WHERE course_id = $1))`,
		`DELETE FROM subject_teachers WHERE subject_id IN (
			SELECT subject_id FROM subjects WHERE course_id = $1)`,
		`DELETE FROM sections WHERE course_id = $1`,
		`DELETE FROM subjects WHERE course_id = $1`,
	}
	for _, stmt := range statements {
		if _, err = tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("cascade delete course: %w", err)
		}
	}

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM courses WHERE course_id = $1`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	var rows int64
	if rows, err = res.RowsAffected(); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete course: %w", err)
	}
	return nil
}
