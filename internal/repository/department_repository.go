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

// DepartmentRepository manages persistence for departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs a DepartmentRepository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// List returns departments joined with their organisation names.
func (r *DepartmentRepository) List(ctx context.Context) ([]dto.DepartmentDetail, error) {
	const query = `SELECT d.department_id, d.organisation_id, o.name AS organisation_name, d.name
		FROM departments d
		JOIN organisations o ON o.organisation_id = d.organisation_id
		ORDER BY o.name ASC, d.name ASC`
	var departments []dto.DepartmentDetail
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// Exists checks whether a department id resolves.
func (r *DepartmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM departments WHERE department_id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check department: %w", err)
	}
	return true, nil
}

// ExistsByName checks for a prior department with the same name in the
// organisation.
func (r *DepartmentRepository) ExistsByName(ctx context.Context, organisationID int64, name string) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one,
		`SELECT 1 FROM departments WHERE organisation_id = $1 AND LOWER(name) = LOWER($2) LIMIT 1`,
		organisationID, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check department name: %w", err)
	}
	return true, nil
}

// Create inserts a new department.
func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	now := time.Now().UTC()
	if dept.CreatedAt.IsZero() {
		dept.CreatedAt = now
	}
	dept.UpdatedAt = now

	const query = `INSERT INTO departments (organisation_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4) RETURNING department_id`
	err := r.db.QueryRowxContext(ctx, query, dept.OrganisationID, dept.Name, dept.CreatedAt, dept.UpdatedAt).Scan(&dept.ID)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return appErrors.Clone(appErrors.ErrConflict, "department already exists in this organisation")
		}
		if foreignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "organisation not found")
		}
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// DeleteCascade removes a department and all owned courses, sections,
// subjects, teachers and dependent rows within one transaction.
func (r *DepartmentRepository) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete department: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Timetable rows go first, by section and by pairing: sections of other
	// departments may be scheduled against pairings owned by this one, and
	// those rows would block the subject_teachers deletes.
	statements := []string{
		`DELETE FROM timetable WHERE section_id IN (
			SELECT section_id FROM sections WHERE course_id IN (
				SELECT course_id FROM courses WHERE department_id = $1))`,
		`DELETE FROM timetable WHERE subject_teacher_id IN (
			SELECT subject_teacher_id FROM subject_teachers WHERE subject_id IN (
				SELECT subject_id FROM subjects WHERE course_id IN (
					SELECT course_id FROM courses WHERE department_id = $1)))`,
		`DELETE FROM timetable WHERE subject_teacher_id IN (
			SELECT subject_teacher_id FROM subject_teachers WHERE teacher_id IN (
				SELECT teacher_id FROM teachers WHERE department_id = $1))`,
		`DELETE FROM subject_teachers WHERE subject_id IN (
			SELECT subject_id FROM subjects WHERE course_id IN (
				SELECT course_id FROM courses WHERE department_id = $1))`,
		`DELETE FROM subject_teachers WHERE teacher_id IN (
			SELECT teacher_id FROM teachers WHERE department_id = $1)`,
		`DELETE FROM sections WHERE course_id IN (
			SELECT course_id FROM courses WHERE department_id = $1)`,
		`DELETE FROM subjects WHERE course_id IN (
			SELECT course_id FROM courses WHERE department_id = $1)`,
		`DELETE FROM teachers WHERE department_id = $1`,
		`DELETE FROM courses WHERE department_id = $1`,
	}
	for _, stmt := range statements {
		if _, err = tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("cascade delete department: %w", err)
		}
	}

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM departments WHERE department_id = $1`, id); err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	var rows int64
	if rows, err = res.RowsAffected(); err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete department: %w", err)
	}
	return nil
}
