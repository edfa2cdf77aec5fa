package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campuskit/timetable-api/internal/models"
	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

// OrganisationRepository manages persistence for organisations.
type OrganisationRepository struct {
	db *sqlx.DB
}

// NewOrganisationRepository constructs an OrganisationRepository.
func NewOrganisationRepository(db *sqlx.DB) *OrganisationRepository {
	return &OrganisationRepository{db: db}
}

// List returns all organisations ordered by name.
func (r *OrganisationRepository) List(ctx context.Context) ([]models.Organisation, error) {
	const query = `SELECT organisation_id, name, code, address, created_at, updated_at FROM organisations ORDER BY name ASC`
	var orgs []models.Organisation
	if err := r.db.SelectContext(ctx, &orgs, query); err != nil {
		return nil, fmt.Errorf("list organisations: %w", err)
	}
	return orgs, nil
}

// Exists checks whether an organisation id resolves.
func (r *OrganisationRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM organisations WHERE organisation_id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check organisation: %w", err)
	}
	return true, nil
}

// ExistsByName checks for a prior organisation with the same name.
func (r *OrganisationRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM organisations WHERE LOWER(name) = LOWER($1) LIMIT 1`, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check organisation name: %w", err)
	}
	return true, nil
}

// Create inserts a new organisation. The store rejects duplicate names and
// codes even when the friendlier pre-check raced with another insert.
func (r *OrganisationRepository) Create(ctx context.Context, org *models.Organisation) error {
	now := time.Now().UTC()
	if org.CreatedAt.IsZero() {
		org.CreatedAt = now
	}
	org.UpdatedAt = now

	const query = `INSERT INTO organisations (name, code, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING organisation_id`
	err := r.db.QueryRowxContext(ctx, query, org.Name, org.Code, org.Address, org.CreatedAt, org.UpdatedAt).Scan(&org.ID)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return appErrors.Clone(appErrors.ErrConflict, "organisation name or code already exists")
		}
		return fmt.Errorf("create organisation: %w", err)
	}
	return nil
}

// DeleteCascade removes an organisation and everything it owns within one
// transaction, bottom-up so referential integrity holds at every step.
func (r *OrganisationRepository) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete organisation: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Timetable rows go first, by section and by pairing: sections of other
	// organisations may be scheduled against pairings owned by this one, and
	// those rows would block the subject_teachers deletes.
	statements := []string{
		`DELETE FROM timetable WHERE section_id IN (
			SELECT section_id FROM sections WHERE course_id IN (
				SELECT course_id FROM courses WHERE department_id IN (
					SELECT department_id FROM departments WHERE organisation_id = $1)))`,
		`DELETE FROM timetable WHERE subject_teacher_id IN (
			SELECT subject_teacher_id FROM subject_teachers WHERE subject_id IN (
				SELECT subject_id FROM subjects WHERE course_id IN (
					SELECT course_id FROM courses WHERE department_id IN (
						SELECT department_id FROM departments WHERE organisation_id = $1))))`,
		`DELETE FROM timetable WHERE subject_teacher_id IN (
			SELECT subject_teacher_id FROM subject_teachers WHERE teacher_id IN (
				SELECT teacher_id FROM teachers WHERE department_id IN (
					SELECT department_id FROM departments WHERE organisation_id = $1)))`,
		`DELETE FROM subject_teachers WHERE subject_id IN (
			SELECT subject_id FROM subjects WHERE course_id IN (
				SELECT course_id FROM courses WHERE department_id IN (
					SELECT department_id FROM departments WHERE organisation_id = $1)))`,
		`DELETE FROM subject_teachers WHERE teacher_id IN (
			SELECT teacher_id FROM teachers WHERE department_id IN (
				SELECT department_id FROM departments WHERE organisation_id = $1))`,
		`DELETE FROM sections WHERE course_id IN (
			SELECT course_id FROM courses WHERE department_id IN (
				SELECT department_id FROM departments WHERE organisation_id = $1))`,
		`DELETE FROM subjects WHERE course_id IN (
			SELECT course_id FROM courses WHERE department_id IN (
				SELECT department_id FROM departments WHERE organisation_id = $1))`,
		`DELETE FROM teachers WHERE department_id IN (
			SELECT department_id FROM departments WHERE organisation_id = $1)`,
		`DELETE FROM courses WHERE department_id IN (
			SELECT department_id FROM departments WHERE organisation_id = $1)`,
		`DELETE FROM departments WHERE organisation_id = $1`,
	}
	for _, stmt := range statements {
		if _, err = tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("cascade delete organisation: %w", err)
		}
	}

	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM organisations WHERE organisation_id = $1`, id); err != nil {
		return fmt.Errorf("delete organisation: %w", err)
	}
	var rows int64
	if rows, err = res.RowsAffected(); err != nil {
		return fmt.Errorf("delete organisation: %w", err)
	}
	if rows == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete organisation: %w", err)
	}
	return nil
}
