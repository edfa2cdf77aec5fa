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

// SubjectRepository manages persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns all subjects ordered by course and semester.
func (r *SubjectRepository) List(ctx context.Context) ([]models.Subject, error) {
	const query = `SELECT subject_id, course_id, name, semester, created_at, updated_at FROM subjects ORDER BY course_id ASC, semester ASC, name ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// Exists checks whether a subject id resolves.
func (r *SubjectRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM subjects WHERE subject_id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject: %w", err)
	}
	return true, nil
}

// ExistsByName checks for a prior subject with the same name in the course
// and semester.
func (r *SubjectRepository) ExistsByName(ctx context.Context, courseID int64, name string, semester int) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one,
		`SELECT 1 FROM subjects WHERE course_id = $1 AND LOWER(name) = LOWER($2) AND semester = $3 LIMIT 1`,
		courseID, name, semester)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject name: %w", err)
	}
	return true, nil
}

// Create inserts a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (course_id, name, semester, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING subject_id`
	err := r.db.QueryRowxContext(ctx, query,
		subject.CourseID, subject.Name, subject.Semester, subject.CreatedAt, subject.UpdatedAt,
	).Scan(&subject.ID)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return appErrors.Clone(appErrors.ErrConflict, "subject already exists for this course and semester")
		}
		if foreignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}
