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

// SectionRepository manages persistence for sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs a SectionRepository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// List returns sections joined with their course names.
func (r *SectionRepository) List(ctx context.Context) ([]dto.SectionDetail, error) {
	const query = `SELECT s.section_id, s.course_id, c.name AS course_name, s.name, s.semester
		FROM sections s
		JOIN courses c ON c.course_id = s.course_id
		ORDER BY c.name ASC, s.semester ASC, s.name ASC`
	var sections []dto.SectionDetail
	if err := r.db.SelectContext(ctx, &sections, query); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// Exists checks whether a section id resolves.
func (r *SectionRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM sections WHERE section_id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check section: %w", err)
	}
	return true, nil
}

// ExistsByName checks for a prior section with the same name in the course
// and semester.
func (r *SectionRepository) ExistsByName(ctx context.Context, courseID int64, name string, semester int) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one,
		`SELECT 1 FROM sections WHERE course_id = $1 AND LOWER(name) = LOWER($2) AND semester = $3 LIMIT 1`,
		courseID, name, semester)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check section name: %w", err)
	}
	return true, nil
}

// Create inserts a new section.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	now := time.Now().UTC()
	if section.CreatedAt.IsZero() {
		section.CreatedAt = now
	}
	section.UpdatedAt = now

	const query = `INSERT INTO sections (course_id, name, semester, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING section_id`
	err := r.db.QueryRowxContext(ctx, query,
		section.CourseID, section.Name, section.Semester, section.CreatedAt, section.UpdatedAt,
	).Scan(&section.ID)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return appErrors.Clone(appErrors.ErrConflict, "section already exists for this course and semester")
		}
		if foreignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}
