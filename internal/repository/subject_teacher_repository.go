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

// SubjectTeacherRepository manages persistence for subject-teacher pairings.
type SubjectTeacherRepository struct {
	db *sqlx.DB
}

// NewSubjectTeacherRepository constructs a SubjectTeacherRepository.
func NewSubjectTeacherRepository(db *sqlx.DB) *SubjectTeacherRepository {
	return &SubjectTeacherRepository{db: db}
}

// List returns pairings denormalized with subject and teacher names.
func (r *SubjectTeacherRepository) List(ctx context.Context) ([]dto.SubjectTeacherDetail, error) {
	const query = `SELECT st.subject_teacher_id, st.subject_id, s.name AS subject_name, s.semester,
			st.teacher_id, t.name AS teacher_name, st.created_at
		FROM subject_teachers st
		JOIN subjects s ON s.subject_id = st.subject_id
		JOIN teachers t ON t.teacher_id = st.teacher_id
		ORDER BY s.name ASC, t.name ASC`
	var pairs []dto.SubjectTeacherDetail
	if err := r.db.SelectContext(ctx, &pairs, query); err != nil {
		return nil, fmt.Errorf("list subject teachers: %w", err)
	}
	return pairs, nil
}

// Exists checks whether a pairing id resolves.
func (r *SubjectTeacherRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM subject_teachers WHERE subject_teacher_id = $1 LIMIT 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject teacher: %w", err)
	}
	return true, nil
}

// ExistsByPair checks for a prior pairing of the same subject and teacher.
func (r *SubjectTeacherRepository) ExistsByPair(ctx context.Context, subjectID, teacherID int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one,
		`SELECT 1 FROM subject_teachers WHERE subject_id = $1 AND teacher_id = $2 LIMIT 1`,
		subjectID, teacherID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject teacher pair: %w", err)
	}
	return true, nil
}

// Create inserts a new pairing.
func (r *SubjectTeacherRepository) Create(ctx context.Context, pair *models.SubjectTeacher) error {
	if pair.CreatedAt.IsZero() {
		pair.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO subject_teachers (subject_id, teacher_id, created_at)
		VALUES ($1, $2, $3) RETURNING subject_teacher_id`
	err := r.db.QueryRowxContext(ctx, query, pair.SubjectID, pair.TeacherID, pair.CreatedAt).Scan(&pair.ID)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return appErrors.Clone(appErrors.ErrConflict, "subject-teacher pairing already exists")
		}
		if foreignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject or teacher not found")
		}
		return fmt.Errorf("create subject teacher: %w", err)
	}
	return nil
}
