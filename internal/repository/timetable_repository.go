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

// Constraint names on the timetable table, mirrored from the migration.
const (
	teacherSlotConstraint = "teacher_slot_unique"
	sectionSlotConstraint = "section_slot_unique"
	roomSlotConstraint    = "room_slot_unique"
)

const timetableRowColumns = `t.timetable_id, t.section_id, sec.name AS section_name,
	t.subject_teacher_id, sub.name AS subject_name, tch.name AS teacher_name,
	t.slot_id, ts.day_of_week, ts.start_time, ts.end_time, t.room_no`

const timetableRowJoins = `FROM timetable t
	JOIN sections sec ON sec.section_id = t.section_id
	JOIN subject_teachers st ON st.subject_teacher_id = t.subject_teacher_id
	JOIN subjects sub ON sub.subject_id = st.subject_id
	JOIN teachers tch ON tch.teacher_id = st.teacher_id
	JOIN time_slots ts ON ts.slot_id = t.slot_id`

// TimetableRepository owns the assignment ledger. All three double-booking
// rules live in the store as named unique constraints, enforced atomically
// at commit time; this repository only translates their rejections.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new timetable repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// translateConflict maps a constraint signal to exactly one conflict reason.
// When a write could in principle trip several rules at once, the reported
// cause follows a fixed precedence: teacher, then room, then section. An
// unrecognized signal degrades to a generic reason rather than leaking
// store detail.
func translateConflict(constraint string) *models.TimetableConflictError {
	switch constraint {
	case teacherSlotConstraint:
		return &models.TimetableConflictError{Dimension: models.ConflictTeacher, Message: "Teacher already busy at this time"}
	case roomSlotConstraint:
		return &models.TimetableConflictError{Dimension: models.ConflictRoom, Message: "Room already occupied at this time"}
	case sectionSlotConstraint:
		return &models.TimetableConflictError{Dimension: models.ConflictSection, Message: "Section already has class at this time"}
	default:
		return &models.TimetableConflictError{Dimension: models.ConflictUnknown, Message: "Scheduling conflict detected"}
	}
}

// conflictError wraps a translated conflict into the API error taxonomy.
func conflictError(constraint string) error {
	domainErr := translateConflict(constraint)
	return appErrors.Wrap(domainErr, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status, domainErr.Message)
}

// FindByID loads a timetable entry by id.
func (r *TimetableRepository) FindByID(ctx context.Context, id int64) (*models.Timetable, error) {
	const query = `SELECT timetable_id, section_id, subject_teacher_id, slot_id, room_no, created_at, updated_at FROM timetable WHERE timetable_id = $1`
	var entry models.Timetable
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create performs the constrained insert. A unique violation is translated
// into a conflict reason; a foreign key violation means a referenced row
// vanished between validation and commit.
func (r *TimetableRepository) Create(ctx context.Context, entry *models.Timetable) error {
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO timetable (section_id, subject_teacher_id, slot_id, room_no, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING timetable_id`
	err := r.db.QueryRowxContext(ctx, query,
		entry.SectionID, entry.SubjectTeacherID, entry.SlotID, entry.RoomNo, entry.CreatedAt, entry.UpdatedAt,
	).Scan(&entry.ID)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return conflictError(constraint)
		}
		if foreignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "referenced section, subject-teacher or time slot no longer exists")
		}
		return fmt.Errorf("create timetable entry: %w", err)
	}
	return nil
}

// Update rewrites the full row. The same constraints guard the update; the
// row cannot conflict with itself because its prior values belong to the row
// being rewritten.
func (r *TimetableRepository) Update(ctx context.Context, entry *models.Timetable) error {
	entry.UpdatedAt = time.Now().UTC()

	const query = `UPDATE timetable SET section_id = $1, subject_teacher_id = $2, slot_id = $3, room_no = $4, updated_at = $5 WHERE timetable_id = $6`
	res, err := r.db.ExecContext(ctx, query,
		entry.SectionID, entry.SubjectTeacherID, entry.SlotID, entry.RoomNo, entry.UpdatedAt, entry.ID,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return conflictError(constraint)
		}
		if foreignKeyViolation(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "referenced section, subject-teacher or time slot no longer exists")
		}
		return fmt.Errorf("update timetable entry: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update timetable entry: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a timetable entry. Deleting is always conflict-free.
func (r *TimetableRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timetable WHERE timetable_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete timetable entry: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete timetable entry: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListBySection returns denormalized entries for one section. Display
// ordering by weekday is applied by the service; day_of_week is text and
// must not be sorted lexically.
func (r *TimetableRepository) ListBySection(ctx context.Context, sectionID int64) ([]dto.TimetableRow, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE t.section_id = $1", timetableRowColumns, timetableRowJoins)
	var rows []dto.TimetableRow
	if err := r.db.SelectContext(ctx, &rows, query, sectionID); err != nil {
		return nil, fmt.Errorf("list timetable by section: %w", err)
	}
	return rows, nil
}

// ListFull returns the denormalized join across all entries.
func (r *TimetableRepository) ListFull(ctx context.Context) ([]dto.TimetableRow, error) {
	query := fmt.Sprintf("SELECT %s %s", timetableRowColumns, timetableRowJoins)
	var rows []dto.TimetableRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list full timetable: %w", err)
	}
	return rows, nil
}
