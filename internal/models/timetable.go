package models

import "time"

// Timetable binds a section, a subject-teacher pairing and a weekly slot to a
// room. Three store-level unique constraints guarantee none of the three is
// double-booked within a slot.
type Timetable struct {
	ID               int64     `db:"timetable_id" json:"timetable_id"`
	SectionID        int64     `db:"section_id" json:"section_id"`
	SubjectTeacherID int64     `db:"subject_teacher_id" json:"subject_teacher_id"`
	SlotID           int64     `db:"slot_id" json:"slot_id"`
	RoomNo           string    `db:"room_no" json:"room_no"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// ConflictDimension identifies which uniqueness rule a timetable write hit.
type ConflictDimension string

const (
	ConflictTeacher ConflictDimension = "TEACHER"
	ConflictRoom    ConflictDimension = "ROOM"
	ConflictSection ConflictDimension = "SECTION"
	ConflictUnknown ConflictDimension = "UNKNOWN"
)

// TimetableConflictError reports a double-booking the store rejected at
// commit time.
type TimetableConflictError struct {
	Dimension ConflictDimension `json:"dimension"`
	Message   string            `json:"message"`
}

// Error implements the error interface.
func (e *TimetableConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
