package models

import "time"

// SubjectTeacher is the approved pairing of a subject with a teacher.
// Timetable entries reference the pairing rather than subject and teacher
// separately.
type SubjectTeacher struct {
	ID        int64     `db:"subject_teacher_id" json:"subject_teacher_id"`
	SubjectID int64     `db:"subject_id" json:"subject_id"`
	TeacherID int64     `db:"teacher_id" json:"teacher_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
