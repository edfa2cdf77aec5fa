package models

import "time"

// Section is a student group within a course, scoped to a semester.
type Section struct {
	ID        int64     `db:"section_id" json:"section_id"`
	CourseID  int64     `db:"course_id" json:"course_id"`
	Name      string    `db:"name" json:"name"`
	Semester  int       `db:"semester" json:"semester"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
