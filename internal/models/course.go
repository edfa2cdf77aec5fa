package models

import "time"

// Course belongs to one department and owns sections and subjects.
type Course struct {
	ID            int64     `db:"course_id" json:"course_id"`
	DepartmentID  int64     `db:"department_id" json:"department_id"`
	Name          string    `db:"name" json:"name"`
	Code          string    `db:"code" json:"code"`
	DurationYears int       `db:"duration_years" json:"duration_years"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
