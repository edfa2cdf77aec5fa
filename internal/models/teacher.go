package models

import "time"

// Teacher belongs to one department.
type Teacher struct {
	ID           int64     `db:"teacher_id" json:"teacher_id"`
	DepartmentID int64     `db:"department_id" json:"department_id"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
