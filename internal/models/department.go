package models

import "time"

// Department belongs to one organisation and owns courses and teachers.
type Department struct {
	ID             int64     `db:"department_id" json:"department_id"`
	OrganisationID int64     `db:"organisation_id" json:"organisation_id"`
	Name           string    `db:"name" json:"name"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
