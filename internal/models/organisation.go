package models

import "time"

// Organisation is the root of the catalog hierarchy.
type Organisation struct {
	ID        int64     `db:"organisation_id" json:"organisation_id"`
	Name      string    `db:"name" json:"name"`
	Code      *string   `db:"code" json:"code,omitempty"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
