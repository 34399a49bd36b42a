package models

import "time"

// Holiday marks a calendar date skipped by the streak walk.
type Holiday struct {
	ID        string    `db:"id" json:"id"`
	Owner     string    `db:"owner" json:"owner"`
	Date      string    `db:"date" json:"date"`
	Label     string    `db:"label" json:"label"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
