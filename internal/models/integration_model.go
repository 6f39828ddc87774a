package models

import "time"

type Integration struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Provider  string    `db:"provider" json:"provider"`
	Config    string    `db:"config" json:"config"`
	IsEnabled bool      `db:"is_enabled" json:"is_enabled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
