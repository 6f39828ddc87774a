package models

import "time"

const (
	TeamRoleAdmin  = "admin"
	TeamRoleEditor = "editor"
	TeamRoleViewer = "viewer"

	TeamStatusInvited = "invited"
	TeamStatusActive  = "active"
)

type TeamMember struct {
	ID          int64     `db:"id" json:"id"`
	OwnerID     int64     `db:"owner_id" json:"owner_id"`
	Email       string    `db:"email" json:"email"`
	Name        string    `db:"name" json:"name"`
	Role        string    `db:"role" json:"role"`
	Status      string    `db:"status" json:"status"`
	InviteToken string    `db:"invite_token" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
