package models

import "time"

type NotificationSettings struct {
	ID                int64     `db:"id" json:"id"`
	UserID            int64     `db:"user_id" json:"user_id"`
	EmailEnabled      bool      `db:"email_enabled" json:"email_enabled"`
	PostPublished     bool      `db:"post_published" json:"post_published"`
	TokenExpiryAlerts bool      `db:"token_expiry_alerts" json:"token_expiry_alerts"`
	WeeklyDigest      bool      `db:"weekly_digest" json:"weekly_digest"`
	BillingAlerts     bool      `db:"billing_alerts" json:"billing_alerts"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
