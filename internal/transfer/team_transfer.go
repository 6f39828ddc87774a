package transfer

type TeamInviteRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type TeamUpdateRequest struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}

type NotificationUpdate struct {
	EmailEnabled      bool `json:"email_enabled"`
	PostPublished     bool `json:"post_published"`
	TokenExpiryAlerts bool `json:"token_expiry_alerts"`
	WeeklyDigest      bool `json:"weekly_digest"`
	BillingAlerts     bool `json:"billing_alerts"`
}

type IntegrationCreateRequest struct {
	Provider string `json:"provider"`
	Config   string `json:"config"`
}
