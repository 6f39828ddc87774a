package transfer

import "time"

type CheckoutRequest struct {
	Plan string `json:"plan"`
}

type CheckoutSessionRequest struct {
	ProductID  string            `json:"product_id"`
	SuccessURL string            `json:"success_url"`
	Customer   CheckoutCustomer  `json:"customer"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type CheckoutCustomer struct {
	Email string `json:"email"`
}

type CheckoutSessionResponse struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkout_url"`
}

type PortalSessionRequest struct {
	CustomerID string `json:"customer_id"`
}

type PortalSessionResponse struct {
	PortalURL string `json:"customer_portal_link"`
}

type SubscriptionEvent struct {
	ID        string `json:"id"`
	EventType string `json:"eventType"`
	CreatedAt int64  `json:"created_at"`
	Object    struct {
		ID      string `json:"id"`
		Object  string `json:"object"`
		Product struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"product"`
		Customer struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"customer"`
		Status                 string    `json:"status"`
		CurrentPeriodStartDate time.Time `json:"current_period_start_date"`
		CurrentPeriodEndDate   time.Time `json:"current_period_end_date"`
		Metadata               struct {
			UserID string `json:"user_id"`
			Plan   string `json:"plan"`
		} `json:"metadata"`
	} `json:"object"`
}
