package dto

// ProfileResponse represents the caller's account.
type ProfileResponse struct {
	Email              string `json:"email"`
	Name               string `json:"name,omitempty"`
	Phone              string `json:"phone,omitempty"`
	City               string `json:"city,omitempty"`
	Organization       string `json:"organization,omitempty"`
	Role               string `json:"role"`
	NotifyOrderUpdates bool   `json:"notify_order_updates"`
	NotifyMarketing    bool   `json:"notify_marketing"`
}

// ProfileUpdateRequest carries optional profile fields. Absent fields are
// left unchanged.
type ProfileUpdateRequest struct {
	Name               *string `json:"name"`
	Phone              *string `json:"phone"`
	City               *string `json:"city"`
	Organization       *string `json:"organization"`
	NotifyOrderUpdates *bool   `json:"notify_order_updates"`
	NotifyMarketing    *bool   `json:"notify_marketing"`
}

// EmailChangeRequest asks to move the account to a new login email.
type EmailChangeRequest struct {
	Email string `json:"email"`
}
