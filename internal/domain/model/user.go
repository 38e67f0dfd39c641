package model

import "time"

// Role grants capabilities to a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered marketplace customer. Email doubles as the
// login identity and is unique across accounts.
type User struct {
	ID                 int64
	Email              string
	PasswordHash       string
	Name               string
	Phone              string
	City               string
	Organization       string
	Role               Role
	NotifyOrderUpdates bool
	NotifyMarketing    bool
	CreatedAt          time.Time
}
