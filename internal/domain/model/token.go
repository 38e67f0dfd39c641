package model

import "time"

// EmailChangeToken is a single-use confirmation record for swapping a
// user's login email.
type EmailChangeToken struct {
	Token     string
	UserID    int64
	NewEmail  string
	ExpiresAt time.Time
}
