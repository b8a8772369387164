package domain

import "time"

// Session is one refresh-token grant for a firm user. The raw token lives
// only in the client cookie; the row stores its fingerprint.
type Session struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}
