package domain

import "time"

// User is a firm account. MFA fields are nil until TOTP is enrolled and
// verified.
type User struct {
	ID           string
	Email        string
	PasswordHash string // argon2id PHC string
	MFAEnabled   *time.Time
	MFASecret    *string // base32 TOTP secret
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
