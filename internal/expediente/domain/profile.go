package domain

import "time"

// Profile holds a firm user's branding and the scheduling link shown to
// clients after completion.
type Profile struct {
	ID           string
	UserID       string
	FirmName     string
	FirmLogoKey  string // blob store key, empty when no logo uploaded
	CalendarLink string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
