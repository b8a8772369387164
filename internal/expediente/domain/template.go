package domain

import "time"

// ContractTemplate is a firm-owned reusable contract document stored as a blob.
type ContractTemplate struct {
	ID        string
	UserID    string
	Name      string
	FileKey   string // blob store key of the uploaded document
	CreatedAt time.Time
}

// QuestionnaireTemplate is a firm-owned reusable questionnaire. Its questions
// carry an explicit order index which drives display everywhere.
type QuestionnaireTemplate struct {
	ID        string
	UserID    string
	Name      string
	CreatedAt time.Time
}

type Question struct {
	ID              string
	QuestionnaireID string
	QuestionText    string
	OrderIndex      int
	CreatedAt       time.Time
}
