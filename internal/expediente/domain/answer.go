package domain

import "time"

// ClientAnswer is one free-text answer to a questionnaire question. Display
// ordering derives from the referenced question's order index, not from
// insertion order.
type ClientAnswer struct {
	ID           string
	ClientID     string
	QuestionID   string
	AnswerText   string
	CreatedAt    time.Time
	QuestionText string // joined for display; empty when not loaded
	OrderIndex   int    // joined from the question row
}
