package domain

// Step is the client-visible position in the portal flow. It is always
// recomputed from stored data; the browser's own step pointer is a UI
// convenience and never trusted.
type Step string

const (
	StepWelcome       Step = "welcome"
	StepContract      Step = "contract"
	StepQuestionnaire Step = "questionnaire"
	StepDocuments     Step = "documents"
	StepDone          Step = "done"
)

// DeriveStep computes the current portal step from durable state: signature
// evidence, answered-question coverage, and uploaded-document coverage. A
// client revisiting the portal mid-flow resumes exactly where the stored
// data says they are.
func DeriveStep(c Client, answeredQuestions, totalQuestions int, docs []ClientDocument) Step {
	if c.Status == StatusCompleted {
		return StepDone
	}
	if !c.Signed() {
		return StepContract
	}
	if totalQuestions > 0 && answeredQuestions < totalQuestions {
		return StepQuestionnaire
	}
	if !RequiredDocumentsCovered(c.RequiredDocuments, docs) {
		return StepDocuments
	}
	// Everything is in place; only the explicit completion call remains.
	return StepDocuments
}

// RequiredDocumentsCovered reports whether every required document type has
// at least one uploaded document.
func RequiredDocumentsCovered(required []DocumentType, docs []ClientDocument) bool {
	have := LatestByType(docs)
	for _, t := range required {
		if _, ok := have[t]; !ok {
			return false
		}
	}
	return true
}

// MissingDocuments returns the required types with no upload yet, preserving
// the order they were required in.
func MissingDocuments(required []DocumentType, docs []ClientDocument) []DocumentType {
	have := LatestByType(docs)
	var missing []DocumentType
	for _, t := range required {
		if _, ok := have[t]; !ok {
			missing = append(missing, t)
		}
	}
	return missing
}
