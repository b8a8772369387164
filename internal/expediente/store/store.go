package store

import (
	"context"
	"errors"

	"github.com/despacholink/expediente/internal/expediente/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. The sqlite driver implements it;
// sub-repositories keep table concerns separated and individually mockable.
type Store interface {
	Users() Users
	Sessions() Sessions
	Profiles() Profiles
	ContractTemplates() ContractTemplates
	Questionnaires() Questionnaires
	Clients() Clients
	Documents() Documents
	Answers() Answers

	ApplyMigrations() error

	// WithTx runs fn inside a transaction, committing when fn returns nil
	// and rolling back otherwise. Multi-table mutations (client creation,
	// completion, cascaded deletes) must go through this.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Tx starts a transaction the caller commits or rolls back explicitly.
	Tx(ctx context.Context) (Tx, error)

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// UpdateMFASecret stages a TOTP secret before verification.
	UpdateMFASecret(ctx context.Context, userID, secret string) error
	// EnableMFA stamps mfa_enabled once the first code verifies.
	EnableMFA(ctx context.Context, userID string) error
	// DisableMFA clears both the secret and the enabled stamp.
	DisableMFA(ctx context.Context, userID string) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	// GetActiveSessionByTokenHash returns a non-revoked, non-expired session.
	GetActiveSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error)

	RevokeSession(ctx context.Context, id string) error
	RevokeAllUserSessions(ctx context.Context, userID string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}

type Profiles interface {
	CreateProfile(ctx context.Context, p domain.Profile) error
	GetProfileByUserID(ctx context.Context, userID string) (domain.Profile, error)
	UpdateProfile(ctx context.Context, p domain.Profile) error
}

type ContractTemplates interface {
	CreateContractTemplate(ctx context.Context, t domain.ContractTemplate) error
	GetContractTemplateByID(ctx context.Context, id string) (domain.ContractTemplate, error)

	// ListContractTemplates returns the user's templates, newest first.
	ListContractTemplates(ctx context.Context, userID string) ([]domain.ContractTemplate, error)

	// DeleteContractTemplate is owner-scoped; ErrNotFound when the row does
	// not exist or belongs to another user.
	DeleteContractTemplate(ctx context.Context, id, userID string) error
}

type Questionnaires interface {
	CreateQuestionnaireTemplate(ctx context.Context, t domain.QuestionnaireTemplate) error
	GetQuestionnaireTemplateByID(ctx context.Context, id string) (domain.QuestionnaireTemplate, error)
	ListQuestionnaireTemplates(ctx context.Context, userID string) ([]domain.QuestionnaireTemplate, error)
	DeleteQuestionnaireTemplate(ctx context.Context, id, userID string) error

	CreateQuestion(ctx context.Context, q domain.Question) error

	// ListQuestions returns a questionnaire's questions ordered by order_index.
	ListQuestions(ctx context.Context, questionnaireID string) ([]domain.Question, error)
}

type Clients interface {
	CreateClient(ctx context.Context, c domain.Client) error
	GetClientByID(ctx context.Context, id string) (domain.Client, error)

	// GetClientByIDForUser enforces firm-side ownership scoping.
	GetClientByIDForUser(ctx context.Context, id, userID string) (domain.Client, error)

	// GetClientByToken is the portal-side lookup: authorization by
	// possession, never by firm identity.
	GetClientByToken(ctx context.Context, token string) (domain.Client, error)

	// ListClientsByUser returns the firm user's clients, newest first.
	ListClientsByUser(ctx context.Context, userID string) ([]domain.Client, error)

	// SetSignature overwrites the signature evidence on the client row.
	SetSignature(ctx context.Context, clientID, data, timestamp, ip, hash string) error

	// CompleteClient finalizes the row: status=completed, link_used=1,
	// completed_at set. The single place link_used is ever written.
	CompleteClient(ctx context.Context, clientID string) error

	// DeleteClientForUser is owner-scoped; ErrNotFound when no owned row
	// matches, so cross-tenant deletes touch nothing.
	DeleteClientForUser(ctx context.Context, id, userID string) error
}

type Documents interface {
	CreateDocument(ctx context.Context, d domain.ClientDocument) error
	ListDocumentsByClient(ctx context.Context, clientID string) ([]domain.ClientDocument, error)
}

type Answers interface {
	CreateAnswer(ctx context.Context, a domain.ClientAnswer) error

	// ListAnswersByClient joins questions and orders by order_index.
	ListAnswersByClient(ctx context.Context, clientID string) ([]domain.ClientAnswer, error)

	// CountDistinctAnsweredQuestions feeds step derivation.
	CountDistinctAnsweredQuestions(ctx context.Context, clientID string) (int, error)
}
