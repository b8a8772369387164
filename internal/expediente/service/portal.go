package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/despacholink/expediente/internal/expediente/domain"
	"github.com/despacholink/expediente/internal/expediente/feed"
	"github.com/despacholink/expediente/internal/expediente/store"
	"github.com/despacholink/expediente/pkg/blob"
	"github.com/despacholink/expediente/pkg/cryptox"
	"github.com/despacholink/expediente/pkg/idx"
	"github.com/despacholink/expediente/pkg/slogx"
)

var (
	ErrTokenNotFound        = errors.New("magic link token not found")
	ErrLinkAlreadyUsed      = errors.New("magic link has already been used")
	ErrInvalidPortalRequest = errors.New("invalid portal request")
	ErrInvalidDocumentType  = errors.New("document type is not required for this client")
	ErrContractUnsigned     = errors.New("contract has not been signed")
	ErrDocumentsIncomplete  = errors.New("required documents are incomplete")
	ErrUnknownQuestion      = errors.New("answer references an unknown question")
)

// PortalService drives the client-facing onboarding flow. Every operation
// authorizes by token possession alone and re-checks link_used before any
// write, so a consumed link can never mutate the case file again.
type PortalService struct {
	Store store.Store
	Blob  blob.Store
	Feed  *feed.Bus
}

// PortalBundle is everything the portal page needs to render: the case file,
// the derived step, firm branding, and the full questionnaire and document
// state.
type PortalBundle struct {
	Client  domain.Client
	Step    domain.Step
	Profile domain.Profile

	ContractName string
	Questions    []domain.Question
	Answers      []domain.ClientAnswer
	Documents    []domain.ClientDocument

	AnsweredQuestions int
	MissingDocuments  []domain.DocumentType
}

// AnswerInput is one submitted questionnaire answer.
type AnswerInput struct {
	QuestionID string
	AnswerText string
}

// ValidateToken resolves a magic-link token to its portal bundle. A consumed
// link is rejected outright; the portal front-end shows the already-used page
// instead of any case data.
func (s *PortalService) ValidateToken(ctx context.Context, token string) (PortalBundle, error) {
	log := slogx.FromContext(ctx)

	client, err := s.clientByToken(ctx, token)
	if err != nil {
		return PortalBundle{}, err
	}
	if client.LinkUsed {
		log.Warn("portal access attempted with consumed link",
			slog.String("client_id", client.ID),
		)
		return PortalBundle{}, ErrLinkAlreadyUsed
	}

	bundle, err := s.loadBundle(ctx, client)
	if err != nil {
		log.Error("failed to load portal bundle",
			slog.String("client_id", client.ID),
			slog.Any("error", err),
		)
		return PortalBundle{}, err
	}

	log.Debug("portal token validated",
		slog.String("client_id", client.ID),
		slog.String("step", string(bundle.Step)),
	)
	return bundle, nil
}

// SignContract records the signature evidence trail on the case file. The
// timestamp is captured server-side at the instant of signing and the hash
// binds the signature image, the timestamp, and the origin IP together.
func (s *PortalService) SignContract(ctx context.Context, token, signatureData, originIP string) (PortalBundle, error) {
	log := slogx.FromContext(ctx)

	if signatureData == "" {
		return PortalBundle{}, ErrInvalidPortalRequest
	}

	client, err := s.clientByToken(ctx, token)
	if err != nil {
		return PortalBundle{}, err
	}
	if client.LinkUsed {
		log.Warn("signature attempted with consumed link",
			slog.String("client_id", client.ID),
		)
		return PortalBundle{}, ErrLinkAlreadyUsed
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	hash := cryptox.SignatureHash(signatureData, timestamp, originIP)

	if err := s.Store.Clients().SetSignature(ctx, client.ID, signatureData, timestamp, originIP, hash); err != nil {
		log.Error("failed to record signature",
			slog.String("client_id", client.ID),
			slog.Any("error", err),
		)
		return PortalBundle{}, err
	}

	client.SignatureData = signatureData
	client.SignatureTimestamp = timestamp
	client.SignatureIP = originIP
	client.SignatureHash = hash

	s.publish(feed.EventClientUpdated, client)

	log.Info("contract signed",
		slog.String("client_id", client.ID),
		slog.String("signature_ip", originIP),
	)
	return s.loadBundle(ctx, client)
}

// SubmitAnswers stores a batch of questionnaire answers atomically. Every
// referenced question must belong to the client's questionnaire template.
func (s *PortalService) SubmitAnswers(ctx context.Context, token string, answers []AnswerInput) (PortalBundle, error) {
	log := slogx.FromContext(ctx)

	if len(answers) == 0 {
		return PortalBundle{}, ErrInvalidPortalRequest
	}

	client, err := s.clientByToken(ctx, token)
	if err != nil {
		return PortalBundle{}, err
	}
	if client.LinkUsed {
		log.Warn("answer submission attempted with consumed link",
			slog.String("client_id", client.ID),
		)
		return PortalBundle{}, ErrLinkAlreadyUsed
	}

	questions, err := s.Store.Questionnaires().ListQuestions(ctx, client.QuestionnaireTemplateID)
	if err != nil {
		return PortalBundle{}, err
	}
	known := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}

	now := time.Now().UTC()
	for _, a := range answers {
		if a.QuestionID == "" || a.AnswerText == "" {
			return PortalBundle{}, ErrInvalidPortalRequest
		}
		if _, ok := known[a.QuestionID]; !ok {
			log.Warn("answer submitted for question outside questionnaire",
				slog.String("client_id", client.ID),
				slog.String("question_id", a.QuestionID),
			)
			return PortalBundle{}, ErrUnknownQuestion
		}
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, a := range answers {
			answer := domain.ClientAnswer{
				ID:         idx.New().String(),
				ClientID:   client.ID,
				QuestionID: a.QuestionID,
				AnswerText: a.AnswerText,
				CreatedAt:  now,
			}
			if err := tx.Answers().CreateAnswer(ctx, answer); err != nil {
				return fmt.Errorf("failed to store answer: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to store answers",
			slog.String("client_id", client.ID),
			slog.Any("error", err),
		)
		return PortalBundle{}, err
	}

	s.publish(feed.EventClientUpdated, client)

	log.Info("questionnaire answers submitted",
		slog.String("client_id", client.ID),
		slog.Int("count", len(answers)),
	)
	return s.loadBundle(ctx, client)
}

// UploadDocument stores one uploaded file for a required document type.
// Re-uploads of the same type are allowed; the newest upload wins for
// coverage and display.
func (s *PortalService) UploadDocument(ctx context.Context, token string, docType domain.DocumentType, fileName string, data []byte) (PortalBundle, error) {
	log := slogx.FromContext(ctx)

	if fileName == "" || len(data) == 0 {
		return PortalBundle{}, ErrInvalidPortalRequest
	}
	if !domain.ValidDocumentType(docType) {
		return PortalBundle{}, ErrInvalidDocumentType
	}

	client, err := s.clientByToken(ctx, token)
	if err != nil {
		return PortalBundle{}, err
	}
	if client.LinkUsed {
		log.Warn("document upload attempted with consumed link",
			slog.String("client_id", client.ID),
		)
		return PortalBundle{}, ErrLinkAlreadyUsed
	}

	required := false
	for _, t := range client.RequiredDocuments {
		if t == docType {
			required = true
			break
		}
	}
	if !required {
		log.Warn("document upload for type not required by case file",
			slog.String("client_id", client.ID),
			slog.String("document_type", string(docType)),
		)
		return PortalBundle{}, ErrInvalidDocumentType
	}

	doc := domain.ClientDocument{
		ID:           idx.New().String(),
		ClientID:     client.ID,
		DocumentType: docType,
		FileKey:      fmt.Sprintf("clients/%s/documents/%s", client.ID, idx.New().String()),
		FileName:     fileName,
		UploadedAt:   time.Now().UTC(),
	}

	if err := s.Blob.Put(ctx, doc.FileKey, data); err != nil {
		log.Error("failed to store document blob",
			slog.String("client_id", client.ID),
			slog.Any("error", err),
		)
		return PortalBundle{}, err
	}

	if err := s.Store.Documents().CreateDocument(ctx, doc); err != nil {
		// Best effort: do not leave an orphaned blob behind a failed insert.
		_ = s.Blob.Delete(ctx, doc.FileKey)
		log.Error("failed to record document",
			slog.String("client_id", client.ID),
			slog.Any("error", err),
		)
		return PortalBundle{}, err
	}

	s.publish(feed.EventClientUpdated, client)

	log.Info("document uploaded",
		slog.String("client_id", client.ID),
		slog.String("document_type", string(docType)),
		slog.String("file_name", fileName),
	)
	return s.loadBundle(ctx, client)
}

// CompleteProcess finalizes the case file and consumes the magic link. It
// refuses to complete until the contract is signed and every required
// document type has an upload; a second call finds the link consumed and
// leaves the terminal state untouched.
func (s *PortalService) CompleteProcess(ctx context.Context, token string) (PortalBundle, error) {
	log := slogx.FromContext(ctx)

	client, err := s.clientByToken(ctx, token)
	if err != nil {
		return PortalBundle{}, err
	}
	if client.LinkUsed {
		log.Warn("completion attempted with consumed link",
			slog.String("client_id", client.ID),
		)
		return PortalBundle{}, ErrLinkAlreadyUsed
	}

	if !client.Signed() {
		return PortalBundle{}, ErrContractUnsigned
	}

	docs, err := s.Store.Documents().ListDocumentsByClient(ctx, client.ID)
	if err != nil {
		return PortalBundle{}, err
	}
	if !domain.RequiredDocumentsCovered(client.RequiredDocuments, docs) {
		missing := domain.MissingDocuments(client.RequiredDocuments, docs)
		log.Warn("completion attempted with missing documents",
			slog.String("client_id", client.ID),
			slog.Any("missing", missing),
		)
		return PortalBundle{}, ErrDocumentsIncomplete
	}

	if err := s.Store.Clients().CompleteClient(ctx, client.ID); err != nil {
		log.Error("failed to complete case file",
			slog.String("client_id", client.ID),
			slog.Any("error", err),
		)
		return PortalBundle{}, err
	}

	// Reload so the bundle reflects the terminal row, not the pre-write copy.
	client, err = s.Store.Clients().GetClientByID(ctx, client.ID)
	if err != nil {
		return PortalBundle{}, err
	}

	s.publish(feed.EventClientCompleted, client)

	log.Info("onboarding completed",
		slog.String("client_id", client.ID),
		slog.String("user_id", client.UserID),
	)
	return s.loadBundle(ctx, client)
}

// ContractFile returns the contract template document for a live portal
// session, so the client can read what they are signing.
func (s *PortalService) ContractFile(ctx context.Context, token string) (name string, data []byte, err error) {
	client, err := s.clientByToken(ctx, token)
	if err != nil {
		return "", nil, err
	}
	if client.LinkUsed {
		return "", nil, ErrLinkAlreadyUsed
	}

	tmpl, err := s.Store.ContractTemplates().GetContractTemplateByID(ctx, client.ContractTemplateID)
	if err != nil {
		return "", nil, err
	}

	data, err = s.Blob.Get(ctx, tmpl.FileKey)
	if err != nil {
		return "", nil, err
	}
	return tmpl.Name, data, nil
}

func (s *PortalService) clientByToken(ctx context.Context, token string) (domain.Client, error) {
	if token == "" {
		return domain.Client{}, ErrTokenNotFound
	}

	client, err := s.Store.Clients().GetClientByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Warn("portal access attempted with unknown token")
			return domain.Client{}, ErrTokenNotFound
		}
		return domain.Client{}, err
	}
	return client, nil
}

func (s *PortalService) loadBundle(ctx context.Context, client domain.Client) (PortalBundle, error) {
	contract, err := s.Store.ContractTemplates().GetContractTemplateByID(ctx, client.ContractTemplateID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return PortalBundle{}, err
	}

	questions, err := s.Store.Questionnaires().ListQuestions(ctx, client.QuestionnaireTemplateID)
	if err != nil {
		return PortalBundle{}, err
	}

	answers, err := s.Store.Answers().ListAnswersByClient(ctx, client.ID)
	if err != nil {
		return PortalBundle{}, err
	}

	answered, err := s.Store.Answers().CountDistinctAnsweredQuestions(ctx, client.ID)
	if err != nil {
		return PortalBundle{}, err
	}

	docs, err := s.Store.Documents().ListDocumentsByClient(ctx, client.ID)
	if err != nil {
		return PortalBundle{}, err
	}

	// The firm may not have filled in a profile yet; render without branding.
	profile, err := s.Store.Profiles().GetProfileByUserID(ctx, client.UserID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return PortalBundle{}, err
	}

	return PortalBundle{
		Client:            client,
		Step:              domain.DeriveStep(client, answered, len(questions), docs),
		Profile:           profile,
		ContractName:      contract.Name,
		Questions:         questions,
		Answers:           answers,
		Documents:         docs,
		AnsweredQuestions: answered,
		MissingDocuments:  domain.MissingDocuments(client.RequiredDocuments, docs),
	}, nil
}

func (s *PortalService) publish(eventType string, client domain.Client) {
	if s.Feed == nil {
		return
	}
	s.Feed.Publish(feed.Event{
		Type:     eventType,
		ClientID: client.ID,
		UserID:   client.UserID,
		At:       time.Now().UTC(),
	})
}
