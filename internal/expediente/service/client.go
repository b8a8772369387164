package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
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
	ErrClientNotFound       = errors.New("client not found")
	ErrInvalidClientRequest = errors.New("invalid client request")
	ErrTemplateNotFound     = errors.New("template not found")
)

// ClientService is the firm-side case file management surface. Every
// operation is scoped to the authenticated firm user; a client belonging to
// another firm behaves exactly like one that does not exist.
type ClientService struct {
	Store store.Store
	Blob  blob.Store
	Feed  *feed.Bus

	// PortalOrigin is the public base URL magic links are minted under,
	// e.g. "https://portal.example.com".
	PortalOrigin string
}

// CreateClientInput carries the fields for a new case file.
type CreateClientInput struct {
	ClientName              string
	CaseName                string
	ContractTemplateID      string
	QuestionnaireTemplateID string
	RequiredDocuments       []domain.DocumentType
}

// CreateClient opens a new case file and mints its single-use magic link.
// The raw token is embedded in the returned URL; it is shown to the firm once
// for delivery to the client and is recoverable from the stored row.
func (s *ClientService) CreateClient(ctx context.Context, userID string, in CreateClientInput) (domain.Client, string, error) {
	log := slogx.FromContext(ctx)

	if in.ClientName == "" || in.CaseName == "" {
		return domain.Client{}, "", ErrInvalidClientRequest
	}
	if len(in.RequiredDocuments) == 0 {
		return domain.Client{}, "", ErrInvalidClientRequest
	}
	for _, t := range in.RequiredDocuments {
		if !domain.ValidDocumentType(t) {
			log.Warn("client creation with unknown document type",
				slog.String("document_type", string(t)),
			)
			return domain.Client{}, "", ErrInvalidClientRequest
		}
	}

	// Both templates must exist and belong to the creating user.
	contract, err := s.Store.ContractTemplates().GetContractTemplateByID(ctx, in.ContractTemplateID)
	if err != nil || contract.UserID != userID {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, "", err
		}
		return domain.Client{}, "", ErrTemplateNotFound
	}
	questionnaire, err := s.Store.Questionnaires().GetQuestionnaireTemplateByID(ctx, in.QuestionnaireTemplateID)
	if err != nil || questionnaire.UserID != userID {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, "", err
		}
		return domain.Client{}, "", ErrTemplateNotFound
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate magic link token", slog.Any("error", err))
		return domain.Client{}, "", err
	}

	client := domain.Client{
		ID:                      idx.New().String(),
		UserID:                  userID,
		ClientName:              in.ClientName,
		CaseName:                in.CaseName,
		Status:                  domain.StatusPending,
		MagicLinkToken:          token,
		ContractTemplateID:      in.ContractTemplateID,
		QuestionnaireTemplateID: in.QuestionnaireTemplateID,
		RequiredDocuments:       in.RequiredDocuments,
		CreatedAt:               time.Now().UTC(),
	}

	if err := s.Store.Clients().CreateClient(ctx, client); err != nil {
		log.Error("failed to create client",
			slog.String("client_id", client.ID),
			slog.Any("error", err),
		)
		return domain.Client{}, "", err
	}

	s.publish(feed.EventClientCreated, client)

	log.Info("client created",
		slog.String("client_id", client.ID),
		slog.String("user_id", userID),
		slog.String("case_name", in.CaseName),
	)
	return client, s.MagicLink(token), nil
}

// MagicLink renders the portal URL for a raw token.
func (s *ClientService) MagicLink(token string) string {
	return fmt.Sprintf("%s/portal/%s", strings.TrimRight(s.PortalOrigin, "/"), token)
}

// ListClients returns the firm user's case files, newest first.
func (s *ClientService) ListClients(ctx context.Context, userID string) ([]domain.Client, error) {
	return s.Store.Clients().ListClientsByUser(ctx, userID)
}

// Expediente assembles the firm-side dossier view of one case file: the full
// signature evidence, all answers in questionnaire order, and all uploads.
type Expediente struct {
	Client    domain.Client
	Step      domain.Step
	Answers   []domain.ClientAnswer
	Documents []domain.ClientDocument

	TotalQuestions    int
	AnsweredQuestions int
	MissingDocuments  []domain.DocumentType
}

func (s *ClientService) GetExpediente(ctx context.Context, userID, clientID string) (Expediente, error) {
	client, err := s.Store.Clients().GetClientByIDForUser(ctx, clientID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Expediente{}, ErrClientNotFound
		}
		return Expediente{}, err
	}

	questions, err := s.Store.Questionnaires().ListQuestions(ctx, client.QuestionnaireTemplateID)
	if err != nil {
		return Expediente{}, err
	}
	answers, err := s.Store.Answers().ListAnswersByClient(ctx, clientID)
	if err != nil {
		return Expediente{}, err
	}
	answered, err := s.Store.Answers().CountDistinctAnsweredQuestions(ctx, clientID)
	if err != nil {
		return Expediente{}, err
	}
	docs, err := s.Store.Documents().ListDocumentsByClient(ctx, clientID)
	if err != nil {
		return Expediente{}, err
	}

	return Expediente{
		Client:            client,
		Step:              domain.DeriveStep(client, answered, len(questions), docs),
		Answers:           answers,
		Documents:         docs,
		TotalQuestions:    len(questions),
		AnsweredQuestions: answered,
		MissingDocuments:  domain.MissingDocuments(client.RequiredDocuments, docs),
	}, nil
}

// DocumentFile returns one uploaded document's bytes for the firm dashboard.
// Ownership is checked through the case file, not the document row.
func (s *ClientService) DocumentFile(ctx context.Context, userID, clientID, documentID string) (domain.ClientDocument, []byte, error) {
	if _, err := s.Store.Clients().GetClientByIDForUser(ctx, clientID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ClientDocument{}, nil, ErrClientNotFound
		}
		return domain.ClientDocument{}, nil, err
	}

	docs, err := s.Store.Documents().ListDocumentsByClient(ctx, clientID)
	if err != nil {
		return domain.ClientDocument{}, nil, err
	}
	for _, d := range docs {
		if d.ID != documentID {
			continue
		}
		data, err := s.Blob.Get(ctx, d.FileKey)
		if err != nil {
			return domain.ClientDocument{}, nil, err
		}
		return d, data, nil
	}
	return domain.ClientDocument{}, nil, ErrClientNotFound
}

// DeleteClient removes a case file and its uploads. The database cascades
// the answer and document rows; the blobs are swept afterwards.
func (s *ClientService) DeleteClient(ctx context.Context, userID, clientID string) error {
	log := slogx.FromContext(ctx)

	client, err := s.Store.Clients().GetClientByIDForUser(ctx, clientID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("delete attempted for client outside user scope",
				slog.String("client_id", clientID),
				slog.String("user_id", userID),
			)
			return ErrClientNotFound
		}
		return err
	}

	if err := s.Store.Clients().DeleteClientForUser(ctx, clientID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		log.Error("failed to delete client",
			slog.String("client_id", clientID),
			slog.Any("error", err),
		)
		return err
	}

	if err := s.Blob.DeletePrefix(ctx, fmt.Sprintf("clients/%s/", clientID)); err != nil {
		// Row is gone; orphaned blobs are a cleanup concern, not a failure.
		log.Warn("failed to sweep client blobs",
			slog.String("client_id", clientID),
			slog.Any("error", err),
		)
	}

	s.publish(feed.EventClientDeleted, client)

	log.Info("client deleted",
		slog.String("client_id", clientID),
		slog.String("user_id", userID),
	)
	return nil
}

func (s *ClientService) publish(eventType string, client domain.Client) {
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
