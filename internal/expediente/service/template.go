package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/despacholink/expediente/internal/expediente/domain"
	"github.com/despacholink/expediente/internal/expediente/store"
	"github.com/despacholink/expediente/pkg/blob"
	"github.com/despacholink/expediente/pkg/idx"
	"github.com/despacholink/expediente/pkg/slogx"
)

var ErrInvalidTemplateRequest = errors.New("invalid template request")

// TemplateService manages the firm's reusable contract documents and
// questionnaires. Templates are owner-scoped throughout: reads and deletes
// for another firm's template behave as not found.
type TemplateService struct {
	Store store.Store
	Blob  blob.Store
}

// CreateContractTemplate stores the uploaded contract document and its row.
func (s *TemplateService) CreateContractTemplate(ctx context.Context, userID, name, fileName string, data []byte) (domain.ContractTemplate, error) {
	log := slogx.FromContext(ctx)

	if name == "" || fileName == "" || len(data) == 0 {
		return domain.ContractTemplate{}, ErrInvalidTemplateRequest
	}

	tmpl := domain.ContractTemplate{
		ID:        idx.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	tmpl.FileKey = fmt.Sprintf("templates/contracts/%s/%s", userID, tmpl.ID)

	if err := s.Blob.Put(ctx, tmpl.FileKey, data); err != nil {
		log.Error("failed to store contract blob", slog.Any("error", err))
		return domain.ContractTemplate{}, err
	}
	if err := s.Store.ContractTemplates().CreateContractTemplate(ctx, tmpl); err != nil {
		_ = s.Blob.Delete(ctx, tmpl.FileKey)
		log.Error("failed to create contract template",
			slog.String("template_id", tmpl.ID),
			slog.Any("error", err),
		)
		return domain.ContractTemplate{}, err
	}

	log.Info("contract template created",
		slog.String("template_id", tmpl.ID),
		slog.String("user_id", userID),
		slog.String("name", name),
	)
	return tmpl, nil
}

func (s *TemplateService) ListContractTemplates(ctx context.Context, userID string) ([]domain.ContractTemplate, error) {
	return s.Store.ContractTemplates().ListContractTemplates(ctx, userID)
}

// ContractTemplateFile returns a template's stored document, owner-scoped.
func (s *TemplateService) ContractTemplateFile(ctx context.Context, userID, id string) (domain.ContractTemplate, []byte, error) {
	tmpl, err := s.Store.ContractTemplates().GetContractTemplateByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ContractTemplate{}, nil, ErrTemplateNotFound
		}
		return domain.ContractTemplate{}, nil, err
	}
	if tmpl.UserID != userID {
		return domain.ContractTemplate{}, nil, ErrTemplateNotFound
	}

	data, err := s.Blob.Get(ctx, tmpl.FileKey)
	if err != nil {
		return domain.ContractTemplate{}, nil, err
	}
	return tmpl, data, nil
}

func (s *TemplateService) DeleteContractTemplate(ctx context.Context, userID, id string) error {
	log := slogx.FromContext(ctx)

	tmpl, err := s.Store.ContractTemplates().GetContractTemplateByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	if tmpl.UserID != userID {
		return ErrTemplateNotFound
	}

	if err := s.Store.ContractTemplates().DeleteContractTemplate(ctx, id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}
	if err := s.Blob.Delete(ctx, tmpl.FileKey); err != nil && !errors.Is(err, blob.ErrNotFound) {
		log.Warn("failed to delete contract blob",
			slog.String("template_id", id),
			slog.Any("error", err),
		)
	}

	log.Info("contract template deleted",
		slog.String("template_id", id),
		slog.String("user_id", userID),
	)
	return nil
}

// CreateQuestionnaireTemplate stores a questionnaire and its questions in
// one transaction. Question order follows the input slice.
func (s *TemplateService) CreateQuestionnaireTemplate(ctx context.Context, userID, name string, questionTexts []string) (domain.QuestionnaireTemplate, []domain.Question, error) {
	log := slogx.FromContext(ctx)

	if name == "" || len(questionTexts) == 0 {
		return domain.QuestionnaireTemplate{}, nil, ErrInvalidTemplateRequest
	}
	for _, text := range questionTexts {
		if text == "" {
			return domain.QuestionnaireTemplate{}, nil, ErrInvalidTemplateRequest
		}
	}

	now := time.Now().UTC()
	tmpl := domain.QuestionnaireTemplate{
		ID:        idx.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
	}

	questions := make([]domain.Question, len(questionTexts))
	for i, text := range questionTexts {
		questions[i] = domain.Question{
			ID:              idx.New().String(),
			QuestionnaireID: tmpl.ID,
			QuestionText:    text,
			OrderIndex:      i,
			CreatedAt:       now,
		}
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Questionnaires().CreateQuestionnaireTemplate(ctx, tmpl); err != nil {
			return fmt.Errorf("failed to create questionnaire: %w", err)
		}
		for _, q := range questions {
			if err := tx.Questionnaires().CreateQuestion(ctx, q); err != nil {
				return fmt.Errorf("failed to create question: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create questionnaire template",
			slog.String("template_id", tmpl.ID),
			slog.Any("error", err),
		)
		return domain.QuestionnaireTemplate{}, nil, err
	}

	log.Info("questionnaire template created",
		slog.String("template_id", tmpl.ID),
		slog.String("user_id", userID),
		slog.Int("questions", len(questions)),
	)
	return tmpl, questions, nil
}

func (s *TemplateService) ListQuestionnaireTemplates(ctx context.Context, userID string) ([]domain.QuestionnaireTemplate, error) {
	return s.Store.Questionnaires().ListQuestionnaireTemplates(ctx, userID)
}

// GetQuestionnaireTemplate returns one questionnaire with its ordered
// questions, owner-scoped.
func (s *TemplateService) GetQuestionnaireTemplate(ctx context.Context, userID, id string) (domain.QuestionnaireTemplate, []domain.Question, error) {
	tmpl, err := s.Store.Questionnaires().GetQuestionnaireTemplateByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.QuestionnaireTemplate{}, nil, ErrTemplateNotFound
		}
		return domain.QuestionnaireTemplate{}, nil, err
	}
	if tmpl.UserID != userID {
		return domain.QuestionnaireTemplate{}, nil, ErrTemplateNotFound
	}

	questions, err := s.Store.Questionnaires().ListQuestions(ctx, id)
	if err != nil {
		return domain.QuestionnaireTemplate{}, nil, err
	}
	return tmpl, questions, nil
}

func (s *TemplateService) DeleteQuestionnaireTemplate(ctx context.Context, userID, id string) error {
	log := slogx.FromContext(ctx)

	if err := s.Store.Questionnaires().DeleteQuestionnaireTemplate(ctx, id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return err
	}

	log.Info("questionnaire template deleted",
		slog.String("template_id", id),
		slog.String("user_id", userID),
	)
	return nil
}
