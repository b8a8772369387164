package sqlite

import (
	"context"

	"github.com/despacholink/expediente/internal/expediente/domain"
	"github.com/despacholink/expediente/internal/expediente/store"
)

type questionnairesRepo struct {
	db dbtx
}

func (r *questionnairesRepo) CreateQuestionnaireTemplate(ctx context.Context, t domain.QuestionnaireTemplate) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO questionnaire_templates (id, user_id, name, created_at)
		 VALUES (?, ?, ?, ?)`,
		t.ID, t.UserID, t.Name, t.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *questionnairesRepo) GetQuestionnaireTemplateByID(ctx context.Context, id string) (domain.QuestionnaireTemplate, error) {
	var t domain.QuestionnaireTemplate
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at
		 FROM questionnaire_templates WHERE id = ?`, id,
	).Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt)
	if err != nil {
		return domain.QuestionnaireTemplate{}, mapNotFound(err)
	}
	return t, nil
}

func (r *questionnairesRepo) ListQuestionnaireTemplates(ctx context.Context, userID string) ([]domain.QuestionnaireTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at
		 FROM questionnaire_templates WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.QuestionnaireTemplate
	for rows.Next() {
		var t domain.QuestionnaireTemplate
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *questionnairesRepo) DeleteQuestionnaireTemplate(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM questionnaire_templates WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *questionnairesRepo) CreateQuestion(ctx context.Context, q domain.Question) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO questions (id, questionnaire_id, question_text, order_index, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		q.ID, q.QuestionnaireID, q.QuestionText, q.OrderIndex, q.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *questionnairesRepo) ListQuestions(ctx context.Context, questionnaireID string) ([]domain.Question, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, questionnaire_id, question_text, order_index, created_at
		 FROM questions WHERE questionnaire_id = ? ORDER BY order_index ASC`, questionnaireID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.QuestionnaireID, &q.QuestionText, &q.OrderIndex, &q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
