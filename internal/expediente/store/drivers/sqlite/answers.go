package sqlite

import (
	"context"

	"github.com/despacholink/expediente/internal/expediente/domain"
)

type answersRepo struct {
	db dbtx
}

func (r *answersRepo) CreateAnswer(ctx context.Context, a domain.ClientAnswer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO client_answers (id, client_id, question_id, answer_text, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.ClientID, a.QuestionID, a.AnswerText, a.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *answersRepo) ListAnswersByClient(ctx context.Context, clientID string) ([]domain.ClientAnswer, error) {
	// Display order comes from the question's order index, not insertion order.
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.client_id, a.question_id, a.answer_text, a.created_at,
		        q.question_text, q.order_index
		 FROM client_answers a
		 JOIN questions q ON q.id = a.question_id
		 WHERE a.client_id = ?
		 ORDER BY q.order_index ASC, a.created_at ASC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ClientAnswer
	for rows.Next() {
		var a domain.ClientAnswer
		if err := rows.Scan(&a.ID, &a.ClientID, &a.QuestionID, &a.AnswerText, &a.CreatedAt,
			&a.QuestionText, &a.OrderIndex); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *answersRepo) CountDistinctAnsweredQuestions(ctx context.Context, clientID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT question_id) FROM client_answers WHERE client_id = ?`, clientID,
	).Scan(&n)
	return n, err
}
