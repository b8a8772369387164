package sqlite

import (
	"context"

	"github.com/despacholink/expediente/internal/expediente/domain"
	"github.com/despacholink/expediente/internal/expediente/store"
)

type contractTemplatesRepo struct {
	db dbtx
}

func (r *contractTemplatesRepo) CreateContractTemplate(ctx context.Context, t domain.ContractTemplate) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contract_templates (id, user_id, name, file_key, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Name, t.FileKey, t.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *contractTemplatesRepo) GetContractTemplateByID(ctx context.Context, id string) (domain.ContractTemplate, error) {
	var t domain.ContractTemplate
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, file_key, created_at
		 FROM contract_templates WHERE id = ?`, id,
	).Scan(&t.ID, &t.UserID, &t.Name, &t.FileKey, &t.CreatedAt)
	if err != nil {
		return domain.ContractTemplate{}, mapNotFound(err)
	}
	return t, nil
}

func (r *contractTemplatesRepo) ListContractTemplates(ctx context.Context, userID string) ([]domain.ContractTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, file_key, created_at
		 FROM contract_templates WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ContractTemplate
	for rows.Next() {
		var t domain.ContractTemplate
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.FileKey, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *contractTemplatesRepo) DeleteContractTemplate(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM contract_templates WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
