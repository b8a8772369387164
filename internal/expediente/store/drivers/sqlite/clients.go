package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/despacholink/expediente/internal/expediente/domain"
	"github.com/despacholink/expediente/internal/expediente/store"
)

type clientsRepo struct {
	db dbtx
}

const clientColumns = `id, user_id, client_name, case_name, status, magic_link_token, link_used,
	contract_template_id, questionnaire_template_id, required_documents,
	signature_data, signature_timestamp, signature_ip, signature_hash,
	completed_at, created_at`

func scanClient(scan func(dest ...any) error) (domain.Client, error) {
	var c domain.Client
	var status string
	var linkUsed int
	var requiredDocs string
	var completedAt sql.NullTime

	err := scan(
		&c.ID, &c.UserID, &c.ClientName, &c.CaseName, &status, &c.MagicLinkToken, &linkUsed,
		&c.ContractTemplateID, &c.QuestionnaireTemplateID, &requiredDocs,
		&c.SignatureData, &c.SignatureTimestamp, &c.SignatureIP, &c.SignatureHash,
		&completedAt, &c.CreatedAt,
	)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}

	c.Status = domain.ClientStatus(status)
	c.LinkUsed = linkUsed != 0
	c.RequiredDocuments = splitDocTypes(requiredDocs)
	c.CompletedAt = mapNullTimePtr(completedAt)
	return c, nil
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (id, user_id, client_name, case_name, status, magic_link_token, link_used,
		     contract_template_id, questionnaire_template_id, required_documents, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.ClientName, c.CaseName, string(c.Status), c.MagicLinkToken,
		c.ContractTemplateID, c.QuestionnaireTemplateID, joinDocTypes(c.RequiredDocuments), c.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *clientsRepo) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	return scanClient(r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id).Scan)
}

func (r *clientsRepo) GetClientByIDForUser(ctx context.Context, id, userID string) (domain.Client, error) {
	return scanClient(r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ? AND user_id = ?`, id, userID).Scan)
}

func (r *clientsRepo) GetClientByToken(ctx context.Context, token string) (domain.Client, error) {
	return scanClient(r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE magic_link_token = ?`, token).Scan)
}

func (r *clientsRepo) ListClientsByUser(ctx context.Context, userID string) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Client
	for rows.Next() {
		c, err := scanClient(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *clientsRepo) SetSignature(ctx context.Context, clientID, data, timestamp, ip, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients
		 SET signature_data = ?, signature_timestamp = ?, signature_ip = ?, signature_hash = ?
		 WHERE id = ?`,
		data, timestamp, ip, hash, clientID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *clientsRepo) CompleteClient(ctx context.Context, clientID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients
		 SET status = ?, link_used = 1, completed_at = ?
		 WHERE id = ?`,
		string(domain.StatusCompleted), time.Now().UTC(), clientID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *clientsRepo) DeleteClientForUser(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM clients WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
