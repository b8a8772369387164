package sqlite

import (
	"context"

	"github.com/despacholink/expediente/internal/expediente/domain"
)

type documentsRepo struct {
	db dbtx
}

func (r *documentsRepo) CreateDocument(ctx context.Context, d domain.ClientDocument) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO client_documents (id, client_id, document_type, file_key, file_name, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.ClientID, string(d.DocumentType), d.FileKey, d.FileName, d.UploadedAt,
	)
	return mapConstraint(err)
}

func (r *documentsRepo) ListDocumentsByClient(ctx context.Context, clientID string) ([]domain.ClientDocument, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, client_id, document_type, file_key, file_name, uploaded_at
		 FROM client_documents WHERE client_id = ? ORDER BY uploaded_at ASC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ClientDocument
	for rows.Next() {
		var d domain.ClientDocument
		var docType string
		if err := rows.Scan(&d.ID, &d.ClientID, &docType, &d.FileKey, &d.FileName, &d.UploadedAt); err != nil {
			return nil, err
		}
		d.DocumentType = domain.DocumentType(docType)
		out = append(out, d)
	}
	return out, rows.Err()
}
