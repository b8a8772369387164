package sqlite

import (
	"context"
	"database/sql"

	"github.com/despacholink/expediente/internal/expediente/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested transactions are not supported.
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil } // applied before any tx starts

func (t *txStore) Users() store.Users                         { return &usersRepo{db: t.tx} }
func (t *txStore) Sessions() store.Sessions                   { return &sessionsRepo{db: t.tx} }
func (t *txStore) Profiles() store.Profiles                   { return &profilesRepo{db: t.tx} }
func (t *txStore) ContractTemplates() store.ContractTemplates { return &contractTemplatesRepo{db: t.tx} }
func (t *txStore) Questionnaires() store.Questionnaires       { return &questionnairesRepo{db: t.tx} }
func (t *txStore) Clients() store.Clients                     { return &clientsRepo{db: t.tx} }
func (t *txStore) Documents() store.Documents                 { return &documentsRepo{db: t.tx} }
func (t *txStore) Answers() store.Answers                     { return &answersRepo{db: t.tx} }
