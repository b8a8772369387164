package sqlite

import (
	"context"
	"time"

	"github.com/despacholink/expediente/internal/expediente/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, token_hash, expires_at, revoked, created_at)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		s.ID, s.UserID, s.TokenHash, s.ExpiresAt, s.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetActiveSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error) {
	var s domain.Session
	var revoked int
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, revoked, created_at
		 FROM sessions
		 WHERE token_hash = ? AND revoked = 0 AND expires_at > ?`,
		hash, time.Now().UTC(),
	).Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &revoked, &s.CreatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.Revoked = revoked != 0
	return s, nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET revoked = 1 WHERE id = ?`, id)
	return err
}

func (r *sessionsRepo) RevokeAllUserSessions(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET revoked = 1 WHERE user_id = ?`, userID)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
