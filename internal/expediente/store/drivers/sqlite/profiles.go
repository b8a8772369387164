package sqlite

import (
	"context"

	"github.com/despacholink/expediente/internal/expediente/domain"
)

type profilesRepo struct {
	db dbtx
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, firm_name, firm_logo_key, calendar_link, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.FirmName, p.FirmLogoKey, p.CalendarLink, p.CreatedAt, p.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *profilesRepo) GetProfileByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, firm_name, firm_logo_key, calendar_link, created_at, updated_at
		 FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.ID, &p.UserID, &p.FirmName, &p.FirmLogoKey, &p.CalendarLink, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return p, nil
}

func (r *profilesRepo) UpdateProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles
		 SET firm_name = ?, firm_logo_key = ?, calendar_link = ?, updated_at = ?
		 WHERE user_id = ?`,
		p.FirmName, p.FirmLogoKey, p.CalendarLink, p.UpdatedAt, p.UserID,
	)
	return err
}
