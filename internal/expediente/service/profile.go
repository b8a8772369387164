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
	"github.com/despacholink/expediente/pkg/slogx"
)

var ErrLogoNotFound = errors.New("firm logo not found")

// ProfileService manages a firm user's branding profile. A profile row is
// created alongside the user at registration, so reads never 404 for a
// valid user.
type ProfileService struct {
	Store store.Store
	Blob  blob.Store
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	return s.Store.Profiles().GetProfileByUserID(ctx, userID)
}

// UpdateProfile replaces the firm name and calendar link. The logo key is
// managed separately through UploadLogo.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID, firmName, calendarLink string) (domain.Profile, error) {
	log := slogx.FromContext(ctx)

	profile, err := s.Store.Profiles().GetProfileByUserID(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}

	profile.FirmName = firmName
	profile.CalendarLink = calendarLink
	profile.UpdatedAt = time.Now().UTC()

	if err := s.Store.Profiles().UpdateProfile(ctx, profile); err != nil {
		log.Error("failed to update profile",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return domain.Profile{}, err
	}

	log.Info("profile updated", slog.String("user_id", userID))
	return profile, nil
}

// UploadLogo stores the firm logo blob and points the profile at it. The key
// is stable per user, so re-uploads overwrite in place.
func (s *ProfileService) UploadLogo(ctx context.Context, userID string, data []byte) (domain.Profile, error) {
	log := slogx.FromContext(ctx)

	if len(data) == 0 {
		return domain.Profile{}, ErrInvalidPortalRequest
	}

	profile, err := s.Store.Profiles().GetProfileByUserID(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}

	key := fmt.Sprintf("profiles/%s/logo", userID)
	if err := s.Blob.Put(ctx, key, data); err != nil {
		log.Error("failed to store logo blob",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return domain.Profile{}, err
	}

	profile.FirmLogoKey = key
	profile.UpdatedAt = time.Now().UTC()
	if err := s.Store.Profiles().UpdateProfile(ctx, profile); err != nil {
		return domain.Profile{}, err
	}

	log.Info("firm logo uploaded", slog.String("user_id", userID))
	return profile, nil
}

// LogoFile returns the stored logo bytes for a profile. Used by both the
// dashboard and the portal, which renders the firm's branding to clients.
func (s *ProfileService) LogoFile(ctx context.Context, userID string) ([]byte, error) {
	profile, err := s.Store.Profiles().GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.FirmLogoKey == "" {
		return nil, ErrLogoNotFound
	}

	data, err := s.Blob.Get(ctx, profile.FirmLogoKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, ErrLogoNotFound
		}
		return nil, err
	}
	return data, nil
}
