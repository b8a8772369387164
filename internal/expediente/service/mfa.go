package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/despacholink/expediente/internal/expediente/store"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var (
	ErrInvalidTOTPCode   = errors.New("invalid TOTP code")
	ErrMFANotEnabled     = errors.New("MFA not enabled for this account")
	ErrMFAAlreadyEnabled = errors.New("MFA already enabled for this account")
	ErrMFANotEnrolled    = errors.New("MFA not enrolled yet")
)

// MFAService handles TOTP enrollment for firm accounts. Enrollment stages a
// secret; MFA only becomes active once the first code verifies.
type MFAService struct {
	Store  store.Store
	Issuer string
}

// MFAEnrollment is returned from EnrollTOTP so the dashboard can render the
// provisioning QR code.
type MFAEnrollment struct {
	Secret  string
	URL     string
	Issuer  string
	Account string
}

// EnrollTOTP generates and stages a TOTP secret. MFA stays disabled until
// VerifyTOTP confirms the authenticator is set up correctly.
func (s *MFAService) EnrollTOTP(ctx context.Context, userID string) (MFAEnrollment, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return MFAEnrollment{}, err
	}
	if user.MFAEnabled != nil {
		return MFAEnrollment{}, ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return MFAEnrollment{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	if err := s.Store.Users().UpdateMFASecret(ctx, userID, key.Secret()); err != nil {
		return MFAEnrollment{}, fmt.Errorf("failed to stage MFA secret: %w", err)
	}

	return MFAEnrollment{
		Secret:  key.Secret(),
		URL:     key.URL(),
		Issuer:  s.Issuer,
		Account: user.Email,
	}, nil
}

// VerifyTOTP checks the first code against the staged secret and enables MFA.
func (s *MFAService) VerifyTOTP(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.MFASecret == nil || *user.MFASecret == "" {
		return ErrMFANotEnrolled
	}
	if user.MFAEnabled != nil {
		return ErrMFAAlreadyEnabled
	}

	if !totp.Validate(code, *user.MFASecret) {
		return ErrInvalidTOTPCode
	}

	return s.Store.Users().EnableMFA(ctx, userID)
}

// DisableTOTP removes MFA after a final code check proves possession of the
// authenticator.
func (s *MFAService) DisableTOTP(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.MFAEnabled == nil || user.MFASecret == nil || *user.MFASecret == "" {
		return ErrMFANotEnabled
	}

	if !totp.Validate(code, *user.MFASecret) {
		return ErrInvalidTOTPCode
	}

	return s.Store.Users().DisableMFA(ctx, userID)
}
