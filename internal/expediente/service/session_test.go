package service

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.sessions.Register(ctx, "not-an-email", "correct-horse")
	require.ErrorIs(t, err, ErrInvalidSignupRequest)

	_, err = f.sessions.Register(ctx, "ok@example.com", "short")
	require.ErrorIs(t, err, ErrInvalidSignupRequest)

	// The fixture already registered this address.
	_, err = f.sessions.Register(ctx, "firm@example.com", "correct-horse")
	require.ErrorIs(t, err, ErrEmailAlreadyRegistered)

	// Email comparison is case-insensitive.
	_, err = f.sessions.Register(ctx, "FIRM@example.com", "correct-horse")
	require.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestSignInAndVerifyAccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _, err := f.sessions.SignIn(ctx, "firm@example.com", "wrong-password", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.sessions.SignIn(ctx, "nobody@example.com", "correct-horse", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	user, pair, err := f.sessions.SignIn(ctx, "firm@example.com", "correct-horse", "")
	require.NoError(t, err)
	require.Equal(t, f.userID, user.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	subject, err := f.sessions.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, f.userID, subject)

	_, err = f.sessions.VerifyAccess(pair.AccessToken + "tampered")
	require.ErrorIs(t, err, ErrInvalidAccessToken)

	_, err = f.sessions.VerifyAccess("")
	require.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestRefreshRotatesSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, pair, err := f.sessions.SignIn(ctx, "firm@example.com", "correct-horse", "")
	require.NoError(t, err)

	rotated, err := f.sessions.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old refresh token was revoked by the rotation.
	_, err = f.sessions.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionNotFound)

	// The new one still works.
	_, err = f.sessions.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, pair, err := f.sessions.SignIn(ctx, "firm@example.com", "correct-horse", "")
	require.NoError(t, err)

	require.NoError(t, f.sessions.SignOut(ctx, pair.RefreshToken))
	_, err = f.sessions.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionNotFound)

	// Repeating a sign-out is a no-op.
	require.NoError(t, f.sessions.SignOut(ctx, pair.RefreshToken))
}

func TestSignOutAllRevokesEverySession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, first, err := f.sessions.SignIn(ctx, "firm@example.com", "correct-horse", "")
	require.NoError(t, err)
	_, second, err := f.sessions.SignIn(ctx, "firm@example.com", "correct-horse", "")
	require.NoError(t, err)

	require.NoError(t, f.sessions.SignOutAll(ctx, f.userID))

	_, err = f.sessions.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, err = f.sessions.Refresh(ctx, second.RefreshToken)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSignInWithTOTP(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	enrollment, err := f.mfa.EnrollTOTP(ctx, f.userID)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.URL, "otpauth://totp/")

	// The secret is staged, not active: sign-in still works without a code.
	_, _, err = f.sessions.SignIn(ctx, "firm@example.com", "correct-horse", "")
	require.NoError(t, err)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.mfa.VerifyTOTP(ctx, f.userID, code))

	// Now active: a missing code is flagged distinctly, a bad code rejected.
	_, _, err = f.sessions.SignIn(ctx, "firm@example.com", "correct-horse", "")
	require.ErrorIs(t, err, ErrMFACodeRequired)

	_, _, err = f.sessions.SignIn(ctx, "firm@example.com", "correct-horse", "000000")
	require.ErrorIs(t, err, ErrInvalidTOTPCode)

	code, err = totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	_, pair, err := f.sessions.SignIn(ctx, "firm@example.com", "correct-horse", code)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	// Disable requires a live code, then sign-in drops the requirement.
	require.ErrorIs(t, f.mfa.DisableTOTP(ctx, f.userID, "000000"), ErrInvalidTOTPCode)
	code, err = totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.mfa.DisableTOTP(ctx, f.userID, code))

	_, _, err = f.sessions.SignIn(ctx, "firm@example.com", "correct-horse", "")
	require.NoError(t, err)
}

func TestEnrollTOTPRejectsWhenAlreadyEnabled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	enrollment, err := f.mfa.EnrollTOTP(ctx, f.userID)
	require.NoError(t, err)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.mfa.VerifyTOTP(ctx, f.userID, code))

	_, err = f.mfa.EnrollTOTP(ctx, f.userID)
	require.ErrorIs(t, err, ErrMFAAlreadyEnabled)
}
