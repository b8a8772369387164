package service

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/despacholink/expediente/internal/expediente/domain"
	"github.com/despacholink/expediente/internal/expediente/store"
	"github.com/despacholink/expediente/pkg/cryptox"
	"github.com/despacholink/expediente/pkg/idx"
	"github.com/despacholink/expediente/pkg/slogx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
)

const minPasswordLength = 8

var (
	ErrInvalidSignupRequest   = errors.New("invalid signup request")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrMFACodeRequired        = errors.New("totp code required")
	ErrSessionNotFound        = errors.New("session not found or expired")
	ErrInvalidAccessToken     = errors.New("invalid access token")
)

// SessionService owns firm-user authentication: registration, credential
// sign-in with optional TOTP, and the access/refresh token pair. Access
// tokens are short-lived EdDSA JWTs; refresh tokens are opaque, stored only
// by fingerprint, and rotated on every use.
type SessionService struct {
	Store store.Store

	Issuer     string
	SigningKey ed25519.PrivateKey
	VerifyKey  ed25519.PublicKey

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenPair is one minted access/refresh grant.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Register creates a firm account and its empty branding profile atomically.
func (s *SessionService) Register(ctx context.Context, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, ErrInvalidSignupRequest
	}
	if len(password) < minPasswordLength {
		return domain.User{}, ErrInvalidSignupRequest
	}

	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		profile := domain.Profile{
			ID:        idx.New().String(),
			UserID:    user.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Profiles().CreateProfile(ctx, profile); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("registration attempted with taken email")
			return domain.User{}, ErrEmailAlreadyRegistered
		}
		log.Error("failed to register user", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("email", email),
	)
	return user, nil
}

// SignIn verifies credentials and mints a token pair. When the account has
// TOTP enabled, a valid code is required; its absence is reported distinctly
// so the front-end can prompt for it without re-asking the password.
func (s *SessionService) SignIn(ctx context.Context, email, password, totpCode string) (domain.User, TokenPair, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("sign-in attempted with unknown email")
			return domain.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("sign-in attempted with wrong password",
				slog.String("user_id", user.ID),
			)
			return domain.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return domain.User{}, TokenPair{}, err
	}

	if user.MFAEnabled != nil && user.MFASecret != nil {
		if totpCode == "" {
			return domain.User{}, TokenPair{}, ErrMFACodeRequired
		}
		if !totp.Validate(totpCode, *user.MFASecret) {
			log.Warn("sign-in attempted with invalid totp code",
				slog.String("user_id", user.ID),
			)
			return domain.User{}, TokenPair{}, ErrInvalidTOTPCode
		}
	}

	pair, err := s.mintPair(ctx, user.ID)
	if err != nil {
		return domain.User{}, TokenPair{}, err
	}

	log.Info("user signed in", slog.String("user_id", user.ID))
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented session is revoked and a
// fresh pair is minted. A revoked or expired token yields ErrSessionNotFound.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	log := slogx.FromContext(ctx)

	session, err := s.activeSession(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	var pair TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().RevokeSession(ctx, session.ID); err != nil {
			return err
		}
		pair, err = s.mintPairTx(ctx, tx, session.UserID)
		return err
	})
	if err != nil {
		log.Error("failed to rotate session",
			slog.String("session_id", session.ID),
			slog.Any("error", err),
		)
		return TokenPair{}, err
	}

	log.Debug("session rotated",
		slog.String("user_id", session.UserID),
		slog.String("old_session_id", session.ID),
	)
	return pair, nil
}

// SignOut revokes the session behind a refresh token. Unknown tokens are a
// no-op so sign-out is safe to repeat.
func (s *SessionService) SignOut(ctx context.Context, refreshToken string) error {
	session, err := s.activeSession(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}
	return s.Store.Sessions().RevokeSession(ctx, session.ID)
}

// SignOutAll revokes every session for a user.
func (s *SessionService) SignOutAll(ctx context.Context, userID string) error {
	return s.Store.Sessions().RevokeAllUserSessions(ctx, userID)
}

// VerifyAccess parses and validates an access token, returning the user ID.
func (s *SessionService) VerifyAccess(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.VerifyKey, nil
	},
		jwt.WithIssuer(s.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidAccessToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidAccessToken
	}
	return sub, nil
}

func (s *SessionService) mintPair(ctx context.Context, userID string) (TokenPair, error) {
	var pair TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		pair, err = s.mintPairTx(ctx, tx, userID)
		return err
	})
	return pair, err
}

func (s *SessionService) mintPairTx(ctx context.Context, tx store.Tx, userID string) (TokenPair, error) {
	now := time.Now().UTC()

	refreshToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session := domain.Session{
		ID:        idx.New().String(),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(refreshToken),
		ExpiresAt: now.Add(s.RefreshTTL),
		CreatedAt: now,
	}
	if err := tx.Sessions().CreateSession(ctx, session); err != nil {
		return TokenPair{}, fmt.Errorf("failed to create session: %w", err)
	}

	accessExpiry := now.Add(s.AccessTTL)
	claims := jwt.RegisteredClaims{
		Issuer:    s.Issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(accessExpiry),
		ID:        idx.New().String(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(s.SigningKey)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *SessionService) activeSession(ctx context.Context, refreshToken string) (domain.Session, error) {
	if refreshToken == "" {
		return domain.Session{}, ErrSessionNotFound
	}

	fingerprint := cryptox.FingerprintToken(refreshToken)
	session, err := s.Store.Sessions().GetActiveSessionByTokenHash(ctx, fingerprint)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrSessionNotFound
		}
		return domain.Session{}, err
	}
	return session, nil
}
