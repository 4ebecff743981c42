package service

import (
	"context"
	"time"

	"studio_backend/internal/auth/password"
	"studio_backend/internal/auth/repository"
	"studio_backend/internal/auth/token"
	"studio_backend/internal/events"
	"studio_backend/platform/apperr"
	"studio_backend/platform/config"
	"studio_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"

	resetTokenTTL = time.Hour
)

// Store is the persistence surface the auth service needs. The pgx-backed
// repository satisfies it; tests substitute a fake.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash string, roles []string) (repository.User, error)
	GetUserByEmail(ctx context.Context, email string) (repository.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (repository.User, error)
	CountUsers(ctx context.Context) (int64, error)
	ListUsers(ctx context.Context) ([]repository.UserWithRoles, error)
	GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
	SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
	CreateUserToken(ctx context.Context, userID uuid.UUID, tokenHash, tokenType string, expiresAt time.Time) error
	GetUserToken(ctx context.Context, tokenHash, tokenType string) (uuid.UUID, time.Time, error)
	UseUserToken(ctx context.Context, tokenHash, tokenType string) error
}

type Service struct {
	store Store
	cfg   config.AuthServiceConfig
	bus   events.Bus
	log   *logger.Logger
}

func New(store Store, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, cfg: cfg, bus: bus, log: log}
}

// Profile is the user view exposed to handlers.
type Profile struct {
	ID        uuid.UUID
	Email     string
	Roles     []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SignIn verifies credentials and issues an access/refresh token pair.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (string, string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", apperr.Unauthorized("invalid credentials")
	}
	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("sign_in", email, false, "wrong password")
		return "", "", apperr.Unauthorized("invalid credentials")
	}

	s.log.AuthEvent("sign_in", email, true, "")
	return s.issueTokens(ctx, user.ID)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	hash := token.HashSHA256(refreshToken)
	userID, expiresAt, err := s.store.GetRefreshToken(ctx, hash)
	if err != nil {
		return "", "", apperr.Unauthorized("invalid refresh token")
	}

	if time.Now().After(expiresAt) {
		_ = s.store.RevokeRefreshToken(ctx, hash)
		return "", "", apperr.Unauthorized("refresh token expired")
	}

	_ = s.store.RevokeRefreshToken(ctx, hash)
	return s.issueTokens(ctx, userID)
}

func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	hash := token.HashSHA256(refreshToken)
	return s.store.RevokeRefreshToken(ctx, hash)
}

// ForgotPassword issues a reset token and publishes the event that triggers
// the reset email. An unknown address returns success so the endpoint cannot
// be used to probe which accounts exist.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil
	}

	resetToken, err := token.GenerateRandomToken(32)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "generate reset token", err)
	}

	resetHash := token.HashSHA256(resetToken)
	expiresAt := time.Now().Add(resetTokenTTL)
	if err := s.store.CreateUserToken(ctx, user.ID, resetHash, repository.TokenTypePasswordReset, expiresAt); err != nil {
		return apperr.Wrap(apperr.KindInternal, "store reset token", err)
	}

	s.bus.Publish(ctx, events.PasswordResetRequested{
		BaseEvent:  events.NewBaseEvent(),
		UserID:     user.ID,
		Email:      user.Email,
		ResetToken: resetToken,
	})
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	hash := token.HashSHA256(rawToken)
	userID, expiresAt, err := s.store.GetUserToken(ctx, hash, repository.TokenTypePasswordReset)
	if err != nil {
		return apperr.Unauthorized("invalid reset token")
	}
	if time.Now().After(expiresAt) {
		return apperr.Unauthorized("reset token expired")
	}

	passwordHash, err := password.Hash(newPassword)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "hash password", err)
	}
	if err := s.store.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return apperr.Wrap(apperr.KindInternal, "update password", err)
	}

	_ = s.store.UseUserToken(ctx, hash, repository.TokenTypePasswordReset)
	_ = s.store.RevokeAllRefreshTokens(ctx, userID)
	s.log.AuthEvent("password_reset", userID.String(), true, "")
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return apperr.NotFound("user")
	}
	if err := password.Compare(user.PasswordHash, currentPassword); err != nil {
		return apperr.Unauthorized("current password is incorrect")
	}

	passwordHash, err := password.Hash(newPassword)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "hash password", err)
	}
	if err := s.store.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return apperr.Wrap(apperr.KindInternal, "update password", err)
	}
	return s.store.RevokeAllRefreshTokens(ctx, userID)
}

// SignUp creates the initial admin account. It only works while the user
// table is empty; after that, accounts are created by an admin.
func (s *Service) SignUp(ctx context.Context, email, plainPassword string) (Profile, error) {
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return Profile{}, apperr.Wrap(apperr.KindInternal, "count users", err)
	}
	if count > 0 {
		return Profile{}, apperr.Forbidden("sign-up is closed")
	}
	return s.CreateUser(ctx, email, plainPassword, []string{"admin"})
}

// CreateUser adds a back-office account with the given roles.
func (s *Service) CreateUser(ctx context.Context, email, plainPassword string, roles []string) (Profile, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return Profile{}, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}

	user, err := s.store.CreateUser(ctx, email, hash, roles)
	if err != nil {
		return Profile{}, apperr.Conflict("email already registered")
	}

	return Profile{ID: user.ID, Email: user.Email, Roles: roles, CreatedAt: user.CreatedAt, UpdatedAt: user.UpdatedAt}, nil
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (Profile, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return Profile{}, apperr.NotFound("user")
	}
	roles, err := s.store.GetUserRoles(ctx, userID)
	if err != nil {
		return Profile{}, apperr.Wrap(apperr.KindInternal, "load roles", err)
	}
	return Profile{ID: user.ID, Email: user.Email, Roles: roles, CreatedAt: user.CreatedAt, UpdatedAt: user.UpdatedAt}, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]repository.UserWithRoles, error) {
	return s.store.ListUsers(ctx)
}

func (s *Service) SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error {
	return s.store.SetUserRoles(ctx, userID, roles)
}

func (s *Service) issueTokens(ctx context.Context, userID uuid.UUID) (string, string, error) {
	roles, err := s.store.GetUserRoles(ctx, userID)
	if err != nil {
		return "", "", apperr.Wrap(apperr.KindInternal, "load roles", err)
	}

	accessToken, err := s.signJWT(userID, roles, s.cfg.GetAccessTokenTTL(), accessTokenType, s.cfg.GetJWTAccessSecret())
	if err != nil {
		return "", "", apperr.Wrap(apperr.KindInternal, "sign access token", err)
	}

	refreshToken, err := token.GenerateRandomToken(48)
	if err != nil {
		return "", "", apperr.Wrap(apperr.KindInternal, "generate refresh token", err)
	}

	hash := token.HashSHA256(refreshToken)
	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.store.CreateRefreshToken(ctx, userID, hash, expiresAt); err != nil {
		return "", "", apperr.Wrap(apperr.KindInternal, "store refresh token", err)
	}

	return accessToken, refreshToken, nil
}

func (s *Service) signJWT(userID uuid.UUID, roles []string, ttl time.Duration, tokenType, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  tokenType,
		"roles": roles,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}
	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(secret))
}
