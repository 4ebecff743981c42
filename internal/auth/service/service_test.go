package service

import (
	"context"
	"testing"
	"time"

	"studio_backend/internal/auth/password"
	"studio_backend/internal/auth/repository"
	"studio_backend/internal/auth/token"
	"studio_backend/internal/events"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	users         map[uuid.UUID]repository.User
	roles         map[uuid.UUID][]string
	refreshTokens map[string]refreshEntry
	userTokens    map[string]tokenEntry
}

type refreshEntry struct {
	userID    uuid.UUID
	expiresAt time.Time
	revoked   bool
}

type tokenEntry struct {
	userID    uuid.UUID
	tokenType string
	expiresAt time.Time
	used      bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[uuid.UUID]repository.User),
		roles:         make(map[uuid.UUID][]string),
		refreshTokens: make(map[string]refreshEntry),
		userTokens:    make(map[string]tokenEntry),
	}
}

func (f *fakeStore) addUser(email, plainPassword string, roles []string) uuid.UUID {
	hash, _ := password.Hash(plainPassword)
	id := uuid.New()
	f.users[id] = repository.User{ID: id, Email: email, PasswordHash: hash, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.roles[id] = roles
	return id
}

func (f *fakeStore) CreateUser(ctx context.Context, email, passwordHash string, roles []string) (repository.User, error) {
	id := uuid.New()
	user := repository.User{ID: id, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.users[id] = user
	f.roles[id] = roles
	return user, nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (repository.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (f *fakeStore) GetUserByID(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]repository.UserWithRoles, error) {
	var out []repository.UserWithRoles
	for id, u := range f.users {
		out = append(out, repository.UserWithRoles{ID: id, Email: u.Email, Roles: f.roles[id]})
	}
	return out, nil
}

func (f *fakeStore) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return f.roles[userID], nil
}

func (f *fakeStore) SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error {
	f.roles[userID] = roles
	return nil
}

func (f *fakeStore) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	u := f.users[userID]
	u.PasswordHash = passwordHash
	f.users[userID] = u
	return nil
}

func (f *fakeStore) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	f.refreshTokens[tokenHash] = refreshEntry{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeStore) GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	e, ok := f.refreshTokens[tokenHash]
	if !ok || e.revoked {
		return uuid.Nil, time.Time{}, repository.ErrNotFound
	}
	return e.userID, e.expiresAt, nil
}

func (f *fakeStore) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	if e, ok := f.refreshTokens[tokenHash]; ok {
		e.revoked = true
		f.refreshTokens[tokenHash] = e
	}
	return nil
}

func (f *fakeStore) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	for hash, e := range f.refreshTokens {
		if e.userID == userID {
			e.revoked = true
			f.refreshTokens[hash] = e
		}
	}
	return nil
}

func (f *fakeStore) CreateUserToken(ctx context.Context, userID uuid.UUID, tokenHash, tokenType string, expiresAt time.Time) error {
	f.userTokens[tokenHash] = tokenEntry{userID: userID, tokenType: tokenType, expiresAt: expiresAt}
	return nil
}

func (f *fakeStore) GetUserToken(ctx context.Context, tokenHash, tokenType string) (uuid.UUID, time.Time, error) {
	e, ok := f.userTokens[tokenHash]
	if !ok || e.used || e.tokenType != tokenType {
		return uuid.Nil, time.Time{}, repository.ErrNotFound
	}
	return e.userID, e.expiresAt, nil
}

func (f *fakeStore) UseUserToken(ctx context.Context, tokenHash, tokenType string) error {
	if e, ok := f.userTokens[tokenHash]; ok {
		e.used = true
		f.userTokens[tokenHash] = e
	}
	return nil
}

type captureBus struct {
	published []events.Event
}

func (b *captureBus) Publish(ctx context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *captureBus) PublishSync(ctx context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *captureBus) Subscribe(eventName string, handler events.Handler) {}

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string        { return "test-access-secret" }
func (testConfig) GetJWTRefreshSecret() string       { return "test-refresh-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (testConfig) GetRefreshTokenTTL() time.Duration { return 720 * time.Hour }

func newTestService(store *fakeStore, bus *captureBus) *Service {
	return New(store, testConfig{}, bus, logger.New("development"))
}

func TestSignIn_Success(t *testing.T) {
	store := newFakeStore()
	store.addUser("studio@example.com", "correct-horse", []string{"admin"})
	svc := newTestService(store, &captureBus{})

	access, refresh, err := svc.SignIn(context.Background(), "studio@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("expected sign-in to succeed, got %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected both tokens, got access=%q refresh=%q", access, refresh)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	store := newFakeStore()
	store.addUser("studio@example.com", "correct-horse", []string{"admin"})
	svc := newTestService(store, &captureBus{})

	_, _, err := svc.SignIn(context.Background(), "studio@example.com", "wrong")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestSignIn_UnknownEmail(t *testing.T) {
	svc := newTestService(newFakeStore(), &captureBus{})

	_, _, err := svc.SignIn(context.Background(), "nobody@example.com", "whatever")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	store := newFakeStore()
	store.addUser("studio@example.com", "correct-horse", []string{"admin"})
	svc := newTestService(store, &captureBus{})

	_, refresh, err := svc.SignIn(context.Background(), "studio@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("sign-in: %v", err)
	}

	_, newRefresh, err := svc.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("expected refresh to succeed, got %v", err)
	}
	if newRefresh == refresh {
		t.Fatalf("expected a rotated refresh token")
	}

	// The old token must be unusable after rotation.
	if _, _, err := svc.Refresh(context.Background(), refresh); err == nil {
		t.Fatalf("expected old refresh token to be revoked")
	}
}

func TestRefresh_Expired(t *testing.T) {
	store := newFakeStore()
	id := store.addUser("studio@example.com", "correct-horse", []string{"admin"})
	svc := newTestService(store, &captureBus{})

	raw, _ := token.GenerateRandomToken(48)
	store.refreshTokens[token.HashSHA256(raw)] = refreshEntry{userID: id, expiresAt: time.Now().Add(-time.Minute)}

	if _, _, err := svc.Refresh(context.Background(), raw); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}
}

func TestForgotPassword_PublishesEvent(t *testing.T) {
	store := newFakeStore()
	store.addUser("studio@example.com", "correct-horse", []string{"admin"})
	bus := &captureBus{}
	svc := newTestService(store, bus)

	if err := svc.ForgotPassword(context.Background(), "studio@example.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	if len(bus.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(bus.published))
	}
	evt, ok := bus.published[0].(events.PasswordResetRequested)
	if !ok {
		t.Fatalf("expected PasswordResetRequested, got %T", bus.published[0])
	}
	if evt.ResetToken == "" {
		t.Fatalf("expected reset token in event")
	}
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	bus := &captureBus{}
	svc := newTestService(newFakeStore(), bus)

	if err := svc.ForgotPassword(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("expected nil for unknown email, got %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no events for unknown email")
	}
}

func TestResetPassword_Flow(t *testing.T) {
	store := newFakeStore()
	store.addUser("studio@example.com", "old-password", []string{"admin"})
	bus := &captureBus{}
	svc := newTestService(store, bus)

	if err := svc.ForgotPassword(context.Background(), "studio@example.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	raw := bus.published[0].(events.PasswordResetRequested).ResetToken

	if err := svc.ResetPassword(context.Background(), raw, "brand-new-password"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	if _, _, err := svc.SignIn(context.Background(), "studio@example.com", "old-password"); err == nil {
		t.Fatalf("expected old password to be rejected")
	}
	if _, _, err := svc.SignIn(context.Background(), "studio@example.com", "brand-new-password"); err != nil {
		t.Fatalf("expected new password to work, got %v", err)
	}

	// A reset token is single use.
	if err := svc.ResetPassword(context.Background(), raw, "another-password"); err == nil {
		t.Fatalf("expected used token to be rejected")
	}
}

func TestSignUp_ClosedAfterFirstUser(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &captureBus{})

	profile, err := svc.SignUp(context.Background(), "owner@example.com", "first-password")
	if err != nil {
		t.Fatalf("expected first sign-up to succeed, got %v", err)
	}
	if len(profile.Roles) != 1 || profile.Roles[0] != "admin" {
		t.Fatalf("expected first account to be admin, got %v", profile.Roles)
	}

	if _, err := svc.SignUp(context.Background(), "second@example.com", "second-password"); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected sign-up to be closed, got %v", err)
	}
}
