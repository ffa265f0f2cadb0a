package services_test

import (
	"context"
	"testing"
	"time"

	"media-board-backend/internal/models"
	"media-board-backend/internal/repository"
	"media-board-backend/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserStore is an in-memory credential store for auth tests
type fakeUserStore struct {
	byID    map[uuid.UUID]*models.User
	byEmail map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]*models.User),
	}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func newAuthService(ttl time.Duration) (*services.AuthService, *fakeUserStore) {
	store := newFakeUserStore()
	return services.NewAuthService(store, "test-secret", ttl), store
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newAuthService(time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, services.RegisterRequest{
		Username: "alice",
		Email:    "a@x.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", user.PasswordHash, "password must never be stored in clear")

	tests := []struct {
		name     string
		email    string
		password string
		wantUser bool
	}{
		{name: "valid credentials", email: "a@x.com", password: "correct horse", wantUser: true},
		{name: "wrong password", email: "a@x.com", password: "battery staple", wantUser: false},
		{name: "unknown email", email: "b@x.com", password: "correct horse", wantUser: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Authenticate(ctx, tt.email, tt.password)
			// a mismatch is absence, never a distinguishable error
			require.NoError(t, err)
			if tt.wantUser {
				require.NotNil(t, got)
				assert.Equal(t, user.ID, got.ID)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, services.RegisterRequest{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, services.RegisterRequest{Email: "a@x.com", Password: "pw2"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestAuthenticateInactiveUser(t *testing.T) {
	svc, store := newAuthService(time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, services.RegisterRequest{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	store.byEmail[user.Email].Active = false

	got, err := svc.Authenticate(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTokenRoundTrip(t *testing.T) {
	svc, _ := newAuthService(time.Hour)
	userID := uuid.New()

	token, err := svc.IssueToken(userID)
	require.NoError(t, err)

	subject, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, subject)
}

func TestValidateTokenExpired(t *testing.T) {
	// negative lifetime puts the expiry in the past at issue time
	svc, _ := newAuthService(-time.Minute)

	token, err := svc.IssueToken(uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, services.ErrTokenExpired)
}

func TestValidateTokenTampered(t *testing.T) {
	issuer, _ := newAuthService(time.Hour)
	verifier := services.NewAuthService(newFakeUserStore(), "other-secret", time.Hour)

	token, err := issuer.IssueToken(uuid.New())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong signing key", token: token},
		{name: "garbage token", token: "not-a-token"},
		{name: "empty token", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.ValidateToken(tt.token)
			assert.ErrorIs(t, err, services.ErrInvalidToken)
		})
	}
}

func TestValidateTokenExpiryAfterSignature(t *testing.T) {
	// an expired token signed with the wrong key must fail as invalid,
	// not as expired: the signature check runs first
	issuer := services.NewAuthService(newFakeUserStore(), "other-secret", -time.Minute)
	verifier, _ := newAuthService(time.Hour)

	token, err := issuer.IssueToken(uuid.New())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}
