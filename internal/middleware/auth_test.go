package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"media-board-backend/internal/middleware"
	"media-board-backend/internal/models"
	"media-board-backend/internal/repository"
	"media-board-backend/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserStore struct{}

func (stubUserStore) Create(context.Context, *models.User) error { return nil }
func (stubUserStore) GetByID(context.Context, uuid.UUID) (*models.User, error) {
	return nil, repository.ErrNotFound
}
func (stubUserStore) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func TestAuthMiddleware(t *testing.T) {
	auth := services.NewAuthService(stubUserStore{}, "test-secret", time.Hour)
	expiredAuth := services.NewAuthService(stubUserStore{}, "test-secret", -time.Minute)

	userID := uuid.New()
	validToken, err := auth.IssueToken(userID)
	require.NoError(t, err)
	expiredToken, err := expiredAuth.IssueToken(userID)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUserID uuid.UUID
	}{
		{name: "valid bearer token", header: "Bearer " + validToken, wantStatus: http.StatusOK, wantUserID: userID},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + validToken, wantStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "tampered token", header: "Bearer " + validToken + "x", wantStatus: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expiredToken, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID = middleware.GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			middleware.AuthMiddleware(auth)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantUserID, gotUserID)
			}
		})
	}
}

func TestGetUserIDWithoutAuth(t *testing.T) {
	assert.Equal(t, uuid.Nil, middleware.GetUserID(context.Background()))
}
