package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"media-board-backend/internal/models"
	"media-board-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserRepoMock(t *testing.T) (*repository.UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return repository.NewUserRepository(mock), mock
}

func testUser() *models.User {
	now := time.Now().UTC()
	return &models.User{
		ID:           uuid.New(),
		Username:     "alice",
		FullName:     "Alice Example",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserCreate(t *testing.T) {
	insertSQL := regexp.QuoteMeta(`INSERT INTO users (id, username, full_name, email, password_hash, active, created_at, updated_at)`)

	tests := []struct {
		name        string
		mockSetup   func(mock pgxmock.PgxPoolIface, user *models.User)
		expectedErr error
	}{
		{
			name: "success",
			mockSetup: func(mock pgxmock.PgxPoolIface, user *models.User) {
				mock.ExpectExec(insertSQL).
					WithArgs(user.ID, user.Username, user.FullName, user.Email,
						user.PasswordHash, user.Active, user.CreatedAt, user.UpdatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "duplicate email",
			mockSetup: func(mock pgxmock.PgxPoolIface, user *models.User) {
				mock.ExpectExec(insertSQL).
					WithArgs(user.ID, user.Username, user.FullName, user.Email,
						user.PasswordHash, user.Active, user.CreatedAt, user.UpdatedAt).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
			},
			expectedErr: repository.ErrDuplicateEmail,
		},
		{
			name: "backend failure",
			mockSetup: func(mock pgxmock.PgxPoolIface, user *models.User) {
				mock.ExpectExec(insertSQL).
					WithArgs(user.ID, user.Username, user.FullName, user.Email,
						user.PasswordHash, user.Active, user.CreatedAt, user.UpdatedAt).
					WillReturnError(errors.New("connection refused"))
			},
			expectedErr: errors.New("failed to create user"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupUserRepoMock(t)
			user := testUser()
			tt.mockSetup(mock, user)

			err := repo.Create(context.Background(), user)

			switch {
			case tt.expectedErr == nil:
				require.NoError(t, err)
			case errors.Is(tt.expectedErr, repository.ErrDuplicateEmail):
				assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
			default:
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr.Error())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserGetByEmail(t *testing.T) {
	repo, mock := setupUserRepoMock(t)
	user := testUser()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE email = $1`)).
		WithArgs(user.Email).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "username", "full_name", "email", "password_hash", "active", "created_at", "updated_at",
		}).AddRow(user.ID, user.Username, user.FullName, user.Email,
			user.PasswordHash, user.Active, user.CreatedAt, user.UpdatedAt))

	got, err := repo.GetByEmail(context.Background(), user.Email)
	require.NoError(t, err)
	assert.Equal(t, user, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmailNotFound(t *testing.T) {
	repo, mock := setupUserRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE email = $1`)).
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "username", "full_name", "email", "password_hash", "active", "created_at", "updated_at",
		}))

	got, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
