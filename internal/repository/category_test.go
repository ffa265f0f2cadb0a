package repository_test

import (
	"context"
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

var categoryColumns = []string{"id", "name", "description", "created_at", "updated_at"}

func setupCategoryRepoMock(t *testing.T) (*repository.CategoryRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return repository.NewCategoryRepository(mock), mock
}

func TestCategoryCreateDuplicateName(t *testing.T) {
	repo, mock := setupCategoryRepoMock(t)

	now := time.Now().UTC()
	category := &models.Category{
		ID:        uuid.New(),
		Name:      "Electronics",
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO categories`)).
		WithArgs(category.ID, category.Name, category.Description,
			category.CreatedAt, category.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "categories_name_key"})

	err := repo.Create(context.Background(), category)
	assert.ErrorIs(t, err, repository.ErrDuplicateName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryUpdate(t *testing.T) {
	t.Run("empty update is reported distinctly", func(t *testing.T) {
		repo, _ := setupCategoryRepoMock(t)

		got, err := repo.Update(context.Background(), uuid.New(), models.CategoryUpdate{})
		assert.Nil(t, got)
		assert.ErrorIs(t, err, repository.ErrNothingToUpdate)
	})

	t.Run("rename applies only the name", func(t *testing.T) {
		repo, mock := setupCategoryRepoMock(t)

		id := uuid.New()
		name := "Gadgets"
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE categories SET updated_at = now(), name = $2`)).
			WithArgs(id, name).
			WillReturnRows(pgxmock.NewRows(categoryColumns).
				AddRow(id, name, "old description", now, now))

		got, err := repo.Update(context.Background(), id, models.CategoryUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, got.Name)
		assert.Equal(t, "old description", got.Description)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rename to taken name conflicts", func(t *testing.T) {
		repo, mock := setupCategoryRepoMock(t)

		id := uuid.New()
		name := "Electronics"

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE categories SET updated_at = now(), name = $2`)).
			WithArgs(id, name).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "categories_name_key"})

		got, err := repo.Update(context.Background(), id, models.CategoryUpdate{Name: &name})
		assert.Nil(t, got)
		assert.ErrorIs(t, err, repository.ErrDuplicateName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryDelete(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		wantExisted  bool
	}{
		{name: "existing row", rowsAffected: 1, wantExisted: true},
		{name: "absent row", rowsAffected: 0, wantExisted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupCategoryRepoMock(t)
			id := uuid.New()

			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM categories WHERE id = $1`)).
				WithArgs(id).
				WillReturnResult(pgxmock.NewResult("DELETE", tt.rowsAffected))

			existed, err := repo.Delete(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantExisted, existed)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCategorySearchByName(t *testing.T) {
	repo, mock := setupCategoryRepoMock(t)

	now := time.Now().UTC()
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM categories WHERE name ILIKE`)).
		WithArgs("elec").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE name ILIKE '%' || $1 || '%'`)).
		WithArgs("elec", 50, 0).
		WillReturnRows(pgxmock.NewRows(categoryColumns).
			AddRow(id, "Electronics", "devices", now, now))

	categories, total, err := repo.SearchByName(context.Background(), "elec", 0, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, categories, 1)
	assert.Equal(t, "Electronics", categories[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
