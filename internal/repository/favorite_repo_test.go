package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteRepository_AddIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)

	mock.ExpectExec(`INSERT INTO favorites .* ON CONFLICT \(user_id, product_id\) DO NOTHING`).
		WithArgs(1, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Add(context.Background(), 1, 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_ListAndRemove(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT user_id, product_id, created_at FROM favorites WHERE user_id = \$1 ORDER BY created_at DESC`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "product_id", "created_at"}).
			AddRow(1, 9, now).
			AddRow(1, 4, now.Add(-time.Hour)))
	mock.ExpectExec(`DELETE FROM favorites WHERE user_id = \$1 AND product_id = \$2`).
		WithArgs(1, 4).
		WillReturnResult(sqlmock.NewResult(0, 0))

	favorites, err := repo.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, 9, favorites[0].ProductID)

	assert.ErrorIs(t, repo.Remove(context.Background(), 1, 4), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
