package postgres

import (
	"context"
	stderrors "errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront-embed/internal/repository"
	"github.com/jafarshop/storefront-embed/pkg/errors"
)

func newMockRepo(t *testing.T) (repository.ClientStorageRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewClientStorageRepository(db, zap.NewNop()), mock
}

var (
	selectValue = regexp.QuoteMeta(`SELECT value FROM client_storage WHERE session_id = $1 AND key = $2`)
	upsertValue = regexp.QuoteMeta(`INSERT INTO client_storage (session_id, key, value, updated_at)`)
)

func TestClientStorageGet(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(selectValue).
		WithArgs("s1", "sf_cart_id").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("gid://shopify/Cart/1"))

	got, err := repo.Get(context.Background(), "s1", "sf_cart_id")
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/1", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientStorageGetMissing(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(selectValue).
		WithArgs("s1", "sf_cart_id").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := repo.Get(context.Background(), "s1", "sf_cart_id")
	assert.True(t, errors.IsNotFound(err))
}

func TestClientStorageGetFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(selectValue).WillReturnError(stderrors.New("connection reset"))

	_, err := repo.Get(context.Background(), "s1", "sf_cart_id")
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))
}

func TestClientStorageWithoutLogger(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewClientStorageRepository(db, nil)

	mock.ExpectQuery(selectValue).WillReturnError(stderrors.New("connection reset"))
	assert.NotPanics(t, func() {
		_, err = repo.Get(context.Background(), "s1", "sf_cart_id")
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientStoragePutUpserts(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(upsertValue).
		WithArgs("s1", "sf_cart_id", "gid://shopify/Cart/2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Put(context.Background(), "s1", "sf_cart_id", "gid://shopify/Cart/2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStorageOverPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repos := NewRepositories(db, zap.NewNop())
	storage := repository.NewSessionStorage(repos.ClientStorage, "s1", nil)

	mock.ExpectQuery(selectValue).WithArgs("s1", "sf_cart_id").WillReturnRows(sqlmock.NewRows([]string{"value"}))
	value, err := storage.GetItem(context.Background(), "sf_cart_id")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	mock.ExpectQuery(selectValue).WillReturnError(stderrors.New("boom"))
	_, err = storage.GetItem(context.Background(), "sf_cart_id")
	assert.Error(t, err)
}
