package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*SessionRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSessionRepo(db), mock
}

func TestSessionLookupValid(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT user_id, expires_at FROM sessions").
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).
			AddRow(7, time.Now().UTC().Add(time.Hour)))

	userID, err := repo.Lookup(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), userID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionLookupExpiredIsEvicted(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT user_id, expires_at FROM sessions").
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).
			AddRow(7, time.Now().UTC().Add(-time.Minute)))
	// expired row must be deleted, never returned as valid
	mock.ExpectExec("DELETE FROM sessions WHERE token_hash").
		WithArgs("abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.Lookup(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionLookupUnknownToken(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT user_id, expires_at FROM sessions").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}))

	_, err := repo.Lookup(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionDeleteAllForUser(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("DELETE FROM sessions WHERE user_id").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.DeleteAllForUser(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
