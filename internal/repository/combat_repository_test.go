package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maelc/combat-notation/internal/document"
)

func newCombatMock(t *testing.T) (*CombatRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewCombatRepo(db), mock
}

func TestSaveDocumentBumpsVersion(t *testing.T) {
	repo, mock := newCombatMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM combats").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))
	mock.ExpectExec("UPDATE combats SET participants").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	doc := &document.Document{Participants: document.DefaultParticipants()}
	version, err := repo.SaveDocument(context.Background(), 5, doc, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveDocumentStaleVersionConflicts(t *testing.T) {
	repo, mock := newCombatMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT version FROM combats").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))
	mock.ExpectRollback()

	stale := uint64(2)
	doc := &document.Document{Participants: document.DefaultParticipants()}
	_, err := repo.SaveDocument(context.Background(), 5, doc, &stale)
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByIDAndOwnerCascadesShares(t *testing.T) {
	repo, mock := newCombatMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT owner_id FROM combats").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(9))
	mock.ExpectExec("DELETE FROM combat_shares").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM combats").
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.DeleteByIDAndOwner(context.Background(), 5, 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByIDAndOwnerRejectsNonOwner(t *testing.T) {
	repo, mock := newCombatMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT owner_id FROM combats").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(9))
	mock.ExpectRollback()

	err := repo.DeleteByIDAndOwner(context.Background(), 5, 10)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByIDAndOwnerMissingCombat(t *testing.T) {
	repo, mock := newCombatMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT owner_id FROM combats").
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}))
	mock.ExpectRollback()

	err := repo.DeleteByIDAndOwner(context.Background(), 404, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}
