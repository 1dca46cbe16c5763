package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maelc/combat-notation/internal/middleware"
	"github.com/maelc/combat-notation/internal/repository"
	"github.com/maelc/combat-notation/internal/service"
)

func newCombatHandler(t *testing.T) (*CombatHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	h := NewCombatHandler(
		repository.NewCombatRepo(db),
		repository.NewShareRepo(db),
		repository.NewUserRepo(db),
		service.NewAuditRecorder("", repository.NewAuditRepo(db)),
	)
	return h, mock
}

func newRequest(t *testing.T, method, target, body string, uid uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, uid)
	c.Set(middleware.CtxUserRole, "user")
	return c, rec
}

func combatRows(id, ownerID uint64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "owner_id", "name", "description", "type", "archived",
		"version", "participants", "phrases", "created_at", "updated_at",
	}).AddRow(id, ownerID, "Duel final", "", "sabre-laser", false,
		3, []byte(`[{"name":"Combattant 1","weapon":""},{"name":"Combattant 2","weapon":""}]`),
		[]byte(`[]`), now, now)
}

func expectCombatFetch(mock sqlmock.Sqlmock, id, ownerID uint64) {
	mock.ExpectQuery("SELECT (.+) FROM combats WHERE id=").
		WithArgs(id).
		WillReturnRows(combatRows(id, ownerID))
}

func expectShareRole(mock sqlmock.Sqlmock, combatID, userID uint64, role string) {
	rows := sqlmock.NewRows([]string{"role"})
	if role != "" {
		rows.AddRow(role)
	}
	mock.ExpectQuery("SELECT role FROM combat_shares").
		WithArgs(combatID, userID).
		WillReturnRows(rows)
}

func TestGetCombatWithoutAccessIsNotFound(t *testing.T) {
	h, mock := newCombatHandler(t)

	expectCombatFetch(mock, 5, 1)
	expectShareRole(mock, 5, 9, "")

	c, rec := newRequest(t, http.MethodGet, "/api/combats/5", "", 9)
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, h.Get(c))
	// existence must not leak to users with no share
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveCombatWithReadShareIsForbidden(t *testing.T) {
	h, mock := newCombatHandler(t)

	expectCombatFetch(mock, 5, 1)
	expectShareRole(mock, 5, 9, "read")

	c, rec := newRequest(t, http.MethodPost, "/api/combats/5",
		`{"document":{"participants":[],"phrases":[]}}`, 9)
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, h.Save(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddShareToSelfIsRejected(t *testing.T) {
	h, mock := newCombatHandler(t)

	expectCombatFetch(mock, 5, 1)
	expectShareRole(mock, 5, 1, "")
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email=").
		WithArgs("owner@example.com").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "role", "force_reset",
			"first_name", "last_name", "created_at", "updated_at",
		}).AddRow(1, "owner@example.com", "x", "user", false, "", "", now, now))

	c, rec := newRequest(t, http.MethodPost, "/api/combats/5/shares",
		`{"email":"owner@example.com","role":"read"}`, 1)
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, h.AddShare(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_payload")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCombatByNonOwnerIsNotFound(t *testing.T) {
	h, mock := newCombatHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT owner_id FROM combats WHERE id=").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(1))
	mock.ExpectRollback()

	c, rec := newRequest(t, http.MethodPost, "/api/combats/5/delete", "", 9)
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
