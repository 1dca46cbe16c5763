// Package handler implements the HTTP surface. Handlers bind JSON, validate,
// delegate to repositories and translate sentinel errors into the stable
// error taxonomy of the API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maelc/combat-notation/internal/authz"
	"github.com/maelc/combat-notation/internal/middleware"
	"github.com/maelc/combat-notation/internal/model"
	"github.com/maelc/combat-notation/internal/repository"
)

// errBody is the JSON error envelope. Error is a stable code clients branch
// on; Message is free text for display only.
type errBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func invalidPayload(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errBody{Error: "invalid_payload", Message: msg})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errBody{Error: "unauthorized"})
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, errBody{Error: "forbidden"})
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, errBody{Error: "not_found"})
}

func duplicate(c echo.Context, msg string) error {
	return c.JSON(http.StatusConflict, errBody{Error: "duplicate", Message: msg})
}

func conflict(c echo.Context, msg string) error {
	return c.JSON(http.StatusConflict, errBody{Error: "conflict", Message: msg})
}

func internalErr(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, errBody{Error: "internal"})
}

// reqContext bounds every store call; no handler operation may hang on the
// database indefinitely.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get(middleware.CtxUserID).(uint64); ok && id != 0 {
		return id, nil
	}
	return 0, errors.New("missing user_id in context")
}

func currentRole(c echo.Context) string {
	role, _ := c.Get(middleware.CtxUserRole).(string)
	return role
}

// resolveCombat loads a combat and computes the caller's access. AccessNone
// is reported as ErrNotFound so inaccessible combats are indistinguishable
// from missing ones.
func resolveCombat(ctx context.Context, combats *repository.CombatRepo, shares *repository.ShareRepo,
	combatID, userID uint64) (*model.Combat, authz.Access, error) {

	combat, err := combats.GetByID(ctx, combatID)
	if err != nil {
		return nil, authz.AccessNone, err
	}
	shareRole, err := shares.RoleFor(ctx, combatID, userID)
	if err != nil {
		return nil, authz.AccessNone, err
	}
	access := authz.CombatAccess(combat.OwnerID, userID, shareRole)
	if !access.CanRead() {
		return nil, authz.AccessNone, repository.ErrNotFound
	}
	return combat, access, nil
}
