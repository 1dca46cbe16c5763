package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maelc/combat-notation/internal/authz"
	"github.com/maelc/combat-notation/internal/model"
	"github.com/maelc/combat-notation/internal/repository"
)

// ----- DTOs -----

type addShareReq struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type shareResp struct {
	UserID    uint64    `json:"userId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toShareResp(s model.CombatShare) shareResp {
	return shareResp{UserID: s.UserID, Email: s.Email, Role: s.Role, CreatedAt: s.CreatedAt}
}

// requireOwnedCombat loads the combat and checks the caller owns it. Share
// management is owner-only; holders of a write share may edit the document
// but never widen who can see it.
func (h *CombatHandler) requireOwnedCombat(c echo.Context, uid uint64) (*model.Combat, error) {
	id, err := combatIDParam(c)
	if err != nil {
		return nil, invalidPayload(c, "invalid id")
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	combat, _, err := resolveCombat(ctx, h.Combats, h.Shares, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(c)
		}
		return nil, internalErr(c)
	}
	if combat.OwnerID != uid {
		return nil, forbidden(c)
	}
	return combat, nil
}

// ListShares handles GET /api/combats/:id/shares.
func (h *CombatHandler) ListShares(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	combat, herr := h.requireOwnedCombat(c, uid)
	if combat == nil {
		return herr
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	shares, err := h.Shares.ListByCombat(ctx, combat.ID)
	if err != nil {
		return internalErr(c)
	}
	items := make([]shareResp, 0, len(shares))
	for _, s := range shares {
		items = append(items, toShareResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// AddShare handles POST /api/combats/:id/shares: grant or update a share by
// target email. Self-shares are rejected; the owner's access is implicit and
// a share row for the owner would only confuse revocation.
func (h *CombatHandler) AddShare(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	combat, herr := h.requireOwnedCombat(c, uid)
	if combat == nil {
		return herr
	}
	var req addShareReq
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c, "invalid body")
	}
	if !authz.ValidShareRole(req.Role) {
		return invalidPayload(c, "role must be read or write")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	target, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return internalErr(c)
	}
	if target.ID == uid {
		return invalidPayload(c, "cannot share a combat with yourself")
	}

	if err := h.Shares.Upsert(ctx, combat.ID, target.ID, req.Role); err != nil {
		return internalErr(c)
	}
	h.Audit.Record(ctx, uid, "share.add", &combat.ID, echo.Map{"userId": target.ID, "role": req.Role})

	return c.JSON(http.StatusCreated, shareResp{UserID: target.ID, Email: target.Email, Role: req.Role, CreatedAt: time.Now().UTC()})
}

// RemoveShare handles DELETE /api/combats/:id/shares/:userId.
func (h *CombatHandler) RemoveShare(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	combat, herr := h.requireOwnedCombat(c, uid)
	if combat == nil {
		return herr
	}
	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		return invalidPayload(c, "invalid user id")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Shares.Delete(ctx, combat.ID, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return internalErr(c)
	}
	h.Audit.Record(ctx, uid, "share.remove", &combat.ID, echo.Map{"userId": targetID})
	return c.NoContent(http.StatusNoContent)
}
