package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maelc/combat-notation/internal/authz"
	"github.com/maelc/combat-notation/internal/document"
	"github.com/maelc/combat-notation/internal/model"
	"github.com/maelc/combat-notation/internal/repository"
	"github.com/maelc/combat-notation/internal/service"
)

// CombatHandler bundles dependencies for combat CRUD and sharing.
type CombatHandler struct {
	Combats *repository.CombatRepo
	Shares  *repository.ShareRepo
	Users   *repository.UserRepo
	Audit   *service.AuditRecorder
}

func NewCombatHandler(combats *repository.CombatRepo, shares *repository.ShareRepo, users *repository.UserRepo, audit *service.AuditRecorder) *CombatHandler {
	return &CombatHandler{Combats: combats, Shares: shares, Users: users, Audit: audit}
}

// ----- DTOs -----

type createCombatReq struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	Participants any    `json:"participants"`
}

type saveCombatReq struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Type            *string `json:"type"`
	Document        any     `json:"document"`
	ExpectedVersion *uint64 `json:"expectedVersion"`
}

type combatResp struct {
	ID           uint64                 `json:"id"`
	OwnerID      uint64                 `json:"ownerId"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Type         string                 `json:"type"`
	Archived     bool                   `json:"archived"`
	Version      uint64                 `json:"version"`
	Participants []document.Participant `json:"participants"`
	Phrases      []document.Phrase      `json:"phrases"`
	Access       string                 `json:"access"`
	CreatedAt    time.Time              `json:"createdAt"`
	UpdatedAt    time.Time              `json:"updatedAt"`
}

func toCombatResp(combat *model.Combat, access authz.Access) combatResp {
	// run the stored payload through normalization so clients always see a
	// consistent document even for legacy rows
	doc := document.Normalize(docAsMap(combat))
	accessLabel := "read"
	if access.CanWrite() {
		accessLabel = "write"
	}
	return combatResp{
		ID:           combat.ID,
		OwnerID:      combat.OwnerID,
		Name:         combat.Name,
		Description:  combat.Description,
		Type:         combat.Type,
		Archived:     combat.Archived,
		Version:      combat.Version,
		Participants: doc.Participants,
		Phrases:      doc.Phrases,
		Access:       accessLabel,
		CreatedAt:    combat.CreatedAt,
		UpdatedAt:    combat.UpdatedAt,
	}
}

// docAsMap rebuilds the loose JSON shape Normalize expects from typed
// storage values.
func docAsMap(combat *model.Combat) map[string]any {
	participants := make([]any, 0, len(combat.Participants))
	for _, p := range combat.Participants {
		participants = append(participants, map[string]any{"name": p.Name, "weapon": p.Weapon})
	}
	phrases := make([]any, 0, len(combat.Phrases))
	for _, ph := range combat.Phrases {
		steps := make([]any, 0, len(ph.Steps))
		for _, st := range ph.Steps {
			entries := make([]any, 0, len(st.Entries))
			for _, e := range st.Entries {
				entries = append(entries, entryAsMap(e))
			}
			steps = append(steps, map[string]any{"entries": entries})
		}
		phrases = append(phrases, map[string]any{"id": ph.ID, "name": ph.Name, "steps": steps})
	}
	return map[string]any{"participants": participants, "phrases": phrases}
}

func entryAsMap(e document.Entry) map[string]any {
	out := map[string]any{"mode": string(e.Mode)}
	switch {
	case e.Combat != nil:
		attrs := make([]any, 0, len(e.Combat.AttackAttributes))
		for _, a := range e.Combat.AttackAttributes {
			attrs = append(attrs, a)
		}
		out["combat"] = map[string]any{
			"role":             string(e.Combat.Role),
			"offensive":        e.Combat.Offensive,
			"weaponAction":     e.Combat.WeaponAction,
			"attackAttributes": attrs,
			"target":           e.Combat.Target,
			"attackMovement":   e.Combat.AttackMovement,
			"defensive":        e.Combat.Defensive,
			"paradePosition":   e.Combat.ParadePosition,
			"paradeAttribute":  e.Combat.ParadeAttribute,
			"defendMovement":   e.Combat.DefendMovement,
			"noteOverrides":    e.Combat.NoteOverrides,
			"note":             e.Combat.Note,
		}
	case e.Note != nil:
		out["note"] = map[string]any{"text": e.Note.Text}
	case e.Choregraphie != nil:
		out["choregraphie"] = map[string]any{"phase": e.Choregraphie.Phase, "note": e.Choregraphie.Note}
	}
	return out
}

func combatIDParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// List handles GET /api/combats.
func (h *CombatHandler) List(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	includeArchived := c.QueryParam("archived") == "true"

	ctx, cancel := reqContext(c)
	defer cancel()
	combats, err := h.Combats.ListForUser(ctx, uid, includeArchived)
	if err != nil {
		return internalErr(c)
	}

	items := make([]combatResp, 0, len(combats))
	for _, combat := range combats {
		shareRole := ""
		if combat.OwnerID != uid {
			if shareRole, err = h.Shares.RoleFor(ctx, combat.ID, uid); err != nil {
				return internalErr(c)
			}
		}
		items = append(items, toCombatResp(combat, authz.CombatAccess(combat.OwnerID, uid, shareRole)))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST /api/combats.
func (h *CombatHandler) Create(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req createCombatReq
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c, "invalid body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return invalidPayload(c, "name is required")
	}
	combatType := req.Type
	if combatType == "" {
		combatType = model.CombatTypeSabreLaser
	}
	if !model.ValidCombatType(combatType) {
		return invalidPayload(c, "unknown combat type")
	}

	doc := document.Normalize(map[string]any{"participants": req.Participants})
	combat := &model.Combat{
		OwnerID:      uid,
		Name:         name,
		Description:  strings.TrimSpace(req.Description),
		Type:         combatType,
		Participants: doc.Participants,
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Combats.Create(ctx, combat); err != nil {
		return internalErr(c)
	}
	h.Audit.Record(ctx, uid, "combat.create", &combat.ID, echo.Map{"name": combat.Name})

	return c.JSON(http.StatusCreated, toCombatResp(combat, authz.AccessWrite))
}

// Get handles GET /api/combats/:id.
func (h *CombatHandler) Get(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := combatIDParam(c)
	if err != nil {
		return invalidPayload(c, "invalid id")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	combat, access, err := resolveCombat(ctx, h.Combats, h.Shares, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return internalErr(c)
	}
	return c.JSON(http.StatusOK, toCombatResp(combat, access))
}

// Save handles POST /api/combats/:id: wholesale document save and/or
// metadata update. Write access is required; a read share is rejected, not
// silently downgraded.
func (h *CombatHandler) Save(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := combatIDParam(c)
	if err != nil {
		return invalidPayload(c, "invalid id")
	}
	var req saveCombatReq
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c, "invalid body")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	combat, access, err := resolveCombat(ctx, h.Combats, h.Shares, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return internalErr(c)
	}
	if !access.CanWrite() {
		return forbidden(c)
	}

	if req.Name != nil || req.Description != nil || req.Type != nil {
		name, description, combatType := combat.Name, combat.Description, combat.Type
		if req.Name != nil {
			if name = strings.TrimSpace(*req.Name); name == "" {
				return invalidPayload(c, "name cannot be blank")
			}
		}
		if req.Description != nil {
			description = strings.TrimSpace(*req.Description)
		}
		if req.Type != nil {
			if combatType = *req.Type; !model.ValidCombatType(combatType) {
				return invalidPayload(c, "unknown combat type")
			}
		}
		if err := h.Combats.UpdateMeta(ctx, id, name, description, combatType); err != nil {
			return internalErr(c)
		}
	}

	if req.Document != nil {
		doc := document.Normalize(req.Document)
		if doc == nil {
			return invalidPayload(c, "document must be an object")
		}
		if _, err := h.Combats.SaveDocument(ctx, id, doc, req.ExpectedVersion); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return conflict(c, "document was modified by someone else")
			}
			return internalErr(c)
		}
	}

	h.Audit.Record(ctx, uid, "combat.save", &id, nil)

	fresh, err := h.Combats.GetByID(ctx, id)
	if err != nil {
		return internalErr(c)
	}
	return c.JSON(http.StatusOK, toCombatResp(fresh, access))
}

// Archive handles POST /api/combats/:id/archive (and unarchive via the
// {"archived": false} payload). Owner-only, reversible, distinct from delete.
func (h *CombatHandler) Archive(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := combatIDParam(c)
	if err != nil {
		return invalidPayload(c, "invalid id")
	}
	var req struct {
		Archived *bool `json:"archived"`
	}
	_ = c.Bind(&req)
	archived := true
	if req.Archived != nil {
		archived = *req.Archived
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	combat, _, err := resolveCombat(ctx, h.Combats, h.Shares, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return internalErr(c)
	}
	if combat.OwnerID != uid {
		return forbidden(c)
	}
	if err := h.Combats.SetArchived(ctx, id, archived); err != nil {
		return internalErr(c)
	}
	h.Audit.Record(ctx, uid, "combat.archive", &id, echo.Map{"archived": archived})
	return c.NoContent(http.StatusNoContent)
}

// Delete handles POST /api/combats/:id/delete. Owner-only; shares are
// cascade-removed with the combat.
func (h *CombatHandler) Delete(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := combatIDParam(c)
	if err != nil {
		return invalidPayload(c, "invalid id")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Combats.DeleteByIDAndOwner(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c)
		case errors.Is(err, repository.ErrForbidden):
			// non-owners must not learn the combat exists
			return notFound(c)
		default:
			return internalErr(c)
		}
	}
	h.Audit.Record(ctx, uid, "combat.delete", &id, nil)
	return c.NoContent(http.StatusNoContent)
}
