package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maelc/combat-notation/internal/document"
	"github.com/maelc/combat-notation/internal/model"
	"github.com/maelc/combat-notation/internal/repository"
	"github.com/maelc/combat-notation/internal/service"
)

// StateHandler serves the legacy whole-document endpoints. Older clients know
// nothing about combats; they read and write a single notation document. That
// document is backed by the user's oldest owned combat, created on demand.
type StateHandler struct {
	Combats *repository.CombatRepo
	Audit   *service.AuditRecorder
}

func NewStateHandler(combats *repository.CombatRepo, audit *service.AuditRecorder) *StateHandler {
	return &StateHandler{Combats: combats, Audit: audit}
}

type stateResp struct {
	CombatID     uint64                 `json:"combatId"`
	Participants []document.Participant `json:"participants"`
	Phrases      []document.Phrase      `json:"phrases"`
}

// defaultCombat lazily creates the backing combat for a user who has none.
func (h *StateHandler) defaultCombat(c echo.Context, uid uint64) (*model.Combat, error) {
	ctx, cancel := reqContext(c)
	defer cancel()

	combat, err := h.Combats.GetFirstOwned(ctx, uid)
	if err == nil {
		return combat, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	combat = &model.Combat{
		OwnerID:      uid,
		Name:         "Sans titre",
		Type:         model.CombatTypeSabreLaser,
		Participants: document.DefaultParticipants(),
	}
	if err := h.Combats.Create(ctx, combat); err != nil {
		return nil, err
	}
	h.Audit.Record(ctx, uid, "combat.create", &combat.ID, echo.Map{"name": combat.Name, "legacy": true})
	return combat, nil
}

// Get handles GET /api/state.
func (h *StateHandler) Get(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	combat, err := h.defaultCombat(c, uid)
	if err != nil {
		return internalErr(c)
	}
	doc := document.Normalize(docAsMap(combat))
	return c.JSON(http.StatusOK, stateResp{
		CombatID:     combat.ID,
		Participants: doc.Participants,
		Phrases:      doc.Phrases,
	})
}

// Save handles POST /api/state: wholesale replace of the default combat's
// document. Always last-write-wins, matching the clients this endpoint
// exists for.
func (h *StateHandler) Save(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var raw map[string]any
	if err := c.Bind(&raw); err != nil {
		return invalidPayload(c, "invalid body")
	}
	doc := document.Normalize(raw)
	if doc == nil {
		return invalidPayload(c, "document must be an object")
	}

	combat, err := h.defaultCombat(c, uid)
	if err != nil {
		return internalErr(c)
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	if _, err := h.Combats.SaveDocument(ctx, combat.ID, doc, nil); err != nil {
		return internalErr(c)
	}
	h.Audit.Record(ctx, uid, "combat.save", &combat.ID, echo.Map{"legacy": true})

	return c.JSON(http.StatusOK, stateResp{
		CombatID:     combat.ID,
		Participants: doc.Participants,
		Phrases:      doc.Phrases,
	})
}
