package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/maelc/combat-notation/internal/authz"
	"github.com/maelc/combat-notation/internal/lexicon"
	"github.com/maelc/combat-notation/internal/model"
	"github.com/maelc/combat-notation/internal/repository"
	"github.com/maelc/combat-notation/internal/service"
)

// LexiconHandler serves the controlled vocabulary: global lists shared by
// everyone, personal lists per user, and per-user favorites.
type LexiconHandler struct {
	Lexicons  *repository.LexiconRepo
	Favorites *repository.FavoriteRepo
	Audit     *service.AuditRecorder
}

func NewLexiconHandler(lexicons *repository.LexiconRepo, favorites *repository.FavoriteRepo, audit *service.AuditRecorder) *LexiconHandler {
	return &LexiconHandler{Lexicons: lexicons, Favorites: favorites, Audit: audit}
}

// ----- DTOs -----

type lexiconItemReq struct {
	Label string `json:"label"`
}

type lexiconItemResp struct {
	Label string `json:"label"`
	Scope string `json:"scope"`
}

func toLexiconItems(items []model.LexiconItem) []lexiconItemResp {
	out := make([]lexiconItemResp, 0, len(items))
	for _, item := range items {
		out = append(out, lexiconItemResp{Label: item.Label, Scope: item.Scope()})
	}
	return out
}

func categoryParam(c echo.Context) (string, bool) {
	category := c.Param("type")
	return category, lexicon.ValidCategory(category)
}

// List handles GET /api/lexicon/:type: the merged view the editor presents,
// personal items shadowing global ones with the same label.
func (h *LexiconHandler) List(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	category, ok := categoryParam(c)
	if !ok {
		return invalidPayload(c, "unknown lexicon category")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	global, err := h.Lexicons.ListGlobal(ctx, category)
	if err != nil {
		return internalErr(c)
	}
	personal, err := h.Lexicons.ListPersonal(ctx, category, uid)
	if err != nil {
		return internalErr(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toLexiconItems(lexicon.MergeAll(personal, global))})
}

// ListGlobal handles GET /api/lexicon/global/:type. Unlike List this is the
// raw global list, identical for every caller, which is what makes it safe
// to sit behind the shared response cache.
func (h *LexiconHandler) ListGlobal(c echo.Context) error {
	category, ok := categoryParam(c)
	if !ok {
		return invalidPayload(c, "unknown lexicon category")
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	global, err := h.Lexicons.ListGlobal(ctx, category)
	if err != nil {
		return internalErr(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toLexiconItems(global)})
}

// AddGlobal handles POST /api/lexicon/global/:type (admin and up).
func (h *LexiconHandler) AddGlobal(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if !authz.CanManageGlobalLexicon(currentRole(c)) {
		return forbidden(c)
	}
	category, ok := categoryParam(c)
	if !ok {
		return invalidPayload(c, "unknown lexicon category")
	}
	var req lexiconItemReq
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c, "invalid body")
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return invalidPayload(c, "label is required")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	if _, err := h.Lexicons.InsertGlobal(ctx, category, label); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return duplicate(c, "label already exists")
		}
		return internalErr(c)
	}
	h.Audit.Record(ctx, uid, "lexicon.global.add", nil, echo.Map{"category": category, "label": label})
	return c.JSON(http.StatusCreated, lexiconItemResp{Label: label, Scope: "global"})
}

// RemoveGlobal handles DELETE /api/lexicon/global/:type (admin and up). The
// label travels in the body so slashes and accents never fight the router.
func (h *LexiconHandler) RemoveGlobal(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if !authz.CanManageGlobalLexicon(currentRole(c)) {
		return forbidden(c)
	}
	category, ok := categoryParam(c)
	if !ok {
		return invalidPayload(c, "unknown lexicon category")
	}
	var req lexiconItemReq
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c, "invalid body")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Lexicons.DeleteGlobal(ctx, category, req.Label); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return internalErr(c)
	}
	h.Audit.Record(ctx, uid, "lexicon.global.remove", nil, echo.Map{"category": category, "label": req.Label})
	return c.NoContent(http.StatusNoContent)
}

// ListPersonal handles GET /api/lexicon/personal/:type.
func (h *LexiconHandler) ListPersonal(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	category, ok := categoryParam(c)
	if !ok {
		return invalidPayload(c, "unknown lexicon category")
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	personal, err := h.Lexicons.ListPersonal(ctx, category, uid)
	if err != nil {
		return internalErr(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toLexiconItems(personal)})
}

// AddPersonal handles POST /api/lexicon/personal/:type.
func (h *LexiconHandler) AddPersonal(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	category, ok := categoryParam(c)
	if !ok {
		return invalidPayload(c, "unknown lexicon category")
	}
	var req lexiconItemReq
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c, "invalid body")
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return invalidPayload(c, "label is required")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	if _, err := h.Lexicons.InsertPersonal(ctx, category, label, uid); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return duplicate(c, "label already exists")
		}
		return internalErr(c)
	}
	return c.JSON(http.StatusCreated, lexiconItemResp{Label: label, Scope: "personal"})
}

// RemovePersonal handles DELETE /api/lexicon/personal/:type.
func (h *LexiconHandler) RemovePersonal(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	category, ok := categoryParam(c)
	if !ok {
		return invalidPayload(c, "unknown lexicon category")
	}
	var req lexiconItemReq
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c, "invalid body")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Lexicons.DeletePersonal(ctx, category, req.Label, uid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return internalErr(c)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListFavorites handles GET /api/lexicon/favorites.
func (h *LexiconHandler) ListFavorites(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	favs, err := h.Favorites.List(ctx, uid)
	if err != nil {
		return internalErr(c)
	}
	items := make([]echo.Map, 0, len(favs))
	for _, f := range favs {
		items = append(items, echo.Map{"category": f.Category, "label": f.Label})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ToggleFavorite handles POST /api/lexicon/favorites: flips the favorite mark
// for (category, label) and returns the resulting state.
func (h *LexiconHandler) ToggleFavorite(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req struct {
		Category string `json:"category"`
		Label    string `json:"label"`
	}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c, "invalid body")
	}
	if !lexicon.ValidCategory(req.Category) {
		return invalidPayload(c, "unknown lexicon category")
	}
	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" {
		return invalidPayload(c, "label is required")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	favored, err := h.Favorites.Toggle(ctx, uid, req.Category, req.Label)
	if err != nil {
		return internalErr(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"category": req.Category, "label": req.Label, "favorite": favored})
}
