package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maelc/combat-notation/internal/authz"
	"github.com/maelc/combat-notation/internal/config"
	"github.com/maelc/combat-notation/internal/repository"
	"github.com/maelc/combat-notation/internal/service"
	"github.com/maelc/combat-notation/internal/utils"
)

// AdminHandler serves the administration surface: user listing, role changes,
// password resets and the audit log. Routes are mounted behind RequireRole so
// the methods only re-check the superadmin-only operations.
type AdminHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
	Audits   *repository.AuditRepo
	Audit    *service.AuditRecorder
}

func NewAdminHandler(cfg config.Config, users *repository.UserRepo, sessions *repository.SessionRepo, audits *repository.AuditRepo, audit *service.AuditRecorder) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: users, Sessions: sessions, Audits: audits, Audit: audit}
}

func userIDParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()
	users, err := h.Users.List(ctx)
	if err != nil {
		return internalErr(c)
	}
	items := make([]userPart, 0, len(users))
	for _, u := range users {
		items = append(items, toUserPart(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ChangeRole handles POST /api/admin/users/:id/role. Superadmin only; the
// superadmin cannot demote itself, which would leave the instance without
// anyone able to manage roles.
func (h *AdminHandler) ChangeRole(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	if !authz.CanChangeRoles(currentRole(c)) {
		return forbidden(c)
	}
	targetID, err := userIDParam(c)
	if err != nil {
		return invalidPayload(c, "invalid id")
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c, "invalid body")
	}
	if !authz.ValidUserRole(req.Role) {
		return invalidPayload(c, "unknown role")
	}
	if targetID == uid && req.Role != authz.RoleSuperadmin {
		return invalidPayload(c, "cannot demote yourself")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Users.UpdateRole(ctx, targetID, req.Role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return internalErr(c)
	}
	h.Audit.Record(ctx, uid, "admin.role", &targetID, echo.Map{"role": req.Role})
	return c.NoContent(http.StatusNoContent)
}

// ResetPassword handles POST /api/admin/users/:id/reset-password: sets a new
// credential, flags the account for a forced password change at next login
// and revokes every open session of the target.
func (h *AdminHandler) ResetPassword(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	targetID, err := userIDParam(c)
	if err != nil {
		return invalidPayload(c, "invalid id")
	}
	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c, "invalid body")
	}
	if len(req.NewPassword) < 8 {
		return invalidPayload(c, "password must be at least 8 characters")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	if _, err := h.Users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c)
		}
		return internalErr(c)
	}
	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return internalErr(c)
	}
	if err := h.Users.UpdatePassword(ctx, targetID, hash, true); err != nil {
		return internalErr(c)
	}
	if err := h.Sessions.DeleteAllForUser(ctx, targetID); err != nil {
		return internalErr(c)
	}
	h.Audit.Record(ctx, uid, "admin.reset_password", &targetID, nil)
	return c.NoContent(http.StatusNoContent)
}

type auditEntryResp struct {
	ID        uint64          `json:"id"`
	ActorID   uint64          `json:"actorId"`
	Action    string          `json:"action"`
	TargetID  *uint64         `json:"targetId,omitempty"`
	Meta      json.RawMessage `json:"meta,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AuditLog handles GET /api/admin/audit with limit/offset paging.
func (h *AdminHandler) AuditLog(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	ctx, cancel := reqContext(c)
	defer cancel()
	entries, err := h.Audits.List(ctx, limit, offset)
	if err != nil {
		return internalErr(c)
	}
	items := make([]auditEntryResp, 0, len(entries))
	for _, e := range entries {
		item := auditEntryResp{
			ID:        e.ID,
			ActorID:   e.ActorID,
			Action:    e.Action,
			TargetID:  e.TargetID,
			CreatedAt: e.CreatedAt,
		}
		if e.Meta != "" {
			item.Meta = json.RawMessage(e.Meta)
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
