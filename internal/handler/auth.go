package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maelc/combat-notation/internal/authz"
	"github.com/maelc/combat-notation/internal/config"
	"github.com/maelc/combat-notation/internal/middleware"
	"github.com/maelc/combat-notation/internal/model"
	"github.com/maelc/combat-notation/internal/repository"
	"github.com/maelc/combat-notation/internal/service"
	"github.com/maelc/combat-notation/internal/utils"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
	Audit    *service.AuditRecorder
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, sessions *repository.SessionRepo, audit *service.AuditRecorder) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Sessions: sessions, Audit: audit}
}

// ----- DTOs -----

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type userPart struct {
	ID         uint64 `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	ForceReset bool   `json:"forceReset"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User  userPart  `json:"user"`
	Token tokenPart `json:"token"`
}

func toUserPart(u model.User) userPart {
	return userPart{
		ID:         u.ID,
		Email:      u.Email,
		Role:       u.Role,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		ForceReset: u.ForceReset,
	}
}

// Register creates a user account and opens a session immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c, "invalid body")
	}
	req.Email = repository.NormalizeEmail(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return invalidPayload(c, "valid email required")
	}
	if len(req.Password) < 8 {
		return invalidPayload(c, "password must be at least 8 characters")
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return internalErr(c)
	}
	uid, err := h.Users.Create(ctx, req.Email, hash, authz.RoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return duplicate(c, "email already exists")
		}
		return internalErr(c)
	}

	token, err := h.openSession(c, uid)
	if err != nil {
		return internalErr(c)
	}
	h.Audit.Record(ctx, uid, "auth.register", nil, nil)

	return c.JSON(http.StatusCreated, authResp{
		User:  userPart{ID: uid, Email: req.Email, Role: authz.RoleUser},
		Token: token,
	})
}

// Login verifies credentials and opens a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return invalidPayload(c, "email/password required")
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, errBody{Error: "unauthorized", Message: "invalid credentials"})
		}
		return internalErr(c)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, errBody{Error: "unauthorized", Message: "invalid credentials"})
	}

	token, err := h.openSession(c, u.ID)
	if err != nil {
		return internalErr(c)
	}
	h.Audit.Record(ctx, u.ID, "auth.login", nil, nil)

	return c.JSON(http.StatusOK, authResp{User: toUserPart(u), Token: token})
}

func (h *AuthHandler) openSession(c echo.Context, userID uint64) (tokenPart, error) {
	st, err := utils.NewSessionToken(h.Cfg.TokenSecret, userID, h.Cfg.SessionTTL)
	if err != nil {
		return tokenPart{}, err
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Sessions.Create(ctx, userID, st.Hash, st.Exp); err != nil {
		return tokenPart{}, err
	}
	return tokenPart{Token: st.Token, Expires: st.Exp}, nil
}

// Logout deletes the current session (protected route; the middleware leaves
// the token hash in context).
func (h *AuthHandler) Logout(c echo.Context) error {
	hash, _ := c.Get(middleware.CtxTokenHash).(string)
	uid, err := currentUserID(c)
	if err != nil || hash == "" {
		return unauthorized(c)
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Sessions.Delete(ctx, hash); err != nil {
		return internalErr(c)
	}
	h.Audit.Record(ctx, uid, "auth.logout", nil, nil)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := reqContext(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return internalErr(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

// UpdateProfile sets the display name parts.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c, "invalid body")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	if err := h.Users.UpdateProfile(ctx, uid, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)); err != nil {
		return internalErr(c)
	}
	h.Audit.Record(ctx, uid, "user.profile", nil, nil)

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return internalErr(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

// ChangePassword replaces the caller's credential after verifying the
// current one, and clears the force-reset flag.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c, "invalid body")
	}
	if len(req.NewPassword) < 8 {
		return invalidPayload(c, "password must be at least 8 characters")
	}

	ctx, cancel := reqContext(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return internalErr(c)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
		return invalidPayload(c, "current password does not match")
	}
	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return internalErr(c)
	}
	if err := h.Users.UpdatePassword(ctx, uid, hash, false); err != nil {
		return internalErr(c)
	}
	h.Audit.Record(ctx, uid, "user.password", nil, nil)
	return c.NoContent(http.StatusNoContent)
}
