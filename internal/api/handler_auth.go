package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"property-backoffice/internal/auth"
	"property-backoffice/internal/store"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/login. It sets the session cookie and also returns
// the token for API clients.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	owner, err := h.store.FindOwnerByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.fail(c, err)
		return
	}
	if owner == nil || auth.CheckPassword(owner.PasswordHash, req.Password) != nil {
		h.logger.Warn("Login rejected", zap.String("email", auth.NormalizeEmail(req.Email)), zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidCredentials.Error()})
		return
	}

	token, err := h.sessions.Issue(owner.ID, owner.Email, owner.Name)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Auth.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", h.cfg.Auth.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": int(h.sessions.TTL().Seconds()),
		"owner":     owner,
	})
}

// Logout handles POST /api/logout by expiring the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Auth.CookieName, "", -1, "/", "", h.cfg.Auth.SecureCookie, true)
	c.Status(http.StatusNoContent)
}

// Healthz reports that the process is serving.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
