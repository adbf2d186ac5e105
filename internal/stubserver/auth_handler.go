package stubserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/seatdesk/internal/response"
	"github.com/stemsi/seatdesk/internal/validator"
)

// AuthHandler handles the admin session endpoints.
type AuthHandler struct {
	auth *Auth
	log  zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *Auth, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginPage godoc
// GET /admin-login/
// Only hands out the CSRF cookie.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"message": "Sign in to continue"})
}

// Login godoc
// POST /admin-login/
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.auth.CheckCredentials(req.Username, req.Password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.log.Warn().Str("username", req.Username).Msg("Login rejected")
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		fail(c, h.log, err)
		return
	}

	token, expires, err := h.auth.IssueToken(req.Username)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(time.Until(expires).Seconds()), "/", "", false, true)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged in", "username": req.Username})
}

// Logout godoc
// POST /admin-logout/
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims := GetClaims(c); claims != nil {
		h.auth.Revoke(claims)
	}
	c.SetCookie(SessionCookieName, "", -1, "/", "", false, true)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}
