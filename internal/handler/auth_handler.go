package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/portfolio-backend/internal/middleware"
	"github.com/stemsi/portfolio-backend/internal/model"
	"github.com/stemsi/portfolio-backend/internal/response"
	"github.com/stemsi/portfolio-backend/internal/service"
	"github.com/stemsi/portfolio-backend/internal/validator"
)

// AuthHandler handles signup, login, session, and admin directory endpoints.
type AuthHandler struct {
	authService    *service.AuthService
	accountService *service.AccountService
	log            zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService *service.AuthService,
	accountService *service.AccountService,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accountService: accountService,
		log:            log.With().Str("component", "auth_handler").Logger(),
	}
}

// Signup godoc
// POST /api/signup
// Registers an account. Role defaults to student.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.MessageWithFields(c, http.StatusBadRequest, response.GetMessage(response.ErrValidation), fields)
		return
	}

	if _, err := h.accountService.Register(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			response.Message(c, http.StatusBadRequest, response.MsgEmailRegistered)
		case errors.Is(err, service.ErrValidation):
			response.MessageWithFields(c, http.StatusBadRequest, response.GetMessage(response.ErrValidation),
				map[string]string{"detail": err.Error()})
		default:
			h.log.Error().Err(err).Msg("Signup failed")
			response.Message(c, http.StatusInternalServerError, response.MsgServerError)
		}
		return
	}

	response.Message(c, http.StatusCreated, response.MsgUserRegistered)
}

// Login godoc
// POST /api/login
// Verifies email + password and opens a session. The account is returned
// without its password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.Message(c, http.StatusUnauthorized, response.MsgInvalidCredentials)
		return
	}

	account, err := h.accountService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Message(c, http.StatusUnauthorized, response.MsgInvalidCredentials)
			return
		}
		h.log.Error().Err(err).Msg("Login lookup failed")
		response.Message(c, http.StatusInternalServerError, response.MsgServerError)
		return
	}

	token, expiresAt, err := h.authService.IssueSession(c.Request.Context(), account)
	if err != nil {
		h.log.Error().Err(err).Int("account_id", account.ID).Msg("Session issue failed")
		response.Message(c, http.StatusInternalServerError, response.MsgServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    response.MsgLoginSuccessful,
		"user":       account,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// ListAdmins godoc
// GET /api/admins
// Lists admin accounts as {username, email} for the assignment selector.
func (h *AuthHandler) ListAdmins(c *gin.Context) {
	admins, err := h.accountService.ListAdmins(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Fetch admins failed")
		response.Message(c, http.StatusInternalServerError, response.MsgServerError)
		return
	}
	c.JSON(http.StatusOK, admins)
}

// Session godoc
// GET /api/session
// Reports the identity and expiry of the caller's session.
func (h *AuthHandler) Session(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": claims.Info()})
}

// Logout godoc
// POST /api/logout
// Ends the caller's session.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.EndSession(c.Request.Context(), claims); err != nil {
		h.log.Error().Err(err).Int("account_id", claims.AccountID).Msg("Logout failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}
