package handler

import (
	"errors"
	"net/http"

	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/middleware"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/model"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/response"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/service"
	"github.com/Herramientasdocentes/Herrmaientas-evaluaci-n/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles teacher account endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// POST /api/v1/auth/register
// Creates a new teacher account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": user})
}

// Login godoc
// POST /api/v1/auth/login
// Verifies credentials and issues a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Drops the active session; the current token stops working.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)

	if err := h.authService.Logout(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "sesión cerrada"})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the authenticated teacher's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)

	user, err := h.authService.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// SaveGoogleTokens godoc
// PUT /api/v1/auth/google-tokens
// Stores the OAuth2 tokens obtained by the frontend's consent flow.
func (h *AuthHandler) SaveGoogleTokens(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.GoogleTokensRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.authService.SaveGoogleTokens(c.Request.Context(), claims.UserID, req); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "cuenta de Google vinculada"})
}
