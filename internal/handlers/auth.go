package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medbook-server/internal/access"
	"medbook-server/internal/config"
	"medbook-server/internal/middleware"
	"medbook-server/internal/models"
	"medbook-server/internal/utils"
)

// AuthHandler handles login and profile requests.
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
	Log zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg, Log: log}
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "Invalid email or password")
		} else {
			h.Log.Error().Err(err).Msg("login lookup failed")
			utils.InternalServerError(c)
		}
		return
	}

	if !user.IsActive || !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	expiresIn := time.Duration(h.Cfg.JWTExpirationMinutes) * time.Minute
	token, err := utils.GenerateAccessToken(&user, h.Cfg.JWTSecret, expiresIn)
	if err != nil {
		h.Log.Error().Err(err).Msg("failed to sign access token")
		utils.InternalServerError(c)
		return
	}

	utils.Success(c, "Login successful", gin.H{
		"accessToken": token,
		"user":        user.Sanitize(),
	})
}

// GetProfile returns the caller's account plus the id of the linked
// doctor or patient profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "User not found")
		} else {
			h.Log.Error().Err(err).Msg("profile lookup failed")
			utils.InternalServerError(c)
		}
		return
	}

	identity, err := access.Resolve(h.DB, user.ID, user.Role)
	if err != nil && !errors.Is(err, access.ErrNoProfile) {
		h.Log.Error().Err(err).Msg("profile resolution failed")
		utils.InternalServerError(c)
		return
	}

	utils.Success(c, "Profile fetched successfully", gin.H{
		"user":      user.Sanitize(),
		"profileId": identity.ProfileID,
	})
}
