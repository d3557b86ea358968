package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medbook-server/internal/models"
	"medbook-server/internal/utils"
)

// UserHandler handles user-related requests (admin operations).
type UserHandler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB, log zerolog.Logger) *UserHandler {
	return &UserHandler{DB: db, Log: log}
}

// CreateUserRequest represents the request body for creating a user by an admin.
type CreateUserRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"required,oneof=admin doctor patient"`
	PhoneNumber string `json:"phoneNumber"`
}

// CreateUser handles creating a new user (admin).
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existingUser models.User
	err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error
	if err == nil {
		utils.BadRequest(c, "User with this email already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.Log.Error().Err(err).Msg("user lookup failed")
		utils.InternalServerError(c)
		return
	}

	user := models.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Role:        models.Role(req.Role),
		PhoneNumber: req.PhoneNumber,
		IsActive:    true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		h.Log.Error().Err(err).Msg("failed to hash password")
		utils.InternalServerError(c)
		return
	}

	if err := h.DB.Create(&user).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to create user")
		utils.InternalServerError(c)
		return
	}

	utils.Created(c, "User created successfully", user.Sanitize())
}

// GetUsers handles fetching all users (admin).
func (h *UserHandler) GetUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Find(&users).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to fetch users")
		utils.InternalServerError(c)
		return
	}

	sanitized := make([]models.UserSanitized, len(users))
	for i, u := range users {
		sanitized[i] = u.Sanitize()
	}

	utils.Success(c, "Users fetched successfully", sanitized)
}

// GetUserByID handles fetching a single user by ID (admin).
func (h *UserHandler) GetUserByID(c *gin.Context) {
	var user models.User
	if err := h.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "User not found")
		} else {
			h.Log.Error().Err(err).Msg("user lookup failed")
			utils.InternalServerError(c)
		}
		return
	}
	utils.Success(c, "User fetched successfully", user.Sanitize())
}

// UpdateUserRequest represents the request body for updating a user by an admin.
type UpdateUserRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	IsActive    *bool  `json:"isActive"`
}

// UpdateUser handles updating a user by ID (admin).
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil { // partial update
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "User not found")
		} else {
			h.Log.Error().Err(err).Msg("user lookup failed")
			utils.InternalServerError(c)
		}
		return
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.DB.Save(&user).Error; err != nil {
		h.Log.Error().Err(err).Msg("failed to update user")
		utils.InternalServerError(c)
		return
	}

	utils.Success(c, "User updated successfully", user.Sanitize())
}
