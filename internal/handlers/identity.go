package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medbook-server/internal/access"
	"medbook-server/internal/middleware"
	"medbook-server/internal/utils"
)

func middlewareUserID(c *gin.Context) (string, bool) {
	return middleware.GetUserIDFromContext(c)
}

// resolveIdentity builds the caller's Identity from the auth context. A
// user without a linked profile still gets an Identity; its empty
// ProfileID simply fails every ownership check downstream.
func resolveIdentity(c *gin.Context, db *gorm.DB, log zerolog.Logger) (access.Identity, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return access.Identity{}, false
	}
	role, _ := middleware.GetUserRoleFromContext(c)

	identity, err := access.Resolve(db, userID, role)
	if err != nil && !errors.Is(err, access.ErrNoProfile) {
		log.Error().Err(err).Str("userId", userID).Msg("failed to resolve identity")
		utils.InternalServerError(c)
		return access.Identity{}, false
	}
	return identity, true
}
