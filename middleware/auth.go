package middleware

import (
	"net/http"
	"strings"

	"github.com/Amber-bisht/watch-me/config"
	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware admits requests carrying a valid admin token, either as a
// Bearer header or in the admin session. Every rejection is a plain 401.
func AdminAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			tokenString = utils.SessionToken(c)
		}
		if tokenString == "" {
			utils.LogDebug("Admin request without token: %s", c.Request.URL.Path)
			utils.AbortWithError(c, http.StatusUnauthorized, utils.ErrUnauthorized, nil)
			return
		}

		claims, err := utils.ParseAdminToken(tokenString, jwtSecret)
		if err != nil {
			utils.LogWarn("Invalid admin token: %v", err)
			utils.AbortWithError(c, http.StatusUnauthorized, utils.ErrUnauthorized, nil)
			return
		}

		var blacklisted int64
		if err := config.DB.Model(&models.BlacklistedToken{}).Where("token = ?", tokenString).Count(&blacklisted).Error; err != nil {
			utils.LogError("Blacklist lookup failed: %v", err)
			utils.AbortWithError(c, http.StatusUnauthorized, utils.ErrUnauthorized, nil)
			return
		}
		if blacklisted > 0 {
			utils.LogWarn("Blacklisted admin token used for admin %d", claims.AdminID)
			utils.AbortWithError(c, http.StatusUnauthorized, utils.ErrUnauthorized, nil)
			return
		}

		var admin models.Admin
		if err := config.DB.First(&admin, claims.AdminID).Error; err != nil {
			utils.LogWarn("Admin %d from token not found: %v", claims.AdminID, err)
			utils.AbortWithError(c, http.StatusUnauthorized, utils.ErrUnauthorized, nil)
			return
		}
		if !admin.IsActive || admin.Role != models.RoleAdmin || claims.Role != models.RoleAdmin {
			utils.LogWarn("Admin %d is inactive or lacks the admin role", admin.ID)
			utils.AbortWithError(c, http.StatusUnauthorized, utils.ErrUnauthorized, nil)
			return
		}

		c.Set("admin", admin)
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
