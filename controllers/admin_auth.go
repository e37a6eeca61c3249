package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/Amber-bisht/watch-me/config"
	"github.com/Amber-bisht/watch-me/models"
	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdminLoginRequest represents the admin login request
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthController handles back office sign in
type AuthController struct {
	jwtSecret string
}

// NewAuthController creates an AuthController signing tokens with jwtSecret
func NewAuthController(jwtSecret string) *AuthController {
	return &AuthController{jwtSecret: jwtSecret}
}

// AdminLogin handles admin authentication
func (a *AuthController) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogDebug("Invalid login request: %v", err)
		utils.BadRequest(c, utils.ErrInvalidRequest, utils.ValidationDetails(err))
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var admin models.Admin
	if err := config.DB.Where("email = ?", email).First(&admin).Error; err != nil {
		utils.LogWarn("Admin login failed for %s: %v", email, err)
		utils.Unauthorized(c, utils.ErrInvalidCredential)
		return
	}

	if !admin.IsActive || admin.Role != models.RoleAdmin || !utils.CheckPassword(req.Password, admin.Password) {
		utils.LogWarn("Admin login rejected for %s", email)
		utils.Unauthorized(c, utils.ErrInvalidCredential)
		return
	}

	token, expiresAt, err := utils.GenerateAdminToken(&admin, a.jwtSecret)
	if err != nil {
		utils.LogError("Failed to sign token for admin %s: %v", admin.Email, err)
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	if err := utils.SaveSessionToken(c, token); err != nil {
		utils.LogError("Failed to store admin session: %v", err)
	}

	admin.LastLogin = time.Now()
	if err := config.DB.Model(&admin).Update("last_login", admin.LastLogin).Error; err != nil {
		utils.LogWarn("Failed to update last login for admin %s: %v", admin.Email, err)
	}

	utils.LogInfo("Admin login successful: %s", admin.Email)
	utils.Success(c, "Login successful", gin.H{
		"token":     token,
		"expiresAt": expiresAt,
		"admin": gin.H{
			"id":    admin.ID,
			"email": admin.Email,
			"name":  admin.Name,
			"role":  admin.Role,
		},
	})
}

// AdminLogout blacklists the presented token and clears the session
func (a *AuthController) AdminLogout(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		tokenString = utils.SessionToken(c)
	}
	if err := utils.ClearSession(c); err != nil {
		utils.LogWarn("Failed to clear admin session: %v", err)
	}
	if tokenString == "" {
		utils.Success(c, "Logged out successfully", nil)
		return
	}

	blacklisted := models.BlacklistedToken{Token: tokenString, ExpiresAt: time.Now().Add(utils.AdminTokenTTL)}
	if claims, err := utils.ParseAdminToken(tokenString, a.jwtSecret); err == nil {
		blacklisted.AdminID = claims.AdminID
		blacklisted.ExpiresAt = claims.ExpiresAt
	} else {
		utils.LogDebug("Logout with unparsable token: %v", err)
	}

	err := config.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&blacklisted).Error
	if err != nil {
		utils.LogError("Failed to blacklist token on logout: %v", err)
	}
	if purged, err := models.PurgeExpiredTokens(config.DB, time.Now()); err != nil {
		utils.LogWarn("Failed to purge expired blacklisted tokens: %v", err)
	} else if purged > 0 {
		utils.LogDebug("Purged %d expired blacklisted tokens", purged)
	}

	utils.Success(c, "Logged out successfully", nil)
}

// AdminProfile returns the signed in admin
func (a *AuthController) AdminProfile(c *gin.Context) {
	admin, ok := c.MustGet("admin").(models.Admin)
	if !ok {
		utils.Unauthorized(c, "Unauthorized")
		return
	}
	utils.Success(c, "Admin retrieved successfully", gin.H{
		"id":        admin.ID,
		"email":     admin.Email,
		"name":      admin.Name,
		"role":      admin.Role,
		"lastLogin": admin.LastLogin,
	})
}

// SeedAdmin creates the back office admin, or resets its password when it exists
func SeedAdmin(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	var admin models.Admin
	err = db.Where("email = ?", email).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin = models.Admin{
			Email:    email,
			Password: hashedPassword,
			Name:     "Admin",
			Role:     models.RoleAdmin,
			IsActive: true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		utils.LogInfo("Created admin %s", email)
	case err != nil:
		return err
	default:
		if err := db.Model(&admin).Updates(map[string]interface{}{
			"password":  hashedPassword,
			"role":      models.RoleAdmin,
			"is_active": true,
		}).Error; err != nil {
			return err
		}
		utils.LogInfo("Updated admin %s", email)
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
