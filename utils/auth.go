package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/Amber-bisht/watch-me/models"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AdminTokenTTL is the lifetime of an admin token
const AdminTokenTTL = 24 * time.Hour

// AdminClaims are the claims carried by an admin token
type AdminClaims struct {
	AdminID   uint
	Role      string
	ExpiresAt time.Time
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateAdminToken creates a signed JWT for an admin
func GenerateAdminToken(admin *models.Admin, secret string) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("jwt secret not configured")
	}
	expiresAt := time.Now().Add(AdminTokenTTL)

	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["admin_id"] = admin.ID
	claims["role"] = admin.Role
	claims["exp"] = expiresAt.Unix()

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseAdminToken validates an admin JWT and returns its claims
func ParseAdminToken(tokenString, secret string) (*AdminClaims, error) {
	if secret == "" {
		return nil, errors.New("jwt secret not configured")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	adminID, ok := claims["admin_id"].(float64)
	if !ok {
		return nil, errors.New("invalid admin ID in token")
	}
	role, _ := claims["role"].(string)
	exp, _ := claims["exp"].(float64)

	return &AdminClaims{
		AdminID:   uint(adminID),
		Role:      role,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
