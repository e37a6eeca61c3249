package utils

import (
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionName is the cookie holding the admin session
const SessionName = "watchme_admin"

const sessionTokenKey = "admin_token"

// SaveSessionToken stores the admin token in the cookie session
func SaveSessionToken(c *gin.Context, token string) error {
	session := sessions.Default(c)
	session.Set(sessionTokenKey, token)
	if err := session.Save(); err != nil {
		return fmt.Errorf("session save failed: %v", err)
	}
	return nil
}

// SessionToken returns the admin token stored in the cookie session, if any
func SessionToken(c *gin.Context) string {
	session := sessions.Default(c)
	token, _ := session.Get(sessionTokenKey).(string)
	return token
}

// ClearSession removes the admin session
func ClearSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}
