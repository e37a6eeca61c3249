package controllers

import (
	"strconv"
	"strings"

	"github.com/Amber-bisht/watch-me/utils"
	"github.com/gin-gonic/gin"
)

// idParam parses the :id path parameter, answering 400 when it is not a positive integer
func idParam(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.BadRequest(c, "Invalid id", raw)
		return 0, false
	}
	return uint(id), true
}

// likePattern builds a case-insensitive LIKE pattern for a search term
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
