package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// parseIDParam reads a snowflake path parameter. A malformed id cannot name
// an existing row, so it is reported as not found.
func parseIDParam(c *gin.Context, name string) (snowflake.ID, bool) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		AbortWithError(c, ErrNotFound)
		return 0, false
	}
	id, err := snowflake.ParseString(raw)
	if err != nil || id <= 0 {
		AbortWithError(c, ErrNotFound)
		return 0, false
	}
	return id, true
}

func requireAccount(c *gin.Context) (snowflake.ID, bool) {
	accountID, ok := accountIDFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return 0, false
	}
	return accountID, true
}
