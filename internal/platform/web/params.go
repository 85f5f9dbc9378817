package web

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt membaca query param numerik dengan nilai default.
func QueryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
