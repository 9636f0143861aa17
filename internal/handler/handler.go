// Package handler exposes the services over gin. Handlers only bind input,
// call one service method and render the result; every error goes through
// respondError so the status code follows the apperr kind.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"bizbooks/internal/apperr"
	"bizbooks/internal/logger"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		l := logger.FromContext(c.Request.Context())
		l.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// pathID reads a positive numeric path parameter. It writes the 400 itself.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// queryTime parses an RFC3339 query parameter; a bare date (2006-01-02) is read as UTC midnight.
func queryTime(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + ", expected RFC3339"})
	return time.Time{}, false
}
