package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"scenehub/internal/ingestion/anilist"
	"scenehub/internal/microservices/http-api/service"
	"scenehub/internal/shared"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
)

// currentUser returns the authenticated user, writing a 401 when there is none.
func currentUser(c *gin.Context) (userID, username string, ok bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", "", false
	}
	userID, _ = v.(string)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", "", false
	}
	username = c.GetString(ContextUsername)
	return userID, username, true
}

// pathID parses a positive int64 path parameter, writing a 400 on failure.
func pathID(c *gin.Context, name, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID"})
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func errInvalidQuery(name string) error {
	return errors.New("invalid " + name + " parameter")
}

// parseIDList parses "1,2,3". Blank entries are skipped.
func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.New("invalid id " + strconv.Quote(part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// respondError maps service errors onto status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyReported):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": shared.CodeAlreadyReported})
	case errors.Is(err, anilist.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "anime catalog is temporarily unavailable"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
