package handlers

import (
	"errors"
	"net/http"
	"strings"

	"lifelink-api-server/internal/api/middleware"
	"lifelink-api-server/internal/database"
	"lifelink-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// storeError maps a store error to a response. Unclassified errors are
// logged and answered with a generic 500 message.
func storeError(c *gin.Context, log *logrus.Entry, err error, notFound, internal string) {
	switch {
	case errors.Is(err, database.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, database.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to change this resource"})
	case errors.Is(err, database.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflictMessage(err)})
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error(internal)
		c.JSON(http.StatusInternalServerError, gin.H{"error": internal})
	}
}

// conflictMessage strips the sentinel prefix from a wrapped ErrConflict.
func conflictMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), database.ErrConflict.Error()+": ")
	if msg == database.ErrConflict.Error() {
		return "Conflict"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func internalError(c *gin.Context, log *logrus.Entry, err error, message string) {
	log.WithError(err).WithField("path", c.FullPath()).Error(message)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// identity returns the caller. Routes using it sit behind Authenticate,
// so a missing identity is answered with 401.
func identity(c *gin.Context) (models.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	}
	return id, ok
}
