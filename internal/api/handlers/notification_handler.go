package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type NotificationHandler struct {
	Notifications NotificationStore
	Log           *logrus.Entry
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	list, err := h.Notifications.ListByUser(c.Request.Context(), me.ID)
	if err != nil {
		internalError(c, h.Log, err, "Failed to load notifications")
		return
	}
	c.JSON(http.StatusOK, list)
}

// MarkRead only touches notifications owned by the caller; anything else is 404.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	if err := h.Notifications.MarkRead(c.Request.Context(), c.Param("id"), me.ID); err != nil {
		storeError(c, h.Log, err, "Notification not found", "Failed to update notification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	n, err := h.Notifications.MarkAllRead(c.Request.Context(), me.ID)
	if err != nil {
		internalError(c, h.Log, err, "Failed to update notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": n})
}
