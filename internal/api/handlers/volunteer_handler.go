package handlers

import (
	"net/http"

	"lifelink-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type VolunteerHandler struct {
	Users UserStore
	Log   *logrus.Entry
}

type AvailabilityRequest struct {
	Availability string `json:"availability" binding:"required"`
	District     string `json:"district"`
	Upazila      string `json:"upazila"`
}

// UpdateAvailability sets the caller's availability and service area.
func (h *VolunteerHandler) UpdateAvailability(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "availability is required"})
		return
	}
	if req.Availability != models.AvailabilityActive && req.Availability != models.AvailabilityInactive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "availability must be active or inactive"})
		return
	}

	if err := h.Users.SetAvailability(c.Request.Context(), me.ID, req.Availability, req.District, req.Upazila); err != nil {
		storeError(c, h.Log, err, "User not found", "Failed to update availability")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability updated", "availability": req.Availability})
}
