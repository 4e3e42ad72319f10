package handlers

import (
	"net/http"
	"strings"

	"lifelink-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type DonorHandler struct {
	Users UserStore
	Log   *logrus.Entry
}

// MatchDonors finds active donors with the exact blood group, district and upazila.
func (h *DonorHandler) MatchDonors(c *gin.Context) {
	match := models.DonorMatch{
		BloodGroup: strings.TrimSpace(c.Query("bloodGroup")),
		District:   strings.TrimSpace(c.Query("district")),
		Upazila:    strings.TrimSpace(c.Query("upazila")),
	}
	if match.BloodGroup == "" || match.District == "" || match.Upazila == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bloodGroup, district and upazila are required"})
		return
	}

	donors, err := h.Users.MatchDonors(c.Request.Context(), match)
	if err != nil {
		internalError(c, h.Log, err, "Failed to search donors")
		return
	}
	c.JSON(http.StatusOK, donors)
}
