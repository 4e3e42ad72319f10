package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GeoHandler serves the district and upazila lookup tables. Both routes are public.
type GeoHandler struct {
	Geo GeoStore
	Log *logrus.Entry
}

func (h *GeoHandler) GetDistricts(c *gin.Context) {
	districts, err := h.Geo.Districts(c.Request.Context())
	if err != nil {
		internalError(c, h.Log, err, "Failed to load districts")
		return
	}
	c.JSON(http.StatusOK, districts)
}

func (h *GeoHandler) GetUpazilas(c *gin.Context) {
	upazilas, err := h.Geo.Upazilas(c.Request.Context(), c.Param("districtId"))
	if err != nil {
		internalError(c, h.Log, err, "Failed to load upazilas")
		return
	}
	c.JSON(http.StatusOK, upazilas)
}
