// server/internal/api/handlers/admin_handler.go
package handlers

import (
	"net/http"

	"lifelink-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	Users     UserStore
	Donations DonationStore
	Funds     FundStore
	Log       *logrus.Entry
}

// ListUsers returns every user, optionally filtered by ?role= and ?status=.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	filter := models.UserFilter{Role: c.Query("role"), Status: c.Query("status")}
	if filter.Role != "" && !models.IsValidRole(filter.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role filter"})
		return
	}
	if filter.Status != "" && filter.Status != models.StatusActive && filter.Status != models.StatusBlocked {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	users, err := h.Users.List(c.Request.Context(), filter)
	if err != nil {
		internalError(c, h.Log, err, "Failed to load users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) BlockUser(c *gin.Context) {
	h.setStatus(c, models.StatusBlocked, "User blocked")
}

func (h *AdminHandler) UnblockUser(c *gin.Context) {
	h.setStatus(c, models.StatusActive, "User unblocked")
}

func (h *AdminHandler) setStatus(c *gin.Context, status, message string) {
	me, ok := identity(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == me.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot change your own status"})
		return
	}

	if err := h.Users.SetStatus(c.Request.Context(), id, status); err != nil {
		storeError(c, h.Log, err, "User not found", "Failed to update user status")
		return
	}
	h.Log.WithFields(logrus.Fields{"admin": me.ID, "user": id, "status": status}).Info("User status changed")
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *AdminHandler) MakeVolunteer(c *gin.Context) {
	h.setRole(c, models.RoleVolunteer, "User promoted to volunteer")
}

func (h *AdminHandler) MakeAdmin(c *gin.Context) {
	h.setRole(c, models.RoleAdmin, "User promoted to admin")
}

func (h *AdminHandler) setRole(c *gin.Context, role, message string) {
	me, ok := identity(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == me.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot change your own role"})
		return
	}

	if err := h.Users.SetRole(c.Request.Context(), id, role); err != nil {
		storeError(c, h.Log, err, "User not found", "Failed to update user role")
		return
	}
	h.Log.WithFields(logrus.Fields{"admin": me.ID, "user": id, "role": role}).Info("User role changed")
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Stats aggregates users per role, donation requests per status and the fund total.
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	byRole, err := h.Users.CountByRole(ctx)
	if err != nil {
		internalError(c, h.Log, err, "Failed to load statistics")
		return
	}
	byStatus, err := h.Donations.CountByStatus(ctx)
	if err != nil {
		internalError(c, h.Log, err, "Failed to load statistics")
		return
	}
	total, err := h.Funds.Total(ctx)
	if err != nil {
		internalError(c, h.Log, err, "Failed to load statistics")
		return
	}

	c.JSON(http.StatusOK, models.DashboardStats{
		UsersByRole:      byRole,
		DonationsByState: byStatus,
		TotalFunds:       total,
	})
}
