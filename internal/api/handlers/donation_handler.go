package handlers

import (
	"net/http"
	"time"

	"lifelink-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type DonationHandler struct {
	Donations DonationStore
	Notify    *NotificationSender
	Log       *logrus.Entry
}

type CreateDonationRequestPayload struct {
	RecipientName     string `json:"recipientName" binding:"required"`
	RecipientDistrict string `json:"recipientDistrict" binding:"required"`
	RecipientUpazila  string `json:"recipientUpazila" binding:"required"`
	HospitalName      string `json:"hospitalName" binding:"required"`
	FullAddress       string `json:"fullAddress"`
	BloodGroup        string `json:"bloodGroup" binding:"required"`
	DonationDate      string `json:"donationDate" binding:"required"`
	DonationTime      string `json:"donationTime"`
	RequestMessage    string `json:"requestMessage"`
}

// CreateDonationRequest opens a pending request for the calling donor.
func (h *DonationHandler) CreateDonationRequest(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	var payload CreateDonationRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := &models.DonationRequest{
		RequesterID:       me.ID,
		RequesterName:     me.Name,
		RequesterEmail:    me.Email,
		RecipientName:     payload.RecipientName,
		RecipientDistrict: payload.RecipientDistrict,
		RecipientUpazila:  payload.RecipientUpazila,
		HospitalName:      payload.HospitalName,
		FullAddress:       payload.FullAddress,
		BloodGroup:        payload.BloodGroup,
		DonationDate:      payload.DonationDate,
		DonationTime:      payload.DonationTime,
		RequestMessage:    payload.RequestMessage,
		DonationStatus:    models.DonationPending,
		DonorInfo:         nil,
		CreatedAt:         time.Now(),
	}

	if err := h.Donations.Create(c.Request.Context(), req); err != nil {
		internalError(c, h.Log, err, "Failed to create donation request")
		return
	}
	c.JSON(http.StatusCreated, req)
}

// statusQuery reads the optional ?status= filter. It writes a 400 and
// returns false for unknown values.
func statusQuery(c *gin.Context) (string, bool) {
	status := c.Query("status")
	if status != "" && !models.IsValidDonationStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return "", false
	}
	return status, true
}

// GetMyDonationRequests lists the caller's own requests, newest first.
func (h *DonationHandler) GetMyDonationRequests(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}
	status, ok := statusQuery(c)
	if !ok {
		return
	}

	requests, err := h.Donations.ListByRequester(c.Request.Context(), me.ID, status)
	if err != nil {
		internalError(c, h.Log, err, "Failed to load requests")
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetAllDonationRequests lists every request for volunteers and admins.
func (h *DonationHandler) GetAllDonationRequests(c *gin.Context) {
	status, ok := statusQuery(c)
	if !ok {
		return
	}

	requests, err := h.Donations.List(c.Request.Context(), status)
	if err != nil {
		internalError(c, h.Log, err, "Failed to load requests")
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetDonationRequest returns one request to its requester, volunteers and admins.
func (h *DonationHandler) GetDonationRequest(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	req, err := h.Donations.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		storeError(c, h.Log, err, "Request not found", "Failed to load request")
		return
	}
	if req.RequesterID != me.ID && !me.HasRole(models.RoleVolunteer, models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to view this request"})
		return
	}
	c.JSON(http.StatusOK, req)
}

// AcceptDonationRequest moves pending to inprogress and records the acceptor.
func (h *DonationHandler) AcceptDonationRequest(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	t := models.AcceptDonation
	t.Donor = &models.DonorInfo{Name: me.Name, Email: me.Email}

	updated, err := h.Donations.Transition(c.Request.Context(), c.Param("id"), t)
	if err != nil {
		storeError(c, h.Log, err, "Request not found", "Failed to accept request")
		return
	}

	h.Notify.Send(c.Request.Context(), Recipient{ID: updated.RequesterID, Email: updated.RequesterEmail}, models.NotificationDonationAccepted,
		"Donation request accepted",
		me.Name+" accepted your request for "+updated.RecipientName+".")

	c.JSON(http.StatusOK, gin.H{"message": "Donation request accepted", "request": updated})
}

// CompleteDonationRequest moves inprogress to done. Admins may complete any
// request; anyone else only their own.
func (h *DonationHandler) CompleteDonationRequest(c *gin.Context) {
	h.finish(c, models.CompleteDonation, models.NotificationDonationDone,
		"Donation completed", "Donation marked as completed", "Failed to mark donation done")
}

// CancelDonationRequest moves pending|inprogress to canceled under the same
// admin-or-requester rule as completion.
func (h *DonationHandler) CancelDonationRequest(c *gin.Context) {
	h.finish(c, models.CancelDonation, models.NotificationDonationCanceled,
		"Donation canceled", "Donation canceled", "Failed to cancel donation")
}

func (h *DonationHandler) finish(c *gin.Context, t models.DonationTransition, kind, title, okMessage, failMessage string) {
	me, ok := identity(c)
	if !ok {
		return
	}
	if !me.HasRole(models.RoleAdmin) {
		t.Owner = me.ID
	}

	updated, err := h.Donations.Transition(c.Request.Context(), c.Param("id"), t)
	if err != nil {
		storeError(c, h.Log, err, "Request not found", failMessage)
		return
	}

	if updated.RequesterID != me.ID {
		h.Notify.Send(c.Request.Context(), Recipient{ID: updated.RequesterID, Email: updated.RequesterEmail}, kind, title,
			"Your request for "+updated.RecipientName+" is now "+updated.DonationStatus+".")
	}

	c.JSON(http.StatusOK, gin.H{"message": okMessage, "request": updated})
}
