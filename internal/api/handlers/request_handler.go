package handlers

import (
	"net/http"
	"time"

	"lifelink-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestHandler drives the volunteer-owned request lifecycle: pending, accepted, completed.
type RequestHandler struct {
	Requests RequestStore
	Notify   *NotificationSender
	Log      *logrus.Entry
}

type CreateRequestPayload struct {
	BloodGroup   string `json:"bloodGroup" binding:"required"`
	District     string `json:"district" binding:"required"`
	Upazila      string `json:"upazila" binding:"required"`
	HospitalName string `json:"hospitalName" binding:"required"`
	Message      string `json:"message"`
}

func personRef(me models.Identity) models.PersonRef {
	return models.PersonRef{ID: me.ID, Name: me.Name, Email: me.Email}
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	var payload CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := &models.Request{
		Requester:    personRef(me),
		BloodGroup:   payload.BloodGroup,
		District:     payload.District,
		Upazila:      payload.Upazila,
		HospitalName: payload.HospitalName,
		Message:      payload.Message,
		Status:       models.RequestPending,
		CreatedAt:    time.Now(),
	}
	if err := h.Requests.Create(c.Request.Context(), req); err != nil {
		internalError(c, h.Log, err, "Failed to create request")
		return
	}
	c.JSON(http.StatusCreated, req)
}

// GetRequests lists pending requests plus those the calling volunteer accepted.
func (h *RequestHandler) GetRequests(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	requests, err := h.Requests.ListForVolunteer(c.Request.Context(), me.ID)
	if err != nil {
		internalError(c, h.Log, err, "Failed to load requests")
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) GetMyRequests(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	requests, err := h.Requests.ListByRequester(c.Request.Context(), me.ID)
	if err != nil {
		internalError(c, h.Log, err, "Failed to load requests")
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) AcceptRequest(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	updated, err := h.Requests.Accept(c.Request.Context(), c.Param("id"), personRef(me))
	if err != nil {
		storeError(c, h.Log, err, "Request not found", "Failed to accept request")
		return
	}

	h.Notify.Send(c.Request.Context(), Recipient{ID: updated.Requester.ID, Email: updated.Requester.Email}, models.NotificationRequestAccepted,
		"Request accepted",
		"Volunteer "+me.Name+" is handling your request at "+updated.HospitalName+".")

	c.JSON(http.StatusOK, gin.H{"message": "Request accepted", "request": updated})
}

// CompleteRequest is allowed only for the volunteer who accepted the request.
func (h *RequestHandler) CompleteRequest(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	updated, err := h.Requests.Complete(c.Request.Context(), c.Param("id"), personRef(me))
	if err != nil {
		storeError(c, h.Log, err, "Request not found", "Failed to complete request")
		return
	}

	h.Notify.Send(c.Request.Context(), Recipient{ID: updated.Requester.ID, Email: updated.Requester.Email}, models.NotificationRequestCompleted,
		"Request completed",
		"Your "+updated.BloodGroup+" request at "+updated.HospitalName+" has been completed.")

	c.JSON(http.StatusOK, gin.H{"message": "Request completed", "request": updated})
}
