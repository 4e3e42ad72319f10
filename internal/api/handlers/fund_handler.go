package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"lifelink-api-server/internal/database"
	"lifelink-api-server/internal/models"
	"lifelink-api-server/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type FundHandler struct {
	Funds    FundStore
	Payments PaymentProcessor
	Log      *logrus.Entry
}

type PaymentIntentRequest struct {
	Amount float64 `json:"amount"`
}

type RecordFundRequest struct {
	Amount    float64 `json:"amount"`
	PaymentID string  `json:"paymentId"`
}

func (h *FundHandler) paymentError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, payment.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payments are not configured"})
	case errors.Is(err, payment.ErrIntentNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown payment"})
	default:
		internalError(c, h.Log, err, message)
	}
}

// CreatePaymentIntent opens a Stripe PaymentIntent the client confirms with its card.
func (h *FundHandler) CreatePaymentIntent(c *gin.Context) {
	var req PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 || payment.ToMinorUnits(req.Amount) <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive number"})
		return
	}

	intent, err := h.Payments.CreateIntent(c.Request.Context(), req.Amount)
	if err != nil {
		h.paymentError(c, err, "Failed to create payment intent")
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": intent.ClientSecret, "paymentIntentId": intent.ID})
}

// RecordFund saves a payment once Stripe reports it succeeded for the same amount.
func (h *FundHandler) RecordFund(c *gin.Context) {
	me, ok := identity(c)
	if !ok {
		return
	}

	var req RecordFundRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 || strings.TrimSpace(req.PaymentID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount and paymentId are required"})
		return
	}

	ctx := c.Request.Context()
	intent, err := h.Payments.GetIntent(ctx, req.PaymentID)
	if err != nil {
		h.paymentError(c, err, "Failed to verify payment")
		return
	}
	if !intent.Succeeded() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment has not succeeded"})
		return
	}
	if intent.Amount != payment.ToMinorUnits(req.Amount) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount does not match the payment"})
		return
	}

	fund := &models.FundRecord{
		UserID:    me.ID,
		UserName:  me.Name,
		UserEmail: me.Email,
		Amount:    req.Amount,
		PaymentID: req.PaymentID,
		Date:      time.Now(),
	}
	if err := h.Funds.Create(ctx, fund); err != nil {
		if errors.Is(err, database.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "Payment already recorded"})
			return
		}
		internalError(c, h.Log, err, "Failed to record fund")
		return
	}
	c.JSON(http.StatusCreated, fund)
}

func (h *FundHandler) ListFunds(c *gin.Context) {
	funds, err := h.Funds.List(c.Request.Context())
	if err != nil {
		internalError(c, h.Log, err, "Failed to load funds")
		return
	}
	c.JSON(http.StatusOK, funds)
}

func (h *FundHandler) TotalFunds(c *gin.Context) {
	total, err := h.Funds.Total(c.Request.Context())
	if err != nil {
		internalError(c, h.Log, err, "Failed to load fund total")
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalFunds": total})
}
