package handlers

import (
	"net/http"
	"testing"

	"lifelink-api-server/internal/database"
	"lifelink-api-server/internal/logger"
	"lifelink-api-server/internal/models"
	"lifelink-api-server/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func fundRouter(h *FundHandler, me models.Identity) *gin.Engine {
	r := gin.New()
	g := r.Group("/funds", as(me))
	g.POST("/create-payment-intent", h.CreatePaymentIntent)
	g.POST("", h.RecordFund)
	g.GET("", h.ListFunds)
	g.GET("/total", h.TotalFunds)
	return r
}

func TestCreatePaymentIntent(t *testing.T) {
	me := models.Identity{ID: primitive.NewObjectID().Hex(), Role: models.RoleDonor}

	t.Run("returns the client secret", func(t *testing.T) {
		payments := new(mockPayments)
		payments.On("CreateIntent", mock.Anything, 25.0).
			Return(&payment.Intent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil)

		w := perform(fundRouter(&FundHandler{Payments: payments, Log: logger.Discard()}, me),
			http.MethodPost, "/funds/create-payment-intent", `{"amount":25}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"clientSecret":"pi_1_secret","paymentIntentId":"pi_1"}`, w.Body.String())
	})

	t.Run("non-positive amount", func(t *testing.T) {
		payments := new(mockPayments)
		r := fundRouter(&FundHandler{Payments: payments, Log: logger.Discard()}, me)

		assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, "/funds/create-payment-intent", `{"amount":0}`).Code)
		assert.Equal(t, http.StatusBadRequest, perform(r, http.MethodPost, "/funds/create-payment-intent", `{"amount":-4}`).Code)
		payments.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
	})

	t.Run("processor not configured", func(t *testing.T) {
		payments := new(mockPayments)
		payments.On("CreateIntent", mock.Anything, 10.0).Return(nil, payment.ErrNotConfigured)

		w := perform(fundRouter(&FundHandler{Payments: payments, Log: logger.Discard()}, me),
			http.MethodPost, "/funds/create-payment-intent", `{"amount":10}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRecordFund(t *testing.T) {
	me := models.Identity{ID: primitive.NewObjectID().Hex(), Role: models.RoleDonor, Name: "Ana", Email: "ana@example.com"}
	succeeded := &payment.Intent{ID: "pi_1", Status: "succeeded", Amount: 2550}

	t.Run("stores a verified payment", func(t *testing.T) {
		payments := new(mockPayments)
		payments.On("GetIntent", mock.Anything, "pi_1").Return(succeeded, nil)
		funds := new(mockFundStore)
		funds.On("Create", mock.Anything, mock.MatchedBy(func(f *models.FundRecord) bool {
			return f.UserID == me.ID && f.UserEmail == me.Email && f.Amount == 25.5 && f.PaymentID == "pi_1"
		})).Return(nil)

		w := perform(fundRouter(&FundHandler{Funds: funds, Payments: payments, Log: logger.Discard()}, me),
			http.MethodPost, "/funds", `{"amount":25.5,"paymentId":"pi_1"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		funds.AssertExpectations(t)
	})

	t.Run("payment not succeeded", func(t *testing.T) {
		payments := new(mockPayments)
		payments.On("GetIntent", mock.Anything, "pi_2").
			Return(&payment.Intent{ID: "pi_2", Status: "requires_payment_method", Amount: 2550}, nil)
		funds := new(mockFundStore)

		w := perform(fundRouter(&FundHandler{Funds: funds, Payments: payments, Log: logger.Discard()}, me),
			http.MethodPost, "/funds", `{"amount":25.5,"paymentId":"pi_2"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		funds.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("amount mismatch", func(t *testing.T) {
		payments := new(mockPayments)
		payments.On("GetIntent", mock.Anything, "pi_1").Return(succeeded, nil)

		w := perform(fundRouter(&FundHandler{Funds: new(mockFundStore), Payments: payments, Log: logger.Discard()}, me),
			http.MethodPost, "/funds", `{"amount":1000,"paymentId":"pi_1"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown intent", func(t *testing.T) {
		payments := new(mockPayments)
		payments.On("GetIntent", mock.Anything, "pi_x").Return(nil, payment.ErrIntentNotFound)

		w := perform(fundRouter(&FundHandler{Funds: new(mockFundStore), Payments: payments, Log: logger.Discard()}, me),
			http.MethodPost, "/funds", `{"amount":5,"paymentId":"pi_x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate payment id", func(t *testing.T) {
		payments := new(mockPayments)
		payments.On("GetIntent", mock.Anything, "pi_1").Return(succeeded, nil)
		funds := new(mockFundStore)
		funds.On("Create", mock.Anything, mock.Anything).Return(database.ErrConflict)

		w := perform(fundRouter(&FundHandler{Funds: funds, Payments: payments, Log: logger.Discard()}, me),
			http.MethodPost, "/funds", `{"amount":25.5,"paymentId":"pi_1"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing payment id", func(t *testing.T) {
		w := perform(fundRouter(&FundHandler{Funds: new(mockFundStore), Payments: new(mockPayments), Log: logger.Discard()}, me),
			http.MethodPost, "/funds", `{"amount":5}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFundsListAndTotal(t *testing.T) {
	me := models.Identity{ID: primitive.NewObjectID().Hex(), Role: models.RoleAdmin}
	funds := new(mockFundStore)
	funds.On("List", mock.Anything).Return([]models.FundRecord{{PaymentID: "pi_1", Amount: 10}}, nil)
	funds.On("Total", mock.Anything).Return(0.0, nil)

	r := fundRouter(&FundHandler{Funds: funds, Log: logger.Discard()}, me)

	w := perform(r, http.MethodGet, "/funds", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"paymentId":"pi_1"`)

	w = perform(r, http.MethodGet, "/funds/total", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalFunds":0}`, w.Body.String())
}
