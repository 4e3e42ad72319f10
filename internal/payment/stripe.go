package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

var (
	ErrNotConfigured  = errors.New("payment processor is not configured")
	ErrIntentNotFound = errors.New("payment intent not found")
)

// Intent is the part of a Stripe PaymentIntent the API exposes.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
}

// Succeeded reports whether the payment has been captured.
func (i *Intent) Succeeded() bool {
	return i.Status == string(stripe.PaymentIntentStatusSucceeded)
}

// StripeClient wraps the Stripe API with the configured currency.
type StripeClient struct {
	api      *client.API
	currency string
}

func NewStripeClient(secretKey, currency string) *StripeClient {
	return NewStripeClientWithBackends(secretKey, currency, nil)
}

// NewStripeClientWithBackends lets tests point the client at a fake server.
func NewStripeClientWithBackends(secretKey, currency string, backends *stripe.Backends) *StripeClient {
	if secretKey == "" {
		return &StripeClient{currency: currency}
	}
	return &StripeClient{api: client.New(secretKey, backends), currency: currency}
}

// ToMinorUnits converts a major-unit amount to cents, rounding to nearest.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateIntent opens a card PaymentIntent for amount (major units).
func (s *StripeClient) CreateIntent(ctx context.Context, amount float64) (*Intent, error) {
	if s.api == nil {
		return nil, ErrNotConfigured
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(ToMinorUnits(amount)),
		Currency:           stripe.String(s.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return toIntent(pi), nil
}

// GetIntent fetches a PaymentIntent to confirm its status.
func (s *StripeClient) GetIntent(ctx context.Context, id string) (*Intent, error) {
	if s.api == nil {
		return nil, ErrNotConfigured
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(id, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrIntentNotFound, id)
		}
		return nil, fmt.Errorf("get payment intent: %w", err)
	}
	return toIntent(pi), nil
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}
}
