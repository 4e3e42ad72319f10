package handlers

import (
	"context"
	"io"

	"lifelink-api-server/internal/models"
	"lifelink-api-server/internal/payment"
)

// The handlers depend on these interfaces; the Mongo stores in
// internal/database implement them.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, f models.UserFilter) ([]models.User, error)
	MatchDonors(ctx context.Context, m models.DonorMatch) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, fields map[string]string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	SetStatus(ctx context.Context, id, status string) error
	SetRole(ctx context.Context, id, role string) error
	SetAvailability(ctx context.Context, id, availability, district, upazila string) error
	CountByRole(ctx context.Context) (map[string]int64, error)
}

type DonationStore interface {
	Create(ctx context.Context, req *models.DonationRequest) error
	FindByID(ctx context.Context, id string) (*models.DonationRequest, error)
	ListByRequester(ctx context.Context, requesterID, status string) ([]models.DonationRequest, error)
	List(ctx context.Context, status string) ([]models.DonationRequest, error)
	Transition(ctx context.Context, id string, t models.DonationTransition) (*models.DonationRequest, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type FundStore interface {
	Create(ctx context.Context, fund *models.FundRecord) error
	List(ctx context.Context) ([]models.FundRecord, error)
	Total(ctx context.Context) (float64, error)
}

type GeoStore interface {
	Districts(ctx context.Context) ([]models.District, error)
	Upazilas(ctx context.Context, districtID string) ([]models.Upazila, error)
}

type RequestStore interface {
	Create(ctx context.Context, req *models.Request) error
	ListForVolunteer(ctx context.Context, volunteerID string) ([]models.Request, error)
	ListByRequester(ctx context.Context, requesterID string) ([]models.Request, error)
	Accept(ctx context.Context, id string, by models.PersonRef) (*models.Request, error)
	Complete(ctx context.Context, id string, by models.PersonRef) (*models.Request, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// Notifier pushes a stored notification to connected clients.
type Notifier interface {
	Notify(n models.Notification)
}

type EmailSender interface {
	Send(ctx context.Context, to, subject, markdown string) error
}

type PaymentProcessor interface {
	CreateIntent(ctx context.Context, amount float64) (*payment.Intent, error)
	GetIntent(ctx context.Context, id string) (*payment.Intent, error)
}

type AvatarUploader interface {
	UploadFile(ctx context.Context, file io.Reader, objectKey, contentType string) (string, error)
}

type TokenIssuer interface {
	Generate(user models.User) (string, error)
}
