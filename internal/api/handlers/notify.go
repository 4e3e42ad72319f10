package handlers

import (
	"context"
	"time"

	"lifelink-api-server/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const mailTimeout = 15 * time.Second

// Recipient identifies who a notification is for. Email is optional.
type Recipient struct {
	ID    string
	Email string
}

// NotificationSender stores a notification, pushes it live and, when Mail is
// set, emails a copy. It runs after the primary write has already succeeded;
// a failure here is logged and not rolled back.
type NotificationSender struct {
	Store NotificationStore
	Hub   Notifier
	Mail  EmailSender
	Log   *logrus.Entry
}

func (s *NotificationSender) Send(ctx context.Context, to Recipient, kind, title, message string) {
	if s == nil || s.Store == nil {
		return
	}
	uid, err := primitive.ObjectIDFromHex(to.ID)
	if err != nil {
		s.Log.WithField("user", to.ID).Warn("Skipping notification for invalid user id")
		return
	}

	n := models.Notification{
		UserID:    uid,
		Title:     title,
		Message:   message,
		Type:      kind,
		Read:      false,
		CreatedAt: time.Now(),
	}
	if err := s.Store.Create(ctx, &n); err != nil {
		s.Log.WithError(err).WithField("user", to.ID).Error("Failed to store notification")
		return
	}
	if s.Hub != nil {
		s.Hub.Notify(n)
	}
	if s.Mail != nil && to.Email != "" {
		go s.email(context.WithoutCancel(ctx), to, title, message)
	}
}

// email runs off the request path so a slow provider or a client that hangs
// up neither delays the response nor drops the message.
func (s *NotificationSender) email(ctx context.Context, to Recipient, title, message string) {
	ctx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()
	if err := s.Mail.Send(ctx, to.Email, title, message); err != nil {
		s.Log.WithError(err).WithField("user", to.ID).Warn("Failed to email notification")
	}
}
