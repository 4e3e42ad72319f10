package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Volunteer-assigned request statuses.
const (
	RequestPending   = "pending"
	RequestAccepted  = "accepted"
	RequestCompleted = "completed"
)

// PersonRef is an identity snapshot stored on a request.
type PersonRef struct {
	ID    string `bson:"_id" json:"_id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

// Request is a blood request handled end to end by a single volunteer.
type Request struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Requester    PersonRef          `bson:"requester" json:"requester"`
	BloodGroup   string             `bson:"bloodGroup" json:"bloodGroup"`
	District     string             `bson:"district" json:"district"`
	Upazila      string             `bson:"upazila" json:"upazila"`
	HospitalName string             `bson:"hospitalName" json:"hospitalName"`
	Message      string             `bson:"message,omitempty" json:"message,omitempty"`
	Status       string             `bson:"status" json:"status"`
	AcceptedBy   *PersonRef         `bson:"acceptedBy,omitempty" json:"acceptedBy,omitempty"`
	AcceptedAt   *time.Time         `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	CompletedBy  *PersonRef         `bson:"completedBy,omitempty" json:"completedBy,omitempty"`
	CompletedAt  *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
