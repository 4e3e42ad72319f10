package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation request statuses.
const (
	DonationPending    = "pending"
	DonationInProgress = "inprogress"
	DonationDone       = "done"
	DonationCanceled   = "canceled"
)

// IsValidDonationStatus reports whether s is a known donationStatus.
func IsValidDonationStatus(s string) bool {
	switch s {
	case DonationPending, DonationInProgress, DonationDone, DonationCanceled:
		return true
	}
	return false
}

// DonorInfo is the snapshot of whoever accepted a donation request.
type DonorInfo struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

type DonationRequest struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	RequesterID       string             `bson:"requesterId" json:"requesterId"`
	RequesterName     string             `bson:"requesterName" json:"requesterName"`
	RequesterEmail    string             `bson:"requesterEmail" json:"requesterEmail"`
	RecipientName     string             `bson:"recipientName" json:"recipientName"`
	RecipientDistrict string             `bson:"recipientDistrict" json:"recipientDistrict"`
	RecipientUpazila  string             `bson:"recipientUpazila" json:"recipientUpazila"`
	HospitalName      string             `bson:"hospitalName" json:"hospitalName"`
	FullAddress       string             `bson:"fullAddress" json:"fullAddress"`
	BloodGroup        string             `bson:"bloodGroup" json:"bloodGroup"`
	DonationDate      string             `bson:"donationDate" json:"donationDate"`
	DonationTime      string             `bson:"donationTime" json:"donationTime"`
	RequestMessage    string             `bson:"requestMessage" json:"requestMessage"`
	DonationStatus    string             `bson:"donationStatus" json:"donationStatus"`
	DonorInfo         *DonorInfo         `bson:"donorInfo" json:"donorInfo"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// DonationTransition describes one filtered status change.
// Owner, when set, restricts the change to requests created by that user id.
type DonationTransition struct {
	From  []string
	To    string
	Donor *DonorInfo
	Owner string
}

var (
	AcceptDonation   = DonationTransition{From: []string{DonationPending}, To: DonationInProgress}
	CompleteDonation = DonationTransition{From: []string{DonationInProgress}, To: DonationDone}
	CancelDonation   = DonationTransition{From: []string{DonationPending, DonationInProgress}, To: DonationCanceled}
)
