package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FundRecord is a confirmed external payment. It is never mutated.
type FundRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    string             `bson:"userId" json:"userId"`
	UserName  string             `bson:"userName" json:"userName"`
	UserEmail string             `bson:"userEmail" json:"userEmail"`
	Amount    float64            `bson:"amount" json:"amount"`
	PaymentID string             `bson:"paymentId" json:"paymentId"`
	Date      time.Time          `bson:"date" json:"date"`
}
