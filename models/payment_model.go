package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentStatusCreated = "created"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// PaymentProduct is a snapshot of a purchased product at the time of
// order initiation, not a live reference.
type PaymentProduct struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     int64              `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	OrderID       string             `bson:"orderId" json:"orderId"`
	PaymentID     string             `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	Signature     string             `bson:"signature,omitempty" json:"signature,omitempty"`
	Amount        float64            `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency" json:"currency"`
	PaymentStatus string             `bson:"paymentStatus" json:"paymentStatus"`
	Products      []PaymentProduct   `bson:"products" json:"products"`
	Address       Address            `bson:"address" json:"address"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
