package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Pincode string `bson:"pincode" json:"pincode"`
	Country string `bson:"country" json:"country"`
}

type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	AddedAt   time.Time          `bson:"addedAt" json:"addedAt"`
}

type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name             string               `bson:"name" json:"name"`
	Email            string               `bson:"email" json:"email"`
	Phone            string               `bson:"phone" json:"phone"`
	Password         string               `bson:"password" json:"-"`
	Role             string               `bson:"role" json:"role"`
	Address          Address              `bson:"address" json:"address"`
	Cart             []CartItem           `bson:"cart" json:"cart"`
	Wishlist         []primitive.ObjectID `bson:"wishlist" json:"wishlist"`
	ResetToken       string               `bson:"resetToken,omitempty" json:"-"`
	ResetTokenExpiry *time.Time           `bson:"resetTokenExpiry,omitempty" json:"-"`
	CreatedAt        time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// AddressPatch is a shallow override of the embedded address: only set
// fields replace the stored ones.
type AddressPatch struct {
	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Pincode *string `json:"pincode"`
	Country *string `json:"country"`
}

// Apply merges the patch into addr.
func (p AddressPatch) Apply(addr Address) Address {
	if p.Street != nil {
		addr.Street = *p.Street
	}
	if p.City != nil {
		addr.City = *p.City
	}
	if p.State != nil {
		addr.State = *p.State
	}
	if p.Pincode != nil {
		addr.Pincode = *p.Pincode
	}
	if p.Country != nil {
		addr.Country = *p.Country
	}
	return addr
}

// UserProfileUpdate carries the fields a profile update may overwrite.
// The address is the fully merged value computed by the service.
type UserProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *Address
}
