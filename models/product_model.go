package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is owned by its Product and is only ever appended through the
// add-review operation.
type Review struct {
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Username string             `bson:"username" json:"username"`
	Rating   float64            `bson:"rating" json:"rating"`
	Comment  string             `bson:"comment" json:"comment"`
	Date     time.Time          `bson:"date" json:"date"`
}

type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description" json:"description"`
	Price          int64              `bson:"price" json:"price"`
	Discount       int                `bson:"discount" json:"discount"`
	FinalPrice     int64              `bson:"finalPrice" json:"finalPrice"`
	Category       string             `bson:"category" json:"category"`
	SubCategory    string             `bson:"subCategory,omitempty" json:"subCategory,omitempty"`
	Brand          string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Stock          int                `bson:"stock" json:"stock"`
	Images         []string           `bson:"images" json:"images"`
	Tags           []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Ratings        float64            `bson:"ratings" json:"ratings"`
	NumReviews     int                `bson:"numReviews" json:"numReviews"`
	Reviews        []Review           `bson:"reviews" json:"reviews"`
	IsFeatured     bool               `bson:"isFeatured" json:"isFeatured"`
	OfferExpiresAt *time.Time         `bson:"offerExpiresAt,omitempty" json:"offerExpiresAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ComputeFinalPrice applies the discount formula. finalPrice is a
// write-time field: it is maintained on every create/update, never
// recomputed on read.
func ComputeFinalPrice(price int64, discount int) int64 {
	return price - price*int64(discount)/100
}

// ProductUpdate carries the optional fields of a partial product update.
// Nil pointers (and nil slices) leave the stored value untouched.
type ProductUpdate struct {
	Name           *string
	Description    *string
	Price          *int64
	Discount       *int
	Category       *string
	SubCategory    *string
	Brand          *string
	Stock          *int
	Images         []string
	Tags           []string
	IsFeatured     *bool
	OfferExpiresAt *time.Time
}

// ProductFilter composes the recognized catalog filters conjunctively.
// Absent options impose no constraint.
type ProductFilter struct {
	Search   string
	Brands   []string
	MinPrice *int64
	MaxPrice *int64
}

// Matches reports whether the product satisfies every set filter option.
// The Mongo repository translates the same semantics to a query; this
// predicate is the in-process reference used by list fallbacks and tests.
func (f ProductFilter) Matches(p Product) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) &&
			!strings.Contains(strings.ToLower(p.Category), needle) &&
			!strings.Contains(strings.ToLower(p.SubCategory), needle) {
			return false
		}
	}
	if len(f.Brands) > 0 {
		found := false
		for _, b := range f.Brands {
			if p.Brand == b {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}
