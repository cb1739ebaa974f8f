package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SanathRai33/RaiZen-Server/models"
)

// ErrNotFound is returned by every repository when the requested record
// does not exist, regardless of the backing store.
var ErrNotFound = errors.New("repositories: not found")

// ProductRepository persists Product records.
type ProductRepository interface {
	Insert(ctx context.Context, product models.Product) (models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	Find(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	// FindActiveOffers returns products with discount > minDiscount
	// (exclusive) and an offer expiry strictly after now.
	FindActiveOffers(ctx context.Context, minDiscount int, now time.Time) ([]models.Product, error)
	// FindCreatedSince returns products created at or after since,
	// newest first.
	FindCreatedSince(ctx context.Context, since time.Time) ([]models.Product, error)
	// Update applies the partial update; finalPrice, when non-nil, is
	// written alongside. Returns the updated document.
	Update(ctx context.Context, id primitive.ObjectID, upd models.ProductUpdate, finalPrice *int64, updatedAt time.Time) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// SetReviews overwrites the review sequence and its derived
	// aggregates in a single write.
	SetReviews(ctx context.Context, id primitive.ObjectID, reviews []models.Review, ratings float64, numReviews int) (models.Product, error)
}

// UserRepository persists User records.
type UserRepository interface {
	Insert(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	FindByResetToken(ctx context.Context, token string) (models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd models.UserProfileUpdate, updatedAt time.Time) (models.User, error)
	SetCart(ctx context.Context, id primitive.ObjectID, cart []models.CartItem, updatedAt time.Time) error
	SetWishlist(ctx context.Context, id primitive.ObjectID, wishlist []primitive.ObjectID, updatedAt time.Time) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, token string, expiry time.Time) error
	// SetPassword stores the new hash and clears any reset token.
	SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string, updatedAt time.Time) error
}

// PaymentRepository persists Payment records.
type PaymentRepository interface {
	Insert(ctx context.Context, payment models.Payment) (models.Payment, error)
	FindByOrderID(ctx context.Context, orderID string) (models.Payment, error)
	MarkPaid(ctx context.Context, orderID, paymentID, signature string) error
	MarkFailed(ctx context.Context, orderID string) error
}
