package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SanathRai33/RaiZen-Server/mailer"
	"github.com/SanathRai33/RaiZen-Server/models"
	"github.com/SanathRai33/RaiZen-Server/repositories"
)

// In-memory repository fakes mirroring the store contracts.

type memoryProductRepo struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
}

func newMemoryProductRepo() *memoryProductRepo {
	return &memoryProductRepo{products: make(map[primitive.ObjectID]models.Product)}
}

func (r *memoryProductRepo) Insert(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	r.products[product.ID] = product
	return product, nil
}

func (r *memoryProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return models.Product{}, repositories.ErrNotFound
	}
	return product, nil
}

func (r *memoryProductRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Product
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			result = append(result, product)
		}
	}
	return result, nil
}

func (r *memoryProductRepo) Find(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Product
	for _, product := range r.products {
		if filter.Matches(product) {
			result = append(result, product)
		}
	}
	return result, nil
}

func (r *memoryProductRepo) FindActiveOffers(_ context.Context, minDiscount int, now time.Time) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Product
	for _, product := range r.products {
		if product.Discount > minDiscount && product.OfferExpiresAt != nil && product.OfferExpiresAt.After(now) {
			result = append(result, product)
		}
	}
	return result, nil
}

func (r *memoryProductRepo) FindCreatedSince(_ context.Context, since time.Time) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Product
	for _, product := range r.products {
		if !product.CreatedAt.Before(since) {
			result = append(result, product)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memoryProductRepo) Update(_ context.Context, id primitive.ObjectID, upd models.ProductUpdate, finalPrice *int64, updatedAt time.Time) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return models.Product{}, repositories.ErrNotFound
	}
	if upd.Name != nil {
		product.Name = *upd.Name
	}
	if upd.Description != nil {
		product.Description = *upd.Description
	}
	if upd.Price != nil {
		product.Price = *upd.Price
	}
	if upd.Discount != nil {
		product.Discount = *upd.Discount
	}
	if upd.Category != nil {
		product.Category = *upd.Category
	}
	if upd.SubCategory != nil {
		product.SubCategory = *upd.SubCategory
	}
	if upd.Brand != nil {
		product.Brand = *upd.Brand
	}
	if upd.Stock != nil {
		product.Stock = *upd.Stock
	}
	if upd.Images != nil {
		product.Images = upd.Images
	}
	if upd.Tags != nil {
		product.Tags = upd.Tags
	}
	if upd.IsFeatured != nil {
		product.IsFeatured = *upd.IsFeatured
	}
	if upd.OfferExpiresAt != nil {
		product.OfferExpiresAt = upd.OfferExpiresAt
	}
	if finalPrice != nil {
		product.FinalPrice = *finalPrice
	}
	product.UpdatedAt = updatedAt
	r.products[id] = product
	return product, nil
}

func (r *memoryProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memoryProductRepo) SetReviews(_ context.Context, id primitive.ObjectID, reviews []models.Review, ratings float64, numReviews int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return models.Product{}, repositories.ErrNotFound
	}
	product.Reviews = reviews
	product.Ratings = ratings
	product.NumReviews = numReviews
	r.products[id] = product
	return product, nil
}

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[primitive.ObjectID]models.User)}
}

func (r *memoryUserRepo) Insert(_ context.Context, user models.User) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (r *memoryUserRepo) ExistsByEmailOrPhone(_ context.Context, email, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email || user.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUserRepo) FindByResetToken(_ context.Context, token string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ResetToken != "" && user.ResetToken == token {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (r *memoryUserRepo) FindAll(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []models.User
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *memoryUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, upd models.UserProfileUpdate, updatedAt time.Time) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}
	if upd.Address != nil {
		user.Address = *upd.Address
	}
	user.UpdatedAt = updatedAt
	r.users[id] = user
	return user, nil
}

func (r *memoryUserRepo) SetCart(_ context.Context, id primitive.ObjectID, cart []models.CartItem, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Cart = cart
	user.UpdatedAt = updatedAt
	r.users[id] = user
	return nil
}

func (r *memoryUserRepo) SetWishlist(_ context.Context, id primitive.ObjectID, wishlist []primitive.ObjectID, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Wishlist = wishlist
	user.UpdatedAt = updatedAt
	r.users[id] = user
	return nil
}

func (r *memoryUserRepo) SetResetToken(_ context.Context, id primitive.ObjectID, token string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.ResetToken = token
	user.ResetTokenExpiry = &expiry
	r.users[id] = user
	return nil
}

func (r *memoryUserRepo) SetPassword(_ context.Context, id primitive.ObjectID, passwordHash string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Password = passwordHash
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	user.UpdatedAt = updatedAt
	r.users[id] = user
	return nil
}

type memoryPaymentRepo struct {
	mu       sync.Mutex
	payments map[string]models.Payment
}

func newMemoryPaymentRepo() *memoryPaymentRepo {
	return &memoryPaymentRepo{payments: make(map[string]models.Payment)}
}

func (r *memoryPaymentRepo) Insert(_ context.Context, payment models.Payment) (models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	r.payments[payment.OrderID] = payment
	return payment, nil
}

func (r *memoryPaymentRepo) FindByOrderID(_ context.Context, orderID string) (models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[orderID]
	if !ok {
		return models.Payment{}, repositories.ErrNotFound
	}
	return payment, nil
}

func (r *memoryPaymentRepo) MarkPaid(_ context.Context, orderID, paymentID, signature string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	payment.PaymentStatus = models.PaymentStatusPaid
	payment.PaymentID = paymentID
	payment.Signature = signature
	r.payments[orderID] = payment
	return nil
}

func (r *memoryPaymentRepo) MarkFailed(_ context.Context, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	payment.PaymentStatus = models.PaymentStatusFailed
	r.payments[orderID] = payment
	return nil
}

type captureNotifier struct {
	mu       sync.Mutex
	messages []mailer.Message
	full     bool
}

func (n *captureNotifier) Enqueue(msg mailer.Message) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.full {
		return false
	}
	n.messages = append(n.messages, msg)
	return true
}

func (n *captureNotifier) sent() []mailer.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]mailer.Message(nil), n.messages...)
}

type stubGateway struct {
	lastData map[string]interface{}
	response map[string]interface{}
	err      error
}

func (g *stubGateway) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	g.lastData = data
	if g.err != nil {
		return nil, g.err
	}
	return g.response, nil
}
