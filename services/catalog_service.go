package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SanathRai33/RaiZen-Server/models"
	"github.com/SanathRai33/RaiZen-Server/repositories"
)

// Active-offer contract: discount strictly greater than 19 and an offer
// window that has not elapsed.
const offerDiscountThreshold = 19

// newArrivalWindow is the trailing window for the new-arrivals listing.
const newArrivalWindow = 7 * 24 * time.Hour

// CatalogServiceDeps bundles the collaborators of a CatalogService.
type CatalogServiceDeps struct {
	Products repositories.ProductRepository
	Clock    func() time.Time
}

// CatalogService owns product CRUD, filtering and review aggregation.
type CatalogService struct {
	products repositories.ProductRepository
	now      func() time.Time
	locks    *keyedMutex
}

func NewCatalogService(deps CatalogServiceDeps) (*CatalogService, error) {
	if deps.Products == nil {
		return nil, errors.New("catalog service: product repository is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &CatalogService{
		products: deps.Products,
		now:      clock,
		locks:    newKeyedMutex(),
	}, nil
}

// CreateProductCommand carries the fields of a product creation.
type CreateProductCommand struct {
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Price          int64      `json:"price"`
	Discount       int        `json:"discount"`
	Category       string     `json:"category"`
	SubCategory    string     `json:"subCategory"`
	Brand          string     `json:"brand"`
	Stock          int        `json:"stock"`
	Images         []string   `json:"images"`
	Tags           []string   `json:"tags"`
	IsFeatured     bool       `json:"isFeatured"`
	OfferExpiresAt *time.Time `json:"offerExpiresAt"`
}

func (s *CatalogService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (models.Product, error) {
	if err := validateCreateProduct(cmd); err != nil {
		return models.Product{}, err
	}

	now := s.now()
	product := models.Product{
		Name:           cmd.Name,
		Description:    cmd.Description,
		Price:          cmd.Price,
		Discount:       cmd.Discount,
		FinalPrice:     models.ComputeFinalPrice(cmd.Price, cmd.Discount),
		Category:       cmd.Category,
		SubCategory:    cmd.SubCategory,
		Brand:          cmd.Brand,
		Stock:          cmd.Stock,
		Images:         cmd.Images,
		Tags:           cmd.Tags,
		Reviews:        []models.Review{},
		IsFeatured:     cmd.IsFeatured,
		OfferExpiresAt: cmd.OfferExpiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.products.Insert(ctx, product)
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: inserting product: %v", ErrUpstream, err)
	}
	return created, nil
}

func validateCreateProduct(cmd CreateProductCommand) error {
	switch {
	case cmd.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case cmd.Description == "":
		return fmt.Errorf("%w: description is required", ErrValidation)
	case cmd.Price <= 0:
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	case cmd.Discount < 0 || cmd.Discount > 100:
		return fmt.Errorf("%w: discount must be between 0 and 100", ErrValidation)
	case cmd.Category == "":
		return fmt.Errorf("%w: category is required", ErrValidation)
	case cmd.Stock < 0:
		return fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	case len(cmd.Images) == 0:
		return fmt.Errorf("%w: at least one image is required", ErrValidation)
	}
	return nil
}

// ListProducts returns every product matching the composed filter, in
// store order. There is no pagination; the result set is unbounded.
func (s *CatalogService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	products, err := s.products.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching products: %v", ErrUpstream, err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (models.Product, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return models.Product{}, err
	}
	product, err := s.products.FindByID(ctx, objectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Product{}, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: fetching product: %v", ErrUpstream, err)
	}
	return product, nil
}

// UpdateProduct applies a partial update. finalPrice is recomputed
// whenever price and/or discount change, from the effective pair after
// the update, so the derived field can never go stale.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (models.Product, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return models.Product{}, err
	}
	if upd.Price != nil && *upd.Price <= 0 {
		return models.Product{}, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if upd.Discount != nil && (*upd.Discount < 0 || *upd.Discount > 100) {
		return models.Product{}, fmt.Errorf("%w: discount must be between 0 and 100", ErrValidation)
	}

	unlock := s.locks.lock("product:" + id)
	defer unlock()

	current, err := s.products.FindByID(ctx, objectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Product{}, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: fetching product: %v", ErrUpstream, err)
	}

	var finalPrice *int64
	if upd.Price != nil || upd.Discount != nil {
		price := current.Price
		discount := current.Discount
		if upd.Price != nil {
			price = *upd.Price
		}
		if upd.Discount != nil {
			discount = *upd.Discount
		}
		fp := models.ComputeFinalPrice(price, discount)
		finalPrice = &fp
	}

	updated, err := s.products.Update(ctx, objectID, upd, finalPrice, s.now())
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Product{}, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: updating product: %v", ErrUpstream, err)
	}
	return updated, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	objectID, err := parseObjectID(id)
	if err != nil {
		return err
	}
	err = s.products.Delete(ctx, objectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("%w: deleting product: %v", ErrUpstream, err)
	}
	return nil
}

// AddReviewCommand carries a single review submission.
type AddReviewCommand struct {
	UserID   string  `json:"userId"`
	Username string  `json:"username"`
	Rating   float64 `json:"rating"`
	Comment  string  `json:"comment"`
}

// AddReview appends the review and recomputes the aggregates. The
// read-modify-write is serialized per product id so concurrent
// reviewers cannot overwrite each other's contribution.
func (s *CatalogService) AddReview(ctx context.Context, productID string, cmd AddReviewCommand) (models.Product, error) {
	objectID, err := parseObjectID(productID)
	if err != nil {
		return models.Product{}, err
	}
	reviewerID, err := primitive.ObjectIDFromHex(cmd.UserID)
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: invalid user id", ErrValidation)
	}
	if cmd.Username == "" {
		return models.Product{}, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if cmd.Rating < 0 || cmd.Rating > 5 {
		return models.Product{}, fmt.Errorf("%w: rating must be between 0 and 5", ErrValidation)
	}
	if cmd.Comment == "" {
		return models.Product{}, fmt.Errorf("%w: comment is required", ErrValidation)
	}

	unlock := s.locks.lock("product:" + productID)
	defer unlock()

	product, err := s.products.FindByID(ctx, objectID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Product{}, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: fetching product: %v", ErrUpstream, err)
	}

	reviews := append(product.Reviews, models.Review{
		UserID:   reviewerID,
		Username: cmd.Username,
		Rating:   cmd.Rating,
		Comment:  cmd.Comment,
		Date:     s.now(),
	})

	var sum float64
	for _, review := range reviews {
		sum += review.Rating
	}
	numReviews := len(reviews)
	ratings := sum / float64(numReviews)

	updated, err := s.products.SetReviews(ctx, objectID, reviews, ratings, numReviews)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Product{}, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: saving review: %v", ErrUpstream, err)
	}
	return updated, nil
}

// ActiveOffers lists products with discount > 19 whose offer window has
// not elapsed. The threshold and exclusive comparison are contract.
func (s *CatalogService) ActiveOffers(ctx context.Context) ([]models.Product, error) {
	offers, err := s.products.FindActiveOffers(ctx, offerDiscountThreshold, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: fetching offers: %v", ErrUpstream, err)
	}
	if offers == nil {
		offers = []models.Product{}
	}
	return offers, nil
}

// NewArrivals lists products created within the trailing 7 days, newest
// first.
func (s *CatalogService) NewArrivals(ctx context.Context) ([]models.Product, error) {
	since := s.now().Add(-newArrivalWindow)
	arrivals, err := s.products.FindCreatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching new arrivals: %v", ErrUpstream, err)
	}
	if arrivals == nil {
		arrivals = []models.Product{}
	}
	return arrivals, nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id format", ErrValidation)
	}
	return objectID, nil
}
