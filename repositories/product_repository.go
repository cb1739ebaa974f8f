package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SanathRai33/RaiZen-Server/models"
)

type mongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository wraps the products collection.
func NewMongoProductRepository(collection *mongo.Collection) ProductRepository {
	return &mongoProductRepository{collection: collection}
}

func (r *mongoProductRepository) Insert(ctx context.Context, product models.Product) (models.Product, error) {
	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return models.Product{}, err
	}
	product.ID = result.InsertedID.(primitive.ObjectID)
	return product, nil
}

func (r *mongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (r *mongoProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *mongoProductRepository) Find(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	query := bson.M{}

	if filter.Search != "" {
		regex := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"description": regex},
			bson.M{"category": regex},
			bson.M{"subCategory": regex},
		}
	}
	if len(filter.Brands) > 0 {
		query["brand"] = bson.M{"$in": filter.Brands}
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *mongoProductRepository) FindActiveOffers(ctx context.Context, minDiscount int, now time.Time) ([]models.Product, error) {
	query := bson.M{
		"discount":       bson.M{"$gt": minDiscount},
		"offerExpiresAt": bson.M{"$gt": now},
	}
	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *mongoProductRepository) FindCreatedSince(ctx context.Context, since time.Time) ([]models.Product, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"createdAt": bson.M{"$gte": since}}, findOptions)
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *mongoProductRepository) Update(ctx context.Context, id primitive.ObjectID, upd models.ProductUpdate, finalPrice *int64, updatedAt time.Time) (models.Product, error) {
	set := bson.M{"updatedAt": updatedAt}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Discount != nil {
		set["discount"] = *upd.Discount
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.SubCategory != nil {
		set["subCategory"] = *upd.SubCategory
	}
	if upd.Brand != nil {
		set["brand"] = *upd.Brand
	}
	if upd.Stock != nil {
		set["stock"] = *upd.Stock
	}
	if upd.Images != nil {
		set["images"] = upd.Images
	}
	if upd.Tags != nil {
		set["tags"] = upd.Tags
	}
	if upd.IsFeatured != nil {
		set["isFeatured"] = *upd.IsFeatured
	}
	if upd.OfferExpiresAt != nil {
		set["offerExpiresAt"] = *upd.OfferExpiresAt
	}
	if finalPrice != nil {
		set["finalPrice"] = *finalPrice
	}

	after := options.After
	var product models.Product
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (r *mongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProductRepository) SetReviews(ctx context.Context, id primitive.ObjectID, reviews []models.Review, ratings float64, numReviews int) (models.Product, error) {
	after := options.After
	var product models.Product
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"reviews":    reviews,
			"ratings":    ratings,
			"numReviews": numReviews,
		}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}
