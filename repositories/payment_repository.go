package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SanathRai33/RaiZen-Server/models"
)

type mongoPaymentRepository struct {
	collection *mongo.Collection
}

// NewMongoPaymentRepository wraps the payments collection.
func NewMongoPaymentRepository(collection *mongo.Collection) PaymentRepository {
	return &mongoPaymentRepository{collection: collection}
}

func (r *mongoPaymentRepository) Insert(ctx context.Context, payment models.Payment) (models.Payment, error) {
	result, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		return models.Payment{}, err
	}
	payment.ID = result.InsertedID.(primitive.ObjectID)
	return payment, nil
}

func (r *mongoPaymentRepository) FindByOrderID(ctx context.Context, orderID string) (models.Payment, error) {
	var payment models.Payment
	err := r.collection.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return models.Payment{}, ErrNotFound
	}
	if err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}

func (r *mongoPaymentRepository) MarkPaid(ctx context.Context, orderID, paymentID, signature string) error {
	return r.setStatus(ctx, orderID, bson.M{
		"paymentStatus": models.PaymentStatusPaid,
		"paymentId":     paymentID,
		"signature":     signature,
	})
}

func (r *mongoPaymentRepository) MarkFailed(ctx context.Context, orderID string) error {
	return r.setStatus(ctx, orderID, bson.M{"paymentStatus": models.PaymentStatusFailed})
}

func (r *mongoPaymentRepository) setStatus(ctx context.Context, orderID string, set bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"orderId": orderID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
