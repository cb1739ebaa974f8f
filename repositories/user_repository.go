package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SanathRai33/RaiZen-Server/models"
)

type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository wraps the users collection.
func NewMongoUserRepository(collection *mongo.Collection) UserRepository {
	return &mongoUserRepository{collection: collection}
}

func (r *mongoUserRepository) Insert(ctx context.Context, user models.User) (models.User, error) {
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) FindByResetToken(ctx context.Context, token string) (models.User, error) {
	return r.findOne(ctx, bson.M{"resetToken": token})
}

func (r *mongoUserRepository) findOne(ctx context.Context, query bson.M) (models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, query).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *mongoUserRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	query := bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"phone": phone},
	}}
	count, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *mongoUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd models.UserProfileUpdate, updatedAt time.Time) (models.User, error) {
	set := bson.M{"updatedAt": updatedAt}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return models.User{}, err
	}
	if result.MatchedCount == 0 {
		return models.User{}, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *mongoUserRepository) SetCart(ctx context.Context, id primitive.ObjectID, cart []models.CartItem, updatedAt time.Time) error {
	return r.setFields(ctx, id, bson.M{"cart": cart, "updatedAt": updatedAt})
}

func (r *mongoUserRepository) SetWishlist(ctx context.Context, id primitive.ObjectID, wishlist []primitive.ObjectID, updatedAt time.Time) error {
	return r.setFields(ctx, id, bson.M{"wishlist": wishlist, "updatedAt": updatedAt})
}

func (r *mongoUserRepository) SetResetToken(ctx context.Context, id primitive.ObjectID, token string, expiry time.Time) error {
	return r.setFields(ctx, id, bson.M{"resetToken": token, "resetTokenExpiry": expiry})
}

func (r *mongoUserRepository) SetPassword(ctx context.Context, id primitive.ObjectID, passwordHash string, updatedAt time.Time) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"password": passwordHash, "updatedAt": updatedAt},
		"$unset": bson.M{"resetToken": "", "resetTokenExpiry": ""},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) setFields(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
