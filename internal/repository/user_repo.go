package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akash-limitlessglobaltechnologies/landx/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicatePhone maps the unique phone_number index violation, which is
	// what makes the find-or-create race lose cleanly instead of duplicating.
	ErrDuplicatePhone = errors.New("user already exists with this phone number")
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByPhone(ctx context.Context, phoneNumber string) (*models.User, error)
	UpdatePinHash(ctx context.Context, id primitive.ObjectID, pinHash string) error
	PushProperty(ctx context.Context, id, propertyID primitive.ObjectID) error
}

type mongoUserRepo struct {
	col *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database, collection string) UserRepository {
	col := db.Collection(collection)
	// indexes
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "phone_number", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return &mongoUserRepo{col: col}
}

func (r *mongoUserRepo) Create(ctx context.Context, u *models.User) error {
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicatePhone
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (r *mongoUserRepo) FindByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"phone_number": phoneNumber}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) UpdatePinHash(ctx context.Context, id primitive.ObjectID, pinHash string) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"pin_hash":   pinHash,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

func (r *mongoUserRepo) PushProperty(ctx context.Context, id, propertyID primitive.ObjectID) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"properties": propertyID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}
