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

var ErrPropertyNotFound = errors.New("property not found")

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Property, error)
	// UpdateAccess overwrites is_private and, when accessCodeHash is non-empty,
	// the stored code hash. An empty hash leaves the previous one untouched.
	UpdateAccess(ctx context.Context, id primitive.ObjectID, isPrivate bool, accessCodeHash string) error
}

type mongoPropertyRepo struct {
	col *mongo.Collection
}

func NewMongoPropertyRepo(db *mongo.Database, collection string) PropertyRepository {
	col := db.Collection(collection)
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
	})
	return &mongoPropertyRepo{col: col}
}

func (r *mongoPropertyRepo) Create(ctx context.Context, p *models.Property) error {
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *mongoPropertyRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var p models.Property
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoPropertyRepo) FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"created_by": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Property
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoPropertyRepo) UpdateAccess(ctx context.Context, id primitive.ObjectID, isPrivate bool, accessCodeHash string) error {
	set := bson.M{
		"is_private": isPrivate,
		"updated_at": time.Now().UTC(),
	}
	if accessCodeHash != "" {
		set["access_code_hash"] = accessCodeHash
	}
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
