package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property is a plot listing. RawJSON is an uninterpreted payload owned by the
// listing wizard (description, price, measurements, location link and so on).
// AccessCodeHash gates reads while IsPrivate is true; it is stored hashed the
// same way as the user PIN and never serialized.
type Property struct {
	ID             primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Title          string                 `bson:"title" json:"title"`
	RawJSON        map[string]interface{} `bson:"raw_json" json:"rawJson"`
	CreatedBy      primitive.ObjectID     `bson:"created_by" json:"createdBy"`
	AccessCodeHash string                 `bson:"access_code_hash,omitempty" json:"-"`
	IsPrivate      bool                   `bson:"is_private" json:"isPrivate"`
	CreatedAt      time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time              `bson:"updated_at" json:"updated_at"`
}
