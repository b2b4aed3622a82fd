package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account identified by its phone number. PinHash is empty for
// accounts created through the OTP-only login path until signup completes.
type User struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PhoneNumber string               `bson:"phone_number" json:"phoneNumber"`
	Username    string               `bson:"username,omitempty" json:"username,omitempty"`
	PinHash     string               `bson:"pin_hash,omitempty" json:"-"`
	Properties  []primitive.ObjectID `bson:"properties,omitempty" json:"properties,omitempty"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}
