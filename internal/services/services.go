package services

import (
	"context"
	"errors"

	"github.com/akash-limitlessglobaltechnologies/landx/internal/models"
)

var (
	ErrUserAlreadyExists       = errors.New("user already exists with this phone number")
	ErrUserNotFound            = errors.New("user not found")
	ErrPropertyNotFound        = errors.New("property not found")
	ErrInvalidPinFormat        = errors.New("pin must be a 4-digit number")
	ErrInvalidAccessCodeFormat = errors.New("access code must be a 4-digit number")
	ErrInvalidOTP              = errors.New("invalid or expired OTP")
	ErrIncorrectPin            = errors.New("incorrect pin")
	ErrInvalidVerifyToken      = errors.New("invalid or expired verification token")
	ErrAccessCodeRequired      = errors.New("access code required")
	ErrInvalidAccessCode       = errors.New("invalid access code")
	ErrUnauthorized            = errors.New("not the owner of this property")
	ErrOTPRateLimited          = errors.New("too many OTP requests, please try again later")
	ErrTooManyAttempts         = errors.New("too many access code attempts, please try again later")
	ErrInternal                = errors.New("internal server error")
)

// AuthResult is what every successful sign-in variant returns: a long-lived
// bearer token plus the profile fields and listings the client renders next.
type AuthResult struct {
	Token       string            `json:"token"`
	PhoneNumber string            `json:"phoneNumber"`
	Username    string            `json:"username,omitempty"`
	Properties  []models.Property `json:"properties"`
}

// AuthService covers the three phased flows (signup, OTP-only login, PIN
// reset) plus single-step PIN sign-in. Phases are independent requests; the
// verify token issued after an OTP check is the only state carried between
// them.
type AuthService interface {
	StartSignup(ctx context.Context, phoneNumber string) error
	VerifySignupOTP(ctx context.Context, phoneNumber, code string) (verifyToken string, err error)
	CompleteSignup(ctx context.Context, phoneNumber, pin, username, verifyToken string) (*AuthResult, error)

	SignIn(ctx context.Context, phoneNumber, pin string) (*AuthResult, error)

	StartLogin(ctx context.Context, phoneNumber string) error
	LoginWithOTP(ctx context.Context, phoneNumber, code string) (*AuthResult, error)

	StartReset(ctx context.Context, phoneNumber string) error
	VerifyResetOTP(ctx context.Context, phoneNumber, code string) (verifyToken string, err error)
	CompleteReset(ctx context.Context, phoneNumber, newPin, verifyToken string) error
}

// PropertyService owns listing creation and the access guard on reads.
type PropertyService interface {
	Create(ctx context.Context, ownerPhone, title string, rawJSON map[string]interface{}) (*models.Property, error)
	Fetch(ctx context.Context, id, suppliedCode string) (*models.Property, error)
	OwnerProperties(ctx context.Context, ownerPhone string) ([]models.Property, error)
	SetAccess(ctx context.Context, id, callerPhone string, isPrivate bool, accessCode string) (*models.Property, error)
}
