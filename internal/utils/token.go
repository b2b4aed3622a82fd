package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	audSession = "session"
	audVerify  = "verify"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carries the phone number as the sole identity claim, so ordinary
// request authorization never needs a database round-trip.
type Claims struct {
	PhoneNumber string `json:"phone_number"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies the two token kinds the service uses:
// long-lived session tokens and short-lived verify tokens handed out after a
// successful OTP check. The audience claim keeps them from being swapped.
type TokenManager struct {
	secret     []byte
	sessionTTL time.Duration
	verifyTTL  time.Duration
}

func NewTokenManager(secret string, sessionTTLDays, verifyTTLMinutes int) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		sessionTTL: time.Duration(sessionTTLDays) * 24 * time.Hour,
		verifyTTL:  time.Duration(verifyTTLMinutes) * time.Minute,
	}
}

// IssueSession returns a long-lived bearer token for an authenticated user.
func (t *TokenManager) IssueSession(phoneNumber string) (string, time.Time, error) {
	return t.issue(phoneNumber, audSession, t.sessionTTL)
}

// IssueVerify returns a short-lived token proving the phone number passed an
// OTP check. Signup and PIN-reset phase 3 require it.
func (t *TokenManager) IssueVerify(phoneNumber string) (string, time.Time, error) {
	return t.issue(phoneNumber, audVerify, t.verifyTTL)
}

func (t *TokenManager) issue(phoneNumber, audience string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := &Claims{
		PhoneNumber: phoneNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   phoneNumber,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Audience:  jwt.ClaimStrings{audience},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	return signed, exp, err
}

// ParseSession validates a session token and returns its phone number claim.
func (t *TokenManager) ParseSession(tokenStr string) (string, error) {
	return t.parse(tokenStr, audSession)
}

// ParseVerify validates a verify token and returns its phone number claim.
func (t *TokenManager) ParseVerify(tokenStr string) (string, error) {
	return t.parse(tokenStr, audVerify)
}

func (t *TokenManager) parse(tokenStr, audience string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if !containsAudience(claims.Audience, audience) {
		return "", ErrInvalidToken
	}
	return claims.PhoneNumber, nil
}

func containsAudience(aud jwt.ClaimStrings, target string) bool {
	for _, a := range aud {
		if a == target {
			return true
		}
	}
	return false
}
