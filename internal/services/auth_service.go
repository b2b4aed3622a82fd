package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/akash-limitlessglobaltechnologies/landx/internal/cache"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/models"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/repository"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/twilio"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/utils"
)

const otpRateLimitPrefix = "otp_rate_limit:"

type authService struct {
	userRepo            repository.UserRepository
	propRepo            repository.PropertyRepository
	verifier            twilio.Verifier
	tokens              *utils.TokenManager
	store               cache.Store
	otpRateLimitPerHour int
	logger              *zap.Logger
}

// NewAuthService creates the authentication service. The OTP gateway keeps
// all passcode state; this service only tracks dispatch rate limits.
func NewAuthService(
	userRepo repository.UserRepository,
	propRepo repository.PropertyRepository,
	verifier twilio.Verifier,
	tokens *utils.TokenManager,
	store cache.Store,
	otpRateLimitPerHour int,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:            userRepo,
		propRepo:            propRepo,
		verifier:            verifier,
		tokens:              tokens,
		store:               store,
		otpRateLimitPerHour: otpRateLimitPerHour,
		logger:              logger,
	}
}

// StartSignup dispatches an OTP after checking the phone number is unused.
func (s *authService) StartSignup(ctx context.Context, phoneNumber string) error {
	_, err := s.userRepo.FindByPhone(ctx, phoneNumber)
	if err == nil {
		return ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("failed to check existing user: %w", ErrInternal)
	}
	return s.dispatchOTP(ctx, phoneNumber)
}

// VerifySignupOTP checks the code with the gateway and, on approval, returns
// a short-lived verify token the client must carry into CompleteSignup.
func (s *authService) VerifySignupOTP(ctx context.Context, phoneNumber, code string) (string, error) {
	if err := s.checkOTP(ctx, phoneNumber, code); err != nil {
		return "", err
	}
	token, _, err := s.tokens.IssueVerify(phoneNumber)
	if err != nil {
		return "", fmt.Errorf("failed to issue verify token: %w", ErrInternal)
	}
	return token, nil
}

// CompleteSignup creates the user. The verify token is a mandatory, checked
// precondition: it must parse and its claim must match the submitted phone.
func (s *authService) CompleteSignup(ctx context.Context, phoneNumber, pin, username, verifyToken string) (*AuthResult, error) {
	if !utils.IsValidPin(pin) {
		return nil, ErrInvalidPinFormat
	}
	if err := s.requireVerified(phoneNumber, verifyToken); err != nil {
		return nil, err
	}

	pinHash, err := utils.HashPin(pin)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", ErrInternal)
	}

	user := &models.User{
		PhoneNumber: phoneNumber,
		Username:    username,
		PinHash:     pinHash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", ErrInternal)
	}

	return s.sessionResult(ctx, user)
}

// SignIn is the single-step PIN login. It returns the caller's listings so
// the dashboard can render without a second request.
func (s *authService) SignIn(ctx context.Context, phoneNumber, pin string) (*AuthResult, error) {
	if !utils.IsValidPin(pin) {
		return nil, ErrInvalidPinFormat
	}
	user, err := s.userRepo.FindByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", ErrInternal)
	}
	if !utils.CheckPin(pin, user.PinHash) {
		return nil, ErrIncorrectPin
	}
	return s.sessionResult(ctx, user)
}

// StartLogin dispatches an OTP for the PIN-less login variant. No existence
// check: the account is lazily created when the code verifies.
func (s *authService) StartLogin(ctx context.Context, phoneNumber string) error {
	return s.dispatchOTP(ctx, phoneNumber)
}

// LoginWithOTP verifies the code and finds or creates the user. The unique
// phone index turns a concurrent first-login race into a rejected insert,
// after which the loser simply re-fetches the winner's record.
func (s *authService) LoginWithOTP(ctx context.Context, phoneNumber, code string) (*AuthResult, error) {
	if err := s.checkOTP(ctx, phoneNumber, code); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByPhone(ctx, phoneNumber)
	if errors.Is(err, repository.ErrUserNotFound) {
		user = &models.User{PhoneNumber: phoneNumber}
		if createErr := s.userRepo.Create(ctx, user); createErr != nil {
			if errors.Is(createErr, repository.ErrDuplicatePhone) {
				user, err = s.userRepo.FindByPhone(ctx, phoneNumber)
				if err != nil {
					return nil, fmt.Errorf("failed to re-fetch user after create race: %w", ErrInternal)
				}
			} else {
				return nil, fmt.Errorf("failed to create user: %w", ErrInternal)
			}
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", ErrInternal)
	}

	return s.sessionResult(ctx, user)
}

// StartReset dispatches an OTP for PIN reset. The user must already exist.
func (s *authService) StartReset(ctx context.Context, phoneNumber string) error {
	if _, err := s.userRepo.FindByPhone(ctx, phoneNumber); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", ErrInternal)
	}
	return s.dispatchOTP(ctx, phoneNumber)
}

func (s *authService) VerifyResetOTP(ctx context.Context, phoneNumber, code string) (string, error) {
	if err := s.checkOTP(ctx, phoneNumber, code); err != nil {
		return "", err
	}
	token, _, err := s.tokens.IssueVerify(phoneNumber)
	if err != nil {
		return "", fmt.Errorf("failed to issue verify token: %w", ErrInternal)
	}
	return token, nil
}

// CompleteReset overwrites the stored PIN hash. As in CompleteSignup, the
// verify token is required and checked against the phone number.
func (s *authService) CompleteReset(ctx context.Context, phoneNumber, newPin, verifyToken string) error {
	if !utils.IsValidPin(newPin) {
		return ErrInvalidPinFormat
	}
	if err := s.requireVerified(phoneNumber, verifyToken); err != nil {
		return err
	}

	user, err := s.userRepo.FindByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", ErrInternal)
	}

	pinHash, err := utils.HashPin(newPin)
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", ErrInternal)
	}
	if err := s.userRepo.UpdatePinHash(ctx, user.ID, pinHash); err != nil {
		return fmt.Errorf("failed to update pin: %w", ErrInternal)
	}
	return nil
}

func (s *authService) requireVerified(phoneNumber, verifyToken string) error {
	claim, err := s.tokens.ParseVerify(verifyToken)
	if err != nil || claim != phoneNumber {
		return ErrInvalidVerifyToken
	}
	return nil
}

func (s *authService) checkOTP(ctx context.Context, phoneNumber, code string) error {
	approved, err := s.verifier.CheckOTP(ctx, phoneNumber, code)
	if err != nil {
		s.logger.Error("OTP check failed", zap.String("phone", phoneNumber), zap.Error(err))
		return fmt.Errorf("failed to check OTP: %w", ErrInternal)
	}
	if !approved {
		return ErrInvalidOTP
	}
	return nil
}

func (s *authService) dispatchOTP(ctx context.Context, phoneNumber string) error {
	rateLimitKey := otpRateLimitPrefix + phoneNumber
	count, err := s.store.Incr(ctx, rateLimitKey)
	if err != nil {
		return fmt.Errorf("failed to increment OTP rate limit: %w", ErrInternal)
	}
	if count == 1 {
		if err := s.store.Expire(ctx, rateLimitKey, time.Hour); err != nil {
			return fmt.Errorf("failed to set expiry for OTP rate limit: %w", ErrInternal)
		}
	} else if count > int64(s.otpRateLimitPerHour) {
		_ = s.store.Decr(ctx, rateLimitKey)
		return ErrOTPRateLimited
	}

	if err := s.verifier.SendOTP(ctx, phoneNumber); err != nil {
		s.logger.Error("OTP dispatch failed", zap.String("phone", phoneNumber), zap.Error(err))
		return fmt.Errorf("failed to send OTP: %w", ErrInternal)
	}
	return nil
}

func (s *authService) sessionResult(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, _, err := s.tokens.IssueSession(user.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", ErrInternal)
	}

	props, err := s.propRepo.FindByOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user properties: %w", ErrInternal)
	}
	if props == nil {
		props = []models.Property{}
	}

	return &AuthResult{
		Token:       token,
		PhoneNumber: user.PhoneNumber,
		Username:    user.Username,
		Properties:  props,
	}, nil
}
