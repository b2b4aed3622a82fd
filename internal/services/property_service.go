package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/akash-limitlessglobaltechnologies/landx/internal/cache"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/models"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/repository"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/utils"
)

const codeAttemptPrefix = "access_code_attempts:"

type propertyService struct {
	propRepo      repository.PropertyRepository
	userRepo      repository.UserRepository
	store         cache.Store
	maxAttempts   int
	attemptWindow time.Duration
	logger        *zap.Logger
}

// NewPropertyService creates the listing service. The attempt window bounds
// guessing against the 10,000-value access code space.
func NewPropertyService(
	propRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	store cache.Store,
	maxAttempts int,
	attemptWindow time.Duration,
	logger *zap.Logger,
) PropertyService {
	return &propertyService{
		propRepo:      propRepo,
		userRepo:      userRepo,
		store:         store,
		maxAttempts:   maxAttempts,
		attemptWindow: attemptWindow,
		logger:        logger,
	}
}

// Create stores a listing and links it onto the owner's property set.
func (s *propertyService) Create(ctx context.Context, ownerPhone, title string, rawJSON map[string]interface{}) (*models.Property, error) {
	owner, err := s.findUser(ctx, ownerPhone)
	if err != nil {
		return nil, err
	}

	p := &models.Property{
		Title:     title,
		RawJSON:   rawJSON,
		CreatedBy: owner.ID,
	}
	if err := s.propRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", ErrInternal)
	}
	if err := s.userRepo.PushProperty(ctx, owner.ID, p.ID); err != nil {
		// The listing exists and is reachable by id; the back-reference is a
		// convenience, so log instead of failing the create.
		s.logger.Warn("failed to link property to user",
			zap.String("property", p.ID.Hex()), zap.Error(err))
	}
	return p, nil
}

// Fetch is the access guard. Public listings are returned to anyone. Private
// listings require a matching access code; absence of a code is signaled
// distinctly so the client can prompt instead of showing not-found.
func (s *propertyService) Fetch(ctx context.Context, id, suppliedCode string) (*models.Property, error) {
	p, err := s.findProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsPrivate {
		return p, nil
	}
	if suppliedCode == "" {
		return nil, ErrAccessCodeRequired
	}

	attemptKey := codeAttemptPrefix + p.ID.Hex()
	attempts, err := s.store.Incr(ctx, attemptKey)
	if err != nil {
		return nil, fmt.Errorf("failed to count access attempts: %w", ErrInternal)
	}
	if attempts == 1 {
		if err := s.store.Expire(ctx, attemptKey, s.attemptWindow); err != nil {
			return nil, fmt.Errorf("failed to set attempt window: %w", ErrInternal)
		}
	} else if attempts > int64(s.maxAttempts) {
		return nil, ErrTooManyAttempts
	}

	if !utils.CheckPin(suppliedCode, p.AccessCodeHash) {
		return nil, ErrInvalidAccessCode
	}
	_ = s.store.Del(ctx, attemptKey)
	return p, nil
}

func (s *propertyService) OwnerProperties(ctx context.Context, ownerPhone string) ([]models.Property, error) {
	owner, err := s.findUser(ctx, ownerPhone)
	if err != nil {
		return nil, err
	}
	props, err := s.propRepo.FindByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch properties: %w", ErrInternal)
	}
	if props == nil {
		props = []models.Property{}
	}
	return props, nil
}

// SetAccess toggles visibility. Only the owner may mutate, and a supplied
// code must be 4 digits; an empty code keeps the previously stored one.
func (s *propertyService) SetAccess(ctx context.Context, id, callerPhone string, isPrivate bool, accessCode string) (*models.Property, error) {
	p, err := s.findProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	caller, err := s.findUser(ctx, callerPhone)
	if err != nil {
		return nil, err
	}
	if p.CreatedBy != caller.ID {
		return nil, ErrUnauthorized
	}

	var codeHash string
	if accessCode != "" {
		if !utils.IsValidPin(accessCode) {
			return nil, ErrInvalidAccessCodeFormat
		}
		codeHash, err = utils.HashPin(accessCode)
		if err != nil {
			return nil, fmt.Errorf("failed to hash access code: %w", ErrInternal)
		}
	}

	if err := s.propRepo.UpdateAccess(ctx, p.ID, isPrivate, codeHash); err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to update property access: %w", ErrInternal)
	}
	return s.findProperty(ctx, id)
}

func (s *propertyService) findUser(ctx context.Context, phoneNumber string) (*models.User, error) {
	u, err := s.userRepo.FindByPhone(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", ErrInternal)
	}
	return u, nil
}

func (s *propertyService) findProperty(ctx context.Context, id string) (*models.Property, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPropertyNotFound
	}
	p, err := s.propRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to find property: %w", ErrInternal)
	}
	return p, nil
}
