package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/akash-limitlessglobaltechnologies/landx/internal/models"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/repository"
	"github.com/akash-limitlessglobaltechnologies/landx/internal/utils"
)

// In-memory doubles for the Mongo repositories, the Twilio Verify gateway and
// the redis counter store, so the service flows run hermetically.

type fakeUserRepo struct {
	mu      sync.Mutex
	byPhone map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byPhone: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byPhone[u.PhoneNumber]; ok {
		return repository.ErrDuplicatePhone
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.byPhone[u.PhoneNumber] = &cp
	return nil
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phoneNumber string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byPhone[phoneNumber]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdatePinHash(_ context.Context, id primitive.ObjectID, pinHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byPhone {
		if u.ID == id {
			u.PinHash = pinHash
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (r *fakeUserRepo) PushProperty(_ context.Context, id, propertyID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byPhone {
		if u.ID == id {
			u.Properties = append(u.Properties, propertyID)
			return nil
		}
	}
	return repository.ErrUserNotFound
}

type fakePropertyRepo struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]*models.Property
	order []primitive.ObjectID
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{byID: map[primitive.ObjectID]*models.Property{}}
}

func (r *fakePropertyRepo) Create(_ context.Context, p *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.byID[p.ID] = &cp
	r.order = append(r.order, p.ID)
	return nil
}

func (r *fakePropertyRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrPropertyNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePropertyRepo) FindByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Property
	// newest first
	for i := len(r.order) - 1; i >= 0; i-- {
		if p := r.byID[r.order[i]]; p.CreatedBy == owner {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePropertyRepo) UpdateAccess(_ context.Context, id primitive.ObjectID, isPrivate bool, accessCodeHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return repository.ErrPropertyNotFound
	}
	p.IsPrivate = isPrivate
	if accessCodeHash != "" {
		p.AccessCodeHash = accessCodeHash
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeVerifier struct {
	mu       sync.Mutex
	sent     []string
	goodCode string
	sendErr  error
}

func newFakeVerifier(goodCode string) *fakeVerifier {
	return &fakeVerifier{goodCode: goodCode}
}

func (v *fakeVerifier) SendOTP(_ context.Context, phoneNumber string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sendErr != nil {
		return v.sendErr
	}
	v.sent = append(v.sent, phoneNumber)
	return nil
}

func (v *fakeVerifier) CheckOTP(_ context.Context, _, code string) (bool, error) {
	return code == v.goodCode, nil
}

func (v *fakeVerifier) sentCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.sent)
}

type fakeStore struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{counters: map[string]int64{}}
}

func (s *fakeStore) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key]++
	return s.counters[key], nil
}

func (s *fakeStore) Decr(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[key]--
	return nil
}

func (s *fakeStore) Expire(_ context.Context, _ string, _ time.Duration) error {
	return nil
}

func (s *fakeStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.counters, k)
	}
	return nil
}

type testEnv struct {
	users    *fakeUserRepo
	props    *fakePropertyRepo
	verifier *fakeVerifier
	store    *fakeStore
	tokens   *utils.TokenManager
	auth     AuthService
	listings PropertyService
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	props := newFakePropertyRepo()
	verifier := newFakeVerifier("123456")
	store := newFakeStore()
	tokens := utils.NewTokenManager("test-secret", 30, 5)
	logger := zap.NewNop()

	return &testEnv{
		users:    users,
		props:    props,
		verifier: verifier,
		store:    store,
		tokens:   tokens,
		auth:     NewAuthService(users, props, verifier, tokens, store, 5, logger),
		listings: NewPropertyService(props, users, store, 5, 15*time.Minute, logger),
	}
}

// register runs the whole signup flow and returns the session token.
func (e *testEnv) register(ctx context.Context, phone, pin, username string) (*AuthResult, error) {
	if err := e.auth.StartSignup(ctx, phone); err != nil {
		return nil, err
	}
	verifyToken, err := e.auth.VerifySignupOTP(ctx, phone, "123456")
	if err != nil {
		return nil, err
	}
	return e.auth.CompleteSignup(ctx, phone, pin, username, verifyToken)
}
