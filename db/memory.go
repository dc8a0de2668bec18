package db

import (
	"context"
	"sync"

	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

// MemoryRewardsRepository is the in-memory backing used in mock mode and
// tests. Safe for concurrent use.
type MemoryRewardsRepository struct {
	mu            sync.RWMutex
	usersByEmail  map[string]*models.RewardsUser
	recognitions  map[string]*models.Recognition
	recsByIdemKey map[string]string
}

func NewMemoryRewardsRepository() *MemoryRewardsRepository {
	return &MemoryRewardsRepository{
		usersByEmail:  make(map[string]*models.RewardsUser),
		recognitions:  make(map[string]*models.Recognition),
		recsByIdemKey: make(map[string]string),
	}
}

func (r *MemoryRewardsRepository) GetUserByEmail(
	_ context.Context,
	email string,
) (*models.RewardsUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.usersByEmail[email]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *MemoryRewardsRepository) GetUserByPlatformID(
	_ context.Context,
	platform models.Platform,
	platformUserID string,
) (*models.RewardsUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.usersByEmail {
		if user.Platform == platform && user.PlatformUserID == platformUserID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemoryRewardsRepository) CreateUser(_ context.Context, user *models.RewardsUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *user
	r.usersByEmail[user.Email] = &copied
	return nil
}

func (r *MemoryRewardsRepository) CreateRecognition(_ context.Context, rec *models.Recognition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *rec
	r.recognitions[rec.ID] = &copied
	if rec.IdempotencyKey != "" {
		r.recsByIdemKey[rec.IdempotencyKey] = rec.ID
	}
	return nil
}

func (r *MemoryRewardsRepository) GetRecognitionByID(
	_ context.Context,
	id string,
) (*models.Recognition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.recognitions[id]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (r *MemoryRewardsRepository) GetRecognitionByIdempotencyKey(
	_ context.Context,
	key string,
) (*models.Recognition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.recsByIdemKey[key]
	if !ok {
		return nil, nil
	}
	copied := *r.recognitions[id]
	return &copied, nil
}
