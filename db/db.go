// Package db holds the repositories backing the mock rewards store. In a
// real deployment the rewards platform owns this data; the repositories
// exist so the mock upstream can be swapped between in-memory and Postgres
// without the services knowing.
package db

import (
	"context"

	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

// UsersRepository stores rewards platform employee records.
// Lookup methods return (nil, nil) when no record exists.
type UsersRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.RewardsUser, error)
	GetUserByPlatformID(ctx context.Context, platform models.Platform, platformUserID string) (*models.RewardsUser, error)
	CreateUser(ctx context.Context, user *models.RewardsUser) error
}

// RecognitionsRepository stores recognition records.
// Lookup methods return (nil, nil) when no record exists.
type RecognitionsRepository interface {
	CreateRecognition(ctx context.Context, rec *models.Recognition) error
	GetRecognitionByID(ctx context.Context, id string) (*models.Recognition, error)
	GetRecognitionByIdempotencyKey(ctx context.Context, key string) (*models.Recognition, error)
}
