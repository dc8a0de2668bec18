// Package rewards implements the RewardStation surface against local
// repositories. It stands in for the real platform until API access is
// granted; the HTTP client in clients/rewardstation implements the same
// interface.
package rewards

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"github.com/chrisw-xceleration/rewardstation-poc/core"
	"github.com/chrisw-xceleration/rewardstation-poc/db"
	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

// pointsPerDollar is the mock redemption rate used for balance display
const pointsPerDollar = 100

var behaviorAttributes = []string{
	"Innovation",
	"Teamwork",
	"Customer Focus",
	"Leadership",
	"Quality Excellence",
	"Accountability",
}

type MockRewardsService struct {
	usersRepo        db.UsersRepository
	recognitionsRepo db.RecognitionsRepository
}

func NewMockRewardsService(
	usersRepo db.UsersRepository,
	recognitionsRepo db.RecognitionsRepository,
) (*MockRewardsService, error) {
	s := &MockRewardsService{
		usersRepo:        usersRepo,
		recognitionsRepo: recognitionsRepo,
	}
	if err := s.seedUsers(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to seed mock users: %w", err)
	}
	return s, nil
}

// seedUsers loads the demo employee roster. Creation is idempotent so a
// Postgres-backed store survives restarts without duplicates.
func (s *MockRewardsService) seedUsers(ctx context.Context) error {
	seed := []*models.RewardsUser{
		{EmployeeID: "emp_001", Email: "john.doe@xceleration.com", Name: "John Doe", Platform: models.PlatformSlack, PlatformUserID: "U1234567890"},
		{EmployeeID: "emp_002", Email: "jane.smith@xceleration.com", Name: "Jane Smith", Platform: models.PlatformSlack, PlatformUserID: "U1234567891"},
		{EmployeeID: "emp_003", Email: "mike.wilson@xceleration.com", Name: "Mike Wilson", Platform: models.PlatformSlack, PlatformUserID: "U1234567892"},
		{EmployeeID: "emp_004", Email: "sarah.johnson@xceleration.com", Name: "Sarah Johnson", Platform: models.PlatformSlack, PlatformUserID: "U1234567893"},
	}
	for _, user := range seed {
		if err := s.usersRepo.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to create seed user %s: %w", user.EmployeeID, err)
		}
	}
	return nil
}

func (s *MockRewardsService) LookupUserByEmail(
	ctx context.Context,
	email string,
) (mo.Option[*models.RewardsUser], error) {
	log.Printf("👤 Mock user lookup by email: %s", email)
	user, err := s.usersRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return mo.None[*models.RewardsUser](), fmt.Errorf("failed to look up user by email: %w", err)
	}
	if user == nil {
		return mo.None[*models.RewardsUser](), nil
	}
	return mo.Some(user), nil
}

// LookupUserByPlatformID resolves a chat platform user to an employee,
// provisioning a demo record when the ID is unknown so any workspace
// member can participate.
func (s *MockRewardsService) LookupUserByPlatformID(
	ctx context.Context,
	platform models.Platform,
	platformUserID string,
) (*models.RewardsUser, error) {
	log.Printf("👤 Mock user lookup by platform ID: %s/%s", platform, platformUserID)
	user, err := s.usersRepo.GetUserByPlatformID(ctx, platform, platformUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user by platform ID: %w", err)
	}
	if user != nil {
		return user, nil
	}

	suffix := platformUserID
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	provisioned := &models.RewardsUser{
		EmployeeID:     core.NewID("emp"),
		Email:          fmt.Sprintf("user.%s@xceleration.com", strings.ToLower(platformUserID)),
		Name:           "Mock User " + suffix,
		Platform:       platform,
		PlatformUserID: platformUserID,
	}
	if err := s.usersRepo.CreateUser(ctx, provisioned); err != nil {
		return nil, fmt.Errorf("failed to provision mock user: %w", err)
	}

	log.Printf("✅ Provisioned mock user %s for %s/%s", provisioned.EmployeeID, platform, platformUserID)
	return provisioned, nil
}

// CreateRecognition records a recognition. Thanks recognitions deliver
// immediately; points recognitions enter the submitted state and require
// approval. Requests replaying a known idempotency key return the
// original record untouched.
func (s *MockRewardsService) CreateRecognition(
	ctx context.Context,
	req *models.RecognitionRequest,
) (*models.Recognition, error) {
	log.Printf("🎉 Mock recognition creation: %s -> %s (%s)",
		req.NominatorEmployeeID, req.RecipientEmployeeID, req.Kind)

	if req.IdempotencyKey != "" {
		existing, err := s.recognitionsRepo.GetRecognitionByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
		if existing != nil {
			log.Printf("📋 Recognition replay detected, returning existing %s", existing.ID)
			return existing, nil
		}
	}

	rec := &models.Recognition{
		ID:                  core.NewID("rec"),
		NominatorEmployeeID: req.NominatorEmployeeID,
		RecipientEmployeeID: req.RecipientEmployeeID,
		Kind:                req.Kind,
		Points:              req.Points,
		Message:             req.Message,
		BehaviorAttributes:  req.BehaviorAttributes,
		SourcePlatform:      req.SourcePlatform,
		SourceChannelID:     req.SourceChannelID,
		IdempotencyKey:      req.IdempotencyKey,
		CreatedAt:           time.Now().UTC(),
	}

	if req.Kind == models.RecognitionKindPoints {
		rec.Status = models.RecognitionStatusSubmitted
		rec.ApprovalRequired = true
		rec.ApprovalURL = "https://mock-rewardstation.com/approve/" + rec.ID
	} else {
		rec.Status = models.RecognitionStatusDelivered
	}

	if err := s.recognitionsRepo.CreateRecognition(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to store recognition: %w", err)
	}

	return rec, nil
}

func (s *MockRewardsService) GetRecognitionStatus(
	ctx context.Context,
	recognitionID string,
) (mo.Option[*models.Recognition], error) {
	log.Printf("📊 Mock recognition status check: %s", recognitionID)
	rec, err := s.recognitionsRepo.GetRecognitionByID(ctx, recognitionID)
	if err != nil {
		return mo.None[*models.Recognition](), fmt.Errorf("failed to get recognition: %w", err)
	}
	if rec == nil {
		return mo.None[*models.Recognition](), nil
	}
	return mo.Some(rec), nil
}

// GetBalance returns a randomized demo balance in the 100-1099 range
func (s *MockRewardsService) GetBalance(ctx context.Context, employeeID string) (*models.Balance, error) {
	log.Printf("💰 Mock balance check: %s", employeeID)
	points := rand.Intn(1000) + 100
	return &models.Balance{
		EmployeeID: employeeID,
		Points:     points,
		ValueUSD:   decimal.NewFromInt(int64(points)).Div(decimal.NewFromInt(pointsPerDollar)),
	}, nil
}

func (s *MockRewardsService) GetBehaviorAttributes(ctx context.Context) ([]string, error) {
	attributes := make([]string, len(behaviorAttributes))
	copy(attributes, behaviorAttributes)
	return attributes, nil
}
