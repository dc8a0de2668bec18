package services

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

// MockRewardsAPI is a mock implementation of RewardsService
type MockRewardsAPI struct {
	mock.Mock
}

func (m *MockRewardsAPI) LookupUserByEmail(
	ctx context.Context,
	email string,
) (mo.Option[*models.RewardsUser], error) {
	args := m.Called(ctx, email)
	return args.Get(0).(mo.Option[*models.RewardsUser]), args.Error(1)
}

func (m *MockRewardsAPI) LookupUserByPlatformID(
	ctx context.Context,
	platform models.Platform,
	platformUserID string,
) (*models.RewardsUser, error) {
	args := m.Called(ctx, platform, platformUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RewardsUser), args.Error(1)
}

func (m *MockRewardsAPI) CreateRecognition(
	ctx context.Context,
	req *models.RecognitionRequest,
) (*models.Recognition, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recognition), args.Error(1)
}

func (m *MockRewardsAPI) GetRecognitionStatus(
	ctx context.Context,
	recognitionID string,
) (mo.Option[*models.Recognition], error) {
	args := m.Called(ctx, recognitionID)
	return args.Get(0).(mo.Option[*models.Recognition]), args.Error(1)
}

func (m *MockRewardsAPI) GetBalance(ctx context.Context, employeeID string) (*models.Balance, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Balance), args.Error(1)
}

func (m *MockRewardsAPI) GetBehaviorAttributes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockEnhancementService is a mock implementation of EnhancementService
type MockEnhancementService struct {
	mock.Mock
}

func (m *MockEnhancementService) GenerateHelp(
	ctx context.Context,
	platform models.Platform,
	topic string,
) (*models.PlatformResponse, error) {
	args := m.Called(ctx, platform, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlatformResponse), args.Error(1)
}

func (m *MockEnhancementService) EnhanceMessage(
	ctx context.Context,
	message string,
	enhCtx *models.EnhancementContext,
) (string, error) {
	args := m.Called(ctx, message, enhCtx)
	return args.String(0), args.Error(1)
}

func (m *MockEnhancementService) SuggestBehaviors(ctx context.Context, message string) ([]string, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockWorkflowService is a mock implementation of WorkflowService
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) StartRecognitionWorkflow(
	ctx context.Context,
	rec *models.Recognition,
) (*models.WorkflowRun, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowRun), args.Error(1)
}

func (m *MockWorkflowService) GetWorkflowStatus(
	ctx context.Context,
	workflowID string,
) (*models.WorkflowRun, error) {
	args := m.Called(ctx, workflowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowRun), args.Error(1)
}

// MockNotificationsService is a mock implementation of NotificationsService
type MockNotificationsService struct {
	mock.Mock
}

func (m *MockNotificationsService) PostChannelMessage(
	ctx context.Context,
	platform models.Platform,
	channelID, text string,
) error {
	args := m.Called(ctx, platform, channelID, text)
	return args.Error(0)
}

func (m *MockNotificationsService) PostDirectMessage(
	ctx context.Context,
	platform models.Platform,
	userID, text string,
) error {
	args := m.Called(ctx, platform, userID, text)
	return args.Error(0)
}

func (m *MockNotificationsService) PostEphemeralMessage(
	ctx context.Context,
	platform models.Platform,
	channelID, userID, text string,
) error {
	args := m.Called(ctx, platform, channelID, userID, text)
	return args.Error(0)
}

// MockCommandsService is a mock implementation of CommandsService
type MockCommandsService struct {
	mock.Mock
}

func (m *MockCommandsService) ProcessCommand(
	ctx context.Context,
	cmd *models.InboundCommand,
) (*models.PlatformResponse, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlatformResponse), args.Error(1)
}

func (m *MockCommandsService) ProcessGiveSubmission(
	ctx context.Context,
	sub *models.GiveSubmission,
) (*models.PlatformResponse, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlatformResponse), args.Error(1)
}

func (m *MockCommandsService) EnhanceMessage(
	ctx context.Context,
	message string,
	points int,
	behaviors []string,
) string {
	args := m.Called(ctx, message, points, behaviors)
	return args.String(0)
}
