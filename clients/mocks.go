package clients

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSlackClient is a mock implementation of the SlackClient interface
type MockSlackClient struct {
	mock.Mock
}

func (m *MockSlackClient) PostMessage(ctx context.Context, channelID, text string) error {
	args := m.Called(ctx, channelID, text)
	return args.Error(0)
}

func (m *MockSlackClient) PostEphemeral(ctx context.Context, channelID, userID, text string) error {
	args := m.Called(ctx, channelID, userID, text)
	return args.Error(0)
}

func (m *MockSlackClient) OpenRecognitionModal(
	ctx context.Context,
	triggerID, channelID string,
	behaviors []string,
) error {
	args := m.Called(ctx, triggerID, channelID, behaviors)
	return args.Error(0)
}

func (m *MockSlackClient) GetUserEmail(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
