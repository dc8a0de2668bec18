package enhancement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, prompt string, maxTokens int) (string, error) {
	args := m.Called(ctx, prompt, maxTokens)
	return args.String(0), args.Error(1)
}

func TestGenerateHelp(t *testing.T) {
	svc := NewEnhancementService(nil)
	ctx := context.Background()

	t.Run("Success_BasicHelp", func(t *testing.T) {
		resp, err := svc.GenerateHelp(ctx, models.PlatformSlack, "")
		require.NoError(t, err)
		assert.Contains(t, resp.Text, "Welcome to RewardStation")
		assert.Equal(t, models.VisibilityEphemeral, resp.Visibility)
		assert.Len(t, resp.SuggestedActions, 3)
	})

	t.Run("Success_ThanksHelp", func(t *testing.T) {
		resp, err := svc.GenerateHelp(ctx, models.PlatformSlack, "thanks")
		require.NoError(t, err)
		assert.Contains(t, resp.Text, "Thanks Command Help")
	})

	t.Run("Success_GiveHelp", func(t *testing.T) {
		resp, err := svc.GenerateHelp(ctx, models.PlatformTeams, "give")
		require.NoError(t, err)
		assert.Contains(t, resp.Text, "Points Recognition Help")
	})
}

func TestEnhanceMessage(t *testing.T) {
	ctx := context.Background()
	enhCtx := &models.EnhancementContext{RecipientName: "Jane Smith", Points: 250, Behaviors: []string{"Teamwork"}}

	t.Run("Success_ClaudeEnhancement", func(t *testing.T) {
		client := new(mockAnthropicClient)
		client.On("CreateMessage", mock.Anything, mock.Anything, enhanceMaxTokens).
			Return("Jane went above and beyond leading the migration.", nil)

		svc := NewEnhancementService(client)
		enhanced, err := svc.EnhanceMessage(ctx, "great job on the migration", enhCtx)
		require.NoError(t, err)
		assert.Equal(t, "Jane went above and beyond leading the migration.", enhanced)
		client.AssertExpectations(t)
	})

	t.Run("Success_FallbackOnClaudeError", func(t *testing.T) {
		client := new(mockAnthropicClient)
		client.On("CreateMessage", mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("api unavailable"))

		svc := NewEnhancementService(client)
		enhanced, err := svc.EnhanceMessage(ctx, "great job on the migration", enhCtx)
		require.NoError(t, err)
		assert.Contains(t, enhanced, "fantastic work and dedication")
	})

	t.Run("Success_FallbackWithoutClient", func(t *testing.T) {
		svc := NewEnhancementService(nil)
		enhanced, err := svc.EnhanceMessage(ctx, "thanks for the good work", nil)
		require.NoError(t, err)
		assert.Contains(t, enhanced, "deeply appreciate")
		assert.Contains(t, enhanced, "excellent execution and attention to detail")
	})

	t.Run("Success_ShortMessageGetsExtended", func(t *testing.T) {
		svc := NewEnhancementService(nil)
		enhanced, err := svc.EnhanceMessage(ctx, "nice one", nil)
		require.NoError(t, err)
		assert.Contains(t, enhanced, "makes a real difference")
	})

	t.Run("Success_FallbackOnEmptyClaudeReply", func(t *testing.T) {
		client := new(mockAnthropicClient)
		client.On("CreateMessage", mock.Anything, mock.Anything, mock.Anything).Return("   ", nil)

		svc := NewEnhancementService(client)
		enhanced, err := svc.EnhanceMessage(ctx, "really solid effort on the rollout plan", nil)
		require.NoError(t, err)
		assert.Equal(t, "really solid effort on the rollout plan", enhanced)
	})
}

func TestSuggestBehaviors(t *testing.T) {
	svc := NewEnhancementService(nil)
	ctx := context.Background()

	t.Run("Success_KeywordMatches", func(t *testing.T) {
		behaviors, err := svc.SuggestBehaviors(ctx, "Creative solution that helped the whole team")
		require.NoError(t, err)
		assert.Equal(t, []string{"Innovation", "Teamwork"}, behaviors)
	})

	t.Run("Success_CapsAtThree", func(t *testing.T) {
		behaviors, err := svc.SuggestBehaviors(ctx, "Creative team lead delivered perfect customer service")
		require.NoError(t, err)
		assert.Len(t, behaviors, 3)
	})

	t.Run("Success_DefaultsWhenNoMatch", func(t *testing.T) {
		behaviors, err := svc.SuggestBehaviors(ctx, "wow")
		require.NoError(t, err)
		assert.Equal(t, []string{"Teamwork", "Quality Excellence"}, behaviors)
	})
}
