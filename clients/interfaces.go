package clients

import (
	"context"

	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

// SlackClient is the surface of the Slack Web API this gateway uses
type SlackClient interface {
	// PostMessage posts a public message to a channel
	PostMessage(ctx context.Context, channelID, text string) error
	// PostEphemeral posts a message visible only to one user in a channel
	PostEphemeral(ctx context.Context, channelID, userID, text string) error
	// OpenRecognitionModal opens the give form for the given trigger
	OpenRecognitionModal(ctx context.Context, triggerID, channelID string, behaviors []string) error
	// GetUserEmail resolves a Slack user ID to their workspace email
	GetUserEmail(ctx context.Context, userID string) (string, error)
}

// AnthropicClient wraps the Claude Messages API for message enhancement
type AnthropicClient interface {
	CreateMessage(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// WorkflowClient talks to the external workflow orchestrator
type WorkflowClient interface {
	RunRecognitionWorkflow(ctx context.Context, rec *models.Recognition) (*models.WorkflowRun, error)
	GetWorkflowRun(ctx context.Context, workflowID string) (*models.WorkflowRun, error)
}
