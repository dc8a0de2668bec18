package services

import (
	"context"

	"github.com/samber/mo"

	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

// RewardsService is the gateway's view of the RewardStation platform. The
// mock implementation and the HTTP client are interchangeable behind it.
type RewardsService interface {
	// LookupUserByEmail resolves an employee by corporate email.
	// Returns None when no employee matches.
	LookupUserByEmail(ctx context.Context, email string) (mo.Option[*models.RewardsUser], error)

	// LookupUserByPlatformID resolves an employee by chat platform user ID,
	// provisioning a record when none exists yet.
	LookupUserByPlatformID(ctx context.Context, platform models.Platform, platformUserID string) (*models.RewardsUser, error)

	// CreateRecognition submits a recognition. Requests carrying an
	// idempotency key already seen return the original recognition.
	CreateRecognition(ctx context.Context, req *models.RecognitionRequest) (*models.Recognition, error)

	// GetRecognitionStatus returns the delivery state of a recognition.
	// Returns None when the recognition is unknown.
	GetRecognitionStatus(ctx context.Context, recognitionID string) (mo.Option[*models.Recognition], error)

	// GetBalance returns an employee's current point balance
	GetBalance(ctx context.Context, employeeID string) (*models.Balance, error)

	// GetBehaviorAttributes lists the company behavior attributes a
	// recognition can be tagged with
	GetBehaviorAttributes(ctx context.Context) ([]string, error)
}

// EnhancementService generates AI-assisted response content. Every method
// is best-effort: callers fall back to canned text on error.
type EnhancementService interface {
	// GenerateHelp produces contextual help text for the requested topic
	// ("", "thanks", "give", "balance")
	GenerateHelp(ctx context.Context, platform models.Platform, topic string) (*models.PlatformResponse, error)

	// EnhanceMessage rewrites a recognition message to be more expressive
	// while preserving its meaning
	EnhanceMessage(ctx context.Context, message string, enhCtx *models.EnhancementContext) (string, error)

	// SuggestBehaviors proposes behavior attributes matching a message
	SuggestBehaviors(ctx context.Context, message string) ([]string, error)
}

// WorkflowService starts and tracks recognition approval workflows
type WorkflowService interface {
	StartRecognitionWorkflow(ctx context.Context, rec *models.Recognition) (*models.WorkflowRun, error)
	GetWorkflowStatus(ctx context.Context, workflowID string) (*models.WorkflowRun, error)
}

// NotificationsService delivers proactive messages outside the
// request/response cycle of a slash command
type NotificationsService interface {
	PostChannelMessage(ctx context.Context, platform models.Platform, channelID, text string) error
	PostDirectMessage(ctx context.Context, platform models.Platform, userID, text string) error
	PostEphemeralMessage(ctx context.Context, platform models.Platform, channelID, userID, text string) error
}

// CommandsService dispatches parsed commands to their handlers
type CommandsService interface {
	// ProcessCommand routes an inbound command and produces the
	// synchronous response for the invoking user
	ProcessCommand(ctx context.Context, cmd *models.InboundCommand) (*models.PlatformResponse, error)

	// ProcessGiveSubmission completes a give form submission
	ProcessGiveSubmission(ctx context.Context, sub *models.GiveSubmission) (*models.PlatformResponse, error)

	// EnhanceMessage rewrites draft recognition text, returning the
	// original unchanged when enhancement is unavailable
	EnhanceMessage(ctx context.Context, message string, points int, behaviors []string) string
}
