// Package slack implements the clients.SlackClient interface using the
// slack-go/slack SDK.
package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/chrisw-xceleration/rewardstation-poc/clients"
)

// RecognitionModalCallbackID identifies the give form's view submission
const RecognitionModalCallbackID = "recognition_modal"

// Block and action IDs used by the recognition modal
const (
	RecipientBlockID       = "recipient_block"
	RecipientActionID      = "recipient_select"
	PointsBlockID          = "points_block"
	PointsActionID         = "points_select"
	BehaviorBlockID        = "behavior_block"
	BehaviorActionID       = "behavior_checkboxes"
	MessageBlockID         = "message_block"
	MessageActionID        = "message_input"
	EnhanceMessageActionID = "enhance_message_button"
)

// pointOptions are the selectable award amounts on the give form
var pointOptions = []struct {
	Value string
	Label string
}{
	{"50", "50 points - Daily help"},
	{"100", "100 points - Good work"},
	{"150", "150 points - Great effort"},
	{"200", "200 points - Exceptional"},
	{"250", "250 points - Outstanding"},
	{"500", "500 points - Extraordinary"},
}

type SlackClient struct {
	client *slack.Client
}

// NewSlackClient creates a new Slack client with the provided bot token
func NewSlackClient(botToken string) clients.SlackClient {
	return &SlackClient{
		client: slack.New(botToken),
	}
}

func (c *SlackClient) PostMessage(ctx context.Context, channelID, text string) error {
	_, _, err := c.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post message to channel %s: %w", channelID, err)
	}
	return nil
}

func (c *SlackClient) PostEphemeral(ctx context.Context, channelID, userID, text string) error {
	_, err := c.client.PostEphemeralContext(ctx, channelID, userID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post ephemeral message to %s: %w", channelID, err)
	}
	return nil
}

func (c *SlackClient) GetUserEmail(ctx context.Context, userID string) (string, error) {
	user, err := c.client.GetUserInfoContext(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get user info for %s: %w", userID, err)
	}
	if user.Profile.Email == "" {
		return "", fmt.Errorf("no email on profile for user %s", userID)
	}
	return user.Profile.Email, nil
}

// OpenRecognitionModal opens the interactive give form. The origin channel
// is stashed in private metadata so the submission can celebrate there.
func (c *SlackClient) OpenRecognitionModal(
	ctx context.Context,
	triggerID, channelID string,
	behaviors []string,
) error {
	view := buildRecognitionModal(channelID, behaviors)
	if _, err := c.client.OpenViewContext(ctx, triggerID, view); err != nil {
		return fmt.Errorf("failed to open recognition modal: %w", err)
	}
	return nil
}

func buildRecognitionModal(channelID string, behaviors []string) slack.ModalViewRequest {
	recipientEl := slack.NewOptionsSelectBlockElement(
		slack.OptTypeUser,
		slack.NewTextBlockObject(slack.PlainTextType, "Select recipient", false, false),
		RecipientActionID,
	)

	var pointOpts []*slack.OptionBlockObject
	for _, opt := range pointOptions {
		pointOpts = append(pointOpts, slack.NewOptionBlockObject(
			opt.Value,
			slack.NewTextBlockObject(slack.PlainTextType, opt.Label, false, false),
			nil,
		))
	}
	pointsEl := slack.NewOptionsSelectBlockElement(
		slack.OptTypeStatic,
		slack.NewTextBlockObject(slack.PlainTextType, "Select point amount", false, false),
		PointsActionID,
		pointOpts...,
	)

	messageEl := slack.NewPlainTextInputBlockElement(
		slack.NewTextBlockObject(slack.PlainTextType, "Describe the specific behavior or achievement...", false, false),
		MessageActionID,
	)
	messageEl.Multiline = true

	enhanceSection := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, "💡 *Tip:* Maslow Insights can help enhance your message for maximum impact!", false, false),
		nil,
		slack.NewAccessory(slack.NewButtonBlockElement(
			EnhanceMessageActionID,
			"enhance",
			slack.NewTextBlockObject(slack.PlainTextType, "✨ Enhance Message", false, false),
		)),
	)

	blocks := []slack.Block{
		slack.NewInputBlock(RecipientBlockID,
			slack.NewTextBlockObject(slack.PlainTextType, "Who are you recognizing?", false, false),
			nil, recipientEl),
		slack.NewInputBlock(PointsBlockID,
			slack.NewTextBlockObject(slack.PlainTextType, "Point amount", false, false),
			nil, pointsEl),
	}

	// The views.open API rejects a checkbox group with zero options, so the
	// behavior block is only present when the list loaded
	if len(behaviors) > 0 {
		var behaviorOpts []*slack.OptionBlockObject
		for _, behavior := range behaviors {
			behaviorOpts = append(behaviorOpts, slack.NewOptionBlockObject(
				behavior,
				slack.NewTextBlockObject(slack.PlainTextType, behavior, false, false),
				nil,
			))
		}
		behaviorEl := slack.NewCheckboxGroupsBlockElement(BehaviorActionID, behaviorOpts...)
		blocks = append(blocks, slack.NewInputBlock(BehaviorBlockID,
			slack.NewTextBlockObject(slack.PlainTextType, "Behavior attributes (select all that apply)", false, false),
			nil, behaviorEl))
	}

	blocks = append(blocks,
		slack.NewInputBlock(MessageBlockID,
			slack.NewTextBlockObject(slack.PlainTextType, "Recognition message", false, false),
			nil, messageEl),
		enhanceSection,
	)

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      RecognitionModalCallbackID,
		PrivateMetadata: channelID,
		Title:           slack.NewTextBlockObject(slack.PlainTextType, "Give Recognition", false, false),
		Submit:          slack.NewTextBlockObject(slack.PlainTextType, "Send Recognition", false, false),
		Close:           slack.NewTextBlockObject(slack.PlainTextType, "Cancel", false, false),
		Blocks:          slack.Blocks{BlockSet: blocks},
	}
}
