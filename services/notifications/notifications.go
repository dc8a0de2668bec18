// Package notifications delivers proactive messages: channel
// celebrations, recipient DMs, and ephemeral notices outside the webhook
// response cycle.
package notifications

import (
	"context"
	"fmt"
	"log"

	"github.com/chrisw-xceleration/rewardstation-poc/clients"
	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

type NotificationsService struct {
	slackClient clients.SlackClient
}

// NewNotificationsService builds the service. A nil Slack client means no
// bot token is configured; Slack deliveries then log instead of posting.
func NewNotificationsService(slackClient clients.SlackClient) *NotificationsService {
	return &NotificationsService{slackClient: slackClient}
}

func (s *NotificationsService) PostChannelMessage(
	ctx context.Context,
	platform models.Platform,
	channelID, text string,
) error {
	switch platform {
	case models.PlatformSlack:
		if s.slackClient == nil {
			log.Printf("📨 [no bot token] channel message to %s: %s", channelID, text)
			return nil
		}
		return s.slackClient.PostMessage(ctx, channelID, text)
	case models.PlatformTeams:
		// Proactive Teams delivery needs a stored conversation reference,
		// which the Bot Framework only hands out during an active turn.
		log.Printf("📨 [teams] channel message to %s: %s", channelID, text)
		return nil
	default:
		return fmt.Errorf("unsupported platform: %s", platform)
	}
}

// PostDirectMessage notifies a single user. On Slack, posting to a user ID
// opens the bot's DM conversation with them.
func (s *NotificationsService) PostDirectMessage(
	ctx context.Context,
	platform models.Platform,
	userID, text string,
) error {
	switch platform {
	case models.PlatformSlack:
		if s.slackClient == nil {
			log.Printf("📨 [no bot token] direct message to %s: %s", userID, text)
			return nil
		}
		return s.slackClient.PostMessage(ctx, userID, text)
	case models.PlatformTeams:
		log.Printf("📨 [teams] direct message to %s: %s", userID, text)
		return nil
	default:
		return fmt.Errorf("unsupported platform: %s", platform)
	}
}

func (s *NotificationsService) PostEphemeralMessage(
	ctx context.Context,
	platform models.Platform,
	channelID, userID, text string,
) error {
	switch platform {
	case models.PlatformSlack:
		if s.slackClient == nil {
			log.Printf("📨 [no bot token] ephemeral message to %s in %s: %s", userID, channelID, text)
			return nil
		}
		return s.slackClient.PostEphemeral(ctx, channelID, userID, text)
	case models.PlatformTeams:
		log.Printf("📨 [teams] ephemeral message to %s in %s: %s", userID, channelID, text)
		return nil
	default:
		return fmt.Errorf("unsupported platform: %s", platform)
	}
}
