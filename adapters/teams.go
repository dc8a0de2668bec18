package adapters

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/chrisw-xceleration/rewardstation-poc/core"
	"github.com/chrisw-xceleration/rewardstation-poc/models"
	"github.com/chrisw-xceleration/rewardstation-poc/securitylog"
	"github.com/chrisw-xceleration/rewardstation-poc/utils"
)

// teamsActivity is the subset of the Bot Framework activity schema the
// gateway consumes.
type teamsActivity struct {
	Type         string          `json:"type"`
	Text         string          `json:"text"`
	From         teamsAccount    `json:"from"`
	Conversation teamsAccount    `json:"conversation"`
	Value        json.RawMessage `json:"value,omitempty"`
}

type teamsAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type teamsSubmitValue struct {
	Action    string `json:"action"`
	Recipient string `json:"recipient"`
	Points    string `json:"points"`
	// Multi-select choice sets submit a comma-separated string
	Behaviors string `json:"behaviors"`
	Message   string `json:"message"`
}

type TeamsAdapter struct {
	appID       string
	appPassword string
}

func NewTeamsAdapter(appID, appPassword string) *TeamsAdapter {
	return &TeamsAdapter{
		appID:       appID,
		appPassword: appPassword,
	}
}

func (a *TeamsAdapter) Platform() models.Platform {
	return models.PlatformTeams
}

// VerifySignature checks that the Bot Framework connector presented a
// bearer token. Full JWT validation against the connector's signing keys
// requires the Bot Framework metadata endpoint; without credentials
// configured the check is bypassed and logged per request.
func (a *TeamsAdapter) VerifySignature(header http.Header, rawBody []byte) error {
	if a.appID == "" || a.appPassword == "" {
		securitylog.VerificationBypassed(models.PlatformTeams)
		return nil
	}

	authorization := header.Get("Authorization")
	if !strings.HasPrefix(authorization, "Bearer ") || len(authorization) <= len("Bearer ") {
		securitylog.SecurityEvent(securitylog.EventAuthMissing, models.PlatformTeams)
		return fmt.Errorf("%w: missing bearer token", core.ErrAuthentication)
	}

	return nil
}

// ParseInbound parses a Bot Framework message activity into the
// platform-neutral command. The leading bot mention is stripped before
// the verb is read.
func (a *TeamsAdapter) ParseInbound(rawBody []byte) (*models.InboundCommand, error) {
	var activity teamsActivity
	if err := json.Unmarshal(rawBody, &activity); err != nil {
		return nil, fmt.Errorf("failed to parse activity: %w", err)
	}

	if activity.Type != "message" {
		return nil, core.NewValidationError("type", fmt.Sprintf("unsupported activity type %q", activity.Type))
	}

	// Card submissions arrive as message activities with a value payload
	if len(activity.Value) > 0 && strings.TrimSpace(activity.Text) == "" {
		return nil, core.NewValidationError("text", "activity carries a card submission, not a command")
	}

	text := utils.StripBotMention(activity.Text)
	verbToken, rest := splitFirstToken(text)

	verb, ok := parseVerb(verbToken)
	if !ok {
		return nil, &core.UnknownCommandError{Verb: verbToken}
	}

	cmd := &models.InboundCommand{
		Platform:        models.PlatformTeams,
		Verb:            verb,
		ActorID:         activity.From.ID,
		ChannelID:       activity.Conversation.ID,
		OriginalCommand: strings.TrimSpace(text),
	}

	switch verb {
	case models.VerbThanks:
		mention, found := utils.FindTeamsMention(rest)
		if !found {
			return nil, core.NewValidationError("recipient", "mention a user with <at>name</at>")
		}
		cmd.TargetMention = mention.UserID
		cmd.FreeText = utils.SanitizeMessage(utils.StripQuotes(rest[mention.End:]))
		if cmd.FreeText == "" {
			return nil, core.NewValidationError("message", "include a message after the mention")
		}
	case models.VerbGive:
		if mention, found := utils.FindTeamsMention(rest); found {
			cmd.TargetMention = mention.UserID
			rest = rest[mention.End:]
		}
		cmd.FreeText = utils.SanitizeMessage(utils.StripQuotes(rest))
	default:
		cmd.FreeText = utils.SanitizeMessage(rest)
	}

	return cmd, nil
}

// ParseGiveSubmission extracts a recognition form submission from a card
// submit activity. Returns (nil, nil) when the activity is not a
// recognition submit.
func (a *TeamsAdapter) ParseGiveSubmission(rawBody []byte) (*models.GiveSubmission, error) {
	var activity teamsActivity
	if err := json.Unmarshal(rawBody, &activity); err != nil {
		return nil, fmt.Errorf("failed to parse activity: %w", err)
	}

	if len(activity.Value) == 0 {
		return nil, nil
	}

	var value teamsSubmitValue
	if err := json.Unmarshal(activity.Value, &value); err != nil {
		return nil, fmt.Errorf("failed to parse card submission: %w", err)
	}
	if value.Action != "submit_recognition" {
		return nil, nil
	}

	points, err := strconv.Atoi(strings.TrimSpace(value.Points))
	if err != nil {
		return nil, core.NewValidationError("points", "points must be a whole number")
	}

	var behaviors []string
	for _, b := range strings.Split(value.Behaviors, ",") {
		if b = strings.TrimSpace(b); b != "" {
			behaviors = append(behaviors, b)
		}
	}

	return &models.GiveSubmission{
		Platform:    models.PlatformTeams,
		ActorID:     activity.From.ID,
		RecipientID: strings.TrimSpace(value.Recipient),
		Points:      points,
		Behaviors:   behaviors,
		Message:     utils.SanitizeMessage(value.Message),
		ChannelID:   activity.Conversation.ID,
	}, nil
}

// FormatResponse renders a reply activity. Suggested actions map onto the
// Bot Framework suggestedActions block so the client renders tap-to-run
// buttons under the message.
func (a *TeamsAdapter) FormatResponse(resp *models.PlatformResponse) ([]byte, string) {
	activity := map[string]any{
		"type": "message",
		"text": resp.Text,
	}

	if resp.OpenRecognitionForm {
		activity["text"] = ""
		activity["attachments"] = []map[string]any{{
			"contentType": "application/vnd.microsoft.card.adaptive",
			"content":     buildRecognitionCard(),
		}}
	} else if len(resp.SuggestedActions) > 0 {
		var actions []map[string]any
		for _, action := range resp.SuggestedActions {
			actions = append(actions, map[string]any{
				"type":  "imBack",
				"title": action.Text,
				"value": action.Command,
			})
		}
		activity["suggestedActions"] = map[string]any{"actions": actions}
	}

	body, err := json.Marshal(activity)
	if err != nil {
		body = []byte(`{"type":"message","text":"⚠️ Something went wrong. Please try again."}`)
	}

	return body, "application/json"
}

// buildRecognitionCard assembles the Adaptive Card recognition form. The
// schema is hand-built JSON; card submissions come back through
// ParseGiveSubmission.
func buildRecognitionCard() map[string]any {
	behaviorChoices := []map[string]any{}
	for _, behavior := range []string{"Innovation", "Teamwork", "Customer Focus", "Leadership", "Quality Excellence", "Accountability"} {
		behaviorChoices = append(behaviorChoices, map[string]any{
			"title": behavior,
			"value": behavior,
		})
	}

	pointChoices := []map[string]any{}
	for _, points := range []int{50, 100, 150, 200, 250, 500} {
		pointChoices = append(pointChoices, map[string]any{
			"title": fmt.Sprintf("%d points", points),
			"value": strconv.Itoa(points),
		})
	}

	return map[string]any{
		"$schema": "http://adaptivecards.io/schemas/adaptive-card.json",
		"type":    "AdaptiveCard",
		"version": "1.4",
		"body": []map[string]any{
			{"type": "TextBlock", "text": "🎁 Give Recognition", "weight": "Bolder", "size": "Medium"},
			{"type": "Input.Text", "id": "recipient", "label": "Who are you recognizing?", "placeholder": "Recipient name or email"},
			{"type": "Input.ChoiceSet", "id": "points", "label": "Points", "choices": pointChoices, "value": "100"},
			{"type": "Input.ChoiceSet", "id": "behaviors", "label": "Behaviors demonstrated", "choices": behaviorChoices, "isMultiSelect": true},
			{"type": "Input.Text", "id": "message", "label": "Recognition message", "isMultiline": true, "placeholder": "What did they do?"},
		},
		"actions": []map[string]any{
			{"type": "Action.Submit", "title": "Send Recognition 🎉", "data": map[string]any{"action": "submit_recognition"}},
		},
	}
}
