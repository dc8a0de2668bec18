package adapters

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/chrisw-xceleration/rewardstation-poc/core"
	"github.com/chrisw-xceleration/rewardstation-poc/models"
	"github.com/chrisw-xceleration/rewardstation-poc/securitylog"
	"github.com/chrisw-xceleration/rewardstation-poc/utils"
)

const (
	slackSignatureHeader = "X-Slack-Signature"
	slackTimestampHeader = "X-Slack-Request-Timestamp"

	// Replay window in seconds, enforced in both directions
	slackReplayWindow = 300

	legacyCommand = "rewardstation"
)

type SlackAdapter struct {
	signingSecret string
	now           func() time.Time
}

func NewSlackAdapter(signingSecret string) *SlackAdapter {
	return &SlackAdapter{
		signingSecret: signingSecret,
		now:           time.Now,
	}
}

func (a *SlackAdapter) Platform() models.Platform {
	return models.PlatformSlack
}

// VerifySignature verifies the authenticity of a Slack webhook request.
// The signature base string is "v0:<timestamp>:<raw body>"; comparison is
// constant-time. With no signing secret configured, verification is
// bypassed entirely - an explicit mock-mode state that is logged per
// request, never a silent fallback.
func (a *SlackAdapter) VerifySignature(header http.Header, rawBody []byte) error {
	if a.signingSecret == "" {
		securitylog.VerificationBypassed(models.PlatformSlack)
		return nil
	}

	timestamp := header.Get(slackTimestampHeader)
	signature := header.Get(slackSignatureHeader)

	if timestamp == "" || signature == "" {
		securitylog.SecurityEvent(securitylog.EventSignatureMissing, models.PlatformSlack)
		return fmt.Errorf("%w: missing required headers", core.ErrAuthentication)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		securitylog.SecurityEvent(securitylog.EventSignatureInvalid, models.PlatformSlack, "reason", "bad_timestamp_format")
		return fmt.Errorf("%w: invalid timestamp format", core.ErrAuthentication)
	}

	// Reject replays of captured requests regardless of signature
	// correctness; future-skewed timestamps are just as suspect.
	skew := a.now().Unix() - ts
	if skew > slackReplayWindow || skew < -slackReplayWindow {
		securitylog.SecurityEvent(securitylog.EventTimestampOutOfWindow, models.PlatformSlack, "skew_seconds", skew)
		return fmt.Errorf("%w: request timestamp outside replay window", core.ErrAuthentication)
	}

	baseString := fmt.Sprintf("v0:%s:%s", timestamp, string(rawBody))

	mac := hmac.New(sha256.New, []byte(a.signingSecret))
	mac.Write([]byte(baseString))
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		securitylog.SecurityEvent(securitylog.EventSignatureInvalid, models.PlatformSlack)
		return fmt.Errorf("%w: signature verification failed", core.ErrAuthentication)
	}

	return nil
}

// ParseInbound parses a form-encoded slash command payload into the
// platform-neutral command. Parsing the same payload twice yields
// structurally equal results.
func (a *SlackAdapter) ParseInbound(rawBody []byte) (*models.InboundCommand, error) {
	req, err := http.NewRequest(http.MethodPost, "/slack/commands", bytes.NewReader(rawBody))
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	slashCmd, err := slack.SlashCommandParse(req)
	if err != nil {
		return nil, fmt.Errorf("failed to parse slash command: %w", err)
	}

	commandName := strings.TrimPrefix(slashCmd.Command, "/")
	text := strings.TrimSpace(slashCmd.Text)

	// Legacy combined form: "/rewardstation thanks @user ..." carries the
	// verb as the first whitespace-delimited token of the text blob.
	verbToken := commandName
	if strings.EqualFold(commandName, legacyCommand) {
		verbToken, text = splitFirstToken(text)
	}

	verb, ok := parseVerb(verbToken)
	if !ok {
		return nil, &core.UnknownCommandError{Verb: verbToken}
	}

	cmd := &models.InboundCommand{
		Platform:        models.PlatformSlack,
		Verb:            verb,
		ActorID:         slashCmd.UserID,
		ChannelID:       slashCmd.ChannelID,
		ResponseURL:     slashCmd.ResponseURL,
		TriggerID:       slashCmd.TriggerID,
		OriginalCommand: strings.TrimSpace(slashCmd.Command + " " + slashCmd.Text),
	}

	switch verb {
	case models.VerbThanks:
		mention, found := utils.FindSlackMention(text)
		if !found {
			return nil, core.NewValidationError("recipient", "mention a user with @username")
		}
		cmd.TargetMention = mention.UserID
		cmd.FreeText = utils.SanitizeMessage(utils.StripQuotes(text[mention.End:]))
		if cmd.FreeText == "" {
			return nil, core.NewValidationError("message", "include a message after the mention")
		}
	case models.VerbGive:
		// Recipient is optional here; the interactive form collects it
		if mention, found := utils.FindSlackMention(text); found {
			cmd.TargetMention = mention.UserID
			text = text[mention.End:]
		}
		cmd.FreeText = utils.SanitizeMessage(utils.StripQuotes(text))
	default:
		cmd.FreeText = utils.SanitizeMessage(text)
	}

	return cmd, nil
}

// FormatResponse renders the response as a slash-command JSON reply with
// Block Kit blocks when suggested actions are present
func (a *SlackAdapter) FormatResponse(resp *models.PlatformResponse) ([]byte, string) {
	text := utils.ConvertMarkdownToSlack(resp.Text)

	payload := map[string]any{
		"response_type": string(resp.Visibility),
		"text":          text,
	}

	if len(resp.SuggestedActions) > 0 {
		section := slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)

		var buttons []slack.BlockElement
		for _, action := range resp.SuggestedActions {
			actionID := "help_action_" + strings.ReplaceAll(strings.ToLower(action.Text), " ", "_")
			buttons = append(buttons, slack.NewButtonBlockElement(
				actionID,
				action.Command,
				slack.NewTextBlockObject(slack.PlainTextType, action.Text, false, false),
			))
		}

		payload["blocks"] = []slack.Block{section, slack.NewActionBlock("suggested_actions", buttons...)}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("❌ Failed to marshal Slack response: %v", err)
		body = []byte(`{"response_type":"ephemeral","text":"⚠️ Something went wrong. Please try again."}`)
	}

	return body, "application/json"
}

func splitFirstToken(text string) (first, rest string) {
	fields := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(fields) == 0 {
		return "", ""
	}
	first = fields[0]
	if len(fields) == 2 {
		rest = strings.TrimSpace(fields[1])
	}
	return first, rest
}
