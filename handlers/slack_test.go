package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chrisw-xceleration/rewardstation-poc/adapters"
	"github.com/chrisw-xceleration/rewardstation-poc/clients"
	"github.com/chrisw-xceleration/rewardstation-poc/models"
	"github.com/chrisw-xceleration/rewardstation-poc/services"
)

const testSigningSecret = "8f742231b10e8888abcd99yyyzzz85a5"

func signRequest(req *http.Request, secret string, body []byte) {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", ts, body)
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
}

func slashBody(command, text string) []byte {
	form := url.Values{}
	form.Set("command", command)
	form.Set("text", text)
	form.Set("user_id", "U1234567890")
	form.Set("channel_id", "C0001")
	form.Set("trigger_id", "tr123")
	return []byte(form.Encode())
}

// modalSubmissionPayload is a recognition form submission as Slack delivers
// it: recipient user select, points option, behavior checkboxes, message.
const modalSubmissionPayload = `{
	"type": "view_submission",
	"user": {"id": "U1234567890"},
	"view": {
		"callback_id": "recognition_modal",
		"private_metadata": "C0001",
		"state": {
			"values": {
				"recipient_block": {"recipient_select": {"selected_user": "U42"}},
				"points_block": {"points_select": {"selected_option": {"value": "250"}}},
				"behavior_block": {"behavior_checkboxes": {"selected_options": [
					{"value": "Innovation", "text": {"type": "plain_text", "text": "Innovation"}},
					{"value": "Teamwork", "text": {"type": "plain_text", "text": "Teamwork"}}
				]}},
				"message_block": {"message_input": {"value": "Shipped the migration"}}
			}
		}
	}
}`

func newSlackHandler(secret string) (*SlackWebhooksHandler, *services.MockCommandsService, *services.MockNotificationsService) {
	commandsService := new(services.MockCommandsService)
	rewardsService := new(services.MockRewardsAPI)
	notificationsService := new(services.MockNotificationsService)
	handler := NewSlackWebhooksHandler(
		adapters.NewSlackAdapter(secret), commandsService, rewardsService, notificationsService, nil)
	return handler, commandsService, notificationsService
}

func TestHandleSlashCommand(t *testing.T) {
	t.Run("Error_MissingSignatureReturns401", func(t *testing.T) {
		handler, commandsService, _ := newSlackHandler(testSigningSecret)

		body := slashBody("/thanks", "<@U42> \"nice work\"")
		req := httptest.NewRequest(http.MethodPost, "/slack/commands", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleSlashCommand(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		commandsService.AssertNotCalled(t, "ProcessCommand", mock.Anything, mock.Anything)
	})

	t.Run("Success_SignedCommandDispatches", func(t *testing.T) {
		handler, commandsService, _ := newSlackHandler(testSigningSecret)
		commandsService.On("ProcessCommand", mock.Anything, mock.MatchedBy(func(cmd *models.InboundCommand) bool {
			return cmd.Verb == models.VerbThanks && cmd.TargetMention == "U42"
		})).Return(&models.PlatformResponse{
			Text:       "✅ Thanks sent!",
			Visibility: models.VisibilityEphemeral,
		}, nil)

		body := slashBody("/thanks", "<@U42> \"nice work\"")
		req := httptest.NewRequest(http.MethodPost, "/slack/commands", bytes.NewReader(body))
		signRequest(req, testSigningSecret, body)
		rec := httptest.NewRecorder()

		handler.HandleSlashCommand(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, "ephemeral", payload["response_type"])
		assert.Equal(t, "✅ Thanks sent!", payload["text"])
		commandsService.AssertExpectations(t)
	})

	t.Run("Success_ParseErrorBecomesUsageMessage", func(t *testing.T) {
		handler, commandsService, _ := newSlackHandler("")

		body := slashBody("/thanks", "no mention here")
		req := httptest.NewRequest(http.MethodPost, "/slack/commands", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleSlashCommand(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, "ephemeral", payload["response_type"])
		assert.Contains(t, payload["text"], "recipient")
		commandsService.AssertNotCalled(t, "ProcessCommand", mock.Anything, mock.Anything)
	})

	t.Run("Success_GiveWithoutBotTokenFallsBackToUsage", func(t *testing.T) {
		handler, commandsService, _ := newSlackHandler("")
		commandsService.On("ProcessCommand", mock.Anything, mock.Anything).Return(&models.PlatformResponse{
			Visibility:          models.VisibilityEphemeral,
			OpenRecognitionForm: true,
		}, nil)

		body := slashBody("/give", "")
		req := httptest.NewRequest(http.MethodPost, "/slack/commands", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleSlashCommand(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Contains(t, payload["text"], "thanks")
	})

	t.Run("Success_UnknownVerbListsValidCommands", func(t *testing.T) {
		handler, _, _ := newSlackHandler("")

		body := slashBody("/rewardstation", "bestow 100")
		req := httptest.NewRequest(http.MethodPost, "/slack/commands", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleSlashCommand(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Contains(t, payload["text"], "bestow")
		assert.Contains(t, payload["text"], "balance")
	})
}

func TestHandleInteractivity(t *testing.T) {
	t.Run("Success_ModalSubmissionClosesModal", func(t *testing.T) {
		handler, commandsService, notificationsService := newSlackHandler("")
		processed := make(chan *models.GiveSubmission, 1)
		commandsService.On("ProcessGiveSubmission", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				processed <- args.Get(1).(*models.GiveSubmission)
			}).
			Return(&models.PlatformResponse{Text: "✅ done", Visibility: models.VisibilityEphemeral}, nil)
		notified := make(chan string, 1)
		notificationsService.On("PostEphemeralMessage", mock.Anything, models.PlatformSlack, "C0001", "U1234567890", mock.Anything).
			Run(func(args mock.Arguments) { notified <- args.String(4) }).
			Return(nil)

		form := url.Values{}
		form.Set("payload", modalSubmissionPayload)

		req := httptest.NewRequest(http.MethodPost, "/slack/interactivity", bytes.NewReader([]byte(form.Encode())))
		rec := httptest.NewRecorder()

		handler.HandleInteractivity(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"response_action":"clear"}`, rec.Body.String())

		select {
		case sub := <-processed:
			assert.Equal(t, "U42", sub.RecipientID)
			assert.Equal(t, 250, sub.Points)
			assert.Equal(t, "Shipped the migration", sub.Message)
			assert.Equal(t, []string{"Innovation", "Teamwork"}, sub.Behaviors)
			assert.Equal(t, "C0001", sub.ChannelID)
		case <-time.After(2 * time.Second):
			t.Fatal("give submission was never processed")
		}
		select {
		case text := <-notified:
			assert.Equal(t, "✅ done", text)
		case <-time.After(2 * time.Second):
			t.Fatal("submitter was never notified")
		}
	})

	t.Run("Success_RecipientResolvedToWorkspaceEmail", func(t *testing.T) {
		commandsService := new(services.MockCommandsService)
		rewardsService := new(services.MockRewardsAPI)
		notificationsService := new(services.MockNotificationsService)
		slackClient := new(clients.MockSlackClient)
		handler := NewSlackWebhooksHandler(
			adapters.NewSlackAdapter(""), commandsService, rewardsService, notificationsService, slackClient)

		slackClient.On("GetUserEmail", mock.Anything, "U42").
			Return("jane.smith@xceleration.com", nil)
		processed := make(chan *models.GiveSubmission, 1)
		commandsService.On("ProcessGiveSubmission", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				processed <- args.Get(1).(*models.GiveSubmission)
			}).
			Return(&models.PlatformResponse{Text: "✅ done", Visibility: models.VisibilityEphemeral}, nil)
		notificationsService.On("PostEphemeralMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil)

		form := url.Values{}
		form.Set("payload", modalSubmissionPayload)

		req := httptest.NewRequest(http.MethodPost, "/slack/interactivity", bytes.NewReader([]byte(form.Encode())))
		rec := httptest.NewRecorder()

		handler.HandleInteractivity(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		select {
		case sub := <-processed:
			assert.Equal(t, "jane.smith@xceleration.com", sub.RecipientID)
		case <-time.After(2 * time.Second):
			t.Fatal("give submission was never processed")
		}
		slackClient.AssertExpectations(t)
	})

	t.Run("Success_EmailLookupFailureKeepsPlatformID", func(t *testing.T) {
		commandsService := new(services.MockCommandsService)
		rewardsService := new(services.MockRewardsAPI)
		notificationsService := new(services.MockNotificationsService)
		slackClient := new(clients.MockSlackClient)
		handler := NewSlackWebhooksHandler(
			adapters.NewSlackAdapter(""), commandsService, rewardsService, notificationsService, slackClient)

		slackClient.On("GetUserEmail", mock.Anything, "U42").
			Return("", fmt.Errorf("no email on profile for user U42"))
		processed := make(chan *models.GiveSubmission, 1)
		commandsService.On("ProcessGiveSubmission", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				processed <- args.Get(1).(*models.GiveSubmission)
			}).
			Return(&models.PlatformResponse{Text: "✅ done", Visibility: models.VisibilityEphemeral}, nil)
		notificationsService.On("PostEphemeralMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil)

		form := url.Values{}
		form.Set("payload", modalSubmissionPayload)

		req := httptest.NewRequest(http.MethodPost, "/slack/interactivity", bytes.NewReader([]byte(form.Encode())))
		rec := httptest.NewRecorder()

		handler.HandleInteractivity(rec, req)

		select {
		case sub := <-processed:
			assert.Equal(t, "U42", sub.RecipientID)
		case <-time.After(2 * time.Second):
			t.Fatal("give submission was never processed")
		}
	})

	t.Run("Success_ForeignCallbackIgnored", func(t *testing.T) {
		handler, commandsService, _ := newSlackHandler("")

		form := url.Values{}
		form.Set("payload", `{"type": "view_submission", "view": {"callback_id": "something_else"}}`)
		req := httptest.NewRequest(http.MethodPost, "/slack/interactivity", bytes.NewReader([]byte(form.Encode())))
		rec := httptest.NewRecorder()

		handler.HandleInteractivity(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		commandsService.AssertNotCalled(t, "ProcessGiveSubmission", mock.Anything, mock.Anything)
	})

	t.Run("Error_MissingSignatureReturns401", func(t *testing.T) {
		handler, _, _ := newSlackHandler(testSigningSecret)

		req := httptest.NewRequest(http.MethodPost, "/slack/interactivity", bytes.NewReader([]byte("payload=%7B%7D")))
		rec := httptest.NewRecorder()

		handler.HandleInteractivity(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandleEventCallback(t *testing.T) {
	t.Run("Success_URLVerificationChallenge", func(t *testing.T) {
		handler, _, _ := newSlackHandler("")

		body := []byte(`{"type": "url_verification", "challenge": "ch4ll3ng3"}`)
		req := httptest.NewRequest(http.MethodPost, "/slack/events", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleEventCallback(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ch4ll3ng3", rec.Body.String())
	})

	t.Run("Success_EventCallbackAcknowledged", func(t *testing.T) {
		handler, _, _ := newSlackHandler("")

		body := []byte(`{"type": "event_callback", "event": {"type": "app_mention"}}`)
		req := httptest.NewRequest(http.MethodPost, "/slack/events", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleEventCallback(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
