package adapters

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisw-xceleration/rewardstation-poc/core"
	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

func teamsMessageBody(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"type":         "message",
		"text":         text,
		"from":         map[string]string{"id": "29:teams-user-1", "name": "John Doe"},
		"conversation": map[string]string{"id": "19:channel-thread"},
	})
	require.NoError(t, err)
	return body
}

func TestTeamsVerifySignature(t *testing.T) {
	t.Run("Success_BearerTokenPresent", func(t *testing.T) {
		adapter := NewTeamsAdapter("app-id", "app-password")
		header := http.Header{}
		header.Set("Authorization", "Bearer some-connector-jwt")
		assert.NoError(t, adapter.VerifySignature(header, nil))
	})

	t.Run("Error_MissingAuthorization", func(t *testing.T) {
		adapter := NewTeamsAdapter("app-id", "app-password")
		err := adapter.VerifySignature(http.Header{}, nil)
		assert.ErrorIs(t, err, core.ErrAuthentication)
	})

	t.Run("Error_NonBearerScheme", func(t *testing.T) {
		adapter := NewTeamsAdapter("app-id", "app-password")
		header := http.Header{}
		header.Set("Authorization", "Basic dXNlcjpwYXNz")
		err := adapter.VerifySignature(header, nil)
		assert.ErrorIs(t, err, core.ErrAuthentication)
	})

	t.Run("Success_BypassWithoutCredentials", func(t *testing.T) {
		adapter := NewTeamsAdapter("", "")
		assert.NoError(t, adapter.VerifySignature(http.Header{}, nil))
	})
}

func TestTeamsParseInbound(t *testing.T) {
	adapter := NewTeamsAdapter("", "")

	t.Run("Success_ThanksWithMention", func(t *testing.T) {
		body := teamsMessageBody(t, "<at>RewardStation</at> thanks <at>Jane Smith</at> \"nice work\"")
		cmd, err := adapter.ParseInbound(body)
		require.NoError(t, err)
		assert.Equal(t, models.PlatformTeams, cmd.Platform)
		assert.Equal(t, models.VerbThanks, cmd.Verb)
		assert.Equal(t, "29:teams-user-1", cmd.ActorID)
		assert.Equal(t, "Jane Smith", cmd.TargetMention)
		assert.Equal(t, "nice work", cmd.FreeText)
		assert.Equal(t, "19:channel-thread", cmd.ChannelID)
	})

	t.Run("Success_HelpWithoutBotMention", func(t *testing.T) {
		cmd, err := adapter.ParseInbound(teamsMessageBody(t, "help"))
		require.NoError(t, err)
		assert.Equal(t, models.VerbHelp, cmd.Verb)
	})

	t.Run("Success_EmptyTextDefaultsToHelp", func(t *testing.T) {
		cmd, err := adapter.ParseInbound(teamsMessageBody(t, "<at>RewardStation</at>"))
		require.NoError(t, err)
		assert.Equal(t, models.VerbHelp, cmd.Verb)
	})

	t.Run("Error_ThanksWithoutMention", func(t *testing.T) {
		_, err := adapter.ParseInbound(teamsMessageBody(t, "<at>RewardStation</at> thanks everyone"))
		require.Error(t, err)
		var ve *core.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "recipient", ve.Field)
	})

	t.Run("Error_UnknownVerb", func(t *testing.T) {
		_, err := adapter.ParseInbound(teamsMessageBody(t, "<at>RewardStation</at> bestow points"))
		require.Error(t, err)
		var uce *core.UnknownCommandError
		require.True(t, errors.As(err, &uce))
		assert.Equal(t, "bestow", uce.Verb)
	})

	t.Run("Error_NonMessageActivity", func(t *testing.T) {
		body, err := json.Marshal(map[string]any{"type": "conversationUpdate"})
		require.NoError(t, err)
		_, err = adapter.ParseInbound(body)
		assert.True(t, core.IsValidationError(err))
	})

	t.Run("Error_MalformedJSON", func(t *testing.T) {
		_, err := adapter.ParseInbound([]byte("{not json"))
		assert.Error(t, err)
	})
}

func TestTeamsParseGiveSubmission(t *testing.T) {
	adapter := NewTeamsAdapter("", "")

	t.Run("Success_CardSubmit", func(t *testing.T) {
		body, err := json.Marshal(map[string]any{
			"type":         "message",
			"from":         map[string]string{"id": "29:teams-user-1"},
			"conversation": map[string]string{"id": "19:channel-thread"},
			"value": map[string]any{
				"action":    "submit_recognition",
				"recipient": "jane.smith@xceleration.com",
				"points":    "250",
				"behaviors": "Innovation,Teamwork",
				"message":   "Shipped the migration ahead of schedule",
			},
		})
		require.NoError(t, err)

		sub, err := adapter.ParseGiveSubmission(body)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, models.PlatformTeams, sub.Platform)
		assert.Equal(t, "jane.smith@xceleration.com", sub.RecipientID)
		assert.Equal(t, 250, sub.Points)
		assert.Equal(t, []string{"Innovation", "Teamwork"}, sub.Behaviors)
		assert.Equal(t, "Shipped the migration ahead of schedule", sub.Message)
	})

	t.Run("Success_NilForPlainMessage", func(t *testing.T) {
		sub, err := adapter.ParseGiveSubmission(teamsMessageBody(t, "help"))
		require.NoError(t, err)
		assert.Nil(t, sub)
	})

	t.Run("Success_NilForForeignSubmit", func(t *testing.T) {
		body, err := json.Marshal(map[string]any{
			"type":  "message",
			"from":  map[string]string{"id": "29:teams-user-1"},
			"value": map[string]any{"action": "something_else"},
		})
		require.NoError(t, err)
		sub, err := adapter.ParseGiveSubmission(body)
		require.NoError(t, err)
		assert.Nil(t, sub)
	})

	t.Run("Error_NonNumericPoints", func(t *testing.T) {
		body, err := json.Marshal(map[string]any{
			"type": "message",
			"from": map[string]string{"id": "29:teams-user-1"},
			"value": map[string]any{
				"action": "submit_recognition",
				"points": "lots",
			},
		})
		require.NoError(t, err)
		_, err = adapter.ParseGiveSubmission(body)
		var ve *core.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "points", ve.Field)
	})
}

func TestTeamsFormatResponse(t *testing.T) {
	adapter := NewTeamsAdapter("", "")

	t.Run("Success_PlainText", func(t *testing.T) {
		body, contentType := adapter.FormatResponse(&models.PlatformResponse{
			Text:       "💰 Your balance: 450 points",
			Visibility: models.VisibilityEphemeral,
		})
		assert.Equal(t, "application/json", contentType)

		var activity map[string]any
		require.NoError(t, json.Unmarshal(body, &activity))
		assert.Equal(t, "message", activity["type"])
		assert.Equal(t, "💰 Your balance: 450 points", activity["text"])
	})

	t.Run("Success_SuggestedActions", func(t *testing.T) {
		body, _ := adapter.FormatResponse(&models.PlatformResponse{
			Text:       "Here's what I can do",
			Visibility: models.VisibilityEphemeral,
			SuggestedActions: []models.SuggestedAction{
				{Text: "Check Balance", Command: "balance"},
				{Text: "Say Thanks", Command: "thanks"},
			},
		})

		var activity map[string]any
		require.NoError(t, json.Unmarshal(body, &activity))
		suggested, ok := activity["suggestedActions"].(map[string]any)
		require.True(t, ok)
		actions, ok := suggested["actions"].([]any)
		require.True(t, ok)
		assert.Len(t, actions, 2)
	})

	t.Run("Success_RecognitionFormCard", func(t *testing.T) {
		body, _ := adapter.FormatResponse(&models.PlatformResponse{
			Visibility:          models.VisibilityEphemeral,
			OpenRecognitionForm: true,
		})

		var activity map[string]any
		require.NoError(t, json.Unmarshal(body, &activity))
		attachments, ok := activity["attachments"].([]any)
		require.True(t, ok)
		require.Len(t, attachments, 1)
		attachment := attachments[0].(map[string]any)
		assert.Equal(t, "application/vnd.microsoft.card.adaptive", attachment["contentType"])
	})
}
