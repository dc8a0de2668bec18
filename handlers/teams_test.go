package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chrisw-xceleration/rewardstation-poc/adapters"
	"github.com/chrisw-xceleration/rewardstation-poc/models"
	"github.com/chrisw-xceleration/rewardstation-poc/services"
)

func newTeamsHandler(appID, appPassword string) (*TeamsWebhooksHandler, *services.MockCommandsService) {
	commandsService := new(services.MockCommandsService)
	handler := NewTeamsWebhooksHandler(adapters.NewTeamsAdapter(appID, appPassword), commandsService)
	return handler, commandsService
}

func teamsActivity(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"type":         "message",
		"text":         text,
		"from":         map[string]string{"id": "29:user-1"},
		"conversation": map[string]string{"id": "19:thread"},
	})
	require.NoError(t, err)
	return body
}

func TestHandleTeamsMessage(t *testing.T) {
	t.Run("Error_MissingBearerReturns401", func(t *testing.T) {
		handler, commandsService := newTeamsHandler("app-id", "app-password")

		req := httptest.NewRequest(http.MethodPost, "/teams/messages", bytes.NewReader(teamsActivity(t, "help")))
		rec := httptest.NewRecorder()

		handler.HandleMessage(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		commandsService.AssertNotCalled(t, "ProcessCommand", mock.Anything, mock.Anything)
	})

	t.Run("Success_CommandDispatches", func(t *testing.T) {
		handler, commandsService := newTeamsHandler("", "")
		commandsService.On("ProcessCommand", mock.Anything, mock.MatchedBy(func(cmd *models.InboundCommand) bool {
			return cmd.Platform == models.PlatformTeams && cmd.Verb == models.VerbBalance
		})).Return(&models.PlatformResponse{
			Text:       "💰 450 points",
			Visibility: models.VisibilityEphemeral,
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/teams/messages", bytes.NewReader(teamsActivity(t, "balance")))
		rec := httptest.NewRecorder()

		handler.HandleMessage(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var activity map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &activity))
		assert.Equal(t, "message", activity["type"])
		assert.Equal(t, "💰 450 points", activity["text"])
		commandsService.AssertExpectations(t)
	})

	t.Run("Success_CardSubmissionRoutesToGiveFlow", func(t *testing.T) {
		handler, commandsService := newTeamsHandler("", "")
		commandsService.On("ProcessGiveSubmission", mock.Anything, mock.MatchedBy(func(sub *models.GiveSubmission) bool {
			return sub.Points == 100 && sub.RecipientID == "jane.smith@xceleration.com"
		})).Return(&models.PlatformResponse{
			Text:       "✅ Recognition submitted!",
			Visibility: models.VisibilityEphemeral,
		}, nil)

		body, err := json.Marshal(map[string]any{
			"type":         "message",
			"from":         map[string]string{"id": "29:user-1"},
			"conversation": map[string]string{"id": "19:thread"},
			"value": map[string]any{
				"action":    "submit_recognition",
				"recipient": "jane.smith@xceleration.com",
				"points":    "100",
				"behaviors": "Teamwork",
				"message":   "Great sprint",
			},
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/teams/messages", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleMessage(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		commandsService.AssertExpectations(t)
		commandsService.AssertNotCalled(t, "ProcessCommand", mock.Anything, mock.Anything)
	})

	t.Run("Success_GiveRendersAdaptiveCard", func(t *testing.T) {
		handler, commandsService := newTeamsHandler("", "")
		commandsService.On("ProcessCommand", mock.Anything, mock.Anything).Return(&models.PlatformResponse{
			Visibility:          models.VisibilityEphemeral,
			OpenRecognitionForm: true,
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/teams/messages", bytes.NewReader(teamsActivity(t, "give")))
		rec := httptest.NewRecorder()

		handler.HandleMessage(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var activity map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &activity))
		attachments, ok := activity["attachments"].([]any)
		require.True(t, ok)
		assert.Len(t, attachments, 1)
	})
}
