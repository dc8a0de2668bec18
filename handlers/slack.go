package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/slack-go/slack"

	"github.com/chrisw-xceleration/rewardstation-poc/adapters"
	"github.com/chrisw-xceleration/rewardstation-poc/clients"
	slackclient "github.com/chrisw-xceleration/rewardstation-poc/clients/slack"
	"github.com/chrisw-xceleration/rewardstation-poc/models"
	"github.com/chrisw-xceleration/rewardstation-poc/services"
	"github.com/chrisw-xceleration/rewardstation-poc/services/commands"
)

// sideTaskTimeout bounds follow-up work that runs after the webhook has
// been acknowledged
const sideTaskTimeout = 10 * time.Second

type SlackWebhooksHandler struct {
	adapter              *adapters.SlackAdapter
	commandsService      services.CommandsService
	rewardsService       services.RewardsService
	notificationsService services.NotificationsService
	slackClient          clients.SlackClient
}

// NewSlackWebhooksHandler builds the handler. A nil Slack client means no
// bot token is configured; the give flow then degrades to usage text
// instead of opening a modal.
func NewSlackWebhooksHandler(
	adapter *adapters.SlackAdapter,
	commandsService services.CommandsService,
	rewardsService services.RewardsService,
	notificationsService services.NotificationsService,
	slackClient clients.SlackClient,
) *SlackWebhooksHandler {
	return &SlackWebhooksHandler{
		adapter:              adapter,
		commandsService:      commandsService,
		rewardsService:       rewardsService,
		notificationsService: notificationsService,
		slackClient:          slackClient,
	}
}

// HandleSlashCommand processes slash command webhooks. The raw body is
// read before any parsing so signature verification covers the exact
// bytes Slack signed.
func (h *SlackWebhooksHandler) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Slack slash command received from %s", r.RemoteAddr)

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := h.adapter.VerifySignature(r.Header, bodyBytes); err != nil {
		log.Printf("❌ Slack signature verification failed: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	cmd, err := h.adapter.ParseInbound(bodyBytes)
	if err != nil {
		log.Printf("⚠️ Slash command parse failed: %v", err)
		h.writeResponse(w, commands.ErrorResponse(err))
		return
	}

	resp, err := h.commandsService.ProcessCommand(r.Context(), cmd)
	if err != nil {
		log.Printf("❌ Command dispatch failed: %v", err)
		h.writeResponse(w, commands.UpstreamErrorResponse())
		return
	}

	if resp.OpenRecognitionForm {
		h.openRecognitionForm(w, r.Context(), cmd)
		return
	}

	h.writeResponse(w, resp)
}

// openRecognitionForm opens the give modal when a bot token is available.
// Without one there is no trigger-based modal API access, so the requester
// gets usage guidance instead.
func (h *SlackWebhooksHandler) openRecognitionForm(
	w http.ResponseWriter,
	ctx context.Context,
	cmd *models.InboundCommand,
) {
	if h.slackClient == nil || cmd.TriggerID == "" {
		h.writeResponse(w, &models.PlatformResponse{
			Text: "🌟 To give recognition, use the full form:\n" +
				"`/rewardstation give @user` with a bot token configured,\n" +
				"or send a quick `/thanks @user \"message\"` instead.",
			Visibility: models.VisibilityEphemeral,
		})
		return
	}

	behaviors, err := h.rewardsService.GetBehaviorAttributes(ctx)
	if err != nil {
		log.Printf("⚠️ Failed to load behavior attributes, using empty list: %v", err)
		behaviors = nil
	}

	if err := h.slackClient.OpenRecognitionModal(ctx, cmd.TriggerID, cmd.ChannelID, behaviors); err != nil {
		log.Printf("❌ Failed to open recognition modal: %v", err)
		h.writeResponse(w, commands.UpstreamErrorResponse())
		return
	}

	// An empty 200 acknowledges the command without posting any text
	w.WriteHeader(http.StatusOK)
}

// HandleInteractivity processes modal submissions and block actions.
// Interactive payloads arrive form-encoded with the JSON under "payload".
func (h *SlackWebhooksHandler) HandleInteractivity(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Slack interactivity payload received from %s", r.RemoteAddr)

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := h.adapter.VerifySignature(r.Header, bodyBytes); err != nil {
		log.Printf("❌ Slack signature verification failed: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	values, err := url.ParseQuery(string(bodyBytes))
	if err != nil {
		log.Printf("❌ Failed to parse interactivity form: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(values.Get("payload")), &callback); err != nil {
		log.Printf("❌ Failed to parse interaction payload: %v", err)
		http.Error(w, "failed to parse payload", http.StatusBadRequest)
		return
	}

	switch callback.Type {
	case slack.InteractionTypeViewSubmission:
		if callback.View.CallbackID == slackclient.RecognitionModalCallbackID {
			h.handleModalSubmission(w, &callback)
			return
		}
		log.Printf("📋 Ignoring view submission with callback ID %q", callback.View.CallbackID)
		w.WriteHeader(http.StatusOK)
	case slack.InteractionTypeBlockActions:
		h.handleBlockActions(&callback)
		w.WriteHeader(http.StatusOK)
	default:
		log.Printf("📋 Ignoring interaction type %q", callback.Type)
		w.WriteHeader(http.StatusOK)
	}
}

// handleModalSubmission completes the give flow from modal state. The
// modal closes immediately; the outcome reaches the submitter as an
// ephemeral message once processing finishes.
func (h *SlackWebhooksHandler) handleModalSubmission(w http.ResponseWriter, callback *slack.InteractionCallback) {
	sub := giveSubmissionFromView(callback)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideTaskTimeout)
		defer cancel()

		h.resolveRecipientEmail(ctx, sub)

		resp, err := h.commandsService.ProcessGiveSubmission(ctx, sub)
		if err != nil {
			log.Printf("❌ Give submission processing failed: %v", err)
			resp = commands.UpstreamErrorResponse()
		}
		h.notifySubmitter(ctx, sub, resp.Text)
	}()

	// response_action clear closes the whole modal stack
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(`{"response_action":"clear"}`)); err != nil {
		log.Printf("❌ Failed to write view submission response: %v", err)
	}
}

// handleBlockActions reacts to in-modal button presses. The enhance button
// sends the AI-suggested wording back as an ephemeral message.
func (h *SlackWebhooksHandler) handleBlockActions(callback *slack.InteractionCallback) {
	for _, action := range callback.ActionCallback.BlockActions {
		if action.ActionID != slackclient.EnhanceMessageActionID {
			continue
		}

		sub := giveSubmissionFromView(callback)
		if sub.Message == "" {
			log.Printf("📋 Enhance requested with empty message, nothing to do")
			continue
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), sideTaskTimeout)
			defer cancel()

			enhanced := h.commandsService.EnhanceMessage(ctx, sub.Message, sub.Points, sub.Behaviors)
			h.notifySubmitter(ctx, sub, "✨ Suggested wording:\n\n"+enhanced)
		}()
	}
}

// resolveRecipientEmail swaps the user-select's platform ID for the
// recipient's workspace email so the submission maps onto their existing
// rewards account rather than a freshly provisioned platform-ID user. Kept
// best-effort: without a profile email the platform ID still resolves.
func (h *SlackWebhooksHandler) resolveRecipientEmail(ctx context.Context, sub *models.GiveSubmission) {
	if h.slackClient == nil || sub.RecipientID == "" {
		return
	}
	email, err := h.slackClient.GetUserEmail(ctx, sub.RecipientID)
	if err != nil {
		log.Printf("⚠️ Could not resolve email for %s, keeping platform ID: %v", sub.RecipientID, err)
		return
	}
	sub.RecipientID = email
}

func (h *SlackWebhooksHandler) notifySubmitter(ctx context.Context, sub *models.GiveSubmission, text string) {
	channelID := sub.ChannelID
	if channelID == "" {
		channelID = sub.ActorID
	}
	if err := h.notificationsService.PostEphemeralMessage(ctx, models.PlatformSlack, channelID, sub.ActorID, text); err != nil {
		log.Printf("⚠️ Failed to notify submitter: %v", err)
	}
}

// giveSubmissionFromView reads the recognition form state out of an
// interaction callback
func giveSubmissionFromView(callback *slack.InteractionCallback) *models.GiveSubmission {
	state := callback.View.State
	sub := &models.GiveSubmission{
		Platform:  models.PlatformSlack,
		ActorID:   callback.User.ID,
		ChannelID: callback.View.PrivateMetadata,
	}
	if state == nil {
		return sub
	}

	if block, ok := state.Values[slackclient.RecipientBlockID]; ok {
		sub.RecipientID = block[slackclient.RecipientActionID].SelectedUser
	}
	if block, ok := state.Values[slackclient.PointsBlockID]; ok {
		if value := block[slackclient.PointsActionID].SelectedOption.Value; value != "" {
			if points, err := strconv.Atoi(value); err == nil {
				sub.Points = points
			}
		}
	}
	if block, ok := state.Values[slackclient.BehaviorBlockID]; ok {
		for _, opt := range block[slackclient.BehaviorActionID].SelectedOptions {
			sub.Behaviors = append(sub.Behaviors, opt.Value)
		}
	}
	if block, ok := state.Values[slackclient.MessageBlockID]; ok {
		sub.Message = block[slackclient.MessageActionID].Value
	}
	return sub
}

// HandleEventCallback answers the Events API: the URL verification
// handshake plus acknowledgment of event deliveries
func (h *SlackWebhooksHandler) HandleEventCallback(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Slack event received from %s", r.RemoteAddr)

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := h.adapter.VerifySignature(r.Header, bodyBytes); err != nil {
		log.Printf("❌ Slack signature verification failed: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body map[string]any
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		log.Printf("❌ Failed to parse JSON body: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	if body["type"] == "url_verification" {
		log.Printf("🔐 Slack URL verification challenge received")
		challenge, ok := body["challenge"].(string)
		if !ok {
			log.Printf("❌ Challenge not found in verification request")
			http.Error(w, "challenge not found", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write([]byte(challenge)); err != nil {
			log.Printf("❌ Failed to write challenge response: %v", err)
		}
		return
	}

	log.Printf("📋 Acknowledging Slack event of type %v", body["type"])
	w.WriteHeader(http.StatusOK)
}

func (h *SlackWebhooksHandler) writeResponse(w http.ResponseWriter, resp *models.PlatformResponse) {
	body, contentType := h.adapter.FormatResponse(resp)
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(body); err != nil {
		log.Printf("❌ Failed to write response: %v", err)
	}
}

func (h *SlackWebhooksHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Slack webhook endpoints")

	router.HandleFunc("/slack/commands", h.HandleSlashCommand).Methods("POST")
	log.Printf("✅ POST /slack/commands endpoint registered")

	router.HandleFunc("/slack/interactivity", h.HandleInteractivity).Methods("POST")
	log.Printf("✅ POST /slack/interactivity endpoint registered")

	router.HandleFunc("/slack/events", h.HandleEventCallback).Methods("POST")
	log.Printf("✅ POST /slack/events endpoint registered")
}
