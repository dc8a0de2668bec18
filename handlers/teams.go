package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chrisw-xceleration/rewardstation-poc/adapters"
	"github.com/chrisw-xceleration/rewardstation-poc/models"
	"github.com/chrisw-xceleration/rewardstation-poc/services"
	"github.com/chrisw-xceleration/rewardstation-poc/services/commands"
)

type TeamsWebhooksHandler struct {
	adapter         *adapters.TeamsAdapter
	commandsService services.CommandsService
}

func NewTeamsWebhooksHandler(
	adapter *adapters.TeamsAdapter,
	commandsService services.CommandsService,
) *TeamsWebhooksHandler {
	return &TeamsWebhooksHandler{
		adapter:         adapter,
		commandsService: commandsService,
	}
}

// HandleMessage processes Bot Framework activities: text commands and
// Adaptive Card submissions both arrive as message activities.
func (h *TeamsWebhooksHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Teams activity received from %s", r.RemoteAddr)

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := h.adapter.VerifySignature(r.Header, bodyBytes); err != nil {
		log.Printf("❌ Teams authorization check failed: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	// Card submissions take priority: they carry a value payload instead
	// of command text
	sub, err := h.adapter.ParseGiveSubmission(bodyBytes)
	if err != nil {
		log.Printf("⚠️ Card submission parse failed: %v", err)
		h.writeResponse(w, commands.ErrorResponse(err))
		return
	}
	if sub != nil {
		resp, err := h.commandsService.ProcessGiveSubmission(r.Context(), sub)
		if err != nil {
			log.Printf("❌ Give submission processing failed: %v", err)
			resp = commands.UpstreamErrorResponse()
		}
		h.writeResponse(w, resp)
		return
	}

	cmd, err := h.adapter.ParseInbound(bodyBytes)
	if err != nil {
		log.Printf("⚠️ Teams command parse failed: %v", err)
		h.writeResponse(w, commands.ErrorResponse(err))
		return
	}

	resp, err := h.commandsService.ProcessCommand(r.Context(), cmd)
	if err != nil {
		log.Printf("❌ Command dispatch failed: %v", err)
		h.writeResponse(w, commands.UpstreamErrorResponse())
		return
	}

	h.writeResponse(w, resp)
}

func (h *TeamsWebhooksHandler) writeResponse(w http.ResponseWriter, resp *models.PlatformResponse) {
	body, contentType := h.adapter.FormatResponse(resp)
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(body); err != nil {
		log.Printf("❌ Failed to write response: %v", err)
	}
}

func (h *TeamsWebhooksHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Teams webhook endpoints")

	router.HandleFunc("/teams/messages", h.HandleMessage).Methods("POST")
	log.Printf("✅ POST /teams/messages endpoint registered")
}
