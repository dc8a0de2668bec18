// Package adapters unifies the platform-specific webhook shapes behind a
// single interface. The dispatcher only ever sees the platform-neutral
// models.InboundCommand; everything Slack- or Teams-shaped lives here.
package adapters

import (
	"net/http"
	"strings"

	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

// ChatPlatformAdapter is implemented once per chat platform
type ChatPlatformAdapter interface {
	Platform() models.Platform

	// VerifySignature authenticates a webhook delivery from the raw request
	// body, before any decoding. A nil error means the request is trusted.
	VerifySignature(header http.Header, rawBody []byte) error

	// ParseInbound extracts a structured command from the platform payload
	ParseInbound(rawBody []byte) (*models.InboundCommand, error)

	// FormatResponse renders a platform-neutral response into the wire
	// payload and its content type
	FormatResponse(resp *models.PlatformResponse) ([]byte, string)
}

// parseVerb resolves a command token case-insensitively. An empty token
// maps to help, matching the legacy combined-command behavior.
func parseVerb(token string) (models.Verb, bool) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(token), "/")) {
	case "", "help":
		return models.VerbHelp, true
	case "thanks":
		return models.VerbThanks, true
	case "give":
		return models.VerbGive, true
	case "balance":
		return models.VerbBalance, true
	default:
		return "", false
	}
}
