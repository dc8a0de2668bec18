// Package securitylog emits structured security and audit events.
// Entries carry event kinds and masked identifiers only - never signing
// secrets, signatures, or message content.
package securitylog

import (
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

// EventKind classifies a security event
type EventKind string

const (
	EventSignatureInvalid     EventKind = "signature_invalid"
	EventSignatureMissing     EventKind = "signature_missing"
	EventTimestampOutOfWindow EventKind = "timestamp_out_of_window"
	EventVerificationBypassed EventKind = "verification_bypassed"
	EventAuthMissing          EventKind = "auth_missing"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Level:           log.InfoLevel,
	ReportTimestamp: true,
	TimeFormat:      time.RFC3339,
	Prefix:          "security",
})

// SecurityEvent logs a webhook authentication event. The remote address is
// recorded as-is; any user identifier must already be masked by the caller
// or passed through MaskID.
func SecurityEvent(kind EventKind, platform models.Platform, keyvals ...any) {
	kv := append([]any{"event_type", "security_event", "security_event", string(kind), "platform", string(platform)}, keyvals...)
	logger.Warn("webhook security event", kv...)
}

// VerificationBypassed records the explicit mock-mode state in which
// signature verification is disabled. Logged at startup and per request so
// a bypassed request is never indistinguishable from a verified one.
func VerificationBypassed(platform models.Platform) {
	SecurityEvent(EventVerificationBypassed, platform, "mock_mode", true)
}

// CommandProcessed writes a command audit entry. Message content is never
// logged, only its length.
func CommandProcessed(platform models.Platform, verb models.Verb, userID string, success bool, processingTime time.Duration) {
	logger.Info("command processed",
		"event_type", "command_log",
		"platform", string(platform),
		"command", string(verb),
		"user_id", MaskID(userID),
		"success", success,
		"processing_ms", processingTime.Milliseconds(),
	)
}

// RecognitionCreated writes a recognition audit entry
func RecognitionCreated(rec *models.Recognition) {
	logger.Info("recognition created",
		"event_type", "recognition_created",
		"recognition_id", rec.ID,
		"nominator_id", MaskID(rec.NominatorEmployeeID),
		"recipient_id", MaskID(rec.RecipientEmployeeID),
		"kind", string(rec.Kind),
		"points", rec.Points,
		"behaviors", len(rec.BehaviorAttributes),
		"platform", string(rec.SourcePlatform),
		"approval_required", rec.ApprovalRequired,
		"message_length", len(rec.Message),
	)
}

// MaskID keeps the last four characters of an identifier and masks the rest
func MaskID(id string) string {
	if len(id) <= 4 {
		return "****"
	}
	return "****" + id[len(id)-4:]
}
