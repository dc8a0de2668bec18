package models

// Platform identifies the chat platform a webhook originated from
type Platform string

const (
	PlatformSlack Platform = "slack"
	PlatformTeams Platform = "teams"
)

// Verb is a recognized gateway command
type Verb string

const (
	VerbHelp    Verb = "help"
	VerbThanks  Verb = "thanks"
	VerbGive    Verb = "give"
	VerbBalance Verb = "balance"
)

// KnownVerbs lists every verb the dispatcher accepts, in help-text order
var KnownVerbs = []Verb{VerbHelp, VerbThanks, VerbGive, VerbBalance}

// InboundCommand is the platform-neutral form of a parsed slash command.
// It is constructed once per request and never mutated after parsing.
type InboundCommand struct {
	Platform        Platform `json:"platform"`
	Verb            Verb     `json:"verb"`
	ActorID         string   `json:"actor_id"`
	TargetMention   string   `json:"target_mention,omitempty"`
	FreeText        string   `json:"free_text"`
	ChannelID       string   `json:"channel_id"`
	ResponseURL     string   `json:"response_url,omitempty"`
	TriggerID       string   `json:"trigger_id,omitempty"`
	OriginalCommand string   `json:"original_command"`
}

// ResponseVisibility controls who sees a command response
type ResponseVisibility string

const (
	VisibilityEphemeral ResponseVisibility = "ephemeral"
	VisibilityChannel   ResponseVisibility = "in_channel"
)

// SuggestedAction is a follow-up command offered alongside a response
type SuggestedAction struct {
	Text    string `json:"text"`
	Command string `json:"command"`
}

// PlatformResponse is the dispatcher's platform-neutral reply. Adapters
// translate it into Block Kit / Adaptive Card payloads.
type PlatformResponse struct {
	Text             string             `json:"text"`
	Visibility       ResponseVisibility `json:"visibility"`
	SuggestedActions []SuggestedAction  `json:"suggested_actions,omitempty"`
	// OpenRecognitionForm signals the origin platform should present the
	// interactive give form instead of a plain text reply.
	OpenRecognitionForm bool `json:"open_recognition_form,omitempty"`
}

// GiveSubmission is the payload of a completed give form (Slack modal or
// Teams card submit)
type GiveSubmission struct {
	Platform    Platform `json:"platform"`
	ActorID     string   `json:"actor_id"`
	RecipientID string   `json:"recipient_id"`
	Points      int      `json:"points"`
	Behaviors   []string `json:"behaviors"`
	Message     string   `json:"message"`
	ChannelID   string   `json:"channel_id"`
	AIEnhanced  bool     `json:"ai_enhanced"`
}
