package models

// EnhancementContext gives the message enhancer situational detail so the
// rewritten text can reference it
type EnhancementContext struct {
	RecipientName string   `json:"recipient_name,omitempty"`
	Points        int      `json:"points,omitempty"`
	Behaviors     []string `json:"behaviors,omitempty"`
}
