package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecognitionKind distinguishes quick thanks from points-based recognition
type RecognitionKind string

const (
	RecognitionKindThanks RecognitionKind = "thanks"
	RecognitionKindPoints RecognitionKind = "points"
)

// ThanksPoints is the fixed award attached to every thanks recognition
const ThanksPoints = 25

// RecognitionMetadata travels with a recognition for audit purposes
type RecognitionMetadata struct {
	OriginalCommand string `json:"original_command"`
	AIEnhanced      bool   `json:"ai_enhanced"`
	Timestamp       string `json:"timestamp"`
}

// RecognitionRequest is the payload handed to the rewards platform.
// Ownership passes to the rewards service; it is never mutated after
// creation.
type RecognitionRequest struct {
	NominatorEmployeeID string              `json:"nominator_employee_id"`
	RecipientEmployeeID string              `json:"recipient_employee_id"`
	Kind                RecognitionKind     `json:"recognition_type"`
	Points              int                 `json:"points,omitempty"`
	Message             string              `json:"message"`
	BehaviorAttributes  []string            `json:"behavior_attributes"`
	SourcePlatform      Platform            `json:"source_platform"`
	SourceChannelID     string              `json:"source_channel_id"`
	IdempotencyKey      string              `json:"idempotency_key,omitempty"`
	Metadata            RecognitionMetadata `json:"metadata"`
}

// RecognitionStatus is the upstream delivery state of a recognition
type RecognitionStatus string

const (
	RecognitionStatusDelivered RecognitionStatus = "delivered"
	RecognitionStatusSubmitted RecognitionStatus = "submitted"
)

// Recognition is a recognition record as owned by the rewards platform
type Recognition struct {
	ID                  string            `db:"id"                    json:"recognition_id"`
	NominatorEmployeeID string            `db:"nominator_employee_id" json:"nominator_employee_id"`
	RecipientEmployeeID string            `db:"recipient_employee_id" json:"recipient_employee_id"`
	Kind                RecognitionKind   `db:"recognition_type"      json:"recognition_type"`
	Points              int               `db:"points"                json:"points"`
	Message             string            `db:"message"               json:"message"`
	BehaviorAttributes  []string          `db:"-"                     json:"behavior_attributes"`
	SourcePlatform      Platform          `db:"source_platform"       json:"source_platform"`
	SourceChannelID     string            `db:"source_channel_id"     json:"source_channel_id"`
	Status              RecognitionStatus `db:"status"                json:"status"`
	ApprovalRequired    bool              `db:"approval_required"     json:"approval_required"`
	ApprovalURL         string            `db:"approval_url"          json:"approval_url,omitempty"`
	IdempotencyKey      string            `db:"idempotency_key"       json:"-"`
	CreatedAt           time.Time         `db:"created_at"            json:"created_at"`
}

// RewardsUser is an employee record in the rewards platform
type RewardsUser struct {
	EmployeeID     string   `db:"employee_id"      json:"employee_id"`
	Email          string   `db:"email"            json:"email"`
	Name           string   `db:"name"             json:"name"`
	Platform       Platform `db:"platform"         json:"platform"`
	PlatformUserID string   `db:"platform_user_id" json:"platform_user_id"`
}

// Balance is a user's current point balance plus its redemption value
type Balance struct {
	EmployeeID string          `json:"employee_id"`
	Points     int             `json:"balance"`
	ValueUSD   decimal.Decimal `json:"value_usd"`
}
