package models

import "time"

// WorkflowStatus is the lifecycle state of an orchestrator run
type WorkflowStatus string

const (
	WorkflowStatusStarted   WorkflowStatus = "started"
	WorkflowStatusCompleted WorkflowStatus = "completed"
	WorkflowStatusUnknown   WorkflowStatus = "unknown"
)

// WorkflowRun tracks one recognition-approval workflow execution
type WorkflowRun struct {
	ID                  string         `json:"workflow_id"`
	Status              WorkflowStatus `json:"status"`
	RecognitionID       string         `json:"recognition_id,omitempty"`
	ApprovalRequired    bool           `json:"approval_required"`
	EstimatedCompletion time.Time      `json:"estimated_completion,omitempty"`
	Progress            int            `json:"progress"`
}
