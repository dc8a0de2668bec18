// Package workflow is the HTTP client for the external workflow
// orchestrator that runs recognition approval processes.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/chrisw-xceleration/rewardstation-poc/clients"
	"github.com/chrisw-xceleration/rewardstation-poc/core"
	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

type WorkflowHTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewWorkflowClient(baseURL string) clients.WorkflowClient {
	return &WorkflowHTTPClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
	}
}

func (c *WorkflowHTTPClient) RunRecognitionWorkflow(
	ctx context.Context,
	rec *models.Recognition,
) (*models.WorkflowRun, error) {
	jsonBody, err := json.Marshal(map[string]any{"recognitionData": rec})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal workflow request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/workflows/recognition-approval/runs",
		bytes.NewBuffer(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *WorkflowHTTPClient) GetWorkflowRun(
	ctx context.Context,
	workflowID string,
) (*models.WorkflowRun, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/workflows/runs/"+url.PathEscape(workflowID),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req)
}

func (c *WorkflowHTTPClient) do(req *http.Request) (*models.WorkflowRun, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, core.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: status %d", core.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var run models.WorkflowRun
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		return nil, fmt.Errorf("failed to decode workflow run: %w", err)
	}
	return &run, nil
}
