// Package rewardstation is the HTTP client for the real RewardStation API.
// It satisfies the services.RewardsService interface so the gateway can
// swap between it and the in-process mock at startup.
package rewardstation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/samber/mo"

	"github.com/chrisw-xceleration/rewardstation-poc/core"
	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

type RewardStationClient struct {
	httpClient *http.Client
	apiBase    string
	clientID   string
	secret     string
}

func NewRewardStationClient(apiBase, clientID, clientSecret string) *RewardStationClient {
	return &RewardStationClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBase:    apiBase,
		clientID:   clientID,
		secret:     clientSecret,
	}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *RewardStationClient) LookupUserByEmail(
	ctx context.Context,
	email string,
) (mo.Option[*models.RewardsUser], error) {
	var user models.RewardsUser
	err := c.get(ctx, "/api/v1/users?email="+url.QueryEscape(email), &user)
	if err != nil {
		if core.IsNotFoundError(err) {
			return mo.None[*models.RewardsUser](), nil
		}
		return mo.None[*models.RewardsUser](), err
	}
	return mo.Some(&user), nil
}

func (c *RewardStationClient) LookupUserByPlatformID(
	ctx context.Context,
	platform models.Platform,
	platformUserID string,
) (*models.RewardsUser, error) {
	var user models.RewardsUser
	path := fmt.Sprintf("/api/v1/users/by-platform/%s/%s", platform, url.PathEscape(platformUserID))
	if err := c.get(ctx, path, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateRecognition submits a recognition. The request's idempotency key is
// forwarded so the upstream can dedupe; this call is never blindly retried.
func (c *RewardStationClient) CreateRecognition(
	ctx context.Context,
	req *models.RecognitionRequest,
) (*models.Recognition, error) {
	var rec models.Recognition
	headers := map[string]string{}
	if req.IdempotencyKey != "" {
		headers["X-Idempotency-Key"] = req.IdempotencyKey
	}
	if err := c.post(ctx, "/api/v1/recognitions", req, &rec, headers); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *RewardStationClient) GetRecognitionStatus(
	ctx context.Context,
	recognitionID string,
) (mo.Option[*models.Recognition], error) {
	var rec models.Recognition
	err := c.get(ctx, "/api/v1/recognitions/"+url.PathEscape(recognitionID), &rec)
	if err != nil {
		if core.IsNotFoundError(err) {
			return mo.None[*models.Recognition](), nil
		}
		return mo.None[*models.Recognition](), err
	}
	return mo.Some(&rec), nil
}

// GetBalance is an idempotent read, retried once with a short backoff on
// transient failure.
func (c *RewardStationClient) GetBalance(ctx context.Context, employeeID string) (*models.Balance, error) {
	var balance models.Balance
	path := "/api/v1/users/" + url.PathEscape(employeeID) + "/balance"

	err := c.get(ctx, path, &balance)
	if err != nil && !core.IsNotFoundError(err) {
		log.Printf("⚠️ Balance lookup failed, retrying once: %v", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
		err = c.get(ctx, path, &balance)
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (c *RewardStationClient) GetBehaviorAttributes(ctx context.Context) ([]string, error) {
	var attributes []string
	if err := c.get(ctx, "/api/v1/behaviors", &attributes); err != nil {
		return nil, err
	}
	return attributes, nil
}

func (c *RewardStationClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *RewardStationClient) post(
	ctx context.Context,
	path string,
	body, out any,
	headers map[string]string,
) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.do(req, out)
}

func (c *RewardStationClient) do(req *http.Request, out any) error {
	req.SetBasicAuth(c.clientID, c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return core.ErrNotFound
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", core.ErrUpstreamUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("rewardstation request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !envelope.Success {
		return fmt.Errorf("%w: %s", core.ErrUpstreamUnavailable, envelope.Error)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
