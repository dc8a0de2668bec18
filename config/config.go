package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type SlackConfig struct {
	SigningSecret   string
	BotToken        string
	AlertWebhookURL string
}

// IsConfigured returns true if all required Slack configuration is present
func (c SlackConfig) IsConfigured() bool {
	return c.SigningSecret != "" && c.BotToken != ""
	// Note: AlertWebhookURL is optional
}

type TeamsConfig struct {
	AppID       string
	AppPassword string
}

// IsConfigured returns true if all required Teams configuration is present
func (c TeamsConfig) IsConfigured() bool {
	return c.AppID != "" && c.AppPassword != ""
}

type RewardStationConfig struct {
	APIBase      string
	ClientID     string
	ClientSecret string
}

// IsConfigured returns true if all required RewardStation configuration is present
func (c RewardStationConfig) IsConfigured() bool {
	return c.APIBase != "" && c.ClientID != "" && c.ClientSecret != ""
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// IsConfigured returns true if the Anthropic API key is present
func (c AnthropicConfig) IsConfigured() bool {
	return c.APIKey != ""
}

type WorkflowConfig struct {
	Enabled bool
	BaseURL string
}

// IsConfigured returns true if the orchestrator is enabled and reachable by URL
func (c WorkflowConfig) IsConfigured() bool {
	return c.Enabled && c.BaseURL != ""
}

type AppConfig struct {
	// Core configuration
	Port               string
	Environment        string
	CORSAllowedOrigins string
	// EnableMocks switches the rewards upstream to the in-process mock and
	// bypasses signature verification where no secret is configured
	EnableMocks bool

	// Optional Postgres backing for the mock rewards store; when empty the
	// mock store is in-memory
	DatabaseURL    string
	DatabaseSchema string

	SlackConfig         SlackConfig
	TeamsConfig         TeamsConfig
	RewardStationConfig RewardStationConfig
	AnthropicConfig     AnthropicConfig
	WorkflowConfig      WorkflowConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	config := &AppConfig{
		Port:               getEnvWithDefault("PORT", "3000"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "development"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		EnableMocks:        getEnvWithDefault("ENABLE_MOCKS", "true") == "true",
		DatabaseURL:        os.Getenv("DB_URL"),
		DatabaseSchema:     getEnvWithDefault("DB_SCHEMA", "public"),

		SlackConfig: SlackConfig{
			SigningSecret:   os.Getenv("SLACK_SIGNING_SECRET"),
			BotToken:        os.Getenv("SLACK_BOT_TOKEN"),
			AlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		},

		TeamsConfig: TeamsConfig{
			AppID:       os.Getenv("TEAMS_APP_ID"),
			AppPassword: os.Getenv("TEAMS_APP_PASSWORD"),
		},

		RewardStationConfig: RewardStationConfig{
			APIBase:      os.Getenv("REWARDSTATION_API_BASE"),
			ClientID:     os.Getenv("REWARDSTATION_CLIENT_ID"),
			ClientSecret: os.Getenv("REWARDSTATION_CLIENT_SECRET"),
		},

		AnthropicConfig: AnthropicConfig{
			APIKey: os.Getenv("CLAUDE_API_KEY"),
			Model:  getEnvWithDefault("CLAUDE_MODEL", "claude-3-5-sonnet-20241022"),
		},

		WorkflowConfig: WorkflowConfig{
			Enabled: getEnvWithDefault("WORKFLOW_ENABLED", "false") == "true",
			BaseURL: os.Getenv("WORKFLOW_SERVICE_URL"),
		},
	}

	if !config.EnableMocks && !config.RewardStationConfig.IsConfigured() {
		return nil, fmt.Errorf("rewardstation API is not configured and mocks are disabled (ENABLE_MOCKS=false)")
	}

	// Log which integrations are configured
	if config.SlackConfig.IsConfigured() {
		log.Printf("✅ Slack integration configured")
	} else {
		log.Printf("⚠️ Slack integration not configured - signature verification will run in mock mode")
	}

	if config.TeamsConfig.IsConfigured() {
		log.Printf("✅ Teams integration configured")
	} else {
		log.Printf("⚠️ Teams integration not configured - Teams auth will run in mock mode")
	}

	if config.AnthropicConfig.IsConfigured() {
		log.Printf("✅ AI enhancement configured")
	} else {
		log.Printf("⚠️ AI enhancement not configured - falling back to canned enhancement")
	}

	if config.WorkflowConfig.IsConfigured() {
		log.Printf("✅ Workflow orchestrator configured")
	} else {
		log.Printf("⚠️ Workflow orchestrator disabled or unavailable - using mock workflows")
	}

	return config, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
