package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/chrisw-xceleration/rewardstation-poc/adapters"
	"github.com/chrisw-xceleration/rewardstation-poc/clients"
	anthropicclient "github.com/chrisw-xceleration/rewardstation-poc/clients/anthropic"
	"github.com/chrisw-xceleration/rewardstation-poc/clients/rewardstation"
	slackclient "github.com/chrisw-xceleration/rewardstation-poc/clients/slack"
	workflowclient "github.com/chrisw-xceleration/rewardstation-poc/clients/workflow"
	"github.com/chrisw-xceleration/rewardstation-poc/config"
	"github.com/chrisw-xceleration/rewardstation-poc/db"
	"github.com/chrisw-xceleration/rewardstation-poc/handlers"
	"github.com/chrisw-xceleration/rewardstation-poc/middleware"
	"github.com/chrisw-xceleration/rewardstation-poc/services"
	"github.com/chrisw-xceleration/rewardstation-poc/services/commands"
	"github.com/chrisw-xceleration/rewardstation-poc/services/enhancement"
	"github.com/chrisw-xceleration/rewardstation-poc/services/notifications"
	"github.com/chrisw-xceleration/rewardstation-poc/services/rewards"
	"github.com/chrisw-xceleration/rewardstation-poc/services/workflow"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackConfig.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "rewardstation-poc",
	})

	rewardsService, cleanup, err := buildRewardsService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var slackAPIClient clients.SlackClient
	if cfg.SlackConfig.BotToken != "" {
		slackAPIClient = slackclient.NewSlackClient(cfg.SlackConfig.BotToken)
	}

	var anthropicAPIClient clients.AnthropicClient
	if cfg.AnthropicConfig.IsConfigured() {
		anthropicAPIClient = anthropicclient.NewAnthropicClient(cfg.AnthropicConfig.APIKey, cfg.AnthropicConfig.Model)
	}

	var orchestratorClient clients.WorkflowClient
	if cfg.WorkflowConfig.IsConfigured() {
		orchestratorClient = workflowclient.NewWorkflowClient(cfg.WorkflowConfig.BaseURL)
	}

	enhancementService := enhancement.NewEnhancementService(anthropicAPIClient)
	workflowService := workflow.NewWorkflowService(orchestratorClient, cfg.WorkflowConfig.IsConfigured())
	notificationsService := notifications.NewNotificationsService(slackAPIClient)
	commandsService := commands.NewCommandsService(
		rewardsService,
		enhancementService,
		workflowService,
		notificationsService,
		alertMiddleware,
	)

	slackAdapter := adapters.NewSlackAdapter(cfg.SlackConfig.SigningSecret)
	teamsAdapter := adapters.NewTeamsAdapter(cfg.TeamsConfig.AppID, cfg.TeamsConfig.AppPassword)

	slackHandler := handlers.NewSlackWebhooksHandler(slackAdapter, commandsService, rewardsService, notificationsService, slackAPIClient)
	teamsHandler := handlers.NewTeamsWebhooksHandler(teamsAdapter, commandsService)

	router := mux.NewRouter()
	slackHandler.SetupEndpoints(router)
	teamsHandler.SetupEndpoints(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

// buildRewardsService picks the upstream: the real RewardStation HTTP
// client when mocks are disabled, otherwise the repository-backed mock
// (Postgres when DB_URL is set, in-memory otherwise)
func buildRewardsService(cfg *config.AppConfig) (services.RewardsService, func(), error) {
	noop := func() {}

	if !cfg.EnableMocks {
		log.Printf("🔌 Using RewardStation API at %s", cfg.RewardStationConfig.APIBase)
		client := rewardstation.NewRewardStationClient(
			cfg.RewardStationConfig.APIBase,
			cfg.RewardStationConfig.ClientID,
			cfg.RewardStationConfig.ClientSecret,
		)
		return client, noop, nil
	}

	if cfg.DatabaseURL != "" {
		log.Printf("🎭 Using Postgres-backed mock rewards store")
		dbConn, err := db.NewConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
		recognitionsRepo := db.NewPostgresRecognitionsRepository(dbConn, cfg.DatabaseSchema)
		svc, err := rewards.NewMockRewardsService(usersRepo, recognitionsRepo)
		if err != nil {
			dbConn.Close()
			return nil, noop, err
		}
		return svc, func() { dbConn.Close() }, nil
	}

	log.Printf("🎭 Using in-memory mock rewards store")
	memRepo := db.NewMemoryRewardsRepository()
	svc, err := rewards.NewMockRewardsService(memRepo, memRepo)
	if err != nil {
		return nil, noop, err
	}
	return svc, noop, nil
}

func handleGracefulShutdown(server *http.Server) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	log.Printf("✅ Server shut down cleanly")
	return nil
}
