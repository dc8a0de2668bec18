// Package commands routes parsed commands to their handlers and owns the
// recognition flow: upstream submission, celebration messages, approval
// workflow dispatch.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chrisw-xceleration/rewardstation-poc/core"
	"github.com/chrisw-xceleration/rewardstation-poc/middleware"
	"github.com/chrisw-xceleration/rewardstation-poc/models"
	"github.com/chrisw-xceleration/rewardstation-poc/securitylog"
	"github.com/chrisw-xceleration/rewardstation-poc/services"
	"github.com/chrisw-xceleration/rewardstation-poc/utils"
)

const (
	// helpTimeout bounds the best-effort AI help call so the synchronous
	// response never misses the platform's acknowledgment window
	helpTimeout = 2 * time.Second

	// detachedTaskTimeout bounds fire-and-forget side calls
	detachedTaskTimeout = 10 * time.Second
)

type CommandsService struct {
	rewardsService       services.RewardsService
	enhancementService   services.EnhancementService
	workflowService      services.WorkflowService
	notificationsService services.NotificationsService
	alerter              *middleware.ErrorAlertMiddleware
}

// NewCommandsService builds the dispatcher. A nil alerter means detached
// tasks log failures without panic recovery or alerting.
func NewCommandsService(
	rewardsService services.RewardsService,
	enhancementService services.EnhancementService,
	workflowService services.WorkflowService,
	notificationsService services.NotificationsService,
	alerter *middleware.ErrorAlertMiddleware,
) *CommandsService {
	return &CommandsService{
		rewardsService:       rewardsService,
		enhancementService:   enhancementService,
		workflowService:      workflowService,
		notificationsService: notificationsService,
		alerter:              alerter,
	}
}

// ProcessCommand routes an inbound command to its verb handler and returns
// the synchronous response for the invoking user
func (s *CommandsService) ProcessCommand(
	ctx context.Context,
	cmd *models.InboundCommand,
) (*models.PlatformResponse, error) {
	log.Printf("📋 Processing %s command from %s", cmd.Verb, securitylog.MaskID(cmd.ActorID))
	started := time.Now()

	var resp *models.PlatformResponse
	var err error
	switch cmd.Verb {
	case models.VerbHelp:
		resp, err = s.handleHelp(ctx, cmd)
	case models.VerbThanks:
		resp, err = s.handleThanks(ctx, cmd)
	case models.VerbGive:
		resp, err = s.handleGive(ctx, cmd)
	case models.VerbBalance:
		resp, err = s.handleBalance(ctx, cmd)
	default:
		resp = UnknownVerbResponse(string(cmd.Verb))
	}

	securitylog.CommandProcessed(cmd.Platform, cmd.Verb, cmd.ActorID, err == nil, time.Since(started))
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// handleHelp answers with contextual guidance. The AI help generator is
// best-effort; on any failure the fixed help text goes out instead.
func (s *CommandsService) handleHelp(
	ctx context.Context,
	cmd *models.InboundCommand,
) (*models.PlatformResponse, error) {
	topic, _ := splitFirstToken(cmd.FreeText)

	helpCtx, cancel := context.WithTimeout(ctx, helpTimeout)
	defer cancel()

	resp, err := s.enhancementService.GenerateHelp(helpCtx, cmd.Platform, strings.ToLower(topic))
	if err != nil {
		log.Printf("⚠️ Help generation failed, using fixed fallback: %v", err)
		return fallbackHelpResponse(), nil
	}
	return resp, nil
}

// handleThanks submits a fixed-point thanks recognition, then celebrates
// publicly and notifies the recipient as detached best-effort tasks
func (s *CommandsService) handleThanks(
	ctx context.Context,
	cmd *models.InboundCommand,
) (*models.PlatformResponse, error) {
	if cmd.TargetMention == "" {
		return ValidationResponse(core.NewValidationError("recipient", "mention who you want to thank")), nil
	}
	if cmd.FreeText == "" {
		return ValidationResponse(core.NewValidationError("message", "include a message with your thanks")), nil
	}

	actor, err := s.rewardsService.LookupUserByPlatformID(ctx, cmd.Platform, cmd.ActorID)
	if err != nil {
		log.Printf("❌ Failed to resolve actor %s: %v", securitylog.MaskID(cmd.ActorID), err)
		return UpstreamErrorResponse(), nil
	}
	recipient, err := s.rewardsService.LookupUserByPlatformID(ctx, cmd.Platform, cmd.TargetMention)
	if err != nil {
		log.Printf("❌ Failed to resolve recipient %s: %v", securitylog.MaskID(cmd.TargetMention), err)
		return UpstreamErrorResponse(), nil
	}

	req := &models.RecognitionRequest{
		NominatorEmployeeID: actor.EmployeeID,
		RecipientEmployeeID: recipient.EmployeeID,
		Kind:                models.RecognitionKindThanks,
		Points:              models.ThanksPoints,
		Message:             cmd.FreeText,
		SourcePlatform:      cmd.Platform,
		SourceChannelID:     cmd.ChannelID,
		IdempotencyKey:      core.NewID("idem"),
		Metadata: models.RecognitionMetadata{
			OriginalCommand: cmd.OriginalCommand,
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
		},
	}

	rec, err := s.rewardsService.CreateRecognition(ctx, req)
	if err != nil {
		log.Printf("❌ Failed to create thanks recognition: %v", err)
		return UpstreamErrorResponse(), nil
	}
	securitylog.RecognitionCreated(rec)

	celebration := fmt.Sprintf("🎉 %s just received thanks from %s!\n\n%q\n\n+%d points 💫",
		mentionFor(cmd.Platform, cmd.TargetMention), actor.Name, cmd.FreeText, models.ThanksPoints)
	s.detach("thanks celebration", func(taskCtx context.Context) error {
		return s.notificationsService.PostChannelMessage(taskCtx, cmd.Platform, cmd.ChannelID, celebration)
	})

	dm := fmt.Sprintf("💝 %s sent you thanks: %q (+%d points)", actor.Name, cmd.FreeText, models.ThanksPoints)
	s.detach("recipient notification", func(taskCtx context.Context) error {
		return s.notificationsService.PostDirectMessage(taskCtx, cmd.Platform, cmd.TargetMention, dm)
	})

	return &models.PlatformResponse{
		Text:       fmt.Sprintf("✅ Thanks sent to %s! They'll receive %d points.", recipient.Name, models.ThanksPoints),
		Visibility: models.VisibilityEphemeral,
	}, nil
}

// handleGive signals the platform to open the interactive recognition
// form; the flow completes through ProcessGiveSubmission
func (s *CommandsService) handleGive(
	ctx context.Context,
	cmd *models.InboundCommand,
) (*models.PlatformResponse, error) {
	return &models.PlatformResponse{
		Text:                "🌟 Opening the recognition form...",
		Visibility:          models.VisibilityEphemeral,
		OpenRecognitionForm: true,
	}, nil
}

func (s *CommandsService) handleBalance(
	ctx context.Context,
	cmd *models.InboundCommand,
) (*models.PlatformResponse, error) {
	actor, err := s.rewardsService.LookupUserByPlatformID(ctx, cmd.Platform, cmd.ActorID)
	if err != nil {
		log.Printf("❌ Failed to resolve actor for balance: %v", err)
		return UpstreamErrorResponse(), nil
	}

	balance, err := s.rewardsService.GetBalance(ctx, actor.EmployeeID)
	if err != nil {
		log.Printf("❌ Failed to fetch balance for %s: %v", actor.EmployeeID, err)
		return UpstreamErrorResponse(), nil
	}

	return &models.PlatformResponse{
		Text: fmt.Sprintf("💰 **Your RewardStation Balance**\n\n%d points (about $%s in rewards)",
			balance.Points, balance.ValueUSD.StringFixed(2)),
		Visibility: models.VisibilityEphemeral,
	}, nil
}

// ProcessGiveSubmission completes the give flow. Points are validated
// before anything reaches the rewards platform; the public completion
// notice and approval workflow run as detached tasks.
func (s *CommandsService) ProcessGiveSubmission(
	ctx context.Context,
	sub *models.GiveSubmission,
) (*models.PlatformResponse, error) {
	log.Printf("📋 Processing give submission from %s (%d points)", securitylog.MaskID(sub.ActorID), sub.Points)

	if !utils.ValidatePoints(sub.Points) {
		return ValidationResponse(core.NewValidationError("points",
			fmt.Sprintf("points must be between 0 and %d", utils.MaxPoints))), nil
	}
	message := utils.SanitizeMessage(sub.Message)
	if message == "" {
		return ValidationResponse(core.NewValidationError("message", "include a recognition message")), nil
	}
	if sub.RecipientID == "" {
		return ValidationResponse(core.NewValidationError("recipient", "choose who to recognize")), nil
	}

	actor, err := s.rewardsService.LookupUserByPlatformID(ctx, sub.Platform, sub.ActorID)
	if err != nil {
		log.Printf("❌ Failed to resolve submitter: %v", err)
		return UpstreamErrorResponse(), nil
	}
	recipient, err := s.resolveRecipient(ctx, sub.Platform, sub.RecipientID)
	if err != nil {
		log.Printf("❌ Failed to resolve recipient %s: %v", securitylog.MaskID(sub.RecipientID), err)
		return UpstreamErrorResponse(), nil
	}

	req := &models.RecognitionRequest{
		NominatorEmployeeID: actor.EmployeeID,
		RecipientEmployeeID: recipient.EmployeeID,
		Kind:                models.RecognitionKindPoints,
		Points:              sub.Points,
		Message:             message,
		BehaviorAttributes:  sub.Behaviors,
		SourcePlatform:      sub.Platform,
		SourceChannelID:     sub.ChannelID,
		IdempotencyKey:      core.NewID("idem"),
		Metadata: models.RecognitionMetadata{
			AIEnhanced: sub.AIEnhanced,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		},
	}

	rec, err := s.rewardsService.CreateRecognition(ctx, req)
	if err != nil {
		log.Printf("❌ Failed to create points recognition: %v", err)
		return UpstreamErrorResponse(), nil
	}
	securitylog.RecognitionCreated(rec)

	s.detach("approval workflow", func(taskCtx context.Context) error {
		_, wfErr := s.workflowService.StartRecognitionWorkflow(taskCtx, rec)
		return wfErr
	})

	if sub.ChannelID != "" {
		notice := fmt.Sprintf("🌟 %s recognized %s with %d points!\n\n%q%s",
			actor.Name, recipient.Name, sub.Points, message, behaviorLine(sub.Behaviors))
		s.detach("give completion notice", func(taskCtx context.Context) error {
			return s.notificationsService.PostChannelMessage(taskCtx, sub.Platform, sub.ChannelID, notice)
		})
	}

	text := fmt.Sprintf("✅ Recognition submitted! %s will receive %d points.", recipient.Name, sub.Points)
	if rec.ApprovalRequired {
		text = fmt.Sprintf("⏳ Recognition submitted for approval. %s will receive %d points once approved.",
			recipient.Name, sub.Points)
	}
	return &models.PlatformResponse{
		Text:       text,
		Visibility: models.VisibilityEphemeral,
	}, nil
}

// EnhanceMessage rewrites draft recognition text. Any failure or timeout
// returns the original message unchanged.
func (s *CommandsService) EnhanceMessage(
	ctx context.Context,
	message string,
	points int,
	behaviors []string,
) string {
	// Mention tokens carry raw platform IDs; keep them out of the prompt
	draft := utils.StripMentions(message)
	if draft == "" {
		return message
	}
	enhanced, err := s.enhancementService.EnhanceMessage(ctx, draft, &models.EnhancementContext{
		Points:    points,
		Behaviors: behaviors,
	})
	if err != nil {
		log.Printf("⚠️ Message enhancement failed, keeping original: %v", err)
		return message
	}
	if strings.TrimSpace(enhanced) == "" {
		return message
	}
	return enhanced
}

// resolveRecipient accepts either a platform user ID (Slack user select)
// or a corporate email (Teams card input)
func (s *CommandsService) resolveRecipient(
	ctx context.Context,
	platform models.Platform,
	recipientID string,
) (*models.RewardsUser, error) {
	if strings.Contains(recipientID, "@") {
		maybeUser, err := s.rewardsService.LookupUserByEmail(ctx, recipientID)
		if err != nil {
			return nil, err
		}
		if user, ok := maybeUser.Get(); ok {
			return user, nil
		}
		return nil, fmt.Errorf("no employee found for email %s: %w", recipientID, core.ErrNotFound)
	}
	return s.rewardsService.LookupUserByPlatformID(ctx, platform, recipientID)
}

// detach runs a best-effort side task with its own bounded lifetime.
// Failures are logged and never surfaced to the requester; with an alerter
// configured the task also gets panic recovery and error alerting.
func (s *CommandsService) detach(task string, fn func(ctx context.Context) error) {
	run := func() error {
		taskCtx, cancel := context.WithTimeout(context.Background(), detachedTaskTimeout)
		defer cancel()
		return fn(taskCtx)
	}
	if s.alerter != nil {
		run = s.alerter.WrapBackgroundTask(task, run)
	}
	go func() {
		if err := run(); err != nil {
			log.Printf("⚠️ Detached task %q failed: %v", task, err)
		}
	}()
}

// UnknownVerbResponse names the unrecognized verb and lists valid ones
func UnknownVerbResponse(verb string) *models.PlatformResponse {
	verbs := make([]string, len(models.KnownVerbs))
	for i, v := range models.KnownVerbs {
		verbs[i] = string(v)
	}
	return &models.PlatformResponse{
		Text:       fmt.Sprintf("❓ Unknown command %q. Valid commands: %s", verb, strings.Join(verbs, ", ")),
		Visibility: models.VisibilityEphemeral,
	}
}

// ValidationResponse turns a field validation error into an ephemeral
// usage message
func ValidationResponse(err *core.ValidationError) *models.PlatformResponse {
	return &models.PlatformResponse{
		Text:       fmt.Sprintf("⚠️ %s: %s", err.Field, err.Reason),
		Visibility: models.VisibilityEphemeral,
	}
}

// UpstreamErrorResponse is the generic user-facing failure message. Raw
// upstream errors never reach the requester.
func UpstreamErrorResponse() *models.PlatformResponse {
	return &models.PlatformResponse{
		Text:       "❌ Something went wrong talking to RewardStation. Please try again in a moment.",
		Visibility: models.VisibilityEphemeral,
	}
}

// ErrorResponse maps a parse or dispatch error onto the user-facing
// ephemeral message for it
func ErrorResponse(err error) *models.PlatformResponse {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		return ValidationResponse(ve)
	}
	var uce *core.UnknownCommandError
	if errors.As(err, &uce) {
		return UnknownVerbResponse(uce.Verb)
	}
	return UpstreamErrorResponse()
}

func fallbackHelpResponse() *models.PlatformResponse {
	return &models.PlatformResponse{
		Text: "🎉 **RewardStation Commands**\n\n" +
			"• `/thanks @user \"message\"` - Send a quick 25-point thanks\n" +
			"• `/give @user` - Give points recognition (opens a form)\n" +
			"• `/balance` - Check your point balance\n" +
			"• `/help` - Show this message",
		Visibility: models.VisibilityEphemeral,
	}
}

func behaviorLine(behaviors []string) string {
	if len(behaviors) == 0 {
		return ""
	}
	return "\n\n🎯 " + strings.Join(behaviors, " • ")
}

func mentionFor(platform models.Platform, userID string) string {
	if platform == models.PlatformSlack {
		return "<@" + userID + ">"
	}
	return "<at>" + userID + "</at>"
}

func splitFirstToken(text string) (first, rest string) {
	fields := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(fields) == 0 {
		return "", ""
	}
	first = fields[0]
	if len(fields) == 2 {
		rest = strings.TrimSpace(fields[1])
	}
	return first, rest
}
