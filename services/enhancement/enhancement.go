// Package enhancement provides AI-assisted help and message enhancement.
// Claude backs message rewriting when an API key is configured; every path
// degrades to deterministic local content so a chat command never fails
// because the AI is down.
package enhancement

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/chrisw-xceleration/rewardstation-poc/clients"
	"github.com/chrisw-xceleration/rewardstation-poc/models"
)

const (
	enhanceMaxTokens = 200
	enhanceTimeout   = 8 * time.Second
)

type EnhancementService struct {
	anthropicClient clients.AnthropicClient
}

// NewEnhancementService builds the service. A nil client means Claude is
// not configured and only fallback enhancement runs.
func NewEnhancementService(anthropicClient clients.AnthropicClient) *EnhancementService {
	return &EnhancementService{anthropicClient: anthropicClient}
}

// GenerateHelp returns contextual help for a command topic. Content is
// canned; suggested actions let the client render tap-to-run buttons.
func (s *EnhancementService) GenerateHelp(
	ctx context.Context,
	platform models.Platform,
	topic string,
) (*models.PlatformResponse, error) {
	log.Printf("🤖 Generating help for topic: %q", topic)

	switch topic {
	case "thanks":
		return &models.PlatformResponse{
			Text: "💝 **Thanks Command Help**\n\n" +
				"Use: `/thanks @user \"your message\"`\n\n" +
				"**Examples:**\n" +
				"• `/thanks @sarah \"Great job on the presentation!\"`\n" +
				"• `/thanks @team \"Thanks for staying late to finish the project\"`\n\n" +
				"**Tips:**\n" +
				"• Be specific about what you're thanking them for\n" +
				"• Thanks are instant - no approval needed\n" +
				"• Everyone in the channel will see the celebration\n" +
				"• The recipient gets a direct notification\n\n" +
				"Ready to spread some positivity?",
			Visibility: models.VisibilityEphemeral,
			SuggestedActions: []models.SuggestedAction{
				{Text: "Try Thanks Command", Command: "/rewardstation thanks @"},
			},
		}, nil
	case "give":
		return &models.PlatformResponse{
			Text: "🌟 **Points Recognition Help**\n\n" +
				"Use: `/rewardstation give @user` (opens interactive form)\n\n" +
				"**What you can do:**\n" +
				"• Award 50-500 points based on impact\n" +
				"• Select behavior attributes that match company values\n" +
				"• I'll help enhance your recognition message\n" +
				"• Recognition may require approval based on amount\n\n" +
				"**Recognition Guidelines:**\n" +
				"• **50-100 points**: Daily helps and good work\n" +
				"• **150-250 points**: Above and beyond efforts\n" +
				"• **300-500 points**: Exceptional achievements\n\n" +
				"Want to give meaningful recognition?",
			Visibility: models.VisibilityEphemeral,
			SuggestedActions: []models.SuggestedAction{
				{Text: "Start Recognition", Command: "/rewardstation give @"},
			},
		}, nil
	default:
		return &models.PlatformResponse{
			Text: "🎉 **Welcome to RewardStation!**\n\n" +
				"I'm your AI assistant for recognition and rewards.\n\n" +
				"**Quick Commands:**\n" +
				"• `/thanks @user \"message\"` - Quick 25-point appreciation\n" +
				"• `/give @user` - Opens a form for formal recognition (50-500 points)\n" +
				"• `/balance` - Check your point balance\n" +
				"• `/help` - Contextual assistance\n\n" +
				"**Pro Tips:**\n" +
				"✨ I can help enhance your recognition messages\n" +
				"🎯 I'll suggest appropriate behavior attributes\n\n" +
				"*What would you like to do first?*",
			Visibility: models.VisibilityEphemeral,
			SuggestedActions: []models.SuggestedAction{
				{Text: "Send Thanks", Command: "/thanks @teammate"},
				{Text: "Give Points", Command: "/give @teammate"},
				{Text: "Check Balance", Command: "/balance"},
			},
		}, nil
	}
}

// EnhanceMessage rewrites a recognition message with Claude, falling back
// to local substitution when the API is unconfigured, slow, or erroring.
// The returned message always preserves the original sentiment.
func (s *EnhancementService) EnhanceMessage(
	ctx context.Context,
	message string,
	enhCtx *models.EnhancementContext,
) (string, error) {
	log.Printf("✨ Enhancing recognition message (%d chars)", len(message))

	if s.anthropicClient == nil {
		return s.fallbackEnhancement(message), nil
	}

	ctx, cancel := context.WithTimeout(ctx, enhanceTimeout)
	defer cancel()

	enhanced, err := s.anthropicClient.CreateMessage(ctx, buildEnhancePrompt(message, enhCtx), enhanceMaxTokens)
	if err != nil {
		log.Printf("⚠️ Claude enhancement failed, using fallback: %v", err)
		return s.fallbackEnhancement(message), nil
	}

	enhanced = strings.TrimSpace(enhanced)
	if enhanced == "" {
		return s.fallbackEnhancement(message), nil
	}
	return enhanced, nil
}

func buildEnhancePrompt(message string, enhCtx *models.EnhancementContext) string {
	recipient := "team member"
	points := "N/A"
	behaviors := "N/A"
	if enhCtx != nil {
		if enhCtx.RecipientName != "" {
			recipient = enhCtx.RecipientName
		}
		if enhCtx.Points > 0 {
			points = fmt.Sprintf("%d", enhCtx.Points)
		}
		if len(enhCtx.Behaviors) > 0 {
			behaviors = strings.Join(enhCtx.Behaviors, ", ")
		}
	}

	return fmt.Sprintf(`You are a 25-year veteran B2B employee rewards and recognition expert. Your role is to help enhance recognition messages to make them more meaningful and impactful.

CONTEXT:
- Recipient: %s
- Points being awarded: %s
- Behavior attributes: %s
- Original message: "%s"

TASK:
Please enhance this recognition message following these guidelines:
1. Keep the core sentiment and authenticity
2. Make it more specific and impactful
3. Focus on the behavior and its positive impact
4. Use professional but warm language
5. Keep it concise (2-3 sentences max)
6. Maintain the original person's voice/style

Return ONLY the enhanced message, nothing else. Do not add quotes, explanations, or meta-commentary.`,
		recipient, points, behaviors, message)
}

// fallbackSubstitutions maps flat phrasing onto more expressive wording
var fallbackSubstitutions = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)great job`), "fantastic work and dedication"},
	{regexp.MustCompile(`(?i)thanks`), "deeply appreciate"},
	{regexp.MustCompile(`(?i)good work`), "excellent execution and attention to detail"},
	{regexp.MustCompile(`(?i)helped`), "went above and beyond to support"},
	{regexp.MustCompile(`(?i)finished`), "successfully completed with quality results"},
}

func (s *EnhancementService) fallbackEnhancement(message string) string {
	enhanced := message
	for _, sub := range fallbackSubstitutions {
		enhanced = sub.pattern.ReplaceAllString(enhanced, sub.replacement)
	}
	if len(enhanced) < 30 {
		enhanced += " - your contribution makes a real difference to our team's success!"
	}
	return enhanced
}

// behaviorKeywords maps each company behavior attribute to its trigger words
var behaviorKeywords = map[string][]string{
	"Innovation":         {"innovative", "creative", "new idea", "solution"},
	"Teamwork":           {"team", "collaborate", "support", "help"},
	"Customer Focus":     {"customer", "client", "user", "service"},
	"Leadership":         {"lead", "mentor", "guide", "direction"},
	"Quality Excellence": {"quality", "excellent", "perfect", "detail"},
	"Accountability":     {"responsible", "ownership", "deliver", "commit"},
}

// behaviorOrder keeps suggestions deterministic
var behaviorOrder = []string{"Innovation", "Teamwork", "Customer Focus", "Leadership", "Quality Excellence", "Accountability"}

// SuggestBehaviors proposes up to three behavior attributes via keyword
// matching, defaulting to Teamwork and Quality Excellence when nothing
// matches
func (s *EnhancementService) SuggestBehaviors(ctx context.Context, message string) ([]string, error) {
	log.Printf("🎯 Suggesting behaviors for message (%d chars)", len(message))

	lower := strings.ToLower(message)
	var suggested []string
	for _, behavior := range behaviorOrder {
		for _, keyword := range behaviorKeywords[behavior] {
			if strings.Contains(lower, keyword) {
				suggested = append(suggested, behavior)
				break
			}
		}
	}

	if len(suggested) == 0 {
		suggested = []string{"Teamwork", "Quality Excellence"}
	}
	if len(suggested) > 3 {
		suggested = suggested[:3]
	}
	return suggested, nil
}
