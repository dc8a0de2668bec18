package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is the cap applied to recognition messages before they
// are sent upstream
const MaxMessageLength = 500

// MaxPoints is the platform-wide bound on a single points recognition
const MaxPoints = 10000

var (
	scriptTagRegex = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	htmlTagRegex   = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe   = regexp.MustCompile(`\s+`)

	slackMentionRegex  = regexp.MustCompile(`^<@([A-Z0-9]+)>$`)
	teamsMentionRegex  = regexp.MustCompile(`^<at>([^<>]+)</at>$`)
	simpleUserIDRegex  = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
	quoteTrimCharacers = "\"'“”"
)

// SanitizeMessage strips markup from user input, normalizes whitespace and
// caps the length. Mention tokens must be extracted before calling this,
// since they use angle-bracket syntax.
func SanitizeMessage(input string) string {
	if input == "" {
		return ""
	}

	sanitized := scriptTagRegex.ReplaceAllString(input, "")
	sanitized = htmlTagRegex.ReplaceAllString(sanitized, "")
	sanitized = whitespaceRe.ReplaceAllString(strings.TrimSpace(sanitized), " ")

	if len(sanitized) > MaxMessageLength {
		// back up to a rune boundary so the cut never splits a multi-byte
		// character
		cut := MaxMessageLength
		for cut > 0 && !utf8.RuneStart(sanitized[cut]) {
			cut--
		}
		sanitized = sanitized[:cut] + "..."
	}

	return sanitized
}

// StripQuotes removes surrounding quote characters and trims whitespace
func StripQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), quoteTrimCharacers))
}

// SanitizeUserMention extracts a user ID from a mention token. Accepts
// Slack <@U123> syntax, Teams <at>id</at> syntax, or a bare alphanumeric
// ID. Returns "" when the token is not a valid mention.
func SanitizeUserMention(mention string) string {
	mention = strings.TrimSpace(mention)
	if mention == "" {
		return ""
	}

	if m := slackMentionRegex.FindStringSubmatch(mention); m != nil {
		return m[1]
	}
	if m := teamsMentionRegex.FindStringSubmatch(mention); m != nil {
		return strings.TrimSpace(m[1])
	}
	if simpleUserIDRegex.MatchString(mention) {
		return mention
	}

	return ""
}

// ValidatePoints checks a points value against the platform bound.
// Returns false for negative or out-of-range values.
func ValidatePoints(points int) bool {
	return points >= 0 && points <= MaxPoints
}
