package utils

import (
	"regexp"
	"strings"
)

var (
	slackInlineMentionRegex = regexp.MustCompile(`<@([A-Z0-9]+)(?:\|[^>]+)?>`)
	teamsInlineMentionRegex = regexp.MustCompile(`<at>([^<>]+)</at>`)
)

// MentionMatch is one user mention found inside a text blob
type MentionMatch struct {
	UserID string
	Start  int
	End    int
}

// FindSlackMention locates the first Slack <@USERID> mention in text
func FindSlackMention(text string) (MentionMatch, bool) {
	loc := slackInlineMentionRegex.FindStringSubmatchIndex(text)
	if loc == nil {
		return MentionMatch{}, false
	}
	return MentionMatch{
		UserID: text[loc[2]:loc[3]],
		Start:  loc[0],
		End:    loc[1],
	}, true
}

// FindTeamsMention locates the first Teams <at>user</at> mention in text
func FindTeamsMention(text string) (MentionMatch, bool) {
	loc := teamsInlineMentionRegex.FindStringSubmatchIndex(text)
	if loc == nil {
		return MentionMatch{}, false
	}
	return MentionMatch{
		UserID: strings.TrimSpace(text[loc[2]:loc[3]]),
		Start:  loc[0],
		End:    loc[1],
	}, true
}

// StripBotMention removes a leading <at>bot</at> mention from a Teams
// message, leaving any later user mentions intact
func StripBotMention(text string) string {
	text = strings.TrimSpace(text)
	if loc := teamsInlineMentionRegex.FindStringIndex(text); loc != nil && loc[0] == 0 {
		text = strings.TrimSpace(text[loc[1]:])
	}
	return text
}

// StripMentions removes all Slack and Teams mention tokens from text
func StripMentions(text string) string {
	text = slackInlineMentionRegex.ReplaceAllString(text, "")
	text = teamsInlineMentionRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
