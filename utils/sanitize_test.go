package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeMessage(t *testing.T) {
	t.Run("Success_StripsScriptTags", func(t *testing.T) {
		result := SanitizeMessage(`great job <script>alert("x")</script>today`)
		assert.Equal(t, "great job today", result)
	})

	t.Run("Success_StripsHTMLTags", func(t *testing.T) {
		result := SanitizeMessage("<b>nice</b> work")
		assert.Equal(t, "nice work", result)
	})

	t.Run("Success_NormalizesWhitespace", func(t *testing.T) {
		result := SanitizeMessage("  thanks   for\t the  help ")
		assert.Equal(t, "thanks for the help", result)
	})

	t.Run("Success_CapsLength", func(t *testing.T) {
		result := SanitizeMessage(strings.Repeat("a", MaxMessageLength+50))
		assert.Len(t, result, MaxMessageLength+3)
		assert.True(t, strings.HasSuffix(result, "..."))
	})

	t.Run("Success_CapKeepsRuneBoundary", func(t *testing.T) {
		// a 4-byte emoji straddling the cap must be dropped whole, not
		// sliced mid-rune
		for pad := 497; pad <= 500; pad++ {
			result := SanitizeMessage(strings.Repeat("a", pad) + "🎉 and more text past the cap")
			assert.True(t, utf8.ValidString(result), "pad=%d", pad)
			assert.True(t, strings.HasSuffix(result, "...") || strings.HasSuffix(result, "🎉..."), "pad=%d tail=%q", pad, result[len(result)-8:])
			assert.LessOrEqual(t, len(result), MaxMessageLength+3, "pad=%d", pad)
		}
	})

	t.Run("Success_EmptyInput", func(t *testing.T) {
		assert.Equal(t, "", SanitizeMessage(""))
	})
}

func TestStripQuotes(t *testing.T) {
	assert.Equal(t, "nice work", StripQuotes(`"nice work"`))
	assert.Equal(t, "nice work", StripQuotes(`'nice work'`))
	assert.Equal(t, "nice work", StripQuotes("  nice work  "))
}

func TestSanitizeUserMention(t *testing.T) {
	t.Run("Success_SlackMention", func(t *testing.T) {
		assert.Equal(t, "U1234567890", SanitizeUserMention("<@U1234567890>"))
	})

	t.Run("Success_TeamsMention", func(t *testing.T) {
		assert.Equal(t, "john.doe", SanitizeUserMention("<at>john.doe</at>"))
	})

	t.Run("Success_BareID", func(t *testing.T) {
		assert.Equal(t, "emp_001", SanitizeUserMention("emp_001"))
	})

	t.Run("Error_MalformedMention", func(t *testing.T) {
		assert.Equal(t, "", SanitizeUserMention("<@>"))
		assert.Equal(t, "", SanitizeUserMention("<at></at>"))
		assert.Equal(t, "", SanitizeUserMention("not a mention!"))
	})
}

func TestValidatePoints(t *testing.T) {
	assert.True(t, ValidatePoints(0))
	assert.True(t, ValidatePoints(250))
	assert.True(t, ValidatePoints(10000))
	assert.False(t, ValidatePoints(10001))
	assert.False(t, ValidatePoints(-1))
}

func TestFindSlackMention(t *testing.T) {
	t.Run("Success_FindsMention", func(t *testing.T) {
		m, ok := FindSlackMention(`thanks <@U42> "nice work"`)
		assert.True(t, ok)
		assert.Equal(t, "U42", m.UserID)
		assert.Equal(t, `thanks `, `thanks <@U42> "nice work"`[:m.Start])
	})

	t.Run("Success_MentionWithUsername", func(t *testing.T) {
		m, ok := FindSlackMention("<@U123|sarah> hi")
		assert.True(t, ok)
		assert.Equal(t, "U123", m.UserID)
	})

	t.Run("Error_NoMention", func(t *testing.T) {
		_, ok := FindSlackMention("thanks everyone")
		assert.False(t, ok)
	})
}

func TestStripMentions(t *testing.T) {
	assert.Equal(t, "crushed the demo", StripMentions("<@U42> crushed the demo"))
	assert.Equal(t, "great work today", StripMentions("<at>Jane Smith</at> great work today"))
	assert.Equal(t, "", StripMentions("<@U42>"))
}

func TestFindTeamsMention(t *testing.T) {
	m, ok := FindTeamsMention(`thanks <at>jane.smith</at> great job`)
	assert.True(t, ok)
	assert.Equal(t, "jane.smith", m.UserID)
}
