// Package outputfmt sanitizes error text before it reaches the user. Telegram
// API errors can embed the request URL, and the request URL embeds the bot
// token.
package outputfmt

import (
	"regexp"
	"strings"
)

var (
	// Matches the /bot<token>/ path segment of Bot API URLs. Tokens look
	// like 123456789:AAxxxxxxx.
	botTokenPathRE = regexp.MustCompile(`/bot[0-9]+:[A-Za-z0-9_-]+`)
	// Matches a bare token anywhere in the text.
	bareTokenRE = regexp.MustCompile(`\b[0-9]{6,}:[A-Za-z0-9_-]{30,}\b`)
)

// FormatErrorForDisplay returns err's message with bot tokens scrubbed.
func FormatErrorForDisplay(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeErrorText(err.Error())
}

// SanitizeErrorText removes bot tokens from arbitrary text while keeping the
// rest of the message intact.
func SanitizeErrorText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	raw = botTokenPathRE.ReplaceAllString(raw, "/bot[redacted]")
	raw = bareTokenRE.ReplaceAllString(raw, "[redacted]")
	return raw
}
