// Package redact removes credentials from strings before they are logged.
// The planner handles two kinds of secrets: PostgreSQL connection strings
// and Telegram bot tokens. The latter also leak through net/http errors,
// because the Bot API embeds the token in every request URL.
package redact

import (
	"regexp"
	"strings"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
)

type rule struct {
	re          *regexp.Regexp
	replacement string
}

// Rules are applied in order; more specific patterns come first.
var rules = []rule{
	// scheme://user:pass@ -> scheme://[REDACTED_CREDENTIAL]@
	{
		re:          regexp.MustCompile(`(?i)\b(postgres|postgresql|pgx)://[^@/\s]+@`),
		replacement: "${1}://" + RedactedCredentialPlaceholder + "@",
	},
	// https://api.telegram.org/bot<token>/method
	{
		re:          regexp.MustCompile(`/bot\d+:[A-Za-z0-9_-]+`),
		replacement: "/bot" + RedactedTokenPlaceholder,
	},
	// bare bot token
	{
		re:          regexp.MustCompile(`\b\d{6,12}:[A-Za-z0-9_-]{30,}\b`),
		replacement: RedactedTokenPlaceholder,
	},
	// key=value DSN form
	{
		re:          regexp.MustCompile(`(?i)\b(password|passwd|pwd)(\s*[=:]\s*)('[^']*'|"[^"]*"|[^\s&'"]+)`),
		replacement: "${1}${2}" + RedactedCredentialPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?i)\b(api[_-]?key|token|secret)(\s*[=:]\s*)([A-Za-z0-9_\-.~+/:]{8,})`),
		replacement: "${1}${2}" + RedactedKeyPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}

// Values replaces every occurrence of the given secrets in input, then
// applies String. Empty secrets are ignored.
func Values(input string, secrets ...string) string {
	for _, s := range secrets {
		if s == "" {
			continue
		}
		input = strings.ReplaceAll(input, s, RedactionPlaceholder)
	}
	return String(input)
}
