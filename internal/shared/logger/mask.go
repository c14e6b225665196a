package logger

import (
	"strings"
	"unicode/utf8"
)

// MaskEmail keeps the first character of the local part: jane.doe@example.com -> j***@example.com
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" || strings.Contains(domain, "@") {
		return "***@***"
	}
	if local == "" {
		return "***@" + domain
	}

	_, size := utf8.DecodeRuneInString(local)
	return local[:size] + "***@" + domain
}
