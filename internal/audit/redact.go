package audit

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var (
	secretValuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+\S+`),
		regexp.MustCompile(`(?i)(token|jwt|bearer)[\s:=]+\S+`),
		regexp.MustCompile(`(?i)(secret|private[_-]?key|access[_-]?key)[\s:=]+\S+`),
	}

	secretKeys = []string{
		"password", "passwd", "pwd",
		"token", "jwt", "bearer", "authorization",
		"secret", "private_key", "access_key",
	}
)

// redactMessage masks credential values embedded in free text, such as a
// wrapped driver error echoing a connection string.
func redactMessage(msg string) string {
	for _, p := range secretValuePatterns {
		msg = p.ReplaceAllString(msg, "${1}="+redacted)
	}
	return msg
}

// redactMetadata returns a copy of metadata with credential-looking keys
// masked and string values passed through redactMessage.
func redactMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		if isSecretKey(k) {
			out[k] = redacted
			continue
		}
		if s, ok := v.(string); ok {
			out[k] = redactMessage(s)
			continue
		}
		out[k] = v
	}
	return out
}

func isSecretKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range secretKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
