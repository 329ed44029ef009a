package logger

import (
	"fmt"
	"strings"
)

const redacted = "***REDACTED***"

var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "api_key", "apikey",
	"authorization", "credential", "private_key", "credit_card", "cvv",
}

var tokenPrefixes = []string{"eyj", "sk_", "pk_", "ghp_", "xoxb-", "xoxp-", "whsec_"}

// FormatArgs renders bind arguments for logs with sensitive looking values
// replaced and long strings truncated.
func FormatArgs(args []interface{}) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = formatArg(a)
	}
	return out
}

func formatArg(arg interface{}) string {
	switch v := arg.(type) {
	case nil:
		return "NULL"
	case []byte:
		if len(v) == 0 {
			return "''"
		}
		return redacted
	case string:
		if IsSensitive(v) {
			return redacted
		}
		if len(v) > 100 {
			return "'" + v[:100] + "...'"
		}
		return "'" + v + "'"
	case *string:
		if v == nil {
			return "NULL"
		}
		return formatArg(*v)
	}
	s := fmt.Sprintf("%v", arg)
	if IsSensitive(s) {
		return redacted
	}
	return s
}

// IsSensitive reports values that look like secrets.
func IsSensitive(s string) bool {
	lower := strings.ToLower(s)
	for _, k := range sensitiveKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	if len(lower) > 20 {
		for _, p := range tokenPrefixes {
			if strings.HasPrefix(lower, p) {
				return true
			}
		}
	}
	return false
}
