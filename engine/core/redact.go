package core

import "regexp"

// RedactionMarker replaces any secret value scrubbed from an outgoing
// message.
const RedactionMarker = "[REDACTED]"

// Precompiled patterns for secret shapes that can show up in error and log
// strings, either from our own headers or echoed back in remote payloads.
var (
	apiKeyHeaderRe = regexp.MustCompile(`(?i)(x-n8n-api-key\s*[:=]\s*)\S+`)
	apiKeyKVRe     = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)["']?[^"'\s]+["']?`)
	bearerTokenRe  = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-\._~\+\/]+=*`)
)

// RedactString scrubs API-key headers, api_key=value pairs and bearer tokens
// from s, case-insensitively. The pass is idempotent: a message that was
// already redacted comes back unchanged.
func RedactString(s string) string {
	s = apiKeyHeaderRe.ReplaceAllString(s, "${1}"+RedactionMarker)
	s = apiKeyKVRe.ReplaceAllString(s, "${1}"+RedactionMarker)
	s = bearerTokenRe.ReplaceAllString(s, "${1}"+RedactionMarker)
	return s
}

// RedactError applies RedactString to an error, returning an empty string
// when nil.
func RedactError(err error) string {
	if err == nil {
		return ""
	}
	return RedactString(err.Error())
}
