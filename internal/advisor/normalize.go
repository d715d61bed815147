package advisor

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	contentSingleQuoted = regexp.MustCompile(`(?s)content='(.*?)'`)
	contentDoubleQuoted = regexp.MustCompile(`"content":\s*"([^"]+)"`)
	completionCallExpr  = regexp.MustCompile(`ChatCompletion\w*\([^)]*\)`)
)

// extractCompletionContent pulls the assistant message out of a
// chat-completion-style dump, if one is recognizable.
func extractCompletionContent(text string) string {
	if m := contentSingleQuoted.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := contentDoubleQuoted.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// normalizeText cleans a column value that may arrive as a verbose model
// dump instead of plain field text.
func normalizeText(value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return ""
	}
	if extracted := extractCompletionContent(text); extracted != "" {
		return strings.TrimSpace(extracted)
	}

	// A completion dump without extractable content gets its metadata
	// trimmed away so at least the payload fragment survives.
	if strings.Contains(text, "ChatCompletion") || strings.Contains(text, "chatcmpl") {
		text, _, _ = strings.Cut(text, "usage=")
		text = strings.TrimSpace(text)
		text = strings.ReplaceAll(text, "choices=[", "")
		text = strings.ReplaceAll(text, "message=", "")
		text = strings.Trim(completionCallExpr.ReplaceAllString(text, ""), " ,[]")
	}
	return text
}

// looksLikeCompletionBlob reports whether text is an unparsed model dump
// rather than operator-facing copy.
func looksLikeCompletionBlob(text string) bool {
	lowered := strings.ToLower(text)
	if !strings.Contains(lowered, "chatcompletion") && !strings.Contains(lowered, "chatcmpl") {
		return false
	}
	return strings.Contains(lowered, "id=") || strings.Contains(lowered, "object=")
}

// simplifyWarning produces a concise warning string, truncating oversized
// blobs so one noisy entry cannot swallow the panel.
func simplifyWarning(value string) string {
	text := normalizeText(value)
	if text == "" {
		return ""
	}
	const maxLen = 400
	runes := []rune(text)
	if len(runes) > maxLen {
		return strings.TrimRightFunc(string(runes[:maxLen]), unicode.IsSpace) + "..."
	}
	return text
}
