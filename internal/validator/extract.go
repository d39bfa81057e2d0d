package validator

import (
	"strings"
	"unicode"
)

const fence = "```"

// ExtractJSON strips Markdown code-fence wrapping from a model reply.
//
// A "```json" fence wins over a plain "```" fence. The payload is the text
// between the opening fence and the next closing fence. An opening fence
// without a closing one yields everything after the opening fence; the JSON
// parse that follows decides whether that is usable. Text without fences is
// returned trimmed.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if body, ok := fencedBody(text, fence+"json"); ok {
		return body
	}
	if body, ok := fencedBody(text, fence); ok {
		return dropInfoString(body)
	}
	return text
}

// dropInfoString removes a language tag such as "JSON" or "javascript" that
// follows a plain opening fence, either on its own line or directly before
// the opening brace.
func dropInfoString(body string) string {
	tagEnd := strings.IndexFunc(body, func(r rune) bool { return !unicode.IsLetter(r) })
	if tagEnd > 0 {
		if rest := strings.TrimLeft(body[tagEnd:], " \t"); strings.HasPrefix(rest, "{") || strings.HasPrefix(rest, "[") {
			return rest
		}
	}

	line, rest, found := strings.Cut(body, "\n")
	if !found {
		return body
	}
	line = strings.TrimSpace(line)
	if line == "" || strings.ContainsAny(line, "{}[]\" :") {
		return body
	}
	return strings.TrimSpace(rest)
}

func fencedBody(text, opening string) (string, bool) {
	start := strings.Index(text, opening)
	if start == -1 {
		return "", false
	}
	rest := text[start+len(opening):]

	end := strings.Index(rest, fence)
	if end == -1 {
		return strings.TrimSpace(rest), true
	}
	return strings.TrimSpace(rest[:end]), true
}
