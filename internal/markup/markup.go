// Package markup renders plain model output as minimal HTML. It sits outside
// the orchestration core; handlers attach the rendered form next to the raw
// text.
package markup

import (
	"html"
	"regexp"
	"strings"
)

var (
	boldRe   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*`)
	codeRe   = regexp.MustCompile("`([^`]+)`")
)

// Render escapes text and applies markdown-lite styling: **bold**, *italic*,
// `code`, and line breaks. Bold runs before italic so ** pairs are not
// consumed as two singles.
func Render(text string) string {
	out := html.EscapeString(text)
	out = boldRe.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicRe.ReplaceAllString(out, "<em>$1</em>")
	out = codeRe.ReplaceAllString(out, "<code>$1</code>")
	out = strings.ReplaceAll(out, "\n", "<br>")
	return out
}
