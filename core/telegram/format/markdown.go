package format

import "strings"

const mdV2Specials = "_*[]()~`>#+-=|{}.!"

// EscapeMarkdownV2 escapes every MarkdownV2 special character in text.
// The input must be raw text: the escape is applied in a single pass and
// callers are expected to escape exactly once, at reply build time.
func EscapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, r := range text {
		if strings.ContainsRune(mdV2Specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
