package placeholder

import (
	"unicode/utf8"

	"github.com/goliatone/go-docbind/pkg/model"
)

// Insert splices the token for name into content at byte offset pos and
// leaves everything else untouched. The name is canonicalised first. pos is
// clamped to [0, len(content)] and moved back to the start of a rune when it
// lands inside a multi-byte sequence.
func Insert(content string, pos int, name string, delims Delimiters) string {
	token := delims.Token(model.CanonicalName(name))
	at := clampOffset(content, pos)
	return content[:at] + token + content[at:]
}

func clampOffset(content string, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos >= len(content) {
		return len(content)
	}
	for pos > 0 && !utf8.RuneStart(content[pos]) {
		pos--
	}
	return pos
}
