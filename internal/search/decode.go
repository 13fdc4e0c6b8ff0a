package search

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Decode turns one raw artifact line into text. Bytes that are not valid
// UTF-8 are dropped; the flag reports that the line was degraded. A trailing
// "\n" or "\r\n" is removed.
func Decode(raw []byte) (string, bool) {
	raw = bytes.TrimSuffix(raw, []byte{'\n'})
	raw = bytes.TrimSuffix(raw, []byte{'\r'})
	if utf8.Valid(raw) {
		return string(raw), false
	}
	return strings.ToValidUTF8(string(raw), ""), true
}
