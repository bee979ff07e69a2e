// Package chunker turns a document into the ordered list of segments sent
// as the text array of a translate call. Each paragraph becomes its own
// segment; paragraphs longer than the limit are split at sentence ends,
// then at whitespace, then hard.
package chunker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxChars keeps a single segment well inside the service's
// per-request payload limit.
const DefaultMaxChars = 4000

// ParagraphSeparator joins translated segments back into a document.
const ParagraphSeparator = "\n\n"

var blankLine = regexp.MustCompile(`\r?\n[ \t]*\r?\n`)

// Paragraphs splits text on blank lines, dropping empty paragraphs.
func Paragraphs(text string) []string {
	var out []string
	for _, p := range blankLine.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Segments splits text into paragraphs no longer than maxChars runes.
// maxChars <= 0 disables the length limit.
func Segments(text string, maxChars int) []string {
	var out []string
	for _, p := range Paragraphs(text) {
		out = append(out, Split(p, maxChars)...)
	}
	return out
}

// Split breaks a single paragraph into pieces of at most maxChars runes.
func Split(text string, maxChars int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return []string{text}
	}

	var out []string
	for utf8.RuneCountInString(text) > maxChars {
		cut := cutPoint(text, maxChars)
		if piece := strings.TrimSpace(text[:cut]); piece != "" {
			out = append(out, piece)
		}
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

// cutPoint returns the byte offset at which to split text so the head holds
// at most maxChars runes.
func cutPoint(text string, maxChars int) int {
	limit := byteOffset(text, maxChars)
	head := text[:limit]

	sentence, space := -1, -1
	for i, r := range head {
		if !unicode.IsSpace(r) || i == 0 {
			continue
		}
		space = i
		prev, _ := utf8.DecodeLastRuneInString(head[:i])
		if prev == '.' || prev == '!' || prev == '?' || prev == '…' {
			sentence = i
		}
	}

	switch {
	case sentence > 0:
		return sentence
	case space > 0:
		return space
	default:
		return limit
	}
}

// byteOffset converts a rune count into a byte offset within s.
func byteOffset(s string, runes int) int {
	n := 0
	for i := range s {
		if n == runes {
			return i
		}
		n++
	}
	return len(s)
}

// Join reassembles translated segments into a document. groups gives the
// number of segments each original paragraph was split into; nil treats
// every segment as its own paragraph.
func Join(segments []string, groups []int) string {
	if groups == nil {
		return strings.Join(segments, ParagraphSeparator)
	}

	var paras []string
	i := 0
	for _, n := range groups {
		if i+n > len(segments) {
			n = len(segments) - i
		}
		paras = append(paras, strings.Join(segments[i:i+n], " "))
		i += n
	}
	if i < len(segments) {
		paras = append(paras, segments[i:]...)
	}
	return strings.Join(paras, ParagraphSeparator)
}

// Plan returns the segments for text together with the group sizes Join
// needs to put paragraphs back together.
func Plan(text string, maxChars int) (segments []string, groups []int) {
	for _, p := range Paragraphs(text) {
		pieces := Split(p, maxChars)
		segments = append(segments, pieces...)
		groups = append(groups, len(pieces))
	}
	return segments, groups
}
