// Package placeholder hides spans the service must not translate behind
// numbered markers: fenced and inline code, URLs, markup tags and template
// variables. A Shield is applied to the whole document before it is split
// into segments and reversed after the translations are joined back.
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	reFencedCode = regexp.MustCompile("(?s)```.*?```")
	reInlineCode = regexp.MustCompile("`[^`\n]+`")
	reURL        = regexp.MustCompile(`https?://[^\s<>()"']+[^\s<>()"'.,;:!?]`)
	reTag        = regexp.MustCompile(`</?[A-Za-z][^<>]*>`)
	reTemplate   = regexp.MustCompile(`\{\{[^{}]+\}\}|\{[A-Za-z0-9_]+\}|%(?:\[\d+\])?[-+#0]*\d*(?:\.\d+)?[sdvqfx]`)

	// Applied in order; earlier patterns swallow anything later ones would
	// match inside them. Tags go before URLs so an href stays in its tag.
	patterns = []*regexp.Regexp{reFencedCode, reInlineCode, reTag, reURL, reTemplate}

	reMarker = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Shield remembers the spans replaced by Protect. The zero value is ready
// to use.
type Shield struct {
	spans []string
}

// Protect replaces protected spans in text with markers [PH0], [PH1], ...
// numbered in the order they are replaced.
func (s *Shield) Protect(text string) string {
	for _, re := range patterns {
		text = re.ReplaceAllStringFunc(text, func(span string) string {
			s.spans = append(s.spans, span)
			return marker(len(s.spans) - 1)
		})
	}
	return text
}

// Restore puts the original spans back. Markers this Shield did not issue
// are left as they are.
func (s *Shield) Restore(text string) string {
	return s.expand(text, len(s.spans))
}

// expand restores markers below limit. A span can only hold markers issued
// before it, so the recursion ends.
func (s *Shield) expand(text string, limit int) string {
	return reMarker.ReplaceAllStringFunc(text, func(m string) string {
		idx, err := strconv.Atoi(reMarker.FindStringSubmatch(m)[1])
		if err != nil || idx >= limit {
			return m
		}
		return s.expand(s.spans[idx], idx)
	})
}

// Len returns the number of protected spans.
func (s *Shield) Len() int {
	return len(s.spans)
}

// Missing returns the spans whose markers do not occur in translated, in
// marker order. The service occasionally drops or rewrites a marker.
func (s *Shield) Missing(translated string) []string {
	seen := make(map[int]bool, len(s.spans))
	markSeen := func(text string, limit int) {
		for _, m := range reMarker.FindAllStringSubmatch(text, -1) {
			if idx, err := strconv.Atoi(m[1]); err == nil && idx < limit {
				seen[idx] = true
			}
		}
	}
	markSeen(translated, len(s.spans))
	// A marker nested in a surviving span survives with it.
	for i := len(s.spans) - 1; i >= 0; i-- {
		if seen[i] {
			markSeen(s.spans[i], i)
		}
	}
	var out []string
	for i, span := range s.spans {
		if !seen[i] {
			out = append(out, span)
		}
	}
	return out
}

func marker(i int) string {
	return fmt.Sprintf("[PH%d]", i)
}
