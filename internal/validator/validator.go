// Package validator flags translated segments that do not appear to be
// written in the requested target language.
package validator

import (
	"fmt"
	"strings"

	"github.com/valpere/langtranslator/internal/detector"
)

// minValidationLength is the rune count below which detection is too
// unreliable to act on.
const minValidationLength = 20

// Mismatch describes one segment whose detected language differs from the
// target.
type Mismatch struct {
	Index    int
	Expected string
	Detected string
}

func (m Mismatch) String() string {
	if m.Detected == "" {
		return fmt.Sprintf("segment %d: empty translation", m.Index)
	}
	return fmt.Sprintf("segment %d: expected %s but detected %s", m.Index, m.Expected, m.Detected)
}

// Validator reuses one detector; building it is expensive.
type Validator struct {
	det *detector.Detector
}

func New(det *detector.Detector) *Validator {
	return &Validator{det: det}
}

// Verify checks every segment against target. Short or ambiguous segments
// pass; empty ones are reported.
func (v *Validator) Verify(segments []string, target string) []Mismatch {
	if target == "" {
		return nil
	}
	target = strings.ToLower(target)
	// Service targets may carry a region ("zh-TW"); detection only knows the base language.
	if i := strings.IndexAny(target, "-_"); i > 0 {
		target = target[:i]
	}

	var out []Mismatch
	for i, seg := range segments {
		text := strings.TrimSpace(seg)
		if text == "" {
			out = append(out, Mismatch{Index: i, Expected: target})
			continue
		}
		if len([]rune(text)) < minValidationLength {
			continue
		}
		detected, ok := v.det.DetectISO(text)
		if !ok || detected == target {
			continue
		}
		out = append(out, Mismatch{Index: i, Expected: target, Detected: detected})
	}
	return out
}
