// Package detector identifies the language of a text offline, without a
// round trip to the translator service.
package detector

import (
	"fmt"
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// Candidate is one possible language with its relative confidence in [0, 1].
type Candidate struct {
	Language   string
	Confidence float64
}

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector restricted to the given ISO 639-1 codes, or over
// every supported language when none are given.
func New(codes ...string) (*Detector, error) {
	if len(codes) == 0 {
		return &Detector{detector: lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build()}, nil
	}

	byCode := map[string]lingua.Language{}
	for _, l := range lingua.AllLanguages() {
		byCode[strings.ToLower(l.IsoCode639_1().String())] = l
	}

	var langs []lingua.Language
	for _, code := range codes {
		l, ok := byCode[strings.ToLower(strings.TrimSpace(code))]
		if !ok {
			return nil, fmt.Errorf("unsupported language: %s", code)
		}
		langs = append(langs, l)
	}
	if len(langs) < 2 {
		return nil, fmt.Errorf("at least two languages are required, got %d", len(langs))
	}

	return &Detector{detector: lingua.NewLanguageDetectorBuilder().FromLanguages(langs...).Build()}, nil
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lowercase ISO 639-1 code of the most likely language.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// Candidates returns up to limit languages ordered by descending confidence.
// limit <= 0 returns all of them.
func (d *Detector) Candidates(text string, limit int) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	values := d.detector.ComputeLanguageConfidenceValues(text)
	var out []Candidate
	for _, cv := range values {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, Candidate{
			Language:   strings.ToLower(cv.Language().IsoCode639_1().String()),
			Confidence: cv.Value(),
		})
	}
	return out
}
