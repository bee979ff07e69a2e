package detector

import (
	"testing"
)

func TestDetector_DetectISO(t *testing.T) {
	d, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		text     string
		wantLang string
		wantOK   bool
	}{
		{name: "empty text", text: "", wantOK: false},
		{name: "whitespace", text: "   ", wantOK: false},
		{name: "english text", text: "Hello, this is a test in English.", wantLang: "en", wantOK: true},
		{name: "ukrainian text", text: "Привіт, це тест українською мовою.", wantLang: "uk", wantOK: true},
		{name: "german text", text: "Hallo, das ist ein Test auf Deutsch.", wantLang: "de", wantOK: true},
		{name: "french text", text: "Bonjour, ceci est un test en français.", wantLang: "fr", wantOK: true},
		{name: "spanish text", text: "Hola, esto es una prueba en español.", wantLang: "es", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, ok := d.DetectISO(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("DetectISO(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if lang != tt.wantLang {
				t.Errorf("DetectISO(%q) = %q, want %q", tt.text, lang, tt.wantLang)
			}
		})
	}
}

func TestDetector_New_Restricted(t *testing.T) {
	d, err := New("en", "FR", " es ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lang, ok := d.DetectISO("Bonjour tout le monde, comment allez-vous aujourd'hui ?")
	if !ok || lang != "fr" {
		t.Errorf("expected fr, got %q (ok=%v)", lang, ok)
	}
}

func TestDetector_New_Unsupported(t *testing.T) {
	if _, err := New("en", "xx"); err == nil {
		t.Error("expected error for unknown code")
	}
	if _, err := New("en"); err == nil {
		t.Error("expected error for a single language")
	}
}

func TestDetector_Candidates(t *testing.T) {
	d, err := New("en", "de", "fr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := d.Candidates("Das ist ein ziemlich langer deutscher Satz über das Wetter.", 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].Language != "de" {
		t.Errorf("expected de first, got %q", got[0].Language)
	}
	if got[0].Confidence < got[1].Confidence {
		t.Errorf("expected descending confidence, got %+v", got)
	}

	if all := d.Candidates("Das ist ein Satz.", 0); len(all) != 3 {
		t.Errorf("expected all 3 candidates, got %d", len(all))
	}
	if none := d.Candidates("", 0); none != nil {
		t.Errorf("expected nil for empty text, got %v", none)
	}
}
