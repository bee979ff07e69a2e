package placeholder_test

import (
	"strings"
	"testing"

	"github.com/valpere/langtranslator/internal/placeholder"
)

func TestProtect_NothingToProtect(t *testing.T) {
	var s placeholder.Shield
	text := "Hello, world!"
	if got := s.Protect(text); got != text {
		t.Errorf("expected unchanged text, got %q", got)
	}
	if s.Len() != 0 {
		t.Errorf("expected 0 spans, got %d", s.Len())
	}
}

func TestProtect_Kinds(t *testing.T) {
	tests := []struct {
		name string
		text string
		span string
	}{
		{"fenced code", "Before\n```go\nfmt.Println(\"hi\")\n\nx := 1\n```\nAfter", "```go\nfmt.Println(\"hi\")\n\nx := 1\n```"},
		{"inline code", "Run `go test ./...` first.", "`go test ./...`"},
		{"url", "See https://example.com/docs?x=1.", "https://example.com/docs?x=1"},
		{"tag", "Click <b>here</b>", "<b>"},
		{"mustache", "Hello {{user.name}}!", "{{user.name}}"},
		{"brace", "Hello {name}!", "{name}"},
		{"printf", "Deleted %d files", "%d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s placeholder.Shield
			got := s.Protect(tt.text)
			if strings.Contains(got, tt.span) {
				t.Errorf("span %q still present in %q", tt.span, got)
			}
			if !strings.Contains(got, "[PH0]") {
				t.Errorf("expected [PH0] in %q", got)
			}
			if back := s.Restore(got); back != tt.text {
				t.Errorf("round trip: expected %q, got %q", tt.text, back)
			}
		})
	}
}

func TestProtect_FencedBeforeInline(t *testing.T) {
	var s placeholder.Shield
	got := s.Protect("```\nuse `x`\n``` and `y`")

	if s.Len() != 2 {
		t.Fatalf("expected 2 spans, got %d: %q", s.Len(), got)
	}
	if got != "[PH0] and [PH1]" {
		t.Errorf("unexpected protected text %q", got)
	}
}

func TestRestore_Translated(t *testing.T) {
	var s placeholder.Shield
	protected := s.Protect("Open <a href=\"/x\">the page</a> and run `make`.")
	if protected != "Open [PH1]the page[PH2] and run [PH0]." {
		t.Fatalf("unexpected protected text %q", protected)
	}

	// Markers may move when word order changes.
	translated := "Ejecute [PH0] y abra [PH1]la página[PH2]."
	want := "Ejecute `make` y abra <a href=\"/x\">la página</a>."
	if got := s.Restore(translated); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRestore_UnknownMarker(t *testing.T) {
	var s placeholder.Shield
	s.Protect("`a`")
	if got := s.Restore("[PH0] [PH7]"); got != "`a` [PH7]" {
		t.Errorf("unexpected %q", got)
	}
}

func TestMissing(t *testing.T) {
	var s placeholder.Shield
	s.Protect("`a` then `b` then `c`")

	missing := s.Missing("[PH0] luego [PH2]")
	if len(missing) != 1 || missing[0] != "`b`" {
		t.Errorf("expected `b` missing, got %q", missing)
	}
	if got := s.Missing("[PH0][PH1][PH2]"); len(got) != 0 {
		t.Errorf("expected nothing missing, got %q", got)
	}
}

func TestProtect_PercentInProse(t *testing.T) {
	var s placeholder.Shield
	text := "Save 50% during the sale"
	if got := s.Protect(text); got != text {
		t.Errorf("expected prose percent left alone, got %q", got)
	}
}

func TestProtect_URLInsideTag(t *testing.T) {
	var s placeholder.Shield
	text := "See <a href=\"https://example.com/docs\">the docs</a> now."
	got := s.Protect(text)

	if got != "See [PH0]the docs[PH1] now." {
		t.Fatalf("expected the tag to swallow its URL, got %q", got)
	}
	if back := s.Restore("Vea [PH0]la documentación[PH1] ahora."); back != "Vea <a href=\"https://example.com/docs\">la documentación</a> ahora." {
		t.Errorf("unexpected restore %q", back)
	}
	if missing := s.Missing(got); len(missing) != 0 {
		t.Errorf("expected nothing missing, got %q", missing)
	}
}

func TestRestore_NestedSpan(t *testing.T) {
	var s placeholder.Shield
	text := "<span title=\"`x`\">hi</span>"
	got := s.Protect(text)

	if got != "[PH1]hi[PH2]" {
		t.Fatalf("unexpected protected text %q", got)
	}
	if back := s.Restore(got); back != text {
		t.Errorf("round trip: expected %q, got %q", text, back)
	}
	if missing := s.Missing(got); len(missing) != 0 {
		t.Errorf("expected nested span to count as present, got %q", missing)
	}
	if missing := s.Missing("hi[PH2]"); len(missing) != 2 {
		t.Errorf("expected the tag and its nested code missing, got %q", missing)
	}
}
