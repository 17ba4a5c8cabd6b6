package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/mepad/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	if got := htmlsanitize.Sanitize(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	if got := htmlsanitize.Sanitize("Daily standup notes"); got != "Daily standup notes" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestSanitize_SafeHTML(t *testing.T) {
	input := "<p><strong>Bold</strong> and <em>italic</em></p>"
	if got := htmlsanitize.Sanitize(input); got != input {
		t.Errorf("expected safe HTML preserved, got %q", got)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	input := "<p>Hello</p><script>alert('xss')</script>"
	if got := htmlsanitize.Sanitize(input); got != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestSanitize_RemovesOnclick(t *testing.T) {
	input := `<b onclick="alert('xss')">Click</b>`
	got := htmlsanitize.Sanitize(input)
	if strings.Contains(got, "onclick") {
		t.Errorf("expected onclick attribute to be removed, got %q", got)
	}
}

func TestPlainText_StripsTags(t *testing.T) {
	if got := htmlsanitize.PlainText("<b>Room</b> A"); got != "Room A" {
		t.Errorf("PlainText = %q, want %q", got, "Room A")
	}
}

func TestPlainText_KeepsAmpersand(t *testing.T) {
	if got := htmlsanitize.PlainText("  Q&A session "); got != "Q&A session" {
		t.Errorf("PlainText = %q, want %q", got, "Q&A session")
	}
}

func TestSanitize_KeepsTextCharacters(t *testing.T) {
	tests := []string{
		`R&D budget: revenue > cost, "quoted" & it's fine`,
		"Ask Tom & Jerry if 3 < 5",
	}
	for _, in := range tests {
		if got := htmlsanitize.Sanitize(in); got != in {
			t.Errorf("Sanitize(%q) = %q, want it unchanged", in, got)
		}
	}
}

func TestSanitize_TextNextToMarkup(t *testing.T) {
	in := "<p>Q&A</p> & more"
	if got := htmlsanitize.Sanitize(in); got != in {
		t.Errorf("Sanitize(%q) = %q, want it unchanged", in, got)
	}
}

func TestSanitize_EscapedScriptStaysInert(t *testing.T) {
	got := htmlsanitize.Sanitize("&lt;script&gt;alert(1)&lt;/script&gt;")
	if strings.Contains(got, "<script") {
		t.Errorf("Sanitize produced live markup: %q", got)
	}
}
