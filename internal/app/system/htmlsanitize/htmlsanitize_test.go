package htmlsanitize_test

import (
	"testing"

	"github.com/bearenergy/dealflow/internal/app/system/htmlsanitize"
)

func TestSanitize_Empty(t *testing.T) {
	result := htmlsanitize.Sanitize("")
	if result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestSanitize_PlainText(t *testing.T) {
	result := htmlsanitize.Sanitize("Hello, World!")
	if result != "Hello, World!" {
		t.Errorf("expected plain text unchanged, got %q", result)
	}
}

func TestSanitize_SafeHTML(t *testing.T) {
	input := "<p><strong>Bold</strong> and <em>italic</em></p>"
	result := htmlsanitize.Sanitize(input)
	if result != input {
		t.Errorf("expected safe HTML preserved, got %q", result)
	}
}

func TestSanitize_RemovesScript(t *testing.T) {
	input := "<p>Hello</p><script>alert('xss')</script>"
	result := htmlsanitize.Sanitize(input)
	if result != "<p>Hello</p>" {
		t.Errorf("expected script removed, got %q", result)
	}
}

func TestSanitize_RemovesOnclick(t *testing.T) {
	input := `<button onclick="alert('xss')">Click</button>`
	result := htmlsanitize.Sanitize(input)
	if result == input {
		t.Error("expected onclick attribute to be removed")
	}
}

func TestSanitize_RemovesJavascriptHref(t *testing.T) {
	input := `<a href="javascript:alert('xss')">Click</a>`
	result := htmlsanitize.Sanitize(input)
	if result == input {
		t.Error("expected javascript: href to be removed")
	}
}

func TestSanitizeStrict_StripsAllTags(t *testing.T) {
	input := "<p><strong>Solar Farm</strong> in <em>Kent</em></p>"
	result := htmlsanitize.SanitizeStrict(input)
	if result != "Solar Farm in Kent" {
		t.Errorf("expected all tags stripped, got %q", result)
	}
}

func TestSanitizeStrict_PlainText(t *testing.T) {
	result := htmlsanitize.SanitizeStrict("Battery storage 40MW")
	if result != "Battery storage 40MW" {
		t.Errorf("expected plain text unchanged, got %q", result)
	}
}
