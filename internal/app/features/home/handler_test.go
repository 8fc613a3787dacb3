package home

import (
	"strings"
	"testing"
)

func TestLandingContent(t *testing.T) {
	if len(landingStats) != 4 {
		t.Errorf("stats: got %d, want 4", len(landingStats))
	}
	for _, s := range landingStats {
		if s.Number == "" || s.Label == "" || s.Description == "" {
			t.Errorf("stat %q has empty fields", s.Label)
		}
	}

	if len(landingPartners) != 8 {
		t.Errorf("partners: got %d, want 8", len(landingPartners))
	}

	if len(landingTestimonials) != 3 {
		t.Errorf("testimonials: got %d, want 3", len(landingTestimonials))
	}
	for _, tm := range landingTestimonials {
		if tm.Quote == "" || tm.Name == "" || tm.Company == "" {
			t.Errorf("testimonial by %q has empty fields", tm.Name)
		}
	}
}

func TestLandingTemplateRendersEverySection(t *testing.T) {
	raw, err := FS.ReadFile("templates/home.gohtml")
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	page := string(raw)

	for _, ref := range []string{
		"range .Services",
		"range .Stats",
		"range .Partners",
		"range .Testimonials",
	} {
		if !strings.Contains(page, ref) {
			t.Errorf("landing template does not render %q", ref)
		}
	}
}
