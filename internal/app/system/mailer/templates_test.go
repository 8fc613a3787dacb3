package mailer_test

import (
	"strings"
	"testing"

	"github.com/bearenergy/dealflow/internal/app/system/mailer"
)

func TestBuildProjectAddedEmail(t *testing.T) {
	msg := mailer.BuildProjectAddedEmail(mailer.ProjectAddedEmailData{
		SiteName:     "Bear Energy",
		ProjectName:  "Solar Park Alpha",
		Technology:   "solar",
		Location:     "Yorkshire, UK",
		CapacityMW:   49.9,
		AccessTier:   3,
		DashboardURL: "https://example.com/investor",
	})

	if msg.To != "" {
		t.Errorf("To should be left for the caller, got %q", msg.To)
	}
	if want := "New project available on Bear Energy: Solar Park Alpha"; msg.Subject != want {
		t.Errorf("Subject: got %q, want %q", msg.Subject, want)
	}

	for _, want := range []string{"Solar Park Alpha", "Tier 3 - Full Data Room", "https://example.com/investor"} {
		if !strings.Contains(msg.TextBody, want) {
			t.Errorf("text body missing %q", want)
		}
		if !strings.Contains(msg.HTMLBody, want) {
			t.Errorf("HTML body missing %q", want)
		}
	}
}

func TestTierLabel(t *testing.T) {
	cases := []struct {
		tier int
		want string
	}{
		{1, "Tier 1 - Executive Summary"},
		{2, "Tier 2 - Detailed Teaser"},
		{3, "Tier 3 - Full Data Room"},
		{0, "Tier 1 - Executive Summary"},
		{9, "Tier 1 - Executive Summary"},
	}
	for _, tc := range cases {
		d := mailer.ProjectAddedEmailData{AccessTier: tc.tier}
		if got := d.TierLabel(); got != tc.want {
			t.Errorf("tier %d: got %q, want %q", tc.tier, got, tc.want)
		}
	}
}

func TestBuildProjectAddedEmail_OmitsEmptyOptionalFields(t *testing.T) {
	msg := mailer.BuildProjectAddedEmail(mailer.ProjectAddedEmailData{
		SiteName:    "Bear Energy",
		ProjectName: "Wind Farm Beta",
		Technology:  "wind",
		AccessTier:  1,
	})

	if strings.Contains(msg.TextBody, "Location:") {
		t.Error("text body should omit the location line when empty")
	}
	if strings.Contains(msg.TextBody, "Capacity:") {
		t.Error("text body should omit the capacity line when zero")
	}
}
