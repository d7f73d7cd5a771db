package jobs

import (
	"strings"
	"testing"
)

func TestPostingText(t *testing.T) {
	p := &Posting{
		Title:       "Backend Developer",
		Company:     "Acme",
		Location:    "Remote",
		Description: "Python services",
		Content:     "Longer post body",
	}

	text := p.Text()
	for _, want := range []string{
		"Title: Backend Developer",
		"Company: Acme",
		"Location: Remote",
		"Description: Python services",
		"Content: Longer post body",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in %q", want, text)
		}
	}

	empty := &Posting{}
	if empty.Text() != "" {
		t.Fatalf("empty posting must render empty text")
	}
}

func TestFirstContactEmailPrefersStructured(t *testing.T) {
	p := &Posting{
		Description: "reach us at fallback@acme.example",
		ContactInfo: &ContactInfo{Emails: []string{"primary@acme.example", "second@acme.example"}},
	}

	if got := p.FirstContactEmail(); got != "primary@acme.example" {
		t.Fatalf("expected structured email first, got %q", got)
	}
}

func TestFirstContactEmailScansText(t *testing.T) {
	p := &Posting{Content: "Apply via hiring@acme.example today"}
	if got := p.FirstContactEmail(); got != "hiring@acme.example" {
		t.Fatalf("unexpected email: %q", got)
	}

	none := &Posting{Content: "No contact given"}
	if got := none.FirstContactEmail(); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestProfileApplyDefaults(t *testing.T) {
	p := &Profile{Name: "Custom Name"}
	p.ApplyDefaults()

	if p.Name != "Custom Name" {
		t.Fatalf("explicit name overwritten")
	}
	if p.Domain == "" || len(p.Skills) == 0 || len(p.ExcludedRoles) == 0 {
		t.Fatalf("defaults not applied: %+v", p)
	}

	if p.ExperienceYears() != DefaultProfile().ExperienceYears() {
		t.Fatalf("absent experience not defaulted: %d", p.ExperienceYears())
	}

	d := DefaultProfile()
	if d.Name == "" || d.Email == "" {
		t.Fatalf("default profile incomplete: %+v", d)
	}
}

func TestProfileExplicitZeroExperienceSurvives(t *testing.T) {
	zero := 0
	p := &Profile{Name: "Fresh Grad", Experience: &zero}
	p.ApplyDefaults()

	if p.ExperienceYears() != 0 {
		t.Fatalf("explicit zero experience was overwritten: %d", p.ExperienceYears())
	}

	unset := &Profile{}
	if unset.ExperienceYears() != 0 {
		t.Fatalf("unset experience must read as zero before defaulting")
	}
}

func TestSecondaryDomain(t *testing.T) {
	p := &Profile{Domain: "Python Backend Development + AI/ML"}
	if got := p.SecondaryDomain(); got != "AI/ML" {
		t.Fatalf("unexpected secondary domain: %q", got)
	}

	p = &Profile{Domain: "Python Backend Development"}
	if got := p.SecondaryDomain(); got != "" {
		t.Fatalf("expected empty secondary domain, got %q", got)
	}
}

func TestErrorAnalysis(t *testing.T) {
	a := ErrorAnalysis("boom")

	if a.Status != StatusError {
		t.Fatalf("unexpected status: %s", a.Status)
	}
	if a.Reason != "Analysis failed: boom" {
		t.Fatalf("unexpected reason: %q", a.Reason)
	}
	if a.AttachmentRequired || a.EmailSubject != "" || a.EmailBody != "" || a.Contact != "" {
		t.Fatalf("error analysis must carry no email data: %+v", a)
	}
}
