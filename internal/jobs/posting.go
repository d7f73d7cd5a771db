// Package jobs holds the request-scoped value objects exchanged with the
// browser extension: job postings, the user profile, and analysis results.
// Defaulting happens once at the boundary; the core never re-derives it.
package jobs

import (
	"regexp"
	"strings"
)

// Posting types as reported by the extension scraper.
const (
	TypeJobPage  = "job_page"
	TypeFeedPost = "feed_post"
)

var emailRegexp = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// ContactInfo is structured contact data scraped alongside a posting.
type ContactInfo struct {
	Emails []string `json:"emails,omitempty"`
}

// Posting is one scraped job posting. All fields except Type are optional
// and default to the empty string.
type Posting struct {
	Type        string       `json:"type"`
	Title       string       `json:"title,omitempty"`
	Company     string       `json:"company,omitempty"`
	Location    string       `json:"location,omitempty"`
	Description string       `json:"description,omitempty"`
	Content     string       `json:"content,omitempty"`
	ContactInfo *ContactInfo `json:"contactInfo,omitempty"`
	URL         string       `json:"url,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// Text returns all textual posting fields as one labelled block. This is
// the canonical job content fed to prompts and keyword scoring.
func (p *Posting) Text() string {
	parts := make([]string, 0, 5)

	if p.Title != "" {
		parts = append(parts, "Title: "+p.Title)
	}
	if p.Company != "" {
		parts = append(parts, "Company: "+p.Company)
	}
	if p.Location != "" {
		parts = append(parts, "Location: "+p.Location)
	}
	if p.Description != "" {
		parts = append(parts, "Description: "+p.Description)
	}
	if p.Content != "" {
		parts = append(parts, "Content: "+p.Content)
	}

	return strings.Join(parts, "\n")
}

// FirstContactEmail prefers the structured contact list, then falls back
// to scanning all posting text for the first email-shaped token. Returns
// an empty string when nothing is found.
func (p *Posting) FirstContactEmail() string {
	if p.ContactInfo != nil {
		for _, email := range p.ContactInfo.Emails {
			if email = strings.TrimSpace(email); email != "" {
				return email
			}
		}
	}

	return emailRegexp.FindString(p.Text())
}
