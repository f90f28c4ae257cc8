// Package docparse extracts identifying details (parties, date, subject) from
// sanitized document Markdown. Parsing is tolerant pattern matching with safe
// fallbacks: it never fails, it degrades to sentinel values.
package docparse

import (
	"regexp"
	"strings"
	"time"

	"mithaq/internal/document"
	"mithaq/internal/logging"
)

// Details holds the parsed identity of one document.
type Details struct {
	Party1       string
	Party2       string
	DocumentDate string // YYYYMMDD
	Subject      string
}

var (
	// Field labels, tolerating optional bold markers and whitespace before
	// the colon. The capture runs to end of line.
	party1Re    = regexp.MustCompile(`(?:\*\*|__)?\s*الطرف الأول\s*(?:\*\*|__)?\s*:\s*([^\n\r]+)`)
	party2Re    = regexp.MustCompile(`(?:\*\*|__)?\s*الطرف الثاني\s*(?:\*\*|__)?\s*:\s*([^\n\r]+)`)
	senderRe    = regexp.MustCompile(`(?:\*\*|__)?\s*المرسل\s*(?:\*\*|__)?\s*:\s*([^\n\r]+)`)
	recipientRe = regexp.MustCompile(`(?:\*\*|__)?\s*إلى\s*(?:\*\*|__)?\s*:\s*([^\n\r]+)`)
	subjectRe   = regexp.MustCompile(`(?im)^##\s+الموضوع:\s*(.*)`)

	// Gregorian date in either "17 September 2025" or "September 17, 2025"
	// form. The prompts instruct the model to render Gregorian dates with
	// English month names even inside Arabic text.
	dateRe = regexp.MustCompile(`(?:\*\*)?\b(?:\d{1,2}\s+[A-Za-z]+\s+\d{4}|[A-Za-z]+\s+\d{1,2},\s+\d{4})\b(?:\*\*)?`)

	htmlTagRe  = regexp.MustCompile(`<[^>]*>`)
	mdMarksRe  = regexp.MustCompile("(\\*\\*|__|\\*|_|`|~|#)")
	illegalRe  = regexp.MustCompile(`[\\/:*?"<>|\s_]+`)
	edgeUndersRe = regexp.MustCompile(`^_+|_+$`)
)

// sanitizeForDisplay strips stray HTML tags and Markdown emphasis from a
// captured field and trims it. An empty result maps to the Unknown sentinel.
func sanitizeForDisplay(raw string) string {
	clean := htmlTagRe.ReplaceAllString(raw, "")
	clean = mdMarksRe.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return document.UnknownSubject
	}
	return clean
}

// FilenameSafe sanitizes a string for use in a download filename: strips
// HTML/Markdown, then replaces runs of whitespace and filesystem-illegal
// characters with a single underscore. Unicode letters (Arabic included)
// pass through untouched.
func FilenameSafe(raw string) string {
	if raw == "" {
		return document.UnknownSubject
	}
	clean := htmlTagRe.ReplaceAllString(raw, "")
	clean = mdMarksRe.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(clean)
	clean = illegalRe.ReplaceAllString(clean, "_")
	clean = edgeUndersRe.ReplaceAllString(clean, "")
	if clean == "" {
		return document.UnknownSubject
	}
	return clean
}

// Parse extracts the identifying details from sanitized Markdown, adapting
// its strategy to the document type. Letters derive parties from
// sender/recipient labels and carry a subject; contracts and agreements use
// the party labels and leave the subject at its sentinel.
func Parse(markdown string, docType document.Type) Details {
	d := Details{
		Party1:  document.UnknownParty,
		Party2:  document.UnknownParty,
		Subject: document.UnknownSubject,
	}

	if docType == document.TypeLetter {
		if m := subjectRe.FindStringSubmatch(markdown); m != nil && m[1] != "" {
			d.Subject = sanitizeForDisplay(m[1])
		}
		if m := senderRe.FindStringSubmatch(markdown); m != nil && m[1] != "" {
			d.Party1 = sanitizeForDisplay(m[1])
		}
		if m := recipientRe.FindStringSubmatch(markdown); m != nil && m[1] != "" {
			d.Party2 = sanitizeForDisplay(m[1])
		}
	} else {
		if m := party1Re.FindStringSubmatch(markdown); m != nil && m[1] != "" {
			d.Party1 = sanitizeForDisplay(m[1])
		}
		if m := party2Re.FindStringSubmatch(markdown); m != nil && m[1] != "" {
			d.Party2 = sanitizeForDisplay(m[1])
		}
	}

	d.DocumentDate = extractDate(markdown, time.Now())

	logging.ParseDebug("Parsed details: type=%s party1=%q party2=%q date=%s subject=%q",
		docType, d.Party1, d.Party2, d.DocumentDate, d.Subject)
	return d
}

// dateLayouts are tried in order against the cleaned date match.
var dateLayouts = []string{
	"2 January 2006",
	"January 2, 2006",
}

// extractDate finds the first Gregorian date in the text and formats it as
// YYYYMMDD. Unparsable or absent dates fall back to now rather than erroring;
// the value is a filename and sort key, not a legal fact.
func extractDate(markdown string, now time.Time) string {
	resolved := now
	if m := dateRe.FindString(markdown); m != "" {
		clean := strings.ReplaceAll(m, "**", "")
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, clean); err == nil {
				resolved = parsed
				break
			}
		}
	}
	return resolved.Format("20060102")
}
