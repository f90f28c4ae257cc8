// Package export builds the download surface for a document version: its
// canonical Markdown, a rendered plain-text form, and a filesystem-safe
// suggested filename.
package export

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"mithaq/internal/docparse"
	"mithaq/internal/document"
	"mithaq/internal/logging"
)

// Bundle is everything a download needs. SuggestedFilename carries no
// extension; the caller appends one per format.
type Bundle struct {
	Markdown          string
	PlainText         string
	SuggestedFilename string
}

// Build assembles the bundle for one version.
func Build(v *document.Version) (*Bundle, error) {
	if v == nil {
		return nil, fmt.Errorf("no version to export")
	}

	plain, err := renderPlainText(v.Markdown)
	if err != nil {
		return nil, fmt.Errorf("rendering plain text: %w", err)
	}

	b := &Bundle{
		Markdown:          v.Markdown,
		PlainText:         plain,
		SuggestedFilename: SuggestedFilename(v),
	}
	logging.ExportDebug("Build: version=%d filename=%s", v.ID, b.SuggestedFilename)
	return b, nil
}

// renderPlainText renders Markdown through glamour's unstyled profile, which
// strips formatting without injecting terminal color codes.
func renderPlainText(markdown string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("notty"),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(markdown)
}

// SuggestedFilename derives the download name from the version's parsed
// identity. Letters name by subject, everything else by the party pair.
func SuggestedFilename(v *document.Version) string {
	date := v.DocumentDate
	if v.Type == document.TypeLetter {
		return fmt.Sprintf("%s_%s_V%d",
			docparse.FilenameSafe(v.Subject), date, v.VersionNumber)
	}
	return fmt.Sprintf("%s_%s_%s_V%d",
		docparse.FilenameSafe(v.Party1), docparse.FilenameSafe(v.Party2), date, v.VersionNumber)
}
