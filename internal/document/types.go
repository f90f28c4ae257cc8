// Package document defines the core data model shared across the pipeline:
// document types, immutable versions, series lineages, and the recovery
// session snapshot.
package document

import "time"

// Type identifies the kind of legal document a series holds.
// Fixed at series creation and inherited by every version.
type Type string

const (
	TypeContract  Type = "contract"
	TypeLetter    Type = "letter"
	TypeAgreement Type = "agreement"
)

// Valid reports whether t is a known document type.
func (t Type) Valid() bool {
	switch t {
	case TypeContract, TypeLetter, TypeAgreement:
		return true
	}
	return false
}

// ArabicLabel returns the Arabic display label for the type.
func (t Type) ArabicLabel() string {
	switch t {
	case TypeLetter:
		return "خطاب"
	case TypeAgreement:
		return "اتفاقية"
	default:
		return "عقد"
	}
}

// PromptVariant selects between alternative generation prompt families for a
// document type (contracts ship two).
type PromptVariant string

const (
	VariantDyno PromptVariant = "dyno" // deep-synthesis generator
	VariantRevo PromptVariant = "revo" // revision-oriented generator
)

// Operation is the kind of generation request the orchestrator runs.
type Operation string

const (
	OpNew     Operation = "new"     // create a new series
	OpVersion Operation = "version" // amend: append a version to a series
	OpFinal   Operation = "final"   // finalize: append a closing version
)

// Sentinel values used when parsing cannot recover a field.
const (
	UnknownParty   = "UnknownParty"
	UnknownSubject = "Unknown"
)

// Version is one immutable generated artifact. Only FeedbackSubmitted
// mutates after creation.
type Version struct {
	ID                int64  `json:"id"`
	Timestamp         string `json:"timestamp"`
	Markdown          string `json:"markdown"`
	VersionNumber     int    `json:"versionNumber"`
	Party1            string `json:"party1"`
	Party2            string `json:"party2"`
	DocumentDate      string `json:"documentDate"` // YYYYMMDD
	Subject           string `json:"subject,omitempty"`
	FeedbackSubmitted bool   `json:"feedbackSubmitted"`
	Type              Type   `json:"type"`
}

// Series is a named, ordered chain of versions sharing one lineage.
// Its ID equals the ID of its root version; versions are append-only and
// ordered by VersionNumber ascending, contiguous from 1.
type Series struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Versions []Version `json:"versions"`
	Type     Type      `json:"type"`
}

// Latest returns the most recent version of the series, or nil when empty.
func (s *Series) Latest() *Version {
	if len(s.Versions) == 0 {
		return nil
	}
	return &s.Versions[len(s.Versions)-1]
}

// FindVersion returns the version with the given id, or nil.
func (s *Series) FindVersion(id int64) *Version {
	for i := range s.Versions {
		if s.Versions[i].ID == id {
			return &s.Versions[i]
		}
	}
	return nil
}

// Previous returns the version numbered one below v in the series, used for
// diffing. Returns nil for the root version.
func (s *Series) Previous(v *Version) *Version {
	if v == nil || v.VersionNumber <= 1 {
		return nil
	}
	for i := range s.Versions {
		if s.Versions[i].VersionNumber == v.VersionNumber-1 {
			return &s.Versions[i]
		}
	}
	return nil
}

// GenerationSession captures enough in-flight state to resume an interrupted
// generation. Snapshots older than the configured TTL are discarded.
type GenerationSession struct {
	Operation        Operation     `json:"type"`
	Model            string        `json:"model"`
	DocumentType     Type          `json:"documentType"`
	PromptVariant    PromptVariant `json:"prompt,omitempty"`
	OriginalMarkdown string        `json:"originalMarkdown,omitempty"`
	SeriesID         int64         `json:"seriesId,omitempty"`
	StartTime        int64         `json:"startTime"` // unix milliseconds
	Temperature      float64       `json:"temperature"`
}

// Expired reports whether the snapshot is older than ttl at time now.
func (gs *GenerationSession) Expired(now time.Time, ttl time.Duration) bool {
	start := time.UnixMilli(gs.StartTime)
	return now.Sub(start) > ttl
}

// FeedbackEntry is one user rating of a generated version. The feedback
// record is append-only.
type FeedbackEntry struct {
	VersionID int64  `json:"versionId"`
	Rating    int    `json:"rating"` // 1..5
	Comment   string `json:"comment"`
	Timestamp string `json:"timestamp"`
}
