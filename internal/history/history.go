// Package history holds the versioned document collection: an in-memory list
// of series mirrored synchronously to the key-value store. Every mutation
// rewrites the whole persisted collection; there is no delta persistence.
package history

import (
	"encoding/json"
	"fmt"

	"mithaq/internal/docparse"
	"mithaq/internal/document"
	"mithaq/internal/kvstore"
	"mithaq/internal/logging"
)

// Store is the document history. Not safe for concurrent use; the pipeline
// has exactly one writer.
type Store struct {
	kv     kvstore.Store
	series []document.Series // newest series first

	selectedSeries  int64
	selectedVersion int64
}

// NewStore loads the persisted history from kv. A corrupt payload is removed
// and replaced with an empty collection rather than surfaced as an error.
// A legacy contract-only history, if present, is migrated in.
func NewStore(kv kvstore.Store) (*Store, error) {
	s := &Store{kv: kv}

	raw, ok, err := kv.Get(kvstore.KeyHistory)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.series); err != nil {
			logging.StoreError("NewStore: corrupt history payload, starting empty: %v", err)
			s.series = nil
			if err := kv.Remove(kvstore.KeyHistory); err != nil {
				return nil, fmt.Errorf("removing corrupt history: %w", err)
			}
		}
	}

	migrated, err := s.migrateLegacy()
	if err != nil {
		return nil, err
	}
	if migrated {
		if err := s.persist(); err != nil {
			return nil, err
		}
	}

	logging.Store("History loaded: %d series", len(s.series))
	return s, nil
}

// migrateLegacy folds the pre-multi-type history (contracts only, under its
// own key) into the current collection, re-parsing fields the old records
// never carried. The legacy key is removed afterwards.
func (s *Store) migrateLegacy() (bool, error) {
	raw, ok, err := s.kv.Get(kvstore.KeyLegacyHistory)
	if err != nil {
		return false, fmt.Errorf("loading legacy history: %w", err)
	}
	if !ok {
		return false, nil
	}

	var legacy []document.Series
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		logging.StoreWarn("migrateLegacy: corrupt legacy payload, dropping: %v", err)
		return false, s.kv.Remove(kvstore.KeyLegacyHistory)
	}

	for i := range legacy {
		series := &legacy[i]
		if series.Type == "" {
			series.Type = document.TypeContract
		}
		for j := range series.Versions {
			v := &series.Versions[j]
			if v.Type == "" {
				v.Type = series.Type
			}
			if v.Party1 == "" || v.Party2 == "" || v.DocumentDate == "" {
				d := docparse.Parse(v.Markdown, v.Type)
				if v.Party1 == "" {
					v.Party1 = d.Party1
				}
				if v.Party2 == "" {
					v.Party2 = d.Party2
				}
				if v.DocumentDate == "" {
					v.DocumentDate = d.DocumentDate
				}
			}
		}
	}

	s.series = append(s.series, legacy...)
	if err := s.kv.Remove(kvstore.KeyLegacyHistory); err != nil {
		return false, fmt.Errorf("removing legacy history: %w", err)
	}
	logging.Store("migrateLegacy: merged %d legacy series", len(legacy))
	return true, nil
}

// persist rewrites the entire collection to the key-value store.
func (s *Store) persist() error {
	raw, err := json.Marshal(s.series)
	if err != nil {
		return fmt.Errorf("serializing history: %w", err)
	}
	if err := s.kv.Set(kvstore.KeyHistory, string(raw)); err != nil {
		return fmt.Errorf("persisting history: %w", err)
	}
	return nil
}

// seriesName derives the immutable human label for a new series from its root
// version's parsed details.
func seriesName(root *document.Version) string {
	switch root.Type {
	case document.TypeLetter:
		if root.Subject != "" && root.Subject != document.UnknownSubject {
			return root.Subject
		}
		return "خطاب " + root.Timestamp
	case document.TypeAgreement:
		if root.Party1 != document.UnknownParty && root.Party2 != document.UnknownParty {
			return "اتفاقية " + root.Party1 + " و " + root.Party2
		}
		return "اتفاقية " + root.Timestamp
	default:
		if root.Party1 != document.UnknownParty && root.Party2 != document.UnknownParty {
			return root.Party1 + " vs " + root.Party2
		}
		return "عقد " + root.Timestamp
	}
}

// ============================================================================
// MUTATIONS
// ============================================================================

// CreateSeries turns each version into an independent new series rooted at
// that version. The batch lands most-recent-first: the last version generated
// becomes the first series in the collection. Selection moves to the last
// generated version.
func (s *Store) CreateSeries(docType document.Type, versions []document.Version) ([]document.Series, error) {
	if len(versions) == 0 {
		return nil, fmt.Errorf("no versions to create series from")
	}

	created := make([]document.Series, 0, len(versions))
	for i := range versions {
		v := versions[i]
		v.VersionNumber = 1
		v.Type = docType
		series := document.Series{
			ID:       v.ID,
			Name:     seriesName(&v),
			Versions: []document.Version{v},
			Type:     docType,
		}
		created = append(created, series)
		// Prepending each keeps the newest at the head.
		s.series = append([]document.Series{series}, s.series...)
	}

	last := created[len(created)-1]
	s.selectedSeries = last.ID
	s.selectedVersion = last.Versions[0].ID

	if err := s.persist(); err != nil {
		return nil, err
	}
	logging.Store("CreateSeries: %d new %s series", len(created), docType)
	return created, nil
}

// AppendVersions appends versions to an existing series in order, continuing
// its version-number sequence. Selection moves to the last appended version.
func (s *Store) AppendVersions(seriesID int64, versions []document.Version) error {
	if len(versions) == 0 {
		return fmt.Errorf("no versions to append")
	}
	series := s.find(seriesID)
	if series == nil {
		return fmt.Errorf("series %d not found", seriesID)
	}

	next := len(series.Versions) + 1
	for i := range versions {
		v := versions[i]
		v.VersionNumber = next + i
		v.Type = series.Type
		series.Versions = append(series.Versions, v)
	}

	s.selectedSeries = seriesID
	s.selectedVersion = series.Versions[len(series.Versions)-1].ID

	if err := s.persist(); err != nil {
		return err
	}
	logging.Store("AppendVersions: series %d now at version %d", seriesID, len(series.Versions))
	return nil
}

// DeleteSeries removes one series. Deleting the selected series clears the
// selection.
func (s *Store) DeleteSeries(seriesID int64) error {
	idx := -1
	for i := range s.series {
		if s.series[i].ID == seriesID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("series %d not found", seriesID)
	}
	s.series = append(s.series[:idx], s.series[idx+1:]...)

	if s.selectedSeries == seriesID {
		s.selectedSeries = 0
		s.selectedVersion = 0
	}
	return s.persist()
}

// Clear removes every series and the selection.
func (s *Store) Clear() error {
	s.series = nil
	s.selectedSeries = 0
	s.selectedVersion = 0
	return s.persist()
}

// SetFeedbackSubmitted flips the feedback flag on exactly one version. The
// flag is the only field that mutates after a version is created.
func (s *Store) SetFeedbackSubmitted(versionID int64) error {
	for i := range s.series {
		if v := s.series[i].FindVersion(versionID); v != nil {
			v.FeedbackSubmitted = true
			return s.persist()
		}
	}
	return fmt.Errorf("version %d not found", versionID)
}

// Select moves the current pointers. A zero versionID selects the series'
// latest version.
func (s *Store) Select(seriesID, versionID int64) error {
	series := s.find(seriesID)
	if series == nil {
		return fmt.Errorf("series %d not found", seriesID)
	}
	if versionID == 0 {
		latest := series.Latest()
		if latest == nil {
			return fmt.Errorf("series %d has no versions", seriesID)
		}
		versionID = latest.ID
	} else if series.FindVersion(versionID) == nil {
		return fmt.Errorf("version %d not in series %d", versionID, seriesID)
	}
	s.selectedSeries = seriesID
	s.selectedVersion = versionID
	return nil
}

// AddFeedback appends one rating record to the append-only feedback log and
// marks the version as rated.
func (s *Store) AddFeedback(entry document.FeedbackEntry) error {
	if entry.Rating < 1 || entry.Rating > 5 {
		return fmt.Errorf("rating must be 1-5, got %d", entry.Rating)
	}

	var entries []document.FeedbackEntry
	raw, ok, err := s.kv.Get(kvstore.KeyFeedback)
	if err != nil {
		return fmt.Errorf("loading feedback: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			logging.StoreWarn("AddFeedback: corrupt feedback payload, restarting log: %v", err)
			entries = nil
		}
	}
	entries = append(entries, entry)

	out, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("serializing feedback: %w", err)
	}
	if err := s.kv.Set(kvstore.KeyFeedback, string(out)); err != nil {
		return fmt.Errorf("persisting feedback: %w", err)
	}

	return s.SetFeedbackSubmitted(entry.VersionID)
}

// ============================================================================
// ACCESSORS
// ============================================================================

func (s *Store) find(seriesID int64) *document.Series {
	for i := range s.series {
		if s.series[i].ID == seriesID {
			return &s.series[i]
		}
	}
	return nil
}

// All returns the series collection, newest first.
func (s *Store) All() []document.Series {
	return s.series
}

// Find returns the series with the given id, or nil.
func (s *Store) Find(seriesID int64) *document.Series {
	return s.find(seriesID)
}

// FindVersion locates a version across all series, returning its series too.
func (s *Store) FindVersion(versionID int64) (*document.Series, *document.Version) {
	for i := range s.series {
		if v := s.series[i].FindVersion(versionID); v != nil {
			return &s.series[i], v
		}
	}
	return nil, nil
}

// Current returns the selected series and version, either possibly nil.
func (s *Store) Current() (*document.Series, *document.Version) {
	series := s.find(s.selectedSeries)
	if series == nil {
		return nil, nil
	}
	return series, series.FindVersion(s.selectedVersion)
}
