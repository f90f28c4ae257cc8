// Package orchestrator coordinates a generation request end to end: prompt
// selection, the quality loop, sanitization, detail parsing, and the commit
// into history. It also owns the crash-recovery session snapshot.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mithaq/internal/docparse"
	"mithaq/internal/document"
	"mithaq/internal/gateway"
	"mithaq/internal/history"
	"mithaq/internal/kvstore"
	"mithaq/internal/logging"
	"mithaq/internal/prompt"
	"mithaq/internal/quality"
	"mithaq/internal/sanitize"
)

// timestampLayout is the display format stored on versions.
const timestampLayout = "2006-01-02 15:04"

// Orchestrator drives quality-controlled generations against one model
// client and one history store.
type Orchestrator struct {
	loop       *quality.Loop
	history    *history.Store
	kv         kvstore.Store
	sessionTTL time.Duration
	now        func() time.Time
}

// New creates an orchestrator. The model client is passed in explicitly and
// reused for the process lifetime.
func New(client quality.Invoker, hist *history.Store, kv kvstore.Store, sessionTTL time.Duration) *Orchestrator {
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &Orchestrator{
		loop:       quality.NewLoop(client),
		history:    hist,
		kv:         kv,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Request describes one generation run.
type Request struct {
	Operation   document.Operation
	Quantity    int
	DocType     document.Type
	SeriesID    int64 // required for version and final operations
	ModelID     string
	Variant     document.PromptVariant
	Temperature float64
}

// Generate runs the request. Batch iterations execute strictly sequentially;
// in version mode each iteration's output becomes the next iteration's input,
// so amendments compound. Every approved document is sanitized and parsed
// before it is committed; a failure aborts the remaining iterations but
// leaves prior iterations' commits in place.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]document.Version, error) {
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	if req.Operation != document.OpNew && req.Operation != document.OpVersion && req.Operation != document.OpFinal {
		return nil, fmt.Errorf("unknown operation %q", req.Operation)
	}

	var baseMarkdown string
	if req.Operation != document.OpNew {
		series := o.history.Find(req.SeriesID)
		if series == nil {
			return nil, fmt.Errorf("series %d not found", req.SeriesID)
		}
		latest := series.Latest()
		if latest == nil {
			return nil, fmt.Errorf("series %d has no versions", req.SeriesID)
		}
		baseMarkdown = latest.Markdown
		// The series type is fixed at creation and wins over the request.
		req.DocType = series.Type
	} else if !req.DocType.Valid() {
		return nil, fmt.Errorf("unknown document type %q", req.DocType)
	}

	start := o.now()
	session := document.GenerationSession{
		Operation:        req.Operation,
		Model:            req.ModelID,
		DocumentType:     req.DocType,
		PromptVariant:    req.Variant,
		OriginalMarkdown: baseMarkdown,
		SeriesID:         req.SeriesID,
		StartTime:        start.UnixMilli(),
		Temperature:      req.Temperature,
	}
	if err := o.saveSession(&session); err != nil {
		return nil, err
	}
	defer o.clearSession()

	logging.Session("Generate: op=%s type=%s quantity=%d model=%s",
		req.Operation, req.DocType, req.Quantity, req.ModelID)

	opts := gateway.Options{Temperature: req.Temperature}
	latestMarkdown := baseMarkdown
	committed := make([]document.Version, 0, req.Quantity)

	for i := 0; i < req.Quantity; i++ {
		spec, err := o.buildSpec(req, latestMarkdown)
		if err != nil {
			return committed, err
		}

		text, err := o.loop.Run(ctx, spec, req.ModelID, opts)
		if err != nil {
			logging.SessionError("Generate: iteration %d/%d failed: %v", i+1, req.Quantity, err)
			return committed, fmt.Errorf("document %d of %d: %w", i+1, req.Quantity, err)
		}

		// The store never sees unsanitized text.
		markdown := sanitize.Markdown(text)
		details := docparse.Parse(markdown, req.DocType)

		version := document.Version{
			// The batch index disambiguates siblings sharing a millisecond.
			ID:           start.UnixMilli() + int64(i),
			Timestamp:    o.now().Format(timestampLayout),
			Markdown:     markdown,
			Party1:       details.Party1,
			Party2:       details.Party2,
			DocumentDate: details.DocumentDate,
			Subject:      details.Subject,
			Type:         req.DocType,
		}

		if req.Operation == document.OpNew {
			created, err := o.history.CreateSeries(req.DocType, []document.Version{version})
			if err != nil {
				return committed, err
			}
			committed = append(committed, created[0].Versions[0])
		} else {
			if err := o.history.AppendVersions(req.SeriesID, []document.Version{version}); err != nil {
				return committed, err
			}
			series := o.history.Find(req.SeriesID)
			committed = append(committed, series.Versions[len(series.Versions)-1])
			// Output feeds the next iteration's input.
			latestMarkdown = markdown
		}
	}

	logging.Session("Generate: committed %d version(s)", len(committed))
	return committed, nil
}

func (o *Orchestrator) buildSpec(req Request, latestMarkdown string) (*prompt.Spec, error) {
	switch req.Operation {
	case document.OpNew:
		// Each batch item draws its own random formatting directive.
		return prompt.Generation(req.DocType, req.Variant)
	case document.OpVersion:
		return prompt.Amendment(req.DocType, latestMarkdown)
	default:
		return prompt.Finalization(req.DocType, latestMarkdown)
	}
}

// ============================================================================
// RECOVERY SESSION
// ============================================================================

func (o *Orchestrator) saveSession(s *document.GenerationSession) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("serializing session: %w", err)
	}
	if err := o.kv.Set(kvstore.KeySession, string(raw)); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	logging.SessionDebug("saveSession: op=%s start=%d", s.Operation, s.StartTime)
	return nil
}

func (o *Orchestrator) clearSession() {
	if err := o.kv.Remove(kvstore.KeySession); err != nil {
		logging.SessionWarn("clearSession: %v", err)
	}
}

// LoadSession returns the pending recovery snapshot, if one exists and is
// fresh. Stale or corrupt snapshots are removed and reported as absent.
func (o *Orchestrator) LoadSession() (*document.GenerationSession, bool, error) {
	raw, ok, err := o.kv.Get(kvstore.KeySession)
	if err != nil {
		return nil, false, fmt.Errorf("loading session: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	var session document.GenerationSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		logging.SessionWarn("LoadSession: corrupt snapshot, discarding: %v", err)
		o.clearSession()
		return nil, false, nil
	}
	if session.Expired(o.now(), o.sessionTTL) {
		logging.Session("LoadSession: snapshot older than %v, discarding", o.sessionTTL)
		o.clearSession()
		return nil, false, nil
	}
	return &session, true, nil
}

// AbandonSession discards the pending snapshot without resuming it.
func (o *Orchestrator) AbandonSession() {
	o.clearSession()
}
