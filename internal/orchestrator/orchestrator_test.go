package orchestrator

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"mithaq/internal/document"
	"mithaq/internal/gateway"
	"mithaq/internal/history"
	"mithaq/internal/kvstore"
	"mithaq/internal/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const approval = `{"decision":"APPROVED","reason":"ok","errors":[]}`
const rejection = `{"decision":"REJECTED","reason":"incomplete","errors":[{"errorType":"EmptyCell","location":"table","description":"empty cell"}]}`

// scriptedInvoker replays generation texts and judge verdicts in order and
// records every generation spec it sees.
type scriptedInvoker struct {
	genTexts []string
	verdicts []string
	genSpecs []*prompt.Spec
	onGen    func(spec *prompt.Spec)
}

func (s *scriptedInvoker) Invoke(_ context.Context, spec *prompt.Spec, _ string, opts gateway.Options) (string, error) {
	if opts.ResponseSchema != nil {
		v := s.verdicts[0]
		s.verdicts = s.verdicts[1:]
		return v, nil
	}
	s.genSpecs = append(s.genSpecs, spec)
	if s.onGen != nil {
		s.onGen(spec)
	}
	t := s.genTexts[0]
	s.genTexts = s.genTexts[1:]
	return t, nil
}

func newTestOrchestrator(t *testing.T, stub *scriptedInvoker) (*Orchestrator, *history.Store, *kvstore.MemoryStore) {
	t.Helper()
	kv := kvstore.NewMemory()
	hist, err := history.NewStore(kv)
	require.NoError(t, err)

	o := New(stub, hist, kv, time.Hour)
	o.now = func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	}
	return o, hist, kv
}

const rawContract = `<div dir='rtl'>
# عقد خدمات استشارية

**الطرف الأول:** شركة الاختبار

**الطرف الثاني:** مؤسسة المراجعة

تم التوقيع بتاريخ **17 September 2025**.

<table><tr><th>البند</th><th>القيمة</th></tr><tr><td>المدة</td><td>12 شهراً</td></tr></table>
</div>`

func TestGenerateNewEndToEnd(t *testing.T) {
	stub := &scriptedInvoker{genTexts: []string{rawContract}, verdicts: []string{approval}}
	o, hist, kv := newTestOrchestrator(t, stub)

	committed, err := o.Generate(context.Background(), Request{
		Operation: document.OpNew,
		Quantity:  1,
		DocType:   document.TypeContract,
		ModelID:   "gemini-2.5-pro",
	})
	require.NoError(t, err)
	require.Len(t, committed, 1)

	v := committed[0]
	assert.Equal(t, 1, v.VersionNumber)
	assert.Equal(t, "شركة الاختبار", v.Party1)
	assert.Equal(t, "مؤسسة المراجعة", v.Party2)
	assert.Equal(t, "20250917", v.DocumentDate)
	assert.Equal(t, document.TypeContract, v.Type)

	// Sanitized before commit: pipe table in, HTML out.
	assert.NotContains(t, v.Markdown, "<table>")
	assert.NotContains(t, v.Markdown, "<div")
	assert.Contains(t, v.Markdown, "| البند | القيمة |")
	assert.Contains(t, v.Markdown, "| المدة | 12 شهراً |")

	require.Len(t, hist.All(), 1)
	assert.Equal(t, "شركة الاختبار vs مؤسسة المراجعة", hist.All()[0].Name)

	// Session snapshot removed on completion.
	_, ok, err := kv.Get(kvstore.KeySession)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionSnapshotPrecedesFirstModelCall(t *testing.T) {
	var sessionDuringCall bool
	stub := &scriptedInvoker{genTexts: []string{rawContract}, verdicts: []string{approval}}
	o, _, kv := newTestOrchestrator(t, stub)
	stub.onGen = func(*prompt.Spec) {
		_, sessionDuringCall, _ = kv.Get(kvstore.KeySession)
	}

	_, err := o.Generate(context.Background(), Request{
		Operation: document.OpNew,
		DocType:   document.TypeContract,
	})
	require.NoError(t, err)
	assert.True(t, sessionDuringCall, "snapshot must exist before the first model call")
}

func TestVersionBatchCompounds(t *testing.T) {
	stub := &scriptedInvoker{
		genTexts: []string{rawContract, "النسخة المعدلة الأولى", "النسخة المعدلة الثانية"},
		verdicts: []string{approval, approval, approval},
	}
	o, hist, _ := newTestOrchestrator(t, stub)

	created, err := o.Generate(context.Background(), Request{
		Operation: document.OpNew,
		DocType:   document.TypeContract,
	})
	require.NoError(t, err)
	seriesID := created[0].ID

	committed, err := o.Generate(context.Background(), Request{
		Operation: document.OpVersion,
		Quantity:  2,
		SeriesID:  seriesID,
	})
	require.NoError(t, err)
	require.Len(t, committed, 2)
	assert.Equal(t, 2, committed[0].VersionNumber)
	assert.Equal(t, 3, committed[1].VersionNumber)

	// Amendment 1 binds the series' latest markdown; amendment 2 binds
	// amendment 1's sanitized output. Outputs compound across the batch.
	require.Len(t, stub.genSpecs, 3)
	first := hist.Find(seriesID).Versions[0].Markdown
	assert.Equal(t, first, stub.genSpecs[1].Input.OriginalDocumentText)
	assert.Equal(t, "النسخة المعدلة الأولى", stub.genSpecs[2].Input.OriginalDocumentText)

	series := hist.Find(seriesID)
	require.Len(t, series.Versions, 3)
}

func TestBatchAbortKeepsPriorCommits(t *testing.T) {
	// Item 1 approves. Item 2 rejects twice and exhausts the retry budget.
	stub := &scriptedInvoker{
		genTexts: []string{rawContract, "مستند ثانٍ", "مستند ثانٍ مصحح"},
		verdicts: []string{approval, rejection, rejection},
	}
	o, hist, kv := newTestOrchestrator(t, stub)

	committed, err := o.Generate(context.Background(), Request{
		Operation: document.OpNew,
		Quantity:  3,
		DocType:   document.TypeContract,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document 2 of 3")

	// The first item stays committed; nothing from the failed iteration or
	// the never-started third iteration lands.
	assert.Len(t, committed, 1)
	assert.Len(t, hist.All(), 1)

	_, ok, _ := kv.Get(kvstore.KeySession)
	assert.False(t, ok, "session removed on failure too")
}

func TestGenerateValidation(t *testing.T) {
	stub := &scriptedInvoker{}
	o, _, _ := newTestOrchestrator(t, stub)

	_, err := o.Generate(context.Background(), Request{Operation: "weird"})
	assert.Error(t, err)

	_, err = o.Generate(context.Background(), Request{Operation: document.OpNew, DocType: "memo"})
	assert.Error(t, err)

	_, err = o.Generate(context.Background(), Request{Operation: document.OpVersion, SeriesID: 404})
	assert.Error(t, err)
	assert.Empty(t, stub.genSpecs, "validation failures make no model calls")
}

func TestLoadSessionFreshAndStale(t *testing.T) {
	stub := &scriptedInvoker{}
	o, _, kv := newTestOrchestrator(t, stub)
	now := o.now()

	fresh := document.GenerationSession{
		Operation: document.OpNew, DocumentType: document.TypeContract,
		StartTime: now.Add(-30 * time.Minute).UnixMilli(),
	}
	raw, _ := json.Marshal(fresh)
	require.NoError(t, kv.Set(kvstore.KeySession, string(raw)))

	got, ok, err := o.LoadSession()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, document.OpNew, got.Operation)

	stale := fresh
	stale.StartTime = now.Add(-2 * time.Hour).UnixMilli()
	raw, _ = json.Marshal(stale)
	require.NoError(t, kv.Set(kvstore.KeySession, string(raw)))

	_, ok, err = o.LoadSession()
	require.NoError(t, err)
	assert.False(t, ok)
	_, exists, _ := kv.Get(kvstore.KeySession)
	assert.False(t, exists, "stale snapshot removed")
}

func TestLoadSessionCorrupt(t *testing.T) {
	stub := &scriptedInvoker{}
	o, _, kv := newTestOrchestrator(t, stub)
	require.NoError(t, kv.Set(kvstore.KeySession, "{broken"))

	_, ok, err := o.LoadSession()
	require.NoError(t, err)
	assert.False(t, ok)
	_, exists, _ := kv.Get(kvstore.KeySession)
	assert.False(t, exists)
}

func TestAbandonSession(t *testing.T) {
	stub := &scriptedInvoker{}
	o, _, kv := newTestOrchestrator(t, stub)
	require.NoError(t, kv.Set(kvstore.KeySession, `{"type":"new","startTime":1}`))

	o.AbandonSession()
	_, ok, _ := kv.Get(kvstore.KeySession)
	assert.False(t, ok)
}

func TestBatchSiblingIDsDisambiguated(t *testing.T) {
	stub := &scriptedInvoker{
		genTexts: []string{rawContract, strings.Replace(rawContract, "شركة الاختبار", "شركة أخرى", 1)},
		verdicts: []string{approval, approval},
	}
	o, _, _ := newTestOrchestrator(t, stub)

	committed, err := o.Generate(context.Background(), Request{
		Operation: document.OpNew,
		Quantity:  2,
		DocType:   document.TypeContract,
	})
	require.NoError(t, err)
	require.Len(t, committed, 2)
	assert.NotEqual(t, committed[0].ID, committed[1].ID, "same-millisecond siblings get distinct ids")
}
