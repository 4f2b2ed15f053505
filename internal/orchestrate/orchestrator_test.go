package orchestrate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/classify"
	"github.com/vilmerfrost/solvix/internal/common"
	"github.com/vilmerfrost/solvix/internal/events"
	"github.com/vilmerfrost/solvix/internal/schema"
	"github.com/vilmerfrost/solvix/internal/sla"
	"github.com/vilmerfrost/solvix/internal/validate"
	"github.com/vilmerfrost/solvix/internal/workflow"
)

type memSchemaRepo struct{}

func (memSchemaRepo) ResolvePublishedByID(context.Context, string, string) (schema.TemplateDefinition, error) {
	return schema.TemplateDefinition{}, common.ErrNotFound
}

func (memSchemaRepo) ResolvePublishedByType(context.Context, string, constants.DocType) (schema.TemplateDefinition, error) {
	return schema.TemplateDefinition{}, common.ErrNotFound
}

type memDecisions struct {
	mu    sync.Mutex
	saved map[string]classify.Decision
}

func (m *memDecisions) SaveDecision(_ context.Context, documentID string, d classify.Decision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		m.saved = make(map[string]classify.Decision)
	}
	m.saved[documentID] = d
	return nil
}

func (m *memDecisions) LatestDecision(_ context.Context, documentID string) (classify.Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.saved[documentID]
	if !ok {
		return classify.Decision{}, common.ErrNotFound
	}
	return d, nil
}

type memWorkflowRepo struct {
	mu    sync.Mutex
	tasks map[string]workflow.Task
}

func (m *memWorkflowRepo) UpsertTask(_ context.Context, t workflow.Task) (workflow.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tasks == nil {
		m.tasks = make(map[string]workflow.Task)
	}
	m.tasks[t.DocumentID] = t
	return t, nil
}

func (m *memWorkflowRepo) GetTask(_ context.Context, documentID string) (workflow.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[documentID]
	if !ok {
		return workflow.Task{}, common.ErrNotFound
	}
	return t, nil
}

func (m *memWorkflowRepo) AppendTaskEvent(context.Context, workflow.TaskEvent) error { return nil }

func (m *memWorkflowRepo) ListTaskEvents(context.Context, string) ([]workflow.TaskEvent, error) {
	return nil, nil
}

type memSla struct {
	mu    sync.Mutex
	evals []sla.Evaluation
}

func (m *memSla) AppendEvaluation(_ context.Context, ev sla.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evals = append(m.evals, ev)
	return nil
}

type memAudit struct {
	mu      sync.Mutex
	records []events.AuditRecord
}

func (m *memAudit) Record(_ context.Context, rec events.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

type memEvents struct {
	mu    sync.Mutex
	names []string
}

func (m *memEvents) Dispatch(_ context.Context, ev events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = append(m.names, ev.Name)
	return nil
}

type testDeps struct {
	decisions *memDecisions
	sla       *memSla
	audit     *memAudit
	events    *memEvents
	wfRepo    *memWorkflowRepo
}

func newTestOrchestrator() (*Orchestrator, *testDeps) {
	deps := &testDeps{
		decisions: &memDecisions{},
		sla:       &memSla{},
		audit:     &memAudit{},
		events:    &memEvents{},
		wfRepo:    &memWorkflowRepo{},
	}
	o := New(
		schema.NewStore(memSchemaRepo{}, nil),
		nil,
		validate.New(nil),
		workflow.NewEngine(deps.wfRepo, deps.events, deps.audit, nil),
		deps.decisions,
		deps.sla,
		sla.NewLogNotifier(nil),
		deps.events,
		deps.audit,
		nil,
	)
	return o, deps
}

func testConfig() ResolvedConfig {
	return ResolvedConfig{
		UserID:               "u1",
		HomeCurrency:         "SEK",
		AutoApproveThreshold: 60,
		HighConfidence:       0.8,
	}
}

const approvableInvoice = `Invoice No: INV-77
Supplier: Acme AB
Date: 2024-06-01
Total: 12500 SEK
OCR: 94340123456789
Bankgiro: 123-4567
Att betala senast 2024-06-30`

func TestProcessDocumentAutoApproves(t *testing.T) {
	o, deps := newTestOrchestrator()

	res, err := o.ProcessDocument(context.Background(), testConfig(), Document{
		ID:        "d1",
		Filename:  "invoice.pdf",
		Text:      approvableInvoice,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	assert.Equal(t, constants.DocTypeInvoice, res.DocType)
	assert.True(t, res.UsedDefaultSchema)
	assert.Empty(t, res.Validation.BlockingIssues)
	assert.GreaterOrEqual(t, res.Validation.Completeness, 60)
	assert.True(t, res.AutoApproved)
	assert.Equal(t, constants.ReviewStatusApproved, res.Task.Status)
	assert.Equal(t, constants.SlaRiskNone, res.Sla.Risk)

	_, ok := deps.decisions.saved["d1"]
	assert.True(t, ok, "decision persisted")
	require.Len(t, deps.sla.evals, 1)
	assert.Contains(t, deps.events.names, constants.EventDocumentClassified)
	assert.Contains(t, deps.events.names, constants.EventDocumentProcessed)
	assert.Contains(t, deps.events.names, constants.EventDocumentApproved)
}

func TestProcessDocumentBlockingIssuesPreventApproval(t *testing.T) {
	o, deps := newTestOrchestrator()

	res, err := o.ProcessDocument(context.Background(), testConfig(), Document{
		ID:        "d2",
		Filename:  "invoice.pdf",
		Text:      "Invoice\nOCR: 123456\nBankgiro: 123-4567\nAtt betala",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Validation.BlockingIssues, "document id and date are missing")
	assert.False(t, res.AutoApproved)
	assert.Equal(t, constants.ReviewStatusNew, res.Task.Status)
	assert.NotContains(t, deps.events.names, constants.EventDocumentApproved)
}

func TestProcessDocumentLowConfidencePreventsApproval(t *testing.T) {
	o, _ := newTestOrchestrator()
	cfg := testConfig()
	cfg.AutoApproveThreshold = 0

	// Enough fields to pass completeness, but only one taxonomy hit.
	res, err := o.ProcessDocument(context.Background(), cfg, Document{
		ID:        "d3",
		Filename:  "doc.pdf",
		Text:      "Invoice No: INV-9\nSupplier: Acme\nDate: 2024-06-01\nTotal: 10 SEK",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Less(t, res.Classification.ModelConfidence, 0.8)
	assert.False(t, res.AutoApproved)
}

func TestProcessDocumentRuleOverrideRoutesSchema(t *testing.T) {
	o, _ := newTestOrchestrator()
	cfg := testConfig()
	cfg.OverrideRules = []classify.OverrideRule{
		{Priority: 1, Keyword: "vågsedel", TargetDocType: constants.DocTypeWeighSlip},
	}

	res, err := o.ProcessDocument(context.Background(), cfg, Document{
		ID:       "d4",
		Filename: "slip.pdf",
		Text:     "Vågsedel\nDate: 2024-06-01\nNet weight: 1200 kg",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.DocTypeWeighSlip, res.DocType)
	assert.Equal(t, constants.SourceRuleOverride, res.Classification.Source)
}

func TestProcessDocumentMissingCreatedAt(t *testing.T) {
	o, deps := newTestOrchestrator()

	res, err := o.ProcessDocument(context.Background(), testConfig(), Document{
		ID:       "d5",
		Filename: "x.pdf",
		Text:     approvableInvoice,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.SlaRiskNone, res.Sla.Risk)
	require.Len(t, deps.sla.evals, 1)
	assert.Contains(t, deps.sla.evals[0].Reason, "unknown age")
}

type staticCancels struct {
	cancelled map[string]bool
}

func (s staticCancels) IsCancelled(_ context.Context, documentID string) (bool, error) {
	return s.cancelled[documentID], nil
}

func TestProcessBatchSkipsCancelled(t *testing.T) {
	o, _ := newTestOrchestrator()

	docs := []Document{
		{ID: "b1", Filename: "a.pdf", Text: approvableInvoice, CreatedAt: time.Now()},
		{ID: "b2", Filename: "b.pdf", Text: approvableInvoice, CreatedAt: time.Now()},
		{ID: "b3", Filename: "c.pdf", Text: approvableInvoice, CreatedAt: time.Now()},
	}
	items := o.ProcessBatch(context.Background(), testConfig(), docs, 2, staticCancels{
		cancelled: map[string]bool{"b2": true},
	})

	require.Len(t, items, 3)
	assert.False(t, items[0].Skipped)
	assert.NoError(t, items[0].Err)
	assert.True(t, items[1].Skipped)
	assert.False(t, items[2].Skipped)
	assert.Equal(t, "b1", items[0].DocumentID, "result order follows input order")
}

func TestSampleBounds(t *testing.T) {
	assert.Equal(t, "abc", Sample("abc", 10))
	assert.Equal(t, "ab", Sample("abcdef", 2))
}
