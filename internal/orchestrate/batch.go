package orchestrate

import (
	"context"
	"sync"
)

// CancelChecker is the cooperative out-of-band cancellation flag a batch
// caller maintains. Checked before each document; an in-flight provider call
// runs to completion or timeout.
type CancelChecker interface {
	IsCancelled(ctx context.Context, documentID string) (bool, error)
}

// BatchItem is one per-document outcome of a batch run.
type BatchItem struct {
	DocumentID string
	Result     ProcessResult
	Err        error
	Skipped    bool // cancelled before processing started
}

// ProcessBatch runs independent document pipelines in parallel, bounded by
// concurrency. Pipelines share no mutable state; configuration is read-only
// per run.
func (o *Orchestrator) ProcessBatch(ctx context.Context, cfg ResolvedConfig, docs []Document, concurrency int, cancels CancelChecker) []BatchItem {
	if concurrency < 1 {
		concurrency = 1
	}

	items := make([]BatchItem, len(docs))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc Document) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			item := BatchItem{DocumentID: doc.ID}
			if cancels != nil {
				cancelled, err := cancels.IsCancelled(ctx, doc.ID)
				if err == nil && cancelled {
					item.Skipped = true
					items[i] = item
					o.log.Info("orchestrate.batch.skipped", "document_id", doc.ID)
					return
				}
			}
			item.Result, item.Err = o.ProcessDocument(ctx, cfg, doc)
			items[i] = item
		}(i, doc)
	}
	wg.Wait()
	return items
}
