package worker

import (
	"context"

	"github.com/ppiankov/listingcheck/internal/model"
)

// ClientScanner scans one client across its listing sites.
type ClientScanner interface {
	ScanClient(ctx context.Context, client model.Client) *model.Report
}

// ClientJob scans a single client. Index is the client's position in the
// batch input; names are display labels and need not be unique.
type ClientJob struct {
	Index   int
	Client  model.Client
	Scanner ClientScanner
}

// Execute runs the scan. Per-site failures live inside the report; the job
// itself only fails on cancellation.
func (j *ClientJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &ClientResult{Index: j.Index, Client: j.Client.Name, Error: err}
	}
	return &ClientResult{
		Index:  j.Index,
		Client: j.Client.Name,
		Report: j.Scanner.ScanClient(ctx, j.Client),
	}
}

// ClientResult is the outcome of one client scan job.
type ClientResult struct {
	Index  int
	Client string
	Report *model.Report
	Error  error
}

// Err returns the job-level error, if any.
func (r *ClientResult) Err() error { return r.Error }

// BatchProcessor scans many clients concurrently.
type BatchProcessor struct {
	scanner     ClientScanner
	concurrency int
}

// NewBatchProcessor creates a batch processor over the given scanner.
func NewBatchProcessor(scanner ClientScanner, concurrency int) *BatchProcessor {
	return &BatchProcessor{scanner: scanner, concurrency: concurrency}
}

// Process scans all clients and returns their results in input order.
func (b *BatchProcessor) Process(ctx context.Context, clients []model.Client) []*ClientResult {
	if len(clients) == 0 {
		return nil
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Cancel the pool's workers when the caller's context ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	for i, client := range clients {
		pool.Submit(&ClientJob{Index: i, Client: client, Scanner: b.scanner})
	}
	results := pool.Wait()

	// Pool completion order is arbitrary; restore input order by index. A
	// cancelled batch may leave slots empty, those are dropped.
	slots := make([]*ClientResult, len(clients))
	for _, r := range results {
		cr := r.(*ClientResult)
		if cr.Index >= 0 && cr.Index < len(slots) {
			slots[cr.Index] = cr
		}
	}
	ordered := make([]*ClientResult, 0, len(results))
	for _, cr := range slots {
		if cr != nil {
			ordered = append(ordered, cr)
		}
	}
	return ordered
}
