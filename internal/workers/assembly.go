// Package workers provides the bounded pool that assembles many document
// instances in parallel.
//
// Renders of different instances are independent (distinct signers and
// blobs), so a contract-wide render request fans out across the pool; only
// the per-signer aggregate updates stay serialised inside their own DB
// transactions.
package workers

import (
	"context"
	"sync"

	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/models"
)

const defaultConcurrency = 4

// Renderer renders one document instance. Satisfied by the render service.
type Renderer interface {
	RenderDocument(ctx context.Context, documentInstanceID int64) (models.DocumentInstance, error)
}

// Result is the outcome of one pooled render. Failures are reported per
// instance; one bad document never aborts the rest of the batch.
type Result struct {
	DocumentInstanceID int64
	Document           models.DocumentInstance
	Err                error
}

// AssemblyPool fans render requests out over a bounded number of goroutines.
type AssemblyPool struct {
	renderer    Renderer
	concurrency int
	logger      *logger.Logger
}

func NewAssemblyPool(renderer Renderer, concurrency int, logger *logger.Logger) *AssemblyPool {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &AssemblyPool{
		renderer:    renderer,
		concurrency: concurrency,
		logger:      logger,
	}
}

// RenderAll renders every named instance and returns one Result per input ID,
// in input order. It blocks until the whole batch is done; a cancelled
// context fails the remaining instances with the context's error.
func (p *AssemblyPool) RenderAll(ctx context.Context, documentInstanceIDs []int64) []Result {
	results := make([]Result, len(documentInstanceIDs))

	sem := make(chan struct{}, p.concurrency)
	var wg sync.WaitGroup
	for i, id := range documentInstanceIDs {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				results[i] = Result{DocumentInstanceID: id, Err: err}
				return
			}

			doc, err := p.renderer.RenderDocument(ctx, id)
			if err != nil {
				p.logger.Err(err).Int64("document_instance_id", id).Msg("pooled render failed")
			}
			results[i] = Result{DocumentInstanceID: id, Document: doc, Err: err}
		}(i, id)
	}
	wg.Wait()

	return results
}
