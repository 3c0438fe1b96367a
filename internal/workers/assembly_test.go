package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridoc/signcore/internal/logger"
	"github.com/veridoc/signcore/models"
)

// countingRenderer tracks the maximum number of concurrent RenderDocument
// calls it observes.
type countingRenderer struct {
	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	render func(documentInstanceID int64) (models.DocumentInstance, error)
}

func (r *countingRenderer) RenderDocument(_ context.Context, documentInstanceID int64) (models.DocumentInstance, error) {
	current := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)

	for {
		observed := r.maxInFlight.Load()
		if current <= observed || r.maxInFlight.CompareAndSwap(observed, current) {
			break
		}
	}

	// give the other workers a chance to pile up
	time.Sleep(5 * time.Millisecond)

	if r.render != nil {
		return r.render(documentInstanceID)
	}
	return models.DocumentInstance{ID: documentInstanceID}, nil
}

func TestRenderAll_PreservesInputOrder(t *testing.T) {
	pool := NewAssemblyPool(&countingRenderer{}, 3, logger.Nop())

	ids := []int64{9, 3, 7, 1, 5}
	results := pool.RenderAll(context.Background(), ids)

	require.Len(t, results, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, results[i].DocumentInstanceID)
		assert.Equal(t, id, results[i].Document.ID)
		assert.NoError(t, results[i].Err)
	}
}

func TestRenderAll_BoundsConcurrency(t *testing.T) {
	renderer := &countingRenderer{}
	pool := NewAssemblyPool(renderer, 2, logger.Nop())

	ids := make([]int64, 12)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	pool.RenderAll(context.Background(), ids)

	assert.LessOrEqual(t, renderer.maxInFlight.Load(), int32(2))
}

func TestRenderAll_FailureIsPerInstance(t *testing.T) {
	renderErr := errors.New("blob missing")
	renderer := &countingRenderer{
		render: func(id int64) (models.DocumentInstance, error) {
			if id == 2 {
				return models.DocumentInstance{}, renderErr
			}
			return models.DocumentInstance{ID: id}, nil
		},
	}
	pool := NewAssemblyPool(renderer, 4, logger.Nop())

	results := pool.RenderAll(context.Background(), []int64{1, 2, 3})

	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, renderErr)
	assert.NoError(t, results[2].Err, "one failed instance must not abort the batch")
}

func TestRenderAll_CancelledContextFailsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	renderer := &countingRenderer{
		render: func(id int64) (models.DocumentInstance, error) {
			calls.Add(1)
			return models.DocumentInstance{ID: id}, nil
		},
	}
	pool := NewAssemblyPool(renderer, 2, logger.Nop())

	results := pool.RenderAll(ctx, []int64{1, 2, 3})

	require.Len(t, results, 3)
	for _, res := range results {
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
	assert.Zero(t, calls.Load())
}

func TestRenderAll_EmptyBatch(t *testing.T) {
	pool := NewAssemblyPool(&countingRenderer{}, 2, logger.Nop())

	assert.Empty(t, pool.RenderAll(context.Background(), nil))
}

func TestNewAssemblyPool_DefaultsConcurrency(t *testing.T) {
	// a zero-valued config must still yield a working pool
	var mu sync.Mutex
	seen := map[int64]bool{}
	renderer := &countingRenderer{
		render: func(id int64) (models.DocumentInstance, error) {
			mu.Lock()
			seen[id] = true
			mu.Unlock()
			return models.DocumentInstance{ID: id}, nil
		},
	}

	pool := NewAssemblyPool(renderer, 0, logger.Nop())
	pool.RenderAll(context.Background(), []int64{1, 2, 3})

	assert.Len(t, seen, 3)
}
