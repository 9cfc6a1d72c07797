package engine

import (
	"context"
	"sync"

	"github.com/vk/synthgrid/internal/ctxlog"
	"github.com/vk/synthgrid/internal/render"
	"github.com/vk/synthgrid/internal/writer"
)

// dispatcher fans rendered records out to a fixed pool of writer workers.
// Rendering stays on the tick goroutine; only persistence is asynchronous.
type dispatcher struct {
	sink    writer.Writer
	jobs    chan *render.Record
	wg      sync.WaitGroup
	workers int

	mu       sync.Mutex
	firstErr error
}

func newDispatcher(sink writer.Writer, workers int) *dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &dispatcher{
		sink:    sink,
		jobs:    make(chan *render.Record, workers*2),
		workers: workers,
	}
}

// start launches the worker pool. Workers exit when the job channel is
// closed; ctx only scopes their logging and write calls.
func (d *dispatcher) start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		go d.worker(ctx, i)
	}
}

func (d *dispatcher) worker(ctx context.Context, id int) {
	logger := ctxlog.FromContext(ctx).With("worker_id", id)
	logger.Debug("Write worker started.")
	for rec := range d.jobs {
		if err := d.sink.Write(ctx, rec); err != nil {
			logger.Error("Failed to write frame.", "index", rec.Index, "error", err)
			d.recordErr(err)
		}
		d.wg.Done()
	}
	logger.Debug("Write worker stopped.")
}

// dispatch queues one record for writing.
func (d *dispatcher) dispatch(rec *render.Record) {
	d.wg.Add(1)
	d.jobs <- rec
}

// drain blocks until every dispatched record has been handed to the writer
// and returns the first write error, if any.
func (d *dispatcher) drain() error {
	d.wg.Wait()
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.firstErr
}

// close shuts the worker pool down. Pending records are still processed.
func (d *dispatcher) close() {
	close(d.jobs)
}

func (d *dispatcher) recordErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.firstErr == nil {
		d.firstErr = err
	}
}
