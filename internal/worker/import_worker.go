package worker

import (
	"context"
	"sync"
	"time"

	"github.com/mkrelic/casevault/internal/feed"
	"github.com/mkrelic/casevault/internal/logger"
)

// importJob is one full refresh: import the feed, then rebuild the rarity
// cases from the new catalog state.
type importJob struct {
	importer *feed.Importer
}

func (j *importJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgImportRunStarted)

	counts, err := j.importer.ImportAllLimiteds(ctx)
	if err != nil {
		return err
	}

	if err := j.importer.CreateRarityBasedCases(ctx); err != nil {
		return err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	log.Info(LogMsgImportRunFinished, "items_imported", total)
	return nil
}

// ImportWorker periodically refreshes the catalog from the item feed and
// rebuilds the rarity-based cases. A run that finds the feed unavailable is
// logged and retried on the next tick; the catalog keeps serving whatever
// was imported last.
type ImportWorker struct {
	importer *feed.Importer
	interval time.Duration
	pool     *Pool
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewImportWorker creates a new ImportWorker
func NewImportWorker(importer *feed.Importer, interval time.Duration) *ImportWorker {
	return &ImportWorker{
		importer: importer,
		interval: interval,
		// A single worker: overlapping imports would race on the upserts
		pool:     NewPool(1, 1),
		shutdown: make(chan struct{}),
	}
}

// Start runs one import immediately and then re-runs on every interval tick.
func (w *ImportWorker) Start() {
	w.pool.Start()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		log := logger.FromContext(context.Background())
		log.Info(LogMsgImportWorkerStarted, "interval", w.interval)

		w.pool.Enqueue(&importJob{importer: w.importer})

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.pool.Enqueue(&importJob{importer: w.importer})
			case <-w.shutdown:
				return
			}
		}
	}()
}

// Shutdown stops the worker and waits for any in-flight run to finish.
func (w *ImportWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)

	close(w.shutdown)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		w.pool.Stop()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgImportWorkerStopped)
		return nil
	case <-ctx.Done():
		log.Warn("Catalog import worker shutdown timeout")
		return ctx.Err()
	}
}
