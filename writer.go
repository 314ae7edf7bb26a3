package wikilinks

import (
	"context"
	"log/slog"
)

const (
	// DefaultBatchSize is the number of pages per store flush.
	DefaultBatchSize = 1000
	// DefaultQueueSize is the capacity of the queue between the
	// scanners and the writers.
	DefaultQueueSize = 128
)

// A Store persists batches of pages.
//
// Pages whose title is already stored are silently dropped, never
// merged.  StorePages must not hold on to the slice after returning.
type Store interface {
	StorePages(ctx context.Context, pages []PageRecord) error
}

// StoreFunc adapts a function to a Store.
type StoreFunc func(ctx context.Context, pages []PageRecord) error

func (f StoreFunc) StorePages(ctx context.Context, pages []PageRecord) error {
	return f(ctx, pages)
}

// A BatchWriter drains a queue of pages into a Store in fixed size
// batches.
type BatchWriter struct {
	Store Store
	// BatchSize defaults to DefaultBatchSize.
	BatchSize int
	Logger    *slog.Logger
	Metrics   *Metrics

	// Written and Batches count what made it to the store.
	Written int64
	Batches int64
}

// Run reads pages until in is closed, flushing every full batch.
// Whatever's left over when in closes is flushed as a final short
// batch.  A store failure stops the writer and the batch is lost.
func (w *BatchWriter) Run(ctx context.Context, in <-chan PageRecord) error {
	size := w.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	log := w.Logger
	if log == nil {
		log = slog.Default()
	}

	batch := make([]PageRecord, 0, size)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rec, ok := <-in:
			if !ok {
				if len(batch) > 0 {
					if err := w.flush(ctx, batch); err != nil {
						return err
					}
				}
				log.Info("Writer finished", "pages", w.Written, "batches", w.Batches)
				return nil
			}
			batch = append(batch, rec)
			if len(batch) == size {
				if err := w.flush(ctx, batch); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
	}
}

func (w *BatchWriter) flush(ctx context.Context, batch []PageRecord) error {
	err := w.Store.StorePages(ctx, batch)
	w.Metrics.flushed(len(batch), err)
	if err != nil {
		return &StoreError{Size: len(batch), Err: err}
	}
	w.Written += int64(len(batch))
	w.Batches++
	return nil
}
