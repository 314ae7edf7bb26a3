package wikilinks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// Config tunes an ingest run.  The zero value is usable.
type Config struct {
	// Partitions is the number of concurrent scans, default 2.
	Partitions int
	// QueueSize is the capacity of the page queue, default 128.
	QueueSize int
	// BatchSize is pages per store flush, default 1000.
	BatchSize int
	// Writers is the number of concurrent batch writers, default 1.
	Writers int
	// Policy for unexpected parser events.
	Policy      Policy
	ReportEvery int64
	Logger      *slog.Logger
	Metrics     *Metrics
}

// DefaultPartitions matches splitting the dump at its midpoint.
const DefaultPartitions = 2

func (c Config) withDefaults() Config {
	if c.Partitions <= 0 {
		c.Partitions = DefaultPartitions
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Writers <= 0 {
		c.Writers = 1
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Stats is the outcome of an ingest run.
type Stats struct {
	Scans   []ScanStats
	Pages   int64 // pages produced by all partitions
	Written int64 // pages handed to the store
	Batches int64
	Elapsed time.Duration
}

// IngestFile ingests the dump at path into store.
func IngestFile(ctx context.Context, path string, store Store, cfg Config) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return Stats{}, err
	}

	return Ingest(ctx, f, fi.Size(), store, cfg)
}

// Ingest scans size bytes of src in parallel partitions and feeds every
// page to store through a bounded queue.  With a nil store the pages
// are only counted.
func Ingest(ctx context.Context, src io.ReaderAt, size int64, store Store, cfg Config) (Stats, error) {
	cfg = cfg.withDefaults()
	parts := Split(size, cfg.Partitions)
	cfg.Logger.Info("Starting ingest", "size", humanize.Bytes(uint64(size)),
		"partitions", len(parts), "writers", cfg.Writers, "batch", cfg.BatchSize)

	if store == nil {
		store = StoreFunc(func(context.Context, []PageRecord) error { return nil })
	}

	start := time.Now()
	queue := make(chan PageRecord, cfg.QueueSize)
	g, gctx := errgroup.WithContext(ctx)

	var rv Stats
	g.Go(func() error {
		defer close(queue)
		c := &Coordinator{
			Policy:      cfg.Policy,
			Logger:      cfg.Logger,
			Metrics:     cfg.Metrics,
			ReportEvery: cfg.ReportEvery,
		}
		var err error
		rv.Scans, err = c.Run(gctx, src, parts, queue)
		return err
	})

	writers := make([]*BatchWriter, cfg.Writers)
	for i := range writers {
		w := &BatchWriter{
			Store:     store,
			BatchSize: cfg.BatchSize,
			Logger:    cfg.Logger.With("writer", i),
			Metrics:   cfg.Metrics,
		}
		writers[i] = w
		g.Go(func() error {
			if err := w.Run(gctx, queue); err != nil {
				return fmt.Errorf("writer %d: %w", i, err)
			}
			return nil
		})
	}

	err := g.Wait()
	for _, s := range rv.Scans {
		rv.Pages += s.Pages
	}
	for _, w := range writers {
		rv.Written += w.Written
		rv.Batches += w.Batches
	}
	rv.Elapsed = time.Since(start)

	cfg.Logger.Info("Ingest finished", "pages", humanize.Comma(rv.Pages),
		"written", humanize.Comma(rv.Written), "batches", rv.Batches,
		"elapsed", rv.Elapsed, "error", err)
	return rv, err
}
