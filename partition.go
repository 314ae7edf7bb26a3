package wikilinks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// A Partition is a byte range of the dump scanned by its own pipeline.
//
// A page belongs to the partition holding the first byte of its <page>
// tag.  The scan of a partition runs on past End to finish the last
// page it owns.
type Partition struct {
	Index int
	Start int64
	End   int64
}

func (p Partition) String() string {
	return fmt.Sprintf("partition %d [%d, %d)", p.Index, p.Start, p.End)
}

// Split cuts size bytes into n equal ranges.  The last one absorbs
// the rounding.  There are never more partitions than bytes, but there
// is always at least one.
func Split(size int64, n int) []Partition {
	if n < 1 {
		n = 1
	}
	if size < int64(n) {
		n = int(max(size, 1))
	}

	rv := make([]Partition, n)
	for i := range rv {
		rv[i] = Partition{
			Index: i,
			Start: size * int64(i) / int64(n),
			End:   size * int64(i+1) / int64(n),
		}
	}
	return rv
}

// ScanStats summarizes one partition's scan.
type ScanStats struct {
	Partition Partition
	Pages     int64
	Malformed int64
	Resyncs   int64
	// Bytes actually read, which runs past the partition's end.
	Bytes   int64
	Elapsed time.Duration
}

// DefaultReportFrequency is how many pages go by between progress logs.
const DefaultReportFrequency = 10000

// A Coordinator scans a set of partitions of one dump concurrently.
type Coordinator struct {
	// Policy for events the state machine doesn't expect.
	Policy Policy
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Metrics may be nil.
	Metrics *Metrics
	// ReportEvery is the number of pages between progress logs.
	// Zero means DefaultReportFrequency, negative disables them.
	ReportEvery int64
}

func (c *Coordinator) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Run scans every partition of src concurrently, sending completed
// pages to out in document order per partition.  It returns once every
// partition is done, or with the first error, after which the others
// are cancelled.  out is not closed.
func (c *Coordinator) Run(ctx context.Context, src io.ReaderAt, parts []Partition,
	out chan<- PageRecord) ([]ScanStats, error) {

	stats := make([]ScanStats, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range parts {
		g.Go(func() error {
			stats[i].Partition = p
			if err := c.scan(gctx, src, p, out, &stats[i]); err != nil {
				return fmt.Errorf("%v: %w", p, err)
			}
			return nil
		})
	}
	return stats, g.Wait()
}

func (c *Coordinator) scan(ctx context.Context, src io.ReaderAt, p Partition,
	out chan<- PageRecord, st *ScanStats) error {

	log := c.logger().With("partition", p.Index)
	counters := c.Metrics.partition(p.Index)
	reportfreq := c.ReportEvery
	if reportfreq == 0 {
		reportfreq = DefaultReportFrequency
	}

	log.Info("Scanning", "start", p.Start, "end", p.End,
		"size", humanize.Bytes(uint64(p.End-p.Start)))

	es := NewEventSource(io.NewSectionReader(src, p.Start, math.MaxInt64-p.Start), p.Start)
	m := Machine{Policy: c.Policy}

	start := time.Now()
	prev := start
	defer func() {
		st.Bytes = es.Offset() - p.Start
		st.Elapsed = time.Since(start)
	}()

	for events := 0; ; events++ {
		if events%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		ev, err := es.Next()
		if err != nil {
			return err
		}
		if ev.Kind == StartTag && ev.Name == "page" && ev.Offset >= p.End {
			ev = Event{Kind: EndOfStream, Offset: ev.Offset}
		}
		if ev.Kind == Malformed {
			st.Malformed++
			log.Debug("Skipped malformed fragment", "error", ev.Err)
		}

		rec, ok, act, err := m.Feed(ev)
		counters.observe(ev, act, ok)
		if err != nil {
			return err
		}
		if act == Resync {
			st.Resyncs++
			log.Warn("Resynchronizing", "event", ev.String(), "offset", ev.Offset)
		}

		if ok {
			select {
			case out <- rec:
			case <-ctx.Done():
				return ctx.Err()
			}
			st.Pages++
			if reportfreq > 0 && st.Pages%reportfreq == 0 {
				now := time.Now()
				d := now.Sub(prev)
				log.Info("Progress",
					"pages", humanize.Comma(st.Pages),
					"rate", fmt.Sprintf("%.2f/s", float64(reportfreq)/d.Seconds()))
				prev = now
			}
		}

		if m.State() == Done {
			log.Info("Done", "pages", humanize.Comma(st.Pages),
				"malformed", st.Malformed, "resyncs", st.Resyncs,
				"elapsed", time.Since(start))
			return nil
		}
	}
}
