package wikilinks

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus counters for scanning and writing.  A
// nil *Metrics is valid and counts nothing.
type Metrics struct {
	pages     *prometheus.CounterVec
	malformed *prometheus.CounterVec
	resyncs   *prometheus.CounterVec

	batches      prometheus.Counter
	pagesWritten prometheus.Counter
	writeErrors  prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &Metrics{
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wikilinks",
			Subsystem: "scan",
			Name:      "pages_total",
			Help:      "Pages emitted by the scanner",
		}, []string{"partition"}),

		malformed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wikilinks",
			Subsystem: "scan",
			Name:      "malformed_total",
			Help:      "Malformed xml fragments skipped by the tokenizer",
		}, []string{"partition"}),

		resyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wikilinks",
			Subsystem: "scan",
			Name:      "resync_total",
			Help:      "Pages abandoned because the state machine resynchronized",
		}, []string{"partition"}),

		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wikilinks",
			Subsystem: "writer",
			Name:      "batches_total",
			Help:      "Batches flushed to the store",
		}),

		pagesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wikilinks",
			Subsystem: "writer",
			Name:      "pages_total",
			Help:      "Pages handed to the store, duplicates included",
		}),

		writeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wikilinks",
			Subsystem: "writer",
			Name:      "errors_total",
			Help:      "Failed batch flushes",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.pages, m.malformed, m.resyncs,
		m.batches, m.pagesWritten, m.writeErrors,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// partitionCounters are one partition's slice of the scan counters.
type partitionCounters struct {
	pages, malformed, resyncs prometheus.Counter
}

func (m *Metrics) partition(i int) *partitionCounters {
	if m == nil {
		return nil
	}
	p := strconv.Itoa(i)
	return &partitionCounters{
		pages:     m.pages.WithLabelValues(p),
		malformed: m.malformed.WithLabelValues(p),
		resyncs:   m.resyncs.WithLabelValues(p),
	}
}

func (pc *partitionCounters) observe(ev Event, act Action, emitted bool) {
	if pc == nil {
		return
	}
	if ev.Kind == Malformed {
		pc.malformed.Inc()
	}
	if act == Resync {
		pc.resyncs.Inc()
	}
	if emitted {
		pc.pages.Inc()
	}
}

func (m *Metrics) flushed(n int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.writeErrors.Inc()
		return
	}
	m.batches.Inc()
	m.pagesWritten.Add(float64(n))
}
