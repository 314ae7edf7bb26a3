package wikilinks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore remembers the size and titles of every flush.
type memStore struct {
	mu      sync.Mutex
	flushes []int
	titles  map[string]bool
	fail    error
}

func (m *memStore) StorePages(ctx context.Context, pages []PageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	if m.titles == nil {
		m.titles = map[string]bool{}
	}
	m.flushes = append(m.flushes, len(pages))
	for _, p := range pages {
		m.titles[p.Title] = true
	}
	return nil
}

func feed(n int) <-chan PageRecord {
	ch := make(chan PageRecord, DefaultQueueSize)
	go func() {
		defer close(ch)
		for i := 0; i < n; i++ {
			ch <- PageRecord{Title: fmt.Sprintf("Page %d", i)}
		}
	}()
	return ch
}

func TestBatchWriterFlushesTrailingBatch(t *testing.T) {
	s := &memStore{}
	w := &BatchWriter{Store: s}
	require.NoError(t, w.Run(context.Background(), feed(1500)))

	assert.Equal(t, []int{1000, 500}, s.flushes)
	assert.Len(t, s.titles, 1500)
	assert.EqualValues(t, 1500, w.Written)
	assert.EqualValues(t, 2, w.Batches)
}

func TestBatchWriterExactBatches(t *testing.T) {
	s := &memStore{}
	w := &BatchWriter{Store: s, BatchSize: 10}
	require.NoError(t, w.Run(context.Background(), feed(30)))
	assert.Equal(t, []int{10, 10, 10}, s.flushes)
}

func TestBatchWriterEmpty(t *testing.T) {
	s := &memStore{}
	w := &BatchWriter{Store: s}
	require.NoError(t, w.Run(context.Background(), feed(0)))
	assert.Empty(t, s.flushes)
}

func TestBatchWriterStoreError(t *testing.T) {
	boom := errors.New("connection refused")
	w := &BatchWriter{Store: &memStore{fail: boom}, BatchSize: 5}

	err := w.Run(context.Background(), feed(12))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 5, se.Size)
	assert.Equal(t, KindStore, Classify(err))
	assert.Zero(t, w.Written)
}

func TestBatchWriterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := &BatchWriter{Store: &memStore{}}
	assert.ErrorIs(t, w.Run(ctx, make(chan PageRecord)), context.Canceled)
}

func TestBatchWriterBackpressure(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	store := StoreFunc(func(ctx context.Context, pages []PageRecord) error {
		once.Do(func() { close(entered) })
		<-release
		return nil
	})

	in := make(chan PageRecord, 1)
	w := &BatchWriter{Store: store, BatchSize: 2}
	errc := make(chan error, 1)
	go func() { errc <- w.Run(context.Background(), in) }()

	in <- PageRecord{Title: "a"}
	in <- PageRecord{Title: "b"}
	<-entered

	// The writer is stuck in the store, so only the queue's one slot
	// is left.
	in <- PageRecord{Title: "c"}
	select {
	case in <- PageRecord{Title: "d"}:
		t.Fatalf("Expected the full queue to block")
	default:
	}

	close(release)
	in <- PageRecord{Title: "d"}
	close(in)
	require.NoError(t, <-errc)
	assert.EqualValues(t, 4, w.Written)
	assert.EqualValues(t, 2, w.Batches)
}
