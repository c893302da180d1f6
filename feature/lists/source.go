package lists

import (
	"context"
	"hash/fnv"
	"sort"
	"strconv"
	"sync"
	"time"

	"shoplist/core/reconcile"

	"go.uber.org/zap"
)

// SnapshotFunc receives a full replacement snapshot of a partition, or an error.
type SnapshotFunc func(records []reconcile.Record, err error)

// Source delivers snapshots of one partition until unsubscribed.
type Source interface {
	// Subscribe starts delivery to fn and returns the function that stops it.
	Subscribe(ctx context.Context, fn SnapshotFunc) (unsubscribe func())
}

// FetchFunc loads the current contents of a partition.
type FetchFunc func(ctx context.Context) ([]reconcile.Record, error)

// PollingSource turns a FetchFunc into a Source by polling it on an interval.
// A snapshot is emitted on the first poll and whenever the result changes.
// Errors are emitted once per failure streak, and the next successful poll
// emits even if the result is unchanged. A Session freezes the partition on
// the first error, so it ignores that snapshot.
type PollingSource struct {
	fetch    FetchFunc
	interval time.Duration
	logger   *zap.Logger
}

// NewPollingSource creates a polling source.
func NewPollingSource(fetch FetchFunc, interval time.Duration, logger *zap.Logger) *PollingSource {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &PollingSource{fetch: fetch, interval: interval, logger: logger}
}

// Subscribe starts a polling goroutine. The returned function stops it and waits for it to exit.
func (p *PollingSource) Subscribe(ctx context.Context, fn SnapshotFunc) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		var (
			last    uint64
			emitted bool
			failing bool
		)

		poll := func() {
			records, err := p.fetch(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				if !failing {
					failing = true
					emitted = false
					fn(nil, err)
				}
				return
			}
			failing = false

			sum := fingerprint(records)
			if emitted && sum == last {
				return
			}
			last = sum
			emitted = true
			fn(records, nil)
		}

		poll()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				poll()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
			p.logger.Debug("Polling source stopped")
		})
	}
}

// fingerprint hashes the fields that affect reconciliation, independent of order.
func fingerprint(records []reconcile.Record) uint64 {
	keys := make([]string, 0, len(records))
	for _, r := range records {
		key := r.ID + "|" + r.OwnerID + "|" + r.Name + "|" + strconv.FormatInt(r.UpdatedAt.UnixNano(), 10)
		if r.ExpiresAt != nil {
			key += "|" + strconv.FormatInt(r.ExpiresAt.UnixNano(), 10)
		}
		for _, e := range r.SharedWith {
			key += "|" + e
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	for _, k := range keys {
		_, _ = h.Write([]byte(k))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// StaticSource is a Source whose snapshots are pushed by the caller.
type StaticSource struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]SnapshotFunc
}

// NewStaticSource creates an empty static source.
func NewStaticSource() *StaticSource {
	return &StaticSource{subs: make(map[int]SnapshotFunc)}
}

// Subscribe registers fn until the returned function is called.
func (s *StaticSource) Subscribe(_ context.Context, fn SnapshotFunc) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Emit delivers a snapshot synchronously to every subscriber.
func (s *StaticSource) Emit(records []reconcile.Record, err error) {
	s.mu.Lock()
	subs := make([]SnapshotFunc, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(records, err)
	}
}

// Subscribers returns the number of active subscriptions.
func (s *StaticSource) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
