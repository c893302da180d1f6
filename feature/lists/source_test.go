package lists

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shoplist/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

// scriptedFetch returns the scripted results in order, repeating the last one.
type scriptedFetch struct {
	mu      sync.Mutex
	results []fetchResult
	calls   int
}

type fetchResult struct {
	records []reconcile.Record
	err     error
}

func (f *scriptedFetch) fetch(ctx context.Context) ([]reconcile.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.calls++
	return f.results[i].records, f.results[i].err
}

type emission struct {
	ids []string
	err error
}

func collect(ch chan emission) SnapshotFunc {
	return func(records []reconcile.Record, err error) {
		ids := make([]string, 0, len(records))
		for _, r := range records {
			ids = append(ids, r.ID)
		}
		ch <- emission{ids: ids, err: err}
	}
}

func TestPollingSource_EmitsOnChangeOnly(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	a := reconcile.Record{ID: "a", OwnerID: "u1"}
	b := reconcile.Record{ID: "b", OwnerID: "u1"}
	boom := errors.New("store down")

	f := &scriptedFetch{results: []fetchResult{
		{records: []reconcile.Record{a}},
		{records: []reconcile.Record{a}},
		{records: []reconcile.Record{a, b}},
		{err: boom},
		{err: boom},
		{records: []reconcile.Record{b, a}},
	}}

	ch := make(chan emission, 16)
	src := NewPollingSource(f.fetch, 5*time.Millisecond, zap.NewNop())
	unsubscribe := src.Subscribe(context.Background(), collect(ch))

	first := <-ch
	assert.Equal(t, []string{"a"}, first.ids)

	second := <-ch
	assert.Equal(t, []string{"a", "b"}, second.ids)

	third := <-ch
	assert.ErrorIs(t, third.err, boom)

	// Recovery with the same content as before the failure
	fourth := <-ch
	assert.NoError(t, fourth.err)
	assert.Equal(t, []string{"b", "a"}, fourth.ids)

	unsubscribe()
	unsubscribe()

	select {
	case e := <-ch:
		t.Fatalf("unexpected emission after unsubscribe: %+v", e)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestFingerprint_OrderIndependent(t *testing.T) {
	now := time.Now()
	a := reconcile.Record{ID: "a", UpdatedAt: now}
	b := reconcile.Record{ID: "b", UpdatedAt: now, SharedWith: []string{"x@y.com"}}

	assert.Equal(t, fingerprint([]reconcile.Record{a, b}), fingerprint([]reconcile.Record{b, a}))

	b2 := b
	b2.SharedWith = nil
	assert.NotEqual(t, fingerprint([]reconcile.Record{a, b}), fingerprint([]reconcile.Record{a, b2}))

	expiry := now.Add(time.Hour)
	a2 := a
	a2.ExpiresAt = &expiry
	assert.NotEqual(t, fingerprint([]reconcile.Record{a}), fingerprint([]reconcile.Record{a2}))
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource()
	var got [][]reconcile.Record

	unsubscribe := src.Subscribe(context.Background(), func(records []reconcile.Record, err error) {
		got = append(got, records)
	})
	require.Equal(t, 1, src.Subscribers())

	src.Emit([]reconcile.Record{{ID: "a"}}, nil)
	unsubscribe()
	src.Emit([]reconcile.Record{{ID: "b"}}, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0][0].ID)
	assert.Zero(t, src.Subscribers())
}
