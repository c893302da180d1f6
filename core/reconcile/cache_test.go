package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewCache_ReusesFreshPlan(t *testing.T) {
	cache := NewViewCache(time.Minute)
	var builds int32

	build := func(ctx context.Context) (Plan, error) {
		atomic.AddInt32(&builds, 1)
		return Plan{Summary: Summary{Visible: 1}}, nil
	}

	for i := 0; i < 3; i++ {
		plan, err := cache.GetOrBuild(context.Background(), "u1", build)
		require.NoError(t, err)
		assert.Equal(t, 1, plan.Summary.Visible)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))

	cache.Invalidate("u1")
	_, err := cache.GetOrBuild(context.Background(), "u1", build)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&builds))
}

func TestViewCache_ExpiresAfterTTL(t *testing.T) {
	cache := NewViewCache(time.Minute)
	now := baseTime
	cache.now = func() time.Time { return now }

	var builds int
	build := func(ctx context.Context) (Plan, error) {
		builds++
		return Plan{}, nil
	}

	_, _ = cache.GetOrBuild(context.Background(), "u1", build)
	now = now.Add(2 * time.Minute)
	_, _ = cache.GetOrBuild(context.Background(), "u1", build)

	assert.Equal(t, 2, builds)
}

func TestViewCache_ZeroTTLDisablesCaching(t *testing.T) {
	cache := NewViewCache(0)
	var builds int
	build := func(ctx context.Context) (Plan, error) {
		builds++
		return Plan{}, nil
	}

	_, _ = cache.GetOrBuild(context.Background(), "u1", build)
	_, _ = cache.GetOrBuild(context.Background(), "u1", build)
	assert.Equal(t, 2, builds)
}

func TestViewCache_ErrorIsNotCached(t *testing.T) {
	cache := NewViewCache(time.Minute)
	_, err := cache.GetOrBuild(context.Background(), "u1", func(ctx context.Context) (Plan, error) {
		return Plan{}, errors.New("store down")
	})
	require.Error(t, err)

	plan, err := cache.GetOrBuild(context.Background(), "u1", func(ctx context.Context) (Plan, error) {
		return Plan{Orphaned: true}, nil
	})
	require.NoError(t, err)
	assert.True(t, plan.Orphaned)
}

func TestViewCache_ConcurrentBuildsCollapse(t *testing.T) {
	cache := NewViewCache(time.Minute)
	var builds int32
	release := make(chan struct{})

	build := func(ctx context.Context) (Plan, error) {
		atomic.AddInt32(&builds, 1)
		<-release
		return Plan{}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = cache.GetOrBuild(context.Background(), "u1", build)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&builds), int32(2))
	cache.InvalidateAll()
}

func TestViewCache_InvalidateDuringBuildIsNotCached(t *testing.T) {
	tests := []struct {
		name       string
		invalidate func(c *ViewCache)
	}{
		{"key", func(c *ViewCache) { c.Invalidate("u1") }},
		{"all", func(c *ViewCache) { c.InvalidateAll() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewViewCache(time.Minute)
			var builds int32
			started := make(chan struct{})
			release := make(chan struct{})

			slow := func(ctx context.Context) (Plan, error) {
				atomic.AddInt32(&builds, 1)
				close(started)
				<-release
				return Plan{Summary: Summary{Visible: 1}}, nil
			}

			done := make(chan struct{})
			go func() {
				defer close(done)
				_, _ = cache.GetOrBuild(context.Background(), "u1", slow)
			}()

			<-started
			tt.invalidate(cache)
			close(release)
			<-done

			plan, err := cache.GetOrBuild(context.Background(), "u1", func(ctx context.Context) (Plan, error) {
				atomic.AddInt32(&builds, 1)
				return Plan{Summary: Summary{Visible: 2}}, nil
			})
			require.NoError(t, err)
			assert.Equal(t, 2, plan.Summary.Visible)
			assert.Equal(t, int32(2), atomic.LoadInt32(&builds))
		})
	}
}
