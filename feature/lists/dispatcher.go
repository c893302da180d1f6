package lists

import (
	"context"
	"sync"

	"shoplist/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// MutatorFor returns the mutator allowed to delete lists of ownerID.
type MutatorFor func(ownerID string) reconcile.Mutator

// Dispatcher issues fire-and-forget deletes for expired lists.
// Each id is deleted at most once per dispatcher, whatever the outcome.
type Dispatcher struct {
	mutatorFor MutatorFor
	limiter    *rate.Limiter
	logger     *zap.Logger

	mu   sync.Mutex
	seen map[string]struct{}
	wg   sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewDispatcher creates a dispatcher issuing at most ratePerSec deletes per second.
// A non-positive rate disables limiting.
func NewDispatcher(mutatorFor MutatorFor, ratePerSec float64, logger *zap.Logger) *Dispatcher {
	limit := rate.Inf
	burst := 1
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
		burst = max(1, int(ratePerSec))
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		mutatorFor: mutatorFor,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
		seen:       make(map[string]struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Dispatch schedules every expired-list action of ownerID not dispatched before.
// Actions of any other type are ignored. It never blocks.
func (d *Dispatcher) Dispatch(ownerID string, actions []reconcile.Action) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx.Err() != nil {
		return
	}

	for _, a := range actions {
		if a.Type != reconcile.ActionDeleteExpired {
			d.logger.Warn("Dispatcher ignored action", zap.String("type", string(a.Type)), zap.String("list_id", a.Key))
			continue
		}
		if _, done := d.seen[a.Key]; done {
			continue
		}
		d.seen[a.Key] = struct{}{}

		d.wg.Add(1)
		go d.delete(ownerID, a)
	}
}

func (d *Dispatcher) delete(ownerID string, a reconcile.Action) {
	defer d.wg.Done()

	l := d.logger.With(zap.String("list_id", a.Key), zap.String("reason", a.Reason))
	if err := d.limiter.Wait(d.ctx); err != nil {
		l.Debug("Expired list delete abandoned", zap.Error(err))
		return
	}

	if err := d.mutatorFor(ownerID).Delete(d.ctx, a.Key); err != nil {
		l.Error("Failed to delete expired list", zap.Error(err))
		return
	}
	l.Info("Deleted expired list")
}

// Dispatched reports whether id has been handed to the mutator already.
func (d *Dispatcher) Dispatched(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[id]
	return ok
}

// Wait blocks until every scheduled delete has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close abandons pending deletes and waits for in-flight ones.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.cancel()
	d.mu.Unlock()
	d.wg.Wait()
}
