package lists

import (
	"context"
	"sync"
	"time"

	"shoplist/core/logger"
	"shoplist/core/reconcile"

	"go.uber.org/zap"
)

// State is what a live session currently shows.
type State struct {
	// View is the reconciled list, newest first.
	View []reconcile.Record `json:"lists"`
	// Loading is true until both partitions delivered a snapshot or an error.
	Loading bool `json:"loading"`
	// Orphaned is set when a ceiling was hit; the user should be offered bulk cleanup.
	Orphaned bool `json:"orphaned"`
	// Anomalies holds the anomalies of the latest reconciliation.
	Anomalies []reconcile.Anomaly `json:"anomalies,omitempty"`
	// Errors maps a frozen partition to the error that froze it.
	Errors map[reconcile.Partition]string `json:"errors,omitempty"`
}

// SessionOptions configures a live session.
type SessionOptions struct {
	// User is the acting user.
	User reconcile.User
	// Limits bounds the view.
	Limits reconcile.Limits
	// Hidden holds shared list ids the user has hidden.
	Hidden map[string]struct{}
	// Dispatcher receives expired owned list ids. Optional.
	Dispatcher *Dispatcher
	// Logger receives anomalies and source errors.
	Logger *zap.Logger
	// Debug logs every snapshot.
	Debug bool
	// Now returns the reference time for expiration. Defaults to time.Now.
	Now func() time.Time
}

type partition struct {
	records   []reconcile.Record
	delivered bool
	err       error
}

// Session keeps the latest snapshot of the owned and shared partitions of one
// user and recomputes the reconciled view whenever either changes.
type Session struct {
	owned  Source
	shared Source
	opts   SessionOptions
	logger *zap.Logger

	mu          sync.Mutex
	parts       map[reconcile.Partition]*partition
	state       State
	generation  uint64
	listeners   []func(State)
	started     bool
	closed      bool
	unsubscribe []func()

	// notifyMu orders listener calls; notified is the newest generation delivered.
	notifyMu sync.Mutex
	notified uint64
}

// NewSession creates a session. Call Start to subscribe to the sources.
func NewSession(owned, shared Source, opts SessionOptions) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Limits == (reconcile.Limits{}) {
		opts.Limits = reconcile.DefaultLimits()
	}

	return &Session{
		owned:  owned,
		shared: shared,
		opts:   opts,
		logger: logger.WithUser(opts.Logger, opts.User.ID),
		parts: map[reconcile.Partition]*partition{
			reconcile.PartitionOwned:  {},
			reconcile.PartitionShared: {},
		},
		state: State{View: []reconcile.Record{}, Loading: true},
	}
}

// OnChange registers fn to be called with every new state. Listeners are called
// one at a time and never receive a state older than one already delivered, so
// the last state a listener saw is the current one. A listener must not call
// SetHidden.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Start subscribes to both sources. A session without a user id never subscribes
// and reports an empty, settled view.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true

	if s.opts.User.ID == "" {
		s.state = State{View: []reconcile.Record{}}
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	unsubOwned := s.owned.Subscribe(ctx, func(records []reconcile.Record, err error) {
		s.apply(reconcile.PartitionOwned, records, err)
	})
	unsubShared := s.shared.Subscribe(ctx, func(records []reconcile.Record, err error) {
		s.apply(reconcile.PartitionShared, records, err)
	})

	s.mu.Lock()
	closed := s.closed
	s.unsubscribe = []func(){unsubOwned, unsubShared}
	s.mu.Unlock()

	// Close raced with Start
	if closed {
		unsubOwned()
		unsubShared()
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetHidden replaces the hidden set and recomputes the view.
func (s *Session) SetHidden(hidden map[string]struct{}) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.opts.Hidden = hidden
	s.recomputeAndNotify()
}

// Close unsubscribes both sources. Snapshots delivered afterwards are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	for _, fn := range unsubscribe {
		fn()
	}
}

func (s *Session) apply(p reconcile.Partition, records []reconcile.Record, err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	part := s.parts[p]
	if part.err != nil {
		// Frozen partitions keep their last good snapshot
		s.mu.Unlock()
		return
	}

	if err != nil {
		part.err = err
		part.delivered = true
		s.logger.Error("List source failed, keeping last snapshot",
			zap.String("partition", string(p)),
			zap.Error(err),
		)
	} else {
		part.records = records
		part.delivered = true
		if s.opts.Debug {
			s.logger.Debug("List snapshot received",
				zap.String("partition", string(p)),
				zap.Int("count", len(records)),
			)
		}
	}

	s.recomputeAndNotify()
}

// recomputeAndNotify must be called with s.mu held; it releases it.
func (s *Session) recomputeAndNotify() {
	owned := s.parts[reconcile.PartitionOwned]
	shared := s.parts[reconcile.PartitionShared]

	plan := reconcile.Reconcile(reconcile.Input{
		Owned:  owned.records,
		Shared: shared.records,
		User:   s.opts.User,
		Now:    s.opts.Now(),
		Hidden: s.opts.Hidden,
	}, s.opts.Limits)

	state := State{
		View:      plan.View,
		Loading:   !(owned.delivered && shared.delivered),
		Orphaned:  plan.Orphaned,
		Anomalies: plan.Anomalies,
	}
	for name, part := range s.parts {
		if part.err != nil {
			if state.Errors == nil {
				state.Errors = make(map[reconcile.Partition]string)
			}
			state.Errors[name] = part.err.Error()
		}
	}
	s.state = state
	s.generation++
	gen := s.generation

	listeners := make([]func(State), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	LogAnomalies(s.logger, plan.Anomalies)
	if s.opts.Dispatcher != nil && len(plan.Expired) > 0 {
		s.opts.Dispatcher.Dispatch(s.opts.User.ID, reconcile.ExpiredActions(plan))
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if gen <= s.notified {
		// A newer state was already delivered
		return
	}
	s.notified = gen
	for _, fn := range listeners {
		fn(state)
	}
}

// LogAnomalies logs critical anomalies at error level and the rest as warnings.
func LogAnomalies(l *zap.Logger, anomalies []reconcile.Anomaly) {
	for _, a := range anomalies {
		fields := []zap.Field{
			zap.String("kind", string(a.Kind)),
			zap.String("partition", string(a.Partition)),
		}
		if a.ListID != "" {
			fields = append(fields, zap.String("list_id", a.ListID))
		}
		if a.Count > 0 {
			fields = append(fields, zap.Int("count", a.Count))
		}

		if a.Critical() {
			l.Error("List integrity anomaly", fields...)
		} else {
			l.Warn("List integrity anomaly", fields...)
		}
	}
}
