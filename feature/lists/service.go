package lists

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shoplist/core/logger"
	"shoplist/core/reconcile"
	"shoplist/core/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements list operations on top of the store and the reconciler.
type Service struct {
	store      *Store
	cfg        Config
	limits     reconcile.Limits
	cache      *reconcile.ViewCache
	dispatcher *Dispatcher
	logger     *zap.Logger
	debug      bool
	now        func() time.Time
}

// NewService creates a new list service. The dispatcher may be nil.
func NewService(store *Store, cfg Config, dispatcher *Dispatcher, logger *zap.Logger, debug bool) *Service {
	return &Service{
		store:      store,
		cfg:        cfg,
		limits:     cfg.Limits(),
		cache:      reconcile.NewViewCache(cfg.ViewCacheTTL),
		dispatcher: dispatcher,
		logger:     logger,
		debug:      debug,
		now:        time.Now,
	}
}

// Store returns the underlying store.
func (s *Service) Store() *Store {
	return s.store
}

// View reconciles the lists visible to user.
func (s *Service) View(ctx context.Context, user reconcile.User) (reconcile.Plan, error) {
	if user.ID == "" {
		return reconcile.Reconcile(reconcile.Input{}, s.limits), nil
	}

	return s.cache.GetOrBuild(ctx, cacheKey(user), func(ctx context.Context) (reconcile.Plan, error) {
		// One past the ceiling is enough to detect an overflowing source
		owned, err := s.store.Owned(ctx, user.ID, s.limits.SourceCeiling+1)
		if err != nil {
			return reconcile.Plan{}, err
		}
		shared, err := s.store.SharedWith(ctx, user.Email, 0)
		if err != nil {
			return reconcile.Plan{}, err
		}
		hidden, err := s.store.HiddenFor(ctx, user.ID)
		if err != nil {
			return reconcile.Plan{}, err
		}

		plan := reconcile.Reconcile(reconcile.Input{
			Owned:  owned,
			Shared: shared,
			User:   user,
			Now:    s.now(),
			Hidden: hidden,
		}, s.limits)

		l := logger.WithUser(s.logger, user.ID)
		LogAnomalies(l, plan.Anomalies)
		if s.debug {
			l.Debug("Lists reconciled",
				zap.Int("owned", plan.Summary.OwnedReceived),
				zap.Int("shared", plan.Summary.SharedReceived),
				zap.Int("visible", plan.Summary.Visible),
			)
		}

		if s.dispatcher != nil && len(plan.Expired) > 0 {
			s.dispatcher.Dispatch(user.ID, reconcile.ExpiredActions(plan))
		}
		return plan, nil
	})
}

// CreateRequest is the payload for creating a list.
type CreateRequest struct {
	Name       string     `json:"name" validate:"required,max=255"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	SharedWith []string   `json:"shared_with,omitempty" validate:"omitempty,dive,email"`
}

// Create creates a list owned by user.
func (s *Service) Create(ctx context.Context, user reconcile.User, req CreateRequest) (reconcile.Record, error) {
	now := s.now().UTC()
	l := &List{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		OwnerID:    user.ID,
		SharedWith: utils.RemoveEmail(utils.NormalizeEmails(req.SharedWith), user.Email),
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  req.ExpiresAt,
	}

	if err := s.store.Create(ctx, l); err != nil {
		return reconcile.Record{}, err
	}
	s.cache.InvalidateAll()

	s.logger.Info("List created", zap.String("list_id", l.ID), zap.String("user_id", user.ID))
	return l.ToRecord(), nil
}

// Share grants email access to a list owned by user.
func (s *Service) Share(ctx context.Context, user reconcile.User, listID, email string) (reconcile.Record, error) {
	email = utils.NormalizeEmail(email)
	if email == user.Email {
		return reconcile.Record{}, ErrShareSelf
	}

	l, err := s.store.UpdateSharing(ctx, listID, user.ID, func(current []string) []string {
		return utils.NormalizeEmails(append(current, email))
	})
	if err != nil {
		return reconcile.Record{}, err
	}
	s.cache.InvalidateAll()

	s.logger.Info("List shared", zap.String("list_id", listID), zap.String("user_id", user.ID))
	return l.ToRecord(), nil
}

// Unshare revokes email's access to a list owned by user.
func (s *Service) Unshare(ctx context.Context, user reconcile.User, listID, email string) (reconcile.Record, error) {
	l, err := s.store.UpdateSharing(ctx, listID, user.ID, func(current []string) []string {
		return utils.RemoveEmail(current, email)
	})
	if err != nil {
		return reconcile.Record{}, err
	}
	s.cache.InvalidateAll()

	s.logger.Info("List unshared", zap.String("list_id", listID), zap.String("user_id", user.ID))
	return l.ToRecord(), nil
}

// Hide removes a list shared with user from their view.
func (s *Service) Hide(ctx context.Context, user reconcile.User, listID string) error {
	l, err := s.store.Get(ctx, listID)
	if err != nil {
		return err
	}
	if l.OwnerID == user.ID {
		return ErrHideOwned
	}
	if !utils.ContainsEmail(l.SharedWith, user.Email) {
		return ErrNotFound
	}

	if err := s.store.Hide(ctx, user.ID, listID); err != nil {
		return err
	}
	s.cache.Invalidate(cacheKey(user))
	return nil
}

// Unhide restores a hidden list.
func (s *Service) Unhide(ctx context.Context, user reconcile.User, listID string) error {
	if err := s.store.Unhide(ctx, user.ID, listID); err != nil {
		return err
	}
	s.cache.Invalidate(cacheKey(user))
	return nil
}

// Access returns the list if user owns it or it is shared with user.
func (s *Service) Access(ctx context.Context, user reconcile.User, listID string) (reconcile.Record, error) {
	l, err := s.store.Get(ctx, listID)
	if err != nil {
		return reconcile.Record{}, err
	}

	rec := l.ToRecord()
	if rec.IsExpired(s.now()) {
		return reconcile.Record{}, ErrNotFound
	}
	if l.OwnerID == user.ID || utils.ContainsEmail(l.SharedWith, user.Email) {
		return rec, nil
	}
	return reconcile.Record{}, ErrNotFound
}

// Touch marks a list as modified now.
func (s *Service) Touch(ctx context.Context, listID string) error {
	if err := s.store.Touch(ctx, listID, s.now().UTC()); err != nil {
		return err
	}
	s.cache.InvalidateAll()
	return nil
}

// CleanupResult summarizes a bulk cleanup.
type CleanupResult struct {
	Planned int  `json:"planned"`
	Deleted int  `json:"deleted"`
	DryRun  bool `json:"dry_run"`
}

// Cleanup deletes every list user owns, in batches. It is the recovery path
// offered when the owned source overflowed its ceiling.
func (s *Service) Cleanup(ctx context.Context, user reconcile.User, opts reconcile.CleanupOptions) (CleanupResult, error) {
	ids, err := s.store.OwnedIDs(ctx, user.ID)
	if err != nil {
		return CleanupResult{}, err
	}

	records := make([]reconcile.Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, reconcile.Record{ID: id, OwnerID: user.ID})
	}
	actions := reconcile.PlanCleanup(records, user)

	if opts.BatchSize <= 0 {
		opts.BatchSize = s.cfg.CleanupBatchSize
	}

	deleted, err := reconcile.ApplyActions(ctx, s.store.ForOwner(user.ID), actions, opts)
	s.cache.InvalidateAll()

	result := CleanupResult{Planned: len(actions), Deleted: deleted, DryRun: opts.DryRun || !opts.Confirmed}
	if err != nil {
		return result, fmt.Errorf("cleanup stopped after %d lists: %w", deleted, err)
	}

	s.logger.Info("Bulk cleanup finished",
		zap.String("user_id", user.ID),
		zap.Int("planned", result.Planned),
		zap.Int("deleted", result.Deleted),
	)
	return result, nil
}

// NewSession returns a live session over polling sources for user.
func (s *Service) NewSession(ctx context.Context, user reconcile.User) (*Session, error) {
	hidden, err := s.store.HiddenFor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	owned := NewPollingSource(func(ctx context.Context) ([]reconcile.Record, error) {
		return s.store.Owned(ctx, user.ID, s.limits.SourceCeiling+1)
	}, s.cfg.PollInterval, s.logger)
	shared := NewPollingSource(func(ctx context.Context) ([]reconcile.Record, error) {
		return s.store.SharedWith(ctx, user.Email, 0)
	}, s.cfg.PollInterval, s.logger)

	return NewSession(owned, shared, SessionOptions{
		User:       user,
		Limits:     s.limits,
		Hidden:     hidden,
		Dispatcher: s.dispatcher,
		Logger:     s.logger,
		Debug:      s.debug,
		Now:        s.now,
	}), nil
}

func cacheKey(user reconcile.User) string {
	return user.ID + "|" + user.Email
}
