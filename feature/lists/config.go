package lists

import (
	"time"

	"shoplist/core/reconcile"
)

// Config holds the reconciler limits and live-session settings.
type Config struct {
	// SourceCeiling is the most lists the owned source may return before it is ignored.
	SourceCeiling int `mapstructure:"source_ceiling" default:"10"`
	// ViewCeiling is the most lists a reconciled view may hold.
	ViewCeiling int `mapstructure:"view_ceiling" default:"50"`
	// SharedWarnCeiling only raises a warning for the shared source.
	SharedWarnCeiling int `mapstructure:"shared_warn_ceiling" default:"100"`
	// PollInterval is how often polling sources re-query the store.
	PollInterval time.Duration `mapstructure:"poll_interval" default:"2s"`
	// CleanupBatchSize is the number of lists deleted per batch during bulk cleanup.
	CleanupBatchSize int `mapstructure:"cleanup_batch_size" default:"100"`
	// DeleteRatePerSec caps expired-list deletions issued by the dispatcher.
	DeleteRatePerSec float64 `mapstructure:"delete_rate_per_sec" default:"5"`
	// ViewCacheTTL is how long a reconciled view is reused. Zero disables caching.
	ViewCacheTTL time.Duration `mapstructure:"view_cache_ttl" default:"5s"`
}

// Limits returns the reconciler limits, falling back to the stock values for unset fields.
func (c Config) Limits() reconcile.Limits {
	limits := reconcile.DefaultLimits()
	if c.SourceCeiling > 0 {
		limits.SourceCeiling = c.SourceCeiling
	}
	if c.ViewCeiling > 0 {
		limits.ViewCeiling = c.ViewCeiling
	}
	if c.SharedWarnCeiling > 0 {
		limits.SharedWarnCeiling = c.SharedWarnCeiling
	}
	return limits
}
