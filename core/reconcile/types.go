package reconcile

import "time"

// User identifies the person whose view is being reconciled.
// It is always passed explicitly; nothing in this package reads ambient state.
type User struct {
	// ID is the identity provider's user id.
	ID string `json:"id"`
	// Email is the user's email, lower-cased.
	Email string `json:"email"`
}

// Record is a shopping list as delivered by the backend.
type Record struct {
	// ID is the opaque unique identifier.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// OwnerID is the creating user; immutable after creation.
	OwnerID string `json:"owner_id"`

	// SharedWith holds the lower-cased emails granted access.
	SharedWith []string `json:"shared_with"`

	// CreatedAt is the creation time.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the last modification time; the view is ordered by it.
	UpdatedAt time.Time `json:"updated_at"`

	// ExpiresAt, when set and in the past, marks the list for purging.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// IsExpired reports whether the record has an expiration strictly before now.
func (r Record) IsExpired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}

// Partition names the upstream source a record arrived from.
type Partition string

const (
	// PartitionOwned is the "lists I own" source.
	PartitionOwned Partition = "owned"
	// PartitionShared is the "lists shared with my email" source.
	PartitionShared Partition = "shared"
)

// AnomalyKind classifies a condition the reconciler refused to render.
type AnomalyKind string

const (
	// AnomalyOwnerMismatch: the owned source returned a list owned by someone else.
	AnomalyOwnerMismatch AnomalyKind = "owner_mismatch"
	// AnomalyOwnerInShared: the shared source returned a list the user owns.
	AnomalyOwnerInShared AnomalyKind = "owner_in_shared"
	// AnomalyNotShared: the shared source returned a list not shared with the user.
	AnomalyNotShared AnomalyKind = "not_shared"
	// AnomalyIDCollision: the same id appeared in both partitions.
	AnomalyIDCollision AnomalyKind = "id_collision"
	// AnomalyOwnedCeiling: the owned source exceeded its sanity ceiling and was ignored.
	AnomalyOwnedCeiling AnomalyKind = "owned_ceiling"
	// AnomalySharedVolume: the shared source returned an implausible number of lists.
	AnomalySharedVolume AnomalyKind = "shared_volume"
	// AnomalyViewCeiling: the merged view exceeded its ceiling and was truncated.
	AnomalyViewCeiling AnomalyKind = "view_ceiling"
)

// Anomaly describes one dropped record or one volume condition.
type Anomaly struct {
	// Kind classifies the anomaly.
	Kind AnomalyKind `json:"kind"`

	// Partition is the source the anomaly was observed in.
	Partition Partition `json:"partition,omitempty"`

	// ListID is set for per-record anomalies.
	ListID string `json:"list_id,omitempty"`

	// Count is set for volume anomalies.
	Count int `json:"count,omitempty"`
}

// Critical reports whether the anomaly means an upstream filter cannot be trusted.
func (a Anomaly) Critical() bool {
	switch a.Kind {
	case AnomalyOwnerMismatch, AnomalyNotShared, AnomalyOwnedCeiling, AnomalyViewCeiling:
		return true
	default:
		return false
	}
}

// Limits bounds what the reconciler is willing to render.
// The values guard against a runaway-creation bug rather than model capacity.
type Limits struct {
	// SourceCeiling is the most lists the owned source may return before it is
	// treated as corrupt and ignored.
	SourceCeiling int

	// ViewCeiling is the most lists the merged view may hold; more are truncated.
	ViewCeiling int

	// SharedWarnCeiling only triggers a log-worthy anomaly for the shared source.
	SharedWarnCeiling int
}

// DefaultLimits returns the stock ceilings.
func DefaultLimits() Limits {
	return Limits{SourceCeiling: 10, ViewCeiling: 50, SharedWarnCeiling: 100}
}

// Input is the latest snapshot from each source plus the context they are judged in.
type Input struct {
	// Owned is the latest snapshot of the owned source.
	Owned []Record

	// Shared is the latest snapshot of the shared source.
	Shared []Record

	// User is the acting user.
	User User

	// Now is the reference time for expiration.
	Now time.Time

	// Hidden holds ids of shared lists the user removed from their own view.
	Hidden map[string]struct{}
}

// Plan is the output of a reconciliation: what to show and what to clean up.
type Plan struct {
	// View is the deduplicated, validated, capped list, newest first.
	View []Record `json:"lists"`

	// Expired holds ids of owned expired lists to delete, each at most once.
	Expired []string `json:"expired,omitempty"`

	// Anomalies lists every record or volume condition that was refused.
	Anomalies []Anomaly `json:"anomalies,omitempty"`

	// Orphaned is set when a ceiling was hit; callers should offer bulk cleanup.
	Orphaned bool `json:"orphaned"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate counts for a plan.
type Summary struct {
	// OwnedReceived is the size of the owned snapshot.
	OwnedReceived int `json:"owned_received"`

	// SharedReceived is the size of the shared snapshot.
	SharedReceived int `json:"shared_received"`

	// Visible is the size of the final view.
	Visible int `json:"visible"`

	// Expired counts lists hidden because they expired (owned or shared).
	Expired int `json:"expired"`

	// Dropped counts records refused by the integrity checks.
	Dropped int `json:"dropped"`

	// Hidden counts shared lists the user hid.
	Hidden int `json:"hidden"`

	// Truncated counts lists cut by the view ceiling.
	Truncated int `json:"truncated"`
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionDeleteExpired deletes a list whose expiration passed.
	ActionDeleteExpired ActionType = "delete_expired"
	// ActionDeleteOrphan deletes an owned list during bulk cleanup.
	ActionDeleteOrphan ActionType = "delete_orphan"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the list id.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// CleanupOptions controls ApplyActions.
type CleanupOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates the user confirmed destructive actions.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool

	// BatchSize is the number of deletions issued per batch. Zero means 100.
	BatchSize int

	// Progress, when set, is called after every batch.
	Progress func(done, total int)
}
