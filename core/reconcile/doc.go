// Package reconcile merges the two upstream list sources of a user into the
// single view that user is allowed to see.
//
// The upstream backend answers two queries per user: lists the user owns and
// lists shared with the user's email. Neither answer is trusted. Reconcile
// re-validates every record against the acting User, applies the expiration
// sweep, merges both partitions by id and caps the result.
//
// # Components
//
// 1. Engine: Reconcile is a pure reducer from Input to Plan. It performs no I/O
// and never deletes anything itself; expired owned lists are returned in
// Plan.Expired for the caller to dispatch.
//
// 2. Plan: PlanCleanup and ApplyActions drive bulk deletion of owned lists in
// batches through a Mutator.
//
// 3. Cache: ViewCache keeps recent plans per user with stampede protection.
//
// # Usage Example
//
//	plan := reconcile.Reconcile(reconcile.Input{
//	    Owned:  owned,
//	    Shared: shared,
//	    User:   user,
//	    Now:    time.Now(),
//	}, reconcile.DefaultLimits())
//
//	for _, a := range plan.Anomalies {
//	    log.Warn("refused list", zap.String("kind", string(a.Kind)))
//	}
package reconcile
