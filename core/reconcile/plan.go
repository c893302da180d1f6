package reconcile

import (
	"context"
	"fmt"
)

// DefaultBatchSize is used when CleanupOptions.BatchSize is zero.
const DefaultBatchSize = 100

// PlanCleanup returns one delete action per list the user owns.
// Records owned by anyone else are never planned, whatever source they came from.
func PlanCleanup(records []Record, user User) []Action {
	if user.ID == "" {
		return nil
	}

	seen := make(map[string]struct{}, len(records))
	actions := make([]Action, 0, len(records))
	for _, r := range records {
		if r.OwnerID != user.ID {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		actions = append(actions, Action{
			Type:   ActionDeleteOrphan,
			Key:    r.ID,
			Reason: "bulk cleanup of owned lists",
		})
	}
	return actions
}

// ExpiredActions converts the expired ids of a plan into delete actions.
func ExpiredActions(plan Plan) []Action {
	actions := make([]Action, 0, len(plan.Expired))
	for _, id := range plan.Expired {
		actions = append(actions, Action{
			Type:   ActionDeleteExpired,
			Key:    id,
			Reason: "expired",
		})
	}
	return actions
}

// ApplyActions executes the planned deletions in batches.
// Returns the number of actions executed and any error encountered.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func ApplyActions(ctx context.Context, mutator Mutator, actions []Action, opts CleanupOptions) (executed int, err error) {
	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	size := opts.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	keys := make([]string, 0, len(actions))
	for _, action := range actions {
		keys = append(keys, action.Key)
	}

	batcher, canBatch := mutator.(BatchDeleter)
	for start := 0; start < len(keys); start += size {
		if err := ctx.Err(); err != nil {
			return executed, err
		}

		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		batch := keys[start:end]

		if canBatch {
			if err := batcher.DeleteBatch(ctx, batch); err != nil {
				return executed, fmt.Errorf("failed to delete batch at offset %d: %w", start, err)
			}
			executed += len(batch)
		} else {
			// Fallback to one-at-a-time
			for _, key := range batch {
				if err := mutator.Delete(ctx, key); err != nil {
					return executed, fmt.Errorf("failed to delete list %s: %w", key, err)
				}
				executed++
			}
		}

		if opts.Progress != nil {
			opts.Progress(executed, len(keys))
		}
	}

	return executed, nil
}
