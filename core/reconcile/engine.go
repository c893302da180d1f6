package reconcile

import (
	"sort"

	"shoplist/core/utils"
)

// Reconcile merges the latest owned and shared snapshots into the view the user
// is authorized to see. It is deterministic and effect-free: expired owned lists
// are reported in Plan.Expired for the caller to delete, anomalies are reported in
// Plan.Anomalies for the caller to log.
func Reconcile(in Input, limits Limits) Plan {
	plan := Plan{
		View: []Record{},
		Summary: Summary{
			OwnedReceived:  len(in.Owned),
			SharedReceived: len(in.Shared),
		},
	}

	// Without an identity nothing can be attributed to the user
	if in.User.ID == "" {
		return plan
	}

	merged := make(map[string]Record, len(in.Owned)+len(in.Shared))
	ownedIDs := make(map[string]struct{}, len(in.Owned))

	// Owned partition: a source that returns more than its ceiling is assumed corrupt
	owned := in.Owned
	if limits.SourceCeiling > 0 && len(owned) > limits.SourceCeiling {
		plan.Orphaned = true
		plan.Anomalies = append(plan.Anomalies, Anomaly{
			Kind:      AnomalyOwnedCeiling,
			Partition: PartitionOwned,
			Count:     len(owned),
		})
		owned = nil
	}

	expired := make(map[string]struct{})
	for _, r := range owned {
		if r.OwnerID != in.User.ID {
			plan.Summary.Dropped++
			plan.Anomalies = append(plan.Anomalies, Anomaly{
				Kind:      AnomalyOwnerMismatch,
				Partition: PartitionOwned,
				ListID:    r.ID,
			})
			continue
		}

		if r.IsExpired(in.Now) {
			plan.Summary.Expired++
			if _, seen := expired[r.ID]; !seen {
				expired[r.ID] = struct{}{}
				plan.Expired = append(plan.Expired, r.ID)
			}
			continue
		}

		if _, dup := merged[r.ID]; dup {
			continue
		}
		merged[r.ID] = r
		ownedIDs[r.ID] = struct{}{}
	}

	// Shared partition
	if limits.SharedWarnCeiling > 0 && len(in.Shared) > limits.SharedWarnCeiling {
		plan.Anomalies = append(plan.Anomalies, Anomaly{
			Kind:      AnomalySharedVolume,
			Partition: PartitionShared,
			Count:     len(in.Shared),
		})
	}

	for _, r := range in.Shared {
		if r.OwnerID == in.User.ID {
			plan.Summary.Dropped++
			plan.Anomalies = append(plan.Anomalies, Anomaly{
				Kind:      AnomalyOwnerInShared,
				Partition: PartitionShared,
				ListID:    r.ID,
			})
			continue
		}

		if !utils.ContainsEmail(r.SharedWith, in.User.Email) {
			plan.Summary.Dropped++
			plan.Anomalies = append(plan.Anomalies, Anomaly{
				Kind:      AnomalyNotShared,
				Partition: PartitionShared,
				ListID:    r.ID,
			})
			continue
		}

		// Only the owner may delete; a shared expired list is just hidden
		if r.IsExpired(in.Now) {
			plan.Summary.Expired++
			continue
		}

		if _, hidden := in.Hidden[r.ID]; hidden {
			plan.Summary.Hidden++
			continue
		}

		if _, isOwned := ownedIDs[r.ID]; isOwned {
			plan.Anomalies = append(plan.Anomalies, Anomaly{
				Kind:      AnomalyIDCollision,
				Partition: PartitionShared,
				ListID:    r.ID,
			})
			continue
		}
		if _, dup := merged[r.ID]; dup {
			continue
		}
		merged[r.ID] = r
	}

	view := make([]Record, 0, len(merged))
	for _, r := range merged {
		view = append(view, r)
	}
	sortByUpdatedDesc(view)

	// Truncation keeps the most recently updated lists
	if limits.ViewCeiling > 0 && len(view) > limits.ViewCeiling {
		plan.Orphaned = true
		plan.Summary.Truncated = len(view) - limits.ViewCeiling
		plan.Anomalies = append(plan.Anomalies, Anomaly{
			Kind:  AnomalyViewCeiling,
			Count: len(view),
		})
		view = view[:limits.ViewCeiling]
	}

	plan.View = view
	plan.Summary.Visible = len(view)
	return plan
}

// sortByUpdatedDesc orders records newest first, breaking ties by id.
func sortByUpdatedDesc(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].UpdatedAt.Equal(records[j].UpdatedAt) {
			return records[i].UpdatedAt.After(records[j].UpdatedAt)
		}
		return records[i].ID < records[j].ID
	})
}
