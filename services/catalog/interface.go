package catalog

import "context"

// Service owns the current reconciled snapshot of the studio dataset.
type Service interface {
	// Refresh fetches the raw bundle and rebuilds the snapshot wholesale.
	// On fetch failure the previously published snapshot stays in place.
	Refresh(ctx context.Context) (*Snapshot, error)

	// Current returns the latest snapshot, nil before the first successful
	// refresh.
	Current() *Snapshot
}
