package catalog

import (
	"context"
	"fmt"
	"time"

	storeRepo "zenflow/database/repository/store"
	"zenflow/utils"

	"go.uber.org/zap"
)

// DefaultCatalogService is the production catalog service: it fetches the
// raw bundle through the record store, reconciles it against "today" in the
// studio's timezone, and publishes the result.
type DefaultCatalogService struct {
	Store    storeRepo.RecordStore
	Location *time.Location

	// Now is overridable in tests; nil means time.Now.
	Now func() time.Time

	holder Holder
}

func (s *DefaultCatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Refresh runs one full reconciliation pass. "Today" is computed exactly
// once per pass so every record in the snapshot is filtered against the
// same reference date.
func (s *DefaultCatalogService) Refresh(ctx context.Context) (*Snapshot, error) {
	logger := utils.GetLogger()

	raw, err := s.Store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch studio data: %w", err)
	}

	now := s.now()
	if s.Location != nil {
		now = now.In(s.Location)
	}

	snap, warnings := Reconcile(raw, TodayKey(now))
	for _, w := range warnings {
		logger.Warn("reconcile: dropped record", zap.String("reason", w))
	}

	published := s.holder.Publish(snap)
	logger.Info("catalog refreshed",
		zap.Uint64("version", published.Version),
		zap.Int("classes", len(published.Classes)),
		zap.Int("futureInstances", len(published.InstanceByID)),
	)
	return published, nil
}

// Current returns the latest published snapshot.
func (s *DefaultCatalogService) Current() *Snapshot {
	return s.holder.Current()
}
