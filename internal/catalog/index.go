// Package catalog maintains the denormalized, queryable view of open tour
// instances. The index is derived state: every entry is reconstructible from
// the tour storage plus the availability ledger, and a version stamp copied
// from the ledger makes staleness detectable. Updates arrive push-based via
// ApplyLedgerChange; RebuildOne/RebuildAll cover the pull-based fallback.
package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/sharetours/booking-service/internal/domain"
	"github.com/sharetours/booking-service/internal/ledger"
	"github.com/sharetours/booking-service/internal/pricing"
)

// Index the in-memory catalog index
type Index struct {
	mu        sync.RWMutex
	entries   map[int64]domain.CatalogIndexEntry
	templates map[int64]*domain.TourTemplate // keyed by template id

	source TourSource
	ledger LedgerReader
	logger Logger
}

// NewIndex creates an empty index over the given storage and ledger
func NewIndex(source TourSource, ledgerReader LedgerReader, logger Logger) *Index {
	return &Index{
		entries:   make(map[int64]domain.CatalogIndexEntry),
		templates: make(map[int64]*domain.TourTemplate),
		source:    source,
		ledger:    ledgerReader,
		logger:    logger,
	}
}

// RebuildOne recomputes the entry for one instance from storage and the
// ledger. Idempotent. Instances no longer open are dropped from the index.
func (i *Index) RebuildOne(ctx context.Context, instanceID int64) error {
	instance, err := i.source.GetInstance(ctx, instanceID)
	if err != nil {
		return err
	}

	if !instance.IsOpen() {
		i.mu.Lock()
		delete(i.entries, instanceID)
		i.mu.Unlock()
		return nil
	}

	template, err := i.source.GetTemplate(ctx, instance.TemplateID)
	if err != nil {
		return err
	}

	snap, err := i.ledger.Snapshot(instanceID)
	if err != nil {
		return err
	}

	entry, err := buildEntry(template, instance, snap)
	if err != nil {
		return err
	}

	i.mu.Lock()
	i.entries[instanceID] = entry
	i.templates[template.ID] = template
	i.mu.Unlock()

	return nil
}

// RebuildAll rebuilds the whole index from storage. Idempotent.
func (i *Index) RebuildAll(ctx context.Context) error {
	instances, err := i.source.ListOpenInstances(ctx)
	if err != nil {
		return err
	}

	for _, instance := range instances {
		if err := i.RebuildOne(ctx, instance.ID); err != nil {
			i.logger.Error("catalog: failed to rebuild entry for instance=%d: %v", instance.ID, err)
			return err
		}
	}

	i.logger.Info("catalog: rebuilt %d entries", len(instances))
	return nil
}

// ApplyLedgerChange refreshes a single entry from a ledger snapshot without
// touching storage. Registered as the ledger's change hook. Snapshots older
// than the entry's version are ignored; unknown instances fall back to a
// full RebuildOne.
func (i *Index) ApplyLedgerChange(snap ledger.Snapshot) {
	i.mu.Lock()
	entry, ok := i.entries[snap.InstanceID]
	if !ok {
		i.mu.Unlock()
		if err := i.RebuildOne(context.Background(), snap.InstanceID); err != nil {
			i.logger.Warn("catalog: rebuild after ledger change failed for instance=%d: %v", snap.InstanceID, err)
		}
		return
	}
	if snap.Version <= entry.Version {
		i.mu.Unlock()
		return
	}

	template, ok := i.templates[entry.TemplateID]
	if !ok {
		i.mu.Unlock()
		if err := i.RebuildOne(context.Background(), snap.InstanceID); err != nil {
			i.logger.Warn("catalog: rebuild after ledger change failed for instance=%d: %v", snap.InstanceID, err)
		}
		return
	}

	refreshed, err := refreshEntry(entry, template, snap)
	if err != nil {
		i.mu.Unlock()
		i.logger.Error("catalog: failed to refresh entry for instance=%d: %v", snap.InstanceID, err)
		return
	}
	i.entries[snap.InstanceID] = refreshed
	i.mu.Unlock()
}

// Remove drops an instance from the index (closed, expired or cancelled)
func (i *Index) Remove(instanceID int64) {
	i.mu.Lock()
	delete(i.entries, instanceID)
	i.mu.Unlock()
}

// Entry returns one entry by instance id
func (i *Index) Entry(instanceID int64) (domain.CatalogIndexEntry, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	entry, ok := i.entries[instanceID]
	if !ok {
		return domain.CatalogIndexEntry{}, ErrEntryNotFound
	}
	return entry, nil
}

// SnapshotAll returns a consistent copy of every entry, ordered by instance
// id. The copy is taken under one read lock, so a single search never mixes
// pre- and post-update views of the same instance.
func (i *Index) SnapshotAll() []domain.CatalogIndexEntry {
	i.mu.RLock()
	entries := make([]domain.CatalogIndexEntry, 0, len(i.entries))
	for _, e := range i.entries {
		entries = append(entries, e)
	}
	i.mu.RUnlock()

	sort.Slice(entries, func(a, b int) bool {
		return entries[a].InstanceID < entries[b].InstanceID
	})
	return entries
}

// Len returns the number of indexed instances
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

func buildEntry(t *domain.TourTemplate, instance *domain.TourInstance, snap ledger.Snapshot) (domain.CatalogIndexEntry, error) {
	entry := domain.CatalogIndexEntry{
		InstanceID: instance.ID,
		TemplateID: t.ID,

		Title:    t.Title,
		City:     t.City,
		Country:  t.Country,
		Category: t.Category,

		Languages:         t.Languages,
		TravelStyles:      t.TravelStyles,
		AccessibilityTags: t.AccessibilityTags,

		DurationMinutes: t.DurationMinutes,
		MinGroup:        t.MinGroup,
		MaxGroup:        t.MaxGroup,

		StartTime: instance.StartTime,
		Status:    instance.Status,

		Currency:  t.Currency,
		BasePrice: t.BasePrice,

		InstantBook:    t.InstantBook,
		PayWhatYouWant: t.PayWhatYouWant,

		EarlyBirdNoticeHours: t.EarlyBirdNoticeHours,

		HostRating:  t.HostRating,
		ReviewCount: t.ReviewCount,
	}
	if !t.HasEarlyBird() {
		entry.EarlyBirdNoticeHours = 0
	}

	return refreshEntry(entry, t, snap)
}

// refreshEntry recomputes the ledger-derived fields of an entry. Display
// prices are plain curve prices; early-bird discounts depend on the booking
// moment and are applied on the booking path.
func refreshEntry(entry domain.CatalogIndexEntry, t *domain.TourTemplate, snap ledger.Snapshot) (domain.CatalogIndexEntry, error) {
	current, err := pricing.Price(t, snap.ConfirmedCount)
	if err != nil {
		return domain.CatalogIndexEntry{}, err
	}
	atFull, err := pricing.Price(t, t.MaxGroup)
	if err != nil {
		return domain.CatalogIndexEntry{}, err
	}
	progress, err := pricing.ProgressPercentage(snap.ConfirmedCount, t.MaxGroup)
	if err != nil {
		return domain.CatalogIndexEntry{}, err
	}

	entry.CurrentPrice = current
	entry.AtFullPrice = atFull
	entry.ProgressPct = progress
	entry.ConfirmedCount = snap.ConfirmedCount
	entry.SpotsLeft = snap.SpotsLeft()
	entry.Version = snap.Version

	if snap.IsFull() {
		entry.Status = domain.InstanceClosedFull
	}

	return entry, nil
}
