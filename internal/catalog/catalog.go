// Package catalog holds the set of the user's files and the
// client-side filter applied to them. It is an observable container:
// changes are published on the event bus, and every mutation mirrors
// server truth by refetching the full list rather than patching
// locally.
package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/gridstash/gridstash/internal/api"
	"github.com/gridstash/gridstash/internal/events"
	"github.com/gridstash/gridstash/internal/models"
)

// Catalog is the observable file set. Thread-safe.
type Catalog struct {
	gateway  api.Gateway
	eventBus *events.EventBus

	mu      sync.RWMutex
	files   []models.FileRecord
	filter  string
	loading bool
}

// New creates an empty catalog over the given gateway.
func New(gateway api.Gateway, eventBus *events.EventBus) *Catalog {
	return &Catalog{
		gateway:  gateway,
		eventBus: eventBus,
	}
}

// Refresh fetches the full file list and replaces the stored set
// wholesale. No incremental merge: the list is small and a full
// refresh cannot drift from server truth. Refreshing twice with no
// intervening mutation yields the same visible set. Records sharing an
// id keep the first occurrence; server order is otherwise preserved.
func (c *Catalog) Refresh(ctx context.Context) error {
	c.setLoading(true)
	defer c.setLoading(false)

	files, err := c.gateway.ListFiles(ctx)
	if err != nil {
		return err
	}

	deduped := make([]models.FileRecord, 0, len(files))
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		deduped = append(deduped, f)
	}

	c.mu.Lock()
	c.files = deduped
	filesCopy := make([]models.FileRecord, len(deduped))
	copy(filesCopy, deduped)
	c.mu.Unlock()

	if c.eventBus != nil {
		c.eventBus.Publish(events.NewCatalogChangedEvent(filesCopy))
	}
	return nil
}

// ApplyUpload mirrors a confirmed upload by refetching the list.
func (c *Catalog) ApplyUpload(ctx context.Context) error {
	return c.Refresh(ctx)
}

// ApplyDeletion mirrors a confirmed deletion by refetching the list.
func (c *Catalog) ApplyDeletion(ctx context.Context, fileID string) error {
	return c.Refresh(ctx)
}

// SetFilter stores the filter term. Pure with respect to the
// underlying set; only the derived visible view changes.
func (c *Catalog) SetFilter(term string) {
	c.mu.Lock()
	c.filter = term
	c.mu.Unlock()
}

// Filter returns the current filter term.
func (c *Catalog) Filter() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// Files returns a copy of the full stored set, unfiltered.
func (c *Catalog) Files() []models.FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]models.FileRecord, len(c.files))
	copy(result, c.files)
	return result
}

// Visible returns the files whose name matches the current filter term
// as a case-insensitive substring. An empty term yields the full set.
// Recomputed on every call; never mutates the stored set.
func (c *Catalog) Visible() []models.FileRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.filter == "" {
		result := make([]models.FileRecord, len(c.files))
		copy(result, c.files)
		return result
	}

	term := strings.ToLower(c.filter)
	result := make([]models.FileRecord, 0, len(c.files))
	for _, f := range c.files {
		if strings.Contains(strings.ToLower(f.Name), term) {
			result = append(result, f)
		}
	}
	return result
}

// FindByID finds a record by id.
func (c *Catalog) FindByID(id string) (models.FileRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, f := range c.files {
		if f.ID == id {
			return f, true
		}
	}
	return models.FileRecord{}, false
}

// Count returns the number of stored records.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

// IsLoading reports whether a refresh is in flight.
func (c *Catalog) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Clear discards all contents and the filter term. Invoked on logout:
// catalog contents must not survive past the owning session.
func (c *Catalog) Clear() {
	c.mu.Lock()
	c.files = nil
	c.filter = ""
	c.mu.Unlock()

	if c.eventBus != nil {
		c.eventBus.Publish(events.NewCatalogChangedEvent(nil))
	}
}

func (c *Catalog) setLoading(loading bool) {
	c.mu.Lock()
	c.loading = loading
	c.mu.Unlock()

	if c.eventBus != nil {
		c.eventBus.Publish(events.NewCatalogLoadingEvent(loading))
	}
}
