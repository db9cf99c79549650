package events

import "github.com/gridstash/gridstash/internal/models"

// BannerLevel distinguishes the two transient banner slots.
type BannerLevel string

const (
	BannerError   BannerLevel = "error"
	BannerSuccess BannerLevel = "success"
)

// ViewChangedEvent is published when the visible screen changes.
type ViewChangedEvent struct {
	BaseEvent
	View string
}

// SessionChangedEvent is published when authentication status flips.
type SessionChangedEvent struct {
	BaseEvent
	Authenticated bool
}

// CatalogLoadingEvent is published when a catalog refresh starts or ends.
type CatalogLoadingEvent struct {
	BaseEvent
	Loading bool
}

// CatalogChangedEvent is published when the catalog's file set changes.
type CatalogChangedEvent struct {
	BaseEvent
	Files []models.FileRecord
}

// PageLoadingEvent is published when a page fetch begins.
type PageLoadingEvent struct {
	BaseEvent
	FileID string
	Page   int
}

// PageLoadedEvent is published when a page fetch lands and is accepted.
type PageLoadedEvent struct {
	BaseEvent
	Page *models.FilePage
}

// BannerEvent is published when a transient banner is set or cleared.
// An empty Message clears the slot.
type BannerEvent struct {
	BaseEvent
	Level   BannerLevel
	Message string
}

// NewViewChangedEvent creates a ViewChangedEvent.
func NewViewChangedEvent(view string) *ViewChangedEvent {
	return &ViewChangedEvent{BaseEvent: NewBase(EventViewChanged), View: view}
}

// NewSessionChangedEvent creates a SessionChangedEvent.
func NewSessionChangedEvent(authenticated bool) *SessionChangedEvent {
	return &SessionChangedEvent{BaseEvent: NewBase(EventSessionChanged), Authenticated: authenticated}
}

// NewCatalogLoadingEvent creates a CatalogLoadingEvent.
func NewCatalogLoadingEvent(loading bool) *CatalogLoadingEvent {
	return &CatalogLoadingEvent{BaseEvent: NewBase(EventCatalogLoading), Loading: loading}
}

// NewCatalogChangedEvent creates a CatalogChangedEvent.
func NewCatalogChangedEvent(files []models.FileRecord) *CatalogChangedEvent {
	return &CatalogChangedEvent{BaseEvent: NewBase(EventCatalogChanged), Files: files}
}

// NewPageLoadingEvent creates a PageLoadingEvent.
func NewPageLoadingEvent(fileID string, page int) *PageLoadingEvent {
	return &PageLoadingEvent{BaseEvent: NewBase(EventPageLoading), FileID: fileID, Page: page}
}

// NewPageLoadedEvent creates a PageLoadedEvent.
func NewPageLoadedEvent(page *models.FilePage) *PageLoadedEvent {
	return &PageLoadedEvent{BaseEvent: NewBase(EventPageLoaded), Page: page}
}

// NewBannerEvent creates a BannerEvent.
func NewBannerEvent(level BannerLevel, message string) *BannerEvent {
	return &BannerEvent{BaseEvent: NewBase(EventBanner), Level: level, Message: message}
}
