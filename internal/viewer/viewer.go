// Package viewer manages the currently opened file's data, current
// page index, and page-fetch sequencing. It is a finite state machine
// per opened file:
//
//	Closed -> Loading(n) -> Loaded(n) -> Loading(n±1) -> ... -> Closed
//
// Page turns are never queued: a response is applied only if the page
// it was requested for is still the currently desired page. That
// stale-response rejection substitutes for network cancellation.
package viewer

import (
	"context"
	"sync"

	"github.com/gridstash/gridstash/internal/api"
	"github.com/gridstash/gridstash/internal/events"
	"github.com/gridstash/gridstash/internal/models"
)

// PageSize is the fixed number of rows per page for the lifetime of a
// session.
const PageSize = 100

// State is the viewer's position in its lifecycle.
type State int

const (
	// Closed means no file is open.
	Closed State = iota
	// Loading means a page fetch is in flight.
	Loading
	// Loaded means the current page is displayed.
	Loaded
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Viewer is the paged file viewer. Thread-safe; fetches run in the
// calling goroutine and apply under lock in completion order.
type Viewer struct {
	gateway  api.Gateway
	eventBus *events.EventBus
	pageSize int

	mu      sync.Mutex
	state   State
	fileID  string
	page    int // currently desired page number, never below 1 while open
	current *models.FilePage
}

// New creates a closed viewer over the given gateway.
func New(gateway api.Gateway, eventBus *events.EventBus) *Viewer {
	return &Viewer{
		gateway:  gateway,
		eventBus: eventBus,
		pageSize: PageSize,
	}
}

// Open resets the page number to 1 and fetches the first page of the
// file. On failure the viewer stays Closed and the error is returned
// for the caller to surface.
func (v *Viewer) Open(ctx context.Context, fileID string) error {
	v.mu.Lock()
	v.state = Loading
	v.fileID = fileID
	v.page = 1
	v.current = nil
	v.mu.Unlock()

	return v.fetch(ctx, fileID, 1)
}

// NextPage requests exactly page N+1. Only enabled from Loaded; there
// is no client-side upper bound: the server is the source of truth
// for the last page, and an empty rows sequence is a valid terminal
// response.
func (v *Viewer) NextPage(ctx context.Context) error {
	v.mu.Lock()
	if v.state != Loaded {
		v.mu.Unlock()
		return nil
	}
	v.page++
	v.state = Loading
	fileID, page := v.fileID, v.page
	v.mu.Unlock()

	return v.fetch(ctx, fileID, page)
}

// PrevPage requests page N-1. A no-op when the current page is 1: the
// page number is never decremented below 1.
func (v *Viewer) PrevPage(ctx context.Context) error {
	v.mu.Lock()
	if v.state != Loaded || v.page <= 1 {
		v.mu.Unlock()
		return nil
	}
	v.page--
	v.state = Loading
	fileID, page := v.fileID, v.page
	v.mu.Unlock()

	return v.fetch(ctx, fileID, page)
}

// Close discards the current page and returns to Closed. Any in-flight
// response lands stale and is dropped.
func (v *Viewer) Close() {
	v.mu.Lock()
	v.state = Closed
	v.fileID = ""
	v.page = 0
	v.current = nil
	v.mu.Unlock()
}

// CurrentState returns the viewer's lifecycle state.
func (v *Viewer) CurrentState() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Page returns the currently desired page number (0 when closed).
func (v *Viewer) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// FileID returns the id of the open file ("" when closed).
func (v *Viewer) FileID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fileID
}

// Current returns the displayed page, or nil while Closed or before
// the first page has loaded.
func (v *Viewer) Current() *models.FilePage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// CanPrev reports whether the previous-page control is enabled.
func (v *Viewer) CanPrev() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state == Loaded && v.page > 1
}

// fetch issues one page request and applies the response if it is
// still wanted. Every page change is a fresh fetch: no local re-paging
// of already-fetched data.
func (v *Viewer) fetch(ctx context.Context, fileID string, page int) error {
	if v.eventBus != nil {
		v.eventBus.Publish(events.NewPageLoadingEvent(fileID, page))
	}

	filePage, err := v.gateway.ReadFilePage(ctx, fileID, page, v.pageSize)

	v.mu.Lock()
	if v.fileID != fileID || v.page != page {
		// Stale: the requested page is no longer the desired one.
		// Applies to errors too: a failure of an abandoned request
		// must not disturb the state the user has since moved to.
		v.mu.Unlock()
		return nil
	}

	if err != nil {
		if v.current != nil {
			// A page was already on screen: restore it.
			v.state = Loaded
			v.page = v.current.Page
		} else {
			// Open failed: do not enter the file view.
			v.state = Closed
			v.fileID = ""
			v.page = 0
		}
		v.mu.Unlock()
		return err
	}

	v.state = Loaded
	v.current = filePage
	v.mu.Unlock()

	if v.eventBus != nil {
		v.eventBus.Publish(events.NewPageLoadedEvent(filePage))
	}
	return nil
}
