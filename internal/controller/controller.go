// Package controller is the top-level state machine selecting which
// screen is presented and orchestrating the session store, file
// catalog, and paged viewer in response to user actions. Every gateway
// failure is converted to a user-visible banner at this boundary; no
// error propagates further up.
package controller

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/gridstash/gridstash/internal/api"
	"github.com/gridstash/gridstash/internal/catalog"
	"github.com/gridstash/gridstash/internal/events"
	"github.com/gridstash/gridstash/internal/session"
	"github.com/gridstash/gridstash/internal/viewer"
)

// BannerTTL is how long a transient banner stays up before
// self-clearing.
const BannerTTL = 3000 * time.Millisecond

// ErrActionInFlight is returned when a mutating action is invoked
// while another one is still outstanding. The caller made no network
// call; the UI should have disabled the control.
var ErrActionInFlight = errors.New("another action is in flight")

// View identifies the visible screen. Exactly one value at a time;
// transitions are the only way the screen changes.
type View int

const (
	// ViewLogin is the logged-out login form.
	ViewLogin View = iota
	// ViewRegister is the logged-out registration form.
	ViewRegister
	// ViewDashboard is the authenticated file list.
	ViewDashboard
	// ViewFileOpen is the paged row view of one file.
	ViewFileOpen
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewRegister:
		return "register"
	case ViewDashboard:
		return "dashboard"
	case ViewFileOpen:
		return "file_open"
	default:
		return "unknown"
	}
}

// Controller owns the application state object. Session, catalog, and
// viewer are injected; none of them is reached through ambient globals.
type Controller struct {
	gateway  api.Gateway
	session  *session.Store
	catalog  *catalog.Catalog
	viewer   *viewer.Viewer
	eventBus *events.EventBus

	bannerTTL time.Duration

	mu         sync.Mutex
	view       View
	busy       bool
	errMsg     string
	successMsg string
	errGen     int
	successGen int
}

// New wires a controller over its collaborators. bannerTTL <= 0 uses
// the default 3 s.
func New(gateway api.Gateway, sess *session.Store, cat *catalog.Catalog, view *viewer.Viewer, eventBus *events.EventBus, bannerTTL time.Duration) *Controller {
	if bannerTTL <= 0 {
		bannerTTL = BannerTTL
	}
	return &Controller{
		gateway:   gateway,
		session:   sess,
		catalog:   cat,
		viewer:    view,
		eventBus:  eventBus,
		bannerTTL: bannerTTL,
		view:      ViewLogin,
	}
}

// Session returns the session store.
func (c *Controller) Session() *session.Store { return c.session }

// Catalog returns the file catalog.
func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }

// Viewer returns the paged viewer.
func (c *Controller) Viewer() *viewer.Viewer { return c.viewer }

// View returns the visible screen.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Busy reports whether a mutating action is outstanding. The UI uses
// this to disable destructive controls.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// ErrorBanner returns the live error banner text, if any.
func (c *Controller) ErrorBanner() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// SuccessBanner returns the live success banner text, if any.
func (c *Controller) SuccessBanner() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.successMsg
}

// Restore is invoked once at process start. A persisted token enters
// the dashboard directly and triggers a catalog refresh; token
// validity is discovered lazily on that first authorized call.
func (c *Controller) Restore(ctx context.Context) {
	if !c.session.Restore() {
		c.setView(ViewLogin)
		return
	}
	c.setView(ViewDashboard)
	if err := c.catalog.Refresh(ctx); err != nil {
		c.showError(api.Message(err))
	}
}

// Login authenticates and, on success, enters the dashboard and
// refreshes the catalog. On failure the view stays on the login form
// and the backend's message becomes the error banner.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	if !c.begin() {
		return ErrActionInFlight
	}
	defer c.end()

	token, err := c.gateway.Authenticate(ctx, email, password)
	if err != nil {
		c.showError(api.Message(err))
		return nil
	}

	if err := c.session.Login(token); err != nil {
		// Session is live in memory; only reload survival was lost.
		c.showError("Signed in, but the session could not be persisted")
	} else {
		c.showSuccess("Login successful!")
	}
	c.setView(ViewDashboard)

	if err := c.catalog.Refresh(ctx); err != nil {
		c.showError(api.Message(err))
	}
	return nil
}

// Register creates an account and, on success, returns to the login
// form with a success banner.
func (c *Controller) Register(ctx context.Context, name, email, password string) error {
	if !c.begin() {
		return ErrActionInFlight
	}
	defer c.end()

	if err := c.gateway.Register(ctx, name, email, password); err != nil {
		c.showError(api.Message(err))
		return nil
	}

	c.showSuccess("Registration successful! Please login.")
	c.setView(ViewLogin)
	return nil
}

// ShowRegister switches the logged-out subview to the register form.
func (c *Controller) ShowRegister() {
	c.mu.Lock()
	if c.view != ViewLogin {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.setView(ViewRegister)
}

// ShowLogin switches the logged-out subview to the login form.
func (c *Controller) ShowLogin() {
	c.mu.Lock()
	if c.view != ViewRegister {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.setView(ViewLogin)
}

// OpenFile opens a file at page 1. On success the file view is
// entered; on failure the dashboard stays up with an error banner.
func (c *Controller) OpenFile(ctx context.Context, fileID string) error {
	if err := c.viewer.Open(ctx, fileID); err != nil {
		c.showError(api.Message(err))
		return nil
	}
	c.setView(ViewFileOpen)
	return nil
}

// NextPage advances the open file by one page.
func (c *Controller) NextPage(ctx context.Context) {
	if err := c.viewer.NextPage(ctx); err != nil {
		c.showError(api.Message(err))
	}
}

// PrevPage steps the open file back one page.
func (c *Controller) PrevPage(ctx context.Context) {
	if err := c.viewer.PrevPage(ctx); err != nil {
		c.showError(api.Message(err))
	}
}

// CloseFile returns from the file view to the dashboard.
func (c *Controller) CloseFile() {
	c.viewer.Close()
	c.setView(ViewDashboard)
}

// Upload sends one file and refreshes the catalog on confirmation.
// With no file selected, no network call is made.
func (c *Controller) Upload(ctx context.Context, name string, content io.Reader) error {
	if name == "" || content == nil {
		c.showError("Please select a file")
		return nil
	}
	if !c.begin() {
		return ErrActionInFlight
	}
	defer c.end()

	if err := c.gateway.UploadFile(ctx, name, content); err != nil {
		c.showError(api.Message(err))
		return nil
	}

	c.showSuccess("File uploaded successfully!")
	if err := c.catalog.ApplyUpload(ctx); err != nil {
		c.showError(api.Message(err))
	}
	return nil
}

// Delete removes a file and refreshes the catalog on confirmation.
func (c *Controller) Delete(ctx context.Context, fileID string) error {
	if !c.begin() {
		return ErrActionInFlight
	}
	defer c.end()

	if err := c.gateway.DeleteFile(ctx, fileID); err != nil {
		c.showError(api.Message(err))
		return nil
	}

	c.showSuccess("File deleted successfully!")
	if err := c.catalog.ApplyDeletion(ctx, fileID); err != nil {
		c.showError(api.Message(err))
	}
	return nil
}

// Logout clears the session and discards catalog and viewer contents;
// they must not survive past the owning session. In-flight calls are
// not aborted, but their next fresh token read comes back empty.
func (c *Controller) Logout() {
	_ = c.session.Logout()
	c.catalog.Clear()
	c.viewer.Close()
	c.setView(ViewLogin)
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

func (c *Controller) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Controller) setView(v View) {
	c.mu.Lock()
	changed := c.view != v
	c.view = v
	c.mu.Unlock()

	if changed && c.eventBus != nil {
		c.eventBus.Publish(events.NewViewChangedEvent(v.String()))
	}
}

// showError sets the error banner. At most one error banner is live;
// the next one overwrites it, and each self-clears after the TTL.
func (c *Controller) showError(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.errGen++
	gen := c.errGen
	c.mu.Unlock()

	c.publishBanner(events.BannerError, msg)

	time.AfterFunc(c.bannerTTL, func() {
		c.mu.Lock()
		if c.errGen != gen {
			c.mu.Unlock()
			return
		}
		c.errMsg = ""
		c.mu.Unlock()
		c.publishBanner(events.BannerError, "")
	})
}

// showSuccess sets the success banner with the same lifecycle.
func (c *Controller) showSuccess(msg string) {
	c.mu.Lock()
	c.successMsg = msg
	c.successGen++
	gen := c.successGen
	c.mu.Unlock()

	c.publishBanner(events.BannerSuccess, msg)

	time.AfterFunc(c.bannerTTL, func() {
		c.mu.Lock()
		if c.successGen != gen {
			c.mu.Unlock()
			return
		}
		c.successMsg = ""
		c.mu.Unlock()
		c.publishBanner(events.BannerSuccess, "")
	})
}

func (c *Controller) publishBanner(level events.BannerLevel, msg string) {
	if c.eventBus != nil {
		c.eventBus.Publish(events.NewBannerEvent(level, msg))
	}
}
