package web

import (
	"bytes"
	"context"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/gridstash/gridstash/internal/api"
	"github.com/gridstash/gridstash/internal/catalog"
	"github.com/gridstash/gridstash/internal/config"
	"github.com/gridstash/gridstash/internal/controller"
	"github.com/gridstash/gridstash/internal/events"
	"github.com/gridstash/gridstash/internal/session"
	"github.com/gridstash/gridstash/internal/viewer"
)

// AppView is the root component. All application state lives in the
// controller; the component holds only transient input fields.
type AppView struct {
	app.Compo

	ctrl *controller.Controller
	bus  *events.EventBus

	// Form inputs
	name     string
	email    string
	password string
	filter   string

	// Pending upload selection
	pendingName string
	pendingFile app.Value
}

func (v *AppView) OnMount(ctx app.Context) {
	serverURL := app.Getenv(serverURLEnv)
	if serverURL == "" {
		serverURL = config.DefaultServerURL
	}

	v.bus = events.NewEventBus(events.DefaultBuffer)
	sess := session.NewStore(newLocalStore(), v.bus)

	gateway, err := api.NewClient(serverURL, sess, nil)
	if err != nil {
		app.Log("failed to create API client:", err)
		return
	}

	cat := catalog.New(gateway, v.bus)
	view := viewer.New(gateway, v.bus)
	v.ctrl = controller.New(gateway, sess, cat, view, v.bus, 0)

	// Re-render on every state change event.
	updates := v.bus.SubscribeAll()
	go func() {
		for range updates {
			ctx.Dispatch(func(app.Context) {})
		}
	}()

	ctx.Async(func() {
		v.ctrl.Restore(context.Background())
		ctx.Dispatch(func(app.Context) {})
	})
}

func (v *AppView) OnDismount() {
	if v.bus != nil {
		v.bus.Close()
	}
}

func (v *AppView) Render() app.UI {
	if v.ctrl == nil {
		return app.Div().Class("loading").Text("Loading...")
	}

	var screen app.UI
	switch v.ctrl.View() {
	case controller.ViewRegister:
		screen = v.renderRegister()
	case controller.ViewDashboard:
		screen = v.renderDashboard()
	case controller.ViewFileOpen:
		screen = v.renderFileView()
	default:
		screen = v.renderLogin()
	}

	return app.Div().Class("app").Body(
		v.renderBanners(),
		screen,
	)
}

func (v *AppView) renderBanners() app.UI {
	return app.Div().Class("banners").Body(
		app.If(v.ctrl.ErrorBanner() != "", func() app.UI {
			return app.Div().Class("banner banner-error").Text(v.ctrl.ErrorBanner())
		}),
		app.If(v.ctrl.SuccessBanner() != "", func() app.UI {
			return app.Div().Class("banner banner-success").Text(v.ctrl.SuccessBanner())
		}),
	)
}

func (v *AppView) onLogin(ctx app.Context, e app.Event) {
	e.PreventDefault()
	email, password := v.email, v.password
	ctx.Async(func() {
		_ = v.ctrl.Login(context.Background(), email, password)
	})
}

func (v *AppView) onRegister(ctx app.Context, e app.Event) {
	e.PreventDefault()
	name, email, password := v.name, v.email, v.password
	ctx.Async(func() {
		_ = v.ctrl.Register(context.Background(), name, email, password)
	})
}

func (v *AppView) onOpenFile(fileID string) app.EventHandler {
	return func(ctx app.Context, e app.Event) {
		ctx.Async(func() {
			_ = v.ctrl.OpenFile(context.Background(), fileID)
		})
	}
}

func (v *AppView) onDeleteFile(fileID string) app.EventHandler {
	return func(ctx app.Context, e app.Event) {
		ctx.Async(func() {
			_ = v.ctrl.Delete(context.Background(), fileID)
		})
	}
}

func (v *AppView) onFileSelected(ctx app.Context, e app.Event) {
	files := e.Get("target").Get("files")
	if files.Get("length").Int() == 0 {
		v.pendingName = ""
		v.pendingFile = nil
		return
	}
	file := files.Index(0)
	v.pendingName = file.Get("name").String()
	v.pendingFile = file
}

// onUpload reads the selected browser file into memory and hands it to
// the controller. An empty selection is rejected there without a
// network call.
func (v *AppView) onUpload(ctx app.Context, e app.Event) {
	e.PreventDefault()

	if v.pendingName == "" {
		ctx.Async(func() {
			_ = v.ctrl.Upload(context.Background(), "", nil)
		})
		return
	}

	name := v.pendingName
	file := v.pendingFile
	file.Call("arrayBuffer").Then(func(buffer app.Value) {
		array := app.Window().Get("Uint8Array").New(buffer)
		data := make([]byte, array.Get("length").Int())
		app.CopyBytesToGo(data, array)

		ctx.Async(func() {
			if err := v.ctrl.Upload(context.Background(), name, bytes.NewReader(data)); err == nil {
				ctx.Dispatch(func(app.Context) {
					v.pendingName = ""
					v.pendingFile = nil
				})
			}
		})
	})
}

func (v *AppView) onNextPage(ctx app.Context, e app.Event) {
	ctx.Async(func() {
		v.ctrl.NextPage(context.Background())
	})
}

func (v *AppView) onPrevPage(ctx app.Context, e app.Event) {
	ctx.Async(func() {
		v.ctrl.PrevPage(context.Background())
	})
}

func (v *AppView) onCloseFile(ctx app.Context, e app.Event) {
	v.ctrl.CloseFile()
}

func (v *AppView) onLogout(ctx app.Context, e app.Event) {
	v.ctrl.Logout()
}
