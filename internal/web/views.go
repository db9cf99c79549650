package web

import (
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/gridstash/gridstash/internal/models"
	"github.com/gridstash/gridstash/internal/viewer"
)

func (v *AppView) renderLogin() app.UI {
	return app.Div().Class("auth-card").Body(
		app.H1().Text("GridStash"),
		app.H2().Text("Login"),
		app.Form().OnSubmit(v.onLogin).Body(
			app.Input().
				Type("email").
				Placeholder("Email").
				Value(v.email).
				OnInput(func(ctx app.Context, e app.Event) {
					v.email = ctx.JSSrc().Get("value").String()
				}),
			app.Input().
				Type("password").
				Placeholder("Password").
				Value(v.password).
				OnInput(func(ctx app.Context, e app.Event) {
					v.password = ctx.JSSrc().Get("value").String()
				}),
			app.Button().
				Type("submit").
				Disabled(v.ctrl.Busy()).
				Text("Login"),
		),
		app.P().Body(
			app.Text("No account? "),
			app.A().Href("#").Text("Register").OnClick(func(ctx app.Context, e app.Event) {
				e.PreventDefault()
				v.password = ""
				v.ctrl.ShowRegister()
			}),
		),
	)
}

func (v *AppView) renderRegister() app.UI {
	return app.Div().Class("auth-card").Body(
		app.H1().Text("GridStash"),
		app.H2().Text("Register"),
		app.Form().OnSubmit(v.onRegister).Body(
			app.Input().
				Type("text").
				Placeholder("Name").
				Value(v.name).
				OnInput(func(ctx app.Context, e app.Event) {
					v.name = ctx.JSSrc().Get("value").String()
				}),
			app.Input().
				Type("email").
				Placeholder("Email").
				Value(v.email).
				OnInput(func(ctx app.Context, e app.Event) {
					v.email = ctx.JSSrc().Get("value").String()
				}),
			app.Input().
				Type("password").
				Placeholder("Password").
				Value(v.password).
				OnInput(func(ctx app.Context, e app.Event) {
					v.password = ctx.JSSrc().Get("value").String()
				}),
			app.Button().
				Type("submit").
				Disabled(v.ctrl.Busy()).
				Text("Register"),
		),
		app.P().Body(
			app.Text("Already registered? "),
			app.A().Href("#").Text("Login").OnClick(func(ctx app.Context, e app.Event) {
				e.PreventDefault()
				v.password = ""
				v.ctrl.ShowLogin()
			}),
		),
	)
}

func (v *AppView) renderDashboard() app.UI {
	files := v.ctrl.Catalog().Visible()

	return app.Div().Class("dashboard").Body(
		app.Header().Class("topbar").Body(
			app.H1().Text("GridStash"),
			app.Button().Class("secondary").Text("Logout").OnClick(v.onLogout),
		),

		app.Div().Class("upload-row").Body(
			app.Input().
				Type("file").
				Accept(".csv,.xlsx,.xls,.parquet").
				OnChange(v.onFileSelected),
			app.Button().
				Disabled(v.ctrl.Busy()).
				Text("Upload").
				OnClick(v.onUpload),
		),

		app.Input().
			Type("search").
			Class("filter").
			Placeholder("Filter by name...").
			Value(v.filter).
			OnInput(func(ctx app.Context, e app.Event) {
				v.filter = ctx.JSSrc().Get("value").String()
				v.ctrl.Catalog().SetFilter(v.filter)
			}),

		app.If(v.ctrl.Catalog().IsLoading(), func() app.UI {
			return app.Div().Class("loading").Text("Loading files...")
		}).ElseIf(len(files) == 0, func() app.UI {
			return app.Div().Class("empty").Text("No files found.")
		}).Else(func() app.UI {
			return app.Table().Class("file-table").Body(
				app.THead().Body(
					app.Tr().Body(
						app.Th().Text("Name"),
						app.Th().Text("Format"),
						app.Th().Text("Size"),
						app.Th().Text("Uploaded"),
						app.Th(),
					),
				),
				app.TBody().Body(
					app.Range(files).Slice(func(i int) app.UI {
						f := files[i]
						return app.Tr().Body(
							app.Td().Body(
								app.A().Href("#").Text(f.Name).OnClick(func(ctx app.Context, e app.Event) {
									e.PreventDefault()
									v.onOpenFile(f.ID)(ctx, e)
								}),
							),
							app.Td().Text(f.Format),
							app.Td().Text(f.HumanSize()),
							app.Td().Text(f.UploadedAt.Format("2006-01-02 15:04")),
							app.Td().Body(
								app.Button().
									Class("danger").
									Disabled(v.ctrl.Busy()).
									Text("Delete").
									OnClick(v.onDeleteFile(f.ID)),
							),
						)
					}),
				),
			)
		}),
	)
}

func (v *AppView) renderFileView() app.UI {
	page := v.ctrl.Viewer().Current()
	loading := v.ctrl.Viewer().CurrentState() == viewer.Loading

	title := "File"
	if page != nil {
		title = page.FileName
	}

	return app.Div().Class("file-view").Body(
		app.Header().Class("topbar").Body(
			app.H1().Text(title),
			app.Button().Class("secondary").Text("Close").OnClick(v.onCloseFile),
		),

		app.Div().Class("pager").Body(
			app.Button().
				Disabled(!v.ctrl.Viewer().CanPrev()).
				Text("Previous").
				OnClick(v.onPrevPage),
			app.Span().Text(fmt.Sprintf("Page %d", v.ctrl.Viewer().Page())),
			app.Button().
				Disabled(loading).
				Text("Next").
				OnClick(v.onNextPage),
		),

		app.If(loading, func() app.UI {
			return app.Div().Class("loading").Text("Loading page...")
		}).ElseIf(page == nil || len(page.Rows) == 0, func() app.UI {
			return app.Div().Class("empty").Text("No rows on this page.")
		}).Else(func() app.UI {
			return v.renderRows(page)
		}),
	)
}

func (v *AppView) renderRows(page *models.FilePage) app.UI {
	cols := models.Columns(page.Rows)

	return app.Table().Class("row-table").Body(
		app.THead().Body(
			app.Tr().Body(
				app.Range(cols).Slice(func(i int) app.UI {
					return app.Th().Text(cols[i])
				}),
			),
		),
		app.TBody().Body(
			app.Range(page.Rows).Slice(func(i int) app.UI {
				row := page.Rows[i]
				return app.Tr().Body(
					app.Range(cols).Slice(func(j int) app.UI {
						cell := "-"
						if value := row[cols[j]]; value != nil {
							cell = fmt.Sprintf("%v", value)
						}
						return app.Td().Text(cell)
					}),
				)
			}),
		),
	)
}
