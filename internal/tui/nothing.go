package tui

import "context"

func (app *App) initNothing(ctx context.Context) {
	app.pages.AddPage(stNothing, app.view.mbNothing, false, false)
	app.view.mbNothing.
		SetDoneFunc(func(_ int, _ string) {
			app.cancel(ctx)
		}).
		SetText("No conversations selected.  Select them with Space, or use A, C, G or H keys.").
		AddButtons([]string{btnOK})
}
