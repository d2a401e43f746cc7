package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rusq/purgemychats/internal/convo"
	"github.com/rusq/purgemychats/internal/waipu"
)

func (app *App) initConfirm(ctx context.Context) {
	app.pages.AddPage(stConfirming, app.view.mbConfirm, false, false)
	app.view.mbConfirm.
		AddButtons([]string{btnYes, btnNo}).
		SetDoneFunc(func(_ int, buttonLabel string) {
			app.handleConfirm(ctx, buttonLabel)
		}).
		SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
			if event.Key() == tcell.KeyESC {
				app.cancel(ctx)
				return nil
			}
			return event
		})
}

func (app *App) handleConfirm(ctx context.Context, buttonLabel string) {
	switch buttonLabel {
	case btnYes:
		items, err := metadata[[]convo.Item](app.fsm, metaItems)
		if err != nil {
			app.error(fmt.Errorf("items missing: %w", err))
			app.cancel(ctx)
			return
		}
		if !app.event(ctx, evConfirmed) {
			return
		}
		app.wg.Add(1)
		// the removal runs in the background, so that the log keeps updating.
		go app.runDelete(ctx, items)
	case btnNo:
		app.cancel(ctx)
	}
}

// runDelete removes the items and refreshes the list once finished.  Must be
// run in a goroutine.
func (app *App) runDelete(ctx context.Context, items []convo.Item) {
	defer app.wg.Done()

	app.view.tvLog.Clear()
	app.logf("Processing %d conversations, this may take some time.", len(items))
	ex := waipu.NewExecutor(app.rm, app.delay, tview.ANSIWriter(app.logw))
	rep := ex.Run(ctx, items)
	app.logf("Operation completed. Successfully processed %d out of %d items.", rep.Tally.Succeeded, len(items))
	if rep.Tally.RateLimited > 0 {
		app.logf("%d items were rate limited, try them again later.", rep.Tally.RateLimited)
	}

	// not waiting for the update, the application may be stopped already.
	go app.tva.QueueUpdateDraw(func() {
		app.populateChatList(ctx, remaining(app.sel, rep.Results))
		app.event(ctx, evDeleted)
	})
}

// remaining returns the items of the selection that were not removed
// successfully.
func remaining(sel *waipu.Selection, results []waipu.Result) []convo.Item {
	type key struct {
		kind convo.Kind
		id   int64
	}
	done := make(map[key]bool, len(results))
	for _, r := range results {
		if r.Err == nil {
			done[key{r.Item.Entity.Kind, r.Item.ID}] = true
		}
	}
	var ret = make([]convo.Item, 0, sel.Len())
	for i := 0; i < sel.Len(); i++ {
		it := sel.Item(i)
		if !done[key{it.Entity.Kind, it.ID}] {
			ret = append(ret, it)
		}
	}
	return ret
}
