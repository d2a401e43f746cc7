package tui

import (
	"context"
	"fmt"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rusq/purgemychats/internal/convo"
	"github.com/rusq/purgemychats/internal/waipu"
)

const infoText = "[Space] select  [A]ll  [N]one  [C]hats  [G]roups  c[H]annels  [D]elete  [/] search  [Ctrl+Q] quit"

func (app *App) initMain(ctx context.Context) {
	app.view.lvChats.
		SetHighlightFullLine(true).
		SetSelectedBackgroundColor(tcell.Color190).
		SetSelectedTextColor(tcell.ColorBlack).
		SetMainTextColor(tcell.Color190).
		ShowSecondaryText(true).
		SetBorder(true).
		SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
			return app.chatInputCapture(ctx, event)
		}).
		SetTitle("[ Conversations ]")

	app.view.tvLog.
		SetDynamicColors(true).
		SetWordWrap(true).
		SetScrollable(true).
		SetBorder(true).
		SetTitle("[ Information ]")

	// main is the main screen, split in two parts.
	workspace := app.view.main.
		AddItem(app.view.lvChats, 0, 40, true).
		AddItem(app.view.tvLog, 0, 60, false)

	// The bottom row is the help message
	info := tview.NewTextView().
		SetDynamicColors(false).
		SetWrap(false).
		SetTextAlign(tview.AlignCenter).
		SetTextColor(tcell.ColorRed).
		SetText(infoText)

	mainScreen := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(workspace, 0, 1, true).
		AddItem(info, 1, 1, false)

	app.pages.AddPage(stSelecting, mainScreen, true, true)
}

// populateChatList replaces the selection and the list contents with items.
func (app *App) populateChatList(ctx context.Context, items []convo.Item) {
	app.sel = waipu.NewSelection(items)
	app.view.lvChats.Clear()
	for i, it := range items {
		app.view.lvChats.AddItem(
			mainText(it, false),
			secondaryText(it),
			0,
			func() { app.apply(waipu.Command{Op: waipu.OpToggle, From: i + 1}) },
		)
	}
	app.view.lvChats.SetTitle(fmt.Sprintf("[ Conversations: %d ]", len(items)))
}

func mainText(it convo.Item, selected bool) string {
	mark := " "
	if selected {
		mark = "X"
	}
	return tview.Escape(fmt.Sprintf("[%s] %s", mark, it.Name))
}

func secondaryText(it convo.Item) string {
	return fmt.Sprintf("    %s (%d)", it.Category, it.ID)
}

// refreshMarks updates the selection marks on the list.
func (app *App) refreshMarks() {
	for i := 0; i < app.sel.Len(); i++ {
		it := app.sel.Item(i)
		app.view.lvChats.SetItemText(i, mainText(it, app.sel.IsSelected(i)), secondaryText(it))
	}
}

// apply applies the selection command and logs the result.
func (app *App) apply(cmd waipu.Command) {
	msg, err := app.sel.Apply(cmd)
	if err != nil {
		app.error(err)
		return
	}
	if msg != "" {
		app.logf("%s (%d selected)", msg, app.sel.Count())
	}
	app.refreshMarks()
}

var keyOps = map[rune]waipu.Op{
	'a': waipu.OpAll,
	'n': waipu.OpNone,
	'c': waipu.OpChats,
	'g': waipu.OpGroups,
	'h': waipu.OpChannels,
}

func (app *App) chatInputCapture(ctx context.Context, event *tcell.EventKey) *tcell.EventKey {
	if app.fsm.Current() != stSelecting {
		// no changes to the list while the removal is running.
		return nil
	}
	switch event.Key() {
	case tcell.KeyCtrlF:
		app.event(ctx, evSearch)
		return nil
	case tcell.KeyRune:
		r := event.Rune()
		switch r {
		case '/':
			app.event(ctx, evSearch)
			return nil
		case ' ':
			if app.sel.Len() > 0 {
				app.apply(waipu.Command{Op: waipu.OpToggle, From: app.view.lvChats.GetCurrentItem() + 1})
			}
			return nil
		case 'd', 'D':
			app.requestDelete(ctx)
			return nil
		}
		if op, ok := keyOps[unicode.ToLower(r)]; ok {
			app.apply(waipu.Command{Op: op})
			return nil
		}
	}
	return event
}

// requestDelete shows the confirmation for the selected items, or the
// "nothing selected" message.
func (app *App) requestDelete(ctx context.Context) {
	items := app.sel.Selected()
	if len(items) == 0 {
		app.event(ctx, evNothingToDo)
		return
	}
	app.fsm.SetMetadata(metaItems, items)
	app.view.mbConfirm.SetText(confirmText(items))
	app.event(ctx, evDelete)
}

func confirmText(items []convo.Item) string {
	text := fmt.Sprintf("You are about to delete/leave %d conversations:\n\n", len(items))
	for _, c := range waipu.Summarise(items) {
		text += fmt.Sprintf("%s: %d\n", c.Category, c.N)
	}
	return text + "\nProceed?"
}
