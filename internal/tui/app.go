// Package tui is the full screen interface for selecting and removing the
// conversations.
package tui

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/looplab/fsm"
	"github.com/rivo/tview"
	"github.com/rusq/dlog"
	"github.com/rusq/osenv/v2"

	"github.com/rusq/purgemychats/internal/convo"
	"github.com/rusq/purgemychats/internal/waipu"
)

const (
	btnYes = "Yes"
	btnNo  = "No"
	btnOK  = "OK"
)

type App struct {
	tva   *tview.Application
	rm    waipu.Remover
	delay time.Duration
	log   *dlog.Logger
	logw  io.Writer
	fsm   *fsm.FSM

	sel *waipu.Selection
	wg  sync.WaitGroup

	pages *tview.Pages
	view  views
}

type views struct {
	main      *tview.Flex
	mbConfirm *tview.Modal
	mbNothing *tview.Modal
	fmSearch  *tview.Form

	lvChats *tview.List
	tvLog   *tview.TextView
}

// New creates the application.  delay is the delay between the remote calls.
func New(ctx context.Context, rm waipu.Remover, delay time.Duration) *App {
	app := &App{
		tva:   tview.NewApplication(),
		rm:    rm,
		delay: delay,
		sel:   waipu.NewSelection(nil),

		pages: tview.NewPages(),
		view: views{
			main:      tview.NewFlex(),
			mbConfirm: tview.NewModal(),
			mbNothing: tview.NewModal(),
			fmSearch:  tview.NewForm(),

			lvChats: tview.NewList(),
			tvLog:   tview.NewTextView(),
		},
	}

	app.initMain(ctx)
	app.initFind(ctx)
	app.initConfirm(ctx)
	app.initNothing(ctx)

	app.tva.SetInputCapture(app.handleKeystrokes)

	app.logw = drawWriter{w: app.view.tvLog, tva: app.tva}
	app.log = dlog.New(app.logw, "", dlog.Flags(), osenv.Value("DEBUG", "") != "")

	// init finite state machine
	app.fsm = initFSM(app)

	return app
}

// Run shows the items and runs the application until the user quits.  The
// removal in progress is cancelled on exit.
func (app *App) Run(ctx context.Context, items []convo.Item) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		app.wg.Wait()
	}()
	go func() {
		<-ctx.Done()
		app.tva.Stop()
	}()

	// the package level log would write over the screen.
	prev := dlog.Writer()
	dlog.SetOutput(app.logw)
	defer dlog.SetOutput(prev)

	app.populateChatList(ctx, items)

	if err := app.tva.SetRoot(app.pages, true).EnableMouse(false).Run(); err != nil {
		return err
	}
	return nil
}

func (app *App) logf(format string, a ...any) {
	app.log.Printf(format, a...)
}

func (app *App) error(err error) {
	app.log.Printf("ERROR: %s", err)
}

func (app *App) handleKeystrokes(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyCtrlQ, tcell.KeyF10:
		app.tva.Stop()
	default:
		return event
	}
	return nil
}

// cancel sends a evCancelled event.
func (app *App) cancel(ctx context.Context) {
	app.event(ctx, evCancelled)
}

// event sends an event to FSM, will return true, if there were no errors.
func (app *App) event(ctx context.Context, event string) bool {
	if err := app.fsm.Event(ctx, event); err != nil {
		app.error(err)
		return false
	}
	return true
}

// drawWriter writes to w and requests the redraw.  Draw blocks until the
// event loop runs the update, so it is requested from a separate goroutine:
// the writes come both from the event loop and from the removal goroutine.
type drawWriter struct {
	w   io.Writer
	tva *tview.Application
}

func (dw drawWriter) Write(p []byte) (int, error) {
	n, err := dw.w.Write(p)
	go dw.tva.Draw()
	return n, err
}

// modal wraps a primitive in a modal box.
func modal(p tview.Primitive, width int, height int) tview.Primitive {
	return tview.NewGrid().
		SetColumns(0, width, 0).
		SetRows(0, height, 0).
		AddItem(p, 1, 1, 1, 1, 0, 0, true)
}
