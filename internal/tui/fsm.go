package tui

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
)

type machine struct {
	app *App
	fsm *fsm.FSM
}

const (
	// events
	evDelete      = "delete"
	evCancelled   = "cancelled"
	evConfirmed   = "confirmed"
	evDeleted     = "deleted"
	evNothingToDo = "nothing_to_do"
	evSearch      = "search"
	evLocate      = "locate"

	// states
	stSelecting  = "selecting"
	stSearching  = "searching"
	stConfirming = "confirming"
	stDeleting   = "deleting"
	stNothing    = "nothing"

	// metadata
	metaItems = "items"
)

func initFSM(app *App) *fsm.FSM {
	m := machine{app: app}
	sm := fsm.NewFSM(
		stSelecting,
		fsm.Events{
			{Name: evDelete, Src: []string{stSelecting}, Dst: stConfirming},
			{Name: evNothingToDo, Src: []string{stSelecting}, Dst: stNothing},
			{Name: evConfirmed, Src: []string{stConfirming}, Dst: stDeleting},
			{Name: evDeleted, Src: []string{stDeleting}, Dst: stSelecting},
			// search
			{Name: evSearch, Src: []string{stSelecting}, Dst: stSearching},
			{Name: evLocate, Src: []string{stSearching}, Dst: stSelecting},
			// cancel
			{Name: evCancelled, Src: []string{stConfirming, stNothing, stSearching}, Dst: stSelecting},
		},
		fsm.Callbacks{
			m.enter("state"): func(_ context.Context, e *fsm.Event) {
				m.app.log.Debugf("*** transition: %q -> %q\n", e.Src, e.Dst)
				m.app.pages.ShowPage(e.Dst)
			},
			// states
			m.leave(stConfirming): m.hidePage,
			m.leave(stNothing):    m.hidePage,
			m.leave(stSearching):  m.hidePage,
			m.leave(stDeleting):   m.leaveDeleting,
			// events
			m.after(evCancelled): m.afterCancelled,
		},
	)
	m.fsm = sm

	return m.fsm
}

func (*machine) leave(state string) string {
	return "leave_" + state
}

func (*machine) enter(state string) string {
	return "enter_" + state
}

func (*machine) after(event string) string {
	return "after_" + event
}

//
// States
//

func (m *machine) hidePage(_ context.Context, e *fsm.Event) {
	m.app.pages.HidePage(e.Src)
}

func (m *machine) leaveDeleting(context.Context, *fsm.Event) {
	m.cleanUp()
}

//
// Events
//

func (m *machine) afterCancelled(context.Context, *fsm.Event) {
	m.cleanUp()
	m.app.logf("Operation cancelled")
}

func (m *machine) cleanUp() {
	m.fsm.SetMetadata(metaItems, nil)
}

func metadata[T any](fsm *fsm.FSM, key string) (T, error) {
	var ret T
	val, ok := fsm.Metadata(key)
	if !ok || val == nil {
		return ret, fmt.Errorf("value of type %T not present in metadata", ret)
	}
	ret, ok = val.(T)
	if !ok {
		return ret, fmt.Errorf("invalid type (metadata: %T, want %T)", val, ret)
	}
	return ret, nil
}
