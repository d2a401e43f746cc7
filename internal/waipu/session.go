package waipu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rusq/dlog"

	"github.com/rusq/purgemychats/internal/convo"
)

// Options is the selection and execution options.
type Options struct {
	Categories
	// IDs is the list of conversation IDs for the batch mode.
	IDs []int64
	// Interactive forces the interactive selection, category flags are
	// ignored.
	Interactive bool
	// Delay between remote calls.
	Delay time.Duration
	// Interrupt, if set, derives the context for the removal, i.e. the one
	// cancelled on Ctrl+C.  The prompts are not covered by it, the reads
	// from the terminal can not be cancelled.
	Interrupt func(ctx context.Context) (context.Context, context.CancelFunc)
}

// Session runs the workflow: selection, confirmation and removal of the
// conversations from the inventory.
type Session struct {
	rm   Remover
	p    *Prompter
	out  io.Writer
	opts Options
}

func NewSession(rm Remover, in io.Reader, out io.Writer, opts Options) *Session {
	return &Session{
		rm:   rm,
		p:    NewPrompter(in, out),
		out:  out,
		opts: opts,
	}
}

// Fetch builds the inventory of all conversations.
func Fetch(ctx context.Context, tg Telegramer) (*convo.Inventory, error) {
	return convo.Build(ctx, tg.Dialogs(ctx))
}

// Run runs the workflow over the inventory.  It returns nil, if the user
// cancels the operation at any stage.
func (s *Session) Run(ctx context.Context, inv *convo.Inventory) error {
	if inv.Len() == 0 {
		fmt.Fprintln(s.out, "No conversations found.")
		return nil
	}
	PrintCounts(s.out, inv)

	items, err := s.selectItems(inv)
	if err != nil {
		if errors.Is(err, ErrQuit) {
			return nil
		}
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(s.out, "No items selected for deletion. Exiting.")
		return nil
	}

	ok, err := Confirm(s.p, items)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(s.out, "Operation cancelled.")
		return nil
	}

	if s.opts.Interrupt != nil {
		var stop context.CancelFunc
		ctx, stop = s.opts.Interrupt(ctx)
		defer stop()
	}

	fmt.Fprintln(s.out, "\nProcessing... This may take some time.")
	rep := NewExecutor(s.rm, s.opts.Delay, s.out).Run(ctx, items)
	printTally(s.out, rep.Tally)
	return nil
}

// selectItems resolves the items to delete.  The interactive flag wins over
// the category flags, the category flags win over the IDs, if nothing is
// specified, the menu is shown.
func (s *Session) selectItems(inv *convo.Inventory) ([]convo.Item, error) {
	switch {
	case s.opts.Interactive:
		return Interactive(s.p, inv.Flatten())
	case s.opts.Categories.Any():
		return ByCategory(inv, s.opts.Categories), nil
	case len(s.opts.IDs) > 0:
		return ByID(inv, s.opts.IDs), nil
	}

	choice, err := Menu(s.p)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrQuit
		}
		return nil, err
	}
	switch choice {
	case ChoiceInteractive:
		return Interactive(s.p, inv.Flatten())
	case ChoiceCancel:
		fmt.Fprintln(s.out, "Operation cancelled.")
		return nil, ErrQuit
	case ChoiceInvalid:
		fmt.Fprintln(s.out, "Invalid choice. Operation cancelled.")
		return nil, ErrQuit
	default:
		return ByChoice(inv, choice), nil
	}
}

func printTally(w io.Writer, t Tally) {
	if t.RateLimited > 0 {
		dlog.Printf("%d item(s) failed due to rate limiting, consider increasing the delay", t.RateLimited)
	}
	fmt.Fprintf(w, "\nOperation completed. Successfully processed %d out of %d items.\n", t.Succeeded, t.Attempted)
}
