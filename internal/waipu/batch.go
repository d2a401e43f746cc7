package waipu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/trace"
	"time"

	"github.com/fatih/color"
	"github.com/gotd/td/tgerr"
	"github.com/rusq/dlog"

	"github.com/rusq/purgemychats/internal/convo"
)

// DefDelay is the default delay between remote calls.
const DefDelay = 2 * time.Second

var (
	errSkipped     = errors.New("unsupported conversation type")
	errUnsupported = errors.New("unsupported entity kind")

	okclr   = color.New(color.FgGreen)
	failclr = color.New(color.FgRed)
)

// Count is the number of attempted and succeeded operations.
type Count struct {
	Attempted int
	Succeeded int
}

// Tally is the outcome of the run.
type Tally struct {
	Count
	// RateLimited is the number of items that failed due to rate limiting.
	RateLimited int
	// ByCategory holds counts per category.
	ByCategory map[convo.Category]*Count
}

func (t *Tally) add(cat convo.Category, ok bool) {
	if t.ByCategory == nil {
		t.ByCategory = make(map[convo.Category]*Count)
	}
	c, exist := t.ByCategory[cat]
	if !exist {
		c = new(Count)
		t.ByCategory[cat] = c
	}
	c.Attempted++
	t.Attempted++
	if ok {
		c.Succeeded++
		t.Succeeded++
	}
}

// Failed returns the number of failed items.
func (t *Tally) Failed() int {
	return t.Attempted - t.Succeeded
}

// Result is the outcome for a single item.
type Result struct {
	Item convo.Item
	Err  error
	// Wait is set if the item failed due to rate limiting, and contains the
	// duration the remote side requested to wait for.
	Wait time.Duration
}

// Report is the result of the Executor run.
type Report struct {
	Tally   Tally
	Results []Result
}

// Executor removes the conversations.
type Executor struct {
	Remote Remover
	// Delay is the delay between items.
	Delay time.Duration
	// Out is where the progress is printed, if nil, the progress is not
	// printed.
	Out io.Writer

	// sleep is the delay function, replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewExecutor(rm Remover, delay time.Duration, out io.Writer) *Executor {
	return &Executor{Remote: rm, Delay: delay, Out: out}
}

// Run processes the items one by one, in order.  Errors on individual items
// are logged and counted, they do not stop the run.  Run only stops early if
// the context is cancelled.
func (e *Executor) Run(ctx context.Context, items []convo.Item) Report {
	ctx, task := trace.NewTask(ctx, "Run")
	defer task.End()

	out := e.Out
	if out == nil {
		out = io.Discard
	}
	sleep := e.sleep
	if sleep == nil {
		sleep = wait
	}

	var rep = Report{Results: make([]Result, 0, len(items))}
	for i, it := range items {
		fmt.Fprintf(out, "Processing %d/%d: %s...", i+1, len(items), it)
		res := e.process(ctx, it)
		rep.Results = append(rep.Results, res)
		rep.Tally.add(it.Category, res.Err == nil)
		if res.Err == nil {
			okclr.Fprintln(out, " Done")
		} else {
			failclr.Fprintln(out, " Failed")
			if res.Wait > 0 {
				rep.Tally.RateLimited++
			}
		}

		if i < len(items)-1 {
			if err := sleep(ctx, e.Delay); err != nil {
				dlog.Printf("interrupted: %s", err)
				break
			}
		}
	}
	return rep
}

func (e *Executor) process(ctx context.Context, it convo.Item) Result {
	trace.Logf(ctx, "item", "%d %s", it.ID, it.Category)
	res := Result{Item: it}
	err := e.remove(ctx, it)
	switch {
	case err == nil:
	case errors.Is(err, errSkipped):
		dlog.Printf("WARNING: unknown item type: %s. Skipping %s.", it.Category, it.Name)
	default:
		if d, ok := tgerr.AsFloodWait(err); ok {
			res.Wait = d
			dlog.Printf("rate limited on %s (ID: %d), please wait %s before trying again", it.Name, it.ID, d)
		} else {
			dlog.Printf("error processing %s %s (ID: %d): %s", it.Category, it.Name, it.ID, err)
		}
	}
	res.Err = err
	return res
}

// remove calls the remote operation, appropriate for the item.
func (e *Executor) remove(ctx context.Context, it convo.Item) error {
	switch {
	case it.Category == convo.PrivateChat:
		return e.Remote.DeleteHistory(ctx, it.Entity)
	case it.Category.IsGroup() || it.Category.IsChannel():
		switch it.Entity.Kind {
		case convo.KindChannel:
			return e.Remote.LeaveChannel(ctx, it.Entity)
		case convo.KindChat:
			return e.Remote.LeaveChat(ctx, it.Entity)
		default:
			return fmt.Errorf("%w: %s", errUnsupported, it.Entity.Kind)
		}
	default:
		return errSkipped
	}
}

// wait waits for d or until the context is cancelled.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
