package waipu

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gotd/td/tgerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusq/purgemychats/internal/convo"
)

func newTestExecutor(rm Remover, delay time.Duration, slept *[]time.Duration) (*Executor, *bytes.Buffer) {
	var buf bytes.Buffer
	e := NewExecutor(rm, delay, &buf)
	e.sleep = func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return e, &buf
}

func TestExecutor_Run_dispatch(t *testing.T) {
	rm := &fakeRemote{}
	var slept []time.Duration
	e, out := newTestExecutor(rm, 3*time.Second, &slept)

	its := items(t,
		user(1, "Kelly"),
		megagroup(2, "Slackdump"),
		chat(3, "Chopper"),
		broadcast(4, "News"),
		other(5, "?"),
	)
	rep := e.Run(context.Background(), its)

	assert.Equal(t, []call{
		{"history", 1},
		{"channel", 2},
		{"chat", 3},
		{"channel", 4},
	}, rm.calls)
	assert.Equal(t, 5, rep.Tally.Attempted)
	assert.Equal(t, 4, rep.Tally.Succeeded)
	assert.Equal(t, 1, rep.Tally.Failed())
	assert.Equal(t, 0, rep.Tally.RateLimited)
	assert.Equal(t, Count{1, 0}, *rep.Tally.ByCategory[convo.Other])
	assert.Equal(t, Count{1, 1}, *rep.Tally.ByCategory[convo.Supergroup])
	assert.ErrorIs(t, rep.Results[4].Err, errSkipped)

	// no delay after the last item.
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second, 3 * time.Second, 3 * time.Second}, slept)
	assert.Contains(t, out.String(), "Processing 1/5: Kelly (@No username) (Private Chat)... Done\n")
	assert.Contains(t, out.String(), "Processing 5/5: ? (Other)... Failed\n")
}

func TestExecutor_Run_kindMismatch(t *testing.T) {
	// a group category with the entity that is neither a chat nor a channel
	// must not be sent to any of the leave calls.
	rm := &fakeRemote{}
	var slept []time.Duration
	e, _ := newTestExecutor(rm, 0, &slept)
	it := convo.Item{ID: 1, Name: "broken", Category: convo.Supergroup, Entity: convo.Entity{Kind: convo.KindUser, ID: 1}}

	rep := e.Run(context.Background(), []convo.Item{it})
	assert.Empty(t, rm.calls)
	assert.ErrorIs(t, rep.Results[0].Err, errUnsupported)
}

func TestExecutor_Run_rateLimit(t *testing.T) {
	errGeneric := errors.New("CHANNEL_PRIVATE")
	rm := &fakeRemote{errs: map[int64]error{
		3: tgerr.New(420, "FLOOD_WAIT_30"),
		4: errGeneric,
	}}
	var slept []time.Duration
	e, _ := newTestExecutor(rm, time.Second, &slept)

	its := items(t, user(1, "a"), user(2, "b"), user(3, "c"), megagroup(4, "d"), chat(5, "e"))
	rep := e.Run(context.Background(), its)

	require.Len(t, rm.calls, 5, "items after the rate limited one must be processed")
	assert.Equal(t, 5, rep.Tally.Attempted)
	assert.Equal(t, 3, rep.Tally.Succeeded)
	assert.Equal(t, 1, rep.Tally.RateLimited)
	assert.Equal(t, 30*time.Second, rep.Results[2].Wait)
	assert.Equal(t, time.Duration(0), rep.Results[3].Wait)
	assert.ErrorIs(t, rep.Results[3].Err, errGeneric)
	assert.Len(t, slept, 4)
}

func TestExecutor_Run_cancelled(t *testing.T) {
	rm := &fakeRemote{}
	e := NewExecutor(rm, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep := e.Run(ctx, items(t, user(1, "a"), user(2, "b")))
	assert.Len(t, rm.calls, 1)
	assert.Equal(t, 1, rep.Tally.Attempted)
}

func TestExecutor_Run_empty(t *testing.T) {
	rm := &fakeRemote{}
	rep := NewExecutor(rm, 0, nil).Run(context.Background(), nil)
	assert.Empty(t, rm.calls)
	assert.Equal(t, 0, rep.Tally.Attempted)
}

func Test_wait(t *testing.T) {
	assert.NoError(t, wait(context.Background(), 0))
	assert.NoError(t, wait(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, wait(ctx, time.Hour), context.Canceled)
}

func floodWait(t *testing.T) error {
	t.Helper()
	return tgerr.New(420, "FLOOD_WAIT_5")
}
