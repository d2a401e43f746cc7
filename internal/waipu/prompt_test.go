package waipu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusq/purgemychats/internal/convo"
)

func runInteractive(t *testing.T, input string, its []convo.Item) ([]convo.Item, string, error) {
	t.Helper()
	var out bytes.Buffer
	got, err := Interactive(NewPrompter(strings.NewReader(input), &out), its)
	return got, out.String(), err
}

func TestInteractive(t *testing.T) {
	its := twelveItems(t)
	t.Run("range then done", func(t *testing.T) {
		got, out, err := runInteractive(t, "5-10\ndone\n", its)
		require.NoError(t, err)
		require.Len(t, got, 6)
		assert.Equal(t, int64(5), got[0].ID)
		assert.Equal(t, int64(10), got[5].ID)
		assert.Contains(t, out, "Currently selected: 6 out of 12 items")
	})
	t.Run("done with nothing re-prompts", func(t *testing.T) {
		got, out, err := runInteractive(t, "done\ndone\n3\ndone\n", its)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 2, strings.Count(out, "No items selected."))
		assert.Equal(t, 4, strings.Count(out, "Enter command: "))
	})
	t.Run("quit", func(t *testing.T) {
		got, _, err := runInteractive(t, "all\nquit\n", its)
		assert.ErrorIs(t, err, ErrQuit)
		assert.Nil(t, got)
	})
	t.Run("end of input is quit", func(t *testing.T) {
		_, _, err := runInteractive(t, "all\n", its)
		assert.ErrorIs(t, err, ErrQuit)
	})
	t.Run("last line without line feed", func(t *testing.T) {
		got, _, err := runInteractive(t, "1\ndone", its)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
	t.Run("errors do not stop the loop", func(t *testing.T) {
		got, out, err := runInteractive(t, "13\n0-3\nx-y\nhello\n12\ndone\n", its)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(12), got[0].ID)
		assert.Contains(t, out, "Invalid item number")
		assert.Contains(t, out, "Invalid range")
		assert.Contains(t, out, "Unknown command")
		assert.Equal(t, 5, strings.Count(out, "Currently selected:"))
	})
	t.Run("toggle twice restores", func(t *testing.T) {
		got, out, err := runInteractive(t, "4\n4\n1\ndone\n", its)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(1), got[0].ID)
		assert.Contains(t, out, "Currently selected: 0 out of 12 items")
	})
}

func TestMenu(t *testing.T) {
	tests := []struct {
		input string
		want  Choice
	}{
		{"1\n", ChoiceAll},
		{"2\n", ChoiceChats},
		{"3\n", ChoiceGroups},
		{" 4 \n", ChoiceChannels},
		{"5\n", ChoiceInteractive},
		{"6\n", ChoiceCancel},
		{"0\n", ChoiceInvalid},
		{"7\n", ChoiceInvalid},
		{"all\n", ChoiceInvalid},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := Menu(NewPrompter(strings.NewReader(tt.input), &out))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfirm(t *testing.T) {
	its := items(t, user(1, "a"), megagroup(2, "b"), user(3, "c"))
	tests := []struct {
		input string
		want  bool
	}{
		{"yes\n", true},
		{"YES\n", true},
		{"  yes\n", true},
		{"y\n", false},
		{"no\n", false},
		{"yes please\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			got, err := Confirm(NewPrompter(strings.NewReader(tt.input), &out), its)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "You are about to delete/leave 3 conversations:\n- Private Chat: 2\n- Supergroup: 1\n")
		})
	}
}

func TestSummarise(t *testing.T) {
	its := items(t, broadcast(1, "a"), user(2, "b"), broadcast(3, "c"), chat(4, "d"))
	want := []CategoryCount{
		{Category: convo.BroadcastChannel, N: 2},
		{Category: convo.PrivateChat, N: 1},
		{Category: convo.SmallGroup, N: 1},
	}
	assert.Equal(t, want, Summarise(its))
	assert.Empty(t, Summarise(nil))
}
