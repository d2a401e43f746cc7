package waipu

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Op is the interactive selection operation.
type Op uint8

const (
	OpUnknown     Op = iota
	OpDone           // commit the selection
	OpQuit           // abort
	OpAll            // select all
	OpNone           // deselect all
	OpChats          // select all private chats
	OpGroups         // select all groups
	OpChannels       // select all channels
	OpToggle         // toggle item From
	OpToggleRange    // toggle items From..To
	OpBadRange       // malformed range
)

// Command is the parsed interactive command.  From and To are 1-based item
// numbers.
type Command struct {
	Op   Op
	From int
	To   int
	// Raw is the normalised input.
	Raw string
}

var keywords = map[string]Op{
	"done":     OpDone,
	"quit":     OpQuit,
	"all":      OpAll,
	"none":     OpNone,
	"chats":    OpChats,
	"groups":   OpGroups,
	"channels": OpChannels,
}

// ParseCommand parses the user input.  The input is trimmed and lowercased.
// Anything that is not a keyword, a number or a range of numbers is
// OpUnknown.
func ParseCommand(s string) Command {
	s = strings.ToLower(strings.TrimSpace(s))
	cmd := Command{Raw: s}
	if op, ok := keywords[s]; ok {
		cmd.Op = op
		return cmd
	}
	if strings.Contains(s, "-") {
		from, to, ok := parseRange(s)
		if !ok {
			cmd.Op = OpBadRange
			return cmd
		}
		cmd.Op, cmd.From, cmd.To = OpToggleRange, from, to
		return cmd
	}
	if n, ok := atoi(s); ok {
		cmd.Op, cmd.From, cmd.To = OpToggle, n, n
		return cmd
	}
	return cmd
}

func parseRange(s string) (int, int, bool) {
	start, end, found := strings.Cut(s, "-")
	if !found {
		return 0, 0, false
	}
	from, ok := atoi(strings.TrimSpace(start))
	if !ok {
		return 0, 0, false
	}
	to, ok := atoi(strings.TrimSpace(end))
	if !ok {
		return 0, 0, false
	}
	return from, to, true
}

// atoi accepts only decimal digits.  Numbers that do not fit into int are
// returned as math.MaxInt, so that they are reported out of range.
func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return math.MaxInt, true
		}
		return 0, false
	}
	return n, true
}
