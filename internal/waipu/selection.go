package waipu

import (
	"errors"
	"fmt"

	"github.com/rusq/purgemychats/internal/convo"
)

var (
	ErrOutOfRange   = errors.New("out of range")
	ErrInvalidRange = errors.New("invalid range format, use 'start-end' (e.g., '5-10')")
	ErrUnknown      = errors.New("unknown command")
	ErrNothing      = errors.New("no items selected")
)

// Selection is the set of items with their selection state.  All items are
// deselected initially.
type Selection struct {
	items []convo.Item
	sel   []bool
}

func NewSelection(items []convo.Item) *Selection {
	return &Selection{
		items: items,
		sel:   make([]bool, len(items)),
	}
}

// Len returns the number of items.
func (s *Selection) Len() int {
	return len(s.items)
}

// Item returns the item with the 0-based index i.
func (s *Selection) Item(i int) convo.Item {
	return s.items[i]
}

// IsSelected reports if the item with the 0-based index i is selected.
func (s *Selection) IsSelected(i int) bool {
	return s.sel[i]
}

// Count returns the number of selected items.
func (s *Selection) Count() int {
	n := 0
	for _, v := range s.sel {
		if v {
			n++
		}
	}
	return n
}

// Selected returns the selected items in the original order.
func (s *Selection) Selected() []convo.Item {
	var ret []convo.Item
	for i, v := range s.sel {
		if v {
			ret = append(ret, s.items[i])
		}
	}
	return ret
}

// Toggle flips the state of the item number n (1-based) and returns the new
// state.
func (s *Selection) Toggle(n int) (bool, error) {
	if err := s.check(n); err != nil {
		return false, err
	}
	s.sel[n-1] = !s.sel[n-1]
	return s.sel[n-1], nil
}

// ToggleRange flips the state of each item in the inclusive 1-based range.
func (s *Selection) ToggleRange(from, to int) error {
	if from > to {
		return fmt.Errorf("%w: start %d is greater than end %d", ErrOutOfRange, from, to)
	}
	if err := s.check(from); err != nil {
		return err
	}
	if err := s.check(to); err != nil {
		return err
	}
	for i := from - 1; i < to; i++ {
		s.sel[i] = !s.sel[i]
	}
	return nil
}

func (s *Selection) check(n int) error {
	if n < 1 || len(s.items) < n {
		return fmt.Errorf("%w: use numbers between 1 and %d", ErrOutOfRange, len(s.items))
	}
	return nil
}

// SetAll sets the state of all items to v.
func (s *Selection) SetAll(v bool) {
	for i := range s.sel {
		s.sel[i] = v
	}
}

// SelectWhere selects all items that satisfy fn.  It returns the number of
// matching items.
func (s *Selection) SelectWhere(fn func(convo.Category) bool) int {
	n := 0
	for i := range s.items {
		if fn(s.items[i].Category) {
			s.sel[i] = true
			n++
		}
	}
	return n
}

func isPrivateChat(c convo.Category) bool {
	return c == convo.PrivateChat
}

// Apply applies the command to the selection and returns the message
// describing the result.  OpDone returns ErrNothing if nothing is selected.
// OpQuit does not alter the selection.
func (s *Selection) Apply(cmd Command) (string, error) {
	switch cmd.Op {
	case OpDone:
		if s.Count() == 0 {
			return "", ErrNothing
		}
		return "", nil
	case OpQuit:
		return "", nil
	case OpAll:
		s.SetAll(true)
		return "All items selected.", nil
	case OpNone:
		s.SetAll(false)
		return "All items deselected.", nil
	case OpChats:
		s.SelectWhere(isPrivateChat)
		return "All private chats selected.", nil
	case OpGroups:
		s.SelectWhere(convo.Category.IsGroup)
		return "All groups selected.", nil
	case OpChannels:
		s.SelectWhere(convo.Category.IsChannel)
		return "All channels selected.", nil
	case OpToggle:
		on, err := s.Toggle(cmd.From)
		if err != nil {
			return "", fmt.Errorf("invalid item number: %w", err)
		}
		state := "Deselected"
		if on {
			state = "Selected"
		}
		return fmt.Sprintf("%s item: %s", state, s.items[cmd.From-1].Name), nil
	case OpToggleRange:
		if err := s.ToggleRange(cmd.From, cmd.To); err != nil {
			return "", fmt.Errorf("invalid range: %w", err)
		}
		return fmt.Sprintf("Toggled selection for items %d to %d.", cmd.From, cmd.To), nil
	case OpBadRange:
		return "", ErrInvalidRange
	default:
		return "", ErrUnknown
	}
}
