package waipu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/rusq/purgemychats/internal/convo"
)

// ErrQuit is returned when the user aborts the program.
var ErrQuit = errors.New("quit")

var (
	checked = color.New(color.FgHiGreen)
	errclr  = color.New(color.FgHiRed)
)

// Prompter reads user input line by line.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

// Ask prints the prompt and returns the trimmed input line.  The last line
// without the line feed is returned as is, io.EOF is returned only if there
// was no input at all.
func (p *Prompter) Ask(prompt string) (string, error) {
	fmt.Fprint(p.w, prompt)
	line, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *Prompter) errorf(format string, a ...any) {
	errclr.Fprintf(p.w, format, a...)
}

const interactiveHelp = `
Commands:
  number       - Toggle selection of a specific item (e.g., '5')
  range        - Toggle a range of items (e.g., '5-10')
  all          - Select all items
  none         - Deselect all items
  chats        - Select all private chats
  groups       - Select all groups
  channels     - Select all channels
  done         - Proceed with the selected items
  quit         - Exit without making changes
`

// Interactive runs the interactive selection over items.  It returns the
// selected items once the user commits the selection, or ErrQuit, if the
// user quits.  End of input is treated as quit.
func Interactive(p *Prompter, items []convo.Item) ([]convo.Item, error) {
	sel := NewSelection(items)
	p.printf("\nSelect items to delete/leave:\n")
	printItems(p.w, sel)

	for {
		p.printf("%s", interactiveHelp)
		input, err := p.Ask("\nEnter command: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrQuit
			}
			return nil, err
		}
		cmd := ParseCommand(input)
		msg, err := sel.Apply(cmd)
		switch cmd.Op {
		case OpQuit:
			return nil, ErrQuit
		case OpDone:
			if err != nil {
				p.printf("No items selected. Please select at least one item or type 'quit'.\n")
				continue
			}
			return sel.Selected(), nil
		}
		if err != nil {
			p.errorf("%s\n", capitalise(err.Error()))
		} else {
			p.printf("%s\n", msg)
		}
		p.printf("\nCurrently selected: %d out of %d items\n", sel.Count(), sel.Len())
	}
}

func printItems(w io.Writer, sel *Selection) {
	for i := 0; i < sel.Len(); i++ {
		mark := "[ ]"
		if sel.IsSelected(i) {
			mark = checked.Sprint("[X]")
		}
		fmt.Fprintf(w, "%d. %s %s\n", i+1, mark, sel.Item(i))
	}
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Choice is the menu choice.
type Choice int

const (
	ChoiceInvalid Choice = iota
	ChoiceAll
	ChoiceChats
	ChoiceGroups
	ChoiceChannels
	ChoiceInteractive
	ChoiceCancel
)

const menuText = `
What would you like to delete?
1. All conversations
2. Private chats only
3. Groups only
4. Channels only
5. Interactive selection
6. Cancel
`

// Menu asks the user to choose what to delete.
func Menu(p *Prompter) (Choice, error) {
	p.printf("%s", menuText)
	input, err := p.Ask("\nEnter your choice (1-6): ")
	if err != nil {
		return ChoiceInvalid, err
	}
	n, ok := atoi(input)
	if !ok || n < int(ChoiceAll) || int(ChoiceCancel) < n {
		return ChoiceInvalid, nil
	}
	return Choice(n), nil
}

// Confirm prints the summary of items grouped by category and asks the user
// to type "yes".  Any other answer is a "no".
func Confirm(p *Prompter, items []convo.Item) (bool, error) {
	p.printf("\nYou are about to delete/leave %d conversations:\n", len(items))
	for _, c := range Summarise(items) {
		p.printf("- %s: %d\n", c.Category, c.N)
	}
	answer, err := p.Ask("\nAre you sure you want to proceed? (yes/no): ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	return strings.EqualFold(answer, "yes"), nil
}

// CategoryCount is the number of items in the category.
type CategoryCount struct {
	Category convo.Category
	N        int
}

// Summarise counts items per category, in the order of the first
// appearance.
func Summarise(items []convo.Item) []CategoryCount {
	var ret []CategoryCount
	idx := make(map[convo.Category]int)
	for _, it := range items {
		i, ok := idx[it.Category]
		if !ok {
			i = len(ret)
			idx[it.Category] = i
			ret = append(ret, CategoryCount{Category: it.Category})
		}
		ret[i].N++
	}
	return ret
}
