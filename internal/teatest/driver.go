// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and every returned Cmd is run and fed back until
// nothing is left. Lines the model prints with tea.Println are collected in
// Printed, so a REPL can be tested by what it shows rather than by its
// internal state.
package teatest

import (
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds Cmd chains so a self-scheduling Cmd cannot hang a test.
const MaxDrainDepth = 100

// cmdTimeout separates instant Cmds from timer-driven ones such as cursor
// blinks, which are dropped.
const cmdTimeout = 10 * time.Millisecond

// Driver feeds messages to a model and records what it prints.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Printed holds every tea.Println line in order.
	Printed []string

	// Quitting is set once the model returns tea.Quit.
	Quitting bool
}

// New wraps model and runs its Init command.
func New(t *testing.T, model tea.Model) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	d.drain(model.Init(), 0)
	return d
}

// Send runs msg through Update and drains the result. It is a no-op after
// the model quits.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	next, cmd := d.Model.Update(msg)
	d.Model = next
	d.drain(cmd, 0)
}

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Key sends a special key such as tea.KeyEnter or tea.KeyUp.
func (d *Driver) Key(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

// Submit types line and presses Enter, returning what that printed.
func (d *Driver) Submit(line string) string {
	d.T.Helper()
	before := len(d.Printed)
	d.Type(line)
	d.Key(tea.KeyEnter)
	return strings.Join(d.Printed[before:], "\n")
}

// Output is everything printed so far.
func (d *Driver) Output() string {
	return strings.Join(d.Printed, "\n")
}

func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := runWithTimeout(cmd)
	switch m := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, sub := range m {
			d.drain(sub, depth+1)
		}
		return
	case tea.QuitMsg:
		d.Quitting = true
		return
	}

	if line, ok := printedLine(msg); ok {
		d.Printed = append(d.Printed, line)
		return
	}
	if isBlink(msg) {
		return
	}

	next, nextCmd := d.Model.Update(msg)
	d.Model = next
	d.drain(nextCmd, depth+1)
}

func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// printedLine extracts the text of bubbletea's unexported print message.
func printedLine(msg tea.Msg) (string, bool) {
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Struct || v.Type().Name() != "printLineMessage" {
		return "", false
	}
	body := v.FieldByName("messageBody")
	if !body.IsValid() || body.Kind() != reflect.String {
		return "", false
	}
	return body.String(), true
}

func isBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(reflect.TypeOf(msg).Name()), "blink")
}
