package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/alexanderramin/sprintdesk/internal/chatctx"
	"github.com/alexanderramin/sprintdesk/internal/cli/formatter"
	"github.com/alexanderramin/sprintdesk/internal/dispatch"
)

type shellMode int

const (
	modePrompt shellMode = iota // Normal command input.
	modeWizard                  // huh form is active.
)

// shellModel is the bubbletea Model for the interactive tool shell.
type shellModel struct {
	input textinput.Model
	form  *huh.Form
	width int

	app     *App
	session chatctx.Values
	spaces  *spaceIDCache
	history *shellHistory

	mode       shellMode
	wizardDone func(m *shellModel) string

	quitting bool
}

func newShellModel(a *App, history *shellHistory, session chatctx.Values) shellModel {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.ShowSuggestions = true
	ti.CharLimit = 1000
	// Tab accepts a suggestion; Up/Down walk history.
	ti.KeyMap.NextSuggestion = key.NewBinding(key.WithKeys("ctrl+n"))
	ti.KeyMap.PrevSuggestion = key.NewBinding(key.WithKeys("ctrl+p"))

	if history == nil {
		history = loadHistory("")
	}
	return shellModel{
		input:   ti,
		app:     a,
		session: session,
		spaces:  newSpaceIDCache(),
		history: history,
	}
}

func (m shellModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.Println(formatter.FormatShellWelcome()),
	)
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(m.promptPrefix()) - 1
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.mode == modeWizard {
			return m.updateWizard(msg)
		}
		return m.updatePrompt(msg)
	}

	if m.mode == modeWizard && m.form != nil {
		return m.updateWizard(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m shellModel) View() string {
	if m.quitting {
		return formatter.Dim("Goodbye.") + "\n"
	}
	if m.mode == modeWizard && m.form != nil {
		return m.form.View()
	}
	return m.promptPrefix() + m.input.View()
}

func (m *shellModel) promptPrefix() string {
	name := formatter.StylePurple.Render("sprintdesk")
	if m.session.SpaceID == "" {
		return name + " " + formatter.Dim("❯") + " "
	}
	return name + " " + formatter.Dim("(") + formatter.StyleGreen.Render(shortID(m.session.SpaceID)) +
		formatter.Dim(")") + " " + formatter.Dim("❯") + " "
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (m shellModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		m.input.SetSuggestions(nil)
		if line == "" {
			return m, nil
		}
		m.history.add(line)
		output, cmd := m.executeCommand(line)
		var cmds []tea.Cmd
		if output != "" {
			cmds = append(cmds, tea.Println(output))
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyUp:
		if line, ok := m.history.prev(); ok {
			m.input.SetValue(line)
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		m.input.SetValue(m.history.next())
		m.input.CursorEnd()
		return m, nil

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.input.SetSuggestions(completeLine(m.input.Value(), m.spaceIDs))
		return m, cmd
	}
}

func (m *shellModel) spaceIDs() []string {
	return m.spaces.get(m.app.Core.Spaces, m.session.UserID)
}

// startWizard switches to wizard mode; done runs once the form completes
// and its result is printed.
func (m *shellModel) startWizard(form *huh.Form, done func(m *shellModel) string) tea.Cmd {
	m.mode = modeWizard
	m.form = form
	m.wizardDone = done
	return m.form.Init()
}

func (m shellModel) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.leaveWizard()
		return m, tea.Println(formatter.Dim("Cancelled."))
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		done := m.wizardDone
		m.leaveWizard()
		if done == nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, tea.Println(done(&m)))
	case huh.StateAborted:
		m.leaveWizard()
		return m, tea.Println(formatter.Dim("Cancelled."))
	}
	return m, cmd
}

func (m *shellModel) leaveWizard() {
	m.mode = modePrompt
	m.form = nil
	m.wizardDone = nil
}

// executeCommand runs one shell line and returns the text to print.
func (m *shellModel) executeCommand(line string) (string, tea.Cmd) {
	parts, err := splitShellArgs(line)
	if err != nil {
		return shellError(err), nil
	}
	if len(parts) == 0 {
		return "", nil
	}
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch head {
	case "use":
		return m.execUse(args), nil
	case "as":
		return m.execAs(args), nil
	case "sprint":
		return m.execSprint(args), nil
	case "context":
		return m.execContext(), nil
	case "new-space":
		return "", m.execNewSpace()
	case "board":
		if len(args) == 0 && m.session.SpaceID != "" {
			parts = append(parts, m.session.SpaceID)
		}
		return m.execCobraCapture(parts), nil
	case "clear":
		return "\033[H\033[2J", nil
	case "help":
		return formatter.FormatShellHelp(toolHelpRows()), nil
	case "exit", "quit":
		m.quitting = true
		return "", tea.Quit
	case "shell":
		return formatter.StyleYellow.Render("Already in shell mode."), nil
	case "serve":
		return formatter.StyleYellow.Render("Run 'sprintdesk serve' outside the shell."), nil
	}

	if spec, ok := dispatch.Lookup(head); ok {
		return m.callTool(spec, args), nil
	}
	return m.execCobraCapture(parts), nil
}

// callTool runs a tool with key=value arguments, filling identifiers from the
// shell session.
func (m *shellModel) callTool(spec dispatch.ToolSpec, args []string) string {
	raw, err := parseToolArgs(args)
	if err != nil {
		return shellError(err)
	}
	raw = m.session.Merge(raw, spec.FillsFromContext)
	return m.app.Core.Dispatcher.Call(context.Background(), spec.Name, raw)
}

func (m *shellModel) execUse(args []string) string {
	if len(args) == 0 {
		m.session.SpaceID = ""
		m.session.SprintID = ""
		return formatter.Dim("Active space cleared.")
	}
	space, err := m.app.Core.Spaces.GetByID(context.Background(), args[0])
	if err != nil {
		return shellError(err)
	}
	m.session.SpaceID = space.ID
	m.session.SprintID = ""
	return fmt.Sprintf("Active space: %s %s", formatter.Bold(space.Name), formatter.MethodologyBadge(space.Methodology))
}

func (m *shellModel) execAs(args []string) string {
	if len(args) == 0 {
		m.session.UserID = ""
		return formatter.Dim("Acting user cleared.")
	}
	user, err := m.app.Core.Users.GetByID(context.Background(), args[0])
	if err != nil {
		return shellError(err)
	}
	m.session.UserID = user.ID
	return "Acting as " + formatter.Bold(user.Name)
}

func (m *shellModel) execSprint(args []string) string {
	if len(args) == 0 {
		m.session.SprintID = ""
		return formatter.Dim("Active sprint cleared.")
	}
	sprint, err := m.app.Core.Sprints.GetByID(context.Background(), args[0])
	if err != nil {
		return shellError(err)
	}
	m.session.SprintID = sprint.ID
	return fmt.Sprintf("Active sprint: %s %s", formatter.Bold(sprint.Name), formatter.SprintStatusPill(sprint.Status))
}

func (m *shellModel) execContext() string {
	if m.session.IsEmpty() {
		return formatter.Dim("No context set. Try 'use <space_id>' or 'as <user_id>'.")
	}
	return strings.TrimSpace(chatctx.Format(m.session, ""))
}

func (m *shellModel) execNewSpace() tea.Cmd {
	draft := &spaceDraft{OwnerID: m.session.UserID}
	return m.startWizard(newSpaceForm(draft), func(m *shellModel) string {
		return submitSpaceDraft(context.Background(), m.app, draft)
	})
}

// execCobraCapture runs a command through the Cobra tree and captures output.
func (m *shellModel) execCobraCapture(args []string) string {
	var buf strings.Builder
	root := NewRootCmd(m.app)
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	root.SilenceUsage = true
	root.SilenceErrors = true
	if err := root.Execute(); err != nil {
		buf.WriteString(shellError(err))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func toolHelpRows() [][]string {
	catalog := dispatch.Catalog()
	rows := make([][]string, 0, len(catalog))
	for _, spec := range catalog {
		rows = append(rows, []string{spec.Name, formatter.FormatParams(spec.Params)})
	}
	return rows
}

func shellError(err error) string {
	return formatter.StyleRed.Render("Error: ") + err.Error()
}
