package cli

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintdesk/internal/chatctx"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/teatest"
)

func newShellDriver(t *testing.T, a *App, session chatctx.Values) *teatest.Driver {
	t.Helper()
	history := loadHistory(filepath.Join(t.TempDir(), "shell_history"))
	return teatest.New(t, newShellModel(a, history, session))
}

func TestShellTUI_WelcomeAndPrompt(t *testing.T) {
	d := newShellDriver(t, testApp(t), chatctx.Values{})

	assert.Contains(t, d.Output(), "sprintdesk")
	assert.Contains(t, d.View(), "❯")
}

func TestShellTUI_UseThenBoard(t *testing.T) {
	a := testApp(t)
	_, space := seedSpace(t, a, domain.MethodologyKanban)
	d := newShellDriver(t, a, chatctx.Values{})

	assert.Contains(t, d.Submit("use "+space.ID), "Active space")
	assert.Contains(t, d.View(), shortID(space.ID))
	assert.Contains(t, d.Submit("get_board"), "Board - Platform (Methodology: KANBAN)")
}

func TestShellTUI_HistoryRecall(t *testing.T) {
	d := newShellDriver(t, testApp(t), chatctx.Values{})

	d.Submit("context")
	d.Submit("help")
	d.Key(tea.KeyUp)
	d.Key(tea.KeyUp)
	assert.Contains(t, d.View(), "context")

	d.Key(tea.KeyDown)
	assert.Contains(t, d.View(), "help")
}

func TestShellTUI_WizardCancel(t *testing.T) {
	d := newShellDriver(t, testApp(t), chatctx.Values{})

	d.Submit("new-space")
	m, ok := d.Model.(shellModel)
	require.True(t, ok)
	assert.Equal(t, modeWizard, m.mode)

	d.Key(tea.KeyEsc)
	m = d.Model.(shellModel)
	assert.Equal(t, modePrompt, m.mode)
	assert.Contains(t, d.Output(), "Cancelled.")
}

func TestShellTUI_CtrlCQuits(t *testing.T) {
	d := newShellDriver(t, testApp(t), chatctx.Values{})

	d.Key(tea.KeyCtrlC)
	assert.True(t, d.Quitting)
	assert.Contains(t, d.View(), "Goodbye.")
}
