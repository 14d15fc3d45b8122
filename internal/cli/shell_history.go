package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

const maxHistoryLines = 500

// shellHistory is the shell's command history, persisted one line per
// command. Writes are best-effort; a missing or unreadable file starts empty.
type shellHistory struct {
	path   string
	lines  []string
	cursor int
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".sprintdesk", "shell_history")
}

// loadHistory reads the newest maxHistoryLines entries from path. An empty
// path keeps history in memory only.
func loadHistory(path string) *shellHistory {
	h := &shellHistory{path: path}
	if path == "" {
		return h
	}
	f, err := os.Open(path)
	if err != nil {
		return h
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.lines = append(h.lines, line)
		}
	}
	if len(h.lines) > maxHistoryLines {
		h.lines = h.lines[len(h.lines)-maxHistoryLines:]
	}
	h.cursor = len(h.lines)
	return h
}

// add records line, skipping blanks and immediate repeats, and resets the
// cursor past the newest entry.
func (h *shellHistory) add(line string) {
	line = strings.TrimSpace(line)
	defer func() { h.cursor = len(h.lines) }()
	if line == "" || (len(h.lines) > 0 && h.lines[len(h.lines)-1] == line) {
		return
	}
	h.lines = append(h.lines, line)
	if len(h.lines) > maxHistoryLines {
		h.lines = h.lines[1:]
	}
	h.persist(line)
}

func (h *shellHistory) persist(line string) {
	if h.path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line + "\n")
}

// prev steps back one entry. ok is false at the oldest entry or when empty.
func (h *shellHistory) prev() (string, bool) {
	if h.cursor == 0 {
		return "", false
	}
	h.cursor--
	return h.lines[h.cursor], true
}

// next steps forward one entry. Past the newest it returns "" so the prompt
// clears.
func (h *shellHistory) next() string {
	if h.cursor >= len(h.lines) {
		return ""
	}
	h.cursor++
	if h.cursor == len(h.lines) {
		return ""
	}
	return h.lines[h.cursor]
}
