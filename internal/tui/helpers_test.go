package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contactbook/internal/form"
)

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}

func collectKeys(bindings []key.Binding) []string {
	var keys []string
	for _, b := range bindings {
		keys = append(keys, b.Keys()...)
	}
	return keys
}

func containsKey(keys []string, want string) bool {
	for _, k := range keys {
		if k == want {
			return true
		}
	}
	return false
}

// sizedModel returns a Model over a fresh controller with a 100x30 window.
func sizedModel(t *testing.T) (Model, *form.Controller) {
	t.Helper()
	ctrl := form.New()
	m := NewModel(ctrl)
	return send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30}), ctrl
}

// send delivers msg to m and returns the updated Model.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	updated, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return updated
}

// sendKey delivers a key press of the given type.
func sendKey(t *testing.T, m Model, kt tea.KeyType) Model {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: kt})
}

// typeText delivers s as a single rune key press.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// fillForm focuses each input in turn, types name and phone, and returns
// focus to the table.
func fillForm(t *testing.T, m Model, name, phone string) Model {
	t.Helper()
	m = sendKey(t, m, tea.KeyTab)
	m = typeText(t, m, name)
	m = sendKey(t, m, tea.KeyTab)
	m = typeText(t, m, phone)
	return sendKey(t, m, tea.KeyTab)
}
