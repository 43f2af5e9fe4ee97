package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestQuitKeysWhileRendering(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	}

	for _, key := range keys {
		t.Run(key.String(), func(t *testing.T) {
			m := New()
			m.state = StateRendering

			_, cmd := m.Update(key)
			if cmd == nil {
				t.Fatalf("key %q while rendering returned no command", key.String())
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("key %q while rendering should quit", key.String())
			}
		})
	}
}

func TestOtherKeysIgnoredWhileRendering(t *testing.T) {
	m := New()
	m.state = StateRendering

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter while rendering should not produce a command")
	}
	if got := model.(Model).state; got != StateRendering {
		t.Errorf("state = %v, want StateRendering", got)
	}
}
