package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pzaremba/flowxmi/pkg/flow"
)

func testWarnings(n int) []flow.Warning {
	warnings := make([]flow.Warning, n)
	for i := range warnings {
		warnings[i] = flow.Warning{
			Code:    flow.WarnDecisionIncomplete,
			Subject: "n1",
			Message: "decision is missing a branch",
		}
	}
	return warnings
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWarningListNavigation(t *testing.T) {
	m := NewWarningListModel("Orders", testWarnings(3))

	next, _ := m.Update(keyMsg("j"))
	m = next.(WarningListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("k"))
	m = next.(WarningListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d after up, want 0", m.Cursor)
	}

	// No wrap past the ends.
	next, _ = m.Update(keyMsg("k"))
	m = next.(WarningListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, should not move above 0", m.Cursor)
	}
}

func TestWarningListQuit(t *testing.T) {
	m := NewWarningListModel("Orders", testWarnings(1))
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestWarningListViewEmpty(t *testing.T) {
	m := NewWarningListModel("Orders", nil)
	if !strings.Contains(m.View(), "No structural warnings") {
		t.Error("empty list should say so")
	}
}

func TestWarningListView(t *testing.T) {
	m := NewWarningListModel("Orders", testWarnings(2))
	view := m.View()

	if !strings.Contains(view, "Orders") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, "decision-branch-incomplete") {
		t.Error("view missing warning code")
	}
	if !strings.Contains(view, "[1/2]") {
		t.Error("view missing position indicator")
	}
}
