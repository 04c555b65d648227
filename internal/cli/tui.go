package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pzaremba/flowxmi/pkg/flow"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// WarningListModel - Interactive diagnostic browsing
// =============================================================================

// WarningListModel is the bubbletea model for browsing conversion warnings.
type WarningListModel struct {
	Title    string
	Warnings []flow.Warning
	Cursor   int
	Height   int
	Offset   int
}

// NewWarningListModel creates a new warning list model.
func NewWarningListModel(title string, warnings []flow.Warning) WarningListModel {
	return WarningListModel{
		Title:    title,
		Warnings: warnings,
		Height:   15,
	}
}

func (m WarningListModel) Init() tea.Cmd {
	return nil
}

func (m WarningListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Warnings)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m WarningListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Diagnostics: " + m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	if len(m.Warnings) == 0 {
		b.WriteString(StyleSuccess.Render("No structural warnings."))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Warnings) {
		end = len(m.Warnings)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		w := m.Warnings[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		subject := w.Subject
		if subject == "" {
			subject = "-"
		}
		rows = append(rows, []string{cursor, string(w.Code), subject, w.Message})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Code", "Subject", "Message").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx >= len(m.Warnings) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			if col == 1 {
				base = base.Foreground(warningColor(m.Warnings[actualIdx].Code))
			}
			if actualIdx == m.Cursor {
				return base.Bold(true)
			}
			if col == 3 {
				return base.Foreground(colorGray)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Warnings))))

	return b.String()
}

// warningColor classifies a code for display: repairs show green (the tool
// fixed something), structural reports show amber.
func warningColor(code flow.WarningCode) lipgloss.Color {
	switch code {
	case flow.WarnDecisionRepaired, flow.WarnDeadEndConnected, flow.WarnDuplicateNodeMerged:
		return colorGreen
	default:
		return colorYellow
	}
}
