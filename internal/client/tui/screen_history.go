package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Сколько записей журнала показывать на экране.
const historyViewLimit = 15

// updateHistoryListScreen обрабатывает клавиши на экране журнала действий.
func (m *model) updateHistoryListScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc, keyBack, keyQuit:
			m.state = itemListScreen
			return m, nil
		case keyUndo:
			if m.session == nil {
				return m, nil
			}
			return m, m.makeUndoCmd()
		case keyRedo:
			if m.session == nil {
				return m, nil
			}
			return m, m.makeRedoCmd()
		}
	}
	return m, nil
}

// viewHistoryListScreen отображает примененную часть журнала,
// свежие действия сверху.
func (m *model) viewHistoryListScreen() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	subtleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	b.WriteString(titleStyle.Render("Журнал действий") + "\n\n")

	if m.session == nil {
		b.WriteString(subtleStyle.Render("Вход не выполнен") + "\n")
		return b.String()
	}

	entries := m.session.History()
	if len(entries) == 0 {
		b.WriteString(subtleStyle.Render("Пока нет действий для отмены") + "\n")
	}
	shown := 0
	for i := len(entries) - 1; i >= 0 && shown < historyViewLimit; i-- {
		entry := entries[i]
		b.WriteString(fmt.Sprintf("%s  %s\n", entry.Timestamp.Format("15:04:05"), entry.Description))
		shown++
	}
	if len(entries) > historyViewLimit {
		b.WriteString(subtleStyle.Render(fmt.Sprintf("... и еще %d", len(entries)-historyViewLimit)) + "\n")
	}

	b.WriteString("\n" + subtleStyle.Render(fmt.Sprintf(
		"u: отменить (%t) | r: повторить (%t) | esc: назад",
		m.session.CanUndo(), m.session.CanRedo())))
	return b.String()
}
