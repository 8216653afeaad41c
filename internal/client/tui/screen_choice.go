package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// updateLoginRegisterChoiceScreen обрабатывает выбор между входом и регистрацией.
func (m *model) updateLoginRegisterChoiceScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "r", "R":
			m.state = registerScreen
			m.registerEmailInput.Focus()
			m.registerPasswordInput.Blur()
			m.authFocusedField = 0
			return m, tea.Batch(textinput.Blink, tea.ClearScreen)
		case "l", "L":
			m.state = loginScreen
			m.loginEmailInput.Focus()
			m.loginPasswordInput.Blur()
			m.authFocusedField = 0
			return m, tea.Batch(textinput.Blink, tea.ClearScreen)
		case keyQuit, keyEsc:
			return m, tea.Quit
		}
	}
	return m, nil
}

// viewLoginRegisterChoiceScreen отображает экран выбора входа или регистрации.
func (m *model) viewLoginRegisterChoiceScreen() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	focusedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")) // Пурпурный
	subtleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))  // Серый

	b.WriteString(titleStyle.Render("Nurse Stash: учет инвентаря кафедры") + "\n\n")
	b.WriteString("Сервер: " + m.serverURL + "\n\n")
	b.WriteString("Выберите действие:\n")
	b.WriteString("- Вход с существующими данными " + focusedStyle.Render("(L)") + "\n")
	b.WriteString("- Регистрация нового пользователя " + focusedStyle.Render("(R)") + "\n\n")
	b.WriteString(subtleStyle.Render("Регистрация доступна только адресам @mainecc.edu"))

	return b.String()
}
