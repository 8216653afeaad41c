package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/auth"
)

// Количество полей на экранах входа/регистрации (адрес/пароль).
const numAuthFields = 2

// handleAuthKeys обрабатывает Tab, Shift+Tab и Enter в полях адреса и пароля.
// Возвращает модель, команду и флаг, указывающий, была ли клавиша обработана.
func (m *model) handleAuthKeys(
	keyMsg tea.KeyMsg,
	emailInput *textinput.Model,
	passwordInput *textinput.Model,
	onEnter func() (tea.Model, tea.Cmd),
) (tea.Model, tea.Cmd, bool) {
	focusField := func() {
		if m.authFocusedField == 0 {
			passwordInput.Blur()
			emailInput.Focus()
		} else {
			emailInput.Blur()
			passwordInput.Focus()
		}
	}

	switch keyMsg.String() {
	case keyTab, keyDown:
		m.authFocusedField = (m.authFocusedField + 1) % numAuthFields
		focusField()
		return m, textinput.Blink, true
	case keyShiftTab, keyUp:
		m.authFocusedField = (m.authFocusedField + numAuthFields - 1) % numAuthFields
		focusField()
		return m, textinput.Blink, true
	case keyEnter:
		if m.authFocusedField == 0 {
			// Enter в поле адреса переводит фокус на пароль
			m.authFocusedField = 1
			focusField()
			return m, textinput.Blink, true
		}
		model, cmd := onEnter()
		return model, cmd, true
	default:
		return m, nil, false
	}
}

// handleAuthInput обрабатывает ввод в полях адреса и пароля, переключение
// фокуса между ними и действия по Enter/Esc.
func (m *model) handleAuthInput(
	msg tea.Msg,
	emailInput *textinput.Model,
	passwordInput *textinput.Model,
	onEnter func() (tea.Model, tea.Cmd),
) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == keyEsc {
			m.state = loginRegisterChoiceScreen
			emailInput.Blur()
			passwordInput.Blur()
			m.err = nil
			return m, tea.ClearScreen
		}

		newModel, keyCmd, handled := m.handleAuthKeys(keyMsg, emailInput, passwordInput, onEnter)
		if handled {
			return newModel, keyCmd
		}
	}

	// Обновляем активное поле ввода
	var cmd tea.Cmd
	activeInput := emailInput
	if m.authFocusedField == 1 {
		activeInput = passwordInput
	}
	*activeInput, cmd = activeInput.Update(msg)
	return m, cmd
}

// viewAuthScreen отображает общий экран ввода адреса и пароля.
func (m *model) viewAuthScreen(title, hint string, emailInput, passwordInput textinput.Model) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	subtleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))    // Серый
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94")) // Красный для ошибок

	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(emailInput.View() + "\n")
	b.WriteString(passwordInput.View() + "\n\n")
	b.WriteString(subtleStyle.Render(hint) + "\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Ошибка: "+m.err.Error()) + "\n")
	}
	return b.String()
}

// updateLoginScreen обрабатывает ввод данных для входа.
func (m *model) updateLoginScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	loginAction := func() (tea.Model, tea.Cmd) {
		email := strings.TrimSpace(m.loginEmailInput.Value())
		password := m.loginPasswordInput.Value()
		cmd := m.makeLoginCmd(email, password)
		model, statusCmd := m.setStatusMessage("Выполняется вход...")
		return model, tea.Batch(cmd, statusCmd)
	}
	return m.handleAuthInput(msg, &m.loginEmailInput, &m.loginPasswordInput, loginAction)
}

// viewLoginScreen отображает экран ввода данных для входа.
func (m *model) viewLoginScreen() string {
	return m.viewAuthScreen(
		"Вход в учетную запись",
		"Нажмите Enter для входа, Esc для возврата",
		m.loginEmailInput,
		m.loginPasswordInput,
	)
}

// updateRegisterScreen обрабатывает ввод данных для регистрации.
func (m *model) updateRegisterScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	registerAction := func() (tea.Model, tea.Cmd) {
		email := strings.TrimSpace(m.registerEmailInput.Value())
		password := m.registerPasswordInput.Value()

		// Белый список и стойкость пароля проверяются до запроса к серверу,
		// чтобы пользователь сразу увидел все нарушения. Сервер проверяет
		// то же самое еще раз.
		if !auth.IsEmailAllowed(email) {
			m.err = errors.New("this email is not authorized to access the system")
			return m, nil
		}
		if problems := auth.ValidatePassword(password); len(problems) > 0 {
			m.err = errors.New(strings.Join(problems, ". "))
			return m, nil
		}
		m.err = nil

		cmd := m.makeRegisterCmd(email, password)
		model, statusCmd := m.setStatusMessage("Выполняется регистрация...")
		return model, tea.Batch(cmd, statusCmd)
	}
	return m.handleAuthInput(msg, &m.registerEmailInput, &m.registerPasswordInput, registerAction)
}

// viewRegisterScreen отображает экран регистрации.
func (m *model) viewRegisterScreen() string {
	return m.viewAuthScreen(
		"Регистрация (только адреса @mainecc.edu)",
		"Пароль: минимум 12 символов, заглавные и строчные буквы, цифра, спецсимвол",
		m.registerEmailInput,
		m.registerPasswordInput,
	)
}
