package tui

import (
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/api"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/config"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/history"
)

// Update обрабатывает входящие сообщения.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	// == Глобальные сообщения (не зависят от экрана) ==
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := m.docStyle.GetFrameSize()
		m.itemList.SetSize(msg.Width-h, msg.Height-v-helpStatusHeightOffset)
		m.searchInput.Width = msg.Width - h - inputWidthOffset
		return m, nil

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case loginSuccessMsg:
		return m.handleLoginSuccess(msg)

	case LoginError:
		m.err = msg.err
		return m.setStatusMessage(fmt.Sprintf("Login failed: %v", msg.err))

	case registerSuccessMsg:
		// После регистрации пользователь входит с теми же данными
		m.state = loginScreen
		m.loginEmailInput.SetValue(m.registerEmailInput.Value())
		m.loginPasswordInput.SetValue("")
		m.loginEmailInput.Blur()
		m.loginPasswordInput.Focus()
		m.authFocusedField = 1
		return m.setStatusMessage("Account created. Please sign in.")

	case RegisterError:
		m.err = msg.err
		return m.setStatusMessage(fmt.Sprintf("Registration failed: %v", msg.err))

	case itemsLoadedMsg:
		m.items = msg.items
		m.applyFilter()
		return m, nil

	case LoadError:
		return m.handleLoadError(msg)

	case itemSavedMsg:
		m.state = itemListScreen
		verb := "Updated"
		if msg.created {
			verb = "Added"
		}
		_, statusCmd := m.setStatusMessage(fmt.Sprintf("%s %q", verb, msg.item.Item))
		return m, tea.Batch(statusCmd, m.loadItemsCmd())

	case itemDeletedMsg:
		m.state = itemListScreen
		_, statusCmd := m.setStatusMessage(fmt.Sprintf("Deleted %q", msg.name))
		return m, tea.Batch(statusCmd, m.loadItemsCmd())

	case undoneMsg:
		_, statusCmd := m.setStatusMessage(fmt.Sprintf("Undone: %s", msg.entry.Description))
		return m, tea.Batch(statusCmd, m.loadItemsCmd())

	case redoneMsg:
		_, statusCmd := m.setStatusMessage(fmt.Sprintf("Redone: %s", msg.entry.Description))
		return m, tea.Batch(statusCmd, m.loadItemsCmd())

	case ActionError:
		return m.handleActionError(msg)

	case tea.KeyMsg:
		// Глобальные команды (работают на всех экранах)
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	// == Обновление компонентов в зависимости от состояния ==
	switch m.state {
	case loginRegisterChoiceScreen:
		return m.updateLoginRegisterChoiceScreen(msg)
	case loginScreen:
		return m.updateLoginScreen(msg)
	case registerScreen:
		return m.updateRegisterScreen(msg)
	case itemListScreen:
		return m.updateItemListScreen(msg)
	case itemFormScreen:
		return m.updateItemFormScreen(msg)
	case deleteConfirmScreen:
		return m.updateDeleteConfirmScreen(msg)
	case historyListScreen:
		return m.updateHistoryListScreen(msg)
	}
	return m, nil
}

// handleLoginSuccess сохраняет токен, создает сессию с пустым журналом
// и переходит к списку записей.
func (m *model) handleLoginSuccess(msg loginSuccessMsg) (tea.Model, tea.Cmd) {
	m.apiClient.SetAuthToken(msg.Token)
	m.userEmail = msg.Email
	m.session = history.NewSession(m.apiClient)
	m.err = nil

	// Сохраняем токен, чтобы при следующем запуске не входить заново
	m.cfg.ServerURL = m.serverURL
	m.cfg.Token = msg.Token
	if err := config.Save(m.configPath, m.cfg); err != nil {
		slog.Warn("Не удалось сохранить конфигурацию клиента", "path", m.configPath, "error", err)
	}

	m.state = itemListScreen
	slog.Info("Вход выполнен", "email", msg.Email)
	_, statusCmd := m.setStatusMessage(fmt.Sprintf("Signed in as %s", msg.Email))
	return m, tea.Batch(statusCmd, m.loadItemsCmd())
}

// handleLoadError обрабатывает ошибку загрузки списка. Истекший или
// отсутствующий токен возвращает пользователя на экран входа.
func (m *model) handleLoadError(msg LoadError) (tea.Model, tea.Cmd) {
	m.err = msg.err
	if errors.Is(msg.err, api.ErrUnauthenticated) {
		m.session = nil
		m.apiClient.SetAuthToken("")
		m.state = loginRegisterChoiceScreen
		return m.setStatusMessage("Session expired. Please sign in again.")
	}
	return m.setStatusMessage(fmt.Sprintf("Failed to load inventory: %v", msg.err))
}

// handleActionError показывает ошибку мутации/отмены/повтора.
// Пустой журнал не считается сбоем.
func (m *model) handleActionError(msg ActionError) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, history.ErrNothingToUndo),
		errors.Is(msg.err, history.ErrNothingToRedo):
		return m.setStatusMessage(msg.err.Error())
	case errors.Is(msg.err, api.ErrUnauthenticated):
		m.err = msg.err
		m.session = nil
		m.apiClient.SetAuthToken("")
		m.state = loginRegisterChoiceScreen
		return m.setStatusMessage("Session expired. Please sign in again.")
	default:
		m.err = msg.err
		return m.setStatusMessage(fmt.Sprintf("Error: %v", msg.err))
	}
}
