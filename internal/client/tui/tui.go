package tui

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/api"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/config"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/history"
)

const (
	statusMessageTimeout   = 3 * time.Second // Время отображения статусных сообщений
	helpStatusHeightOffset = 2               // Высота строки помощи и статуса
)

// Init - команда, выполняемая при запуске приложения.
func (m *model) Init() tea.Cmd {
	if m.state == itemListScreen {
		// Есть сохраненный токен: сразу загружаем список
		return tea.Batch(textinput.Blink, m.loadItemsCmd())
	}
	return textinput.Blink
}

// setStatusMessage устанавливает статусное сообщение и запускает таймер для его очистки.
func (m *model) setStatusMessage(status string) (tea.Model, tea.Cmd) {
	m.status = status
	return m, clearStatusCmd(statusMessageTimeout)
}

// getMainContentView возвращает основное содержимое для текущего состояния.
func (m *model) getMainContentView() string {
	switch m.state {
	case loginRegisterChoiceScreen:
		return m.viewLoginRegisterChoiceScreen()
	case loginScreen:
		return m.viewLoginScreen()
	case registerScreen:
		return m.viewRegisterScreen()
	case itemListScreen:
		return m.viewItemListScreen()
	case itemFormScreen:
		return m.viewItemFormScreen()
	case deleteConfirmScreen:
		return m.viewDeleteConfirmScreen()
	case historyListScreen:
		return m.viewHistoryListScreen()
	default:
		return "Неизвестное состояние!"
	}
}

// getDebugInfoString генерирует отладочную информацию для подвала.
func (m *model) getDebugInfoString() string {
	var debugInfo strings.Builder
	debugInfo.WriteString(fmt.Sprintf(" [State: %s]\n", m.state.String()))
	debugInfo.WriteString(fmt.Sprintf(" [URL: %s]\n", m.serverURL))
	debugInfo.WriteString(fmt.Sprintf(" [User: %s]\n", m.userEmail))
	debugInfo.WriteString(fmt.Sprintf(" [Items: %d]\n", len(m.items)))
	if m.session != nil {
		debugInfo.WriteString(fmt.Sprintf(" [History: %d, undo=%t, redo=%t]\n",
			len(m.session.History()), m.session.CanUndo(), m.session.CanRedo()))
	}
	if m.err != nil {
		debugInfo.WriteString(fmt.Sprintf(" [LastError: %v]\n", m.err))
	}
	return debugInfo.String()
}

// View отрисовывает пользовательский интерфейс.
func (m *model) View() string {
	mainContent := m.getMainContentView()
	help, ok := m.helpTextMap[m.state]
	if !ok {
		help = fmt.Sprintf("State: %s", m.state.String())
	}

	// --- Формируем подвал (статус + отладка) --- //
	var footer strings.Builder
	if m.status != "" {
		footer.WriteString("\n")
		footer.WriteString(m.status)
	}
	if m.debugMode {
		footer.WriteString("\n\n---\nОтладка:\n")
		footer.WriteString(m.getDebugInfoString())
	}

	styledContent := m.docStyle.Render(mainContent)
	return fmt.Sprintf("%s\n%s%s", styledContent, help, footer.String())
}

// Start запускает TUI приложение.
func Start(serverURL, configPath string, debugMode bool) {
	// Загружаем сохраненную конфигурацию (токен прошлой сессии)
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Warn("Не удалось загрузить конфигурацию клиента", "path", configPath, "error", err)
		cfg = config.Config{}
	}
	if serverURL == "" {
		serverURL = cfg.ServerURL
	}

	apiClient := api.NewHTTPClient(serverURL)
	slog.Info("API клиент инициализирован", "baseURL", serverURL)

	m := initModel(serverURL, configPath, cfg, apiClient, debugMode)

	// Сохраненный токен позволяет пропустить экран входа. Если токен истек,
	// первая же загрузка списка вернет пользователя на экран входа.
	if cfg.Token != "" {
		apiClient.SetAuthToken(cfg.Token)
		m.session = history.NewSession(apiClient)
		m.state = itemListScreen
		slog.Info("Найден сохраненный токен, пропускаем экран входа")
	}

	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, errRun := p.Run(); errRun != nil {
		slog.Error("Ошибка при запуске TUI", "error", errRun)
		fmt.Fprintf(os.Stderr, "Ошибка запуска интерфейса: %v\n", errRun)
		os.Exit(1)
	}
}
