package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/api"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/history"
	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// clearStatusCmd возвращает команду, которая отправит clearStatusMsg через delay.
func clearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// --- Сообщения и команды для входа/регистрации --- //

type loginSuccessMsg struct {
	Token string
	Email string
}

type LoginError struct {
	err error
}

func (e LoginError) Error() string {
	return e.err.Error()
}

// makeLoginCmd выполняет вход через API.
func (m *model) makeLoginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		token, err := m.apiClient.Login(ctx, email, password)
		if err != nil {
			// Возвращаем исходную ошибку API клиента без добавления контекста
			return LoginError{err: err}
		}
		return loginSuccessMsg{Token: token, Email: email}
	}
}

// Успешная регистрация не возвращает токен: пользователь входит отдельно.
type registerSuccessMsg struct{}

type RegisterError struct {
	err error
}

func (e RegisterError) Error() string {
	return e.err.Error()
}

// makeRegisterCmd выполняет регистрацию через API.
func (m *model) makeRegisterCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		err := m.apiClient.Register(ctx, email, password)
		if err != nil {
			return RegisterError{err: err}
		}
		return registerSuccessMsg{}
	}
}

// --- Сообщения и команды для работы с инвентарем --- //

// itemsLoadedMsg содержит свежий список записей с сервера.
type itemsLoadedMsg struct {
	items []models.InventoryItem
}

// LoadError сообщает об ошибке загрузки списка.
type LoadError struct {
	err error
}

func (e LoadError) Error() string {
	return e.err.Error()
}

// loadItemsCmd загружает список записей с повторами по стандартной политике.
func (m *model) loadItemsCmd() tea.Cmd {
	return func() tea.Msg {
		slog.Debug("Загрузка списка записей", "url", m.serverURL)
		ctx := context.Background()
		items, err := m.apiClient.List(ctx, api.DefaultRetryPolicy())
		if err != nil {
			slog.Error("Ошибка загрузки списка записей", "error", err)
			return LoadError{err: err}
		}
		return itemsLoadedMsg{items: items}
	}
}

// itemSavedMsg сигнализирует об успешном добавлении или обновлении записи.
type itemSavedMsg struct {
	item    models.InventoryItem
	created bool // true при добавлении, false при обновлении
}

// itemDeletedMsg сигнализирует об успешном удалении записи.
type itemDeletedMsg struct {
	name string
}

// ActionError сообщает об ошибке мутации, отмены или повтора.
type ActionError struct {
	err error
}

func (e ActionError) Error() string {
	return e.err.Error()
}

// makeSaveItemCmd добавляет новую запись (editingID == 0) или обновляет
// существующую. Мутация проходит через сессию и фиксируется в журнале.
func (m *model) makeSaveItemCmd(editingID int64, draft models.ItemDraft) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx := context.Background()
		if editingID == 0 {
			created, err := session.Add(ctx, draft)
			if err != nil {
				slog.Error("Ошибка добавления записи", "error", err)
				return ActionError{err: err}
			}
			return itemSavedMsg{item: *created, created: true}
		}
		updated, err := session.Update(ctx, editingID, draft)
		if err != nil {
			slog.Error("Ошибка обновления записи", "id", editingID, "error", err)
			return ActionError{err: err}
		}
		return itemSavedMsg{item: *updated, created: false}
	}
}

// makeDeleteItemCmd удаляет запись через сессию.
func (m *model) makeDeleteItemCmd(id int64, name string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx := context.Background()
		if err := session.Remove(ctx, id); err != nil {
			slog.Error("Ошибка удаления записи", "id", id, "error", err)
			return ActionError{err: err}
		}
		return itemDeletedMsg{name: name}
	}
}

// --- Сообщения и команды для отмены/повтора --- //

// undoneMsg сигнализирует об успешной отмене действия.
type undoneMsg struct {
	entry history.Entry
}

// redoneMsg сигнализирует об успешном повторе действия.
type redoneMsg struct {
	entry history.Entry
}

// makeUndoCmd отменяет последнее действие журнала.
func (m *model) makeUndoCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx := context.Background()
		entry, err := session.Undo(ctx)
		if err != nil {
			return ActionError{err: err}
		}
		return undoneMsg{entry: entry}
	}
}

// makeRedoCmd повторяет последнее отмененное действие.
func (m *model) makeRedoCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx := context.Background()
		entry, err := session.Redo(ctx)
		if err != nil {
			return ActionError{err: err}
		}
		return redoneMsg{entry: entry}
	}
}
