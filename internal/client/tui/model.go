package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/api"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/config"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/history"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/view"
	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// Состояния (экраны) приложения.
type screenState int

const (
	loginRegisterChoiceScreen screenState = iota // Экран выбора "Войти или Зарегистрироваться?"
	loginScreen                                  // Экран ввода данных для входа
	registerScreen                               // Экран ввода данных для регистрации
	itemListScreen                               // Экран списка записей инвентаря
	itemFormScreen                               // Экран добавления/редактирования записи
	deleteConfirmScreen                          // Экран подтверждения удаления
	historyListScreen                            // Экран журнала действий
)

// String возвращает имя состояния для отладочного подвала.
func (s screenState) String() string {
	switch s {
	case loginRegisterChoiceScreen:
		return "loginRegisterChoice"
	case loginScreen:
		return "login"
	case registerScreen:
		return "register"
	case itemListScreen:
		return "itemList"
	case itemFormScreen:
		return "itemForm"
	case deleteConfirmScreen:
		return "deleteConfirm"
	case historyListScreen:
		return "historyList"
	default:
		return "unknown"
	}
}

// Индексы редактируемых полей записи на экране формы.
const (
	formFieldItem = iota
	formFieldDescription
	formFieldLocation
	formFieldShelf
	formFieldTub
	formFieldQuantity
	numFormFields // Общее количество полей формы
)

// Константы для TUI.
const (
	defaultListWidth  = 80 // Стандартная ширина терминала для списка
	defaultListHeight = 24 // Стандартная высота терминала для списка
	inputWidthOffset  = 4  // Отступ для полей ввода

	keyEnter    = "enter"
	keyQuit     = "q"
	keyBack     = "b"
	keyEsc      = "esc"
	keyAdd      = "a"
	keyEdit     = "e"
	keyDelete   = "d"
	keyUndo     = "u"
	keyRedo     = "r"
	keyHistory  = "h"
	keySearch   = "/"
	keySort     = "s"
	keyStock    = "g"
	keyLocation = "l"
	keyReload   = "ctrl+r"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyUp       = "up"
	keyDown     = "down"
)

// itemRow представляет запись инвентаря в компоненте списка.
// Реализует интерфейс list.Item.
type itemRow struct {
	item models.InventoryItem
}

func (r itemRow) Title() string {
	quantity := r.item.Quantity
	if quantity == "" {
		quantity = "0"
	}
	return fmt.Sprintf("%s (x%s)", r.item.Item, quantity)
}

func (r itemRow) Description() string {
	place := r.item.Location
	if r.item.Shelf != "" {
		place += " / " + r.item.Shelf
	}
	if r.item.Tub != "" {
		place += " / " + r.item.Tub
	}
	level := view.StockLevelFor(r.item.Quantity)
	desc := fmt.Sprintf("%s [%s]", place, level)
	if r.item.Description != "" {
		desc += " " + r.item.Description
	}
	return desc
}

// FilterValue не используется: поиск и фильтрация выполняются нашим
// пакетом view, встроенный фильтр списка отключен.
func (r itemRow) FilterValue() string { return r.item.Item }

// model представляет состояние TUI приложения.
type model struct {
	state     screenState
	debugMode bool

	// -- Интеграция с сервером --
	serverURL  string           // URL сервера
	apiClient  api.Client       // Клиент для взаимодействия с API
	session    *history.Session // Журнал действий текущей сессии; nil до входа
	configPath string           // Путь к файлу конфигурации клиента
	cfg        config.Config    // Загруженная конфигурация (токен, URL)
	userEmail  string           // Адрес вошедшего пользователя (для подвала)

	// -- Список записей --
	items      []models.InventoryItem // Записи в серверном порядке (по имени)
	filter     view.Filter            // Активные параметры фильтрации и сортировки
	itemList   list.Model             // Компонент списка
	searchMode bool                   // Флаг: активна строка поиска
	searchInput textinput.Model       // Поле ввода строки поиска

	// -- Форма добавления/редактирования --
	formInputs  []textinput.Model // Поля формы в порядке formField*
	formFocused int               // Индекс активного поля формы
	editingID   int64             // ID редактируемой записи; 0 при добавлении
	formError   string            // Ошибка валидации формы

	// -- Подтверждение удаления --
	deleteTarget models.InventoryItem // Запись, выбранная для удаления

	// -- Вход/регистрация --
	loginEmailInput       textinput.Model
	loginPasswordInput    textinput.Model
	registerEmailInput    textinput.Model
	registerPasswordInput textinput.Model
	authFocusedField      int // Индекс активного поля на экранах входа/регистрации

	// -- Статус и отображение --
	status      string                 // Статусное сообщение внизу экрана
	err         error                  // Последняя ошибка для отображения
	helpTextMap map[screenState]string // Строки помощи по экранам
	docStyle    lipgloss.Style         // Общий стиль для обрамления View
	width       int
	height      int
}

// Сообщение для очистки статуса.
type clearStatusMsg struct{}
