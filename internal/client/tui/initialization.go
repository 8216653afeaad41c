package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/api"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/config"
)

// Константы, используемые при инициализации.
const (
	initEmailCharLimit    = 128
	initEmailWidth        = 40
	initPasswordCharLimit = 156
	initPasswordWidth     = 40
	initFieldCharLimit    = 256
	initFieldWidth        = 40
	initSearchCharLimit   = 128
	initSearchWidth       = 40
)

// Плейсхолдеры полей формы в порядке formField*.
var formPlaceholders = [numFormFields]string{
	"Item name",
	"Description",
	"Location",
	"Shelf",
	"Tub",
	"Quantity",
}

// initItemList инициализирует компонент списка записей инвентаря.
func initItemList() list.Model {
	delegate := list.NewDefaultDelegate()
	// Настраиваем цвета для лучшей видимости
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("212")).
		BorderLeftForeground(lipgloss.Color("212"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("240")).
		BorderLeftForeground(lipgloss.Color("212"))

	l := list.New([]list.Item{}, delegate, defaultListWidth, defaultListHeight)
	l.Title = "Инвентарь"
	l.SetShowHelp(false)       // Мы переопределяем справку
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false) // Поиск и фильтры делает пакет view
	l.Styles.Title = list.DefaultStyles().Title.Bold(true)
	return l
}

// initSearchInput инициализирует строку поиска.
func initSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Поиск по имени, описанию, местоположению"
	ti.CharLimit = initSearchCharLimit
	ti.Width = initSearchWidth
	return ti
}

// initFormInputs инициализирует поля формы добавления/редактирования.
func initFormInputs() []textinput.Model {
	inputs := make([]textinput.Model, numFormFields)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = formPlaceholders[i]
		ti.CharLimit = initFieldCharLimit
		ti.Width = initFieldWidth
		inputs[i] = ti
	}
	return inputs
}

// initAuthInputs инициализирует пару полей адрес/пароль для входа или регистрации.
func initAuthInputs() (textinput.Model, textinput.Model) {
	emailInput := textinput.New()
	emailInput.Placeholder = "Email (@mainecc.edu)"
	emailInput.CharLimit = initEmailCharLimit
	emailInput.Width = initEmailWidth

	passwordInput := textinput.New()
	passwordInput.Placeholder = "Пароль"
	passwordInput.CharLimit = initPasswordCharLimit
	passwordInput.Width = initPasswordWidth
	passwordInput.EchoMode = textinput.EchoPassword
	return emailInput, passwordInput
}

// initHelpTextMap задает строки помощи для каждого экрана.
func initHelpTextMap() map[screenState]string {
	return map[screenState]string{
		loginRegisterChoiceScreen: "l: войти | r: регистрация | ctrl+c: выход",
		loginScreen:               "enter: войти | tab: следующее поле | esc: назад",
		registerScreen:            "enter: зарегистрироваться | tab: следующее поле | esc: назад",
		itemListScreen: "a: добавить | e: изменить | d: удалить | u: отменить | r: повторить | " +
			"h: журнал | /: поиск | s: сортировка | g: запас | l: место | q: выход",
		itemFormScreen:      "enter: сохранить | tab: следующее поле | esc: отмена",
		deleteConfirmScreen: "y: удалить | n/esc: отмена",
		historyListScreen:   "esc/b: назад",
	}
}

// initDocStyle инициализирует основной стиль документа.
func initDocStyle() lipgloss.Style {
	return lipgloss.NewStyle().Margin(1, 2)
}

// initModel создает начальное состояние модели.
func initModel(serverURL, configPath string, cfg config.Config, apiClient api.Client, debugMode bool) model {
	loginEmail, loginPassword := initAuthInputs()
	registerEmail, registerPassword := initAuthInputs()

	return model{
		state:                 loginRegisterChoiceScreen,
		debugMode:             debugMode,
		serverURL:             serverURL,
		apiClient:             apiClient,
		configPath:            configPath,
		cfg:                   cfg,
		itemList:              initItemList(),
		searchInput:           initSearchInput(),
		formInputs:            initFormInputs(),
		loginEmailInput:       loginEmail,
		loginPasswordInput:    loginPassword,
		registerEmailInput:    registerEmail,
		registerPasswordInput: registerPassword,
		helpTextMap:           initHelpTextMap(),
		docStyle:              initDocStyle(),
	}
}
