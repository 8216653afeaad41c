package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// openItemForm подготавливает форму добавления (id == 0) или
// редактирования существующей записи.
func (m *model) openItemForm(id int64) {
	m.editingID = id
	m.formError = ""
	m.formFocused = 0

	var draft models.ItemDraft
	if id != 0 {
		for _, item := range m.items {
			if item.ID == id {
				draft = item.Draft()
				break
			}
		}
	}

	values := [numFormFields]string{
		draft.Item,
		draft.Description,
		draft.Location,
		draft.Shelf,
		draft.Tub,
		draft.Quantity,
	}
	for i := range m.formInputs {
		m.formInputs[i].SetValue(values[i])
		m.formInputs[i].Blur()
	}
	m.formInputs[0].Focus()
	m.state = itemFormScreen
}

// focusFormField переводит фокус на поле с указанным индексом.
func (m *model) focusFormField(idx int) {
	for i := range m.formInputs {
		if i == idx {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	m.formFocused = idx
}

// formDraft собирает значения полей формы в черновик записи.
func (m *model) formDraft() models.ItemDraft {
	return models.ItemDraft{
		Item:        strings.TrimSpace(m.formInputs[formFieldItem].Value()),
		Description: strings.TrimSpace(m.formInputs[formFieldDescription].Value()),
		Location:    strings.TrimSpace(m.formInputs[formFieldLocation].Value()),
		Shelf:       strings.TrimSpace(m.formInputs[formFieldShelf].Value()),
		Tub:         strings.TrimSpace(m.formInputs[formFieldTub].Value()),
		Quantity:    strings.TrimSpace(m.formInputs[formFieldQuantity].Value()),
	}
}

// submitItemForm валидирует форму и запускает сохранение.
func (m *model) submitItemForm() (tea.Model, tea.Cmd) {
	draft := m.formDraft()
	if draft.Item == "" || draft.Location == "" {
		m.formError = "Имя записи и местоположение обязательны"
		return m, nil
	}
	m.formError = ""
	cmd := m.makeSaveItemCmd(m.editingID, draft)
	model, statusCmd := m.setStatusMessage("Сохранение...")
	return model, tea.Batch(cmd, statusCmd)
}

// updateItemFormScreen обрабатывает ввод на экране формы.
func (m *model) updateItemFormScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.state = itemListScreen
			m.formError = ""
			return m, tea.ClearScreen
		case keyTab, keyDown:
			m.focusFormField((m.formFocused + 1) % numFormFields)
			return m, nil
		case keyShiftTab, keyUp:
			m.focusFormField((m.formFocused + numFormFields - 1) % numFormFields)
			return m, nil
		case keyEnter:
			// Enter переходит к следующему полю; на последнем сохраняет
			if m.formFocused < numFormFields-1 {
				m.focusFormField(m.formFocused + 1)
				return m, nil
			}
			return m.submitItemForm()
		case "ctrl+s":
			return m.submitItemForm()
		}
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocused], cmd = m.formInputs[m.formFocused].Update(msg)
	return m, cmd
}

// viewItemFormScreen отображает форму добавления/редактирования записи.
func (m *model) viewItemFormScreen() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	subtleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94"))

	title := "Новая запись"
	if m.editingID != 0 {
		title = "Редактирование записи"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")

	labels := [numFormFields]string{"Название", "Описание", "Место", "Полка", "Контейнер", "Количество"}
	for i, input := range m.formInputs {
		b.WriteString(labels[i] + ": " + input.View() + "\n")
	}

	if m.formError != "" {
		b.WriteString("\n" + errorStyle.Render(m.formError) + "\n")
	}
	b.WriteString("\n" + subtleStyle.Render("Ctrl+S: сохранить сразу, Esc: отмена"))
	return b.String()
}
