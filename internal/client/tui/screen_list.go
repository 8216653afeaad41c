package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/view"
)

// Порядок переключения сортировок клавишей s.
var sortCycle = []string{view.SortByItem, view.SortByQuantity, view.SortByLocation, view.SortByUpdatedAt}

// Порядок переключения фильтра уровня запаса клавишей g.
var stockCycle = []string{
	view.FilterAll,
	string(view.StockOut),
	string(view.StockLow),
	string(view.StockMedium),
	string(view.StockGood),
}

// applyFilter пересчитывает видимую часть списка из master-копии записей.
func (m *model) applyFilter() {
	visible := m.filter.Apply(m.items)
	rows := make([]list.Item, len(visible))
	for i, item := range visible {
		rows[i] = itemRow{item: item}
	}
	m.itemList.SetItems(rows)
	m.itemList.Title = m.listTitle(len(visible))
}

// listTitle формирует заголовок списка с активными фильтрами.
func (m *model) listTitle(visible int) string {
	title := fmt.Sprintf("Инвентарь (%d/%d)", visible, len(m.items))
	var parts []string
	if m.filter.Search != "" {
		parts = append(parts, fmt.Sprintf("поиск: %q", m.filter.Search))
	}
	if m.filter.Location != "" && m.filter.Location != view.FilterAll {
		parts = append(parts, "место: "+m.filter.Location)
	}
	if m.filter.StockLevel != "" && m.filter.StockLevel != view.FilterAll {
		parts = append(parts, "запас: "+m.filter.StockLevel)
	}
	if m.filter.SortBy != "" && m.filter.SortBy != view.SortByItem {
		parts = append(parts, "сортировка: "+m.filter.SortBy)
	}
	if len(parts) > 0 {
		title += " | " + strings.Join(parts, ", ")
	}
	return title
}

// selectedItemRow возвращает выбранную запись списка.
func (m *model) selectedItemRow() (itemRow, bool) {
	selected := m.itemList.SelectedItem()
	if selected == nil {
		return itemRow{}, false
	}
	row, ok := selected.(itemRow)
	return row, ok
}

// cycleSort переключает порядок сортировки на следующий.
func (m *model) cycleSort() {
	current := m.filter.SortBy
	if current == "" {
		current = view.SortByItem
	}
	for i, sortBy := range sortCycle {
		if sortBy == current {
			m.filter.SortBy = sortCycle[(i+1)%len(sortCycle)]
			return
		}
	}
	m.filter.SortBy = view.SortByItem
}

// cycleStockLevel переключает фильтр уровня запаса на следующий.
func (m *model) cycleStockLevel() {
	current := m.filter.StockLevel
	if current == "" {
		current = view.FilterAll
	}
	for i, level := range stockCycle {
		if level == current {
			m.filter.StockLevel = stockCycle[(i+1)%len(stockCycle)]
			return
		}
	}
	m.filter.StockLevel = view.FilterAll
}

// cycleLocation переключает фильтр местоположения: all -> каждое известное
// местоположение по алфавиту -> all.
func (m *model) cycleLocation() {
	locations := view.Locations(m.items)
	if len(locations) == 0 {
		m.filter.Location = view.FilterAll
		return
	}
	current := m.filter.Location
	if current == "" || current == view.FilterAll {
		m.filter.Location = locations[0]
		return
	}
	for i, location := range locations {
		if location == current {
			if i == len(locations)-1 {
				m.filter.Location = view.FilterAll
			} else {
				m.filter.Location = locations[i+1]
			}
			return
		}
	}
	m.filter.Location = view.FilterAll
}

// updateItemListScreen обрабатывает сообщения на экране списка записей.
func (m *model) updateItemListScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	// В режиме поиска весь ввод идет в строку поиска
	if m.searchMode {
		return m.updateSearchInput(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit:
			return m, tea.Quit
		case keySearch:
			m.searchMode = true
			m.searchInput.SetValue(m.filter.Search)
			m.searchInput.Focus()
			return m, textinput.Blink
		case keyAdd:
			m.openItemForm(0)
			return m, textinput.Blink
		case keyEdit:
			row, ok := m.selectedItemRow()
			if !ok {
				return m.setStatusMessage("Нет выбранной записи")
			}
			m.openItemForm(row.item.ID)
			return m, textinput.Blink
		case keyDelete:
			row, ok := m.selectedItemRow()
			if !ok {
				return m.setStatusMessage("Нет выбранной записи")
			}
			m.deleteTarget = row.item
			m.state = deleteConfirmScreen
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
		case keyHistory:
			m.state = historyListScreen
			return m, nil
		case keySort:
			m.cycleSort()
			m.applyFilter()
			return m, nil
		case keyStock:
			m.cycleStockLevel()
			m.applyFilter()
			return m, nil
		case keyLocation:
			m.cycleLocation()
			m.applyFilter()
			return m, nil
		case keyReload:
			return m, m.loadItemsCmd()
		}
	}

	// Остальные сообщения (стрелки, страницы) обрабатывает компонент списка
	var cmd tea.Cmd
	m.itemList, cmd = m.itemList.Update(msg)
	return m, cmd
}

// updateSearchInput обрабатывает ввод строки поиска.
// Фильтр применяется на каждое нажатие, Enter фиксирует, Esc очищает.
func (m *model) updateSearchInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter:
			m.searchMode = false
			m.searchInput.Blur()
			return m, nil
		case keyEsc:
			m.searchMode = false
			m.searchInput.Blur()
			m.searchInput.SetValue("")
			m.filter.Search = ""
			m.applyFilter()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.filter.Search = m.searchInput.Value()
	m.applyFilter()
	return m, cmd
}

// viewItemListScreen отображает список записей и строку поиска.
func (m *model) viewItemListScreen() string {
	var b strings.Builder
	if m.searchMode {
		b.WriteString(m.searchInput.View() + "\n")
	}
	b.WriteString(m.itemList.View())
	return b.String()
}

// viewDeleteConfirmScreen отображает запрос подтверждения удаления.
func (m *model) viewDeleteConfirmScreen() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F25D94"))
	subtleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	b.WriteString(titleStyle.Render("Удаление записи") + "\n\n")
	b.WriteString(fmt.Sprintf("Удалить %q (%s)?\n\n", m.deleteTarget.Item, m.deleteTarget.Location))
	b.WriteString(subtleStyle.Render("y: удалить | n/esc: отмена"))
	return b.String()
}

// updateDeleteConfirmScreen обрабатывает подтверждение удаления.
func (m *model) updateDeleteConfirmScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y", "Y":
			target := m.deleteTarget
			m.state = itemListScreen
			return m, m.makeDeleteItemCmd(target.ID, target.Item)
		case "n", "N", keyEsc:
			m.state = itemListScreen
			return m, nil
		}
	}
	return m, nil
}
