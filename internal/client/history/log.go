package history

import (
	"sync"
	"time"

	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// ActionType обозначает вид выполненной мутации.
type ActionType string

const (
	ActionAdd    ActionType = "add"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// maxEntries ограничивает журнал последними 50 действиями.
const maxEntries = 50

// Entry описывает одно успешно выполненное действие.
// Запись создается сразу после подтверждения сервером и больше не меняется.
type Entry struct {
	ID           string                 // Локально сгенерированный идентификатор записи журнала
	Type         ActionType             // Вид действия
	Timestamp    time.Time              // Время фиксации на клиенте
	Item         models.InventoryItem   // Состояние записи ПОСЛЕ действия (для delete - снимок удаленного)
	PreviousItem *models.InventoryItem  // Состояние ДО действия; заполняется только для update
	Description  string                 // Человекочитаемое описание, например `Added "Gauze"`
}

// Log хранит упорядоченный журнал действий и курсор, разделяющий
// примененную (отменяемую) часть 0..cursor и повторяемый хвост cursor+1..конец.
// Инвариант: -1 <= cursor < len(entries).
//
// Журнал принадлежит одной пользовательской сессии, не разделяется между
// сессиями и не сохраняется: при каждом запуске клиент начинает с пустого.
// Мьютекс нужен потому, что команды bubbletea завершаются в своих горутинах.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	cursor  int
}

// NewLog создает пустой журнал с курсором -1.
func NewLog() *Log {
	return &Log{cursor: -1}
}

// Journal фиксирует новое действие:
// отбрасывает повторяемый хвост (новое действие после undo лишает redo смысла),
// добавляет запись, вытесняет старейшие записи сверх лимита и ставит курсор
// на только что добавленную запись.
func (l *Log) Journal(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries[:l.cursor+1], e)
	if len(l.entries) > maxEntries {
		drop := len(l.entries) - maxEntries
		l.entries = l.entries[drop:]
	}
	l.cursor = len(l.entries) - 1
}

// CanUndo сообщает, есть ли примененные действия для отмены.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor >= 0
}

// CanRedo сообщает, есть ли отмененные действия для повтора.
func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor < len(l.entries)-1
}

// Current возвращает запись под курсором (кандидата на отмену).
func (l *Log) Current() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cursor < 0 {
		return Entry{}, false
	}
	return l.entries[l.cursor], true
}

// Next возвращает запись сразу после курсора (кандидата на повтор).
func (l *Log) Next() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cursor >= len(l.entries)-1 {
		return Entry{}, false
	}
	return l.entries[l.cursor+1], true
}

// StepBack сдвигает курсор на одну запись назад после успешной отмены.
func (l *Log) StepBack() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cursor >= 0 {
		l.cursor--
	}
}

// StepForward сдвигает курсор на одну запись вперед после успешного повтора.
func (l *Log) StepForward() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cursor < len(l.entries)-1 {
		l.cursor++
	}
}

// Entries возвращает копию примененной части журнала (0..cursor).
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	applied := make([]Entry, l.cursor+1)
	copy(applied, l.entries[:l.cursor+1])
	return applied
}

// Len возвращает полную длину журнала, включая повторяемый хвост.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
