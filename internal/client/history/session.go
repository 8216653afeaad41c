package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/api"
	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// Некритичные ошибки отмены/повтора: показываются пользователю,
// но не означают сбой хранилища.
var (
	ErrNothingToUndo = errors.New("no actions available to undo")
	ErrNothingToRedo = errors.New("no actions available to redo")
)

// Session объединяет клиент удаленного хранилища и журнал действий одной
// пользовательской сессии. Каждая мутация проходит по схеме:
// проверка личности -> (для update/remove) предварительное чтение ->
// вызов хранилища -> фиксация в журнале -> обновление читающей стороны.
// Журнал меняется только после полного успеха вызова хранилища.
type Session struct {
	client    api.Client
	log       *Log
	onRefresh func() // Инвалидация кэша списка; может быть nil
}

// NewSession создает сессию с пустым журналом.
// Сессия создается заново при каждом входе и нигде не сохраняется.
func NewSession(client api.Client) *Session {
	return &Session{
		client: client,
		log:    NewLog(),
	}
}

// SetRefreshFunc задает обработчик обновления читающей стороны.
// Вызывается после каждой успешной фиксации, отмены или повтора.
func (s *Session) SetRefreshFunc(f func()) {
	s.onRefresh = f
}

// Add создает запись и фиксирует действие в журнале.
func (s *Session) Add(ctx context.Context, draft models.ItemDraft) (*models.InventoryItem, error) {
	if err := s.requireIdentity(); err != nil {
		return nil, err
	}

	created, err := s.client.Insert(ctx, draft)
	if err != nil {
		return nil, err // Журнал не меняется
	}

	s.journal(Entry{
		Type:        ActionAdd,
		Item:        *created,
		Description: fmt.Sprintf("Added %q", created.Item),
	})
	return created, nil
}

// Update заменяет редактируемые поля записи и фиксирует действие в журнале.
// Предыдущее состояние читается ДО мутации: если чтение не удалось,
// операция прерывается и хранилище не вызывается.
func (s *Session) Update(ctx context.Context, id int64, draft models.ItemDraft) (*models.InventoryItem, error) {
	if err := s.requireIdentity(); err != nil {
		return nil, err
	}

	previous, err := s.client.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item before update: %w", err)
	}

	updated, err := s.client.Update(ctx, id, draft)
	if err != nil {
		return nil, err // Журнал не меняется
	}

	s.journal(Entry{
		Type:         ActionUpdate,
		Item:         *updated,
		PreviousItem: previous,
		Description:  fmt.Sprintf("Updated %q", updated.Item),
	})
	return updated, nil
}

// Remove удаляет запись и фиксирует действие в журнале.
// Полный снимок записи читается ДО удаления - он нужен, чтобы
// воскресить запись при отмене.
func (s *Session) Remove(ctx context.Context, id int64) error {
	if err := s.requireIdentity(); err != nil {
		return err
	}

	snapshot, err := s.client.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch item before delete: %w", err)
	}

	if err = s.client.Delete(ctx, id); err != nil {
		return err // Журнал не меняется
	}

	s.journal(Entry{
		Type:        ActionDelete,
		Item:        *snapshot,
		Description: fmt.Sprintf("Deleted %q", snapshot.Item),
	})
	return nil
}

// Undo выполняет операцию, обратную записи под курсором:
//   - add    -> удаление созданной записи;
//   - update -> возврат полей предыдущего состояния (без id и меток времени);
//   - delete -> повторная вставка снимка (без id и меток времени).
//
// Известное ограничение: при отмене удаления сервер назначает записи НОВЫЙ id,
// поэтому идентичность воскрешенной записи отличается от исходной. Ссылки на
// старый id (например, в другом открытом клиенте) становятся неактуальными.
// Курсор сдвигается только при успехе; при ошибке запись остается отменяемой.
func (s *Session) Undo(ctx context.Context) (Entry, error) {
	entry, ok := s.log.Current()
	if !ok {
		return Entry{}, ErrNothingToUndo
	}

	var err error
	switch entry.Type {
	case ActionAdd:
		err = s.client.Delete(ctx, entry.Item.ID)
	case ActionUpdate:
		if entry.PreviousItem != nil {
			_, err = s.client.Update(ctx, entry.PreviousItem.ID, entry.PreviousItem.Draft())
		}
	case ActionDelete:
		_, err = s.client.Insert(ctx, entry.Item.Draft())
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to undo action: %w", err)
	}

	s.log.StepBack()
	s.refresh()
	return entry, nil
}

// Redo повторяет ближайшее отмененное действие, используя сохраненный
// снимок (без id и меток времени для вставки и обновления).
// Курсор сдвигается только при успехе.
func (s *Session) Redo(ctx context.Context) (Entry, error) {
	entry, ok := s.log.Next()
	if !ok {
		return Entry{}, ErrNothingToRedo
	}

	var err error
	switch entry.Type {
	case ActionAdd:
		_, err = s.client.Insert(ctx, entry.Item.Draft())
	case ActionUpdate:
		_, err = s.client.Update(ctx, entry.Item.ID, entry.Item.Draft())
	case ActionDelete:
		err = s.client.Delete(ctx, entry.Item.ID)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to redo action: %w", err)
	}

	s.log.StepForward()
	s.refresh()
	return entry, nil
}

// CanUndo сообщает, есть ли действия для отмены.
func (s *Session) CanUndo() bool { return s.log.CanUndo() }

// CanRedo сообщает, есть ли действия для повтора.
func (s *Session) CanRedo() bool { return s.log.CanRedo() }

// History возвращает примененную часть журнала.
func (s *Session) History() []Entry { return s.log.Entries() }

// requireIdentity быстро отклоняет мутацию при отсутствии аутентификации,
// не полагаясь на отказ сервера.
func (s *Session) requireIdentity() error {
	if !s.client.HasAuthToken() {
		return fmt.Errorf("%w: please sign in again", api.ErrUnauthenticated)
	}
	return nil
}

// journal дополняет запись локальными атрибутами и фиксирует ее.
func (s *Session) journal(e Entry) {
	e.ID = uuid.NewString()
	e.Timestamp = time.Now()
	s.log.Journal(e)
	s.refresh()
}

func (s *Session) refresh() {
	if s.onRefresh != nil {
		s.onRefresh()
	}
}
