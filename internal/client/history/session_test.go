package history_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/api"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/history"
	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// mockClient реализует api.Client через testify/mock.
type mockClient struct {
	mock.Mock
}

func (m *mockClient) Register(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *mockClient) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockClient) List(ctx context.Context, policy api.RetryPolicy) ([]models.InventoryItem, error) {
	args := m.Called(ctx, policy)
	items, _ := args.Get(0).([]models.InventoryItem)
	return items, args.Error(1)
}

func (m *mockClient) GetByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.InventoryItem)
	return item, args.Error(1)
}

func (m *mockClient) Insert(ctx context.Context, draft models.ItemDraft) (*models.InventoryItem, error) {
	args := m.Called(ctx, draft)
	item, _ := args.Get(0).(*models.InventoryItem)
	return item, args.Error(1)
}

func (m *mockClient) Update(ctx context.Context, id int64, draft models.ItemDraft) (*models.InventoryItem, error) {
	args := m.Called(ctx, id, draft)
	item, _ := args.Get(0).(*models.InventoryItem)
	return item, args.Error(1)
}

func (m *mockClient) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockClient) SetAuthToken(token string) {
	m.Called(token)
}

func (m *mockClient) HasAuthToken() bool {
	args := m.Called()
	return args.Bool(0)
}

// authedClient возвращает мок с установленным токеном.
func authedClient() *mockClient {
	client := new(mockClient)
	client.On("HasAuthToken").Return(true)
	return client
}

func gauzeItem() models.InventoryItem {
	return models.InventoryItem{
		ID:       7,
		Item:     "Gauze",
		Location: "Cabinet A",
		Quantity: "10",
		OwnerID:  1,
	}
}

func TestSession_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("УспешноеДобавлениеФиксируетсяВЖурнале", func(t *testing.T) {
		client := authedClient()
		created := gauzeItem()
		client.On("Insert", ctx, created.Draft()).Return(&created, nil).Once()

		s := history.NewSession(client)
		refreshed := 0
		s.SetRefreshFunc(func() { refreshed++ })

		item, err := s.Add(ctx, created.Draft())
		require.NoError(t, err)
		assert.Equal(t, int64(7), item.ID)
		assert.Equal(t, 1, refreshed, "Читающая сторона обновляется после фиксации")

		entries := s.History()
		require.Len(t, entries, 1)
		assert.Equal(t, history.ActionAdd, entries[0].Type)
		assert.Equal(t, `Added "Gauze"`, entries[0].Description)
		assert.NotEmpty(t, entries[0].ID)
		assert.False(t, entries[0].Timestamp.IsZero())
		client.AssertExpectations(t)
	})

	t.Run("ОшибкаХранилищаНеМеняетЖурнал", func(t *testing.T) {
		client := authedClient()
		client.On("Insert", ctx, mock.Anything).Return(nil, errors.New("network down")).Once()

		s := history.NewSession(client)
		_, err := s.Add(ctx, models.ItemDraft{Item: "Gauze", Location: "Cabinet A"})
		require.Error(t, err)
		assert.Empty(t, s.History())
	})

	t.Run("БезТокенаХранилищеНеВызывается", func(t *testing.T) {
		client := new(mockClient)
		client.On("HasAuthToken").Return(false)

		s := history.NewSession(client)
		_, err := s.Add(ctx, models.ItemDraft{Item: "Gauze", Location: "Cabinet A"})
		require.ErrorIs(t, err, api.ErrUnauthenticated)
		client.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		assert.Empty(t, s.History())
	})
}

func TestSession_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("ПредыдущееСостояниеЧитаетсяДоМутации", func(t *testing.T) {
		client := authedClient()
		previous := gauzeItem()
		updated := previous
		updated.Quantity = "3"
		client.On("GetByID", ctx, previous.ID).Return(&previous, nil).Once()
		client.On("Update", ctx, previous.ID, updated.Draft()).Return(&updated, nil).Once()

		s := history.NewSession(client)
		item, err := s.Update(ctx, previous.ID, updated.Draft())
		require.NoError(t, err)
		assert.Equal(t, "3", item.Quantity)

		entries := s.History()
		require.Len(t, entries, 1)
		assert.Equal(t, history.ActionUpdate, entries[0].Type)
		assert.Equal(t, `Updated "Gauze"`, entries[0].Description)
		require.NotNil(t, entries[0].PreviousItem)
		assert.Equal(t, "10", entries[0].PreviousItem.Quantity)
		client.AssertExpectations(t)
	})

	t.Run("ОшибкаПредварительногоЧтенияПрерываетОперацию", func(t *testing.T) {
		client := authedClient()
		client.On("GetByID", ctx, int64(7)).Return(nil, api.ErrNotFound).Once()

		s := history.NewSession(client)
		_, err := s.Update(ctx, 7, models.ItemDraft{Item: "Gauze", Location: "Cabinet A"})
		require.ErrorIs(t, err, api.ErrNotFound)
		client.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, s.History())
	})
}

func TestSession_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("СнимокЧитаетсяДоУдаления", func(t *testing.T) {
		client := authedClient()
		snapshot := gauzeItem()
		client.On("GetByID", ctx, snapshot.ID).Return(&snapshot, nil).Once()
		client.On("Delete", ctx, snapshot.ID).Return(nil).Once()

		s := history.NewSession(client)
		require.NoError(t, s.Remove(ctx, snapshot.ID))

		entries := s.History()
		require.Len(t, entries, 1)
		assert.Equal(t, history.ActionDelete, entries[0].Type)
		assert.Equal(t, `Deleted "Gauze"`, entries[0].Description)
		assert.Equal(t, "Gauze", entries[0].Item.Item, "Снимок сохранен для воскрешения")
		client.AssertExpectations(t)
	})

	t.Run("ОшибкаЧтенияСнимкаПрерываетУдаление", func(t *testing.T) {
		client := authedClient()
		client.On("GetByID", ctx, int64(7)).Return(nil, errors.New("network down")).Once()

		s := history.NewSession(client)
		require.Error(t, s.Remove(ctx, 7))
		client.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		assert.Empty(t, s.History())
	})
}

func TestSession_Undo(t *testing.T) {
	ctx := context.Background()

	t.Run("ОтменаДобавленияУдаляетЗапись", func(t *testing.T) {
		client := authedClient()
		created := gauzeItem()
		client.On("Insert", ctx, created.Draft()).Return(&created, nil).Once()
		client.On("Delete", ctx, created.ID).Return(nil).Once()

		s := history.NewSession(client)
		_, err := s.Add(ctx, created.Draft())
		require.NoError(t, err)

		entry, err := s.Undo(ctx)
		require.NoError(t, err)
		assert.Equal(t, history.ActionAdd, entry.Type)
		assert.False(t, s.CanUndo())
		assert.True(t, s.CanRedo())
		client.AssertExpectations(t)
	})

	t.Run("ОтменаОбновленияВозвращаетПредыдущиеПоля", func(t *testing.T) {
		client := authedClient()
		previous := gauzeItem()
		updated := previous
		updated.Quantity = "3"
		client.On("GetByID", ctx, previous.ID).Return(&previous, nil).Once()
		client.On("Update", ctx, previous.ID, updated.Draft()).Return(&updated, nil).Once()
		// Отмена отправляет черновик предыдущего состояния (без id и меток времени)
		client.On("Update", ctx, previous.ID, previous.Draft()).Return(&previous, nil).Once()

		s := history.NewSession(client)
		_, err := s.Update(ctx, previous.ID, updated.Draft())
		require.NoError(t, err)

		_, err = s.Undo(ctx)
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("ОтменаУдаленияВставляетСнимок", func(t *testing.T) {
		client := authedClient()
		snapshot := gauzeItem()
		resurrected := snapshot
		resurrected.ID = 99 // Сервер назначает новый id
		client.On("GetByID", ctx, snapshot.ID).Return(&snapshot, nil).Once()
		client.On("Delete", ctx, snapshot.ID).Return(nil).Once()
		client.On("Insert", ctx, snapshot.Draft()).Return(&resurrected, nil).Once()

		s := history.NewSession(client)
		require.NoError(t, s.Remove(ctx, snapshot.ID))

		_, err := s.Undo(ctx)
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("ОшибкаОтменыНеДвигаетКурсор", func(t *testing.T) {
		client := authedClient()
		created := gauzeItem()
		client.On("Insert", ctx, created.Draft()).Return(&created, nil).Once()
		client.On("Delete", ctx, created.ID).Return(errors.New("network down")).Once()

		s := history.NewSession(client)
		_, err := s.Add(ctx, created.Draft())
		require.NoError(t, err)

		_, err = s.Undo(ctx)
		require.Error(t, err)
		assert.True(t, s.CanUndo(), "Действие остается отменяемым после сбоя")
		assert.False(t, s.CanRedo())
	})

	t.Run("ПустойЖурнал", func(t *testing.T) {
		s := history.NewSession(authedClient())
		_, err := s.Undo(ctx)
		assert.ErrorIs(t, err, history.ErrNothingToUndo)
	})
}

func TestSession_Redo(t *testing.T) {
	ctx := context.Background()

	t.Run("ПовторДобавления", func(t *testing.T) {
		client := authedClient()
		created := gauzeItem()
		client.On("Insert", ctx, created.Draft()).Return(&created, nil).Twice() // Добавление + повтор
		client.On("Delete", ctx, created.ID).Return(nil).Once()                 // Отмена

		s := history.NewSession(client)
		_, err := s.Add(ctx, created.Draft())
		require.NoError(t, err)
		_, err = s.Undo(ctx)
		require.NoError(t, err)

		entry, err := s.Redo(ctx)
		require.NoError(t, err)
		assert.Equal(t, history.ActionAdd, entry.Type)
		assert.True(t, s.CanUndo())
		assert.False(t, s.CanRedo())
		client.AssertExpectations(t)
	})

	t.Run("ОшибкаПовтораНеДвигаетКурсор", func(t *testing.T) {
		client := authedClient()
		created := gauzeItem()
		client.On("Insert", ctx, created.Draft()).Return(&created, nil).Once()
		client.On("Delete", ctx, created.ID).Return(nil).Once()
		client.On("Insert", ctx, created.Draft()).Return(nil, errors.New("network down")).Once()

		s := history.NewSession(client)
		_, err := s.Add(ctx, created.Draft())
		require.NoError(t, err)
		_, err = s.Undo(ctx)
		require.NoError(t, err)

		_, err = s.Redo(ctx)
		require.Error(t, err)
		assert.True(t, s.CanRedo(), "Действие остается повторяемым после сбоя")
	})

	t.Run("ПустойХвост", func(t *testing.T) {
		s := history.NewSession(authedClient())
		_, err := s.Redo(ctx)
		assert.ErrorIs(t, err, history.ErrNothingToRedo)
	})
}

// Сценарий: обновили количество, отменили, снова обновили.
// Повтор первого обновления становится недоступен.
func TestSession_NewActionAfterUndoDropsRedo(t *testing.T) {
	ctx := context.Background()
	client := authedClient()

	base := gauzeItem()
	firstEdit := base
	firstEdit.Quantity = "5"
	secondEdit := base
	secondEdit.Quantity = "2"

	client.On("GetByID", ctx, base.ID).Return(&base, nil).Twice()
	client.On("Update", ctx, base.ID, firstEdit.Draft()).Return(&firstEdit, nil).Once()
	client.On("Update", ctx, base.ID, base.Draft()).Return(&base, nil).Once() // Отмена
	client.On("Update", ctx, base.ID, secondEdit.Draft()).Return(&secondEdit, nil).Once()

	s := history.NewSession(client)

	_, err := s.Update(ctx, base.ID, firstEdit.Draft())
	require.NoError(t, err)

	_, err = s.Undo(ctx)
	require.NoError(t, err)
	require.True(t, s.CanRedo())

	_, err = s.Update(ctx, base.ID, secondEdit.Draft())
	require.NoError(t, err)

	assert.False(t, s.CanRedo(), "Новое действие после отмены лишает повтор смысла")
	entries := s.History()
	require.Len(t, entries, 1)
	assert.Equal(t, "2", entries[0].Item.Quantity)
	client.AssertExpectations(t)
}
