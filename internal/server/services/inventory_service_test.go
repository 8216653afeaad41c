package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/server/repository"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/server/services"
	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// mockInventoryRepository реализует repository.InventoryRepository через testify/mock.
type mockInventoryRepository struct {
	mock.Mock
}

func (m *mockInventoryRepository) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.InventoryItem)
	return items, args.Error(1)
}

func (m *mockInventoryRepository) GetItemByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*models.InventoryItem)
	return item, args.Error(1)
}

func (m *mockInventoryRepository) CreateItem(
	ctx context.Context,
	ownerID int64,
	draft models.ItemDraft,
) (*models.InventoryItem, error) {
	args := m.Called(ctx, ownerID, draft)
	item, _ := args.Get(0).(*models.InventoryItem)
	return item, args.Error(1)
}

func (m *mockInventoryRepository) UpdateItem(
	ctx context.Context,
	id int64,
	draft models.ItemDraft,
) (*models.InventoryItem, error) {
	args := m.Called(ctx, id, draft)
	item, _ := args.Get(0).(*models.InventoryItem)
	return item, args.Error(1)
}

func (m *mockInventoryRepository) DeleteItem(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validDraft() models.ItemDraft {
	return models.ItemDraft{Item: "Gauze", Location: "Cabinet A", Quantity: "10"}
}

func storedItem(ownerID int64) *models.InventoryItem {
	return &models.InventoryItem{
		ID:       7,
		Item:     "Gauze",
		Location: "Cabinet A",
		Quantity: "10",
		OwnerID:  ownerID,
	}
}

func TestInventoryService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(mockInventoryRepository)
	repo.On("ListItems", ctx).Return([]models.InventoryItem{*storedItem(1)}, nil).Once()

	service := services.NewInventoryService(repo)
	items, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	repo.AssertExpectations(t)
}

func TestInventoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("УспешноеСоздание", func(t *testing.T) {
		repo := new(mockInventoryRepository)
		repo.On("CreateItem", ctx, int64(1), validDraft()).Return(storedItem(1), nil).Once()

		service := services.NewInventoryService(repo)
		created, err := service.Create(ctx, 1, validDraft())
		require.NoError(t, err)
		assert.Equal(t, int64(7), created.ID)
		repo.AssertExpectations(t)
	})

	t.Run("БезИмениОтклоняется", func(t *testing.T) {
		repo := new(mockInventoryRepository)
		service := services.NewInventoryService(repo)

		_, err := service.Create(ctx, 1, models.ItemDraft{Location: "Cabinet A"})
		assert.ErrorIs(t, err, services.ErrInvalidItem)
		repo.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("БезМестоположенияОтклоняется", func(t *testing.T) {
		service := services.NewInventoryService(new(mockInventoryRepository))
		_, err := service.Create(ctx, 1, models.ItemDraft{Item: "Gauze"})
		assert.ErrorIs(t, err, services.ErrInvalidItem)
	})
}

func TestInventoryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("ВладелецМожетОбновлять", func(t *testing.T) {
		repo := new(mockInventoryRepository)
		repo.On("GetItemByID", ctx, int64(7)).Return(storedItem(1), nil).Once()
		repo.On("UpdateItem", ctx, int64(7), validDraft()).Return(storedItem(1), nil).Once()

		service := services.NewInventoryService(repo)
		_, err := service.Update(ctx, 1, 7, validDraft())
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("ЧужаяЗаписьЗапрещена", func(t *testing.T) {
		repo := new(mockInventoryRepository)
		repo.On("GetItemByID", ctx, int64(7)).Return(storedItem(2), nil).Once()

		service := services.NewInventoryService(repo)
		_, err := service.Update(ctx, 1, 7, validDraft())
		assert.ErrorIs(t, err, services.ErrPermissionDenied)
		repo.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("НесуществующаяЗапись", func(t *testing.T) {
		repo := new(mockInventoryRepository)
		repo.On("GetItemByID", ctx, int64(7)).Return(nil, repository.ErrItemNotFound).Once()

		service := services.NewInventoryService(repo)
		_, err := service.Update(ctx, 1, 7, validDraft())
		assert.ErrorIs(t, err, repository.ErrItemNotFound)
	})
}

func TestInventoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("ВладелецМожетУдалять", func(t *testing.T) {
		repo := new(mockInventoryRepository)
		repo.On("GetItemByID", ctx, int64(7)).Return(storedItem(1), nil).Once()
		repo.On("DeleteItem", ctx, int64(7)).Return(nil).Once()

		service := services.NewInventoryService(repo)
		require.NoError(t, service.Delete(ctx, 1, 7))
		repo.AssertExpectations(t)
	})

	t.Run("ЧужаяЗаписьЗапрещена", func(t *testing.T) {
		repo := new(mockInventoryRepository)
		repo.On("GetItemByID", ctx, int64(7)).Return(storedItem(2), nil).Once()

		service := services.NewInventoryService(repo)
		err := service.Delete(ctx, 1, 7)
		assert.ErrorIs(t, err, services.ErrPermissionDenied)
		repo.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything)
	})

	t.Run("ОшибкаРепозиторияПроксируется", func(t *testing.T) {
		repo := new(mockInventoryRepository)
		repo.On("GetItemByID", ctx, int64(7)).Return(storedItem(1), nil).Once()
		repo.On("DeleteItem", ctx, int64(7)).Return(errors.New("db down")).Once()

		service := services.NewInventoryService(repo)
		assert.Error(t, service.Delete(ctx, 1, 7))
	})
}
