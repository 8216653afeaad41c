package services

import (
	"context"
	"errors"
	"log"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/server/repository"
	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// InventoryService определяет операции над инвентарем с учетом прав доступа.
// Читать могут все аутентифицированные пользователи; менять и удалять
// запись может только ее владелец (доступ на уровне строк).
type InventoryService interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	Get(ctx context.Context, id int64) (*models.InventoryItem, error)
	Create(ctx context.Context, userID int64, draft models.ItemDraft) (*models.InventoryItem, error)
	Update(ctx context.Context, userID, id int64, draft models.ItemDraft) (*models.InventoryItem, error)
	Delete(ctx context.Context, userID, id int64) error
}

// Убедимся, что inventoryService удовлетворяет интерфейсу InventoryService.
var _ InventoryService = (*inventoryService)(nil)

type inventoryService struct {
	itemRepo repository.InventoryRepository
}

// NewInventoryService создает новый экземпляр сервиса инвентаря.
func NewInventoryService(itemRepo repository.InventoryRepository) InventoryService {
	return &inventoryService{itemRepo: itemRepo}
}

// List возвращает все записи (сортировка по имени - контракт репозитория).
func (s *inventoryService) List(ctx context.Context) ([]models.InventoryItem, error) {
	return s.itemRepo.ListItems(ctx)
}

// Get возвращает запись по id.
func (s *inventoryService) Get(ctx context.Context, id int64) (*models.InventoryItem, error) {
	return s.itemRepo.GetItemByID(ctx, id)
}

// Create создает запись от имени пользователя.
func (s *inventoryService) Create(
	ctx context.Context,
	userID int64,
	draft models.ItemDraft,
) (*models.InventoryItem, error) {
	if draft.Item == "" || draft.Location == "" {
		return nil, ErrInvalidItem
	}
	return s.itemRepo.CreateItem(ctx, userID, draft)
}

// Update заменяет редактируемые поля записи после проверки владельца.
func (s *inventoryService) Update(
	ctx context.Context,
	userID, id int64,
	draft models.ItemDraft,
) (*models.InventoryItem, error) {
	if draft.Item == "" || draft.Location == "" {
		return nil, ErrInvalidItem
	}
	if err := s.requireOwner(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.itemRepo.UpdateItem(ctx, id, draft)
}

// Delete удаляет запись после проверки владельца.
func (s *inventoryService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.requireOwner(ctx, userID, id); err != nil {
		return err
	}
	return s.itemRepo.DeleteItem(ctx, id)
}

// requireOwner проверяет право пользователя менять запись.
func (s *inventoryService) requireOwner(ctx context.Context, userID, id int64) error {
	item, err := s.itemRepo.GetItemByID(ctx, id)
	if err != nil {
		return err // В том числе ErrItemNotFound
	}
	if item.OwnerID != userID {
		log.Printf("[InventoryService] Пользователь %d пытался изменить чужую запись %d (владелец %d)",
			userID, id, item.OwnerID)
		return ErrPermissionDenied
	}
	return nil
}

// Кастомные ошибки сервиса.
var (
	ErrPermissionDenied = errors.New("you do not have permission to modify this item")
	ErrInvalidItem      = errors.New("item name and location are required")
)
