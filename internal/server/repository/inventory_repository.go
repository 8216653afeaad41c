package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// InventoryRepository определяет методы для работы с записями инвентаря в хранилище.
type InventoryRepository interface {
	// ListItems возвращает все записи, отсортированные по имени по возрастанию
	// (контракт списка, на который полагается клиент).
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	// GetItemByID возвращает запись по id или ErrItemNotFound.
	GetItemByID(ctx context.Context, id int64) (*models.InventoryItem, error)
	// CreateItem вставляет запись; id и временные метки назначает БД.
	CreateItem(ctx context.Context, ownerID int64, draft models.ItemDraft) (*models.InventoryItem, error)
	// UpdateItem заменяет редактируемые поля и обновляет updated_at.
	UpdateItem(ctx context.Context, id int64, draft models.ItemDraft) (*models.InventoryItem, error)
	// DeleteItem удаляет запись по id или возвращает ErrItemNotFound.
	DeleteItem(ctx context.Context, id int64) error
}

// postgresInventoryRepository реализует InventoryRepository для PostgreSQL.
type postgresInventoryRepository struct {
	db *sqlx.DB
}

// NewPostgresInventoryRepository создает новый экземпляр репозитория инвентаря.
func NewPostgresInventoryRepository(db *sqlx.DB) InventoryRepository {
	return &postgresInventoryRepository{db: db}
}

// ListItems возвращает все записи инвентаря, отсортированные по имени.
func (r *postgresInventoryRepository) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	query := `SELECT id, item, description, location, shelf, tub, quantity, user_id, created_at, updated_at
	          FROM inventory_items ORDER BY item ASC`
	items := []models.InventoryItem{}

	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		log.Printf("[InventoryRepo] Ошибка при получении списка записей: %v", err)
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}

// GetItemByID возвращает запись по id.
func (r *postgresInventoryRepository) GetItemByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	query := `SELECT id, item, description, location, shelf, tub, quantity, user_id, created_at, updated_at
	          FROM inventory_items WHERE id=$1`
	var item models.InventoryItem

	err := r.db.GetContext(ctx, &item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("[InventoryRepo] Запись с ID %d не найдена", id)
			return nil, ErrItemNotFound
		}
		log.Printf("[InventoryRepo] Ошибка при поиске записи с ID %d: %v", id, err)
		return nil, fmt.Errorf("failed to query item: %w", err)
	}

	return &item, nil
}

// CreateItem вставляет новую запись и возвращает ее состояние с серверными полями.
func (r *postgresInventoryRepository) CreateItem(
	ctx context.Context,
	ownerID int64,
	draft models.ItemDraft,
) (*models.InventoryItem, error) {
	query := `INSERT INTO inventory_items (item, description, location, shelf, tub, quantity, user_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, item, description, location, shelf, tub, quantity, user_id, created_at, updated_at`
	var created models.InventoryItem

	err := r.db.GetContext(ctx, &created, query,
		draft.Item, draft.Description, draft.Location, draft.Shelf, draft.Tub, draft.Quantity, ownerID)
	if err != nil {
		log.Printf("[InventoryRepo] Ошибка при создании записи '%s': %v", draft.Item, err)
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	log.Printf("[InventoryRepo] Запись '%s' создана с ID %d", created.Item, created.ID)
	return &created, nil
}

// UpdateItem заменяет редактируемые поля записи.
// updated_at обновляется сервером, created_at не меняется
// (инвариант updated_at >= created_at).
func (r *postgresInventoryRepository) UpdateItem(
	ctx context.Context,
	id int64,
	draft models.ItemDraft,
) (*models.InventoryItem, error) {
	query := `UPDATE inventory_items
	          SET item=$1, description=$2, location=$3, shelf=$4, tub=$5, quantity=$6, updated_at=NOW()
	          WHERE id=$7
	          RETURNING id, item, description, location, shelf, tub, quantity, user_id, created_at, updated_at`
	var updated models.InventoryItem

	err := r.db.GetContext(ctx, &updated, query,
		draft.Item, draft.Description, draft.Location, draft.Shelf, draft.Tub, draft.Quantity, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("[InventoryRepo] Запись с ID %d не найдена при обновлении", id)
			return nil, ErrItemNotFound
		}
		log.Printf("[InventoryRepo] Ошибка при обновлении записи с ID %d: %v", id, err)
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	log.Printf("[InventoryRepo] Запись '%s' (ID %d) обновлена", updated.Item, updated.ID)
	return &updated, nil
}

// DeleteItem удаляет запись по id.
func (r *postgresInventoryRepository) DeleteItem(ctx context.Context, id int64) error {
	query := `DELETE FROM inventory_items WHERE id=$1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Printf("[InventoryRepo] Ошибка при удалении записи с ID %d: %v", id, err)
		return fmt.Errorf("failed to delete item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		log.Printf("[InventoryRepo] Запись с ID %d не найдена при удалении", id)
		return ErrItemNotFound
	}

	log.Printf("[InventoryRepo] Запись с ID %d удалена", id)
	return nil
}

// Кастомная ошибка репозитория.
var (
	ErrItemNotFound = errors.New("item not found")
)
