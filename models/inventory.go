package models

import "time"

// InventoryItem представляет одну позицию инвентаря кафедры.
// Тэги `db` используются для маппинга с полями БД с помощью sqlx.
// Тэги `json` используются для (де)сериализации JSON.
type InventoryItem struct {
	ID          int64     `db:"id" json:"id"`
	Item        string    `db:"item" json:"item"`
	Description string    `db:"description" json:"description,omitempty"`
	Location    string    `db:"location" json:"location"`
	Shelf       string    `db:"shelf" json:"shelf,omitempty"`
	Tub         string    `db:"tub" json:"tub,omitempty"`
	Quantity    string    `db:"quantity" json:"quantity,omitempty"`
	OwnerID     int64     `db:"user_id" json:"user_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ItemDraft представляет редактируемые поля записи без идентификатора,
// владельца и серверных временных меток. Используется как тело запросов
// на создание и обновление, а также при воспроизведении действий истории
// (где id и метки намеренно отбрасываются).
type ItemDraft struct {
	Item        string `json:"item"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location"`
	Shelf       string `json:"shelf,omitempty"`
	Tub         string `json:"tub,omitempty"`
	Quantity    string `json:"quantity,omitempty"`
}

// Draft возвращает редактируемые поля записи без id, владельца и меток времени.
func (i InventoryItem) Draft() ItemDraft {
	return ItemDraft{
		Item:        i.Item,
		Description: i.Description,
		Location:    i.Location,
		Shelf:       i.Shelf,
		Tub:         i.Tub,
		Quantity:    i.Quantity,
	}
}
