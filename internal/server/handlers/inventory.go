package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appmiddleware "github.com/YCCCVRLab/yccc-nurse-stash/internal/server/middleware"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/server/repository"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/server/services"
	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// InventoryService определяет интерфейс сервиса инвентаря для обработчика.
type InventoryService interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	Get(ctx context.Context, id int64) (*models.InventoryItem, error)
	Create(ctx context.Context, userID int64, draft models.ItemDraft) (*models.InventoryItem, error)
	Update(ctx context.Context, userID, id int64, draft models.ItemDraft) (*models.InventoryItem, error)
	Delete(ctx context.Context, userID, id int64) error
}

// InventoryHandler обрабатывает HTTP-запросы к записям инвентаря.
type InventoryHandler struct {
	service InventoryService
}

// NewInventoryHandler создает новый экземпляр InventoryHandler.
func NewInventoryHandler(s InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// List возвращает все записи инвентаря (отсортированные по имени).
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		log.Printf("[InventoryHandler] Ошибка получения списка: %v", err)
		http.Error(w, "Failed to load inventory", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Get возвращает одну запись по id.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemIDFromRequest(w, r)
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Create создает новую запись от имени аутентифицированного пользователя.
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}

	var draft models.ItemDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		log.Printf("[InventoryHandler] Ошибка декодирования записи: %v", err)
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), userID, draft)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Update заменяет редактируемые поля записи.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := itemIDFromRequest(w, r)
	if !ok {
		return
	}

	var draft models.ItemDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		log.Printf("[InventoryHandler] Ошибка декодирования записи: %v", err)
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), userID, id, draft)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete удаляет запись.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := itemIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError сопоставляет ошибки сервиса со статусами HTTP.
func (h *InventoryHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		http.Error(w, "Item not found", http.StatusNotFound)
	case errors.Is(err, services.ErrPermissionDenied):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrInvalidItem):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("[InventoryHandler] Непредвиденная ошибка сервиса: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// userIDFromRequest извлекает ID пользователя, добавленный middleware аутентификации.
func userIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := appmiddleware.GetUserIDFromContext(r.Context())
	if !ok {
		// Сюда попадаем только если маршрут подключен без Authenticator
		log.Println("[InventoryHandler] В контексте запроса нет ID пользователя")
		http.Error(w, "Not authenticated. Please sign in again.", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

// itemIDFromRequest разбирает id записи из URL.
func itemIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		log.Printf("[InventoryHandler] Некорректный id записи в URL: %q", idParam)
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeJSON кодирует ответ в JSON с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[InventoryHandler] Ошибка кодирования ответа: %v", err)
	}
}
