package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/server/services"
	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// AuthService определяет интерфейс для сервиса аутентификации.
// Это позволит нам легко подменять реализацию (например, для тестов).
type AuthService interface {
	Register(email, password string) error
	Login(email, password string) (string, error) // Возвращает JWT токен или ошибку
}

// AuthHandler обрабатывает HTTP-запросы, связанные с аутентификацией.
type AuthHandler struct {
	service AuthService // Зависимость от интерфейса, а не конкретной реализации
}

// NewAuthHandler создает новый экземпляр AuthHandler.
func NewAuthHandler(s AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	// Декодируем JSON из тела запроса
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[AuthHandler] Ошибка декодирования запроса регистрации: %v", err)
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	// Валидация входных данных (простая)
	if req.Email == "" || req.Password == "" {
		log.Printf("[AuthHandler] Пустой адрес или пароль при регистрации")
		http.Error(w, "Email and password must not be empty", http.StatusBadRequest)
		return
	}

	log.Printf("[AuthHandler] Попытка регистрации пользователя: %s", req.Email)

	if err := h.service.Register(req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotAllowed):
			http.Error(w, err.Error(), http.StatusForbidden)
		case errors.Is(err, services.ErrWeakPassword):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrEmailTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated) // 201 Created
	log.Printf("[AuthHandler] Успешная регистрация: %s", req.Email)
}

// Login обрабатывает запрос на вход пользователя.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	// Декодируем JSON из тела запроса
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[AuthHandler] Ошибка декодирования запроса входа: %v", err)
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	// Валидация входных данных (простая)
	if req.Email == "" || req.Password == "" {
		log.Printf("[AuthHandler] Пустой адрес или пароль при входе")
		http.Error(w, "Email and password must not be empty", http.StatusBadRequest)
		return
	}

	log.Printf("[AuthHandler] Попытка входа пользователя: %s", req.Email)

	token, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := models.LoginResponse{Token: token}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK) // 200 OK
	if err = json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("[AuthHandler] Ошибка кодирования ответа входа: %v", err)
		// Клиент уже получил статус 200, сложно что-то изменить
		return
	}
	log.Printf("[AuthHandler] Успешный вход: %s", req.Email)
}
