package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// Классифицированные ошибки удаленного хранилища.
// Ядро истории различает только эти четыре класса (плюс "прочее" как
// транзиентную ошибку), см. классификацию в classifyResponse.
var (
	// ErrUnauthenticated сигнализирует об отсутствии активной аутентификации (401 или нет токена).
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrPermissionDenied сигнализирует об отказе в доступе на уровне строк (403).
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound сигнализирует об отсутствии записи с указанным id (404).
	ErrNotFound = errors.New("not found")
)

// Client определяет интерфейс для взаимодействия с удаленным хранилищем инвентаря.
type Client interface {
	// Register регистрирует нового пользователя.
	Register(ctx context.Context, email, password string) error
	// Login аутентифицирует пользователя и возвращает JWT токен.
	Login(ctx context.Context, email, password string) (string, error)
	// List возвращает все записи инвентаря, отсортированные сервером по имени.
	// Транзиентные ошибки повторяются согласно переданной политике.
	List(ctx context.Context, policy RetryPolicy) ([]models.InventoryItem, error)
	// GetByID возвращает запись по id или ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.InventoryItem, error)
	// Insert создает новую запись; id и временные метки назначает сервер.
	Insert(ctx context.Context, draft models.ItemDraft) (*models.InventoryItem, error)
	// Update заменяет редактируемые поля записи и возвращает новое состояние.
	Update(ctx context.Context, id int64, draft models.ItemDraft) (*models.InventoryItem, error)
	// Delete удаляет запись по id.
	Delete(ctx context.Context, id int64) error
	// SetAuthToken устанавливает JWT токен для аутентифицированных запросов.
	SetAuthToken(token string)
	// HasAuthToken сообщает, установлен ли токен (проверка личности перед мутацией).
	HasAuthToken() bool
}

// httpClient реализует интерфейс Client для взаимодействия с сервером по HTTP.
type httpClient struct {
	baseURL    string       // Базовый URL сервера, например "http://localhost:8080"
	httpClient *http.Client // HTTP клиент для выполнения запросов
	authToken  string       // JWT токен для аутентифицированных запросов
}

// NewHTTPClient создает новый экземпляр API клиента.
func NewHTTPClient(baseURL string) Client {
	return &httpClient{
		baseURL:    baseURL,
		httpClient: &http.Client{}, // Используем стандартный HTTP клиент
	}
}

// Register отправляет запрос на регистрацию на сервер.
func (c *httpClient) Register(ctx context.Context, email, password string) error {
	registerURL, err := url.JoinPath(c.baseURL, "/api/register")
	if err != nil {
		return fmt.Errorf("failed to build register URL: %w", err)
	}

	requestBody := models.RegisterRequest{
		Email:    email,
		Password: password,
	}
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("failed to encode register request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, registerURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create register request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("register request failed: %w", err)
	}
	defer resp.Body.Close() // Важно закрывать тело ответа

	if resp.StatusCode != http.StatusCreated {
		return classifyResponse(resp)
	}

	return nil // Успешная регистрация
}

// Login отправляет запрос на вход на сервер и сохраняет токен.
func (c *httpClient) Login(ctx context.Context, email, password string) (string, error) {
	loginURL, err := url.JoinPath(c.baseURL, "/api/login")
	if err != nil {
		return "", fmt.Errorf("failed to build login URL: %w", err)
	}

	requestBody := models.LoginRequest{
		Email:    email,
		Password: password,
	}
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", classifyResponse(resp)
	}

	// Декодируем ответ для получения токена
	var loginResponse models.LoginResponse
	if err = json.NewDecoder(resp.Body).Decode(&loginResponse); err != nil {
		return "", fmt.Errorf("failed to decode login response: %w", err)
	}

	if loginResponse.Token == "" {
		return "", errors.New("server returned an empty token")
	}

	// Сохраняем токен в клиенте для последующих запросов
	c.authToken = loginResponse.Token

	return loginResponse.Token, nil
}

// setAuthHeader добавляет заголовок авторизации или сообщает об отсутствии токена.
func (c *httpClient) setAuthHeader(req *http.Request) error {
	if c.authToken == "" {
		return fmt.Errorf("%w: please sign in again", ErrUnauthenticated)
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	return nil
}

// List возвращает все записи инвентаря.
// Сервер сортирует по имени записи по возрастанию (контракт хранилища).
// Транзиентные сбои (сеть, 5xx) повторяются согласно политике; классифицированные
// ошибки (401/403/404) прекращают попытки сразу.
func (c *httpClient) List(ctx context.Context, policy RetryPolicy) ([]models.InventoryItem, error) {
	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			// Экспоненциальная выдержка перед повторной попыткой
			if err := sleepCtx(ctx, policy.Delay(attempt-1)); err != nil {
				return nil, err
			}
		}

		items, err := c.listOnce(ctx)
		if err == nil {
			return items, nil
		}
		if !isTransient(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("list failed after %d attempts: %w", policy.MaxAttempts, lastErr)
}

// listOnce выполняет один запрос списка без повторов.
func (c *httpClient) listOnce(ctx context.Context) ([]models.InventoryItem, error) {
	listURL, err := url.JoinPath(c.baseURL, "/api/items")
	if err != nil {
		return nil, fmt.Errorf("failed to build list URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create list request: %w", err)
	}
	if err = c.setAuthHeader(req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyResponse(resp)
	}

	var items []models.InventoryItem
	if err = json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode item list: %w", err)
	}

	return items, nil
}

// GetByID возвращает запись по id.
func (c *httpClient) GetByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	itemURL, err := c.itemURL(id)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, itemURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create get request: %w", err)
	}
	if err = c.setAuthHeader(req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyResponse(resp)
	}

	var item models.InventoryItem
	if err = json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("failed to decode item: %w", err)
	}

	return &item, nil
}

// Insert создает новую запись инвентаря.
func (c *httpClient) Insert(ctx context.Context, draft models.ItemDraft) (*models.InventoryItem, error) {
	itemsURL, err := url.JoinPath(c.baseURL, "/api/items")
	if err != nil {
		return nil, fmt.Errorf("failed to build insert URL: %w", err)
	}

	jsonData, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, itemsURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create insert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err = c.setAuthHeader(req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("insert request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, classifyResponse(resp)
	}

	var created models.InventoryItem
	if err = json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode created item: %w", err)
	}

	return &created, nil
}

// Update заменяет редактируемые поля записи.
func (c *httpClient) Update(ctx context.Context, id int64, draft models.ItemDraft) (*models.InventoryItem, error) {
	itemURL, err := c.itemURL(id)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode item: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, itemURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err = c.setAuthHeader(req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("update request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyResponse(resp)
	}

	var updated models.InventoryItem
	if err = json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated item: %w", err)
	}

	return &updated, nil
}

// Delete удаляет запись по id.
func (c *httpClient) Delete(ctx context.Context, id int64) error {
	itemURL, err := c.itemURL(id)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, itemURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	if err = c.setAuthHeader(req); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return classifyResponse(resp)
	}

	return nil
}

// SetAuthToken устанавливает токен аутентификации для клиента.
func (c *httpClient) SetAuthToken(token string) {
	c.authToken = token
}

// HasAuthToken сообщает, установлен ли токен аутентификации.
func (c *httpClient) HasAuthToken() bool {
	return c.authToken != ""
}

// itemURL формирует URL для операций над одной записью.
func (c *httpClient) itemURL(id int64) (string, error) {
	itemURL, err := url.JoinPath(c.baseURL, "/api/items", strconv.FormatInt(id, 10))
	if err != nil {
		return "", fmt.Errorf("failed to build item URL: %w", err)
	}
	return itemURL, nil
}

// classifyResponse сопоставляет статус ответа с классом ошибки и сохраняет
// исходное сообщение сервера (тело ответа), чтобы показать его пользователю.
func classifyResponse(resp *http.Response) error {
	message := readErrorMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return wrapWithMessage(ErrUnauthenticated, message)
	case http.StatusForbidden:
		return wrapWithMessage(ErrPermissionDenied, message)
	case http.StatusNotFound:
		return wrapWithMessage(ErrNotFound, message)
	default:
		if message != "" {
			return fmt.Errorf("server error (status %d): %s", resp.StatusCode, message)
		}
		return fmt.Errorf("server error (status %d)", resp.StatusCode)
	}
}

// readErrorMessage извлекает текст ошибки из тела ответа.
func readErrorMessage(body io.Reader) string {
	const maxErrorBody = 4096 // Ограничиваем чтение тела на случай мусорного ответа
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// wrapWithMessage оборачивает классифицированную ошибку, сохраняя сообщение сервера.
func wrapWithMessage(class error, message string) error {
	if message == "" {
		return class
	}
	return fmt.Errorf("%w: %s", class, message)
}

// isTransient сообщает, можно ли повторить запрос после ошибки.
// Повторяются только неклассифицированные сбои: сеть, 5xx и подобные.
func isTransient(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrNotFound),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}

// sleepCtx ждет указанное время или отмену контекста.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
