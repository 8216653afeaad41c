package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/server/handlers"
	appmiddleware "github.com/YCCCVRLab/yccc-nurse-stash/internal/server/middleware"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/server/repository"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/server/services"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 30 * time.Second

	defaultServerPort = "8080"
	envServerPort     = "SERVER_PORT"
	// Переменные окружения для TLS (опционально).
	envTLSCertFile = "TLS_CERT_FILE"
	envTLSKeyFile  = "TLS_KEY_FILE"

	// Переменные окружения для БД (значения по умолчанию из docker-compose).
	envDBUser     = "POSTGRES_USER"
	envDBPass     = "POSTGRES_PASSWORD" //nolint:gosec // Ложное срабатывание, это имя переменной окружения
	envDBName     = "POSTGRES_DB"
	envDBHost     = "POSTGRES_HOST"
	envDBPort     = "POSTGRES_PORT"
	defaultDBUser = "nursestash"
	defaultDBPass = "secret"
	defaultDBName = "nursestash"
	defaultDBHost = "localhost"
	defaultDBPort = "5432"
)

// Структура для хранения инициализированных зависимостей.
type dependencies struct {
	db               *sqlx.DB
	authHandler      *handlers.AuthHandler
	inventoryHandler *handlers.InventoryHandler
}

// main - точка входа. Вызывает run и обрабатывает ошибку.
func main() {
	if err := run(); err != nil {
		log.Printf("Ошибка выполнения сервера: %v", err)
		os.Exit(1)
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
func run() error {
	log.Println("Запуск сервера Nurse Stash...")

	// Инициализация зависимостей
	deps, err := setupDependencies()
	if err != nil {
		return fmt.Errorf("failed to set up dependencies: %w", err)
	}
	// Отложенное закрытие соединения с БД
	defer func() {
		if deps.db != nil {
			if closeErr := deps.db.Close(); closeErr != nil {
				log.Printf("Ошибка закрытия соединения с БД: %v", closeErr)
			}
		}
	}()

	// Настройка роутера
	r := setupRouter(deps.authHandler, deps.inventoryHandler)

	// --- Запуск сервера --- //
	port := getEnv(envServerPort, defaultServerPort)
	certFile := getEnv(envTLSCertFile, "")
	keyFile := getEnv(envTLSKeyFile, "")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	// Если заданы сертификат и ключ, запускаем HTTPS; иначе обычный HTTP
	// (для локальной разработки и LAN кафедры).
	if certFile != "" && keyFile != "" {
		log.Printf("Запуск HTTPS-сервера на порту %s...", port)
		err = server.ListenAndServeTLS(certFile, keyFile)
	} else {
		log.Printf("Запуск HTTP-сервера на порту %s (TLS не настроен)...", port)
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// setupDependencies инициализирует и возвращает все необходимые зависимости сервера.
func setupDependencies() (*dependencies, error) {
	deps := &dependencies{}
	var err error

	// 1. Подключение к БД
	dsn := getDSNFromEnv()
	deps.db, err = repository.NewPostgresDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Println("Соединение с БД успешно установлено.")

	// 2. Создание репозиториев
	userRepo := repository.NewPostgresUserRepository(deps.db)
	itemRepo := repository.NewPostgresInventoryRepository(deps.db)

	// 3. Создание сервисов
	authService := services.NewAuthService(userRepo)
	inventoryService := services.NewInventoryService(itemRepo)

	// 4. Создание обработчиков
	deps.authHandler = handlers.NewAuthHandler(authService)
	deps.inventoryHandler = handlers.NewInventoryHandler(inventoryService)

	return deps, nil
}

// setupRouter настраивает и возвращает роутер chi.
func setupRouter(authHandler *handlers.AuthHandler, inventoryHandler *handlers.InventoryHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// --- Маршруты --- //
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})

	// Определяем базовый маршрут /api
	r.Route("/api", func(r chi.Router) {
		// Публичные маршруты (регистрация, вход)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Приватные маршруты (требуют аутентификации)
		r.Group(func(r chi.Router) {
			// Применяем middleware аутентификации ко всей группе
			r.Use(appmiddleware.Authenticator)

			// Маршруты для работы с инвентарем
			r.Route("/items", func(r chi.Router) {
				r.Get("/", inventoryHandler.List)
				r.Post("/", inventoryHandler.Create)
				r.Get("/{id}", inventoryHandler.Get)
				r.Put("/{id}", inventoryHandler.Update)
				r.Delete("/{id}", inventoryHandler.Delete)
			})
		})
	})
	return r
}

// getDSNFromEnv формирует строку подключения к БД из переменных окружения.
func getDSNFromEnv() string {
	user := getEnv(envDBUser, defaultDBUser)
	password := getEnv(envDBPass, defaultDBPass)
	host := getEnv(envDBHost, defaultDBHost)
	port := getEnv(envDBPort, defaultDBPort)
	dbname := getEnv(envDBName, defaultDBName)

	// sslmode=disable - небезопасно для продакшена, но удобно для локальной разработки с Docker
	// TODO: Сделать sslmode конфигурируемым для продакшена (sslmode=require или verify-full)
	//nolint:nosprintfhostport // DSN - это URL, а не просто host:port
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port, dbname)
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
