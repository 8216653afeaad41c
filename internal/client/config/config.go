// Package config хранит локальные настройки клиента (URL сервера и
// кэшированный токен) в JSON-файле. Файл блокируется через flock, чтобы
// два одновременно запущенных клиента не перезаписали настройки друг друга.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

const (
	// DefaultFileName - имя файла настроек в домашней директории пользователя.
	DefaultFileName = "nurse-stash.json"

	configFilePerm = 0600
)

// Config - локальные настройки клиента.
// Токен кэшируется между запусками; журнал истории - нет.
type Config struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token,omitempty"`
}

// Load читает настройки из файла под разделяемой блокировкой.
// Отсутствующий файл не ошибка: возвращаются нулевые настройки.
func Load(path string) (Config, error) {
	lock := flock.New(lockPath(path))
	if err := lock.RLock(); err != nil {
		return Config{}, fmt.Errorf("failed to lock config file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err = json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save записывает настройки в файл под эксклюзивной блокировкой.
func Save(path string, cfg Config) error {
	lock := flock.New(lockPath(path))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock config file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err = os.WriteFile(path, data, configFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// lockPath возвращает путь lock-файла рядом с файлом настроек.
// Блокируем отдельный файл, а не сам конфиг: Save пересоздает конфиг,
// и блокировка на нем потерялась бы при перезаписи.
func lockPath(path string) string {
	return path + ".lock"
}
