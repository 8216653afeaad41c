package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/config"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/client/tui"
)

const (
	logDir             = "logs"
	logFileName        = "client.log"
	logFilePermissions = 0666
	// Имя переменной окружения для URL сервера.
	serverURLEnvVar = "NURSE_STASH_SERVER_URL"
	// URL сервера по умолчанию (локальная разработка).
	defaultServerURL = "http://localhost:8080"
	// Имя переменной окружения для пути к файлу конфигурации.
	configPathEnvVar = "NURSE_STASH_CONFIG"
)

// Переменные для версии и даты сборки, устанавливаются через ldflags.
var (
	version = "dev" // Значение по умолчанию, если не установлено при сборке
	//nolint:gochecknoglobals // Устанавливается через ldflags при сборке
	buildDate = "unknown" // Значение по умолчанию
	//nolint:gochecknoglobals // Устанавливается через ldflags при сборке
	commitHash = "N/A" // Значение по умолчанию
)

// setupLogging настраивает логирование в файл logs/client.log.
// TUI занимает весь терминал, поэтому в консоль писать нельзя.
func setupLogging() {
	// Создаем директорию logs, если ее нет
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		// Используем panic, так как без логов продолжать нет смысла
		panic("Не удалось создать директорию для логов: " + err.Error())
	}
	logPath := filepath.Join(logDir, logFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions)
	if err != nil {
		panic("Не удалось открыть лог-файл: " + err.Error())
	}
	// Файл остается открытым на время работы приложения, его закроет ОС
	// при завершении процесса.

	logHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(logHandler))
	slog.Info("Логгер инициализирован", "path", logPath)
}

// defaultConfigPath возвращает путь к файлу конфигурации в домашней
// директории пользователя; при недоступности домашней директории файл
// создается в текущей.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return config.DefaultFileName
	}
	return filepath.Join(home, config.DefaultFileName)
}

func main() {
	versionFlag := flag.Bool("version", false, "Показать версию и дату сборки")
	debugModeFlag := flag.Bool("debug", false, "Включить режим отладки TUI")
	serverURLFlag := flag.String("server-url", "",
		"URL сервера Nurse Stash (переопределяет "+serverURLEnvVar+")")
	configPathFlag := flag.String("config", "",
		"Путь к файлу конфигурации (переопределяет "+configPathEnvVar+")")

	flag.Parse()

	// Если указан флаг --version, выводим информацию и выходим
	if *versionFlag {
		// Используем стандартный log для вывода в консоль, так как slog настроен на файл
		log.SetOutput(os.Stdout)
		log.SetFlags(0)
		log.Println("Nurse Stash Client")
		log.Printf("Version: %s", version)
		log.Printf("Build Date: %s", buildDate)
		log.Printf("Commit Hash: %s", commitHash)
		os.Exit(0)
	}

	setupLogging()

	// Определение URL сервера: флаг > переменная окружения > по умолчанию
	serverURL := defaultServerURL
	source := "по умолчанию"
	if envURL := os.Getenv(serverURLEnvVar); envURL != "" {
		serverURL = envURL
		source = "переменная окружения (" + serverURLEnvVar + ")"
	}
	if *serverURLFlag != "" {
		serverURL = *serverURLFlag
		source = "флаг -server-url"
	}

	// Определение пути к файлу конфигурации
	configPath := defaultConfigPath()
	if envPath := os.Getenv(configPathEnvVar); envPath != "" {
		configPath = envPath
	}
	if *configPathFlag != "" {
		configPath = *configPathFlag
	}

	slog.Info("Запуск Nurse Stash",
		"server_url", serverURL,
		"source", source,
		"config_path", configPath,
		"debug_mode", *debugModeFlag,
	)

	tui.Start(serverURL, configPath, *debugModeFlag)
}
