package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/auth"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/server/repository"
	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// AuthService определяет интерфейс для сервиса аутентификации.
type AuthService interface {
	Register(email, password string) error
	Login(email, password string) (string, error) // Возвращает JWT токен или ошибку
}

// Константы для JWT.
const (
	// TODO: Вынести секретный ключ в конфигурацию/переменные окружения!
	jwtSecretKey = "your-very-secret-key"
	tokenTTL     = time.Hour * 24 // Время жизни токена - 24 часа
)

// Структура для пользовательских данных в JWT (claims).
type jwtClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Убедимся, что authService удовлетворяет интерфейсу AuthService.
var _ AuthService = (*authService)(nil)

type authService struct {
	userRepo repository.UserRepository // Зависимость от репозитория пользователей
}

// NewAuthService создает новый экземпляр сервиса аутентификации.
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Register регистрирует нового пользователя.
// Белый список и стойкость пароля проверяются и на сервере:
// клиентская проверка на экране регистрации - только удобство.
func (s *authService) Register(email, password string) error {
	ctx := context.Background() // Используем фоновый контекст для операций сервиса

	email = strings.ToLower(strings.TrimSpace(email))

	if !auth.IsEmailAllowed(email) {
		log.Printf("[AuthService] Попытка регистрации с неразрешенным адресом: %s", email)
		return ErrEmailNotAllowed
	}

	if problems := auth.ValidatePassword(password); len(problems) > 0 {
		log.Printf("[AuthService] Слабый пароль при регистрации '%s'", email)
		return fmt.Errorf("%w: %s", ErrWeakPassword, strings.Join(problems, ". "))
	}

	// Хешируем пароль
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[AuthService] Ошибка хеширования пароля для '%s': %v", email, err)
		return errors.New("internal error while hashing password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	// Создаем пользователя через репозиторий
	_, err = s.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			log.Printf("[AuthService] Попытка регистрации с занятым адресом: %s", email)
			return ErrEmailTaken // Возвращаем ошибку слоя сервиса
		}
		log.Printf("[AuthService] Непредвиденная ошибка репозитория при регистрации '%s': %v", email, err)
		return errors.New("internal error while creating user")
	}

	log.Printf("[AuthService] Пользователь '%s' успешно зарегистрирован", email)
	return nil
}

// Login аутентифицирует пользователя и возвращает JWT токен.
func (s *authService) Login(email, password string) (string, error) {
	ctx := context.Background()

	email = strings.ToLower(strings.TrimSpace(email))

	// Получаем пользователя по адресу электронной почты
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Printf("[AuthService] Попытка входа несуществующего пользователя: %s", email)
			return "", ErrInvalidCredentials // Общая ошибка для несуществующего пользователя и неверного пароля
		}
		log.Printf("[AuthService] Ошибка репозитория при поиске '%s': %v", email, err)
		return "", errors.New("internal error while looking up user")
	}

	// Сравниваем предоставленный пароль с хешем из базы данных
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		// Ошибка сравнения означает неверный пароль (или другую проблему bcrypt)
		log.Printf("[AuthService] Неверный пароль для пользователя: %s", email)
		return "", ErrInvalidCredentials // Общая ошибка
	}

	// Генерируем JWT токен
	token, err := s.generateJWT(user.ID)
	if err != nil {
		log.Printf("[AuthService] Ошибка генерации JWT для '%s': %v", email, err)
		return "", errors.New("internal error while generating token")
	}

	log.Printf("[AuthService] Пользователь '%s' успешно аутентифицирован", email)
	return token, nil
}

// generateJWT создает и подписывает JWT токен для пользователя.
func (s *authService) generateJWT(userID int64) (string, error) {
	// Создаем claims (полезную нагрузку)
	claims := jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)), // Время истечения
			IssuedAt:  jwt.NewNumericDate(time.Now()),               // Время выдачи
			NotBefore: jwt.NewNumericDate(time.Now()),               // Время, с которого токен валиден
			Issuer:    "nurse-stash-server",                         // Источник токена
		},
	}

	// Создаем токен с нашими claims и методом подписи HS256
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// Подписываем токен секретным ключом
	signedToken, err := token.SignedString([]byte(jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}

	return signedToken, nil
}

// Кастомные ошибки сервиса.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrEmailNotAllowed    = errors.New("this email is not authorized to access the system")
	ErrWeakPassword       = errors.New("password does not meet the requirements")
)
