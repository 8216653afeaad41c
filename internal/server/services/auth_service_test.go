package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/server/repository"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/server/services"
	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// mockUserRepository реализует repository.UserRepository через testify/mock.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

const strongPassword = "Gauze&Tape2025!"

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		mockSetup     func(repo *mockUserRepository)
		expectedError error
	}{
		{
			name:     "УспешнаяРегистрация",
			email:    "student@mainecc.edu",
			password: strongPassword,
			mockSetup: func(repo *mockUserRepository) {
				repo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).
					Return(int64(1), nil).Once()
			},
			expectedError: nil,
		},
		{
			name:     "АдресПриводитсяКНижнемуРегистру",
			email:    "  Student@MaineCC.EDU  ",
			password: strongPassword,
			mockSetup: func(repo *mockUserRepository) {
				repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
					return u.Email == "student@mainecc.edu"
				})).Return(int64(1), nil).Once()
			},
			expectedError: nil,
		},
		{
			name:          "ЧужойДоменОтклоняется",
			email:         "someone@gmail.com",
			password:      strongPassword,
			mockSetup:     func(_ *mockUserRepository) {},
			expectedError: services.ErrEmailNotAllowed,
		},
		{
			name:          "СлабыйПарольОтклоняется",
			email:         "student@mainecc.edu",
			password:      "weak",
			mockSetup:     func(_ *mockUserRepository) {},
			expectedError: services.ErrWeakPassword,
		},
		{
			name:     "АдресЗанят",
			email:    "student@mainecc.edu",
			password: strongPassword,
			mockSetup: func(repo *mockUserRepository) {
				repo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).
					Return(int64(0), repository.ErrEmailTaken).Once()
			},
			expectedError: services.ErrEmailTaken,
		},
		{
			name:     "ОшибкаРепозитория",
			email:    "student@mainecc.edu",
			password: strongPassword,
			mockSetup: func(repo *mockUserRepository) {
				repo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).
					Return(int64(0), errors.New("db down")).Once()
			},
			expectedError: errors.New("internal error while creating user"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockUserRepository)
			tt.mockSetup(repo)

			service := services.NewAuthService(repo)
			err := service.Register(tt.email, tt.password)

			if tt.expectedError == nil {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				if errors.Is(tt.expectedError, services.ErrEmailNotAllowed) ||
					errors.Is(tt.expectedError, services.ErrWeakPassword) ||
					errors.Is(tt.expectedError, services.ErrEmailTaken) {
					assert.ErrorIs(t, err, tt.expectedError)
				} else {
					assert.EqualError(t, err, tt.expectedError.Error())
				}
			}
			repo.AssertExpectations(t)
		})
	}

	t.Run("СлабыйПарольПеречисляетНарушения", func(t *testing.T) {
		service := services.NewAuthService(new(mockUserRepository))
		err := service.Register("student@mainecc.edu", "short")
		require.ErrorIs(t, err, services.ErrWeakPassword)
		assert.Contains(t, err.Error(), "at least 12 characters")
	})
}

func TestAuthService_Login(t *testing.T) {
	email := "student@mainecc.edu"
	hash, err := bcrypt.GenerateFromPassword([]byte(strongPassword), bcrypt.MinCost)
	require.NoError(t, err)
	storedUser := &models.User{ID: 42, Email: email, PasswordHash: string(hash)}

	t.Run("УспешныйВходВозвращаетВалидныйJWT", func(t *testing.T) {
		repo := new(mockUserRepository)
		repo.On("GetUserByEmail", mock.Anything, email).Return(storedUser, nil).Once()

		service := services.NewAuthService(repo)
		token, err := service.Login(email, strongPassword)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		// Токен должен разбираться и содержать ID пользователя
		parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
		require.NoError(t, err)
		claims, ok := parsed.Claims.(jwt.MapClaims)
		require.True(t, ok)
		assert.InDelta(t, float64(42), claims["user_id"], 0)
		assert.Equal(t, "nurse-stash-server", claims["iss"])
		repo.AssertExpectations(t)
	})

	t.Run("НесуществующийПользователь", func(t *testing.T) {
		repo := new(mockUserRepository)
		repo.On("GetUserByEmail", mock.Anything, email).
			Return(nil, repository.ErrUserNotFound).Once()

		service := services.NewAuthService(repo)
		_, err := service.Login(email, strongPassword)
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("НеверныйПароль", func(t *testing.T) {
		repo := new(mockUserRepository)
		repo.On("GetUserByEmail", mock.Anything, email).Return(storedUser, nil).Once()

		service := services.NewAuthService(repo)
		_, err := service.Login(email, "Wrong&Password999")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("ОшибкаРепозитория", func(t *testing.T) {
		repo := new(mockUserRepository)
		repo.On("GetUserByEmail", mock.Anything, email).
			Return(nil, errors.New("db down")).Once()

		service := services.NewAuthService(repo)
		_, err := service.Login(email, strongPassword)
		require.Error(t, err)
		assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
	})
}
