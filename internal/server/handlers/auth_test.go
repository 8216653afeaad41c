package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/YCCCVRLab/yccc-nurse-stash/internal/server/handlers"
	"github.com/YCCCVRLab/yccc-nurse-stash/internal/server/services"
	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// mockAuthService реализует handlers.AuthService через testify/mock.
type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(email, password string) error {
	args := m.Called(email, password)
	return args.Error(0)
}

func (m *mockAuthService) Login(email, password string) (string, error) {
	args := m.Called(email, password)
	return args.String(0), args.Error(1)
}

func registerRequest(t *testing.T, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(data))
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		mockSetup      func(service *mockAuthService)
		expectedStatus int
	}{
		{
			name: "УспешнаяРегистрация",
			body: models.RegisterRequest{Email: "student@mainecc.edu", Password: "Gauze&Tape2025!"},
			mockSetup: func(service *mockAuthService) {
				service.On("Register", "student@mainecc.edu", "Gauze&Tape2025!").Return(nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "ЧужойДомен403",
			body: models.RegisterRequest{Email: "someone@gmail.com", Password: "Gauze&Tape2025!"},
			mockSetup: func(service *mockAuthService) {
				service.On("Register", "someone@gmail.com", "Gauze&Tape2025!").
					Return(services.ErrEmailNotAllowed).Once()
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "СлабыйПароль400",
			body: models.RegisterRequest{Email: "student@mainecc.edu", Password: "weak"},
			mockSetup: func(service *mockAuthService) {
				service.On("Register", "student@mainecc.edu", "weak").
					Return(services.ErrWeakPassword).Once()
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "АдресЗанят409",
			body: models.RegisterRequest{Email: "student@mainecc.edu", Password: "Gauze&Tape2025!"},
			mockSetup: func(service *mockAuthService) {
				service.On("Register", "student@mainecc.edu", "Gauze&Tape2025!").
					Return(services.ErrEmailTaken).Once()
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "ПустыеПоля400",
			body:           models.RegisterRequest{},
			mockSetup:      func(_ *mockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(mockAuthService)
			tt.mockSetup(service)
			handler := handlers.NewAuthHandler(service)

			rec := httptest.NewRecorder()
			handler.Register(rec, registerRequest(t, tt.body))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			service.AssertExpectations(t)
		})
	}

	t.Run("НекорректныйJSON400", func(t *testing.T) {
		handler := handlers.NewAuthHandler(new(mockAuthService))
		req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader([]byte("{broken")))
		rec := httptest.NewRecorder()

		handler.Register(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("УспешныйВходВозвращаетТокен", func(t *testing.T) {
		service := new(mockAuthService)
		service.On("Login", "student@mainecc.edu", "Gauze&Tape2025!").
			Return("signed-token", nil).Once()
		handler := handlers.NewAuthHandler(service)

		body, _ := json.Marshal(models.LoginRequest{Email: "student@mainecc.edu", Password: "Gauze&Tape2025!"})
		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Login(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.LoginResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "signed-token", resp.Token)
		service.AssertExpectations(t)
	})

	t.Run("НеверныеДанные401", func(t *testing.T) {
		service := new(mockAuthService)
		service.On("Login", "student@mainecc.edu", "wrong").
			Return("", services.ErrInvalidCredentials).Once()
		handler := handlers.NewAuthHandler(service)

		body, _ := json.Marshal(models.LoginRequest{Email: "student@mainecc.edu", Password: "wrong"})
		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Login(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid email or password")
	})

	t.Run("ПустыеПоля400", func(t *testing.T) {
		handler := handlers.NewAuthHandler(new(mockAuthService))
		body, _ := json.Marshal(models.LoginRequest{})
		req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Login(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
