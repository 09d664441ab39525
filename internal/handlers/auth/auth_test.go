package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/dto"
	"github.com/GlebRadaev/affiliator/pkg/utils"
)

func NewMock(t *testing.T) (*AuthHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	return New(service), service
}

type sessionCase struct {
	name        string
	body        string
	prepareMock func(service *MockService)
	wantCode    int
	wantMessage string
	wantRole    string
}

func runSessionCases(t *testing.T, cases []sessionCase, call func(h *AuthHandler) http.HandlerFunc, path string) {
	t.Helper()
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			if tt.prepareMock != nil {
				tt.prepareMock(service)
			}

			rr := httptest.NewRecorder()
			call(handler)(rr, httptest.NewRequest(http.MethodPost, path, strings.NewReader(tt.body)))

			require.Equal(t, tt.wantCode, rr.Code)
			if tt.wantMessage != "" {
				var resp utils.Response
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tt.wantMessage, resp.Message)
				assert.Empty(t, rr.Header().Get("Authorization"))
				return
			}
			var resp dto.SessionResponseDTO
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, "jwt", resp.Token)
			assert.Equal(t, tt.wantRole, resp.Role)
			assert.Equal(t, "Bearer jwt", rr.Header().Get("Authorization"))
		})
	}
}

func TestRegister(t *testing.T) {
	customer := &domain.User{ID: uuid.New(), Login: "newuser", Role: domain.RoleCustomer}

	runSessionCases(t, []sessionCase{
		{
			name: "creates customer session",
			body: `{"login":" newuser ","password":"password123"}`,
			prepareMock: func(s *MockService) {
				s.EXPECT().Register(gomock.Any(), "newuser", "password123").Return(customer, nil)
				s.EXPECT().GenerateToken(customer).Return("jwt", nil)
			},
			wantCode: http.StatusCreated,
			wantRole: "customer",
		},
		{
			name: "login taken",
			body: `{"login":"existing","password":"password123"}`,
			prepareMock: func(s *MockService) {
				s.EXPECT().Register(gomock.Any(), "existing", "password123").
					Return(nil, fmt.Errorf("login %q: %w", "existing", domain.ErrAlreadyExists))
			},
			wantCode:    http.StatusConflict,
			wantMessage: `login "existing": already exists`,
		},
		{
			name:        "missing password",
			body:        `{"login":"newuser"}`,
			wantCode:    http.StatusBadRequest,
			wantMessage: "Login and password are required",
		},
		{
			name:        "blank login",
			body:        `{"login":"   ","password":"password123"}`,
			wantCode:    http.StatusBadRequest,
			wantMessage: "Login and password are required",
		},
		{
			name:        "malformed json",
			body:        `{invalid json`,
			wantCode:    http.StatusBadRequest,
			wantMessage: "Invalid request body",
		},
		{
			name: "token signing fails",
			body: `{"login":"newuser","password":"password123"}`,
			prepareMock: func(s *MockService) {
				s.EXPECT().Register(gomock.Any(), "newuser", "password123").Return(customer, nil)
				s.EXPECT().GenerateToken(customer).Return("", errors.New("signing error"))
			},
			wantCode:    http.StatusInternalServerError,
			wantMessage: "Error generating token",
		},
	}, func(h *AuthHandler) http.HandlerFunc { return h.Register }, "/api/user/register")
}

func TestLogin(t *testing.T) {
	affiliate := &domain.User{ID: uuid.New(), Login: "partner", Role: domain.RoleAffiliate}

	runSessionCases(t, []sessionCase{
		{
			name: "token carries current role",
			body: `{"login":"partner","password":"password123"}`,
			prepareMock: func(s *MockService) {
				s.EXPECT().Authenticate(gomock.Any(), "partner", "password123").Return(affiliate, nil)
				s.EXPECT().GenerateToken(affiliate).Return("jwt", nil)
			},
			wantCode: http.StatusOK,
			wantRole: "affiliate",
		},
		{
			name: "wrong password",
			body: `{"login":"partner","password":"wrongpassword"}`,
			prepareMock: func(s *MockService) {
				s.EXPECT().Authenticate(gomock.Any(), "partner", "wrongpassword").Return(nil, domain.ErrInvalidCredentials)
			},
			wantCode:    http.StatusUnauthorized,
			wantMessage: "Invalid credentials",
		},
		{
			name: "storage failure",
			body: `{"login":"partner","password":"password123"}`,
			prepareMock: func(s *MockService) {
				s.EXPECT().Authenticate(gomock.Any(), "partner", "password123").Return(nil, errors.New("db down"))
			},
			wantCode:    http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
		{
			name:        "empty body",
			body:        `{}`,
			wantCode:    http.StatusBadRequest,
			wantMessage: "Login and password are required",
		},
	}, func(h *AuthHandler) http.HandlerFunc { return h.Login }, "/api/user/login")
}
