package authservice

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/pkg/auth"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type mocks struct {
	repo *MockRepo
	hash *auth.MockHashServiceInterface
	jwt  *auth.MockJWTServiceInterface
}

func NewMock(t *testing.T) (*Service, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		repo: NewMockRepo(ctrl),
		hash: auth.NewMockHashServiceInterface(ctrl),
		jwt:  auth.NewMockJWTServiceInterface(ctrl),
	}
	service := New(m.repo, m.hash, m.jwt, time.Hour)
	service.now = func() time.Time { return fixedNow }
	return service, m
}

func echoCreate(_ context.Context, u *domain.User) (*domain.User, error) { return u, nil }

func TestRegister(t *testing.T) {
	tests := []struct {
		name        string
		login       string
		password    string
		prepareMock func(m mocks)
		wantLogin   string
		wantErr     error
	}{
		{
			name:     "customer with trimmed login",
			login:    "  shopper ",
			password: "s3cret",
			prepareMock: func(m mocks) {
				m.hash.EXPECT().HashPassword("s3cret").Return("hashed", nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(echoCreate)
			},
			wantLogin: "shopper",
		},
		{
			name:     "blank login",
			login:    "  ",
			password: "s3cret",
			wantErr:  domain.ErrInvalidInput,
		},
		{
			name:    "empty password",
			login:   "shopper",
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:     "login taken",
			login:    "shopper",
			password: "s3cret",
			prepareMock: func(m mocks) {
				m.hash.EXPECT().HashPassword("s3cret").Return("hashed", nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("login %q: %w", "shopper", domain.ErrAlreadyExists))
			},
			wantErr: domain.ErrAlreadyExists,
		},
		{
			name:     "hashing fails",
			login:    "shopper",
			password: "s3cret",
			prepareMock: func(m mocks) {
				m.hash.EXPECT().HashPassword("s3cret").Return("", auth.ErrEmptyPassword)
			},
			wantErr: auth.ErrEmptyPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			if tt.prepareMock != nil {
				tt.prepareMock(m)
			}

			user, err := service.Register(context.Background(), tt.login, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, user.ID)
			assert.Equal(t, tt.wantLogin, user.Login)
			assert.Equal(t, "hashed", user.PasswordHash)
			assert.Equal(t, domain.RoleCustomer, user.Role)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	stored := &domain.User{ID: uuid.New(), Login: "partner", PasswordHash: "hashed", Role: domain.RoleAffiliate}

	tests := []struct {
		name        string
		password    string
		prepareMock func(m mocks)
		wantErr     string
	}{
		{
			name:     "matching password",
			password: "right",
			prepareMock: func(m mocks) {
				m.repo.EXPECT().FindByLogin(gomock.Any(), "partner").Return(stored, nil)
				m.hash.EXPECT().ComparePassword("hashed", "right").Return(true)
			},
		},
		{
			name:     "unknown login looks like a wrong password",
			password: "right",
			prepareMock: func(m mocks) {
				m.repo.EXPECT().FindByLogin(gomock.Any(), "partner").Return(nil, nil)
			},
			wantErr: domain.ErrInvalidCredentials.Error(),
		},
		{
			name:     "wrong password",
			password: "wrong",
			prepareMock: func(m mocks) {
				m.repo.EXPECT().FindByLogin(gomock.Any(), "partner").Return(stored, nil)
				m.hash.EXPECT().ComparePassword("hashed", "wrong").Return(false)
			},
			wantErr: domain.ErrInvalidCredentials.Error(),
		},
		{
			name:     "storage failure",
			password: "right",
			prepareMock: func(m mocks) {
				m.repo.EXPECT().FindByLogin(gomock.Any(), "partner").Return(nil, errors.New("db down"))
			},
			wantErr: "db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			user, err := service.Authenticate(context.Background(), " partner", tt.password)

			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, stored, user)
		})
	}
}

func TestGenerateToken(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}

	t.Run("expiry is now plus ttl", func(t *testing.T) {
		service, m := NewMock(t)
		m.jwt.EXPECT().GenerateJWT(user.ID, domain.RoleAdmin, fixedNow.Add(time.Hour)).Return("token", nil)

		token, err := service.GenerateToken(user)

		assert.NoError(t, err)
		assert.Equal(t, "token", token)
	})

	t.Run("signing error", func(t *testing.T) {
		service, m := NewMock(t)
		m.jwt.EXPECT().GenerateJWT(user.ID, domain.RoleAdmin, gomock.Any()).Return("", errors.New("sign failed"))

		token, err := service.GenerateToken(user)

		assert.EqualError(t, err, "sign failed")
		assert.Empty(t, token)
	})
}

func TestEnsureUser(t *testing.T) {
	tests := []struct {
		name        string
		role        domain.Role
		prepareMock func(m mocks)
		wantRole    domain.Role
		wantErr     error
	}{
		{
			name: "creates a missing admin",
			role: domain.RoleAdmin,
			prepareMock: func(m mocks) {
				m.repo.EXPECT().FindByLogin(gomock.Any(), "ops").Return(nil, nil)
				m.hash.EXPECT().HashPassword("secret").Return("hashed", nil)
				m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(echoCreate)
			},
			wantRole: domain.RoleAdmin,
		},
		{
			name: "promotes an existing customer",
			role: domain.RoleAdmin,
			prepareMock: func(m mocks) {
				existing := &domain.User{ID: uuid.New(), Login: "ops", Role: domain.RoleCustomer}
				m.repo.EXPECT().FindByLogin(gomock.Any(), "ops").Return(existing, nil)
				m.repo.EXPECT().UpdateRole(gomock.Any(), existing.ID, domain.RoleAdmin).Return(nil)
			},
			wantRole: domain.RoleAdmin,
		},
		{
			name: "matching role is left alone",
			role: domain.RoleSystem,
			prepareMock: func(m mocks) {
				m.repo.EXPECT().FindByLogin(gomock.Any(), "ops").Return(&domain.User{ID: uuid.New(), Role: domain.RoleSystem}, nil)
			},
			wantRole: domain.RoleSystem,
		},
		{
			name:    "unknown role",
			role:    domain.Role("root"),
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			if tt.prepareMock != nil {
				tt.prepareMock(m)
			}

			user, err := service.EnsureUser(context.Background(), "ops", "secret", tt.role)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, user.Role)
		})
	}
}
