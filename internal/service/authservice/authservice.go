package authservice

//go:generate mockgen -source=authservice.go -destination=mock_authservice.go -package=authservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/pkg/auth"
)

type Repo interface {
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error
}

type Service struct {
	userRepo    Repo
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
	tokenTTL    time.Duration
	now         func() time.Time
}

func New(repo Repo, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface, tokenTTL time.Duration) *Service {
	return &Service{
		userRepo:    repo,
		hashService: hashService,
		jwtService:  jwtService,
		tokenTTL:    tokenTTL,
		now:         time.Now,
	}
}

// Register creates a customer account. Roles beyond customer are granted
// by affiliate approval or by EnsureUser at start-up.
func (s *Service) Register(ctx context.Context, login, password string) (*domain.User, error) {
	return s.create(ctx, login, password, domain.RoleCustomer)
}

// create relies on the users_login_key constraint to detect a taken login,
// so two concurrent registrations cannot both succeed.
func (s *Service) create(ctx context.Context, login, password string, role domain.Role) (*domain.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, fmt.Errorf("login and password are required: %w", domain.ErrInvalidInput)
	}
	hash, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password", zap.Error(err))
		return nil, err
	}
	user, err := s.userRepo.Create(ctx, &domain.User{
		ID:           uuid.New(),
		Login:        login,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			zap.L().Error("can't create user", zap.Error(err))
		}
		return nil, err
	}
	zap.L().Info("user registered", zap.String("login", login), zap.String("role", string(role)))
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	login = strings.TrimSpace(login)
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	if user == nil || !s.hashService.ComparePassword(user.PasswordHash, password) {
		zap.L().Info("rejected login", zap.String("login", login))
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) GenerateToken(user *domain.User) (string, error) {
	token, err := s.jwtService.GenerateJWT(user.ID, user.Role, s.now().Add(s.tokenTTL))
	if err != nil {
		zap.L().Error("can't generate token", zap.Error(err))
		return "", err
	}
	return token, nil
}

// EnsureUser makes sure an account with the given login holds role,
// creating it when missing. Used to seed the admin and system accounts.
func (s *Service) EnsureUser(ctx context.Context, login, password string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", role, domain.ErrInvalidInput)
	}
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return s.create(ctx, login, password, role)
	}
	if user.Role != role {
		if err := s.userRepo.UpdateRole(ctx, user.ID, role); err != nil {
			return nil, err
		}
		user.Role = role
		zap.L().Info("user role updated", zap.String("login", login), zap.String("role", string(role)))
	}
	return user, nil
}
