package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/GlebRadaev/affiliator/internal/config"
	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/events"
	"github.com/GlebRadaev/affiliator/internal/service"
)

type provisionCall struct {
	login, password string
	role            domain.Role
}

type fakeProvisioner struct {
	calls []provisionCall
	err   error
}

func (f *fakeProvisioner) EnsureUser(_ context.Context, login, password string, role domain.Role) (*domain.User, error) {
	f.calls = append(f.calls, provisionCall{login, password, role})
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{Login: login, Role: role}, nil
}

type closingPublisher struct {
	events.Noop
	closed bool
}

func (p *closingPublisher) Close() error {
	p.closed = true
	return nil
}

type ApplicationSuite struct {
	suite.Suite
	app *Application
}

func TestApplication(t *testing.T) {
	suite.Run(t, &ApplicationSuite{})
}

func (s *ApplicationSuite) SetupTest() {
	s.app = New()
}

func (s *ApplicationSuite) TestWait() {
	ctx, cancel := context.WithCancel(context.Background())

	s.app.errCh = make(chan error)
	go func() {
		s.app.errCh <- fmt.Errorf("mock error")
	}()

	err := s.app.Wait(ctx, cancel)

	s.Require().Error(err)
	s.Contains(err.Error(), "mock error")
}

func (s *ApplicationSuite) TestWait_ReleasesPublisher() {
	ctx, cancel := context.WithCancel(context.Background())
	publisher := &closingPublisher{}
	s.app.publisher = publisher

	cancel()
	err := s.app.Wait(ctx, cancel)

	s.NoError(err)
	s.True(publisher.closed)
}

func (s *ApplicationSuite) TestNewPublisher() {
	s.IsType(events.Noop{}, newPublisher(&config.Config{}))

	kafka := newPublisher(&config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "affiliate-events"})
	s.IsType(&events.KafkaPublisher{}, kafka)
	s.NoError(kafka.(*events.KafkaPublisher).Close())
}

func (s *ApplicationSuite) TestProvisionUsers() {
	provisioner := &fakeProvisioner{}
	s.app.cfg = &config.Config{
		AdminLogin:     "admin",
		AdminPassword:  "admin-pass",
		SystemLogin:    "orders",
		SystemPassword: "orders-pass",
	}
	s.app.srv = &service.Services{UserProvisioner: provisioner}

	s.Require().NoError(s.app.provisionUsers(context.Background()))

	s.Equal([]provisionCall{
		{"admin", "admin-pass", domain.RoleAdmin},
		{"orders", "orders-pass", domain.RoleSystem},
	}, provisioner.calls)
}

func (s *ApplicationSuite) TestProvisionUsers_SkipsUnconfigured() {
	provisioner := &fakeProvisioner{}
	s.app.cfg = &config.Config{}
	s.app.srv = &service.Services{UserProvisioner: provisioner}

	s.NoError(s.app.provisionUsers(context.Background()))
	s.Empty(provisioner.calls)
}

func (s *ApplicationSuite) TestProvisionUsers_Errors() {
	s.app.srv = &service.Services{UserProvisioner: &fakeProvisioner{err: errors.New("db down")}}

	s.app.cfg = &config.Config{AdminLogin: "admin"}
	s.ErrorContains(s.app.provisionUsers(context.Background()), "password for admin account")

	s.app.cfg = &config.Config{AdminLogin: "admin", AdminPassword: "pw"}
	s.ErrorContains(s.app.provisionUsers(context.Background()), "db down")
}
