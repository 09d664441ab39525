package service

import (
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/affiliator/internal/config"
	"github.com/GlebRadaev/affiliator/internal/events"
	"github.com/GlebRadaev/affiliator/internal/pg"
	"github.com/GlebRadaev/affiliator/internal/repo"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	cfg := &config.Config{
		JWTSecret:             "test-secret",
		TokenTTL:              time.Hour,
		MinPayout:             decimal.NewFromInt(50),
		DefaultCommissionRate: decimal.NewFromInt(10),
		AttributionWindow:     30 * 24 * time.Hour,
	}

	services, err := New(repo.New(mockDB), pg.NewMockTXManager(ctrl), events.Noop{}, nil, cfg)

	require.NoError(t, err)
	assert.NotNil(t, services.AuthService)
	assert.NotNil(t, services.UserProvisioner)
	assert.NotNil(t, services.AffiliateService)
	assert.NotNil(t, services.TrackingService)
	assert.NotNil(t, services.ClickListing)
	assert.NotNil(t, services.LedgerService)
	assert.NotNil(t, services.LedgerListing)
	assert.NotNil(t, services.ConfirmLedger)
	assert.NotNil(t, services.PayoutService)
	assert.NotNil(t, services.PayoutListing)
	assert.NotNil(t, services.CouponService)
	assert.NotNil(t, services.CouponListing)
	assert.NotNil(t, services.TierService)
	assert.NotNil(t, services.OrderService)
	assert.NotNil(t, services.TokenValidator)
}
