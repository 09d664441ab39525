package repo

import (
	"github.com/GlebRadaev/affiliator/internal/pg"
	affiliaterepo "github.com/GlebRadaev/affiliator/internal/repo/affiliate-repo"
	clickrepo "github.com/GlebRadaev/affiliator/internal/repo/click-repo"
	couponrepo "github.com/GlebRadaev/affiliator/internal/repo/coupon-repo"
	ledgerrepo "github.com/GlebRadaev/affiliator/internal/repo/ledger-repo"
	orderrepo "github.com/GlebRadaev/affiliator/internal/repo/order-repo"
	payoutrepo "github.com/GlebRadaev/affiliator/internal/repo/payout-repo"
	tierrepo "github.com/GlebRadaev/affiliator/internal/repo/tier-repo"
	userrepo "github.com/GlebRadaev/affiliator/internal/repo/user-repo"
)

// Repositories are shared by several services, each of which sees only
// the methods its own Repo interfaces declare.
type Repositories struct {
	UserRepo      *userrepo.Repository
	AffiliateRepo *affiliaterepo.Repository
	ClickRepo     *clickrepo.Repository
	LedgerRepo    *ledgerrepo.Repository
	PayoutRepo    *payoutrepo.Repository
	CouponRepo    *couponrepo.Repository
	TierRepo      *tierrepo.Repository
	OrderRepo     *orderrepo.Repository
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		UserRepo:      userrepo.New(conn),
		AffiliateRepo: affiliaterepo.New(conn),
		ClickRepo:     clickrepo.New(conn),
		LedgerRepo:    ledgerrepo.New(conn),
		PayoutRepo:    payoutrepo.New(conn),
		CouponRepo:    couponrepo.New(conn),
		TierRepo:      tierrepo.New(conn),
		OrderRepo:     orderrepo.New(conn),
	}
}
