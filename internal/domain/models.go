package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           uuid.UUID `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

type AffiliateStatus string

const (
	AffiliatePending  AffiliateStatus = "pending"
	AffiliateApproved AffiliateStatus = "approved"
	AffiliateRejected AffiliateStatus = "rejected"
)

type Affiliate struct {
	ID               uuid.UUID           `db:"id"`
	UserID           uuid.UUID           `db:"user_id"`
	Code             string              `db:"code"`
	TierID           *uuid.UUID          `db:"tier_id"`
	Commission       decimal.NullDecimal `db:"commission"`
	TotalEarnings    decimal.Decimal     `db:"total_earnings"`
	PendingEarnings  decimal.Decimal     `db:"pending_earnings"`
	PaidEarnings     decimal.Decimal     `db:"paid_earnings"`
	TotalClicks      int64               `db:"total_clicks"`
	TotalConversions int64               `db:"total_conversions"`
	Status           AffiliateStatus     `db:"status"`
	IsActive         bool                `db:"is_active"`
	PaymentMethod    string              `db:"payment_method"`
	CreatedAt        time.Time           `db:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at"`
}

// CanEarn reports whether the affiliate may be credited or paid out.
func (a *Affiliate) CanEarn() bool {
	return a.Status == AffiliateApproved && a.IsActive
}

type Tier struct {
	ID              uuid.UUID       `db:"id"`
	Name            string          `db:"name"`
	MinEarnings     decimal.Decimal `db:"min_earnings"`
	CommissionRate  decimal.Decimal `db:"commission_rate"`
	BonusPercentage decimal.Decimal `db:"bonus_percentage"`
	SortOrder       int             `db:"sort_order"`
	CreatedAt       time.Time       `db:"created_at"`
}

// Rate is the commission rate in effect for a single commission event.
type Rate struct {
	Rate     decimal.Decimal
	Bonus    decimal.Decimal
	TierID   *uuid.UUID
	TierName string
}

type Click struct {
	ID          uuid.UUID  `db:"id"`
	AffiliateID uuid.UUID  `db:"affiliate_id"`
	IPAddress   string     `db:"ip_address"`
	Converted   bool       `db:"converted"`
	OrderNumber *string    `db:"order_number"`
	CreatedAt   time.Time  `db:"created_at"`
	ConvertedAt *time.Time `db:"converted_at"`
}

type EntryType string

const (
	EntrySaleCommission EntryType = "sale_commission"
	EntryBonus          EntryType = "bonus"
	EntryAdjustment     EntryType = "adjustment"
	EntryPayoutDebit    EntryType = "payout_debit"
	EntryPayoutReversal EntryType = "payout_reversal"
)

// IsEarning reports whether entries of this type move lifetime earnings.
func (t EntryType) IsEarning() bool {
	switch t {
	case EntrySaleCommission, EntryBonus, EntryAdjustment:
		return true
	}
	return false
}

func (t EntryType) Valid() bool {
	switch t {
	case EntrySaleCommission, EntryBonus, EntryAdjustment, EntryPayoutDebit, EntryPayoutReversal:
		return true
	}
	return false
}

type EntryStatus string

const (
	EntryPending   EntryStatus = "pending"
	EntryConfirmed EntryStatus = "confirmed"
	EntryPaid      EntryStatus = "paid"
)

type LedgerEntry struct {
	ID          uuid.UUID       `db:"id"`
	Seq         int64           `db:"seq"`
	AffiliateID uuid.UUID       `db:"affiliate_id"`
	OrderNumber *string         `db:"order_number"`
	PayoutID    *uuid.UUID      `db:"payout_id"`
	Type        EntryType       `db:"type"`
	Amount      decimal.Decimal `db:"amount"`
	Balance     decimal.Decimal `db:"balance"`
	Status      EntryStatus     `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
	ConfirmedAt *time.Time      `db:"confirmed_at"`
	PaidAt      *time.Time      `db:"paid_at"`
}

// EntryRequest describes a ledger entry to append. Status defaults to pending.
type EntryRequest struct {
	AffiliateID uuid.UUID
	OrderNumber *string
	PayoutID    *uuid.UUID
	Type        EntryType
	Amount      decimal.Decimal
	Status      EntryStatus
}

// LedgerTotals are the per-affiliate sums the earnings counters must match.
type LedgerTotals struct {
	Earned  decimal.Decimal
	Paid    decimal.Decimal
	Balance decimal.Decimal
	Entries int64
}

type Reconciliation struct {
	AffiliateID     uuid.UUID       `json:"affiliate_id"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	PendingEarnings decimal.Decimal `json:"pending_earnings"`
	PaidEarnings    decimal.Decimal `json:"paid_earnings"`
	LedgerEarned    decimal.Decimal `json:"ledger_earned"`
	LedgerPaid      decimal.Decimal `json:"ledger_paid"`
	LedgerBalance   decimal.Decimal `json:"ledger_balance"`
	TailBalance     decimal.Decimal `json:"tail_balance"`
	Consistent      bool            `json:"consistent"`
}

type PayoutStatus string

const (
	PayoutPending  PayoutStatus = "pending"
	PayoutApproved PayoutStatus = "approved"
	PayoutPaid     PayoutStatus = "paid"
	PayoutRejected PayoutStatus = "rejected"
)

type Payout struct {
	ID            uuid.UUID       `db:"id"`
	AffiliateID   uuid.UUID       `db:"affiliate_id"`
	Amount        decimal.Decimal `db:"amount"`
	Status        PayoutStatus    `db:"status"`
	PaymentMethod string          `db:"payment_method"`
	TransactionID *string         `db:"transaction_id"`
	ProcessedBy   *uuid.UUID      `db:"processed_by"`
	ProcessedAt   *time.Time      `db:"processed_at"`
	CreatedAt     time.Time       `db:"created_at"`
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Coupon struct {
	ID            uuid.UUID       `db:"id"`
	Code          string          `db:"code"`
	DiscountType  DiscountType    `db:"discount_type"`
	DiscountValue decimal.Decimal `db:"discount_value"`
	MinPurchase   decimal.Decimal `db:"min_purchase"`
	MaxUses       *int            `db:"max_uses"`
	UsedCount     int             `db:"used_count"`
	StartsAt      *time.Time      `db:"starts_at"`
	ExpiresAt     *time.Time      `db:"expires_at"`
	IsActive      bool            `db:"is_active"`
	AffiliateID   *uuid.UUID      `db:"affiliate_id"`
	CreatedAt     time.Time       `db:"created_at"`
}

type Discount struct {
	Amount decimal.Decimal
	Coupon *Coupon
}

// CompletedOrder is what the order subsystem reports once per finalized order.
type CompletedOrder struct {
	OrderNumber  string
	CustomerID   *uuid.UUID
	Total        decimal.Decimal
	CouponCode   string
	ClickID      *uuid.UUID
	ReferralCode string
	CompletedAt  time.Time
}

type AttributionSource string

const (
	AttributionClick        AttributionSource = "click"
	AttributionReferralCode AttributionSource = "referral_code"
	AttributionCoupon       AttributionSource = "coupon"
	AttributionNone         AttributionSource = "none"
)

type OrderCompletion struct {
	OrderNumber  string            `db:"order_number"`
	AffiliateID  *uuid.UUID        `db:"affiliate_id"`
	ClickID      *uuid.UUID        `db:"click_id"`
	Source       AttributionSource `db:"source"`
	WithoutClick bool              `db:"without_click"`
	Commission   decimal.Decimal   `db:"commission"`
	Bonus        decimal.Decimal   `db:"bonus"`
	CouponID     *uuid.UUID        `db:"coupon_id"`
	Discount     decimal.Decimal   `db:"discount"`
	CreatedAt    time.Time         `db:"created_at"`

	// Duplicate is set when the order number was already processed.
	Duplicate bool `db:"-"`
}

type Conversion struct {
	AffiliateID  uuid.UUID
	ClickID      *uuid.UUID
	WithoutClick bool
}

type AffiliateStats struct {
	Affiliate        *Affiliate
	AvailableBalance decimal.Decimal
	Rate             Rate
	ConversionRate   decimal.Decimal
}
