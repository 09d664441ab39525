package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/affiliator/internal/domain"
)

const namespace = "affiliator"

// Metrics is safe to use through a nil pointer, which records nothing.
type Metrics struct {
	clicks           prometheus.Counter
	conversions      *prometheus.CounterVec
	commissionAmount *prometheus.CounterVec
	reversedAmount   prometheus.Counter
	payouts          *prometheus.CounterVec
	payoutAmount     *prometheus.CounterVec
	redemptions      prometheus.Counter
	orders           *prometheus.CounterVec
	confirmed        prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		clicks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clicks_total",
			Help:      "Referral clicks recorded.",
		}),
		conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Attributed orders, split by whether a click was converted.",
		}, []string{"with_click"}),
		commissionAmount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commission_amount_total",
			Help:      "Commission credited to affiliates, by ledger entry type.",
		}, []string{"type"}),
		reversedAmount: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commission_reversed_amount_total",
			Help:      "Commission reversed by order refunds.",
		}),
		payouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payouts_total",
			Help:      "Payout transitions by resulting status.",
		}, []string{"status"}),
		payoutAmount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payout_amount_total",
			Help:      "Payout amounts by resulting status.",
		}, []string{"status"}),
		redemptions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupon_redemptions_total",
			Help:      "Coupon redemptions.",
		}),
		orders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_completions_total",
			Help:      "Completed orders processed, by attribution source.",
		}, []string{"source"}),
		confirmed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_entries_confirmed_total",
			Help:      "Pending ledger credits promoted to confirmed by the worker.",
		}),
	}
}

func (m *Metrics) ClickRecorded() {
	if m == nil {
		return
	}
	m.clicks.Inc()
}

func (m *Metrics) Conversion(withClick bool) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(strconv.FormatBool(withClick)).Inc()
}

func (m *Metrics) CommissionCredited(typ domain.EntryType, amount decimal.Decimal) {
	if m == nil || !amount.IsPositive() {
		return
	}
	m.commissionAmount.WithLabelValues(string(typ)).Add(amount.InexactFloat64())
}

func (m *Metrics) CommissionReversed(amount decimal.Decimal) {
	if m == nil || !amount.IsPositive() {
		return
	}
	m.reversedAmount.Add(amount.InexactFloat64())
}

func (m *Metrics) PayoutTransition(status domain.PayoutStatus, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.payouts.WithLabelValues(string(status)).Inc()
	m.payoutAmount.WithLabelValues(string(status)).Add(amount.InexactFloat64())
}

func (m *Metrics) CouponRedeemed() {
	if m == nil {
		return
	}
	m.redemptions.Inc()
}

func (m *Metrics) OrderCompleted(source domain.AttributionSource) {
	if m == nil {
		return
	}
	m.orders.WithLabelValues(string(source)).Inc()
}

func (m *Metrics) EntriesConfirmed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.confirmed.Add(float64(n))
}
