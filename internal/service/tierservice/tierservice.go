package tierservice

//go:generate mockgen -source=tierservice.go -destination=mock_tierservice.go -package=tierservice

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/affiliator/internal/domain"
	"github.com/GlebRadaev/affiliator/internal/pg"
)

var hundred = decimal.NewFromInt(100)

type Repo interface {
	List(ctx context.Context) ([]domain.Tier, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tier, error)
	Lock(ctx context.Context) error
	Create(ctx context.Context, tier *domain.Tier) (*domain.Tier, error)
	Update(ctx context.Context, tier *domain.Tier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo        Repo
	txManager   pg.TXManager
	defaultRate decimal.Decimal
}

func New(repo Repo, txManager pg.TXManager, defaultRate decimal.Decimal) *Service {
	return &Service{
		repo:        repo,
		txManager:   txManager,
		defaultRate: defaultRate,
	}
}

// Resolve picks the tier with the greatest MinEarnings not above the
// affiliate's lifetime earnings, preferring the higher SortOrder on ties.
// Without a qualifying tier the affiliate's own commission applies, then defaultRate.
func Resolve(tiers []domain.Tier, affiliate *domain.Affiliate, defaultRate decimal.Decimal) domain.Rate {
	var best *domain.Tier
	for i := range tiers {
		t := &tiers[i]
		if t.MinEarnings.GreaterThan(affiliate.TotalEarnings) {
			continue
		}
		if best == nil ||
			t.MinEarnings.GreaterThan(best.MinEarnings) ||
			(t.MinEarnings.Equal(best.MinEarnings) && t.SortOrder > best.SortOrder) {
			best = t
		}
	}
	if best != nil {
		id := best.ID
		return domain.Rate{
			Rate:     best.CommissionRate,
			Bonus:    best.BonusPercentage,
			TierID:   &id,
			TierName: best.Name,
		}
	}
	if affiliate.Commission.Valid {
		return domain.Rate{Rate: affiliate.Commission.Decimal, Bonus: decimal.Zero}
	}
	return domain.Rate{Rate: defaultRate, Bonus: decimal.Zero}
}

// CheckMonotonic rejects tier tables in which a higher earnings bracket would
// pay a lower commission rate, or a lower rate plus bonus, than the one below it.
func CheckMonotonic(tiers []domain.Tier) error {
	sorted := make([]domain.Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].MinEarnings.Equal(sorted[j].MinEarnings) {
			return sorted[i].MinEarnings.LessThan(sorted[j].MinEarnings)
		}
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	// only the highest sort order of each threshold is ever resolved
	var ladder []domain.Tier
	for i, t := range sorted {
		if i+1 < len(sorted) && sorted[i+1].MinEarnings.Equal(t.MinEarnings) {
			if sorted[i+1].SortOrder == t.SortOrder {
				return fmt.Errorf("%w: tiers %q and %q share threshold and sort order", domain.ErrInvalidTier, t.Name, sorted[i+1].Name)
			}
			continue
		}
		ladder = append(ladder, t)
	}

	for i := 1; i < len(ladder); i++ {
		prev, cur := ladder[i-1], ladder[i]
		if cur.CommissionRate.LessThan(prev.CommissionRate) ||
			cur.CommissionRate.Add(cur.BonusPercentage).LessThan(prev.CommissionRate.Add(prev.BonusPercentage)) {
			return fmt.Errorf("%w: %q pays less than %q", domain.ErrInvalidTier, cur.Name, prev.Name)
		}
	}
	return nil
}

func validate(t *domain.Tier) error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return fmt.Errorf("%w: tier name is required", domain.ErrInvalidInput)
	case t.MinEarnings.IsNegative():
		return fmt.Errorf("%w: min earnings must not be negative", domain.ErrInvalidInput)
	case t.CommissionRate.IsNegative() || t.BonusPercentage.IsNegative():
		return fmt.Errorf("%w: rates must not be negative", domain.ErrInvalidInput)
	case t.CommissionRate.Add(t.BonusPercentage).GreaterThan(hundred):
		return fmt.Errorf("%w: rate plus bonus exceeds 100%%", domain.ErrInvalidInput)
	}
	return nil
}

// ResolveRate reads the tier table fresh and resolves the rate in effect for the affiliate.
func (s *Service) ResolveRate(ctx context.Context, affiliate *domain.Affiliate) (domain.Rate, error) {
	tiers, err := s.repo.List(ctx)
	if err != nil {
		return domain.Rate{}, err
	}
	return Resolve(tiers, affiliate, s.defaultRate), nil
}

func (s *Service) List(ctx context.Context) ([]domain.Tier, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, tier *domain.Tier) (*domain.Tier, error) {
	if err := validate(tier); err != nil {
		return nil, err
	}
	tier.ID = uuid.New()

	var created *domain.Tier
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		tiers, err := s.lockedList(ctx)
		if err != nil {
			return err
		}
		if err := CheckMonotonic(append(tiers, *tier)); err != nil {
			return err
		}
		created, err = s.repo.Create(ctx, tier)
		return err
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("tier created", zap.String("name", created.Name), zap.String("min_earnings", created.MinEarnings.String()))
	return created, nil
}

func (s *Service) Update(ctx context.Context, tier *domain.Tier) (*domain.Tier, error) {
	if err := validate(tier); err != nil {
		return nil, err
	}
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		tiers, err := s.lockedList(ctx)
		if err != nil {
			return err
		}
		found := false
		for i := range tiers {
			if tiers[i].ID == tier.ID {
				tier.CreatedAt = tiers[i].CreatedAt
				tiers[i] = *tier
				found = true
			}
		}
		if !found {
			return domain.ErrNotFound
		}
		if err := CheckMonotonic(tiers); err != nil {
			return err
		}
		return s.repo.Update(ctx, tier)
	})
	if err != nil {
		return nil, err
	}
	return tier, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		tiers, err := s.lockedList(ctx)
		if err != nil {
			return err
		}
		rest := make([]domain.Tier, 0, len(tiers))
		for _, t := range tiers {
			if t.ID != id {
				rest = append(rest, t)
			}
		}
		if len(rest) == len(tiers) {
			return domain.ErrNotFound
		}
		if err := CheckMonotonic(rest); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
}

func (s *Service) lockedList(ctx context.Context) ([]domain.Tier, error) {
	if err := s.repo.Lock(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}
