package rewards

import (
	"context"
	"fmt"
	"time"

	appErrors "rewards/internal/errors"
	"rewards/internal/models"

	"golang.org/x/sync/errgroup"
)

// DefaultRerankTimeout bounds a call to the external reranker.
const DefaultRerankTimeout = 2 * time.Second

// maxRuleReaders caps concurrent rule reads per operation.
const maxRuleReaders = 8

// Options holds the optional collaborators of the Service.
type Options struct {
	Reranker      Reranker
	RerankTimeout time.Duration
}

// Service runs the valuation pipeline against storage.
type Service struct {
	tables        *Tables
	users         UserReader
	cards         CardReader
	rules         RuleReader
	catalog       CatalogReader
	classifier    *Classifier
	reranker      Reranker
	rerankTimeout time.Duration
}

// NewService creates the engine service. catalog and overrides may be nil;
// gap recommendations and merchant overrides are then unavailable.
func NewService(
	tables *Tables,
	users UserReader,
	cards CardReader,
	rules RuleReader,
	catalog CatalogReader,
	overrides OverrideStore,
	opts Options,
) *Service {
	if tables == nil {
		panic("tables are required")
	}
	if users == nil {
		panic("user reader is required")
	}
	if cards == nil {
		panic("card reader is required")
	}
	if rules == nil {
		panic("rule reader is required")
	}
	if opts.RerankTimeout <= 0 {
		opts.RerankTimeout = DefaultRerankTimeout
	}

	return &Service{
		tables:        tables,
		users:         users,
		cards:         cards,
		rules:         rules,
		catalog:       catalog,
		classifier:    NewClassifier(tables, overrides),
		reranker:      opts.Reranker,
		rerankTimeout: opts.RerankTimeout,
	}
}

// Tables returns the engine tables.
func (s *Service) Tables() *Tables {
	return s.tables
}

// EstimateReward values spend in category on one active card. A card with
// no applicable rule yields an estimate with Status "unsupported".
func (s *Service) EstimateReward(ctx context.Context, cardID uint, spend float64, category string) (*Estimate, error) {
	if err := ValidateAmount("spend_amount", spend); err != nil {
		return nil, err
	}
	cat, err := s.tables.NormalizeCategory(category)
	if err != nil {
		return nil, err
	}

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, wrapStorage("failed to load card", err)
	}
	if !card.Active {
		return nil, appErrors.NotFound("CARD_NOT_FOUND", fmt.Sprintf("active card with id %d not found", cardID))
	}

	rules, err := s.rules.GetByCardID(ctx, card.ID)
	if err != nil {
		return nil, wrapStorage("failed to load reward rules", err)
	}
	return s.estimate(card, rules, spend, cat), nil
}

// estimate runs resolver, calculator and value normalizer for one card.
func (s *Service) estimate(card *models.Card, rules []*models.RewardRule, spend float64, category string) *Estimate {
	est := &Estimate{
		CardID:            card.ID,
		CardName:          card.Name,
		Bank:              card.Bank,
		RewardType:        card.RewardType,
		AnnualFee:         card.AnnualFee,
		SpendAmount:       spend,
		RequestedCategory: category,
	}

	res := s.tables.Resolve(rules, category)
	if !res.Supported() {
		est.Status = StatusUnsupported
		est.Checked = res.Checked
		est.Message = fmt.Sprintf("No reward rule found for category '%s' on card '%s' (checked: %v)", category, card.Name, res.Checked)
		return est
	}

	reward := Calculate(res.Rule, spend)
	value := s.tables.Value(reward.Raw, card.RewardType)

	rate := res.Rule.EarnRate
	raw := round2(reward.Raw)
	rounded := round2(value)

	est.Status = StatusOK
	est.Category = res.RuleCategory
	est.EarnRate = &rate
	est.RawReward = &raw
	est.EstimatedValue = &rounded
	est.Cap = res.Rule.Cap
	if res.Rule.Cap != nil {
		est.CapPeriod = res.Rule.CapPeriod
	}
	est.CapApplied = reward.CapApplied
	est.Notes = res.Rule.Notes
	est.FallbackUsed = res.FallbackUsed
	est.raw = reward.Raw
	est.value = value
	est.valued = true
	return est
}

// ClassifyMerchant suggests a canonical category for a merchant name.
func (s *Service) ClassifyMerchant(ctx context.Context, merchant string) Classification {
	return s.classifier.Classify(ctx, merchant)
}

// SetMerchantOverride persists a merchant→category correction.
func (s *Service) SetMerchantOverride(ctx context.Context, merchant, category string, confidence float64) (*models.MerchantOverride, error) {
	return s.classifier.SetOverride(ctx, merchant, category, confidence)
}

// loadUser returns the user or a not-found error.
func (s *Service) loadUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapStorage("failed to load user", err)
	}
	return user, nil
}

// loadActiveCards returns the user's active cards and their rules, in card
// order. Rule reads run concurrently. The reads are not one snapshot: a
// rule added concurrently may or may not be seen.
func (s *Service) loadActiveCards(ctx context.Context, userID uint) ([]*models.Card, [][]*models.RewardRule, error) {
	cards, err := s.cards.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, nil, wrapStorage("failed to load cards", err)
	}

	rules := make([][]*models.RewardRule, len(cards))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxRuleReaders)
	for i, card := range cards {
		g.Go(func() error {
			r, err := s.rules.GetByCardID(gctx, card.ID)
			if err != nil {
				return err
			}
			rules[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, wrapStorage("failed to load reward rules", err)
	}
	return cards, rules, nil
}

// wrapStorage passes domain errors through and wraps anything else as a
// collaborator failure.
func wrapStorage(msg string, err error) error {
	if appErrors.KindOf(err) != "" {
		return err
	}
	return appErrors.Collaborator(msg, err)
}
