package cards

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"

	appErrors "rewards/internal/errors"
	"rewards/internal/models"
	"rewards/internal/services/rewards"
)

// Service manages users, their cards and the reward rules of each card.
type Service struct {
	tables   *rewards.Tables
	users    UserStore
	cards    CardStore
	rules    RuleStore
	balances BalanceStore
	catalog  CatalogFinder
}

// NewService creates a card management service. catalog may be nil, in
// which case cards are never auto-seeded.
func NewService(tables *rewards.Tables, users UserStore, cards CardStore, rules RuleStore, balances BalanceStore, catalog CatalogFinder) *Service {
	if tables == nil {
		panic("tables are required")
	}
	if users == nil || cards == nil || rules == nil || balances == nil {
		panic("user, card, rule and balance stores are required")
	}
	return &Service{
		tables:   tables,
		users:    users,
		cards:    cards,
		rules:    rules,
		balances: balances,
		catalog:  catalog,
	}
}

func (s *Service) CreateUser(ctx context.Context, preference string) (*models.User, error) {
	pref, err := rewards.ValidatePreference(preference)
	if err != nil {
		return nil, err
	}
	user := &models.User{Preference: pref}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, wrap("failed to create user", err)
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, wrap("failed to load user", err)
	}
	return user, nil
}

// AddCard adds an active card to a user. When the catalog knows a card
// with the same name and bank its rates become the card's rules and its
// fee fills an unset annual fee.
func (s *Service) AddCard(ctx context.Context, userID uint, input models.CreateCardInput) (*CardDetails, error) {
	name := strings.TrimSpace(input.Name)
	bank := strings.TrimSpace(input.Bank)
	if name == "" {
		return nil, ErrNameRequired
	}
	if bank == "" {
		return nil, ErrBankRequired
	}
	rewardType, err := rewards.ValidateRewardType(input.RewardType)
	if err != nil {
		return nil, err
	}
	if err := rewards.ValidateAmount("annual_fee", input.AnnualFee); err != nil {
		return nil, err
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	entry := s.findCatalogEntry(ctx, name, bank)

	card := &models.Card{
		UserID:     userID,
		Name:       name,
		Bank:       bank,
		RewardType: rewardType,
		AnnualFee:  input.AnnualFee,
		Active:     true,
	}
	if entry != nil && card.AnnualFee == 0 {
		card.AnnualFee = entry.AnnualFee
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, wrap("failed to create card", err)
	}

	details := &CardDetails{Card: card, Rules: []*models.RewardRule{}}
	if entry == nil {
		return details, nil
	}

	seed := s.rulesFromCatalog(card.ID, entry)
	if err := s.rules.CreateMissing(ctx, seed); err != nil {
		// the card exists; rules can still be added by hand
		log.Printf("failed to seed rules for card %d from catalog: %v", card.ID, err)
		return details, nil
	}
	details.Rules = seed
	details.SeededFromCatalog = len(seed) > 0
	return details, nil
}

func (s *Service) findCatalogEntry(ctx context.Context, name, bank string) *models.CatalogCard {
	if s.catalog == nil {
		return nil
	}
	entry, err := s.catalog.FindByNameBank(ctx, name, bank)
	if err != nil {
		if appErrors.KindOf(err) != appErrors.KindNotFound {
			log.Printf("catalog lookup failed for %s/%s: %v", name, bank, err)
		}
		return nil
	}
	return entry
}

// rulesFromCatalog converts catalog rates into rules, skipping categories
// that are not canonical and keeping the first rate per category.
func (s *Service) rulesFromCatalog(cardID uint, entry *models.CatalogCard) []*models.RewardRule {
	seen := make(map[string]bool, len(entry.Rates))
	out := make([]*models.RewardRule, 0, len(entry.Rates))
	for _, rate := range entry.Rates {
		cat, err := s.tables.NormalizeCategory(rate.Category)
		if err != nil || seen[cat] || rate.EarnRate < 0 {
			continue
		}
		seen[cat] = true
		out = append(out, &models.RewardRule{
			CardID:    cardID,
			Category:  cat,
			EarnRate:  rate.EarnRate,
			CapPeriod: models.CapPeriodMonthly,
			Notes:     "seeded from catalog",
		})
	}
	return out
}

// ListCards returns every card of the user, active first, then by name.
func (s *Service) ListCards(ctx context.Context, userID uint) ([]*models.Card, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	cards, err := s.cards.ListByUserID(ctx, userID)
	if err != nil {
		return nil, wrap("failed to list cards", err)
	}
	return cards, nil
}

func (s *Service) getCard(ctx context.Context, cardID uint) (*models.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, wrap("failed to load card", err)
	}
	return card, nil
}

// AddRewardRule adds the rule for one category to a card. A card holds at
// most one rule per category.
func (s *Service) AddRewardRule(ctx context.Context, cardID uint, input models.CreateRuleInput) (*models.RewardRule, error) {
	cat, err := s.tables.NormalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}
	if input.EarnRate < 0 || math.IsNaN(input.EarnRate) || math.IsInf(input.EarnRate, 0) {
		return nil, ErrInvalidRate
	}
	if input.Cap != nil && (*input.Cap < 0 || math.IsNaN(*input.Cap) || math.IsInf(*input.Cap, 0)) {
		return nil, ErrInvalidCap
	}
	period, err := rewards.ValidateCapPeriod(input.CapPeriod)
	if err != nil {
		return nil, err
	}
	if _, err := s.getCard(ctx, cardID); err != nil {
		return nil, err
	}

	rule := &models.RewardRule{
		CardID:    cardID,
		Category:  cat,
		EarnRate:  input.EarnRate,
		Cap:       input.Cap,
		CapPeriod: period,
		Notes:     strings.TrimSpace(input.Notes),
	}
	if err := s.rules.Create(ctx, rule); err != nil {
		return nil, wrap("failed to create reward rule", err)
	}
	return rule, nil
}

// GetRewardRules returns the card with its rules, highest rate first.
func (s *Service) GetRewardRules(ctx context.Context, cardID uint) (*CardDetails, error) {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	rules, err := s.rules.GetByCardID(ctx, cardID)
	if err != nil {
		return nil, wrap("failed to load reward rules", err)
	}
	sorted := append([]*models.RewardRule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EarnRate > sorted[j].EarnRate
	})
	return &CardDetails{Card: card, Rules: sorted}, nil
}

func (s *Service) ActivateCard(ctx context.Context, cardID uint) (*models.Card, error) {
	return s.setActive(ctx, cardID, true)
}

// DeactivateCard soft-deletes a card; it stops taking part in
// recommendations, simulations and gap analysis.
func (s *Service) DeactivateCard(ctx context.Context, cardID uint) (*models.Card, error) {
	return s.setActive(ctx, cardID, false)
}

func (s *Service) setActive(ctx context.Context, cardID uint, active bool) (*models.Card, error) {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := s.cards.SetActive(ctx, cardID, active); err != nil {
		return nil, wrap("failed to update card status", err)
	}
	card.Active = active
	return card, nil
}

// UpsertRewardBalance records the reward balance of a card. Repeating the
// call with the same value leaves the same state.
func (s *Service) UpsertRewardBalance(ctx context.Context, cardID uint, balance float64) (*models.RewardBalance, error) {
	if err := rewards.ValidateAmount("balance", balance); err != nil {
		return nil, err
	}
	if _, err := s.getCard(ctx, cardID); err != nil {
		return nil, err
	}
	b := &models.RewardBalance{CardID: cardID, Balance: balance}
	if err := s.balances.Upsert(ctx, b); err != nil {
		return nil, wrap("failed to save reward balance", err)
	}
	return b, nil
}

// GetRewardBalance returns the last recorded reward balance of a card.
func (s *Service) GetRewardBalance(ctx context.Context, cardID uint) (*models.RewardBalance, error) {
	if _, err := s.getCard(ctx, cardID); err != nil {
		return nil, err
	}
	b, err := s.balances.GetByCardID(ctx, cardID)
	if err != nil {
		return nil, wrap("failed to load reward balance", err)
	}
	return b, nil
}
