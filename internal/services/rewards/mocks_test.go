package rewards

import (
	"context"

	appErrors "rewards/internal/errors"
	"rewards/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockUserReader struct {
	mock.Mock
}

type MockCardReader struct {
	mock.Mock
}

type MockRuleReader struct {
	mock.Mock
}

type MockCatalogReader struct {
	mock.Mock
}

type MockOverrideStore struct {
	mock.Mock
}

type MockReranker struct {
	mock.Mock
}

func (m *MockUserReader) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockCardReader) GetByID(ctx context.Context, id uint) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardReader) GetActiveByUserID(ctx context.Context, userID uint) ([]*models.Card, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Card), args.Error(1)
}

func (m *MockRuleReader) GetByCardID(ctx context.Context, cardID uint) ([]*models.RewardRule, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RewardRule), args.Error(1)
}

func (m *MockCatalogReader) List(ctx context.Context) ([]*models.CatalogCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CatalogCard), args.Error(1)
}

func (m *MockOverrideStore) GetByMerchant(ctx context.Context, merchant string) (*models.MerchantOverride, error) {
	args := m.Called(ctx, merchant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MerchantOverride), args.Error(1)
}

func (m *MockOverrideStore) Upsert(ctx context.Context, override *models.MerchantOverride) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *MockReranker) Rerank(ctx context.Context, req RerankRequest) ([]uint, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// fixture wires mocks into a Service.
type fixture struct {
	users     *MockUserReader
	cards     *MockCardReader
	rules     *MockRuleReader
	catalog   *MockCatalogReader
	overrides *MockOverrideStore
}

func newFixture() *fixture {
	return &fixture{
		users:     new(MockUserReader),
		cards:     new(MockCardReader),
		rules:     new(MockRuleReader),
		catalog:   new(MockCatalogReader),
		overrides: new(MockOverrideStore),
	}
}

func (f *fixture) service(opts Options) *Service {
	return f.serviceWith(DefaultTables(), opts)
}

func (f *fixture) serviceWith(tables *Tables, opts Options) *Service {
	return NewService(tables, f.users, f.cards, f.rules, f.catalog, f.overrides, opts)
}

func (f *fixture) withUser(id uint, preference string) {
	f.users.On("GetByID", mock.Anything, id).Return(&models.User{ID: id, Preference: preference}, nil)
}

func (f *fixture) withMissingUser(id uint) {
	f.users.On("GetByID", mock.Anything, id).Return(nil, appErrors.NotFound("USER_NOT_FOUND", "user not found"))
}

// withWallet registers cards as the user's active cards and rules for each.
func (f *fixture) withWallet(userID uint, cards []*models.Card, rules map[uint][]*models.RewardRule) {
	f.cards.On("GetActiveByUserID", mock.Anything, userID).Return(cards, nil)
	for _, c := range cards {
		r := rules[c.ID]
		if r == nil {
			r = []*models.RewardRule{}
		}
		f.rules.On("GetByCardID", mock.Anything, c.ID).Return(r, nil)
	}
}

func (f *fixture) assertExpectations(t mock.TestingT) {
	f.users.AssertExpectations(t)
	f.cards.AssertExpectations(t)
	f.rules.AssertExpectations(t)
	f.catalog.AssertExpectations(t)
	f.overrides.AssertExpectations(t)
}

func card(id uint, name, rewardType string) *models.Card {
	return &models.Card{ID: id, UserID: 1, Name: name, Bank: "Bank " + name, RewardType: rewardType, Active: true}
}

func rule(cardID uint, category string, rate float64) *models.RewardRule {
	return &models.RewardRule{CardID: cardID, Category: category, EarnRate: rate, CapPeriod: models.CapPeriodMonthly}
}

func cappedRule(cardID uint, category string, rate, limit float64, period string) *models.RewardRule {
	r := rule(cardID, category, rate)
	r.Cap = &limit
	r.CapPeriod = period
	return r
}

func estimateIDs(estimates []*Estimate) []uint {
	ids := make([]uint, 0, len(estimates))
	for _, e := range estimates {
		ids = append(ids, e.CardID)
	}
	return ids
}
