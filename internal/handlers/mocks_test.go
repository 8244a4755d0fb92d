package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"rewards/internal/middleware"
	"rewards/internal/models"
	"rewards/internal/repositories/cache"
	"rewards/internal/services/cards"
	"rewards/internal/services/catalog"
	"rewards/internal/services/rewards"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCardManager struct {
	mock.Mock
}

func (m *MockCardManager) CreateUser(ctx context.Context, preference string) (*models.User, error) {
	args := m.Called(ctx, preference)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCardManager) GetUser(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCardManager) AddCard(ctx context.Context, userID uint, input models.CreateCardInput) (*cards.CardDetails, error) {
	args := m.Called(ctx, userID, input)
	if d := args.Get(0); d != nil {
		return d.(*cards.CardDetails), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCardManager) ListCards(ctx context.Context, userID uint) ([]*models.Card, error) {
	args := m.Called(ctx, userID)
	if l := args.Get(0); l != nil {
		return l.([]*models.Card), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCardManager) AddRewardRule(ctx context.Context, cardID uint, input models.CreateRuleInput) (*models.RewardRule, error) {
	args := m.Called(ctx, cardID, input)
	if r := args.Get(0); r != nil {
		return r.(*models.RewardRule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCardManager) GetRewardRules(ctx context.Context, cardID uint) (*cards.CardDetails, error) {
	args := m.Called(ctx, cardID)
	if d := args.Get(0); d != nil {
		return d.(*cards.CardDetails), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCardManager) ActivateCard(ctx context.Context, cardID uint) (*models.Card, error) {
	args := m.Called(ctx, cardID)
	if c := args.Get(0); c != nil {
		return c.(*models.Card), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCardManager) DeactivateCard(ctx context.Context, cardID uint) (*models.Card, error) {
	args := m.Called(ctx, cardID)
	if c := args.Get(0); c != nil {
		return c.(*models.Card), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCardManager) UpsertRewardBalance(ctx context.Context, cardID uint, balance float64) (*models.RewardBalance, error) {
	args := m.Called(ctx, cardID, balance)
	if b := args.Get(0); b != nil {
		return b.(*models.RewardBalance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCardManager) GetRewardBalance(ctx context.Context, cardID uint) (*models.RewardBalance, error) {
	args := m.Called(ctx, cardID)
	if b := args.Get(0); b != nil {
		return b.(*models.RewardBalance), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockRewardsEngine struct {
	mock.Mock
}

func (m *MockRewardsEngine) EstimateReward(ctx context.Context, cardID uint, spend float64, category string) (*rewards.Estimate, error) {
	args := m.Called(ctx, cardID, spend, category)
	if e := args.Get(0); e != nil {
		return e.(*rewards.Estimate), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRewardsEngine) RecommendBestCard(ctx context.Context, userID uint, spend float64, category string) (*rewards.Recommendation, error) {
	args := m.Called(ctx, userID, spend, category)
	if r := args.Get(0); r != nil {
		return r.(*rewards.Recommendation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRewardsEngine) SimulateMonthlySpend(ctx context.Context, userID uint, monthly map[string]float64) (*rewards.Simulation, error) {
	args := m.Called(ctx, userID, monthly)
	if s := args.Get(0); s != nil {
		return s.(*rewards.Simulation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRewardsEngine) AnalyzeWalletGaps(ctx context.Context, userID uint) (*rewards.WalletGaps, error) {
	args := m.Called(ctx, userID)
	if g := args.Get(0); g != nil {
		return g.(*rewards.WalletGaps), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRewardsEngine) ClassifyMerchant(ctx context.Context, merchant string) rewards.Classification {
	args := m.Called(ctx, merchant)
	return args.Get(0).(rewards.Classification)
}

func (m *MockRewardsEngine) SetMerchantOverride(ctx context.Context, merchant, category string, confidence float64) (*models.MerchantOverride, error) {
	args := m.Called(ctx, merchant, category, confidence)
	if o := args.Get(0); o != nil {
		return o.(*models.MerchantOverride), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context) ([]*models.CatalogCard, error) {
	args := m.Called(ctx)
	if l := args.Get(0); l != nil {
		return l.([]*models.CatalogCard), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) Import(ctx context.Context, r io.Reader) (*catalog.ImportResult, error) {
	args := m.Called(ctx, r)
	if res := args.Get(0); res != nil {
		return res.(*catalog.ImportResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockCacheProbe struct {
	mock.Mock
}

func (m *MockCacheProbe) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCacheProbe) GetStats() cache.Stats {
	return m.Called().Get(0).(cache.Stats)
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
}

// call sends a request and decodes the JSON response body.
func call(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// data returns the "data" object of a success response.
func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "missing data in %v", body)
	return d
}
