package rewards

import (
	"context"
	"errors"
	"testing"
	"time"

	appErrors "rewards/internal/errors"
	"rewards/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestService_RecommendBestCard(t *testing.T) {
	f := newFixture()
	f.withUser(7, models.PreferenceCashback)
	f.withWallet(7,
		[]*models.Card{
			card(1, "Points Plus", models.RewardTypePoints),
			card(2, "Cash Daily", models.RewardTypeCashback),
			card(3, "Travel Only", models.RewardTypeMiles),
		},
		map[uint][]*models.RewardRule{
			1: {rule(1, "dining", 5)},
			2: {rule(2, "dining", 2)},
			3: {rule(3, "travel", 4)},
		})
	s := f.service(Options{})

	rec, err := s.RecommendBestCard(context.Background(), 7, 1000, " DINING ")

	assert.NoError(t, err)
	assert.Equal(t, uint(7), rec.UserID)
	assert.Equal(t, models.PreferenceCashback, rec.UserPreference)
	assert.Equal(t, "dining", rec.Category)
	assert.Equal(t, 1000.0, rec.SpendAmount)
	assert.False(t, rec.Reranked)
	// cashback 20 beats points 50*0.25=12.5; the unsupported card stays last
	assert.Equal(t, []uint{2, 1, 3}, estimateIDs(rec.Estimates))
	assert.Equal(t, 20.0, *rec.Estimates[0].EstimatedValue)
	assert.Equal(t, 12.5, *rec.Estimates[1].EstimatedValue)
	assert.Equal(t, StatusUnsupported, rec.Estimates[2].Status)
	assert.False(t, rec.Estimates[0].CloseTie)
	f.assertExpectations(t)
}

func TestService_RecommendBestCard_UnsupportedAfterZeroValue(t *testing.T) {
	tests := []struct {
		name  string
		spend float64
		rate  float64
	}{
		{name: "zero earn rate", spend: 1000, rate: 0},
		{name: "zero spend", spend: 0, rate: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.withUser(7, models.PreferenceBalanced)
			f.withWallet(7,
				[]*models.Card{
					card(10, "No Rules", models.RewardTypeCashback),
					card(11, "Flat Dining", models.RewardTypeCashback),
				},
				map[uint][]*models.RewardRule{
					10: {},
					11: {rule(11, "dining", tt.rate)},
				})
			s := f.service(Options{})

			rec, err := s.RecommendBestCard(context.Background(), 7, tt.spend, "dining")

			assert.NoError(t, err)
			assert.Equal(t, []uint{11, 10}, estimateIDs(rec.Estimates))
			assert.Equal(t, StatusOK, rec.Estimates[0].Status)
			assert.Equal(t, 0.0, *rec.Estimates[0].EstimatedValue)
			assert.Equal(t, StatusUnsupported, rec.Estimates[1].Status)
			assert.False(t, rec.Estimates[0].CloseTie)
			f.assertExpectations(t)
		})
	}
}

func TestService_RecommendBestCard_FallbackScenario(t *testing.T) {
	f := newFixture()
	f.withUser(1, models.PreferenceBalanced)
	f.withWallet(1,
		[]*models.Card{card(1, "Flat Two", models.RewardTypeCashback), card(2, "Flat One Half", models.RewardTypeCashback)},
		map[uint][]*models.RewardRule{
			1: {rule(1, "general", 2)},
			2: {rule(2, "general", 1.5), rule(2, "dining", 5)},
		})
	s := f.service(Options{})

	rec, err := s.RecommendBestCard(context.Background(), 1, 1000, "fuel")

	assert.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, estimateIDs(rec.Estimates))
	for _, e := range rec.Estimates {
		assert.Equal(t, "general", e.FallbackUsed)
		assert.Equal(t, "fuel", e.RequestedCategory)
	}
	assert.Equal(t, 20.0, *rec.Estimates[0].EstimatedValue)
	assert.Equal(t, 15.0, *rec.Estimates[1].EstimatedValue)
}

func TestService_RecommendBestCard_CloseTie(t *testing.T) {
	tests := []struct {
		name       string
		secondRate float64
		wantTie    bool
	}{
		{name: "within ten percent", secondRate: 9.1, wantTie: true},
		{name: "exactly ten percent", secondRate: 9, wantTie: true},
		{name: "outside ten percent", secondRate: 8.9, wantTie: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.withUser(1, models.PreferenceBalanced)
			f.withWallet(1,
				[]*models.Card{
					card(1, "Second", models.RewardTypeCashback),
					card(2, "Top", models.RewardTypeCashback),
					card(3, "Third", models.RewardTypeCashback),
				},
				map[uint][]*models.RewardRule{
					1: {rule(1, "dining", tt.secondRate)},
					2: {rule(2, "dining", 10)},
					3: {rule(3, "dining", 1)},
				})
			s := f.service(Options{})

			rec, err := s.RecommendBestCard(context.Background(), 1, 1000, "dining")

			assert.NoError(t, err)
			assert.Equal(t, []uint{2, 1, 3}, estimateIDs(rec.Estimates))
			assert.Equal(t, tt.wantTie, rec.Estimates[0].CloseTie)
			assert.Equal(t, tt.wantTie, rec.Estimates[1].CloseTie)
			assert.Equal(t, tt.wantTie, rec.Estimates[0].TradeOffNeeded)
			assert.False(t, rec.Estimates[2].CloseTie)
		})
	}
}

func TestService_RecommendBestCard_StableAndOrderIndependent(t *testing.T) {
	rules := map[uint][]*models.RewardRule{
		1: {rule(1, "groceries", 3)},
		2: {rule(2, "groceries", 5)},
		3: {rule(3, "groceries", 3)},
		4: {rule(4, "groceries", 1)},
	}
	cards := func(order ...uint) []*models.Card {
		out := make([]*models.Card, 0, len(order))
		for _, id := range order {
			out = append(out, card(id, "Card", models.RewardTypeCashback))
		}
		return out
	}

	run := func(order ...uint) []uint {
		f := newFixture()
		f.withUser(1, models.PreferenceBalanced)
		f.withWallet(1, cards(order...), rules)
		rec, err := f.service(Options{}).RecommendBestCard(context.Background(), 1, 100, "groceries")
		assert.NoError(t, err)
		return estimateIDs(rec.Estimates)
	}

	// equal values keep the order the store returned
	assert.Equal(t, []uint{2, 1, 3, 4}, run(1, 2, 3, 4))
	assert.Equal(t, []uint{2, 3, 1, 4}, run(4, 3, 2, 1))

	values := func(ids []uint) []float64 {
		out := make([]float64, 0, len(ids))
		for _, id := range ids {
			out = append(out, rules[id][0].EarnRate)
		}
		return out
	}
	assert.Equal(t, values(run(1, 2, 3, 4)), values(run(3, 4, 1, 2)))
}

func TestService_RecommendBestCard_Errors(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		f := newFixture()
		f.withMissingUser(9)

		_, err := f.service(Options{}).RecommendBestCard(context.Background(), 9, 100, "dining")

		assert.ErrorIs(t, err, appErrors.ErrNotFound)
		f.assertExpectations(t)
	})

	t.Run("no active cards", func(t *testing.T) {
		f := newFixture()
		f.withUser(1, models.PreferenceBalanced)
		f.withWallet(1, []*models.Card{}, nil)

		_, err := f.service(Options{}).RecommendBestCard(context.Background(), 1, 100, "dining")

		assert.ErrorIs(t, err, &appErrors.DomainError{Kind: appErrors.KindNotFound, Code: "NO_ACTIVE_CARDS"})
	})

	t.Run("invalid category", func(t *testing.T) {
		f := newFixture()

		_, err := f.service(Options{}).RecommendBestCard(context.Background(), 1, 100, "pets")

		assert.ErrorIs(t, err, appErrors.ErrValidation)
		f.assertExpectations(t)
	})

	t.Run("rule storage failure", func(t *testing.T) {
		f := newFixture()
		f.withUser(1, models.PreferenceBalanced)
		f.cards.On("GetActiveByUserID", mock.Anything, uint(1)).Return([]*models.Card{card(1, "A", models.RewardTypeCashback)}, nil)
		f.rules.On("GetByCardID", mock.Anything, uint(1)).Return(nil, errors.New("connection reset"))

		_, err := f.service(Options{}).RecommendBestCard(context.Background(), 1, 100, "dining")

		assert.ErrorIs(t, err, appErrors.ErrCollaborator)
	})
}

// nearTieWallet has cards 1 and 2 within five percent of each other and
// card 3 well below them.
func nearTieWallet(f *fixture) {
	f.withUser(1, models.PreferenceTravel)
	f.withWallet(1,
		[]*models.Card{
			card(1, "Top", models.RewardTypeCashback),
			card(2, "Close", models.RewardTypeMiles),
			card(3, "Far", models.RewardTypeCashback),
		},
		map[uint][]*models.RewardRule{
			1: {rule(1, "travel", 5)},
			2: {rule(2, "travel", 4.9)},
			3: {rule(3, "travel", 2)},
		})
}

func TestService_RecommendBestCard_Rerank(t *testing.T) {
	tests := []struct {
		name         string
		setupMock    func(*MockReranker)
		wantIDs      []uint
		wantReranked bool
	}{
		{
			name: "collaborator reorders the near ties",
			setupMock: func(m *MockReranker) {
				m.On("Rerank", mock.Anything, mock.MatchedBy(func(req RerankRequest) bool {
					return req.Preference == models.PreferenceTravel &&
						req.Category == "travel" &&
						len(req.Candidates) == 2 &&
						req.Candidates[0].CardID == 1 &&
						req.Candidates[1].CardID == 2 &&
						req.Candidates[0].EstimatedValue == 50
				})).Return([]uint{2, 1}, nil)
			},
			wantIDs:      []uint{2, 1, 3},
			wantReranked: true,
		},
		{
			name: "ids outside the set and repeats are ignored",
			setupMock: func(m *MockReranker) {
				m.On("Rerank", mock.Anything, mock.Anything).Return([]uint{3, 2, 2, 99}, nil)
			},
			wantIDs:      []uint{2, 1, 3},
			wantReranked: true,
		},
		{
			name: "empty answer keeps value order",
			setupMock: func(m *MockReranker) {
				m.On("Rerank", mock.Anything, mock.Anything).Return([]uint{}, nil)
			},
			wantIDs:      []uint{1, 2, 3},
			wantReranked: true,
		},
		{
			name: "failure keeps value order",
			setupMock: func(m *MockReranker) {
				m.On("Rerank", mock.Anything, mock.Anything).Return(nil, errors.New("503 service unavailable"))
			},
			wantIDs:      []uint{1, 2, 3},
			wantReranked: false,
		},
		{
			name: "timeout keeps value order",
			setupMock: func(m *MockReranker) {
				m.On("Rerank", mock.Anything, mock.Anything).After(500*time.Millisecond).Return([]uint{2, 1}, nil)
			},
			wantIDs:      []uint{1, 2, 3},
			wantReranked: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			nearTieWallet(f)
			reranker := new(MockReranker)
			tt.setupMock(reranker)

			s := f.service(Options{Reranker: reranker, RerankTimeout: 50 * time.Millisecond})
			rec, err := s.RecommendBestCard(context.Background(), 1, 1000, "travel")

			assert.NoError(t, err)
			assert.Equal(t, tt.wantIDs, estimateIDs(rec.Estimates))
			assert.Equal(t, tt.wantReranked, rec.Reranked)
			assert.Len(t, rec.Estimates, 3)
		})
	}
}

func TestService_RecommendBestCard_RerankPanics(t *testing.T) {
	f := newFixture()
	nearTieWallet(f)
	reranker := new(MockReranker)
	reranker.On("Rerank", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	})

	rec, err := f.service(Options{Reranker: reranker}).RecommendBestCard(context.Background(), 1, 1000, "travel")

	assert.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, estimateIDs(rec.Estimates))
	assert.False(t, rec.Reranked)
}

func TestService_RecommendBestCard_NoNearTie(t *testing.T) {
	f := newFixture()
	f.withUser(1, models.PreferenceBalanced)
	f.withWallet(1,
		[]*models.Card{card(1, "A", models.RewardTypeCashback), card(2, "B", models.RewardTypeCashback)},
		map[uint][]*models.RewardRule{
			1: {rule(1, "dining", 5)},
			2: {rule(2, "dining", 4.5)},
		})
	reranker := new(MockReranker)

	rec, err := f.service(Options{Reranker: reranker}).RecommendBestCard(context.Background(), 1, 1000, "dining")

	assert.NoError(t, err)
	assert.False(t, rec.Reranked)
	// within the close-tie ratio but not the rerank ratio
	assert.True(t, rec.Estimates[0].CloseTie)
	reranker.AssertNotCalled(t, "Rerank", mock.Anything, mock.Anything)
}

func TestIsCloseTie(t *testing.T) {
	assert.True(t, isCloseTie(100, 91, 0.10))
	assert.True(t, isCloseTie(100, 100, 0.10))
	assert.False(t, isCloseTie(100, 89, 0.10))
	assert.False(t, isCloseTie(0, 0, 0.10))
}

func TestReorderByIDs(t *testing.T) {
	subset := []*Estimate{{CardID: 1}, {CardID: 2}, {CardID: 3}}

	assert.Equal(t, []uint{3, 1, 2}, estimateIDs(reorderByIDs(subset, []uint{3, 1, 2})))
	assert.Equal(t, []uint{2, 1, 3}, estimateIDs(reorderByIDs(subset, []uint{2})))
	assert.Equal(t, []uint{3, 1, 2}, estimateIDs(reorderByIDs(subset, []uint{42, 3, 3, 1})))
	assert.Equal(t, []uint{1, 2, 3}, estimateIDs(reorderByIDs(subset, nil)))
}
