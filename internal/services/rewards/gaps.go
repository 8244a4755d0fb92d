package rewards

import (
	"context"
	"log"
	"sort"
	"strings"

	"rewards/internal/models"
)

// AnalyzeWalletGaps aggregates the exact-category rules of the user's
// active cards into coverage, finds important categories that are missing
// or weakly rewarded, notes redundant high-rate coverage and suggests
// catalog cards for the gaps. A failing catalog leaves the analysis intact
// without recommendations.
func (s *Service) AnalyzeWalletGaps(ctx context.Context, userID uint) (*WalletGaps, error) {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return nil, err
	}
	cards, rules, err := s.loadActiveCards(ctx, userID)
	if err != nil {
		return nil, err
	}

	th := s.tables.thresholds
	out := &WalletGaps{
		UserID:          userID,
		Coverage:        make(map[string][]CoverageEntry),
		CardCoverage:    make(map[uint]map[string]float64, len(cards)),
		Gaps:            []Gap{},
		Overlaps:        []Overlap{},
		Recommendations: []GapRecommendation{},
	}

	cardByID := make(map[uint]*models.Card, len(cards))
	for i, card := range cards {
		cardByID[card.ID] = card
		rates := make(map[string]float64)
		for _, r := range rules[i] {
			if _, dup := rates[r.Category]; dup {
				continue
			}
			rates[r.Category] = r.EarnRate
			out.Coverage[r.Category] = append(out.Coverage[r.Category], CoverageEntry{
				CardID:   card.ID,
				CardName: card.Name,
				EarnRate: r.EarnRate,
			})
		}
		out.CardCoverage[card.ID] = rates
	}

	for _, c := range s.tables.important {
		entries := out.Coverage[c]
		if len(entries) == 0 {
			out.Gaps = append(out.Gaps, Gap{Category: c, Reason: GapNoCoverage})
			continue
		}
		best := bestEntry(entries)
		if best.EarnRate <= th.LowRate {
			out.Gaps = append(out.Gaps, Gap{
				Category:     c,
				Reason:       GapLowRate,
				BestRate:     best.EarnRate,
				BestCardID:   best.CardID,
				BestCardName: best.CardName,
			})
		}
	}

	covered := make([]string, 0, len(out.Coverage))
	for c := range out.Coverage {
		covered = append(covered, c)
	}
	s.tables.sortCategories(covered)
	for _, c := range covered {
		var high []CoverageEntry
		for _, e := range out.Coverage[c] {
			if e.EarnRate >= th.HighRate {
				high = append(high, e)
			}
		}
		if len(high) > 1 {
			out.Overlaps = append(out.Overlaps, Overlap{Category: c, Cards: high})
		}
	}

	if len(out.Gaps) == 0 || s.catalog == nil {
		return out, nil
	}
	catalog, err := s.catalog.List(ctx)
	if err != nil {
		log.Printf("catalog unavailable for gap recommendations (user %d): %v", userID, err)
		out.CatalogUnavailable = true
		return out, nil
	}
	out.Recommendations = s.recommendForGaps(out.Gaps, cards, cardByID, catalog)
	return out, nil
}

// bestEntry returns the highest rate entry, the first one on equal rates.
func bestEntry(entries []CoverageEntry) CoverageEntry {
	best := entries[0]
	for _, e := range entries[1:] {
		if e.EarnRate > best.EarnRate {
			best = e
		}
	}
	return best
}

// recommendForGaps picks, per gap, the unowned catalog card with the best
// net value at the reference monthly spend, then keeps the top results.
func (s *Service) recommendForGaps(gaps []Gap, owned []*models.Card, cardByID map[uint]*models.Card, catalog []*models.CatalogCard) []GapRecommendation {
	th := s.tables.thresholds
	ownedKeys := make(map[string]bool, len(owned))
	for _, c := range owned {
		ownedKeys[cardKey(c.Name, c.Bank)] = true
	}
	annualSpend := th.ReferenceMonthlySpend * 12

	recs := []GapRecommendation{}
	for _, gap := range gaps {
		currentValue := 0.0
		if current, ok := cardByID[gap.BestCardID]; ok {
			currentValue = annualSpend * gap.BestRate / 100 * s.tables.Multiplier(current.RewardType)
		}

		var best *GapRecommendation
		for _, cc := range catalog {
			if cc == nil || ownedKeys[cardKey(cc.Name, cc.Bank)] {
				continue
			}
			rate, ok := cc.RateFor(gap.Category)
			if !ok || rate < th.HighRate {
				continue
			}
			improvement := annualSpend*rate/100*s.tables.Multiplier(cc.RewardType) - currentValue
			net := improvement - cc.AnnualFee
			if best != nil && net <= best.netValue {
				continue
			}
			best = &GapRecommendation{
				Category:          gap.Category,
				CatalogCardID:     cc.ID,
				CardName:          cc.Name,
				Bank:              cc.Bank,
				RewardType:        cc.RewardType,
				EarnRate:          rate,
				CurrentRate:       gap.BestRate,
				AnnualFee:         cc.AnnualFee,
				AnnualImprovement: round2(improvement),
				NetValue:          round2(net),
				KeyBenefits:       cc.KeyBenefits,
				netValue:          net,
			}
		}
		if best != nil {
			recs = append(recs, *best)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].netValue > recs[j].netValue
	})
	if len(recs) > th.MaxRecommendations {
		recs = recs[:th.MaxRecommendations]
	}
	return recs
}

func cardKey(name, bank string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(bank))
}
