package rewards

import (
	"context"
	"fmt"
	"sort"

	appErrors "rewards/internal/errors"
)

// SimulateMonthlySpend projects a month of per-category spend over a year
// on every active card of the user. Each category's monthly spend is
// treated as one evaluation per month, so per-transaction and monthly caps
// both bound a month and annual caps bound the year.
func (s *Service) SimulateMonthlySpend(ctx context.Context, userID uint, monthly map[string]float64) (*Simulation, error) {
	spend, categories, err := s.normalizeSpend(monthly)
	if err != nil {
		return nil, err
	}

	if _, err := s.loadUser(ctx, userID); err != nil {
		return nil, err
	}
	cards, rules, err := s.loadActiveCards(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, appErrors.NotFound("NO_ACTIVE_CARDS", fmt.Sprintf("no active cards found for user %d", userID))
	}

	sim := &Simulation{
		UserID:              userID,
		MonthlySpend:        spend,
		Results:             make([]*CardSimulation, 0, len(cards)),
		MissedOpportunities: []MissedOpportunity{},
	}
	for _, c := range categories {
		sim.TotalMonthlySpend += spend[c]
	}
	sim.TotalMonthlySpend = round2(sim.TotalMonthlySpend)

	// best resolved rate per category across all cards
	bestRate := make(map[string]float64, len(categories))
	bestCard := make(map[string]uint, len(categories))

	for i, card := range cards {
		result := &CardSimulation{
			CardID:     card.ID,
			CardName:   card.Name,
			Bank:       card.Bank,
			RewardType: card.RewardType,
			Breakdown:  make([]CategoryBreakdown, 0, len(categories)),
		}

		var monthlyTotal float64
		for _, c := range categories {
			amount := spend[c]
			row := CategoryBreakdown{Category: c, MonthlySpend: amount}

			res := s.tables.Resolve(rules[i], c)
			if !res.Supported() {
				result.Breakdown = append(result.Breakdown, row)
				continue
			}

			monthlyRaw := amount * res.Rule.EarnRate / 100
			annual, capped := annualize(res.Rule, monthlyRaw)
			monthlyEquivalent := annual / 12
			monthlyTotal += monthlyEquivalent

			row.Supported = true
			row.RuleCategory = res.RuleCategory
			row.FallbackUsed = res.FallbackUsed
			row.EarnRate = res.Rule.EarnRate
			row.MonthlyReward = round2(monthlyEquivalent)
			row.AnnualReward = round2(annual)
			row.Cap = res.Rule.Cap
			if res.Rule.Cap != nil {
				row.CapPeriod = res.Rule.CapPeriod
			}
			row.CapApplied = capped
			result.Breakdown = append(result.Breakdown, row)

			if r, seen := bestRate[c]; !seen || res.Rule.EarnRate > r {
				bestRate[c] = res.Rule.EarnRate
				bestCard[c] = card.ID
			}
		}

		annualTotal := monthlyTotal * 12
		result.annualValue = s.tables.Value(annualTotal, card.RewardType)
		result.MonthlyRewards = round2(monthlyTotal)
		result.AnnualRewards = round2(annualTotal)
		result.AnnualValue = round2(result.annualValue)
		sim.Results = append(sim.Results, result)
	}

	sort.SliceStable(sim.Results, func(i, j int) bool {
		return sim.Results[i].annualValue > sim.Results[j].annualValue
	})
	sim.BestCard = sim.Results[0]
	sim.MissedOpportunities = s.missedOpportunities(categories, spend, bestRate, bestCard)
	return sim, nil
}

// normalizeSpend validates categories and amounts, merges categories that
// normalize to the same value, drops zero spend and returns the remaining
// categories in canonical order.
func (s *Service) normalizeSpend(monthly map[string]float64) (map[string]float64, []string, error) {
	if len(monthly) == 0 {
		return nil, nil, appErrors.Validation("EMPTY_SPEND", "at least one category amount is required", s.tables.Categories()...)
	}

	spend := make(map[string]float64, len(monthly))
	for raw, amount := range monthly {
		cat, err := s.tables.NormalizeCategory(raw)
		if err != nil {
			return nil, nil, err
		}
		if err := ValidateAmount("amount for "+cat, amount); err != nil {
			return nil, nil, err
		}
		if amount > 0 {
			spend[cat] += amount
		}
	}

	categories := make([]string, 0, len(spend))
	for c := range spend {
		categories = append(categories, c)
	}
	s.tables.sortCategories(categories)
	return spend, categories, nil
}

// missedOpportunities reports categories whose best available rate across
// all cards is at or below the low-rate threshold, independent of which
// card currently serves them.
func (s *Service) missedOpportunities(categories []string, spend, bestRate map[string]float64, bestCard map[string]uint) []MissedOpportunity {
	th := s.tables.thresholds
	out := []MissedOpportunity{}
	for _, c := range categories {
		best := bestRate[c]
		if best > th.LowRate {
			continue
		}
		uplift := spend[c] * 12 * (th.SuggestedRate - best) / 100
		out = append(out, MissedOpportunity{
			Category:        c,
			MonthlySpend:    spend[c],
			CurrentBestRate: best,
			BestCardID:      bestCard[c],
			SuggestedRate:   th.SuggestedRate,
			AnnualUplift:    round2(uplift),
		})
	}
	return out
}
