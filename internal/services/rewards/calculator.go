package rewards

import (
	"math"

	"rewards/internal/models"

	"github.com/shopspring/decimal"
)

// Reward is the raw reward of a single evaluation, before valuation.
type Reward struct {
	Uncapped   float64
	Raw        float64
	CapApplied bool
}

// Calculate applies the earn rate and, when present, the cap of rule to
// spend. A single evaluation can never earn past the cap whatever its
// period. Results are not rounded.
func Calculate(rule *models.RewardRule, spend float64) Reward {
	base := spend * rule.EarnRate / 100
	r := Reward{Uncapped: base, Raw: base}
	if rule.Cap != nil && base > *rule.Cap {
		r.Raw = *rule.Cap
		r.CapApplied = true
	}
	return r
}

// annualize projects a monthly raw reward over a year under rule's cap.
// Monthly and per-transaction caps bound every month; an annual cap bounds
// the year. The returned annual figure is unrounded.
func annualize(rule *models.RewardRule, monthlyRaw float64) (annual float64, capApplied bool) {
	annual = monthlyRaw * 12
	if rule.Cap == nil {
		return annual, false
	}
	limit := *rule.Cap * 12
	if rule.CapPeriod == models.CapPeriodAnnual {
		limit = *rule.Cap
	}
	if annual > limit {
		return limit, true
	}
	return annual, false
}

// round2 rounds v half away from zero to two decimals. Only results
// handed to callers are rounded.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
