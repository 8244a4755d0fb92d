package rewards

import (
	"math"
	"sort"
	"strings"

	"rewards/internal/config"
	appErrors "rewards/internal/errors"
	"rewards/internal/models"
)

// Canonical categories in their fixed order.
const (
	CategoryTravel    = "travel"
	CategoryDining    = "dining"
	CategoryShopping  = "shopping"
	CategoryOnline    = "online"
	CategoryFuel      = "fuel"
	CategoryGas       = "gas"
	CategoryGroceries = "groceries"
	CategoryGeneral   = "general"
	CategoryOther     = "other"
)

var defaultCategories = []string{
	CategoryTravel, CategoryDining, CategoryShopping, CategoryOnline, CategoryFuel,
	CategoryGas, CategoryGroceries, CategoryGeneral, CategoryOther,
}

var defaultImportant = []string{CategoryGroceries, CategoryDining, CategoryTravel, CategoryGas}

var rewardTypes = []string{models.RewardTypePoints, models.RewardTypeMiles, models.RewardTypeCashback}

var preferences = []string{models.PreferenceTravel, models.PreferenceCashback, models.PreferenceBalanced}

var capPeriods = []string{models.CapPeriodTransaction, models.CapPeriodMonthly, models.CapPeriodAnnual}

// Thresholds are the fixed numeric knobs of ranking, simulation and gap
// analysis. Rates are percentages.
type Thresholds struct {
	CloseTieRatio         float64
	RerankRatio           float64
	LowRate               float64
	HighRate              float64
	SuggestedRate         float64
	ReferenceMonthlySpend float64
	MaxRecommendations    int
}

// DefaultThresholds returns the thresholds the engine ships with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CloseTieRatio:         0.10,
		RerankRatio:           0.05,
		LowRate:               1.5,
		HighRate:              3.0,
		SuggestedRate:         3.0,
		ReferenceMonthlySpend: 500,
		MaxRecommendations:    5,
	}
}

// Tables is the immutable configuration of the engine. Build it once with
// NewTables, TablesFromConfig or DefaultTables and share it.
type Tables struct {
	categories  []string
	categoryIdx map[string]int
	fallback    []string
	important   []string
	merchants   []merchantEntry
	multipliers map[string]float64
	thresholds  Thresholds
}

// NewTables builds tables from explicit values. categories must include
// "general" and "other"; merchants maps lowercase merchant keys to
// categories.
func NewTables(categories []string, merchants map[string]string, multipliers map[string]float64, thresholds Thresholds) *Tables {
	t := &Tables{
		categories:  make([]string, 0, len(categories)),
		categoryIdx: make(map[string]int, len(categories)),
		fallback:    []string{CategoryGeneral, CategoryOther},
		multipliers: make(map[string]float64, len(multipliers)),
		thresholds:  thresholds,
	}
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if _, dup := t.categoryIdx[c]; dup || c == "" {
			continue
		}
		t.categoryIdx[c] = len(t.categories)
		t.categories = append(t.categories, c)
	}
	for _, c := range defaultImportant {
		if _, ok := t.categoryIdx[c]; ok {
			t.important = append(t.important, c)
		}
	}
	for k, v := range multipliers {
		t.multipliers[k] = v
	}
	t.merchants = buildMerchantEntries(merchants)
	return t
}

// DefaultTables returns tables with the built-in category set, merchant
// table and multipliers.
func DefaultTables() *Tables {
	return NewTables(defaultCategories, defaultMerchants, map[string]float64{
		models.RewardTypePoints:   0.25,
		models.RewardTypeMiles:    1.0,
		models.RewardTypeCashback: 1.0,
	}, DefaultThresholds())
}

// TablesFromConfig returns the default tables with multipliers taken from cfg.
func TablesFromConfig(cfg config.Engine) *Tables {
	return NewTables(defaultCategories, defaultMerchants, map[string]float64{
		models.RewardTypePoints:   cfg.PointsValue,
		models.RewardTypeMiles:    cfg.MilesValue,
		models.RewardTypeCashback: cfg.CashbackValue,
	}, DefaultThresholds())
}

// Categories returns the canonical categories in order.
func (t *Tables) Categories() []string {
	return append([]string(nil), t.categories...)
}

// ImportantCategories returns the categories gap analysis checks.
func (t *Tables) ImportantCategories() []string {
	return append([]string(nil), t.important...)
}

func (t *Tables) Thresholds() Thresholds {
	return t.thresholds
}

// IsCategory reports whether c is canonical. c must already be normalized.
func (t *Tables) IsCategory(c string) bool {
	_, ok := t.categoryIdx[c]
	return ok
}

// NormalizeCategory lowercases and trims raw and checks it against the
// canonical set. Non-canonical input is rejected, never mapped.
func (t *Tables) NormalizeCategory(raw string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(raw))
	if !t.IsCategory(c) {
		return "", appErrors.Validation("INVALID_CATEGORY",
			"category '"+raw+"' is not supported, ask which canonical category applies", t.Categories()...)
	}
	return c, nil
}

// Multiplier returns the monetary value of one reward unit. Unknown reward
// types are valued at 1.0.
func (t *Tables) Multiplier(rewardType string) float64 {
	if m, ok := t.multipliers[rewardType]; ok {
		return m
	}
	return 1.0
}

// Value converts a raw reward quantity into money. Unrounded.
func (t *Tables) Value(raw float64, rewardType string) float64 {
	return raw * t.Multiplier(rewardType)
}

// sortCategories orders cats by canonical position, unknown ones last by name.
func (t *Tables) sortCategories(cats []string) {
	sort.SliceStable(cats, func(i, j int) bool {
		ii, iok := t.categoryIdx[cats[i]]
		jj, jok := t.categoryIdx[cats[j]]
		switch {
		case iok && jok:
			return ii < jj
		case iok != jok:
			return iok
		default:
			return cats[i] < cats[j]
		}
	})
}

// ValidateRewardType checks a reward type against the supported set.
func ValidateRewardType(rewardType string) (string, error) {
	rt := strings.ToLower(strings.TrimSpace(rewardType))
	for _, v := range rewardTypes {
		if v == rt {
			return rt, nil
		}
	}
	return "", appErrors.Validation("INVALID_REWARD_TYPE", "reward_type '"+rewardType+"' is not supported", rewardTypes...)
}

// ValidatePreference checks a user preference; empty means balanced.
func ValidatePreference(pref string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(pref))
	if p == "" {
		return models.PreferenceBalanced, nil
	}
	for _, v := range preferences {
		if v == p {
			return p, nil
		}
	}
	return "", appErrors.Validation("INVALID_PREFERENCE", "preference '"+pref+"' is not supported", preferences...)
}

// ValidateCapPeriod checks a cap period; empty means monthly.
func ValidateCapPeriod(period string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(period))
	if p == "" {
		return models.CapPeriodMonthly, nil
	}
	for _, v := range capPeriods {
		if v == p {
			return p, nil
		}
	}
	return "", appErrors.Validation("INVALID_CAP_PERIOD", "cap_period '"+period+"' is not supported", capPeriods...)
}

// ValidateAmount rejects negative spend.
func ValidateAmount(field string, amount float64) error {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return appErrors.Validation("INVALID_AMOUNT", field+" must be a non-negative number")
	}
	return nil
}
