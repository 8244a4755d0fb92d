package rewards

// Estimate statuses.
const (
	StatusOK          = "ok"
	StatusUnsupported = "unsupported"
)

// Estimate is the valuation of one spend on one card.
type Estimate struct {
	Status            string   `json:"status"`
	CardID            uint     `json:"card_id"`
	CardName          string   `json:"card_name"`
	Bank              string   `json:"bank"`
	RewardType        string   `json:"reward_type"`
	AnnualFee         float64  `json:"annual_fee"`
	SpendAmount       float64  `json:"spend_amount"`
	RequestedCategory string   `json:"requested_category"`
	Category          string   `json:"category,omitempty"`
	EarnRate          *float64 `json:"earn_rate,omitempty"`
	RawReward         *float64 `json:"raw_reward,omitempty"`
	EstimatedValue    *float64 `json:"estimated_value,omitempty"`
	Cap               *float64 `json:"cap,omitempty"`
	CapPeriod         string   `json:"cap_period,omitempty"`
	CapApplied        bool     `json:"cap_applied"`
	Notes             string   `json:"notes,omitempty"`
	FallbackUsed      string   `json:"fallback_used,omitempty"`
	Checked           []string `json:"checked,omitempty"`
	Message           string   `json:"message,omitempty"`
	CloseTie          bool     `json:"close_tie,omitempty"`
	TradeOffNeeded    bool     `json:"trade_off_needed,omitempty"`

	// unrounded figures used for ordering
	raw    float64
	value  float64
	valued bool
}

// Supported reports whether the estimate carries a value.
func (e *Estimate) Supported() bool {
	return e.Status == StatusOK
}

// sortKey is the estimated value, falling back to the raw reward, and 0
// for unsupported estimates.
func (e *Estimate) sortKey() float64 {
	switch {
	case e.valued:
		return e.value
	case e.Supported():
		return e.raw
	default:
		return 0
	}
}

// Recommendation is every active card of a user valued for one spend.
type Recommendation struct {
	UserID         uint        `json:"user_id"`
	UserPreference string      `json:"user_preference"`
	SpendAmount    float64     `json:"spend_amount"`
	Category       string      `json:"category"`
	Estimates      []*Estimate `json:"estimates"`
	Reranked       bool        `json:"reranked"`
}

// RerankCandidate is one card offered to the external reranker.
type RerankCandidate struct {
	CardID         uint    `json:"card_id"`
	CardName       string  `json:"card_name"`
	Bank           string  `json:"bank"`
	RewardType     string  `json:"reward_type"`
	EstimatedValue float64 `json:"estimated_value"`
	AnnualFee      float64 `json:"annual_fee"`
}

// RerankRequest is the payload sent to the external reranker.
type RerankRequest struct {
	Preference  string            `json:"preference"`
	SpendAmount float64           `json:"spend_amount"`
	Category    string            `json:"category"`
	Candidates  []RerankCandidate `json:"candidates"`
}

// CategoryBreakdown is one category's contribution on one card in a
// simulation. Monthly figures are annual figures divided by twelve.
type CategoryBreakdown struct {
	Category      string   `json:"category"`
	MonthlySpend  float64  `json:"monthly_spend"`
	Supported     bool     `json:"supported"`
	RuleCategory  string   `json:"rule_category,omitempty"`
	FallbackUsed  string   `json:"fallback_used,omitempty"`
	EarnRate      float64  `json:"earn_rate"`
	MonthlyReward float64  `json:"monthly_reward"`
	AnnualReward  float64  `json:"annual_reward"`
	Cap           *float64 `json:"cap,omitempty"`
	CapPeriod     string   `json:"cap_period,omitempty"`
	CapApplied    bool     `json:"cap_applied"`
}

// CardSimulation is one card's annualized result.
type CardSimulation struct {
	CardID         uint                `json:"card_id"`
	CardName       string              `json:"card_name"`
	Bank           string              `json:"bank"`
	RewardType     string              `json:"reward_type"`
	MonthlyRewards float64             `json:"monthly_rewards"`
	AnnualRewards  float64             `json:"annual_rewards"`
	AnnualValue    float64             `json:"annual_value"`
	Breakdown      []CategoryBreakdown `json:"breakdown"`

	annualValue float64
}

// MissedOpportunity is a spending category no owned card rewards well.
type MissedOpportunity struct {
	Category        string  `json:"category"`
	MonthlySpend    float64 `json:"monthly_spend"`
	CurrentBestRate float64 `json:"current_best_rate"`
	BestCardID      uint    `json:"best_card_id,omitempty"`
	SuggestedRate   float64 `json:"suggested_rate"`
	AnnualUplift    float64 `json:"annual_uplift"`
}

// Simulation is the annualized outcome of a month of spend.
type Simulation struct {
	UserID              uint                `json:"user_id"`
	MonthlySpend        map[string]float64  `json:"monthly_spend"`
	TotalMonthlySpend   float64             `json:"total_monthly_spend"`
	Results             []*CardSimulation   `json:"results"`
	BestCard            *CardSimulation     `json:"best_card,omitempty"`
	MissedOpportunities []MissedOpportunity `json:"missed_opportunities"`
}

// Gap reasons.
const (
	GapNoCoverage = "no_coverage"
	GapLowRate    = "low_rate"
)

// CoverageEntry is one card's rate for a category.
type CoverageEntry struct {
	CardID   uint    `json:"card_id"`
	CardName string  `json:"card_name"`
	EarnRate float64 `json:"earn_rate"`
}

// Gap is an important category with no or weak coverage.
type Gap struct {
	Category     string  `json:"category"`
	Reason       string  `json:"reason"`
	BestRate     float64 `json:"best_rate"`
	BestCardID   uint    `json:"best_card_id,omitempty"`
	BestCardName string  `json:"best_card_name,omitempty"`
}

// Overlap is a category more than one owned card rewards at a high rate.
// It is informational.
type Overlap struct {
	Category string          `json:"category"`
	Cards    []CoverageEntry `json:"cards"`
}

// GapRecommendation is a catalog card that would fill a gap.
type GapRecommendation struct {
	Category          string  `json:"category"`
	CatalogCardID     uint    `json:"catalog_card_id"`
	CardName          string  `json:"card_name"`
	Bank              string  `json:"bank"`
	RewardType        string  `json:"reward_type"`
	EarnRate          float64 `json:"earn_rate"`
	CurrentRate       float64 `json:"current_rate"`
	AnnualFee         float64 `json:"annual_fee"`
	AnnualImprovement float64 `json:"annual_improvement"`
	NetValue          float64 `json:"net_value"`
	KeyBenefits       string  `json:"key_benefits,omitempty"`

	netValue float64
}

// WalletGaps is the coverage analysis of a user's active cards.
type WalletGaps struct {
	UserID             uint                        `json:"user_id"`
	Coverage           map[string][]CoverageEntry  `json:"coverage"`
	CardCoverage       map[uint]map[string]float64 `json:"card_coverage"`
	Gaps               []Gap                       `json:"gaps"`
	Overlaps           []Overlap                   `json:"overlaps"`
	Recommendations    []GapRecommendation         `json:"recommendations"`
	CatalogUnavailable bool                        `json:"catalog_unavailable,omitempty"`
}
