package rewards

import "rewards/internal/models"

// Resolution is the outcome of looking up the rule that applies to a
// category on one card.
type Resolution struct {
	Rule *models.RewardRule
	// RuleCategory is the category of the rule that matched; it differs
	// from the requested one when a fallback was used.
	RuleCategory string
	FallbackUsed string
	Checked      []string
}

// Supported reports whether any rule in the chain applied.
func (r Resolution) Supported() bool {
	return r.Rule != nil
}

// FallbackChain returns the ordered categories tried for category:
// the category itself, then "general", then "other", without repeats.
func (t *Tables) FallbackChain(category string) []string {
	chain := make([]string, 0, len(t.fallback)+1)
	chain = append(chain, category)
	for _, f := range t.fallback {
		if f != category {
			chain = append(chain, f)
		}
	}
	return chain
}

// Resolve picks the rule for category from rules, walking the fallback
// chain with early exit. category must be normalized. When a card holds
// duplicate rules for a category the first one wins.
func (t *Tables) Resolve(rules []*models.RewardRule, category string) Resolution {
	byCategory := make(map[string]*models.RewardRule, len(rules))
	for _, r := range rules {
		if r == nil {
			continue
		}
		if _, dup := byCategory[r.Category]; !dup {
			byCategory[r.Category] = r
		}
	}

	chain := t.FallbackChain(category)
	for i, c := range chain {
		rule, ok := byCategory[c]
		if !ok {
			continue
		}
		res := Resolution{Rule: rule, RuleCategory: rule.Category, Checked: chain[:i+1]}
		if i > 0 {
			res.FallbackUsed = c
		}
		return res
	}
	return Resolution{Checked: chain}
}
