package rewards

import (
	"context"
	"log"
	"sort"
	"strings"

	appErrors "rewards/internal/errors"
	"rewards/internal/models"

	"golang.org/x/text/cases"
)

// Confidence values for classifications that do not come from an override.
const (
	StaticMatchConfidence = 0.8
	FallbackConfidence    = 0.5
)

// Classification sources.
const (
	SourceOverride  = "override"
	SourceExact     = "exact"
	SourceSubstring = "substring"
	SourceFallback  = "fallback"
)

// minReverseMatchLen guards the merchant-inside-key direction so that very
// short inputs do not match whatever key happens to contain them.
const minReverseMatchLen = 3

// defaultMerchants maps lowercase merchant keys to canonical categories.
var defaultMerchants = map[string]string{
	// Food delivery & restaurants
	"swiggy":    CategoryDining,
	"zomato":    CategoryDining,
	"uber eats": CategoryDining,
	"doordash":  CategoryDining,
	"starbucks": CategoryDining,
	"dominos":   CategoryDining,
	"mcdonalds": CategoryDining,

	// Travel
	"uber":       CategoryTravel,
	"ola cabs":   CategoryTravel,
	"makemytrip": CategoryTravel,
	"indigo":     CategoryTravel,
	"irctc":      CategoryTravel,
	"airbnb":     CategoryTravel,
	"expedia":    CategoryTravel,
	"marriott":   CategoryTravel,

	// Online & shopping
	"amazon":   CategoryOnline,
	"flipkart": CategoryOnline,
	"myntra":   CategoryShopping,
	"ajio":     CategoryShopping,
	"target":   CategoryShopping,
	"ikea":     CategoryShopping,

	// Groceries
	"bigbasket":   CategoryGroceries,
	"blinkit":     CategoryGroceries,
	"dmart":       CategoryGroceries,
	"whole foods": CategoryGroceries,
	"costco":      CategoryGroceries,
	"walmart":     CategoryGroceries,

	// Fuel
	"indian oil":       CategoryFuel,
	"bharat petroleum": CategoryFuel,
	"hp petrol":        CategoryFuel,

	// Gas stations
	"shell":   CategoryGas,
	"chevron": CategoryGas,
	"exxon":   CategoryGas,
}

type merchantEntry struct {
	key      string
	category string
}

// buildMerchantEntries fixes the scan order: longest key first, then
// alphabetical. The first substring hit in this order wins.
func buildMerchantEntries(table map[string]string) []merchantEntry {
	entries := make([]merchantEntry, 0, len(table))
	for k, v := range table {
		k = foldMerchant(k)
		if k == "" {
			continue
		}
		entries = append(entries, merchantEntry{key: k, category: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].key) != len(entries[j].key) {
			return len(entries[i].key) > len(entries[j].key)
		}
		return entries[i].key < entries[j].key
	})
	return entries
}

func foldMerchant(name string) string {
	return strings.Join(strings.Fields(cases.Fold().String(name)), " ")
}

// Classification is the suggested category for a merchant name.
type Classification struct {
	Merchant          string  `json:"merchant"`
	SuggestedCategory string  `json:"suggested_category"`
	Confidence        float64 `json:"confidence"`
	Source            string  `json:"source"`
	MatchedKey        string  `json:"matched_key,omitempty"`
}

// OverrideStore persists merchant→category corrections.
type OverrideStore interface {
	GetByMerchant(ctx context.Context, merchant string) (*models.MerchantOverride, error)
	Upsert(ctx context.Context, override *models.MerchantOverride) error
}

// Classifier maps free-text merchant names onto canonical categories.
type Classifier struct {
	tables    *Tables
	overrides OverrideStore
}

// NewClassifier creates a classifier. overrides may be nil.
func NewClassifier(tables *Tables, overrides OverrideStore) *Classifier {
	if tables == nil {
		panic("tables are required")
	}
	return &Classifier{tables: tables, overrides: overrides}
}

// Classify never fails: the worst case is a low-confidence "other".
func (c *Classifier) Classify(ctx context.Context, merchant string) Classification {
	name := foldMerchant(merchant)
	result := Classification{Merchant: merchant}

	if name != "" && c.overrides != nil {
		o, err := c.overrides.GetByMerchant(ctx, name)
		switch {
		case err == nil && o != nil && c.tables.IsCategory(o.Category):
			result.SuggestedCategory = o.Category
			result.Confidence = o.Confidence
			result.Source = SourceOverride
			result.MatchedKey = o.Merchant
			return result
		case err != nil && appErrors.KindOf(err) != appErrors.KindNotFound:
			log.Printf("merchant override lookup failed for %q: %v", name, err)
		}
	}

	if category, key, source, ok := c.matchStatic(name); ok {
		result.SuggestedCategory = category
		result.Confidence = StaticMatchConfidence
		result.Source = source
		result.MatchedKey = key
		return result
	}

	result.SuggestedCategory = CategoryOther
	result.Confidence = FallbackConfidence
	result.Source = SourceFallback
	return result
}

func (c *Classifier) matchStatic(name string) (category, key, source string, ok bool) {
	if name == "" {
		return "", "", "", false
	}
	for _, e := range c.tables.merchants {
		if e.key == name {
			return e.category, e.key, SourceExact, true
		}
	}
	for _, e := range c.tables.merchants {
		if strings.Contains(name, e.key) ||
			(len(name) >= minReverseMatchLen && strings.Contains(e.key, name)) {
			return e.category, e.key, SourceSubstring, true
		}
	}
	return "", "", "", false
}

// SetOverride persists a merchant correction. The category must be
// canonical and confidence within [0, 1].
func (c *Classifier) SetOverride(ctx context.Context, merchant, category string, confidence float64) (*models.MerchantOverride, error) {
	if c.overrides == nil {
		return nil, appErrors.Collaborator("merchant overrides are not configured", nil)
	}
	name := foldMerchant(merchant)
	if name == "" {
		return nil, appErrors.Validation("INVALID_MERCHANT", "merchant must not be empty")
	}
	cat, err := c.tables.NormalizeCategory(category)
	if err != nil {
		return nil, err
	}
	if confidence < 0 || confidence > 1 {
		return nil, appErrors.Validation("INVALID_CONFIDENCE", "confidence must be between 0 and 1")
	}

	o := &models.MerchantOverride{Merchant: name, Category: cat, Confidence: confidence}
	if err := c.overrides.Upsert(ctx, o); err != nil {
		return nil, wrapStorage("failed to save merchant override", err)
	}
	return o, nil
}
