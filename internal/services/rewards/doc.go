/*
Package rewards is the reward valuation and recommendation engine.

The engine answers one question in several shapes: how much is it worth to
put a given spend in a given category on a given card.

	tables := rewards.TablesFromConfig(config.LoadEngine())
	svc := rewards.NewService(tables, userRepo, cardRepo, ruleRepo, catalogSvc, overrideRepo, rewards.Options{})

	// One card
	est, err := svc.EstimateReward(ctx, cardID, 2500, "dining")

	// Every active card of a user, best first
	rec, err := svc.RecommendBestCard(ctx, userID, 2500, "dining")

	// A month of spend, annualized per card
	sim, err := svc.SimulateMonthlySpend(ctx, userID, map[string]float64{"dining": 8000, "fuel": 3000})

	// Portfolio gaps and catalog cards that would fill them
	gaps, err := svc.AnalyzeWalletGaps(ctx, userID)

Pipeline:

Category normalization → rule resolution (exact, general, other) → reward
calculation (rate and cap) → value normalization (per reward type
multiplier). Rounding to two decimals happens only when results are built.

Tables:

Categories, the merchant table, value multipliers and thresholds live in an
immutable Tables value built at startup and shared by all goroutines.

Errors:

Invalid input returns a validation DomainError listing the accepted values.
Unknown users and cards return a not-found DomainError. A card without an
applicable rule is not an error: the estimate carries Status "unsupported"
and the categories that were checked. Storage failures are wrapped as
collaborator errors. The optional external reranker never produces an
error; its failures are logged and the value order is kept.
*/
package rewards
