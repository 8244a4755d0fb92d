package config

import "time"

// Engine holds the process-wide settings of the valuation engine. It is
// read once at startup.
type Engine struct {
	// Monetary value of one reward unit per reward type.
	PointsValue   float64
	MilesValue    float64
	CashbackValue float64

	// External ranking collaborator. An empty URL disables it.
	RankingURL     string
	RankingAPIKey  string
	RankingTimeout time.Duration

	CatalogCacheTTL time.Duration
}

// LoadEngine reads engine settings from the environment.
func LoadEngine() Engine {
	return Engine{
		PointsValue:     GetFloatEnv("REWARD_VALUE_POINTS", 0.25),
		MilesValue:      GetFloatEnv("REWARD_VALUE_MILES", 1.0),
		CashbackValue:   GetFloatEnv("REWARD_VALUE_CASHBACK", 1.0),
		RankingURL:      GetEnv("RANKING_URL", ""),
		RankingAPIKey:   GetEnv("RANKING_API_KEY", ""),
		RankingTimeout:  GetDurationEnv("RANKING_TIMEOUT", 2*time.Second),
		CatalogCacheTTL: GetDurationEnv("CATALOG_CACHE_TTL", time.Hour),
	}
}
