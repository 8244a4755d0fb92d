// Package catalog imports the reference card catalog and serves it, cached,
// to gap analysis and card seeding.
package catalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	appErrors "rewards/internal/errors"
	"rewards/internal/models"
	"rewards/internal/services/rewards"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Store persists catalog cards.
type Store interface {
	List(ctx context.Context) ([]*models.CatalogCard, error)
	UpsertAll(ctx context.Context, cards []*models.CatalogCard) error
}

// Cache holds the whole catalog under one key.
type Cache interface {
	GetCatalog(ctx context.Context) ([]*models.CatalogCard, bool, error)
	CacheCatalog(ctx context.Context, cards []*models.CatalogCard, ttl time.Duration) error
	InvalidateCatalog(ctx context.Context) error
}

// Entry is one card in a catalog file.
type Entry struct {
	Name           string             `yaml:"name"`
	Bank           string             `yaml:"bank"`
	RewardType     string             `yaml:"reward_type"`
	AnnualFee      float64            `yaml:"annual_fee"`
	KeyBenefits    string             `yaml:"key_benefits"`
	TargetAudience string             `yaml:"target_audience"`
	MinIncome      *float64           `yaml:"min_income"`
	PointValue     float64            `yaml:"point_value"`
	Approximate    bool               `yaml:"approximate"`
	Categories     map[string]float64 `yaml:"categories"`
}

// file is the wrapped form of a catalog file: {cards: [...]}.
type file struct {
	Cards []Entry `yaml:"cards"`
}

// ImportResult summarizes an import.
type ImportResult struct {
	Batch    string   `json:"batch"`
	Imported int      `json:"imported"`
	Cards    []string `json:"cards"`
}

type Service struct {
	tables *rewards.Tables
	store  Store
	cache  Cache
	ttl    time.Duration
}

// NewService creates a catalog service. cache may be nil.
func NewService(tables *rewards.Tables, store Store, cache Cache, ttl time.Duration) *Service {
	if tables == nil || store == nil {
		panic("tables and store are required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{tables: tables, store: store, cache: cache, ttl: ttl}
}

// Parse reads a catalog file. Both a bare list and {cards: [...]} are
// accepted, in YAML or JSON.
func Parse(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, appErrors.Validation("INVALID_CATALOG", "catalog is not valid YAML or JSON: "+err.Error())
	}
	if len(root.Content) == 0 {
		return nil, appErrors.Validation("INVALID_CATALOG", "catalog is empty")
	}

	doc := root.Content[0]
	var entries []Entry
	switch doc.Kind {
	case yaml.SequenceNode:
		err = doc.Decode(&entries)
	case yaml.MappingNode:
		var f file
		err = doc.Decode(&f)
		entries = f.Cards
	default:
		return nil, appErrors.Validation("INVALID_CATALOG", "catalog must be a list of cards")
	}
	if err != nil {
		return nil, appErrors.Validation("INVALID_CATALOG", "catalog has an invalid entry: "+err.Error())
	}
	return entries, nil
}

// Import validates every entry, then upserts them by name and bank in one
// batch. Nothing is written when any entry is invalid or the batch fails.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	entries, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, appErrors.Validation("INVALID_CATALOG", "catalog has no cards")
	}

	batch := uuid.New().String()
	cards := make([]*models.CatalogCard, 0, len(entries))
	for i, e := range entries {
		card, err := s.toModel(e, batch)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i+1, e.Name, err)
		}
		cards = append(cards, card)
	}

	if err := s.store.UpsertAll(ctx, cards); err != nil {
		return nil, appErrors.Collaborator("failed to save catalog", err)
	}
	s.invalidate(ctx)

	result := &ImportResult{Batch: batch, Imported: len(cards), Cards: make([]string, 0, len(cards))}
	for _, card := range cards {
		result.Cards = append(result.Cards, card.Name)
	}

	log.Printf("📇 Catalog batch %s imported %d cards", batch, result.Imported)
	return result, nil
}

func (s *Service) toModel(e Entry, batch string) (*models.CatalogCard, error) {
	name := strings.TrimSpace(e.Name)
	bank := strings.TrimSpace(e.Bank)
	if name == "" || bank == "" {
		return nil, appErrors.Validation("INVALID_CATALOG", "name and bank are required")
	}
	rewardType, err := rewards.ValidateRewardType(e.RewardType)
	if err != nil {
		return nil, err
	}
	if err := rewards.ValidateAmount("annual_fee", e.AnnualFee); err != nil {
		return nil, err
	}

	rates := make(map[string]float64, len(e.Categories))
	for raw, rate := range e.Categories {
		cat, err := s.tables.NormalizeCategory(raw)
		if err != nil {
			return nil, err
		}
		if err := rewards.ValidateAmount("rate for "+cat, rate); err != nil {
			return nil, err
		}
		rates[cat] = rate
	}

	card := &models.CatalogCard{
		Name:           name,
		Bank:           bank,
		RewardType:     rewardType,
		AnnualFee:      e.AnnualFee,
		KeyBenefits:    strings.TrimSpace(e.KeyBenefits),
		TargetAudience: strings.TrimSpace(e.TargetAudience),
		MinIncome:      e.MinIncome,
		PointValue:     e.PointValue,
		Approximate:    e.Approximate,
		ImportBatch:    batch,
	}
	for _, cat := range s.tables.Categories() {
		if rate, ok := rates[cat]; ok {
			card.Rates = append(card.Rates, models.CatalogRate{Category: cat, EarnRate: rate})
		}
	}
	return card, nil
}

// List returns the catalog, from cache when possible. Cache failures fall
// back to the store.
func (s *Service) List(ctx context.Context) ([]*models.CatalogCard, error) {
	if s.cache != nil {
		cards, found, err := s.cache.GetCatalog(ctx)
		if err != nil {
			log.Printf("catalog cache read failed: %v", err)
		} else if found {
			return cards, nil
		}
	}

	cards, err := s.store.List(ctx)
	if err != nil {
		return nil, appErrors.Collaborator("failed to load catalog", err)
	}
	if s.cache != nil {
		if err := s.cache.CacheCatalog(ctx, cards, s.ttl); err != nil {
			log.Printf("failed to cache catalog: %v", err)
		}
	}
	return cards, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCatalog(ctx); err != nil {
		log.Printf("failed to invalidate catalog cache: %v", err)
	}
}
