package repositories

import (
	"context"
	"errors"
	"fmt"

	"rewards/internal/models"

	"gorm.io/gorm"
)

type CatalogRepository interface {
	List(ctx context.Context) ([]*models.CatalogCard, error)
	// FindByNameBank matches name and bank case-insensitively.
	FindByNameBank(ctx context.Context, name, bank string) (*models.CatalogCard, error)
	// UpsertAll inserts each card or replaces the entry with the same name
	// and bank, rates included. The batch is written in one transaction.
	UpsertAll(ctx context.Context, cards []*models.CatalogCard) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) List(ctx context.Context) ([]*models.CatalogCard, error) {
	var cards []*models.CatalogCard
	err := r.db.WithContext(ctx).
		Preload("Rates", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("name ASC").Order("bank ASC").
		Find(&cards).Error
	if err != nil {
		return nil, translate(err, ErrCatalogCardNotFound, "list catalog")
	}
	return cards, nil
}

func (r *catalogRepository) FindByNameBank(ctx context.Context, name, bank string) (*models.CatalogCard, error) {
	var card models.CatalogCard
	err := r.db.WithContext(ctx).
		Preload("Rates").
		Where("LOWER(name) = LOWER(?) AND LOWER(bank) = LOWER(?)", name, bank).
		First(&card).Error
	if err != nil {
		return nil, translate(err, ErrCatalogCardNotFound, "find catalog card")
	}
	return &card, nil
}

func (r *catalogRepository) UpsertAll(ctx context.Context, cards []*models.CatalogCard) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, card := range cards {
			if err := upsertCatalogCard(tx, card); err != nil {
				return fmt.Errorf("catalog card %s (%s): %w", card.Name, card.Bank, err)
			}
		}
		return nil
	})
	if err != nil {
		return translate(err, ErrCatalogCardNotFound, "save catalog")
	}
	return nil
}

func upsertCatalogCard(tx *gorm.DB, card *models.CatalogCard) error {
	var existing models.CatalogCard
	err := tx.Where("LOWER(name) = LOWER(?) AND LOWER(bank) = LOWER(?)", card.Name, card.Bank).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		card.ID = 0
		for i := range card.Rates {
			card.Rates[i].ID = 0
			card.Rates[i].CatalogCardID = 0
		}
		return tx.Create(card).Error
	}
	if err != nil {
		return err
	}

	rates := card.Rates
	card.ID = existing.ID
	card.CreatedAt = existing.CreatedAt
	if err := tx.Omit("Rates").Save(card).Error; err != nil {
		return err
	}
	if err := tx.Where("catalog_card_id = ?", existing.ID).Delete(&models.CatalogRate{}).Error; err != nil {
		return err
	}
	for i := range rates {
		rates[i].ID = 0
		rates[i].CatalogCardID = existing.ID
	}
	if len(rates) > 0 {
		if err := tx.Create(&rates).Error; err != nil {
			return err
		}
	}
	card.Rates = rates
	return nil
}
