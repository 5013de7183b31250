package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormQuotationRepository implements revenue.QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindQuotationItemDetailsByQuotationID returns budgeted and contracted
// quantities per input of a quotation.
func (r *GormQuotationRepository) FindQuotationItemDetailsByQuotationID(ctx context.Context, quotationID uint) ([]revenue.QuotationItemLookup, error) {
	var records []struct {
		InputID    uint
		Budgeted   decimal.Decimal
		Contracted decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.QuotationItemDetailModel{}).
		Select("input_id, COALESCE(SUM(budgeted), 0) AS budgeted, COALESCE(SUM(contracted), 0) AS contracted").
		Where("quotation_id = ?", quotationID).
		Group("input_id").
		Order("input_id").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	lookups := make([]revenue.QuotationItemLookup, 0, len(records))
	for _, rec := range records {
		lookups = append(lookups, revenue.QuotationItemLookup{
			InputID:    rec.InputID,
			Budgeted:   rec.Budgeted,
			Contracted: rec.Contracted,
		})
	}
	return lookups, nil
}
