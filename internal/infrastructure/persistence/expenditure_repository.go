package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpenditureRepository implements revenue.ExpenditureRepository using GORM
type GormExpenditureRepository struct {
	db *gorm.DB
}

// NewGormExpenditureRepository creates a new GormExpenditureRepository
func NewGormExpenditureRepository(db *gorm.DB) *GormExpenditureRepository {
	return &GormExpenditureRepository{db: db}
}

// FindAll lists expenditures of a cost center project, newest first
func (r *GormExpenditureRepository) FindAll(ctx context.Context, page shared.Page, filter revenue.ExpenditureFilter) ([]revenue.Expenditure, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ExpenditureModel{}).
		Where("cost_center_project_id = ?", filter.CostCenterProjectID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.ExpenditureModel
	if err := paginate(query.Order("expenditure_date DESC, id DESC"), page).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	result := make([]revenue.Expenditure, 0, len(records))
	for i := range records {
		result = append(result, records[i].ToDomain())
	}
	return result, total, nil
}

// FindAllValues sums expenditure values per cost center project
func (r *GormExpenditureRepository) FindAllValues(ctx context.Context) ([]revenue.ExpenditureValue, error) {
	var records []struct {
		CostCenterProjectID uint
		TotalValue          decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.ExpenditureModel{}).
		Select("cost_center_project_id, COALESCE(SUM(total_value), 0) AS total_value").
		Group("cost_center_project_id").
		Order("cost_center_project_id").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	values := make([]revenue.ExpenditureValue, 0, len(records))
	for _, rec := range records {
		values = append(values, revenue.ExpenditureValue{
			CostCenterProjectID: rec.CostCenterProjectID,
			TotalValue:          rec.TotalValue,
		})
	}
	return values, nil
}
