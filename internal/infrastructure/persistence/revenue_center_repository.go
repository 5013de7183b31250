package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRevenueCenterRepository implements revenue.RevenueCenterRepository using GORM
type GormRevenueCenterRepository struct {
	db *gorm.DB
}

// NewGormRevenueCenterRepository creates a new GormRevenueCenterRepository
func NewGormRevenueCenterRepository(db *gorm.DB) *GormRevenueCenterRepository {
	return &GormRevenueCenterRepository{db: db}
}

// Create inserts rc and fills in its generated id and timestamps
func (r *GormRevenueCenterRepository) Create(ctx context.Context, rc *revenue.RevenueCenter) error {
	model := &models.RevenueCenterModel{}
	model.FromDomain(rc)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return translateWriteError(err)
	}
	rc.ID = model.ID
	rc.CreatedAt = model.CreatedAt
	rc.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID finds a revenue center by its ID
func (r *GormRevenueCenterRepository) FindByID(ctx context.Context, id uint) (*revenue.RevenueCenter, error) {
	var model models.RevenueCenterModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound(fmt.Sprintf("revenue center %d not found", id))
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists revenue centers matching filter
func (r *GormRevenueCenterRepository) FindAll(ctx context.Context, filter revenue.RevenueCenterFilter, page shared.Page) ([]revenue.RevenueCenter, int64, error) {
	where := predicates{}.
		when(filter.StatusID != nil, "status_id = ?", derefUint(filter.StatusID)).
		when(filter.CostCenterProjectID != nil, "cost_center_project_id = ?", derefUint(filter.CostCenterProjectID))

	query := where.apply(r.db.WithContext(ctx).Model(&models.RevenueCenterModel{})).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, RevenueCenterSortFields, "id")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var records []models.RevenueCenterModel
	if err := paginate(query.Order(orderBy+" "+orderDir), page).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	result := make([]revenue.RevenueCenter, 0, len(records))
	for i := range records {
		result = append(result, *records[i].ToDomain())
	}
	return result, total, nil
}

// Update writes every mutable column of rc if the stored version still
// matches rc.Version, then advances rc.Version.
func (r *GormRevenueCenterRepository) Update(ctx context.Context, rc *revenue.RevenueCenter) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.RevenueCenterModel{}).
		Where("id = ? AND version = ?", rc.ID, rc.Version).
		Updates(map[string]any{
			"name":                   rc.Name,
			"cost_center_project_id": rc.CostCenterProjectID,
			"status_id":              rc.StatusID,
			"quotation_id":           rc.QuotationID,
			"from_date":              rc.FromDate,
			"to_date":                rc.ToDate,
			"invoice":                rc.Invoice,
			"spend":                  rc.Spend,
			"utility":                rc.Utility,
			"version":                gorm.Expr("version + 1"),
			"updated_at":             now,
		})
	if result.Error != nil {
		return translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, rc.ID)
	}
	rc.Version++
	rc.UpdatedAt = now
	return nil
}

// UpdateSnapshot stores a recomputed spend if version is still current.
func (r *GormRevenueCenterRepository) UpdateSnapshot(ctx context.Context, id uint, version int, spend string) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&models.RevenueCenterModel{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]any{
			"spend":      spend,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, r.missingOrStale(ctx, id)
	}
	return version + 1, nil
}

// missingOrStale tells apart a deleted row from a concurrent modification
// after a versioned write matched nothing.
func (r *GormRevenueCenterRepository) missingOrStale(ctx context.Context, id uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RevenueCenterModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.NotFound(fmt.Sprintf("revenue center %d not found", id))
	}
	return shared.ErrConcurrencyConflict
}

// translateWriteError maps constraint violations reported by the driver to
// input errors. It relies on gorm.Config.TranslateError.
func translateWriteError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.InvalidInput("idCostCenterProject - A revenue center already exists for this cost center project")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.InvalidInput("idCostCenterProject - Cost center project does not exist")
	default:
		return err
	}
}
