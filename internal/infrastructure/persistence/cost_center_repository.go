package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCostCenterRepository implements revenue.CostCenterRepository using GORM
type GormCostCenterRepository struct {
	db *gorm.DB
}

// NewGormCostCenterRepository creates a new GormCostCenterRepository
func NewGormCostCenterRepository(db *gorm.DB) *GormCostCenterRepository {
	return &GormCostCenterRepository{db: db}
}

// FindByID finds a cost center project by its ID
func (r *GormCostCenterRepository) FindByID(ctx context.Context, id uint) (*revenue.CostCenterProject, error) {
	var model models.CostCenterProjectModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NotFound(fmt.Sprintf("cost center project %d not found", id))
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllProjectItem lists the project items of a cost center project ordered by id
func (r *GormCostCenterRepository) FindAllProjectItem(ctx context.Context, filter revenue.ProjectItemFilter, page shared.Page) ([]revenue.ProjectItem, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ProjectItemModel{}).
		Where("cost_center_project_id = ?", filter.CostCenterProjectID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.ProjectItemModel
	if err := paginate(query.Order("id"), page).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	items := make([]revenue.ProjectItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].ToDomain())
	}
	return items, total, nil
}
