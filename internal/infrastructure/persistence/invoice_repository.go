package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements revenue.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindAllByRevenueCenter lists the invoices issued for a revenue center
func (r *GormInvoiceRepository) FindAllByRevenueCenter(ctx context.Context, filter revenue.InvoiceFilter, page shared.Page) ([]revenue.Invoice, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("revenue_center_id = ?", filter.RevenueCenterID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.InvoiceModel
	if err := paginate(query.Order("invoice_date, id"), page).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]revenue.Invoice, 0, len(records))
	for i := range records {
		invoices = append(invoices, records[i].ToDomain())
	}
	return invoices, total, nil
}

// FindAllInvoices returns every invoice regardless of revenue center
func (r *GormInvoiceRepository) FindAllInvoices(ctx context.Context) ([]revenue.Invoice, error) {
	var records []models.InvoiceModel
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}

	invoices := make([]revenue.Invoice, 0, len(records))
	for i := range records {
		invoices = append(invoices, records[i].ToDomain())
	}
	return invoices, nil
}

// FindAllInvoiceProjectItems returns the complete allocation table
func (r *GormInvoiceRepository) FindAllInvoiceProjectItems(ctx context.Context) ([]revenue.InvoiceProjectItem, error) {
	var records []models.InvoiceProjectItemModel
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}

	allocations := make([]revenue.InvoiceProjectItem, 0, len(records))
	for i := range records {
		allocations = append(allocations, records[i].ToDomain())
	}
	return allocations, nil
}
