package revenue

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
)

// RevenueCenterRepository persists revenue centers.
type RevenueCenterRepository interface {
	Create(ctx context.Context, rc *RevenueCenter) error
	FindByID(ctx context.Context, id uint) (*RevenueCenter, error)
	FindAll(ctx context.Context, filter RevenueCenterFilter, page shared.Page) ([]RevenueCenter, int64, error)
	// Update writes rc if its version still matches and bumps rc.Version.
	Update(ctx context.Context, rc *RevenueCenter) error
	// UpdateSnapshot writes the spend snapshot if the stored version equals version
	// and returns the new version. A mismatch yields shared.ErrConcurrencyConflict.
	UpdateSnapshot(ctx context.Context, id uint, version int, spend string) (int, error)
}

// ReportRepository runs the analytical queries behind the revenue center views.
type ReportRepository interface {
	FindAllWorkTracking(ctx context.Context, page shared.Page, filter WorkTrackingFilter) (*RowSet[WorkTrackingRow], error)
	FindInputValues(ctx context.Context) ([]InputValue, error)
	FindAllInput(ctx context.Context, page shared.Page, filter InputFilter) (*RowSet[InputConsumptionRow], error)
	FindAllQuotation(ctx context.Context, page shared.Page, filter QuotationFilter) (*RowSet[QuotationSummaryRow], error)
	FindAllMaterialSummaryDetail(ctx context.Context, page shared.Page, filter MaterialSummaryFilter) (*RowSet[MaterialSummaryRow], error)
}

// CostCenterRepository reads cost center projects and their contracted items.
type CostCenterRepository interface {
	FindByID(ctx context.Context, id uint) (*CostCenterProject, error)
	FindAllProjectItem(ctx context.Context, filter ProjectItemFilter, page shared.Page) ([]ProjectItem, int64, error)
}

// ExpenditureRepository reads expenditures.
type ExpenditureRepository interface {
	FindAll(ctx context.Context, page shared.Page, filter ExpenditureFilter) ([]Expenditure, int64, error)
	FindAllValues(ctx context.Context) ([]ExpenditureValue, error)
}

// InvoiceRepository reads invoices and their project item allocations.
type InvoiceRepository interface {
	FindAllByRevenueCenter(ctx context.Context, filter InvoiceFilter, page shared.Page) ([]Invoice, int64, error)
	FindAllInvoices(ctx context.Context) ([]Invoice, error)
	FindAllInvoiceProjectItems(ctx context.Context) ([]InvoiceProjectItem, error)
}

// QuotationRepository reads quotation item details.
type QuotationRepository interface {
	FindQuotationItemDetailsByQuotationID(ctx context.Context, quotationID uint) ([]QuotationItemLookup, error)
}

// SnapshotLocker serializes spend recalculation for one cost center project
// across every process sharing the lock backend.
type SnapshotLocker interface {
	// Acquire blocks until the lock for key is held or ctx ends. The
	// returned release function is safe to call more than once.
	Acquire(ctx context.Context, key string) (release func(), err error)
}
