package revenue

import (
	"context"

	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockRevenueCenterRepository is a mock implementation of RevenueCenterRepository
type MockRevenueCenterRepository struct {
	mock.Mock
}

func (m *MockRevenueCenterRepository) Create(ctx context.Context, rc *revenue.RevenueCenter) error {
	args := m.Called(ctx, rc)
	return args.Error(0)
}

func (m *MockRevenueCenterRepository) FindByID(ctx context.Context, id uint) (*revenue.RevenueCenter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenue.RevenueCenter), args.Error(1)
}

func (m *MockRevenueCenterRepository) FindAll(ctx context.Context, filter revenue.RevenueCenterFilter, page shared.Page) ([]revenue.RevenueCenter, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]revenue.RevenueCenter), args.Get(1).(int64), args.Error(2)
}

func (m *MockRevenueCenterRepository) Update(ctx context.Context, rc *revenue.RevenueCenter) error {
	args := m.Called(ctx, rc)
	return args.Error(0)
}

func (m *MockRevenueCenterRepository) UpdateSnapshot(ctx context.Context, id uint, version int, spend string) (int, error) {
	args := m.Called(ctx, id, version, spend)
	return args.Int(0), args.Error(1)
}

// MockReportRepository is a mock implementation of ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindAllWorkTracking(ctx context.Context, page shared.Page, filter revenue.WorkTrackingFilter) (*revenue.RowSet[revenue.WorkTrackingRow], error) {
	args := m.Called(ctx, page, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenue.RowSet[revenue.WorkTrackingRow]), args.Error(1)
}

func (m *MockReportRepository) FindInputValues(ctx context.Context) ([]revenue.InputValue, error) {
	args := m.Called(ctx)
	return args.Get(0).([]revenue.InputValue), args.Error(1)
}

func (m *MockReportRepository) FindAllInput(ctx context.Context, page shared.Page, filter revenue.InputFilter) (*revenue.RowSet[revenue.InputConsumptionRow], error) {
	args := m.Called(ctx, page, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenue.RowSet[revenue.InputConsumptionRow]), args.Error(1)
}

func (m *MockReportRepository) FindAllQuotation(ctx context.Context, page shared.Page, filter revenue.QuotationFilter) (*revenue.RowSet[revenue.QuotationSummaryRow], error) {
	args := m.Called(ctx, page, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenue.RowSet[revenue.QuotationSummaryRow]), args.Error(1)
}

func (m *MockReportRepository) FindAllMaterialSummaryDetail(ctx context.Context, page shared.Page, filter revenue.MaterialSummaryFilter) (*revenue.RowSet[revenue.MaterialSummaryRow], error) {
	args := m.Called(ctx, page, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenue.RowSet[revenue.MaterialSummaryRow]), args.Error(1)
}

// MockCostCenterRepository is a mock implementation of CostCenterRepository
type MockCostCenterRepository struct {
	mock.Mock
}

func (m *MockCostCenterRepository) FindByID(ctx context.Context, id uint) (*revenue.CostCenterProject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*revenue.CostCenterProject), args.Error(1)
}

func (m *MockCostCenterRepository) FindAllProjectItem(ctx context.Context, filter revenue.ProjectItemFilter, page shared.Page) ([]revenue.ProjectItem, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]revenue.ProjectItem), args.Get(1).(int64), args.Error(2)
}

// MockExpenditureRepository is a mock implementation of ExpenditureRepository
type MockExpenditureRepository struct {
	mock.Mock
}

func (m *MockExpenditureRepository) FindAll(ctx context.Context, page shared.Page, filter revenue.ExpenditureFilter) ([]revenue.Expenditure, int64, error) {
	args := m.Called(ctx, page, filter)
	return args.Get(0).([]revenue.Expenditure), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenditureRepository) FindAllValues(ctx context.Context) ([]revenue.ExpenditureValue, error) {
	args := m.Called(ctx)
	return args.Get(0).([]revenue.ExpenditureValue), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindAllByRevenueCenter(ctx context.Context, filter revenue.InvoiceFilter, page shared.Page) ([]revenue.Invoice, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]revenue.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindAllInvoices(ctx context.Context) ([]revenue.Invoice, error) {
	args := m.Called(ctx)
	return args.Get(0).([]revenue.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllInvoiceProjectItems(ctx context.Context) ([]revenue.InvoiceProjectItem, error) {
	args := m.Called(ctx)
	return args.Get(0).([]revenue.InvoiceProjectItem), args.Error(1)
}

// MockQuotationRepository is a mock implementation of QuotationRepository
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindQuotationItemDetailsByQuotationID(ctx context.Context, quotationID uint) ([]revenue.QuotationItemLookup, error) {
	args := m.Called(ctx, quotationID)
	return args.Get(0).([]revenue.QuotationItemLookup), args.Error(1)
}

// MockSnapshotLocker is a mock implementation of SnapshotLocker
type MockSnapshotLocker struct {
	mock.Mock
	released int
}

func (m *MockSnapshotLocker) Acquire(ctx context.Context, key string) (func(), error) {
	args := m.Called(ctx, key)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() { m.released++ }, nil
}
