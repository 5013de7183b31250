package revenue

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/export"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type reportServiceFixture struct {
	centers      *MockRevenueCenterRepository
	reports      *MockReportRepository
	costCenters  *MockCostCenterRepository
	expenditures *MockExpenditureRepository
	invoices     *MockInvoiceRepository
	quotations   *MockQuotationRepository
	service      *ReportService
}

func newReportServiceFixture(opts ...ReportServiceOption) *reportServiceFixture {
	f := &reportServiceFixture{
		centers:      new(MockRevenueCenterRepository),
		reports:      new(MockReportRepository),
		costCenters:  new(MockCostCenterRepository),
		expenditures: new(MockExpenditureRepository),
		invoices:     new(MockInvoiceRepository),
		quotations:   new(MockQuotationRepository),
	}
	opts = append([]ReportServiceOption{
		WithClock(func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }),
	}, opts...)
	f.service = NewReportService(f.centers, f.reports, f.costCenters, f.expenditures, f.invoices, f.quotations, opts...)
	return f
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func inputRow(name, total string) revenue.InputConsumptionRow {
	return revenue.InputConsumptionRow{
		MaterialName:   name,
		CostCenterName: "Bridge",
		Quantity:       d("2"),
		UnitOfMeasure:  "kg",
		CreatedAt:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Cost:           d(total).Div(d("2")),
		TotalValue:     d(total),
	}
}

func TestReportService_FindAllInputViews(t *testing.T) {
	ctx := context.Background()
	page := shared.NewPage(1, 1)

	views := []struct {
		name      string
		inputType revenue.InputType
		call      func(*ReportService) (*Paginated[InputRowResponse], error)
	}{
		{"material", revenue.InputTypeMaterial, func(s *ReportService) (*Paginated[InputRowResponse], error) {
			return s.FindAllMaterial(ctx, 7, page)
		}},
		{"inputs", revenue.InputTypeGeneral, func(s *ReportService) (*Paginated[InputRowResponse], error) {
			return s.FindAllInputs(ctx, 7, page)
		}},
		{"epp", revenue.InputTypeEPP, func(s *ReportService) (*Paginated[InputRowResponse], error) {
			return s.FindAllEpp(ctx, 7, page)
		}},
	}

	for _, v := range views {
		t.Run(v.name, func(t *testing.T) {
			f := newReportServiceFixture()
			f.reports.On("FindAllInput", mock.Anything, page, revenue.InputFilter{RevenueCenterID: 7, InputTypeID: v.inputType}).
				Return(&revenue.RowSet[revenue.InputConsumptionRow]{
					Rows:      []revenue.InputConsumptionRow{inputRow("Cement", "10")},
					TotalRows: []revenue.InputConsumptionRow{inputRow("Cement", "10"), inputRow("Sand", "5.5")},
					Count:     2,
				}, nil)

			res, err := v.call(f.service)
			require.NoError(t, err)

			require.Len(t, res.Data, 1)
			assert.Equal(t, "Cement", res.Data[0].MaterialName)
			assert.Equal(t, "10.00", res.Data[0].TotalValue)
			assert.Equal(t, "15.50", res.Total)
			assert.Equal(t, int64(2), res.TotalItems)
			assert.Equal(t, 2, res.TotalPage)
			f.reports.AssertExpectations(t)
		})
	}
}

func TestReportService_FindAllInputViews_EmptyResult(t *testing.T) {
	f := newReportServiceFixture()
	f.reports.On("FindAllInput", mock.Anything, mock.Anything, mock.Anything).
		Return(&revenue.RowSet[revenue.InputConsumptionRow]{}, nil)

	res, err := f.service.FindAllMaterial(context.Background(), 7, shared.NewPage(1, 10))
	require.NoError(t, err)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, "0.00", res.Total)
	assert.Equal(t, 0, res.TotalPage)
}

func TestReportService_FindAllExpenditures(t *testing.T) {
	ctx := context.Background()
	filter := revenue.ExpenditureFilter{CostCenterProjectID: 3}
	permits := revenue.Expenditure{ID: 1, CostCenterProjectID: 3, Description: "Permits", TotalValue: d("25.5")}
	crane := revenue.Expenditure{ID: 2, CostCenterProjectID: 3, Description: "Crane rental", TotalValue: d("50")}

	t.Run("totals every expenditure of the project", func(t *testing.T) {
		f := newReportServiceFixture()
		page := shared.NewPage(1, 1)
		f.centers.On("FindByID", mock.Anything, uint(7)).Return(storedCenter(), nil)
		f.costCenters.On("FindByID", mock.Anything, uint(3)).
			Return(&revenue.CostCenterProject{ID: 3, Name: "Bridge"}, nil)
		f.expenditures.On("FindAll", mock.Anything, page, filter).
			Return([]revenue.Expenditure{permits}, int64(2), nil)
		f.expenditures.On("FindAll", mock.Anything, shared.Unpaginated(), filter).
			Return([]revenue.Expenditure{permits, crane}, int64(2), nil)

		res, err := f.service.FindAllExpenditures(ctx, 7, page)
		require.NoError(t, err)

		require.Len(t, res.Data, 1)
		assert.Equal(t, "Bridge", res.Data[0].ProjectName)
		assert.Equal(t, "25.50", res.Data[0].TotalValue)
		assert.Equal(t, "75.50", res.Total)
		f.expenditures.AssertExpectations(t)
	})

	t.Run("reuses the page when pagination is disabled", func(t *testing.T) {
		f := newReportServiceFixture()
		f.centers.On("FindByID", mock.Anything, uint(7)).Return(storedCenter(), nil)
		f.costCenters.On("FindByID", mock.Anything, uint(3)).
			Return(&revenue.CostCenterProject{ID: 3, Name: "Bridge"}, nil)
		f.expenditures.On("FindAll", mock.Anything, shared.Unpaginated(), filter).
			Return([]revenue.Expenditure{permits, crane}, int64(2), nil).Once()

		res, err := f.service.FindAllExpenditures(ctx, 7, shared.Unpaginated())
		require.NoError(t, err)
		assert.Len(t, res.Data, 2)
		assert.Equal(t, "75.50", res.Total)
		assert.Equal(t, 1, res.TotalPage)
		f.expenditures.AssertNumberOfCalls(t, "FindAll", 1)
	})

	t.Run("returns not found for an unknown revenue center", func(t *testing.T) {
		f := newReportServiceFixture()
		f.centers.On("FindByID", mock.Anything, uint(99)).
			Return(nil, shared.NotFound("Revenue center 99 not found"))

		_, err := f.service.FindAllExpenditures(ctx, 99, shared.NewPage(1, 10))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("fails as a whole when the total query fails", func(t *testing.T) {
		f := newReportServiceFixture()
		page := shared.NewPage(1, 1)
		f.centers.On("FindByID", mock.Anything, uint(7)).Return(storedCenter(), nil)
		f.costCenters.On("FindByID", mock.Anything, uint(3)).
			Return(&revenue.CostCenterProject{ID: 3, Name: "Bridge"}, nil)
		f.expenditures.On("FindAll", mock.Anything, page, filter).
			Return([]revenue.Expenditure{permits}, int64(2), nil).Maybe()
		f.expenditures.On("FindAll", mock.Anything, shared.Unpaginated(), filter).
			Return([]revenue.Expenditure(nil), int64(0), errors.New("canceling statement due to statement timeout"))

		res, err := f.service.FindAllExpenditures(ctx, 7, page)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, shared.ErrInternal)
	})
}

func TestReportService_FindAllContractedSummary(t *testing.T) {
	ctx := context.Background()
	filter := revenue.ProjectItemFilter{CostCenterProjectID: 3}
	items := []revenue.ProjectItem{
		{ID: 1, CostCenterProjectID: 3, Contract: "C-1", Item: "Excavation", UnitMeasure: "m3", Quantity: d("10"), UnitPrice: d("100")},
		{ID: 2, CostCenterProjectID: 3, Contract: "C-1", Item: "Paving", UnitMeasure: "m2", Quantity: d("1"), UnitPrice: d("50")},
	}

	t.Run("prices lines with the default markup", func(t *testing.T) {
		f := newReportServiceFixture()
		page := shared.NewPage(1, 1)
		f.centers.On("FindByID", mock.Anything, uint(7)).Return(storedCenter(), nil)
		f.costCenters.On("FindAllProjectItem", mock.Anything, filter, page).Return(items[:1], int64(2), nil)
		f.costCenters.On("FindAllProjectItem", mock.Anything, filter, shared.Unpaginated()).Return(items, int64(2), nil)

		res, err := f.service.FindAllContractedSummary(ctx, 7, page)
		require.NoError(t, err)

		require.Len(t, res.Data, 1)
		line := res.Data[0]
		assert.Equal(t, "100.00", line.SubTotal)
		assert.Equal(t, "1000.00", line.TotalValue)
		assert.Equal(t, "11557.00", line.Total)
		// 11557 + 1 × 50 × 1.1557
		assert.Equal(t, "11614.79", res.Total)
	})

	t.Run("honours a configured markup", func(t *testing.T) {
		f := newReportServiceFixture(WithContractedMarkup(d("1")))
		all := shared.Unpaginated()
		f.centers.On("FindByID", mock.Anything, uint(7)).Return(storedCenter(), nil)
		f.costCenters.On("FindAllProjectItem", mock.Anything, filter, all).Return(items, int64(2), nil).Once()

		res, err := f.service.FindAllContractedSummary(ctx, 7, all)
		require.NoError(t, err)
		assert.Equal(t, "10000.00", res.Data[0].Total)
		assert.Equal(t, "10050.00", res.Total)
	})
}

func TestReportService_FindAllWorkTracking(t *testing.T) {
	f := newReportServiceFixture()
	id := uint(7)
	page := shared.NewPage(1, 10)
	row := revenue.WorkTrackingRow{Name: "Ana", ProjectName: "Bridge", PositionName: "Welder", BaseSalary: d("3100")}
	row.DaysWorked[0] = 10
	f.reports.On("FindAllWorkTracking", mock.Anything, page, revenue.WorkTrackingFilter{Year: 2024, RevenueCenterID: &id}).
		Return(&revenue.RowSet[revenue.WorkTrackingRow]{
			Rows:      []revenue.WorkTrackingRow{row},
			TotalRows: []revenue.WorkTrackingRow{row, row},
			Count:     1,
		}, nil)

	res, err := f.service.FindAllWorkTracking(context.Background(), &id, page)
	require.NoError(t, err)

	require.Len(t, res.Data, 1)
	w := res.Data[0]
	require.Len(t, w.Months, 12)
	assert.Equal(t, "100.00", w.Months[0].DailyWage)
	assert.Equal(t, "1000.00", w.Months[0].Value)
	assert.Equal(t, 0, w.Months[1].DaysWorked)
	assert.Equal(t, "1000.00", w.MonthlyTotal)
	assert.Equal(t, "2000.00", res.Total)
	f.reports.AssertExpectations(t)
}

func TestReportService_FindAllQuotation(t *testing.T) {
	f := newReportServiceFixture()
	page := shared.NewPage(1, 10)
	rows := []revenue.QuotationSummaryRow{
		{InputID: 1, InputName: "Cement", Quantity: d("3"), TotalCost: d("120")},
		{InputID: 2, InputName: "Sand", Quantity: d("1"), TotalCost: d("30.5")},
	}
	f.reports.On("FindAllQuotation", mock.Anything, page, revenue.QuotationFilter{}).
		Return(&revenue.RowSet[revenue.QuotationSummaryRow]{Rows: rows, TotalRows: rows, Count: 2}, nil)

	res, err := f.service.FindAllQuotation(context.Background(), nil, page)
	require.NoError(t, err)
	assert.Len(t, res.Data, 2)
	assert.Equal(t, "150.50", res.Total)
}

func TestReportService_FindAllInvoiceSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("reconciles allocations of known invoices only", func(t *testing.T) {
		f := newReportServiceFixture()
		f.centers.On("FindByID", mock.Anything, uint(7)).Return(storedCenter(), nil)
		f.costCenters.On("FindAllProjectItem", mock.Anything, revenue.ProjectItemFilter{CostCenterProjectID: 3}, shared.Unpaginated()).
			Return([]revenue.ProjectItem{
				{ID: 1, Contract: "C-1", Item: "Excavation", Quantity: d("10"), UnitPrice: d("100"), Total: d("1000")},
			}, int64(1), nil)
		f.invoices.On("FindAllInvoiceProjectItems", mock.Anything).
			Return([]revenue.InvoiceProjectItem{
				{ID: 1, InvoiceID: 11, ProjectItemID: 1, InvoicedQuantity: d("4")},
				{ID: 2, InvoiceID: 999, ProjectItemID: 1, InvoicedQuantity: d("3")},
			}, nil)
		own := revenue.Invoice{ID: 11, RevenueCenterID: 7, InvoiceNumber: "F-001", Contract: "C-1"}
		f.invoices.On("FindAllInvoices", mock.Anything).Return([]revenue.Invoice{own}, nil)
		f.invoices.On("FindAllByRevenueCenter", mock.Anything, revenue.InvoiceFilter{RevenueCenterID: 7}, shared.Unpaginated()).
			Return([]revenue.Invoice{own}, int64(1), nil)

		res, err := f.service.FindAllInvoiceSummary(ctx, 7)
		require.NoError(t, err)

		require.Len(t, res.Contracts, 1)
		group := res.Contracts[0]
		assert.Equal(t, []string{"F-001"}, group.Invoices)
		require.Len(t, group.Items, 1)
		item := group.Items[0]
		require.Len(t, item.Invoices, 2)
		assert.Equal(t, revenue.UnknownInvoice, item.Invoices[1].InvoiceNumber)
		assert.Equal(t, "4", item.AccumulatedQuantity)
		assert.Equal(t, "400.00", item.AccumulatedValue)
		assert.Equal(t, "600.00", item.PendingValue)
		assert.Equal(t, "400.00", res.TotalAccumulated)
		assert.Equal(t, "600.00", res.TotalPending)
	})

	t.Run("resolves allocations against invoices of other centers", func(t *testing.T) {
		f := newReportServiceFixture()
		f.centers.On("FindByID", mock.Anything, uint(7)).Return(storedCenter(), nil)
		f.costCenters.On("FindAllProjectItem", mock.Anything, revenue.ProjectItemFilter{CostCenterProjectID: 3}, shared.Unpaginated()).
			Return([]revenue.ProjectItem{
				{ID: 2, Contract: "C-1", Item: "Backfill", Quantity: d("5"), UnitPrice: d("20"), Total: d("100")},
			}, int64(1), nil)
		f.invoices.On("FindAllInvoiceProjectItems", mock.Anything).
			Return([]revenue.InvoiceProjectItem{{ID: 4, InvoiceID: 30, ProjectItemID: 2, InvoicedQuantity: d("1")}}, nil)
		f.invoices.On("FindAllInvoices", mock.Anything).
			Return([]revenue.Invoice{{ID: 30, RevenueCenterID: 8, InvoiceNumber: "F-900", Contract: "C-9"}}, nil)
		f.invoices.On("FindAllByRevenueCenter", mock.Anything, revenue.InvoiceFilter{RevenueCenterID: 7}, shared.Unpaginated()).
			Return([]revenue.Invoice{}, int64(0), nil)

		res, err := f.service.FindAllInvoiceSummary(ctx, 7)
		require.NoError(t, err)

		require.Len(t, res.Contracts, 1)
		assert.Empty(t, res.Contracts[0].Invoices)
		item := res.Contracts[0].Items[0]
		require.Len(t, item.Invoices, 1)
		assert.Equal(t, "F-900", item.Invoices[0].InvoiceNumber)
		assert.Equal(t, "1", item.AccumulatedQuantity)
		assert.Equal(t, "4", item.PendingQuantity)
		assert.Equal(t, "80.00", res.TotalPending)
		f.invoices.AssertExpectations(t)
	})

	t.Run("returns an empty summary for a project without items", func(t *testing.T) {
		f := newReportServiceFixture()
		f.centers.On("FindByID", mock.Anything, uint(7)).Return(storedCenter(), nil)
		f.costCenters.On("FindAllProjectItem", mock.Anything, mock.Anything, mock.Anything).
			Return([]revenue.ProjectItem{}, int64(0), nil)
		f.invoices.On("FindAllInvoiceProjectItems", mock.Anything).Return([]revenue.InvoiceProjectItem{}, nil)
		f.invoices.On("FindAllInvoices", mock.Anything).Return([]revenue.Invoice{}, nil)
		f.invoices.On("FindAllByRevenueCenter", mock.Anything, mock.Anything, mock.Anything).
			Return([]revenue.Invoice{}, int64(0), nil)

		res, err := f.service.FindAllInvoiceSummary(ctx, 7)
		require.NoError(t, err)
		assert.NotNil(t, res.Contracts)
		assert.Empty(t, res.Contracts)
		assert.Equal(t, "0.00", res.TotalPending)
	})
}

func TestReportService_FindAllMaterialSummaryDetail(t *testing.T) {
	ctx := context.Background()
	page := shared.NewPage(1, 10)
	rows := []revenue.MaterialSummaryRow{
		{InputID: 1, MaterialName: "Cement", Shipped: d("40")},
		{InputID: 2, MaterialName: "Gloves", Shipped: d("5")},
	}

	t.Run("joins quotation quantities by input", func(t *testing.T) {
		f := newReportServiceFixture()
		rc := storedCenter()
		quotationID := uint(21)
		rc.QuotationID = &quotationID
		f.centers.On("FindByID", mock.Anything, uint(7)).Return(rc, nil)
		f.reports.On("FindAllMaterialSummaryDetail", mock.Anything, page, revenue.MaterialSummaryFilter{RevenueCenterID: 7}).
			Return(&revenue.RowSet[revenue.MaterialSummaryRow]{Rows: rows, Count: 2}, nil)
		f.quotations.On("FindQuotationItemDetailsByQuotationID", mock.Anything, uint(21)).
			Return([]revenue.QuotationItemLookup{{InputID: 1, Budgeted: d("120"), Contracted: d("90")}}, nil)

		res, err := f.service.FindAllMaterialSummaryDetail(ctx, 7, page)
		require.NoError(t, err)

		require.Len(t, res.Data, 2)
		assert.Equal(t, "120", res.Data[0].Budgeted)
		assert.Equal(t, "30", res.Data[0].Diff)
		assert.Equal(t, "0", res.Data[1].Budgeted)
		assert.Empty(t, res.Total)
	})

	t.Run("skips the lookup without a quotation", func(t *testing.T) {
		f := newReportServiceFixture()
		f.centers.On("FindByID", mock.Anything, uint(7)).Return(storedCenter(), nil)
		f.reports.On("FindAllMaterialSummaryDetail", mock.Anything, page, mock.Anything).
			Return(&revenue.RowSet[revenue.MaterialSummaryRow]{Rows: rows, Count: 2}, nil)

		res, err := f.service.FindAllMaterialSummaryDetail(ctx, 7, page)
		require.NoError(t, err)
		assert.Len(t, res.Data, 2)
		f.quotations.AssertNotCalled(t, "FindQuotationItemDetailsByQuotationID", mock.Anything, mock.Anything)
	})
}

func TestReportService_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("renders the expenditure view with a total footer", func(t *testing.T) {
		f := newReportServiceFixture()
		f.centers.On("FindByID", mock.Anything, uint(7)).Return(storedCenter(), nil)
		f.costCenters.On("FindByID", mock.Anything, uint(3)).
			Return(&revenue.CostCenterProject{ID: 3, Name: "Bridge"}, nil)
		f.expenditures.On("FindAll", mock.Anything, shared.Unpaginated(), revenue.ExpenditureFilter{CostCenterProjectID: 3}).
			Return([]revenue.Expenditure{
				{ID: 1, Description: "Permits", TotalValue: d("25.5"), ExpenditureDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
			}, int64(1), nil)

		file, err := f.service.Export(ctx, 7, ViewExpenditures)
		require.NoError(t, err)
		assert.Equal(t, "revenue-center-7-expenditures.xlsx", file.FileName)
		assert.Equal(t, export.ContentTypeXLSX, file.ContentType)

		wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
		require.NoError(t, err)
		defer wb.Close()
		rows, err := wb.GetRows(wb.GetSheetList()[0])
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, "Permits", rows[2][0])
		assert.Equal(t, "Total", rows[3][0])
		assert.Equal(t, "25.50", rows[3][4])
	})

	t.Run("rejects an unknown view", func(t *testing.T) {
		f := newReportServiceFixture()

		_, err := f.service.Export(ctx, 7, "payroll")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("propagates a missing revenue center", func(t *testing.T) {
		f := newReportServiceFixture()
		f.centers.On("FindByID", mock.Anything, uint(8)).
			Return(nil, shared.NotFound("Revenue center 8 not found"))

		_, err := f.service.Export(ctx, 8, ViewInvoiceSummary)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
