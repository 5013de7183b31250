package revenue

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// ReportService derives the revenue center reporting views from the
// aggregation repository and its sibling repositories.
type ReportService struct {
	centers      revenue.RevenueCenterRepository
	reports      revenue.ReportRepository
	costCenters  revenue.CostCenterRepository
	expenditures revenue.ExpenditureRepository
	invoices     revenue.InvoiceRepository
	quotations   revenue.QuotationRepository
	markup       decimal.Decimal
	now          func() time.Time
}

// ReportServiceOption configures a ReportService
type ReportServiceOption func(*ReportService)

// WithContractedMarkup overrides the markup applied by the contracted summary
func WithContractedMarkup(markup decimal.Decimal) ReportServiceOption {
	return func(s *ReportService) {
		s.markup = markup
	}
}

// WithClock sets the clock used to pick the work tracking year
func WithClock(now func() time.Time) ReportServiceOption {
	return func(s *ReportService) {
		s.now = now
	}
}

// NewReportService creates a new ReportService
func NewReportService(
	centers revenue.RevenueCenterRepository,
	reports revenue.ReportRepository,
	costCenters revenue.CostCenterRepository,
	expenditures revenue.ExpenditureRepository,
	invoices revenue.InvoiceRepository,
	quotations revenue.QuotationRepository,
	opts ...ReportServiceOption,
) *ReportService {
	s := &ReportService{
		centers:      centers,
		reports:      reports,
		costCenters:  costCenters,
		expenditures: expenditures,
		invoices:     invoices,
		quotations:   quotations,
		markup:       revenue.DefaultContractedMarkup,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindAllMaterial lists material consumption of a revenue center
func (s *ReportService) FindAllMaterial(ctx context.Context, id uint, page shared.Page) (*Paginated[InputRowResponse], error) {
	return s.findAllInput(ctx, "material", id, revenue.InputTypeMaterial, page)
}

// FindAllInputs lists general input consumption of a revenue center
func (s *ReportService) FindAllInputs(ctx context.Context, id uint, page shared.Page) (*Paginated[InputRowResponse], error) {
	return s.findAllInput(ctx, "inputs", id, revenue.InputTypeGeneral, page)
}

// FindAllEpp lists protective equipment consumption of a revenue center
func (s *ReportService) FindAllEpp(ctx context.Context, id uint, page shared.Page) (*Paginated[InputRowResponse], error) {
	return s.findAllInput(ctx, "epp", id, revenue.InputTypeEPP, page)
}

func (s *ReportService) findAllInput(ctx context.Context, view string, id uint, inputType revenue.InputType, page shared.Page) (*Paginated[InputRowResponse], error) {
	ctx, span := s.startView(ctx, view, id, page)
	defer span.End()

	set, err := s.reports.FindAllInput(ctx, page, revenue.InputFilter{RevenueCenterID: id, InputTypeID: inputType})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, boundaryError(ctx, "report."+view, err)
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrRows, set.Count)

	total := decimal.Zero
	for _, r := range set.TotalRows {
		total = total.Add(r.TotalValue)
	}
	data := make([]InputRowResponse, 0, len(set.Rows))
	for _, r := range set.Rows {
		data = append(data, toInputRow(r))
	}
	return newPaginated(data, set.Count, page).withTotal(total), nil
}

// FindAllExpenditures lists the expenditures of the revenue center's
// project. The total always covers every expenditure of the project.
func (s *ReportService) FindAllExpenditures(ctx context.Context, id uint, page shared.Page) (*Paginated[ExpenditureResponse], error) {
	ctx, span := s.startView(ctx, "expenditures", id, page)
	defer span.End()

	rc, project, err := s.centerProject(ctx, id)
	if err != nil {
		return nil, boundaryError(ctx, "report.expenditures", err)
	}
	filter := revenue.ExpenditureFilter{CostCenterProjectID: rc.CostCenterProjectID}

	var (
		rows, all []revenue.Expenditure
		count     int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, count, err = s.expenditures.FindAll(gctx, page, filter)
		return err
	})
	if !page.All() {
		g.Go(func() error {
			var err error
			all, _, err = s.expenditures.FindAll(gctx, shared.Unpaginated(), filter)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, boundaryError(ctx, "report.expenditures", err)
	}
	if page.All() {
		all = rows
	}

	total := decimal.Zero
	for _, e := range all {
		total = total.Add(e.TotalValue)
	}
	data := make([]ExpenditureResponse, 0, len(rows))
	for _, e := range rows {
		data = append(data, toExpenditure(e, project.Name))
	}
	return newPaginated(data, count, page).withTotal(total), nil
}

// FindAllContractedSummary prices the project items of the revenue center's
// project with the contracted markup.
func (s *ReportService) FindAllContractedSummary(ctx context.Context, id uint, page shared.Page) (*Paginated[ContractedLineResponse], error) {
	ctx, span := s.startView(ctx, "contracted_summary", id, page)
	defer span.End()

	rc, err := s.centers.FindByID(ctx, id)
	if err != nil {
		return nil, boundaryError(ctx, "report.contracted_summary", err)
	}
	filter := revenue.ProjectItemFilter{CostCenterProjectID: rc.CostCenterProjectID}

	var (
		items, all []revenue.ProjectItem
		count      int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, count, err = s.costCenters.FindAllProjectItem(gctx, filter, page)
		return err
	})
	if !page.All() {
		g.Go(func() error {
			var err error
			all, _, err = s.costCenters.FindAllProjectItem(gctx, filter, shared.Unpaginated())
			return err
		})
	}
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, boundaryError(ctx, "report.contracted_summary", err)
	}
	if page.All() {
		all = items
	}

	allLines := make([]revenue.ContractedLine, 0, len(all))
	for _, item := range all {
		allLines = append(allLines, revenue.PriceContractedLine(item, s.markup))
	}
	data := make([]ContractedLineResponse, 0, len(items))
	for _, item := range items {
		data = append(data, toContractedLine(revenue.PriceContractedLine(item, s.markup)))
	}
	return newPaginated(data, count, page).withTotal(revenue.SumContracted(allLines)), nil
}

// FindAllWorkTracking returns the monthly work tracking pivot for the
// current year. A nil id covers every revenue center.
func (s *ReportService) FindAllWorkTracking(ctx context.Context, id *uint, page shared.Page) (*Paginated[WorkTrackingResponse], error) {
	ctx, span := s.startView(ctx, "work_tracking", derefID(id), page)
	defer span.End()

	year := s.now().Year()
	set, err := s.reports.FindAllWorkTracking(ctx, page, revenue.WorkTrackingFilter{Year: year, RevenueCenterID: id})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, boundaryError(ctx, "report.work_tracking", err)
	}

	total := decimal.Zero
	for _, r := range set.TotalRows {
		total = total.Add(revenue.SummarizeWorkTracking(r, year).Total)
	}
	data := make([]WorkTrackingResponse, 0, len(set.Rows))
	for _, r := range set.Rows {
		data = append(data, toWorkTracking(revenue.SummarizeWorkTracking(r, year)))
	}
	return newPaginated(data, set.Count, page).withTotal(total), nil
}

// FindAllQuotation returns quotation totals per input and project. A nil id
// covers every revenue center.
func (s *ReportService) FindAllQuotation(ctx context.Context, id *uint, page shared.Page) (*Paginated[QuotationRowResponse], error) {
	ctx, span := s.startView(ctx, "quotation", derefID(id), page)
	defer span.End()

	set, err := s.reports.FindAllQuotation(ctx, page, revenue.QuotationFilter{RevenueCenterID: id})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, boundaryError(ctx, "report.quotation", err)
	}

	total := decimal.Zero
	for _, r := range set.TotalRows {
		total = total.Add(r.TotalCost)
	}
	data := make([]QuotationRowResponse, 0, len(set.Rows))
	for _, r := range set.Rows {
		data = append(data, toQuotationRow(r))
	}
	return newPaginated(data, set.Count, page).withTotal(total), nil
}

// FindAllInvoiceSummary reconciles every project item of the revenue
// center's project against the invoices issued for the center.
func (s *ReportService) FindAllInvoiceSummary(ctx context.Context, id uint) (*InvoiceSummaryResponse, error) {
	ctx, span := s.startView(ctx, "invoice_summary", id, shared.Unpaginated())
	defer span.End()

	summary, err := s.invoiceSummary(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, boundaryError(ctx, "report.invoice_summary", err)
	}
	return toInvoiceSummary(summary), nil
}

func (s *ReportService) invoiceSummary(ctx context.Context, id uint) (revenue.InvoiceSummary, error) {
	rc, err := s.centers.FindByID(ctx, id)
	if err != nil {
		return revenue.InvoiceSummary{}, err
	}

	var (
		items          []revenue.ProjectItem
		allocations    []revenue.InvoiceProjectItem
		invoices       []revenue.Invoice
		centerInvoices []revenue.Invoice
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, _, err = s.costCenters.FindAllProjectItem(gctx,
			revenue.ProjectItemFilter{CostCenterProjectID: rc.CostCenterProjectID}, shared.Unpaginated())
		return err
	})
	g.Go(func() error {
		var err error
		allocations, err = s.invoices.FindAllInvoiceProjectItems(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		invoices, err = s.invoices.FindAllInvoices(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		centerInvoices, _, err = s.invoices.FindAllByRevenueCenter(gctx,
			revenue.InvoiceFilter{RevenueCenterID: rc.ID}, shared.Unpaginated())
		return err
	})
	if err := g.Wait(); err != nil {
		return revenue.InvoiceSummary{}, err
	}
	return revenue.ReconcileInvoices(items, allocations, invoices, centerInvoices), nil
}

// FindAllMaterialSummaryDetail compares shipped material with the budgeted
// and contracted quantities of the revenue center's quotation.
func (s *ReportService) FindAllMaterialSummaryDetail(ctx context.Context, id uint, page shared.Page) (*Paginated[MaterialSummaryResponse], error) {
	ctx, span := s.startView(ctx, "material_summary_detail", id, page)
	defer span.End()

	rc, err := s.centers.FindByID(ctx, id)
	if err != nil {
		return nil, boundaryError(ctx, "report.material_summary_detail", err)
	}

	var (
		set     *revenue.RowSet[revenue.MaterialSummaryRow]
		lookups []revenue.QuotationItemLookup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		set, err = s.reports.FindAllMaterialSummaryDetail(gctx, page, revenue.MaterialSummaryFilter{RevenueCenterID: rc.ID})
		return err
	})
	if rc.QuotationID != nil {
		g.Go(func() error {
			var err error
			lookups, err = s.quotations.FindQuotationItemDetailsByQuotationID(gctx, *rc.QuotationID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, boundaryError(ctx, "report.material_summary_detail", err)
	}

	lines := revenue.JoinMaterialSummary(set.Rows, lookups)
	data := make([]MaterialSummaryResponse, 0, len(lines))
	for _, l := range lines {
		data = append(data, toMaterialSummary(l))
	}
	return newPaginated(data, set.Count, page), nil
}

func (s *ReportService) centerProject(ctx context.Context, id uint) (*revenue.RevenueCenter, *revenue.CostCenterProject, error) {
	rc, err := s.centers.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	project, err := s.costCenters.FindByID(ctx, rc.CostCenterProjectID)
	if err != nil {
		return nil, nil, err
	}
	return rc, project, nil
}

func (s *ReportService) startView(ctx context.Context, view string, id uint, page shared.Page) (context.Context, trace.Span) {
	return telemetry.StartServiceSpan(ctx, "report", view,
		telemetry.WithAttribute(telemetry.SpanAttrView, view),
		telemetry.WithAttribute(telemetry.SpanAttrRevenueCenterID, id),
		telemetry.WithAttribute(telemetry.SpanAttrPage, page.Number),
		telemetry.WithAttribute(telemetry.SpanAttrPageSize, page.Size),
	)
}

func derefID(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}
