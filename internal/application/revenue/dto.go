package revenue

import (
	"time"

	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Requests
// =============================================================================

// PageQuery carries the page and pageSize query parameters. pageSize=-1
// disables pagination.
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"pageSize" binding:"omitempty,min=-1"`
}

// ToPage applies the pagination defaults.
func (q PageQuery) ToPage() shared.Page {
	return shared.NewPage(q.Page, q.PageSize)
}

// ListRevenueCenterQuery filters the revenue center listing
type ListRevenueCenterQuery struct {
	PageQuery
	StatusID            *uint  `form:"idStatus"`
	CostCenterProjectID *uint  `form:"idCostCenterProject"`
	OrderBy             string `form:"orderBy" binding:"omitempty,max=50"`
	OrderDir            string `form:"orderDir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// CreateRevenueCenterRequest represents a request to create a revenue center
type CreateRevenueCenterRequest struct {
	Name                string    `json:"name" binding:"required,min=1,max=200"`
	CostCenterProjectID uint      `json:"idCostCenterProject" binding:"required,min=1"`
	StatusID            uint      `json:"idStatus" binding:"required,min=1"`
	QuotationID         *uint     `json:"idQuotation" binding:"omitempty,min=1"`
	FromDate            time.Time `json:"fromDate" binding:"required"`
	ToDate              time.Time `json:"toDate" binding:"required,gtefield=FromDate"`
}

// UpdateRevenueCenterRequest represents a partial update of a revenue center.
// spend is not accepted; it is always recomputed.
type UpdateRevenueCenterRequest struct {
	Name                *string          `json:"name" binding:"omitempty,min=1,max=200"`
	CostCenterProjectID *uint            `json:"idCostCenterProject" binding:"omitempty,min=1"`
	StatusID            *uint            `json:"idStatus" binding:"omitempty,min=1"`
	QuotationID         *uint            `json:"idQuotation" binding:"omitempty,min=1"`
	FromDate            *time.Time       `json:"fromDate"`
	ToDate              *time.Time       `json:"toDate"`
	Invoice             *decimal.Decimal `json:"invoice"`
	Utility             *decimal.Decimal `json:"utility"`
}

func (r UpdateRevenueCenterRequest) toPatch() revenue.RevenueCenterPatch {
	return revenue.RevenueCenterPatch{
		Name:                r.Name,
		CostCenterProjectID: r.CostCenterProjectID,
		StatusID:            r.StatusID,
		QuotationID:         r.QuotationID,
		FromDate:            r.FromDate,
		ToDate:              r.ToDate,
		Invoice:             r.Invoice,
		Utility:             r.Utility,
	}
}

// =============================================================================
// Responses
// =============================================================================

// Paginated is the page envelope shared by every listing.
// Total is omitted by views that carry no grand total.
type Paginated[T any] struct {
	Data        []T    `json:"data"`
	TotalItems  int64  `json:"totalItems"`
	CurrentPage int    `json:"currentPage"`
	TotalPage   int    `json:"totalPage"`
	Total       string `json:"total,omitempty"`
}

func newPaginated[T any](data []T, count int64, page shared.Page) *Paginated[T] {
	if data == nil {
		data = []T{}
	}
	return &Paginated[T]{
		Data:        data,
		TotalItems:  count,
		CurrentPage: page.Number,
		TotalPage:   page.TotalPages(count),
	}
}

func (p *Paginated[T]) withTotal(total decimal.Decimal) *Paginated[T] {
	p.Total = money(total)
	return p
}

// money renders an amount with two decimals.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// RevenueCenterResponse represents a revenue center in API responses
type RevenueCenterResponse struct {
	ID                  uint      `json:"id"`
	Name                string    `json:"name"`
	CostCenterProjectID uint      `json:"idCostCenterProject"`
	StatusID            uint      `json:"idStatus"`
	QuotationID         *uint     `json:"idQuotation"`
	FromDate            time.Time `json:"fromDate"`
	ToDate              time.Time `json:"toDate"`
	Invoice             string    `json:"invoice"`
	Spend               string    `json:"spend"`
	Utility             string    `json:"utility"`
	Version             int       `json:"version"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ToRevenueCenterResponse converts the domain entity
func ToRevenueCenterResponse(rc *revenue.RevenueCenter) RevenueCenterResponse {
	return RevenueCenterResponse{
		ID:                  rc.ID,
		Name:                rc.Name,
		CostCenterProjectID: rc.CostCenterProjectID,
		StatusID:            rc.StatusID,
		QuotationID:         rc.QuotationID,
		FromDate:            rc.FromDate,
		ToDate:              rc.ToDate,
		Invoice:             rc.Invoice,
		Spend:               rc.Spend,
		Utility:             rc.Utility,
		Version:             rc.Version,
		CreatedAt:           rc.CreatedAt,
		UpdatedAt:           rc.UpdatedAt,
	}
}

// InputRowResponse is one consumed input line
type InputRowResponse struct {
	MaterialName   string    `json:"materialName"`
	CostCenterName string    `json:"costCenterName"`
	Quantity       string    `json:"quantity"`
	UnitOfMeasure  string    `json:"unitOfMeasure"`
	CreatedAt      time.Time `json:"createdAt"`
	OrderRequestID *uint     `json:"idOrderRequest"`
	Cost           string    `json:"cost"`
	TotalValue     string    `json:"totalValue"`
}

func toInputRow(r revenue.InputConsumptionRow) InputRowResponse {
	return InputRowResponse{
		MaterialName:   r.MaterialName,
		CostCenterName: r.CostCenterName,
		Quantity:       r.Quantity.String(),
		UnitOfMeasure:  r.UnitOfMeasure,
		CreatedAt:      r.CreatedAt,
		OrderRequestID: r.OrderRequestID,
		Cost:           money(r.Cost),
		TotalValue:     money(r.TotalValue),
	}
}

// ExpenditureResponse is an expenditure annotated with its project name
type ExpenditureResponse struct {
	ID                  uint      `json:"id"`
	CostCenterProjectID uint      `json:"idCostCenterProject"`
	ProjectName         string    `json:"projectName"`
	ExpenditureTypeID   uint      `json:"idExpenditureType"`
	Description         string    `json:"description"`
	TotalValue          string    `json:"totalValue"`
	ExpenditureDate     time.Time `json:"expenditureDate"`
	CreatedAt           time.Time `json:"createdAt"`
}

func toExpenditure(e revenue.Expenditure, projectName string) ExpenditureResponse {
	return ExpenditureResponse{
		ID:                  e.ID,
		CostCenterProjectID: e.CostCenterProjectID,
		ProjectName:         projectName,
		ExpenditureTypeID:   e.ExpenditureTypeID,
		Description:         e.Description,
		TotalValue:          money(e.TotalValue),
		ExpenditureDate:     e.ExpenditureDate,
		CreatedAt:           e.CreatedAt,
	}
}

// ContractedLineResponse is a project item priced with the contracted markup
type ContractedLineResponse struct {
	ID          uint   `json:"id"`
	Contract    string `json:"contract"`
	Item        string `json:"item"`
	UnitMeasure string `json:"unitMeasure"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	SubTotal    string `json:"subTotal"`
	TotalValue  string `json:"totalValue"`
	Total       string `json:"total"`
}

func toContractedLine(l revenue.ContractedLine) ContractedLineResponse {
	return ContractedLineResponse{
		ID:          l.ID,
		Contract:    l.Contract,
		Item:        l.Item,
		UnitMeasure: l.UnitMeasure,
		Quantity:    l.Quantity.String(),
		UnitPrice:   money(l.UnitPrice),
		SubTotal:    money(l.SubTotal),
		TotalValue:  money(l.TotalValue),
		Total:       money(l.Total),
	}
}

// MonthlyWorkResponse is the wage cost of one month
type MonthlyWorkResponse struct {
	Month      int    `json:"month"`
	DaysWorked int    `json:"daysWorked"`
	DailyWage  string `json:"dailyWage"`
	Value      string `json:"value"`
}

// WorkTrackingResponse is the monthly pivot of one employee on one project
type WorkTrackingResponse struct {
	Name         string                `json:"name"`
	ProjectName  string                `json:"projectName"`
	PositionName string                `json:"positionName"`
	BaseSalary   string                `json:"baseSalary"`
	Months       []MonthlyWorkResponse `json:"months"`
	MonthlyTotal string                `json:"monthlyTotal"`
}

func toWorkTracking(s revenue.WorkTrackingSummary) WorkTrackingResponse {
	months := make([]MonthlyWorkResponse, 0, len(s.Months))
	for _, m := range s.Months {
		months = append(months, MonthlyWorkResponse{
			Month:      int(m.Month),
			DaysWorked: m.DaysWorked,
			DailyWage:  money(m.DailyWage),
			Value:      money(m.Value),
		})
	}
	return WorkTrackingResponse{
		Name:         s.Name,
		ProjectName:  s.ProjectName,
		PositionName: s.PositionName,
		BaseSalary:   money(s.BaseSalary),
		Months:       months,
		MonthlyTotal: money(s.Total),
	}
}

// QuotationRowResponse is the quotation summary of one input on one project
type QuotationRowResponse struct {
	InputID             uint      `json:"idInput"`
	InputName           string    `json:"inputName"`
	UnitOfMeasure       string    `json:"unitOfMeasure"`
	CostCenterProjectID uint      `json:"idCostCenterProject"`
	CostCenterName      string    `json:"costCenterName"`
	Quantity            string    `json:"quantity"`
	TotalCost           string    `json:"totalCost"`
	CreatedAt           time.Time `json:"createdAt"`
	Performance         string    `json:"performance"`
}

func toQuotationRow(r revenue.QuotationSummaryRow) QuotationRowResponse {
	return QuotationRowResponse{
		InputID:             r.InputID,
		InputName:           r.InputName,
		UnitOfMeasure:       r.UnitOfMeasure,
		CostCenterProjectID: r.CostCenterProjectID,
		CostCenterName:      r.CostCenterName,
		Quantity:            r.Quantity.String(),
		TotalCost:           money(r.TotalCost),
		CreatedAt:           r.CreatedAt,
		Performance:         r.Performance.String(),
	}
}

// ItemInvoiceResponse is one invoice allocation of a project item
type ItemInvoiceResponse struct {
	InvoiceID        uint   `json:"idInvoice"`
	InvoiceNumber    string `json:"invoiceNumber"`
	InvoicedQuantity string `json:"invoicedQuantity"`
}

// ReconciledItemResponse is a project item split into accumulated and pending amounts
type ReconciledItemResponse struct {
	ID                  uint                  `json:"id"`
	Item                string                `json:"item"`
	UnitMeasure         string                `json:"unitMeasure"`
	Quantity            string                `json:"quantity"`
	UnitPrice           string                `json:"unitPrice"`
	Total               string                `json:"total"`
	Invoices            []ItemInvoiceResponse `json:"invoices"`
	AccumulatedQuantity string                `json:"accumulatedQuantity"`
	AccumulatedValue    string                `json:"accumulatedValue"`
	PendingQuantity     string                `json:"pendingQuantity"`
	PendingValue        string                `json:"pendingValue"`
}

// ContractGroupResponse groups reconciled items of one contract
type ContractGroupResponse struct {
	Contract string                   `json:"contract"`
	Invoices []string                 `json:"invoices"`
	Items    []ReconciledItemResponse `json:"items"`
}

// InvoiceSummaryResponse is the invoice reconciliation of a revenue center
type InvoiceSummaryResponse struct {
	Contracts        []ContractGroupResponse `json:"contracts"`
	TotalAccumulated string                  `json:"totalAccumulated"`
	TotalPending     string                  `json:"totalPending"`
}

func toInvoiceSummary(s revenue.InvoiceSummary) *InvoiceSummaryResponse {
	contracts := make([]ContractGroupResponse, 0, len(s.Contracts))
	for _, g := range s.Contracts {
		items := make([]ReconciledItemResponse, 0, len(g.Items))
		for _, it := range g.Items {
			invoices := make([]ItemInvoiceResponse, 0, len(it.Invoices))
			for _, inv := range it.Invoices {
				invoices = append(invoices, ItemInvoiceResponse{
					InvoiceID:        inv.InvoiceID,
					InvoiceNumber:    inv.InvoiceNumber,
					InvoicedQuantity: inv.InvoicedQuantity.String(),
				})
			}
			items = append(items, ReconciledItemResponse{
				ID:                  it.ID,
				Item:                it.Item,
				UnitMeasure:         it.UnitMeasure,
				Quantity:            it.Quantity.String(),
				UnitPrice:           money(it.UnitPrice),
				Total:               money(it.Total),
				Invoices:            invoices,
				AccumulatedQuantity: it.AccumulatedQuantity.String(),
				AccumulatedValue:    money(it.AccumulatedValue),
				PendingQuantity:     it.PendingQuantity.String(),
				PendingValue:        money(it.PendingValue),
			})
		}
		numbers := g.InvoiceNumbers
		if numbers == nil {
			numbers = []string{}
		}
		contracts = append(contracts, ContractGroupResponse{
			Contract: g.Contract,
			Invoices: numbers,
			Items:    items,
		})
	}
	return &InvoiceSummaryResponse{
		Contracts:        contracts,
		TotalAccumulated: money(s.TotalAccumulated),
		TotalPending:     money(s.TotalPending),
	}
}

// MaterialSummaryResponse compares shipped material against the quotation
type MaterialSummaryResponse struct {
	InputID            uint   `json:"idInput"`
	MaterialName       string `json:"materialName"`
	UnitOfMeasure      string `json:"unitOfMeasure"`
	Shipped            string `json:"shipped"`
	QuantityM2         string `json:"quantityM2"`
	Budgeted           string `json:"budgeted"`
	Contracted         string `json:"contracted"`
	Diff               string `json:"diff"`
	Invoiced           string `json:"invoiced"`
	ShippedAndInvoiced string `json:"shippedAndInvoiced"`
}

func toMaterialSummary(l revenue.MaterialSummaryLine) MaterialSummaryResponse {
	return MaterialSummaryResponse{
		InputID:            l.InputID,
		MaterialName:       l.MaterialName,
		UnitOfMeasure:      l.UnitOfMeasure,
		Shipped:            l.Shipped.String(),
		QuantityM2:         l.QuantityM2.String(),
		Budgeted:           l.Budgeted.String(),
		Contracted:         l.Contracted.String(),
		Diff:               l.Diff.String(),
		Invoiced:           l.Invoiced.String(),
		ShippedAndInvoiced: l.ShippedAndInvoiced.String(),
	}
}

// ExportFile is a rendered report ready to be downloaded
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}
