package revenue

import (
	"time"

	"github.com/shopspring/decimal"
)

// RowSet is the result of an analytical view. Rows is the requested page,
// TotalRows the complete result used for grand totals, and Count the number
// of groups for pagination metadata.
type RowSet[T any] struct {
	Rows      []T
	TotalRows []T
	Count     int64
}

// WorkTrackingFilter narrows the work tracking view. Year selects the calendar year.
type WorkTrackingFilter struct {
	Year                int
	RevenueCenterID     *uint
	CostCenterProjectID *uint
}

// WorkTrackingRow holds per-month day counts for one (employee, project, position) group.
// DaysWorked[0] is January.
type WorkTrackingRow struct {
	Name         string
	ProjectName  string
	PositionName string
	BaseSalary   decimal.Decimal
	DaysWorked   [12]int
}

// InputValue is Σ(quantity × cost) of consumed inputs for one cost center project.
type InputValue struct {
	CostCenterProjectID uint
	TotalValue          decimal.Decimal
}

// InputFilter selects consumption rows of one input type for a revenue center.
type InputFilter struct {
	RevenueCenterID uint
	InputTypeID     InputType
}

// InputConsumptionRow is one consumed input line.
type InputConsumptionRow struct {
	MaterialName   string
	CostCenterName string
	Quantity       decimal.Decimal
	UnitOfMeasure  string
	CreatedAt      time.Time
	OrderRequestID *uint
	Cost           decimal.Decimal
	TotalValue     decimal.Decimal
}

// QuotationFilter optionally narrows the quotation view to a revenue center.
type QuotationFilter struct {
	RevenueCenterID *uint
}

// QuotationSummaryRow groups quotation item details by input and cost center project.
type QuotationSummaryRow struct {
	InputID             uint
	InputName           string
	UnitOfMeasure       string
	CostCenterProjectID uint
	CostCenterName      string
	Quantity            decimal.Decimal
	TotalCost           decimal.Decimal
	CreatedAt           time.Time
	Performance         decimal.Decimal
}

// MaterialSummaryFilter selects the material summary of a revenue center.
type MaterialSummaryFilter struct {
	RevenueCenterID uint
}

// MaterialSummaryRow is the shipped quantity of one input.
type MaterialSummaryRow struct {
	InputID       uint
	MaterialName  string
	UnitOfMeasure string
	Shipped       decimal.Decimal
	Performance   decimal.Decimal
	QuantityM2    decimal.Decimal
}
