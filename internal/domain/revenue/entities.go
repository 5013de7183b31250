package revenue

import (
	"time"

	"github.com/shopspring/decimal"
)

// InputType classifies inputs consumed by a project.
type InputType int

// Input types
const (
	InputTypeMaterial InputType = 1
	InputTypeEPP      InputType = 2
	InputTypeGeneral  InputType = 3
)

// SpendInputTypes are the input types counted in a revenue center's spend.
var SpendInputTypes = []InputType{InputTypeMaterial, InputTypeEPP, InputTypeGeneral}

// CostCenterProject is the operational project every report keys off.
type CostCenterProject struct {
	ID      uint
	Name    string
	Address string
	Phone   string
}

// ProjectItem is a contracted billable line, grouped by Contract.
type ProjectItem struct {
	ID                  uint
	CostCenterProjectID uint
	Contract            string
	Item                string
	UnitMeasure         string
	Quantity            decimal.Decimal
	UnitPrice           decimal.Decimal
	Total               decimal.Decimal
	InvoicedQuantity    decimal.Decimal
}

// Invoice is an issued invoice against a contract.
type Invoice struct {
	ID              uint
	RevenueCenterID uint
	InvoiceNumber   string
	Contract        string
	InvoiceDate     time.Time
	Total           decimal.Decimal
}

// InvoiceProjectItem allocates part of an invoice to a project item.
type InvoiceProjectItem struct {
	ID               uint
	InvoiceID        uint
	ProjectItemID    uint
	InvoicedQuantity decimal.Decimal
}

// Expenditure is a direct cost booked against a cost center project.
type Expenditure struct {
	ID                  uint
	CostCenterProjectID uint
	ExpenditureTypeID   uint
	Description         string
	TotalValue          decimal.Decimal
	ExpenditureDate     time.Time
	CreatedAt           time.Time
}

// ExpenditureValue is the expenditure total of one cost center project.
type ExpenditureValue struct {
	CostCenterProjectID uint
	TotalValue          decimal.Decimal
}

// QuotationItemLookup carries the budgeted and contracted quantity of an input in a quotation.
type QuotationItemLookup struct {
	InputID    uint
	Budgeted   decimal.Decimal
	Contracted decimal.Decimal
}

// ProjectItemFilter scopes project items to a cost center project.
type ProjectItemFilter struct {
	CostCenterProjectID uint
}

// ExpenditureFilter scopes expenditures to a cost center project.
type ExpenditureFilter struct {
	CostCenterProjectID uint
}

// InvoiceFilter scopes invoices to a revenue center.
type InvoiceFilter struct {
	RevenueCenterID uint
}
