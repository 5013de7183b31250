package revenue

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultSnapshotValue is the placeholder stored in invoice/utility until a value is supplied.
const DefaultSnapshotValue = "0.0"

// RevenueCenter is a financial reporting unit tied 1:1 to a cost center project.
// Invoice, Spend and Utility are string-encoded decimal snapshots written by the
// recompute path, not derived on read.
type RevenueCenter struct {
	ID                  uint
	Name                string
	CostCenterProjectID uint
	StatusID            uint
	QuotationID         *uint
	FromDate            time.Time
	ToDate              time.Time
	Invoice             string
	Spend               string
	Utility             string
	Version             int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewRevenueCenterInput carries the fields required to open a revenue center.
type NewRevenueCenterInput struct {
	Name                string
	CostCenterProjectID uint
	StatusID            uint
	QuotationID         *uint
	FromDate            time.Time
	ToDate              time.Time
}

// NewRevenueCenter validates input and returns a revenue center with zeroed snapshots.
func NewRevenueCenter(input NewRevenueCenterInput) (*RevenueCenter, error) {
	rc := &RevenueCenter{
		Name:                strings.TrimSpace(input.Name),
		CostCenterProjectID: input.CostCenterProjectID,
		StatusID:            input.StatusID,
		QuotationID:         input.QuotationID,
		FromDate:            input.FromDate,
		ToDate:              input.ToDate,
		Invoice:             DefaultSnapshotValue,
		Spend:               DefaultSnapshotValue,
		Utility:             DefaultSnapshotValue,
		Version:             1,
	}
	if err := rc.validate(); err != nil {
		return nil, err
	}
	return rc, nil
}

// RevenueCenterPatch lists the fields an update may change. Nil means "keep".
// Spend is absent on purpose: it is always recomputed.
type RevenueCenterPatch struct {
	Name                *string
	CostCenterProjectID *uint
	StatusID            *uint
	QuotationID         *uint
	FromDate            *time.Time
	ToDate              *time.Time
	Invoice             *decimal.Decimal
	Utility             *decimal.Decimal
}

// Apply merges the patch over the current state.
func (rc *RevenueCenter) Apply(p RevenueCenterPatch) error {
	next := *rc
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.CostCenterProjectID != nil {
		next.CostCenterProjectID = *p.CostCenterProjectID
	}
	if p.StatusID != nil {
		next.StatusID = *p.StatusID
	}
	if p.QuotationID != nil {
		id := *p.QuotationID
		next.QuotationID = &id
	}
	if p.FromDate != nil {
		next.FromDate = *p.FromDate
	}
	if p.ToDate != nil {
		next.ToDate = *p.ToDate
	}
	if p.Invoice != nil {
		next.Invoice = p.Invoice.String()
	}
	if p.Utility != nil {
		next.Utility = p.Utility.String()
	}
	if err := next.validate(); err != nil {
		return err
	}
	*rc = next
	return nil
}

// SetSpend stores a freshly computed spend snapshot.
func (rc *RevenueCenter) SetSpend(spend decimal.Decimal) {
	rc.Spend = spend.String()
}

func (rc *RevenueCenter) validate() error {
	if rc.Name == "" {
		return shared.InvalidInput("name - Required")
	}
	if rc.CostCenterProjectID == 0 {
		return shared.InvalidInput("idCostCenterProject - Required")
	}
	if rc.StatusID == 0 {
		return shared.InvalidInput("idStatus - Required")
	}
	if !rc.ToDate.IsZero() && rc.ToDate.Before(rc.FromDate) {
		return shared.InvalidInput("toDate - Must not be before fromDate")
	}
	return nil
}

// RevenueCenterFilter narrows and orders the revenue center listing.
// OrderBy is a column name; unknown columns fall back to id.
type RevenueCenterFilter struct {
	StatusID            *uint
	CostCenterProjectID *uint
	OrderBy             string
	OrderDir            string
}
