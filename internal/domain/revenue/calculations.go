package revenue

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultContractedMarkup is the overhead factor applied to contracted lines.
var DefaultContractedMarkup = decimal.RequireFromString("1.1557")

// ContractedLine is a project item priced with the contracted markup.
type ContractedLine struct {
	ProjectItem
	SubTotal   decimal.Decimal
	TotalValue decimal.Decimal
	Total      decimal.Decimal
}

// PriceContractedLine derives subTotal, totalValue and total for an item.
// total is quantity × totalValue × markup, which squares the quantity.
func PriceContractedLine(item ProjectItem, markup decimal.Decimal) ContractedLine {
	totalValue := item.Quantity.Mul(item.UnitPrice)
	return ContractedLine{
		ProjectItem: item,
		SubTotal:    item.UnitPrice,
		TotalValue:  totalValue,
		Total:       item.Quantity.Mul(totalValue).Mul(markup),
	}
}

// SumContracted adds up the Total of every line.
func SumContracted(lines []ContractedLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total)
	}
	return sum
}

// MonthlyWork is the wage cost of one month.
type MonthlyWork struct {
	Month      time.Month
	DaysWorked int
	DailyWage  decimal.Decimal
	Value      decimal.Decimal
}

// WorkTrackingSummary expands a work tracking row into wage costs per month.
type WorkTrackingSummary struct {
	WorkTrackingRow
	Months []MonthlyWork
	Total  decimal.Decimal
}

// DaysIn returns the number of days of month m in year.
func DaysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SummarizeWorkTracking computes dailyWage = baseSalary / daysInMonth and
// value = daysWorked × dailyWage for each month of year.
func SummarizeWorkTracking(row WorkTrackingRow, year int) WorkTrackingSummary {
	summary := WorkTrackingSummary{
		WorkTrackingRow: row,
		Months:          make([]MonthlyWork, 0, 12),
		Total:           decimal.Zero,
	}
	for i := 0; i < 12; i++ {
		month := time.Month(i + 1)
		daily := row.BaseSalary.Div(decimal.NewFromInt(int64(DaysIn(year, month))))
		value := daily.Mul(decimal.NewFromInt(int64(row.DaysWorked[i])))
		summary.Months = append(summary.Months, MonthlyWork{
			Month:      month,
			DaysWorked: row.DaysWorked[i],
			DailyWage:  daily,
			Value:      value,
		})
		summary.Total = summary.Total.Add(value)
	}
	return summary
}

// SpendByProject sums input consumption and expenditures per cost center project.
// Projects with no activity are absent from the map and read as zero.
func SpendByProject(inputs []InputValue, expenditures []ExpenditureValue) map[uint]decimal.Decimal {
	spend := make(map[uint]decimal.Decimal, len(inputs)+len(expenditures))
	for _, iv := range inputs {
		spend[iv.CostCenterProjectID] = spend[iv.CostCenterProjectID].Add(iv.TotalValue)
	}
	for _, ev := range expenditures {
		spend[ev.CostCenterProjectID] = spend[ev.CostCenterProjectID].Add(ev.TotalValue)
	}
	return spend
}

// MaterialSummaryLine is a shipped material row joined with its quotation figures.
type MaterialSummaryLine struct {
	MaterialSummaryRow
	Budgeted           decimal.Decimal
	Contracted         decimal.Decimal
	Diff               decimal.Decimal
	Invoiced           decimal.Decimal
	ShippedAndInvoiced decimal.Decimal
}

// JoinMaterialSummary attaches budgeted and contracted quantities by input id.
// Inputs missing from the quotation read as zero. Invoiced amounts are not
// tracked per material and stay zero.
func JoinMaterialSummary(rows []MaterialSummaryRow, lookups []QuotationItemLookup) []MaterialSummaryLine {
	byInput := make(map[uint]QuotationItemLookup, len(lookups))
	for _, l := range lookups {
		byInput[l.InputID] = l
	}
	lines := make([]MaterialSummaryLine, 0, len(rows))
	for _, r := range rows {
		l := byInput[r.InputID]
		lines = append(lines, MaterialSummaryLine{
			MaterialSummaryRow: r,
			Budgeted:           l.Budgeted,
			Contracted:         l.Contracted,
			Diff:               l.Budgeted.Sub(l.Contracted),
			Invoiced:           decimal.Zero,
			ShippedAndInvoiced: decimal.Zero,
		})
	}
	return lines
}
