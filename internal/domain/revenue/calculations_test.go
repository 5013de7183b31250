package revenue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceContractedLine(t *testing.T) {
	line := PriceContractedLine(ProjectItem{Quantity: d("10"), UnitPrice: d("100")}, DefaultContractedMarkup)

	assert.Equal(t, "100.00", line.SubTotal.StringFixed(2))
	assert.Equal(t, "1000.00", line.TotalValue.StringFixed(2))
	assert.Equal(t, "11557.00", line.Total.StringFixed(2))
}

func TestSumContracted(t *testing.T) {
	lines := []ContractedLine{
		PriceContractedLine(ProjectItem{Quantity: d("10"), UnitPrice: d("100")}, d("1")),
		PriceContractedLine(ProjectItem{Quantity: d("2"), UnitPrice: d("5")}, d("1")),
	}
	// 10*1000 + 2*10
	assert.True(t, SumContracted(lines).Equal(d("10020")))
	assert.True(t, SumContracted(nil).IsZero())
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tc := range tests {
		t.Run(tc.month.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, DaysIn(tc.year, tc.month))
		})
	}
}

func TestSummarizeWorkTracking(t *testing.T) {
	row := WorkTrackingRow{Name: "Ana", BaseSalary: d("3000000")}
	row.DaysWorked[2] = 20

	summary := SummarizeWorkTracking(row, 2024)

	require.Len(t, summary.Months, 12)
	march := summary.Months[2]
	assert.Equal(t, time.March, march.Month)
	assert.Equal(t, 20, march.DaysWorked)
	assert.Equal(t, "1935483.87", march.Value.StringFixed(2))
	assert.True(t, summary.Months[0].Value.IsZero())
	assert.Equal(t, "1935483.87", summary.Total.StringFixed(2))
}

func TestSpendByProject(t *testing.T) {
	spend := SpendByProject(
		[]InputValue{{CostCenterProjectID: 1, TotalValue: d("120.50")}, {CostCenterProjectID: 2, TotalValue: d("10")}},
		[]ExpenditureValue{{CostCenterProjectID: 1, TotalValue: d("79.50")}, {CostCenterProjectID: 3, TotalValue: d("500")}},
	)

	assert.True(t, spend[1].Equal(d("200")))
	assert.True(t, spend[2].Equal(d("10")))
	assert.True(t, spend[3].Equal(d("500")))
	assert.True(t, spend[4].IsZero())
}

func TestJoinMaterialSummary(t *testing.T) {
	rows := []MaterialSummaryRow{
		{InputID: 1, MaterialName: "Cement", Shipped: d("40")},
		{InputID: 2, MaterialName: "Sand", Shipped: d("10")},
	}
	lookups := []QuotationItemLookup{{InputID: 1, Budgeted: d("100"), Contracted: d("80")}}

	lines := JoinMaterialSummary(rows, lookups)

	require.Len(t, lines, 2)
	assert.True(t, lines[0].Diff.Equal(d("20")))
	assert.True(t, lines[0].Invoiced.IsZero())
	assert.True(t, lines[0].ShippedAndInvoiced.IsZero())
	assert.True(t, lines[1].Budgeted.IsZero())
	assert.True(t, lines[1].Diff.IsZero())
}
