package revenue

import (
	"context"
	"fmt"
	"strconv"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/export"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Export views accepted by ReportService.Export
const (
	ViewMaterial          = "material"
	ViewInputs            = "inputs"
	ViewEpp               = "epp"
	ViewExpenditures      = "expenditures"
	ViewContractedSummary = "contracted-summary"
	ViewWorkTracking      = "work-tracking"
	ViewQuotation         = "quotation"
	ViewInvoiceSummary    = "invoice-summary"
	ViewMaterialSummary   = "material-summary"
)

var inputHeaders = []string{"Material", "Cost center", "Quantity", "Unit", "Date", "Order request", "Cost", "Total value"}

// Export renders one view of a revenue center, unpaginated, as an XLSX workbook.
func (s *ReportService) Export(ctx context.Context, id uint, view string) (*ExportFile, error) {
	table, err := s.exportTable(ctx, id, view)
	if err != nil {
		return nil, err
	}

	content, err := export.Workbook(*table)
	if err != nil {
		return nil, boundaryError(ctx, "report.export", err)
	}

	logger.L(ctx).Info("report exported",
		zap.Uint("revenue_center_id", id),
		zap.String("view", view),
		zap.Int("rows", len(table.Rows)),
	)
	return &ExportFile{
		FileName:    fmt.Sprintf("revenue-center-%d-%s.xlsx", id, view),
		ContentType: export.ContentTypeXLSX,
		Content:     content,
	}, nil
}

func (s *ReportService) exportTable(ctx context.Context, id uint, view string) (*export.Table, error) {
	all := shared.Unpaginated()

	switch view {
	case ViewMaterial, ViewInputs, ViewEpp:
		find := map[string]func(context.Context, uint, shared.Page) (*Paginated[InputRowResponse], error){
			ViewMaterial: s.FindAllMaterial,
			ViewInputs:   s.FindAllInputs,
			ViewEpp:      s.FindAllEpp,
		}[view]
		res, err := find(ctx, id, all)
		if err != nil {
			return nil, err
		}
		rows := make([][]any, 0, len(res.Data))
		for _, r := range res.Data {
			order := ""
			if r.OrderRequestID != nil {
				order = strconv.FormatUint(uint64(*r.OrderRequestID), 10)
			}
			rows = append(rows, []any{r.MaterialName, r.CostCenterName, r.Quantity, r.UnitOfMeasure,
				r.CreatedAt.Format("2006-01-02"), order, r.Cost, r.TotalValue})
		}
		return &export.Table{
			Title:   exportTitle(view, id),
			Headers: inputHeaders,
			Rows:    rows,
			Footer:  footer(len(inputHeaders), res.Total),
		}, nil

	case ViewExpenditures:
		res, err := s.FindAllExpenditures(ctx, id, all)
		if err != nil {
			return nil, err
		}
		headers := []string{"Description", "Project", "Type", "Date", "Total value"}
		rows := make([][]any, 0, len(res.Data))
		for _, e := range res.Data {
			rows = append(rows, []any{e.Description, e.ProjectName, e.ExpenditureTypeID,
				e.ExpenditureDate.Format("2006-01-02"), e.TotalValue})
		}
		return &export.Table{Title: exportTitle(view, id), Headers: headers, Rows: rows, Footer: footer(len(headers), res.Total)}, nil

	case ViewContractedSummary:
		res, err := s.FindAllContractedSummary(ctx, id, all)
		if err != nil {
			return nil, err
		}
		headers := []string{"Contract", "Item", "Unit", "Quantity", "Unit price", "Total value", "Total"}
		rows := make([][]any, 0, len(res.Data))
		for _, l := range res.Data {
			rows = append(rows, []any{l.Contract, l.Item, l.UnitMeasure, l.Quantity, l.UnitPrice, l.TotalValue, l.Total})
		}
		return &export.Table{Title: exportTitle(view, id), Headers: headers, Rows: rows, Footer: footer(len(headers), res.Total)}, nil

	case ViewWorkTracking:
		res, err := s.FindAllWorkTracking(ctx, &id, all)
		if err != nil {
			return nil, err
		}
		headers := []string{"Name", "Project", "Position", "Base salary"}
		for m := 1; m <= 12; m++ {
			headers = append(headers, fmt.Sprintf("M%02d", m))
		}
		headers = append(headers, "Total")
		rows := make([][]any, 0, len(res.Data))
		for _, w := range res.Data {
			row := []any{w.Name, w.ProjectName, w.PositionName, w.BaseSalary}
			for _, m := range w.Months {
				row = append(row, m.Value)
			}
			rows = append(rows, append(row, w.MonthlyTotal))
		}
		return &export.Table{Title: exportTitle(view, id), Headers: headers, Rows: rows, Footer: footer(len(headers), res.Total)}, nil

	case ViewQuotation:
		res, err := s.FindAllQuotation(ctx, &id, all)
		if err != nil {
			return nil, err
		}
		headers := []string{"Input", "Unit", "Cost center", "Quantity", "Performance", "Total cost"}
		rows := make([][]any, 0, len(res.Data))
		for _, q := range res.Data {
			rows = append(rows, []any{q.InputName, q.UnitOfMeasure, q.CostCenterName, q.Quantity, q.Performance, q.TotalCost})
		}
		return &export.Table{Title: exportTitle(view, id), Headers: headers, Rows: rows, Footer: footer(len(headers), res.Total)}, nil

	case ViewInvoiceSummary:
		res, err := s.FindAllInvoiceSummary(ctx, id)
		if err != nil {
			return nil, err
		}
		headers := []string{"Contract", "Item", "Unit", "Quantity", "Unit price", "Total",
			"Accumulated quantity", "Accumulated value", "Pending quantity", "Pending value"}
		var rows [][]any
		for _, g := range res.Contracts {
			for _, it := range g.Items {
				rows = append(rows, []any{g.Contract, it.Item, it.UnitMeasure, it.Quantity, it.UnitPrice, it.Total,
					it.AccumulatedQuantity, it.AccumulatedValue, it.PendingQuantity, it.PendingValue})
			}
		}
		f := make([]any, len(headers))
		f[0] = "Total"
		f[7] = res.TotalAccumulated
		f[9] = res.TotalPending
		return &export.Table{Title: exportTitle(view, id), Headers: headers, Rows: rows, Footer: f}, nil

	case ViewMaterialSummary:
		res, err := s.FindAllMaterialSummaryDetail(ctx, id, all)
		if err != nil {
			return nil, err
		}
		headers := []string{"Material", "Unit", "Shipped", "Quantity m2", "Budgeted", "Contracted", "Diff", "Invoiced", "Shipped and invoiced"}
		rows := make([][]any, 0, len(res.Data))
		for _, m := range res.Data {
			rows = append(rows, []any{m.MaterialName, m.UnitOfMeasure, m.Shipped, m.QuantityM2, m.Budgeted,
				m.Contracted, m.Diff, m.Invoiced, m.ShippedAndInvoiced})
		}
		return &export.Table{Title: exportTitle(view, id), Headers: headers, Rows: rows}, nil
	}

	return nil, shared.InvalidInput(fmt.Sprintf("view - Unsupported export view %q", view))
}

func exportTitle(view string, id uint) string {
	return fmt.Sprintf("%s %d", view, id)
}

// footer places "Total" in the first column and total in the last one.
func footer(width int, total string) []any {
	f := make([]any, width)
	f[0] = "Total"
	f[width-1] = total
	return f
}
