package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements revenue.ReportRepository using GORM
type GormReportRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db, now: time.Now}
}

type workTrackingRecord struct {
	Name         string
	ProjectName  string
	PositionName string
	BaseSalary   decimal.Decimal
	Month01      int
	Month02      int
	Month03      int
	Month04      int
	Month05      int
	Month06      int
	Month07      int
	Month08      int
	Month09      int
	Month10      int
	Month11      int
	Month12      int
}

func (r workTrackingRecord) toDomain() revenue.WorkTrackingRow {
	return revenue.WorkTrackingRow{
		Name:         r.Name,
		ProjectName:  r.ProjectName,
		PositionName: r.PositionName,
		BaseSalary:   r.BaseSalary,
		DaysWorked: [12]int{
			r.Month01, r.Month02, r.Month03, r.Month04, r.Month05, r.Month06,
			r.Month07, r.Month08, r.Month09, r.Month10, r.Month11, r.Month12,
		},
	}
}

// monthExpr returns the dialect-specific expression for the month of column.
func monthExpr(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlite" {
		return fmt.Sprintf("CAST(strftime('%%m', %s) AS INTEGER)", column)
	}
	return fmt.Sprintf("EXTRACT(MONTH FROM %s)", column)
}

func workTrackingSelect(db *gorm.DB) string {
	month := monthExpr(db, "wt.work_date")
	cols := []string{
		"u.name AS name",
		"ccp.name AS project_name",
		"p.name AS position_name",
		"MAX(e.base_salary) AS base_salary",
	}
	for m := 1; m <= 12; m++ {
		cols = append(cols, fmt.Sprintf("SUM(CASE WHEN %s = %d THEN 1 ELSE 0 END) AS month%02d", month, m, m))
	}
	return strings.Join(cols, ", ")
}

// FindAllWorkTracking pivots work days per (employee, project, position) into
// twelve month columns for filter.Year, or the current year when unset.
func (r *GormReportRepository) FindAllWorkTracking(ctx context.Context, page shared.Page, filter revenue.WorkTrackingFilter) (*revenue.RowSet[revenue.WorkTrackingRow], error) {
	year := filter.Year
	if year == 0 {
		year = r.now().Year()
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	where := predicates{}.
		when(true, "wt.work_date >= ? AND wt.work_date < ?", from, to).
		when(filter.RevenueCenterID != nil, "rc.id = ?", derefUint(filter.RevenueCenterID)).
		when(filter.CostCenterProjectID != nil, "wt.cost_center_project_id = ?", derefUint(filter.CostCenterProjectID))

	q := reportQuery{
		build: func(db *gorm.DB) *gorm.DB {
			stmt := db.Table("work_trackings wt").
				Select(workTrackingSelect(db)).
				Joins("JOIN employees e ON e.id = wt.employee_id").
				Joins("JOIN users u ON u.id = e.user_id").
				Joins("JOIN positions p ON p.id = e.position_id").
				Joins("JOIN cost_center_projects ccp ON ccp.id = wt.cost_center_project_id")
			if filter.RevenueCenterID != nil {
				stmt = stmt.Joins("JOIN revenue_centers rc ON rc.cost_center_project_id = wt.cost_center_project_id")
			}
			return where.apply(stmt).Group("u.name, ccp.name, p.name")
		},
		order: "name, project_name, position_name",
	}

	return runReport(ctx, r.db, q, page, workTrackingRecord.toDomain)
}

type inputValueRecord struct {
	CostCenterProjectID uint
	TotalValue          decimal.Decimal
}

// FindInputValues sums quantity × cost of consumed inputs per cost center
// project over every input type counted as spend.
func (r *GormReportRepository) FindInputValues(ctx context.Context) ([]revenue.InputValue, error) {
	var records []inputValueRecord
	err := r.db.WithContext(ctx).
		Table("order_item_details odi").
		Select("oi.cost_center_project_id AS cost_center_project_id, COALESCE(SUM(odi.quantity * i.cost), 0) AS total_value").
		Joins("JOIN order_items oi ON oi.id = odi.order_item_id").
		Joins("JOIN inputs i ON i.id = odi.input_id").
		Where("i.input_type_id IN ?", revenue.SpendInputTypes).
		Group("oi.cost_center_project_id").
		Order("oi.cost_center_project_id").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return mapSlice(records, func(rec inputValueRecord) revenue.InputValue {
		return revenue.InputValue{CostCenterProjectID: rec.CostCenterProjectID, TotalValue: rec.TotalValue}
	}), nil
}

type inputConsumptionRecord struct {
	MaterialName   string
	CostCenterName string
	Quantity       decimal.Decimal
	UnitOfMeasure  string
	CreatedAt      time.Time
	OrderRequestID *uint
	Cost           decimal.Decimal
	TotalValue     decimal.Decimal
}

func (r inputConsumptionRecord) toDomain() revenue.InputConsumptionRow {
	return revenue.InputConsumptionRow(r)
}

// FindAllInput lists consumed inputs of one type for a revenue center.
func (r *GormReportRepository) FindAllInput(ctx context.Context, page shared.Page, filter revenue.InputFilter) (*revenue.RowSet[revenue.InputConsumptionRow], error) {
	where := predicates{}.
		when(true, "rc.id = ?", filter.RevenueCenterID).
		when(true, "i.input_type_id = ?", filter.InputTypeID)

	q := reportQuery{
		build: func(db *gorm.DB) *gorm.DB {
			return where.apply(db.Table("order_item_details odi").
				Select(`i.name AS material_name,
					ccp.name AS cost_center_name,
					odi.quantity AS quantity,
					i.unit_of_measure AS unit_of_measure,
					odi.created_at AS created_at,
					oi.order_request_id AS order_request_id,
					i.cost AS cost,
					odi.quantity * i.cost AS total_value`).
				Joins("JOIN order_items oi ON oi.id = odi.order_item_id").
				Joins("JOIN inputs i ON i.id = odi.input_id").
				Joins("JOIN cost_center_projects ccp ON ccp.id = oi.cost_center_project_id").
				Joins("JOIN revenue_centers rc ON rc.cost_center_project_id = oi.cost_center_project_id"))
		},
		order: "created_at, material_name",
	}

	return runReport(ctx, r.db, q, page, inputConsumptionRecord.toDomain)
}

type quotationRecord struct {
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

func (r quotationRecord) toDomain() revenue.QuotationSummaryRow {
	return revenue.QuotationSummaryRow(r)
}

// FindAllQuotation groups quotation item details by input and cost center
// project. MAX(created_at) and MAX(performance) represent each group.
func (r *GormReportRepository) FindAllQuotation(ctx context.Context, page shared.Page, filter revenue.QuotationFilter) (*revenue.RowSet[revenue.QuotationSummaryRow], error) {
	where := predicates{}.
		when(filter.RevenueCenterID != nil, "rc.id = ?", derefUint(filter.RevenueCenterID))

	q := reportQuery{
		build: func(db *gorm.DB) *gorm.DB {
			stmt := db.Table("quotation_item_details qid").
				Select(`qid.input_id AS input_id,
					i.name AS input_name,
					i.unit_of_measure AS unit_of_measure,
					q.cost_center_project_id AS cost_center_project_id,
					ccp.name AS cost_center_name,
					SUM(qid.quantity) AS quantity,
					SUM(qid.total_cost) AS total_cost,
					MAX(qid.created_at) AS created_at,
					MAX(qid.performance) AS performance`).
				Joins("JOIN quotations q ON q.id = qid.quotation_id").
				Joins("JOIN inputs i ON i.id = qid.input_id").
				Joins("JOIN cost_center_projects ccp ON ccp.id = q.cost_center_project_id")
			if filter.RevenueCenterID != nil {
				stmt = stmt.Joins("JOIN revenue_centers rc ON rc.cost_center_project_id = q.cost_center_project_id")
			}
			return where.apply(stmt).
				Group("qid.input_id, i.name, i.unit_of_measure, q.cost_center_project_id, ccp.name")
		},
		order: "input_name, cost_center_project_id",
	}

	return runReport(ctx, r.db, q, page, quotationRecord.toDomain)
}

type materialSummaryRecord struct {
	InputID       uint
	MaterialName  string
	UnitOfMeasure string
	Shipped       decimal.Decimal
	Performance   decimal.Decimal
	QuantityM2    decimal.Decimal
}

func (r materialSummaryRecord) toDomain() revenue.MaterialSummaryRow {
	return revenue.MaterialSummaryRow(r)
}

// FindAllMaterialSummaryDetail sums shipped material per input for a revenue
// center, with quantityM2 = shipped × performance.
func (r *GormReportRepository) FindAllMaterialSummaryDetail(ctx context.Context, page shared.Page, filter revenue.MaterialSummaryFilter) (*revenue.RowSet[revenue.MaterialSummaryRow], error) {
	where := predicates{}.
		when(true, "rc.id = ?", filter.RevenueCenterID).
		when(true, "i.input_type_id = ?", revenue.InputTypeMaterial)

	q := reportQuery{
		build: func(db *gorm.DB) *gorm.DB {
			return where.apply(db.Table("order_item_details odi").
				Select(`odi.input_id AS input_id,
					i.name AS material_name,
					i.unit_of_measure AS unit_of_measure,
					SUM(odi.quantity) AS shipped,
					MAX(i.performance) AS performance,
					SUM(odi.quantity) * MAX(i.performance) AS quantity_m2`).
				Joins("JOIN order_items oi ON oi.id = odi.order_item_id").
				Joins("JOIN inputs i ON i.id = odi.input_id").
				Joins("JOIN revenue_centers rc ON rc.cost_center_project_id = oi.cost_center_project_id")).
				Group("odi.input_id, i.name, i.unit_of_measure")
		},
		order: "material_name",
	}

	return runReport(ctx, r.db, q, page, materialSummaryRecord.toDomain)
}

func derefUint(v *uint) uint {
	if v == nil {
		return 0
	}
	return *v
}
