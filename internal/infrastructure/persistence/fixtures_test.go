package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/erp/backoffice/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupRevenueTestDB opens an in-memory SQLite database with every table
// migrated. One connection keeps the in-memory database shared.
func setupRevenueTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, (&Database{DB: db}).AutoMigrate())
	return db
}

// newMockGormDB returns a GORM handle over sqlmock using the postgres dialect.
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// revenueFixture is a small but complete back-office dataset:
//
//	bridge (project 1) with revenue center 1, tunnel (project 2) without one.
//	bridge consumes cement 4+6 @10, gloves 2 @5, diesel 10 @3 => 140
//	tunnel consumes cement 1 @10                            => 10
//	bridge expenditures 50 + 25.5, tunnel 100
type revenueFixture struct {
	bridge, tunnel         models.CostCenterProjectModel
	center                 models.RevenueCenterModel
	cement, gloves, diesel models.InputModel
	quotation              models.QuotationModel
	ana, luis              models.EmployeeModel
	items                  []models.ProjectItemModel
	invoices               []models.InvoiceModel
}

func seedRevenueFixture(t *testing.T, db *gorm.DB) revenueFixture {
	t.Helper()
	f := revenueFixture{}
	create := func(v any) {
		require.NoError(t, db.Create(v).Error)
	}

	f.bridge = models.CostCenterProjectModel{Name: "Bridge", Address: "North road"}
	f.tunnel = models.CostCenterProjectModel{Name: "Tunnel"}
	create(&f.bridge)
	create(&f.tunnel)

	f.quotation = models.QuotationModel{CostCenterProjectID: f.bridge.ID, Name: "Q-bridge"}
	create(&f.quotation)

	qid := f.quotation.ID
	f.center = models.RevenueCenterModel{
		Name:                "Bridge revenue",
		CostCenterProjectID: f.bridge.ID,
		StatusID:            1,
		QuotationID:         &qid,
		FromDate:            day(2024, 1, 1),
		ToDate:              day(2024, 12, 31),
		Invoice:             "0.0",
		Spend:               "0.0",
		Utility:             "0.0",
		Version:             1,
	}
	require.NoError(t, db.Omit("CostCenterProject").Create(&f.center).Error)

	f.cement = models.InputModel{Name: "Cement", InputTypeID: revenue.InputTypeMaterial, UnitOfMeasure: "bag", Cost: dec("10"), Performance: dec("2.5")}
	f.gloves = models.InputModel{Name: "Gloves", InputTypeID: revenue.InputTypeEPP, UnitOfMeasure: "pair", Cost: dec("5")}
	f.diesel = models.InputModel{Name: "Diesel", InputTypeID: revenue.InputTypeGeneral, UnitOfMeasure: "gal", Cost: dec("3")}
	create(&f.cement)
	create(&f.gloves)
	create(&f.diesel)

	request := uint(100)
	bridgeOrder := models.OrderItemModel{CostCenterProjectID: f.bridge.ID, OrderRequestID: &request}
	tunnelOrder := models.OrderItemModel{CostCenterProjectID: f.tunnel.ID}
	create(&bridgeOrder)
	create(&tunnelOrder)
	for _, d := range []models.OrderItemDetailModel{
		{OrderItemID: bridgeOrder.ID, InputID: f.cement.ID, Quantity: dec("4")},
		{OrderItemID: bridgeOrder.ID, InputID: f.cement.ID, Quantity: dec("6")},
		{OrderItemID: bridgeOrder.ID, InputID: f.gloves.ID, Quantity: dec("2")},
		{OrderItemID: bridgeOrder.ID, InputID: f.diesel.ID, Quantity: dec("10")},
		{OrderItemID: tunnelOrder.ID, InputID: f.cement.ID, Quantity: dec("1")},
	} {
		create(&d)
	}

	anaUser := models.UserModel{Name: "Ana"}
	luisUser := models.UserModel{Name: "Luis"}
	operator := models.PositionModel{Name: "Operator"}
	create(&anaUser)
	create(&luisUser)
	create(&operator)
	f.ana = models.EmployeeModel{UserID: anaUser.ID, PositionID: operator.ID, BaseSalary: dec("3000000")}
	f.luis = models.EmployeeModel{UserID: luisUser.ID, PositionID: operator.ID, BaseSalary: dec("3100000")}
	create(&f.ana)
	create(&f.luis)

	track := func(emp models.EmployeeModel, project models.CostCenterProjectModel, dates ...time.Time) {
		for _, d := range dates {
			create(&models.WorkTrackingModel{EmployeeID: emp.ID, CostCenterProjectID: project.ID, WorkDate: d})
		}
	}
	for d := 1; d <= 20; d++ {
		track(f.ana, f.bridge, day(2024, time.March, d))
	}
	track(f.ana, f.bridge, day(2024, time.January, 8), day(2024, time.January, 9))
	track(f.ana, f.bridge, day(2023, time.December, 29))
	track(f.ana, f.tunnel, day(2024, time.March, 25), day(2024, time.March, 26), day(2024, time.March, 27))
	track(f.luis, f.bridge, day(2024, time.February, 1), day(2024, time.February, 2), day(2024, time.February, 5),
		day(2024, time.February, 6), day(2024, time.February, 7))

	for _, e := range []models.ExpenditureModel{
		{CostCenterProjectID: f.bridge.ID, ExpenditureTypeID: 1, Description: "Crane rental", TotalValue: dec("50"), ExpenditureDate: day(2024, 2, 1)},
		{CostCenterProjectID: f.bridge.ID, ExpenditureTypeID: 2, Description: "Permits", TotalValue: dec("25.5"), ExpenditureDate: day(2024, 3, 1)},
		{CostCenterProjectID: f.tunnel.ID, ExpenditureTypeID: 1, Description: "Survey", TotalValue: dec("100"), ExpenditureDate: day(2024, 1, 15)},
	} {
		create(&e)
	}

	for _, d := range []models.QuotationItemDetailModel{
		{QuotationID: f.quotation.ID, InputID: f.cement.ID, Quantity: dec("10"), TotalCost: dec("100"), Performance: dec("2.5"), Budgeted: dec("100"), Contracted: dec("80")},
		{QuotationID: f.quotation.ID, InputID: f.cement.ID, Quantity: dec("5"), TotalCost: dec("50"), Performance: dec("3"), Budgeted: dec("20"), Contracted: dec("10")},
		{QuotationID: f.quotation.ID, InputID: f.gloves.ID, Quantity: dec("2"), TotalCost: dec("10")},
	} {
		create(&d)
	}

	f.items = []models.ProjectItemModel{
		{CostCenterProjectID: f.bridge.ID, Contract: "C-1", Item: "Excavation", UnitMeasure: "m3", Quantity: dec("10"), UnitPrice: dec("100"), Total: dec("1000")},
		{CostCenterProjectID: f.bridge.ID, Contract: "C-1", Item: "Backfill", UnitMeasure: "m3", Quantity: dec("5"), UnitPrice: dec("20"), Total: dec("100")},
		{CostCenterProjectID: f.bridge.ID, Contract: "C-2", Item: "Paving", UnitMeasure: "m2", Quantity: dec("2"), UnitPrice: dec("300"), Total: dec("600")},
		{CostCenterProjectID: f.tunnel.ID, Contract: "T-1", Item: "Drilling", UnitMeasure: "m", Quantity: dec("1"), UnitPrice: dec("1"), Total: dec("1")},
	}
	for i := range f.items {
		create(&f.items[i])
	}

	f.invoices = []models.InvoiceModel{
		{RevenueCenterID: f.center.ID, InvoiceNumber: "F-001", Contract: "C-1", InvoiceDate: day(2024, 2, 1), Total: dec("300")},
		{RevenueCenterID: f.center.ID, InvoiceNumber: "F-002", Contract: "C-2", InvoiceDate: day(2024, 3, 1), Total: dec("300")},
	}
	for i := range f.invoices {
		create(&f.invoices[i])
	}
	create(&models.InvoiceProjectItemModel{InvoiceID: f.invoices[0].ID, ProjectItemID: f.items[0].ID, InvoicedQuantity: dec("3")})
	create(&models.InvoiceProjectItemModel{InvoiceID: f.invoices[1].ID, ProjectItemID: f.items[2].ID, InvoicedQuantity: dec("1")})
	create(&models.InvoiceProjectItemModel{InvoiceID: 999, ProjectItemID: f.items[0].ID, InvoicedQuantity: dec("2")})

	return f
}
