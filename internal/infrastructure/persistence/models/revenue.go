package models

import (
	"time"

	"github.com/erp/backoffice/internal/domain/revenue"
	"github.com/shopspring/decimal"
)

// CostCenterProjectModel is the persistence model for cost center projects.
type CostCenterProjectModel struct {
	BaseModel
	Name    string `gorm:"type:varchar(200);not null"`
	Address string `gorm:"type:varchar(300)"`
	Phone   string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (CostCenterProjectModel) TableName() string {
	return "cost_center_projects"
}

// ToDomain converts the model to a domain CostCenterProject.
func (m *CostCenterProjectModel) ToDomain() *revenue.CostCenterProject {
	return &revenue.CostCenterProject{
		ID:      m.ID,
		Name:    m.Name,
		Address: m.Address,
		Phone:   m.Phone,
	}
}

// RevenueCenterModel is the persistence model for the RevenueCenter aggregate.
// Version backs the optimistic check on snapshot writes.
type RevenueCenterModel struct {
	BaseModel
	Name                string    `gorm:"type:varchar(200);not null"`
	CostCenterProjectID uint      `gorm:"not null;uniqueIndex"`
	StatusID            uint      `gorm:"not null;index"`
	QuotationID         *uint     `gorm:"index"`
	FromDate            time.Time `gorm:"not null"`
	ToDate              time.Time `gorm:"not null"`
	Invoice             string    `gorm:"type:varchar(50);not null;default:'0.0'"`
	Spend               string    `gorm:"type:varchar(50);not null;default:'0.0'"`
	Utility             string    `gorm:"type:varchar(50);not null;default:'0.0'"`
	Version             int       `gorm:"not null;default:1"`

	CostCenterProject CostCenterProjectModel `gorm:"foreignKey:CostCenterProjectID"`
}

// TableName returns the table name for GORM
func (RevenueCenterModel) TableName() string {
	return "revenue_centers"
}

// ToDomain converts the model to a domain RevenueCenter.
func (m *RevenueCenterModel) ToDomain() *revenue.RevenueCenter {
	return &revenue.RevenueCenter{
		ID:                  m.ID,
		Name:                m.Name,
		CostCenterProjectID: m.CostCenterProjectID,
		StatusID:            m.StatusID,
		QuotationID:         m.QuotationID,
		FromDate:            m.FromDate,
		ToDate:              m.ToDate,
		Invoice:             m.Invoice,
		Spend:               m.Spend,
		Utility:             m.Utility,
		Version:             m.Version,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// FromDomain populates the model from a domain RevenueCenter.
func (m *RevenueCenterModel) FromDomain(rc *revenue.RevenueCenter) {
	m.ID = rc.ID
	m.CreatedAt = rc.CreatedAt
	m.UpdatedAt = rc.UpdatedAt
	m.Name = rc.Name
	m.CostCenterProjectID = rc.CostCenterProjectID
	m.StatusID = rc.StatusID
	m.QuotationID = rc.QuotationID
	m.FromDate = rc.FromDate
	m.ToDate = rc.ToDate
	m.Invoice = rc.Invoice
	m.Spend = rc.Spend
	m.Utility = rc.Utility
	m.Version = rc.Version
}

// ProjectItemModel is a contracted billable line of a cost center project.
type ProjectItemModel struct {
	BaseModel
	CostCenterProjectID uint            `gorm:"not null;index"`
	Contract            string          `gorm:"type:varchar(100);not null;index"`
	Item                string          `gorm:"type:varchar(300);not null"`
	UnitMeasure         string          `gorm:"type:varchar(30)"`
	Quantity            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total               decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	InvoicedQuantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProjectItemModel) TableName() string {
	return "project_items"
}

// ToDomain converts the model to a domain ProjectItem.
func (m *ProjectItemModel) ToDomain() revenue.ProjectItem {
	return revenue.ProjectItem{
		ID:                  m.ID,
		CostCenterProjectID: m.CostCenterProjectID,
		Contract:            m.Contract,
		Item:                m.Item,
		UnitMeasure:         m.UnitMeasure,
		Quantity:            m.Quantity,
		UnitPrice:           m.UnitPrice,
		Total:               m.Total,
		InvoicedQuantity:    m.InvoicedQuantity,
	}
}

// InvoiceModel is an issued invoice.
type InvoiceModel struct {
	BaseModel
	RevenueCenterID uint            `gorm:"not null;index"`
	InvoiceNumber   string          `gorm:"type:varchar(50);not null"`
	Contract        string          `gorm:"type:varchar(100);not null;index"`
	InvoiceDate     time.Time       `gorm:"not null"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the model to a domain Invoice.
func (m *InvoiceModel) ToDomain() revenue.Invoice {
	return revenue.Invoice{
		ID:              m.ID,
		RevenueCenterID: m.RevenueCenterID,
		InvoiceNumber:   m.InvoiceNumber,
		Contract:        m.Contract,
		InvoiceDate:     m.InvoiceDate,
		Total:           m.Total,
	}
}

// InvoiceProjectItemModel allocates part of an invoice to a project item.
// InvoiceID carries no foreign key: orphaned allocations exist in practice
// and are reported, not rejected.
type InvoiceProjectItemModel struct {
	BaseModel
	InvoiceID        uint            `gorm:"not null;index"`
	ProjectItemID    uint            `gorm:"not null;index"`
	InvoicedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InvoiceProjectItemModel) TableName() string {
	return "invoice_project_items"
}

// ToDomain converts the model to a domain InvoiceProjectItem.
func (m *InvoiceProjectItemModel) ToDomain() revenue.InvoiceProjectItem {
	return revenue.InvoiceProjectItem{
		ID:               m.ID,
		InvoiceID:        m.InvoiceID,
		ProjectItemID:    m.ProjectItemID,
		InvoicedQuantity: m.InvoicedQuantity,
	}
}

// InputModel is a material, EPP item or general consumable.
type InputModel struct {
	BaseModel
	Name          string            `gorm:"type:varchar(200);not null"`
	InputTypeID   revenue.InputType `gorm:"not null;index"`
	UnitOfMeasure string            `gorm:"type:varchar(30)"`
	Cost          decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Performance   decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InputModel) TableName() string {
	return "inputs"
}

// OrderItemModel is a consumption order placed for a cost center project.
type OrderItemModel struct {
	BaseModel
	CostCenterProjectID uint  `gorm:"not null;index"`
	OrderRequestID      *uint `gorm:"index"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// OrderItemDetailModel is one consumed input line of an order item.
type OrderItemDetailModel struct {
	BaseModel
	OrderItemID uint            `gorm:"not null;index"`
	InputID     uint            `gorm:"not null;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderItemDetailModel) TableName() string {
	return "order_item_details"
}

// UserModel holds the display name of a person.
type UserModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// PositionModel is a job position.
type PositionModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (PositionModel) TableName() string {
	return "positions"
}

// EmployeeModel links a user to a position and monthly base salary.
type EmployeeModel struct {
	BaseModel
	UserID     uint            `gorm:"not null;index"`
	PositionID uint            `gorm:"not null;index"`
	BaseSalary decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// WorkTrackingModel records one employee work day on a project.
type WorkTrackingModel struct {
	BaseModel
	EmployeeID          uint      `gorm:"not null;index"`
	CostCenterProjectID uint      `gorm:"not null;index"`
	WorkDate            time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (WorkTrackingModel) TableName() string {
	return "work_trackings"
}

// QuotationModel is a quotation issued for a cost center project.
type QuotationModel struct {
	BaseModel
	CostCenterProjectID uint   `gorm:"not null;index"`
	Name                string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// QuotationItemDetailModel is the quoted quantity and cost of an input.
type QuotationItemDetailModel struct {
	BaseModel
	QuotationID uint            `gorm:"not null;index"`
	InputID     uint            `gorm:"not null;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCost   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Performance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Budgeted    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Contracted  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (QuotationItemDetailModel) TableName() string {
	return "quotation_item_details"
}

// ExpenditureModel is a direct cost booked against a cost center project.
type ExpenditureModel struct {
	BaseModel
	CostCenterProjectID uint            `gorm:"not null;index"`
	ExpenditureTypeID   uint            `gorm:"not null;index"`
	Description         string          `gorm:"type:varchar(500)"`
	TotalValue          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpenditureDate     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExpenditureModel) TableName() string {
	return "expenditures"
}

// ToDomain converts the model to a domain Expenditure.
func (m *ExpenditureModel) ToDomain() revenue.Expenditure {
	return revenue.Expenditure{
		ID:                  m.ID,
		CostCenterProjectID: m.CostCenterProjectID,
		ExpenditureTypeID:   m.ExpenditureTypeID,
		Description:         m.Description,
		TotalValue:          m.TotalValue,
		ExpenditureDate:     m.ExpenditureDate,
		CreatedAt:           m.CreatedAt,
	}
}
