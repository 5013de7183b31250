package models

import "time"

// BaseModel provides the identity and timestamp columns shared by all tables.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// All lists every model in dependency order, for AutoMigrate in tests and
// local environments.
func All() []any {
	return []any{
		&CostCenterProjectModel{},
		&QuotationModel{},
		&RevenueCenterModel{},
		&ProjectItemModel{},
		&InvoiceModel{},
		&InvoiceProjectItemModel{},
		&InputModel{},
		&OrderItemModel{},
		&OrderItemDetailModel{},
		&UserModel{},
		&PositionModel{},
		&EmployeeModel{},
		&WorkTrackingModel{},
		&QuotationItemDetailModel{},
		&ExpenditureModel{},
	}
}
