package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for a committed sales order
type OrderModel struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"`
	ClientID   string          `gorm:"type:varchar(64);not null;index"`
	SalesmanID string          `gorm:"type:varchar(64);not null;index"`
	Total      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt  time.Time       `gorm:"not null;index"`

	Items []LineItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for OrderModel
func (OrderModel) TableName() string {
	return "orders"
}

// LineItemModel is the persistence model for a single product line of an
// order. An order holds at most one line per product.
type LineItemModel struct {
	OrderID   uint   `gorm:"primaryKey"`
	ProductID string `gorm:"primaryKey;type:varchar(64)"`
	Quantity  int64  `gorm:"not null"`
}

// TableName returns the table name for LineItemModel
func (LineItemModel) TableName() string {
	return "order_line_items"
}
