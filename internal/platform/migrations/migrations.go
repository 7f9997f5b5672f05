// Package migrations applies the relational schema for the service.
package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&orderRecord{})
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID         int64           `gorm:"primaryKey;autoIncrement;column:id"`
	ProductID  int64           `gorm:"column:product_id;index"`
	Quantity   int32           `gorm:"column:quantity"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2)"`
	OrderDate  time.Time       `gorm:"column:order_date"`
	UserID     string          `gorm:"column:user_id;type:varchar(128);index"`
	CreatedAt  time.Time       `gorm:"column:created_at;index"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }
