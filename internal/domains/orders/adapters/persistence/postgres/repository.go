package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/orderhub/order-service/internal/domains/orders/domain"
	"github.com/orderhub/order-service/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table. The primary key
// is generated by the database so Insert always yields a fresh identifier.
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

// Insert stores a new order and returns it with the generated identifier.
func (r *Repository) Insert(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Update overwrites an existing order wholesale.
func (r *Repository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	result := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", record.ID).
		Updates(map[string]any{
			"product_id":  record.ProductID,
			"quantity":    record.Quantity,
			"total_price": record.TotalPrice,
			"order_date":  record.OrderDate,
			"user_id":     record.UserID,
			"updated_at":  gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

// Delete removes an order by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns all orders in storage order.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:         order.ID,
		ProductID:  order.ProductID,
		Quantity:   order.Quantity,
		TotalPrice: order.TotalPrice,
		OrderDate:  order.OrderDate,
		UserID:     order.UserID,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:         r.ID,
		ProductID:  r.ProductID,
		Quantity:   r.Quantity,
		TotalPrice: r.TotalPrice,
		OrderDate:  r.OrderDate,
		UserID:     r.UserID,
	}
}
