// Package orderrepo persists the order aggregate in postgres through gorm.
package orderrepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the row layout of the orders table.
type OrderDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID  string          `gorm:"type:varchar(255);not null;index"`
	Items       ItemsJSON       `gorm:"type:jsonb;not null"`
	TotalAmount decimal.Decimal `gorm:"type:numeric;not null"`
	Currency    string          `gorm:"type:varchar(8);not null"`
	Status      string          `gorm:"type:varchar(16);not null;index"`
	CreatedAt   time.Time       `gorm:"type:timestamptz;not null;autoCreateTime:false"`
	UpdatedAt   time.Time       `gorm:"type:timestamptz;not null;autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ItemsJSON stores the opaque line items as a jsonb array.
type ItemsJSON []map[string]any

func (j ItemsJSON) Value() (driver.Value, error) {
	if j == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(j)
}

func (j *ItemsJSON) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*j = ItemsJSON{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("orderrepo: cannot scan %T into ItemsJSON", src)
	}
	return json.Unmarshal(raw, (*[]map[string]any)(j))
}

func fromDomain(o *order.Order) OrderDTO {
	items := o.Items()
	rows := make(ItemsJSON, len(items))
	for i, item := range items {
		rows[i] = item
	}

	return OrderDTO{
		ID:          o.ID().Bytes(),
		CustomerID:  o.CustomerID(),
		Items:       rows,
		TotalAmount: o.TotalAmount().Amount(),
		Currency:    o.TotalAmount().Currency(),
		Status:      o.Status().String(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.TotalAmount, dto.Currency)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, len(dto.Items))
	for i, item := range dto.Items {
		items[i] = item
	}

	return order.RestoreOrder(id, dto.CustomerID, items, total, status, dto.CreatedAt, dto.UpdatedAt)
}
