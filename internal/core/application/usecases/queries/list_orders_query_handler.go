package queries

import (
	"context"
	"strings"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads order summaries with plain SQL, bypassing the
// aggregate.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if query.CustomerID() != "" {
		where = append(where, "customer_id = ?")
		args = append(args, query.CustomerID())
	}
	if query.Status() != order.Unknown {
		where = append(where, "status = ?")
		args = append(args, query.Status().String())
	}

	sql := `
		SELECT
			id,
			customer_id,
			total_amount,
			currency,
			status,
			created_at,
			updated_at
		FROM orders`
	if len(where) > 0 {
		sql += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	sql += "\n\t\tORDER BY created_at DESC, id\n\t\tLIMIT ? OFFSET ?"
	args = append(args, query.Limit(), query.Offset())

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]OrderSummary, 0)
	for rows.Next() {
		var (
			summary  OrderSummary
			id       uuid.UUID
			amount   decimal.Decimal
			currency string
			status   string
		)

		err = rows.Scan(
			&id,
			&summary.CustomerID,
			&amount,
			&currency,
			&status,
			&summary.CreatedAt,
			&summary.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		summary.ID = orderID

		total, moneyErr := kernel.NewMoney(amount, currency)
		if moneyErr != nil {
			return nil, moneyErr
		}
		summary.TotalAmount = total

		s, statusErr := order.StatusFromString(status)
		if statusErr != nil {
			return nil, statusErr
		}
		summary.Status = s
		summary.CreatedAt = summary.CreatedAt.UTC()
		summary.UpdatedAt = summary.UpdatedAt.UTC()

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
