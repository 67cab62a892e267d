// Package http is the REST adapter. It implements servers.ServerInterface on top
// of the order use cases.
package http

import (
	"context"
	"net/http"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/generated/servers"
	"orders/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type createOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
}

type updateOrderStatusHandler interface {
	Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
}

type getOrderHandler interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error)
}

type listOrdersHandler interface {
	Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderSummary, error)
}

var _ servers.ServerInterface = (*Server)(nil)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       createOrderHandler
	updateOrderStatusHandler updateOrderStatusHandler

	// Query handlers
	getOrderHandler   getOrderHandler
	listOrdersHandler listOrdersHandler
}

func NewServer(
	createOrderHandler createOrderHandler,
	updateOrderStatusHandler updateOrderStatusHandler,
	getOrderHandler getOrderHandler,
	listOrdersHandler listOrdersHandler,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		updateOrderStatusHandler: updateOrderStatusHandler,
		getOrderHandler:          getOrderHandler,
		listOrdersHandler:        listOrdersHandler,
	}
}

// CreateOrder handles POST /api/v1/orders.
//
//	@Summary	Create an order in pending status
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		Idempotency-Key	header		string			false	"Deduplicates retries of the same request"
//	@Param		order			body		servers.NewOrder	true	"Order"
//	@Success	201				{object}	servers.Order
//	@Failure	400,409,500		{object}	servers.Error
//	@Router		/api/v1/orders [post]
func (s *Server) CreateOrder(ctx echo.Context, params servers.CreateOrderParams) error {
	var body servers.NewOrder
	if err := ctx.Bind(&body); err != nil {
		return writeError(ctx, http.StatusBadRequest, errorTypeValidation, "Invalid request body")
	}

	items := make([]order.Item, len(body.Items))
	for i, item := range body.Items {
		items[i] = order.Item(item)
	}

	var currency, key string
	if body.Currency != nil {
		currency = *body.Currency
	}
	if params.IdempotencyKey != nil {
		key = *params.IdempotencyKey
	}

	cmd, err := commands.NewCreateOrderCommand(
		body.CustomerId,
		items,
		decimal.NewFromFloat(body.TotalAmount),
		currency,
		key,
	)
	if err != nil {
		return handleError(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return handleError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrderResponse(created))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
//
//	@Summary	Get an order by id
//	@Tags		orders
//	@Produce	json
//	@Param		orderId	path		string	true	"Order id"
//	@Success	200		{object}	servers.Order
//	@Failure	404,500	{object}	servers.Error
//	@Router		/api/v1/orders/{orderId} [get]
func (s *Server) GetOrder(ctx echo.Context, orderID servers.OrderId) error {
	id, err := parseOrderID(orderID)
	if err != nil {
		return handleError(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return handleError(ctx, err)
	}

	o, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return handleError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(o))
}

// UpdateOrderStatus handles PATCH /api/v1/orders/{orderId}/status.
//
//	@Summary	Move an order to another status
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		orderId			path		string					true	"Order id"
//	@Param		status			body		servers.StatusUpdate	true	"Requested status"
//	@Success	200				{object}	servers.Order
//	@Failure	400,404,500,502	{object}	servers.Error
//	@Router		/api/v1/orders/{orderId}/status [patch]
func (s *Server) UpdateOrderStatus(ctx echo.Context, orderID servers.OrderId) error {
	id, err := parseOrderID(orderID)
	if err != nil {
		return handleError(ctx, err)
	}

	var body servers.StatusUpdate
	if bindErr := ctx.Bind(&body); bindErr != nil {
		return writeError(ctx, http.StatusBadRequest, errorTypeValidation, "Invalid request body")
	}

	status, err := order.StatusFromString(string(body.Status))
	if err != nil {
		return handleError(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(id, status)
	if err != nil {
		return handleError(ctx, err)
	}

	updated, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return handleError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(updated))
}

// ListOrders handles GET /api/v1/orders.
//
//	@Summary	List orders, newest first
//	@Tags		orders
//	@Produce	json
//	@Param		customer_id	query		string	false	"Customer filter"
//	@Param		status		query		string	false	"Status filter"
//	@Param		limit		query		int		false	"Page size"	default(50)
//	@Param		offset		query		int		false	"Rows to skip"
//	@Success	200			{array}		servers.OrderSummary
//	@Failure	400,500		{object}	servers.Error
//	@Router		/api/v1/orders [get]
func (s *Server) ListOrders(ctx echo.Context, params servers.ListOrdersParams) error {
	var (
		customerID, status string
		limit, offset      int
	)
	if params.CustomerId != nil {
		customerID = *params.CustomerId
	}
	if params.Status != nil {
		status = string(*params.Status)
	}
	if params.Limit != nil {
		limit = *params.Limit
	}
	if params.Offset != nil {
		offset = *params.Offset
	}

	query, err := queries.NewListOrdersQuery(customerID, status, limit, offset)
	if err != nil {
		return handleError(ctx, err)
	}

	summaries, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return handleError(ctx, err)
	}

	response := make([]servers.OrderSummary, len(summaries))
	for i, summary := range summaries {
		response[i] = servers.OrderSummary{
			Id:          summary.ID.Bytes(),
			CustomerId:  summary.CustomerID,
			TotalAmount: toMoneyResponse(summary.TotalAmount),
			Status:      servers.OrderStatus(summary.Status.String()),
			CreatedAt:   summary.CreatedAt,
			UpdatedAt:   summary.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// parseOrderID reports malformed ids as missing orders; no order can have them.
func parseOrderID(raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewObjectNotFoundErrorWithCause("order", raw, err)
	}
	return id, nil
}

func toOrderResponse(o *order.Order) servers.Order {
	domainItems := o.Items()
	items := make([]servers.Item, len(domainItems))
	for i, item := range domainItems {
		items[i] = servers.Item(item)
	}

	return servers.Order{
		Id:          o.ID().Bytes(),
		CustomerId:  o.CustomerID(),
		Items:       items,
		TotalAmount: toMoneyResponse(o.TotalAmount()),
		Status:      servers.OrderStatus(o.Status().String()),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

func toMoneyResponse(m kernel.Money) servers.Money {
	return servers.Money{
		Amount:   m.Amount().InexactFloat64(),
		Currency: m.Currency(),
	}
}
