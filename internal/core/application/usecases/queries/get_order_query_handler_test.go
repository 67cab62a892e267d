package queries_test

import (
	"context"
	"errors"
	"testing"

	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Upsert(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type stubUnitOfWork struct {
	ports.UnitOfWork
	orders ports.OrderRepository
}

func (s stubUnitOfWork) OrderRepository() ports.OrderRepository { return s.orders }

type stubUnitOfWorkFactory struct{ uow ports.UnitOfWork }

func (s stubUnitOfWorkFactory) Create() ports.UnitOfWork { return s.uow }

func newHandler(repo ports.OrderRepository) queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(stubUnitOfWorkFactory{uow: stubUnitOfWork{orders: repo}})
}

func TestGetOrderQueryHandler_Handle_Found(t *testing.T) {
	ctx := t.Context()
	o, err := order.NewOrder(kernel.NewUUID(), "c-1", nil, kernel.MustNewMoney(decimal.NewFromInt(10), ""))
	require.NoError(t, err)
	repo := new(MockOrderRepository)
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	q, err := queries.NewGetOrderQuery(o.ID())
	require.NoError(t, err)

	got, err := newHandler(repo).Handle(ctx, q)

	require.NoError(t, err)
	assert.Same(t, o, got)
	repo.AssertExpectations(t)
}

func TestGetOrderQueryHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	repo := new(MockOrderRepository)
	repo.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id.String())).Once()
	q, err := queries.NewGetOrderQuery(id)
	require.NoError(t, err)

	got, err := newHandler(repo).Handle(ctx, q)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGetOrderQueryHandler_Handle_StoreFailureIsNotNotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	storeErr := errors.New("connection refused")
	repo := new(MockOrderRepository)
	repo.On("Get", ctx, id).Return(nil, storeErr).Once()
	q, err := queries.NewGetOrderQuery(id)
	require.NoError(t, err)

	_, err = newHandler(repo).Handle(ctx, q)

	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGetOrderQueryHandler_Handle_InvalidQuery(t *testing.T) {
	repo := new(MockOrderRepository)

	_, err := newHandler(repo).Handle(t.Context(), queries.GetOrderQuery{})

	assert.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}
