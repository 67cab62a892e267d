package commands_test

import (
	"errors"
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateCommand(t *testing.T, key string) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(
		"c-1",
		[]order.Item{{"sku": "A1", "qty": 1}},
		decimal.RequireFromString("100.00"),
		"BRL",
		key,
	)
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t, "")

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Upsert", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, nil)
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Pending, created.Status())
	assert.NotEmpty(t, created.ID().String())
	assert.Equal(t, "c-1", created.CustomerID())
	assert.Equal(t, created.CreatedAt(), created.UpdatedAt())
	expected, _ := kernel.MoneyFromString("100", "BRL")
	assert.True(t, created.TotalAmount().IsEqual(expected))
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockOrderUoWFactory)
	h := commands.NewCreateOrderCommandHandler(factory, nil)

	_, err := h.Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateOrderCommandHandler(factory, nil)
	_, err := h.Handle(ctx, newCreateCommand(t, ""))

	require.EqualError(t, err, "begin error")
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_UpsertErrorPropagatesUnchanged(t *testing.T) {
	ctx := t.Context()
	storeErr := errors.New("store unavailable")

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Upsert", mock.Anything, mock.AnythingOfType("*order.Order")).Return(storeErr).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, nil)
	created, err := h.Handle(ctx, newCreateCommand(t, ""))

	require.ErrorIs(t, err, storeErr)
	assert.Nil(t, created)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Upsert", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, nil)
	_, err := h.Handle(ctx, newCreateCommand(t, ""))

	require.EqualError(t, err, "commit error")
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_IdempotencyFirstRequest(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t, "key-1")

	store := new(MockIdempotencyStore)
	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		store.On("Recall", ctx, "c-1", "key-1").Return(kernel.UUID{}, false, nil).Once(),
		store.On("TryLock", ctx, "c-1", "key-1").Return(true, nil).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Upsert", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
		store.On("Remember", ctx, "c-1", "key-1", mock.AnythingOfType("kernel.UUID")).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, store)
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	store.AssertCalled(t, "Remember", ctx, "c-1", "key-1", created.ID())
	store.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_IdempotencyReplay(t *testing.T) {
	ctx := t.Context()
	existing, err := order.NewOrder(kernel.NewUUID(), "c-1", nil, kernel.MustNewMoney(decimal.NewFromInt(100), "BRL"))
	require.NoError(t, err)

	store := new(MockIdempotencyStore)
	store.On("Recall", ctx, "c-1", "key-1").Return(existing.ID(), true, nil).Once()
	repo := new(MockOrderRepository)
	repo.On("Get", ctx, existing.ID()).Return(existing, nil).Once()
	uow := new(MockUoW)
	uow.On("OrderRepository").Return(repo).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, store)
	replayed, err := h.Handle(ctx, newCreateCommand(t, "key-1"))

	require.NoError(t, err)
	assert.True(t, replayed.IsEqual(existing))
	store.AssertNotCalled(t, "TryLock", mock.Anything, mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Begin", mock.Anything)
	repo.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_IdempotencyInFlight(t *testing.T) {
	ctx := t.Context()

	store := new(MockIdempotencyStore)
	store.On("Recall", ctx, "c-1", "key-1").Return(kernel.UUID{}, false, nil).Once()
	store.On("TryLock", ctx, "c-1", "key-1").Return(false, nil).Once()
	factory := new(MockOrderUoWFactory)

	h := commands.NewCreateOrderCommandHandler(factory, store)
	_, err := h.Handle(ctx, newCreateCommand(t, "key-1"))

	require.ErrorIs(t, err, commands.ErrDuplicateRequest)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_IdempotencyReleasedOnFailure(t *testing.T) {
	ctx := t.Context()
	storeErr := errors.New("store unavailable")

	store := new(MockIdempotencyStore)
	store.On("Recall", ctx, "c-1", "key-1").Return(kernel.UUID{}, false, nil).Once()
	store.On("TryLock", ctx, "c-1", "key-1").Return(true, nil).Once()
	store.On("Release", mock.Anything, "c-1", "key-1").Return(nil).Once()
	repo := new(MockOrderRepository)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(storeErr).Once()
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, store)
	_, err := h.Handle(ctx, newCreateCommand(t, "key-1"))

	require.ErrorIs(t, err, storeErr)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Remember", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
