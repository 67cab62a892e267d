package commands_test

import (
	"strings"
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	items := []order.Item{{"sku": "A1", "qty": 2}}

	cmd, err := commands.NewCreateOrderCommand("c-1", items, decimal.RequireFromString("100.00"), "", "key-1")

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, "c-1", cmd.CustomerID())
	assert.Equal(t, items, cmd.Items())
	assert.Equal(t, kernel.DefaultCurrency, cmd.TotalAmount().Currency())
	assert.Equal(t, "key-1", cmd.IdempotencyKey())
}

func TestNewCreateOrderCommand_NegativeAmount(t *testing.T) {
	_, err := commands.NewCreateOrderCommand("c-1", nil, decimal.NewFromInt(-1), "BRL", "")

	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestNewCreateOrderCommand_MissingCustomer(t *testing.T) {
	_, err := commands.NewCreateOrderCommand("  ", nil, decimal.NewFromInt(1), "BRL", "")

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewCreateOrderCommand_NilItem(t *testing.T) {
	_, err := commands.NewCreateOrderCommand("c-1", []order.Item{nil}, decimal.NewFromInt(1), "BRL", "")

	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewCreateOrderCommand_LongIdempotencyKey(t *testing.T) {
	_, err := commands.NewCreateOrderCommand("c-1", nil, decimal.NewFromInt(1), "BRL", strings.Repeat("k", 256))

	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestCreateOrderCommand_ZeroValueIsNotConstructed(t *testing.T) {
	var cmd commands.CreateOrderCommand

	assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
