package kernel_test

import (
	"testing"

	"orders/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canonicalOrderID = "550e8400-e29b-41d4-a716-446655440000"

func TestNewUUID(t *testing.T) {
	t.Run("should generate distinct valid identifiers", func(t *testing.T) {
		id1 := kernel.NewUUID()
		id2 := kernel.NewUUID()

		assert.NoError(t, id1.Validate())
		assert.NoError(t, id2.Validate())
		assert.False(t, id1.IsEqual(id2))
		assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}$`, id1.String())
	})
}

func TestUUIDFromString(t *testing.T) {
	t.Run("should accept every textual form google/uuid understands", func(t *testing.T) {
		for _, input := range []string{
			canonicalOrderID,
			"{" + canonicalOrderID + "}",
			"urn:uuid:" + canonicalOrderID,
			"550e8400e29b41d4a716446655440000",
		} {
			id, err := kernel.UUIDFromString(input)

			require.NoError(t, err, input)
			assert.Equal(t, canonicalOrderID, id.String())
		}
	})

	t.Run("should reject malformed input", func(t *testing.T) {
		for _, input := range []string{
			"",
			"not-an-order-id",
			"550e8400-e29b-41d4-a716",
			canonicalOrderID + "-extra",
			"550e8400-e29b-41d4-a716-44665544000g",
		} {
			_, err := kernel.UUIDFromString(input)

			require.Error(t, err, input)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})

	t.Run("should reject the nil identifier", func(t *testing.T) {
		_, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")

		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("should round trip through Bytes", func(t *testing.T) {
		original, err := kernel.UUIDFromString(canonicalOrderID)
		require.NoError(t, err)
		raw := original.Bytes()

		restored, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, original.IsEqual(restored))
	})

	t.Run("should reject short input", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{0x55, 0x0e})

		assert.ErrorContains(t, err, "invalid UUID format")
	})

	t.Run("should reject sixteen zero bytes", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(make([]byte, 16))

		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUID_Validate(t *testing.T) {
	t.Run("zero value is not constructed", func(t *testing.T) {
		var id kernel.UUID

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
		assert.True(t, id.IsEqual(kernel.UUID{}))
	})
}

func TestUUID_Bytes(t *testing.T) {
	t.Run("mutating the returned value leaves the identifier intact", func(t *testing.T) {
		id := kernel.NewUUID()
		before := id.String()

		raw := id.Bytes()
		for i := range raw {
			raw[i] = 0xFF
		}

		assert.Equal(t, before, id.String())
		assert.NotEqual(t, before, uuid.UUID(raw).String())
	})
}
