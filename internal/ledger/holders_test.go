package ledger

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolderSet(t *testing.T) {
	a := common.HexToAddress("0xa")
	b := common.HexToAddress("0xb")
	c := common.HexToAddress("0xc")

	t.Run("add once", func(t *testing.T) {
		h := NewHolderSet()
		assert.True(t, h.Add(a))
		assert.False(t, h.Add(a))
		assert.Equal(t, 1, h.Len())
		assert.True(t, h.Contains(a))
	})

	t.Run("remove swaps last into the gap", func(t *testing.T) {
		h := NewHolderSet()
		h.Add(a)
		h.Add(b)
		h.Add(c)

		require.True(t, h.Remove(a))
		assert.Equal(t, []common.Address{c, b}, h.All())
		got, ok := h.At(0)
		require.True(t, ok)
		assert.Equal(t, c, got)
		assert.False(t, h.Contains(a))

		assert.False(t, h.Remove(a))
	})

	t.Run("remove last element", func(t *testing.T) {
		h := NewHolderSet()
		h.Add(a)
		h.Add(b)
		require.True(t, h.Remove(b))
		assert.Equal(t, []common.Address{a}, h.All())
	})

	t.Run("re-add after removal appends", func(t *testing.T) {
		h := NewHolderSet()
		h.Add(a)
		h.Add(b)
		h.Remove(a)
		h.Add(a)
		assert.Equal(t, []common.Address{b, a}, h.All())
	})

	t.Run("out of range", func(t *testing.T) {
		h := NewHolderSet()
		_, ok := h.At(0)
		assert.False(t, ok)
		h.Add(a)
		_, ok = h.At(1)
		assert.False(t, ok)
		_, ok = h.At(-1)
		assert.False(t, ok)
	})
}
