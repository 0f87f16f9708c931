package ledger

import "github.com/ethereum/go-ethereum/common"

// HolderSet is an insertion-ordered set of addresses with a positive balance.
// Removal swaps the last element into the vacated slot, so indices of other
// holders may change after a removal.
type HolderSet struct {
	index map[common.Address]int
	list  []common.Address
}

func NewHolderSet() *HolderSet {
	return &HolderSet{index: make(map[common.Address]int)}
}

func (h *HolderSet) Contains(addr common.Address) bool {
	_, ok := h.index[addr]
	return ok
}

// Add inserts addr once; it reports whether addr was newly added.
func (h *HolderSet) Add(addr common.Address) bool {
	if h.Contains(addr) {
		return false
	}
	h.index[addr] = len(h.list)
	h.list = append(h.list, addr)
	return true
}

// Remove deletes addr with swap-with-last compaction; it reports whether addr
// was present.
func (h *HolderSet) Remove(addr common.Address) bool {
	i, ok := h.index[addr]
	if !ok {
		return false
	}
	last := len(h.list) - 1
	if i != last {
		moved := h.list[last]
		h.list[i] = moved
		h.index[moved] = i
	}
	h.list = h.list[:last]
	delete(h.index, addr)
	return true
}

func (h *HolderSet) Len() int {
	return len(h.list)
}

// At returns the holder at i, or false when i is out of range.
func (h *HolderSet) At(i int) (common.Address, bool) {
	if i < 0 || i >= len(h.list) {
		return common.Address{}, false
	}
	return h.list[i], true
}

// All returns a copy of the holders in index order.
func (h *HolderSet) All() []common.Address {
	return append([]common.Address(nil), h.list...)
}
