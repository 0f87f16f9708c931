package ledger

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// state is the balance side of the ledger. It implements
// compliance.LedgerView and is only touched while the ledger lock is held.
type state struct {
	accounts    map[common.Address]*Account
	holders     *HolderSet
	totalIssued decimal.Decimal
	paused      bool
	volumeDay   string
	volumeUsed  decimal.Decimal
}

func newState() *state {
	return &state{
		accounts: make(map[common.Address]*Account),
		holders:  NewHolderSet(),
	}
}

func (s *state) account(addr common.Address) *Account {
	if a, ok := s.accounts[addr]; ok {
		return a
	}
	return &Account{}
}

// accountForUpdate returns the live account, creating it on first use.
func (s *state) accountForUpdate(addr common.Address) *Account {
	a, ok := s.accounts[addr]
	if !ok {
		a = &Account{}
		s.accounts[addr] = a
	}
	return a
}

func (s *state) BalanceOf(addr common.Address) decimal.Decimal {
	return s.account(addr).Balance
}

func (s *state) SpendableBalance(addr common.Address, now time.Time) decimal.Decimal {
	return s.account(addr).SpendableAt(now)
}

func (s *state) IsHolder(addr common.Address) bool {
	return s.holders.Contains(addr)
}

func (s *state) HolderCount() int {
	return s.holders.Len()
}

// DailyVolumeUsed is the volume consumed during now's UTC day.
func (s *state) DailyVolumeUsed(now time.Time) decimal.Decimal {
	if s.volumeDay != now.UTC().Format(dayLayout) {
		return decimal.Zero
	}
	return s.volumeUsed
}

// consumeVolume adds amount to the daily counter, resetting it first when the
// UTC day rolled over.
func (s *state) consumeVolume(amount decimal.Decimal, now time.Time) {
	day := now.UTC().Format(dayLayout)
	if s.volumeDay != day {
		s.volumeDay = day
		s.volumeUsed = decimal.Zero
	}
	s.volumeUsed = s.volumeUsed.Add(amount)
}

func (s *state) credit(addr common.Address, amount decimal.Decimal) {
	a := s.accountForUpdate(addr)
	a.Balance = a.Balance.Add(amount)
	if a.Balance.IsPositive() {
		s.holders.Add(addr)
	}
}

// debit removes amount from addr. The caller has already checked the balance.
// A lock larger than what remains (expired, or overridden by a privileged
// debit) shrinks to the remaining balance.
func (s *state) debit(addr common.Address, amount decimal.Decimal) {
	a := s.accountForUpdate(addr)
	a.Balance = a.Balance.Sub(amount)
	a.clampLock()
	if !a.Balance.IsPositive() {
		s.holders.Remove(addr)
	}
}
