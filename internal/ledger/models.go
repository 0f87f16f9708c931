package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"dsledger/internal/identity"
)

// Account is the per-wallet token state. Accounts are created lazily on first
// credit and never deleted.
//
// Invariants:
//   - LockedAmount <= Balance
//   - LockReleaseTime == 0 means no lock
type Account struct {
	Balance         decimal.Decimal
	LockedAmount    decimal.Decimal
	LockReleaseTime int64 // unix seconds
	LockReason      string
}

// lockActiveAt reports whether the lock still restricts the balance at now.
func (a *Account) lockActiveAt(now time.Time) bool {
	return a.LockReleaseTime != 0 && now.Unix() < a.LockReleaseTime
}

// SpendableAt is the balance minus the lock while it is active.
func (a *Account) SpendableAt(now time.Time) decimal.Decimal {
	if a.lockActiveAt(now) {
		return a.Balance.Sub(a.LockedAmount)
	}
	return a.Balance
}

// clampLock keeps LockedAmount <= Balance after a debit.
func (a *Account) clampLock() {
	if a.LockedAmount.GreaterThan(a.Balance) {
		a.LockedAmount = a.Balance
	}
}

// Lock describes the time lock applied by IssueTokenWithLocking.
type Lock struct {
	Amount      decimal.Decimal
	Reason      string
	ReleaseTime int64 // unix seconds
}

// LockInfo is the read view of an account's lock.
type LockInfo struct {
	LockedAmount decimal.Decimal
	ReleaseTime  int64
	Reason       string
	Active       bool
}

// Metadata identifies the token.
type Metadata struct {
	Name     string
	Symbol   string
	Decimals int32
}

// TokenInfo is the token-global read view.
type TokenInfo struct {
	Metadata
	TotalIssued     decimal.Decimal
	MaxSupply       decimal.Decimal
	Paused          bool
	IssuanceEnabled bool
	HolderCount     int
}

// InvestorView is an investor record together with its KYC status at the
// time it was read.
type InvestorView struct {
	*identity.Investor
	KYCApproved bool
}
