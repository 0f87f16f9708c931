package ledger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"dsledger/internal/compliance"
	dErrors "dsledger/pkg/domain-errors"
)

func (l *Ledger) BalanceOf(addr common.Address) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.BalanceOf(addr)
}

// SpendableBalance is the balance minus any lock still active at the
// request time.
func (l *Ledger) SpendableBalance(ctx context.Context, addr common.Address) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.SpendableBalance(addr, l.now(ctx))
}

// LockInfo returns addr's lock as last set, with Active evaluated at the
// request time.
func (l *Ledger) LockInfo(ctx context.Context, addr common.Address) LockInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a := l.st.account(addr)
	return LockInfo{
		LockedAmount: a.LockedAmount,
		ReleaseTime:  a.LockReleaseTime,
		Reason:       a.LockReason,
		Active:       a.lockActiveAt(l.now(ctx)),
	}
}

func (l *Ledger) WalletCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.holders.Len()
}

// GetWalletAt returns the holder at index.
func (l *Ledger) GetWalletAt(index int) (common.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	addr, ok := l.st.holders.At(index)
	if !ok {
		return common.Address{}, dErrors.Newf(dErrors.CodeIndexOutOfRange,
			"index %d out of range for %d holders", index, l.st.holders.Len())
	}
	return addr, nil
}

// Holders returns every holder in index order.
func (l *Ledger) Holders() []common.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.holders.All()
}

func (l *Ledger) TotalIssued() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.totalIssued
}

func (l *Ledger) Paused() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.paused
}

// TokenInfo returns the token metadata together with the global state.
func (l *Ledger) TokenInfo() TokenInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p := l.compliance.Policy()
	return TokenInfo{
		Metadata:        l.meta,
		TotalIssued:     l.st.totalIssued,
		MaxSupply:       p.MaxSupply,
		Paused:          l.st.paused,
		IssuanceEnabled: p.IssuanceEnabled,
		HolderCount:     l.st.holders.Len(),
	}
}

// DailyVolumeUsed is the volume consumed during the request's UTC day.
func (l *Ledger) DailyVolumeUsed(ctx context.Context) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.DailyVolumeUsed(l.now(ctx))
}

// PreIssuanceCheck is a dry run of the issuance rules; it changes nothing.
func (l *Ledger) PreIssuanceCheck(ctx context.Context, wallet common.Address, amount decimal.Decimal) compliance.Result {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.compliance.PreIssuanceCheck(l.st, wallet, amount, l.now(ctx))
}

// PreTransferCheck is a dry run of the transfer rules; it changes nothing.
func (l *Ledger) PreTransferCheck(ctx context.Context, from, to common.Address, amount decimal.Decimal) compliance.Result {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.compliance.PreTransferCheck(l.st, from, to, amount, l.now(ctx))
}
