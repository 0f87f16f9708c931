package ledger

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"dsledger/internal/compliance"
	"dsledger/internal/trust"
	"dsledger/pkg/domain"
	dErrors "dsledger/pkg/domain-errors"
	"dsledger/pkg/platform/audit"
)

// complianceError maps a rejection reason to its error. Balance reasons keep
// their own codes so callers can tell them apart from policy rejections.
func complianceError(r compliance.Reason) error {
	switch r {
	case compliance.ReasonInsufficientBalance:
		return dErrors.New(dErrors.CodeInsufficientBalance, r.String())
	case compliance.ReasonLockedBalance:
		return dErrors.New(dErrors.CodeLockedBalance, r.String())
	default:
		return dErrors.New(dErrors.CodeComplianceRejected, r.String())
	}
}

func pausedError() error {
	return dErrors.New(dErrors.CodePaused, "Transfers paused")
}

func requireAddress(addr common.Address, name string) error {
	if addr == (common.Address{}) {
		return dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the zero address", name)
	}
	return nil
}

// IssueTokens credits amount to a compliant wallet.
func (l *Ledger) IssueTokens(ctx context.Context, caller, to common.Address, amount decimal.Decimal) error {
	return l.issue(ctx, audit.EventTokensIssued, caller, to, amount, nil)
}

// IssueTokenWithLocking credits amount and replaces the account's lock with
// lock. The new locked amount must not exceed the balance after crediting.
func (l *Ledger) IssueTokenWithLocking(ctx context.Context, caller, to common.Address, amount decimal.Decimal, lock Lock) error {
	return l.issue(ctx, audit.EventTokensIssuedLocked, caller, to, amount, &lock)
}

func (l *Ledger) issue(ctx context.Context, event audit.AuditEvent, caller, to common.Address, amount decimal.Decimal, lock *Lock) error {
	o := op{event: event, caller: caller, subjects: []common.Address{to}, amount: amount}
	if lock != nil {
		o.reason = lock.Reason
	}
	return l.mutate(ctx, o, func(now time.Time) error {
		if err := l.requireRole(caller, trust.RoleIssuer); err != nil {
			return err
		}
		if err := requireAddress(to, "recipient"); err != nil {
			return err
		}
		if err := requirePositive(amount); err != nil {
			return err
		}
		if l.st.paused {
			return pausedError()
		}
		if !l.compliance.IssuanceEnabled() {
			return dErrors.New(dErrors.CodeIssuanceDisabled, "issuance is disabled")
		}
		if l.compliance.ExceedsMaxSupply(l.st.totalIssued, amount) {
			return dErrors.New(dErrors.CodeInvalidInput, "exceeds max supply")
		}
		if lock != nil {
			if err := validateLock(*lock, l.st.BalanceOf(to).Add(amount), now); err != nil {
				return err
			}
		}
		if res := l.compliance.PreIssuanceCheck(l.st, to, amount, now); !res.Allowed {
			return complianceError(res.Reason)
		}

		l.st.credit(to, amount)
		l.st.totalIssued = l.st.totalIssued.Add(amount)
		l.st.consumeVolume(amount, now)
		if lock != nil {
			acct := l.st.accountForUpdate(to)
			acct.LockedAmount = lock.Amount
			acct.LockReleaseTime = lock.ReleaseTime
			acct.LockReason = lock.Reason
		}
		return nil
	})
}

func validateLock(lock Lock, balanceAfter decimal.Decimal, now time.Time) error {
	if err := domain.ValidateAmount(lock.Amount); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid locked amount")
	}
	if lock.Amount.GreaterThan(balanceAfter) {
		return dErrors.New(dErrors.CodeInvalidInput, "locked amount exceeds balance")
	}
	if lock.ReleaseTime <= now.Unix() {
		return dErrors.New(dErrors.CodeInvalidInput, "release time must be in the future")
	}
	return nil
}

// Transfer moves amount from the caller's own wallet to to.
func (l *Ledger) Transfer(ctx context.Context, from, to common.Address, amount decimal.Decimal) error {
	return l.mutate(ctx, op{
		event:    audit.EventTransfer,
		caller:   from,
		subjects: []common.Address{from, to},
		amount:   amount,
	}, func(now time.Time) error {
		if err := requireAddress(to, "recipient"); err != nil {
			return err
		}
		if err := requirePositive(amount); err != nil {
			return err
		}
		if l.st.paused {
			return pausedError()
		}
		if res := l.compliance.PreTransferCheck(l.st, from, to, amount, now); !res.Allowed {
			return complianceError(res.Reason)
		}
		// The rule chain already checked the spendable balance; the ledger
		// still refuses to overdraw on its own.
		if l.st.SpendableBalance(from, now).LessThan(amount) {
			return complianceError(compliance.ReasonLockedBalance)
		}

		l.st.debit(from, amount)
		l.st.credit(to, amount)
		l.st.consumeVolume(amount, now)
		return nil
	})
}

// Burn destroys amount from from's balance. Locked tokens can be burned; the
// lock shrinks with the balance.
func (l *Ledger) Burn(ctx context.Context, caller, from common.Address, amount decimal.Decimal, reason string) error {
	return l.mutate(ctx, op{
		event:    audit.EventBurned,
		caller:   caller,
		subjects: []common.Address{from},
		amount:   amount,
		reason:   reason,
	}, func(time.Time) error {
		if err := l.requireRole(caller, trust.RoleIssuer); err != nil {
			return err
		}
		if err := requirePositive(amount); err != nil {
			return err
		}
		if l.st.BalanceOf(from).LessThan(amount) {
			return complianceError(compliance.ReasonInsufficientBalance)
		}

		l.st.debit(from, amount)
		l.st.totalIssued = l.st.totalIssued.Sub(amount)
		return nil
	})
}

// Seize force-transfers amount from from to to, bypassing compliance and
// locks. It is available while paused.
func (l *Ledger) Seize(ctx context.Context, caller, from, to common.Address, amount decimal.Decimal, reason string) error {
	return l.mutate(ctx, op{
		event:    audit.EventSeized,
		caller:   caller,
		subjects: []common.Address{from, to},
		amount:   amount,
		reason:   reason,
	}, func(time.Time) error {
		if err := l.requireRole(caller, trust.RoleIssuer); err != nil {
			return err
		}
		if err := requireAddress(to, "recipient"); err != nil {
			return err
		}
		if from == to {
			return dErrors.New(dErrors.CodeInvalidInput, "cannot seize to the same wallet")
		}
		if err := requirePositive(amount); err != nil {
			return err
		}
		if l.st.BalanceOf(from).LessThan(amount) {
			return complianceError(compliance.ReasonInsufficientBalance)
		}

		l.st.debit(from, amount)
		l.st.credit(to, amount)
		return nil
	})
}

// Pause stops transfers and issuance. Pausing a paused token is a no-op.
func (l *Ledger) Pause(ctx context.Context, caller common.Address) error {
	return l.setPaused(ctx, audit.EventPaused, caller, true)
}

// Unpause resumes transfers and issuance.
func (l *Ledger) Unpause(ctx context.Context, caller common.Address) error {
	return l.setPaused(ctx, audit.EventUnpaused, caller, false)
}

func (l *Ledger) setPaused(ctx context.Context, event audit.AuditEvent, caller common.Address, paused bool) error {
	return l.mutate(ctx, op{event: event, caller: caller}, func(time.Time) error {
		if err := l.requireRole(caller, trust.RoleIssuer); err != nil {
			return err
		}
		l.st.paused = paused
		return nil
	})
}
