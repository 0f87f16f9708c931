package compliance

import (
	"time"

	"github.com/shopspring/decimal"

	"dsledger/internal/identity"
)

// Reason is the fixed rejection string reported by a failed check. The empty
// reason accompanies an allowed result.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonNotWhitelisted      Reason = "not in whitelist"
	ReasonKYCNotVerified      Reason = "KYC not verified"
	ReasonCountryNotAllowed   Reason = "country not allowed"
	ReasonMaxHoldersExceeded  Reason = "max holders exceeded"
	ReasonTransactionLimit    Reason = "exceeds transaction limit"
	ReasonDailyVolumeLimit    Reason = "exceeds daily volume limit"
	ReasonInsufficientBalance Reason = "insufficient balance"
	ReasonLockedBalance       Reason = "Locked balance"
)

func (r Reason) String() string { return string(r) }

// Result is the outcome of a compliance check.
type Result struct {
	Allowed bool
	Reason  Reason
}

func allow() Result { return Result{Allowed: true} }

func deny(r Reason) Result { return Result{Reason: r} }

// checkInvestor applies the identity rule chain to one wallet's investor.
// Rule priority (fail-fast):
//  1. Whitelist - wallet must be bound to a registered investor
//  2. KYC - attribute 1 approved and not expired
//  3. Country - investor's country is on the allow-list
func checkInvestor(inv *identity.Investor, policy Policy, now time.Time) Reason {
	if inv == nil {
		return ReasonNotWhitelisted
	}
	if !inv.KYCApprovedAt(now) {
		return ReasonKYCNotVerified
	}
	if !policy.CountryAllowed(inv.Country) {
		return ReasonCountryNotAllowed
	}
	return ReasonNone
}

// evaluateIssuance is the pure issuance rule chain.
func evaluateIssuance(in issuanceInput, policy Policy, now time.Time) Result {
	if r := checkInvestor(in.investor, policy, now); r != ReasonNone {
		return deny(r)
	}
	if policy.exceedsMaxHolders(in.holderCount, in.isHolder) {
		return deny(ReasonMaxHoldersExceeded)
	}
	if policy.exceedsTransactionLimit(in.amount) {
		return deny(ReasonTransactionLimit)
	}
	if policy.exceedsDailyVolume(in.dailyUsed, in.amount) {
		return deny(ReasonDailyVolumeLimit)
	}
	return allow()
}

// evaluateTransfer is the pure transfer rule chain. Identity rules run for the
// sender first, then the receiver, before any balance or limit rule.
func evaluateTransfer(in transferInput, policy Policy, now time.Time) Result {
	if r := checkInvestor(in.from, policy, now); r != ReasonNone {
		return deny(r)
	}
	if r := checkInvestor(in.to, policy, now); r != ReasonNone {
		return deny(r)
	}
	if in.balance.LessThan(in.amount) {
		return deny(ReasonInsufficientBalance)
	}
	if in.spendable.LessThan(in.amount) {
		return deny(ReasonLockedBalance)
	}
	if policy.exceedsTransactionLimit(in.amount) {
		return deny(ReasonTransactionLimit)
	}
	if policy.exceedsDailyVolume(in.dailyUsed, in.amount) {
		return deny(ReasonDailyVolumeLimit)
	}
	return allow()
}

type issuanceInput struct {
	investor    *identity.Investor
	amount      decimal.Decimal
	isHolder    bool
	holderCount int
	dailyUsed   decimal.Decimal
}

type transferInput struct {
	from, to  *identity.Investor
	amount    decimal.Decimal
	balance   decimal.Decimal
	spendable decimal.Decimal
	dailyUsed decimal.Decimal
}
