// Package compliance evaluates issuance and transfer rules over a snapshot of
// investor identity data and ledger aggregates.
//
// Evaluation is pure: the engine never mutates registry or ledger state. The
// caller is responsible for holding whatever lock makes the snapshot
// consistent with the mutation the check gates.
package compliance

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"dsledger/internal/compliance/metrics"
	"dsledger/internal/identity"
)

// IdentityReader resolves a wallet to its investor record, nil when unbound.
type IdentityReader interface {
	Lookup(wallet common.Address) *identity.Investor
}

// LedgerView exposes the ledger aggregates the rules depend on.
type LedgerView interface {
	BalanceOf(addr common.Address) decimal.Decimal
	SpendableBalance(addr common.Address, now time.Time) decimal.Decimal
	IsHolder(addr common.Address) bool
	HolderCount() int
	DailyVolumeUsed(now time.Time) decimal.Decimal
}

const (
	kindIssuance = "issuance"
	kindTransfer = "transfer"
)

// Engine owns the compliance policy and applies it. It is not safe for
// concurrent use on its own.
type Engine struct {
	identities IdentityReader
	policy     Policy
	metrics    *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics records check outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithPolicy replaces the default policy.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		e.policy = p.Clone()
	}
}

func NewEngine(identities IdentityReader, opts ...Option) *Engine {
	e := &Engine{
		identities: identities,
		policy:     DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns a copy of the active policy.
func (e *Engine) Policy() Policy {
	return e.policy.Clone()
}

// SetPolicy replaces the active policy after validating it.
func (e *Engine) SetPolicy(p Policy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.policy = p.Clone()
	return nil
}

func (e *Engine) IssuanceEnabled() bool {
	return e.policy.IssuanceEnabled
}

// ExceedsMaxSupply reports whether issuing amount on top of totalIssued
// breaks the supply cap. A zero cap is unlimited.
func (e *Engine) ExceedsMaxSupply(totalIssued, amount decimal.Decimal) bool {
	return e.policy.MaxSupply.IsPositive() && totalIssued.Add(amount).GreaterThan(e.policy.MaxSupply)
}

// PreIssuanceCheck decides whether amount may be issued to wallet.
func (e *Engine) PreIssuanceCheck(view LedgerView, wallet common.Address, amount decimal.Decimal, now time.Time) Result {
	res := evaluateIssuance(issuanceInput{
		investor:    e.identities.Lookup(wallet),
		amount:      amount,
		isHolder:    view.IsHolder(wallet),
		holderCount: view.HolderCount(),
		dailyUsed:   view.DailyVolumeUsed(now),
	}, e.policy, now)
	e.metrics.IncrementCheck(kindIssuance, res.Reason.String())
	return res
}

// PreTransferCheck decides whether from may send amount to to.
func (e *Engine) PreTransferCheck(view LedgerView, from, to common.Address, amount decimal.Decimal, now time.Time) Result {
	res := evaluateTransfer(transferInput{
		from:      e.identities.Lookup(from),
		to:        e.identities.Lookup(to),
		amount:    amount,
		balance:   view.BalanceOf(from),
		spendable: view.SpendableBalance(from, now),
		dailyUsed: view.DailyVolumeUsed(now),
	}, e.policy, now)
	e.metrics.IncrementCheck(kindTransfer, res.Reason.String())
	return res
}
