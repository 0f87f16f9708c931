package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"dsledger/internal/compliance"
	"dsledger/internal/trust"
	"dsledger/pkg/domain"
	"dsledger/pkg/platform/audit"
)

// updatePolicy applies mutate to a copy of the active policy and installs it
// if it validates.
func (l *Ledger) updatePolicy(ctx context.Context, o op, mutate func(*compliance.Policy)) error {
	return l.mutate(ctx, o, func(time.Time) error {
		if err := l.requireRole(o.caller, trust.RoleIssuer); err != nil {
			return err
		}
		p := l.compliance.Policy()
		mutate(&p)
		return l.compliance.SetPolicy(p)
	})
}

// SetCountryCompliance adds country to, or removes it from, the allow-list.
func (l *Ledger) SetCountryCompliance(ctx context.Context, caller common.Address, country domain.CountryCode, allowed bool) error {
	return l.updatePolicy(ctx, op{
		event:  audit.EventCountryCompliance,
		caller: caller,
		reason: fmt.Sprintf("%s allowed=%t", country, allowed),
	}, func(p *compliance.Policy) {
		p.SetCountryAllowed(country, allowed)
	})
}

// SetMaxHolders caps the number of holders; 0 removes the cap. Lowering the
// cap below the current count only blocks new holders.
func (l *Ledger) SetMaxHolders(ctx context.Context, caller common.Address, maxHolders int) error {
	return l.updatePolicy(ctx, op{
		event:  audit.EventMaxHoldersSet,
		caller: caller,
		reason: fmt.Sprintf("max holders %d", maxHolders),
	}, func(p *compliance.Policy) {
		p.MaxHolders = maxHolders
	})
}

// SetTransactionLimits sets the single-transaction and daily volume limits in
// base units; 0 removes a limit.
func (l *Ledger) SetTransactionLimits(ctx context.Context, caller common.Address, maxSingle, dailyLimit decimal.Decimal) error {
	return l.updatePolicy(ctx, op{
		event:  audit.EventTransactionLimitsSet,
		caller: caller,
		reason: fmt.Sprintf("max single %s, daily %s", maxSingle, dailyLimit),
	}, func(p *compliance.Policy) {
		p.MaxSingleTransaction = maxSingle
		p.DailyVolumeLimit = dailyLimit
	})
}

// SetIssuanceEnabled toggles whether new tokens may be issued.
func (l *Ledger) SetIssuanceEnabled(ctx context.Context, caller common.Address, enabled bool) error {
	return l.updatePolicy(ctx, op{
		event:  audit.EventIssuanceToggled,
		caller: caller,
		reason: fmt.Sprintf("issuance enabled=%t", enabled),
	}, func(p *compliance.Policy) {
		p.IssuanceEnabled = enabled
	})
}

// ReplacePolicy installs a whole policy, as loaded from a policy file.
func (l *Ledger) ReplacePolicy(ctx context.Context, caller common.Address, policy compliance.Policy) error {
	return l.updatePolicy(ctx, op{
		event:  audit.EventCompliancePolicyReset,
		caller: caller,
	}, func(p *compliance.Policy) {
		*p = policy.Clone()
	})
}

// Policy returns a copy of the active compliance policy.
func (l *Ledger) Policy() compliance.Policy {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.compliance.Policy()
}
