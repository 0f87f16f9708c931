package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"dsledger/internal/identity"
	"dsledger/internal/trust"
	"dsledger/pkg/domain"
	"dsledger/pkg/platform/audit"
)

// SetRole assigns role to addr. The caller must be a master.
func (l *Ledger) SetRole(ctx context.Context, caller, addr common.Address, role trust.Role) (trust.RoleChange, error) {
	var change trust.RoleChange
	err := l.mutate(ctx, op{
		event:    audit.EventRoleSet,
		caller:   caller,
		subjects: []common.Address{addr},
		reason:   role.String(),
		describe: func() string {
			return change.OldRole.String() + " -> " + change.NewRole.String()
		},
	}, func(time.Time) error {
		var err error
		change, err = l.trust.SetRole(caller, addr, role)
		return err
	})
	if err == nil && l.logger != nil {
		l.logger.InfoContext(ctx, "role changed",
			"address", addr.Hex(),
			"old_role", change.OldRole.String(),
			"new_role", change.NewRole.String(),
		)
	}
	return change, err
}

// RegisterInvestor creates an empty investor record.
func (l *Ledger) RegisterInvestor(ctx context.Context, caller common.Address, id domain.InvestorID, collisionHash common.Hash) error {
	return l.mutate(ctx, op{
		event:      audit.EventInvestorRegistered,
		caller:     caller,
		investorID: id.String(),
	}, func(now time.Time) error {
		if err := l.requireRole(caller, trust.RoleIssuer); err != nil {
			return err
		}
		existing := l.identities.CollisionsOf(collisionHash)
		if err := l.identities.RegisterInvestor(id, collisionHash, now); err != nil {
			return err
		}
		if len(existing) > 0 && l.logger != nil {
			l.logger.WarnContext(ctx, "collision hash already registered",
				"investor_id", id.String(),
				"collision_hash", collisionHash.Hex(),
				"existing", fmt.Sprint(existing),
			)
		}
		return nil
	})
}

// AddWallet binds wallet to investor id. Re-adding a wallet to its own
// investor succeeds without change.
func (l *Ledger) AddWallet(ctx context.Context, caller, wallet common.Address, id domain.InvestorID) error {
	return l.mutate(ctx, op{
		event:      audit.EventWalletAdded,
		caller:     caller,
		subjects:   []common.Address{wallet},
		investorID: id.String(),
	}, func(time.Time) error {
		if err := l.requireRole(caller, trust.RoleIssuer); err != nil {
			return err
		}
		_, err := l.identities.AddWallet(wallet, id)
		return err
	})
}

// SetCountry overwrites the investor's country.
func (l *Ledger) SetCountry(ctx context.Context, caller common.Address, id domain.InvestorID, country domain.CountryCode) error {
	return l.mutate(ctx, op{
		event:      audit.EventCountrySet,
		caller:     caller,
		investorID: id.String(),
		reason:     country.String(),
	}, func(time.Time) error {
		if err := l.requireRole(caller, trust.RoleIssuer); err != nil {
			return err
		}
		return l.identities.SetCountry(id, country)
	})
}

// SetAttribute upserts an investor attribute.
func (l *Ledger) SetAttribute(ctx context.Context, caller common.Address, id domain.InvestorID, attrID domain.AttributeID, attr identity.Attribute) error {
	return l.mutate(ctx, op{
		event:      audit.EventAttributeSet,
		caller:     caller,
		investorID: id.String(),
		reason:     fmt.Sprintf("attribute %d = %d", attrID, attr.Value),
	}, func(time.Time) error {
		if err := l.requireRole(caller, trust.RoleIssuer); err != nil {
			return err
		}
		return l.identities.SetAttribute(id, attrID, attr)
	})
}

// RoleOf returns addr's role.
func (l *Ledger) RoleOf(addr common.Address) trust.Role {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.trust.RoleOf(addr)
}

// HasMinimumRole reports whether addr holds min or a more privileged role.
func (l *Ledger) HasMinimumRole(addr common.Address, min trust.Role) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.trust.HasMinimumRole(addr, min)
}

// InvestorOf resolves a wallet to its investor, "" when unbound.
func (l *Ledger) InvestorOf(wallet common.Address) domain.InvestorID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.identities.InvestorOf(wallet)
}

func (l *Ledger) InvestorExists(id domain.InvestorID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.identities.InvestorExists(id)
}

// GetAttribute returns the attribute tuple, zero when never set.
func (l *Ledger) GetAttribute(id domain.InvestorID, attrID domain.AttributeID) identity.Attribute {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.identities.GetAttribute(id, attrID)
}

// GetInvestor returns a copy of the investor record and its KYC status at now.
func (l *Ledger) GetInvestor(ctx context.Context, id domain.InvestorID) (*InvestorView, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	inv, err := l.identities.Investor(id)
	if err != nil {
		return nil, err
	}
	return &InvestorView{Investor: inv, KYCApproved: inv.KYCApprovedAt(l.now(ctx))}, nil
}
