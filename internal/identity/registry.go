// Package identity is the investor registry: investor records, their bound
// wallets, country of residence, and expiring attributes.
//
// Registry is not safe for concurrent use on its own; the ledger serializes
// access behind its state lock so compliance checks see a consistent view.
package identity

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"dsledger/pkg/domain"
	dErrors "dsledger/pkg/domain-errors"
)

type Registry struct {
	investors  map[domain.InvestorID]*Investor
	investorOf map[common.Address]domain.InvestorID
	byHash     map[common.Hash][]domain.InvestorID
}

func NewRegistry() *Registry {
	return &Registry{
		investors:  make(map[domain.InvestorID]*Investor),
		investorOf: make(map[common.Address]domain.InvestorID),
		byHash:     make(map[common.Hash][]domain.InvestorID),
	}
}

// RegisterInvestor creates an empty record for id.
func (r *Registry) RegisterInvestor(id domain.InvestorID, collisionHash common.Hash, now time.Time) error {
	if id.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "investor id is required")
	}
	if _, ok := r.investors[id]; ok {
		return dErrors.Newf(dErrors.CodeConflict, "investor %s already exists", id)
	}
	r.investors[id] = &Investor{
		ID:            id,
		CollisionHash: collisionHash,
		Attributes:    make(map[domain.AttributeID]Attribute),
		RegisteredAt:  now,
	}
	r.byHash[collisionHash] = append(r.byHash[collisionHash], id)
	return nil
}

// CollisionsOf lists investors registered with hash. Collision hashes are
// advisory: duplicates are reported, never rejected.
func (r *Registry) CollisionsOf(hash common.Hash) []domain.InvestorID {
	return append([]domain.InvestorID(nil), r.byHash[hash]...)
}

// AddWallet binds wallet to id. Re-adding a wallet to the investor it already
// belongs to succeeds and reports added=false.
func (r *Registry) AddWallet(wallet common.Address, id domain.InvestorID) (added bool, err error) {
	inv, err := r.find(id)
	if err != nil {
		return false, err
	}
	if wallet == (common.Address{}) {
		return false, dErrors.New(dErrors.CodeInvalidInput, "zero address cannot be bound")
	}
	if bound, ok := r.investorOf[wallet]; ok {
		if bound == id {
			return false, nil
		}
		return false, dErrors.Newf(dErrors.CodeWalletAlreadyBound, "wallet %s is bound to another investor", wallet.Hex())
	}
	r.investorOf[wallet] = id
	inv.Wallets = append(inv.Wallets, wallet)
	return true, nil
}

// SetCountry overwrites the investor's country.
func (r *Registry) SetCountry(id domain.InvestorID, country domain.CountryCode) error {
	inv, err := r.find(id)
	if err != nil {
		return err
	}
	inv.Country = country
	return nil
}

// SetAttribute upserts an attribute tuple.
func (r *Registry) SetAttribute(id domain.InvestorID, attrID domain.AttributeID, attr Attribute) error {
	inv, err := r.find(id)
	if err != nil {
		return err
	}
	if attr.Expiry < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "expiry must not be negative")
	}
	inv.Attributes[attrID] = attr
	return nil
}

// GetAttribute returns the attribute tuple, or the zero tuple if it was never set.
func (r *Registry) GetAttribute(id domain.InvestorID, attrID domain.AttributeID) Attribute {
	inv, ok := r.investors[id]
	if !ok {
		return Attribute{}
	}
	return inv.Attributes[attrID]
}

func (r *Registry) InvestorExists(id domain.InvestorID) bool {
	_, ok := r.investors[id]
	return ok
}

// InvestorOf resolves a wallet to its investor, or "" when unbound.
func (r *Registry) InvestorOf(wallet common.Address) domain.InvestorID {
	return r.investorOf[wallet]
}

// Lookup returns the live record bound to wallet, or nil. Callers must not
// mutate or retain it beyond the current locked section.
func (r *Registry) Lookup(wallet common.Address) *Investor {
	id, ok := r.investorOf[wallet]
	if !ok {
		return nil
	}
	return r.investors[id]
}

// Investor returns a copy of the record for id.
func (r *Registry) Investor(id domain.InvestorID) (*Investor, error) {
	inv, err := r.find(id)
	if err != nil {
		return nil, err
	}
	return inv.clone(), nil
}

// Count returns the number of registered investors.
func (r *Registry) Count() int {
	return len(r.investors)
}

func (r *Registry) find(id domain.InvestorID) (*Investor, error) {
	inv, ok := r.investors[id]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "investor %s not found", id)
	}
	return inv, nil
}
