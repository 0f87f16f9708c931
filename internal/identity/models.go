package identity

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"dsledger/pkg/domain"
)

// Attribute is an expiring investor claim such as KYC approval or
// accreditation.
type Attribute struct {
	Value     uint64
	Expiry    int64 // unix seconds; 0 never expires
	ProofHash common.Hash
}

// ActiveAt reports whether the attribute is in force at now. An attribute
// whose expiry equals now has already expired.
func (a Attribute) ActiveAt(now time.Time) bool {
	return a.Expiry == 0 || a.Expiry > now.Unix()
}

// Investor is the registry record for one real-world identity.
//
// Invariants:
//   - ID is unique and never changes
//   - every wallet in Wallets resolves back to ID and to no other investor
//   - records are never deleted; attributes expire and countries change instead
type Investor struct {
	ID            domain.InvestorID
	CollisionHash common.Hash
	Country       domain.CountryCode
	Wallets       []common.Address
	Attributes    map[domain.AttributeID]Attribute
	RegisteredAt  time.Time
}

// KYCApprovedAt reports whether the reserved KYC attribute is approved and active.
func (i *Investor) KYCApprovedAt(now time.Time) bool {
	attr, ok := i.Attributes[domain.AttributeKYC]
	return ok && attr.Value == domain.AttributeValueApproved && attr.ActiveAt(now)
}

func (i *Investor) clone() *Investor {
	out := *i
	out.Wallets = append([]common.Address(nil), i.Wallets...)
	out.Attributes = make(map[domain.AttributeID]Attribute, len(i.Attributes))
	for k, v := range i.Attributes {
		out.Attributes[k] = v
	}
	return &out
}
