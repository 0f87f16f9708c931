// Package domain holds the primitive types shared by every ledger module.
// Parse functions are trust-boundary checks: anything that comes from a
// request goes through them before it reaches a service.
package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/sha3"

	dErrors "dsledger/pkg/domain-errors"
)

const maxInvestorIDLength = 128

// InvestorID is the issuer-chosen opaque identifier of a real-world investor.
type InvestorID string

// ParseInvestorID trims and validates an investor identifier.
func ParseInvestorID(s string) (InvestorID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "investor id is required")
	}
	if len(s) > maxInvestorIDLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "investor id is too long")
	}
	if !utf8.ValidString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "investor id must be valid UTF-8")
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "investor id contains invalid characters")
		}
	}
	return InvestorID(s), nil
}

func (id InvestorID) String() string { return string(id) }

// IsNil reports whether the id is empty.
func (id InvestorID) IsNil() bool { return id == "" }

// AttributeID identifies an investor attribute. IDs other than the reserved
// ones are issuer-defined (accredited, qualified, professional, ...).
type AttributeID uint64

const (
	// AttributeKYC is reserved for KYC approval.
	AttributeKYC AttributeID = 1

	// AttributeValueApproved is the value AttributeKYC must hold to count as approved.
	AttributeValueApproved uint64 = 1
)

// ParseAddress validates a 0x-prefixed hex wallet address. The zero address
// is rejected: it never identifies a holder.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, dErrors.New(dErrors.CodeInvalidInput, "invalid wallet address")
	}
	addr := common.HexToAddress(s)
	if addr == (common.Address{}) {
		return common.Address{}, dErrors.New(dErrors.CodeInvalidInput, "zero address is not allowed")
	}
	return addr, nil
}

// ParseHash validates a 0x-prefixed 32-byte hex value.
func ParseHash(s string) (common.Hash, error) {
	b, err := hexutil.Decode(strings.TrimSpace(s))
	if err != nil {
		return common.Hash{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid hash")
	}
	if len(b) != common.HashLength {
		return common.Hash{}, dErrors.Newf(dErrors.CodeInvalidInput, "hash must be %d bytes", common.HashLength)
	}
	return common.BytesToHash(b), nil
}

// CollisionHash is the legacy Keccak-256 of the UTF-8 input, matching how the
// issuance tooling derives an investor's collision hash from its identifier.
func CollisionHash(s string) common.Hash {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(s))
	return common.BytesToHash(h.Sum(nil))
}
