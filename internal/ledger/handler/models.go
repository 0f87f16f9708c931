package handler

import (
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"dsledger/internal/compliance"
	"dsledger/internal/identity"
	"dsledger/internal/ledger"
	"dsledger/internal/trust"
	"dsledger/pkg/domain"
	dErrors "dsledger/pkg/domain-errors"
	audit "dsledger/pkg/platform/audit"
)

// Amounts on the wire are base-unit integer strings.

type SetRoleRequest struct {
	Address string `json:"address"`
	Role    string `json:"role"`
}

type RegisterInvestorRequest struct {
	InvestorID    string `json:"investor_id"`
	CollisionHash string `json:"collision_hash"`
}

type AddWalletRequest struct {
	Wallet string `json:"wallet"`
}

type SetCountryRequest struct {
	Country string `json:"country"`
}

type SetAttributeRequest struct {
	Value     uint64 `json:"value"`
	Expiry    int64  `json:"expiry"`
	ProofHash string `json:"proof_hash"`
}

// IssueRequest issues plainly, or with a lock when any lock field is set.
type IssueRequest struct {
	To           string `json:"to"`
	Amount       string `json:"amount"`
	LockedAmount string `json:"locked_amount,omitempty"`
	LockReason   string `json:"lock_reason,omitempty"`
	ReleaseTime  int64  `json:"release_time,omitempty"`
}

func (r IssueRequest) hasLock() bool {
	return r.LockedAmount != "" || r.LockReason != "" || r.ReleaseTime != 0
}

type TransferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type BurnRequest struct {
	From   string `json:"from"`
	Amount string `json:"amount"`
	Reason string `json:"reason"`
}

type SeizeRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
	Reason string `json:"reason"`
}

type SetIssuanceRequest struct {
	Enabled bool `json:"enabled"`
}

type CountryComplianceRequest struct {
	Country string `json:"country"`
	Allowed bool   `json:"allowed"`
}

type TransactionLimitsRequest struct {
	MaxSingleTransaction string `json:"max_single_transaction"`
	DailyVolumeLimit     string `json:"daily_volume_limit"`
}

type MaxHoldersRequest struct {
	MaxHolders int `json:"max_holders"`
}

type IssuanceCheckRequest struct {
	Wallet string `json:"wallet"`
	Amount string `json:"amount"`
}

type TransferCheckRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type RoleResponse struct {
	Address string `json:"address"`
	Role    string `json:"role"`
	RoleID  uint8  `json:"role_id"`
}

type RoleChangeResponse struct {
	Address string `json:"address"`
	OldRole string `json:"old_role"`
	NewRole string `json:"new_role"`
}

type AttributeResponse struct {
	Value     uint64 `json:"value"`
	Expiry    int64  `json:"expiry"`
	ProofHash string `json:"proof_hash"`
	Active    bool   `json:"active"`
}

type InvestorResponse struct {
	InvestorID    string                       `json:"investor_id"`
	CollisionHash string                       `json:"collision_hash"`
	Country       string                       `json:"country"`
	Wallets       []string                     `json:"wallets"`
	KYCApproved   bool                         `json:"kyc_approved"`
	Attributes    map[string]AttributeResponse `json:"attributes"`
	RegisteredAt  time.Time                    `json:"registered_at"`
}

type WalletInvestorResponse struct {
	Wallet     string `json:"wallet"`
	InvestorID string `json:"investor_id"`
}

type LockResponse struct {
	LockedAmount string `json:"locked_amount"`
	ReleaseTime  int64  `json:"release_time"`
	Reason       string `json:"reason"`
	Active       bool   `json:"active"`
}

type BalanceResponse struct {
	Address   string       `json:"address"`
	Balance   string       `json:"balance"`
	Spendable string       `json:"spendable"`
	Lock      LockResponse `json:"lock"`
}

type TokenResponse struct {
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	Decimals        int32  `json:"decimals"`
	TotalIssued     string `json:"total_issued"`
	MaxSupply       string `json:"max_supply"`
	Paused          bool   `json:"paused"`
	IssuanceEnabled bool   `json:"issuance_enabled"`
	HolderCount     int    `json:"holder_count"`
	DailyVolumeUsed string `json:"daily_volume_used"`
}

type HoldersResponse struct {
	Count   int      `json:"count"`
	Holders []string `json:"holders"`
}

type HolderResponse struct {
	Index   int    `json:"index"`
	Address string `json:"address"`
}

type CheckResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

type PolicyResponse struct {
	AllowedCountries     []string `json:"allowed_countries"`
	MaxHolders           int      `json:"max_holders"`
	MaxSingleTransaction string   `json:"max_single_transaction"`
	DailyVolumeLimit     string   `json:"daily_volume_limit"`
	MaxSupply            string   `json:"max_supply"`
	IssuanceEnabled      bool     `json:"issuance_enabled"`
}

type AuditEventResponse struct {
	ID         string    `json:"id"`
	Category   string    `json:"category"`
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	Actor      string    `json:"actor,omitempty"`
	Subjects   []string  `json:"subjects,omitempty"`
	InvestorID string    `json:"investor_id,omitempty"`
	Amount     string    `json:"amount,omitempty"`
	Outcome    string    `json:"outcome"`
	Reason     string    `json:"reason,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
}

type AuditEventsResponse struct {
	Events []AuditEventResponse `json:"events"`
}

// -----------------------------------------------------------------------------
// Parsing helpers
// -----------------------------------------------------------------------------

func parseAddress(field, s string) (common.Address, error) {
	addr, err := domain.ParseAddress(s)
	if err != nil {
		return common.Address{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, field+": "+dErrors.MessageOf(err))
	}
	return addr, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := domain.ParseAmount(s)
	if err != nil {
		return decimal.Zero, dErrors.New(dErrors.CodeInvalidInput, field+": "+dErrors.MessageOf(err))
	}
	return d, nil
}

// parseLimit treats an empty limit as zero (unlimited).
func parseLimit(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return parseAmount(field, s)
}

func parseAttributeID(s string) (domain.AttributeID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "invalid attribute id %q", s)
	}
	return domain.AttributeID(n), nil
}

// -----------------------------------------------------------------------------
// Response mapping
// -----------------------------------------------------------------------------

func toRoleResponse(addr common.Address, role trust.Role) RoleResponse {
	return RoleResponse{Address: addr.Hex(), Role: role.String(), RoleID: uint8(role)}
}

func toAttributeResponse(a identity.Attribute, now time.Time) AttributeResponse {
	return AttributeResponse{
		Value:     a.Value,
		Expiry:    a.Expiry,
		ProofHash: a.ProofHash.Hex(),
		Active:    a.Value != 0 && a.ActiveAt(now),
	}
}

func toInvestorResponse(v *ledger.InvestorView, now time.Time) InvestorResponse {
	wallets := make([]string, len(v.Wallets))
	for i, w := range v.Wallets {
		wallets[i] = w.Hex()
	}
	attrs := make(map[string]AttributeResponse, len(v.Attributes))
	for id, a := range v.Attributes {
		attrs[strconv.FormatUint(uint64(id), 10)] = toAttributeResponse(a, now)
	}
	return InvestorResponse{
		InvestorID:    v.ID.String(),
		CollisionHash: v.CollisionHash.Hex(),
		Country:       v.Country.String(),
		Wallets:       wallets,
		KYCApproved:   v.KYCApproved,
		Attributes:    attrs,
		RegisteredAt:  v.RegisteredAt,
	}
}

func toBalanceResponse(addr common.Address, balance, spendable decimal.Decimal, lock ledger.LockInfo) BalanceResponse {
	return BalanceResponse{
		Address:   addr.Hex(),
		Balance:   balance.String(),
		Spendable: spendable.String(),
		Lock: LockResponse{
			LockedAmount: lock.LockedAmount.String(),
			ReleaseTime:  lock.ReleaseTime,
			Reason:       lock.Reason,
			Active:       lock.Active,
		},
	}
}

func toTokenResponse(info ledger.TokenInfo, dailyVolume decimal.Decimal) TokenResponse {
	return TokenResponse{
		Name:            info.Name,
		Symbol:          info.Symbol,
		Decimals:        info.Decimals,
		TotalIssued:     info.TotalIssued.String(),
		MaxSupply:       info.MaxSupply.String(),
		Paused:          info.Paused,
		IssuanceEnabled: info.IssuanceEnabled,
		HolderCount:     info.HolderCount,
		DailyVolumeUsed: dailyVolume.String(),
	}
}

func toCheckResponse(r compliance.Result) CheckResponse {
	return CheckResponse{Allowed: r.Allowed, Reason: r.Reason.String()}
}

func toPolicyResponse(p compliance.Policy) PolicyResponse {
	countries := p.Countries()
	out := PolicyResponse{
		AllowedCountries:     make([]string, len(countries)),
		MaxHolders:           p.MaxHolders,
		MaxSingleTransaction: p.MaxSingleTransaction.String(),
		DailyVolumeLimit:     p.DailyVolumeLimit.String(),
		MaxSupply:            p.MaxSupply.String(),
		IssuanceEnabled:      p.IssuanceEnabled,
	}
	for i, c := range countries {
		out.AllowedCountries[i] = c.String()
	}
	return out
}

func toAuditEventResponse(e audit.Event) AuditEventResponse {
	return AuditEventResponse{
		ID:         e.ID.String(),
		Category:   string(e.Category),
		Timestamp:  e.Timestamp,
		Action:     e.Action,
		Actor:      e.Actor,
		Subjects:   e.Subjects,
		InvestorID: e.InvestorID,
		Amount:     e.Amount,
		Outcome:    string(e.Outcome),
		Reason:     e.Reason,
		RequestID:  e.RequestID,
	}
}
