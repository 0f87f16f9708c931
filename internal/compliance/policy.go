package compliance

import (
	"sort"

	"github.com/shopspring/decimal"

	"dsledger/pkg/domain"
	dErrors "dsledger/pkg/domain-errors"
)

// Policy is the token-global rule configuration consulted by every check.
// Zero limits mean unlimited.
type Policy struct {
	AllowedCountries     map[domain.CountryCode]bool
	MaxHolders           int
	MaxSingleTransaction decimal.Decimal
	DailyVolumeLimit     decimal.Decimal
	IssuanceEnabled      bool
	MaxSupply            decimal.Decimal
}

// DefaultPolicy has no limits, issuance enabled, and an empty country
// allow-list, so nothing can be issued until countries are allowed.
func DefaultPolicy() Policy {
	return Policy{
		AllowedCountries: make(map[domain.CountryCode]bool),
		IssuanceEnabled:  true,
	}
}

// Validate rejects negative or fractional limits.
func (p Policy) Validate() error {
	if p.MaxHolders < 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "max holders must not be negative")
	}
	for name, v := range map[string]decimal.Decimal{
		"max single transaction": p.MaxSingleTransaction,
		"daily volume limit":     p.DailyVolumeLimit,
		"max supply":             p.MaxSupply,
	} {
		if err := domain.ValidateAmount(v); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInvalidInput, name)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (p Policy) Clone() Policy {
	out := p
	out.AllowedCountries = make(map[domain.CountryCode]bool, len(p.AllowedCountries))
	for c, ok := range p.AllowedCountries {
		if ok {
			out.AllowedCountries[c] = true
		}
	}
	return out
}

func (p Policy) CountryAllowed(c domain.CountryCode) bool {
	return c != "" && p.AllowedCountries[c]
}

// SetCountryAllowed adds or removes c from the allow-list.
func (p *Policy) SetCountryAllowed(c domain.CountryCode, allowed bool) {
	if p.AllowedCountries == nil {
		p.AllowedCountries = make(map[domain.CountryCode]bool)
	}
	if allowed {
		p.AllowedCountries[c] = true
		return
	}
	delete(p.AllowedCountries, c)
}

// Countries lists the allowed countries in sorted order.
func (p Policy) Countries() []domain.CountryCode {
	out := make([]domain.CountryCode, 0, len(p.AllowedCountries))
	for c, ok := range p.AllowedCountries {
		if ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (p Policy) exceedsTransactionLimit(amount decimal.Decimal) bool {
	return p.MaxSingleTransaction.IsPositive() && amount.GreaterThan(p.MaxSingleTransaction)
}

func (p Policy) exceedsDailyVolume(used, amount decimal.Decimal) bool {
	return p.DailyVolumeLimit.IsPositive() && used.Add(amount).GreaterThan(p.DailyVolumeLimit)
}

func (p Policy) exceedsMaxHolders(holderCount int, alreadyHolder bool) bool {
	return p.MaxHolders > 0 && !alreadyHolder && holderCount+1 > p.MaxHolders
}
