package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"dsledger/internal/compliance"
	"dsledger/pkg/domain"
	pstrings "dsledger/pkg/platform/strings"
)

// policyFile is the on-disk compliance policy. Limits are display amounts
// ("1000" means 1000 tokens) and are converted with the token's decimals.
//
//	allowed_countries      = ["KR", "US"]
//	max_holders            = 2000
//	max_single_transaction = "1000"
//	daily_volume_limit     = "5000"
//	max_supply             = "1000000"
//	issuance_enabled       = true
type policyFile struct {
	AllowedCountries     []string `toml:"allowed_countries"`
	MaxHolders           int      `toml:"max_holders"`
	MaxSingleTransaction string   `toml:"max_single_transaction"`
	DailyVolumeLimit     string   `toml:"daily_volume_limit"`
	MaxSupply            string   `toml:"max_supply"`
	IssuanceEnabled      *bool    `toml:"issuance_enabled"`
}

// ReadPolicyFile loads and validates a TOML compliance policy.
func ReadPolicyFile(path string, decimals int32) (compliance.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return compliance.Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	return ParsePolicy(string(data), decimals)
}

// ParsePolicy decodes a TOML compliance policy. Unknown keys are rejected so
// a misspelled limit never silently means "unlimited".
func ParsePolicy(data string, decimals int32) (compliance.Policy, error) {
	var pf policyFile
	md, err := toml.Decode(data, &pf)
	if err != nil {
		return compliance.Policy{}, fmt.Errorf("decode policy: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return compliance.Policy{}, fmt.Errorf("unknown policy keys: %s", strings.Join(keys, ", "))
	}

	p := compliance.DefaultPolicy()
	for _, raw := range pstrings.DedupeAndTrimUpper(pf.AllowedCountries) {
		c, err := domain.ParseCountry(raw)
		if err != nil {
			return compliance.Policy{}, fmt.Errorf("allowed_countries: %w", err)
		}
		p.SetCountryAllowed(c, true)
	}
	p.MaxHolders = pf.MaxHolders
	if pf.IssuanceEnabled != nil {
		p.IssuanceEnabled = *pf.IssuanceEnabled
	}

	for _, f := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"max_single_transaction", pf.MaxSingleTransaction, &p.MaxSingleTransaction},
		{"daily_volume_limit", pf.DailyVolumeLimit, &p.DailyVolumeLimit},
		{"max_supply", pf.MaxSupply, &p.MaxSupply},
	} {
		if strings.TrimSpace(f.raw) == "" {
			continue
		}
		v, err := domain.ToBaseUnits(f.raw, decimals)
		if err != nil {
			return compliance.Policy{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = v
	}

	if err := p.Validate(); err != nil {
		return compliance.Policy{}, err
	}
	return p, nil
}
