package domain

import (
	"strings"

	"golang.org/x/text/language"

	dErrors "dsledger/pkg/domain-errors"
)

// CountryCode is an upper-case ISO 3166-1 alpha-2 code.
type CountryCode string

// ParseCountry validates s against the ISO region registry.
func ParseCountry(s string) (CountryCode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "country must be an ISO 3166-1 alpha-2 code")
	}
	region, err := language.ParseRegion(s)
	if err != nil || !region.IsCountry() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown country code %q", s)
	}
	return CountryCode(region.String()), nil
}

func (c CountryCode) String() string { return string(c) }
