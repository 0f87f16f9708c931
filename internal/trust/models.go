package trust

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	dErrors "dsledger/pkg/domain-errors"
)

// Role is an operator's privilege level. Numeric values are the ones used by
// the issuance tooling; they are not the privilege order.
type Role uint8

const (
	RoleNone     Role = 0
	RoleMaster   Role = 1
	RoleIssuer   Role = 2
	RoleExchange Role = 4
)

// rank orders roles by privilege: MASTER > ISSUER > EXCHANGE > NONE.
var rank = map[Role]int{
	RoleNone:     0,
	RoleExchange: 1,
	RoleIssuer:   2,
	RoleMaster:   3,
}

// IsValid reports whether r is one of the defined roles.
func (r Role) IsValid() bool {
	_, ok := rank[r]
	return ok
}

// AtLeast reports whether r is at least as privileged as min.
func (r Role) AtLeast(min Role) bool {
	return rank[r] >= rank[min]
}

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleMaster:
		return "master"
	case RoleIssuer:
		return "issuer"
	case RoleExchange:
		return "exchange"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// ParseRole accepts either the role name or its numeric value.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "0":
		return RoleNone, nil
	case "master", "1":
		return RoleMaster, nil
	case "issuer", "2":
		return RoleIssuer, nil
	case "exchange", "4":
		return RoleExchange, nil
	}
	return RoleNone, dErrors.Newf(dErrors.CodeInvalidInput, "unknown role %q", s)
}

// RoleChange records a single setRole call. No-op changes are recorded too.
type RoleChange struct {
	Address common.Address
	OldRole Role
	NewRole Role
}
