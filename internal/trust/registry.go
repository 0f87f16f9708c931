// Package trust maps operator addresses to privilege roles.
//
// Registry is not safe for concurrent use on its own; the ledger serializes
// every access behind its state lock.
package trust

import (
	"github.com/ethereum/go-ethereum/common"

	dErrors "dsledger/pkg/domain-errors"
)

// Registry is the address → role table.
type Registry struct {
	roles map[common.Address]Role
	owner common.Address
}

// NewRegistry bootstraps the registry with owner holding RoleMaster. This is
// the only assignment that bypasses the caller check.
func NewRegistry(owner common.Address) *Registry {
	r := &Registry{
		roles: make(map[common.Address]Role),
		owner: owner,
	}
	if owner != (common.Address{}) {
		r.roles[owner] = RoleMaster
	}
	return r
}

// Owner returns the bootstrap address.
func (r *Registry) Owner() common.Address {
	return r.owner
}

// SetRole assigns role to addr on behalf of caller, who must be a master.
// The last remaining master cannot be demoted or revoked.
func (r *Registry) SetRole(caller, addr common.Address, role Role) (RoleChange, error) {
	if !role.IsValid() {
		return RoleChange{}, dErrors.Newf(dErrors.CodeInvalidInput, "unknown role %d", uint8(role))
	}
	if addr == (common.Address{}) {
		return RoleChange{}, dErrors.New(dErrors.CodeInvalidInput, "zero address cannot hold a role")
	}
	if !r.HasMinimumRole(caller, RoleMaster) {
		return RoleChange{}, dErrors.New(dErrors.CodeForbidden, "caller is not a master")
	}

	change := RoleChange{Address: addr, OldRole: r.RoleOf(addr), NewRole: role}
	if change.OldRole == RoleMaster && role != RoleMaster && r.countRole(RoleMaster) == 1 {
		return RoleChange{}, dErrors.New(dErrors.CodeConflict, "cannot remove the last master")
	}
	if role == RoleNone {
		delete(r.roles, addr)
	} else {
		r.roles[addr] = role
	}
	return change, nil
}

func (r *Registry) countRole(role Role) int {
	n := 0
	for _, held := range r.roles {
		if held == role {
			n++
		}
	}
	return n
}

// RoleOf returns addr's role, RoleNone when unassigned.
func (r *Registry) RoleOf(addr common.Address) Role {
	return r.roles[addr]
}

// HasMinimumRole reports whether addr holds min or a more privileged role.
func (r *Registry) HasMinimumRole(addr common.Address, min Role) bool {
	return r.RoleOf(addr).AtLeast(min)
}

// Require returns a forbidden error unless addr holds at least min.
func (r *Registry) Require(addr common.Address, min Role) error {
	if !r.HasMinimumRole(addr, min) {
		return dErrors.Newf(dErrors.CodeForbidden, "requires %s role", min)
	}
	return nil
}
