package trust

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	dErrors "dsledger/pkg/domain-errors"
)

var (
	owner    = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	operator = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	stranger = common.HexToAddress("0x00000000000000000000000000000000000000c3")
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.registry = NewRegistry(owner)
}

func (s *RegistrySuite) TestBootstrap() {
	s.Equal(RoleMaster, s.registry.RoleOf(owner))
	s.Equal(RoleNone, s.registry.RoleOf(stranger))
	s.Equal(owner, s.registry.Owner())
}

func (s *RegistrySuite) TestSetRole() {
	s.Run("master assigns issuer and change is reported", func() {
		change, err := s.registry.SetRole(owner, operator, RoleIssuer)
		s.Require().NoError(err)
		s.Equal(RoleChange{Address: operator, OldRole: RoleNone, NewRole: RoleIssuer}, change)
		s.Equal(RoleIssuer, s.registry.RoleOf(operator))
	})

	s.Run("setting the same role is a recorded no-op", func() {
		change, err := s.registry.SetRole(owner, operator, RoleIssuer)
		s.Require().NoError(err)
		s.Equal(RoleIssuer, change.OldRole)
		s.Equal(RoleIssuer, change.NewRole)
	})

	s.Run("non-master cannot assign roles", func() {
		_, err := s.registry.SetRole(operator, stranger, RoleExchange)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Equal(RoleNone, s.registry.RoleOf(stranger))
	})

	s.Run("no self-elevation", func() {
		_, err := s.registry.SetRole(operator, operator, RoleMaster)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Equal(RoleIssuer, s.registry.RoleOf(operator))
	})

	s.Run("unknown role is invalid input", func() {
		_, err := s.registry.SetRole(owner, stranger, Role(3))
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("setting none revokes", func() {
		_, err := s.registry.SetRole(owner, operator, RoleNone)
		s.Require().NoError(err)
		s.Equal(RoleNone, s.registry.RoleOf(operator))
	})
}

func (s *RegistrySuite) TestLastMasterIsKept() {
	s.Run("sole master cannot revoke itself", func() {
		_, err := s.registry.SetRole(owner, owner, RoleNone)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(RoleMaster, s.registry.RoleOf(owner))
	})

	s.Run("sole master cannot demote itself", func() {
		_, err := s.registry.SetRole(owner, owner, RoleIssuer)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(RoleMaster, s.registry.RoleOf(owner))
	})

	s.Run("re-asserting master is allowed", func() {
		_, err := s.registry.SetRole(owner, owner, RoleMaster)
		s.NoError(err)
	})

	s.Run("a master can step down once another exists", func() {
		_, err := s.registry.SetRole(owner, operator, RoleMaster)
		s.Require().NoError(err)

		change, err := s.registry.SetRole(operator, owner, RoleNone)
		s.Require().NoError(err)
		s.Equal(RoleMaster, change.OldRole)
		s.Equal(RoleNone, s.registry.RoleOf(owner))

		_, err = s.registry.SetRole(operator, operator, RoleExchange)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(RoleMaster, s.registry.RoleOf(operator))
	})
}

// Issuer (2) is less privileged than master (1) despite the larger number.
func (s *RegistrySuite) TestHasMinimumRoleOrdering() {
	_, err := s.registry.SetRole(owner, operator, RoleIssuer)
	s.Require().NoError(err)

	s.True(s.registry.HasMinimumRole(operator, RoleIssuer))
	s.False(s.registry.HasMinimumRole(operator, RoleMaster))
	s.True(s.registry.HasMinimumRole(operator, RoleExchange))
	s.True(s.registry.HasMinimumRole(owner, RoleIssuer))
	s.True(s.registry.HasMinimumRole(stranger, RoleNone))
	s.False(s.registry.HasMinimumRole(stranger, RoleExchange))

	s.NoError(s.registry.Require(operator, RoleIssuer))
	s.True(dErrors.HasCode(s.registry.Require(operator, RoleMaster), dErrors.CodeForbidden))
}

func (s *RegistrySuite) TestParseRole() {
	for in, want := range map[string]Role{"issuer": RoleIssuer, "1": RoleMaster, " Exchange ": RoleExchange, "none": RoleNone} {
		got, err := ParseRole(in)
		s.Require().NoError(err, in)
		s.Equal(want, got, in)
	}
	_, err := ParseRole("root")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
