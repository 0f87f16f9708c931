package identity

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"dsledger/pkg/domain"
	dErrors "dsledger/pkg/domain-errors"
)

var (
	now     = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	wallet1 = common.HexToAddress("0x0000000000000000000000000000000000001001")
	wallet2 = common.HexToAddress("0x0000000000000000000000000000000000001002")
	proof   = domain.CollisionHash("kyc-proof")
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.registry = NewRegistry()
	s.Require().NoError(s.registry.RegisterInvestor("INV001", domain.CollisionHash("INV001"), now))
}

func (s *RegistrySuite) TestRegisterInvestor() {
	s.Run("registered investor exists with empty record", func() {
		s.True(s.registry.InvestorExists("INV001"))
		inv, err := s.registry.Investor("INV001")
		s.Require().NoError(err)
		s.Empty(inv.Wallets)
		s.Empty(inv.Country)
		s.Empty(inv.Attributes)
		s.Equal(now, inv.RegisteredAt)
	})

	s.Run("duplicate id is a conflict", func() {
		err := s.registry.RegisterInvestor("INV001", domain.CollisionHash("other"), now)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("duplicate collision hash is reported but allowed", func() {
		hash := domain.CollisionHash("INV001")
		s.Require().NoError(s.registry.RegisterInvestor("INV001-ALIAS", hash, now))
		s.ElementsMatch([]domain.InvestorID{"INV001", "INV001-ALIAS"}, s.registry.CollisionsOf(hash))
	})
}

func (s *RegistrySuite) TestAddWallet() {
	s.Run("unknown investor is not found", func() {
		_, err := s.registry.AddWallet(wallet1, "NOPE")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Empty(s.registry.InvestorOf(wallet1))
	})

	s.Run("binds wallet and reverse index", func() {
		added, err := s.registry.AddWallet(wallet1, "INV001")
		s.Require().NoError(err)
		s.True(added)
		s.Equal(domain.InvestorID("INV001"), s.registry.InvestorOf(wallet1))
	})

	s.Run("re-adding to same investor is idempotent", func() {
		added, err := s.registry.AddWallet(wallet1, "INV001")
		s.Require().NoError(err)
		s.False(added)
		inv, err := s.registry.Investor("INV001")
		s.Require().NoError(err)
		s.Equal([]common.Address{wallet1}, inv.Wallets)
	})

	s.Run("wallet bound elsewhere is rejected", func() {
		s.Require().NoError(s.registry.RegisterInvestor("INV002", domain.CollisionHash("INV002"), now))
		_, err := s.registry.AddWallet(wallet1, "INV002")
		s.True(dErrors.HasCode(err, dErrors.CodeWalletAlreadyBound))
		s.Equal(domain.InvestorID("INV001"), s.registry.InvestorOf(wallet1))
	})
}

func (s *RegistrySuite) TestCountryAndAttributes() {
	s.Run("unknown investor is not found", func() {
		s.True(dErrors.HasCode(s.registry.SetCountry("NOPE", "KR"), dErrors.CodeNotFound))
		s.True(dErrors.HasCode(s.registry.SetAttribute("NOPE", domain.AttributeKYC, Attribute{Value: 1}), dErrors.CodeNotFound))
	})

	s.Run("country overwrites", func() {
		s.Require().NoError(s.registry.SetCountry("INV001", "KR"))
		s.Require().NoError(s.registry.SetCountry("INV001", "US"))
		inv, err := s.registry.Investor("INV001")
		s.Require().NoError(err)
		s.Equal(domain.CountryCode("US"), inv.Country)
	})

	s.Run("attribute upsert and zero tuple for unset", func() {
		s.Equal(Attribute{}, s.registry.GetAttribute("INV001", domain.AttributeKYC))

		attr := Attribute{Value: 1, Expiry: 0, ProofHash: proof}
		s.Require().NoError(s.registry.SetAttribute("INV001", domain.AttributeKYC, attr))
		s.Equal(attr, s.registry.GetAttribute("INV001", domain.AttributeKYC))

		updated := Attribute{Value: 1, Expiry: now.Unix() + 60, ProofHash: proof}
		s.Require().NoError(s.registry.SetAttribute("INV001", domain.AttributeKYC, updated))
		s.Equal(updated, s.registry.GetAttribute("INV001", domain.AttributeKYC))
	})

	s.Run("returned record is a copy", func() {
		inv, err := s.registry.Investor("INV001")
		s.Require().NoError(err)
		inv.Attributes[domain.AttributeKYC] = Attribute{}
		s.Equal(uint64(1), s.registry.GetAttribute("INV001", domain.AttributeKYC).Value)
	})
}

func (s *RegistrySuite) TestAttributeExpiryBoundary() {
	s.True(Attribute{Value: 1}.ActiveAt(now), "zero expiry never expires")
	s.True(Attribute{Value: 1, Expiry: now.Unix() + 1}.ActiveAt(now))
	s.False(Attribute{Value: 1, Expiry: now.Unix()}.ActiveAt(now), "expiry == now is expired")
	s.False(Attribute{Value: 1, Expiry: now.Unix() - 1}.ActiveAt(now))
}

func (s *RegistrySuite) TestKYCApproved() {
	_, err := s.registry.AddWallet(wallet2, "INV001")
	s.Require().NoError(err)

	inv := s.registry.Lookup(wallet2)
	s.Require().NotNil(inv)
	s.False(inv.KYCApprovedAt(now))

	s.Require().NoError(s.registry.SetAttribute("INV001", domain.AttributeKYC, Attribute{Value: 2}))
	s.False(s.registry.Lookup(wallet2).KYCApprovedAt(now), "value other than approved")

	s.Require().NoError(s.registry.SetAttribute("INV001", domain.AttributeKYC, Attribute{Value: 1, Expiry: now.Unix()}))
	s.False(s.registry.Lookup(wallet2).KYCApprovedAt(now), "expired")

	s.Require().NoError(s.registry.SetAttribute("INV001", domain.AttributeKYC, Attribute{Value: 1}))
	s.True(s.registry.Lookup(wallet2).KYCApprovedAt(now))
	s.Nil(s.registry.Lookup(wallet1))
}
