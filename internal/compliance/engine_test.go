package compliance

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"dsledger/internal/compliance/metrics"
	"dsledger/internal/identity"
	"dsledger/pkg/domain"
	dErrors "dsledger/pkg/domain-errors"
)

var (
	now      = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w1       = common.HexToAddress("0x0000000000000000000000000000000000000001")
	w2       = common.HexToAddress("0x0000000000000000000000000000000000000002")
	unbound  = common.HexToAddress("0x00000000000000000000000000000000000000ff")
	kycProof = domain.CollisionHash("kyc-proof")
	approved = identity.Attribute{Value: domain.AttributeValueApproved, ProofHash: kycProof}
	thousand = decimal.NewFromInt(1000)
	hundred  = decimal.NewFromInt(100)
	oneToken = decimal.NewFromInt(1)
)

// fakeView is a fixed set of ledger aggregates.
type fakeView struct {
	balances  map[common.Address]decimal.Decimal
	locked    map[common.Address]decimal.Decimal
	dailyUsed decimal.Decimal
}

func newFakeView() *fakeView {
	return &fakeView{
		balances: make(map[common.Address]decimal.Decimal),
		locked:   make(map[common.Address]decimal.Decimal),
	}
}

func (v *fakeView) BalanceOf(a common.Address) decimal.Decimal { return v.balances[a] }

func (v *fakeView) SpendableBalance(a common.Address, _ time.Time) decimal.Decimal {
	return v.balances[a].Sub(v.locked[a])
}

func (v *fakeView) IsHolder(a common.Address) bool { return v.balances[a].IsPositive() }

func (v *fakeView) HolderCount() int {
	n := 0
	for _, b := range v.balances {
		if b.IsPositive() {
			n++
		}
	}
	return n
}

func (v *fakeView) DailyVolumeUsed(time.Time) decimal.Decimal { return v.dailyUsed }

type EngineSuite struct {
	suite.Suite
	registry *identity.Registry
	engine   *Engine
	view     *fakeView
	metrics  *metrics.Metrics
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.registry = identity.NewRegistry()
	s.view = newFakeView()
	s.metrics = metrics.NewWithRegisterer(prometheus.NewRegistry())

	policy := DefaultPolicy()
	policy.SetCountryAllowed("KR", true)
	policy.SetCountryAllowed("US", true)
	s.engine = NewEngine(s.registry, WithPolicy(policy), WithMetrics(s.metrics))

	s.investor("INV001", w1, "KR", true)
	s.investor("INV002", w2, "US", true)
}

func (s *EngineSuite) investor(id domain.InvestorID, wallet common.Address, country domain.CountryCode, kyc bool) {
	s.Require().NoError(s.registry.RegisterInvestor(id, domain.CollisionHash(id.String()), now))
	_, err := s.registry.AddWallet(wallet, id)
	s.Require().NoError(err)
	s.Require().NoError(s.registry.SetCountry(id, country))
	if kyc {
		s.Require().NoError(s.registry.SetAttribute(id, domain.AttributeKYC, approved))
	}
}

func (s *EngineSuite) setPolicy(mutate func(*Policy)) {
	p := s.engine.Policy()
	mutate(&p)
	s.Require().NoError(s.engine.SetPolicy(p))
}

func (s *EngineSuite) TestPreIssuanceCheck() {
	s.Run("fully onboarded investor is allowed", func() {
		s.Equal(Result{Allowed: true}, s.engine.PreIssuanceCheck(s.view, w1, thousand, now))
	})

	s.Run("unbound wallet is not in whitelist", func() {
		s.Equal(deny(ReasonNotWhitelisted), s.engine.PreIssuanceCheck(s.view, unbound, thousand, now))
	})

	s.Run("missing KYC", func() {
		s.investor("INV003", common.HexToAddress("0x03"), "KR", false)
		res := s.engine.PreIssuanceCheck(s.view, common.HexToAddress("0x03"), thousand, now)
		s.Equal(deny(ReasonKYCNotVerified), res)
	})

	s.Run("KYC expiring exactly now is not verified", func() {
		s.Require().NoError(s.registry.SetAttribute("INV001", domain.AttributeKYC,
			identity.Attribute{Value: 1, Expiry: now.Unix()}))
		s.Equal(deny(ReasonKYCNotVerified), s.engine.PreIssuanceCheck(s.view, w1, thousand, now))
		s.True(s.engine.PreIssuanceCheck(s.view, w1, thousand, now.Add(-time.Second)).Allowed)
		s.Require().NoError(s.registry.SetAttribute("INV001", domain.AttributeKYC, approved))
	})

	s.Run("country not on the allow-list", func() {
		s.investor("INV004", common.HexToAddress("0x04"), "SG", true)
		res := s.engine.PreIssuanceCheck(s.view, common.HexToAddress("0x04"), thousand, now)
		s.Equal(deny(ReasonCountryNotAllowed), res)
	})

	s.Run("unset country is never allowed", func() {
		s.Require().NoError(s.registry.RegisterInvestor("INV005", domain.CollisionHash("INV005"), now))
		_, err := s.registry.AddWallet(common.HexToAddress("0x05"), "INV005")
		s.Require().NoError(err)
		s.Require().NoError(s.registry.SetAttribute("INV005", domain.AttributeKYC, approved))
		s.Equal(deny(ReasonCountryNotAllowed), s.engine.PreIssuanceCheck(s.view, common.HexToAddress("0x05"), thousand, now))
	})
}

func (s *EngineSuite) TestIssuanceLimits() {
	s.Run("max holders blocks new holders only", func() {
		s.setPolicy(func(p *Policy) { p.MaxHolders = 1 })
		s.view.balances[w2] = hundred

		s.Equal(deny(ReasonMaxHoldersExceeded), s.engine.PreIssuanceCheck(s.view, w1, thousand, now))
		s.True(s.engine.PreIssuanceCheck(s.view, w2, thousand, now).Allowed, "existing holder")
		s.setPolicy(func(p *Policy) { p.MaxHolders = 0 })
	})

	s.Run("single transaction limit is inclusive", func() {
		s.setPolicy(func(p *Policy) { p.MaxSingleTransaction = thousand })
		s.True(s.engine.PreIssuanceCheck(s.view, w1, thousand, now).Allowed)
		s.Equal(deny(ReasonTransactionLimit), s.engine.PreIssuanceCheck(s.view, w1, thousand.Add(oneToken), now))
	})

	s.Run("daily volume counts what was already used", func() {
		s.setPolicy(func(p *Policy) { p.DailyVolumeLimit = thousand })
		s.view.dailyUsed = decimal.NewFromInt(900)
		s.True(s.engine.PreIssuanceCheck(s.view, w1, hundred, now).Allowed)
		s.Equal(deny(ReasonDailyVolumeLimit), s.engine.PreIssuanceCheck(s.view, w1, hundred.Add(oneToken), now))
	})

	s.Run("transaction limit is reported before daily volume", func() {
		s.Equal(deny(ReasonTransactionLimit), s.engine.PreIssuanceCheck(s.view, w1, decimal.NewFromInt(5000), now))
	})
}

func (s *EngineSuite) TestPreTransferCheck() {
	s.view.balances[w1] = thousand
	s.view.locked[w1] = decimal.NewFromInt(500)

	s.Run("exactly the spendable balance is allowed", func() {
		s.True(s.engine.PreTransferCheck(s.view, w1, w2, decimal.NewFromInt(500), now).Allowed)
	})

	s.Run("spendable plus one is locked balance", func() {
		s.Equal(deny(ReasonLockedBalance), s.engine.PreTransferCheck(s.view, w1, w2, decimal.NewFromInt(501), now))
	})

	s.Run("more than the whole balance is insufficient balance", func() {
		s.Equal(deny(ReasonInsufficientBalance), s.engine.PreTransferCheck(s.view, w1, w2, decimal.NewFromInt(1001), now))
	})

	s.Run("sender identity is checked before receiver", func() {
		s.Equal(deny(ReasonNotWhitelisted), s.engine.PreTransferCheck(s.view, unbound, unbound, oneToken, now))
	})

	s.Run("receiver must be onboarded", func() {
		s.Equal(deny(ReasonNotWhitelisted), s.engine.PreTransferCheck(s.view, w1, unbound, oneToken, now))
	})

	s.Run("identity is checked before balance", func() {
		s.Equal(deny(ReasonNotWhitelisted), s.engine.PreTransferCheck(s.view, w1, unbound, decimal.NewFromInt(5000), now))
	})

	s.Run("balance is checked before limits", func() {
		s.setPolicy(func(p *Policy) {
			p.MaxSingleTransaction = hundred
			p.DailyVolumeLimit = hundred
		})
		s.Equal(deny(ReasonLockedBalance), s.engine.PreTransferCheck(s.view, w1, w2, decimal.NewFromInt(600), now))
		s.Equal(deny(ReasonTransactionLimit), s.engine.PreTransferCheck(s.view, w1, w2, decimal.NewFromInt(200), now))

		s.view.dailyUsed = decimal.NewFromInt(50)
		s.Equal(deny(ReasonDailyVolumeLimit), s.engine.PreTransferCheck(s.view, w1, w2, decimal.NewFromInt(60), now))
	})
}

func (s *EngineSuite) TestChecksAreRecorded() {
	s.engine.PreIssuanceCheck(s.view, w1, thousand, now)
	s.engine.PreIssuanceCheck(s.view, unbound, thousand, now)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.CheckOutcome.WithLabelValues(kindIssuance, "allowed")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.CheckOutcome.WithLabelValues(kindIssuance, string(ReasonNotWhitelisted))))
}

func (s *EngineSuite) TestPolicy() {
	s.Run("negative limits are rejected", func() {
		p := DefaultPolicy()
		p.DailyVolumeLimit = decimal.NewFromInt(-1)
		s.True(dErrors.HasCode(s.engine.SetPolicy(p), dErrors.CodeInvalidInput))

		p = DefaultPolicy()
		p.MaxHolders = -1
		s.True(dErrors.HasCode(s.engine.SetPolicy(p), dErrors.CodeInvalidInput))
	})

	s.Run("returned policy is a copy", func() {
		p := s.engine.Policy()
		p.SetCountryAllowed("KR", false)
		s.True(s.engine.Policy().CountryAllowed("KR"))
	})

	s.Run("countries are sorted and removable", func() {
		p := DefaultPolicy()
		p.SetCountryAllowed("US", true)
		p.SetCountryAllowed("KR", true)
		p.SetCountryAllowed("SG", true)
		p.SetCountryAllowed("SG", false)
		s.Equal([]domain.CountryCode{"KR", "US"}, p.Countries())
		s.False(p.CountryAllowed(""))
	})

	s.Run("zero limits are unlimited", func() {
		p := DefaultPolicy()
		s.False(p.exceedsTransactionLimit(decimal.New(1, 30)))
		s.False(p.exceedsDailyVolume(decimal.New(1, 30), decimal.New(1, 30)))
		s.False(p.exceedsMaxHolders(1_000_000, false))
	})
}
