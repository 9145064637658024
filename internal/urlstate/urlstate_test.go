package urlstate

import (
	"net/url"
	"testing"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInputs() domain.RetirementInputs {
	return domain.RetirementInputs{
		CurrentAge:                 32,
		LifeExpectancy:             domain.IntPtr(95),
		InitialInvestment:          decimal.NewFromInt(120000),
		MonthlyRetirementSpend:     decimal.RequireFromString("4250.50"),
		ExpectedYearlyReturn:       decimal.RequireFromString("8.5"),
		InflationRate:              decimal.RequireFromString("2.5"),
		InflationMode:              domain.InflationModeNominal,
		CompoundingInterval:        domain.CompoundingYearly,
		SafeWithdrawalRate:         decimal.RequireFromString("3.75"),
		RetirementBufferMultiplier: decimal.RequireFromString("1.1"),
		ContributionPhases: []domain.ContributionPhase{
			{StartAge: 32, EndAge: domain.IntPtr(40), MonthlyContribution: decimal.NewFromInt(2500)},
			{StartAge: 40, MonthlyContribution: decimal.NewFromInt(-300)},
		},
		WithdrawalOverrides: []domain.WithdrawalOverride{
			{StartAge: 55, EndAge: domain.IntPtr(65), WithdrawalRate: decimal.NewFromInt(3)},
		},
	}
}

func assertInputsEqual(t *testing.T, want, got domain.RetirementInputs) {
	t.Helper()
	assert.Equal(t, want.CurrentAge, got.CurrentAge)
	assert.Equal(t, want.Horizon(), got.Horizon())
	assert.True(t, want.InitialInvestment.Equal(got.InitialInvestment), "initial")
	assert.True(t, want.MonthlyRetirementSpend.Equal(got.MonthlyRetirementSpend), "spend")
	assert.True(t, want.ExpectedYearlyReturn.Equal(got.ExpectedYearlyReturn), "return")
	assert.True(t, want.InflationRate.Equal(got.InflationRate), "inflation")
	assert.Equal(t, want.InflationMode, got.InflationMode)
	assert.Equal(t, want.CompoundingInterval, got.CompoundingInterval)
	assert.True(t, want.SafeWithdrawalRate.Equal(got.SafeWithdrawalRate), "swr")
	assert.True(t, want.RetirementBufferMultiplier.Equal(got.RetirementBufferMultiplier), "buffer")

	require.Len(t, got.ContributionPhases, len(want.ContributionPhases))
	for i := range want.ContributionPhases {
		w, g := want.ContributionPhases[i], got.ContributionPhases[i]
		assert.Equal(t, w.StartAge, g.StartAge)
		assert.Equal(t, w.EndAge, g.EndAge)
		assert.True(t, w.MonthlyContribution.Equal(g.MonthlyContribution))
	}
	require.Len(t, got.WithdrawalOverrides, len(want.WithdrawalOverrides))
	for i := range want.WithdrawalOverrides {
		w, g := want.WithdrawalOverrides[i], got.WithdrawalOverrides[i]
		assert.Equal(t, w.StartAge, g.StartAge)
		assert.Equal(t, w.EndAge, g.EndAge)
		assert.True(t, w.WithdrawalRate.Equal(g.WithdrawalRate))
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := sampleInputs()
	out := DecodeString(Encode(in), domain.DefaultInputs())
	assertInputsEqual(t, in, out)
}

func TestEncode_Keys(t *testing.T) {
	v := Values(sampleInputs())

	assert.Equal(t, "32", v.Get(KeyAge))
	assert.Equal(t, "4250.5", v.Get(KeySpend))
	assert.Equal(t, "yearly", v.Get(KeyCompound))
	assert.Equal(t, "nominal", v.Get(KeyMode))
	assert.JSONEq(t,
		`[{"startAge":32,"endAge":40,"monthlyContribution":2500},{"startAge":40,"endAge":null,"monthlyContribution":-300}]`,
		v.Get(KeyPhases))
	assert.JSONEq(t, `[{"startAge":55,"endAge":65,"withdrawalRate":3}]`, v.Get(KeyOverrides))

	noOverrides := sampleInputs()
	noOverrides.WithdrawalOverrides = nil
	assert.False(t, Values(noOverrides).Has(KeyOverrides))
}

func TestDecode_EmptyQueryKeepsDefaults(t *testing.T) {
	defaults := domain.DefaultInputs()
	assertInputsEqual(t, defaults, DecodeString("", defaults))
	assertInputsEqual(t, defaults, Decode(url.Values{}, defaults))
}

func TestDecode_PerKeyFallback(t *testing.T) {
	defaults := domain.DefaultInputs()
	q := url.Values{}
	q.Set(KeyAge, "forty")
	q.Set(KeySpend, "5500")
	q.Set(KeyReturn, "")
	q.Set(KeyCompound, "daily")
	q.Set(KeyMode, "nominal")
	q.Set(KeyPhases, "{not json")
	q.Set(KeyOverrides, `[{"startAge":50,"endAge":null,"withdrawalRate":3.5}]`)

	out := Decode(q, defaults)

	assert.Equal(t, defaults.CurrentAge, out.CurrentAge)
	assert.True(t, out.MonthlyRetirementSpend.Equal(decimal.NewFromInt(5500)))
	assert.True(t, out.ExpectedYearlyReturn.Equal(defaults.ExpectedYearlyReturn))
	assert.Equal(t, defaults.CompoundingInterval, out.CompoundingInterval)
	assert.Equal(t, domain.InflationModeNominal, out.InflationMode)
	require.Len(t, out.ContributionPhases, len(defaults.ContributionPhases))
	assert.True(t, out.ContributionPhases[0].MonthlyContribution.Equal(defaults.ContributionPhases[0].MonthlyContribution))
	require.Len(t, out.WithdrawalOverrides, 1)
	assert.Nil(t, out.WithdrawalOverrides[0].EndAge)
	assert.True(t, out.WithdrawalOverrides[0].WithdrawalRate.Equal(decimal.RequireFromString("3.5")))
}

func TestDecode_MalformedPhaseEntries(t *testing.T) {
	defaults := domain.DefaultInputs()
	for _, raw := range []string{
		`null`,
		`[{"startAge":30.5,"monthlyContribution":100}]`,
		`[{"startAge":30}]`,
		`{"startAge":30}`,
	} {
		out := DecodeString("phases="+url.QueryEscape(raw), defaults)
		require.Len(t, out.ContributionPhases, 1, raw)
		assert.True(t, out.ContributionPhases[0].MonthlyContribution.Equal(decimal.NewFromInt(2000)), raw)
	}

	out := DecodeString("phases=%5B%5D", defaults)
	assert.Empty(t, out.ContributionPhases, "an empty array clears the phases")
}

func TestDecode_FractionalAgeTruncates(t *testing.T) {
	out := DecodeString("?age=35.9", domain.DefaultInputs())
	assert.Equal(t, 35, out.CurrentAge)
}

func TestDecode_DoesNotAliasDefaults(t *testing.T) {
	defaults := domain.DefaultInputs()
	out := DecodeString("age=40", defaults)
	out.ContributionPhases[0].StartAge = 99
	assert.Equal(t, 30, defaults.ContributionPhases[0].StartAge)
}

func TestShareURL(t *testing.T) {
	link, err := ShareURL("https://fire.example.com/calc?stale=1", sampleInputs())
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "fire.example.com", u.Host)
	assert.False(t, u.Query().Has("stale"))
	assertInputsEqual(t, sampleInputs(), Decode(u.Query(), domain.DefaultInputs()))

	_, err = ShareURL("://bad", sampleInputs())
	assert.Error(t, err)
}
