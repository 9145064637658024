// Package urlstate converts retirement inputs to and from the query string of
// a shareable link.
//
// Scalars use fixed keys (age, initial, spend, return, inflation, compound,
// swr, buffer, mode, life); contribution phases and withdrawal overrides are
// JSON arrays under phases and overrides. Decoding never fails: a missing or
// malformed key keeps the caller's default for that field only.
package urlstate

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rgehrsitz/firecalc/internal/domain"
	"github.com/shopspring/decimal"
)

// Query keys.
const (
	KeyAge       = "age"
	KeyLife      = "life"
	KeyInitial   = "initial"
	KeySpend     = "spend"
	KeyReturn    = "return"
	KeyInflation = "inflation"
	KeyCompound  = "compound"
	KeySWR       = "swr"
	KeyBuffer    = "buffer"
	KeyMode      = "mode"
	KeyPhases    = "phases"
	KeyOverrides = "overrides"
)

// phaseJSON keeps amounts as JSON numbers; decimal.Decimal would marshal
// them as quoted strings.
type phaseJSON struct {
	StartAge            int         `json:"startAge"`
	EndAge              *int        `json:"endAge"`
	MonthlyContribution json.Number `json:"monthlyContribution"`
}

type overrideJSON struct {
	StartAge       int         `json:"startAge"`
	EndAge         *int        `json:"endAge"`
	WithdrawalRate json.Number `json:"withdrawalRate"`
}

// Values encodes inputs as query parameters.
func Values(inputs domain.RetirementInputs) url.Values {
	v := url.Values{}
	v.Set(KeyAge, fmt.Sprint(inputs.CurrentAge))
	if inputs.LifeExpectancy != nil {
		v.Set(KeyLife, fmt.Sprint(*inputs.LifeExpectancy))
	}
	v.Set(KeyInitial, inputs.InitialInvestment.String())
	v.Set(KeySpend, inputs.MonthlyRetirementSpend.String())
	v.Set(KeyReturn, inputs.ExpectedYearlyReturn.String())
	v.Set(KeyInflation, inputs.InflationRate.String())
	v.Set(KeyCompound, string(inputs.CompoundingInterval))
	v.Set(KeySWR, inputs.SafeWithdrawalRate.String())
	v.Set(KeyBuffer, inputs.RetirementBufferMultiplier.String())
	v.Set(KeyMode, string(inputs.InflationMode))

	phases := make([]phaseJSON, len(inputs.ContributionPhases))
	for i, p := range inputs.ContributionPhases {
		phases[i] = phaseJSON{
			StartAge:            p.StartAge,
			EndAge:              p.EndAge,
			MonthlyContribution: json.Number(p.MonthlyContribution.String()),
		}
	}
	v.Set(KeyPhases, mustJSON(phases))

	if len(inputs.WithdrawalOverrides) > 0 {
		overrides := make([]overrideJSON, len(inputs.WithdrawalOverrides))
		for i, o := range inputs.WithdrawalOverrides {
			overrides[i] = overrideJSON{
				StartAge:       o.StartAge,
				EndAge:         o.EndAge,
				WithdrawalRate: json.Number(o.WithdrawalRate.String()),
			}
		}
		v.Set(KeyOverrides, mustJSON(overrides))
	}
	return v
}

// Encode returns the query string for inputs, without a leading '?'.
func Encode(inputs domain.RetirementInputs) string {
	return Values(inputs).Encode()
}

// ShareURL appends the encoded inputs to base, replacing any existing query.
func ShareURL(base string, inputs domain.RetirementInputs) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	u.RawQuery = Encode(inputs)
	return u.String(), nil
}

// DecodeString parses a raw query (a leading '?' is allowed) and decodes it
// over defaults. An unparseable query yields the defaults.
func DecodeString(rawQuery string, defaults domain.RetirementInputs) domain.RetirementInputs {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil && len(values) == 0 {
		return *defaults.DeepCopy()
	}
	return Decode(values, defaults)
}

// Decode overlays every well-formed key in values onto a copy of defaults.
func Decode(values url.Values, defaults domain.RetirementInputs) domain.RetirementInputs {
	out := *defaults.DeepCopy()

	if age, ok := intValue(values, KeyAge); ok {
		out.CurrentAge = age
	}
	if life, ok := intValue(values, KeyLife); ok {
		out.LifeExpectancy = domain.IntPtr(life)
	}
	decimalField(values, KeyInitial, &out.InitialInvestment)
	decimalField(values, KeySpend, &out.MonthlyRetirementSpend)
	decimalField(values, KeyReturn, &out.ExpectedYearlyReturn)
	decimalField(values, KeyInflation, &out.InflationRate)
	decimalField(values, KeySWR, &out.SafeWithdrawalRate)
	decimalField(values, KeyBuffer, &out.RetirementBufferMultiplier)

	if values.Has(KeyCompound) {
		if c, err := domain.ParseCompoundingInterval(values.Get(KeyCompound)); err == nil {
			out.CompoundingInterval = c
		}
	}
	if values.Has(KeyMode) {
		if m, err := domain.ParseInflationMode(values.Get(KeyMode)); err == nil {
			out.InflationMode = m
		}
	}

	if values.Has(KeyPhases) {
		if phases, ok := decodePhases(values.Get(KeyPhases)); ok {
			out.ContributionPhases = phases
		}
	}
	if values.Has(KeyOverrides) {
		if overrides, ok := decodeOverrides(values.Get(KeyOverrides)); ok {
			out.WithdrawalOverrides = overrides
		}
	}
	return out
}

func intValue(values url.Values, key string) (int, bool) {
	if !values.Has(key) {
		return 0, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(values.Get(key)))
	if err != nil {
		return 0, false
	}
	return int(d.IntPart()), true
}

func decimalField(values url.Values, key string, dst *decimal.Decimal) {
	if !values.Has(key) {
		return
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(values.Get(key))); err == nil {
		*dst = d
	}
}

func decodePhases(raw string) ([]domain.ContributionPhase, bool) {
	var items []phaseJSON
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return nil, false
	}
	phases := make([]domain.ContributionPhase, len(items))
	for i, item := range items {
		amount, err := decimal.NewFromString(item.MonthlyContribution.String())
		if err != nil {
			return nil, false
		}
		phases[i] = domain.ContributionPhase{StartAge: item.StartAge, EndAge: item.EndAge, MonthlyContribution: amount}
	}
	return phases, true
}

func decodeOverrides(raw string) ([]domain.WithdrawalOverride, bool) {
	var items []overrideJSON
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return nil, false
	}
	overrides := make([]domain.WithdrawalOverride, len(items))
	for i, item := range items {
		rate, err := decimal.NewFromString(item.WithdrawalRate.String())
		if err != nil {
			return nil, false
		}
		overrides[i] = domain.WithdrawalOverride{StartAge: item.StartAge, EndAge: item.EndAge, WithdrawalRate: rate}
	}
	return overrides, true
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// Only ints, nil pointers and numeric strings reach here.
		panic(fmt.Sprintf("urlstate: marshal: %v", err))
	}
	return string(b)
}
