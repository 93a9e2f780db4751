package types

import (
	sdkmath "cosmossdk.io/math"
)

const (
	// FractionBase: all incentive fractions are whole percents.
	FractionBase = 100

	// MinEpochLen and MaxEpochLen bound the configurable epoch length in
	// seconds.
	MinEpochLen int64 = 10
	MaxEpochLen int64 = OneYearSeconds - 24*3600

	// DefaultEpochLen is thirty days.
	DefaultEpochLen int64 = 30 * 24 * 3600
)

// MaxEpsilonRate caps the discount-factor slack at 17.0 in 1e18 fixed point.
var MaxEpsilonRate = sdkmath.NewIntWithDecimal(17, 18)

// MinFixedParam is the smallest accepted 1e18 fixed-point parameter value.
var MinFixedParam = sdkmath.NewIntWithDecimal(1, 14)

// Params holds the tunable tokenomics parameters. Fixed-point fields are
// 1e18 scaled.
type Params struct {
	// DevsPerCapital weighs code production in the discount factor.
	DevsPerCapital sdkmath.Int `json:"devs_per_capital"`

	// EpsilonRate bounds the discount-factor excess over 1.0.
	EpsilonRate sdkmath.Int `json:"epsilon_rate"`

	// EpochLen is the minimum epoch duration in seconds.
	EpochLen int64 `json:"epoch_len"`

	// VeOLASThreshold is the voting power a service owner needs for its
	// donations to accrue top-ups.
	VeOLASThreshold sdkmath.Int `json:"ve_olas_threshold"`
}

// DefaultParams returns the launch parameter set.
func DefaultParams() Params {
	return Params{
		DevsPerCapital:  OneFixed,
		EpsilonRate:     sdkmath.NewIntWithDecimal(1, 17),
		EpochLen:        DefaultEpochLen,
		VeOLASThreshold: sdkmath.NewIntWithDecimal(10_000, 18),
	}
}

// Validate checks every parameter against its bounds.
func (p Params) Validate() error {
	if p.DevsPerCapital.IsNil() || p.DevsPerCapital.LT(MinFixedParam) {
		return ErrParamOutOfBounds.Wrapf("devs per capital %s below minimum %s", p.DevsPerCapital, MinFixedParam)
	}
	if p.EpsilonRate.IsNil() || !p.EpsilonRate.IsPositive() || p.EpsilonRate.GT(MaxEpsilonRate) {
		return ErrParamOutOfBounds.Wrapf("epsilon rate %s outside (0, %s]", p.EpsilonRate, MaxEpsilonRate)
	}
	if p.EpochLen < MinEpochLen || p.EpochLen > MaxEpochLen {
		return ErrParamOutOfBounds.Wrapf("epoch length %d outside [%d, %d]", p.EpochLen, MinEpochLen, MaxEpochLen)
	}
	if p.VeOLASThreshold.IsNil() || p.VeOLASThreshold.IsNegative() {
		return ErrParamOutOfBounds.Wrap("veOLAS threshold must not be negative")
	}
	return nil
}

// IncentiveFractions is the complete fraction configuration applied to an
// epoch. Reward fractions split donations, top-up fractions split inflation;
// both groups must sum to at most 100, with the treasury absorbing the
// reward remainder.
type IncentiveFractions struct {
	RewardComponentFraction uint64 `json:"reward_component_fraction"`
	RewardAgentFraction     uint64 `json:"reward_agent_fraction"`
	RewardStakerFraction    uint64 `json:"reward_staker_fraction"`

	MaxBondFraction        uint64 `json:"max_bond_fraction"`
	TopUpComponentFraction uint64 `json:"top_up_component_fraction"`
	TopUpAgentFraction     uint64 `json:"top_up_agent_fraction"`
	TopUpStakerFraction    uint64 `json:"top_up_staker_fraction"`
}

// DefaultIncentiveFractions returns the launch fraction split.
func DefaultIncentiveFractions() IncentiveFractions {
	return IncentiveFractions{
		RewardComponentFraction: 83,
		RewardAgentFraction:     17,
		RewardStakerFraction:    0,
		MaxBondFraction:         50,
		TopUpComponentFraction:  33,
		TopUpAgentFraction:      17,
		TopUpStakerFraction:     0,
	}
}

// Validate checks both fraction groups.
func (f IncentiveFractions) Validate() error {
	rewardSum := f.RewardComponentFraction + f.RewardAgentFraction + f.RewardStakerFraction
	if rewardSum > FractionBase {
		return ErrFractionSum.Wrapf("reward fractions sum to %d", rewardSum)
	}
	topUpSum := f.MaxBondFraction + f.TopUpComponentFraction + f.TopUpAgentFraction + f.TopUpStakerFraction
	if topUpSum > FractionBase {
		return ErrFractionSum.Wrapf("top-up fractions sum to %d", topUpSum)
	}
	return nil
}

// TreasuryFraction is the reward remainder accruing to the treasury.
func (f IncentiveFractions) TreasuryFraction() uint64 {
	return FractionBase - f.RewardComponentFraction - f.RewardAgentFraction - f.RewardStakerFraction
}
