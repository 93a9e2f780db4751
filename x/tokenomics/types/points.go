package types

import (
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
)

// UnitType discriminates the two registry unit classes that can receive
// incentives.
type UnitType uint64

const (
	UnitTypeComponent UnitType = 0
	UnitTypeAgent     UnitType = 1

	// NumUnitTypes is the number of unit classes tracked per epoch.
	NumUnitTypes = 2
)

// Validate reports whether the unit type is a known class.
func (t UnitType) Validate() error {
	if t >= NumUnitTypes {
		return ErrUnitTypeRange.Wrapf("unit type %d", t)
	}
	return nil
}

func (t UnitType) String() string {
	switch t {
	case UnitTypeComponent:
		return "component"
	case UnitTypeAgent:
		return "agent"
	default:
		return fmt.Sprintf("unknown(%d)", uint64(t))
	}
}

// MaxTrackedAmount is the inclusive upper bound on every tracked monetary
// magnitude (2^96 - 1). Amounts beyond it are rejected rather than wrapped.
var MaxTrackedAmount = sdkmath.NewIntFromBigInt(
	new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1)),
)

// OneFixed is the 1e18 fixed-point representation of 1.0.
var OneFixed = sdkmath.NewIntWithDecimal(1, 18)

// EpochPoint is the per-epoch accounting record. Totals accumulate while the
// epoch is open; EndTime and EndBlockNumber are written exactly once at
// settlement and a non-zero EndTime marks the epoch settled.
type EpochPoint struct {
	TotalDonationsETH sdkmath.Int `json:"total_donations_eth"`
	TotalTopUpsOLAS   sdkmath.Int `json:"total_top_ups_olas"`

	// IDF is the inverse discount factor in 1e18 fixed point, written at
	// settlement. Zero reads as 1.0 for epochs settled without donations.
	IDF sdkmath.Int `json:"idf"`

	// DevsPerCapital is the parameter snapshot the settlement formula uses,
	// 1e18 fixed point.
	DevsPerCapital sdkmath.Int `json:"devs_per_capital"`

	NumNewOwners uint64 `json:"num_new_owners"`

	EndTime        int64 `json:"end_time"`
	EndBlockNumber int64 `json:"end_block_number"`

	// RewardTreasuryFraction absorbs whatever the unit and staker reward
	// fractions leave; MaxBondFraction is the inflation share earmarked for
	// bonding capacity. Both are whole percents.
	RewardTreasuryFraction uint64 `json:"reward_treasury_fraction"`
	MaxBondFraction        uint64 `json:"max_bond_fraction"`
}

// NewEpochPoint returns an open epoch point carrying the given fraction and
// parameter configuration forward.
func NewEpochPoint(devsPerCapital sdkmath.Int, treasuryFraction, maxBondFraction uint64) EpochPoint {
	return EpochPoint{
		TotalDonationsETH:      sdkmath.ZeroInt(),
		TotalTopUpsOLAS:        sdkmath.ZeroInt(),
		IDF:                    sdkmath.ZeroInt(),
		DevsPerCapital:         devsPerCapital,
		RewardTreasuryFraction: treasuryFraction,
		MaxBondFraction:        maxBondFraction,
	}
}

// Settled reports whether the epoch has been closed by a checkpoint.
func (p EpochPoint) Settled() bool {
	return p.EndTime != 0
}

// EffectiveIDF returns the inverse discount factor, substituting 1.0 for the
// unset zero value.
func (p EpochPoint) EffectiveIDF() sdkmath.Int {
	if p.IDF.IsNil() || p.IDF.IsZero() {
		return OneFixed
	}
	return p.IDF
}

// UnitPoint aggregates donations and top-up eligibility for one unit class
// within one epoch.
type UnitPoint struct {
	SumUnitDonationsETH sdkmath.Int `json:"sum_unit_donations_eth"`
	SumUnitTopUpsOLAS   sdkmath.Int `json:"sum_unit_top_ups_olas"`
	NumNewUnits         uint64      `json:"num_new_units"`

	// Whole-percent shares of donations and of inflation for this class.
	RewardUnitFraction uint64 `json:"reward_unit_fraction"`
	TopUpUnitFraction  uint64 `json:"top_up_unit_fraction"`

	// UnitWeight enters the code-units term of the discount factor.
	UnitWeight uint64 `json:"unit_weight"`
}

// NewUnitPoint returns a zeroed unit point with the given configuration.
func NewUnitPoint(rewardFraction, topUpFraction, weight uint64) UnitPoint {
	return UnitPoint{
		SumUnitDonationsETH: sdkmath.ZeroInt(),
		SumUnitTopUpsOLAS:   sdkmath.ZeroInt(),
		RewardUnitFraction:  rewardFraction,
		TopUpUnitFraction:   topUpFraction,
		UnitWeight:          weight,
	}
}

// StakerPoint holds the veOLAS staker shares for one epoch, whole percents.
type StakerPoint struct {
	RewardStakerFraction uint64 `json:"reward_staker_fraction"`
	TopUpStakerFraction  uint64 `json:"top_up_staker_fraction"`
}

// IncentiveBalances is the per-unit incentive ledger. Pending amounts are
// relative to the epoch recorded in LastEpoch and become claimable only once
// that epoch settles.
type IncentiveBalances struct {
	Reward                sdkmath.Int `json:"reward"`
	PendingRelativeReward sdkmath.Int `json:"pending_relative_reward"`
	TopUp                 sdkmath.Int `json:"top_up"`
	PendingRelativeTopUp  sdkmath.Int `json:"pending_relative_top_up"`

	// LastEpoch is the epoch the pending amounts belong to; zero means no
	// pending state.
	LastEpoch uint64 `json:"last_epoch"`
}

// NewIncentiveBalances returns a zeroed ledger entry.
func NewIncentiveBalances() IncentiveBalances {
	return IncentiveBalances{
		Reward:                sdkmath.ZeroInt(),
		PendingRelativeReward: sdkmath.ZeroInt(),
		TopUp:                 sdkmath.ZeroInt(),
		PendingRelativeTopUp:  sdkmath.ZeroInt(),
	}
}

// BondState tracks bonding capacity. MaxBond is the projected capacity of the
// open epoch; EffectiveBond is the cumulative unreserved capacity and is
// never negative.
type BondState struct {
	MaxBond       sdkmath.Int `json:"max_bond"`
	EffectiveBond sdkmath.Int `json:"effective_bond"`
}

// InflationState pins the inflation clock. Years are 365-day periods counted
// from TimeLaunch. MaxBondLocked is raised while the open epoch spans a year
// boundary and cleared when that epoch settles.
type InflationState struct {
	InflationPerSecond sdkmath.Int `json:"inflation_per_second"`
	CurrentYear        uint64      `json:"current_year"`
	TimeLaunch         int64       `json:"time_launch"`
	MaxBondLocked      bool        `json:"max_bond_locked"`
}

// Externals records the collaborating module accounts whose calls carry
// elevated roles, plus the donator blacklist toggle.
type Externals struct {
	TreasuryAddress   string `json:"treasury_address"`
	DepositoryAddress string `json:"depository_address"`
	DispenserAddress  string `json:"dispenser_address"`
	BlacklistEnabled  bool   `json:"blacklist_enabled"`
}
