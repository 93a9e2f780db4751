package keeper

import (
	"strconv"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dias878/autonolas-tokenomics/x/tokenomics/types"
)

// Checkpoint attempts to settle the open epoch. Anyone may trigger it. It
// returns false without touching state when the minimum epoch length has not
// elapsed yet or when the treasury vetoes the settlement; both outcomes are
// safe to retry.
func (k Keeper) Checkpoint(ctx sdk.Context) (bool, error) {
	params, err := k.Params.Get(ctx)
	if err != nil {
		return false, err
	}
	curEpoch, err := k.EpochCounter.Get(ctx)
	if err != nil {
		return false, err
	}
	ep, err := k.EpochPoints.Get(ctx, curEpoch)
	if err != nil {
		return false, err
	}
	prev, err := k.EpochPoints.Get(ctx, curEpoch-1)
	if err != nil {
		return false, err
	}

	now := ctx.BlockTime().Unix()
	if now-prev.EndTime < params.EpochLen {
		return false, nil
	}

	infl, err := k.InflationState.Get(ctx)
	if err != nil {
		return false, err
	}
	var unitPoints [types.NumUnitTypes]types.UnitPoint
	for ut := types.UnitType(0); ut < types.NumUnitTypes; ut++ {
		unitPoints[ut], err = k.getUnitPoint(ctx, curEpoch, ut)
		if err != nil {
			return false, err
		}
	}
	sp, err := k.StakerPoints.Get(ctx, curEpoch)
	if err != nil {
		if !errorsIsNotFound(err) {
			return false, err
		}
		sp = types.StakerPoint{}
	}

	// Inflation realized over the settling epoch, split at year boundaries.
	epochInflation := types.InflationForInterval(infl.TimeLaunch, prev.EndTime, now)
	crossedYear := types.IntervalCrossesYear(infl.TimeLaunch, prev.EndTime, now)

	sm := NewSafeMath()

	// Donation splits; the treasury absorbs the truncation dust.
	stakerRewards := sm.FractionOf(ep.TotalDonationsETH, sp.RewardStakerFraction)
	componentRewards := sm.FractionOf(ep.TotalDonationsETH, unitPoints[types.UnitTypeComponent].RewardUnitFraction)
	agentRewards := sm.FractionOf(ep.TotalDonationsETH, unitPoints[types.UnitTypeAgent].RewardUnitFraction)
	treasuryRewards := ep.TotalDonationsETH.Sub(stakerRewards).Sub(componentRewards).Sub(agentRewards)

	maxBondShare := sm.FractionOf(epochInflation, ep.MaxBondFraction)

	// An epoch without donations keeps its zero IDF; readers fall back to
	// 1.0 through EffectiveIDF.
	idf := sdkmath.ZeroInt()
	if ep.TotalDonationsETH.IsPositive() {
		idf = computeIDF(ep, unitPoints, treasuryRewards, params.EpsilonRate)
	}

	// The treasury is asked to move its share before any state is written;
	// a veto leaves the epoch open.
	if k.treasuryKeeper != nil && !k.treasuryKeeper.Rebalance(ctx, treasuryRewards) {
		k.Logger(ctx).Error("treasury vetoed epoch settlement",
			"epoch", curEpoch, "treasury_rewards", treasuryRewards.String())
		return false, nil
	}

	// Settle the epoch point.
	ep.TotalTopUpsOLAS = epochInflation
	ep.IDF = idf
	ep.EndTime = now
	ep.EndBlockNumber = ctx.BlockHeight()
	if err := k.EpochPoints.Set(ctx, curEpoch, ep); err != nil {
		return false, err
	}

	// Roll the inflation clock. The capacity lock set when this epoch was
	// projected to span a year boundary is released now that it settled.
	if crossedYear {
		infl.CurrentYear = types.YearOfTimestamp(now, infl.TimeLaunch)
		infl.InflationPerSecond = types.InflationPerSecondForYear(infl.CurrentYear)
	}
	infl.MaxBondLocked = false

	// Reconcile bond capacity: the epoch ran at least as long as projected,
	// so credit any surplus of the realized share over the projection.
	bs, err := k.BondState.Get(ctx)
	if err != nil {
		return false, err
	}
	if maxBondShare.GT(bs.MaxBond) {
		bs.EffectiveBond, err = sm.AddBound(bs.EffectiveBond, maxBondShare.Sub(bs.MaxBond))
		if err != nil {
			return false, err
		}
	}

	// Project the next epoch's bond capacity and lock it when the epoch is
	// going to span a year boundary.
	nextEnd := now + params.EpochLen
	nextInflation := types.InflationForInterval(infl.TimeLaunch, now, nextEnd)
	nextMaxBond := sm.FractionOf(nextInflation, ep.MaxBondFraction)
	if types.IntervalCrossesYear(infl.TimeLaunch, now, nextEnd) {
		infl.MaxBondLocked = true
	}
	bs.MaxBond = nextMaxBond
	bs.EffectiveBond, err = sm.AddBound(bs.EffectiveBond, nextMaxBond)
	if err != nil {
		return false, err
	}
	if err := k.BondState.Set(ctx, bs); err != nil {
		return false, err
	}
	if err := k.InflationState.Set(ctx, infl); err != nil {
		return false, err
	}

	// Open the next epoch carrying the fraction configuration forward and
	// snapshotting the current devs-per-capital parameter.
	nextEpoch := curEpoch + 1
	next := types.NewEpochPoint(params.DevsPerCapital, ep.RewardTreasuryFraction, ep.MaxBondFraction)
	if err := k.EpochPoints.Set(ctx, nextEpoch, next); err != nil {
		return false, err
	}
	for ut := types.UnitType(0); ut < types.NumUnitTypes; ut++ {
		carried := types.NewUnitPoint(
			unitPoints[ut].RewardUnitFraction,
			unitPoints[ut].TopUpUnitFraction,
			unitPoints[ut].UnitWeight,
		)
		if err := k.UnitPoints.Set(ctx, epochUnitKey(nextEpoch, ut), carried); err != nil {
			return false, err
		}
	}
	if err := k.StakerPoints.Set(ctx, nextEpoch, sp); err != nil {
		return false, err
	}
	if err := k.EpochCounter.Set(ctx, nextEpoch); err != nil {
		return false, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"epoch_settled",
			sdk.NewAttribute("epoch", strconv.FormatUint(curEpoch, 10)),
			sdk.NewAttribute("total_donations", ep.TotalDonationsETH.String()),
			sdk.NewAttribute("total_top_ups", epochInflation.String()),
			sdk.NewAttribute("treasury_rewards", treasuryRewards.String()),
			sdk.NewAttribute("staker_rewards", stakerRewards.String()),
			sdk.NewAttribute("component_rewards", componentRewards.String()),
			sdk.NewAttribute("agent_rewards", agentRewards.String()),
			sdk.NewAttribute("max_bond", nextMaxBond.String()),
			sdk.NewAttribute("idf", ep.EffectiveIDF().String()),
		),
	)
	return true, nil
}

// computeIDF evaluates the inverse discount factor of a settled epoch in
// 1e18 fixed point:
//
//	codeUnits = (wAgent*newComponents + wComponent*newAgents) / (wComponent*wAgent)
//	f         = (codeUnits*devsPerCapital*treasuryRewards + codeUnits*newOwners) / 100
//	idf       = 1.0 + min(f, epsilonRate)
func computeIDF(
	ep types.EpochPoint,
	unitPoints [types.NumUnitTypes]types.UnitPoint,
	treasuryRewards sdkmath.Int,
	epsilonRate sdkmath.Int,
) sdkmath.Int {
	wComponent := unitPoints[types.UnitTypeComponent].UnitWeight
	wAgent := unitPoints[types.UnitTypeAgent].UnitWeight
	if wComponent == 0 || wAgent == 0 {
		return types.OneFixed
	}
	newComponents := unitPoints[types.UnitTypeComponent].NumNewUnits
	newAgents := unitPoints[types.UnitTypeAgent].NumNewUnits

	numerator := wAgent*newComponents + wComponent*newAgents
	if numerator == 0 {
		return types.OneFixed
	}
	codeUnits := sdkmath.LegacyNewDec(int64(numerator)).
		QuoInt64(int64(wComponent * wAgent))

	devsPerCapital := sdkmath.LegacyNewDecFromIntWithPrec(ep.DevsPerCapital, 18)
	treasuryETH := sdkmath.LegacyNewDecFromIntWithPrec(treasuryRewards, 18)

	f := codeUnits.Mul(devsPerCapital).Mul(treasuryETH).
		Add(codeUnits.MulInt64(int64(ep.NumNewOwners))).
		QuoInt64(types.FractionBase)

	eps := sdkmath.LegacyNewDecFromIntWithPrec(epsilonRate, 18)
	if f.GT(eps) {
		f = eps
	}
	return types.OneFixed.Add(f.MulInt64(1e18).TruncateInt())
}

// GetIDF returns the inverse discount factor of an epoch, 1.0 for the
// genesis sentinel and for epochs settled without donations.
func (k Keeper) GetIDF(ctx sdk.Context, epoch uint64) (sdkmath.Int, error) {
	ep, err := k.EpochPoints.Get(ctx, epoch)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	return ep.EffectiveIDF(), nil
}

// GetLastIDF returns the inverse discount factor of the most recently
// settled epoch, 1.0 when none has settled with donations yet.
func (k Keeper) GetLastIDF(ctx sdk.Context) (sdkmath.Int, error) {
	curEpoch, err := k.EpochCounter.Get(ctx)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if curEpoch <= 1 {
		return types.OneFixed, nil
	}
	ep, err := k.EpochPoints.Get(ctx, curEpoch-1)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	return ep.EffectiveIDF(), nil
}

// GetEpochPoint returns the accounting record of an epoch.
func (k Keeper) GetEpochPoint(ctx sdk.Context, epoch uint64) (types.EpochPoint, error) {
	return k.EpochPoints.Get(ctx, epoch)
}

// GetUnitPoint returns a unit class record of an epoch.
func (k Keeper) GetUnitPoint(ctx sdk.Context, epoch uint64, unitType types.UnitType) (types.UnitPoint, error) {
	if err := unitType.Validate(); err != nil {
		return types.UnitPoint{}, err
	}
	return k.getUnitPoint(ctx, epoch, unitType)
}

// GetStakerPoint returns the staker fraction record of an epoch.
func (k Keeper) GetStakerPoint(ctx sdk.Context, epoch uint64) (types.StakerPoint, error) {
	sp, err := k.StakerPoints.Get(ctx, epoch)
	if err != nil {
		if errorsIsNotFound(err) {
			return types.StakerPoint{}, nil
		}
		return types.StakerPoint{}, err
	}
	return sp, nil
}

// GetCurrentEpoch returns the open epoch number.
func (k Keeper) GetCurrentEpoch(ctx sdk.Context) (uint64, error) {
	return k.EpochCounter.Get(ctx)
}
