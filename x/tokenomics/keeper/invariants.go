package keeper

import (
	"fmt"

	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dias878/autonolas-tokenomics/x/tokenomics/types"
)

// RegisterInvariants registers all module invariants with the invariant registry.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "effective-bond-non-negative", EffectiveBondNonNegativeInvariant(k))
	ir.RegisterRoute(types.ModuleName, "settled-epochs-complete", SettledEpochsCompleteInvariant(k))
	ir.RegisterRoute(types.ModuleName, "fraction-sums", FractionSumsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pending-epoch-bound", PendingEpochBoundInvariant(k))
}

// AllInvariants runs all invariants of the tokenomics module.
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		invariants := []sdk.Invariant{
			EffectiveBondNonNegativeInvariant(k),
			SettledEpochsCompleteInvariant(k),
			FractionSumsInvariant(k),
			PendingEpochBoundInvariant(k),
		}

		for _, inv := range invariants {
			if msg, broken := inv(ctx); broken {
				return msg, broken
			}
		}
		return "", false
	}
}

// EffectiveBondNonNegativeInvariant checks that the unreserved bond capacity
// never goes negative and stays within the accounting bound.
func EffectiveBondNonNegativeInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		bs, err := k.BondState.Get(ctx)
		if err != nil {
			msg := fmt.Sprintf("INVARIANT BROKEN: bond state unreadable: %v\n", err)
			return sdk.FormatInvariant(types.ModuleName, "effective-bond-non-negative", msg), true
		}
		if bs.EffectiveBond.IsNegative() {
			msg := fmt.Sprintf("INVARIANT BROKEN: effective bond %s is negative\n", bs.EffectiveBond)
			return sdk.FormatInvariant(types.ModuleName, "effective-bond-non-negative", msg), true
		}
		if bs.EffectiveBond.GT(types.MaxTrackedAmount) || bs.MaxBond.GT(types.MaxTrackedAmount) {
			msg := fmt.Sprintf("INVARIANT BROKEN: bond state exceeds accounting bound: max %s effective %s\n",
				bs.MaxBond, bs.EffectiveBond)
			return sdk.FormatInvariant(types.ModuleName, "effective-bond-non-negative", msg), true
		}
		return "", false
	}
}

// SettledEpochsCompleteInvariant checks that every epoch below the counter is
// settled exactly once and the open epoch is not.
func SettledEpochsCompleteInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false

		curEpoch, err := k.EpochCounter.Get(ctx)
		if err != nil {
			msg = fmt.Sprintf("INVARIANT BROKEN: epoch counter unreadable: %v\n", err)
			return sdk.FormatInvariant(types.ModuleName, "settled-epochs-complete", msg), true
		}

		_ = k.EpochPoints.Walk(ctx, nil, func(epoch uint64, point types.EpochPoint) (bool, error) {
			if epoch < curEpoch && !point.Settled() {
				msg += fmt.Sprintf("INVARIANT BROKEN: past epoch %d is not settled\n", epoch)
				broken = true
			}
			if epoch >= curEpoch && point.Settled() {
				msg += fmt.Sprintf("INVARIANT BROKEN: epoch %d at or beyond counter %d is settled\n", epoch, curEpoch)
				broken = true
			}
			if epoch < curEpoch && point.Settled() && !point.EffectiveIDF().GTE(types.OneFixed) {
				msg += fmt.Sprintf("INVARIANT BROKEN: epoch %d has IDF %s below 1.0\n", epoch, point.IDF)
				broken = true
			}
			return false, nil
		})

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "settled-epochs-complete", msg), true
		}
		return "", false
	}
}

// FractionSumsInvariant checks that the fraction configuration of the open
// epoch keeps both groups within 100 percent.
func FractionSumsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		curEpoch, err := k.EpochCounter.Get(ctx)
		if err != nil {
			msg := fmt.Sprintf("INVARIANT BROKEN: epoch counter unreadable: %v\n", err)
			return sdk.FormatInvariant(types.ModuleName, "fraction-sums", msg), true
		}
		ep, err := k.EpochPoints.Get(ctx, curEpoch)
		if err != nil {
			msg := fmt.Sprintf("INVARIANT BROKEN: open epoch %d unreadable: %v\n", curEpoch, err)
			return sdk.FormatInvariant(types.ModuleName, "fraction-sums", msg), true
		}
		sp, err := k.GetStakerPoint(ctx, curEpoch)
		if err != nil {
			msg := fmt.Sprintf("INVARIANT BROKEN: staker point %d unreadable: %v\n", curEpoch, err)
			return sdk.FormatInvariant(types.ModuleName, "fraction-sums", msg), true
		}

		rewardSum := ep.RewardTreasuryFraction + sp.RewardStakerFraction
		topUpSum := ep.MaxBondFraction + sp.TopUpStakerFraction
		for ut := types.UnitType(0); ut < types.NumUnitTypes; ut++ {
			up, err := k.getUnitPoint(ctx, curEpoch, ut)
			if err != nil {
				msg := fmt.Sprintf("INVARIANT BROKEN: unit point %d/%s unreadable: %v\n", curEpoch, ut, err)
				return sdk.FormatInvariant(types.ModuleName, "fraction-sums", msg), true
			}
			rewardSum += up.RewardUnitFraction
			topUpSum += up.TopUpUnitFraction
		}

		if rewardSum != types.FractionBase || topUpSum > types.FractionBase {
			msg := fmt.Sprintf("INVARIANT BROKEN: epoch %d reward fractions sum to %d, top-up fractions to %d\n",
				curEpoch, rewardSum, topUpSum)
			return sdk.FormatInvariant(types.ModuleName, "fraction-sums", msg), true
		}
		return "", false
	}
}

// PendingEpochBoundInvariant checks that no unit's pending state references
// an epoch beyond the counter and that all balances are non-negative.
func PendingEpochBoundInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		broken := false

		curEpoch, err := k.EpochCounter.Get(ctx)
		if err != nil {
			msg = fmt.Sprintf("INVARIANT BROKEN: epoch counter unreadable: %v\n", err)
			return sdk.FormatInvariant(types.ModuleName, "pending-epoch-bound", msg), true
		}

		_ = k.UnitIncentives.Walk(ctx, nil, func(key collections.Pair[uint64, uint64], bal types.IncentiveBalances) (bool, error) {
			if bal.LastEpoch > curEpoch {
				msg += fmt.Sprintf("INVARIANT BROKEN: unit %d/%d pending epoch %d beyond counter %d\n",
					key.K1(), key.K2(), bal.LastEpoch, curEpoch)
				broken = true
			}
			for _, v := range []struct {
				name   string
				amount fmt.Stringer
				neg    bool
			}{
				{"reward", bal.Reward, bal.Reward.IsNegative()},
				{"pending reward", bal.PendingRelativeReward, bal.PendingRelativeReward.IsNegative()},
				{"top-up", bal.TopUp, bal.TopUp.IsNegative()},
				{"pending top-up", bal.PendingRelativeTopUp, bal.PendingRelativeTopUp.IsNegative()},
			} {
				if v.neg {
					msg += fmt.Sprintf("INVARIANT BROKEN: unit %d/%d has negative %s %s\n",
						key.K1(), key.K2(), v.name, v.amount)
					broken = true
				}
			}
			return false, nil
		})

		if broken {
			return sdk.FormatInvariant(types.ModuleName, "pending-epoch-bound", msg), true
		}
		return "", false
	}
}
