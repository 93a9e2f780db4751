package keeper

import (
	"strconv"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dias878/autonolas-tokenomics/x/tokenomics/types"
)

// validateUnitSelection checks the (unitType, unitID) pairs of a claim:
// matching non-empty arrays, known unit types, strictly increasing ids
// within each unit type, and ownership by the claiming account. Unit types
// may interleave freely.
func (k Keeper) validateUnitSelection(
	ctx sdk.Context,
	account string,
	unitTypes []types.UnitType,
	unitIDs []uint64,
) error {
	if len(unitTypes) == 0 || len(unitTypes) != len(unitIDs) {
		return types.ErrWrongArrayLength.Wrapf("%d unit types, %d unit ids", len(unitTypes), len(unitIDs))
	}
	var lastID [types.NumUnitTypes]uint64
	var seen [types.NumUnitTypes]bool
	for i := range unitTypes {
		if err := unitTypes[i].Validate(); err != nil {
			return err
		}
		if seen[unitTypes[i]] && unitIDs[i] <= lastID[unitTypes[i]] {
			return types.ErrUnitOrder.Wrapf("%s %d after %s %d",
				unitTypes[i], unitIDs[i], unitTypes[i], lastID[unitTypes[i]])
		}
		lastID[unitTypes[i]] = unitIDs[i]
		seen[unitTypes[i]] = true
		owner, err := k.registryKeeper.UnitOwner(ctx, unitTypes[i], unitIDs[i])
		if err != nil {
			return err
		}
		if owner != account {
			return types.ErrOwnerMismatch.Wrapf("%s %d is owned by %s, not %s",
				unitTypes[i], unitIDs[i], owner, account)
		}
	}
	return nil
}

// AccountOwnerIncentives settles and withdraws the claimable incentives of
// the given units. Only the dispenser may call it; the dispenser pays the
// returned amounts out. Balances are zeroed before the amounts are reported
// so a repeated claim yields nothing.
func (k Keeper) AccountOwnerIncentives(
	ctx sdk.Context,
	caller string,
	account string,
	unitTypes []types.UnitType,
	unitIDs []uint64,
) (reward, topUp sdkmath.Int, err error) {
	reward, topUp = sdkmath.ZeroInt(), sdkmath.ZeroInt()

	ext, err := k.Externals.Get(ctx)
	if err != nil {
		return reward, topUp, err
	}
	if caller != ext.DispenserAddress {
		return reward, topUp, types.ErrUnauthorized.Wrapf("caller %s is not the dispenser", caller)
	}
	if err := k.validateUnitSelection(ctx, account, unitTypes, unitIDs); err != nil {
		return reward, topUp, err
	}

	curEpoch, err := k.EpochCounter.Get(ctx)
	if err != nil {
		return reward, topUp, err
	}

	sm := NewSafeMath()
	for i := range unitTypes {
		bal, err := k.getUnitIncentives(ctx, unitTypes[i], unitIDs[i])
		if err != nil {
			return reward, topUp, err
		}
		if err := k.finalizeUnitIncentives(ctx, curEpoch, unitTypes[i], &bal); err != nil {
			return reward, topUp, err
		}

		reward, err = sm.AddBound(reward, bal.Reward)
		if err != nil {
			return reward, topUp, err
		}
		topUp, err = sm.AddBound(topUp, bal.TopUp)
		if err != nil {
			return reward, topUp, err
		}

		// Zero the withdrawn balances before reporting them. Pending state
		// tied to the open epoch survives the claim.
		bal.Reward = sdkmath.ZeroInt()
		bal.TopUp = sdkmath.ZeroInt()
		if err := k.UnitIncentives.Set(ctx, unitKey(unitTypes[i], unitIDs[i]), bal); err != nil {
			return reward, topUp, err
		}
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"owner_incentives_accounted",
			sdk.NewAttribute("account", account),
			sdk.NewAttribute("num_units", strconv.Itoa(len(unitTypes))),
			sdk.NewAttribute("reward", reward.String()),
			sdk.NewAttribute("top_up", topUp.String()),
		),
	)
	return reward, topUp, nil
}

// GetOwnerIncentives reports what AccountOwnerIncentives would pay for the
// given units without modifying any state.
func (k Keeper) GetOwnerIncentives(
	ctx sdk.Context,
	account string,
	unitTypes []types.UnitType,
	unitIDs []uint64,
) (reward, topUp sdkmath.Int, err error) {
	reward, topUp = sdkmath.ZeroInt(), sdkmath.ZeroInt()

	if err := k.validateUnitSelection(ctx, account, unitTypes, unitIDs); err != nil {
		return reward, topUp, err
	}
	curEpoch, err := k.EpochCounter.Get(ctx)
	if err != nil {
		return reward, topUp, err
	}

	sm := NewSafeMath()
	for i := range unitTypes {
		bal, err := k.getUnitIncentives(ctx, unitTypes[i], unitIDs[i])
		if err != nil {
			return reward, topUp, err
		}
		// Finalization runs on the local copy only.
		if err := k.finalizeUnitIncentives(ctx, curEpoch, unitTypes[i], &bal); err != nil {
			return reward, topUp, err
		}
		reward, err = sm.AddBound(reward, bal.Reward)
		if err != nil {
			return reward, topUp, err
		}
		topUp, err = sm.AddBound(topUp, bal.TopUp)
		if err != nil {
			return reward, topUp, err
		}
	}
	return reward, topUp, nil
}

// GetIncentiveBalances exposes the raw ledger entry of a unit.
func (k Keeper) GetIncentiveBalances(ctx sdk.Context, unitType types.UnitType, unitID uint64) (types.IncentiveBalances, error) {
	if err := unitType.Validate(); err != nil {
		return types.IncentiveBalances{}, err
	}
	return k.getUnitIncentives(ctx, unitType, unitID)
}
