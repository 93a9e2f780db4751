package keeper

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dias878/autonolas-tokenomics/x/tokenomics/types"
)

// ReserveAmountForBondProgram consumes bonding capacity for a new bond
// program. Only the depository may call it. Insufficient capacity is an
// expected outcome reported as false, not an error.
func (k Keeper) ReserveAmountForBondProgram(ctx sdk.Context, caller string, amount sdkmath.Int) (bool, error) {
	ext, err := k.Externals.Get(ctx)
	if err != nil {
		return false, err
	}
	if caller != ext.DepositoryAddress {
		return false, types.ErrUnauthorized.Wrapf("caller %s is not the depository", caller)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return false, types.ErrZeroValue.Wrap("reserve amount")
	}

	bs, err := k.BondState.Get(ctx)
	if err != nil {
		return false, err
	}
	if amount.GT(bs.EffectiveBond) {
		return false, nil
	}
	bs.EffectiveBond = bs.EffectiveBond.Sub(amount)
	if err := k.BondState.Set(ctx, bs); err != nil {
		return false, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"bond_capacity_reserved",
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("effective_bond", bs.EffectiveBond.String()),
		),
	)
	return true, nil
}

// RefundFromBondProgram returns unused capacity from a closed or partially
// filled bond program. Only the depository may call it.
func (k Keeper) RefundFromBondProgram(ctx sdk.Context, caller string, amount sdkmath.Int) error {
	ext, err := k.Externals.Get(ctx)
	if err != nil {
		return err
	}
	if caller != ext.DepositoryAddress {
		return types.ErrUnauthorized.Wrapf("caller %s is not the depository", caller)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrZeroValue.Wrap("refund amount")
	}

	bs, err := k.BondState.Get(ctx)
	if err != nil {
		return err
	}
	sm := NewSafeMath()
	bs.EffectiveBond, err = sm.AddBound(bs.EffectiveBond, amount)
	if err != nil {
		return err
	}
	if err := k.BondState.Set(ctx, bs); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"bond_capacity_refunded",
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("effective_bond", bs.EffectiveBond.String()),
		),
	)
	return nil
}

// GetBondState returns the current bonding capacity.
func (k Keeper) GetBondState(ctx sdk.Context) (types.BondState, error) {
	return k.BondState.Get(ctx)
}

// adjustMaxBond retargets the projected per-epoch bond capacity and applies
// the delta to the unreserved capacity. A reduction larger than the current
// unreserved capacity is rejected so already reserved amounts stay covered.
func (k Keeper) adjustMaxBond(ctx sdk.Context, newMaxBond sdkmath.Int) error {
	bs, err := k.BondState.Get(ctx)
	if err != nil {
		return err
	}

	sm := NewSafeMath()
	if newMaxBond.GTE(bs.MaxBond) {
		bs.EffectiveBond, err = sm.AddBound(bs.EffectiveBond, newMaxBond.Sub(bs.MaxBond))
		if err != nil {
			return err
		}
	} else {
		delta := bs.MaxBond.Sub(newMaxBond)
		if delta.GT(bs.EffectiveBond) {
			return types.ErrBondAdjustment.Wrapf("reduction %s exceeds unreserved capacity %s",
				delta, bs.EffectiveBond)
		}
		bs.EffectiveBond = bs.EffectiveBond.Sub(delta)
	}
	bs.MaxBond = newMaxBond
	return k.BondState.Set(ctx, bs)
}
