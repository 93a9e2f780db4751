package keeper

import (
	"strconv"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dias878/autonolas-tokenomics/x/tokenomics/types"
)

// ChangeTokenomicsParameters updates the tunable parameters. Only the
// governance authority may call it. Zero values leave the corresponding
// parameter unchanged; non-zero values are validated against the parameter
// bounds. A changed epoch length retargets the projected bond capacity of
// the open epoch, which is refused while the capacity is year-locked.
func (k Keeper) ChangeTokenomicsParameters(
	ctx sdk.Context,
	caller string,
	devsPerCapital sdkmath.Int,
	epsilonRate sdkmath.Int,
	epochLen int64,
	veOLASThreshold sdkmath.Int,
) error {
	if caller != k.authority {
		return types.ErrUnauthorized.Wrapf("caller %s is not the authority", caller)
	}
	params, err := k.Params.Get(ctx)
	if err != nil {
		return err
	}

	if !devsPerCapital.IsNil() && !devsPerCapital.IsZero() {
		params.DevsPerCapital = devsPerCapital
	}
	if !epsilonRate.IsNil() && !epsilonRate.IsZero() {
		params.EpsilonRate = epsilonRate
	}
	if !veOLASThreshold.IsNil() && !veOLASThreshold.IsZero() {
		params.VeOLASThreshold = veOLASThreshold
	}

	epochLenChanged := epochLen != 0 && epochLen != params.EpochLen
	if epochLen != 0 {
		params.EpochLen = epochLen
	}
	if err := params.Validate(); err != nil {
		return err
	}

	if epochLenChanged {
		infl, err := k.InflationState.Get(ctx)
		if err != nil {
			return err
		}
		if infl.MaxBondLocked {
			return types.ErrMaxBondLocked.Wrap("epoch length change")
		}
		curEpoch, err := k.EpochCounter.Get(ctx)
		if err != nil {
			return err
		}
		ep, err := k.EpochPoints.Get(ctx, curEpoch)
		if err != nil {
			return err
		}
		nextMaxBond := NewSafeMath().FractionOf(
			infl.InflationPerSecond.MulRaw(params.EpochLen), ep.MaxBondFraction)
		if err := k.adjustMaxBond(ctx, nextMaxBond); err != nil {
			return err
		}
	}

	if err := k.Params.Set(ctx, params); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"tokenomics_parameters_updated",
			sdk.NewAttribute("devs_per_capital", params.DevsPerCapital.String()),
			sdk.NewAttribute("epsilon_rate", params.EpsilonRate.String()),
			sdk.NewAttribute("epoch_len", strconv.FormatInt(params.EpochLen, 10)),
			sdk.NewAttribute("ve_olas_threshold", params.VeOLASThreshold.String()),
		),
	)
	return nil
}

// ChangeIncentiveFractions reconfigures the donation and inflation splits of
// the open epoch. Only the governance authority may call it. The treasury
// absorbs the reward remainder. Changing the max-bond share is refused while
// the capacity is year-locked.
func (k Keeper) ChangeIncentiveFractions(
	ctx sdk.Context,
	caller string,
	fractions types.IncentiveFractions,
) error {
	if caller != k.authority {
		return types.ErrUnauthorized.Wrapf("caller %s is not the authority", caller)
	}
	if err := fractions.Validate(); err != nil {
		return err
	}

	curEpoch, err := k.EpochCounter.Get(ctx)
	if err != nil {
		return err
	}
	ep, err := k.EpochPoints.Get(ctx, curEpoch)
	if err != nil {
		return err
	}

	maxBondChanged := fractions.MaxBondFraction != ep.MaxBondFraction
	if maxBondChanged {
		infl, err := k.InflationState.Get(ctx)
		if err != nil {
			return err
		}
		if infl.MaxBondLocked {
			return types.ErrMaxBondLocked.Wrap("max bond fraction change")
		}
		params, err := k.Params.Get(ctx)
		if err != nil {
			return err
		}
		nextMaxBond := NewSafeMath().FractionOf(
			infl.InflationPerSecond.MulRaw(params.EpochLen), fractions.MaxBondFraction)
		if err := k.adjustMaxBond(ctx, nextMaxBond); err != nil {
			return err
		}
	}

	ep.RewardTreasuryFraction = fractions.TreasuryFraction()
	ep.MaxBondFraction = fractions.MaxBondFraction
	if err := k.EpochPoints.Set(ctx, curEpoch, ep); err != nil {
		return err
	}

	for ut := types.UnitType(0); ut < types.NumUnitTypes; ut++ {
		up, err := k.getUnitPoint(ctx, curEpoch, ut)
		if err != nil {
			return err
		}
		if ut == types.UnitTypeComponent {
			up.RewardUnitFraction = fractions.RewardComponentFraction
			up.TopUpUnitFraction = fractions.TopUpComponentFraction
		} else {
			up.RewardUnitFraction = fractions.RewardAgentFraction
			up.TopUpUnitFraction = fractions.TopUpAgentFraction
		}
		if err := k.UnitPoints.Set(ctx, epochUnitKey(curEpoch, ut), up); err != nil {
			return err
		}
	}
	sp := types.StakerPoint{
		RewardStakerFraction: fractions.RewardStakerFraction,
		TopUpStakerFraction:  fractions.TopUpStakerFraction,
	}
	if err := k.StakerPoints.Set(ctx, curEpoch, sp); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"incentive_fractions_updated",
			sdk.NewAttribute("epoch", strconv.FormatUint(curEpoch, 10)),
			sdk.NewAttribute("reward_component_fraction", strconv.FormatUint(fractions.RewardComponentFraction, 10)),
			sdk.NewAttribute("reward_agent_fraction", strconv.FormatUint(fractions.RewardAgentFraction, 10)),
			sdk.NewAttribute("reward_staker_fraction", strconv.FormatUint(fractions.RewardStakerFraction, 10)),
			sdk.NewAttribute("max_bond_fraction", strconv.FormatUint(fractions.MaxBondFraction, 10)),
			sdk.NewAttribute("top_up_component_fraction", strconv.FormatUint(fractions.TopUpComponentFraction, 10)),
			sdk.NewAttribute("top_up_agent_fraction", strconv.FormatUint(fractions.TopUpAgentFraction, 10)),
			sdk.NewAttribute("top_up_staker_fraction", strconv.FormatUint(fractions.TopUpStakerFraction, 10)),
		),
	)
	return nil
}

// ChangeManagers rotates the collaborating module accounts. Only the
// governance authority may call it; empty strings leave an address
// unchanged.
func (k Keeper) ChangeManagers(ctx sdk.Context, caller, treasury, depository, dispenser string) error {
	if caller != k.authority {
		return types.ErrUnauthorized.Wrapf("caller %s is not the authority", caller)
	}
	ext, err := k.Externals.Get(ctx)
	if err != nil {
		return err
	}
	if treasury != "" {
		ext.TreasuryAddress = treasury
	}
	if depository != "" {
		ext.DepositoryAddress = depository
	}
	if dispenser != "" {
		ext.DispenserAddress = dispenser
	}
	if err := k.Externals.Set(ctx, ext); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"managers_updated",
			sdk.NewAttribute("treasury", ext.TreasuryAddress),
			sdk.NewAttribute("depository", ext.DepositoryAddress),
			sdk.NewAttribute("dispenser", ext.DispenserAddress),
		),
	)
	return nil
}

// ChangeDonatorBlacklist toggles donor screening. Only the governance
// authority may call it. Disabling it never rejects donations even when a
// blacklist keeper is wired.
func (k Keeper) ChangeDonatorBlacklist(ctx sdk.Context, caller string, enabled bool) error {
	if caller != k.authority {
		return types.ErrUnauthorized.Wrapf("caller %s is not the authority", caller)
	}
	ext, err := k.Externals.Get(ctx)
	if err != nil {
		return err
	}
	ext.BlacklistEnabled = enabled
	if err := k.Externals.Set(ctx, ext); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"donator_blacklist_updated",
			sdk.NewAttribute("enabled", strconv.FormatBool(enabled)),
		),
	)
	return nil
}

// GetParams returns the current parameter set.
func (k Keeper) GetParams(ctx sdk.Context) (types.Params, error) {
	return k.Params.Get(ctx)
}

// GetExternals returns the collaborating module account configuration.
func (k Keeper) GetExternals(ctx sdk.Context) (types.Externals, error) {
	return k.Externals.Get(ctx)
}
