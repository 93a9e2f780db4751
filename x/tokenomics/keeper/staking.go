package keeper

import (
	"strconv"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dias878/autonolas-tokenomics/x/tokenomics/types"
)

// GetStakingIncentives sums the veOLAS staker incentives accrued by an
// account over the settled epochs starting at startEpoch. The share of each
// epoch is taken against the voting state snapshotted at the end of the
// previous epoch, so locking after an epoch has started earns nothing for
// that epoch. It returns the epoch at which a later scan should resume.
func (k Keeper) GetStakingIncentives(
	ctx sdk.Context,
	account string,
	startEpoch uint64,
) (reward, topUp sdkmath.Int, nextEpoch uint64, err error) {
	reward, topUp = sdkmath.ZeroInt(), sdkmath.ZeroInt()

	curEpoch, err := k.EpochCounter.Get(ctx)
	if err != nil {
		return reward, topUp, startEpoch, err
	}
	// Epoch one never pays stakers: its snapshot would be the genesis
	// sentinel, before any lock could have been observed.
	epoch := startEpoch
	if epoch < 2 {
		epoch = 2
	}

	sm := NewSafeMath()
	for ; epoch < curEpoch; epoch++ {
		ep, err := k.EpochPoints.Get(ctx, epoch)
		if err != nil {
			return reward, topUp, epoch, err
		}
		sp, err := k.StakerPoints.Get(ctx, epoch)
		if err != nil {
			if errorsIsNotFound(err) {
				continue
			}
			return reward, topUp, epoch, err
		}
		if sp.RewardStakerFraction == 0 && sp.TopUpStakerFraction == 0 {
			continue
		}

		prev, err := k.EpochPoints.Get(ctx, epoch-1)
		if err != nil {
			return reward, topUp, epoch, err
		}
		snapshotBlock := prev.EndBlockNumber
		supply := k.veKeeper.TotalSupplyAt(ctx, snapshotBlock)
		if supply.IsNil() || !supply.IsPositive() {
			continue
		}
		balance := k.veKeeper.VotingPowerAt(ctx, account, snapshotBlock)
		if balance.IsNil() || !balance.IsPositive() {
			continue
		}

		if sp.RewardStakerFraction > 0 && ep.TotalDonationsETH.IsPositive() {
			amount, err := sm.MulDiv(
				balance.Mul(ep.TotalDonationsETH),
				sdkmath.NewIntFromUint64(sp.RewardStakerFraction),
				supply.MulRaw(types.FractionBase),
			)
			if err != nil {
				return reward, topUp, epoch, err
			}
			reward, err = sm.AddBound(reward, amount)
			if err != nil {
				return reward, topUp, epoch, err
			}
		}
		if sp.TopUpStakerFraction > 0 && ep.TotalTopUpsOLAS.IsPositive() {
			amount, err := sm.MulDiv(
				balance.Mul(ep.TotalTopUpsOLAS),
				sdkmath.NewIntFromUint64(sp.TopUpStakerFraction),
				supply.MulRaw(types.FractionBase),
			)
			if err != nil {
				return reward, topUp, epoch, err
			}
			topUp, err = sm.AddBound(topUp, amount)
			if err != nil {
				return reward, topUp, epoch, err
			}
		}
	}
	return reward, topUp, curEpoch, nil
}

// AccountStakingIncentives settles the staker incentives of an account from
// its claim watermark up to the last settled epoch and advances the
// watermark so the same epochs cannot be claimed twice. Only the dispenser
// may call it.
func (k Keeper) AccountStakingIncentives(
	ctx sdk.Context,
	caller string,
	account string,
) (reward, topUp sdkmath.Int, err error) {
	reward, topUp = sdkmath.ZeroInt(), sdkmath.ZeroInt()

	ext, err := k.Externals.Get(ctx)
	if err != nil {
		return reward, topUp, err
	}
	if caller != ext.DispenserAddress {
		return reward, topUp, types.ErrUnauthorized.Wrapf("caller %s is not the dispenser", caller)
	}

	watermark, err := k.StakerWatermarks.Get(ctx, account)
	if err != nil {
		if !errorsIsNotFound(err) {
			return reward, topUp, err
		}
		watermark = 0
	}

	reward, topUp, nextEpoch, err := k.GetStakingIncentives(ctx, account, watermark)
	if err != nil {
		return sdkmath.ZeroInt(), sdkmath.ZeroInt(), err
	}
	if err := k.StakerWatermarks.Set(ctx, account, nextEpoch); err != nil {
		return sdkmath.ZeroInt(), sdkmath.ZeroInt(), err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"staker_incentives_accounted",
			sdk.NewAttribute("account", account),
			sdk.NewAttribute("next_epoch", strconv.FormatUint(nextEpoch, 10)),
			sdk.NewAttribute("reward", reward.String()),
			sdk.NewAttribute("top_up", topUp.String()),
		),
	)
	return reward, topUp, nil
}

// GetStakerWatermark returns the next epoch an account's staking claim will
// start from.
func (k Keeper) GetStakerWatermark(ctx sdk.Context, account string) (uint64, error) {
	watermark, err := k.StakerWatermarks.Get(ctx, account)
	if err != nil {
		if errorsIsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return watermark, nil
}
