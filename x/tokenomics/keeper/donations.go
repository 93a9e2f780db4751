package keeper

import (
	"fmt"
	"strconv"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dias878/autonolas-tokenomics/x/tokenomics/types"
)

// TrackServiceDonations attributes a batch of service donations to the open
// epoch. Only the treasury may call it; the treasury has already taken
// custody of the donated ETH and reports the per-service amounts here.
//
// Each service amount is split evenly across the service's units within each
// unit class, accruing as pending relative amounts against the open epoch.
// Top-up eligibility is decided per service by the owner's current veOLAS
// voting power. The returned total is the sum of all tracked amounts.
func (k Keeper) TrackServiceDonations(
	ctx sdk.Context,
	caller string,
	donator string,
	serviceIDs []uint64,
	amounts []sdkmath.Int,
) (sdkmath.Int, error) {
	ext, err := k.Externals.Get(ctx)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if caller != ext.TreasuryAddress {
		return sdkmath.ZeroInt(), types.ErrUnauthorized.Wrapf("caller %s is not the treasury", caller)
	}
	if len(serviceIDs) == 0 || len(serviceIDs) != len(amounts) {
		return sdkmath.ZeroInt(), types.ErrWrongArrayLength.Wrapf("%d services, %d amounts", len(serviceIDs), len(amounts))
	}
	if ext.BlacklistEnabled && k.blacklistKeeper != nil && k.blacklistKeeper.IsBlacklisted(ctx, donator) {
		return sdkmath.ZeroInt(), types.ErrBlacklistedDonator.Wrap(donator)
	}

	params, err := k.Params.Get(ctx)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	curEpoch, err := k.EpochCounter.Get(ctx)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	ep, err := k.EpochPoints.Get(ctx, curEpoch)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	var unitPoints [types.NumUnitTypes]types.UnitPoint
	for ut := types.UnitType(0); ut < types.NumUnitTypes; ut++ {
		unitPoints[ut], err = k.getUnitPoint(ctx, curEpoch, ut)
		if err != nil {
			return sdkmath.ZeroInt(), err
		}
	}

	sm := NewSafeMath()
	totalDonation := sdkmath.ZeroInt()

	for i, serviceID := range serviceIDs {
		amount := amounts[i]
		if amount.IsNil() || !amount.IsPositive() {
			return sdkmath.ZeroInt(), types.ErrZeroValue.Wrapf("donation for service %d", serviceID)
		}
		if !k.registryKeeper.ServiceExists(ctx, serviceID) {
			return sdkmath.ZeroInt(), types.ErrServiceNotFound.Wrapf("service %d", serviceID)
		}
		totalDonation, err = sm.AddBound(totalDonation, amount)
		if err != nil {
			return sdkmath.ZeroInt(), err
		}

		owner, err := k.registryKeeper.ServiceOwner(ctx, serviceID)
		if err != nil {
			return sdkmath.ZeroInt(), err
		}
		// A zero threshold disables the gate entirely.
		topUpEligible := k.veKeeper.VotingPower(ctx, owner).GTE(params.VeOLASThreshold)

		for ut := types.UnitType(0); ut < types.NumUnitTypes; ut++ {
			unitIDs, err := k.registryKeeper.ServiceUnitIDs(ctx, ut, serviceID)
			if err != nil {
				return sdkmath.ZeroInt(), err
			}
			if len(unitIDs) == 0 {
				continue
			}
			perUnit := amount.QuoRaw(int64(len(unitIDs)))
			up := &unitPoints[ut]

			for _, unitID := range unitIDs {
				bal, err := k.getUnitIncentives(ctx, ut, unitID)
				if err != nil {
					return sdkmath.ZeroInt(), err
				}
				if err := k.finalizeUnitIncentives(ctx, curEpoch, ut, &bal); err != nil {
					return sdkmath.ZeroInt(), err
				}

				if up.RewardUnitFraction > 0 {
					bal.PendingRelativeReward, err = sm.AddBound(bal.PendingRelativeReward, perUnit)
					if err != nil {
						return sdkmath.ZeroInt(), err
					}
					up.SumUnitDonationsETH, err = sm.AddBound(up.SumUnitDonationsETH, perUnit)
					if err != nil {
						return sdkmath.ZeroInt(), err
					}
				}
				if topUpEligible && up.TopUpUnitFraction > 0 {
					bal.PendingRelativeTopUp, err = sm.AddBound(bal.PendingRelativeTopUp, perUnit)
					if err != nil {
						return sdkmath.ZeroInt(), err
					}
					up.SumUnitTopUpsOLAS, err = sm.AddBound(up.SumUnitTopUpsOLAS, perUnit)
					if err != nil {
						return sdkmath.ZeroInt(), err
					}
				}
				bal.LastEpoch = curEpoch
				if err := k.UnitIncentives.Set(ctx, unitKey(ut, unitID), bal); err != nil {
					return sdkmath.ZeroInt(), err
				}

				seen, err := k.SeenUnits.Has(ctx, unitKey(ut, unitID))
				if err != nil {
					return sdkmath.ZeroInt(), err
				}
				if !seen {
					if err := k.SeenUnits.Set(ctx, unitKey(ut, unitID)); err != nil {
						return sdkmath.ZeroInt(), err
					}
					up.NumNewUnits++

					unitOwner, err := k.registryKeeper.UnitOwner(ctx, ut, unitID)
					if err != nil {
						return sdkmath.ZeroInt(), err
					}
					ownerSeen, err := k.SeenOwners.Has(ctx, unitOwner)
					if err != nil {
						return sdkmath.ZeroInt(), err
					}
					if !ownerSeen {
						if err := k.SeenOwners.Set(ctx, unitOwner); err != nil {
							return sdkmath.ZeroInt(), err
						}
						ep.NumNewOwners++
					}
				}
			}
		}
	}

	ep.TotalDonationsETH, err = sm.AddBound(ep.TotalDonationsETH, totalDonation)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if err := k.EpochPoints.Set(ctx, curEpoch, ep); err != nil {
		return sdkmath.ZeroInt(), err
	}
	for ut := types.UnitType(0); ut < types.NumUnitTypes; ut++ {
		if err := k.UnitPoints.Set(ctx, epochUnitKey(curEpoch, ut), unitPoints[ut]); err != nil {
			return sdkmath.ZeroInt(), err
		}
	}
	if err := k.LastDonationBlock.Set(ctx, ctx.BlockHeight()); err != nil {
		return sdkmath.ZeroInt(), err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"service_donations_tracked",
			sdk.NewAttribute("donator", donator),
			sdk.NewAttribute("epoch", strconv.FormatUint(curEpoch, 10)),
			sdk.NewAttribute("num_services", fmt.Sprintf("%d", len(serviceIDs))),
			sdk.NewAttribute("total_amount", totalDonation.String()),
		),
	)
	return totalDonation, nil
}

// finalizeUnitIncentives folds a unit's pending relative amounts into its
// claimable balances once the epoch they were accrued against has settled.
// Pending state tied to the still-open epoch is left untouched.
func (k Keeper) finalizeUnitIncentives(
	ctx sdk.Context,
	curEpoch uint64,
	unitType types.UnitType,
	bal *types.IncentiveBalances,
) error {
	if bal.LastEpoch == 0 || bal.LastEpoch >= curEpoch {
		return nil
	}
	ep, err := k.EpochPoints.Get(ctx, bal.LastEpoch)
	if err != nil {
		return err
	}
	if !ep.Settled() {
		// Stale epoch never settled; keep the pending amounts intact.
		return nil
	}
	up, err := k.getUnitPoint(ctx, bal.LastEpoch, unitType)
	if err != nil {
		return err
	}

	sm := NewSafeMath()
	if bal.PendingRelativeReward.IsPositive() && up.SumUnitDonationsETH.IsPositive() {
		// reward share = pending * totalDonations * fraction / (100 * classSum)
		amount, err := sm.MulDiv(
			bal.PendingRelativeReward.Mul(ep.TotalDonationsETH),
			sdkmath.NewIntFromUint64(up.RewardUnitFraction),
			up.SumUnitDonationsETH.MulRaw(types.FractionBase),
		)
		if err != nil {
			return err
		}
		bal.Reward, err = sm.AddBound(bal.Reward, amount)
		if err != nil {
			return err
		}
	}
	if bal.PendingRelativeTopUp.IsPositive() && up.SumUnitTopUpsOLAS.IsPositive() && ep.TotalTopUpsOLAS.IsPositive() {
		amount, err := sm.MulDiv(
			bal.PendingRelativeTopUp.Mul(ep.TotalTopUpsOLAS),
			sdkmath.NewIntFromUint64(up.TopUpUnitFraction),
			up.SumUnitTopUpsOLAS.MulRaw(types.FractionBase),
		)
		if err != nil {
			return err
		}
		bal.TopUp, err = sm.AddBound(bal.TopUp, amount)
		if err != nil {
			return err
		}
	}

	bal.PendingRelativeReward = sdkmath.ZeroInt()
	bal.PendingRelativeTopUp = sdkmath.ZeroInt()
	bal.LastEpoch = 0
	return nil
}
