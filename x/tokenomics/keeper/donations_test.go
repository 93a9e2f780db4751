package keeper

import (
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/Dias878/autonolas-tokenomics/x/tokenomics/types"
)

func TestTrackServiceDonations_Validation(t *testing.T) {
	k, ctx, fix := newTestKeeper(t)
	fix.addDefaultService(1, "alice")
	fix.blacklist.blocked["badactor"] = true

	tests := []struct {
		name     string
		caller   string
		donator  string
		services []uint64
		amounts  []sdkmath.Int
		wantErr  error
	}{
		{
			name:     "not the treasury",
			caller:   "someone",
			donator:  "donator",
			services: []uint64{1},
			amounts:  []sdkmath.Int{eth(1)},
			wantErr:  types.ErrUnauthorized,
		},
		{
			name:     "length mismatch",
			caller:   testTreasury,
			donator:  "donator",
			services: []uint64{1},
			amounts:  []sdkmath.Int{eth(1), eth(2)},
			wantErr:  types.ErrWrongArrayLength,
		},
		{
			name:     "empty batch",
			caller:   testTreasury,
			donator:  "donator",
			services: nil,
			amounts:  nil,
			wantErr:  types.ErrWrongArrayLength,
		},
		{
			name:     "blacklisted donator",
			caller:   testTreasury,
			donator:  "badactor",
			services: []uint64{1},
			amounts:  []sdkmath.Int{eth(1)},
			wantErr:  types.ErrBlacklistedDonator,
		},
		{
			name:     "zero amount",
			caller:   testTreasury,
			donator:  "donator",
			services: []uint64{1},
			amounts:  []sdkmath.Int{sdkmath.ZeroInt()},
			wantErr:  types.ErrZeroValue,
		},
		{
			name:     "unknown service",
			caller:   testTreasury,
			donator:  "donator",
			services: []uint64{99},
			amounts:  []sdkmath.Int{eth(1)},
			wantErr:  types.ErrServiceNotFound,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := k.TrackServiceDonations(ctx, tc.caller, tc.donator, tc.services, tc.amounts)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	// Failed batches leave no trace.
	ep, err := k.GetEpochPoint(ctx, 1)
	require.NoError(t, err)
	require.True(t, ep.TotalDonationsETH.IsZero())
}

func TestTrackServiceDonations_AccumulatesPendingState(t *testing.T) {
	k, ctx, fix := newTestKeeper(t)
	fix.addDefaultService(1, "alice")

	total, err := k.TrackServiceDonations(ctx, testTreasury, "donator",
		[]uint64{1}, []sdkmath.Int{eth(100)})
	require.NoError(t, err)
	require.Equal(t, eth(100), total)

	ep, err := k.GetEpochPoint(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, eth(100), ep.TotalDonationsETH)

	// Two components split the full amount; the single agent takes it all.
	up0, err := k.GetUnitPoint(ctx, 1, types.UnitTypeComponent)
	require.NoError(t, err)
	require.Equal(t, eth(100), up0.SumUnitDonationsETH)
	require.EqualValues(t, 2, up0.NumNewUnits)

	up1, err := k.GetUnitPoint(ctx, 1, types.UnitTypeAgent)
	require.NoError(t, err)
	require.Equal(t, eth(100), up1.SumUnitDonationsETH)
	require.EqualValues(t, 1, up1.NumNewUnits)

	// One distinct owner across all units.
	require.EqualValues(t, 1, ep.NumNewOwners)

	bal, err := k.GetIncentiveBalances(ctx, types.UnitTypeComponent, 1)
	require.NoError(t, err)
	require.Equal(t, eth(50), bal.PendingRelativeReward)
	require.EqualValues(t, 1, bal.LastEpoch)
	require.True(t, bal.Reward.IsZero())

	// Top-ups need voting power; alice has none.
	require.True(t, bal.PendingRelativeTopUp.IsZero())

	last, err := k.LastDonationBlock.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, ctx.BlockHeight(), last)
}

func TestTrackServiceDonations_RepeatUnitsAreNotNewTwice(t *testing.T) {
	k, ctx, fix := newTestKeeper(t)
	fix.addDefaultService(1, "alice")

	_, err := k.TrackServiceDonations(ctx, testTreasury, "donator",
		[]uint64{1}, []sdkmath.Int{eth(10)})
	require.NoError(t, err)
	_, err = k.TrackServiceDonations(ctx, testTreasury, "donator",
		[]uint64{1}, []sdkmath.Int{eth(30)})
	require.NoError(t, err)

	up0, err := k.GetUnitPoint(ctx, 1, types.UnitTypeComponent)
	require.NoError(t, err)
	require.EqualValues(t, 2, up0.NumNewUnits)
	require.Equal(t, eth(40), up0.SumUnitDonationsETH)

	ep, err := k.GetEpochPoint(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 1, ep.NumNewOwners)
	require.Equal(t, eth(40), ep.TotalDonationsETH)
}

func TestTrackServiceDonations_TopUpEligibility(t *testing.T) {
	k, ctx, fix := newTestKeeper(t)
	fix.addDefaultService(1, "alice")
	fix.registry.addService(2, "whale", []uint64{5}, nil)
	fix.registry.setUnitOwner(types.UnitTypeComponent, 5, "whale")

	// Only the whale clears the veOLAS threshold.
	fix.ve.power["whale"] = sdkmath.NewIntWithDecimal(10_000, 18)

	total, err := k.TrackServiceDonations(ctx, testTreasury, "donator",
		[]uint64{1, 2}, []sdkmath.Int{eth(100), eth(100)})
	require.NoError(t, err)
	require.Equal(t, eth(200), total)

	bal, err := k.GetIncentiveBalances(ctx, types.UnitTypeComponent, 1)
	require.NoError(t, err)
	require.True(t, bal.PendingRelativeTopUp.IsZero())

	whaleBal, err := k.GetIncentiveBalances(ctx, types.UnitTypeComponent, 5)
	require.NoError(t, err)
	require.Equal(t, eth(100), whaleBal.PendingRelativeTopUp)

	up0, err := k.GetUnitPoint(ctx, 1, types.UnitTypeComponent)
	require.NoError(t, err)
	require.Equal(t, eth(100), up0.SumUnitTopUpsOLAS)
}

func TestTrackServiceDonations_EmptyUnitClassContributesToOtherOnly(t *testing.T) {
	k, ctx, fix := newTestKeeper(t)
	fix.registry.addService(1, "alice", nil, []uint64{7})
	fix.registry.setUnitOwner(types.UnitTypeAgent, 7, "alice")

	_, err := k.TrackServiceDonations(ctx, testTreasury, "donator",
		[]uint64{1}, []sdkmath.Int{eth(60)})
	require.NoError(t, err)

	up0, err := k.GetUnitPoint(ctx, 1, types.UnitTypeComponent)
	require.NoError(t, err)
	require.True(t, up0.SumUnitDonationsETH.IsZero())
	require.Zero(t, up0.NumNewUnits)

	up1, err := k.GetUnitPoint(ctx, 1, types.UnitTypeAgent)
	require.NoError(t, err)
	require.Equal(t, eth(60), up1.SumUnitDonationsETH)
}

func TestTrackServiceDonations_FinalizesStalePendingOnNextDonation(t *testing.T) {
	k, ctx, fix := newTestKeeper(t)
	fix.addDefaultService(1, "alice")

	ctx = advance(ctx, 2*time.Second, 1)
	_, err := k.TrackServiceDonations(ctx, testTreasury, "donator",
		[]uint64{1}, []sdkmath.Int{eth(100)})
	require.NoError(t, err)

	ctx = advance(ctx, 10*time.Second, 2)
	settled, err := k.Checkpoint(ctx)
	require.NoError(t, err)
	require.True(t, settled)

	// A donation in the next epoch folds the settled pending into the
	// claimable balance before accruing new pending state.
	ctx = advance(ctx, 2*time.Second, 1)
	_, err = k.TrackServiceDonations(ctx, testTreasury, "donator",
		[]uint64{1}, []sdkmath.Int{eth(40)})
	require.NoError(t, err)

	bal, err := k.GetIncentiveBalances(ctx, types.UnitTypeComponent, 1)
	require.NoError(t, err)
	// 50 pending for epoch 1, finalized at 30 percent: 15 ETH claimable.
	require.Equal(t, eth(15), bal.Reward)
	require.Equal(t, eth(20), bal.PendingRelativeReward)
	require.EqualValues(t, 2, bal.LastEpoch)
}
