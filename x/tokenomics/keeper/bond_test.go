package keeper

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/Dias878/autonolas-tokenomics/x/tokenomics/types"
)

func TestReserveAmountForBondProgram(t *testing.T) {
	k, ctx, _ := newTestKeeper(t)

	bs, err := k.GetBondState(ctx)
	require.NoError(t, err)
	capacity := bs.EffectiveBond
	require.True(t, capacity.IsPositive())

	_, err = k.ReserveAmountForBondProgram(ctx, "someone", capacity)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = k.ReserveAmountForBondProgram(ctx, testDepository, sdkmath.ZeroInt())
	require.ErrorIs(t, err, types.ErrZeroValue)

	// Over-reservation is an expected false, not an error.
	ok, err := k.ReserveAmountForBondProgram(ctx, testDepository, capacity.AddRaw(1))
	require.NoError(t, err)
	require.False(t, ok)
	bs, err = k.GetBondState(ctx)
	require.NoError(t, err)
	require.Equal(t, capacity, bs.EffectiveBond)

	// Reserving the exact capacity drains it to zero, never below.
	ok, err = k.ReserveAmountForBondProgram(ctx, testDepository, capacity)
	require.NoError(t, err)
	require.True(t, ok)
	bs, err = k.GetBondState(ctx)
	require.NoError(t, err)
	require.True(t, bs.EffectiveBond.IsZero())

	ok, err = k.ReserveAmountForBondProgram(ctx, testDepository, sdkmath.OneInt())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRefundFromBondProgram(t *testing.T) {
	k, ctx, _ := newTestKeeper(t)

	bs, err := k.GetBondState(ctx)
	require.NoError(t, err)
	capacity := bs.EffectiveBond

	ok, err := k.ReserveAmountForBondProgram(ctx, testDepository, capacity)
	require.NoError(t, err)
	require.True(t, ok)

	require.ErrorIs(t, k.RefundFromBondProgram(ctx, "someone", capacity), types.ErrUnauthorized)
	require.ErrorIs(t, k.RefundFromBondProgram(ctx, testDepository, sdkmath.ZeroInt()), types.ErrZeroValue)

	require.NoError(t, k.RefundFromBondProgram(ctx, testDepository, capacity))
	bs, err = k.GetBondState(ctx)
	require.NoError(t, err)
	require.Equal(t, capacity, bs.EffectiveBond)
}

func TestAdjustMaxBond_ExactReductionDrainsToZero(t *testing.T) {
	k, ctx, _ := newTestKeeper(t)

	bs, err := k.GetBondState(ctx)
	require.NoError(t, err)
	require.Equal(t, bs.MaxBond, bs.EffectiveBond)

	// With nothing reserved, retargeting to zero debits exactly the
	// unreserved balance and is accepted.
	require.NoError(t, k.adjustMaxBond(ctx, sdkmath.ZeroInt()))

	after, err := k.GetBondState(ctx)
	require.NoError(t, err)
	require.True(t, after.MaxBond.IsZero())
	require.True(t, after.EffectiveBond.IsZero())
}

func TestAdjustMaxBond_RejectsReductionBeyondUnreserved(t *testing.T) {
	k, ctx, _ := newTestKeeper(t)

	bs, err := k.GetBondState(ctx)
	require.NoError(t, err)

	// Consume almost all capacity, then try to shrink the projection by
	// more than what is left unreserved.
	reserve := bs.EffectiveBond.SubRaw(1)
	ok, err := k.ReserveAmountForBondProgram(ctx, testDepository, reserve)
	require.NoError(t, err)
	require.True(t, ok)

	err = k.adjustMaxBond(ctx, sdkmath.ZeroInt())
	require.ErrorIs(t, err, types.ErrBondAdjustment)

	// State is unchanged after the rejection.
	after, err := k.GetBondState(ctx)
	require.NoError(t, err)
	require.Equal(t, bs.MaxBond, after.MaxBond)
	require.Equal(t, sdkmath.OneInt(), after.EffectiveBond)

	// A growth retarget always succeeds and credits the difference.
	bigger := bs.MaxBond.MulRaw(2)
	require.NoError(t, k.adjustMaxBond(ctx, bigger))
	after, err = k.GetBondState(ctx)
	require.NoError(t, err)
	require.Equal(t, bigger, after.MaxBond)
	require.Equal(t, sdkmath.OneInt().Add(bs.MaxBond), after.EffectiveBond)
}
