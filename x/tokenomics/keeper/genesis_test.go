package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	storemetrics "cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"
	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/Dias878/autonolas-tokenomics/x/tokenomics/types"
)

func TestInitGenesis_FreshStart(t *testing.T) {
	k, ctx, _ := newTestKeeper(t)

	epoch, err := k.GetCurrentEpoch(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, epoch)

	// Epoch zero is the settled sentinel anchored at the genesis block.
	sentinel, err := k.GetEpochPoint(ctx, 0)
	require.NoError(t, err)
	require.True(t, sentinel.Settled())
	require.Equal(t, testGenesisTime.Unix(), sentinel.EndTime)
	require.EqualValues(t, 100, sentinel.EndBlockNumber)

	infl, err := k.InflationState.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, testGenesisTime.Unix(), infl.TimeLaunch)
	require.EqualValues(t, 0, infl.CurrentYear)
	require.Equal(t, types.InflationPerSecondForYear(0), infl.InflationPerSecond)

	bs, err := k.GetBondState(ctx)
	require.NoError(t, err)
	want := NewSafeMath().FractionOf(infl.InflationPerSecond.MulRaw(10), 40)
	require.Equal(t, want, bs.MaxBond)
	require.Equal(t, want, bs.EffectiveBond)
}

func TestGenesis_ExportImportRoundTrip(t *testing.T) {
	k, ctx, fix := newTestKeeper(t)
	fix.addDefaultService(1, "alice")
	fix.ve.power["alice"] = sdkmath.NewIntWithDecimal(10_000, 18)

	ctx = advance(ctx, 3*time.Second, 1)
	_, err := k.TrackServiceDonations(ctx, testTreasury, "donator",
		[]uint64{1}, []sdkmath.Int{eth(500)})
	require.NoError(t, err)
	ctx = advance(ctx, 10*time.Second, 2)
	settled, err := k.Checkpoint(ctx)
	require.NoError(t, err)
	require.True(t, settled)
	ctx = advance(ctx, 2*time.Second, 1)
	_, err = k.TrackServiceDonations(ctx, testTreasury, "donator",
		[]uint64{1}, []sdkmath.Int{eth(200)})
	require.NoError(t, err)

	exported, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	require.NoError(t, exported.Validate())
	require.EqualValues(t, 2, exported.EpochCounter)

	// Restore into a fresh store at the same block and re-export.
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	cms := rootmulti.NewStore(dbm.NewMemDB(), log.NewNopLogger(), storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(t, cms.LoadLatestVersion())
	ctx2 := sdk.NewContext(cms, tmproto.Header{
		ChainID: "tokenomics-test-2",
		Height:  ctx.BlockHeight(),
		Time:    ctx.BlockTime(),
	}, false, log.NewNopLogger())

	k2 := NewKeeper(
		runtime.NewKVStoreService(storeKey),
		fix.registry,
		fix.ve,
		fix.treasury,
		fix.blacklist,
		testAuthority,
	)
	require.NoError(t, k2.InitGenesis(ctx2, exported))

	reExported, err := k2.ExportGenesis(ctx2)
	require.NoError(t, err)
	require.Equal(t, exported, reExported)

	// The restored state keeps working: the open epoch settles normally.
	ctx2 = advance(ctx2, 10*time.Second, 2)
	settled, err = k2.Checkpoint(ctx2)
	require.NoError(t, err)
	require.True(t, settled)
}

func TestGenesisState_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(gs *types.GenesisState)
		wantErr bool
	}{
		{name: "default is valid", mutate: func(gs *types.GenesisState) {}},
		{
			name:    "bad epoch length",
			mutate:  func(gs *types.GenesisState) { gs.Params.EpochLen = 1 },
			wantErr: true,
		},
		{
			name: "reward fractions above 100",
			mutate: func(gs *types.GenesisState) {
				gs.Fractions.RewardComponentFraction = 90
				gs.Fractions.RewardAgentFraction = 20
			},
			wantErr: true,
		},
		{
			name:    "zero unit weight",
			mutate:  func(gs *types.GenesisState) { gs.ComponentWeight = 0 },
			wantErr: true,
		},
		{
			name: "fresh genesis with epoch state",
			mutate: func(gs *types.GenesisState) {
				gs.EpochPoints = []types.EpochPointRecord{{Epoch: 1}}
			},
			wantErr: true,
		},
		{
			name:    "migrated genesis without bond state",
			mutate:  func(gs *types.GenesisState) { gs.EpochCounter = 3 },
			wantErr: true,
		},
		{
			name: "migrated genesis without the epoch zero sentinel",
			mutate: func(gs *types.GenesisState) {
				gs.EpochCounter = 1
				gs.BondState = &types.BondState{
					MaxBond:       sdkmath.ZeroInt(),
					EffectiveBond: sdkmath.ZeroInt(),
				}
				gs.InflationState = &types.InflationState{
					InflationPerSecond: types.InflationPerSecondForYear(0),
					TimeLaunch:         testGenesisTime.Unix(),
				}
				gs.EpochPoints = []types.EpochPointRecord{
					{Epoch: 1, Point: types.NewEpochPoint(types.OneFixed, 20, 40)},
				}
			},
			wantErr: true,
		},
		{
			name: "migrated genesis with the sentinel",
			mutate: func(gs *types.GenesisState) {
				gs.EpochCounter = 1
				gs.BondState = &types.BondState{
					MaxBond:       sdkmath.ZeroInt(),
					EffectiveBond: sdkmath.ZeroInt(),
				}
				gs.InflationState = &types.InflationState{
					InflationPerSecond: types.InflationPerSecondForYear(0),
					TimeLaunch:         testGenesisTime.Unix(),
				}
				sentinel := types.NewEpochPoint(types.OneFixed, 20, 40)
				sentinel.EndTime = testGenesisTime.Unix()
				sentinel.EndBlockNumber = 100
				gs.EpochPoints = []types.EpochPointRecord{
					{Epoch: 0, Point: sentinel},
					{Epoch: 1, Point: types.NewEpochPoint(types.OneFixed, 20, 40)},
				}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := types.DefaultGenesis()
			tc.mutate(gs)
			err := gs.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
