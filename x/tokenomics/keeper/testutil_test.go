package keeper

import (
	"context"
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

const (
	testAuthority  = "authority"
	testTreasury   = "treasury"
	testDepository = "depository"
	testDispenser  = "dispenser"
)

var testGenesisTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type unitRef struct {
	unitType types.UnitType
	unitID   uint64
}

type stubService struct {
	owner      string
	components []uint64
	agents     []uint64
}

type stubRegistry struct {
	services   map[uint64]stubService
	unitOwners map[unitRef]string
}

func newStubRegistry() *stubRegistry {
	return &stubRegistry{
		services:   make(map[uint64]stubService),
		unitOwners: make(map[unitRef]string),
	}
}

func (r *stubRegistry) addService(id uint64, owner string, components, agents []uint64) {
	r.services[id] = stubService{owner: owner, components: components, agents: agents}
}

func (r *stubRegistry) setUnitOwner(ut types.UnitType, id uint64, owner string) {
	r.unitOwners[unitRef{ut, id}] = owner
}

func (r *stubRegistry) ServiceExists(_ context.Context, serviceID uint64) bool {
	_, ok := r.services[serviceID]
	return ok
}

func (r *stubRegistry) ServiceOwner(_ context.Context, serviceID uint64) (string, error) {
	svc, ok := r.services[serviceID]
	if !ok {
		return "", types.ErrServiceNotFound.Wrapf("service %d", serviceID)
	}
	return svc.owner, nil
}

func (r *stubRegistry) ServiceUnitIDs(_ context.Context, unitType types.UnitType, serviceID uint64) ([]uint64, error) {
	svc, ok := r.services[serviceID]
	if !ok {
		return nil, types.ErrServiceNotFound.Wrapf("service %d", serviceID)
	}
	if unitType == types.UnitTypeComponent {
		return svc.components, nil
	}
	return svc.agents, nil
}

func (r *stubRegistry) UnitOwner(_ context.Context, unitType types.UnitType, unitID uint64) (string, error) {
	owner, ok := r.unitOwners[unitRef{unitType, unitID}]
	if !ok {
		return "", types.ErrOwnerMismatch.Wrapf("%s %d has no owner", unitType, unitID)
	}
	return owner, nil
}

type stubVotingEscrow struct {
	power    map[string]sdkmath.Int
	powerAt  func(account string, block int64) sdkmath.Int
	supplyAt func(block int64) sdkmath.Int
}

func newStubVotingEscrow() *stubVotingEscrow {
	return &stubVotingEscrow{power: make(map[string]sdkmath.Int)}
}

func (v *stubVotingEscrow) VotingPower(_ context.Context, account string) sdkmath.Int {
	if p, ok := v.power[account]; ok {
		return p
	}
	return sdkmath.ZeroInt()
}

func (v *stubVotingEscrow) VotingPowerAt(_ context.Context, account string, block int64) sdkmath.Int {
	if v.powerAt == nil {
		return sdkmath.ZeroInt()
	}
	return v.powerAt(account, block)
}

func (v *stubVotingEscrow) TotalSupplyAt(_ context.Context, block int64) sdkmath.Int {
	if v.supplyAt == nil {
		return sdkmath.ZeroInt()
	}
	return v.supplyAt(block)
}

type stubTreasury struct {
	veto       bool
	rebalances []sdkmath.Int
}

func (tr *stubTreasury) Rebalance(_ context.Context, treasuryRewards sdkmath.Int) bool {
	if tr.veto {
		return false
	}
	tr.rebalances = append(tr.rebalances, treasuryRewards)
	return true
}

type stubBlacklist struct {
	blocked map[string]bool
}

func (b *stubBlacklist) IsBlacklisted(_ context.Context, account string) bool {
	return b.blocked[account]
}

type testFixture struct {
	registry  *stubRegistry
	ve        *stubVotingEscrow
	treasury  *stubTreasury
	blacklist *stubBlacklist
}

// newTestKeeper builds a keeper over an in-memory IAVL store and initializes
// a fresh genesis at testGenesisTime with the default parameters, a ten
// second epoch, and a 30/40/10 component/agent/staker donation split.
func newTestKeeper(t *testing.T) (Keeper, sdk.Context, *testFixture) {
	t.Helper()

	fix := &testFixture{
		registry:  newStubRegistry(),
		ve:        newStubVotingEscrow(),
		treasury:  &stubTreasury{},
		blacklist: &stubBlacklist{blocked: make(map[string]bool)},
	}

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	cms := rootmulti.NewStore(db, log.NewNopLogger(), storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(t, cms.LoadLatestVersion())

	ctx := sdk.NewContext(cms, tmproto.Header{
		ChainID: "tokenomics-test-1",
		Height:  100,
		Time:    testGenesisTime,
	}, false, log.NewNopLogger())

	k := NewKeeper(
		runtime.NewKVStoreService(storeKey),
		fix.registry,
		fix.ve,
		fix.treasury,
		fix.blacklist,
		testAuthority,
	)

	gs := types.DefaultGenesis()
	gs.Params.EpochLen = 10
	gs.Externals = types.Externals{
		TreasuryAddress:   testTreasury,
		DepositoryAddress: testDepository,
		DispenserAddress:  testDispenser,
		BlacklistEnabled:  true,
	}
	gs.Fractions = types.IncentiveFractions{
		RewardComponentFraction: 30,
		RewardAgentFraction:     40,
		RewardStakerFraction:    10,
		MaxBondFraction:         40,
		TopUpComponentFraction:  30,
		TopUpAgentFraction:      20,
		TopUpStakerFraction:     10,
	}
	require.NoError(t, k.InitGenesis(ctx, gs))

	return k, ctx, fix
}

// advance returns a context whose block time moved forward by the given
// duration and whose height increased by the given number of blocks.
func advance(ctx sdk.Context, d time.Duration, blocks int64) sdk.Context {
	return ctx.
		WithBlockTime(ctx.BlockTime().Add(d)).
		WithBlockHeight(ctx.BlockHeight() + blocks)
}

// eth converts whole ETH to 1e18 base units.
func eth(whole int64) sdkmath.Int {
	return sdkmath.NewIntWithDecimal(whole, 18)
}

// addDefaultService registers a service with two components and one agent,
// all owned by the given account.
func (fix *testFixture) addDefaultService(serviceID uint64, owner string) {
	fix.registry.addService(serviceID, owner, []uint64{1, 2}, []uint64{1})
	fix.registry.setUnitOwner(types.UnitTypeComponent, 1, owner)
	fix.registry.setUnitOwner(types.UnitTypeComponent, 2, owner)
	fix.registry.setUnitOwner(types.UnitTypeAgent, 1, owner)
}
