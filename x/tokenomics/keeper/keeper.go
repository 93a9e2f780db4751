package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dias878/autonolas-tokenomics/x/tokenomics/types"
)

// Keeper manages the tokenomics module state: the epoch ledger, per-unit
// incentive balances, bonding capacity, and the inflation clock.
type Keeper struct {
	storeService store.KVStoreService
	authority    string

	// External keepers
	registryKeeper  ServiceRegistryKeeper
	veKeeper        VotingEscrowKeeper
	treasuryKeeper  TreasuryKeeper
	blacklistKeeper DonatorBlacklistKeeper

	// State collections
	Params            collections.Item[types.Params]
	Externals         collections.Item[types.Externals]
	EpochCounter      collections.Item[uint64]
	EpochPoints       collections.Map[uint64, types.EpochPoint]
	UnitPoints        collections.Map[collections.Pair[uint64, uint64], types.UnitPoint]
	StakerPoints      collections.Map[uint64, types.StakerPoint]
	UnitIncentives    collections.Map[collections.Pair[uint64, uint64], types.IncentiveBalances]
	SeenUnits         collections.KeySet[collections.Pair[uint64, uint64]]
	SeenOwners        collections.KeySet[string]
	StakerWatermarks  collections.Map[string, uint64]
	BondState         collections.Item[types.BondState]
	InflationState    collections.Item[types.InflationState]
	LastDonationBlock collections.Item[int64]
}

// ServiceRegistryKeeper defines the expected service registry interface
// resolving services to their units and units to their owners.
type ServiceRegistryKeeper interface {
	ServiceExists(ctx context.Context, serviceID uint64) bool
	ServiceOwner(ctx context.Context, serviceID uint64) (string, error)
	ServiceUnitIDs(ctx context.Context, unitType types.UnitType, serviceID uint64) ([]uint64, error)
	UnitOwner(ctx context.Context, unitType types.UnitType, unitID uint64) (string, error)
}

// VotingEscrowKeeper defines the expected veOLAS interface. Historical
// queries are keyed by block number so staker shares are computed against a
// snapshot that predates the epoch being settled.
type VotingEscrowKeeper interface {
	VotingPower(ctx context.Context, account string) sdkmath.Int
	VotingPowerAt(ctx context.Context, account string, blockNumber int64) sdkmath.Int
	TotalSupplyAt(ctx context.Context, blockNumber int64) sdkmath.Int
}

// TreasuryKeeper defines the expected treasury interface. Rebalance moves
// the settled treasury reward share; returning false vetoes the settlement.
type TreasuryKeeper interface {
	Rebalance(ctx context.Context, treasuryRewards sdkmath.Int) bool
}

// DonatorBlacklistKeeper defines the expected blacklist interface. The
// keeper may be nil, in which case no donator is ever rejected.
type DonatorBlacklistKeeper interface {
	IsBlacklisted(ctx context.Context, account string) bool
}

// NewKeeper creates a new Keeper instance. The blacklist keeper may be nil.
func NewKeeper(
	storeService store.KVStoreService,
	registryKeeper ServiceRegistryKeeper,
	veKeeper VotingEscrowKeeper,
	treasuryKeeper TreasuryKeeper,
	blacklistKeeper DonatorBlacklistKeeper,
	authority string,
) Keeper {
	sb := collections.NewSchemaBuilder(storeService)

	k := Keeper{
		storeService:    storeService,
		authority:       authority,
		registryKeeper:  registryKeeper,
		veKeeper:        veKeeper,
		treasuryKeeper:  treasuryKeeper,
		blacklistKeeper: blacklistKeeper,
		Params: collections.NewItem(
			sb,
			collections.NewPrefix(types.ParamsPrefix),
			"params",
			types.NewJSONValueCodec[types.Params]("params"),
		),
		Externals: collections.NewItem(
			sb,
			collections.NewPrefix(types.ExternalsPrefix),
			"externals",
			types.NewJSONValueCodec[types.Externals]("externals"),
		),
		EpochCounter: collections.NewItem(
			sb,
			collections.NewPrefix(types.EpochCounterPrefix),
			"epoch_counter",
			collections.Uint64Value,
		),
		EpochPoints: collections.NewMap(
			sb,
			collections.NewPrefix(types.EpochPointPrefix),
			"epoch_points",
			collections.Uint64Key,
			types.NewJSONValueCodec[types.EpochPoint]("epoch_point"),
		),
		UnitPoints: collections.NewMap(
			sb,
			collections.NewPrefix(types.UnitPointPrefix),
			"unit_points",
			collections.PairKeyCodec(collections.Uint64Key, collections.Uint64Key),
			types.NewJSONValueCodec[types.UnitPoint]("unit_point"),
		),
		StakerPoints: collections.NewMap(
			sb,
			collections.NewPrefix(types.StakerPointPrefix),
			"staker_points",
			collections.Uint64Key,
			types.NewJSONValueCodec[types.StakerPoint]("staker_point"),
		),
		UnitIncentives: collections.NewMap(
			sb,
			collections.NewPrefix(types.UnitIncentivePrefix),
			"unit_incentives",
			collections.PairKeyCodec(collections.Uint64Key, collections.Uint64Key),
			types.NewJSONValueCodec[types.IncentiveBalances]("unit_incentives"),
		),
		SeenUnits: collections.NewKeySet(
			sb,
			collections.NewPrefix(types.SeenUnitPrefix),
			"seen_units",
			collections.PairKeyCodec(collections.Uint64Key, collections.Uint64Key),
		),
		SeenOwners: collections.NewKeySet(
			sb,
			collections.NewPrefix(types.SeenOwnerPrefix),
			"seen_owners",
			collections.StringKey,
		),
		StakerWatermarks: collections.NewMap(
			sb,
			collections.NewPrefix(types.StakerWatermarkPrefix),
			"staker_watermarks",
			collections.StringKey,
			collections.Uint64Value,
		),
		BondState: collections.NewItem(
			sb,
			collections.NewPrefix(types.BondStatePrefix),
			"bond_state",
			types.NewJSONValueCodec[types.BondState]("bond_state"),
		),
		InflationState: collections.NewItem(
			sb,
			collections.NewPrefix(types.InflationStatePrefix),
			"inflation_state",
			types.NewJSONValueCodec[types.InflationState]("inflation_state"),
		),
		LastDonationBlock: collections.NewItem(
			sb,
			collections.NewPrefix(types.LastDonationBlockPrefix),
			"last_donation_block",
			collections.Int64Value,
		),
	}

	if _, err := sb.Build(); err != nil {
		panic(err)
	}
	return k
}

// GetAuthority returns the module's governance authority address.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-tagged logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName)
}

func unitKey(unitType types.UnitType, unitID uint64) collections.Pair[uint64, uint64] {
	return collections.Join(uint64(unitType), unitID)
}

func epochUnitKey(epoch uint64, unitType types.UnitType) collections.Pair[uint64, uint64] {
	return collections.Join(epoch, uint64(unitType))
}

// getUnitIncentives returns the ledger entry for a unit, zero-valued when
// absent.
func (k Keeper) getUnitIncentives(ctx sdk.Context, unitType types.UnitType, unitID uint64) (types.IncentiveBalances, error) {
	bal, err := k.UnitIncentives.Get(ctx, unitKey(unitType, unitID))
	if err != nil {
		if errorsIsNotFound(err) {
			return types.NewIncentiveBalances(), nil
		}
		return types.IncentiveBalances{}, err
	}
	return bal, nil
}

// getUnitPoint returns the class point of an epoch, zero-valued when absent.
func (k Keeper) getUnitPoint(ctx sdk.Context, epoch uint64, unitType types.UnitType) (types.UnitPoint, error) {
	up, err := k.UnitPoints.Get(ctx, epochUnitKey(epoch, unitType))
	if err != nil {
		if errorsIsNotFound(err) {
			return types.NewUnitPoint(0, 0, 1), nil
		}
		return types.UnitPoint{}, err
	}
	return up, nil
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, collections.ErrNotFound)
}
