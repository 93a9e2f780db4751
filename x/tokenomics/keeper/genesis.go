package keeper

import (
	"cosmossdk.io/collections"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dias878/autonolas-tokenomics/x/tokenomics/types"
)

// InitGenesis initializes the module state. A zero epoch counter requests a
// fresh start: epoch one opens at the genesis block, the inflation clock is
// anchored at the launch time, and the first epoch's bond capacity is
// credited in full. A non-zero counter restores a previously exported state.
func (k Keeper) InitGenesis(ctx sdk.Context, gs *types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if err := k.Params.Set(ctx, gs.Params); err != nil {
		return err
	}
	if err := k.Externals.Set(ctx, gs.Externals); err != nil {
		return err
	}

	if gs.EpochCounter == 0 {
		return k.initFreshState(ctx, gs)
	}
	return k.restoreState(ctx, gs)
}

func (k Keeper) initFreshState(ctx sdk.Context, gs *types.GenesisState) error {
	now := ctx.BlockTime().Unix()
	launch := gs.TimeLaunch
	if launch == 0 {
		launch = now
	}

	year := types.YearOfTimestamp(now, launch)
	infl := types.InflationState{
		InflationPerSecond: types.InflationPerSecondForYear(year),
		CurrentYear:        year,
		TimeLaunch:         launch,
	}
	if err := k.InflationState.Set(ctx, infl); err != nil {
		return err
	}

	// Epoch zero is the settled sentinel every later epoch measures from.
	sentinel := types.NewEpochPoint(gs.Params.DevsPerCapital, gs.Fractions.TreasuryFraction(), gs.Fractions.MaxBondFraction)
	sentinel.EndTime = now
	sentinel.EndBlockNumber = ctx.BlockHeight()
	if err := k.EpochPoints.Set(ctx, 0, sentinel); err != nil {
		return err
	}

	first := types.NewEpochPoint(gs.Params.DevsPerCapital, gs.Fractions.TreasuryFraction(), gs.Fractions.MaxBondFraction)
	if err := k.EpochPoints.Set(ctx, 1, first); err != nil {
		return err
	}
	componentPoint := types.NewUnitPoint(gs.Fractions.RewardComponentFraction, gs.Fractions.TopUpComponentFraction, gs.ComponentWeight)
	if err := k.UnitPoints.Set(ctx, epochUnitKey(1, types.UnitTypeComponent), componentPoint); err != nil {
		return err
	}
	agentPoint := types.NewUnitPoint(gs.Fractions.RewardAgentFraction, gs.Fractions.TopUpAgentFraction, gs.AgentWeight)
	if err := k.UnitPoints.Set(ctx, epochUnitKey(1, types.UnitTypeAgent), agentPoint); err != nil {
		return err
	}
	sp := types.StakerPoint{
		RewardStakerFraction: gs.Fractions.RewardStakerFraction,
		TopUpStakerFraction:  gs.Fractions.TopUpStakerFraction,
	}
	if err := k.StakerPoints.Set(ctx, 1, sp); err != nil {
		return err
	}
	if err := k.EpochCounter.Set(ctx, 1); err != nil {
		return err
	}

	maxBond := NewSafeMath().FractionOf(
		infl.InflationPerSecond.MulRaw(gs.Params.EpochLen), gs.Fractions.MaxBondFraction)
	bs := types.BondState{MaxBond: maxBond, EffectiveBond: maxBond}
	if err := k.BondState.Set(ctx, bs); err != nil {
		return err
	}
	return k.LastDonationBlock.Set(ctx, 0)
}

func (k Keeper) restoreState(ctx sdk.Context, gs *types.GenesisState) error {
	if err := k.EpochCounter.Set(ctx, gs.EpochCounter); err != nil {
		return err
	}
	for _, rec := range gs.EpochPoints {
		if err := k.EpochPoints.Set(ctx, rec.Epoch, rec.Point); err != nil {
			return err
		}
	}
	for _, rec := range gs.UnitPoints {
		if err := k.UnitPoints.Set(ctx, epochUnitKey(rec.Epoch, rec.UnitType), rec.Point); err != nil {
			return err
		}
	}
	for _, rec := range gs.StakerPoints {
		if err := k.StakerPoints.Set(ctx, rec.Epoch, rec.Point); err != nil {
			return err
		}
	}
	for _, rec := range gs.UnitIncentives {
		if err := k.UnitIncentives.Set(ctx, unitKey(rec.UnitType, rec.UnitID), rec.Incentives); err != nil {
			return err
		}
	}
	for _, ref := range gs.SeenUnits {
		if err := k.SeenUnits.Set(ctx, unitKey(ref.UnitType, ref.UnitID)); err != nil {
			return err
		}
	}
	for _, owner := range gs.SeenOwners {
		if err := k.SeenOwners.Set(ctx, owner); err != nil {
			return err
		}
	}
	for _, rec := range gs.StakerWatermarks {
		if err := k.StakerWatermarks.Set(ctx, rec.Account, rec.Epoch); err != nil {
			return err
		}
	}
	if err := k.BondState.Set(ctx, *gs.BondState); err != nil {
		return err
	}
	if err := k.InflationState.Set(ctx, *gs.InflationState); err != nil {
		return err
	}
	return k.LastDonationBlock.Set(ctx, gs.LastDonationBlock)
}

// ExportGenesis exports the full module state.
func (k Keeper) ExportGenesis(ctx sdk.Context) (*types.GenesisState, error) {
	gs := &types.GenesisState{}

	var err error
	if gs.Params, err = k.Params.Get(ctx); err != nil {
		return nil, err
	}
	if gs.Externals, err = k.Externals.Get(ctx); err != nil {
		return nil, err
	}
	if gs.EpochCounter, err = k.EpochCounter.Get(ctx); err != nil {
		return nil, err
	}
	infl, err := k.InflationState.Get(ctx)
	if err != nil {
		return nil, err
	}
	gs.InflationState = &infl
	gs.TimeLaunch = infl.TimeLaunch

	bs, err := k.BondState.Get(ctx)
	if err != nil {
		return nil, err
	}
	gs.BondState = &bs

	if gs.LastDonationBlock, err = k.LastDonationBlock.Get(ctx); err != nil {
		if !errorsIsNotFound(err) {
			return nil, err
		}
		gs.LastDonationBlock = 0
	}

	// Reconstruct the top-level fraction and weight configuration from the
	// open epoch so a re-import validates and could even fresh-start.
	openEp, err := k.EpochPoints.Get(ctx, gs.EpochCounter)
	if err != nil {
		return nil, err
	}
	openSp, err := k.GetStakerPoint(ctx, gs.EpochCounter)
	if err != nil {
		return nil, err
	}
	openComponent, err := k.getUnitPoint(ctx, gs.EpochCounter, types.UnitTypeComponent)
	if err != nil {
		return nil, err
	}
	openAgent, err := k.getUnitPoint(ctx, gs.EpochCounter, types.UnitTypeAgent)
	if err != nil {
		return nil, err
	}
	gs.Fractions = types.IncentiveFractions{
		RewardComponentFraction: openComponent.RewardUnitFraction,
		RewardAgentFraction:     openAgent.RewardUnitFraction,
		RewardStakerFraction:    openSp.RewardStakerFraction,
		MaxBondFraction:         openEp.MaxBondFraction,
		TopUpComponentFraction:  openComponent.TopUpUnitFraction,
		TopUpAgentFraction:      openAgent.TopUpUnitFraction,
		TopUpStakerFraction:     openSp.TopUpStakerFraction,
	}
	gs.ComponentWeight = openComponent.UnitWeight
	gs.AgentWeight = openAgent.UnitWeight

	err = k.EpochPoints.Walk(ctx, nil, func(epoch uint64, point types.EpochPoint) (bool, error) {
		gs.EpochPoints = append(gs.EpochPoints, types.EpochPointRecord{Epoch: epoch, Point: point})
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	err = k.UnitPoints.Walk(ctx, nil, func(key collections.Pair[uint64, uint64], point types.UnitPoint) (bool, error) {
		gs.UnitPoints = append(gs.UnitPoints, types.UnitPointRecord{
			Epoch:    key.K1(),
			UnitType: types.UnitType(key.K2()),
			Point:    point,
		})
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	err = k.StakerPoints.Walk(ctx, nil, func(epoch uint64, point types.StakerPoint) (bool, error) {
		gs.StakerPoints = append(gs.StakerPoints, types.StakerPointRecord{Epoch: epoch, Point: point})
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	err = k.UnitIncentives.Walk(ctx, nil, func(key collections.Pair[uint64, uint64], bal types.IncentiveBalances) (bool, error) {
		gs.UnitIncentives = append(gs.UnitIncentives, types.UnitIncentiveRecord{
			UnitType:   types.UnitType(key.K1()),
			UnitID:     key.K2(),
			Incentives: bal,
		})
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	err = k.SeenUnits.Walk(ctx, nil, func(key collections.Pair[uint64, uint64]) (bool, error) {
		gs.SeenUnits = append(gs.SeenUnits, types.UnitRef{
			UnitType: types.UnitType(key.K1()),
			UnitID:   key.K2(),
		})
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	err = k.SeenOwners.Walk(ctx, nil, func(owner string) (bool, error) {
		gs.SeenOwners = append(gs.SeenOwners, owner)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	err = k.StakerWatermarks.Walk(ctx, nil, func(account string, epoch uint64) (bool, error) {
		gs.StakerWatermarks = append(gs.StakerWatermarks, types.StakerWatermarkRecord{Account: account, Epoch: epoch})
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return gs, nil
}
