package types

// Keyed state is exported as explicit records so genesis files stay diffable.

// EpochPointRecord pairs an epoch number with its point.
type EpochPointRecord struct {
	Epoch uint64     `json:"epoch"`
	Point EpochPoint `json:"point"`
}

// UnitPointRecord pairs an epoch and unit type with the class point.
type UnitPointRecord struct {
	Epoch    uint64    `json:"epoch"`
	UnitType UnitType  `json:"unit_type"`
	Point    UnitPoint `json:"point"`
}

// StakerPointRecord pairs an epoch with its staker point.
type StakerPointRecord struct {
	Epoch uint64      `json:"epoch"`
	Point StakerPoint `json:"point"`
}

// UnitIncentiveRecord pairs a unit with its incentive ledger entry.
type UnitIncentiveRecord struct {
	UnitType   UnitType          `json:"unit_type"`
	UnitID     uint64            `json:"unit_id"`
	Incentives IncentiveBalances `json:"incentives"`
}

// UnitRef identifies a registry unit.
type UnitRef struct {
	UnitType UnitType `json:"unit_type"`
	UnitID   uint64   `json:"unit_id"`
}

// StakerWatermarkRecord pairs a staker account with its claim watermark.
type StakerWatermarkRecord struct {
	Account string `json:"account"`
	Epoch   uint64 `json:"epoch"`
}

// GenesisState is the full module state. A zero EpochCounter requests a
// fresh initialization: epoch one is opened at the genesis block and the
// inflation clock and bond capacity are derived from the parameters.
type GenesisState struct {
	Params    Params             `json:"params"`
	Externals Externals          `json:"externals"`
	Fractions IncentiveFractions `json:"fractions"`

	ComponentWeight uint64 `json:"component_weight"`
	AgentWeight     uint64 `json:"agent_weight"`

	// TimeLaunch anchors the inflation year clock; zero defers to the
	// genesis block time.
	TimeLaunch int64 `json:"time_launch"`

	EpochCounter      uint64                  `json:"epoch_counter"`
	EpochPoints       []EpochPointRecord      `json:"epoch_points,omitempty"`
	UnitPoints        []UnitPointRecord       `json:"unit_points,omitempty"`
	StakerPoints      []StakerPointRecord     `json:"staker_points,omitempty"`
	UnitIncentives    []UnitIncentiveRecord   `json:"unit_incentives,omitempty"`
	SeenUnits         []UnitRef               `json:"seen_units,omitempty"`
	SeenOwners        []string                `json:"seen_owners,omitempty"`
	StakerWatermarks  []StakerWatermarkRecord `json:"staker_watermarks,omitempty"`
	BondState         *BondState              `json:"bond_state,omitempty"`
	InflationState    *InflationState         `json:"inflation_state,omitempty"`
	LastDonationBlock int64                   `json:"last_donation_block"`
}

// DefaultGenesis returns the fresh-start genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:          DefaultParams(),
		Fractions:       DefaultIncentiveFractions(),
		ComponentWeight: 1,
		AgentWeight:     1,
	}
}

// Validate performs stateless genesis checks.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if err := gs.Fractions.Validate(); err != nil {
		return err
	}
	if gs.ComponentWeight == 0 || gs.AgentWeight == 0 {
		return ErrInvalidGenesis.Wrap("unit weights must be positive")
	}
	if gs.EpochCounter == 0 {
		if len(gs.EpochPoints) > 0 || len(gs.UnitIncentives) > 0 {
			return ErrInvalidGenesis.Wrap("fresh genesis must not carry epoch state")
		}
		return nil
	}
	if gs.BondState == nil || gs.InflationState == nil {
		return ErrInvalidGenesis.Wrap("migrated genesis requires bond and inflation state")
	}
	if gs.BondState.EffectiveBond.IsNegative() {
		return ErrInvalidGenesis.Wrap("effective bond must not be negative")
	}
	// Epoch zero is the settled sentinel of a fresh start and travels with
	// every export.
	hasSentinel := false
	seenEpochs := make(map[uint64]bool, len(gs.EpochPoints))
	for _, rec := range gs.EpochPoints {
		if rec.Epoch > gs.EpochCounter {
			return ErrInvalidGenesis.Wrapf("epoch point %d beyond counter %d", rec.Epoch, gs.EpochCounter)
		}
		if seenEpochs[rec.Epoch] {
			return ErrInvalidGenesis.Wrapf("duplicate epoch point %d", rec.Epoch)
		}
		seenEpochs[rec.Epoch] = true
		if rec.Epoch < gs.EpochCounter && !rec.Point.Settled() {
			return ErrInvalidGenesis.Wrapf("past epoch %d is not settled", rec.Epoch)
		}
		if rec.Epoch == 0 {
			hasSentinel = true
		}
	}
	if !hasSentinel {
		return ErrInvalidGenesis.Wrap("migrated genesis is missing the epoch zero sentinel")
	}
	for _, rec := range gs.UnitPoints {
		if err := rec.UnitType.Validate(); err != nil {
			return err
		}
	}
	for _, rec := range gs.UnitIncentives {
		if err := rec.UnitType.Validate(); err != nil {
			return err
		}
		if rec.Incentives.LastEpoch > gs.EpochCounter {
			return ErrInvalidGenesis.Wrapf("unit %s/%d pending epoch %d beyond counter %d",
				rec.UnitType, rec.UnitID, rec.Incentives.LastEpoch, gs.EpochCounter)
		}
	}
	for _, rec := range gs.StakerWatermarks {
		if rec.Account == "" {
			return ErrInvalidGenesis.Wrap("staker watermark with empty account")
		}
	}
	return nil
}
