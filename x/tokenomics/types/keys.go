package types

const (
	// ModuleName defines the module name.
	ModuleName = "tokenomics"

	// StoreKey defines the primary module store key.
	StoreKey = ModuleName

	// RouterKey is the message route for the module.
	RouterKey = ModuleName
)

// Collection prefixes. Values are stable; never reorder or reuse.
var (
	ParamsPrefix            = []byte{0x01}
	ExternalsPrefix         = []byte{0x02}
	EpochCounterPrefix      = []byte{0x03}
	EpochPointPrefix        = []byte{0x04}
	UnitPointPrefix         = []byte{0x05}
	StakerPointPrefix       = []byte{0x06}
	UnitIncentivePrefix     = []byte{0x07}
	SeenUnitPrefix          = []byte{0x08}
	SeenOwnerPrefix         = []byte{0x09}
	StakerWatermarkPrefix   = []byte{0x0A}
	BondStatePrefix         = []byte{0x0B}
	InflationStatePrefix    = []byte{0x0C}
	LastDonationBlockPrefix = []byte{0x0D}
)
