package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cmtbytes "github.com/cometbft/cometbft/libs/bytes"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dias878/autonolas-tokenomics/x/tokenomics/types"
)

// Module state is stored as JSON values under fixed collection prefixes, so
// the query commands read the raw store and decode client-side instead of
// going through a gRPC query service.

// GetQueryCmd returns the query commands for the module.
func GetQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("Querying commands for the %s module", types.ModuleName),
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(CmdQueryParams())
	cmd.AddCommand(CmdQueryEpoch())
	cmd.AddCommand(CmdQueryIncentives())
	cmd.AddCommand(CmdQueryBondState())

	return cmd
}

// CmdQueryParams creates a CLI query command for the tokenomics parameters.
func CmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Query the tokenomics parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			var params types.Params
			if err := queryStoreJSON(clientCtx, types.ParamsPrefix, &params); err != nil {
				return err
			}
			return printJSON(clientCtx, params)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)

	return cmd
}

type epochReport struct {
	Epoch        uint64            `json:"epoch"`
	Point        types.EpochPoint  `json:"point"`
	Components   types.UnitPoint   `json:"components"`
	Agents       types.UnitPoint   `json:"agents"`
	Stakers      types.StakerPoint `json:"stakers"`
	Settled      bool              `json:"settled"`
	EffectiveIDF string            `json:"effective_idf"`
}

// CmdQueryEpoch creates a CLI query command for a single epoch's accounting
// record. Without an argument it reports the current open epoch.
func CmdQueryEpoch() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "epoch [epoch-number]",
		Short: "Query the accounting record of an epoch (defaults to the open epoch)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			var epoch uint64
			if len(args) == 1 {
				epoch, err = strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid epoch number %q: %w", args[0], err)
				}
			} else {
				raw, _, err := clientCtx.QueryStore(cmtbytes.HexBytes(types.EpochCounterPrefix), types.StoreKey)
				if err != nil {
					return err
				}
				if len(raw) == 0 {
					return fmt.Errorf("epoch counter not found; is the module initialized?")
				}
				epoch = sdk.BigEndianToUint64(raw)
			}

			report := epochReport{Epoch: epoch}
			if err := queryStoreJSON(clientCtx, uint64MapKey(types.EpochPointPrefix, epoch), &report.Point); err != nil {
				return err
			}
			if err := queryStoreJSON(clientCtx, pairMapKey(types.UnitPointPrefix, epoch, uint64(types.UnitTypeComponent)), &report.Components); err != nil {
				return err
			}
			if err := queryStoreJSON(clientCtx, pairMapKey(types.UnitPointPrefix, epoch, uint64(types.UnitTypeAgent)), &report.Agents); err != nil {
				return err
			}
			// The staker point may be absent when its fractions are zero.
			_ = queryStoreJSON(clientCtx, uint64MapKey(types.StakerPointPrefix, epoch), &report.Stakers)

			report.Settled = report.Point.Settled()
			report.EffectiveIDF = report.Point.EffectiveIDF().String()

			return printJSON(clientCtx, report)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)

	return cmd
}

// CmdQueryIncentives creates a CLI query command for a unit's incentive
// balances.
func CmdQueryIncentives() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incentives [unit-type] [unit-id]",
		Short: "Query the incentive balances of a component or agent",
		Long: "Reports the claimable and still-pending reward and top-up balances of a\n" +
			"registry unit. unit-type is \"component\" or \"agent\".",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			unitType, err := parseUnitType(args[0])
			if err != nil {
				return err
			}
			unitID, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid unit id %q: %w", args[1], err)
			}

			// A unit with no recorded donations simply has zero balances.
			bal := types.NewIncentiveBalances()
			key := pairMapKey(types.UnitIncentivePrefix, uint64(unitType), unitID)
			raw, _, err := clientCtx.QueryStore(cmtbytes.HexBytes(key), types.StoreKey)
			if err != nil {
				return err
			}
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &bal); err != nil {
					return err
				}
			}
			return printJSON(clientCtx, bal)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)

	return cmd
}

// CmdQueryBondState creates a CLI query command for the bonding capacity.
func CmdQueryBondState() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bond-state",
		Short: "Query the projected and unreserved bonding capacity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			var bs types.BondState
			if err := queryStoreJSON(clientCtx, types.BondStatePrefix, &bs); err != nil {
				return err
			}
			return printJSON(clientCtx, bs)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)

	return cmd
}

func parseUnitType(raw string) (types.UnitType, error) {
	switch raw {
	case "component", "0":
		return types.UnitTypeComponent, nil
	case "agent", "1":
		return types.UnitTypeAgent, nil
	default:
		return 0, fmt.Errorf("invalid unit type %q: expected component or agent", raw)
	}
}

// uint64MapKey builds the raw store key of a collections map entry keyed by a
// single uint64.
func uint64MapKey(prefix []byte, k uint64) []byte {
	return append(append([]byte{}, prefix...), sdk.Uint64ToBigEndian(k)...)
}

// pairMapKey builds the raw store key of a collections map entry keyed by a
// (uint64, uint64) pair.
func pairMapKey(prefix []byte, k1, k2 uint64) []byte {
	key := append(append([]byte{}, prefix...), sdk.Uint64ToBigEndian(k1)...)
	return append(key, sdk.Uint64ToBigEndian(k2)...)
}

func queryStoreJSON(clientCtx client.Context, key []byte, out any) error {
	raw, _, err := clientCtx.QueryStore(cmtbytes.HexBytes(key), types.StoreKey)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return fmt.Errorf("no value at key %X in the %s store", key, types.StoreKey)
	}
	return json.Unmarshal(raw, out)
}

func printJSON(clientCtx client.Context, v any) error {
	rendered, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return clientCtx.PrintString(string(rendered) + "\n")
}
