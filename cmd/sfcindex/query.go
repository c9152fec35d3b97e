package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	queryMin           []float64
	queryMax           []float64
	queryOverInclusive bool
	queryMaxRanges     int
)

func init() {
	cmd := newQueryCmd()
	cmd.Flags().Float64SliceVar(&queryMin, "min", nil, "box lower bound, one value per dimension (required)")
	cmd.Flags().Float64SliceVar(&queryMax, "max", nil, "box upper bound, one value per dimension (required)")
	cmd.Flags().BoolVar(&queryOverInclusive, "over-inclusive-on-edge", true, "treat boundary-touching cells as inside the query")
	cmd.Flags().IntVar(&queryMaxRanges, "max-ranges", 0, "cap on ranges per (tier, bin); 0 means unlimited")
	_ = cmd.MarkFlagRequired("min")
	_ = cmd.MarkFlagRequired("max")
	rootCmd.AddCommand(cmd)
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query",
		Short: "Print the scan ranges for a query box",
		Long: `query decomposes a box into the per-partition sort-key ranges a
lexicographic store would scan, given the strategy described by
--config. Ranges are grouped by (tier, bin), finer tiers first.

Example:
  sfcindex query --config strategy.json --min -1,-1,0 --max 1,1,1e9`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery()
		},
	}
}

type queryRangeView struct {
	PartitionKey string      `json:"partitionKey"`
	SortKeys     []rangeView `json:"sortKeys"`
}

type rangeView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func runQuery() error {
	cfg, err := loadStrategyConfig(configPath)
	if err != nil {
		return err
	}

	strategy, err := cfg.buildStrategy()
	if err != nil {
		return fmt.Errorf("building strategy: %w", err)
	}

	ranges, err := strategy.GetQueryRanges(queryMin, queryMax, queryOverInclusive, queryMaxRanges, nil)
	if err != nil {
		return fmt.Errorf("computing query ranges: %w", err)
	}

	out := make([]queryRangeView, len(ranges))
	for i, r := range ranges {
		sortKeys := make([]rangeView, len(r.SortKeys))
		for j, sk := range r.SortKeys {
			sortKeys[j] = rangeView{Start: hex.EncodeToString(sk.Start), End: hex.EncodeToString(sk.End)}
		}
		out[i] = queryRangeView{
			PartitionKey: hex.EncodeToString(r.PartitionKey),
			SortKeys:     sortKeys,
		}
	}

	return printJSON(out)
}
