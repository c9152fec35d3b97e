package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var insertPoint []float64

func init() {
	cmd := newInsertCmd()
	cmd.Flags().Float64SliceVar(&insertPoint, "point", nil, "one value per dimension, in config order (required)")
	_ = cmd.MarkFlagRequired("point")
	rootCmd.AddCommand(cmd)
}

func newInsertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insert",
		Short: "Print the insertion ids for a data tuple",
		Long: `insert computes the (partitionKey, [sortKey]) insertion ids a single
data point would be written under, given the strategy described by
--config.

Example:
  sfcindex insert --config strategy.json --point 45,45,920458861`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert()
		},
	}
}

type insertionIDView struct {
	PartitionKey string   `json:"partitionKey"`
	SortKeys     []string `json:"sortKeys"`
}

func runInsert() error {
	cfg, err := loadStrategyConfig(configPath)
	if err != nil {
		return err
	}

	strategy, err := cfg.buildStrategy()
	if err != nil {
		return fmt.Errorf("building strategy: %w", err)
	}

	ids, err := strategy.GetInsertionIDs(insertPoint, insertPoint, nil)
	if err != nil {
		return fmt.Errorf("computing insertion ids: %w", err)
	}

	out := make([]insertionIDView, len(ids))
	for i, id := range ids {
		sortKeys := make([]string, len(id.SortKeys))
		for j, sk := range id.SortKeys {
			sortKeys[j] = hex.EncodeToString(sk)
		}
		out[i] = insertionIDView{
			PartitionKey: hex.EncodeToString(id.PartitionKey),
			SortKeys:     sortKeys,
		}
	}

	return printJSON(out)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
