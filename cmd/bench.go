package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"

	"parsort/bench"
)

var benchOpts = bench.DefaultOptions()
var benchJSON string
var benchMarkdown string

func init() {
	benchCmd.Flags().IntSliceVar(&benchOpts.Sizes, "sizes", benchOpts.Sizes,
		"Data sizes to benchmark")
	benchCmd.Flags().IntSliceVarP(&benchOpts.Workers, "workers", "w", benchOpts.Workers,
		"Worker counts for the parallel sorts")
	benchCmd.Flags().IntVarP(&benchOpts.Runs, "runs", "r", benchOpts.Runs,
		"Repetitions per configuration")
	benchCmd.Flags().StringSliceVar(&benchOpts.Storages, "storage", benchOpts.Storages,
		"Where the data is loaded from on every run: memory, file, bbolt, badger, pebble")
	benchCmd.Flags().StringVar(&benchOpts.Dir, "dir", "",
		"Scratch directory for file and kvdb storage (default: temp dir)")
	benchCmd.Flags().Int64Var(&benchOpts.Seed, "seed", benchOpts.Seed,
		"Random seed for the generated data")
	benchCmd.Flags().StringVar(&benchJSON, "json", "benchmark_results.json",
		"JSON report path (empty to skip)")
	benchCmd.Flags().StringVar(&benchMarkdown, "markdown", "benchmark_results.md",
		"Markdown report path (empty to skip)")

	rootCmd.AddCommand(benchCmd)
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark sequential and parallel sorts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := bench.Run(benchOpts)
		if err != nil {
			return err
		}

		if benchJSON != "" {
			if err := bench.SaveJSON(benchJSON, results); err != nil {
				return err
			}
			jww.INFO.Printf("Wrote %s", benchJSON)
		}
		if benchMarkdown != "" {
			if err := bench.SaveMarkdown(benchMarkdown, results); err != nil {
				return err
			}
			jww.INFO.Printf("Wrote %s", benchMarkdown)
		}
		fmt.Printf("Benchmark finished: %d runs\n", len(results))
		return nil
	},
}
