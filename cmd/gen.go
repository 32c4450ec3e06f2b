package cmd

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"

	"parsort/numio"
)

var genSeed int64
var genMax uint64

func init() {
	genCmd.Flags().Int64Var(&genSeed, "seed", 42,
		"Random seed, fixed for reproducible inputs")
	genCmd.Flags().Uint64Var(&genMax, "max", 0,
		"Exclusive upper bound of generated values (0 for the full uint64 range)")

	rootCmd.AddCommand(genCmd)
}

var genCmd = &cobra.Command{
	Use:   "gen <count> [file]",
	Short: "Generate a random input file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := strconv.Atoi(args[0])
		if err != nil || count < 0 {
			return errors.Errorf("invalid count %q", args[0])
		}
		file := defaultInput
		if len(args) > 1 {
			file = args[1]
		}

		if err := numio.WriteFile(file, numio.Generate(count, genSeed, genMax)); err != nil {
			return err
		}
		jww.INFO.Printf("Generated %d numbers into %s", count, file)
		return nil
	},
}
