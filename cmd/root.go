// Package cmd initializes the CLI and config parsers as well as the logger.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"parsort/kvdb"
	"parsort/numio"
	psort "parsort/sort"
)

const (
	defaultInput  = "./input.txt"
	defaultOutput = "./output.txt"
)

var cfgFile string

// rootCmd represents the base command when called without any sub-commands
var rootCmd = &cobra.Command{
	Use:   "parsort [threads] [file]",
	Short: "Sorts 64-bit numbers in parallel",
	Long: `parsort splits the input into one chunk per thread, merge-sorts every
chunk on its own goroutine and merges the sorted chunks into the output file.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		threads := viper.GetString("workers")
		if len(args) > 0 {
			threads = args[0]
		}
		input := viper.GetString("input")
		if len(args) > 1 {
			input = args[1]
		}

		opts := sortOptions{
			Workers:   parseWorkers(threads),
			Strategy:  viper.GetString("strategy"),
			Input:     input,
			Output:    viper.GetString("output"),
			Store:     viper.GetString("store"),
			StorePath: viper.GetString("storePath"),
			Dataset:   viper.GetString("dataset"),
			SaveAs:    viper.GetString("saveAs"),
			Verify:    viper.GetBool("verify"),
		}
		res, err := runSort(opts)
		if err != nil {
			return err
		}
		fmt.Printf("MergeSort: %d\n", res.Elapsed.Microseconds())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.  This is called by main.main(). It only needs to
// happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		jww.ERROR.Printf("parsort exiting with error: %+v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLog)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "",
		"config file (default is $HOME/.parsort/parsort.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"Verbose mode for debugging")
	rootCmd.PersistentFlags().String("log", "",
		"Write logs to this file instead of stdout")

	rootCmd.Flags().StringP("output", "o", defaultOutput,
		"Output file, one number per line (empty to skip)")
	rootCmd.Flags().StringP("strategy", "s", string(psort.StrategyTree),
		"How sorted chunks are merged: tree or fold")
	rootCmd.Flags().String("store", "",
		"kvdb backend to read/write datasets: "+strings.Join(kvdb.Backends(), ", "))
	rootCmd.Flags().String("store-path", "",
		"Location of the kvdb store (default ./parsort-<backend>)")
	rootCmd.Flags().String("dataset", "",
		"Read input from this dataset of --store instead of a file")
	rootCmd.Flags().String("save-as", "",
		"Also save the sorted result as this dataset of --store")
	rootCmd.Flags().Bool("verify", false,
		"Check that the output is sorted and complete")

	viper.SetDefault("workers", "1")
	viper.SetDefault("input", defaultInput)

	bindFlag("verbose", rootCmd.PersistentFlags(), "verbose")
	bindFlag("log", rootCmd.PersistentFlags(), "log")
	bindFlag("output", rootCmd.Flags(), "output")
	bindFlag("strategy", rootCmd.Flags(), "strategy")
	bindFlag("store", rootCmd.Flags(), "store")
	bindFlag("storePath", rootCmd.Flags(), "store-path")
	bindFlag("dataset", rootCmd.Flags(), "dataset")
	bindFlag("saveAs", rootCmd.Flags(), "save-as")
	bindFlag("verify", rootCmd.Flags(), "verify")
}

func bindFlag(key string, flags *pflag.FlagSet, name string) {
	if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		jww.FATAL.Panicf("Error on binding flag \"%s\":%+v", name, err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("parsort")
	viper.AutomaticEnv()

	//Use default config location if none is passed
	if cfgFile == "" {
		home, err := homedir.Dir()
		if err != nil {
			jww.WARN.Printf("Unable to find home directory: %s", err)
			return
		}
		cfgFile = filepath.Join(home, ".parsort", "parsort.yaml")
		// 기본 위치의 설정 파일은 선택 사항
		if _, err := os.Stat(cfgFile); err != nil {
			return
		}
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		jww.FATAL.Panicf("Unable to read config file (%s): %s", cfgFile, err)
	}
	jww.DEBUG.Printf("Using config file %s", viper.ConfigFileUsed())
}

// initLog initializes logging thresholds and the log path.
func initLog() {
	// If verbose flag set then log more info for debugging
	if viper.GetBool("verbose") {
		jww.SetLogThreshold(jww.LevelDebug)
		jww.SetStdoutThreshold(jww.LevelDebug)
	} else {
		jww.SetLogThreshold(jww.LevelInfo)
		jww.SetStdoutThreshold(jww.LevelWarn)
	}

	if logPath := viper.GetString("log"); logPath != "" {
		// Create log file, overwrites if existing
		logFile, err := os.Create(logPath)
		if err != nil {
			fmt.Printf("Invalid log path %s, logging to stdout.\n", logPath)
			return
		}
		jww.SetLogOutput(logFile)
	}
}

// parseWorkers 스레드 수 인자를 해석. 비어 있거나, 숫자가 아니거나, 0 이하면 1.
func parseWorkers(arg string) int {
	if strings.TrimSpace(arg) == "" {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		jww.WARN.Printf("Invalid thread count %q, using 1", arg)
		return 1
	}
	return n
}

// resolveStorePath 경로가 없으면 백엔드별 기본 경로
func resolveStorePath(backend, path string) string {
	if path != "" {
		return path
	}
	return "./parsort-" + strings.ToLower(backend)
}

// sortOptions 루트 명령 한 번 실행에 필요한 값들
type sortOptions struct {
	Workers   int
	Strategy  string
	Input     string
	Output    string
	Store     string
	StorePath string
	Dataset   string
	SaveAs    string
	Verify    bool
}

// runSort 입력을 읽고, 병렬 정렬 후 결과를 파일/데이터셋으로 쓴다
func runSort(opts sortOptions) (*psort.Result, error) {
	strategy, err := psort.ParseStrategy(opts.Strategy)
	if err != nil {
		return nil, err
	}
	cfg := psort.Config{Workers: opts.Workers, Strategy: strategy}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var store kvdb.Store
	if opts.Store != "" {
		store, err = kvdb.Open(opts.Store, resolveStorePath(opts.Store, opts.StorePath))
		if err != nil {
			return nil, err
		}
		defer store.Close()
	} else if opts.Dataset != "" || opts.SaveAs != "" {
		return nil, errors.New("--dataset and --save-as require --store")
	}

	var data []uint64
	if opts.Dataset != "" {
		jww.INFO.Printf("Reading dataset %q from %s", opts.Dataset, opts.Store)
		data, err = store.Load(opts.Dataset)
	} else {
		jww.INFO.Printf("Reading %s", opts.Input)
		data, err = numio.ReadFile(opts.Input)
	}
	if err != nil {
		return nil, err
	}

	jww.INFO.Printf("Sorting %d numbers with %d workers (%s merge)",
		len(data), cfg.Workers, cfg.Strategy)
	res, err := psort.Sort(data, cfg)
	if err != nil {
		return nil, err
	}
	jww.INFO.Printf("MergeSort: %d µs", res.Elapsed.Microseconds())

	if opts.Verify {
		if len(res.Sorted) != len(data) || !slices.IsSorted(res.Sorted) {
			return nil, errors.New("verification failed: output is unsorted or incomplete")
		}
		jww.INFO.Printf("Verified %d numbers", len(res.Sorted))
	}

	if opts.Output != "" {
		if err := numio.WriteFile(opts.Output, res.Sorted); err != nil {
			return nil, err
		}
		jww.INFO.Printf("Wrote %s", opts.Output)
	}
	if opts.SaveAs != "" {
		if err := store.Save(opts.SaveAs, res.Sorted); err != nil {
			return nil, err
		}
		jww.INFO.Printf("Saved dataset %q to %s", opts.SaveAs, opts.Store)
	}
	return res, nil
}
