package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/geotier/solver/pkg/utils"
)

var (
	// Global flags
	verbose bool
	logger  utils.Logger

	// Solve flags
	dcListFlag    bool
	strongSLAFlag bool
	openMPFlag    bool
	zddFlag       bool
	exportFlag    bool
	getConfigN    int
)

// rootCmd represents the base command. Its own Run implements the solver:
// `solver [<cost_info> <monitoring_info> <query> <goals>] [flags]`.
var rootCmd = &cobra.Command{
	Use:   "solver [cost_info] [monitoring_info] [query] [goals]",
	Short: "Geo-distributed multi-cloud storage tiering and selection solver",
	Long: `solver computes storage tier placements across geo-distributed data
centers that satisfy replication, fault-tolerance, and SLA latency
constraints, and reports the cheapest feasible configuration(s).`,
	Args: cobra.MaximumNArgs(4),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)
		return nil
	},
	RunE: runSolve,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.Flags().BoolVar(&dcListFlag, "dcList", false, "Read a whitespace-separated integer list from stdin and generate a random instance")
	rootCmd.Flags().BoolVar(&strongSLAFlag, "strongSLA", false, "Use strong consistency SLA (default eventual)")
	rootCmd.Flags().BoolVar(&openMPFlag, "openMP", false, "Enable builder parallelism (worker count from OMP_NUM_THREADS)")
	rootCmd.Flags().BoolVar(&zddFlag, "zdd", false, "Dump the reduced ZDD to stdout in DOT format")
	rootCmd.Flags().BoolVar(&exportFlag, "export", false, "Dump the reduced ZDD to stdout in the native Sapporo serialization")
	rootCmd.Flags().IntVar(&getConfigN, "getconfig", 1, "After building, enumerate the N cheapest placements")

	binName := BinName()
	rootCmd.Example = `  # Solve from four JSON documents
  ` + binName + ` cost_info.json monitoring_info.json query.json goals.json

  # Solve a random instance of 3 data centers with 2, 1, and 1 tiers
  echo "2 1 1" | ` + binName + ` --dcList

  # Enumerate the 5 cheapest configurations under the strong-consistency SLA
  ` + binName + ` cost_info.json monitoring_info.json query.json goals.json --strongSLA --getconfig 5`
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}
