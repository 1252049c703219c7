package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geotier/solver/internal/advisor"
	"github.com/geotier/solver/internal/constraint"
	"github.com/geotier/solver/internal/encode"
	"github.com/geotier/solver/internal/enumerate"
	"github.com/geotier/solver/internal/eval"
	"github.com/geotier/solver/internal/formatter"
	"github.com/geotier/solver/internal/gdss"
	"github.com/geotier/solver/internal/zdd"
	apperrors "github.com/geotier/solver/pkg/errors"
	"github.com/geotier/solver/pkg/model"
	"github.com/geotier/solver/pkg/parallel"
	"github.com/geotier/solver/pkg/utils"
)

// runSolve implements the solver's single command: load an instance (from
// four JSON documents or a random -dcList instance), build and reduce its
// ZDD, evaluate the optimal configuration, and optionally enumerate the N
// cheapest configurations.
func runSolve(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	store, err := loadInstance(args)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeCLIUsage, "failed to load instance", err)
	}

	sla := model.SLAModeEventual
	if strongSLAFlag {
		sla = model.SLAModeStrong
	}

	enc := encode.New(store)
	spec, err := constraint.New(store, enc, sla)
	if err != nil {
		return fmt.Errorf("failed to build constraint spec: %w", err)
	}

	dd, err := buildZdd(cmd.Context(), spec)
	if err != nil {
		return fmt.Errorf("failed to build zdd: %w", err)
	}
	dd = zdd.Reduce(dd)
	dd = zdd.Compact(dd)

	log.Info("Cardinality = %s", eval.Cardinality(dd).String())

	if zddFlag {
		if err := zdd.DumpDot(os.Stdout, dd, "solver"); err != nil {
			return fmt.Errorf("failed to dump zdd: %w", err)
		}
	}
	if exportFlag {
		if err := zdd.DumpSapporo(os.Stdout, dd); err != nil {
			return fmt.Errorf("failed to export zdd: %w", err)
		}
	}

	if dd.IsEmpty() {
		log.Info("No solutions found.")
		reportDiagnoses(log, store, &model.SolveResult{Feasible: false, Cardinality: eval.Cardinality(dd).String()})
		return nil
	}

	costs, err := eval.CostList(enc, store)
	if err != nil {
		return fmt.Errorf("failed to build cost list: %w", err)
	}

	result := &model.SolveResult{Feasible: true}
	f := &formatter.DefaultFormatter{}

	if getConfigN > 1 {
		ranked, err := rankConfigs(dd, costs, getConfigN, enc, store)
		if err != nil {
			return fmt.Errorf("failed to enumerate configurations: %w", err)
		}
		if len(ranked) > 0 {
			result.OptimalCost = ranked[0].Cost
			result.Optimal = ranked[0].Placements
			result.ServedBy = ranked[0].ServedBy
			result.Ranked = ranked[1:]
		}
	} else {
		evaluator := eval.NewEvaluator(enc, store)
		optimal, err := evaluator.Evaluate(dd)
		if err != nil {
			return fmt.Errorf("failed to evaluate optimal configuration: %w", err)
		}
		result.OptimalCost = optimal.Cost
		result.Optimal = optimal.Placements
		result.ServedBy = optimal.ServedBy
	}

	f.Format(result, log)
	return nil
}

// reportDiagnoses runs the default advisor rules against an infeasible
// (or cardinality-zero) result and logs each suggestion to stderr-bound
// warning output, helping a caller decide which constraint to relax.
func reportDiagnoses(log utils.Logger, store *gdss.Store, result *model.SolveResult) {
	diag := utils.NewDefaultLogger(utils.LevelWarn, os.Stderr)
	adv := advisor.NewAdvisor()
	for _, d := range adv.Advise(&advisor.RuleContext{Store: store, Result: result}) {
		diag.Warn("[%s] %s", d.Severity, d.Suggestion)
	}
}

// loadInstance builds a gdss.Store either from args (the four JSON document
// paths) or, when --dcList is set, from a random instance whose per-DC
// tier counts are read from stdin.
func loadInstance(args []string) (*gdss.Store, error) {
	if dcListFlag {
		dcList, err := readDCList(os.Stdin)
		if err != nil {
			return nil, err
		}
		rng := rand.New(rand.NewPCG(0, 0))
		return gdss.NewRandomInstance(dcList, rng)
	}

	if len(args) != 4 {
		return nil, errors.New("expected 4 positional arguments (cost_info, monitoring_info, query, goals) unless --dcList is given")
	}

	return gdss.LoadJSONFiles(args[0], args[1], args[2], args[3])
}

// readDCList reads one whitespace-separated list of integers from r.
func readDCList(r *os.File) ([]int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var dcList []int
	for scanner.Scan() {
		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			return nil, fmt.Errorf("invalid dcList entry %q: %w", scanner.Text(), err)
		}
		dcList = append(dcList, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(dcList) == 0 {
		return nil, errors.New("dcList is empty")
	}
	return dcList, nil
}

// buildZdd builds the ZDD for spec, using the parallel builder when
// --openMP is set.
func buildZdd(ctx context.Context, spec *constraint.Spec) (*zdd.Zdd, error) {
	if !openMPFlag {
		return zdd.NewBuilder[*constraint.Mate](spec).Build()
	}

	cfg := parallel.DefaultPoolConfig()
	if n := ompNumThreads(); n > 0 {
		cfg = cfg.WithWorkers(n)
	}
	return zdd.NewParallelBuilder[*constraint.Mate](spec, cfg).Build(ctx)
}

// ompNumThreads reads OMP_NUM_THREADS, returning 0 if unset or invalid.
func ompNumThreads() int {
	v := os.Getenv("OMP_NUM_THREADS")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// rankConfigs enumerates up to n configurations in nondecreasing cost
// order using Algorithm B, consuming dd.
func rankConfigs(dd *zdd.Zdd, costs []float64, n int, enc *encode.Encoder, store *gdss.Store) ([]model.RankedPlacement, error) {
	it := enumerate.NewMinimizingIterator(dd, costs)
	ranked := make([]model.RankedPlacement, 0, n)
	for rank := 1; rank <= n; rank++ {
		sol, ok := it.Next()
		if !ok {
			break
		}
		cfg, err := eval.FromLevels(enc, store, sol.Levels)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, model.RankedPlacement{
			Rank:       rank,
			Cost:       sol.Cost,
			Placements: cfg.Placements,
			ServedBy:   cfg.ServedBy,
		})
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return ranked, nil
}
