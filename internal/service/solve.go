package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/geotier/solver/internal/constraint"
	"github.com/geotier/solver/internal/encode"
	"github.com/geotier/solver/internal/enumerate"
	"github.com/geotier/solver/internal/eval"
	"github.com/geotier/solver/internal/formatter"
	"github.com/geotier/solver/internal/gdss"
	"github.com/geotier/solver/internal/zdd"
	"github.com/geotier/solver/pkg/compression"
	apperrors "github.com/geotier/solver/pkg/errors"
	"github.com/geotier/solver/pkg/model"
	"github.com/geotier/solver/pkg/parallel"
	"github.com/geotier/solver/pkg/writer"
)

// Solve runs the full pipeline (load, encode, build, reduce, evaluate,
// enumerate) against a single job and returns its result. It does not
// touch the database or object storage; callers (the CLI, the scheduler
// processor) are responsible for persisting the returned result and
// uploading any export artifacts it names.
func (s *Service) Solve(ctx context.Context, job *model.SolveJob) (*model.SolveResult, error) {
	store, err := s.loadStore(job)
	if err != nil {
		return nil, fmt.Errorf("failed to load instance: %w", err)
	}

	enc := encode.New(store)

	spec, err := constraint.New(store, enc, job.SLA)
	if err != nil {
		return nil, fmt.Errorf("failed to build constraint spec: %w", err)
	}

	dd, err := s.buildZdd(ctx, spec, job.ParallelBuild)
	if err != nil {
		return nil, fmt.Errorf("failed to build zdd: %w", err)
	}

	dd = zdd.Reduce(dd)
	dd = zdd.Compact(dd)

	result := &model.SolveResult{
		JobUUID:    job.JobUUID,
		BuildNodes: dd.Size(),
	}
	result.Cardinality = eval.Cardinality(dd).String()

	if dd.IsEmpty() {
		result.Feasible = false
		return result, apperrors.ErrSolveInfeasible
	}
	result.Feasible = true
	result.ReduceNodes = dd.Size()

	costs, err := eval.CostList(enc, store)
	if err != nil {
		return nil, fmt.Errorf("failed to build cost list: %w", err)
	}

	evaluator := eval.NewEvaluator(enc, store)
	optimal, err := evaluator.Evaluate(dd)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate optimal configuration: %w", err)
	}
	result.OptimalCost = optimal.Cost
	result.Optimal = optimal.Placements
	result.ServedBy = optimal.ServedBy

	if job.ExportZDD {
		exportPath, dotPath, summaryPath, err := s.exportArtifacts(job, dd, result)
		if err != nil {
			s.logger.Warn("Failed to export zdd artifacts for job %s: %v", job.JobUUID, err)
		} else {
			result.ExportPath = exportPath
			result.DotPath = dotPath
			result.SummaryPath = summaryPath
		}
	}

	// rankConfigs destructively consumes dd (Algorithm B subtracts each
	// chosen path as it goes), so it must run after everything else
	// that reads dd.
	if job.GetConfigN > 1 {
		ranked, err := s.rankConfigs(dd, costs, job.GetConfigN, enc, store)
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate configurations: %w", err)
		}
		result.Ranked = ranked
	}

	return result, nil
}

// loadStore builds the gdss.Store for a job, either from its four JSON
// documents or, for a random instance, from its DCTiers list.
func (s *Service) loadStore(job *model.SolveJob) (*gdss.Store, error) {
	if job.IsRandomInstance() {
		var dcList []int
		if err := json.Unmarshal([]byte(job.DCTiers), &dcList); err != nil {
			return nil, fmt.Errorf("failed to decode dc_tiers: %w", err)
		}
		rng := rand.New(rand.NewPCG(uint64(job.ID), uint64(job.DCList)))
		return gdss.NewRandomInstance(dcList, rng)
	}

	return gdss.LoadJSON([]byte(job.CostInfo), []byte(job.MonitoringInfo), []byte(job.Query), []byte(job.Goals))
}

// buildZdd builds the ZDD for spec, using the parallel builder whenever
// the job requests it. A positive Solver.MaxWorker sets that builder's
// worker count; otherwise the pool's default count is used.
func (s *Service) buildZdd(ctx context.Context, spec *constraint.Spec, parallelBuild bool) (*zdd.Zdd, error) {
	if !parallelBuild {
		return zdd.NewBuilder[*constraint.Mate](spec).Build()
	}

	cfg := parallel.DefaultPoolConfig()
	if s.config != nil && s.config.Solver.MaxWorker > 0 {
		cfg = cfg.WithWorkers(s.config.Solver.MaxWorker)
	}
	return zdd.NewParallelBuilder[*constraint.Mate](spec, cfg).Build(ctx)
}

// rankConfigs enumerates up to n configurations in nondecreasing cost
// order using Algorithm B, consumes dd, and converts each solution's
// decision levels back into placements via eval.FromLevels.
func (s *Service) rankConfigs(dd *zdd.Zdd, costs []float64, n int, enc *encode.Encoder, store *gdss.Store) ([]model.RankedPlacement, error) {
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

// exportArtifacts writes the reduced ZDD's zstd-compressed Sapporo dump,
// its DOT graph, and a pretty-printed JSON result summary to the job's
// staging directory for later upload by the caller.
func (s *Service) exportArtifacts(job *model.SolveJob, dd *zdd.Zdd, result *model.SolveResult) (string, string, string, error) {
	dir := job.JobUUID
	if s.config != nil {
		dir = s.config.GetJobDir(job.JobUUID)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", "", err
	}

	var sapporo bytes.Buffer
	if err := zdd.DumpSapporo(&sapporo, dd); err != nil {
		return "", "", "", err
	}
	zstdComp, err := compression.NewZstdCompressor(compression.LevelDefault)
	if err != nil {
		return "", "", "", err
	}
	compressed, err := zstdComp.Compress(sapporo.Bytes())
	if err != nil {
		return "", "", "", err
	}
	exportPath := filepath.Join(dir, "solution.zdd.zst")
	if err := os.WriteFile(exportPath, compressed, 0644); err != nil {
		return "", "", "", err
	}

	dotPath := filepath.Join(dir, "solution.dot")
	df, err := os.Create(dotPath)
	if err != nil {
		return "", "", "", err
	}
	defer df.Close()
	if err := zdd.DumpDot(df, dd, job.JobUUID); err != nil {
		return "", "", "", err
	}

	summaryPath := filepath.Join(dir, "summary.json")
	summaryWriter := writer.NewPrettyJSONWriter[map[string]interface{}]()
	f := &formatter.DefaultFormatter{}
	if err := summaryWriter.WriteToFile(f.FormatSummary(result), summaryPath); err != nil {
		return "", "", "", err
	}

	return exportPath, dotPath, summaryPath, nil
}
