package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geotier/solver/internal/testutil"
	apperrors "github.com/geotier/solver/pkg/errors"
	"github.com/geotier/solver/pkg/config"
	"github.com/geotier/solver/pkg/model"
	"github.com/geotier/solver/pkg/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		Solver: config.SolverConfig{
			DefaultSLA:        "eventual",
			DefaultGetConfigN: 1,
			DataDir:           "./test_data",
		},
		Database: config.DatabaseConfig{
			Type: "sqlite",
		},
		Storage: config.StorageConfig{
			Type:      "local",
			LocalPath: "./test_storage",
		},
		Scheduler: config.SchedulerConfig{
			WorkerCount:   5,
			PollInterval:  2,
			PrioritySlots: 2,
			TaskBatchSize: 10,
		},
	}
}

func TestService_New(t *testing.T) {
	cfg := testConfig()

	t.Run("WithLogger", func(t *testing.T) {
		logger := utils.NewDefaultLogger(utils.LevelInfo, nil)
		svc, err := New(cfg, logger)
		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.False(t, svc.IsRunning())
	})

	t.Run("WithoutLogger", func(t *testing.T) {
		svc, err := New(cfg, nil)
		require.NoError(t, err)
		require.NotNil(t, svc)
	})
}

func TestService_Stats(t *testing.T) {
	svc, err := New(testConfig(), nil)
	require.NoError(t, err)

	stats := svc.Stats()
	assert.False(t, stats.Running)
}

func TestServiceStats_Running(t *testing.T) {
	stats := ServiceStats{
		Running: true,
	}
	assert.True(t, stats.Running)
}

func TestService_HealthCheck_NoComponents(t *testing.T) {
	svc, err := New(testConfig(), nil)
	require.NoError(t, err)

	// HealthCheck should not fail when components (db, storage, scheduler)
	// have not been initialized yet.
	err = svc.HealthCheck(context.Background())
	assert.NoError(t, err)
}

func TestService_IsRunning_BeforeStart(t *testing.T) {
	svc, err := New(testConfig(), nil)
	require.NoError(t, err)
	assert.False(t, svc.IsRunning())
}

// TestService_Solve_FromJSONDocuments exercises Solve end-to-end against a
// feasible two-DC instance, without going through Initialize/Start (no
// database or storage is touched by Solve itself).
func TestService_Solve_FromJSONDocuments(t *testing.T) {
	svc, err := New(testConfig(), nil)
	require.NoError(t, err)

	job := model.NewSolveJob(1, "test-job-uuid", model.SLAModeEventual)
	job.CostInfo = testutil.TwoDCCostInfo
	job.MonitoringInfo = testutil.TwoDCMonitoringInfo
	job.Query = testutil.TwoDCQuery
	job.Goals = testutil.TwoDCGoals
	job.GetConfigN = 1

	result, err := svc.Solve(context.Background(), job)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Feasible)
	assert.NotEmpty(t, result.Cardinality)
	assert.NotEmpty(t, result.Optimal)
	assert.NotEmpty(t, result.ServedBy)
}

// TestService_Solve_RankedConfigs exercises the GetConfigN > 1 ranking path.
func TestService_Solve_RankedConfigs(t *testing.T) {
	svc, err := New(testConfig(), nil)
	require.NoError(t, err)

	job := model.NewSolveJob(2, "test-job-uuid-ranked", model.SLAModeEventual)
	job.CostInfo = testutil.TwoDCCostInfo
	job.MonitoringInfo = testutil.TwoDCMonitoringInfo
	job.Query = testutil.TwoDCQuery
	job.Goals = testutil.TwoDCGoals
	job.GetConfigN = 3

	result, err := svc.Solve(context.Background(), job)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Feasible)
}

// TestService_Solve_InfeasibleGoals exercises a goal set that cannot be
// satisfied by a two-DC instance (LC larger than the number of data
// centers): Solve reports this via the informational ErrSolveInfeasible,
// not a hard failure.
func TestService_Solve_InfeasibleGoals(t *testing.T) {
	svc, err := New(testConfig(), nil)
	require.NoError(t, err)

	job := model.NewSolveJob(3, "test-job-uuid-infeasible", model.SLAModeEventual)
	job.CostInfo = testutil.TwoDCCostInfo
	job.MonitoringInfo = testutil.TwoDCMonitoringInfo
	job.Query = testutil.TwoDCQuery
	job.Goals = `{"center": "DC1", "get_sla": 10.0, "put_sla": 10.0, "lc": 5, "degree_of_fault": 0}`
	job.GetConfigN = 1

	result, err := svc.Solve(context.Background(), job)
	require.Error(t, err)
	assert.True(t, apperrors.IsSolveInfeasible(err))
	require.NotNil(t, result)
	assert.False(t, result.Feasible)
}
