package formatter

import (
	"fmt"
	"sort"

	"github.com/geotier/solver/pkg/model"
	"github.com/geotier/solver/pkg/utils"
)

// ordinalSuffixes maps a rank to its English ordinal suffix; ranks not
// listed use "th".
var ordinalSuffixes = map[int]string{1: "st", 2: "nd", 3: "rd"}

func ordinal(n int) string {
	suffix, ok := ordinalSuffixes[n]
	if !ok {
		suffix = "th"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// DefaultFormatter prints a solve result in the CLI's plain-text format.
type DefaultFormatter struct{}

// Format prints the solve result to log: one block for the optimal
// placement, followed by one block per ranked configuration (if any),
// or a single "No solutions found." line when infeasible.
func (f *DefaultFormatter) Format(result *model.SolveResult, log utils.Logger) {
	if result == nil {
		return
	}

	if !result.Feasible {
		log.Info("No solutions found.")
		return
	}

	log.Info("Cardinality = %s", result.Cardinality)
	log.Info("")
	printConfig(log, result.Optimal, result.ServedBy, result.OptimalCost)

	for _, ranked := range result.Ranked {
		log.Info("")
		log.Info("%s cheapest configuration:", ordinal(ranked.Rank))
		printConfig(log, ranked.Placements, ranked.ServedBy, ranked.Cost)
	}
}

// printConfig prints one configuration block: Data Placement, Target
// Locale List (per DC, sorted for determinism), and Current Cost.
func printConfig(log utils.Logger, placements []model.Placement, servedBy map[string][]model.Placement, cost float64) {
	log.Info("Data Placement")
	line := ""
	for _, p := range placements {
		line += fmt.Sprintf(" {%s,%s}", p.DataCenter, p.StorageTier)
	}
	log.Info("%s", line)

	log.Info("Target Locale List")
	dcs := make([]string, 0, len(servedBy))
	for dc := range servedBy {
		dcs = append(dcs, dc)
	}
	sort.Strings(dcs)
	for _, dc := range dcs {
		line := dc + " ->"
		for _, p := range servedBy[dc] {
			line += fmt.Sprintf(" {%s,%s}", p.DataCenter, p.StorageTier)
		}
		log.Info("%s", line)
	}

	log.Info("Current Cost = %.10f", cost)
}

// FormatSummary returns a summary map for serialization.
func (f *DefaultFormatter) FormatSummary(result *model.SolveResult) map[string]interface{} {
	if result == nil {
		return nil
	}

	summary := map[string]interface{}{
		"job_uuid":    result.JobUUID,
		"cardinality": result.Cardinality,
		"feasible":    result.Feasible,
	}

	if result.Feasible {
		summary["optimal_cost"] = result.OptimalCost
		summary["optimal"] = result.Optimal
		summary["served_by"] = result.ServedBy
		summary["ranked"] = result.Ranked
	}

	return summary
}
