// Package advisor explains why a solve produced no feasible placement and
// suggests which constraint to relax.
package advisor

import (
	"fmt"

	"github.com/geotier/solver/internal/gdss"
	"github.com/geotier/solver/pkg/model"
)

// Advisor generates diagnoses for an infeasible (or merely expensive) solve.
type Advisor struct {
	rules []Rule
}

// Rule represents a single infeasibility check.
type Rule struct {
	Type        string
	Name        string
	Description string
	Threshold   float64
	Check       RuleCheckFunc
}

// RuleCheckFunc inspects the solve context and returns zero or more
// diagnoses.
type RuleCheckFunc func(ctx *RuleContext) []Diagnosis

// RuleContext carries the instance and result a rule needs to judge
// feasibility.
type RuleContext struct {
	Store  *gdss.Store
	Result *model.SolveResult
}

// Diagnosis is a single finding: what's wrong, and how severe it is.
type Diagnosis struct {
	Type       string
	Severity   string
	Suggestion string
}

// NewAdvisor creates a new Advisor with the default rule set.
func NewAdvisor() *Advisor {
	return &Advisor{
		rules: defaultRules(),
	}
}

// NewAdvisorWithRules creates a new Advisor with a custom rule set.
func NewAdvisorWithRules(rules []Rule) *Advisor {
	return &Advisor{
		rules: rules,
	}
}

// Advise runs every rule against ctx and collects their diagnoses.
func (a *Advisor) Advise(ctx *RuleContext) []Diagnosis {
	diagnoses := make([]Diagnosis, 0)

	for _, rule := range a.rules {
		if rule.Check != nil {
			diagnoses = append(diagnoses, rule.Check(ctx)...)
		}
	}

	return diagnoses
}

// defaultRules returns the default set of infeasibility/relaxation rules.
func defaultRules() []Rule {
	return []Rule{
		{
			Type:        "feasibility",
			Name:        "replication_exceeds_dc_count",
			Description: "Check whether LC exceeds the number of data centers",
			Threshold:   0,
			Check:       checkReplicationExceedsDCCount,
		},
		{
			Type:        "feasibility",
			Name:        "fault_tolerance_too_high",
			Description: "Check whether F leaves fewer than one surviving copy",
			Threshold:   0,
			Check:       checkFaultToleranceTooHigh,
		},
		{
			Type:        "feasibility",
			Name:        "strong_sla_network_latency",
			Description: "Check whether network latency alone exceeds the SLA under strong consistency",
			Threshold:   0,
			Check:       checkStrongSLALatency,
		},
		{
			Type:        "feasibility",
			Name:        "dc_missing_storage_tiers",
			Description: "Check for data centers with no storage tiers at all",
			Threshold:   0,
			Check:       checkDCMissingStorageTiers,
		},
		{
			Type:        "cost",
			Name:        "zero_cardinality",
			Description: "Explain an empty solution family in terms of LC/F",
			Threshold:   0,
			Check:       checkZeroCardinality,
		},
	}
}

// checkReplicationExceedsDCCount flags LC > number of data centers: no
// placement can hold LC copies across fewer than LC data centers.
func checkReplicationExceedsDCCount(ctx *RuleContext) []Diagnosis {
	diagnoses := make([]Diagnosis, 0)
	if ctx.Store == nil {
		return diagnoses
	}

	lc, err := ctx.Store.LC()
	if err != nil {
		return diagnoses
	}
	numDC := ctx.Store.NumDataCenters()

	if lc > numDC {
		diagnoses = append(diagnoses, Diagnosis{
			Type:     "replication_exceeds_dc_count",
			Severity: "error",
			Suggestion: fmt.Sprintf(
				"LC=%d requires %d copies but only %d data centers are defined; lower LC or add data centers",
				lc, lc, numDC),
		})
	}

	return diagnoses
}

// checkFaultToleranceTooHigh flags F >= LC: tolerating F simultaneous
// failures while keeping LC copies needs at least F+1 replicas.
func checkFaultToleranceTooHigh(ctx *RuleContext) []Diagnosis {
	diagnoses := make([]Diagnosis, 0)
	if ctx.Store == nil {
		return diagnoses
	}

	lc, err := ctx.Store.LC()
	if err != nil {
		return diagnoses
	}
	f, err := ctx.Store.F()
	if err != nil {
		return diagnoses
	}

	if f >= lc {
		diagnoses = append(diagnoses, Diagnosis{
			Type:     "fault_tolerance_too_high",
			Severity: "error",
			Suggestion: fmt.Sprintf(
				"F=%d leaves no surviving copy when LC=%d; F must be at most LC-1", f, lc),
		})
	}

	return diagnoses
}

// checkStrongSLALatency flags data-center pairs whose network latency alone
// already exceeds the get/put SLA, which a strong-consistency placement
// can never satisfy regardless of storage tier choice.
func checkStrongSLALatency(ctx *RuleContext) []Diagnosis {
	diagnoses := make([]Diagnosis, 0)
	if ctx.Store == nil {
		return diagnoses
	}

	slaGet, err := ctx.Store.SLAGet()
	if err != nil {
		return diagnoses
	}
	slaPut, err := ctx.Store.SLAPut()
	if err != nil {
		return diagnoses
	}

	dcs := ctx.Store.DataCenters()
	for i, dc1 := range dcs {
		for _, dc2 := range dcs[i+1:] {
			latency, err := ctx.Store.NetworkLatency(dc1, dc2)
			if err != nil {
				continue
			}
			if latency > slaGet || latency > slaPut {
				diagnoses = append(diagnoses, Diagnosis{
					Type:     "strong_sla_network_latency",
					Severity: "warning",
					Suggestion: fmt.Sprintf(
						"network latency between %s and %s (%.3f) already exceeds the SLA; strong consistency across this pair is unreachable",
						dc1, dc2, latency),
				})
			}
		}
	}

	return diagnoses
}

// checkDCMissingStorageTiers flags data centers with zero storage tiers,
// which cannot host any copy.
func checkDCMissingStorageTiers(ctx *RuleContext) []Diagnosis {
	diagnoses := make([]Diagnosis, 0)
	if ctx.Store == nil {
		return diagnoses
	}

	for _, dc := range ctx.Store.DataCenters() {
		tiers, err := ctx.Store.StorageTiersIn(dc)
		if err != nil {
			continue
		}
		if len(tiers) == 0 {
			diagnoses = append(diagnoses, Diagnosis{
				Type:     "dc_missing_storage_tiers",
				Severity: "warning",
				Suggestion: fmt.Sprintf(
					"data center %s has no storage tiers and can never hold a copy", dc),
			})
		}
	}

	return diagnoses
}

// checkZeroCardinality explains an empty solution family with a generic
// LC/F/SLA explanation. It fires whenever the result is infeasible with
// cardinality "0", whether or not one of the more specific rules above
// also fires.
func checkZeroCardinality(ctx *RuleContext) []Diagnosis {
	diagnoses := make([]Diagnosis, 0)
	if ctx.Store == nil || ctx.Result == nil {
		return diagnoses
	}
	if ctx.Result.Feasible || ctx.Result.Cardinality != "0" {
		return diagnoses
	}

	lc, lcErr := ctx.Store.LC()
	f, fErr := ctx.Store.F()
	if lcErr != nil || fErr != nil {
		return diagnoses
	}

	diagnoses = append(diagnoses, Diagnosis{
		Type:     "zero_cardinality",
		Severity: "info",
		Suggestion: fmt.Sprintf(
			"no placement satisfies LC=%d, F=%d and the configured SLA; try lowering LC, lowering F, or relaxing the SLA",
			lc, f),
	})

	return diagnoses
}
