package advisor

import (
	"testing"

	"github.com/geotier/solver/internal/gdss"
	"github.com/geotier/solver/pkg/model"
)

func newTestStore(t *testing.T) *gdss.Store {
	t.Helper()
	return newTestStoreWithGoals(t, 2, 1, 0.2)
}

// newTestStoreWithGoals builds the three data center test topology with the
// given goals. Goals are set-once on a gdss.Store, so tests that need other
// values build their store through this helper instead of re-setting them.
func newTestStoreWithGoals(t *testing.T, lc, f int, sla float64) *gdss.Store {
	t.Helper()
	s := gdss.New()
	for _, dc := range []string{"DC1", "DC2", "DC3"} {
		if err := s.AddStorageTier(dc, "ST1"); err != nil {
			t.Fatalf("AddStorageTier(%s): %v", dc, err)
		}
	}
	if err := s.SetSLAGet(sla); err != nil {
		t.Fatalf("SetSLAGet: %v", err)
	}
	if err := s.SetSLAPut(sla); err != nil {
		t.Fatalf("SetSLAPut: %v", err)
	}
	if err := s.SetLC(lc); err != nil {
		t.Fatalf("SetLC: %v", err)
	}
	if err := s.SetF(f); err != nil {
		t.Fatalf("SetF: %v", err)
	}
	dcs := []string{"DC1", "DC2", "DC3"}
	for i, dc1 := range dcs {
		for _, dc2 := range dcs[i+1:] {
			if err := s.SetNetworkLatency(dc1, dc2, 0.05); err != nil {
				t.Fatalf("SetNetworkLatency(%s,%s): %v", dc1, dc2, err)
			}
		}
	}
	s.Update()
	return s
}

func TestNewAdvisor(t *testing.T) {
	a := NewAdvisor()
	if a == nil {
		t.Fatal("NewAdvisor returned nil")
	}
	if len(a.rules) != 5 {
		t.Fatalf("expected 5 default rules, got %d", len(a.rules))
	}
}

func TestNewAdvisorWithRules(t *testing.T) {
	rules := []Rule{{Type: "custom", Name: "noop", Check: func(ctx *RuleContext) []Diagnosis { return nil }}}
	a := NewAdvisorWithRules(rules)
	if len(a.rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(a.rules))
	}
}

func TestAdvisor_Advise_Healthy(t *testing.T) {
	store := newTestStore(t)
	a := NewAdvisor()
	ctx := &RuleContext{Store: store, Result: &model.SolveResult{Feasible: true, Cardinality: "4"}}

	diagnoses := a.Advise(ctx)
	if len(diagnoses) != 0 {
		t.Fatalf("expected no diagnoses for a healthy instance, got %+v", diagnoses)
	}
}

func TestCheckReplicationExceedsDCCount(t *testing.T) {
	store := newTestStoreWithGoals(t, 5, 1, 0.2)

	diagnoses := checkReplicationExceedsDCCount(&RuleContext{Store: store})
	if len(diagnoses) != 1 {
		t.Fatalf("expected 1 diagnosis, got %d", len(diagnoses))
	}
	if diagnoses[0].Severity != "error" {
		t.Errorf("expected error severity, got %s", diagnoses[0].Severity)
	}
}

func TestCheckReplicationExceedsDCCount_OK(t *testing.T) {
	store := newTestStore(t)
	diagnoses := checkReplicationExceedsDCCount(&RuleContext{Store: store})
	if len(diagnoses) != 0 {
		t.Fatalf("expected no diagnoses, got %+v", diagnoses)
	}
}

func TestCheckFaultToleranceTooHigh(t *testing.T) {
	store := newTestStoreWithGoals(t, 2, 2, 0.2)

	diagnoses := checkFaultToleranceTooHigh(&RuleContext{Store: store})
	if len(diagnoses) != 1 {
		t.Fatalf("expected 1 diagnosis, got %d", len(diagnoses))
	}
}

func TestCheckFaultToleranceTooHigh_OK(t *testing.T) {
	store := newTestStore(t)
	diagnoses := checkFaultToleranceTooHigh(&RuleContext{Store: store})
	if len(diagnoses) != 0 {
		t.Fatalf("expected no diagnoses, got %+v", diagnoses)
	}
}

func TestCheckStrongSLALatency(t *testing.T) {
	store := newTestStoreWithGoals(t, 2, 1, 0.01)

	diagnoses := checkStrongSLALatency(&RuleContext{Store: store})
	if len(diagnoses) == 0 {
		t.Fatal("expected at least one diagnosis for an unreachable SLA")
	}
}

func TestCheckDCMissingStorageTiers(t *testing.T) {
	store := gdss.New()
	if err := store.AddStorageTier("DC1", "ST1"); err != nil {
		t.Fatalf("AddStorageTier: %v", err)
	}
	store.Update()

	diagnoses := checkDCMissingStorageTiers(&RuleContext{Store: store})
	if len(diagnoses) != 0 {
		t.Fatalf("expected no diagnoses, got %+v", diagnoses)
	}
}

func TestCheckZeroCardinality(t *testing.T) {
	store := newTestStoreWithGoals(t, 5, 1, 0.2)

	result := &model.SolveResult{Feasible: false, Cardinality: "0"}
	diagnoses := checkZeroCardinality(&RuleContext{Store: store, Result: result})
	if len(diagnoses) != 1 {
		t.Fatalf("expected 1 diagnosis, got %d", len(diagnoses))
	}
	if diagnoses[0].Severity != "info" {
		t.Errorf("expected info severity, got %s", diagnoses[0].Severity)
	}
}

func TestCheckZeroCardinality_SkipsFeasible(t *testing.T) {
	store := newTestStore(t)
	result := &model.SolveResult{Feasible: true, Cardinality: "4"}
	diagnoses := checkZeroCardinality(&RuleContext{Store: store, Result: result})
	if len(diagnoses) != 0 {
		t.Fatalf("expected no diagnoses, got %+v", diagnoses)
	}
}

func TestAdvisor_Advise_NilContext(t *testing.T) {
	a := NewAdvisor()
	diagnoses := a.Advise(&RuleContext{})
	if len(diagnoses) != 0 {
		t.Fatalf("expected no diagnoses with a nil store, got %+v", diagnoses)
	}
}
