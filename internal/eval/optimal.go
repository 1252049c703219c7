package eval

import (
	"math"

	"github.com/geotier/solver/internal/encode"
	"github.com/geotier/solver/internal/gdss"
	"github.com/geotier/solver/internal/zdd"
	"github.com/geotier/solver/pkg/model"
)

// Config is a complete locale assignment: the chosen storage tier
// placements, which storage tier serves each data center's reads, and the
// total cost of the assignment.
type Config struct {
	Cost       float64
	Placements []model.Placement
	ServedBy   map[string][]model.Placement
}

func newConfig() Config {
	return Config{ServedBy: make(map[string][]model.Placement)}
}

func infeasibleConfig() Config {
	return Config{Cost: math.Inf(1), ServedBy: make(map[string][]model.Placement)}
}

func (c Config) clone() Config {
	placements := append([]model.Placement(nil), c.Placements...)
	served := make(map[string][]model.Placement, len(c.ServedBy))
	for dc, list := range c.ServedBy {
		served[dc] = append([]model.Placement(nil), list...)
	}
	return Config{Cost: c.Cost, Placements: placements, ServedBy: served}
}

// appendPlacement records the locale decision made at level into cfg: a P
// variable adds a storage tier placement, a T variable records which tier
// serves a data center's reads. B variables contribute cost elsewhere but
// are not surfaced in the placement summary.
func appendPlacement(enc *encode.Encoder, level int, cfg *Config) error {
	v, err := enc.Decode(level)
	if err != nil {
		return err
	}
	dcK, err := enc.TierDC(v.T)
	if err != nil {
		return err
	}
	stT, err := enc.TierName(v.T)
	if err != nil {
		return err
	}

	switch v.Kind {
	case encode.KindP:
		cfg.Placements = append(cfg.Placements, model.Placement{DataCenter: dcK, StorageTier: stT})
	case encode.KindT:
		dcJ, err := enc.DC(v.J)
		if err != nil {
			return err
		}
		cfg.ServedBy[dcJ] = append(cfg.ServedBy[dcJ], model.Placement{DataCenter: dcK, StorageTier: stT})
	}
	return nil
}

// Evaluator computes the minimum-cost feasible Config represented by a
// ZDD, via a bottom-up fold over its nodes.
type Evaluator struct {
	enc   *encode.Encoder
	store *gdss.Store
}

// NewEvaluator creates an Evaluator over enc's variable layout and store's
// cost parameters.
func NewEvaluator(enc *encode.Encoder, store *gdss.Store) *Evaluator {
	return &Evaluator{enc: enc, store: store}
}

// Evaluate returns the lowest-cost Config in dd, or an infeasible Config
// (Cost == +Inf) if dd represents the empty family.
func (e *Evaluator) Evaluate(dd *zdd.Zdd) (Config, error) {
	if dd.Root == zdd.Zero {
		return infeasibleConfig(), nil
	}
	if dd.Root == zdd.One {
		return newConfig(), nil
	}

	values := make([]Config, dd.Size())
	at := func(id zdd.NodeID) Config {
		switch id {
		case zdd.Zero:
			return infeasibleConfig()
		case zdd.One:
			return newConfig()
		default:
			return values[id-2]
		}
	}

	for i, n := range dd.Nodes {
		level := int(n.Level)
		currCost, err := levelCost(e.enc, e.store, level)
		if err != nil {
			return Config{}, err
		}

		lo := at(n.Lo)
		hi := at(n.Hi)

		var v Config
		if lo.Cost > hi.Cost+currCost {
			v = hi.clone()
			v.Cost += currCost
			if err := appendPlacement(e.enc, level, &v); err != nil {
				return Config{}, err
			}
		} else {
			v = lo.clone()
		}
		values[i] = v
	}

	return at(dd.Root), nil
}
