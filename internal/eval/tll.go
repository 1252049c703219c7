package eval

import (
	"github.com/geotier/solver/internal/encode"
	"github.com/geotier/solver/internal/gdss"
)

// FromLevels reconstructs a Config from an explicit set of taken variable
// levels, as produced by the weighted enumerator for one concrete
// placement. Levels not present are treated as not-taken.
func FromLevels(enc *encode.Encoder, store *gdss.Store, levels []int) (Config, error) {
	cfg := newConfig()
	for _, level := range levels {
		c, err := levelCost(enc, store, level)
		if err != nil {
			return Config{}, err
		}
		cfg.Cost += c
		if err := appendPlacement(enc, level, &cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
