// Package formatter renders solve results to the CLI's human-readable
// output format (§6: Data Placement / Target Locale List / Current Cost).
package formatter

import (
	"github.com/geotier/solver/pkg/model"
	"github.com/geotier/solver/pkg/utils"
)

// ResultFormatter renders a solve result to a logger and to a summary map
// suitable for JSON serialization.
type ResultFormatter interface {
	Format(result *model.SolveResult, log utils.Logger)
	FormatSummary(result *model.SolveResult) map[string]interface{}
}
