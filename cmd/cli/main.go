// Command solver is the one-shot CLI front end: it loads a placement
// instance, builds and reduces its ZDD, and prints the cheapest feasible
// configuration(s).
package main

import (
	"github.com/geotier/solver/cmd/cli/cmd"
)

func main() {
	cmd.Execute()
}
