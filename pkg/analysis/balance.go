// Package analysis computes weighting balance reports over a scoring
// tree: per-parent sums, dispersion, and consistency flags suitable for
// both human review and machine consumption.
package analysis

import (
	"io"
	"math"

	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/stat"

	"scoretree/pkg/model"
)

// SumTolerance is the allowed deviation of a sibling weighting sum
// from 1.0 before the group is flagged inconsistent.
const SumTolerance = 0.001

// Group reports the weighting balance of one parent's children.
type Group struct {
	Parent     string    `json:"parent"`
	Role       string    `json:"role"`
	Children   int       `json:"children"`
	Weights    []float64 `json:"weights"`
	Sum        float64   `json:"sum"`
	Mean       float64   `json:"mean"`
	StdDev     float64   `json:"std_dev"`
	Invalid    int       `json:"invalid_weights"`
	Consistent bool      `json:"consistent"`
}

// Report aggregates balance groups across a whole tree.
type Report struct {
	Groups           []Group `json:"groups"`
	ConsistentGroups int     `json:"consistent_groups"`
	TotalGroups      int     `json:"total_groups"`
}

// AllConsistent reports whether every group sums to 1.0 within
// tolerance and carries no unparseable weightings.
func (r Report) AllConsistent() bool {
	return r.ConsistentGroups == r.TotalGroups
}

// Analyze walks the tree and builds a balance group for every node
// that has weighted children, in depth-first order.
func Analyze(t *model.Tree) Report {
	var report Report

	t.Root().Walk(func(n *model.Node) {
		if n.ChildCount() == 0 || n.IsIndicator() {
			return
		}
		report.Groups = append(report.Groups, analyzeGroup(n))
	})

	for _, g := range report.Groups {
		if g.Consistent {
			report.ConsistentGroups++
		}
	}
	report.TotalGroups = len(report.Groups)
	return report
}

func analyzeGroup(parent *model.Node) Group {
	g := Group{
		Parent:   parent.Name(),
		Role:     string(parent.Role()),
		Children: parent.ChildCount(),
	}

	for _, child := range parent.Children() {
		w, err := model.ParseWeighting(child.Weighting())
		if err != nil {
			g.Invalid++
			continue
		}
		g.Weights = append(g.Weights, w)
	}

	for _, w := range g.Weights {
		g.Sum += w
	}
	if len(g.Weights) > 0 {
		g.Mean, g.StdDev = stat.MeanStdDev(g.Weights, nil)
		// MeanStdDev returns NaN for a single sample.
		if math.IsNaN(g.StdDev) {
			g.StdDev = 0
		}
	}

	g.Consistent = g.Invalid == 0 && math.Abs(g.Sum-1.0) <= SumTolerance
	return g
}

// WriteRobotJSON emits a report as indented JSON for machine callers.
func WriteRobotJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
