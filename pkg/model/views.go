package model

// Derived read-only summary views per role, used for reporting and
// export. These are recomputed on demand from live children, never
// stored.

// Analysis-mode labels emitted in summary views.
const (
	ModeTopLevel    = "Top Level Aggregation"
	ModeDimension   = "Dimension Aggregation"
	ModeFactor      = "Factor Aggregation"
	keyID           = "id"
	keyDimensionRes = "Dimension Result File"
	keyFactorRes    = "Factor Result File"
	keyIndicatorRes = "Indicator Result File"
)

// AnalysisSummary lists the dimensions under the root. Returns nil for
// any other node.
func (n *Node) AnalysisSummary() Attrs {
	if n.role != RoleRoot {
		return nil
	}
	dims := make([]any, 0, n.ChildCount())
	for i, child := range n.Children() {
		dims = append(dims, Attrs{
			"Dimension ID":          i,
			"Dimension Name":        child.Name(),
			"Dimension Weighting":   child.Weighting(),
			"Dimension Result File": child.Attrs().String(keyDimensionRes),
		})
	}
	return Attrs{
		"Analysis Mode": ModeTopLevel,
		"Analysis ID":   n.Name(),
		"Dimensions":    dims,
	}
}

// DimensionSummary lists the factors under a dimension. Returns nil for
// any other node.
func (n *Node) DimensionSummary() Attrs {
	if !n.IsDimension() {
		return nil
	}
	factors := make([]any, 0, n.ChildCount())
	for i, child := range n.Children() {
		factors = append(factors, Attrs{
			"Factor ID":          i,
			"Factor Name":        child.Name(),
			"Factor Weighting":   child.Weighting(),
			"Factor Result File": child.Attrs().String(keyFactorRes),
		})
	}
	return Attrs{
		"Analysis Mode": ModeDimension,
		"Dimension ID":  n.Name(),
		"Factors":       factors,
	}
}

// FactorSummary lists the indicators under a factor. Returns nil for
// any other node.
func (n *Node) FactorSummary() Attrs {
	if !n.IsFactor() {
		return nil
	}
	out := Attrs{
		"Analysis Mode": ModeFactor,
		"Factor ID":     n.Name(),
		"Indicators":    n.indicatorList(),
	}
	if p := n.Parent(); p != nil {
		out["Dimension ID"] = p.Attrs().String(keyID)
	}
	return out
}

// IndicatorSummary describes a single leaf indicator. Returns nil for
// any other node.
func (n *Node) IndicatorSummary() Attrs {
	if !n.IsIndicator() {
		return nil
	}
	return Attrs{
		"Indicator ID":          n.Row(),
		"Indicator Name":        n.Name(),
		"Indicator Weighting":   n.Weighting(),
		"Indicator Result File": n.Attrs().String(keyIndicatorRes),
	}
}

func (n *Node) indicatorList() []any {
	out := make([]any, 0, n.ChildCount())
	for i, child := range n.Children() {
		out = append(out, Attrs{
			"Indicator ID":          i,
			"Indicator Name":        child.Name(),
			"Indicator Weighting":   child.Weighting(),
			"Indicator Result File": child.Attrs().String(keyIndicatorRes),
		})
	}
	return out
}
