package export

import (
	"fmt"
	"io"
	"os"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"

	"scoretree/pkg/model"
)

// Chart layout constants shared by the SVG and PNG renderers.
const (
	chartWidth   = 800
	rowHeight    = 28
	chartMargin  = 20
	labelWidth   = 260
	barMaxWidth  = chartWidth - labelWidth - 2*chartMargin - 60
	chartPadding = 40
)

// bar is one row of the weight distribution chart.
type bar struct {
	label  string
	weight float64
	valid  bool
	indent int
}

func collectBars(tree *model.Tree) []bar {
	var bars []bar
	for _, dim := range tree.Root().Children() {
		bars = append(bars, makeBar(dim, 0))
		for _, factor := range dim.Children() {
			bars = append(bars, makeBar(factor, 1))
		}
	}
	return bars
}

func makeBar(n *model.Node, indent int) bar {
	b := bar{label: n.Name(), indent: indent}
	w, err := model.ParseWeighting(n.Weighting())
	if err == nil && w >= 0 && w <= 1 {
		b.weight = w
		b.valid = true
	}
	return b
}

// RenderSVG writes a horizontal bar chart of dimension and factor
// weightings as an SVG document.
func RenderSVG(w io.Writer, tree *model.Tree, title string) error {
	bars := collectBars(tree)
	height := chartPadding + len(bars)*rowHeight + chartMargin

	canvas := svg.New(w)
	canvas.Start(chartWidth, height)
	canvas.Rect(0, 0, chartWidth, height, "fill:white")
	canvas.Text(chartMargin, chartMargin+6, title, "font-family:sans-serif;font-size:16px;font-weight:bold")

	y := chartPadding
	for _, b := range bars {
		x := chartMargin + b.indent*20
		canvas.Text(x, y+rowHeight/2+5, b.label, "font-family:sans-serif;font-size:12px")

		if b.valid {
			barW := int(b.weight * barMaxWidth)
			fill := "fill:#4caf50"
			if b.weight == 0 {
				fill = "fill:#e57373"
			}
			canvas.Rect(labelWidth, y+6, barW, rowHeight-12, fill)
			canvas.Text(labelWidth+barW+8, y+rowHeight/2+5,
				fmt.Sprintf("%.2f", b.weight), "font-family:sans-serif;font-size:12px")
		} else {
			canvas.Text(labelWidth, y+rowHeight/2+5, "n/a",
				"font-family:sans-serif;font-size:12px;fill:#999")
		}
		y += rowHeight
	}

	canvas.End()
	return nil
}

// WriteSVG renders the chart into a file at path.
func WriteSVG(path string, tree *model.Tree, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create svg %s: %w", path, err)
	}
	defer f.Close()
	return RenderSVG(f, tree, title)
}

// WritePNG renders the same chart as a raster image at path.
func WritePNG(path string, tree *model.Tree, title string) error {
	bars := collectBars(tree)
	height := chartPadding + len(bars)*rowHeight + chartMargin

	dc := gg.NewContext(chartWidth, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.DrawString(title, chartMargin, chartMargin+6)

	y := float64(chartPadding)
	for _, b := range bars {
		x := float64(chartMargin + b.indent*20)
		dc.SetRGB(0, 0, 0)
		dc.DrawString(b.label, x, y+rowHeight/2+5)

		if b.valid {
			barW := b.weight * barMaxWidth
			if b.weight == 0 {
				dc.SetRGB(0.90, 0.45, 0.45)
			} else {
				dc.SetRGB(0.30, 0.69, 0.31)
			}
			dc.DrawRectangle(labelWidth, y+6, barW, rowHeight-12)
			dc.Fill()
			dc.SetRGB(0, 0, 0)
			dc.DrawString(fmt.Sprintf("%.2f", b.weight), labelWidth+barW+8, y+rowHeight/2+5)
		} else {
			dc.SetRGB(0.6, 0.6, 0.6)
			dc.DrawString("n/a", labelWidth, y+rowHeight/2+5)
		}
		y += rowHeight
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("write png %s: %w", path, err)
	}
	return nil
}
