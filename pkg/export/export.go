package export

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"scoretree/pkg/analysis"
	"scoretree/pkg/model"
)

// Artifact file names produced by WriteAll.
const (
	MarkdownFileName = "report.md"
	SVGFileName      = "weights.svg"
	PNGFileName      = "weights.png"
)

// WriteAll renders every export artifact into dir concurrently. The
// first failure cancels the remaining renders and is returned.
func WriteAll(ctx context.Context, dir string, tree *model.Tree, title string) error {
	report := analysis.Analyze(tree)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return WriteMarkdown(filepath.Join(dir, MarkdownFileName), tree, report, title)
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return WriteSVG(filepath.Join(dir, SVGFileName), tree, title)
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return WritePNG(filepath.Join(dir, PNGFileName), tree, title)
	})

	return g.Wait()
}
