// Package export renders scoring trees to shareable artifacts:
// markdown reports and weight distribution charts.
package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"scoretree/pkg/analysis"
	"scoretree/pkg/model"
)

// GenerateMarkdown creates a markdown report of the whole scoring tree
// with a balance summary up front.
func GenerateMarkdown(tree *model.Tree, report analysis.Report, title string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format(time.RFC1123)))

	// Balance summary
	sb.WriteString("## Weighting Balance\n\n")
	sb.WriteString(fmt.Sprintf("- **Groups**: %d\n", report.TotalGroups))
	sb.WriteString(fmt.Sprintf("- **Consistent**: %d\n", report.ConsistentGroups))
	if report.AllConsistent() {
		sb.WriteString("- **Verdict**: all sibling weightings sum to 1.00\n\n")
	} else {
		sb.WriteString("- **Verdict**: some groups need rebalancing\n\n")
		for _, g := range report.Groups {
			if g.Consistent {
				continue
			}
			sb.WriteString(fmt.Sprintf("  - %s (%s): sum %.2f", g.Parent, g.Role, g.Sum))
			if g.Invalid > 0 {
				sb.WriteString(fmt.Sprintf(", %d unparseable", g.Invalid))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	// One section per dimension with a factor table and indicator lists
	for _, dim := range tree.Root().Children() {
		sb.WriteString(fmt.Sprintf("## %s\n\n", dim.Name()))
		sb.WriteString(fmt.Sprintf("Status: %s", statusLabel(dim.Status())))
		if w := dim.Weighting(); w != "" {
			sb.WriteString(fmt.Sprintf(" | Weight: %s", w))
		}
		sb.WriteString("\n\n")

		if dim.ChildCount() == 0 {
			sb.WriteString("_No factors defined._\n\n")
			continue
		}

		sb.WriteString("| Factor | Weight | Status | Indicators |\n")
		sb.WriteString("|--------|--------|--------|------------|\n")
		for _, factor := range dim.Children() {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d |\n",
				escapePipes(factor.Name()), factor.Weighting(),
				statusLabel(factor.Status()), factor.ChildCount()))
		}
		sb.WriteString("\n")

		for _, factor := range dim.Children() {
			if factor.ChildCount() == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("### %s\n\n", factor.Name()))
			for _, layer := range factor.Children() {
				sb.WriteString(fmt.Sprintf("- %s (%s) %s\n",
					escapePipes(layer.Name()), layer.Weighting(),
					statusLabel(layer.Status())))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// WriteMarkdown renders the report and writes it to path.
func WriteMarkdown(path string, tree *model.Tree, report analysis.Report, title string) error {
	content := GenerateMarkdown(tree, report, title)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write markdown %s: %w", path, err)
	}
	return nil
}

func statusLabel(status string) string {
	switch status {
	case model.StatusDone:
		return "done"
	case model.StatusPending:
		return "pending"
	case "":
		return "-"
	default:
		return status
	}
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
