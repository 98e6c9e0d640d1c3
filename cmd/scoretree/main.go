package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"scoretree/pkg/analysis"
	"scoretree/pkg/config"
	"scoretree/pkg/export"
	"scoretree/pkg/journal"
	"scoretree/pkg/loader"
	"scoretree/pkg/model"
	"scoretree/pkg/ui"
	"scoretree/pkg/version"
	"scoretree/pkg/watcher"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	exportMD := flag.String("export-md", "", "Export the scoring tree to a Markdown report")
	exportSVG := flag.String("export-svg", "", "Export the weighting chart as SVG")
	exportPNG := flag.String("export-png", "", "Export the weighting chart as PNG")
	exportAll := flag.String("export-all", "", "Write all export artifacts into a directory")
	robotBalance := flag.Bool("robot-balance", false, "Output the weighting balance report as JSON for AI agents")
	validate := flag.Bool("validate", false, "Load the model and exit non-zero if any weighting group is inconsistent")
	initModel := flag.Bool("init", false, "Scaffold a new model.json interactively")
	flag.Parse()

	if *help {
		fmt.Println("Usage: scoretree [options] [project-dir]")
		fmt.Println("\nA TUI editor for hierarchical weighted scoring models.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("scoretree %s\n", version.Version)
		os.Exit(0)
	}

	projectDir := resolveProjectDir(flag.Arg(0))

	if *initModel {
		if err := runInitWizard(projectDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	modelPath, err := loader.ModelPath(projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tree, err := loader.Load(modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run with --init to scaffold a new model.")
		os.Exit(1)
	}

	title := "Scoring Model: " + filepath.Base(projectDir)

	// Non-interactive surfaces exit before the TUI starts.
	switch {
	case *robotBalance:
		if err := analysis.WriteRobotJSON(os.Stdout, analysis.Analyze(tree)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return

	case *validate:
		report := analysis.Analyze(tree)
		for _, g := range report.Groups {
			mark := "ok"
			if !g.Consistent {
				mark = "INCONSISTENT"
			}
			fmt.Printf("%-14s %-30s sum=%.2f %s\n", g.Role, g.Parent, g.Sum, mark)
		}
		if !report.AllConsistent() {
			os.Exit(1)
		}
		return

	case *exportAll != "":
		if err := os.MkdirAll(*exportAll, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := export.WriteAll(context.Background(), *exportAll, tree, title); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported report and charts to %s\n", *exportAll)
		return

	case *exportMD != "":
		if err := export.WriteMarkdown(*exportMD, tree, analysis.Analyze(tree), title); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported markdown report to %s\n", *exportMD)
		return

	case *exportSVG != "":
		if err := export.WriteSVG(*exportSVG, tree, title); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported SVG chart to %s\n", *exportSVG)
		return

	case *exportPNG != "":
		if err := export.WritePNG(*exportPNG, tree, title); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported PNG chart to %s\n", *exportPNG)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal (use --export-md or --robot-balance for scripted output)")
		os.Exit(1)
	}

	runTUI(tree, modelPath, projectDir)
}

// resolveProjectDir picks the project root: an explicit argument wins,
// otherwise walk up from the working directory looking for model.json.
func resolveProjectDir(arg string) string {
	if arg != "" {
		return arg
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	if root, ok := loader.FindProjectRoot(cwd); ok {
		return root
	}
	return cwd
}

func runTUI(tree *model.Tree, modelPath, projectDir string) {
	stateDir, err := loader.StateDir(projectDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(stateDir)
	if err != nil {
		log.Printf("warning: %v, using defaults", err)
	}

	var jdb *journal.DB
	if cfg.JournalEnabled() {
		jpath := cfg.Journal.Path
		if jpath == "" {
			jpath = filepath.Join(stateDir, "journal.db")
		}
		jdb, err = journal.Open(jpath)
		if err != nil {
			log.Printf("warning: journal disabled: %v", err)
		} else {
			defer jdb.Close()
		}
	}

	theme := ui.ThemeByName(cfg.Theme, lipgloss.DefaultRenderer())
	app := ui.NewApp(tree, modelPath, cfg, jdb, theme)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if cfg.WatchEnabled() {
		w, err := watcher.New(modelPath, time.Duration(cfg.Debounce())*time.Millisecond, func() {
			p.Send(ui.ModelChangedMsg{})
		})
		if err != nil {
			log.Printf("warning: live reload disabled: %v", err)
		} else if err := w.Start(); err != nil {
			log.Printf("warning: live reload disabled: %v", err)
		} else {
			defer w.Stop()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runInitWizard scaffolds a fresh model.json with a starter dimension
// set chosen interactively.
func runInitWizard(projectDir string) error {
	path := filepath.Join(projectDir, loader.ModelFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	var name string
	dimensions := []string{"contextual", "accessibility", "place characterization"}
	autoWeight := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Analysis name").
				Placeholder("My Analysis").
				Value(&name),
			huh.NewMultiSelect[string]().
				Title("Starter dimensions").
				Options(
					huh.NewOption("Contextual", "contextual").Selected(true),
					huh.NewOption("Accessibility", "accessibility").Selected(true),
					huh.NewOption("Place Characterization", "place characterization").Selected(true),
				).
				Value(&dimensions),
			huh.NewConfirm().
				Title("Distribute dimension weights evenly?").
				Value(&autoWeight),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("init wizard: %w", err)
	}
	if len(dimensions) == 0 {
		return fmt.Errorf("at least one dimension is required")
	}

	tree := model.NewTree()
	for _, d := range dimensions {
		tree.AddDimension(d)
	}
	if autoWeight {
		tree.AutoAssignEven(tree.Root())
	}

	if err := loader.Save(tree, path); err != nil {
		return err
	}
	fmt.Printf("Created %s with %d dimensions\n", path, len(dimensions))
	return nil
}
