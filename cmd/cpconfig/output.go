package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/cpconfig/cpconfig/pkg/types"
)

// reportStyles holds the semantic styles for the human-readable report.
type reportStyles struct {
	Created   lipgloss.Style
	Updated   lipgloss.Style
	Unchanged lipgloss.Style
	Warning   lipgloss.Style
	Header    lipgloss.Style
}

// newReportStyles builds the styles, degrading to plain text when stdout
// is not a terminal or the environment disables color.
func newReportStyles() reportStyles {
	plain := !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
	if plain || termenv.EnvNoColor() {
		s := lipgloss.NewStyle()
		return reportStyles{Created: s, Updated: s, Unchanged: s, Warning: s, Header: s}
	}

	return reportStyles{
		Created:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "42"}),
		Updated:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"}),
		Unchanged: lipgloss.NewStyle().Faint(true),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}),
		Header:    lipgloss.NewStyle().Bold(true),
	}
}

// renderReport prints the human-readable sync report.
func renderReport(w io.Writer, result *types.Result, dryRun bool) {
	styles := newReportStyles()

	header := fmt.Sprintf("cpconfig: %s", result.RootDir)
	if dryRun {
		header += " (dry run)"
	}
	fmt.Fprintln(w, styles.Header.Render(header))

	for _, file := range result.Files {
		style := styles.Unchanged
		switch file.Action {
		case types.ActionCreated:
			style = styles.Created
		case types.ActionUpdated:
			style = styles.Updated
		}
		fmt.Fprintf(w, "  %-9s %s\n", style.Render(string(file.Action)), file.Path)
		if file.Warning != "" {
			fmt.Fprintf(w, "  %s\n", styles.Warning.Render("warning: "+file.Warning))
		}
	}

	gi := result.Gitignore
	switch {
	case gi.Skipped:
		fmt.Fprintf(w, "  %-9s %s\n", styles.Unchanged.Render("skipped"), gi.Path)
	case gi.Updated:
		fmt.Fprintf(w, "  %-9s %s (+%d -%d)\n", styles.Updated.Render("updated"), gi.Path, len(gi.Added), len(gi.Removed))
	default:
		fmt.Fprintf(w, "  %-9s %s\n", styles.Unchanged.Render("unchanged"), gi.Path)
	}
}

// renderJSON emits the full result record as indented JSON.
func renderJSON(w io.Writer, result *types.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
