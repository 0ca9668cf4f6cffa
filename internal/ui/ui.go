// Package ui prints the installer's human-facing progress output.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

const (
	markDone  = "✓"
	markError = "✗"
	markInfo  = "ℹ"
	markWarn  = "⚠"
	bullet    = "•"

	// ProjectURL is shown under the banner.
	ProjectURL = "https://github.com/awslabs/aidlc-workflows"
)

const banner = `
     _    ___      ____  _     ____
    / \  |_ _|    |  _ \| |   / ___|
   / _ \  | | ___ | | | | |  | |
  / ___ \ | ||___|| |_| | |__| |___
 /_/   \_\___|    |____/|_____\____|`

// Printer writes styled lines. Progress goes to Out, errors to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer

	done   lipgloss.Style
	failed lipgloss.Style
	info   lipgloss.Style
	warn   lipgloss.Style
	bold   lipgloss.Style
	dim    lipgloss.Style
	accent lipgloss.Style
}

// New returns a Printer. Colors are dropped automatically when out is not
// a terminal.
func New(out, errOut io.Writer) *Printer {
	target := out
	if target == nil {
		target = io.Discard
	}
	r := lipgloss.NewRenderer(target)

	return &Printer{
		Out:    out,
		Err:    errOut,
		done:   r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		failed: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		info:   r.NewStyle().Foreground(lipgloss.Color("6")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("3")),
		bold:   r.NewStyle().Bold(true),
		dim:    r.NewStyle().Faint(true),
		accent: r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
	}
}

// Banner prints the startup banner.
func (p *Printer) Banner(version string) {
	p.println(p.Out, p.accent.Render(banner))
	p.println(p.Out, "")
	p.println(p.Out, fmt.Sprintf("  %s %s   %s", p.warn.Render("⚡"), p.bold.Render("Workflows Helper"), p.dim.Render("v"+version)))
	p.println(p.Out, fmt.Sprintf("  %s  %s", p.dim.Render("→"), p.dim.Render(ProjectURL)))
}

// Header prints a section header preceded by a blank line.
func (p *Printer) Header(msg string) {
	p.println(p.Out, "\n"+p.bold.Render(msg))
}

// StepDone prints a completed step.
func (p *Printer) StepDone(msg string) {
	p.println(p.Out, fmt.Sprintf("  %s %s", p.done.Render(markDone), msg))
}

func (p *Printer) Info(msg string) {
	p.println(p.Out, fmt.Sprintf("  %s %s", p.info.Render(markInfo), msg))
}

func (p *Printer) Warn(msg string) {
	p.println(p.Out, fmt.Sprintf("  %s %s", p.warn.Render(markWarn), p.warn.Render(msg)))
}

// Error prints to Err.
func (p *Printer) Error(msg string) {
	p.println(p.Err, fmt.Sprintf("  %s %s", p.failed.Render(markError), p.failed.Render(msg)))
}

// List prints one bulleted line per item.
func (p *Printer) List(items []string) {
	for _, item := range items {
		p.println(p.Out, fmt.Sprintf("    %s %s", bullet, item))
	}
}

// Tree prints the layout of an installation.
func (p *Printer) Tree(rulesFolder, detailsParent string) {
	p.println(p.Out, "  "+p.dim.Render("Installed file tree:"))
	for _, line := range []string{
		rulesFolder + "/",
		"├── aws-aidlc-rules/",
		"│   └── core-workflow.md",
		detailsParent + "/",
		"└── aws-aidlc-rule-details/",
		"    ├── common/",
		"    ├── construction/",
		"    ├── inception/",
		"    └── operations/",
	} {
		p.println(p.Out, "  "+line)
	}
}

func (p *Printer) println(w io.Writer, s string) {
	if w == nil {
		return
	}
	_, _ = fmt.Fprintln(w, s)
}
