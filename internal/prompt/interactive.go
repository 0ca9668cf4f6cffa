package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/config"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/patch"
)

var _ Prompter = (*Interactive)(nil)

const customFolder = "\x00custom"

// Interactive asks each question with a huh form on the terminal.
type Interactive struct {
	Theme      *huh.Theme
	Accessible bool

	// isTerminal reports whether stdin is a terminal.
	isTerminal func() bool
}

// NewInteractive returns an Interactive prompter bound to stdin.
func NewInteractive() *Interactive {
	return &Interactive{
		Theme: huh.ThemeCharm(),
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

func (p *Interactive) SelectFolder(ctx context.Context) (string, string, error) {
	choice := Presets[0].Path

	options := make([]huh.Option[string], 0, len(Presets)+1)
	for _, preset := range Presets {
		options = append(options, huh.NewOption(preset.Path+"  "+preset.Description, preset.Path))
	}
	options = append(options, huh.NewOption("Custom path", customFolder))

	err := p.run(ctx, huh.NewSelect[string]().
		Title("Where should AI-DLC rules be installed?").
		Options(options...).
		Value(&choice))
	if err != nil {
		return "", "", err
	}

	if choice == customFolder {
		choice = ""
		err := p.run(ctx, huh.NewInput().
			Title("Enter custom folder path (relative to project root)").
			Validate(config.ValidateRulesFolder).
			Value(&choice))
		if err != nil {
			return "", "", err
		}
	}

	return choice, DetailsParent(choice), nil
}

func (p *Interactive) ConfirmOverwrite(ctx context.Context) (bool, error) {
	return p.confirm(ctx, "Rules already exist. Overwrite?", false)
}

func (p *Interactive) SelectCommitWorkflow(ctx context.Context) (patch.CommitWorkflow, error) {
	choice := patch.Conventional

	err := p.run(ctx, huh.NewSelect[patch.CommitWorkflow]().
		Title("Preferred commit workflow for AI-DLC?").
		Options(
			huh.NewOption("Conventional Commits  feat:, fix:, docs:, etc.", patch.Conventional),
			huh.NewOption("Free-form  just a reminder to commit regularly", patch.FreeForm),
			huh.NewOption("None  I handle commits myself", patch.None),
		).
		Value(&choice))
	if err != nil {
		return patch.None, err
	}

	return choice, nil
}

func (p *Interactive) ConfirmGitignore(ctx context.Context, path string) (bool, error) {
	return p.confirm(ctx, fmt.Sprintf("Add `%s` to .gitignore?", path), true)
}

func (p *Interactive) ConfirmGitignoreDocs(ctx context.Context) (bool, error) {
	return p.confirm(ctx, fmt.Sprintf("Add `%s` to .gitignore?", DocsEntry), true)
}

func (p *Interactive) confirm(ctx context.Context, title string, def bool) (bool, error) {
	answer := def

	err := p.run(ctx, huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&answer))
	if err != nil {
		return false, err
	}

	return answer, nil
}

func (p *Interactive) run(ctx context.Context, field huh.Field) error {
	if p.isTerminal == nil || !p.isTerminal() {
		return ErrNotInteractive
	}

	form := huh.NewForm(huh.NewGroup(field)).
		WithShowHelp(false).
		WithAccessible(p.Accessible)
	if p.Theme != nil {
		form = form.WithTheme(p.Theme)
	}

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("run prompt: %w", err)
	}

	return nil
}
