package prompt

import (
	"context"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/config"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/patch"
)

var _ Prompter = (*Static)(nil)

// Answers holds pinned answers. Zero values mean "not pinned".
type Answers struct {
	RulesFolder    string
	CommitWorkflow *patch.CommitWorkflow
	GitignoreRules *bool
	GitignoreDocs  *bool
	Overwrite      *bool
}

// FromConfig converts a project config into pinned answers.
func FromConfig(cfg *config.Config) Answers {
	a := Answers{
		RulesFolder:    cfg.RulesFolder,
		GitignoreRules: cfg.GitignoreRules,
		GitignoreDocs:  cfg.GitignoreDocs,
		Overwrite:      cfg.Overwrite,
	}
	if wf, ok := cfg.Workflow(); ok {
		a.CommitWorkflow = &wf
	}
	return a
}

// Static answers from pinned values. Unpinned questions go to Fallback, or
// take their default when Fallback is nil: the first preset folder, no
// overwrite, conventional commits and ignoring both paths.
type Static struct {
	Answers  Answers
	Fallback Prompter
}

// NewStatic returns a Static prompter.
func NewStatic(answers Answers, fallback Prompter) *Static {
	return &Static{Answers: answers, Fallback: fallback}
}

func (s *Static) SelectFolder(ctx context.Context) (string, string, error) {
	folder := s.Answers.RulesFolder
	if folder == "" {
		if s.Fallback != nil {
			return s.Fallback.SelectFolder(ctx)
		}
		folder = Presets[0].Path
	}
	if err := config.ValidateRulesFolder(folder); err != nil {
		return "", "", err
	}
	return folder, DetailsParent(folder), nil
}

func (s *Static) ConfirmOverwrite(ctx context.Context) (bool, error) {
	return s.confirm(ctx, s.Answers.Overwrite, false, func(p Prompter) (bool, error) {
		return p.ConfirmOverwrite(ctx)
	})
}

func (s *Static) SelectCommitWorkflow(ctx context.Context) (patch.CommitWorkflow, error) {
	if s.Answers.CommitWorkflow != nil {
		return *s.Answers.CommitWorkflow, nil
	}
	if s.Fallback != nil {
		return s.Fallback.SelectCommitWorkflow(ctx)
	}
	return patch.Conventional, nil
}

func (s *Static) ConfirmGitignore(ctx context.Context, path string) (bool, error) {
	return s.confirm(ctx, s.Answers.GitignoreRules, true, func(p Prompter) (bool, error) {
		return p.ConfirmGitignore(ctx, path)
	})
}

func (s *Static) ConfirmGitignoreDocs(ctx context.Context) (bool, error) {
	return s.confirm(ctx, s.Answers.GitignoreDocs, true, func(p Prompter) (bool, error) {
		return p.ConfirmGitignoreDocs(ctx)
	})
}

func (s *Static) confirm(ctx context.Context, pinned *bool, def bool, ask func(Prompter) (bool, error)) (bool, error) {
	if pinned != nil {
		return *pinned, nil
	}
	if s.Fallback != nil {
		return ask(s.Fallback)
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return def, nil
}
