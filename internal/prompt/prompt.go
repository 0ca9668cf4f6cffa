// Package prompt resolves the installer's questions: where rules go,
// whether to overwrite, which commit workflow to add and which paths to
// ignore. Answers come from the terminal, from pinned values, or from
// defaults.
package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/patch"
)

var (
	// ErrNotInteractive is returned when a question needs a terminal and
	// stdin is not one.
	ErrNotInteractive = errors.New("no terminal available for prompts; pass --yes or pin answers in aidlc.lua")
	// ErrAborted is returned when the user cancels a prompt.
	ErrAborted = errors.New("aborted by user")
)

// DocsEntry is the generated documentation folder offered for ignoring.
const DocsEntry = "aidlc-docs/"

// Preset is a known rules folder offered in the folder menu.
type Preset struct {
	Path        string
	Description string
}

// Presets lists the folder menu in display order. The first is the default.
var Presets = []Preset{
	{Path: ".kiro/steering", Description: "Kiro IDE / Kiro CLI steering files"},
	{Path: ".amazonq/rules", Description: "Amazon Q Developer IDE plugin"},
	{Path: ".cursor/rules", Description: "Cursor AI editor"},
}

// Prompter answers the installer's questions.
type Prompter interface {
	// SelectFolder returns the rules destination and the rule details
	// destination.
	SelectFolder(ctx context.Context) (rulesDest, detailsDest string, err error)
	ConfirmOverwrite(ctx context.Context) (bool, error)
	SelectCommitWorkflow(ctx context.Context) (patch.CommitWorkflow, error)
	ConfirmGitignore(ctx context.Context, path string) (bool, error)
	ConfirmGitignoreDocs(ctx context.Context) (bool, error)
}

// DetailsParent returns the directory above rulesFolder, or rulesFolder
// itself when it has a single segment.
func DetailsParent(rulesFolder string) string {
	trimmed := strings.TrimRight(rulesFolder, "/")
	if i := strings.LastIndex(trimmed, "/"); i > 0 {
		return trimmed[:i]
	}
	return trimmed
}
