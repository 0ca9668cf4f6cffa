// Package patch rewrites the installed core-workflow.md after extraction.
//
// Extraction always rewrites the document first, so the appending
// operations here are not idempotent on their own.
package patch

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/install"
)

// DocumentName is the patched document inside the rules subtree.
const DocumentName = "core-workflow.md"

// DefaultDetailPaths are the tool-specific rule-details locations that
// upstream documents reference.
var DefaultDetailPaths = []string{
	".kiro/aws-aidlc-rule-details/",
	".amazonq/aws-aidlc-rule-details/",
	".aiassistant/aws-aidlc-rule-details/",
}

// Patcher edits the core workflow document in a project filesystem.
type Patcher struct {
	FS billy.Filesystem
}

// New returns a Patcher over fs, which is rooted at the project.
func New(fs billy.Filesystem) *Patcher {
	return &Patcher{FS: fs}
}

// DocumentPath returns the location of core-workflow.md for rulesDest.
func (p *Patcher) DocumentPath(rulesDest string) string {
	return p.FS.Join(rulesDest, install.RulesSubtree, DocumentName)
}

// Paths replaces every default rule-details path in the document with the
// chosen details location. A missing document is not an error.
func (p *Patcher) Paths(rulesDest, detailsDest string) error {
	replacement := fmt.Sprintf("%s/%s/", strings.TrimSuffix(detailsDest, "/"), install.DetailsSubtree)

	return p.rewrite(rulesDest, func(content string) string {
		for _, def := range DefaultDetailPaths {
			content = strings.ReplaceAll(content, def, replacement)
		}
		return content
	})
}

// CommitWorkflow appends the section for wf to the document. None leaves
// the document untouched.
func (p *Patcher) CommitWorkflow(rulesDest string, wf CommitWorkflow) error {
	section := wf.section()
	if section == "" {
		return nil
	}
	return p.rewrite(rulesDest, func(content string) string {
		return content + section
	})
}

// RelativePathsRule appends the relative-paths-only section.
func (p *Patcher) RelativePathsRule(rulesDest string) error {
	return p.rewrite(rulesDest, func(content string) string {
		return content + relativePathsSection
	})
}

func (p *Patcher) rewrite(rulesDest string, edit func(string) string) error {
	docPath := p.DocumentPath(rulesDest)

	data, err := util.ReadFile(p.FS, docPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", DocumentName, err)
	}

	if err := util.WriteFile(p.FS, docPath, []byte(edit(string(data))), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", DocumentName, err)
	}

	return nil
}
