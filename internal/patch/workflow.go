package patch

import (
	"fmt"
	"strings"
)

// CommitWorkflow is the user's commit convention preference.
type CommitWorkflow int

const (
	// Conventional appends the conventional-commits section.
	Conventional CommitWorkflow = iota
	// FreeForm appends a short commit reminder.
	FreeForm
	// None appends nothing.
	None
)

// String returns the config spelling of the workflow.
func (w CommitWorkflow) String() string {
	switch w {
	case Conventional:
		return "conventional"
	case FreeForm:
		return "freeform"
	case None:
		return "none"
	default:
		return "unknown"
	}
}

// CommitWorkflows lists the accepted spellings, in menu order.
var CommitWorkflows = []string{Conventional.String(), FreeForm.String(), None.String()}

// ParseCommitWorkflow converts a config or flag value.
func ParseCommitWorkflow(s string) (CommitWorkflow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "conventional":
		return Conventional, nil
	case "freeform", "free-form":
		return FreeForm, nil
	case "none":
		return None, nil
	default:
		return 0, fmt.Errorf("unknown commit workflow %q (one of: %s)", s, strings.Join(CommitWorkflows, ", "))
	}
}

func (w CommitWorkflow) section() string {
	switch w {
	case Conventional:
		return conventionalSection
	case FreeForm:
		return freeformSection
	default:
		return ""
	}
}

const conventionalSection = `

## MANDATORY: Commit Workflow
**CRITICAL**: Commit early and often using conventional commits. Do NOT accumulate large changes.

**Rules**:
1. After completing each logical unit of work, create a git commit.
2. Use conventional commit format: ` + "`feat:`, `fix:`, `docs:`, `ci:`, `chore:`, `refactor:`, `test:`" + `.
3. Keep commits small and focused — one concern per commit.
4. Commit messages must be descriptive.
5. Never bundle unrelated changes in a single commit.
6. **Artifact commits**: Documentation artifacts (requirements, stories, plans, state updates) MUST also be committed. Use ` + "`docs:`" + ` prefix.
7. **Before moving to the next stage**, ensure all pending changes are committed.
`

const freeformSection = `

## Commit Reminder
Remember to commit your changes regularly. Small, frequent commits are easier to review and revert.
Commit documentation artifacts (requirements, stories, plans) alongside code changes.
`

const relativePathsSection = `

## MANDATORY: Relative Paths Only
**CRITICAL**: All file and folder references in AI-DLC documents (aidlc-state.md, plans, requirements, stories, code summaries) MUST use paths relative to the workspace root.
- **NEVER** use absolute paths (e.g. ` + "`/Users/...`, `/home/...`, `C:\\...`" + `).
- The ` + "`Workspace Root`" + ` in ` + "`aidlc-state.md`" + ` MUST be ` + "`.`" + ` (dot), not an absolute path.
- This prevents leaking personal filesystem information into version control.
`
