// Package pipeline runs an installation from folder selection to the
// sealed integrity manifest.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-git/go-billy/v5"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/cache"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/checksum"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/git"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/install"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/integrity"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/patch"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/prompt"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/release"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/ui"
)

// AuditEntry is always added to the ignore file.
const AuditEntry = "aidlc-docs/audit.md"

// Locator finds the latest release.
type Locator interface {
	FetchLatest(ctx context.Context) (*release.Info, error)
}

// Fetcher downloads url to dest and returns the body's digest.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) (string, error)
}

// Pipeline wires the installer's components. FS is rooted at the project;
// ProjectDir is the same directory on the host and is only used to look
// for a git repository.
type Pipeline struct {
	Locator   Locator
	Fetcher   Fetcher
	Cache     *cache.Cache
	Installer *install.Installer
	Patcher   *patch.Patcher
	Ledger    *integrity.Ledger
	Prompter  prompt.Prompter
	UI        *ui.Printer
	FS        billy.Filesystem

	ProjectDir string
	Logger     *slog.Logger
}

// New wires the filesystem-bound components over fs.
func New(fs billy.Filesystem, locator Locator, fetcher Fetcher, c *cache.Cache, p prompt.Prompter, printer *ui.Printer) *Pipeline {
	return &Pipeline{
		Locator:   locator,
		Fetcher:   fetcher,
		Cache:     c,
		Installer: install.New(fs),
		Patcher:   patch.New(fs),
		Ledger:    integrity.New(fs),
		Prompter:  p,
		UI:        printer,
		FS:        fs,
		Logger:    slog.Default(),
	}
}

// Result summarizes a run.
type Result struct {
	// Skipped is set when the user declined to overwrite an installation.
	Skipped bool

	RulesDest   string
	DetailsDest string
	Tag         string
	CacheHit    bool
	Workflow    patch.CommitWorkflow

	// Drifted lists documents changed since the previous installation.
	Drifted []string
	// Installed lists every file written, in archive order.
	Installed []string
	// Ignored lists entries newly added to the ignore file.
	Ignored []string
}

// Run performs one installation. Any error aborts the run; files written
// before the failure stay in place.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	p.UI.Header("📁 Target Folder")
	rules, details, err := p.Prompter.SelectFolder(ctx)
	if err != nil {
		return nil, fmt.Errorf("select folder: %w", err)
	}
	res.RulesDest, res.DetailsDest = rules, details
	p.UI.StepDone("Rules folder: " + rules)
	p.UI.StepDone(fmt.Sprintf("Rule details: %s/%s/", details, install.DetailsSubtree))

	if p.Installer.AlreadyInstalled(rules, details) {
		drifted, err := p.Ledger.Check(details)
		if err != nil {
			return nil, err
		}
		res.Drifted = drifted
		if len(drifted) > 0 {
			p.UI.Warn("The following rule files have been modified since installation:")
			p.UI.List(drifted)
		}

		overwrite, err := p.Prompter.ConfirmOverwrite(ctx)
		if err != nil {
			return nil, fmt.Errorf("confirm overwrite: %w", err)
		}
		if !overwrite {
			p.UI.Info("Skipped. No changes made.")
			res.Skipped = true
			return res, nil
		}
	}

	p.UI.Header("🌐 Fetching Latest Release")
	info, err := p.Locator.FetchLatest(ctx)
	if err != nil {
		return nil, err
	}
	res.Tag = info.Tag
	p.UI.StepDone("Latest release: " + info.Tag)

	p.UI.Header("📦 Download")
	lock, err := p.Cache.Lock()
	if err != nil {
		return nil, err
	}
	archive, hit, err := p.acquire(ctx, info)
	if err != nil {
		p.release(lock)
		return nil, err
	}
	res.CacheHit = hit

	p.UI.Header("📂 Installing Rules")
	installed, err := p.Installer.Install(archive, rules, details)
	p.release(lock)
	if err != nil {
		return nil, err
	}
	res.Installed = installed
	p.UI.StepDone(fmt.Sprintf("%d files installed", len(installed)))

	if err := p.Patcher.Paths(rules, details); err != nil {
		return nil, err
	}
	p.UI.StepDone("Patched " + patch.DocumentName + " path references")

	p.UI.Header("📝 Commit Workflow")
	wf, err := p.Prompter.SelectCommitWorkflow(ctx)
	if err != nil {
		return nil, fmt.Errorf("select commit workflow: %w", err)
	}
	res.Workflow = wf
	if err := p.Patcher.CommitWorkflow(rules, wf); err != nil {
		return nil, err
	}
	if wf == patch.None {
		p.UI.Info("No commit rules added")
	} else {
		p.UI.StepDone("Commit workflow added to " + patch.DocumentName)
	}
	if err := p.Patcher.RelativePathsRule(rules); err != nil {
		return nil, err
	}

	p.UI.Header("🔒 Gitignore")
	ignored, err := p.updateIgnore(ctx, rules)
	if err != nil {
		return nil, err
	}
	res.Ignored = ignored

	if err := p.Ledger.Seal(installed, details); err != nil {
		return nil, err
	}
	p.UI.StepDone("Integrity manifest written")

	p.UI.Header("✅ Installation Complete!")
	p.UI.Tree(rules, details)
	p.UI.Info(`Start any AI-DLC workflow by saying: "Using AI-DLC, ..."`)

	return res, nil
}

// acquire returns a verified archive for info, from the cache when a
// recorded digest vouches for it and from the network otherwise.
func (p *Pipeline) acquire(ctx context.Context, info *release.Info) (string, bool, error) {
	archive := p.Cache.ArtifactPath(info.Tag)

	if p.Cache.Has(info.Tag) {
		expected, recorded, err := p.Cache.ReadDigest(info.Tag)
		if err != nil {
			return "", false, err
		}
		if recorded {
			if err := checksum.Verify(archive, expected); err != nil {
				return "", false, err
			}
			p.UI.Info("Using cached release " + info.Tag)
			return archive, true, nil
		}
		p.logger().Warn("cached archive has no recorded digest, downloading again",
			slog.String("tag", info.Tag),
			slog.String("path", archive),
		)
	}

	sum, err := p.Fetcher.Fetch(ctx, info.AssetURL, archive)
	if err != nil {
		return "", false, err
	}
	p.UI.StepDone("Download complete")

	if err := p.Cache.StoreDigest(info.Tag, sum); err != nil {
		return "", false, err
	}
	if err := p.Cache.Prune(info.Tag); err != nil {
		return "", false, err
	}
	p.UI.StepDone("Checksum recorded")

	return archive, false, nil
}

// release drops the cache lock. The archive has been read by then, so a
// failure only leaves a lock that goes stale.
func (p *Pipeline) release(lock *cache.Lock) {
	if err := lock.Release(); err != nil {
		p.logger().Warn("could not release cache lock", slog.Any("err", err))
	}
}

func (p *Pipeline) updateIgnore(ctx context.Context, rules string) ([]string, error) {
	var added []string

	add := func(entry string) error {
		changed, err := git.AddIgnore(p.FS, git.IgnoreFile, entry)
		if err != nil {
			return err
		}
		if changed {
			added = append(added, entry)
			p.UI.StepDone(fmt.Sprintf("Added %s to %s", entry, git.IgnoreFile))
		} else {
			p.UI.Info(fmt.Sprintf("%s already in %s", entry, git.IgnoreFile))
		}
		return nil
	}

	if err := add(AuditEntry); err != nil {
		return nil, err
	}

	ok, err := p.Prompter.ConfirmGitignore(ctx, rules)
	if err != nil {
		return nil, fmt.Errorf("confirm gitignore: %w", err)
	}
	if ok {
		if err := add(rules); err != nil {
			return nil, err
		}
	}

	ok, err = p.Prompter.ConfirmGitignoreDocs(ctx)
	if err != nil {
		return nil, fmt.Errorf("confirm gitignore: %w", err)
	}
	if ok {
		if err := add(prompt.DocsEntry); err != nil {
			return nil, err
		}
	}

	if p.ProjectDir != "" {
		repo, err := git.IsRepo(ctx, p.ProjectDir)
		if err != nil {
			p.logger().Debug("could not inspect git repository", slog.Any("err", err))
		} else if !repo {
			p.UI.Info("Not a git repository yet; " + git.IgnoreFile + " takes effect once it is")
		}
	}

	return added, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
