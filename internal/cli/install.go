package cli

import (
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5/util"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/config"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/download"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/log"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/patch"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/pipeline"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/prompt"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/release"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/ui"
)

type InstallArgs struct {
	root *RootArgs

	Yes            bool
	RulesFolder    string
	CommitWorkflow string
	Timeout        time.Duration
	SaveConfig     bool
	NoBanner       bool
}

func NewInstallArgs(root *RootArgs) *InstallArgs {
	return &InstallArgs{root: root}
}

func (ia *InstallArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&ia.Yes, "yes", "y", false, "Do not prompt; unpinned answers take their defaults")
	cmd.Flags().StringVar(&ia.RulesFolder, "rules-folder", "", "Rules folder, relative to the project root")
	cmd.Flags().StringVar(&ia.CommitWorkflow, "commit-workflow", "",
		fmt.Sprintf("Commit workflow section to add, one of: %s", patch.CommitWorkflows))
	cmd.Flags().DurationVar(&ia.Timeout, "timeout", 0,
		fmt.Sprintf("Network timeout per request (default %s)", download.DefaultTimeout))
	cmd.Flags().BoolVar(&ia.SaveConfig, "save-config", false, "Write the chosen folder and workflow to the project config")
	cmd.Flags().BoolVar(&ia.NoBanner, "no-banner", false, "Do not print the startup banner")

	err := cmd.RegisterFlagCompletionFunc("commit-workflow",
		cobra.FixedCompletions(patch.CommitWorkflows, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewInstallCmd(ia *InstallArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download the latest rules release and install it (default command)",
		Args:  cobra.NoArgs,
		RunE:  ia.run,
	}

	ia.AddFlags(cmd)

	return cmd
}

// answers merges the project config with flags; flags win.
func (ia *InstallArgs) answers(cfg *config.Config) (prompt.Answers, error) {
	a := prompt.FromConfig(cfg)

	if ia.RulesFolder != "" {
		if err := config.ValidateRulesFolder(ia.RulesFolder); err != nil {
			return a, fmt.Errorf("invalid argument --rules-folder: %w", err)
		}
		a.RulesFolder = ia.RulesFolder
	}

	if ia.CommitWorkflow != "" {
		wf, err := patch.ParseCommitWorkflow(ia.CommitWorkflow)
		if err != nil {
			return a, fmt.Errorf("invalid argument --commit-workflow: %w", err)
		}
		a.CommitWorkflow = &wf
	}

	return a, nil
}

func (ia *InstallArgs) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := log.WithContext(ctx)

	proj, err := openProject(ctx, ia.root)
	if err != nil {
		return err
	}

	answers, err := ia.answers(proj.cfg)
	if err != nil {
		return err
	}

	var fallback prompt.Prompter
	if !ia.Yes {
		fallback = prompt.NewInteractive()
	}

	timeout := ia.Timeout
	if timeout <= 0 {
		timeout = proj.cfg.Timeout()
	}
	client := download.NewHTTPClient(nil, timeout)

	locator, err := release.NewLocator(client)
	if err != nil {
		return err
	}
	locator.Logger = logger

	fetcher := download.New(client)
	fetcher.Logger = logger

	c, err := openCache(ctx, ia.root)
	if err != nil {
		return err
	}

	printer := ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if !ia.NoBanner {
		printer.Banner(versionOf(cmd))
	}
	if proj.cfgFound {
		printer.Info("Using settings from " + proj.cfgName)
	}

	p := pipeline.New(proj.fs, locator, fetcher, c, prompt.NewStatic(answers, fallback), printer)
	p.ProjectDir = proj.dir
	p.Logger = logger
	p.Installer.Logger = logger
	p.Ledger.Logger = logger

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if ia.SaveConfig && !res.Skipped {
		return ia.saveConfig(proj, res, printer)
	}

	return nil
}

// saveConfig pins the answers of a completed run in the project config,
// keeping values the config already set.
func (ia *InstallArgs) saveConfig(proj *project, res *pipeline.Result, printer *ui.Printer) error {
	cfg := *proj.cfg
	cfg.RulesFolder = res.RulesDest
	cfg.CommitWorkflow = res.Workflow.String()

	src, err := config.NewGenerator().Generate(&cfg)
	if err != nil {
		return err
	}

	if err := util.WriteFile(proj.cfgFS, proj.cfgName, []byte(src), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", proj.cfgName, err)
	}

	printer.StepDone("Saved answers to " + proj.cfgName)
	return nil
}
