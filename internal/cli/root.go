package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/config"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/log"
)

const (
	cmdName     = "aidlc"
	cmdDesc     = `Install AI-DLC workflow rules into a project.`
	cmdExamples = `
	# Install interactively into the current project.
	aidlc

	# Install without prompts, pinning the folder and commit workflow.
	aidlc install --yes --rules-folder .kiro/steering --commit-workflow none

	# Check installed rule documents for local edits.
	aidlc verify`

	defaultVersion = "dev"
)

type RootArgs struct {
	LogLevel   string
	LogFormat  string
	ProjectDir string
	ConfigFile string
	CacheDir   string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "warn", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVarP(&ra.ProjectDir, "project-dir", "C", ".", "Project root to install into")
	cmd.PersistentFlags().
		StringVar(&ra.ConfigFile, "config", config.FileName, "Project config file, relative to the project root")
	cmd.PersistentFlags().
		StringVar(&ra.CacheDir, "cache-dir", "", "Release cache directory (default: user cache dir)")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()
	installArgs := NewInstallArgs(args)

	installCmd := NewInstallCmd(installArgs)
	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		Args:              cobra.NoArgs,
		RunE:              installCmd.RunE,
		SilenceUsage:      true,
	}

	args.AddFlags(cmd)
	installArgs.AddFlags(cmd)
	cmd.AddCommand(installCmd, NewVerifyCmd(args), NewCacheCmd(args))

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(rc *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.NewHandler(cmd.ErrOrStderr(), rc.LogLevel, rc.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		logger := slog.New(logHandler)
		slog.SetDefault(logger)
		cmd.SetContext(log.NewContext(cmd.Context(), logger))

		return nil
	}
}

func versionOf(cmd *cobra.Command) string {
	if v := cmd.Root().Version; v != "" {
		return v
	}
	return defaultVersion
}
