package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/config"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/integrity"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/prompt"
	"github.com/ZebulonRouseFrantzich/aidlc/internal/ui"
)

// ErrDrift is returned by verify when installed documents were modified.
var ErrDrift = errors.New("rule documents modified since installation")

const shortDigest = 12

type VerifyArgs struct {
	root *RootArgs

	RulesFolder string
}

func NewVerifyCmd(root *RootArgs) *cobra.Command {
	va := &VerifyArgs{root: root}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Report installed rule documents changed since installation",
		Long: "Compares installed rule documents against the integrity manifest written at install time.\n" +
			"Without --rules-folder, the project config and the known tool folders are checked.\n" +
			"Exits non-zero when any document was modified.",
		Args: cobra.NoArgs,
		RunE: va.run,
	}

	cmd.Flags().StringVar(&va.RulesFolder, "rules-folder", "", "Rules folder, relative to the project root")

	return cmd
}

// folders returns the rules folders to check and whether they were named
// explicitly.
func (va *VerifyArgs) folders(cfg *config.Config) ([]string, bool, error) {
	switch {
	case va.RulesFolder != "":
		if err := config.ValidateRulesFolder(va.RulesFolder); err != nil {
			return nil, false, fmt.Errorf("invalid argument --rules-folder: %w", err)
		}
		return []string{va.RulesFolder}, true, nil
	case cfg.RulesFolder != "":
		return []string{cfg.RulesFolder}, true, nil
	}

	folders := make([]string, 0, len(prompt.Presets))
	for _, p := range prompt.Presets {
		folders = append(folders, p.Path)
	}
	return folders, false, nil
}

func (va *VerifyArgs) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	proj, err := openProject(ctx, va.root)
	if err != nil {
		return err
	}

	folders, explicit, err := va.folders(proj.cfg)
	if err != nil {
		return err
	}

	printer := ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	ledger := integrity.New(proj.fs)

	checked, modified := 0, 0
	for _, folder := range folders {
		details := prompt.DetailsParent(folder)
		manifest := ledger.ManifestPath(details)

		if _, err := proj.fs.Stat(manifest); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("stat %s: %w", manifest, err)
			}
			if explicit {
				printer.Info("No integrity manifest at " + manifest)
			}
			continue
		}
		checked++

		drifts, err := ledger.Drifts(details)
		if err != nil {
			return err
		}

		if len(drifts) == 0 {
			printer.StepDone(folder + ": no modified rule documents")
			continue
		}

		modified += len(drifts)
		printer.Warn(folder + ": modified since installation:")
		printer.List(describeDrifts(drifts))
	}

	if checked == 0 && !explicit {
		printer.Info("No AI-DLC installation found")
	}

	if modified > 0 {
		return fmt.Errorf("%w: %d file(s)", ErrDrift, modified)
	}

	return nil
}

func describeDrifts(drifts []integrity.Drift) []string {
	lines := make([]string, 0, len(drifts))
	for _, d := range drifts {
		lines = append(lines, fmt.Sprintf("%s (recorded %s, now %s)", d.Path, short(d.Expected), short(d.Actual)))
	}
	return lines
}

func short(digest string) string {
	if len(digest) > shortDigest {
		return digest[:shortDigest]
	}
	return digest
}
