package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/ui"
)

func NewCacheCmd(root *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear downloaded releases",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List cached releases",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCacheList(cmd, root)
			},
		},
		&cobra.Command{
			Use:   "clean",
			Short: "Remove every cached release",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCacheClean(cmd, root)
			},
		},
		&cobra.Command{
			Use:   "dir",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := openCache(cmd.Context(), root)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), c.Root)
				return err
			},
		},
	)

	return cmd
}

func runCacheList(cmd *cobra.Command, root *RootArgs) error {
	c, err := openCache(cmd.Context(), root)
	if err != nil {
		return err
	}

	entries, err := c.Entries()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr()).Info("No cached releases in " + c.Root)
		return nil
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("TAG", "SIZE", "SHA256")
	for _, e := range entries {
		size, digest := "-", "unrecorded"
		if e.Size > 0 {
			size = humanize.Bytes(uint64(e.Size))
		}
		if e.Digest != "" {
			digest = short(e.Digest)
		}
		t.Row(e.Tag, size, digest)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return err
}

func runCacheClean(cmd *cobra.Command, root *RootArgs) error {
	c, err := openCache(cmd.Context(), root)
	if err != nil {
		return err
	}

	lock, err := c.Lock()
	if err != nil {
		return err
	}
	defer lock.Release()

	if err := c.Purge(); err != nil {
		return err
	}

	ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr()).StepDone("Removed " + c.Root)
	return nil
}
