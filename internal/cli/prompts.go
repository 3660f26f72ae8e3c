package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/list"
	"github.com/spf13/cobra"
)

const defaultPromptDir = "prompts"

func newPromptCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "prompt FILE",
		Short: "Print a prompt file the way it is sent to the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			read := a.fs.ReadPrompt
			if raw {
				read = a.fs.ReadText
			}
			content, err := read(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), content)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the file unmodified")
	return cmd
}

func newPromptsCmd(a *app) *cobra.Command {
	var ext string
	cmd := &cobra.Command{
		Use:   "prompts [DIR]",
		Short: "List prompt files under a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := defaultPromptDir
			if len(args) == 1 {
				dir = args[0]
			}

			files, err := a.fs.ListFiles(dir, ext)
			if err != nil {
				return err
			}
			a.logger.WithField("count", len(files)).Debug(fmt.Sprintf("Listed prompt files in %s", dir))
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), faintStyle.Render(fmt.Sprintf("No %s files in %s", ext, dir)))
				return nil
			}

			l := list.New()
			for _, f := range files {
				l.Item(f)
			}
			fmt.Fprintln(cmd.OutOrStdout(), l)
			return nil
		},
	}
	cmd.Flags().StringVar(&ext, "ext", ".md", "Prompt file extension")
	return cmd
}
