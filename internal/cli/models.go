package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss/list"
	"github.com/santiagomed/llmutil/pkg/llm"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

func newModelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Discover Gemini models",
	}
	cmd.AddCommand(newModelsListCmd(a))
	cmd.AddCommand(newModelsGetCmd(a))
	return cmd
}

func newModelsListCmd(a *app) *cobra.Command {
	var action string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available models, optionally only those supporting an action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.newCatalog(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}

			models, err := llm.ListModels(cmd.Context(), catalog)
			if err != nil {
				return err
			}

			var names []string
			if action != "" {
				names = llm.FilterModelsByAction(models, action)
			} else {
				for _, m := range models {
					if m != nil {
						names = append(names, m.Name)
					}
				}
			}
			a.logger.WithField("count", len(names)).Debug("Listed models")

			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), faintStyle.Render("No models found"))
				return nil
			}
			l := list.New()
			for _, n := range names {
				l.Item(n)
			}
			fmt.Fprintln(cmd.OutOrStdout(), l)
			return nil
		},
	}
	cmd.Flags().StringVarP(&action, "action", "a", "", "Only list models supporting this action, e.g. "+llm.ActionGenerateContent)
	return cmd
}

func newModelsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Show metadata for one model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.newCatalog(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}

			model, err := llm.GetModel(cmd.Context(), catalog, args[0])
			if err != nil {
				return err
			}
			printModel(cmd.OutOrStdout(), model)
			return nil
		},
	}
}

func printModel(w io.Writer, m *genai.Model) {
	row := func(label string, value any) {
		fmt.Fprintf(w, "%s %v\n", labelStyle.Render(label+":"), value)
	}
	row("Name", nameStyle.Render(m.Name))
	if m.DisplayName != "" {
		row("Display name", m.DisplayName)
	}
	if m.Description != "" {
		row("Description", m.Description)
	}
	if m.Version != "" {
		row("Version", m.Version)
	}
	row("Input token limit", m.InputTokenLimit)
	row("Output token limit", m.OutputTokenLimit)
	row("Supported actions", strings.Join(m.SupportedActions, ", "))
}
