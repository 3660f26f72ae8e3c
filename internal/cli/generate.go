package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/santiagomed/llmutil/pkg/llm"
	"github.com/spf13/cobra"
)

var errInterrupted = errors.New("interrupted")

type generateFlags struct {
	system    string
	prompt    string
	out       string
	model     string
	raw       bool
	noSpinner bool
	timeout   time.Duration
}

func newGenerateCmd(a *app) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Send a prompt file to the model and print or save the reply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.system, "system", "s", "", "File holding the system instruction")
	cmd.Flags().StringVarP(&f.prompt, "prompt", "p", "", "File holding the user prompt")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Write the reply to this file instead of stdout")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "Model name, overriding the configured one")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "Send the prompt file as-is, without stripping the leading header")
	cmd.Flags().BoolVar(&f.noSpinner, "no-spinner", false, "Do not show the progress spinner")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 3*time.Minute, "Give up on the model after this long")
	cmd.MarkFlagRequired("prompt")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, f generateFlags) error {
	var systemPrompt string
	if f.system != "" {
		var err error
		systemPrompt, err = a.fs.ReadText(f.system)
		if err != nil {
			return err
		}
	}

	read := a.fs.ReadPrompt
	if f.raw {
		read = a.fs.ReadText
	}
	userPrompt, err := read(f.prompt)
	if err != nil {
		return err
	}
	if strings.TrimSpace(userPrompt) == "" {
		return fmt.Errorf("prompt file %s has no content", f.prompt)
	}

	if f.model != "" {
		a.cfg.ModelName = f.model
	}
	req := llm.NewRequest(a.cfg, systemPrompt, userPrompt)

	gen, err := a.newGenerator(cmd.Context(), a.cfg, a.logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
	defer cancel()

	a.logger.WithField("model", req.Model).Info("Generating content")
	run := func(ctx context.Context) (llm.Response, error) {
		return gen.Generate(ctx, req)
	}

	var resp llm.Response
	if f.noSpinner {
		resp, err = run(ctx)
	} else {
		resp, err = runWithSpinner(ctx, cmd.ErrOrStderr(), req.Model, run)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("generation timed out after %s: %w", f.timeout, err)
		}
		return err
	}

	if f.out != "" {
		if err := llm.WriteResponseText(a.fs, resp, f.out); err != nil {
			return err
		}
		a.logger.WithField("path", f.out).Info("Response written")
		fmt.Fprintf(cmd.OutOrStdout(), "Response written to %s\n", nameStyle.Render(f.out))
		return nil
	}

	text, err := resp.Text()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

type generationMsg struct {
	resp llm.Response
	err  error
}

// generateModel shows a spinner while a single generation call runs.
type generateModel struct {
	spinner spinner.Model
	model   string
	ctx     context.Context
	cancel  context.CancelFunc
	run     func(context.Context) (llm.Response, error)
	resp    llm.Response
	err     error
	done    bool
}

func newGenerateModel(ctx context.Context, model string, run func(context.Context) (llm.Response, error)) generateModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))

	ctx, cancel := context.WithCancel(ctx)
	return generateModel{
		spinner: s,
		model:   model,
		ctx:     ctx,
		cancel:  cancel,
		run:     run,
	}
}

func (m generateModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.generate)
}

func (m generateModel) generate() tea.Msg {
	resp, err := m.run(m.ctx)
	return generationMsg{resp: resp, err: err}
}

func (m generateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case generationMsg:
		m.resp, m.err = msg.resp, msg.err
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			m.cancel()
			m.err = errInterrupted
			m.done = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m generateModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Generating with %s...\n", m.spinner.View(), nameStyle.Render(m.model))
}

func runWithSpinner(ctx context.Context, out io.Writer, model string, run func(context.Context) (llm.Response, error)) (llm.Response, error) {
	m := newGenerateModel(ctx, model, run)
	defer m.cancel()

	final, err := tea.NewProgram(m, tea.WithOutput(out)).Run()
	if err != nil {
		return nil, fmt.Errorf("error running program: %w", err)
	}
	fm := final.(generateModel)
	return fm.resp, fm.err
}
