package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/santiagomed/llmutil/pkg/config"
	"github.com/santiagomed/llmutil/pkg/fs"
	"github.com/santiagomed/llmutil/pkg/llm"
	"github.com/santiagomed/llmutil/pkg/logger"
	"github.com/spf13/cobra"
)

const logFileName = "llmutil.log"

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBA08"))
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	faintStyle = lipgloss.NewStyle().Faint(true)
	labelStyle = lipgloss.NewStyle().Bold(true)
)

// modelCatalog is what the models commands need from a backend.
type modelCatalog interface {
	llm.ModelLister
	llm.ModelGetter
}

type app struct {
	fs     *fs.FileSystem
	cfg    *config.Config
	logger logger.Logger
	closer io.Closer

	configPath string
	logLevel   string
	logFile    bool

	newGenerator func(ctx context.Context, cfg *config.Config, l logger.Logger) (llm.Generator, error)
	newCatalog   func(ctx context.Context, cfg *config.Config, l logger.Logger) (modelCatalog, error)
}

func newApp() *app {
	return &app{
		fs:           fs.NewOsFileSystem(),
		logger:       logger.NewNullLogger(),
		newGenerator: llm.New,
		newCatalog:   newGeminiCatalog,
	}
}

func newGeminiCatalog(ctx context.Context, cfg *config.Config, l logger.Logger) (modelCatalog, error) {
	c, err := llm.NewGeminiClient(ctx, &llm.LlmConfig{APIKey: cfg.GeminiAPIKey, ModelName: cfg.ModelName}, l)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "llmutil",
		Short:         "llmutil is a CLI tool for prompt files and LLM text generation",
		Long:          `llmutil reads prompt files, sends them to Gemini or an OpenAI-compatible backend, and saves the replies as text files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Directory containing config.yaml")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&a.logFile, "log-file", false, "Write logs to ~/.llmutil/"+logFileName+" instead of stderr")

	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newPromptCmd(a))
	rootCmd.AddCommand(newPromptsCmd(a))
	rootCmd.AddCommand(newModelsCmd(a))
	return rootCmd
}

// setup loads .env and config.yaml, then builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(nil); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}

	var l logger.Logger
	if a.logFile {
		l, a.closer, err = logger.NewFile(logFileName, level)
	} else {
		l, err = logger.NewConsole(cmd.ErrOrStderr(), level)
	}
	if err != nil {
		return err
	}
	a.logger = l.WithField("command", cmd.Name())
	a.logger.Debug("Initializing llmutil CLI")
	return nil
}

func (a *app) close() {
	if a.closer != nil {
		a.closer.Close()
		a.closer = nil
	}
}

func Execute() {
	a := newApp()
	rootCmd := newRootCmd(a)
	err := rootCmd.ExecuteContext(context.Background())
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
