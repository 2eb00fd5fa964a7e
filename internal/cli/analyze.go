package cli

import (
	"context"
	"fmt"

	"resumatch/internal/common"
	"resumatch/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file> <job-description-file>",
	Short: "Score a resume against a job description",
	Long: `Analyze compares a resume with a job description and reports:

- A 0-100 match score split into skill match (0-50), semantic
  similarity (0-30) and ATS optimization (0-20)
- Matched skills and missing skills ranked by priority
- Job requirements the resume only weakly supports
- The best supporting resume sentence for each requirement
- Suggestions for improving the resume

Use --role and --seniority to boost the skills that matter most for the
target position. With --offline, or when no API key is configured, a local
hashed embedder replaces the hosted embedding model.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveFormat(cmd.Context(), &analyzeConfig.CommandConfig)
	},
	RunE: runAnalyze,
}

type analyzeFlags struct {
	common.CommandConfig
	Role      string
	Seniority string
	Offline   bool
}

var analyzeConfig analyzeFlags

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVar(&analyzeConfig.Role, "role", "", "Target role, e.g. \"data scientist\"")
	analyzeCmd.Flags().StringVar(&analyzeConfig.Seniority, "seniority", "", "Target seniority, e.g. \"senior\"")
	analyzeCmd.Flags().BoolVar(&analyzeConfig.Offline, "offline", false, "Use the local embedder and skip hosted models")

	_ = analyzeCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	rt, err := newRuntime(cfg, logger, runtimeOptions{offline: analyzeConfig.Offline})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	createInput := func(contents []string) (types.AnalysisInput, error) {
		if len(contents) != 2 {
			return types.AnalysisInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.AnalysisInput{
			ResumeText:     contents[0],
			JobDescription: contents[1],
			Role:           analyzeConfig.Role,
			Seniority:      analyzeConfig.Seniority,
		}, nil
	}

	logDetails := func(input types.AnalysisInput, cmdCfg common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"role", input.Role,
			"seniority", input.Seniority,
			"output_format", cmdCfg.OutputFormat)

		lex := rt.lexicons.Load()
		if unknown := common.UnknownHints(input.Role, input.Seniority, lex.Roles(), lex.SeniorityLevels()); len(unknown) > 0 {
			logger.Warn("No priority table for hint, no boost applied", "hints", unknown)
		}
	}

	analyze := func(ctx context.Context, input types.AnalysisInput) (*types.AnalysisResult, error) {
		return rt.engine.Analyze(ctx, input)
	}

	err = common.RunFileCommand(
		cmd.Context(),
		logger,
		analyzeConfig.CommandConfig,
		args,
		createInput,
		analyze,
		logDetails,
	)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}

// resolveFormat applies the configured default format and input size limit,
// then validates the format.
func resolveFormat(ctx context.Context, cmdCfg *common.CommandConfig) error {
	cfg := getConfigFromContext(ctx)
	cmdCfg.MaxInputBytes = cfg.App.MaxFileSize
	if cmdCfg.OutputFormat == "" {
		cmdCfg.OutputFormat = cfg.App.DefaultFormat
	}
	return common.ValidateOutputFormat(cmdCfg.OutputFormat, cfg.App.SupportedFormats)
}

func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg := getConfigFromContext(cmd.Context())
	return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
}
