package cli

import (
	"context"
	"fmt"

	"resumatch/internal/common"
	"resumatch/internal/types"

	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills <file>",
	Short: "List the canonical skills mentioned in a resume or job description",
	Long: `Skills extracts the skills mentioned in a text file using the skill
lexicon: surface forms such as "js" or "python3" are reported under their
canonical names ("JavaScript", "Python").`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveFormat(cmd.Context(), &skillsConfig)
	},
	RunE: runSkills,
}

var skillsConfig common.CommandConfig

func init() {
	skillsCmd.Flags().StringVarP(&skillsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	skillsCmd.Flags().StringVar(&skillsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = skillsCmd.RegisterFlagCompletionFunc("format", completeFormats)
}

func runSkills(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Extraction never touches a model.
	rt, err := newRuntime(cfg, logger, runtimeOptions{offline: true})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	createInput := func(contents []string) (types.SkillsInput, error) {
		if len(contents) != 1 {
			return types.SkillsInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return types.SkillsInput{Text: contents[0]}, nil
	}

	extract := func(_ context.Context, input types.SkillsInput) (types.SkillsOutput, error) {
		skills := rt.engine.ExtractSkills(input.Text)
		if skills == nil {
			skills = []string{}
		}
		return types.SkillsOutput{Skills: skills, Count: len(skills)}, nil
	}

	return common.RunFileCommand(cmd.Context(), logger, skillsConfig, args, createInput, extract, nil)
}
