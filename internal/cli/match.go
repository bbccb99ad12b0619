package cli

import (
	"context"
	"fmt"

	"talentmatch/internal/ai"
	"talentmatch/internal/common"
	"talentmatch/internal/config"
	"talentmatch/internal/errors"
	"talentmatch/internal/gateway"
	"talentmatch/internal/matching"
	"talentmatch/internal/resume"
	"talentmatch/internal/types"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [job-id]",
	Short: "Score sampled candidates against a job posting",
	Long: `Fetch the job posting and candidate list from the configured HR data
sources, score a sample of candidates against the posting with an AI model,
and print the ranked results. Stage changes and scheduling emails are not
triggered from this command; use the review session or the HTTP API for that.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if matchConfig.OutputFormat == "" {
			matchConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(matchConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runMatch,
}

var (
	matchConfig common.CommandConfig
	matchModel  string
)

func init() {
	matchCmd.Flags().StringVarP(&matchConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	matchCmd.Flags().StringVar(&matchConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	matchCmd.Flags().StringVarP(&matchModel, "model", "m", "", "Model to score with (default from config)")

	// Add completion for format flag
	_ = matchCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	jobID := args[0]
	model := matchModel
	if model == "" {
		model = cfg.AI.Model
	}

	matcher, err := buildMatcher(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting match run",
		"job_id", jobID,
		"model", model,
		"output_format", matchConfig.OutputFormat)

	matchOperation := func(ctx context.Context) ([]types.MatchResult, error) {
		return matcher.Match(ctx, jobID, model)
	}

	if err := common.RunOutputCommand(cmd.Context(), logger, matchConfig, matchOperation); err != nil {
		return fmt.Errorf("failed to run match: %w", err)
	}
	logger.Info("Match run completed successfully")
	return nil
}

// buildMatcher assembles the local matching pipeline. The CLI path runs
// without stage-advance, notification and metrics collaborators.
func buildMatcher(cfg *config.Config, logger *errors.Logger) (*matching.Matcher, error) {
	aiService, err := ai.NewService(&cfg.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI service: %w", err)
	}

	source := gateway.NewClient(cfg.Sources, logger)
	assessor := matching.NewAssessor(aiService.Provider, resume.NewExtractor(cfg.Resume, logger), logger)

	return matching.NewMatcher(source, assessor, nil, nil, nil, cfg.Matching, logger), nil
}
