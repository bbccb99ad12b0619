package cli

import (
	"context"
	"fmt"

	"talentmatch/internal/common"
	"talentmatch/internal/gateway"
	"talentmatch/internal/types"

	"github.com/spf13/cobra"
)

var postingsCmd = &cobra.Command{
	Use:   "postings",
	Short: "List published job postings",
	Long: `Fetch the published job postings from the configured HR data source
and print them. Use the posting IDs with the match command.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if postingsConfig.OutputFormat == "" {
			postingsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(postingsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runPostings,
}

var postingsConfig common.CommandConfig

func init() {
	postingsCmd.Flags().StringVarP(&postingsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	postingsCmd.Flags().StringVar(&postingsConfig.OutputFormat, "format", "", "Output format: json or text")
}

func runPostings(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	source := gateway.NewClient(cfg.Sources, logger)

	listOperation := func(ctx context.Context) ([]types.JobPosting, error) {
		return source.FetchPostings(ctx)
	}

	if err := common.RunOutputCommand(cmd.Context(), logger, postingsConfig, listOperation); err != nil {
		return fmt.Errorf("failed to list postings: %w", err)
	}
	return nil
}
