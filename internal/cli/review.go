package cli

import (
	"fmt"
	"time"

	"talentmatch/internal/ats"
	"talentmatch/internal/review"

	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Interactively review match results",
	Long: `Start an interactive review session against a running talentmatch server.
Pick a job posting, run a match, then walk through the scored candidates:
advance a candidate (moves them to the next pipeline stage and sends the
scheduling invitation), reject them, or edit the assessment text. Review
decisions live only for the session.`,
	RunE: runReview,
}

var (
	reviewServerURL string
	reviewAPIKey    string
	reviewModel     string
	reviewTimeout   time.Duration
)

func init() {
	reviewCmd.Flags().StringVar(&reviewServerURL, "server", "", "Base URL of the talentmatch server (default from config)")
	reviewCmd.Flags().StringVar(&reviewAPIKey, "api-key", "", "API key for the server (default: first configured key)")
	reviewCmd.Flags().StringVarP(&reviewModel, "model", "m", "", "Default model to score with (default from config)")
	reviewCmd.Flags().DurationVar(&reviewTimeout, "timeout", 5*time.Minute, "Per-request timeout (match runs can be slow)")
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	serverURL := reviewServerURL
	if serverURL == "" {
		serverURL = fmt.Sprintf("http://%s:%s", cfg.Server.Host, cfg.Server.Port)
	}
	apiKey := reviewAPIKey
	if apiKey == "" && len(cfg.Server.APIKeys) > 0 {
		apiKey = cfg.Server.APIKeys[0]
	}
	model := reviewModel
	if model == "" {
		model = cfg.AI.Model
	}

	api := review.NewClient(serverURL, apiKey, reviewTimeout, logger)
	advancer := ats.NewClient(cfg.ATS, logger)

	logger.Info("Starting review session", "server", serverURL, "model", model)
	return review.NewSession(api, advancer, model, logger).Run(cmd.Context())
}
