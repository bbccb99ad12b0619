package cli

import (
	"context"
	"fmt"

	"talentmatch/internal/common"
	"talentmatch/internal/scheduling"
	"talentmatch/internal/types"

	"github.com/spf13/cobra"
)

var inviteCmd = &cobra.Command{
	Use:   "invite",
	Short: "Send a scheduling invitation to a candidate",
	Long: `Generate a single-use scheduling link for a candidate and compose the
invitation email. Dispatch over SMTP only happens when smtp.dispatchEnabled is
set; otherwise the composed invitation is printed without sending.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if inviteConfig.OutputFormat == "" {
			inviteConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(inviteConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runInvite,
}

var (
	inviteConfig  common.CommandConfig
	inviteRequest types.InvitationRequest
)

func init() {
	inviteCmd.Flags().StringVarP(&inviteConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	inviteCmd.Flags().StringVar(&inviteConfig.OutputFormat, "format", "", "Output format: json or text")
	inviteCmd.Flags().StringVar(&inviteRequest.CandidateID, "candidate-id", "", "Candidate identifier (required)")
	inviteCmd.Flags().StringVar(&inviteRequest.CandidateName, "name", "", "Candidate name (required)")
	inviteCmd.Flags().StringVar(&inviteRequest.CandidateEmail, "email", "", "Candidate email address (required)")
	inviteCmd.Flags().StringVar(&inviteRequest.JobTitle, "job-title", "", "Job title for the invitation (required)")

	for _, flag := range []string{"candidate-id", "name", "email", "job-title"} {
		if err := inviteCmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}
}

func runInvite(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	mailer := scheduling.NewMailer(cfg.SMTP, logger)
	scheduler := scheduling.NewService(cfg.Scheduling, mailer, logger)

	logger.Info("Sending scheduling invitation",
		"candidate_id", inviteRequest.CandidateID,
		"job_title", inviteRequest.JobTitle)

	inviteOperation := func(ctx context.Context) (types.Invitation, error) {
		return scheduler.SendInvitation(ctx, inviteRequest)
	}

	if err := common.RunOutputCommand(cmd.Context(), logger, inviteConfig, inviteOperation); err != nil {
		return fmt.Errorf("failed to send invitation: %w", err)
	}
	return nil
}
