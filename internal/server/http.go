package server

import (
	"context"
	"time"

	"talentmatch/internal/config"
	talentmatchErrors "talentmatch/internal/errors"
	"talentmatch/internal/types"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MatchRunner runs a scoring pass for one job posting
type MatchRunner interface {
	Match(ctx context.Context, jobID, model string) ([]types.MatchResult, error)
}

// InvitationSender composes and dispatches a scheduling invitation
type InvitationSender interface {
	SendInvitation(ctx context.Context, req types.InvitationRequest) (types.Invitation, error)
}

// PostingLister fetches the current job postings from the HR data source
type PostingLister interface {
	FetchPostings(ctx context.Context) ([]types.JobPosting, error)
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Core collaborators; left nil, they are built from AppConfig on Start
	Matcher   MatchRunner
	Scheduler InvitationSender
	Postings  PostingLister

	// Prompt hot-reload
	PromptWatcher *config.PromptWatcher

	validate *validator.Validate

	// Logger
	Logger *talentmatchErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *talentmatchErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		Logger:         logger,
	}
}
