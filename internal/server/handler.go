package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	talentmatchErrors "talentmatch/internal/errors"
	"talentmatch/internal/observability"
	"talentmatch/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createMatchHandler wraps the match handler with observability
func (s *Server) createMatchHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentmatch.api")
		ctx, span := tracer.Start(ctx, "api.match")
		defer span.End()

		var req types.MatchRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.validate.Struct(req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.job_id", req.JobID),
			attribute.String("request.model", req.ModelName),
			attribute.String("operation", "match"),
		)

		metrics := om.GetMetrics()
		var results []types.MatchResult
		err := metrics.TrackOperation(ctx, "match", func(ctx context.Context) error {
			var matchErr error
			results, matchErr = s.Matcher.Match(ctx, req.JobID, req.ModelName)
			return matchErr
		})

		if err != nil {
			span.RecordError(err)
			var appErr *talentmatchErrors.AppError
			if errors.As(err, &appErr) && appErr.Code == talentmatchErrors.ErrCodeJobNotFound {
				span.SetAttributes(attribute.String("error.type", "not_found"))
				writeErrorResponse(w, "Job posting not found", err.Error(), http.StatusNotFound)
				return
			}
			span.SetAttributes(attribute.String("error.type", "match_failed"))
			writeErrorResponse(w, "Failed to run match", err.Error(), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.results", len(results)),
		)

		if results == nil {
			results = []types.MatchResult{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(results); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createInvitationHandler wraps the scheduling invitation handler with observability
func (s *Server) createInvitationHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("talentmatch.api")
		ctx, span := tracer.Start(ctx, "api.invite")
		defer span.End()

		var req types.InvitationRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.validate.Struct(req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.candidate_id", req.CandidateID),
			attribute.String("request.job_title", req.JobTitle),
			attribute.String("operation", "invite"),
		)

		metrics := om.GetMetrics()
		var invitation types.Invitation
		err := metrics.TrackOperation(ctx, "invite", func(ctx context.Context) error {
			var sendErr error
			invitation, sendErr = s.Scheduler.SendInvitation(ctx, req)
			return sendErr
		})

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "notification"))
			metrics.RecordBusinessMetric(ctx, "notification_sent", false, om)
			writeErrorResponse(w, "Failed to send invitation", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "notification_sent", true, om)

		span.SetAttributes(attribute.Bool("success", true))

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(invitation); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createPostingsHandler wraps the posting listing handler with observability
func (s *Server) createPostingsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := r.Context()
		tracer := om.Tracer("talentmatch.api")
		ctx, span := tracer.Start(ctx, "api.postings")
		defer span.End()

		postings, err := s.Postings.FetchPostings(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "upstream"))
			writeErrorResponse(w, "Failed to fetch postings", err.Error(), http.StatusBadGateway)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.postings", len(postings)),
		)

		if postings == nil {
			postings = []types.JobPosting{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(postings); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
