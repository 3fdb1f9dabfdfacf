package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/clipcast/internal/domain/realign/entity"
	"github.com/vadim/clipcast/internal/domain/realign/policy"
	"github.com/vadim/clipcast/internal/httpx/response"
)

// RealignPolicy defines the interface for realignment operations
// Interface is defined by consumer (handler), not provider (policy)
type RealignPolicy interface {
	Realign(ctx context.Context, in policy.RealignInput) (*policy.RealignOutput, error)
	PreviewPlan(ctx context.Context, statuses []entity.PostStatus) (*policy.RealignOutput, error)
}

// RealignHandler handles HTTP requests for realignment runs
type RealignHandler struct {
	policy RealignPolicy
}

// NewRealignHandler creates a new realignment handler
func NewRealignHandler(p RealignPolicy) *RealignHandler {
	return &RealignHandler{policy: p}
}

// RegisterRoutes registers realignment routes
func (h *RealignHandler) RegisterRoutes(r chi.Router) {
	r.Route("/realign", func(r chi.Router) {
		r.Post("/", h.Run())
		r.Get("/preview", h.Preview())
	})
}

// RunRequest represents the request body for a realignment run
type RunRequest struct {
	Statuses []string `json:"statuses,omitempty"` // defaults to scheduled+draft
	DryRun   bool     `json:"dry_run,omitempty"`
}

// RunResponse represents the outcome of a realignment run
type RunResponse struct {
	RunID      string                  `json:"run_id"`
	DryRun     bool                    `json:"dry_run"`
	Plan       *entity.RealignPlan     `json:"plan"`
	Result     *entity.ExecutionResult `json:"result,omitempty"`
	ArchiveKey string                  `json:"archive_key,omitempty"`
}

// Run handles POST /realign
func (h *RealignHandler) Run() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RunRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				response.BadRequest(w, "invalid JSON")
				return
			}
		}

		statuses, err := parseStatuses(req.Statuses)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}

		out, err := h.policy.Realign(r.Context(), policy.RealignInput{
			Statuses: statuses,
			DryRun:   req.DryRun,
		})
		if err != nil {
			handleRealignError(w, err)
			return
		}

		response.OK(w, RunResponse{
			RunID:      out.RunID,
			DryRun:     req.DryRun,
			Plan:       out.Plan,
			Result:     out.Result,
			ArchiveKey: out.ArchiveKey,
		})
	}
}

// Preview handles GET /realign/preview?status=scheduled&status=draft
func (h *RealignHandler) Preview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses, err := parseStatuses(r.URL.Query()["status"])
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}

		out, err := h.policy.PreviewPlan(r.Context(), statuses)
		if err != nil {
			handleRealignError(w, err)
			return
		}

		response.OK(w, RunResponse{
			RunID:  out.RunID,
			DryRun: true,
			Plan:   out.Plan,
		})
	}
}

func parseStatuses(raw []string) ([]entity.PostStatus, error) {
	statuses := make([]entity.PostStatus, 0, len(raw))
	for _, s := range raw {
		status, err := entity.ParsePostStatus(s)
		if err != nil {
			return nil, errors.New("invalid status: " + s)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func handleRealignError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrMalformedPlan):
		response.InternalError(w, err.Error())
	default:
		// Everything else is an upstream store problem.
		response.BadGateway(w, err.Error())
	}
}
