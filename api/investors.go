package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"investor-lab/domain"
	errs "investor-lab/errors"
	"investor-lab/projection"
	"investor-lab/services"
	"investor-lab/sink"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/lo"
)

const maxBodySize = 64 << 10 // 64KB

type InvestorRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type InvestorPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type FilterRequest struct {
	Term string `json:"term"`
}

type InvestorResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type AppDeps struct {
	Investors services.IInvestorService
	View      *projection.FilteredView
	History   *sink.HistorySink // optional; /changes is not mounted when nil
	Log       *slog.Logger
}

func NewInvestorHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/investors", handleListInvestors(deps))
	r.Post("/investors", handleAddInvestor(deps))
	r.Get("/investors/visible", handleVisibleInvestors(deps))
	r.Get("/investors/{id}", handleGetInvestor(deps))
	r.Patch("/investors/{id}", handleUpdateInvestor(deps))
	r.Delete("/investors/{id}", handleDeleteInvestor(deps))
	r.Get("/filter", handleGetFilter(deps))
	r.Put("/filter", handleSetFilter(deps))
	if deps.History != nil {
		r.Get("/changes", handleListChanges(deps))
	}

	return r
}

func handleListInvestors(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		investors := projection.Filter(deps.Investors.Investors(), r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, toResponses(investors))
	}
}

func handleVisibleInvestors(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toResponses(deps.View.Visible()))
	}
}

func handleGetInvestor(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		investor, ok := deps.Investors.Get(id)
		if !ok {
			httpError(w, http.StatusNotFound, "not_found", "investor %q not found", id)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(investor))
	}
}

func handleAddInvestor(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InvestorRequest
		if !decodeBody(w, r, &req) {
			return
		}
		investor, err := deps.Investors.Add(domain.InvestorInput{Name: req.Name, Description: req.Description})
		if err != nil {
			mutationError(w, deps.Log, err)
			return
		}
		writeJSON(w, http.StatusCreated, toResponse(investor))
	}
}

func handleUpdateInvestor(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req InvestorPatchRequest
		if !decodeBody(w, r, &req) {
			return
		}
		investor, found, err := deps.Investors.Update(id, domain.InvestorPatch{Name: req.Name, Description: req.Description})
		if !found {
			httpError(w, http.StatusNotFound, "not_found", "investor %q not found", id)
			return
		}
		if err != nil {
			mutationError(w, deps.Log, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(investor))
	}
}

func handleDeleteInvestor(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		found, err := deps.Investors.Delete(id)
		if !found {
			httpError(w, http.StatusNotFound, "not_found", "investor %q not found", id)
			return
		}
		if err != nil {
			mutationError(w, deps.Log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleGetFilter(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, FilterRequest{Term: deps.Investors.FilterTerm()})
	}
}

func handleSetFilter(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FilterRequest
		if !decodeBody(w, r, &req) {
			return
		}
		deps.Investors.SetFilterTerm(req.Term)
		writeJSON(w, http.StatusOK, toResponses(deps.View.Visible()))
	}
}

func handleListChanges(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.History.Recent())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func mutationError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, errs.ErrInvalidInvestor):
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
	case errors.Is(err, errs.ErrPersistence):
		log.Error("Mutation not persisted", "error", err)
		httpError(w, http.StatusServiceUnavailable, "storage_error", "%v", err)
	default:
		log.Error("Mutation failed", "error", err)
		httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
	}
}

func toResponses(investors []domain.ExternalInvestor) []InvestorResponse {
	return lo.Map(investors, func(item domain.ExternalInvestor, _ int) InvestorResponse {
		return toResponse(item)
	})
}

func toResponse(investor domain.ExternalInvestor) InvestorResponse {
	return InvestorResponse{
		ID:          investor.ID,
		Name:        investor.Name,
		Description: investor.Description,
		CreatedAt:   investor.CreatedAt,
		UpdatedAt:   investor.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"message": fmt.Sprintf(format, args...),
			"type":    errType,
		},
	})
}
