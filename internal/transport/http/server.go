// package http exposes the change-request dashboard over HTTP.
// Handlers parse and validate query parameters, call the change-request
// service and encode its results as JSON.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/YusovID/pr-dashboard/internal/apperrors"
	"github.com/YusovID/pr-dashboard/internal/service"
	"github.com/YusovID/pr-dashboard/internal/validation"
	"github.com/YusovID/pr-dashboard/pkg/logger/sl"
	"github.com/YusovID/pr-dashboard/swagger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	codeInvalidRequest   = "INVALID_REQUEST"
	codeValidation       = "VALIDATION_ERROR"
	codeNoUser           = "NO_USER"
	codeListFailed       = "LIST_FAILED"
	codeGetFailed        = "GET_FAILED"
	codeReviewsFailed    = "REVIEWS_FAILED"
	codeInvalidWatermark = "INVALID_WATERMARK"
	codeNotFound         = "NOT_FOUND"
	codeInternal         = "INTERNAL"
)

type Server struct {
	log       *slog.Logger
	crService service.ChangeRequestService
}

func NewServer(log *slog.Logger, crs service.ChangeRequestService) *Server {
	return &Server{
		log:       log,
		crService: crs,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)
	mux.Use(middleware.Recoverer)

	swaggerHandler, err := swagger.GetHandler()
	if err != nil {
		s.log.Error("failed to get swagger handler", sl.Err(err))
	} else {
		mux.Mount("/swagger", http.StripPrefix("/swagger", swaggerHandler))
	}

	mux.Handle("/metrics", promhttp.Handler())

	mux.Get("/me", s.GetMe)
	mux.Get("/sync/watermarks", s.GetWatermarks)

	mux.Route("/repos/{owner}/{repo}/change-requests", func(r chi.Router) {
		r.Get("/", s.ListChangeRequests)
		r.Get("/closed", s.ListClosedChangeRequests)
		r.Get("/{number}", s.GetChangeRequest)
	})

	return mux
}

func (s *Server) ListChangeRequests(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.ListChangeRequests"

	params, err := parseListParams(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := validation.ValidateStruct(params); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	crs, err := s.crService.List(r.Context(), params.toDomain(), params.toQuery())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]changeRequestResponse{
		"change_requests": toChangeRequestsResponse(crs),
	})
}

func (s *Server) ListClosedChangeRequests(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.ListClosedChangeRequests"

	repo := parseRepoParams(r)
	if err := validation.ValidateStruct(repo); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	since, err := parseSince(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	crs, err := s.crService.ListClosed(r.Context(), repo.toDomain(), sinceQuery(since))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]changeRequestResponse{
		"change_requests": toChangeRequestsResponse(crs),
	})
}

func (s *Server) GetChangeRequest(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetChangeRequest"

	params, err := parseGetParams(r)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := validation.ValidateStruct(params); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	cr, err := s.crService.GetByID(r.Context(), params.toDomain())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]changeRequestResponse{
		"change_request": toChangeRequestResponse(*cr),
	})
}

func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetMe"

	user, err := s.crService.CurrentUser(r.Context())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]userResponse{"user": {Login: user.Login}})
}

func (s *Server) GetWatermarks(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetWatermarks"

	watermarks, err := s.crService.Watermarks(r.Context())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string][]watermarkResponse{
		"watermarks": toWatermarksResponse(watermarks),
	})
}

// respond encodes data as JSON with the given status code.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respond(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// handleServiceError logs err and maps it to a status code and error body.
func (s *Server) handleServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log := s.log.With(
		slog.String("op", op),
		slog.String("request_id", getRequestID(r.Context())),
	)

	var validationErr *validation.ValidationError

	switch {
	case errors.As(err, &validationErr):
		log.Warn("request rejected", sl.Err(err))
		s.respondError(w, http.StatusBadRequest, codeValidation, validationErr.Error())
	case errors.Is(err, apperrors.ErrInvalidRequest):
		log.Warn("request rejected", sl.Err(err))
		s.respondError(w, http.StatusBadRequest, codeInvalidRequest, err.Error())
	case errors.Is(err, apperrors.ErrNoUser):
		log.Warn("viewer unavailable", sl.Err(err))
		s.respondError(w, http.StatusUnauthorized, codeNoUser, apperrors.ErrNoUser.Error())
	case errors.Is(err, apperrors.ErrReviewsFailed):
		log.Error("provider error occurred", sl.Err(err))
		s.respondError(w, http.StatusBadGateway, codeReviewsFailed, apperrors.ErrReviewsFailed.Error())
	case errors.Is(err, apperrors.ErrListFailed):
		log.Error("provider error occurred", sl.Err(err))
		s.respondError(w, http.StatusBadGateway, codeListFailed, apperrors.ErrListFailed.Error())
	case errors.Is(err, apperrors.ErrGetFailed):
		log.Error("provider error occurred", sl.Err(err))
		s.respondError(w, http.StatusBadGateway, codeGetFailed, apperrors.ErrGetFailed.Error())
	case errors.Is(err, apperrors.ErrInvalidWatermark):
		log.Error("stored watermark is corrupt", sl.Err(err))
		s.respondError(w, http.StatusInternalServerError, codeInvalidWatermark, apperrors.ErrInvalidWatermark.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		s.respondError(w, http.StatusNotFound, codeNotFound, "resource not found")
	default:
		log.Error("service error occurred", sl.Err(err))
		s.respondError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
