package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/matchdayhq/tournament-engine/internal/domain/schedule"
	"github.com/matchdayhq/tournament-engine/internal/domain/tournament"
	"github.com/matchdayhq/tournament-engine/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "tournament-engine"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

type errorMapping struct {
	sentinel error
	mapped   mappedError
}

// errorMappings translates domain sentinels into transport codes. The first
// matching sentinel wins.
var errorMappings = []errorMapping{
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{schedule.ErrConfiguration, mappedError{http.StatusBadRequest, "invalidConfiguration", "INVALID_ARGUMENT"}},
	{schedule.ErrSeeding, mappedError{http.StatusBadRequest, "invalidSeeding", "INVALID_ARGUMENT"}},
	{schedule.ErrInsufficientTeams, mappedError{http.StatusBadRequest, "insufficientTeams", "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{schedule.ErrIncompleteRound, mappedError{http.StatusConflict, "incompleteRound", "FAILED_PRECONDITION"}},
	{schedule.ErrAlreadyComplete, mappedError{http.StatusConflict, "alreadyComplete", "FAILED_PRECONDITION"}},
	{tournament.ErrStaleRound, mappedError{http.StatusConflict, "staleRound", "ABORTED"}},
	{usecase.ErrConflict, mappedError{http.StatusConflict, "conflictingState", "FAILED_PRECONDITION"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
}

var internalError = mappedError{http.StatusInternalServerError, "internalError", "INTERNAL"}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	writeJSON(ctx, w, mapped.HTTPStatus, errorEnvelope(mapped, err.Error()))
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, internalError.HTTPStatus, errorEnvelope(internalError, "internal server error"))
}

func errorEnvelope(mapped mappedError, message string) googleResponseEnvelope {
	return googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors: []googleErrorItem{{
				Domain:  errorDomain,
				Reason:  mapped.Reason,
				Message: message,
			}},
		},
	}
}

func mapError(ctx context.Context, err error) mappedError {
	ctx, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	for _, mapping := range errorMappings {
		if errors.Is(err, mapping.sentinel) {
			return mapping.mapped
		}
	}

	return internalError
}
