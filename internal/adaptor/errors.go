package adaptor

import (
	"errors"
	"net/http"

	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps a service error onto the response status. Domain
// errors are the caller's fault and log at Warn; the rest log at Error and
// hide their message.
func handleServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, operation string) {
	fields := []zap.Field{zap.Error(err), zap.String("operation", operation)}
	if id, ok := utils.GetRequestIDFromContext(r.Context()); ok {
		fields = append(fields, zap.String("request_id", id))
	}

	var conflict *usecase.ConflictError
	var insufficient *usecase.InsufficientSeatsError

	switch {
	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", fields...)
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.As(err, &conflict):
		log.Warn(operation+" failed - show time conflict", fields...)
		utils.ResponseConflict(w, err.Error(), map[string]int64{"conflicting_show_id": conflict.ShowID})

	case errors.As(err, &insufficient):
		log.Warn(operation+" failed - insufficient seats", fields...)
		utils.ResponseConflict(w, err.Error(), map[string]int{
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})

	case errors.Is(err, usecase.ErrDuplicate):
		log.Warn(operation+" failed - duplicate", fields...)
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrSeatUnavailable), errors.Is(err, usecase.ErrIntegrity):
		log.Warn(operation+" failed - conflict", fields...)
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrPriceMismatch):
		log.Warn(operation+" failed - price mismatch", fields...)
		utils.ResponseUnprocessable(w, err.Error())

	case errors.Is(err, usecase.ErrSeatNotOwned):
		log.Warn(operation+" failed - seat not owned", fields...)
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrNotFound), errors.Is(err, usecase.ErrSeatNotFound):
		log.Warn(operation+" failed - not found", fields...)
		utils.ResponseNotFound(w, err.Error())

	default:
		log.Error("Failed to "+operation, fields...)
		utils.ResponseInternalError(w, "Internal server error")
	}
}
