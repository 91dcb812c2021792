package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ShowHandler struct {
	schedule  usecase.ScheduleService
	inventory usecase.InventoryService
	log       *zap.Logger
}

func NewShowHandler(schedule usecase.ScheduleService, inventory usecase.InventoryService, log *zap.Logger) *ShowHandler {
	return &ShowHandler{
		schedule:  schedule,
		inventory: inventory,
		log:       log.With(zap.String("handler", "show")),
	}
}

// ScheduleShow handles POST /api/shows
func (h *ShowHandler) ScheduleShow(w http.ResponseWriter, r *http.Request) {
	var req request.ScheduleShowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	// formats were checked by the validator
	date, _ := utils.ParseDate(req.Date)
	start, _ := utils.ParseClock(req.StartTime)

	show, err := h.schedule.ScheduleShow(r.Context(), usecase.ScheduleShowInput{
		TheaterID:       req.TheaterID,
		MovieID:         req.MovieID,
		Date:            date,
		Start:           start,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		handleServiceError(w, r, h.log, err, "schedule show")
		return
	}

	utils.ResponseCreated(w, "success", response.ShowToResponse(show))
}

// RemoveShows handles DELETE /api/cinemas/{id}/shows?date=YYYY-MM-DD&cascade=true
func (h *ShowHandler) RemoveShows(w http.ResponseWriter, r *http.Request) {
	cinemaID, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseBadRequest(w, "Invalid cinema ID", nil)
		return
	}

	query := r.URL.Query()
	req := request.RemoveShowsRequest{Date: query.Get("date")}
	if raw := query.Get("cascade"); raw != "" {
		cascade, err := strconv.ParseBool(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid cascade flag", nil)
			return
		}
		req.Cascade = cascade
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}
	date, _ := utils.ParseDate(req.Date)

	result, err := h.schedule.RemoveShowsOnDate(r.Context(), cinemaID, date, req.Cascade)
	if err != nil {
		handleServiceError(w, r, h.log, err, "remove shows")
		return
	}

	utils.ResponseSuccess(w, "success", response.RemoveShowsResponse{
		ShowIDs:             result.ShowIDs,
		CancelledBookingIDs: result.CancelledBookingIDs,
		DeletedBookings:     result.DeletedBookings,
		DeletedSeats:        result.DeletedSeats,
	})
}

// ListAvailableSeats handles GET /api/shows/{id}/seats
func (h *ShowHandler) ListAvailableSeats(w http.ResponseWriter, r *http.Request) {
	showID, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseBadRequest(w, "Invalid show ID", nil)
		return
	}

	seats, err := h.inventory.ListAvailable(r.Context(), showID)
	if err != nil {
		handleServiceError(w, r, h.log, err, "list available seats")
		return
	}

	utils.ResponseSuccess(w, "success", response.ShowSeatsToResponse(seats))
}
