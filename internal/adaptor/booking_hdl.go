package adaptor

import (
	"encoding/json"
	"net/http"

	"cinema-ticketing/internal/data/entity"
	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service   usecase.BookingService
	inventory usecase.InventoryService
	log       *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, inventory usecase.InventoryService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service:   service,
		inventory: inventory,
		log:       log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	status := entity.BookingStatusPending
	if req.Status != "" {
		// oneof=Pending Paid already held
		status, _ = entity.ParseBookingStatus(req.Status)
	}

	booking, seats, err := h.service.CreateBooking(r.Context(), usecase.CreateBookingInput{
		UserID:    req.UserID,
		ShowID:    req.ShowID,
		SeatCount: req.SeatCount,
		Status:    status,
	})
	if err != nil {
		handleServiceError(w, r, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", response.BookingToResponse(booking, seats))
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	booking, seats, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, r, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", response.BookingToResponse(booking, seats))
}

// CancelBooking handles POST /api/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	if err := h.service.CancelBooking(r.Context(), bookingID); err != nil {
		handleServiceError(w, r, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// SwapSeat handles POST /api/bookings/{id}/swap
func (h *BookingHandler) SwapSeat(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	var req request.SwapSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	seats, err := h.inventory.Swap(r.Context(), bookingID, req.From, req.To)
	if err != nil {
		handleServiceError(w, r, h.log, err, "swap seat")
		return
	}

	utils.ResponseSuccess(w, "success", response.ShowSeatsToResponse(seats))
}

// RemovePayment handles DELETE /api/bookings/{id}/payment
func (h *BookingHandler) RemovePayment(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	if err := h.service.RemovePayment(r.Context(), bookingID); err != nil {
		handleServiceError(w, r, h.log, err, "remove payment")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ==================== ADMIN METHODS ====================

// CancelAllPending handles POST /api/admin/bookings/cancel-pending
func (h *BookingHandler) CancelAllPending(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CancelAllPending(r.Context())
	h.writeBatch(w, r, result, err, "cancel pending bookings")
}

// ClearCancelled handles POST /api/admin/bookings/clear-cancelled
func (h *BookingHandler) ClearCancelled(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ClearCancelledBookings(r.Context())
	h.writeBatch(w, r, result, err, "clear cancelled bookings")
}

// writeBatch reports per-booking outcomes. Failures of individual bookings
// still answer 200 with the failures listed; only a failure before any
// booking was processed is an error response.
func (h *BookingHandler) writeBatch(w http.ResponseWriter, r *http.Request, result *usecase.BatchResult, err error, operation string) {
	if result == nil {
		handleServiceError(w, r, h.log, err, operation)
		return
	}
	if err != nil {
		h.log.Warn(operation+" finished with failures", zap.Error(err))
	}

	resp := response.BatchResponse{
		Succeeded: result.Succeeded,
		Skipped:   result.Skipped,
		Failed:    make([]response.BatchFailureResponse, len(result.Failed)),
	}
	for i, f := range result.Failed {
		resp.Failed[i] = response.BatchFailureResponse{BookingID: f.BookingID, Error: f.Err.Error()}
	}

	utils.ResponseSuccess(w, "success", resp)
}

func (h *BookingHandler) bookingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
	}
	return id, ok
}
