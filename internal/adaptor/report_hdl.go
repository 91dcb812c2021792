package adaptor

import (
	"net/http"
	"time"

	"cinema-ticketing/internal/dto/request"
	"cinema-ticketing/internal/dto/response"
	"cinema-ticketing/internal/usecase"
	"cinema-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReportHandler struct {
	service usecase.ReportService
	log     *zap.Logger
}

func NewReportHandler(service usecase.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		log:     log.With(zap.String("handler", "report")),
	}
}

// TheatersShowingMovie handles GET /api/reports/movies/{id}/theaters?cinema_id=
func (h *ReportHandler) TheatersShowingMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseBadRequest(w, "Invalid movie ID", nil)
		return
	}

	var cinemaID int64
	if raw := r.URL.Query().Get("cinema_id"); raw != "" {
		if cinemaID, ok = utils.ParseID(raw); !ok {
			utils.ResponseBadRequest(w, "Invalid cinema ID", nil)
			return
		}
	}

	listings, err := h.service.TheatersShowingMovie(r.Context(), movieID, cinemaID)
	if err != nil {
		handleServiceError(w, r, h.log, err, "list theaters showing movie")
		return
	}

	utils.ResponseSuccess(w, "success", response.ShowListingsToResponse(listings))
}

// ShowsStartingAt handles GET /api/reports/shows?date=YYYY-MM-DD&time=HH:MM:SS
func (h *ReportHandler) ShowsStartingAt(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	date, err := utils.ParseDate(query.Get("date"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
		return
	}
	clock, err := utils.ParseClock(query.Get("time"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid time, expected HH:MM:SS", nil)
		return
	}

	listings, err := h.service.ShowsStartingAt(r.Context(), date.Add(clock))
	if err != nil {
		handleServiceError(w, r, h.log, err, "list shows by start time")
		return
	}

	utils.ResponseSuccess(w, "success", response.ShowListingsToResponse(listings))
}

// MovieShowsAtCinema handles GET /api/reports/cinemas/{id}/movies/{movieID}/shows?from=&to=
func (h *ReportHandler) MovieShowsAtCinema(w http.ResponseWriter, r *http.Request) {
	cinemaID, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseBadRequest(w, "Invalid cinema ID", nil)
		return
	}
	movieID, ok := utils.ParseID(chi.URLParam(r, "movieID"))
	if !ok {
		utils.ResponseBadRequest(w, "Invalid movie ID", nil)
		return
	}

	from, to, ok := parseRange(r)
	if !ok {
		utils.ResponseBadRequest(w, "Invalid date range, expected from and to as YYYY-MM-DD", nil)
		return
	}

	listings, err := h.service.MovieShowsAtCinema(r.Context(), cinemaID, movieID, from, to)
	if err != nil {
		handleServiceError(w, r, h.log, err, "list movie shows at cinema")
		return
	}

	utils.ResponseSuccess(w, "success", response.ShowListingsToResponse(listings))
}

// UsersWithPendingBookings handles GET /api/reports/users/pending
func (h *ReportHandler) UsersWithPendingBookings(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.UsersWithPendingBookings(r.Context())
	if err != nil {
		handleServiceError(w, r, h.log, err, "list users with pending bookings")
		return
	}

	utils.ResponseSuccess(w, "success", response.UsersToResponse(users))
}

// BookingsForUser handles GET /api/reports/users/{id}/bookings?page=&per_page=
func (h *ReportHandler) BookingsForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.ParseID(chi.URLParam(r, "id"))
	if !ok {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	bookings, err := h.service.BookingsForUser(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, r, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// parseRange reads from and to; a missing to means the same day as from.
// MoviesByTitleReleasedAfter handles GET /api/reports/movies?title=&released_after=YYYY-MM-DD
func (h *ReportHandler) MoviesByTitleReleasedAfter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.MoviesByTitleRequest{
		Title:         query.Get("title"),
		ReleasedAfter: query.Get("released_after"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}
	after, _ := utils.ParseDate(req.ReleasedAfter)

	movies, err := h.service.MoviesByTitleReleasedAfter(r.Context(), req.Title, after)
	if err != nil {
		handleServiceError(w, r, h.log, err, "list movies by title")
		return
	}

	utils.ResponseSuccess(w, "success", response.MoviesToResponse(movies))
}

func parseRange(r *http.Request) (time.Time, time.Time, bool) {
	query := r.URL.Query()

	from, err := utils.ParseDate(query.Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if query.Get("to") == "" {
		return from, from, true
	}
	to, err := utils.ParseDate(query.Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
